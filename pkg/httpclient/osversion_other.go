//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package httpclient

func osVersion() string { return "" }
