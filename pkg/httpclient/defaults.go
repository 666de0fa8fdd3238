package httpclient

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

const (
	libraryName         = "samvad-httpkit"
	maxAcceptLanguages  = 6
	fallbackLanguageTag = "en"
)

// supportedEncodings lists response encodings the default transport can decode,
// most preferred first.
var supportedEncodings = []string{"gzip", "deflate"}

// AppInfo identifies the calling application in the User-Agent header.
type AppInfo struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Bundle  string `mapstructure:"bundle"`
	Build   string `mapstructure:"build"`
}

// DefaultAppInfo derives application identity from the running executable.
func DefaultAppInfo() AppInfo {
	name := "Unknown"
	if len(os.Args) > 0 && os.Args[0] != "" {
		name = filepath.Base(os.Args[0])
	}
	return AppInfo{Name: name}
}

// DefaultHeaders builds the Accept-Encoding, Accept-Language and User-Agent
// headers injected into every request unless the config opts out.
func DefaultHeaders(cfg Config) *Headers {
	langs := cfg.AcceptLanguages
	if len(langs) == 0 {
		langs = PreferredLanguages()
	}
	return NewHeaders(
		Header{Name: "Accept-Encoding", Value: qualityEncoded(supportedEncodings)},
		Header{Name: "Accept-Language", Value: AcceptLanguage(langs)},
		Header{Name: "User-Agent", Value: UserAgent(cfg.App)},
	)
}

// qualityEncoded renders values as "a;q=1.0, b;q=0.9, ..." in the given order.
func qualityEncoded(values []string) string {
	parts := make([]string, 0, len(values))
	for i, v := range values {
		q := 1.0 - float64(i)*0.1
		parts = append(parts, v+";q="+strconv.FormatFloat(q, 'f', 1, 64))
	}
	return strings.Join(parts, ", ")
}

// AcceptLanguage canonicalises up to six BCP 47 tags and quality-encodes them.
// Unparseable tags are skipped.
func AcceptLanguage(tags []string) string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, maxAcceptLanguages)
	for _, raw := range tags {
		tag, err := language.Parse(strings.TrimSpace(raw))
		if err != nil || tag == language.Und {
			continue
		}
		s := tag.String()
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) == maxAcceptLanguages {
			break
		}
	}
	if len(out) == 0 {
		out = append(out, fallbackLanguageTag)
	}
	return qualityEncoded(out)
}

// PreferredLanguages reads the locale preferences from the POSIX environment
// (LANGUAGE, LC_ALL, LC_MESSAGES, LANG) in priority order.
func PreferredLanguages() []string {
	var out []string
	if v := os.Getenv("LANGUAGE"); v != "" {
		for _, part := range strings.Split(v, ":") {
			if tag := posixLocaleTag(part); tag != "" {
				out = append(out, tag)
			}
		}
	}
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if tag := posixLocaleTag(os.Getenv(key)); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// posixLocaleTag turns "fr_CA.UTF-8@euro" into "fr-CA".
func posixLocaleTag(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || locale == "C" || locale == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(locale, "_", "-")
}

// UserAgent composes "<app>/<version> (<bundle>; build:<build>; <os> <version>) samvad-httpkit".
func UserAgent(app AppInfo) string {
	var b strings.Builder
	b.WriteString(orDefault(app.Name, "Unknown"))
	b.WriteString("/")
	b.WriteString(orDefault(app.Version, "0.0"))
	b.WriteString(" (")
	b.WriteString(orDefault(app.Bundle, "Unknown"))
	b.WriteString("; build:")
	b.WriteString(orDefault(app.Build, "-1"))
	b.WriteString("; ")
	b.WriteString(osName())
	if v := osVersion(); v != "" {
		b.WriteString(" ")
		b.WriteString(v)
	}
	b.WriteString(") ")
	b.WriteString(libraryName)
	return b.String()
}

func osName() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS"
	case "ios":
		return "iOS"
	case "linux":
		return "Linux"
	case "windows":
		return "Windows"
	case "freebsd", "netbsd", "openbsd":
		return strings.ToUpper(runtime.GOOS[:1]) + runtime.GOOS[1:]
	default:
		return "Unknown"
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
