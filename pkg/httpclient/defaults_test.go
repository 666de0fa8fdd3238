package httpclient

import (
	"strings"
	"testing"
)

func TestQualityEncoded(t *testing.T) {
	got := qualityEncoded([]string{"a", "b", "c"})
	if got != "a;q=1.0, b;q=0.9, c;q=0.8" {
		t.Fatalf("qualityEncoded = %q", got)
	}
}

func TestAcceptLanguage(t *testing.T) {
	got := AcceptLanguage([]string{"EN-us", "fr", "en-US", "!!", "de", "es", "it", "pt", "nl"})
	want := "en-US;q=1.0, fr;q=0.9, de;q=0.8, es;q=0.7, it;q=0.6, pt;q=0.5"
	if got != want {
		t.Fatalf("AcceptLanguage = %q, want %q", got, want)
	}
	if got := AcceptLanguage(nil); got != "en;q=1.0" {
		t.Fatalf("fallback = %q", got)
	}
}

func TestPreferredLanguagesFromEnv(t *testing.T) {
	t.Setenv("LANGUAGE", "pt_BR:pt")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "C")
	t.Setenv("LANG", "fr_CA.UTF-8")

	got := strings.Join(PreferredLanguages(), ",")
	if got != "pt-BR,pt,fr-CA" {
		t.Fatalf("PreferredLanguages = %q", got)
	}
}

func TestUserAgentFallbacks(t *testing.T) {
	ua := UserAgent(AppInfo{})
	if !strings.HasPrefix(ua, "Unknown/0.0 (Unknown; build:-1; ") {
		t.Fatalf("UserAgent = %q", ua)
	}
	if !strings.HasSuffix(ua, ") "+libraryName) {
		t.Fatalf("UserAgent should end with library name: %q", ua)
	}
}
