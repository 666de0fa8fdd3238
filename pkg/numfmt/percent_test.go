package numfmt

import (
	"encoding/json"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestPercentString(t *testing.T) {
	tests := []struct {
		in   Percent
		want string
	}{
		{Zero, "0%"},
		{Of(25), "25%"},
		{Of(12.5), "12.5%"},
		{Ratio(1, 3), "33.33%"},
		{Ratio(2, 3), "66.67%"},
		{Of(-0.001), "0%"},
		{Of(150), "150%"},
		{Ratio(5, 0), "0%"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Fatalf("%v: got %q, want %q", tt.in.Value, got, tt.want)
		}
	}
}

func TestPercentArithmetic(t *testing.T) {
	a, b := Of(50), Of(20)
	if got := a.Add(b); got.String() != "70%" {
		t.Fatalf("add = %s", got)
	}
	if got := a.Sub(b); got.String() != "30%" {
		t.Fatalf("sub = %s", got)
	}
	if got := a.Mul(b); got.String() != "10%" {
		t.Fatalf("mul = %s", got)
	}
	if got := a.Neg(); got.String() != "-50%" {
		t.Fatalf("neg = %s", got)
	}
	if !b.Less(a) || a.Less(b) {
		t.Fatalf("ordering wrong")
	}
	if a.Add(Zero) != a {
		t.Fatalf("zero should be additive identity")
	}
}

func TestPercentJSONIsNumber(t *testing.T) {
	out, err := json.Marshal(map[string]Percent{"rate": Of(25)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"rate":0.25}` {
		t.Fatalf("got %s", out)
	}

	var back struct{ Rate Percent }
	if err := json.Unmarshal([]byte(`{"Rate":0.125}`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Rate != Of(12.5) {
		t.Fatalf("decoded %v", back.Rate.Value)
	}
	if err := json.Unmarshal([]byte(`{"Rate":"12%"}`), &back); err == nil {
		t.Fatalf("expected error decoding a string")
	}
}

func TestPercentFormatLocale(t *testing.T) {
	got := Of(50).Format(language.English)
	if !strings.HasPrefix(got, "50") || !strings.HasSuffix(got, "%") {
		t.Fatalf("english format = %q", got)
	}
}
