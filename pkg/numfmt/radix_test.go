package numfmt

import "testing"

func TestRadixFormat(t *testing.T) {
	base36, err := NewRadix(36)
	if err != nil {
		t.Fatalf("NewRadix: %v", err)
	}
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"binary", Format(Binary, 0b10011111), "10011111"},
		{"octal", Format(Octal, 0o234), "234"},
		{"hexadecimal", Format(Hex, 0x80FF00), "80ff00"},
		{"uppercased", Format(Hex.Uppercased(), 0x80FF00), "80FF00"},
		{"custom prefix", Format(Hex.WithPrefix("#"), 0x80FF00), "#80ff00"},
		{"hexadecimal prefixed", Format(Hex.Prefixed(), 0x80FF00), "0x80ff00"},
		{"octal prefixed", Format(Octal.Prefixed(), 0o234), "0o234"},
		{"binary prefixed", Format(Binary.Prefixed(), 0b10011111), "0b10011111"},
		{"unknown prefixed", Format(base36.Prefixed(), 150), "46"},
		{"pad", Format(Hex.PadTo(4), 0x0044), "0044"},
		{"pad shorter than value", Format(Hex.PadTo(2), 0xABCD), "abcd"},
		{"pad with prefix", Format(Hex.Prefixed().PadTo(4), byte(0xF)), "0x000f"},
		{"unsigned max", Format(Hex, ^uint64(0)), "ffffffffffffffff"},
		{"negative", Format(Hex, -255), "-ff"},
		{"zero value radix", Format(Radix{}, 42), "42"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestNewRadixRejectsOutOfRange(t *testing.T) {
	for _, base := range []int{-1, 0, 1, 37} {
		if _, err := NewRadix(base); err == nil {
			t.Fatalf("expected error for radix %d", base)
		}
	}
}

func TestIsHexadecimal(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"1234567890", true},
		{"abcdef", true},
		{"ABCDEF", true},
		{"0x123456", false},
		{"0X123456", false},
		{"z", false},
		{"12 34", false},
	}
	for _, tt := range tests {
		if got := IsHexadecimal(tt.in); got != tt.want {
			t.Fatalf("IsHexadecimal(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
