package numfmt

import (
	"fmt"
	"strconv"
	"strings"
)

// Integer is any built-in integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Radix renders integers in a base between 2 and 36. Its methods return
// modified copies.
type Radix struct {
	base      int
	prefix    string
	uppercase bool
	padding   int
}

var (
	Binary = Radix{base: 2}
	Octal  = Radix{base: 8}
	Hex    = Radix{base: 16}
)

// NewRadix returns a style for base.
func NewRadix(base int) (Radix, error) {
	if base < 2 || base > 36 {
		return Radix{}, fmt.Errorf("numfmt: radix %d out of range 2...36", base)
	}
	return Radix{base: base}, nil
}

func (r Radix) Base() int { return r.base }

// Uppercased uses upper-case digits above 9.
func (r Radix) Uppercased() Radix {
	r.uppercase = true
	return r
}

// Prefixed adds the conventional prefix for binary, octal and hex. Other
// bases are returned unchanged.
func (r Radix) Prefixed() Radix {
	switch r.base {
	case 2:
		return r.WithPrefix("0b")
	case 8:
		return r.WithPrefix("0o")
	case 16:
		return r.WithPrefix("0x")
	}
	return r
}

func (r Radix) WithPrefix(prefix string) Radix {
	r.prefix = prefix
	return r
}

// PadTo left-pads the digits with zeros up to n characters. The prefix is
// not counted.
func (r Radix) PadTo(n int) Radix {
	r.padding = n
	return r
}

// Format renders v. A zero Radix formats in base 10.
func Format[T Integer](r Radix, v T) string {
	base := r.base
	if base == 0 {
		base = 10
	}
	var s string
	if v < 0 {
		s = strconv.FormatInt(int64(v), base)
	} else {
		s = strconv.FormatUint(uint64(v), base)
	}
	if r.uppercase {
		s = strings.ToUpper(s)
	}
	if pad := r.padding - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return r.prefix + s
}
