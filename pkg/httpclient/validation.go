package httpclient

import (
	"fmt"
	"strconv"
	"strings"
)

// StatusRange is the half-open status interval [Min, Max).
type StatusRange struct {
	Min int
	Max int
}

// Contains reports whether code lies in the range.
func (r StatusRange) Contains(code int) bool { return code >= r.Min && code < r.Max }

func (r StatusRange) String() string { return fmt.Sprintf("[%d, %d)", r.Min, r.Max) }

// ParseStatusRange accepts "200-300" (half-open), "2xx" or a single code "204".
func ParseStatusRange(s string) (StatusRange, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 3 && strings.HasSuffix(s, "xx") {
		d, err := strconv.Atoi(s[:1])
		if err != nil || d < 1 || d > 5 {
			return StatusRange{}, fmt.Errorf("invalid status class %q", s)
		}
		return StatusRange{Min: d * 100, Max: (d + 1) * 100}, nil
	}
	if lo, hi, ok := strings.Cut(s, "-"); ok {
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return StatusRange{}, fmt.Errorf("invalid range start %q: %w", lo, err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return StatusRange{}, fmt.Errorf("invalid range end %q: %w", hi, err)
		}
		if end <= start {
			return StatusRange{}, fmt.Errorf("empty status range %q", s)
		}
		return StatusRange{Min: start, Max: end}, nil
	}
	code, err := strconv.Atoi(s)
	if err != nil {
		return StatusRange{}, fmt.Errorf("invalid status range %q", s)
	}
	return StatusRange{Min: code, Max: code + 1}, nil
}

// Validation decides whether a received status and MIME type are acceptable.
// The zero value performs no validation.
type Validation struct {
	Range    *StatusRange
	MimeType string
}

// DefaultValidation accepts [200, 300) with no MIME constraint.
func DefaultValidation() Validation {
	return Validation{Range: &StatusRange{Min: 200, Max: 300}}
}

// NewValidation builds a policy; with neither constraint given it falls back
// to DefaultValidation.
func NewValidation(rng *StatusRange, mimeType string) Validation {
	mimeType = strings.TrimSpace(mimeType)
	if rng == nil && mimeType == "" {
		return DefaultValidation()
	}
	v := Validation{MimeType: mimeType}
	if rng != nil {
		r := *rng
		v.Range = &r
	}
	return v
}

// Enabled reports whether any constraint is configured.
func (v Validation) Enabled() bool { return v.Range != nil || v.MimeType != "" }

// Validate checks status first, then MIME type. It never looks at the body.
func (v Validation) Validate(status int, mimeType string) error {
	if v.Range != nil && !v.Range.Contains(status) {
		return &Error{Code: StatusCode(status)}
	}
	if v.MimeType != "" && MediaType(v.MimeType) != MediaType(mimeType) {
		return &Error{
			Code: CodeUnexpectedMimeType,
			Err:  fmt.Errorf("expected %q, received %q", v.MimeType, mimeType),
		}
	}
	return nil
}

func (v Validation) String() string {
	mimeType, rng := "nil", "nil"
	if v.MimeType != "" {
		mimeType = v.MimeType
	}
	if v.Range != nil {
		rng = v.Range.String()
	}
	return fmt.Sprintf("validator <mime: %s> <range: %s>", mimeType, rng)
}

// NoValidation accepts every status and MIME type.
func NoValidation() Validation { return Validation{} }
