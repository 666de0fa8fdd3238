// Package numfmt formats numbers for people: percentages, integers in an
// arbitrary radix and hex digit checks.
package numfmt

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Percent is a fraction where 1 means one hundred percent.
type Percent struct {
	Value float64
}

// Zero is 0%.
var Zero = Percent{}

// Of returns p percent, so Of(25) is a quarter.
func Of(p float64) Percent { return Percent{Value: p / 100} }

// Ratio returns part/whole as a percentage. A zero whole gives Zero.
func Ratio(part, whole int) Percent {
	if whole == 0 {
		return Zero
	}
	return Percent{Value: float64(part) / float64(whole)}
}

func (p Percent) Add(o Percent) Percent { return Percent{Value: p.Value + o.Value} }

func (p Percent) Sub(o Percent) Percent { return Percent{Value: p.Value - o.Value} }

func (p Percent) Mul(o Percent) Percent { return Percent{Value: p.Value * o.Value} }

func (p Percent) Neg() Percent { return Percent{Value: -p.Value} }

func (p Percent) Less(o Percent) bool { return p.Value < o.Value }

// String renders the percentage with at most two fraction digits and no
// trailing zeros, e.g. "12.5%".
func (p Percent) String() string {
	s := strconv.FormatFloat(p.Value*100, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		s = "0"
	}
	return s + "%"
}

// Format renders the percentage the way tag writes numbers, with at most
// two fraction digits.
func (p Percent) Format(tag language.Tag) string {
	return message.NewPrinter(tag).Sprint(number.Percent(p.Value, number.MaxFractionDigits(2)))
}

// MarshalJSON encodes the fraction as a bare number.
func (p Percent) MarshalJSON() ([]byte, error) {
	if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
		return nil, &json.UnsupportedValueError{Str: strconv.FormatFloat(p.Value, 'g', -1, 64)}
	}
	return json.Marshal(p.Value)
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &p.Value)
}
