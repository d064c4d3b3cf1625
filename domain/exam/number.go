package exam

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is the display order of a question. It carries NaN when the
// source cell was missing or not numeric.
type Number float64

// NaN is the value of a missing or unparseable number
func NaN() Number {
	return Number(math.NaN())
}

// IsNaN reports whether n holds no usable number
func (n Number) IsNaN() bool {
	return math.IsNaN(float64(n))
}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// MarshalJSON writes NaN and infinities as null
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON reads null as NaN
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NaN()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// ParseNumber converts cell text the way a spreadsheet-to-JSON pipeline
// coerces numbers: blank text is 0, decimal, exponent, hex/octal/binary
// literals and Infinity parse, anything else is NaN.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return Number(math.Inf(1))
	case "-Infinity":
		return Number(math.Inf(-1))
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			v, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return NaN()
			}
			return Number(v)
		}
	}
	// strconv accepts forms like "inf", "nan", "1_000" and hex floats that
	// a spreadsheet would not treat as numbers
	for _, r := range s {
		if !strings.ContainsRune("0123456789+-.eE", r) {
			return NaN()
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return Number(f)
		}
		return NaN()
	}
	return Number(f)
}
