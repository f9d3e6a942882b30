package models

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a monetary value in minor units (1/100 of the currency). It is
// currency agnostic; the remote API labels it SEK.
type Amount int64

// AmountFromMajor builds an Amount from whole currency units.
func AmountFromMajor(n int64) Amount {
	return Amount(n * 100)
}

// ParseAmount parses a decimal string such as "5000", "5000.5" or "5000.50".
// More than two fractional digits is rejected rather than rounded.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	neg := false
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		s = s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && (!hasFrac || frac == "") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("invalid amount %q: more than two decimal places", s)
	}
	if whole == "" {
		whole = "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || strings.ContainsAny(whole, "+-") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	var f int64
	if frac != "" {
		for len(frac) < 2 {
			frac += "0"
		}
		f, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || strings.ContainsAny(frac, "+-") {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
	}
	if w > (math.MaxInt64-f)/100 {
		return 0, fmt.Errorf("invalid amount %q: out of range", s)
	}
	v := w*100 + f
	if neg {
		v = -v
	}
	return Amount(v), nil
}

func (a Amount) Major() int64 {
	return int64(a) / 100
}

// String renders the amount with exactly two decimals, e.g. "5000.00".
func (a Amount) String() string {
	v := int64(a)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON writes a JSON number so the remote side keeps numeric typing.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number, a numeric string or null.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	if len(b) >= 2 && b[0] == '"' {
		unq, err := strconv.Unquote(string(b))
		if err != nil {
			return fmt.Errorf("invalid amount %s: %w", b, err)
		}
		b = []byte(unq)
	}
	parsed, err := ParseAmount(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
