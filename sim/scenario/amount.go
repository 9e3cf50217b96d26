package scenario

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Amount is a monetary scalar read leniently: text that is not a finite
// number decodes to 0 instead of failing the whole document.
type Amount float64

// ParseAmount converts s to an Amount. Empty, non-numeric, NaN and
// infinite values yield 0.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		logrus.Debugf("amount %q is not a finite number, using 0", s)
		return 0
	}
	return Amount(v)
}

// Float returns the amount as a float64.
func (a Amount) Float() float64 { return float64(a) }

// Ptr returns a pointer to a copy of a.
func (a Amount) Ptr() *Amount { return &a }

// UnmarshalYAML accepts any scalar. Mappings and sequences are rejected.
func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", value.Line)
	}
	*a = ParseAmount(value.Value)
	return nil
}

// UnmarshalJSON accepts numbers and strings. Non-numeric strings are 0.
// Objects and arrays are rejected.
func (a *Amount) UnmarshalJSON(b []byte) error {
	text, err := jsonScalar(b)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = ParseAmount(text)
	return nil
}

// Count is an integer scalar read with the same leniency as Amount.
// Fractions round to the nearest integer; magnitudes beyond MaxCount
// saturate.
type Count int

// MaxCount bounds the magnitude of a Count.
const MaxCount = math.MaxInt32

// ParseCount converts s to a Count. Empty, non-numeric, NaN and infinite
// values yield 0.
func ParseCount(s string) Count {
	return CountFromFloat(ParseAmount(s).Float())
}

// CountFromFloat rounds v and saturates it to [-MaxCount, MaxCount].
func CountFromFloat(v float64) Count {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Round(v)
	switch {
	case v > MaxCount:
		return MaxCount
	case v < -MaxCount:
		return -MaxCount
	}
	return Count(v)
}

// Int returns the count as an int.
func (c Count) Int() int { return int(c) }

// UnmarshalYAML accepts any scalar. Mappings and sequences are rejected.
func (c *Count) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: count must be a scalar", value.Line)
	}
	*c = ParseCount(value.Value)
	return nil
}

// UnmarshalJSON accepts numbers and strings. Non-numeric strings are 0.
// Objects and arrays are rejected.
func (c *Count) UnmarshalJSON(b []byte) error {
	text, err := jsonScalar(b)
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}
	*c = ParseCount(text)
	return nil
}

// jsonScalar returns the text of a JSON number, string, bool or null.
func jsonScalar(b []byte) (string, error) {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return "", fmt.Errorf("must be a number or a string, got %.20s", s)
	}
	if s == "null" {
		return "", nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	return s, nil
}
