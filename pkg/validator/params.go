package validator

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Repeat is a repetition count written the way a regular expression
// quantifier is written: "n", "n," or "n,m".
type Repeat struct {
	Min       int
	Max       int
	Unbounded bool
}

// Allows reports whether n falls within the repetition range.
func (r Repeat) Allows(n int) bool {
	if n < r.Min {
		return false
	}
	return r.Unbounded || n <= r.Max
}

func (r Repeat) String() string {
	switch {
	case r.Unbounded:
		return fmt.Sprintf("%d,", r.Min)
	case r.Min == r.Max:
		return strconv.Itoa(r.Min)
	default:
		return fmt.Sprintf("%d,%d", r.Min, r.Max)
	}
}

// ParseRepeat parses a repetition spec. Integers are accepted as an exact count.
func ParseRepeat(v any) (Repeat, error) {
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case nil:
		return Repeat{}, fmt.Errorf("%w: missing repetition spec", ErrInvalidRepeat)
	default:
		f, ok := numeric(v)
		if !ok || f != math.Trunc(f) {
			return Repeat{}, fmt.Errorf("%w: unsupported value %v", ErrInvalidRepeat, v)
		}
		s = toString(v)
	}

	minPart, maxPart, hasComma := strings.Cut(s, ",")
	minN, err := parseCount(minPart)
	if err != nil {
		return Repeat{}, fmt.Errorf("%w: %q", ErrInvalidRepeat, s)
	}

	if !hasComma {
		return Repeat{Min: minN, Max: minN}, nil
	}
	if maxPart == "" {
		return Repeat{Min: minN, Unbounded: true}, nil
	}

	maxN, err := parseCount(maxPart)
	if err != nil {
		return Repeat{}, fmt.Errorf("%w: %q", ErrInvalidRepeat, s)
	}
	if minN > maxN {
		return Repeat{}, fmt.Errorf("%w: %q: numbers out of order", ErrInvalidRepeat, s)
	}
	return Repeat{Min: minN, Max: maxN}, nil
}

// parseCount accepts only plain ASCII digits.
func parseCount(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty count")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("invalid digit %q", s[i])
		}
	}
	return strconv.Atoi(s)
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the range. Values that do not
// convert to a number are never reported as out of range.
func (r Range) Contains(v any) bool {
	n := toNumber(v)
	if math.IsNaN(n) {
		return true
	}
	return n >= r.Min && n <= r.Max
}

func (r Range) String() string {
	return formatNumber(r.Min) + "," + formatNumber(r.Max)
}

// ParseRange parses "min,max". A two-element list is accepted as well.
func ParseRange(v any) (Range, error) {
	var parts []any
	switch val := v.(type) {
	case string:
		for p := range strings.SplitSeq(val, ",") {
			parts = append(parts, p)
		}
	case nil:
		return Range{}, fmt.Errorf("%w: missing range", ErrInvalidRange)
	default:
		if !isSequence(v) {
			return Range{}, fmt.Errorf("%w: unsupported value %v", ErrInvalidRange, v)
		}
		rv := reflect.ValueOf(v)
		for i := 0; i < rv.Len(); i++ {
			parts = append(parts, rv.Index(i).Interface())
		}
	}

	if len(parts) != 2 {
		return Range{}, fmt.Errorf("%w: want \"min,max\", got %v", ErrInvalidRange, v)
	}

	bounds := [2]float64{}
	for i, p := range parts {
		if s, ok := p.(string); ok && strings.TrimSpace(s) == "" {
			return Range{}, fmt.Errorf("%w: empty bound in %v", ErrInvalidRange, v)
		}
		bounds[i] = toNumber(p)
		if math.IsNaN(bounds[i]) {
			return Range{}, fmt.Errorf("%w: %v is not a number", ErrInvalidRange, p)
		}
	}
	return Range{Min: bounds[0], Max: bounds[1]}, nil
}
