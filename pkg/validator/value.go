package validator

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Field values are loosely typed: form handlers hand over strings, JSON bodies
// hand over float64, bool and slices. The helpers below give every value the
// same truthiness, string form and numeric form regardless of its Go type.

// truthy reports whether v counts as present.
// nil, "", false, 0 and NaN are absent; every other value, including an
// empty slice, is present.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case json.Number:
		f := toNumber(val.String())
		return f != 0 && !math.IsNaN(f)
	}

	if f, ok := numeric(v); ok {
		return f != 0 && !math.IsNaN(f)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// numeric extracts a float64 from any Go number type.
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		return toNumber(n.String()), true
	}
	return 0, false
}

// isSequence reports whether v is a slice or array (but not a string).
func isSequence(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// toString renders v the way form values are compared: numbers without
// trailing zeros, booleans as "true"/"false", slices joined with commas.
func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return formatNumber(toNumber(val.String()))
	}

	if f, ok := numeric(v); ok {
		switch n := v.(type) {
		case int, int8, int16, int32, int64:
			return strconv.FormatInt(reflect.ValueOf(n).Int(), 10)
		case uint, uint8, uint16, uint32, uint64:
			return strconv.FormatUint(reflect.ValueOf(n).Uint(), 10)
		}
		return formatNumber(f)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = toString(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	case reflect.Map, reflect.Struct:
		return "[object Object]"
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return ""
		}
		return toString(rv.Elem().Interface())
	}
	return ""
}

// formatNumber prints f in the shortest round-trip form, switching to
// exponent notation outside [1e-6, 1e21).
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// toNumber converts v to a float64. Values that are not numeric yield NaN.
func toNumber(v any) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		return parseNumber(val)
	}
	if f, ok := numeric(v); ok {
		return f
	}
	if isSequence(v) {
		return parseNumber(toString(v))
	}
	return math.NaN()
}

// parseNumber parses a decimal (or 0x/0o/0b prefixed integer) string.
// Surrounding whitespace is ignored and the empty string is zero.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
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
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}

	for _, c := range s {
		if !strings.ContainsRune("0123456789+-.eE", c) {
			return math.NaN()
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out of range values saturate instead of failing.
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

// looseEqual compares two values with type coercion: strings and numbers
// compare numerically, booleans compare as 1 and 0, nil equals only nil and
// sequences compare by their comma-joined form.
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if ab, ok := a.(bool); ok {
		return looseEqual(boolNumber(ab), b)
	}
	if bb, ok := b.(bool); ok {
		return looseEqual(a, boolNumber(bb))
	}

	as, aStr := a.(string)
	bs, bStr := b.(string)
	af, aNum := numeric(a)
	bf, bNum := numeric(b)

	switch {
	case aStr && bStr:
		return as == bs
	case aNum && bNum:
		return af == bf
	case aNum && bStr:
		return af == parseNumber(bs)
	case aStr && bNum:
		return parseNumber(as) == bf
	}

	aSeq, bSeq := isSequence(a), isSequence(b)
	switch {
	case aSeq && bSeq:
		// Distinct sequences are never equal.
		return false
	case aSeq:
		return looseEqual(toString(a), b)
	case bSeq:
		return looseEqual(a, toString(b))
	}
	return false
}

// strictEqual compares two values without coercion, treating all Go number
// types as one number type.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, ok := numeric(a); ok {
		bf, ok := numeric(b)
		return ok && af == bf
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return false
}

func boolNumber(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// codeUnits returns the length of s in UTF-16 code units.
func codeUnits(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
