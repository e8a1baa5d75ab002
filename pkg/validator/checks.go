package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

var (
	emailRegex    = regexp.MustCompile(`^\w+([-+.']\w+)*@\w+([-.]\w+)*\.\w+([-.]\w+)*$`)
	phoneRegex    = regexp.MustCompile(`^1[0-9]{10}$`)
	zipCodeRegex  = regexp.MustCompile(`^[0-9]{6}$`)
	numberRegex   = regexp.MustCompile(`^-?[1-9][0-9]?\.?[0-9]*$`)
	shortIntRegex = regexp.MustCompile(`^-?[1-9][0-9]?$`)
	decimalRegex  = regexp.MustCompile(`^-?[0-9][0-9]?\.[0-9]+$`)
)

// Checker is the type-specific part of a rule. It only sees values that
// already passed the presence check.
type Checker interface {
	Check(value any) bool
}

// IsNumber reports whether v has the shape accepted by range rules:
// an optional minus, a non-zero digit, an optional second digit, an optional
// dot and any number of digits. "0.5" does not qualify.
func IsNumber(v any) bool {
	return numberRegex.MatchString(toString(v))
}

// LengthCheck matches values made of Repeat characters (UTF-16 code units),
// none of them a line terminator.
type LengthCheck struct {
	Repeat Repeat
}

func (c LengthCheck) Check(v any) bool {
	s := toString(v)
	if strings.ContainsAny(s, "\n\r\u2028\u2029") {
		return false
	}
	return c.Repeat.Allows(codeUnits(s))
}

// IntegerCheck matches an optional minus, a digit 1-9 and then Repeat more digits.
type IntegerCheck struct {
	Repeat Repeat
}

func (c IntegerCheck) Check(v any) bool {
	s := strings.TrimPrefix(toString(v), "-")
	if s == "" || s[0] < '1' || s[0] > '9' {
		return false
	}
	rest := s[1:]
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return false
		}
	}
	return c.Repeat.Allows(len(rest))
}

// BetweenCheck requires the IsNumber shape and a value within Range.
type BetweenCheck struct {
	Range Range
}

func (c BetweenCheck) Check(v any) bool {
	return IsNumber(v) && c.Range.Contains(v)
}

// BetweenDCheck requires a one or two digit integer within Range.
type BetweenDCheck struct {
	Range Range
}

func (c BetweenDCheck) Check(v any) bool {
	return shortIntRegex.MatchString(toString(v)) && c.Range.Contains(v)
}

// BetweenFCheck requires a decimal with one or two integer digits within Range.
type BetweenFCheck struct {
	Range Range
}

func (c BetweenFCheck) Check(v any) bool {
	return decimalRegex.MatchString(toString(v)) && c.Range.Contains(v)
}

// SameCheck requires the value to loosely equal Value.
type SameCheck struct {
	Value any
}

func (c SameCheck) Check(v any) bool {
	return looseEqual(v, c.Value)
}

// NotSameCheck requires the value to differ from Value.
type NotSameCheck struct {
	Value any
}

func (c NotSameCheck) Check(v any) bool {
	return !looseEqual(v, c.Value)
}

// PatternCheck matches values against a compiled regular expression anywhere in the value.
type PatternCheck struct {
	Regexp *regexp.Regexp
}

func (c PatternCheck) Check(v any) bool {
	return c.Regexp.MatchString(toString(v))
}

// DefaultMatchTimeout bounds a single reg match.
const DefaultMatchTimeout = 100 * time.Millisecond

// ScriptPatternCheck matches values against an ECMAScript regular expression
// anywhere in the value. Lookahead and backreferences are supported.
// A match that errors or times out fails the rule.
type ScriptPatternCheck struct {
	Regexp *regexp2.Regexp
}

func (c ScriptPatternCheck) Check(v any) bool {
	ok, err := c.Regexp.MatchString(toString(v))
	return err == nil && ok
}

// CompileScriptPattern compiles src with ECMAScript syntax.
func CompileScriptPattern(src string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(src, regexp2.ECMAScript)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = DefaultMatchTimeout
	return re, nil
}

var (
	emailCheck   = PatternCheck{Regexp: emailRegex}
	phoneCheck   = PatternCheck{Regexp: phoneRegex}
	zipCodeCheck = PatternCheck{Regexp: zipCodeRegex}
)

// SubstringCheck requires the value's string form to occur within Text.
type SubstringCheck struct {
	Text string
}

func (c SubstringCheck) Check(v any) bool {
	return strings.Contains(c.Text, toString(v))
}

// OneOfCheck requires the value to be strictly equal to one of Values.
type OneOfCheck struct {
	Values []any
}

func (c OneOfCheck) Check(v any) bool {
	for _, allowed := range c.Values {
		if strictEqual(v, allowed) {
			return true
		}
	}
	return false
}

// NotNullCheck rejects nil and empty sequences.
type NotNullCheck struct{}

func (NotNullCheck) Check(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return codeUnits(s) >= 1
	}
	if isSequence(v) {
		return reflect.ValueOf(v).Len() >= 1
	}
	return true
}

// newMembership builds the checker for an "in" rule.
func newMembership(rule any) (Checker, error) {
	switch val := rule.(type) {
	case string:
		return SubstringCheck{Text: val}, nil
	case nil:
		return nil, fmt.Errorf("%w: in requires a string or a list", ErrInvalidCheckRule)
	}
	if !isSequence(rule) {
		return nil, fmt.Errorf("%w: in requires a string or a list, got %T", ErrInvalidCheckRule, rule)
	}
	rv := reflect.ValueOf(rule)
	values := make([]any, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return OneOfCheck{Values: values}, nil
}
