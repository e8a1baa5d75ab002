package validator

import (
	"fmt"
)

// CheckType selects the validator applied by a rule.
type CheckType string

const (
	TypeString   CheckType = "string"   // length in UTF-16 units within a Repeat
	TypeInt      CheckType = "int"      // optional minus and digits, digit count within a Repeat
	TypeBetween  CheckType = "between"  // number shape, value within a Range
	TypeBetweenD CheckType = "betweenD" // one or two digit integer within a Range
	TypeBetweenF CheckType = "betweenF" // decimal with a fraction within a Range
	TypeSame     CheckType = "same"     // loosely equal to the check rule
	TypeNotSame  CheckType = "notsame"  // loosely different from the check rule
	TypeEmail    CheckType = "email"    // email address
	TypePhoneNo  CheckType = "phoneno"  // 11 digit mobile number starting with 1
	TypeZipCode  CheckType = "zipcode"  // six digit postal code
	TypeReg      CheckType = "reg"      // ECMAScript pattern, unanchored
	TypeIn       CheckType = "in"       // substring of a string rule or element of a list rule
	TypeNotNull  CheckType = "notnull"  // non-empty string or list
)

// Known reports whether t names one of the built-in validators.
// Type names are case-sensitive.
func (t CheckType) Known() bool {
	switch t {
	case TypeString, TypeInt, TypeBetween, TypeBetweenD, TypeBetweenF,
		TypeSame, TypeNotSame, TypeEmail, TypePhoneNo, TypeZipCode,
		TypeReg, TypeIn, TypeNotNull:
		return true
	}
	return false
}

// RuleSpec is the declarative form of a rule, as it appears in rule files
// and request payloads.
type RuleSpec struct {
	Name      string    `json:"name" yaml:"name" toml:"name"`
	CheckType CheckType `json:"checkType" yaml:"checkType" toml:"checkType"`
	CheckRule any       `json:"checkRule,omitempty" yaml:"checkRule,omitempty" toml:"checkRule,omitempty"`
	ErrorMsg  string    `json:"errorMsg" yaml:"errorMsg" toml:"errorMsg"`
}

// Malformed reports whether s has an empty Name, CheckType or ErrorMsg.
func (s RuleSpec) Malformed() bool {
	return s.Name == "" || s.CheckType == "" || s.ErrorMsg == ""
}

// Rule is a compiled rule. A nil Checker means the rule only requires the
// field to be present. A halting rule ends evaluation with success.
//
// Rules built directly in Go halt only when Name or Message is empty. An
// empty Type is allowed there and means presence only, as with Required,
// while a RuleSpec with an empty CheckType compiles into a halting rule.
type Rule struct {
	Name    string
	Type    CheckType
	Message string
	Checker Checker

	halt bool
}

// Halts reports whether evaluation stops successfully at this rule: the rule
// has no name, no message, or was compiled from a spec without a check type.
func (r Rule) Halts() bool {
	return r.halt || r.Name == "" || r.Message == ""
}

// Compile turns rule specs into rules, parsing every checkRule once.
// A malformed spec compiles into a halting rule; specs after it are
// unreachable and are dropped.
func Compile(specs ...RuleSpec) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))
	for i, spec := range specs {
		rule, err := CompileRule(spec)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, spec.Name, err)
		}
		rules = append(rules, rule)
		if rule.halt {
			break
		}
	}
	return rules, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(specs ...RuleSpec) []Rule {
	rules, err := Compile(specs...)
	if err != nil {
		panic(err)
	}
	return rules
}

// CompileRule compiles a single spec.
func CompileRule(spec RuleSpec) (Rule, error) {
	rule := Rule{Name: spec.Name, Type: spec.CheckType, Message: spec.ErrorMsg}
	if spec.Malformed() {
		rule.halt = true
		return rule, nil
	}

	var err error
	switch spec.CheckType {
	case TypeString:
		var rep Repeat
		rep, err = ParseRepeat(spec.CheckRule)
		rule.Checker = LengthCheck{Repeat: rep}
	case TypeInt:
		var rep Repeat
		rep, err = ParseRepeat(spec.CheckRule)
		rule.Checker = IntegerCheck{Repeat: rep}
	case TypeBetween:
		var rng Range
		rng, err = ParseRange(spec.CheckRule)
		rule.Checker = BetweenCheck{Range: rng}
	case TypeBetweenD:
		var rng Range
		rng, err = ParseRange(spec.CheckRule)
		rule.Checker = BetweenDCheck{Range: rng}
	case TypeBetweenF:
		var rng Range
		rng, err = ParseRange(spec.CheckRule)
		rule.Checker = BetweenFCheck{Range: rng}
	case TypeSame:
		rule.Checker = SameCheck{Value: spec.CheckRule}
	case TypeNotSame:
		rule.Checker = NotSameCheck{Value: spec.CheckRule}
	case TypeEmail:
		rule.Checker = emailCheck
	case TypePhoneNo:
		rule.Checker = phoneCheck
	case TypeZipCode:
		rule.Checker = zipCodeCheck
	case TypeReg:
		rule.Checker, err = compilePattern(spec.CheckRule)
	case TypeIn:
		rule.Checker, err = newMembership(spec.CheckRule)
	case TypeNotNull:
		rule.Checker = NotNullCheck{}
	default:
		// Unknown types only require presence.
	}
	if err != nil {
		return Rule{}, err
	}
	return rule, nil
}

func compilePattern(v any) (Checker, error) {
	src, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: reg requires a pattern string, got %T", ErrInvalidCheckRule, v)
	}
	re, err := CompileScriptPattern(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return ScriptPatternCheck{Regexp: re}, nil
}

// Rule constructors for building rule lists in Go code.

// String requires the value length, in UTF-16 code units, to be within rep.
func String(name string, rep Repeat, msg string) Rule {
	return Rule{Name: name, Type: TypeString, Message: msg, Checker: LengthCheck{Repeat: rep}}
}

// Int requires an integer whose digit count is within rep.
func Int(name string, rep Repeat, msg string) Rule {
	return Rule{Name: name, Type: TypeInt, Message: msg, Checker: IntegerCheck{Repeat: rep}}
}

// Between requires a number between min and max inclusive.
func Between(name string, min, max float64, msg string) Rule {
	return Rule{Name: name, Type: TypeBetween, Message: msg, Checker: BetweenCheck{Range: Range{Min: min, Max: max}}}
}

// BetweenD requires a one or two digit integer between min and max inclusive.
func BetweenD(name string, min, max float64, msg string) Rule {
	return Rule{Name: name, Type: TypeBetweenD, Message: msg, Checker: BetweenDCheck{Range: Range{Min: min, Max: max}}}
}

// BetweenF requires a decimal with a fractional part between min and max inclusive.
func BetweenF(name string, min, max float64, msg string) Rule {
	return Rule{Name: name, Type: TypeBetweenF, Message: msg, Checker: BetweenFCheck{Range: Range{Min: min, Max: max}}}
}

// Same requires the value to loosely equal value.
func Same(name string, value any, msg string) Rule {
	return Rule{Name: name, Type: TypeSame, Message: msg, Checker: SameCheck{Value: value}}
}

// NotSame requires the value to differ from value.
func NotSame(name string, value any, msg string) Rule {
	return Rule{Name: name, Type: TypeNotSame, Message: msg, Checker: NotSameCheck{Value: value}}
}

// Email requires an email address.
func Email(name, msg string) Rule {
	return Rule{Name: name, Type: TypeEmail, Message: msg, Checker: emailCheck}
}

// PhoneNo requires an 11 digit mobile number starting with 1.
func PhoneNo(name, msg string) Rule {
	return Rule{Name: name, Type: TypePhoneNo, Message: msg, Checker: phoneCheck}
}

// ZipCode requires a six digit postal code.
func ZipCode(name, msg string) Rule {
	return Rule{Name: name, Type: TypeZipCode, Message: msg, Checker: zipCodeCheck}
}

// Reg requires the value to match an ECMAScript pattern. It panics if
// pattern does not compile.
func Reg(name, pattern, msg string) Rule {
	checker, err := compilePattern(pattern)
	if err != nil {
		panic(err)
	}
	return Rule{Name: name, Type: TypeReg, Message: msg, Checker: checker}
}

// In accepts a string (substring search) or a slice (element search).
// It panics for any other allowed value.
func In(name string, allowed any, msg string) Rule {
	checker, err := newMembership(allowed)
	if err != nil {
		panic(err)
	}
	return Rule{Name: name, Type: TypeIn, Message: msg, Checker: checker}
}

// NotNull requires a non-empty string or list.
func NotNull(name, msg string) Rule {
	return Rule{Name: name, Type: TypeNotNull, Message: msg, Checker: NotNullCheck{}}
}

// Required only checks that the field is present.
func Required(name, msg string) Rule {
	return Rule{Name: name, Message: msg}
}
