// Package validator implements a declarative field-validation engine for
// form submissions.
//
// A rule list is evaluated against a data map (field name to value) in order.
// Each rule names a field, a check type, optional check configuration and the
// message reported when the rule fails. Evaluation stops at the first failing
// rule; only its message is reported.
//
// # Rules
//
// Rules are usually declared as RuleSpec values (for example decoded from a
// rule file) and compiled once:
//
//	rules, err := validator.Compile(
//	    validator.RuleSpec{Name: "age", CheckType: validator.TypeBetween, CheckRule: "18,65", ErrorMsg: "out of range"},
//	    validator.RuleSpec{Name: "email", CheckType: validator.TypeEmail, ErrorMsg: "bad email"},
//	)
//
// or built directly with the constructors:
//
//	rules := []validator.Rule{
//	    validator.Between("age", 18, 65, "out of range"),
//	    validator.Email("email", "bad email"),
//	}
//
// Supported check types: string, int, between, betweenD, betweenF, same,
// notsame, email, phoneno, zipcode, reg, in and notnull. Unknown types only
// require the field to be present.
//
// # Evaluation
//
// For every rule:
//
//  1. A rule without name, type or message stops evaluation and the whole
//     check succeeds (OutcomeHalted).
//  2. A missing or falsy field (nil, "", 0, false, NaN) fails the check.
//  3. The type-specific checker runs against the value.
//
// Values are compared by their string form, so the number 25 and the string
// "25" behave the same way in pattern checks.
//
// # Results
//
//	res := validator.Check(data, rules)
//	if !res.Valid {
//	    return res.Err() // *ValidationError wrapping ErrValidationFailed
//	}
//
// Engine offers the same evaluation plus a LastError accessor for callers
// that want a boolean API.
package validator
