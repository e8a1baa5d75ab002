// Package ruleset loads named validation rule lists from YAML, JSON or TOML
// files and keeps them in a Registry that can be reloaded while serving.
//
// A rule file maps rule set names to rule lists:
//
//	rulesets:
//	  signup:
//	    - name: email
//	      checkType: email
//	      errorMsg: please enter a valid email
//	    - name: age
//	      checkType: between
//	      checkRule: "18,65"
//	      errorMsg: age must be between 18 and 65
//
// Every rule set is compiled when it is loaded, so malformed check rules are
// reported at load time rather than on the first request.
//
//	reg, err := ruleset.Open("rules/")
//	rs, err := reg.Get("signup")
//	res := rs.Check(form)
//
// Watcher reloads the registry when files in the rule directory change.
package ruleset
