package cmd

import (
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/formcheck/pkg/ruleset"
	"github.com/dmitrymomot/formcheck/pkg/validator"
)

func newLintCmd() *cobra.Command {
	var rules string
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Compile rule files and report suspicious rules",
		Long: `lint loads every rule set, fails on rules that do not compile and
warns about rules that silently end evaluation (missing name, type or
message) or use an unknown check type (presence check only).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, rules)
		},
	}
	cmd.Flags().StringVarP(&rules, "rules", "r", "", "rule file or directory")
	_ = cmd.MarkFlagRequired("rules")
	return cmd
}

func runLint(cmd *cobra.Command, path string) error {
	sets, err := ruleset.Load(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RULESET\tRULES\tSOURCE")
	for _, name := range sortedNames(sets) {
		rs := sets[name]
		fmt.Fprintf(tw, "%s\t%d\t%s\n", rs.Name, len(rs.Specs), rs.Source)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	warnings := 0
	for _, name := range sortedNames(sets) {
		for _, w := range lintRuleset(sets[name]) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", name, w)
			warnings++
		}
	}
	fmt.Fprintf(out, "%d rule sets, %d warnings\n", len(sets), warnings)
	return nil
}

// lintRuleset lists rules that compile but probably do not do what the
// author meant.
func lintRuleset(rs *ruleset.Ruleset) []string {
	var warnings []string
	for i, spec := range rs.Specs {
		switch {
		case spec.Malformed():
			warnings = append(warnings, fmt.Sprintf(
				"rule #%d (%q) lacks a name, type or message and ends evaluation; %d later rules never run",
				i, spec.Name, len(rs.Specs)-i-1))
			return warnings
		case !spec.CheckType.Known():
			warnings = append(warnings, fmt.Sprintf(
				"rule #%d (%q) has unknown check type %q and only requires presence", i, spec.Name, spec.CheckType))
		case spec.CheckType == validator.TypeSame || spec.CheckType == validator.TypeNotSame:
			if spec.CheckRule == nil {
				warnings = append(warnings, fmt.Sprintf("rule #%d (%q) compares against an empty value", i, spec.Name))
			}
		}
	}
	return warnings
}

func sortedNames(sets map[string]*ruleset.Ruleset) []string {
	return slices.Sorted(maps.Keys(sets))
}
