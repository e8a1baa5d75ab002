package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/formcheck/pkg/ruleset"
	"github.com/dmitrymomot/formcheck/pkg/validator"
)

type checkOptions struct {
	rules   string
	set     string
	data    string
	asJSON  bool
	verbose bool
}

type checkOutput struct {
	Valid   bool   `json:"valid"`
	Outcome string `json:"outcome"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a JSON document against a rule set",
		Example: `  formcheck check --rules rules/ --set signup --data form.json
  echo '{"email":"a@b.com"}' | formcheck check --rules signup.yaml --data -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.rules, "rules", "r", "", "rule file or directory")
	f.StringVarP(&opts.set, "set", "s", "", "rule set name (optional when only one is loaded)")
	f.StringVarP(&opts.data, "data", "d", "-", "JSON object to check, - for stdin")
	f.BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "report which rule halted evaluation")
	_ = cmd.MarkFlagRequired("rules")
	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	sets, err := ruleset.Load(opts.rules)
	if err != nil {
		return err
	}
	rs, err := pickRuleset(sets, opts.set)
	if err != nil {
		return err
	}

	data, err := readData(cmd.InOrStdin(), opts.data)
	if err != nil {
		return err
	}

	res := rs.Check(data)
	out := cmd.OutOrStdout()

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(checkOutput{
			Valid:   res.Valid,
			Outcome: string(res.Outcome),
			Field:   res.Field,
			Message: res.Message,
		}); err != nil {
			return err
		}
	} else {
		switch res.Outcome {
		case validator.OutcomeFailed:
			fmt.Fprintf(out, "invalid: %s: %s\n", res.Field, res.Message)
		case validator.OutcomeHalted:
			fmt.Fprintln(out, "valid")
			if opts.verbose {
				fmt.Fprintf(out, "note: evaluation stopped at malformed rule #%d\n", res.Index)
			}
		default:
			fmt.Fprintln(out, "valid")
		}
	}

	if !res.Valid {
		return ErrCheckFailed
	}
	return nil
}

func pickRuleset(sets map[string]*ruleset.Ruleset, name string) (*ruleset.Ruleset, error) {
	if name != "" {
		rs, ok := sets[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ruleset.ErrNotFound, name)
		}
		return rs, nil
	}
	if len(sets) == 1 {
		for _, rs := range sets {
			return rs, nil
		}
	}

	return nil, fmt.Errorf("--set is required, available rule sets: %s", strings.Join(sortedNames(sets), ", "))
}

func readData(stdin io.Reader, path string) (map[string]any, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open data: %w", err)
		}
		defer f.Close()
		r = f
	}

	var data map[string]any
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode data: must be a JSON object: %w", err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}
