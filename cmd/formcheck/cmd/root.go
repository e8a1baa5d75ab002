// Package cmd implements the formcheck command line.
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Build information, set with -ldflags.
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

// ErrCheckFailed is returned by the check command when the data is invalid.
var ErrCheckFailed = errors.New("check failed")

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "formcheck",
		Short: "Validate form data against declarative rule sets",
		Long: `formcheck validates flat key/value data against named rule sets
loaded from YAML, JSON or TOML files.

Each rule names a field, a check type (string, int, between, betweenD,
betweenF, same, notsame, email, phoneno, zipcode, reg, in, notnull), an
optional check rule and the message reported when the field fails.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newCheckCmd(),
		newLintCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, ErrCheckFailed) {
		fmt.Fprintf(root.ErrOrStderr(), "error: %v\n", err)
	}
	return err
}

// ExitCode maps a command error to a process exit status: 1 for invalid
// data, 2 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrCheckFailed):
		return 1
	}
	return 2
}
