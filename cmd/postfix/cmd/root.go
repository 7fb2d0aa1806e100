// Package cmd wires the postfix CLI's root command.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "postfix",
	Short: "PostFix interactive stack-language shell",
	Long: `postfix is an interactive shell for PostFix, a small postfix
stack-oriented programming language in the PostScript/Forth tradition.

Every token either pushes a value, opens or closes a nested { } or [ ]
or ( ) structure, stores a binding, or invokes a definition. There are
no flags: start the shell and type.`,
	Version: Version,
	RunE: func(c *cobra.Command, args []string) error {
		logger := newLogger()
		defer logger.Sync()
		return runREPL(logger)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))
}

// newLogger builds the shell's diagnostic logger. There are no flags
// (spec.md §6); POSTFIX_DEBUG=1 raises the level from Warn to Debug so
// a session can be re-run with full stack traces without a flag.
func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if os.Getenv("POSTFIX_DEBUG") != "" {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init failed:", err)
		return zap.NewNop()
	}
	return logger
}
