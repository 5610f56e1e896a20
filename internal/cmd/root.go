package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for path-comment
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path-comment",
		Short: "Keep a relative-path header comment at the top of source files",
		Long: `path-comment makes sure the first line of every supported file (or the
second line, after a #! directive) is a comment naming the file's path
relative to the project root, e.g. "# src/app/main.py".

It runs as a pre-commit hook or by hand. Check mode only reports files that
would change and exits non-zero; fix mode rewrites them in place.

Configuration is loaded from .path-comment.yaml or the
[tool.path-comment-hook] table of pyproject.toml in the project root.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		// main prints the error once
		SilenceErrors: true,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewDeleteCommand())
	cmd.AddCommand(NewShowConfigCommand())
	cmd.AddCommand(NewWatchCommand())

	return cmd
}
