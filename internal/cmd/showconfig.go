package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewShowConfigCommand creates the show-config command
func NewShowConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show-config",
		Short: "Print the resolved configuration",
		Long: `Print the configuration path-comment would use for the project root:
the built-in defaults merged with .path-comment.yaml or the
[tool.path-comment-hook] table of pyproject.toml.`,
		Args: cobra.NoArgs,
		RunE: showConfigCommand,
	}

	addProjectFlags(cmd)
	cmd.Flags().String("format", "text", "Output format: text, yaml")

	return cmd
}

func showConfigCommand(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "yaml" {
		return fmt.Errorf("invalid --format %q, must be one of: text, yaml", format)
	}

	root, err := projectRoot(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadProjectConfig(cmd, root)
	if err != nil {
		return configFailure(cmd, err)
	}
	if err := cfg.Validate(); err != nil {
		return configFailure(cmd, err)
	}

	out := cmd.OutOrStdout()
	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(cfg.ToMap()); err != nil {
			return err
		}
		return enc.Close()
	}

	source := cfg.Source
	if source == "" {
		source = "built-in defaults"
	}

	fmt.Fprintln(out, "Path-Comment-Hook Configuration")
	fmt.Fprintf(out, "Project root: %s\n", root)
	fmt.Fprintf(out, "Source: %s\n\n", source)

	fmt.Fprintln(out, "exclude_globs:")
	writeList(out, cfg.ExcludeGlobs)

	fmt.Fprintln(out, "custom_comment_map:")
	pairs := cfg.SortedCommentMap()
	if len(pairs) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, kv := range pairs {
		fmt.Fprintf(out, "  %s: %q\n", kv[0], kv[1])
	}

	fmt.Fprintf(out, "default_mode: %s\n", cfg.DefaultMode)
	fmt.Fprintf(out, "workers: %d\n", cfg.Workers)
	fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
	return nil
}

func writeList(w io.Writer, items []string) {
	if len(items) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}
