package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/pathcomment/internal/processor"
)

// NewDeleteCommand creates the delete command
func NewDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [files...]",
		Short: "Remove path headers",
		Long: `Remove the path header from each file. Only a line that is the file's own
header (or a previous path header in the same comment style) is removed;
other first lines are left alone. With no files every supported file under
the project root is processed.

Examples:
  path-comment delete src/app.py
  path-comment delete --check --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeBatch(cmd, args, processor.OpRemove)
		},
	}

	addBatchFlags(cmd)
	return cmd
}
