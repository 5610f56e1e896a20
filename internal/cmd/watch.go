package cmd

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/harrison/pathcomment/internal/dialect"
	"github.com/harrison/pathcomment/internal/filelock"
	"github.com/harrison/pathcomment/internal/fileutil"
	"github.com/harrison/pathcomment/internal/processor"
	"github.com/harrison/pathcomment/internal/report"
	"github.com/harrison/pathcomment/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep path headers current while files change",
		Long: `Watch the project root and process every supported file that is created or
written, after a short quiet period. Runs until interrupted.

In check mode files are only reported; otherwise headers are fixed in place.`,
		Args: cobra.NoArgs,
		RunE: watchCommand,
	}

	addProcessingFlags(cmd)
	cmd.Flags().Duration("debounce", watch.DefaultDebounceDelay, "Quiet period before a batch of changes is processed")

	return cmd
}

func watchCommand(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	debounce, _ := cmd.Flags().GetDuration("debounce")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p := processor.New(dialect.New(s.cfg.CommentOverrides()), s.cfg.ShouldExclude)

	w, err := watch.New(s.root, watch.Options{
		Debounce: debounce,
		SkipDir:  skipWatchedDir(s),
		SkipFile: skipChangedFile(s),
		OnError: func(err error) {
			s.log.LogWarn(fmt.Sprintf("Watch error: %v", err))
		},
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.root, err)
	}

	s.log.LogInfo(fmt.Sprintf("Watching %s (%s mode), press Ctrl+C to stop", s.root, s.mode))

	err = w.Run(ctx, func(ctx context.Context, paths []string) {
		processBatch(ctx, cmd, s, p, paths)
	})
	s.log.LogInfo("Stopped watching")
	return err
}

// skipWatchedDir reports directories that are never watched.
func skipWatchedDir(s *settings) func(rel string) bool {
	return func(rel string) bool {
		return slices.Contains(fileutil.DefaultExcludeDirs, path.Base(rel)) || s.cfg.ShouldExclude(rel)
	}
}

// skipChangedFile reports changed files that are not processed: excluded
// files and the temporary files our own atomic writes create.
func skipChangedFile(s *settings) func(rel string) bool {
	return func(rel string) bool {
		return filelock.IsTemp(rel) || s.cfg.ShouldExclude(rel)
	}
}

// processBatch handles one debounced batch of changed files.
func processBatch(ctx context.Context, cmd *cobra.Command, s *settings, p *processor.Processor, paths []string) {
	if s.mode == processor.ModeApply {
		lock := filelock.ProjectLock(s.root)
		if err := lock.LockContext(ctx); err != nil {
			s.log.LogWarn(fmt.Sprintf("Skipping %d changed file(s): %v", len(paths), err))
			return
		}
		defer lock.Unlock()
	}

	tasks := make([]processor.FileTask, len(paths))
	for i, abs := range paths {
		tasks[i] = processor.FileTask{Path: abs, Root: s.root, Mode: s.mode, Op: processor.OpEnsure}
	}

	results, err := processor.ProcessAll(ctx, p, tasks, processor.Options{Workers: s.cfg.Workers})
	if err != nil {
		s.log.LogError(err.Error())
		return
	}

	for i := range results {
		if rel, err := filepath.Rel(s.root, paths[i]); err == nil {
			results[i].Path = filepath.ToSlash(rel)
		}
		s.log.LogResult(results[i])
	}
	if err := report.Text(cmd.OutOrStdout(), results, s.mode, false); err != nil {
		s.log.LogError(err.Error())
	}
}
