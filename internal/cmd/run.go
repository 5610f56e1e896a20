package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/pathcomment/internal/dialect"
	"github.com/harrison/pathcomment/internal/filelock"
	"github.com/harrison/pathcomment/internal/fileutil"
	"github.com/harrison/pathcomment/internal/logger"
	"github.com/harrison/pathcomment/internal/metrics"
	"github.com/harrison/pathcomment/internal/processor"
	"github.com/harrison/pathcomment/internal/report"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Insert or verify path headers",
		Long: `Ensure each file starts with a comment naming its path relative to the
project root. Files given on the command line are processed as-is; with no
files (or --all) every supported file under the project root is processed,
skipping excluded globs and binary files.

Examples:
  # Pre-commit style: fix the staged files
  path-comment run src/app.py scripts/deploy.sh

  # Verify only; exit 1 if any file would change
  path-comment run --check --all

  # Show what would change as a unified diff
  path-comment run -c --diff src/app.py

  # Machine-readable report plus a Prometheus textfile
  path-comment run --all --format json --metrics-file /var/lib/node_exporter/path_comment.prom`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeBatch(cmd, args, processor.OpEnsure)
		},
	}

	addBatchFlags(cmd)
	return cmd
}

// addBatchFlags registers the flags shared by run and delete.
func addBatchFlags(cmd *cobra.Command) {
	addProcessingFlags(cmd)
	cmd.Flags().Bool("all", false, "Process every supported file under the project root")
	cmd.Flags().Bool("progress", false, "Show a progress bar")
	cmd.Flags().Bool("diff", false, "Print a unified diff for each changed file")
	cmd.Flags().String("format", "text", "Output format: text, json")
	cmd.Flags().String("metrics-file", "", "Write run metrics in Prometheus text format to this file")
}

// newProgressObserver draws a progress bar on stderr.
func newProgressObserver(cmd *cobra.Command, total int) processor.Observer {
	return logger.NewProgressReporter(cmd.ErrOrStderr(), total).Observe
}

// target is one file to process and the name used when reporting it.
type target struct {
	path    string
	display string
}

// executeBatch runs op over the files named in args, or over the whole
// project when none are given.
func executeBatch(cmd *cobra.Command, args []string, op processor.Operation) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid --format %q, must be one of: text, json", format)
	}
	all, _ := cmd.Flags().GetBool("all")
	if all && len(args) > 0 {
		return fmt.Errorf("--all cannot be combined with file arguments")
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	classifier := dialect.New(s.cfg.CommentOverrides())

	var targets []target
	if len(args) == 0 {
		targets, err = discoverTargets(s, classifier)
	} else {
		targets, err = namedTargets(args)
	}
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No eligible files found")
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if s.mode == processor.ModeApply {
		lock := filelock.ProjectLock(s.root)
		s.log.LogDebug(fmt.Sprintf("Acquiring project lock %s", lock.Path()))
		if err := lock.LockContext(ctx); err != nil {
			return fmt.Errorf("failed to acquire project lock: %w", err)
		}
		defer lock.Unlock()
	}

	diff, _ := cmd.Flags().GetBool("diff")
	p := processor.New(classifier, s.cfg.ShouldExclude)
	p.CaptureContent = diff

	tasks := make([]processor.FileTask, len(targets))
	for i, t := range targets {
		tasks[i] = processor.FileTask{Path: t.path, Root: s.root, Mode: s.mode, Op: op}
	}

	opts := processor.Options{Workers: s.cfg.Workers}
	var observers []processor.Observer
	if progress, _ := cmd.Flags().GetBool("progress"); progress {
		observers = append(observers, newProgressObserver(cmd, len(tasks)))
	}
	if s.verbose {
		observers = append(observers, func(_, _ int, r processor.Result) {
			s.log.LogResult(r)
		})
	}
	if len(observers) > 0 {
		opts.Observer = func(done, total int, r processor.Result) {
			for _, o := range observers {
				o(done, total, r)
			}
		}
	}

	s.log.LogDebug(fmt.Sprintf("Processing %d file(s) in %s mode with %d worker(s)",
		len(tasks), s.mode, processor.WorkerCount(s.cfg.Workers, len(tasks))))

	started := time.Now()
	results, err := processor.ProcessAll(ctx, p, tasks, opts)
	if err != nil {
		return err
	}
	elapsed := time.Since(started)

	for i := range results {
		results[i].Path = targets[i].display
	}
	stats := processor.Collect(results)

	switch format {
	case "json":
		doc, err := report.NewDocument(results, s.mode, op, started, elapsed)
		if err != nil {
			return err
		}
		if err := report.JSON(cmd.OutOrStdout(), doc); err != nil {
			return err
		}
	default:
		if err := report.Text(cmd.OutOrStdout(), results, s.mode, diff); err != nil {
			return err
		}
	}

	if s.verbose {
		if w := report.SkippedWarning(results); w != nil && format == "text" {
			w.Display(cmd.ErrOrStderr())
		}
		s.log.LogSummary(stats, s.mode, elapsed)
	}

	if path, _ := cmd.Flags().GetString("metrics-file"); path != "" {
		rec := metrics.NewRecorder()
		rec.ObserveResults(results, s.mode, errorKind)
		rec.ObserveRun(elapsed, processor.WorkerCount(s.cfg.Workers, len(tasks)))
		if err := rec.WriteTextfile(path); err != nil {
			s.log.LogWarn(fmt.Sprintf("Failed to write metrics to %s: %v", path, err))
		}
	}

	if code := stats.ExitCode(s.mode); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// namedTargets checks the files given on the command line. Paths are taken
// relative to the working directory and reported as given.
func namedTargets(args []string) ([]target, error) {
	targets := make([]target, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", arg, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path %s does not exist", arg)
			}
			return nil, fmt.Errorf("failed to access %s: %w", arg, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("path %s is not a file", arg)
		}
		targets = append(targets, target{path: abs, display: arg})
	}
	return targets, nil
}

// discoverTargets lists every supported, non-excluded file under the
// project root, reported relative to it.
func discoverTargets(s *settings, classifier *dialect.Classifier) ([]target, error) {
	scan, err := fileutil.ScanDirectory(s.root, fileutil.ScanOptions{
		Recursive:   true,
		ExcludeDirs: fileutil.DefaultExcludeDirs,
		Exclude:     s.cfg.ShouldExclude,
		Accept: func(path string) bool {
			tmpl, err := classifier.Classify(path)
			return err == nil && !tmpl.IsZero()
		},
	})
	if err != nil {
		return nil, err
	}
	for _, scanErr := range scan.Errors {
		s.log.LogWarn(scanErr.Error())
	}

	targets := make([]target, 0, len(scan.Files))
	for _, path := range scan.Files {
		display := path
		if rel, err := filepath.Rel(s.root, path); err == nil {
			display = filepath.ToSlash(rel)
		}
		targets = append(targets, target{path: path, display: display})
	}
	s.log.LogDebug(fmt.Sprintf("Discovered %d eligible file(s) under %s", len(targets), s.root))
	return targets, nil
}
