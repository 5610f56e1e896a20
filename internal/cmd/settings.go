package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/pathcomment/internal/config"
	"github.com/harrison/pathcomment/internal/fileio"
	"github.com/harrison/pathcomment/internal/logger"
	"github.com/harrison/pathcomment/internal/processor"
)

// settings is the resolved configuration shared by the file commands.
type settings struct {
	cfg     *config.Config
	root    string
	mode    processor.Mode
	verbose bool
	log     logger.Logger
}

// addProjectFlags registers the flags every command reading the project
// configuration accepts.
func addProjectFlags(cmd *cobra.Command) {
	cmd.Flags().String("project-root", "", "Root directory used to compute the header path (default: current directory)")
	cmd.Flags().String("config", "", "Path to config file (default: .path-comment.yaml or pyproject.toml in the project root)")
}

// addProcessingFlags registers the flags of commands that process files.
func addProcessingFlags(cmd *cobra.Command) {
	addProjectFlags(cmd)
	cmd.Flags().BoolP("check", "c", false, "Only verify; exit 1 if any file would change")
	cmd.Flags().Int("workers", 0, "Number of parallel workers (0 = one per CPU)")
	cmd.Flags().Bool("verbose", false, "Log every file and print a summary")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().BoolP("quiet", "q", false, "Suppress log output")
}

// projectRoot returns the absolute --project-root, defaulting to the
// working directory.
func projectRoot(cmd *cobra.Command) (string, error) {
	root, _ := cmd.Flags().GetString("project-root")
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project root %s does not exist", root)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project root %s is not a directory", root)
	}
	return abs, nil
}

// loadProjectConfig loads the configuration from --config or the project
// root. Problems are reported as *config.Error.
func loadProjectConfig(cmd *cobra.Command, root string) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.LoadConfigFromDir(root)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &config.Error{Source: path, Err: errors.New("config file does not exist")}
	}
	return config.LoadConfig(path)
}

// loadSettings resolves the project root, loads and validates the
// configuration and applies flag overrides.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	root, err := projectRoot(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := loadProjectConfig(cmd, root)
	if err != nil {
		return nil, configFailure(cmd, err)
	}

	var workers *int
	if cmd.Flags().Changed("workers") {
		w, _ := cmd.Flags().GetInt("workers")
		workers = &w
	}
	var mode *string
	if check, _ := cmd.Flags().GetBool("check"); check {
		verify := processor.ModeVerify.String()
		mode = &verify
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	var level *string
	if cmd.Flags().Changed("log-level") {
		l, _ := cmd.Flags().GetString("log-level")
		level = &l
	} else if verbose {
		debug := "debug"
		level = &debug
	}
	cfg.MergeWithFlags(workers, mode, level)

	if err := cfg.Validate(); err != nil {
		return nil, configFailure(cmd, err)
	}

	m, err := processor.ParseMode(cfg.DefaultMode)
	if err != nil {
		return nil, configFailure(cmd, err)
	}

	var log logger.Logger = logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		log = logger.NewNoOpLogger()
	}

	return &settings{
		cfg:     cfg,
		root:    root,
		mode:    m,
		verbose: verbose,
		log:     log,
	}, nil
}

// configFailure prints a configuration problem and returns the exit error
// that stops the command before any file is touched.
func configFailure(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Configuration Error: %v\n", err)
	return &ExitError{Code: 1}
}

// errorKind labels a per-file error for metrics.
func errorKind(err error) string {
	var fe *fileio.Error
	if errors.As(err, &fe) {
		return fe.Kind.String()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "other"
}
