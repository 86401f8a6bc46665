// Package main provides the CLI entrypoint for taja.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/taja/internal/config"
	"github.com/verte-zerg/taja/internal/generator"
	"github.com/verte-zerg/taja/internal/logging"
	"github.com/verte-zerg/taja/internal/model"
	"github.com/verte-zerg/taja/internal/session"
	"github.com/verte-zerg/taja/internal/source"
	"github.com/verte-zerg/taja/internal/store"
	"github.com/verte-zerg/taja/internal/tui"
	"github.com/verte-zerg/taja/internal/wordlist"
)

const (
	defaultSource       = model.SourceRemote
	defaultTimeout      = 10 * time.Second
	defaultLibraryLimit = 200
	defaultLogLevel     = "info"
)

var (
	practiceSource   string
	practiceURL      string
	practiceFile     string
	practiceTimeout  time.Duration
	practiceShuffle  bool
	practiceAutoNext bool
	practiceCaret    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "taja",
		Short:         "Korean sentence typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	addSourceFlags(rootCmd)
	rootCmd.Flags().BoolVar(&practiceAutoNext, "auto-next", true, "advance to the next sentence on completion")
	rootCmd.Flags().BoolVar(&practiceCaret, "caret", false, "underline the next character to type")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSentencesCmd())
	rootCmd.AddCommand(newImportCmd())

	return rootCmd
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&practiceSource, "source", defaultSource, "sentence source: remote, file or library")
	cmd.Flags().StringVar(&practiceURL, "url", source.DefaultURL, "remote sentence endpoint")
	cmd.Flags().StringVar(&practiceFile, "file", "", "sentence file (text|author|profile per line)")
	cmd.Flags().DurationVar(&practiceTimeout, "timeout", defaultTimeout, "remote fetch timeout")
	cmd.Flags().BoolVar(&practiceShuffle, "shuffle", false, "shuffle the sentence queue")
}

// resolved bundles everything a command needs after config and flags are merged.
type resolved struct {
	cfg          model.Config
	libraryLimit int
	logLevel     string
	logPath      string
}

func resolveConfig(cmd *cobra.Command) (resolved, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return resolved{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "source", &practiceSource, fileCfg.Practice.Source)
	applyStringConfig(cmd, "url", &practiceURL, fileCfg.Practice.URL)
	applyStringConfig(cmd, "file", &practiceFile, fileCfg.Practice.File)
	applyDurationConfig(cmd, "timeout", &practiceTimeout, fileCfg.Practice.TimeoutValue())
	applyBoolConfig(cmd, "shuffle", &practiceShuffle, fileCfg.Practice.Shuffle)
	applyBoolConfig(cmd, "auto-next", &practiceAutoNext, fileCfg.Practice.AutoNext)
	applyBoolConfig(cmd, "caret", &practiceCaret, fileCfg.Practice.Caret)

	policy := model.PolicyKeystrokes
	if fileCfg.Practice.Policy != nil {
		policy = *fileCfg.Practice.Policy
	}
	out := resolved{
		cfg: model.Config{
			Source:      practiceSource,
			URL:         practiceURL,
			File:        practiceFile,
			LibraryPath: valueOr(fileCfg.Library.Path, config.DefaultLibraryPath()),
			Timeout:     practiceTimeout,
			Shuffle:     practiceShuffle,
			AutoNext:    practiceAutoNext,
			ShowCaret:   practiceCaret,
			Policy:      policy,
		},
		libraryLimit: defaultLibraryLimit,
		logLevel:     valueOr(fileCfg.Log.Level, defaultLogLevel),
		logPath:      valueOr(fileCfg.Log.Path, config.DefaultLogPath()),
	}
	if fileCfg.Library.Limit != nil {
		out.libraryLimit = *fileCfg.Library.Limit
	}
	if err := validateConfig(out.cfg, out.libraryLimit); err != nil {
		return resolved{}, err
	}
	return out, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	res, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("taja needs an interactive terminal")
	}

	logger, closeLog, err := logging.Open(res.logPath, res.logLevel)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	supplier, closeSupplier, err := buildSupplier(res)
	if err != nil {
		return err
	}
	defer closeSupplier()

	logger.Info("starting practice",
		"source", res.cfg.Source,
		"shuffle", res.cfg.Shuffle,
		"auto_next", res.cfg.AutoNext,
		"policy", res.cfg.Policy,
	)
	ctrl := session.New(session.Options{
		AutoNext: res.cfg.AutoNext,
		Policy:   res.cfg.Policy,
		Logger:   logger,
	})
	m := tui.NewModel(res.cfg, ctrl, supplier, logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// buildSupplier returns the configured sentence supplier and a cleanup
// function that releases anything it opened.
func buildSupplier(res resolved) (source.Supplier, func(), error) {
	var (
		supplier source.Supplier
		cleanup  = func() {}
	)
	switch res.cfg.Source {
	case model.SourceRemote:
		supplier = &source.Remote{URL: res.cfg.URL, Timeout: res.cfg.Timeout}
	case model.SourceFile:
		supplier = &source.File{Path: res.cfg.File}
	case model.SourceLibrary:
		st, err := store.Open(res.cfg.LibraryPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open library: %w", err)
		}
		cleanup = func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close library: %v\n", cerr)
			}
		}
		supplier = &source.Library{Store: st, Limit: res.libraryLimit}
	default:
		return nil, nil, fmt.Errorf("unknown source %q", res.cfg.Source)
	}
	if res.cfg.Shuffle {
		supplier = &source.Shuffled{Supplier: supplier, Gen: generator.New()}
	}
	return supplier, cleanup, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newSentencesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sentences",
		Short: "Print the sentence queue the configured source yields",
		Args:  cobra.NoArgs,
		RunE:  runSentencesCmd,
	}
	addSourceFlags(cmd)
	return cmd
}

func runSentencesCmd(cmd *cobra.Command, _ []string) error {
	res, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	supplier, closeSupplier, err := buildSupplier(res)
	if err != nil {
		return err
	}
	defer closeSupplier()

	logger := logging.New(os.Stderr, logging.ParseLevel(res.logLevel))
	ctx, cancel := context.WithTimeout(cmd.Context(), res.cfg.Timeout)
	defer cancel()
	sentences := source.Resolve(ctx, supplier, logger)
	return printSentences(cmd, sentences)
}

func printSentences(cmd *cobra.Command, sentences []model.Sentence) error {
	for i, s := range sentences {
		line := fmt.Sprintf("%3d. %s — %s", i+1, s.Text, s.Author)
		if s.Profile != "" {
			line += " (" + s.Profile + ")"
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a sentence file into the local library",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	sentences, err := wordlist.LoadSentences(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	sentences = source.Normalize(sentences)

	libraryPath := valueOr(fileCfg.Library.Path, config.DefaultLibraryPath())
	st, err := store.Open(libraryPath)
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close library: %v\n", cerr)
		}
	}()

	added, err := st.InsertSentences(cmd.Context(), sentences)
	if err != nil {
		return fmt.Errorf("failed to import sentences: %w", err)
	}
	total, err := st.CountSentences(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to count sentences: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d sentences (%d in library)\n", added, len(sentences), total); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target, value *time.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func valueOr(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# taja configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# source = %q        # remote, file or library
# url = %q
# file = ""                # Sentence file, one "text|author|profile" per line
# timeout = %q            # Remote fetch timeout
# shuffle = false          # Shuffle the sentence queue
# auto-next = true         # Advance to the next sentence on completion
# caret = false            # Underline the next character to type
# policy = %q    # Metric counting: keystrokes or resolutions

[library]
# path = %q
# limit = %d

[log]
# level = %q             # debug, info, warn or error
# path = %q
`,
		defaultSource,
		source.DefaultURL,
		defaultTimeout.String(),
		model.PolicyKeystrokes,
		config.DefaultLibraryPath(),
		defaultLibraryLimit,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config, libraryLimit int) error {
	switch cfg.Source {
	case model.SourceRemote:
		if strings.TrimSpace(cfg.URL) == "" {
			return fmt.Errorf("--url must not be empty")
		}
	case model.SourceFile:
		if strings.TrimSpace(cfg.File) == "" {
			return fmt.Errorf("--file is required with --source file")
		}
	case model.SourceLibrary:
	default:
		return fmt.Errorf("--source must be one of remote, file, library")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	if cfg.Policy != model.PolicyKeystrokes && cfg.Policy != model.PolicyResolutions {
		return fmt.Errorf("practice.policy must be %q or %q", model.PolicyKeystrokes, model.PolicyResolutions)
	}
	if libraryLimit < 0 {
		return fmt.Errorf("library.limit must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
