package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"merge3/logger"
	"merge3/merge"
	"merge3/store"
	"merge3/text"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Exit codes follow diff3: 0 merged, 1 conflicts, 2 trouble
const (
	exitConflict = 1
	exitTrouble  = 2
)

// exitError carries an exit code through cobra without printing a message
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// globalFlags are the flags shared by every command
type globalFlags struct {
	configPath string
	config     Config
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	defaults := defaultConfig()
	fs.StringVar(&g.configPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&g.config.LogLevel, "log-level", defaults.LogLevel, "Log level: trace, debug, info, warn, error")
	fs.StringVar(&g.config.LogFile, "log-file", "", "Log to this file instead of stderr")
	fs.StringVar(&g.config.Mode, "mode", defaults.Mode, "Merge unit: lines, words, runes")
	fs.StringVar(&g.config.Diff, "diff", defaults.Diff, "Diff strategy: optimal, dmp")
	fs.IntVar(&g.config.DiffTimeoutMs, "diff-timeout", 0, "Deadline for the dmp diff in milliseconds (0 = none)")
	fs.Float64Var(&g.config.MaxMoveDistance, "max-move-distance", defaults.MaxMoveDistance, "Largest normalized edit distance of a moved block")
	fs.IntVar(&g.config.MinMoveLength, "min-move-length", defaults.MinMoveLength, "Shortest block considered for move detection")
	fs.BoolVar(&g.config.NoMoves, "no-moves", false, "Disable move detection")
}

// resolve loads the config sources and applies the flags the user set.
func (g *globalFlags) resolve(fs *pflag.FlagSet) (Config, error) {
	config, err := loadConfig(g.configPath)
	if err != nil {
		return config, err
	}

	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "log-level":
			config.LogLevel = g.config.LogLevel
		case "log-file":
			config.LogFile = g.config.LogFile
		case "mode":
			config.Mode = g.config.Mode
		case "diff":
			config.Diff = g.config.Diff
		case "diff-timeout":
			config.DiffTimeoutMs = g.config.DiffTimeoutMs
		case "max-move-distance":
			config.MaxMoveDistance = g.config.MaxMoveDistance
		case "min-move-length":
			config.MinMoveLength = g.config.MinMoveLength
		case "no-moves":
			config.NoMoves = g.config.NoMoves
		}
	})

	if err := config.validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// setupLogger logs to config.LogFile, or stderr when unset, and routes the
// standard log package through it. Caller must defer logger.Close().
func setupLogger(config Config) (*logger.LimitedLogger, error) {
	var out io.Writer = os.Stderr
	if config.LogFile != "" {
		f, err := os.OpenFile(config.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("error opening log file: %w", err)
		}
		out = f
	}

	limitedLogger := logger.NewLimitedLogger(out, logger.ParseLogLevel(config.LogLevel))
	log.SetOutput(limitedLogger)
	return limitedLogger, nil
}

func rootCmd() *cobra.Command {
	var (
		flags  globalFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "merge3 [flags] ANCESTOR A B",
		Short: "Three-way merge with move detection",
		Long: `Merge two files that were both derived from a common ancestor.

Blocks moved in one branch keep the edits the other branch made inside them.
Files ending in .br are read and written brotli-compressed; "-" is stdin/stdout.

Configuration is applied in order, later sources winning:
  1. Defaults
  2. MERGE3_CONFIG (JSON)
  3. --config file (YAML)
  4. Command line flags

Exit status is 0 when the merge succeeds, 1 on conflicts and 2 on errors.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return runMerge(cmd.Context(), config, args, output, cmd.ErrOrStderr())
		},
	}

	flags.register(cmd.PersistentFlags())
	cmd.Flags().StringVarP(&output, "output", "o", store.Stdio, "Where to write the merge result")

	cmd.AddCommand(planCmd(&flags))
	cmd.AddCommand(nvimCmd(&flags))
	return cmd
}

func runMerge(ctx context.Context, config Config, paths []string, output string, stderr io.Writer) error {
	ll, err := setupLogger(config)
	if err != nil {
		return err
	}
	defer ll.Close()

	contents, err := store.ReadAll(ctx, paths...)
	if err != nil {
		return err
	}

	merged, err := text.Merge(contents[0], contents[1], contents[2], config.options())
	if errors.Is(err, merge.ErrConflict) {
		fmt.Fprint(stderr, text.FormatConflicts(err))
		return exitError{code: exitConflict}
	}
	if err != nil {
		return err
	}
	return store.Write(output, merged)
}

func planCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "plan ANCESTOR A B",
		Short: "Print the reconciled changes without applying them",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return runPlan(cmd.Context(), config, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runPlan(ctx context.Context, config Config, paths []string, stdout, stderr io.Writer) error {
	ll, err := setupLogger(config)
	if err != nil {
		return err
	}
	defer ll.Close()

	contents, err := store.ReadAll(ctx, paths...)
	if err != nil {
		return err
	}

	opts := config.options()
	m, err := text.NewMerger(opts)
	if err != nil {
		return err
	}
	plan, err := m.Reconcile(text.Split(contents[0], opts.Mode), text.Split(contents[1], opts.Mode), text.Split(contents[2], opts.Mode))
	if errors.Is(err, merge.ErrConflict) {
		fmt.Fprint(stderr, text.FormatConflicts(err))
		return exitError{code: exitConflict}
	}
	if err != nil {
		return err
	}

	printChanges(stdout, "A", plan.ChangesA)
	printChanges(stdout, "B", plan.ChangesB)
	printChanges(stdout, "merged", plan.Changes)
	return nil
}

func printChanges(w io.Writer, title string, changes []merge.Change[string]) {
	fmt.Fprintf(w, "%s (%d changes)\n", title, len(changes))
	for _, c := range changes {
		fmt.Fprintf(w, "  %s\n", text.DescribeChange(c))
	}
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitTrouble)
	}
}
