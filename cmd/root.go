package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/example/flashbank/internal/config"
	"github.com/example/flashbank/internal/selector"
)

var rootCmd = &cobra.Command{
	Use:   "flashbank",
	Short: "Adaptive flashcard trainer",
	Long: "Flashbank drills vocabulary from a word bank, showing the words you are " +
		"about to master more often than the ones you already know.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	addConfigFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(telegramCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(convertCmd)
}

// addConfigFlags declares the flags read by loadConfig
func addConfigFlags(flags *pflag.FlagSet) {
	flags.String("bank", "", "Word bank file (.csv, .tsv, .xlsx, .db) or postgres:// DSN (overrides FLASHBANK_BANK)")
	flags.String("source-col", "", "Column holding the term shown first")
	flags.String("target-col", "", "Column holding the translation")
	flags.String("sheet", "", "Worksheet of an .xlsx bank")
	flags.Float64("threshold", 0, "Mastery ratio at which a word counts as mastered")
	flags.Float64("sigma", 0, "Spread of the card draw around the mastery boundary")
	flags.Duration("reveal-delay", 0, "Time before a card flips on its own; negative disables it")
	flags.Duration("autosave", 0, "Save the bank at this interval; zero disables autosave")
	flags.Int64("seed", 0, "Random seed for card selection; zero seeds from the clock")
	flags.String("env-file", ".env", "Environment file to read settings from")
}

// loadConfig builds the configuration from the env file, the environment,
// and finally the flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("bank") {
		cfg.BankPath, _ = flags.GetString("bank")
	}
	if flags.Changed("source-col") {
		cfg.Columns.Source, _ = flags.GetString("source-col")
	}
	if flags.Changed("target-col") {
		cfg.Columns.Target, _ = flags.GetString("target-col")
	}
	if flags.Changed("sheet") {
		cfg.Sheet, _ = flags.GetString("sheet")
	}
	if flags.Changed("threshold") {
		cfg.Threshold, _ = flags.GetFloat64("threshold")
	}
	if flags.Changed("sigma") {
		cfg.Sigma, _ = flags.GetFloat64("sigma")
	}
	if flags.Changed("reveal-delay") {
		cfg.RevealDelay, _ = flags.GetDuration("reveal-delay")
	}
	if flags.Changed("autosave") {
		cfg.AutosaveInterval, _ = flags.GetDuration("autosave")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger returns a text logger writing to cfg.LogFile, or to fallback when
// no log file is configured. The returned close func releases the file.
func newLogger(cfg *config.Config, fallback io.Writer) (*slog.Logger, func(), error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}

	w, closeFn := fallback, func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closeFn = f, func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closeFn, nil
}

// newSelector returns the card selector for cfg
func newSelector(cfg *config.Config) *selector.Selector {
	sel := selector.New(nil)
	if cfg.Seed != 0 {
		sel = selector.NewSeeded(cfg.Seed)
	}
	sel.Sigma = cfg.Sigma
	return sel
}
