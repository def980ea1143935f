package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/example/flashbank/internal/config"
	"github.com/example/flashbank/internal/scheduler"
	"github.com/example/flashbank/internal/session"
	"github.com/example/flashbank/internal/tui"
	"github.com/example/flashbank/internal/wordbank"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Drill the word bank in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func runPlay(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI; log only when a file is configured.
	logger, closeLog, err := newLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	store, bank, err := openBank(cmd, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	model := tui.New()
	ctrl := session.New(bank, store, model, session.Options{
		Threshold:   cfg.Threshold,
		RevealDelay: cfg.RevealDelay,
		Selector:    newSelector(cfg),
		Logger:      logger,
	})
	model.Attach(ctrl)

	if cfg.AutosaveInterval > 0 {
		autosave := scheduler.New(ctrl, cfg.AutosaveInterval, logger)
		if err := autosave.Start(); err != nil {
			return err
		}
		defer autosave.Stop()
	}

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	if err := model.Err(); err != nil {
		return err
	}
	if model.Discarded() {
		fmt.Fprintln(os.Stderr, "Quit without saving.")
		return nil
	}
	if err := model.SaveErr(); err != nil {
		return err
	}

	started, judged := ctrl.Rounds()
	fmt.Printf("Saved %s: %d cards shown, %d answered.\n", cfg.BankPath, started, judged)
	return nil
}

// openBank opens the configured store and loads the bank from it
func openBank(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (wordbank.Store, *wordbank.Bank, error) {
	store, err := wordbank.OpenExisting(cfg.BankPath, cfg.StoreOptions())
	if err != nil {
		return nil, nil, err
	}

	bank, err := store.Load(cmd.Context())
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to load word bank %s: %w", cfg.BankPath, err)
	}

	logger.Info("word bank loaded", "path", cfg.BankPath, "words", bank.Len())
	return store, bank, nil
}
