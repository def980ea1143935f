package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/flashbank/internal/wordbank"
)

var convertCmd = &cobra.Command{
	Use:   "convert <from> <to>",
	Short: "Copy a word bank into another format",
	Long: "Loads the bank at <from> and saves it to <to>, choosing both formats " +
		"by extension (.csv, .tsv, .xlsx, .db) or postgres:// DSN.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts := cfg.StoreOptions()

		bank, err := wordbank.Load(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}
		if err := wordbank.Save(cmd.Context(), args[1], opts, bank); err != nil {
			return fmt.Errorf("failed to save %s: %w", args[1], err)
		}

		fmt.Printf("Converted %d words from %s to %s\n", bank.Len(), args[0], args[1])
		return nil
	},
}
