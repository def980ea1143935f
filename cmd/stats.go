package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/flashbank/internal/mastery"
	"github.com/example/flashbank/internal/tui"
	"github.com/example/flashbank/internal/wordbank"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics for the word bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		bank, err := wordbank.Load(cmd.Context(), cfg.BankPath, cfg.StoreOptions())
		if err != nil {
			return err
		}

		records := bank.Records()
		mastery.Rerank(records)

		fmt.Println(tui.RenderStats(mastery.Stats(records, cfg.Threshold)))

		n, _ := cmd.Flags().GetInt("top")
		if n < 0 {
			return fmt.Errorf("--top must not be negative, got %d", n)
		}
		if n > len(records) {
			n = len(records)
		}
		for i, rec := range records[:n] {
			ratio, ok := rec.Ratio()
			if !ok {
				break
			}
			fmt.Printf("%3d. %-24s %-24s %3.0f%% (%d/%d)\n",
				i+1, rec.Source, rec.Target, ratio*100, rec.Correct, rec.Attempts())
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("top", 0, "Also list the N best-known words")
}
