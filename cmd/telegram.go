package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/flashbank/internal/bot"
	"github.com/example/flashbank/internal/scheduler"
	"github.com/example/flashbank/internal/session"
)

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Drill the word bank through a Telegram bot",
	Long: "Runs a Telegram bot serving one chat. Set TELEGRAM_BOT_TOKEN, and " +
		"TELEGRAM_CHAT_ID to restrict the bot to your chat.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger, closeLog, err := newLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, bank, err := openBank(cmd, cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		botConfig := bot.DefaultConfig()
		botConfig.Token = cfg.TelegramToken
		botConfig.ChatID = cfg.TelegramChatID

		b, err := bot.New(botConfig, logger)
		if err != nil {
			return err
		}

		ctrl := session.New(bank, store, b, session.Options{
			Threshold:   cfg.Threshold,
			RevealDelay: cfg.RevealDelay,
			Selector:    newSelector(cfg),
			Logger:      logger,
		})
		b.Attach(ctrl)

		if cfg.AutosaveInterval > 0 {
			autosave := scheduler.New(ctrl, cfg.AutosaveInterval, logger)
			if err := autosave.Start(); err != nil {
				return err
			}
			defer autosave.Stop()
		}

		logger.Info("bot is running", "bank", cfg.BankPath)
		if err := b.Run(ctx); err != nil {
			return err
		}
		logger.Info("bot stopped, word bank saved")
		return nil
	},
}
