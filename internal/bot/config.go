package bot

import (
	"time"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Telegram bot token
	Token string
	// The only chat served; zero binds to the first chat that sends /start
	ChatID int64
	// Long-polling timeout for updates
	UpdateTimeout time.Duration
	// Time allowed for the final save when the bot stops
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		UpdateTimeout:   60 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}
