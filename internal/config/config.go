package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/flashbank/internal/wordbank"
)

// Environment variables read by FromEnv
const (
	EnvBank         = "FLASHBANK_BANK"
	EnvSourceColumn = "FLASHBANK_SOURCE_COLUMN"
	EnvTargetColumn = "FLASHBANK_TARGET_COLUMN"
	EnvSheet        = "FLASHBANK_SHEET"
	EnvThreshold    = "FLASHBANK_THRESHOLD"
	EnvSigma        = "FLASHBANK_SIGMA"
	EnvRevealDelay  = "FLASHBANK_REVEAL_DELAY"
	EnvAutosave     = "FLASHBANK_AUTOSAVE"
	EnvSeed         = "FLASHBANK_SEED"
	EnvLogFile      = "FLASHBANK_LOG"
	EnvLogLevel     = "FLASHBANK_LOG_LEVEL"
	EnvTelegramBot  = "TELEGRAM_BOT_TOKEN"
	EnvTelegramChat = "TELEGRAM_CHAT_ID"
)

// Config represents the configuration of a flashcard session
type Config struct {
	// Word bank file or database DSN
	BankPath string
	// Term columns of tabular banks
	Columns wordbank.Columns
	// Worksheet of .xlsx banks; the active sheet when empty
	Sheet string
	// Mastery ratio at which a record counts as mastered
	Threshold float64
	// Spread of the card draw around the mastery boundary
	Sigma float64
	// Time before a card flips on its own; negative disables the flip
	RevealDelay time.Duration
	// Time between automatic saves; zero disables autosave
	AutosaveInterval time.Duration
	// Random seed for card selection; zero seeds from the clock
	Seed int64
	// Log destination; empty means stderr for the bot and no log for the TUI
	LogFile string
	// Minimum log level: debug, info, warn or error
	LogLevel string
	// Telegram bot token
	TelegramToken string
	// The only chat the Telegram bot serves; zero accepts the first chat to send /start
	TelegramChatID int64
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		BankPath:    "data/french_words.csv",
		Columns:     wordbank.DefaultColumns(),
		Threshold:   0.8,
		Sigma:       20,
		RevealDelay: 3 * time.Second,
		LogLevel:    "info",
	}
}

// Load returns the defaults overridden by the given .env files and the
// environment. Missing .env files are skipped; variables already set in the
// environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := Default()
	if err := cfg.FromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv overrides fields with any FLASHBANK_* and TELEGRAM_* variables that are set
func (c *Config) FromEnv() error {
	if v := os.Getenv(EnvBank); v != "" {
		c.BankPath = v
	}
	if v := os.Getenv(EnvSourceColumn); v != "" {
		c.Columns.Source = v
	}
	if v := os.Getenv(EnvTargetColumn); v != "" {
		c.Columns.Target = v
	}
	if v := os.Getenv(EnvSheet); v != "" {
		c.Sheet = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvTelegramBot); v != "" {
		c.TelegramToken = v
	}

	var err error
	if v := os.Getenv(EnvThreshold); v != "" {
		if c.Threshold, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvThreshold, v, err)
		}
	}
	if v := os.Getenv(EnvSigma); v != "" {
		if c.Sigma, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSigma, v, err)
		}
	}
	if v := os.Getenv(EnvRevealDelay); v != "" {
		if c.RevealDelay, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvRevealDelay, v, err)
		}
	}
	if v := os.Getenv(EnvAutosave); v != "" {
		if c.AutosaveInterval, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvAutosave, v, err)
		}
	}
	if v := os.Getenv(EnvSeed); v != "" {
		if c.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSeed, v, err)
		}
	}
	if v := os.Getenv(EnvTelegramChat); v != "" {
		if c.TelegramChatID, err = strconv.ParseInt(strings.TrimSpace(v), 10, 64); err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTelegramChat, v, err)
		}
	}
	return nil
}

// Validate checks that every field is usable
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BankPath) == "" {
		return errors.New("word bank path is empty")
	}
	if c.Columns.Source == "" || c.Columns.Target == "" {
		return errors.New("source and target columns must be set")
	}
	if c.Columns.Source == c.Columns.Target {
		return fmt.Errorf("source and target column are both %q", c.Columns.Source)
	}
	if math.IsNaN(c.Threshold) || c.Threshold <= 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold %v out of range (0, 1]", c.Threshold)
	}
	if math.IsNaN(c.Sigma) || math.IsInf(c.Sigma, 0) || c.Sigma <= 0 {
		return fmt.Errorf("sigma %v must be positive", c.Sigma)
	}
	if c.AutosaveInterval < 0 {
		return fmt.Errorf("autosave interval %v must not be negative", c.AutosaveInterval)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// StoreOptions returns the word bank options for this configuration
func (c *Config) StoreOptions() wordbank.Options {
	return wordbank.Options{
		Columns: c.Columns,
		Sheet:   c.Sheet,
	}
}

// Level parses LogLevel
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
