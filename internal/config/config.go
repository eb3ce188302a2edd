package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultWatchlist is used when no symbols are configured.
var DefaultWatchlist = []string{"AAPL", "MSFT", "AMZN", "GOOGL", "META", "TSLA", "NVDA", "JPM", "V", "JNJ"}

// DefaultAmount is the investment amount used when none is configured. Zero is
// a valid explicit amount, so it is preset before the file and env are read.
const DefaultAmount = 1000.0

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Proxy   string `yaml:"proxy"`
	} `yaml:"data_source"`
	Watchlist  []string `yaml:"watchlist"`
	Investment struct {
		Amount          float64 `yaml:"amount"`
		HorizonMonths   int     `yaml:"horizon_months"`
		FrequencyMonths int     `yaml:"frequency_months"`
		Currency        string  `yaml:"currency"`
	} `yaml:"investment"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		DigestCron string `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Investment.Amount = DefaultAmount

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := map[string]*string{
		"VSTRADER_BASE_URL":  &c.DataSource.BaseURL,
		"VSTRADER_API_KEY":   &c.DataSource.APIKey,
		"HTTPS_PROXY":        &c.DataSource.Proxy,
		"SQLITE_PATH":        &c.Database.SQLitePath,
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"CRON_DIGEST":        &c.Schedule.DigestCron,
		"LISTEN_ADDR":        &c.Server.Addr,
	}
	for key, dst := range setString {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Watchlist = splitSymbols(v)
	}
	if v := os.Getenv("INVEST_AMOUNT"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse INVEST_AMOUNT: %w", err)
		}
		c.Investment.Amount = amount
	}
	for key, dst := range map[string]*int{
		"HORIZON_MONTHS":   &c.Investment.HorizonMonths,
		"FREQUENCY_MONTHS": &c.Investment.FrequencyMonths,
	} {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("parse %s: %w", key, err)
			}
			*dst = n
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if len(c.Watchlist) == 0 {
		c.Watchlist = append([]string(nil), DefaultWatchlist...)
	}
	for i, s := range c.Watchlist {
		c.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	if c.Investment.HorizonMonths == 0 {
		c.Investment.HorizonMonths = 12
	}
	if c.Investment.FrequencyMonths == 0 {
		c.Investment.FrequencyMonths = 1
	}
	if c.Investment.Currency == "" {
		c.Investment.Currency = "EUR"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/returnlens.db"
	}
	if c.Schedule.DigestCron == "" {
		c.Schedule.DigestCron = "0 0 8 * * 1"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// TelegramEnabled reports whether both Telegram credentials are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	if c.Investment.Amount < 0 {
		return fmt.Errorf("investment.amount must not be negative")
	}
	if c.Investment.HorizonMonths <= 0 {
		return fmt.Errorf("investment.horizon_months must be positive")
	}
	if c.Investment.FrequencyMonths <= 0 {
		return fmt.Errorf("investment.frequency_months must be positive")
	}
	if c.Investment.FrequencyMonths > c.Investment.HorizonMonths {
		return fmt.Errorf("investment.frequency_months must not exceed horizon_months")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	for _, s := range c.Watchlist {
		if s == "" {
			return fmt.Errorf("watchlist contains an empty symbol")
		}
	}
	return nil
}

func splitSymbols(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
