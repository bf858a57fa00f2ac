package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider string `yaml:"provider"` // yahoo | rest | mock
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		Symbol   string `yaml:"symbol"`
	} `yaml:"data_source"`
	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"redis"`
	Schedule struct {
		EvalCron  string `yaml:"eval_cron"`
		DailyCron string `yaml:"daily_cron"`
		ResetCron string `yaml:"reset_cron"`
	} `yaml:"schedule"`
	Checklist struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"checklist"`
	Database struct {
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresURL string `yaml:"postgres_url"`
	} `yaml:"database"`
	Strategy struct {
		BullishWeekdays   []string `yaml:"bullish_weekdays"`
		MinPriorRange     float64  `yaml:"min_prior_range"`
		BreakoutTolerance float64  `yaml:"breakout_tolerance"`
		EMAFast           int      `yaml:"ema_fast"`
		EMASlow           int      `yaml:"ema_slow"`
		BreakoutLookback  int      `yaml:"breakout_lookback"`
		FibLookback       int      `yaml:"fib_lookback"`
		WaveWindow        int      `yaml:"wave_window"`
		RetracementLow    float64  `yaml:"retracement_low"`
		RetracementHigh   float64  `yaml:"retracement_high"`
	} `yaml:"strategy"`
	HTTP struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env and the YAML file, then applies environment variable
// overrides and defaults. A missing file of either kind is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("WTI_SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_EVAL"); v != "" {
		cfg.Schedule.EvalCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.PostgresURL = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("WAVE_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Strategy.WaveWindow = n
		}
	}
	if v := os.Getenv("MIN_PRIOR_RANGE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Strategy.MinPriorRange = f
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "WTI"
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = 5 * time.Minute
	}
	if cfg.Schedule.EvalCron == "" {
		cfg.Schedule.EvalCron = "0 1 */2 * * *"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 22 * * 1-5"
	}
	if cfg.Schedule.ResetCron == "" {
		cfg.Schedule.ResetCron = "0 0 0 * * 1"
	}
	if cfg.Checklist.StateFile == "" {
		cfg.Checklist.StateFile = "data/checklist.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/wti_sentinel.db"
	}

	s := &cfg.Strategy
	if len(s.BullishWeekdays) == 0 {
		s.BullishWeekdays = []string{"Monday", "Tuesday", "Wednesday"}
	}
	if s.MinPriorRange == 0 {
		s.MinPriorRange = 1.00
	}
	if s.BreakoutTolerance == 0 {
		s.BreakoutTolerance = 0.30
	}
	if s.EMAFast == 0 {
		s.EMAFast = 20
	}
	if s.EMASlow == 0 {
		s.EMASlow = 50
	}
	if s.BreakoutLookback == 0 {
		s.BreakoutLookback = 20
	}
	if s.FibLookback == 0 {
		s.FibLookback = 20
	}
	if s.WaveWindow == 0 {
		s.WaveWindow = 6
	}
	if s.RetracementLow == 0 {
		s.RetracementLow = 0.618
	}
	if s.RetracementHigh == 0 {
		s.RetracementHigh = 0.382
	}

	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if len(cfg.HTTP.AllowedOrigins) == 0 {
		cfg.HTTP.AllowedOrigins = []string{"*"}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Weekdays parses Strategy.BullishWeekdays ("Monday", "mon", ...).
func (c *Config) Weekdays() ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(c.Strategy.BullishWeekdays))
	for _, s := range c.Strategy.BullishWeekdays {
		d, ok := parseWeekday(s)
		if !ok {
			return nil, fmt.Errorf("strategy.bullish_weekdays: unknown day %q", s)
		}
		out = append(out, d)
	}
	return out, nil
}

func parseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, true
		}
	}
	return 0, false
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	s := c.Strategy
	if s.WaveWindow <= 0 {
		return fmt.Errorf("strategy.wave_window must be positive")
	}
	if s.RetracementLow < 0 || s.RetracementLow > 1 || s.RetracementHigh < 0 || s.RetracementHigh > 1 {
		return fmt.Errorf("strategy retracement fractions must be within [0,1]")
	}
	if s.EMAFast >= s.EMASlow {
		return fmt.Errorf("strategy.ema_fast must be below strategy.ema_slow")
	}
	if s.MinPriorRange < 0 || s.BreakoutTolerance < 0 {
		return fmt.Errorf("strategy thresholds must not be negative")
	}
	if _, err := c.Weekdays(); err != nil {
		return err
	}
	return nil
}
