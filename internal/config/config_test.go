package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataSource.Symbol != "WTI" || cfg.DataSource.Provider != "yahoo" {
		t.Errorf("unexpected data source defaults: %+v", cfg.DataSource)
	}
	if cfg.Schedule.EvalCron != "0 1 */2 * * *" {
		t.Errorf("unexpected eval cron %q", cfg.Schedule.EvalCron)
	}
	s := cfg.Strategy
	if s.WaveWindow != 6 || s.RetracementLow != 0.618 || s.RetracementHigh != 0.382 {
		t.Errorf("unexpected wave defaults: %+v", s)
	}
	if s.EMAFast != 20 || s.EMASlow != 50 || s.MinPriorRange != 1.00 || s.BreakoutTolerance != 0.30 {
		t.Errorf("unexpected strategy defaults: %+v", s)
	}
	if cfg.Redis.TTL != 5*time.Minute {
		t.Errorf("unexpected redis ttl %v", cfg.Redis.TTL)
	}
	days, err := cfg.Weekdays()
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 3 || days[0] != time.Monday || days[2] != time.Wednesday {
		t.Errorf("unexpected weekdays %v", days)
	}
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
telegram:
  bot_token: file-token
  chat_id: "42"
strategy:
  wave_window: 8
  bullish_weekdays: [tue, thu]
redis:
  ttl: 90s
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("WAVE_WINDOW", "10")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Telegram.BotToken != "env-token" {
		t.Errorf("env should override file, got %q", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.ChatID != "42" {
		t.Errorf("chat id = %q", cfg.Telegram.ChatID)
	}
	if cfg.Strategy.WaveWindow != 10 {
		t.Errorf("wave window = %d", cfg.Strategy.WaveWindow)
	}
	if cfg.Redis.TTL != 90*time.Second {
		t.Errorf("ttl = %v", cfg.Redis.TTL)
	}
	days, err := cfg.Weekdays()
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 2 || days[0] != time.Tuesday || days[1] != time.Thursday {
		t.Errorf("unexpected weekdays %v", days)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "telegram: [unterminated")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatal(err)
		}
		cfg.Telegram.BotToken = "token"
		cfg.Telegram.ChatID = "1"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no token", func(c *Config) { c.Telegram.BotToken = "" }, "bot_token"},
		{"rest without url", func(c *Config) { c.DataSource.Provider = "rest" }, "base_url"},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }, "not supported"},
		{"negative window", func(c *Config) { c.Strategy.WaveWindow = -1 }, "wave_window"},
		{"fraction above one", func(c *Config) { c.Strategy.RetracementLow = 1.5 }, "retracement"},
		{"ema order", func(c *Config) { c.Strategy.EMAFast = 60 }, "ema_fast"},
		{"bad weekday", func(c *Config) { c.Strategy.BullishWeekdays = []string{"Funday"} }, "Funday"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
