// Package config assembles the watcher configuration from defaults, an
// optional YAML file and environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jdhwiz/brickwatch/internal/stock"
)

type Config struct {
	Email     EmailConfig
	Settings  SettingsConfig
	Browser   BrowserConfig
	Artifacts ArtifactsConfig
	Ledger    LedgerConfig
	Server    ServerConfig
	Logging   LoggingConfig
	Notify    NotifyConfig
}

type EmailConfig struct {
	Recipient   string
	SMTPServer  string
	SMTPPort    int
	FromAddress string
	Username    string
	Password    string
	SendSummary bool
}

type SettingsConfig struct {
	// CheckDelay..CheckDelayMax is the jittered pause after every check
	// attempt.
	CheckDelay    time.Duration
	CheckDelayMax time.Duration
	// PageWait is the render-settle wait after navigation.
	PageWait time.Duration
	// Timeout bounds one whole fetch.
	Timeout time.Duration
}

type BrowserConfig struct {
	Headless       bool
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	AcceptLanguage string
	Locale         string
	TimezoneID     string
}

type ArtifactsConfig struct {
	Dir string
}

type LedgerConfig struct {
	Path string
}

type ServerConfig struct {
	Enabled bool
	Host    string
	Port    int
}

type LoggingConfig struct {
	Level  string
	Format string
}

type NotifyConfig struct {
	// States lists the stock states that trigger a per-target alert.
	States []string
}

// Load builds the configuration. filePath may be empty; a missing file at a
// non-empty path is an error, since the operator asked for it explicitly.
func Load(filePath string) (*Config, error) {
	cfg := defaults()

	if filePath != "" {
		if err := cfg.applyFile(filePath); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Email: EmailConfig{
			Recipient:   "",
			SMTPServer:  "localhost",
			SMTPPort:    25,
			FromAddress: "brickwatch@localhost",
			SendSummary: true,
		},
		Settings: SettingsConfig{
			CheckDelay:    15 * time.Second,
			CheckDelayMax: 25 * time.Second,
			PageWait:      20 * time.Second,
			Timeout:       60 * time.Second,
		},
		Browser: BrowserConfig{
			Headless:       true,
			UserAgent:      "Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0",
			ViewportWidth:  1920,
			ViewportHeight: 1080,
			AcceptLanguage: "en-US,en;q=0.9",
			Locale:         "en-US",
			TimezoneID:     "America/New_York",
		},
		Artifacts: ArtifactsConfig{Dir: "logs"},
		Ledger:    LedgerConfig{Path: "brickwatch-ledger.json"},
		Server: ServerConfig{
			Enabled: false,
			Host:    "0.0.0.0",
			Port:    8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Notify: NotifyConfig{
			States: stateStrings(stock.DefaultNotifyStates()),
		},
	}
}

// fileConfig mirrors the YAML layout. Delays are plain seconds, matching the
// original operator-facing config files.
type fileConfig struct {
	Email struct {
		Recipient   string `yaml:"recipient"`
		SMTPServer  string `yaml:"smtp_server"`
		SMTPPort    int    `yaml:"smtp_port"`
		FromAddress string `yaml:"from_address"`
		Username    string `yaml:"username"`
		Password    string `yaml:"password"`
		SendSummary *bool  `yaml:"send_summary"`
	} `yaml:"email"`
	Settings struct {
		CheckDelay    int `yaml:"check_delay"`
		CheckDelayMax int `yaml:"check_delay_max"`
		PageWait      int `yaml:"page_wait"`
		Timeout       int `yaml:"timeout"`
	} `yaml:"settings"`
	Browser struct {
		Headless       *bool  `yaml:"headless"`
		UserAgent      string `yaml:"user_agent"`
		ViewportWidth  int    `yaml:"viewport_width"`
		ViewportHeight int    `yaml:"viewport_height"`
		AcceptLanguage string `yaml:"accept_language"`
		Locale         string `yaml:"locale"`
		TimezoneID     string `yaml:"timezone"`
	} `yaml:"browser"`
	Artifacts struct {
		Dir string `yaml:"dir"`
	} `yaml:"artifacts"`
	Ledger struct {
		Path string `yaml:"path"`
	} `yaml:"ledger"`
	Server struct {
		Enabled *bool  `yaml:"enabled"`
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	Notify struct {
		States []string `yaml:"states"`
	} `yaml:"notify"`
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	setString(&c.Email.Recipient, fc.Email.Recipient)
	setString(&c.Email.SMTPServer, fc.Email.SMTPServer)
	setInt(&c.Email.SMTPPort, fc.Email.SMTPPort)
	setString(&c.Email.FromAddress, fc.Email.FromAddress)
	setString(&c.Email.Username, fc.Email.Username)
	setString(&c.Email.Password, fc.Email.Password)
	if fc.Email.SendSummary != nil {
		c.Email.SendSummary = *fc.Email.SendSummary
	}

	setSeconds(&c.Settings.CheckDelay, fc.Settings.CheckDelay)
	setSeconds(&c.Settings.CheckDelayMax, fc.Settings.CheckDelayMax)
	setSeconds(&c.Settings.PageWait, fc.Settings.PageWait)
	setSeconds(&c.Settings.Timeout, fc.Settings.Timeout)

	if fc.Browser.Headless != nil {
		c.Browser.Headless = *fc.Browser.Headless
	}
	setString(&c.Browser.UserAgent, fc.Browser.UserAgent)
	setInt(&c.Browser.ViewportWidth, fc.Browser.ViewportWidth)
	setInt(&c.Browser.ViewportHeight, fc.Browser.ViewportHeight)
	setString(&c.Browser.AcceptLanguage, fc.Browser.AcceptLanguage)
	setString(&c.Browser.Locale, fc.Browser.Locale)
	setString(&c.Browser.TimezoneID, fc.Browser.TimezoneID)

	setString(&c.Artifacts.Dir, fc.Artifacts.Dir)
	setString(&c.Ledger.Path, fc.Ledger.Path)

	if fc.Server.Enabled != nil {
		c.Server.Enabled = *fc.Server.Enabled
	}
	setString(&c.Server.Host, fc.Server.Host)
	setInt(&c.Server.Port, fc.Server.Port)

	setString(&c.Logging.Level, fc.Logging.Level)
	setString(&c.Logging.Format, fc.Logging.Format)

	if len(fc.Notify.States) > 0 {
		c.Notify.States = fc.Notify.States
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	c.Email.Recipient = getEnvOrDefault("EMAIL_RECIPIENT", c.Email.Recipient)
	c.Email.SMTPServer = getEnvOrDefault("EMAIL_SMTP_SERVER", c.Email.SMTPServer)
	c.Email.SMTPPort = getIntOrDefault("EMAIL_SMTP_PORT", c.Email.SMTPPort)
	c.Email.FromAddress = getEnvOrDefault("EMAIL_FROM_ADDRESS", c.Email.FromAddress)
	c.Email.Username = getEnvOrDefault("EMAIL_SMTP_USERNAME", c.Email.Username)
	c.Email.Password = getEnvOrDefault("EMAIL_SMTP_PASSWORD", c.Email.Password)
	c.Email.SendSummary = getBoolOrDefault("EMAIL_SEND_SUMMARY", c.Email.SendSummary)

	c.Settings.CheckDelay = getDurationOrDefault("CHECK_DELAY", c.Settings.CheckDelay)
	c.Settings.CheckDelayMax = getDurationOrDefault("CHECK_DELAY_MAX", c.Settings.CheckDelayMax)
	c.Settings.PageWait = getDurationOrDefault("PAGE_WAIT", c.Settings.PageWait)
	c.Settings.Timeout = getDurationOrDefault("FETCH_TIMEOUT", c.Settings.Timeout)

	c.Browser.Headless = getBoolOrDefault("BROWSER_HEADLESS", c.Browser.Headless)
	c.Browser.UserAgent = getEnvOrDefault("BROWSER_USER_AGENT", c.Browser.UserAgent)
	c.Browser.ViewportWidth = getIntOrDefault("BROWSER_VIEWPORT_WIDTH", c.Browser.ViewportWidth)
	c.Browser.ViewportHeight = getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", c.Browser.ViewportHeight)
	c.Browser.AcceptLanguage = getEnvOrDefault("BROWSER_ACCEPT_LANGUAGE", c.Browser.AcceptLanguage)
	c.Browser.Locale = getEnvOrDefault("BROWSER_LOCALE", c.Browser.Locale)
	c.Browser.TimezoneID = getEnvOrDefault("BROWSER_TIMEZONE", c.Browser.TimezoneID)

	c.Artifacts.Dir = getEnvOrDefault("ARTIFACTS_DIR", c.Artifacts.Dir)
	c.Ledger.Path = getEnvOrDefault("LEDGER_PATH", c.Ledger.Path)

	c.Server.Enabled = getBoolOrDefault("SERVER_ENABLED", c.Server.Enabled)
	c.Server.Host = getEnvOrDefault("SERVER_HOST", c.Server.Host)
	c.Server.Port = getIntOrDefault("SERVER_PORT", c.Server.Port)

	c.Logging.Level = getEnvOrDefault("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnvOrDefault("LOG_FORMAT", c.Logging.Format)

	if v := os.Getenv("NOTIFY_STATES"); v != "" {
		c.Notify.States = splitAndTrim(v)
	}
}

func (c *Config) Validate() error {
	if c.Settings.CheckDelay < 0 || c.Settings.PageWait < 0 || c.Settings.Timeout <= 0 {
		return fmt.Errorf("settings delays must be non-negative and timeout positive")
	}
	if c.Settings.CheckDelayMax < c.Settings.CheckDelay {
		return fmt.Errorf("CHECK_DELAY_MAX cannot be less than CHECK_DELAY")
	}
	if c.Server.Enabled && (c.Server.Port < 1 || c.Server.Port > 65535) {
		return fmt.Errorf("SERVER_PORT out of range: %d", c.Server.Port)
	}
	if _, err := c.NotifyStates(); err != nil {
		return err
	}
	return nil
}

// NotifyStates resolves the configured state names into the closed
// enumeration.
func (c *Config) NotifyStates() (map[stock.State]bool, error) {
	states := make(map[stock.State]bool, len(c.Notify.States))
	for _, name := range c.Notify.States {
		s, ok := stock.ParseState(strings.ToUpper(strings.TrimSpace(name)))
		if !ok {
			return nil, fmt.Errorf("unknown notify state %q", name)
		}
		states[s] = true
	}
	return states, nil
}

func stateStrings(states []stock.State) []string {
	out := make([]string, 0, len(states))
	for _, s := range states {
		out = append(out, string(s))
	}
	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setSeconds(dst *time.Duration, secs int) {
	if secs != 0 {
		*dst = time.Duration(secs) * time.Second
	}
}

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
