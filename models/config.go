// Package models defines data structures shared across the monitor:
// configuration, contacts, and extraction results.
package models

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTimezone  = "America/New_York"
	DefaultThreshold = 20
)

// DefaultBaseURLs are the deployment URL variants tried in order. Both the
// www and bare hosts are known to serve the application, depending on which
// certificate the deployment renewed last.
var DefaultBaseURLs = []string{
	"https://www.avrteleris.com/AVR",
	"https://avrteleris.com/AVR",
}

// WindowRange is a single allowed time range within one weekday,
// "HH:MM"–"HH:MM" inclusive in the configured timezone.
type WindowRange struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Config holds everything one run needs. Credentials and the bot token are
// normally injected from the environment, not the YAML file.
type Config struct {
	BaseURLs  []string `yaml:"base_urls"`
	EntryPath string   `yaml:"entry_path"`
	Worklist  string   `yaml:"worklist_path"`

	Username string `yaml:"username"`
	Password string `yaml:"password"`

	Timezone   string `yaml:"timezone"`
	Threshold  int    `yaml:"threshold_total"`
	ForceAlert bool   `yaml:"force_alert"`

	// Windows maps lowercase weekday names ("mon".."sun") to allowed ranges.
	Windows map[string][]WindowRange `yaml:"windows"`

	TelegramToken string `yaml:"telegram_token"`

	CrawlMaxDepth int `yaml:"crawl_max_depth"`
	CrawlMaxPages int `yaml:"crawl_max_pages"`
}

// Contact is one notification recipient.
type Contact struct {
	Name   string `yaml:"name"`
	ChatID int64  `yaml:"chat_id"`
}

// LoadConfig reads the YAML config file, fills defaults, and applies
// environment overrides. A missing file is not an error: the defaults plus
// environment are a complete configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.BaseURLs) == 0 {
		c.BaseURLs = append(c.BaseURLs, DefaultBaseURLs...)
	}
	if c.EntryPath == "" {
		c.EntryPath = "Index.aspx"
	}
	if c.Worklist == "" {
		c.Worklist = "Forms/Worklist/worklist.aspx"
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.Threshold == 0 {
		c.Threshold = DefaultThreshold
	}
	if c.CrawlMaxDepth == 0 {
		c.CrawlMaxDepth = 3
	}
	if c.CrawlMaxPages == 0 {
		c.CrawlMaxPages = 60
	}
	if len(c.Windows) == 0 {
		c.Windows = DefaultWindows()
	}
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("AVR_USERNAME")); v != "" {
		c.Username = v
	}
	if v := strings.TrimSpace(os.Getenv("AVR_PASSWORD")); v != "" {
		c.Password = v
	}
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v, ok := os.LookupEnv("FORCE_ALERT"); ok {
		c.ForceAlert = Truthy(v)
	}
}

// DefaultWindows returns the standing notification windows:
// Mon–Fri 6pm–midnight, Sat 4am–midnight, Sun midnight–9pm.
func DefaultWindows() map[string][]WindowRange {
	w := map[string][]WindowRange{}
	for _, d := range []string{"mon", "tue", "wed", "thu", "fri"} {
		w[d] = []WindowRange{{Start: "18:00", End: "23:59"}}
	}
	w["sat"] = []WindowRange{{Start: "04:00", End: "23:59"}}
	w["sun"] = []WindowRange{{Start: "00:00", End: "21:00"}}
	return w
}

// LoadContacts reads the recipient list. A missing file yields an empty list.
func LoadContacts(path string) ([]Contact, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read contacts %s: %w", path, err)
	}
	var contacts []Contact
	if err := yaml.Unmarshal(data, &contacts); err != nil {
		return nil, fmt.Errorf("failed to parse contacts %s: %w", path, err)
	}
	return contacts, nil
}

// Truthy reports whether an environment flag value means "on".
func Truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
