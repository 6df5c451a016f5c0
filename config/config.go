package config

import (
	"time"

	"swotscraper/browser"
	"swotscraper/cache"
	"swotscraper/pipeline"
	"swotscraper/sheets"
	"swotscraper/swot"
)

const (
	DefaultSpreadsheetID   = "1BoLT_UZgvD2XHdZnNwDjMELSO983sv-Vb9mawJfSRoc"
	DefaultRange           = "Sheet1"
	DefaultCredentialsFile = "credentials.json"
	DefaultCredentialsEnv  = "GOOGLE_CREDENTIALS"
	DefaultPort            = "8000"
)

// DefaultTargets is the company table scraped when the config file names none
var DefaultTargets = []swot.Target{
	{Name: "RELIANCE", URL: "https://www.moneycontrol.com/india/stockpricequote/refineries/relianceindustries/RI"},
	{Name: "TCS", URL: "https://www.moneycontrol.com/india/stockpricequote/computers-software/tataconsultancyservices/TCS"},
	{Name: "INFY", URL: "https://www.moneycontrol.com/india/stockpricequote/computers-software/infosys/IT"},
	{Name: "HDFCBANK", URL: "https://www.moneycontrol.com/india/stockpricequote/banks-private-sector/hdfcbank/HDF01"},
	{Name: "ICICIBANK", URL: "https://www.moneycontrol.com/india/stockpricequote/banks-private-sector/icicibank/ICI02"},
	{Name: "HINDUNILVR", URL: "https://www.moneycontrol.com/india/stockpricequote/personal-care/hindustanunilever/HU"},
	{Name: "SBIN", URL: "https://www.moneycontrol.com/india/stockpricequote/banks-public-sector/statebankindia/SBI"},
	{Name: "KOTAKBANK", URL: "https://www.moneycontrol.com/india/stockpricequote/banks-private-sector/kotakmahindrabank/KMB"},
	{Name: "ITC", URL: "https://www.moneycontrol.com/india/stockpricequote/cigarettes/itc/ITC"},
	{Name: "LT", URL: "https://www.moneycontrol.com/india/stockpricequote/constructioncontracting-civil/larsentoubro/LT"},
}

// Config holds every setting of a scrape run and of the server
type Config struct {
	Targets  []swot.Target  `yaml:"targets"`
	Browser  BrowserConfig  `yaml:"browser"`
	Extract  ExtractConfig  `yaml:"extract"`
	Sheet    SheetConfig    `yaml:"sheet"`
	Redis    RedisConfig    `yaml:"redis"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

type BrowserConfig struct {
	UserAgent string `yaml:"user_agent"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Stealth   bool   `yaml:"stealth"`
	Headless  bool   `yaml:"headless"`
}

type ExtractConfig struct {
	Marker             string        `yaml:"marker"`
	EssentialsSelector string        `yaml:"essentials_selector"`
	NavigationTimeout  time.Duration `yaml:"navigation_timeout"`
	MarkerTimeout      time.Duration `yaml:"marker_timeout"`
	Delay              time.Duration `yaml:"delay"`
}

type SheetConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	Range           string `yaml:"range"`
	Mode            string `yaml:"mode"`
	CredentialsFile string `yaml:"credentials_file"`
	CredentialsEnv  string `yaml:"credentials_env"`
	MaxRetries      uint64 `yaml:"max_retries"`
}

// RedisConfig enables the result cache when Addr is set
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// SnapshotConfig enables failure snapshots when Dir is set
type SnapshotConfig struct {
	Dir string `yaml:"dir"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	sel := swot.DefaultSelectors()
	return &Config{
		Targets: append([]swot.Target(nil), DefaultTargets...),
		Browser: BrowserConfig{
			UserAgent: browser.DefaultUserAgent,
			Width:     browser.DefaultWidth,
			Height:    browser.DefaultHeight,
			Headless:  true,
		},
		Extract: ExtractConfig{
			Marker:             sel.Marker,
			EssentialsSelector: sel.Essentials,
			NavigationTimeout:  swot.DefaultNavigationTimeout,
			MarkerTimeout:      swot.DefaultMarkerTimeout,
			Delay:              pipeline.DefaultDelay,
		},
		Sheet: SheetConfig{
			SpreadsheetID:   DefaultSpreadsheetID,
			Range:           DefaultRange,
			Mode:            string(sheets.ModeAppend),
			CredentialsFile: DefaultCredentialsFile,
			CredentialsEnv:  DefaultCredentialsEnv,
			MaxRetries:      sheets.DefaultMaxRetries,
		},
		Redis: RedisConfig{
			TTL: cache.DefaultTTL,
		},
		Server: ServerConfig{
			Port: DefaultPort,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Selectors returns the extraction selectors
func (c *Config) Selectors() swot.Selectors {
	return swot.Selectors{
		Marker:     c.Extract.Marker,
		Essentials: c.Extract.EssentialsSelector,
	}
}

// BrowserOptions returns the browser identity
func (c *Config) BrowserOptions() browser.Options {
	opts := browser.DefaultOptions()
	opts.UserAgent = c.Browser.UserAgent
	opts.Width = c.Browser.Width
	opts.Height = c.Browser.Height
	opts.Stealth = c.Browser.Stealth
	opts.Headless = c.Browser.Headless
	return opts
}

// Validate checks the settings a run cannot do without
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTargets
	}

	seen := make(map[string]bool, len(c.Targets))
	for _, t := range c.Targets {
		if t.Name == "" || t.URL == "" {
			return ErrIncompleteTarget
		}
		if seen[t.Name] {
			return ErrDuplicateTarget
		}
		seen[t.Name] = true
	}

	if c.Extract.Marker == "" {
		return ErrNoMarker
	}
	if c.Extract.NavigationTimeout <= 0 || c.Extract.MarkerTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Extract.Delay < 0 {
		return ErrInvalidDelay
	}
	if _, err := sheets.ParseMode(c.Sheet.Mode); err != nil {
		return err
	}
	return nil
}
