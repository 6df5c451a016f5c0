package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read from the working directory when no path is given
const DefaultConfigFile = "swot.yaml"

// Load reads the YAML file at path over the defaults. A missing file is an error
// only when the path was given explicitly.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // operator supplied path
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return nil, ErrConfigNotFound
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("SWOT_SPREADSHEET_ID"); v != "" {
		c.Sheet.SpreadsheetID = v
	}
	if v := getenv("SWOT_SHEET_RANGE"); v != "" {
		c.Sheet.Range = v
	}
	if v := getenv("SWOT_SHEET_MODE"); v != "" {
		c.Sheet.Mode = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = db
		}
	}
	if v := getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// CredentialsFromEnv reports whether credential JSON is provided through the environment
func (c *Config) CredentialsFromEnv(getenv func(string) string) bool {
	return c.Sheet.CredentialsEnv != "" && getenv(c.Sheet.CredentialsEnv) != ""
}
