package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

const (
	appDirName     = "seedbot"
	configFileName = "config.json"
)

// Load reads path over the defaults, applies SEEDBOT_* environment overrides
// and validates the result. Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := sonic.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as indented JSON.
func (c *Config) Save(path string) error {
	data, err := sonic.ConfigStd.MarshalIndent(c, "", "    ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// FindConfig resolves the config file: providedPath when set, otherwise
// <user config dir>/seedbot/config.json, created with defaults on first run.
func FindConfig(providedPath string) (string, error) {
	if providedPath != "" {
		if _, err := os.Stat(providedPath); err != nil {
			return "", fmt.Errorf("config %s: %w", providedPath, err)
		}
		return providedPath, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	path := filepath.Join(dir, appDirName, configFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Default().Save(path); err != nil {
			return "", fmt.Errorf("write default config: %w", err)
		}
	}
	return path, nil
}

func (c *Config) applyEnv() {
	c.TemplateDir = getEnv("SEEDBOT_TEMPLATE_DIR", c.TemplateDir)
	c.ReportDir = getEnv("SEEDBOT_REPORT_DIR", c.ReportDir)
	c.DebugDump = getEnvBool("SEEDBOT_DEBUG_DUMP", c.DebugDump)
	c.MatchThreshold = getEnvFloat("SEEDBOT_MATCH_THRESHOLD", c.MatchThreshold)
	c.BuyRarities = getEnvList("SEEDBOT_BUY_RARITIES", c.BuyRarities)
	c.DisplayID = getEnvInt("SEEDBOT_DISPLAY", c.DisplayID)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true" || v == "1"
	}
	return def
}

func getEnvList(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				result = append(result, t)
			}
		}
		return result
	}
	return def
}
