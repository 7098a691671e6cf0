package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeBing(); err != nil {
		return err
	}
	c.normalizeHarvest()
	c.normalizeLogging()
	return c.normalizePaths()
}

func (c *Config) normalizeBing() error {
	if value, ok := os.LookupEnv("BING_SEARCH_API_KEY"); ok {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			c.Bing.APIKey = trimmed
		}
	}
	if value, ok := os.LookupEnv("BING_SEARCH_ENDPOINT"); ok {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			c.Bing.Endpoint = trimmed
		}
	}
	c.Bing.APIKey = strings.TrimSpace(c.Bing.APIKey)
	c.Bing.Endpoint = strings.TrimSpace(c.Bing.Endpoint)
	if c.Bing.Endpoint == "" {
		c.Bing.Endpoint = defaultEndpoint
	}
	return nil
}

func (c *Config) normalizeHarvest() {
	if c.Harvest.MaxRetries <= 0 {
		c.Harvest.MaxRetries = defaultMaxRetries
	}
	if c.Harvest.MaxImages <= 0 {
		c.Harvest.MaxImages = defaultMaxImages
	}
	if strings.TrimSpace(c.Harvest.Market) == "" {
		c.Harvest.Market = defaultMarket
	}
	if strings.TrimSpace(c.Harvest.SafeSearch) == "" {
		c.Harvest.SafeSearch = defaultSafeSearch
	}
}

func (c *Config) normalizeLogging() {
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}
