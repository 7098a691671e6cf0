package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBing(); err != nil {
		return err
	}
	if err := c.validateHarvest(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBing() error {
	if c.Bing.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/harvester/config.toml"
		}
		return fmt.Errorf("bing.api_key is required. Set BING_SEARCH_API_KEY env var or edit %s (create with 'harvester config init')", defaultPath)
	}
	if c.Bing.Endpoint == "" {
		return errors.New("bing.endpoint must be set")
	}
	return nil
}

func (c *Config) validateHarvest() error {
	if c.Harvest.RequestDelaySeconds < 0 {
		return errors.New("harvest.request_delay_seconds must not be negative")
	}
	if c.Harvest.MinWidth < 0 || c.Harvest.MinHeight < 0 {
		return errors.New("harvest.min_width and harvest.min_height must not be negative")
	}
	switch c.Harvest.SafeSearch {
	case "Off", "Moderate", "Strict":
	default:
		return fmt.Errorf("harvest.safe_search must be Off, Moderate, or Strict, got %q", c.Harvest.SafeSearch)
	}
	return nil
}
