// Package config loads, normalizes, and validates Harvester's TOML
// configuration.
//
// Configuration is resolved from an explicit path, then
// ~/.config/harvester/config.toml, then ./harvester.toml, falling back to
// defaults when no file exists. The Bing API key may be provided through the
// BING_SEARCH_API_KEY environment variable, which overrides the file value.
// All path fields are expanded (including ~) and made absolute before the
// config is handed to the rest of the application.
package config
