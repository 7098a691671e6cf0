package config

const (
	defaultEndpoint            = "https://api.bing.microsoft.com/v7.0/images/search"
	defaultRequestDelaySeconds = 1.0
	defaultMaxRetries          = 3
	defaultMaxImages           = 100
	defaultMinWidth            = 400
	defaultMinHeight           = 400
	defaultMarket              = "en-US"
	defaultSafeSearch          = "Moderate"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogDir              = "~/.local/share/harvester/logs"
)

// Default returns the baseline configuration before file and environment
// overrides are applied.
func Default() Config {
	return Config{
		Bing: Bing{
			Endpoint: defaultEndpoint,
		},
		Harvest: Harvest{
			RequestDelaySeconds: defaultRequestDelaySeconds,
			MaxRetries:          defaultMaxRetries,
			MaxImages:           defaultMaxImages,
			MinWidth:            defaultMinWidth,
			MinHeight:           defaultMinHeight,
			Market:              defaultMarket,
			SafeSearch:          defaultSafeSearch,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Paths: Paths{
			LogDir: defaultLogDir,
		},
	}
}
