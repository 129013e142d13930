package config

const (
	defaultConfigPath  = "~/.config/datesort/config.toml"
	projectConfigName  = "datesort.toml"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultMaxDistance = 0
)

const sampleHeader = `# datesort configuration
#
# Files directly inside organize.root (default: the working directory) are
# moved into YYYY-MM-DD directories named after their capture date.

`

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Organize: Organize{},
		Media: Media{
			ImageExtensions: []string{".jpg", ".jpeg", ".png", ".heic"},
			VideoExtensions: []string{".mov", ".mp4"},
		},
		Dedupe: Dedupe{
			Enabled:     false,
			MaxDistance: defaultMaxDistance,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
