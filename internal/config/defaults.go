package config

const (
	defaultConfigPath        = "~/.config/labeler/config.toml"
	projectConfigName        = "labeler.toml"
	defaultOutput            = "annotations.json"
	defaultDropdownThreshold = 5
	defaultMaxTextWidth      = 100
	defaultLogDir            = "~/.local/share/labeler/logs"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	logLevelEnv              = "LABELER_LOG_LEVEL"
)

var defaultImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Annotate: Annotate{
			Output:            defaultOutput,
			IncludeSkip:       true,
			DropdownThreshold: defaultDropdownThreshold,
			ImageExtensions:   append([]string(nil), defaultImageExtensions...),
			MaxTextWidth:      defaultMaxTextWidth,
		},
		Organize: Organize{
			ContinueOnError: true,
			CheckFreeSpace:  true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Dir:    defaultLogDir,
		},
	}
}
