package config

const (
	defaultConfigPath          = "~/.config/plparse/config.toml"
	defaultStateDir            = "~/.local/share/plparse"
	defaultLogDir              = "~/.local/share/plparse/logs"
	defaultHistoryFile         = "history.db"
	defaultLogRetentionDays    = 30
	defaultHistoryRetention    = 90
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultAPIBind             = "127.0.0.1:7488"
	defaultOpticalDrive        = "/dev/sr0"
	defaultDiscReadyPolls      = 30
	defaultMaxDepth            = 4
	defaultSampleBytes         = 8192
	defaultFetchTimeoutSeconds = 30
	defaultFetchMaxBytes       = 16 << 20
	defaultUserAgent           = "plparse/dev"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Resolver: Resolver{
			Recurse:     true,
			Fallback:    true,
			MaxDepth:    defaultMaxDepth,
			SampleBytes: defaultSampleBytes,
		},
		Fetch: Fetch{
			TimeoutSeconds: defaultFetchTimeoutSeconds,
			UserAgent:      defaultUserAgent,
			MaxBytes:       defaultFetchMaxBytes,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Disc: Disc{
			Device:     defaultOpticalDrive,
			ReadyPolls: defaultDiscReadyPolls,
		},
		History: History{
			Enabled:       true,
			RetentionDays: defaultHistoryRetention,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
