package config

const (
	defaultDataDir             = "~/.local/share/pagecheck"
	defaultDocumentsSubdir     = "documents"
	defaultLogSubdir           = "logs"
	defaultBusyTimeoutMillis   = 30000
	defaultBusyRetryAttempts   = 5
	defaultBusyRetryInitialMS  = 10
	defaultBusyRetryMaxDelayMS = 200
	defaultCodePattern         = `\b[A-Z0-9]{6,20}\b`
	defaultScanMode            = ModeSequence
	defaultReportBind          = "127.0.0.1:8000"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Console modes.
const (
	ModeSequence     = "sequence"
	ModeVerification = "verification"
)

// Default returns a Config populated with repository defaults. Documents and
// log directories are derived from the data directory during normalization.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Store: Store{
			BusyTimeoutMillis:   defaultBusyTimeoutMillis,
			BusyRetryAttempts:   defaultBusyRetryAttempts,
			BusyRetryInitialMS:  defaultBusyRetryInitialMS,
			BusyRetryMaxDelayMS: defaultBusyRetryMaxDelayMS,
		},
		Index: Index{
			CodePattern: defaultCodePattern,
			UseCache:    true,
		},
		Scan: Scan{
			Mode: defaultScanMode,
		},
		Report: Report{
			Bind: defaultReportBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
