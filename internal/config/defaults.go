package config

const (
	defaultBind              = "127.0.0.1:8571"
	defaultEngineBinary      = "arieldub"
	defaultEngineTimeoutSecs = 3600
	defaultStatusColumn      = "P"
	defaultUpdatedAtColumn   = "Q"
	defaultMessageColumn     = "R"
	defaultLogFormat         = "json"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind: defaultBind,
		},
		Engine: Engine{
			Binary:         defaultEngineBinary,
			TimeoutSeconds: defaultEngineTimeoutSecs,
		},
		Status: Status{
			StatusColumn:    defaultStatusColumn,
			UpdatedAtColumn: defaultUpdatedAtColumn,
			MessageColumn:   defaultMessageColumn,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
