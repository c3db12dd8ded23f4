package config

const (
	defaultDataDir   = "~/.local/share/crmlink"
	defaultLogDir    = "~/.local/share/crmlink/logs"
	defaultTieBreak  = TieBreakEarliestCreated
	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Tie-break policies for companies sharing a normalized domain.
const (
	TieBreakEarliestCreated = "earliest-created"
	TieBreakLowestID        = "lowest-id"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Linker: Linker{
			TieBreak: defaultTieBreak,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
