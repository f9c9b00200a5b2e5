package config

const (
	defaultCatalogPath          = "gameid.txt"
	defaultLogDir               = "~/.local/share/isomagic/logs"
	defaultStateDir             = "~/.local/share/isomagic"
	defaultMatchThreshold       = 0.8
	defaultSkipTagged           = false
	defaultPlaceholderDirectory = "testISOs"
	defaultPlaceholderCount     = 100
	defaultPlaceholderExtension = ".iso"
	defaultJournalEnabled       = true
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// defaultExcludedPrefixes mark the Korean regional variant of the catalog.
var defaultExcludedPrefixes = []string{"SLKA", "SCKA"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Catalog:  defaultCatalogPath,
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Matching: Matching{
			Threshold:        defaultMatchThreshold,
			ExcludedPrefixes: append([]string(nil), defaultExcludedPrefixes...),
			SkipTagged:       defaultSkipTagged,
		},
		Placeholders: Placeholders{
			Directory: defaultPlaceholderDirectory,
			Count:     defaultPlaceholderCount,
			Extension: defaultPlaceholderExtension,
		},
		Journal: Journal{
			Enabled: defaultJournalEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
