package config

const (
	defaultConfigPath        = "~/.config/mkvlang/config.toml"
	defaultLogDir            = "~/.local/share/mkvlang/logs"
	defaultHistoryDB         = "~/.local/share/mkvlang/history.db"
	defaultLockDir           = "~/.local/share/mkvlang/locks"
	defaultMkvmerge          = "mkvmerge"
	defaultMkvpropedit       = "mkvpropedit"
	defaultToolTimeout       = 300
	defaultSuccessMarker     = "Done"
	defaultExtension         = ".mkv"
	defaultDumpPath          = "./output.json"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLogMaxSizeMB      = 20
	defaultLogMaxBackups     = 5
	defaultLogMaxAgeDays     = 30
	defaultBatchWorkers      = 1
	maxBatchWorkers          = 64
	defaultSuccessDetection  = DetectExitAndMarker
	defaultTrackSelectorMode = SelectorTypeID
)

// Success detection modes for the flag editor.
const (
	DetectExitAndMarker = "exit_and_marker"
	DetectMarker        = "marker"
)

// Track selector styles for mkvpropedit --edit arguments.
const (
	SelectorTypeID = "type_id"
	SelectorNumber = "number"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
			LockDir:   defaultLockDir,
		},
		Tools: Tools{
			Mkvmerge:       defaultMkvmerge,
			Mkvpropedit:    defaultMkvpropedit,
			TimeoutSeconds: defaultToolTimeout,
		},
		Edit: Edit{
			Force:            true,
			SuccessMarker:    defaultSuccessMarker,
			SuccessDetection: defaultSuccessDetection,
			TrackSelector:    defaultTrackSelectorMode,
		},
		Batch: Batch{
			Extension: defaultExtension,
			Workers:   defaultBatchWorkers,
			LockFiles: true,
		},
		Debug: Debug{
			DumpPath: defaultDumpPath,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
