package config

const (
	defaultDataDir              = "~/.local/share/subsync"
	defaultLogDir               = "~/.local/share/subsync/logs"
	defaultTokenFile            = "~/.config/subsync/token.json"
	defaultSheetsBaseURL        = "https://sheets.googleapis.com"
	defaultDriveBaseURL         = "https://www.googleapis.com"
	defaultDriveUploadBaseURL   = "https://www.googleapis.com"
	defaultTab                  = "Sheet1"
	defaultIDColumn             = "D"
	defaultLinkColumn           = "M"
	defaultStartRow             = 3
	defaultUploadTimeoutSeconds = 300
	defaultLinkLabel            = "Open File"
	defaultUsableThreshold      = 0.70
	defaultGroupsFile           = "groups.csv"
	defaultMatchCacheFile       = "matches.csv"
	defaultSummaryFile          = "upload_summary.txt"
	defaultReportFile           = "matches.csv"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

func defaultIDPrefixes() []string {
	return []string{"816", "320", "400"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Sheet: Sheet{
			Tab:        defaultTab,
			IDColumn:   defaultIDColumn,
			LinkColumn: defaultLinkColumn,
			StartRow:   defaultStartRow,
			BaseURL:    defaultSheetsBaseURL,
		},
		Storage: Storage{
			TokenFile:            defaultTokenFile,
			BaseURL:              defaultDriveBaseURL,
			UploadBaseURL:        defaultDriveUploadBaseURL,
			UploadTimeoutSeconds: defaultUploadTimeoutSeconds,
			LinkLabel:            defaultLinkLabel,
		},
		Matching: Matching{
			IDPrefixes:      defaultIDPrefixes(),
			UsableThreshold: defaultUsableThreshold,
			GroupsFile:      defaultGroupsFile,
			MatchCacheFile:  defaultMatchCacheFile,
		},
		Paths: Paths{
			DataDir:     defaultDataDir,
			LogDir:      defaultLogDir,
			SummaryFile: defaultSummaryFile,
			ReportFile:  defaultReportFile,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
