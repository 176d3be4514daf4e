package config

const (
	defaultDataDir           = "~/.local/share/groupcheck/data"
	defaultLogDir            = "~/.local/share/groupcheck/logs"
	defaultCatalogPath       = "~/.config/groupcheck/diagnoses.json"
	defaultHTTPBind          = "127.0.0.1:8350"
	defaultCatalogOrdering   = "source"
	defaultCookieName        = "groupcheck_session"
	defaultSessionTTLMinutes = 12 * 60
	defaultHistoryEnabled    = true
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:     defaultDataDir,
			LogDir:      defaultLogDir,
			CatalogPath: defaultCatalogPath,
			HTTPBind:    defaultHTTPBind,
		},
		Catalog: Catalog{
			Ordering: defaultCatalogOrdering,
		},
		Review: Review{
			CookieName:        defaultCookieName,
			SessionTTLMinutes: defaultSessionTTLMinutes,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
