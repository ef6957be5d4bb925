package runtimeconfig

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "I18NL10N_"

// envOverrides lists the settings that can be overridden from the
// environment. Fields start from the current config values so unset
// variables leave them untouched.
type envOverrides struct {
	DefaultLanguage string        `env:"DEFAULT_LANGUAGE"`
	DisableAlias    bool          `env:"DISABLE_ALIAS"`
	UseAutoItem     bool          `env:"USE_AUTO_ITEM"`
	FolderURL       bool          `env:"FOLDER_URL"`
	URLSuffix       string        `env:"URL_SUFFIX"`
	StorageProvider string        `env:"STORAGE_PROVIDER"`
	StorageDialect  string        `env:"STORAGE_DIALECT"`
	StorageDSN      string        `env:"STORAGE_DSN"`
	CacheEnabled    bool          `env:"CACHE_ENABLED"`
	CacheTTL        time.Duration `env:"CACHE_TTL"`
	HTTPAddr        string        `env:"HTTP_ADDR"`
	HTTPBasePath    string        `env:"HTTP_BASE_PATH"`
	StripFBCLID     bool          `env:"HTTP_STRIP_FBCLID"`
	LoggerEnabled   bool          `env:"LOGGER"`
	LogProvider     string        `env:"LOG_PROVIDER"`
	LogLevel        string        `env:"LOG_LEVEL"`
	LogFormat       string        `env:"LOG_FORMAT"`
	LogAddSource    bool          `env:"LOG_ADD_SOURCE"`
	LogFocus        []string      `env:"LOG_FOCUS" envSeparator:","`
}

// ApplyEnv overrides cfg with I18NL10N_* environment variables.
func ApplyEnv(cfg *Config) error {
	return applyEnv(cfg, env.Options{Prefix: EnvPrefix})
}

func applyEnv(cfg *Config, opts env.Options) error {
	if cfg == nil {
		return nil
	}
	overrides := envOverrides{
		DefaultLanguage: cfg.DefaultLanguage,
		DisableAlias:    cfg.Routing.DisableAlias,
		UseAutoItem:     cfg.Routing.UseAutoItem,
		FolderURL:       cfg.Routing.FolderURL,
		URLSuffix:       cfg.Routing.URLSuffix,
		StorageProvider: cfg.Storage.Provider,
		StorageDialect:  cfg.Storage.Dialect,
		StorageDSN:      cfg.Storage.DSN,
		CacheEnabled:    cfg.Cache.Enabled,
		CacheTTL:        cfg.Cache.DefaultTTL,
		HTTPAddr:        cfg.HTTP.Addr,
		HTTPBasePath:    cfg.HTTP.BasePath,
		StripFBCLID:     cfg.HTTP.StripFBCLID,
		LoggerEnabled:   cfg.Features.Logger,
		LogProvider:     cfg.Logging.Provider,
		LogLevel:        cfg.Logging.Level,
		LogFormat:       cfg.Logging.Format,
		LogAddSource:    cfg.Logging.AddSource,
		LogFocus:        cfg.Logging.Focus,
	}
	if err := env.ParseWithOptions(&overrides, opts); err != nil {
		return fmt.Errorf("l10n config: environment: %w", err)
	}

	cfg.DefaultLanguage = overrides.DefaultLanguage
	cfg.Routing.DisableAlias = overrides.DisableAlias
	cfg.Routing.UseAutoItem = overrides.UseAutoItem
	cfg.Routing.FolderURL = overrides.FolderURL
	cfg.Routing.URLSuffix = overrides.URLSuffix
	cfg.Storage.Provider = overrides.StorageProvider
	cfg.Storage.Dialect = overrides.StorageDialect
	cfg.Storage.DSN = overrides.StorageDSN
	cfg.Cache.Enabled = overrides.CacheEnabled
	cfg.Cache.DefaultTTL = overrides.CacheTTL
	cfg.HTTP.Addr = overrides.HTTPAddr
	cfg.HTTP.BasePath = overrides.HTTPBasePath
	cfg.HTTP.StripFBCLID = overrides.StripFBCLID
	cfg.Features.Logger = overrides.LoggerEnabled
	cfg.Logging.Provider = overrides.LogProvider
	cfg.Logging.Level = overrides.LogLevel
	cfg.Logging.Format = overrides.LogFormat
	cfg.Logging.AddSource = overrides.LogAddSource
	cfg.Logging.Focus = overrides.LogFocus
	return nil
}
