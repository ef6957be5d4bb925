package i18nl10n

import "github.com/goliatone/go-cms-i18nl10n/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown  = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDialectUnknown   = runtimeconfig.ErrStorageDialectUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrURLSuffixInvalid        = runtimeconfig.ErrURLSuffixInvalid
	ErrCacheRequiresBunStorage = runtimeconfig.ErrCacheRequiresBunStorage
	ErrCacheTTLInvalid         = runtimeconfig.ErrCacheTTLInvalid
	ErrNavigationRouteConfig   = runtimeconfig.ErrNavigationRouteConfig
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	RoutingConfig        = runtimeconfig.RoutingConfig
	StorageConfig        = runtimeconfig.StorageConfig
	CacheConfig          = runtimeconfig.CacheConfig
	NavigationConfig     = runtimeconfig.NavigationConfig
	URLKitResolverConfig = runtimeconfig.URLKitResolverConfig
	HTTPConfig           = runtimeconfig.HTTPConfig
	Features             = runtimeconfig.Features
	LoggingConfig        = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// ApplyEnv overrides cfg from I18NL10N_* environment variables.
func ApplyEnv(cfg *Config) error {
	return runtimeconfig.ApplyEnv(cfg)
}
