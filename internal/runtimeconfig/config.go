package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var (
	ErrStorageProviderUnknown   = errors.New("l10n config: storage provider is invalid")
	ErrStorageDialectUnknown    = errors.New("l10n config: storage dialect is invalid")
	ErrStorageDSNRequired       = errors.New("l10n config: storage dsn is required for the bun provider")
	ErrURLSuffixInvalid         = errors.New("l10n config: url suffix must not contain a slash")
	ErrCacheRequiresBunStorage  = errors.New("l10n config: repository cache requires the bun storage provider")
	ErrCacheTTLInvalid          = errors.New("l10n config: cache ttl must be positive when cache is enabled")
	ErrNavigationRouteConfig    = errors.New("l10n config: urlkit resolver requires a route config")
	ErrLoggingProviderRequired  = errors.New("l10n config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown   = errors.New("l10n config: logging provider is invalid")
	ErrLoggingLevelInvalid      = errors.New("l10n config: logging level is invalid")
	ErrLoggingFormatInvalid     = errors.New("l10n config: logging format is invalid")
	ErrHTTPBasePathInvalid      = errors.New("l10n config: http base path must start with a slash")
	ErrDefaultLanguageMalformed = errors.New("l10n config: default language must be a two letter code")
)

// Config aggregates the routing, storage and ambient settings of the module.
type Config struct {
	// DefaultLanguage is used by the CLI and HTTP adapter when a request
	// carries no language.
	DefaultLanguage string
	Routing         RoutingConfig
	Storage         StorageConfig
	Cache           CacheConfig
	Navigation      NavigationConfig
	HTTP            HTTPConfig
	Features        Features
	Logging         LoggingConfig
}

// RoutingConfig mirrors the URL settings consumed by the resolver and generator.
type RoutingConfig struct {
	DisableAlias bool
	UseAutoItem  bool
	FolderURL    bool
	URLSuffix    string
}

// StorageConfig selects the page repository backend.
type StorageConfig struct {
	Provider string
	Dialect  string
	DSN      string
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// NavigationConfig captures routing configuration for route-typed navigation items.
type NavigationConfig struct {
	RouteConfig *urlkit.Config
	URLKit      URLKitResolverConfig
}

// URLKitResolverConfig configures the go-urlkit based resolver.
type URLKitResolverConfig struct {
	DefaultGroup   string
	LanguageGroups map[string]string
	DefaultRoute   string
	AliasParam     string
	LanguageParam  string
}

// HTTPConfig configures the frontend API adapter.
type HTTPConfig struct {
	Addr     string
	BasePath string
	// StripFBCLID redirects requests carrying a fbclid query to the bare path.
	StripFBCLID bool
}

// Features toggles module functionality.
type Features struct {
	Navigation bool
	Logger     bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns defaults suited for the in-memory backend.
func DefaultConfig() Config {
	return Config{
		DefaultLanguage: "en",
		Routing: RoutingConfig{
			UseAutoItem: true,
			FolderURL:   true,
		},
		Storage: StorageConfig{
			Provider: "memory",
			Dialect:  "sqlite",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Navigation: NavigationConfig{
			URLKit: URLKitResolverConfig{
				AliasParam: "slug",
			},
		},
		HTTP: HTTPConfig{
			Addr:        ":8080",
			BasePath:    "/api/l10n",
			StripFBCLID: true,
		},
		Features: Features{
			Navigation: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if lang := strings.TrimSpace(cfg.DefaultLanguage); lang != "" && len(lang) != 2 {
		return fmt.Errorf("%w: %s", ErrDefaultLanguageMalformed, lang)
	}
	if strings.Contains(cfg.Routing.URLSuffix, "/") {
		return fmt.Errorf("%w: %q", ErrURLSuffixInvalid, cfg.Routing.URLSuffix)
	}

	provider := normalizeProvider(cfg.Storage.Provider)
	switch provider {
	case "memory":
	case "bun":
		if dialect := normalizeProvider(cfg.Storage.Dialect); dialect != "sqlite" && dialect != "postgres" {
			return fmt.Errorf("%w: %s", ErrStorageDialectUnknown, cfg.Storage.Dialect)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if cfg.Cache.Enabled {
		if provider != "bun" {
			return ErrCacheRequiresBunStorage
		}
		if cfg.Cache.DefaultTTL <= 0 {
			return ErrCacheTTLInvalid
		}
	}

	if cfg.Navigation.RouteConfig == nil && strings.TrimSpace(cfg.Navigation.URLKit.DefaultGroup) != "" {
		return ErrNavigationRouteConfig
	}
	if base := strings.TrimSpace(cfg.HTTP.BasePath); base != "" && !strings.HasPrefix(base, "/") {
		return fmt.Errorf("%w: %s", ErrHTTPBasePathInvalid, base)
	}

	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
