package runtimeconfig_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/goliatone/go-cms-i18nl10n/internal/runtimeconfig"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RejectsUnknownStorageProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "redis"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_BunRequiresDialectAndDSN(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "bun"
	cfg.Storage.Dialect = "mysql"
	cfg.Storage.DSN = "file::memory:"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDialectUnknown) {
		t.Fatalf("expected ErrStorageDialectUnknown, got %v", err)
	}

	cfg.Storage.Dialect = "postgres"
	cfg.Storage.DSN = " "
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}

func TestConfigValidate_CacheRequiresBun(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Enabled = true
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCacheRequiresBunStorage) {
		t.Fatalf("expected ErrCacheRequiresBunStorage, got %v", err)
	}

	cfg.Storage.Provider = "bun"
	cfg.Storage.DSN = "file::memory:"
	cfg.Cache.DefaultTTL = 0
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCacheTTLInvalid) {
		t.Fatalf("expected ErrCacheTTLInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsSlashInSuffix(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Routing.URLSuffix = "/index.html"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrURLSuffixInvalid) {
		t.Fatalf("expected ErrURLSuffixInvalid, got %v", err)
	}
}

func TestConfigValidate_URLKitGroupNeedsRouteConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Navigation.URLKit.DefaultGroup = "frontend"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrNavigationRouteConfig) {
		t.Fatalf("expected ErrNavigationRouteConfig, got %v", err)
	}
}

func TestConfigValidate_RequiresLoggingProviderWhenFeatureEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestApplyEnvOverridesSetVariables(t *testing.T) {
	t.Setenv("I18NL10N_DISABLE_ALIAS", "true")
	t.Setenv("I18NL10N_URL_SUFFIX", ".html")
	t.Setenv("I18NL10N_STORAGE_PROVIDER", "bun")
	t.Setenv("I18NL10N_STORAGE_DSN", "file::memory:")
	t.Setenv("I18NL10N_CACHE_TTL", "5m")
	t.Setenv("I18NL10N_LOG_FOCUS", "l10n.routing,l10n.navigation")

	cfg := runtimeconfig.DefaultConfig()
	if err := runtimeconfig.ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if !cfg.Routing.DisableAlias || cfg.Routing.URLSuffix != ".html" {
		t.Fatalf("routing overrides not applied: %+v", cfg.Routing)
	}
	if cfg.Storage.Provider != "bun" || cfg.Storage.DSN != "file::memory:" {
		t.Fatalf("storage overrides not applied: %+v", cfg.Storage)
	}
	if cfg.Cache.DefaultTTL != 5*time.Minute {
		t.Fatalf("expected 5m ttl, got %v", cfg.Cache.DefaultTTL)
	}
	if !slices.Equal(cfg.Logging.Focus, []string{"l10n.routing", "l10n.navigation"}) {
		t.Fatalf("unexpected focus: %v", cfg.Logging.Focus)
	}
	if !cfg.Routing.UseAutoItem || cfg.Storage.Dialect != "sqlite" || cfg.HTTP.BasePath != "/api/l10n" {
		t.Fatalf("unset variables must keep defaults: %+v", cfg)
	}
}

func TestApplyEnvRejectsMalformedValues(t *testing.T) {
	t.Setenv("I18NL10N_FOLDER_URL", "sometimes")

	cfg := runtimeconfig.DefaultConfig()
	if err := runtimeconfig.ApplyEnv(&cfg); err == nil {
		t.Fatalf("expected parse error for malformed bool")
	}
}
