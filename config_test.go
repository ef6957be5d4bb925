package i18nl10n_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-cms-i18nl10n"
)

func TestConfigValidateCacheRequiresBunStorage(t *testing.T) {
	cfg := i18nl10n.DefaultConfig()
	cfg.Cache.Enabled = true
	if err := cfg.Validate(); !errors.Is(err, i18nl10n.ErrCacheRequiresBunStorage) {
		t.Fatalf("expected ErrCacheRequiresBunStorage, got %v", err)
	}
}

func TestConfigValidateBunRequiresDSN(t *testing.T) {
	cfg := i18nl10n.DefaultConfig()
	cfg.Storage.Provider = "bun"
	if err := cfg.Validate(); !errors.Is(err, i18nl10n.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}

func TestConfigValidateURLSuffix(t *testing.T) {
	cfg := i18nl10n.DefaultConfig()
	cfg.Routing.URLSuffix = "/index.html"
	if err := cfg.Validate(); !errors.Is(err, i18nl10n.ErrURLSuffixInvalid) {
		t.Fatalf("expected ErrURLSuffixInvalid, got %v", err)
	}
}

func TestConfigValidateLoggingProviderUnknown(t *testing.T) {
	cfg := i18nl10n.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, i18nl10n.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestApplyEnvOverridesRouting(t *testing.T) {
	t.Setenv("I18NL10N_URL_SUFFIX", ".html")
	cfg := i18nl10n.DefaultConfig()
	if err := i18nl10n.ApplyEnv(&cfg); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.Routing.URLSuffix != ".html" {
		t.Fatalf("expected suffix override, got %q", cfg.Routing.URLSuffix)
	}
	if !cfg.Routing.FolderURL {
		t.Fatal("expected unset variables to keep defaults")
	}
}
