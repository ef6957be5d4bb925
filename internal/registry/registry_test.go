package registry

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
)

func TestBuildGroupsRootsByDomain(t *testing.T) {
	reg, err := Build([]RootConfig{
		{Domain: "example.com", Language: "en"},
		{Domain: "example.com", Language: "DE", Fallback: true},
		{Domain: "example.fr", Language: "fr", Localizations: []string{"it", " "}},
		{Language: "en", Localizations: []string{"es"}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	com, err := reg.ForHost("Example.COM:8080")
	if err != nil {
		t.Fatalf("for host: %v", err)
	}
	if com.Default != "de" {
		t.Fatalf("expected fallback root language de, got %q", com.Default)
	}
	if !slices.Equal(com.Available, []string{"de", "en"}) {
		t.Fatalf("unexpected available: %v", com.Available)
	}

	fr, err := reg.ForHost("example.fr")
	if err != nil {
		t.Fatalf("for host: %v", err)
	}
	if fr.Default != "fr" || !slices.Equal(fr.Available, []string{"fr", "it"}) {
		t.Fatalf("unexpected fr languages: %+v", fr)
	}

	other, err := reg.ForHost("unknown.test")
	if err != nil {
		t.Fatalf("wildcard lookup: %v", err)
	}
	if other.Default != "en" || !slices.Equal(other.Available, []string{"en", "es"}) {
		t.Fatalf("unexpected wildcard languages: %+v", other)
	}

	if !slices.Equal(reg.Hosts(), []string{"example.com", "example.fr", Wildcard}) {
		t.Fatalf("unexpected host order: %v", reg.Hosts())
	}
}

func TestDefaultIsAlwaysAvailable(t *testing.T) {
	reg, err := Build([]RootConfig{
		{Domain: "a.test", Language: "it", Localizations: []string{"en"}},
		{Domain: "b.test", Language: "en", Fallback: true},
		{Domain: "b.test", Language: "fr", Fallback: true},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for host, langs := range reg.Snapshot() {
		if !langs.Contains(langs.Default) {
			t.Fatalf("%s: default %q missing from %v", host, langs.Default, langs.Available)
		}
	}
	b, _ := reg.ForHost("b.test")
	if b.Default != "en" {
		t.Fatalf("expected first fallback root to win, got %q", b.Default)
	}
}

func TestForHostWithoutMatchFails(t *testing.T) {
	reg, err := Build([]RootConfig{{Domain: "example.com", Language: "en"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	_, err = reg.ForHost("other.com")
	var noRoot *NoRootPageError
	if !errors.As(err, &noRoot) || noRoot.Host != "other.com" {
		t.Fatalf("expected NoRootPageError for other.com, got %v", err)
	}
	if !errors.Is(err, ErrNoRootPage) {
		t.Fatalf("expected error to unwrap to ErrNoRootPage")
	}

	empty, _ := Build(nil)
	if _, err := empty.ForHost("example.com"); !errors.Is(err, ErrNoRootPage) {
		t.Fatalf("expected no root page on empty registry, got %v", err)
	}
}

func TestBuildRejectsInvalidLanguage(t *testing.T) {
	_, err := Build([]RootConfig{{Language: "english"}})
	if !errors.Is(err, ErrInvalidLanguage) {
		t.Fatalf("expected invalid language error, got %v", err)
	}
	_, err = Build([]RootConfig{{Language: "en", Localizations: []string{"1x"}}})
	if !errors.Is(err, ErrInvalidLanguage) {
		t.Fatalf("expected invalid localization error, got %v", err)
	}
}

func TestAllAvailableLanguages(t *testing.T) {
	reg, err := Build([]RootConfig{
		{Domain: "example.com", Language: "en", Localizations: []string{"de"}},
		{Domain: "example.fr", Language: "fr", Localizations: []string{"en"}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if got := reg.AllAvailableLanguages(nil, false); !slices.Equal(got, []string{"de", "en", "fr"}) {
		t.Fatalf("unexpected union: %v", got)
	}

	onlyEditable := PermissionFilterFunc(func(code string) bool { return code != "de" })
	if got := reg.AllAvailableLanguages(onlyEditable, true); !slices.Equal(got, []string{"", "en", "fr"}) {
		t.Fatalf("unexpected filtered union: %v", got)
	}
}

func TestNegotiate(t *testing.T) {
	langs := Languages{Default: "en", Available: []string{"de", "en"}}
	if got := langs.Negotiate("DE"); got != "de" {
		t.Fatalf("expected de, got %q", got)
	}
	if got := langs.Negotiate("fr"); got != "en" {
		t.Fatalf("expected default en, got %q", got)
	}
	if got := langs.Negotiate(""); got != "en" {
		t.Fatalf("expected default for blank, got %q", got)
	}
}

func TestLoadFromRepository(t *testing.T) {
	ctx := context.Background()
	repo := pages.NewMemoryPageRepository()
	root, err := repo.Create(ctx, &pages.Page{Type: pages.TypeRoot, Alias: "home", Domain: "example.com", Language: "en", Localizations: []string{"fr"}})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	if _, err := repo.Create(ctx, &pages.Page{ParentID: &root.ID, Type: pages.TypeRegular, Alias: "news", Language: "de"}); err != nil {
		t.Fatalf("create child: %v", err)
	}
	if _, err := repo.Create(ctx, &pages.Page{Type: pages.TypeRegular, Alias: "orphan"}); err != nil {
		t.Fatalf("create orphan: %v", err)
	}

	reg, err := Load(ctx, repo)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	langs, err := reg.ForHost("example.com")
	if err != nil {
		t.Fatalf("for host: %v", err)
	}
	if !slices.Equal(langs.Available, []string{"en", "fr"}) {
		t.Fatalf("child page language must not leak into registry: %v", langs.Available)
	}
}
