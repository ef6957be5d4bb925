package routing

import (
	"context"
	"testing"

	"github.com/goliatone/go-cms-i18nl10n/internal/aliases"
	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"github.com/goliatone/go-cms-i18nl10n/internal/registry"
	"github.com/google/uuid"
)

type siteFixture struct {
	pages         *pages.MemoryPageRepository
	localizations *pages.MemoryLocalizationRepository
	index         *aliases.RepositoryIndex
	registry      *registry.Registry

	root    *pages.Page
	news    *pages.Page
	archive *pages.Page
	about   *pages.Page
	team    *pages.Page
	cart    *pages.Page
}

func newSiteFixture(t *testing.T) *siteFixture {
	t.Helper()
	ctx := context.Background()
	f := &siteFixture{
		pages:         pages.NewMemoryPageRepository(),
		localizations: pages.NewMemoryLocalizationRepository(),
	}

	f.root = f.page(t, &pages.Page{Type: pages.TypeRoot, Alias: "home", Language: "en", Fallback: true, Localizations: []string{"de", "fr"}, Published: true})
	f.news = f.page(t, &pages.Page{ParentID: &f.root.ID, Alias: "news", Published: true})
	f.archive = f.page(t, &pages.Page{ParentID: &f.news.ID, Alias: "news/archive", Published: true})
	f.about = f.page(t, &pages.Page{ParentID: &f.root.ID, Alias: "about", Published: true})
	f.team = f.page(t, &pages.Page{ParentID: &f.root.ID, Alias: "team", Published: true})

	shop := f.page(t, &pages.Page{Type: pages.TypeRoot, Alias: "shop", Domain: "shop.example.com", UseSSL: true, Language: "en", Published: true})
	f.cart = f.page(t, &pages.Page{ParentID: &shop.ID, Alias: "cart", Published: true})

	for _, row := range []*pages.LocalizedPage{
		{PageID: f.about.ID, Language: "fr", Alias: "ueber-uns", Title: "A propos", Published: true},
		{PageID: f.team.ID, Language: "de", Alias: "mannschaft", Title: "Mannschaft", Published: true},
		{PageID: f.archive.ID, Language: "de", Alias: "neuigkeiten/archiv", Title: "Archiv", Published: true},
		{PageID: f.news.ID, Language: "de", Alias: "", Title: "Neuigkeiten", Published: true},
	} {
		if _, err := f.localizations.Create(ctx, row); err != nil {
			t.Fatalf("create localization: %v", err)
		}
	}

	reg, err := registry.Load(ctx, f.pages)
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	f.registry = reg
	f.index = aliases.NewRepositoryIndex(f.pages, f.localizations)
	return f
}

func (f *siteFixture) page(t *testing.T, page *pages.Page) *pages.Page {
	t.Helper()
	if page.Type == "" {
		page.Type = pages.TypeRegular
	}
	created, err := f.pages.Create(context.Background(), page)
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	return created
}

func (f *siteFixture) scope(host, language string) Scope {
	return Scope{Host: host, Base: "https://" + host + "/", Language: language, Registry: f.registry}
}

// countingIndex records LocalizedAlias calls made through it.
type countingIndex struct {
	aliases.Index
	localizedCalls int
}

func (c *countingIndex) LocalizedAlias(ctx context.Context, pageID uuid.UUID, language string) (string, bool, error) {
	c.localizedCalls++
	return c.Index.LocalizedAlias(ctx, pageID, language)
}
