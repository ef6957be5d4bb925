package pages

import (
	"context"

	"github.com/google/uuid"
)

// PageRepository is the read side of the content repository consumed by the
// registry, alias index and navigation filter. Create exists for imports.
type PageRepository interface {
	Create(ctx context.Context, page *Page) (*Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Page, error)
	ListRoots(ctx context.Context) ([]*Page, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]*Page, error)
	ListByAliases(ctx context.Context, aliases []string) ([]*Page, error)
}

// LocalizationRepository stores at most one LocalizedPage per page and
// language.
type LocalizationRepository interface {
	Create(ctx context.Context, localization *LocalizedPage) (*LocalizedPage, error)
	GetByPageAndLanguage(ctx context.Context, pageID uuid.UUID, language string) (*LocalizedPage, error)
	ListByPagesAndLanguage(ctx context.Context, pageIDs []uuid.UUID, language string) ([]*LocalizedPage, error)
	// ListByAliases returns rows of every language whose alias is in aliases.
	ListByAliases(ctx context.Context, aliases []string) ([]*LocalizedPage, error)
}
