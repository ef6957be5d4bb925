package pages

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryPageRepository is an in-memory PageRepository for tests and the CLI.
type MemoryPageRepository struct {
	mu    sync.RWMutex
	pages map[uuid.UUID]*Page
}

// NewMemoryPageRepository constructs an empty repository.
func NewMemoryPageRepository() *MemoryPageRepository {
	return &MemoryPageRepository{pages: make(map[uuid.UUID]*Page)}
}

// Create stores a copy of page, assigning an id when missing.
func (m *MemoryPageRepository) Create(_ context.Context, page *Page) (*Page, error) {
	if page == nil {
		return nil, ErrPageRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := clonePage(page)
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	m.pages[stored.ID] = stored
	return clonePage(stored), nil
}

// GetByID returns the page or a NotFoundError.
func (m *MemoryPageRepository) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	page, ok := m.pages[id]
	if !ok {
		return nil, pageNotFound(id)
	}
	return clonePage(page), nil
}

// ListRoots returns every root page ordered by sorting.
func (m *MemoryPageRepository) ListRoots(_ context.Context) ([]*Page, error) {
	return m.filter(func(p *Page) bool { return p.IsRoot() }), nil
}

// ListChildren returns the direct children of parentID ordered by sorting.
func (m *MemoryPageRepository) ListChildren(_ context.Context, parentID uuid.UUID) ([]*Page, error) {
	return m.filter(func(p *Page) bool { return p.ParentID != nil && *p.ParentID == parentID }), nil
}

// ListByAliases returns pages whose canonical alias is in aliases.
func (m *MemoryPageRepository) ListByAliases(_ context.Context, aliases []string) ([]*Page, error) {
	if len(aliases) == 0 {
		return nil, nil
	}
	return m.filter(func(p *Page) bool { return slices.Contains(aliases, p.Alias) }), nil
}

func (m *MemoryPageRepository) filter(keep func(*Page) bool) []*Page {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Page, 0)
	for _, page := range m.pages {
		if keep(page) {
			out = append(out, clonePage(page))
		}
	}
	sortPages(out)
	return out
}

// MemoryLocalizationRepository is an in-memory LocalizationRepository.
type MemoryLocalizationRepository struct {
	mu   sync.RWMutex
	rows map[localizationKey]*LocalizedPage
}

type localizationKey struct {
	pageID   uuid.UUID
	language string
}

// NewMemoryLocalizationRepository constructs an empty repository.
func NewMemoryLocalizationRepository() *MemoryLocalizationRepository {
	return &MemoryLocalizationRepository{rows: make(map[localizationKey]*LocalizedPage)}
}

// Create stores a localization, rejecting a second row for the same page and
// language.
func (m *MemoryLocalizationRepository) Create(_ context.Context, row *LocalizedPage) (*LocalizedPage, error) {
	if row == nil || row.PageID == uuid.Nil {
		return nil, ErrPageRequired
	}
	language := NormalizeLanguage(row.Language)
	if language == "" {
		return nil, ErrLanguageRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := localizationKey{pageID: row.PageID, language: language}
	if _, exists := m.rows[key]; exists {
		return nil, ErrDuplicateLocalization
	}
	stored := cloneLocalization(row)
	stored.Language = language
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	m.rows[key] = stored
	return cloneLocalization(stored), nil
}

// GetByPageAndLanguage returns the row or a NotFoundError.
func (m *MemoryLocalizationRepository) GetByPageAndLanguage(_ context.Context, pageID uuid.UUID, language string) (*LocalizedPage, error) {
	language = NormalizeLanguage(language)
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.rows[localizationKey{pageID: pageID, language: language}]
	if !ok {
		return nil, localizationNotFound(pageID, language)
	}
	return cloneLocalization(row), nil
}

// ListByPagesAndLanguage returns the rows of language for the given pages.
func (m *MemoryLocalizationRepository) ListByPagesAndLanguage(_ context.Context, pageIDs []uuid.UUID, language string) ([]*LocalizedPage, error) {
	language = NormalizeLanguage(language)
	return m.filter(func(row *LocalizedPage) bool {
		return row.Language == language && slices.Contains(pageIDs, row.PageID)
	}), nil
}

// ListByAliases returns rows of any language whose alias is in aliases.
func (m *MemoryLocalizationRepository) ListByAliases(_ context.Context, aliases []string) ([]*LocalizedPage, error) {
	if len(aliases) == 0 {
		return nil, nil
	}
	return m.filter(func(row *LocalizedPage) bool {
		return row.Alias != "" && slices.Contains(aliases, row.Alias)
	}), nil
}

func (m *MemoryLocalizationRepository) filter(keep func(*LocalizedPage) bool) []*LocalizedPage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*LocalizedPage, 0)
	for _, row := range m.rows {
		if keep(row) {
			out = append(out, cloneLocalization(row))
		}
	}
	slices.SortFunc(out, func(a, b *LocalizedPage) int {
		if c := strings.Compare(a.PageID.String(), b.PageID.String()); c != 0 {
			return c
		}
		return strings.Compare(a.Language, b.Language)
	})
	return out
}

func sortPages(records []*Page) {
	slices.SortFunc(records, func(a, b *Page) int {
		if c := cmp.Compare(a.Sorting, b.Sorting); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}

func clonePage(src *Page) *Page {
	if src == nil {
		return nil
	}
	copied := *src
	copied.ParentID = cloneUUID(src.ParentID)
	copied.JumpTo = cloneUUID(src.JumpTo)
	copied.Localizations = slices.Clone(src.Localizations)
	if src.Start != nil {
		start := *src.Start
		copied.Start = &start
	}
	if src.Stop != nil {
		stop := *src.Stop
		copied.Stop = &stop
	}
	return &copied
}

func cloneLocalization(src *LocalizedPage) *LocalizedPage {
	if src == nil {
		return nil
	}
	copied := *src
	if src.Start != nil {
		start := *src.Start
		copied.Start = &start
	}
	if src.Stop != nil {
		stop := *src.Stop
		copied.Stop = &stop
	}
	return &copied
}

func cloneUUID(src *uuid.UUID) *uuid.UUID {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
