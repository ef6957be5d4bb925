package aliases

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"github.com/google/uuid"
)

// Source identifies the table an alias row came from.
type Source string

const (
	SourceLocalized Source = "localized"
	SourceCanonical Source = "canonical"
)

// Row is one alias hit. Language is the row language for localized rows and
// the page language (possibly empty) for canonical rows.
type Row struct {
	PageID   uuid.UUID
	Alias    string
	Source   Source
	Language string
}

// Index answers alias lookups against the canonical and localized tables.
type Index interface {
	// FindAliases returns rows whose alias is one of candidates, ordered by
	// SortRows. candidates must be ordered most specific first.
	FindAliases(ctx context.Context, candidates []string, language string) ([]Row, error)
	// LocalizedAlias returns the non-empty localized alias of pageID in
	// language.
	LocalizedAlias(ctx context.Context, pageID uuid.UUID, language string) (string, bool, error)
	// HasLocalizedAlias reports whether alias is a localized alias in language.
	HasLocalizedAlias(ctx context.Context, alias, language string) (bool, error)
}

// SortRows orders rows by candidate position, then localized rows in
// language, then canonical rows, then localized rows of other languages.
// Rows whose alias is not a candidate are dropped.
func SortRows(rows []Row, candidates []string, language string) []Row {
	position := make(map[string]int, len(candidates))
	for i, candidate := range candidates {
		if _, exists := position[candidate]; !exists {
			position[candidate] = i
		}
	}
	language = pages.NormalizeLanguage(language)

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if _, ok := position[row.Alias]; ok {
			out = append(out, row)
		}
	}
	slices.SortStableFunc(out, func(a, b Row) int {
		if c := cmp.Compare(position[a.Alias], position[b.Alias]); c != 0 {
			return c
		}
		if c := cmp.Compare(sourceRank(a, language), sourceRank(b, language)); c != 0 {
			return c
		}
		return strings.Compare(a.PageID.String(), b.PageID.String())
	})
	return out
}

func sourceRank(row Row, language string) int {
	switch {
	case row.Source == SourceLocalized && row.Language == language:
		return 0
	case row.Source == SourceCanonical:
		return 1
	default:
		return 2
	}
}

// RepositoryIndex implements Index over the page repositories.
type RepositoryIndex struct {
	pages         pages.PageRepository
	localizations pages.LocalizationRepository
}

var _ Index = (*RepositoryIndex)(nil)

// NewRepositoryIndex builds an Index reading from the given repositories.
func NewRepositoryIndex(pageRepo pages.PageRepository, localizationRepo pages.LocalizationRepository) *RepositoryIndex {
	return &RepositoryIndex{pages: pageRepo, localizations: localizationRepo}
}

func (x *RepositoryIndex) FindAliases(ctx context.Context, candidates []string, language string) ([]Row, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	localized, err := x.localizations.ListByAliases(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("aliases: localized lookup: %w", err)
	}
	canonical, err := x.pages.ListByAliases(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("aliases: canonical lookup: %w", err)
	}

	rows := make([]Row, 0, len(localized)+len(canonical))
	for _, row := range localized {
		if row.Alias == "" {
			continue
		}
		rows = append(rows, Row{
			PageID:   row.PageID,
			Alias:    row.Alias,
			Source:   SourceLocalized,
			Language: pages.NormalizeLanguage(row.Language),
		})
	}
	for _, page := range canonical {
		rows = append(rows, Row{
			PageID:   page.ID,
			Alias:    page.Alias,
			Source:   SourceCanonical,
			Language: pages.NormalizeLanguage(page.Language),
		})
	}
	return SortRows(rows, candidates, language), nil
}

func (x *RepositoryIndex) LocalizedAlias(ctx context.Context, pageID uuid.UUID, language string) (string, bool, error) {
	row, err := x.localizations.GetByPageAndLanguage(ctx, pageID, language)
	if err != nil {
		if pages.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("aliases: localized alias: %w", err)
	}
	if row == nil || row.Alias == "" {
		return "", false, nil
	}
	return row.Alias, true, nil
}

func (x *RepositoryIndex) HasLocalizedAlias(ctx context.Context, alias, language string) (bool, error) {
	if alias == "" {
		return false, nil
	}
	rows, err := x.localizations.ListByAliases(ctx, []string{alias})
	if err != nil {
		return false, fmt.Errorf("aliases: localized alias lookup: %w", err)
	}
	language = pages.NormalizeLanguage(language)
	return slices.ContainsFunc(rows, func(row *pages.LocalizedPage) bool {
		return row.Language == language
	}), nil
}

// ErrIndexRequired is returned by components constructed without an Index.
var ErrIndexRequired = errors.New("aliases: index required")
