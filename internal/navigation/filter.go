package navigation

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/goliatone/go-cms-i18nl10n/internal/logging"
	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"github.com/goliatone/go-cms-i18nl10n/internal/routing"
	"github.com/goliatone/go-cms-i18nl10n/pkg/interfaces"
	"github.com/google/uuid"
)

// Filter rewrites navigation items for the active language.
type Filter struct {
	pages         pages.PageRepository
	localizations pages.LocalizationRepository
	generator     *routing.Generator
	routes        RouteResolver
	now           func() time.Time
	logger        interfaces.Logger
}

// FilterOption customises a Filter.
type FilterOption func(*Filter)

// WithRouteResolver sets the resolver used for route items.
func WithRouteResolver(resolver RouteResolver) FilterOption {
	return func(f *Filter) {
		if resolver != nil {
			f.routes = resolver
		}
	}
}

// WithNow overrides the clock used for publish window checks.
func WithNow(now func() time.Time) FilterOption {
	return func(f *Filter) {
		if now != nil {
			f.now = now
		}
	}
}

// WithLogger sets the filter logger.
func WithLogger(logger interfaces.Logger) FilterOption {
	return func(f *Filter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func NewFilter(pageRepo pages.PageRepository, localizationRepo pages.LocalizationRepository, generator *routing.Generator, opts ...FilterOption) *Filter {
	f := &Filter{
		pages:         pageRepo,
		localizations: localizationRepo,
		generator:     generator,
		now:           time.Now,
		logger:        logging.NoOp(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Localize returns the items to render for scope.Language. Items in the
// default language pass through unless unpublished. Other languages take
// their text and href from the matching localization row; items without one
// are kept only when opts.UseFallback is set.
func (f *Filter) Localize(ctx context.Context, scope routing.Scope, items []Item, opts Options) ([]Item, error) {
	if len(items) == 0 {
		return []Item{}, nil
	}
	langs, err := scope.Languages()
	if err != nil {
		return nil, err
	}
	language := pages.NormalizeLanguage(scope.Language)
	now := f.now()
	logger := logging.WithRequest(f.logger, scope.Host, language)

	out := make([]Item, 0, len(items))
	if language == langs.Default {
		for _, item := range items {
			if opts.checkPublished() && !pages.IsPublishedAt(item.Published, item.Start, item.Stop, now) {
				continue
			}
			out = append(out, item)
		}
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	rows, err := f.localizations.ListByPagesAndLanguage(ctx, ids, language)
	if err != nil {
		return nil, fmt.Errorf("navigation: list localizations: %w", err)
	}
	byPage := make(map[uuid.UUID]*pages.LocalizedPage, len(rows))
	for _, row := range rows {
		if opts.checkPublished() && !row.VisibleAt(now) {
			continue
		}
		byPage[row.PageID] = row
	}

	for _, item := range items {
		row, ok := byPage[item.ID]
		if !ok {
			if opts.UseFallback {
				out = append(out, item)
			}
			continue
		}
		localized, err := f.localizeItem(ctx, scope, item, row, now)
		if err != nil {
			return nil, err
		}
		out = append(out, localized)
	}

	logging.WithFields(logger, map[string]any{
		"items":     len(items),
		"localized": len(byPage),
		"kept":      len(out),
	}).Debug("navigation.localize")
	return out, nil
}

func (f *Filter) localizeItem(ctx context.Context, scope routing.Scope, item Item, row *pages.LocalizedPage, now time.Time) (Item, error) {
	if row.Alias != "" {
		item.Alias = row.Alias
	}
	item.Language = row.Language

	href, err := f.href(ctx, scope, item, row, now)
	if err != nil {
		return Item{}, err
	}
	item.Href = href

	item.PageTitle = html.EscapeString(row.PageTitle)
	item.Title = html.EscapeString(row.Title)
	item.Link = item.Title
	item.Description = collapseNewlines(html.EscapeString(row.Description))
	return item, nil
}

func (f *Filter) href(ctx context.Context, scope routing.Scope, item Item, row *pages.LocalizedPage, now time.Time) (string, error) {
	switch item.Type {
	case pages.TypeForward:
		target, err := f.forwardTarget(ctx, item, now)
		if err != nil {
			return "", err
		}
		if target == nil {
			return item.Href, nil
		}
		return f.generate(ctx, scope, routing.ReferenceFromDetails(target))
	case pages.TypeRedirect:
		if row.URL != "" {
			return row.URL, nil
		}
		return item.Href, nil
	case TypeRoute:
		if f.routes != nil {
			href, err := f.routes.Resolve(ctx, RouteRequest{Item: item, Language: row.Language})
			if err != nil {
				return "", fmt.Errorf("navigation: route %q: %w", item.Route, err)
			}
			if href != "" {
				return href, nil
			}
		}
	}
	return f.generate(ctx, scope, routing.PageReference{
		ID:     item.ID,
		Alias:  item.Alias,
		Domain: item.Domain,
		UseSSL: item.UseSSL,
	})
}

// forwardTarget returns the jump target or, without one, the first
// published child. A nil result means there is nothing to forward to.
func (f *Filter) forwardTarget(ctx context.Context, item Item, now time.Time) (*pages.Details, error) {
	targetID := uuid.Nil
	if item.JumpTo != nil {
		targetID = *item.JumpTo
	}
	if targetID == uuid.Nil {
		children, err := f.pages.ListChildren(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("navigation: forward children: %w", err)
		}
		for _, child := range children {
			if child.VisibleAt(now) {
				targetID = child.ID
				break
			}
		}
	}
	if targetID == uuid.Nil {
		return nil, nil
	}

	details, err := pages.GetWithDetails(ctx, f.pages, targetID)
	if err != nil {
		if pages.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("navigation: forward target: %w", err)
	}
	return details, nil
}

func (f *Filter) generate(ctx context.Context, scope routing.Scope, ref routing.PageReference) (string, error) {
	if f.generator == nil {
		return "", nil
	}
	href, err := f.generator.Generate(ctx, scope, routing.GenerateRequest{Page: ref})
	if err != nil {
		return "", fmt.Errorf("navigation: generate href: %w", err)
	}
	return href, nil
}

func collapseNewlines(value string) string {
	value = strings.ReplaceAll(value, "\r", "")
	return strings.ReplaceAll(value, "\n", " ")
}
