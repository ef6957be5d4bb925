package routing

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/goliatone/go-cms-i18nl10n/internal/aliases"
	"github.com/goliatone/go-cms-i18nl10n/internal/logging"
	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"github.com/goliatone/go-cms-i18nl10n/pkg/interfaces"
	"github.com/google/uuid"
)

// Result is the canonical form of a request path. Fragments is the full
// rewritten sequence: alias, residual fragments, then the language pair.
// PageID is uuid.Nil when no alias row matched.
type Result struct {
	Alias     string
	PageID    uuid.UUID
	Language  string
	Remaining []string
	Fragments []string
}

// Resolver turns localized request fragments into canonical fragments.
type Resolver struct {
	config Config
	index  aliases.Index
	pages  pages.PageRepository
	logger interfaces.Logger
}

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger used for resolution traces.
func WithResolverLogger(logger interfaces.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver builds a Resolver reading aliases from index and page details
// from pageRepo.
func NewResolver(cfg Config, index aliases.Index, pageRepo pages.PageRepository, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		config: cfg,
		index:  index,
		pages:  pageRepo,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type aliasMatch struct {
	alias     string
	l10nAlias string
	pageID    uuid.UUID
}

// Resolve rewrites fragments of the form [language, alias parts..., params...]
// into [alias, params..., "language", language]. An empty request is
// returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, scope Scope, fragments []string) (Result, error) {
	if len(fragments) == 0 || fragments[0] == "" {
		return Result{Fragments: slices.Clone(fragments)}, nil
	}
	if r.index == nil || r.pages == nil {
		return Result{}, aliases.ErrIndexRequired
	}

	decoded := decodeFragments(fragments)
	langs, err := scope.Languages()
	if err != nil {
		return Result{}, err
	}
	if len(langs.Available) == 0 {
		return Result{}, &NoRootPageError{Host: scope.Host}
	}

	language := pages.NormalizeLanguage(decoded[0])
	mapped := r.mapFragments(decoded)
	logger := logging.WithRequest(r.logger, scope.Host, language)

	match, err := r.findAlias(ctx, scope, mapped, language, logger)
	if err != nil {
		return Result{}, err
	}

	remaining := []string{}
	if len(mapped) > 1 {
		remaining = slices.Clone(mapped[1:])
	}
	if strings.Contains(match.alias, "/") || strings.Contains(match.l10nAlias, "/") {
		parts := append(strings.Split(match.alias, "/"), strings.Split(match.l10nAlias, "/")...)
		for _, part := range parts {
			if part == "" {
				continue
			}
			if i := slices.Index(remaining, part); i >= 0 {
				remaining = slices.Delete(remaining, i, i+1)
			}
		}
	}

	out := make([]string, 0, len(remaining)+4)
	out = append(out, match.alias)
	out = append(out, remaining...)
	out = append(out, LanguageKey, language)
	if r.config.UseAutoItem && len(out)%2 == 0 {
		out = slices.Insert(out, 1, AutoItem)
	}
	if out[0] == "" {
		out[0] = "/"
	}

	logging.WithFields(logger, map[string]any{
		"alias":     match.alias,
		"fragments": out,
	}).Debug("routing.resolve.completed")

	return Result{
		Alias:     out[0],
		PageID:    match.pageID,
		Language:  language,
		Remaining: remaining,
		Fragments: out,
	}, nil
}

// mapFragments drops the language fragment and, when enabled, an auto item
// marker directly after it.
func (r *Resolver) mapFragments(fragments []string) []string {
	start := 1
	if r.config.UseAutoItem && len(fragments) > 1 && fragments[1] == AutoItem {
		start = 2
	}
	return slices.Clone(fragments[start:])
}

func (r *Resolver) findAlias(ctx context.Context, scope Scope, mapped []string, language string, logger interfaces.Logger) (aliasMatch, error) {
	match := aliasMatch{}
	if len(mapped) == 0 {
		return match, nil
	}
	match.alias = mapped[0]

	candidates := []string{mapped[0]}
	if r.config.FolderURL {
		candidates = AliasCandidates(mapped)
	}
	if len(candidates) == 0 || candidates[0] == "" {
		return match, nil
	}

	rows, err := r.index.FindAliases(ctx, candidates, language)
	if err != nil {
		return aliasMatch{}, fmt.Errorf("routing: find aliases: %w", err)
	}
	logging.WithFields(logger, map[string]any{
		"candidates": candidates,
		"rows":       len(rows),
	}).Debug("routing.resolve.candidates")

	host := hostname(scope.Host)
	for _, row := range rows {
		l10nAlias := ""
		if row.Source == aliases.SourceLocalized {
			if row.Language != language {
				logging.WithFields(logger, map[string]any{
					"alias":        row.Alias,
					"row_language": row.Language,
				}).Debug("routing.resolve.language_collision")
				return aliasMatch{}, &PageNotFoundError{Alias: row.Alias, Language: language}
			}
			l10nAlias = row.Alias
		}

		details, err := pages.GetWithDetails(ctx, r.pages, row.PageID)
		if err != nil {
			if pages.IsNotFound(err) {
				continue
			}
			return aliasMatch{}, fmt.Errorf("routing: page details: %w", err)
		}
		if details.RootDomain != "" && hostname(details.RootDomain) != host {
			logging.WithFields(logger, map[string]any{
				"alias":  row.Alias,
				"domain": details.RootDomain,
			}).Trace("routing.resolve.domain_skipped")
			continue
		}

		match.alias = details.Alias
		match.l10nAlias = l10nAlias
		match.pageID = details.ID
		return match, nil
	}
	return match, nil
}

func decodeFragments(fragments []string) []string {
	out := make([]string, len(fragments))
	for i, fragment := range fragments {
		decoded, err := url.QueryUnescape(fragment)
		if err != nil {
			decoded = fragment
		}
		out[i] = decoded
	}
	return out
}
