package routing

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-cms-i18nl10n/internal/aliases"
	"github.com/goliatone/go-cms-i18nl10n/internal/logging"
	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"github.com/goliatone/go-cms-i18nl10n/pkg/interfaces"
	"github.com/google/uuid"
)

var (
	markerPattern = regexp.MustCompile(`/auto_item|/language/[a-z]{2}|[?&]language=[a-z]{2}`)
	// matches a trailing query key without a value, e.g. "?id=1&news=".
	missingValuePattern = regexp.MustCompile(`^(.*\?[^&]*&)([^&]*)=(&.*)?$`)
)

// PageReference identifies the page a URL is generated for.
type PageReference struct {
	ID    uuid.UUID
	Alias string
	// Language is only honoured when ForceRowLanguage is set.
	Language         string
	ForceRowLanguage bool
	Domain           string
	UseSSL           bool
}

// ReferenceFromDetails builds a reference carrying the inherited root domain
// and SSL flag.
func ReferenceFromDetails(details *pages.Details) PageReference {
	if details == nil || details.Page == nil {
		return PageReference{}
	}
	return PageReference{
		ID:     details.ID,
		Alias:  details.Alias,
		Domain: details.RootDomain,
		UseSSL: details.RootUseSSL,
	}
}

// GenerateRequest is the input of Generator.Generate. Params is the path
// parameter suffix ("/items/42") and URL the template URL produced by the
// host router.
type GenerateRequest struct {
	Page   PageReference
	Params string
	URL    string
}

// Generator builds localized URLs for canonical page references.
type Generator struct {
	config Config
	index  aliases.Index
	logger interfaces.Logger
}

// GeneratorOption customises a Generator.
type GeneratorOption func(*Generator)

// WithGeneratorLogger sets the logger used for generation traces.
func WithGeneratorLogger(logger interfaces.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator builds a Generator that looks up localized aliases in index.
func NewGenerator(cfg Config, index aliases.Index, opts ...GeneratorOption) *Generator {
	g := &Generator{
		config: cfg,
		index:  index,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the localized URL of req.Page. The result is relative
// ("de/news/items/42.html") unless the template URL contains scope.Base.
func (g *Generator) Generate(ctx context.Context, scope Scope, req GenerateRequest) (string, error) {
	ref := req.Page
	if ref.ID == uuid.Nil {
		return "", ErrInvalidPageReference
	}
	if g.index == nil {
		return "", aliases.ErrIndexRequired
	}

	language := scope.Language
	if ref.Language != "" && ref.ForceRowLanguage {
		language = ref.Language
	}
	language = pages.NormalizeLanguage(language)
	logger := logging.WithRequest(g.logger, scope.Host, language)

	alias, err := g.localizedAlias(ctx, scope, ref, language)
	if err != nil {
		return "", err
	}

	params := markerPattern.ReplaceAllString(req.Params, "")
	template := markerPattern.ReplaceAllString(req.URL, "")

	if g.config.DisableAlias {
		if g.config.UseAutoItem && missingValuePattern.MatchString(template) {
			template = missingValuePattern.ReplaceAllString(template, "${1}auto_item=${2}${3}")
		}
		separator := "&"
		if !strings.Contains(template, "?") {
			separator = "?"
		}
		result := template + separator + LanguageKey + "=" + language
		logging.WithFields(logger, map[string]any{"url": result}).Debug("routing.generate.query")
		return result, nil
	}

	result := language + "/" + alias + params + g.config.URLSuffix
	if result == language+"//"+g.config.URLSuffix {
		result = language + "/"
	}

	if scope.Base != "" && strings.Contains(template, scope.Base) {
		scheme := "http://"
		if ref.UseSSL {
			scheme = "https://"
		}
		host := ref.Domain
		if host == "" {
			host = scope.Host
		}
		result = scheme + host + "/" + result
	}

	logging.WithFields(logger, map[string]any{
		"alias": alias,
		"url":   result,
	}).Debug("routing.generate.path")
	return result, nil
}

func (g *Generator) localizedAlias(ctx context.Context, scope Scope, ref PageReference, language string) (string, error) {
	alias := ref.Alias
	if alias != "" {
		localized, err := g.index.HasLocalizedAlias(ctx, alias, language)
		if err != nil {
			return "", fmt.Errorf("routing: explicit alias lookup: %w", err)
		}
		if localized {
			return alias, nil
		}
	}

	langs, err := scope.Languages()
	if err != nil {
		return "", err
	}
	if language == langs.Default {
		return alias, nil
	}

	l10nAlias, ok, err := g.index.LocalizedAlias(ctx, ref.ID, language)
	if err != nil {
		return "", fmt.Errorf("routing: localized alias lookup: %w", err)
	}
	if ok {
		return l10nAlias, nil
	}
	return alias, nil
}
