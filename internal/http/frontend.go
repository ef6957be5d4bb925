package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-cms-i18nl10n/internal/logging"
	"github.com/goliatone/go-cms-i18nl10n/internal/navigation"
	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"github.com/goliatone/go-cms-i18nl10n/internal/routing"
	"github.com/goliatone/go-cms-i18nl10n/pkg/interfaces"
	"github.com/google/uuid"
)

// DefaultBasePath is where FrontendAPI mounts without WithBasePath.
const DefaultBasePath = "/api/l10n"

// ScopeProvider builds the per-request routing scope. language may be empty,
// in which case the host default applies.
type ScopeProvider interface {
	Scope(ctx context.Context, host, base, language string) (routing.Scope, error)
}

// ScopeProviderFunc adapts a function to ScopeProvider.
type ScopeProviderFunc func(ctx context.Context, host, base, language string) (routing.Scope, error)

func (f ScopeProviderFunc) Scope(ctx context.Context, host, base, language string) (routing.Scope, error) {
	return f(ctx, host, base, language)
}

// FrontendAPI exposes resolution, URL generation, language listing and
// navigation localization over HTTP.
type FrontendAPI struct {
	basePath    string
	urlSuffix   string
	stripFBCLID bool
	scopes      ScopeProvider
	resolver    *routing.Resolver
	generator   *routing.Generator
	navigation  *navigation.Filter
	pages       pages.PageRepository
	logger      interfaces.Logger
}

// FrontendOption mutates the FrontendAPI configuration.
type FrontendOption func(*FrontendAPI)

// NewFrontendAPI constructs a FrontendAPI instance.
func NewFrontendAPI(opts ...FrontendOption) *FrontendAPI {
	api := &FrontendAPI{
		basePath: DefaultBasePath,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path.
func WithBasePath(path string) FrontendOption {
	return func(api *FrontendAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithURLSuffix strips suffix from paths passed to /resolve.
func WithURLSuffix(suffix string) FrontendOption {
	return func(api *FrontendAPI) {
		api.urlSuffix = suffix
	}
}

// WithFBCLIDRedirect enables the redirect that drops the fbclid parameter.
func WithFBCLIDRedirect(enabled bool) FrontendOption {
	return func(api *FrontendAPI) {
		api.stripFBCLID = enabled
	}
}

// WithScopeProvider wires the scope factory.
func WithScopeProvider(provider ScopeProvider) FrontendOption {
	return func(api *FrontendAPI) {
		api.scopes = provider
	}
}

// WithResolver wires the reverse resolver.
func WithResolver(resolver *routing.Resolver) FrontendOption {
	return func(api *FrontendAPI) {
		api.resolver = resolver
	}
}

// WithGenerator wires the URL generator.
func WithGenerator(generator *routing.Generator) FrontendOption {
	return func(api *FrontendAPI) {
		api.generator = generator
	}
}

// WithNavigation wires the navigation filter and the page repository used
// to expand parent menus.
func WithNavigation(filter *navigation.Filter, pageRepo pages.PageRepository) FrontendOption {
	return func(api *FrontendAPI) {
		api.navigation = filter
		if pageRepo != nil {
			api.pages = pageRepo
		}
	}
}

// WithPageRepository wires the repository used to load page details for
// URL generation.
func WithPageRepository(pageRepo pages.PageRepository) FrontendOption {
	return func(api *FrontendAPI) {
		api.pages = pageRepo
	}
}

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) FrontendOption {
	return func(api *FrontendAPI) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register mounts the routes on mux.
func (api *FrontendAPI) Register(mux *http.ServeMux) error {
	if api == nil || mux == nil {
		return fmt.Errorf("http: frontend api and mux are required")
	}
	if api.scopes == nil {
		return fmt.Errorf("http: scope provider is required")
	}
	if api.resolver != nil {
		mux.Handle("GET "+joinPath(api.basePath, "resolve"), api.wrap(api.handleResolve))
	}
	if api.generator != nil {
		mux.Handle("GET "+joinPath(api.basePath, "url"), api.wrap(api.handleURL))
	}
	mux.Handle("GET "+joinPath(api.basePath, "languages"), api.wrap(api.handleLanguages))
	if api.navigation != nil {
		mux.Handle("POST "+joinPath(api.basePath, "navigation"), api.wrap(api.handleNavigation))
	}
	return nil
}

func (api *FrontendAPI) wrap(fn http.HandlerFunc) http.Handler {
	if !api.stripFBCLID {
		return fn
	}
	return StripFBCLID(fn)
}

type resolveResponse struct {
	Alias     string    `json:"alias"`
	PageID    uuid.UUID `json:"page_id"`
	Language  string    `json:"language"`
	Remaining []string  `json:"remaining"`
	Fragments []string  `json:"fragments"`
}

func (api *FrontendAPI) handleResolve(w http.ResponseWriter, r *http.Request) {
	fragments := api.splitPath(r.URL.Query().Get("path"))
	language := ""
	if len(fragments) > 0 {
		language = fragments[0]
	}
	scope, err := api.scopes.Scope(r.Context(), r.Host, siteBase(r), language)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := api.resolver.Resolve(r.Context(), scope, fragments)
	if err != nil {
		api.logFailure(r, "http.resolve.failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{
		Alias:     result.Alias,
		PageID:    result.PageID,
		Language:  result.Language,
		Remaining: result.Remaining,
		Fragments: result.Fragments,
	})
}

type urlResponse struct {
	URL      string `json:"url"`
	Language string `json:"language"`
}

func (api *FrontendAPI) handleURL(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pageID, err := parseUUID(query.Get("page"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: page: %v", errBadRequest, err))
		return
	}
	base := siteBase(r)
	scope, err := api.scopes.Scope(r.Context(), r.Host, base, query.Get("language"))
	if err != nil {
		writeError(w, err)
		return
	}
	if api.pages == nil {
		writeError(w, fmt.Errorf("http: page repository not configured"))
		return
	}
	details, err := pages.GetWithDetails(r.Context(), api.pages, pageID)
	if err != nil {
		writeError(w, err)
		return
	}

	template := ""
	if parseBoolQuery(query.Get("absolute"), false) {
		template = base
	}
	url, err := api.generator.Generate(r.Context(), scope, routing.GenerateRequest{
		Page:   routing.ReferenceFromDetails(details),
		Params: query.Get("params"),
		URL:    template,
	})
	if err != nil {
		api.logFailure(r, "http.url.failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, urlResponse{URL: url, Language: scope.Language})
}

type languagesResponse struct {
	Host      string   `json:"host"`
	Default   string   `json:"default"`
	Available []string `json:"available"`
	All       []string `json:"all"`
}

func (api *FrontendAPI) handleLanguages(w http.ResponseWriter, r *http.Request) {
	scope, err := api.scopes.Scope(r.Context(), r.Host, siteBase(r), "")
	if err != nil {
		writeError(w, err)
		return
	}
	langs, err := scope.Languages()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, languagesResponse{
		Host:      r.Host,
		Default:   langs.Default,
		Available: langs.Available,
		All:       scope.Registry.AllAvailableLanguages(nil, false),
	})
}

type navigationRequest struct {
	Language    string            `json:"language"`
	Parent      *uuid.UUID        `json:"parent,omitempty"`
	Items       []navigation.Item `json:"items"`
	UseFallback bool              `json:"use_fallback"`
	Editor      bool              `json:"editor"`
}

type navigationResponse struct {
	Language string            `json:"language"`
	Items    []navigation.Item `json:"items"`
}

func (api *FrontendAPI) handleNavigation(w http.ResponseWriter, r *http.Request) {
	var payload navigationRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	scope, err := api.scopes.Scope(r.Context(), r.Host, siteBase(r), payload.Language)
	if err != nil {
		writeError(w, err)
		return
	}

	items := payload.Items
	if len(items) == 0 && payload.Parent != nil {
		items, err = api.childItems(r.Context(), *payload.Parent)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	localized, err := api.navigation.Localize(r.Context(), scope, items, navigation.Options{
		UseFallback: payload.UseFallback,
		Editor:      payload.Editor,
	})
	if err != nil {
		api.logFailure(r, "http.navigation.failed", err)
		writeError(w, err)
		return
	}
	if localized == nil {
		localized = []navigation.Item{}
	}
	writeJSON(w, http.StatusOK, navigationResponse{Language: scope.Language, Items: localized})
}

func (api *FrontendAPI) childItems(ctx context.Context, parent uuid.UUID) ([]navigation.Item, error) {
	if api.pages == nil {
		return nil, fmt.Errorf("http: page repository not configured")
	}
	if _, err := api.pages.GetByID(ctx, parent); err != nil {
		return nil, err
	}
	children, err := api.pages.ListChildren(ctx, parent)
	if err != nil {
		return nil, err
	}
	items := make([]navigation.Item, 0, len(children))
	for _, child := range children {
		details, err := pages.GetWithDetails(ctx, api.pages, child.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, navigation.ItemFromDetails(details))
	}
	return items, nil
}

func (api *FrontendAPI) splitPath(path string) []string {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if api.urlSuffix != "" {
		path = strings.TrimSuffix(path, api.urlSuffix)
	}
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func (api *FrontendAPI) logFailure(r *http.Request, msg string, err error) {
	logging.WithRequest(api.logger, r.Host, "").Debug(msg, "path", r.URL.Path, "error", err)
}

func siteBase(r *http.Request) string {
	return requestScheme(r) + "://" + r.Host + "/"
}
