// Package i18nl10n translates localized request paths to canonical page
// aliases, generates localized URLs for pages and localizes navigation
// items, with the language configuration taken from root pages.
package i18nl10n

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-i18nl10n/internal/commands"
	sitescmd "github.com/goliatone/go-cms-i18nl10n/internal/commands/sites"
	"github.com/goliatone/go-cms-i18nl10n/internal/di"
	l10nhttp "github.com/goliatone/go-cms-i18nl10n/internal/http"
	"github.com/goliatone/go-cms-i18nl10n/internal/logging"
	"github.com/goliatone/go-cms-i18nl10n/internal/navigation"
	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"github.com/goliatone/go-cms-i18nl10n/internal/registry"
	"github.com/goliatone/go-cms-i18nl10n/internal/routing"
	"github.com/goliatone/go-cms-i18nl10n/internal/sites"
	"github.com/google/uuid"
)

type (
	Scope             = routing.Scope
	ResolveResult     = routing.Result
	GenerateRequest   = routing.GenerateRequest
	PageReference     = routing.PageReference
	Languages         = registry.Languages
	Page              = pages.Page
	LocalizedPage     = pages.LocalizedPage
	NavigationItem    = navigation.Item
	NavigationOptions = navigation.Options
	ImportResult      = sites.ImportResult
	NoRootPageError   = routing.NoRootPageError
	PageNotFoundError = routing.PageNotFoundError
)

var (
	ErrNoRootPage           = routing.ErrNoRootPage
	ErrPageNotFound         = routing.ErrPageNotFound
	ErrInvalidPageReference = routing.ErrInvalidPageReference
)

// Module represents the top level localization runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Scope snapshots the language registry for one request.
func (m *Module) Scope(ctx context.Context, host, base, language string) (Scope, error) {
	return m.container.Scope(ctx, host, base, language)
}

func (m *Module) Resolver() *routing.Resolver { return m.container.Resolver() }

func (m *Module) Generator() *routing.Generator { return m.container.Generator() }

// Navigation returns nil when Features.Navigation is off.
func (m *Module) Navigation() *navigation.Filter { return m.container.Navigation() }

func (m *Module) Pages() pages.PageRepository { return m.container.PageRepository() }

func (m *Module) Localizations() pages.LocalizationRepository {
	return m.container.LocalizationRepository()
}

// Languages returns the language configuration that applies to host.
func (m *Module) Languages(ctx context.Context, host string) (Languages, error) {
	reg, err := m.container.Registry(ctx)
	if err != nil {
		return Languages{}, err
	}
	return reg.ForHost(host)
}

// ResolvePath resolves a request path such as "de/neuigkeiten/archiv" on
// host. The first fragment is the requested language.
func (m *Module) ResolvePath(ctx context.Context, host, path string) (ResolveResult, error) {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if suffix := m.container.Config.Routing.URLSuffix; suffix != "" {
		path = strings.TrimSuffix(path, suffix)
	}
	var fragments []string
	language := ""
	if path != "" {
		fragments = strings.Split(path, "/")
		language = fragments[0]
	}
	scope, err := m.Scope(ctx, host, "", language)
	if err != nil {
		return ResolveResult{}, err
	}
	return m.Resolver().Resolve(ctx, scope, fragments)
}

// URLFor generates the relative localized URL of the page identified by id.
func (m *Module) URLFor(ctx context.Context, host string, id uuid.UUID, language, params string) (string, error) {
	scope, err := m.Scope(ctx, host, "", language)
	if err != nil {
		return "", err
	}
	details, err := pages.GetWithDetails(ctx, m.Pages(), id)
	if err != nil {
		return "", err
	}
	return m.Generator().Generate(ctx, scope, GenerateRequest{
		Page:   routing.ReferenceFromDetails(details),
		Params: params,
	})
}

// LocalizeNavigation runs the navigation filter for language on host.
func (m *Module) LocalizeNavigation(ctx context.Context, host, language string, items []NavigationItem, opts NavigationOptions) ([]NavigationItem, error) {
	filter := m.Navigation()
	if filter == nil {
		return items, nil
	}
	scope, err := m.Scope(ctx, host, "", language)
	if err != nil {
		return nil, err
	}
	return filter.Localize(ctx, scope, items, opts)
}

// ImportSite imports the YAML site definition at path and reloads the
// language registry.
func (m *Module) ImportSite(ctx context.Context, path string) (ImportResult, error) {
	var result ImportResult
	handler := sitescmd.NewImportSiteHandler(
		m.Pages(),
		m.Localizations(),
		commands.CommandLogger(m.container.LoggerProvider(), "sites"),
	)
	if err := handler.Execute(ctx, sitescmd.ImportSiteCommand{Path: path, Result: &result}); err != nil {
		return result, err
	}
	if _, err := m.container.ReloadRegistry(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// CheckLanguages verifies that every host resolves to a root. No hosts
// checks every registered host.
func (m *Module) CheckLanguages(ctx context.Context, hosts ...string) (map[string]Languages, error) {
	result := map[string]Languages{}
	handler := sitescmd.NewCheckLanguagesHandler(m.Pages(), commands.CommandLogger(m.container.LoggerProvider(), "sites"))
	if err := handler.Execute(ctx, sitescmd.CheckLanguagesCommand{Hosts: hosts, Result: result}); err != nil {
		return nil, err
	}
	return result, nil
}

// SubscribeCommands registers the site command handlers on the go-command
// dispatcher. Call the returned function to unsubscribe.
func (m *Module) SubscribeCommands() func() {
	return sitescmd.Subscribe(m.Pages(), m.Localizations(), commands.CommandLogger(m.container.LoggerProvider(), "sites"))
}

// FrontendAPI builds the HTTP adapter from Config.HTTP and the module services.
func (m *Module) FrontendAPI() *l10nhttp.FrontendAPI {
	cfg := m.container.Config
	return l10nhttp.NewFrontendAPI(
		l10nhttp.WithBasePath(cfg.HTTP.BasePath),
		l10nhttp.WithURLSuffix(cfg.Routing.URLSuffix),
		l10nhttp.WithFBCLIDRedirect(cfg.HTTP.StripFBCLID),
		l10nhttp.WithScopeProvider(m.container),
		l10nhttp.WithResolver(m.Resolver()),
		l10nhttp.WithGenerator(m.Generator()),
		l10nhttp.WithPageRepository(m.Pages()),
		l10nhttp.WithNavigation(m.Navigation(), nil),
		l10nhttp.WithLogger(logging.ModuleLogger(m.container.LoggerProvider(), "l10n.http")),
	)
}

// Close releases resources opened by the module.
func (m *Module) Close() error {
	return m.container.Close()
}
