package di

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-cms-i18nl10n/internal/aliases"
	"github.com/goliatone/go-cms-i18nl10n/internal/logging"
	"github.com/goliatone/go-cms-i18nl10n/internal/logging/console"
	"github.com/goliatone/go-cms-i18nl10n/internal/logging/gologger"
	"github.com/goliatone/go-cms-i18nl10n/internal/navigation"
	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"github.com/goliatone/go-cms-i18nl10n/internal/registry"
	"github.com/goliatone/go-cms-i18nl10n/internal/routing"
	"github.com/goliatone/go-cms-i18nl10n/internal/runtimeconfig"
	"github.com/goliatone/go-cms-i18nl10n/internal/storage"
	"github.com/goliatone/go-cms-i18nl10n/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"
)

// Container wires repositories, the alias index, routing services and the
// navigation filter from a runtime config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	migrations    fs.FS
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	now           func() time.Time

	pageRepo pages.PageRepository
	locRepo  pages.LocalizationRepository
	index    aliases.Index

	resolver      *routing.Resolver
	generator     *routing.Generator
	filter        *navigation.Filter
	routeManager  *urlkit.RouteManager
	routeResolver navigation.RouteResolver

	mu       sync.RWMutex
	registry *registry.Registry
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider derived from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies an open database for the bun storage provider. The
// container does not close databases it did not open.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithMigrations applies the SQL migrations of fsys instead of creating the
// schema from the bun models.
func WithMigrations(fsys fs.FS) Option {
	return func(c *Container) {
		c.migrations = fsys
	}
}

// WithRepositories replaces the storage backend entirely.
func WithRepositories(pageRepo pages.PageRepository, locRepo pages.LocalizationRepository) Option {
	return func(c *Container) {
		c.pageRepo = pageRepo
		c.locRepo = locRepo
	}
}

// WithRouteResolver overrides the urlkit resolver used for route items.
func WithRouteResolver(resolver navigation.RouteResolver) Option {
	return func(c *Container) {
		c.routeResolver = resolver
	}
}

// WithClock overrides the clock used by publish window checks.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.now = now
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureRepositories(); err != nil {
		return nil, err
	}
	c.configureRouting()
	c.configureNavigation()
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		level := console.ParseLevel(logCfg.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if ttl := c.Config.Cache.DefaultTTL; ttl > 0 {
			cfg.TTL = ttl
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}
	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() error {
	if c.pageRepo != nil && c.locRepo != nil {
		return nil
	}
	logger := logging.StorageLogger(c.loggerProvider)

	if strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider)) != "bun" {
		c.pageRepo = pages.NewMemoryPageRepository()
		c.locRepo = pages.NewMemoryLocalizationRepository()
		logger.Debug("storage.configured", "provider", "memory")
		return nil
	}

	dialect := c.Config.Storage.Dialect
	if c.bunDB == nil {
		db, err := storage.Open(dialect, c.Config.Storage.DSN)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}

	ctx := context.Background()
	var err error
	if c.migrations != nil {
		err = storage.Migrate(ctx, c.bunDB, c.migrations, dialect)
	} else {
		err = storage.CreateSchema(ctx, c.bunDB)
	}
	if err != nil {
		c.closeOwned()
		return fmt.Errorf("di: prepare schema: %w", err)
	}

	c.configureCacheDefaults()
	c.pageRepo = pages.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.locRepo = pages.NewBunLocalizationRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	logger.Debug("storage.configured",
		"provider", "bun",
		"dialect", dialect,
		"cache", c.cacheService != nil,
		"migrations", c.migrations != nil,
	)
	return nil
}

func (c *Container) configureRouting() {
	cfg := c.RoutingConfig()
	logger := logging.RoutingLogger(c.loggerProvider)
	c.index = aliases.NewRepositoryIndex(c.pageRepo, c.locRepo)
	c.resolver = routing.NewResolver(cfg, c.index, c.pageRepo, routing.WithResolverLogger(logger))
	c.generator = routing.NewGenerator(cfg, c.index, routing.WithGeneratorLogger(logger))
}

func (c *Container) configureNavigation() {
	if !c.Config.Features.Navigation {
		return
	}
	if c.routeResolver == nil && c.Config.Navigation.RouteConfig != nil {
		navCfg := c.Config.Navigation
		c.routeManager = urlkit.NewRouteManager(navCfg.RouteConfig)
		c.routeResolver = navigation.NewURLKitResolver(navigation.URLKitResolverOptions{
			Manager:        c.routeManager,
			DefaultGroup:   strings.TrimSpace(navCfg.URLKit.DefaultGroup),
			LanguageGroups: navCfg.URLKit.LanguageGroups,
			DefaultRoute:   strings.TrimSpace(navCfg.URLKit.DefaultRoute),
			AliasParam:     strings.TrimSpace(navCfg.URLKit.AliasParam),
			LanguageParam:  strings.TrimSpace(navCfg.URLKit.LanguageParam),
		})
	}

	opts := []navigation.FilterOption{
		navigation.WithLogger(logging.NavigationLogger(c.loggerProvider)),
		navigation.WithRouteResolver(c.routeResolver),
	}
	if c.now != nil {
		opts = append(opts, navigation.WithNow(c.now))
	}
	c.filter = navigation.NewFilter(c.pageRepo, c.locRepo, c.generator, opts...)
}

// RoutingConfig converts the runtime routing section.
func (c *Container) RoutingConfig() routing.Config {
	return routing.Config{
		DisableAlias: c.Config.Routing.DisableAlias,
		UseAutoItem:  c.Config.Routing.UseAutoItem,
		FolderURL:    c.Config.Routing.FolderURL,
		URLSuffix:    c.Config.Routing.URLSuffix,
	}
}

// Registry returns the language registry, loading it on first use.
func (c *Container) Registry(ctx context.Context) (*registry.Registry, error) {
	c.mu.RLock()
	reg := c.registry
	c.mu.RUnlock()
	if reg != nil {
		return reg, nil
	}
	return c.ReloadRegistry(ctx)
}

// ReloadRegistry rebuilds the registry from the current root pages and
// replaces the previous one.
func (c *Container) ReloadRegistry(ctx context.Context) (*registry.Registry, error) {
	reg, err := registry.Load(ctx, c.pageRepo)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.registry = reg
	c.mu.Unlock()

	logging.RegistryLogger(c.loggerProvider).Debug("registry.loaded", "hosts", strings.Join(reg.Hosts(), ","))
	return reg, nil
}

// Scope snapshots the registry for one request. The language is negotiated
// against the host; an unknown host keeps the requested language and fails
// later with a NoRootPageError.
func (c *Container) Scope(ctx context.Context, host, base, language string) (routing.Scope, error) {
	reg, err := c.Registry(ctx)
	if err != nil {
		return routing.Scope{}, err
	}
	scope := routing.Scope{
		Host:     host,
		Base:     base,
		Language: pages.NormalizeLanguage(language),
		Registry: reg,
	}
	if langs, err := reg.ForHost(host); err == nil {
		scope.Language = langs.Negotiate(scope.Language)
	}
	return scope, nil
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	return c.closeOwned()
}

func (c *Container) closeOwned() error {
	if c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	return err
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) BunDB() *bun.DB { return c.bunDB }

func (c *Container) PageRepository() pages.PageRepository { return c.pageRepo }

func (c *Container) LocalizationRepository() pages.LocalizationRepository { return c.locRepo }

func (c *Container) AliasIndex() aliases.Index { return c.index }

func (c *Container) Resolver() *routing.Resolver { return c.resolver }

func (c *Container) Generator() *routing.Generator { return c.generator }

// Navigation returns nil when the navigation feature is disabled.
func (c *Container) Navigation() *navigation.Filter { return c.filter }

func (c *Container) RouteManager() *urlkit.RouteManager { return c.routeManager }
