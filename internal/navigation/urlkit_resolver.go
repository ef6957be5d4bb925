package navigation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

// URLKitResolverOptions configures the go-urlkit backed resolver.
type URLKitResolverOptions struct {
	Manager      *urlkit.RouteManager
	DefaultGroup string
	// LanguageGroups maps a language to a dotted group path, e.g. "frontend.de".
	LanguageGroups map[string]string
	DefaultRoute   string
	AliasParam     string
	LanguageParam  string
}

// URLKitResolver resolves route items through a go-urlkit RouteManager,
// picking the route group of the item language.
type URLKitResolver struct {
	manager *urlkit.RouteManager

	defaultGroup   string
	languageGroups map[string]string
	defaultRoute   string
	aliasParam     string
	languageParam  string

	groupCache map[string]*urlkit.Group
	mu         sync.RWMutex
}

var _ RouteResolver = (*URLKitResolver)(nil)

// NewURLKitResolver constructs a resolver backed by go-urlkit.
func NewURLKitResolver(opts URLKitResolverOptions) *URLKitResolver {
	if opts.AliasParam == "" {
		opts.AliasParam = "slug"
	}
	groups := make(map[string]string, len(opts.LanguageGroups))
	for language, path := range opts.LanguageGroups {
		groups[strings.ToLower(strings.TrimSpace(language))] = strings.TrimSpace(path)
	}

	return &URLKitResolver{
		manager:        opts.Manager,
		defaultGroup:   strings.TrimSpace(opts.DefaultGroup),
		languageGroups: groups,
		defaultRoute:   strings.TrimSpace(opts.DefaultRoute),
		aliasParam:     strings.TrimSpace(opts.AliasParam),
		languageParam:  strings.TrimSpace(opts.LanguageParam),
		groupCache:     make(map[string]*urlkit.Group),
	}
}

// Resolve builds the item URL. An empty result means the resolver has no
// route for the item and the caller should fall back.
func (r *URLKitResolver) Resolve(_ context.Context, req RouteRequest) (string, error) {
	if r == nil || r.manager == nil {
		return "", nil
	}

	groupPath := r.defaultGroup
	if path, ok := r.languageGroups[strings.ToLower(strings.TrimSpace(req.Language))]; ok && path != "" {
		groupPath = path
	}
	if groupPath == "" {
		return "", nil
	}

	routeName := strings.TrimSpace(req.Item.Route)
	if routeName == "" {
		routeName = r.defaultRoute
	}
	if routeName == "" {
		return "", nil
	}

	group, err := r.groupForPath(groupPath)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, routeName)
	if err != nil {
		return "", err
	}

	if r.aliasParam != "" && req.Item.Alias != "" {
		builder.WithParam(r.aliasParam, req.Item.Alias)
	}
	if r.languageParam != "" && req.Language != "" {
		builder.WithParam(r.languageParam, req.Language)
	}
	for key, value := range req.Item.RouteParams {
		builder.WithParam(key, value)
	}
	for key, value := range req.Item.RouteQuery {
		builder.WithQuery(key, value)
	}

	return builder.Build()
}

func (r *URLKitResolver) groupForPath(path string) (*urlkit.Group, error) {
	r.mu.RLock()
	group, ok := r.groupCache[path]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	current, err := lookupGroup(r.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		current, err = lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.groupCache[path] = current
	r.mu.Unlock()
	return current, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("navigation: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("navigation: urlkit route %q not found", route)
		}
	}()
	return group.Builder(route), nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("navigation: route group %q not found", name)
		}
	}()
	return manager.Group(name), nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("navigation: child group %q not found", name)
		}
	}()
	return parent.Group(name), nil
}
