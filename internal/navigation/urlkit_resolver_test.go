package navigation

import (
	"context"
	"testing"

	urlkit "github.com/goliatone/go-urlkit"
)

func newTestRouteManager() *urlkit.RouteManager {
	return urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "frontend",
				BaseURL: "https://example.com",
				Paths: map[string]string{
					"page": "/pages/:slug",
				},
				Groups: []urlkit.GroupConfig{
					{
						Name: "es",
						Path: "/es",
						Paths: map[string]string{
							"page": "/paginas/:slug",
						},
					},
				},
			},
		},
	})
}

func TestURLKitResolverPicksLanguageGroup(t *testing.T) {
	resolver := NewURLKitResolver(URLKitResolverOptions{
		Manager:        newTestRouteManager(),
		DefaultGroup:   "frontend",
		LanguageGroups: map[string]string{"ES": "frontend.es"},
		DefaultRoute:   "page",
	})
	item := Item{Alias: "company"}

	en, err := resolver.Resolve(context.Background(), RouteRequest{Item: item, Language: "en"})
	if err != nil {
		t.Fatalf("resolve en: %v", err)
	}
	if en != "https://example.com/pages/company" {
		t.Fatalf("unexpected en url: %q", en)
	}

	es, err := resolver.Resolve(context.Background(), RouteRequest{Item: item, Language: "es"})
	if err != nil {
		t.Fatalf("resolve es: %v", err)
	}
	if es != "https://example.com/es/paginas/company" {
		t.Fatalf("unexpected es url: %q", es)
	}
}

func TestURLKitResolverUnknownGroup(t *testing.T) {
	resolver := NewURLKitResolver(URLKitResolverOptions{
		Manager:      newTestRouteManager(),
		DefaultGroup: "missing",
		DefaultRoute: "page",
	})
	if _, err := resolver.Resolve(context.Background(), RouteRequest{Item: Item{Alias: "company"}}); err == nil {
		t.Fatalf("expected error for unknown group")
	}
}

func TestURLKitResolverWithoutRoute(t *testing.T) {
	resolver := NewURLKitResolver(URLKitResolverOptions{
		Manager:      newTestRouteManager(),
		DefaultGroup: "frontend",
	})
	got, err := resolver.Resolve(context.Background(), RouteRequest{Item: Item{Alias: "company"}})
	if err != nil || got != "" {
		t.Fatalf("expected empty result without route, got %q %v", got, err)
	}
}
