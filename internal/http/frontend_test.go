package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-cms-i18nl10n/internal/aliases"
	"github.com/goliatone/go-cms-i18nl10n/internal/identity"
	"github.com/goliatone/go-cms-i18nl10n/internal/navigation"
	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"github.com/goliatone/go-cms-i18nl10n/internal/registry"
	"github.com/goliatone/go-cms-i18nl10n/internal/routing"
	"github.com/goliatone/go-cms-i18nl10n/internal/sites"
)

func setupFrontendAPI(t *testing.T) *http.ServeMux {
	t.Helper()
	ctx := context.Background()

	def, err := sites.LoadFile(filepath.Join("..", "sites", "testdata", "site.yaml"))
	if err != nil {
		t.Fatalf("load site: %v", err)
	}
	records, err := sites.Build(def)
	if err != nil {
		t.Fatalf("build site: %v", err)
	}
	pageRepo := pages.NewMemoryPageRepository()
	locRepo := pages.NewMemoryLocalizationRepository()
	if _, err := sites.Import(ctx, records, pageRepo, locRepo); err != nil {
		t.Fatalf("import site: %v", err)
	}
	reg, err := registry.Load(ctx, pageRepo)
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}

	cfg := routing.Config{UseAutoItem: true, FolderURL: true}
	index := aliases.NewRepositoryIndex(pageRepo, locRepo)
	generator := routing.NewGenerator(cfg, index)
	scopes := ScopeProviderFunc(func(_ context.Context, host, base, language string) (routing.Scope, error) {
		scope := routing.Scope{Host: host, Base: base, Language: language, Registry: reg}
		if langs, err := reg.ForHost(host); err == nil {
			scope.Language = langs.Negotiate(language)
		}
		return scope, nil
	})

	api := NewFrontendAPI(
		WithScopeProvider(scopes),
		WithResolver(routing.NewResolver(cfg, index, pageRepo)),
		WithGenerator(generator),
		WithPageRepository(pageRepo),
		WithNavigation(navigation.NewFilter(pageRepo, locRepo, generator), nil),
		WithFBCLIDRedirect(true),
	)
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		t.Fatalf("register api: %v", err)
	}
	return mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, target, host string, body any, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Host = host
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("expected status %d got %d (%s)", wantStatus, rec.Code, rec.Body.String())
	}
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestFrontendAPI_Resolve(t *testing.T) {
	mux := setupFrontendAPI(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/l10n/resolve?path=de/neuigkeiten/archiv", "example.com", nil, http.StatusOK)
	var resp resolveResponse
	decodeBody(t, rec, &resp)
	if resp.Alias != "news/archive" || resp.Language != "de" {
		t.Fatalf("unexpected resolve response %+v", resp)
	}
	if resp.PageID != identity.PageUUID("main", "archive") {
		t.Fatalf("unexpected page id %s", resp.PageID)
	}
	want := []string{"news/archive", "language", "de"}
	if len(resp.Fragments) != len(want) {
		t.Fatalf("expected fragments %v got %v", want, resp.Fragments)
	}
	for i := range want {
		if resp.Fragments[i] != want[i] {
			t.Fatalf("expected fragments %v got %v", want, resp.Fragments)
		}
	}
}

func TestFrontendAPI_ResolveErrors(t *testing.T) {
	mux := setupFrontendAPI(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/l10n/resolve?path=en/neuigkeiten", "example.com", nil, http.StatusNotFound)
	var payload errorResponse
	decodeBody(t, rec, &payload)
	if payload.Error != "not_found" {
		t.Fatalf("expected not_found, got %+v", payload)
	}

	rec = doRequest(t, mux, http.MethodGet, "/api/l10n/resolve?path=de/news", "unknown.org", nil, http.StatusServiceUnavailable)
	decodeBody(t, rec, &payload)
	if payload.Error != "no_root_page" {
		t.Fatalf("expected no_root_page, got %+v", payload)
	}
}

func TestFrontendAPI_URL(t *testing.T) {
	mux := setupFrontendAPI(t)
	news := identity.PageUUID("main", "news")

	rec := doRequest(t, mux, http.MethodGet, "/api/l10n/url?page="+news.String()+"&language=de", "example.com", nil, http.StatusOK)
	var resp urlResponse
	decodeBody(t, rec, &resp)
	if resp.URL != "de/neuigkeiten" || resp.Language != "de" {
		t.Fatalf("unexpected url response %+v", resp)
	}

	rec = doRequest(t, mux, http.MethodGet, "/api/l10n/url?page="+news.String()+"&language=de&absolute=true", "example.com", nil, http.StatusOK)
	decodeBody(t, rec, &resp)
	if resp.URL != "http://example.com/de/neuigkeiten" {
		t.Fatalf("unexpected absolute url %q", resp.URL)
	}

	rec = doRequest(t, mux, http.MethodGet, "/api/l10n/url?page="+news.String()+"&language=it", "example.com", nil, http.StatusOK)
	decodeBody(t, rec, &resp)
	if resp.URL != "en/news" {
		t.Fatalf("expected default language url, got %q", resp.URL)
	}

	doRequest(t, mux, http.MethodGet, "/api/l10n/url?page=nope", "example.com", nil, http.StatusBadRequest)
	doRequest(t, mux, http.MethodGet, "/api/l10n/url?page="+identity.PageUUID("main", "missing").String(), "example.com", nil, http.StatusNotFound)
}

func TestFrontendAPI_Languages(t *testing.T) {
	mux := setupFrontendAPI(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/l10n/languages", "shop.example.com", nil, http.StatusOK)
	var resp languagesResponse
	decodeBody(t, rec, &resp)
	if resp.Default != "de" || len(resp.Available) != 1 {
		t.Fatalf("unexpected shop languages %+v", resp)
	}
	if len(resp.All) != 3 {
		t.Fatalf("expected 3 languages overall, got %v", resp.All)
	}
}

func TestFrontendAPI_Navigation(t *testing.T) {
	mux := setupFrontendAPI(t)
	home := identity.PageUUID("main", "home")

	rec := doRequest(t, mux, http.MethodPost, "/api/l10n/navigation", "example.com", map[string]any{
		"language": "de",
		"parent":   home.String(),
	}, http.StatusOK)
	var resp navigationResponse
	decodeBody(t, rec, &resp)
	if resp.Language != "de" || len(resp.Items) != 2 {
		t.Fatalf("unexpected navigation response %+v", resp)
	}
	if resp.Items[0].Title != "Neuigkeiten" || resp.Items[0].Href != "de/neuigkeiten" {
		t.Fatalf("unexpected news item %+v", resp.Items[0])
	}
	if resp.Items[0].Description != "Aktuelle Meldungen" {
		t.Fatalf("expected collapsed description, got %q", resp.Items[0].Description)
	}
	if resp.Items[1].Href != "https://docs.example.com/de" {
		t.Fatalf("unexpected redirect href %q", resp.Items[1].Href)
	}

	rec = doRequest(t, mux, http.MethodPost, "/api/l10n/navigation", "example.com", map[string]any{
		"language":     "de",
		"parent":       home.String(),
		"use_fallback": true,
	}, http.StatusOK)
	decodeBody(t, rec, &resp)
	if len(resp.Items) != 5 {
		t.Fatalf("expected all children with fallback, got %d", len(resp.Items))
	}
}

func TestFrontendAPI_RedirectsFBCLID(t *testing.T) {
	mux := setupFrontendAPI(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/l10n/languages?fbclid=abc&x=1", "example.com", nil, http.StatusSeeOther)
	if location := rec.Header().Get("Location"); location != "/api/l10n/languages?x=1" {
		t.Fatalf("unexpected redirect location %q", location)
	}
}
