package sitescmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"github.com/goliatone/go-cms-i18nl10n/internal/registry"
	"github.com/goliatone/go-cms-i18nl10n/internal/sites"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

// flakyRoots fails the first `failures` ListRoots calls, then delegates.
type flakyRoots struct {
	*pages.MemoryPageRepository
	failures int
	calls    int
}

func (f *flakyRoots) ListRoots(ctx context.Context) ([]*pages.Page, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("connection reset")
	}
	return f.MemoryPageRepository.ListRoots(ctx)
}

func importedRepositories(t *testing.T) (*pages.MemoryPageRepository, *pages.MemoryLocalizationRepository) {
	t.Helper()
	pageRepo := pages.NewMemoryPageRepository()
	locRepo := pages.NewMemoryLocalizationRepository()
	if err := NewImportSiteHandler(pageRepo, locRepo, nil).Execute(context.Background(), ImportSiteCommand{Path: sitePath}); err != nil {
		t.Fatalf("import: %v", err)
	}
	return pageRepo, locRepo
}

func TestDispatchCheckLanguagesRetriesTransientFailures(t *testing.T) {
	pageRepo, _ := importedRepositories(t)
	repo := &flakyRoots{MemoryPageRepository: pageRepo, failures: 1}

	sub := dispatcher.SubscribeCommand(NewCheckLanguagesHandler(repo, nil), runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	result := map[string]registry.Languages{}
	if err := dispatcher.Dispatch(context.Background(), CheckLanguagesCommand{Hosts: []string{"shop.example.com"}, Result: result}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("expected 2 registry loads, got %d", repo.calls)
	}
	if result["shop.example.com"].Default != "de" {
		t.Fatalf("unexpected languages %+v", result)
	}
}

func TestDispatchCheckLanguagesExhaustsRetriesOnMissingRoot(t *testing.T) {
	pageRepo, _ := importedRepositories(t)
	repo := &flakyRoots{MemoryPageRepository: pageRepo}

	sub := dispatcher.SubscribeCommand(NewCheckLanguagesHandler(repo, nil), runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	err := dispatcher.Dispatch(context.Background(), CheckLanguagesCommand{Hosts: []string{"unknown.example.org"}})
	if err == nil {
		t.Fatal("expected dispatch to fail for a host without root page")
	}
	if !errors.Is(err, registry.ErrNoRootPage) {
		t.Fatalf("expected ErrNoRootPage through the dispatcher, got %v", err)
	}
	var noRoot *registry.NoRootPageError
	if !errors.As(err, &noRoot) || noRoot.Host != "unknown.example.org" {
		t.Fatalf("expected NoRootPageError for unknown.example.org, got %v", err)
	}
	if repo.calls != 3 {
		t.Fatalf("expected 3 attempts (initial + 2 retries), got %d", repo.calls)
	}
}

func TestDispatchImportSiteIsIdempotentAcrossDispatches(t *testing.T) {
	pageRepo := pages.NewMemoryPageRepository()
	locRepo := pages.NewMemoryLocalizationRepository()

	sub := dispatcher.SubscribeCommand(NewImportSiteHandler(pageRepo, locRepo, nil), runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	ctx := context.Background()
	var first, second sites.ImportResult
	if err := dispatcher.Dispatch(ctx, ImportSiteCommand{Path: sitePath, Result: &first}); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}
	if err := dispatcher.Dispatch(ctx, ImportSiteCommand{Path: sitePath, Result: &second}); err != nil {
		t.Fatalf("second dispatch: %v", err)
	}
	if first.PagesCreated == 0 || second.PagesCreated != 0 || second.PagesSkipped != first.PagesCreated {
		t.Fatalf("expected second import to skip everything, got first=%+v second=%+v", first, second)
	}
}
