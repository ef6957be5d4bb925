package pages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryPageRepositoryListsRootsAndChildrenInOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPageRepository()

	root := mustCreatePage(t, repo, &Page{Type: TypeRoot, Alias: "root", Language: "en"})
	second := mustCreatePage(t, repo, &Page{ParentID: &root.ID, Alias: "b", Sorting: 20})
	first := mustCreatePage(t, repo, &Page{ParentID: &root.ID, Alias: "a", Sorting: 10})

	roots, err := repo.ListRoots(ctx)
	if err != nil {
		t.Fatalf("list roots: %v", err)
	}
	if len(roots) != 1 || roots[0].ID != root.ID {
		t.Fatalf("unexpected roots: %+v", roots)
	}

	children, err := repo.ListChildren(ctx, root.ID)
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(children) != 2 || children[0].ID != first.ID || children[1].ID != second.ID {
		t.Fatalf("children not ordered by sorting: %+v", children)
	}
}

func TestMemoryPageRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPageRepository()
	created := mustCreatePage(t, repo, &Page{Alias: "news", Localizations: []string{"fr"}})

	created.Alias = "mutated"
	created.Localizations[0] = "xx"

	stored, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Alias != "news" || stored.Localizations[0] != "fr" {
		t.Fatalf("stored page was mutated: %+v", stored)
	}
}

func TestMemoryPageRepositoryGetByIDNotFound(t *testing.T) {
	_, err := NewMemoryPageRepository().GetByID(context.Background(), uuid.New())
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryLocalizationRepositoryRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryLocalizationRepository()
	pageID := uuid.New()

	if _, err := repo.Create(ctx, &LocalizedPage{PageID: pageID, Language: "FR", Alias: "nouvelles"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := repo.Create(ctx, &LocalizedPage{PageID: pageID, Language: "fr", Alias: "autre"})
	if !errors.Is(err, ErrDuplicateLocalization) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	row, err := repo.GetByPageAndLanguage(ctx, pageID, "fr")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row.Alias != "nouvelles" || row.Language != "fr" {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestMemoryLocalizationRepositoryListsByAliasAcrossLanguages(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryLocalizationRepository()
	pageID := uuid.New()
	for _, row := range []*LocalizedPage{
		{PageID: pageID, Language: "fr", Alias: "a-propos"},
		{PageID: pageID, Language: "de", Alias: "ueber-uns"},
		{PageID: uuid.New(), Language: "fr", Alias: ""},
	} {
		if _, err := repo.Create(ctx, row); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	rows, err := repo.ListByAliases(ctx, []string{"ueber-uns", "a-propos", ""})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows with non-empty aliases, got %d", len(rows))
	}

	byPage, err := repo.ListByPagesAndLanguage(ctx, []uuid.UUID{pageID}, "de")
	if err != nil {
		t.Fatalf("list by pages: %v", err)
	}
	if len(byPage) != 1 || byPage[0].Alias != "ueber-uns" {
		t.Fatalf("unexpected rows: %+v", byPage)
	}
}

func TestIsPublishedAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name      string
		published bool
		start     *time.Time
		stop      *time.Time
		want      bool
	}{
		{name: "unpublished", published: false, want: false},
		{name: "open window", published: true, want: true},
		{name: "started", published: true, start: &past, want: true},
		{name: "not started", published: true, start: &future, want: false},
		{name: "stopped", published: true, stop: &past, want: false},
		{name: "stop at now", published: true, stop: &now, want: false},
		{name: "inside window", published: true, start: &past, stop: &future, want: true},
	}
	for _, tc := range cases {
		if got := IsPublishedAt(tc.published, tc.start, tc.stop, now); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func mustCreatePage(t *testing.T, repo PageRepository, page *Page) *Page {
	t.Helper()
	created, err := repo.Create(context.Background(), page)
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	return created
}
