package pages

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewPageRecordRepository builds the go-repository-bun repository for pages.
func NewPageRecordRepository(db *bun.DB) repository.Repository[*Page] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Page]{
		NewRecord: func() *Page { return &Page{} },
		GetID: func(p *Page) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Page, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "alias"
		},
		GetIdentifierValue: func(p *Page) string {
			return p.Alias
		},
	})
}

// NewLocalizationRecordRepository builds the go-repository-bun repository for
// localization rows.
func NewLocalizationRecordRepository(db *bun.DB) repository.Repository[*LocalizedPage] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*LocalizedPage]{
		NewRecord: func() *LocalizedPage { return &LocalizedPage{} },
		GetID: func(l *LocalizedPage) uuid.UUID {
			return l.ID
		},
		SetID: func(l *LocalizedPage, id uuid.UUID) {
			l.ID = id
		},
		GetIdentifier: func() string {
			return "alias"
		},
		GetIdentifierValue: func(l *LocalizedPage) string {
			return l.Alias
		},
	})
}

// BunPageRepository serves id lookups through repo, which may be cached, and
// every filtered query through base. Cache keys carry no query arguments, so
// filtered lists must never reach the cache.
type BunPageRepository struct {
	db   *bun.DB
	base repository.Repository[*Page]
	repo repository.Repository[*Page]
}

func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return NewBunPageRepositoryWithCache(db, nil, nil)
}

// NewBunPageRepositoryWithCache constructs a PageRepository backed by bun with optional caching.
func NewBunPageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPageRepository {
	base := NewPageRecordRepository(db)
	return &BunPageRepository{
		db:   db,
		base: base,
		repo: wrapWithCache(base, cacheService, keySerializer),
	}
}

func (r *BunPageRepository) Create(ctx context.Context, record *Page) (*Page, error) {
	if record == nil {
		return nil, ErrPageRequired
	}
	stampTimes(&record.CreatedAt, &record.UpdatedAt)
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("page repository: create: %w", err)
	}
	return created, nil
}

func (r *BunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "page", id.String())
	}
	return result, nil
}

func (r *BunPageRepository) ListRoots(ctx context.Context) ([]*Page, error) {
	records, _, err := r.base.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.type = ?", TypeRoot).Order("sorting ASC", "id ASC")
	}))
	if err != nil {
		return nil, mapRepositoryError(err, "page", "roots")
	}
	return records, nil
}

func (r *BunPageRepository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*Page, error) {
	records, _, err := r.base.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.parent_id = ?", parentID).Order("sorting ASC", "id ASC")
	}))
	if err != nil {
		return nil, mapRepositoryError(err, "page", parentID.String())
	}
	return records, nil
}

func (r *BunPageRepository) ListByAliases(ctx context.Context, aliases []string) ([]*Page, error) {
	if len(aliases) == 0 {
		return nil, nil
	}
	records, _, err := r.base.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.alias IN (?)", bun.In(aliases)).Order("sorting ASC", "id ASC")
	}))
	if err != nil {
		return nil, mapRepositoryError(err, "page", "aliases")
	}
	return records, nil
}

type BunLocalizationRepository struct {
	db   *bun.DB
	base repository.Repository[*LocalizedPage]
	repo repository.Repository[*LocalizedPage]
}

func NewBunLocalizationRepository(db *bun.DB) *BunLocalizationRepository {
	return NewBunLocalizationRepositoryWithCache(db, nil, nil)
}

// NewBunLocalizationRepositoryWithCache constructs a LocalizationRepository backed by bun with optional caching.
func NewBunLocalizationRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunLocalizationRepository {
	base := NewLocalizationRecordRepository(db)
	return &BunLocalizationRepository{
		db:   db,
		base: base,
		repo: wrapWithCache(base, cacheService, keySerializer),
	}
}

func (r *BunLocalizationRepository) Create(ctx context.Context, record *LocalizedPage) (*LocalizedPage, error) {
	if record == nil || record.PageID == uuid.Nil {
		return nil, ErrPageRequired
	}
	record.Language = NormalizeLanguage(record.Language)
	if record.Language == "" {
		return nil, ErrLanguageRequired
	}
	if r.db == nil {
		return nil, ErrDatabaseRequired
	}

	exists, err := r.db.NewSelect().
		Model((*LocalizedPage)(nil)).
		Where("?TableAlias.page_id = ?", record.PageID).
		Where("?TableAlias.language = ?", record.Language).
		Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("localization repository: %w", err)
	}
	if exists {
		return nil, ErrDuplicateLocalization
	}

	stampTimes(&record.CreatedAt, &record.UpdatedAt)
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("localization repository: create: %w", err)
	}
	return created, nil
}

func (r *BunLocalizationRepository) GetByPageAndLanguage(ctx context.Context, pageID uuid.UUID, language string) (*LocalizedPage, error) {
	language = NormalizeLanguage(language)
	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.page_id = ?", pageID).Where("?TableAlias.language = ?", language)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapLocalizationError(err, pageID, language)
	}
	if len(records) == 0 {
		return nil, localizationNotFound(pageID, language)
	}
	return records[0], nil
}

func (r *BunLocalizationRepository) ListByPagesAndLanguage(ctx context.Context, pageIDs []uuid.UUID, language string) ([]*LocalizedPage, error) {
	if len(pageIDs) == 0 {
		return nil, nil
	}
	language = NormalizeLanguage(language)
	records, _, err := r.base.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.page_id IN (?)", bun.In(pageIDs)).
			Where("?TableAlias.language = ?", language)
	}))
	if err != nil {
		return nil, fmt.Errorf("localization repository: %w", err)
	}
	return records, nil
}

func (r *BunLocalizationRepository) ListByAliases(ctx context.Context, aliases []string) ([]*LocalizedPage, error) {
	if len(aliases) == 0 {
		return nil, nil
	}
	records, _, err := r.base.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.alias IN (?)", bun.In(aliases)).Order("page_id ASC", "language ASC")
	}))
	if err != nil {
		return nil, fmt.Errorf("localization repository: %w", err)
	}
	return records, nil
}

func stampTimes(created, updated *time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	if updated.IsZero() {
		*updated = now
	}
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func mapLocalizationError(err error, pageID uuid.UUID, language string) error {
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return localizationNotFound(pageID, language)
	}
	return fmt.Errorf("localization repository error: %w", err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
