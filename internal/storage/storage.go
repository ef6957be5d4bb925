package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/migrate"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

var (
	ErrDialectUnknown = errors.New("storage: unknown dialect")
	ErrDSNRequired    = errors.New("storage: dsn required")
)

// Open connects to dsn with the driver and bun dialect matching dialect.
func Open(dialect, dsn string) (*bun.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, ErrDSNRequired
	}

	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case DialectSQLite, "":
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case DialectPostgres:
		connConfig, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: parse postgres dsn: %w", err)
		}
		return bun.NewDB(stdlib.OpenDB(*connConfig), pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrDialectUnknown, dialect)
	}
}

// Models lists the bun models owned by the module, parents first.
func Models() []any {
	return []any{(*pages.Page)(nil), (*pages.LocalizedPage)(nil)}
}

// CreateSchema creates the page tables from the bun models.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table %T: %w", model, err)
		}
	}
	return nil
}

// Migrate applies the pending "data/sql/migrations/<dialect>/*.up.sql" files
// of fsys with bun's migrator. Applied versions are recorded in
// l10n_migrations, so repeated calls only run new files.
func Migrate(ctx context.Context, db *bun.DB, fsys fs.FS, dialect string) error {
	dialect = strings.ToLower(strings.TrimSpace(dialect))
	if dialect == "" {
		dialect = DialectSQLite
	}
	dir, err := fs.Sub(fsys, path.Join("data/sql/migrations", dialect))
	if err != nil {
		return fmt.Errorf("storage: open migrations: %w", err)
	}
	files, err := fs.Glob(dir, "*.up.sql")
	if err != nil {
		return fmt.Errorf("storage: list migrations: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no migrations for %s", ErrDialectUnknown, dialect)
	}

	migrations := migrate.NewMigrations()
	if err := migrations.Discover(dir); err != nil {
		return fmt.Errorf("storage: discover migrations: %w", err)
	}
	migrator := migrate.NewMigrator(db, migrations,
		migrate.WithTableName("l10n_migrations"),
		migrate.WithLocksTableName("l10n_migration_locks"),
	)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("storage: init migrations: %w", err)
	}
	if err := migrator.Lock(ctx); err != nil {
		return fmt.Errorf("storage: lock migrations: %w", err)
	}
	defer func() { _ = migrator.Unlock(ctx) }()

	if _, err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("storage: apply migrations: %w", err)
	}
	return nil
}
