package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/osse101/FlipResolver_Go/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded goose migrations and returns the resulting schema version
func Migrate(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(MigrationDialect); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToSetDialect, err)
	}

	if err := goose.UpContext(ctx, db, MigrationsDir); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToApplyMigrations, err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToReadSchemaVersion, err)
	}

	logger.FromContext(ctx).Info(LogMsgMigrationsApplied, "version", version)
	return version, nil
}
