package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

//go:embed migrations/schema.sql
var schemaSQL string

// Migrate applies the embedded schema. Every statement is idempotent
// (CREATE ... IF NOT EXISTS), so running it on each startup is safe.
// Statements execute one at a time on a single acquired connection so
// a failure can name the offending statement.
func (db *Database) Migrate(ctx context.Context, logger *zap.Logger) error {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring migration connection: %w", err)
	}
	defer conn.Release()

	applied := 0
	for i, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
		applied++
	}

	logger.Info("schema migration applied", zap.Int("statements", applied))
	return nil
}
