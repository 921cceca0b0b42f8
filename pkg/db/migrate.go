package db

import (
	"context"
	"fmt"
	"io/fs"
	"log"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of pgxpool.Pool Migrate needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Migrate applies every *.up.sql file in fsys, in name order. The files must
// be idempotent (CREATE ... IF NOT EXISTS); there is no version table.
// Returns the number of files applied.
func Migrate(ctx context.Context, db Execer, fsys fs.FS) (int, error) {
	files, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return 0, fmt.Errorf("migrate: list files: %w", err)
	}

	for i, name := range files {
		sql, err := fs.ReadFile(fsys, name)
		if err != nil {
			return i, fmt.Errorf("migrate: read %s: %w", name, err)
		}
		if _, err := db.Exec(ctx, string(sql)); err != nil {
			return i, fmt.Errorf("migrate: apply %s: %w", name, err)
		}
		log.Printf("[db] applied %s", name)
	}
	return len(files), nil
}
