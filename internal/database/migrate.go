package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
)

// RunMigrations executes every .sql file in fsys in lexical order. The
// schema files are written to be re-runnable.
func RunMigrations(ctx context.Context, db DBTX, fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to list schema files: %w", err)
	}
	sort.Strings(names)
	for _, name := range names {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("failed to read schema file %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute schema %s: %w", name, err)
		}
	}
	return nil
}
