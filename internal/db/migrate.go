package db

import (
	"context"
	"database/sql"
)

const documentsMigration = `
CREATE TABLE IF NOT EXISTS documents (
    path text PRIMARY KEY,
    data jsonb NOT NULL DEFAULT '{}'::jsonb,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS documents_path_prefix_idx
ON documents (path text_pattern_ops);
`

type DB struct {
	*sql.DB
}

// RunDocumentsMigration creates the single jsonb-backed documents table
// used by the docstore. Idempotent.
func RunDocumentsMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, documentsMigration)
	return err
}
