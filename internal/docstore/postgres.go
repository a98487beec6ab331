package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresStore persists documents in a single jsonb table, one row per
// document path. See internal/db for the schema.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Get(ctx context.Context, path string) (Document, error) {
	var raw []byte
	err := p.db.QueryRowContext(ctx, `
		SELECT data FROM documents WHERE path = $1
	`, path).Scan(&raw)

	if err == sql.ErrNoRows {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("docstore: get %s: %w", path, err)
	}

	fields, err := decodeFields(raw)
	if err != nil {
		return Document{}, fmt.Errorf("docstore: get %s: %w", path, err)
	}

	return Document{ID: docID(path), Fields: fields}, nil
}

func (p *PostgresStore) Set(ctx context.Context, path string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("docstore: set %s: %w", path, err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO documents (path, data)
		VALUES ($1, $2)
		ON CONFLICT (path) DO UPDATE
		SET data = EXCLUDED.data, updated_at = NOW()
	`, path, raw)

	if err != nil {
		return fmt.Errorf("docstore: set %s: %w", path, err)
	}
	return nil
}

func (p *PostgresStore) Merge(ctx context.Context, path string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("docstore: merge %s: %w", path, err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO documents (path, data)
		VALUES ($1, $2)
		ON CONFLICT (path) DO UPDATE
		SET data = documents.data || EXCLUDED.data, updated_at = NOW()
	`, path, raw)

	if err != nil {
		return fmt.Errorf("docstore: merge %s: %w", path, err)
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, path string) error {
	_, err := p.db.ExecContext(ctx, `
		DELETE FROM documents WHERE path = $1
	`, path)

	if err != nil {
		return fmt.Errorf("docstore: delete %s: %w", path, err)
	}
	return nil
}

func (p *PostgresStore) List(ctx context.Context, path string) ([]Document, error) {
	// Immediate children only: one extra segment past the collection path.
	rows, err := p.db.QueryContext(ctx, `
		SELECT path, data FROM documents
		WHERE path LIKE $1 || '/%'
		  AND path NOT LIKE $1 || '/%/%'
		ORDER BY path
	`, path)

	if err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", path, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var (
			docPath string
			raw     []byte
		)
		if err := rows.Scan(&docPath, &raw); err != nil {
			return nil, fmt.Errorf("docstore: list %s: %w", path, err)
		}
		fields, err := decodeFields(raw)
		if err != nil {
			return nil, fmt.Errorf("docstore: list %s: %w", path, err)
		}
		out = append(out, Document{ID: docID(docPath), Fields: fields})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", path, err)
	}
	return out, nil
}

func decodeFields(raw []byte) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return fields, nil
}
