package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite is a local store implementation backed by a single-file database.
// It is used for offline work and as the integration surface in tests.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens or creates a local store at the given path.
// Use ":memory:" for an ephemeral store.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS entities (
			id          TEXT PRIMARY KEY,
			kind        TEXT NOT NULL,
			name        TEXT NOT NULL,
			fields_json TEXT NOT NULL,
			seq         INTEGER
		);

		CREATE INDEX IF NOT EXISTS idx_entities_kind ON entities(kind);

		-- Flattened text values for exact field lookups
		CREATE TABLE IF NOT EXISTS entity_fields (
			entity_id TEXT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
			key       TEXT NOT NULL,
			value     TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_entity_fields_kv ON entity_fields(key, value);
	`
	_, err := db.Exec(schema)
	return err
}

// QueryByKind returns one page of entities of the given kind, in insertion
// order so repeated enumerations are stable.
func (s *SQLite) QueryByKind(ctx context.Context, kind EntityKind, page, pageSize int) (Page, error) {
	if pageSize <= 0 {
		return Page{}, fmt.Errorf("invalid page size %d", pageSize)
	}

	// Fetch one extra row to detect whether more pages exist.
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, fields_json FROM entities
		 WHERE kind = ? ORDER BY seq LIMIT ? OFFSET ?`,
		string(kind), pageSize+1, page*pageSize)
	if err != nil {
		return Page{}, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	items, err := scanEntities(rows)
	if err != nil {
		return Page{}, err
	}

	p := Page{Items: items}
	if len(p.Items) > pageSize {
		p.Items = p.Items[:pageSize]
		p.HasMore = true
	}
	return p, rows.Err()
}

// QueryByField returns entities of the given kind with an exactly equal
// text field value.
func (s *SQLite) QueryByField(ctx context.Context, kind EntityKind, key, value string) ([]Entity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.name, e.fields_json
		 FROM entities e JOIN entity_fields f ON f.entity_id = e.id
		 WHERE e.kind = ? AND f.key = ? AND f.value = ?
		 ORDER BY e.seq`,
		string(kind), key, value)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	items, err := scanEntities(rows)
	if err != nil {
		return nil, err
	}
	return items, rows.Err()
}

// Create inserts a new entity and returns its generated id.
func (s *SQLite) Create(ctx context.Context, kind EntityKind, name string, fields map[string]Field) (string, error) {
	id := uuid.NewString()
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encoding fields: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO entities (id, kind, name, fields_json, seq)
		 VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM entities))`,
		id, string(kind), name, string(data)); err != nil {
		return "", fmt.Errorf("inserting entity: %w", err)
	}
	if err := insertFieldIndex(ctx, tx, id, fields); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing entity: %w", err)
	}
	return id, nil
}

// Update replaces the given fields on an existing entity, leaving other
// fields untouched.
func (s *SQLite) Update(ctx context.Context, id string, fields map[string]Field) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var existingJSON string
	err = tx.QueryRowContext(ctx,
		`SELECT fields_json FROM entities WHERE id = ?`, id).Scan(&existingJSON)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("loading entity: %w", err)
	}

	existing := map[string]Field{}
	if err := json.Unmarshal([]byte(existingJSON), &existing); err != nil {
		return fmt.Errorf("decoding stored fields: %w", err)
	}
	for k, v := range fields {
		existing[k] = v
	}

	data, err := json.Marshal(existing)
	if err != nil {
		return fmt.Errorf("encoding fields: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE entities SET fields_json = ? WHERE id = ?`, string(data), id); err != nil {
		return fmt.Errorf("updating entity: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM entity_fields WHERE entity_id = ?`, id); err != nil {
		return fmt.Errorf("reindexing fields: %w", err)
	}
	if err := insertFieldIndex(ctx, tx, id, existing); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entity: %w", err)
	}
	return nil
}

func insertFieldIndex(ctx context.Context, tx *sql.Tx, id string, fields map[string]Field) error {
	for key, f := range fields {
		var value string
		switch f.Kind {
		case FieldText:
			value = f.Text
		case FieldURL:
			value = f.URL
		default:
			continue
		}
		if value == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entity_fields (entity_id, key, value) VALUES (?, ?, ?)`,
			id, key, value); err != nil {
			return fmt.Errorf("indexing field %s: %w", key, err)
		}
	}
	return nil
}

func scanEntities(rows *sql.Rows) ([]Entity, error) {
	var items []Entity
	for rows.Next() {
		var e Entity
		var fieldsJSON string
		if err := rows.Scan(&e.ID, &e.Name, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		if err := json.Unmarshal([]byte(fieldsJSON), &e.Fields); err != nil {
			return nil, fmt.Errorf("decoding fields for %s: %w", e.ID, err)
		}
		items = append(items, e)
	}
	return items, nil
}
