package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/docstore"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DocumentStore is a docstore.Store backed by the documents JSONB table.
type DocumentStore struct {
	db *database.DB
}

func NewDocumentStore(db *database.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) Collection(path string) docstore.Collection {
	return &documentCollection{db: s.db, path: path}
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *DocumentStore) Close() {
	s.db.Close()
}

type documentCollection struct {
	db   *database.DB
	path string
}

func (c *documentCollection) Path() string { return c.path }

func (c *documentCollection) Sub(docID, name string) docstore.Collection {
	return &documentCollection{db: c.db, path: docstore.JoinPath(c.path, docID, name)}
}

func (c *documentCollection) Get(ctx context.Context) ([]docstore.Document, error) {
	return c.Query(ctx, docstore.Query{})
}

func (c *documentCollection) Query(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	if err := docstore.ValidatePath(c.path); err != nil {
		return nil, err
	}
	if err := docstore.ValidateQuery(q); err != nil {
		return nil, err
	}

	sql := `SELECT id, data FROM documents WHERE collection = $1`
	args := []any{c.path}

	if q.Filter != nil {
		value, err := json.Marshal(q.Filter.Value)
		if err != nil {
			return nil, fmt.Errorf("encode filter value: %w", err)
		}
		// the operator is one of a fixed set, checked by ValidateQuery
		sql += fmt.Sprintf(` AND data -> $2 %s $3::jsonb`, sqlOperator(q.Filter.Op))
		args = append(args, q.Filter.Field, string(value))
	}

	sql += ` ORDER BY created_at, id`
	if q.Limit > 0 {
		sql += fmt.Sprintf(` LIMIT %d`, q.Limit)
	}

	rows, err := GetQuerier(ctx, c.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.path, err)
	}
	defer rows.Close()

	docs := []docstore.Document{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.path, err)
		}
		data := docstore.Data{}
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", c.path, id, err)
		}
		docs = append(docs, docstore.Document{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", c.path, err)
	}

	return docs, nil
}

func (c *documentCollection) Add(ctx context.Context, data docstore.Data) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate document id: %w", err)
	}
	if err := c.Set(ctx, id.String(), data); err != nil {
		return "", err
	}
	return id.String(), nil
}

func (c *documentCollection) Set(ctx context.Context, id string, data docstore.Data) error {
	if err := docstore.ValidatePath(c.path); err != nil {
		return err
	}
	if err := docstore.ValidateID(id); err != nil {
		return err
	}

	body, err := encodeData(data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW(), NOW())
		ON CONFLICT (collection, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`
	if _, err := GetQuerier(ctx, c.db).Exec(ctx, query, c.path, id, body); err != nil {
		return fmt.Errorf("set %s/%s: %w", c.path, id, err)
	}
	return nil
}

func (c *documentCollection) Update(ctx context.Context, id string, patch docstore.Data) error {
	if err := docstore.ValidatePath(c.path); err != nil {
		return err
	}

	body, err := encodeData(patch)
	if err != nil {
		return err
	}

	query := `
		UPDATE documents
		SET data = data || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`
	tag, err := GetQuerier(ctx, c.db).Exec(ctx, query, c.path, id, body)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", c.path, id, err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (c *documentCollection) Delete(ctx context.Context, id string) error {
	if err := docstore.ValidatePath(c.path); err != nil {
		return err
	}

	return WithTransaction(ctx, c.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, c.path, id)
		if err != nil {
			return fmt.Errorf("delete %s/%s: %w", c.path, id, err)
		}
		if tag.RowsAffected() == 0 {
			return docstore.ErrNotFound
		}

		// sub-collections go with their parent
		prefix := c.path + "/" + id + "/"
		if _, err := tx.Exec(ctx, `DELETE FROM documents WHERE starts_with(collection, $1)`, prefix); err != nil {
			return fmt.Errorf("delete sub-collections of %s/%s: %w", c.path, id, err)
		}
		return nil
	})
}

func sqlOperator(op docstore.Op) string {
	switch op {
	case docstore.OpLess:
		return "<"
	case docstore.OpLessEqual:
		return "<="
	case docstore.OpGreater:
		return ">"
	case docstore.OpGreaterEqual:
		return ">="
	}
	return "="
}

func encodeData(data docstore.Data) (string, error) {
	if data == nil {
		data = docstore.Data{}
	}
	body, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(body), nil
}
