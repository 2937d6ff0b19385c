package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rahhaltours/admin-backend/internal/models"
)

// Record is one stored document: its id plus the raw JSON body.
type Record struct {
	ID   string `db:"id"`
	Data []byte `db:"doc"`
}

// Decode unmarshals the record body into dest.
func (r Record) Decode(dest interface{}) error {
	return json.Unmarshal(r.Data, dest)
}

// Store is a generic collection/record document store. Get returns a
// NotFoundError for missing ids; driver failures surface as
// TransientStoreError so callers can map them uniformly.
type Store interface {
	List(ctx context.Context, collection string) ([]Record, error)
	Get(ctx context.Context, collection, id string) (Record, error)
	QueryEq(ctx context.Context, collection, field, value string) ([]Record, error)
	Insert(ctx context.Context, collection, id string, doc interface{}) error
	Update(ctx context.Context, collection, id string, patch interface{}) error
	Delete(ctx context.Context, collection, id string) error
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// SQLStore implements Store over a Postgres documents table, one JSONB
// body per record keyed by (collection, id).
type SQLStore struct {
	db  *sqlx.DB
	ops sqlOps
}

// NewSQLStore creates a Store backed by db.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, ops: sqlOps{ext: db}}
}

func (s *SQLStore) List(ctx context.Context, collection string) ([]Record, error) {
	return s.ops.list(ctx, collection)
}

func (s *SQLStore) Get(ctx context.Context, collection, id string) (Record, error) {
	return s.ops.get(ctx, collection, id)
}

func (s *SQLStore) QueryEq(ctx context.Context, collection, field, value string) ([]Record, error) {
	return s.ops.queryEq(ctx, collection, field, value)
}

func (s *SQLStore) Insert(ctx context.Context, collection, id string, doc interface{}) error {
	return s.ops.insert(ctx, collection, id, doc)
}

func (s *SQLStore) Update(ctx context.Context, collection, id string, patch interface{}) error {
	return s.ops.update(ctx, collection, id, patch)
}

func (s *SQLStore) Delete(ctx context.Context, collection, id string) error {
	return s.ops.del(ctx, collection, id)
}

// RunInTx runs fn against a transactional view of the store. fn
// returning an error rolls everything back; otherwise the transaction
// commits. Nested RunInTx is not supported.
func (s *SQLStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	sqlTx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &models.TransientStoreError{Op: "begin tx", Err: err}
	}

	tx := &txStore{ops: sqlOps{ext: sqlTx}}
	if err := fn(ctx, tx); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return &models.TransientStoreError{Op: "commit tx", Err: err}
	}
	return nil
}

// txStore is the in-transaction view. It shares the query helpers with
// SQLStore but refuses to open another transaction.
type txStore struct {
	ops sqlOps
}

func (t *txStore) List(ctx context.Context, collection string) ([]Record, error) {
	return t.ops.list(ctx, collection)
}

func (t *txStore) Get(ctx context.Context, collection, id string) (Record, error) {
	return t.ops.get(ctx, collection, id)
}

func (t *txStore) QueryEq(ctx context.Context, collection, field, value string) ([]Record, error) {
	return t.ops.queryEq(ctx, collection, field, value)
}

func (t *txStore) Insert(ctx context.Context, collection, id string, doc interface{}) error {
	return t.ops.insert(ctx, collection, id, doc)
}

func (t *txStore) Update(ctx context.Context, collection, id string, patch interface{}) error {
	return t.ops.update(ctx, collection, id, patch)
}

func (t *txStore) Delete(ctx context.Context, collection, id string) error {
	return t.ops.del(ctx, collection, id)
}

func (t *txStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return fn(ctx, t)
}

// sqlOps holds the shared query implementations. ext is either the
// pooled *sqlx.DB or an open *sqlx.Tx.
type sqlOps struct {
	ext sqlx.ExtContext
}

func (o sqlOps) list(ctx context.Context, collection string) ([]Record, error) {
	var records []Record
	query := `SELECT id, doc FROM documents WHERE collection = $1 ORDER BY id`
	if err := sqlx.SelectContext(ctx, o.ext, &records, query, collection); err != nil {
		return nil, &models.TransientStoreError{Op: "list " + collection, Err: err}
	}
	return records, nil
}

func (o sqlOps) get(ctx context.Context, collection, id string) (Record, error) {
	var record Record
	query := `SELECT id, doc FROM documents WHERE collection = $1 AND id = $2`
	if err := sqlx.GetContext(ctx, o.ext, &record, query, collection, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, &models.NotFoundError{Collection: collection, ID: id}
		}
		return Record{}, &models.TransientStoreError{Op: "get " + collection, Err: err}
	}
	return record, nil
}

func (o sqlOps) queryEq(ctx context.Context, collection, field, value string) ([]Record, error) {
	var records []Record
	query := `SELECT id, doc FROM documents WHERE collection = $1 AND doc->>$2 = $3 ORDER BY id`
	if err := sqlx.SelectContext(ctx, o.ext, &records, query, collection, field, value); err != nil {
		return nil, &models.TransientStoreError{Op: "query " + collection, Err: err}
	}
	return records, nil
}

func (o sqlOps) insert(ctx context.Context, collection, id string, doc interface{}) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return &models.TransientStoreError{Op: "encode " + collection, Err: err}
	}
	query := `INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)`
	if _, err := o.ext.ExecContext(ctx, query, collection, id, body); err != nil {
		return &models.TransientStoreError{Op: "insert " + collection, Err: err}
	}
	return nil
}

// update merges patch into the stored body (top-level field merge).
func (o sqlOps) update(ctx context.Context, collection, id string, patch interface{}) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return &models.TransientStoreError{Op: "encode " + collection, Err: err}
	}
	query := `UPDATE documents SET doc = doc || $3::jsonb WHERE collection = $1 AND id = $2`
	result, err := o.ext.ExecContext(ctx, query, collection, id, body)
	if err != nil {
		return &models.TransientStoreError{Op: "update " + collection, Err: err}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return &models.TransientStoreError{Op: "update " + collection, Err: err}
	}
	if affected == 0 {
		return &models.NotFoundError{Collection: collection, ID: id}
	}
	return nil
}

func (o sqlOps) del(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`
	result, err := o.ext.ExecContext(ctx, query, collection, id)
	if err != nil {
		return &models.TransientStoreError{Op: "delete " + collection, Err: err}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return &models.TransientStoreError{Op: "delete " + collection, Err: err}
	}
	if affected == 0 {
		return &models.NotFoundError{Collection: collection, ID: id}
	}
	return nil
}
