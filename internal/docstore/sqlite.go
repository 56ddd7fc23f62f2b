package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLite persists documents in a single table, one row per document, with
// the body stored as JSON. seq preserves insertion order so equal-field
// sorts stay stable across restarts.
type SQLite struct {
	db  *sqlx.DB
	hub *hub

	mu     sync.Mutex
	lastTS map[string]int64 // per-collection high-water mark for ServerTimestamp
}

// Open opens (or creates) the document store at dsn. ":memory:" gives a
// throwaway store for tests.
func Open(dsn string) (*SQLite, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return New(db)
}

// New builds the document store on an already-open connection, so it can
// share a pool with the relational tables living in the same file.
func New(db *sqlx.DB) (*SQLite, error) {
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	s := &SQLite{db: db, hub: newHub(), lastTS: map[string]int64{}}
	if err := s.loadWatermarks(); err != nil {
		return nil, err
	}
	s.hub.query = s.queryLocked
	return s, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS documents(
  seq        INTEGER PRIMARY KEY AUTOINCREMENT,
  collection TEXT NOT NULL,
  id         TEXT NOT NULL,
  body       TEXT NOT NULL,
  UNIQUE(collection, id)
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);
`
	_, err := db.Exec(schema)
	return err
}

// loadWatermarks restores the per-collection timestamp high-water marks so
// monotonicity survives process restarts.
func (s *SQLite) loadWatermarks() error {
	var rows []struct {
		Collection string `db:"collection"`
		Body       string `db:"body"`
	}
	if err := s.db.Select(&rows, `SELECT collection, body FROM documents`); err != nil {
		return err
	}
	for _, r := range rows {
		var doc Doc
		if err := json.Unmarshal([]byte(r.Body), &doc); err != nil {
			continue
		}
		for _, v := range doc {
			if f, ok := asFloat(v); ok && int64(f) > s.lastTS[r.Collection] && looksLikeMillis(int64(f)) {
				s.lastTS[r.Collection] = int64(f)
			}
		}
	}
	return nil
}

// looksLikeMillis filters out small numerics (prices, counts) when scanning
// for timestamp watermarks.
func looksLikeMillis(v int64) bool { return v > 1_000_000_000_000 }

func (s *SQLite) Close() error { s.hub.closeAll(); return s.db.Close() }

// nextTimestamp assigns a millisecond timestamp strictly greater than any
// previously assigned in the collection. Caller holds s.mu.
func (s *SQLite) nextTimestamp(collection string) int64 {
	ts := time.Now().UnixMilli()
	if ts <= s.lastTS[collection] {
		ts = s.lastTS[collection] + 1
	}
	s.lastTS[collection] = ts
	return ts
}

// resolveSentinels replaces ServerTimestamp markers and applies Delete
// markers in place. Caller holds s.mu.
func (s *SQLite) resolveSentinels(collection string, doc Doc) {
	for k, v := range doc {
		switch v.(type) {
		case serverTimestamp:
			doc[k] = s.nextTimestamp(collection)
		case deleteField:
			delete(doc, k)
		}
	}
}

func (s *SQLite) Insert(ctx context.Context, collection string, doc Doc) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(Doc, len(doc)+1)
	for k, v := range doc {
		stored[k] = v
	}
	s.resolveSentinels(collection, stored)
	id := uuid.NewString()
	stored["id"] = id

	body, err := json.Marshal(stored)
	if err != nil {
		return "", err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO documents(collection, id, body) VALUES(?,?,?)`,
		collection, id, string(body)); err != nil {
		return "", err
	}
	s.hub.notify(collection)
	return id, nil
}

func (s *SQLite) Patch(ctx context.Context, collection, id string, patch Doc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.patchTx(ctx, s.db, collection, id, patch); err != nil {
		return err
	}
	s.hub.notify(collection)
	return nil
}

type execGetter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// patchTx applies a read-modify-write of a single document against either
// the DB or an open transaction. Caller holds s.mu.
func (s *SQLite) patchTx(ctx context.Context, q execGetter, collection, id string, patch Doc) error {
	var body string
	err := q.GetContext(ctx, &body,
		`SELECT body FROM documents WHERE collection=? AND id=?`, collection, id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	var doc Doc
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return err
	}
	merged := make(Doc, len(patch))
	for k, v := range patch {
		merged[k] = v
	}
	s.resolveSentinels(collection, merged)
	for k, v := range patch {
		if _, isDelete := v.(deleteField); isDelete {
			delete(doc, k)
		}
	}
	for k, v := range merged {
		doc[k] = v
	}
	doc["id"] = id
	out, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx,
		`UPDATE documents SET body=? WHERE collection=? AND id=?`,
		string(out), collection, id)
	return err
}

func (s *SQLite) Remove(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection=? AND id=?`, collection, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.hub.notify(collection)
	return nil
}

func (s *SQLite) Get(ctx context.Context, collection, id string) (Doc, error) {
	var body string
	err := s.db.GetContext(ctx, &body,
		`SELECT body FROM documents WHERE collection=? AND id=?`, collection, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc Doc
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *SQLite) Query(ctx context.Context, collection string, filters []Filter, order *OrderBy) ([]Doc, error) {
	return s.queryLocked(ctx, collection, filters, order)
}

// queryLocked is the shared read path; safe without s.mu because sqlite
// reads are consistent and filters run on the unmarshaled copy.
func (s *SQLite) queryLocked(ctx context.Context, collection string, filters []Filter, order *OrderBy) ([]Doc, error) {
	var bodies []string
	err := s.db.SelectContext(ctx, &bodies,
		`SELECT body FROM documents WHERE collection=? ORDER BY seq ASC`, collection)
	if err != nil {
		return nil, err
	}
	out := make([]Doc, 0, len(bodies))
	for _, b := range bodies {
		var doc Doc
		if err := json.Unmarshal([]byte(b), &doc); err != nil {
			return nil, err
		}
		if matches(doc, filters) {
			out = append(out, doc)
		}
	}
	if order != nil {
		sort.SliceStable(out, func(i, j int) bool {
			if order.Desc {
				return less(out[j][order.Field], out[i][order.Field])
			}
			return less(out[i][order.Field], out[j][order.Field])
		})
	}
	return out, nil
}

func (s *SQLite) Subscribe(collection string, filters []Filter, order *OrderBy, fn func([]Doc)) (cancel func()) {
	return s.hub.subscribe(collection, filters, order, fn)
}

// BatchPatch applies every patch in one transaction: either all matched
// documents change or none do.
func (s *SQLite) BatchPatch(ctx context.Context, ops []PatchOp) error {
	if len(ops) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, op := range ops {
		if err := s.patchTx(ctx, tx, op.Collection, op.ID, op.Patch); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	seen := map[string]bool{}
	for _, op := range ops {
		if !seen[op.Collection] {
			seen[op.Collection] = true
			s.hub.notify(op.Collection)
		}
	}
	return nil
}
