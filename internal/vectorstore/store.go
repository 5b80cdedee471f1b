/*
Package vectorstore keeps embedded chunks in a local SQLite file and answers
cosine-similarity queries over them.
*/
package vectorstore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shanehull/corpbrief/internal/chunk"
	"github.com/ternarybob/arbor"
	_ "modernc.org/sqlite"
)

const fileName = "chunks.db"

var ErrDimensionMismatch = errors.New("vector dimension mismatch")

type Store struct {
	db     *sql.DB
	logger arbor.ILogger
	path   string
}

type Match struct {
	Chunk chunk.Chunk
	Score float64
}

// Open creates dir and the database inside it when absent.
func Open(ctx context.Context, dir string, logger arbor.ILogger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	path := filepath.Join(dir, fileName)

	// modernc.org/sqlite registers as "sqlite", not "sqlite3"
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger, path: path}

	if err := s.configure(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Str("path", path).Msg("Vector store ready")
	return s, nil
}

func (s *Store) configure(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			id           TEXT PRIMARY KEY,
			document_id  TEXT NOT NULL,
			chunk_index  INTEGER NOT NULL,
			company      TEXT NOT NULL DEFAULT '',
			source       TEXT NOT NULL DEFAULT '',
			content      TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			metadata     TEXT NOT NULL DEFAULT '{}',
			dims         INTEGER NOT NULL,
			embedding    BLOB NOT NULL,
			updated_at   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_company ON chunks(company)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Upsert writes chunks with their vectors in one transaction. vectors[i]
// belongs to chunks[i].
func (s *Store) Upsert(ctx context.Context, chunks []chunk.Chunk, vectors [][]float32) (int, error) {
	if len(chunks) != len(vectors) {
		return 0, fmt.Errorf("got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, chunk_index, company, source, content, content_hash, metadata, dims, embedding, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			content = excluded.content,
			content_hash = excluded.content_hash,
			metadata = excluded.metadata,
			dims = excluded.dims,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, c := range chunks {
		md, err := json.Marshal(c.Metadata)
		if err != nil {
			return 0, fmt.Errorf("marshal metadata for chunk %s: %w", c.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			c.ID, c.DocumentID, c.Index,
			c.Metadata["company"], c.Metadata["source"],
			c.Text, c.Hash, string(md),
			len(vectors[i]), encodeVector(vectors[i]), now,
		); err != nil {
			return 0, fmt.Errorf("upsert chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	s.logger.Debug().Int("chunks", len(chunks)).Msg("Upserted chunks")
	return len(chunks), nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// Search returns the k chunks most similar to query. An empty company searches
// every company.
func (s *Store) Search(ctx context.Context, query []float32, company string, k int) ([]Match, error) {
	if k <= 0 {
		return nil, nil
	}

	q := `SELECT id, document_id, chunk_index, content, content_hash, metadata, dims, embedding FROM chunks`
	var args []any
	if company != "" {
		q += ` WHERE company = ?`
		args = append(args, company)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var (
			c    chunk.Chunk
			md   string
			dims int
			blob []byte
		)
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Index, &c.Text, &c.Hash, &md, &dims, &blob); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if dims != len(query) {
			return nil, fmt.Errorf("%w: stored %d, query %d", ErrDimensionMismatch, dims, len(query))
		}
		if err := json.Unmarshal([]byte(md), &c.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for chunk %s: %w", c.ID, err)
		}
		matches = append(matches, Match{Chunk: c, Score: Cosine(query, decodeVector(blob))})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}

// Cosine returns 0 when either vector has zero length or norm.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
