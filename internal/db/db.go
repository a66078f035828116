package db

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"net"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"knowledgescout/internal/config"
)

// Document is one uploaded file's metadata record. Rows are append-only:
// nothing in the service updates or deletes them.
type Document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull"`
}

// Chunk is one non-blank line of extracted document text.
type Chunk struct {
	bun.BaseModel `bun:"table:chunks,alias:c"`

	ID        int64  `bun:"id,pk,autoincrement"`
	DocID     int64  `bun:"doc_id,notnull"`
	ChunkText string `bun:"chunk_text,notnull"`
}

// Store owns the Postgres connection pool for the lifetime of the
// process: constructed at startup, closed on shutdown.
type Store struct {
	db *bun.DB
}

func New(cfg *config.DatabaseConfig) *Store {
	opts := []pgdriver.Option{
		pgdriver.WithAddr(net.JoinHostPort(cfg.Host, cfg.Port)),
		pgdriver.WithUser(cfg.User),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.Name),
		pgdriver.WithApplicationName("knowledgescout"),
	}
	if cfg.SSLMode == "disable" {
		opts = append(opts, pgdriver.WithInsecure(true))
	} else {
		// Managed Postgres (Render and friends) serves certificates the
		// client cannot verify against a system CA.
		opts = append(opts, pgdriver.WithTLSConfig(&tls.Config{InsecureSkipVerify: true}))
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &Store{db: db}
}

// Ping probes connectivity, the startup check the service logs before
// serving traffic.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Init creates the documents and chunks tables if they do not exist.
// Documents first: chunks carry the foreign key.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*Document)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}
	if _, err := s.db.NewCreateTable().
		Model((*Chunk)(nil)).
		IfNotExists().
		ForeignKey(`("doc_id") REFERENCES "documents" ("id")`).
		Exec(ctx); err != nil {
		return fmt.Errorf("creating chunks table: %w", err)
	}
	return nil
}

// InsertDocument creates a document row and returns its generated id.
func (s *Store) InsertDocument(ctx context.Context, name string) (int64, error) {
	doc := &Document{Name: name}
	if _, err := s.db.NewInsert().Model(doc).Exec(ctx); err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}
	return doc.ID, nil
}

// InsertChunks writes all chunks of a document in a single batched
// insert inside one transaction, so a failure leaves no partial chunk
// rows behind.
func (s *Store) InsertChunks(ctx context.Context, docID int64, texts []string) error {
	if len(texts) == 0 {
		return nil
	}
	chunks := make([]Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = Chunk{DocID: docID, ChunkText: text}
	}
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&chunks).Exec(ctx); err != nil {
			return fmt.Errorf("inserting chunks: %w", err)
		}
		return nil
	})
}

// SearchChunks returns chunk texts containing question, case-insensitive,
// capped at limit. Order is whatever Postgres returns. The pattern is
// passed through unescaped, so '%' and '_' in the question act as
// wildcards.
func (s *Store) SearchChunks(ctx context.Context, question string, limit int) ([]string, error) {
	var texts []string
	err := s.db.NewSelect().
		Model((*Chunk)(nil)).
		Column("chunk_text").
		Where("chunk_text ILIKE ?", "%"+question+"%").
		Limit(limit).
		Scan(ctx, &texts)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}
	return texts, nil
}
