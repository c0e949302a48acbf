package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// documentNamespace scopes content-addressed document ids.
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/roach88/tsbind/documents"))

// Document is a cached declaration document.
type Document struct {
	Version   string
	ID        string
	Body      []byte
	FetchedAt time.Time
}

// DocumentID returns the content-addressed id of body.
func DocumentID(body []byte) string {
	return uuid.NewSHA1(documentNamespace, body).String()
}

// PutDocument stores body as the document for version, replacing any
// earlier body.
func (s *Store) PutDocument(ctx context.Context, version string, body []byte) (Document, error) {
	doc := Document{
		Version:   version,
		ID:        DocumentID(body),
		Body:      body,
		FetchedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (version, doc_id, body, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(version) DO UPDATE SET
			doc_id = excluded.doc_id,
			body = excluded.body,
			fetched_at = excluded.fetched_at
	`, doc.Version, doc.ID, doc.Body, doc.FetchedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Document{}, fmt.Errorf("put document: %w", err)
	}
	return doc, nil
}

// GetDocument returns the cached document for version. found is false when
// nothing is cached.
func (s *Store) GetDocument(ctx context.Context, version string) (doc Document, found bool, err error) {
	var fetchedAt string
	err = s.db.QueryRowContext(ctx, `
		SELECT version, doc_id, body, fetched_at
		FROM documents
		WHERE version = ?
	`, version).Scan(&doc.Version, &doc.ID, &doc.Body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, fmt.Errorf("get document: %w", err)
	}

	doc.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return Document{}, false, fmt.Errorf("get document: parse fetched_at: %w", err)
	}
	return doc, true, nil
}
