package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledgescout/internal/extractor"
)

type fakeStore struct {
	docs      []string
	chunks    map[int64][]string
	docErr    error
	chunksErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{chunks: make(map[int64][]string)}
}

func (f *fakeStore) InsertDocument(_ context.Context, name string) (int64, error) {
	if f.docErr != nil {
		return 0, f.docErr
	}
	f.docs = append(f.docs, name)
	return int64(len(f.docs)), nil
}

func (f *fakeStore) InsertChunks(_ context.Context, docID int64, texts []string) error {
	if f.chunksErr != nil {
		return f.chunksErr
	}
	f.chunks[docID] = texts
	return nil
}

func docxWith(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body bytes.Buffer
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write(body.Bytes())
	require.NoError(t, err)
	rels, err := zw.Create("word/_rels/document.xml.rels")
	require.NoError(t, err)
	_, err = rels.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestIngestStoresDocumentAndChunks(t *testing.T) {
	store := newFakeStore()
	svc := New(store)

	data := docxWith(t, "alpha", "beta", "", "gamma")
	err := svc.Ingest(context.Background(), "notes.docx", data, extractor.MIMEDOCX)
	require.NoError(t, err)

	require.Equal(t, []string{"notes.docx"}, store.docs)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, store.chunks[1])
}

func TestIngestRejectsBadExtension(t *testing.T) {
	store := newFakeStore()
	svc := New(store)

	err := svc.Ingest(context.Background(), "notes.txt", []byte("hello"), "text/plain")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadExtension)

	// Rejected before any store mutation.
	assert.Empty(t, store.docs)
	assert.Empty(t, store.chunks)
}

func TestIngestCaseInsensitiveExtension(t *testing.T) {
	store := newFakeStore()
	svc := New(store)

	data := docxWith(t, "alpha")
	err := svc.Ingest(context.Background(), "REPORT.DOCX", data, extractor.MIMEDOCX)
	require.NoError(t, err)
	assert.Equal(t, []string{"REPORT.DOCX"}, store.docs)
}

func TestIngestRejectsUnsupportedMIME(t *testing.T) {
	store := newFakeStore()
	svc := New(store)

	err := svc.Ingest(context.Background(), "fake.pdf", []byte("hello"), "text/plain")
	require.Error(t, err)
	assert.ErrorIs(t, err, extractor.ErrUnsupportedMIME)
	assert.Empty(t, store.docs)
}

func TestIngestExtractionFailureLeavesStoreUntouched(t *testing.T) {
	store := newFakeStore()
	svc := New(store)

	err := svc.Ingest(context.Background(), "broken.pdf", []byte("not a pdf"), extractor.MIMEPDF)
	require.Error(t, err)
	assert.Empty(t, store.docs)
	assert.Empty(t, store.chunks)
}

func TestIngestPropagatesStoreErrors(t *testing.T) {
	store := newFakeStore()
	store.docErr = errors.New("connection refused")
	svc := New(store)

	data := docxWith(t, "alpha")
	err := svc.Ingest(context.Background(), "notes.docx", data, extractor.MIMEDOCX)
	assert.ErrorIs(t, err, store.docErr)
}
