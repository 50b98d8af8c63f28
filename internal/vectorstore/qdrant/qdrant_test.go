package qdrant

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	body   map[string]any
}

func newRecorder(t *testing.T, searchResponse string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.body)
		}
		requests = append(requests, rec)
		if r.URL.Path == "/collections/docs/points/search" {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, searchResponse)
			return
		}
		io.WriteString(w, `{"result":true,"status":"ok"}`)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestUpsert_CreatesCollectionThenWritesPoints(t *testing.T) {
	srv, requests := newRecorder(t, "{}")
	s := NewStorage(Config{URL: srv.URL, Collection: "docs", APIKey: "k"})

	chunks := []domain.Chunk{{
		ID:       "11111111-2222-3333-4444-555555555555",
		Document: "paper.pdf",
		Page:     2,
		Index:    0,
		Text:     "chunk text",
		Metadata: map[string]string{"source": "/tmp/paper.pdf"},
	}}
	require.NoError(t, s.Upsert(chunks, [][]float64{{0.1, 0.2, 0.3}}))

	require.Len(t, *requests, 2)
	create := (*requests)[0]
	assert.Equal(t, http.MethodPut, create.method)
	assert.Equal(t, "/collections/docs", create.path)
	vectors := create.body["vectors"].(map[string]any)
	assert.Equal(t, float64(3), vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])

	upsert := (*requests)[1]
	assert.Equal(t, "/collections/docs/points", upsert.path)
	assert.Equal(t, "wait=true", upsert.query)
	points := upsert.body["points"].([]any)
	require.Len(t, points, 1)
	point := points[0].(map[string]any)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", point["id"])
	payload := point["payload"].(map[string]any)
	assert.Equal(t, "paper.pdf", payload["document"])
	assert.Equal(t, "chunk text", payload["text"])
	assert.Equal(t, "/tmp/paper.pdf", payload["meta_source"])

	// Second upsert reuses the collection.
	require.NoError(t, s.Upsert(chunks, [][]float64{{0.1, 0.2, 0.3}}))
	require.Len(t, *requests, 3)
	assert.Equal(t, "/collections/docs/points", (*requests)[2].path)
}

func TestSearch_SendsThresholdAndParsesResults(t *testing.T) {
	srv, requests := newRecorder(t, `{"result":[
		{"id":"p1","score":0.91,"payload":{"document":"paper.pdf","page":2,"index":0,"text":"found it","meta_source":"/tmp/paper.pdf"}}
	]}`)
	s := NewStorage(Config{URL: srv.URL, Collection: "docs"})

	results, err := s.Search([]float64{0.5, 0.5}, 7, 0.25)
	require.NoError(t, err)

	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/collections/docs/points/search", req.path)
	assert.Equal(t, float64(7), req.body["limit"])
	assert.Equal(t, 0.25, req.body["score_threshold"])
	assert.Equal(t, true, req.body["with_payload"])

	require.Len(t, results, 1)
	assert.Equal(t, 0.91, results[0].Score)
	assert.Equal(t, "paper.pdf", results[0].Chunk.Document)
	assert.Equal(t, 2, results[0].Chunk.Page)
	assert.Equal(t, "found it", results[0].Chunk.Text)
	assert.Equal(t, "/tmp/paper.pdf", results[0].Chunk.Metadata["source"])
}

func TestClear_DropsCollection(t *testing.T) {
	srv, requests := newRecorder(t, "{}")
	s := NewStorage(Config{URL: srv.URL, Collection: "docs"})

	require.NoError(t, s.Clear())
	require.Len(t, *requests, 1)
	assert.Equal(t, http.MethodDelete, (*requests)[0].method)
	assert.Equal(t, "/collections/docs", (*requests)[0].path)
}
