package server

import (
	"bytes"
	"context"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdv/declutter/pkg/vecstore"
)

type wordEmbedder struct{}

func (wordEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 64)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%64]++
	}
	return vec, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := vecstore.Open(vecstore.Config{InMemory: true, Threshold: 0.01}, wordEmbedder{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	_, err = store.Add(ctx, "switch the database pool to pgbouncer", vecstore.Meta{Type: vecstore.TypeNote, Topic: "infra", SourceFile: "notes.md"})
	require.NoError(t, err)
	_, err = store.Add(ctx, "dentist appointment checkup", vecstore.Meta{Type: vecstore.TypeEvent, Date: "2025-02-14"})
	require.NoError(t, err)

	return New(store)
}

func do(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := do(s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestQueryEndpoint(t *testing.T) {
	s := newTestServer(t)
	w := do(s, http.MethodPost, "/v1/query", gin.H{"query": "database pool pgbouncer", "limit": 3})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []vecstore.SearchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Results)
	assert.Contains(t, resp.Results[0].Content, "pgbouncer")
	assert.Equal(t, "infra", resp.Results[0].Meta.Topic)
}

func TestQueryTypeFilter(t *testing.T) {
	s := newTestServer(t)
	w := do(s, http.MethodPost, "/v1/query", gin.H{"query": "dentist appointment", "type": "calendar_event"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []vecstore.SearchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, vecstore.TypeEvent, resp.Results[0].Meta.Type)
}

func TestQueryRejectsUnknownType(t *testing.T) {
	s := newTestServer(t)
	w := do(s, http.MethodPost, "/v1/query", gin.H{"query": "anything", "type": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryEmptyStringReturnsNoResults(t *testing.T) {
	s := newTestServer(t)
	w := do(s, http.MethodPost, "/v1/query", gin.H{"query": "  "})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results":[]}`, w.Body.String())
}

func TestQueryMalformedBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummaryEndpoint(t *testing.T) {
	s := newTestServer(t)
	w := do(s, http.MethodGet, "/v1/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total   int            `json:"total"`
		ByType  map[string]int `json:"by_type"`
		ByTopic map[string]int `json:"by_topic"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.ByType[vecstore.TypeNote])
	assert.Equal(t, 1, resp.ByType[vecstore.TypeEvent])
	assert.Equal(t, 1, resp.ByTopic["infra"])
}

func TestTopicsEndpoint(t *testing.T) {
	s := newTestServer(t)
	w := do(s, http.MethodGet, "/v1/topics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"topics":["infra"]}`, w.Body.String())
}
