package vectordb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mdbplc/advisor/common/httpx"
	"github.com/mdbplc/advisor/config"
	"github.com/mdbplc/advisor/schema"
)

// chromaStore talks to a ChromaDB server over its REST API. The knowledge
// base was originally ingested into chroma, so this store keeps parity
// with deployments that never migrated to milvus.
type chromaStore struct {
	base       string
	collection string
	client     *httpx.Client

	mu           sync.Mutex
	collectionID string
}

func newChromaStore(cfg *config.VectorDBConfig) *chromaStore {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	collection := cfg.Collection
	if collection == "" {
		collection = "bank_knowledge"
	}
	port := cfg.Port
	if port == 0 {
		port = 8000
	}
	return &chromaStore{
		base:       fmt.Sprintf("http://%s:%d/api/v1", cfg.Host, port),
		collection: collection,
		client:     httpx.New(httpx.Options{Timeout: timeout, Retry: 1}),
	}
}

type chromaMeta struct {
	Title       string `json:"title"`
	Section     string `json:"section"`
	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
}

type chromaQueryResponse struct {
	IDs       [][]string     `json:"ids"`
	Documents [][]string     `json:"documents"`
	Metadatas [][]chromaMeta `json:"metadatas"`
	Distances [][]float64    `json:"distances"`
}

type chromaGetResponse struct {
	IDs       []string     `json:"ids"`
	Documents []string     `json:"documents"`
	Metadatas []chromaMeta `json:"metadatas"`
}

func (s *chromaStore) SearchDocs(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error) {
	id, err := s.resolveCollection(ctx)
	if err != nil {
		return nil, err
	}
	topK := 10
	if opts != nil && opts.TopK > 0 {
		topK = opts.TopK
	}
	body := map[string]any{
		"query_embeddings": [][]float32{vector},
		"n_results":        topK,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	var resp chromaQueryResponse
	if err := s.post(ctx, fmt.Sprintf("/collections/%s/query", id), body, &resp); err != nil {
		return nil, fmt.Errorf("chroma query: %w", err)
	}
	if len(resp.Documents) == 0 {
		return nil, nil
	}

	out := make([]schema.SearchResult, 0, len(resp.Documents[0]))
	for i, content := range resp.Documents[0] {
		doc := schema.Document{Content: content}
		if len(resp.IDs) > 0 && i < len(resp.IDs[0]) {
			doc.ID = resp.IDs[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			m := resp.Metadatas[0][i]
			doc.Metadata = schema.Metadata{Title: m.Title, Section: m.Section, Category: m.Category, SubCategory: m.SubCategory}
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			doc.Distance = resp.Distances[0][i]
		}
		out = append(out, schema.SearchResult{Document: doc, Score: doc.Distance})
	}
	return out, nil
}

func (s *chromaStore) GetDocs(ctx context.Context, filter schema.Filter, limit int) ([]schema.Document, error) {
	id, err := s.resolveCollection(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 1000
	}
	where := map[string]any{}
	if filter.Category != "" {
		where["category"] = filter.Category
	}
	if filter.SubCategory != "" {
		where["sub_category"] = filter.SubCategory
	}
	body := map[string]any{
		"limit":   limit,
		"include": []string{"documents", "metadatas"},
	}
	if len(where) > 0 {
		body["where"] = where
	}
	var resp chromaGetResponse
	if err := s.post(ctx, fmt.Sprintf("/collections/%s/get", id), body, &resp); err != nil {
		return nil, fmt.Errorf("chroma get: %w", err)
	}

	docs := make([]schema.Document, 0, len(resp.Documents))
	for i, content := range resp.Documents {
		doc := schema.Document{Content: content}
		if i < len(resp.IDs) {
			doc.ID = resp.IDs[i]
		}
		if i < len(resp.Metadatas) {
			m := resp.Metadatas[i]
			doc.Metadata = schema.Metadata{Title: m.Title, Section: m.Section, Category: m.Category, SubCategory: m.SubCategory}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *chromaStore) Close() error { return nil }

// resolveCollection maps the configured collection name to its server-side
// id, once.
func (s *chromaStore) resolveCollection(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collectionID != "" {
		return s.collectionID, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/collections/"+s.collection, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolve chroma collection: %w", err)
	}
	defer resp.Body.Close()
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode collection response: %w", err)
	}
	if payload.ID == "" {
		return "", fmt.Errorf("collection %q not found", s.collection)
	}
	s.collectionID = payload.ID
	return s.collectionID, nil
}

func (s *chromaStore) post(ctx context.Context, path string, body, out any) error {
	bs, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+path, bytes.NewReader(bs))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
