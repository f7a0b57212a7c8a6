package vectordb

import (
	"context"
	"fmt"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/mdbplc/advisor/common/logger"
	"github.com/mdbplc/advisor/config"
	"github.com/mdbplc/advisor/schema"
)

// Collection schema: id (varchar pk), content (varchar), title, section,
// category, sub_category (varchar) and vector (float_vector), metric L2,
// so lower search scores mean closer matches.
type milvusStore struct {
	c          client.Client
	collection string
}

var milvusOutputFields = []string{"id", "content", "title", "section", "category", "sub_category"}

func newMilvusStore(ctx context.Context, cfg *config.VectorDBConfig) (*milvusStore, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	c, err := client.NewClient(ctx, client.Config{
		Address:  addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("connect milvus at %s: %w", addr, err)
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "bank_knowledge"
	}
	return &milvusStore{c: c, collection: collection}, nil
}

func (m *milvusStore) SearchDocs(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error) {
	topK := 10
	if opts != nil && opts.TopK > 0 {
		topK = opts.TopK
	}
	sp, err := entity.NewIndexHNSWSearchParam(64)
	if err != nil {
		return nil, fmt.Errorf("build search param: %w", err)
	}
	results, err := m.c.Search(ctx, m.collection, nil, "", milvusOutputFields,
		[]entity.Vector{entity.FloatVector(vector)}, "vector", entity.L2, topK, sp)
	if err != nil {
		return nil, fmt.Errorf("milvus search: %w", err)
	}

	var out []schema.SearchResult
	for _, rs := range results {
		for i := 0; i < rs.ResultCount; i++ {
			doc := schema.Document{
				ID:       columnString(rs.IDs, i),
				Content:  columnString(rs.Fields.GetColumn("content"), i),
				Distance: float64(rs.Scores[i]),
				Metadata: schema.Metadata{
					Title:       columnString(rs.Fields.GetColumn("title"), i),
					Section:     columnString(rs.Fields.GetColumn("section"), i),
					Category:    columnString(rs.Fields.GetColumn("category"), i),
					SubCategory: columnString(rs.Fields.GetColumn("sub_category"), i),
				},
			}
			out = append(out, schema.SearchResult{Document: doc, Score: float64(rs.Scores[i])})
		}
	}
	logger.Debugf("milvus search returned %d candidates", len(out))
	return out, nil
}

func (m *milvusStore) GetDocs(ctx context.Context, filter schema.Filter, limit int) ([]schema.Document, error) {
	if limit <= 0 {
		limit = 1000
	}
	expr := buildExpr(filter)
	rs, err := m.c.Query(ctx, m.collection, nil, expr, milvusOutputFields, client.WithLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("milvus query: %w", err)
	}

	content := rs.GetColumn("content")
	if content == nil {
		return nil, nil
	}
	docs := make([]schema.Document, 0, content.Len())
	for i := 0; i < content.Len(); i++ {
		docs = append(docs, schema.Document{
			ID:      columnString(rs.GetColumn("id"), i),
			Content: columnString(content, i),
			Metadata: schema.Metadata{
				Title:       columnString(rs.GetColumn("title"), i),
				Section:     columnString(rs.GetColumn("section"), i),
				Category:    columnString(rs.GetColumn("category"), i),
				SubCategory: columnString(rs.GetColumn("sub_category"), i),
			},
		})
	}
	return docs, nil
}

func (m *milvusStore) Close() error { return m.c.Close() }

func buildExpr(filter schema.Filter) string {
	var clauses []string
	if filter.Category != "" {
		clauses = append(clauses, fmt.Sprintf("category == %q", filter.Category))
	}
	if filter.SubCategory != "" {
		clauses = append(clauses, fmt.Sprintf("sub_category == %q", filter.SubCategory))
	}
	return strings.Join(clauses, " && ")
}

func columnString(col entity.Column, idx int) string {
	if col == nil || idx >= col.Len() {
		return ""
	}
	v, err := col.Get(idx)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
