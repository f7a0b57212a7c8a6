package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mdbplc/advisor/cache"
	"github.com/mdbplc/advisor/config"
	"github.com/mdbplc/advisor/query"
	"github.com/mdbplc/advisor/rank"
	"github.com/mdbplc/advisor/schema"
)

type fakeRetriever struct {
	calls   int
	results []schema.SearchResult
	err     error
}

func (f *fakeRetriever) Type() string { return "fake" }

func (f *fakeRetriever) Search(ctx context.Context, q string, topK int) ([]schema.SearchResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func newTestOrchestrator(r *fakeRetriever) *Orchestrator {
	tables := config.DefaultTables()
	cls := query.NewClassifier(&tables)
	rc := config.RetrievalConfig{TopK: 5, MaxAttempts: 2, BackoffMinMs: 1, BackoffMaxMs: 2}
	return NewOrchestrator(r, cls, rank.NewScorer(&tables), cache.NewLRU(16), &tables, rc)
}

func result(content string) schema.SearchResult {
	return schema.SearchResult{Document: schema.Document{Content: content, Distance: 0.5}}
}

func TestRetrieveCachesContext(t *testing.T) {
	r := &fakeRetriever{results: []schema.SearchResult{
		result("The mobile app supports instant transfers."),
	}}
	o := newTestOrchestrator(r)

	first, err := o.Retrieve(context.Background(), "mobile app transfers")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	second, err := o.Retrieve(context.Background(), "mobile app transfers")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if first != second {
		t.Fatalf("cached context differs: %q vs %q", first, second)
	}
	if r.calls != 1 {
		t.Fatalf("backend should be hit once, got %d", r.calls)
	}
}

func TestRetrieveRetryCeiling(t *testing.T) {
	r := &fakeRetriever{err: errors.New("backend down")}
	o := newTestOrchestrator(r)

	_, err := o.Retrieve(context.Background(), "any banking query")
	if err == nil {
		t.Fatalf("expected an error after retry exhaustion")
	}
	if r.calls != 2 {
		t.Fatalf("backend should be tried exactly twice, got %d", r.calls)
	}
}

func TestRetrieveExclusiveFiltering(t *testing.T) {
	r := &fakeRetriever{results: []schema.SearchResult{
		result("Our savings scheme offers attractive interest."),
		result("Foreign exchange treasury operations desk."),
	}}
	o := newTestOrchestrator(r)

	blob, err := o.Retrieve(context.Background(), "savings interest")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if !strings.Contains(blob, "savings scheme") {
		t.Fatalf("matching doc missing from context: %q", blob)
	}
	if strings.Contains(blob, "treasury") {
		t.Fatalf("non-category doc must be filtered out: %q", blob)
	}
}

func TestRetrieveAliasOverFilterReverts(t *testing.T) {
	r := &fakeRetriever{results: []schema.SearchResult{
		result("Kotipoti savings scheme builds wealth monthly."),
	}}
	o := newTestOrchestrator(r)

	// The doc never names the canonical "MDB Kotipoti", so the alias
	// post-filter would empty the set and must revert.
	blob, err := o.Retrieve(context.Background(), "kotipoti")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if !strings.Contains(blob, "Kotipoti savings scheme") {
		t.Fatalf("over-filter must revert to the pre-filter set: %q", blob)
	}
}

func TestRetrieveEmptyResults(t *testing.T) {
	r := &fakeRetriever{}
	o := newTestOrchestrator(r)

	blob, err := o.Retrieve(context.Background(), "anything at all")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if blob != "" {
		t.Fatalf("expected empty context, got %q", blob)
	}
}
