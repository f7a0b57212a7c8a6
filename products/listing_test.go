package products

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/mdbplc/advisor/schema"
)

type fakeStore struct {
	docs []schema.Document
	err  error
}

func (f *fakeStore) SearchDocs(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error) {
	return nil, nil
}

func (f *fakeStore) GetDocs(ctx context.Context, filter schema.Filter, limit int) ([]schema.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []schema.Document
	for _, d := range f.docs {
		if filter.Category != "" && d.Metadata.Category != filter.Category {
			continue
		}
		if filter.SubCategory != "" && d.Metadata.SubCategory != filter.SubCategory {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeStore) Close() error { return nil }

func doc(title, category, subCategory, content string) schema.Document {
	return schema.Document{
		Content: content,
		Metadata: schema.Metadata{
			Title:       title,
			Category:    category,
			SubCategory: subCategory,
		},
	}
}

func TestListGroupedByCategory(t *testing.T) {
	store := &fakeStore{docs: []schema.Document{
		doc("MDB Kotipoti – Midland Bank PLC.", "savings", "", ""),
		doc("MDB Super Saver", "savings", "", ""),
		doc("MDB Kotipoti – Midland Bank PLC.", "savings", "", ""),
		doc("MDB Amar Bari", "loan", "", ""),
		doc("Internet Banking Guide", "digital", "", ""),
	}}
	l := NewLister(store)

	grouped, err := l.ListGroupedByCategory(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := grouped["Savings"]; !reflect.DeepEqual(got, []string{"MDB Kotipoti", "MDB Super Saver"}) {
		t.Fatalf("savings group = %v", got)
	}
	if got := grouped["Loan"]; !reflect.DeepEqual(got, []string{"MDB Amar Bari"}) {
		t.Fatalf("loan group = %v", got)
	}
	if _, ok := grouped["Digital"]; ok {
		t.Fatalf("non-MDB titles must not be listed")
	}
}

func TestListGroupedByCategoryError(t *testing.T) {
	l := NewLister(&fakeStore{err: errors.New("backend down")})
	if _, err := l.ListGroupedByCategory(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestAllProductNames(t *testing.T) {
	store := &fakeStore{docs: []schema.Document{
		doc("MDB Kotipoti", "savings", "", ""),
		doc("MDB Amar Bari", "loan", "", ""),
		doc("MDB Kotipoti", "islamic", "", ""),
	}}
	l := NewLister(store)

	names, err := l.AllProductNames(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"MDB Amar Bari", "MDB Kotipoti"}) {
		t.Fatalf("got %v", names)
	}
}

func TestListIslamicGrouped(t *testing.T) {
	store := &fakeStore{docs: []schema.Document{
		doc("MDB Saalam Savings", "islamic", "", ""),
		doc("MDB Saalam Home Loan", "islamic", "", ""),
		doc("MDB Saalam Current Account", "islamic", "", ""),
	}}
	l := NewLister(store)

	grouped, err := l.ListIslamicGrouped(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(grouped["Savings"]) != 1 || grouped["Savings"][0] != "MDB Saalam Savings" {
		t.Fatalf("savings subgroup = %v", grouped["Savings"])
	}
	if len(grouped["Loan"]) != 1 {
		t.Fatalf("loan subgroup = %v", grouped["Loan"])
	}
	if len(grouped["Current"]) != 1 {
		t.Fatalf("current subgroup = %v", grouped["Current"])
	}
}

func TestSMEProductNames(t *testing.T) {
	store := &fakeStore{docs: []schema.Document{
		doc("SME Overview", "Loan", "SME",
			"Products include MDB Krishi and MDB Orjon and MDB Start-up for new ventures. MDB Unknown is not real."),
		doc("Retail Loans", "Loan", "Retail", "MDB Abiram appears here but subcategory excludes it."),
	}}
	l := NewLister(store)

	names, err := l.SMEProductNames(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"MDB Krishi", "MDB Orjon", "MDB Start-up"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("got %v, want %v", names, want)
	}
}

func TestNRBProductNames(t *testing.T) {
	store := &fakeStore{docs: []schema.Document{
		doc("NRB Services", "savings", "",
			"Non-resident customers can open an MDB Probashi Savings or an MDB NFCD account."),
	}}
	l := NewLister(store)

	names, err := l.NRBProductNames(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"MDB NFCD Account", "MDB Probashi Savings"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("got %v, want %v", names, want)
	}
}

func TestIsProductListRequest(t *testing.T) {
	if !IsProductListRequest("do you have other products?") {
		t.Fatalf("listing phrase should match")
	}
	if IsProductListRequest("what is the kotipoti interest rate") {
		t.Fatalf("specific product question is not a listing request")
	}
}

func TestIsChargeQuery(t *testing.T) {
	if !IsChargeQuery("what is the account maintenance fee") {
		t.Fatalf("fee question should match")
	}
	if IsChargeQuery("tell me about the board of directors") {
		t.Fatalf("board question is not a charge query")
	}
}

func TestMatchProduct(t *testing.T) {
	products := []string{"MDB Kotipoti", "MDB Super Saver", "MDB College Saver"}
	if got := MatchProduct("mdb kotipoti", products); got != "MDB Kotipoti" {
		t.Fatalf("got %q", got)
	}
	if got := MatchProduct("mdb kotipotti", products); got != "MDB Kotipoti" {
		t.Fatalf("fuzzy match failed, got %q", got)
	}
	if got := MatchProduct("unrelated gibberish question", products); got != "" {
		t.Fatalf("expected no match, got %q", got)
	}
}

func TestExtractMultipleProducts(t *testing.T) {
	products := []string{"MDB Kotipoti", "MDB Super Saver", "MDB College Saver"}
	got := ExtractMultipleProducts("compare mdb kotipoti with mdb super saver", products)
	if len(got) != 2 {
		t.Fatalf("got %v, want two products", got)
	}
	for _, name := range got {
		if name != "MDB Kotipoti" && name != "MDB Super Saver" {
			t.Fatalf("unexpected product %q", name)
		}
	}
	if got := ExtractMultipleProducts("branch timings please", products); len(got) != 0 {
		t.Fatalf("expected no products, got %v", got)
	}
}

func TestCleanTitle(t *testing.T) {
	if got := cleanTitle("MDB Kotipoti – Midland Bank PLC."); got != "MDB Kotipoti" {
		t.Fatalf("got %q", got)
	}
	if !strings.HasPrefix(cleanTitle("  MDB e-Saver  "), "MDB") {
		t.Fatalf("trimming broken")
	}
}
