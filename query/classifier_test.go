package query

import (
	"reflect"
	"testing"

	"github.com/mdbplc/advisor/config"
)

func TestClassifyDeterministic(t *testing.T) {
	tables := config.DefaultTables()
	c := NewClassifier(&tables)

	q := "kotipoti savings deposit interest"
	cat1, score1 := c.Classify(q)
	for i := 0; i < 10; i++ {
		cat, score := c.Classify(q)
		if cat != cat1 || score != score1 {
			t.Fatalf("classify not deterministic: (%s,%f) vs (%s,%f)", cat1, score1, cat, score)
		}
	}
	if cat1 == "" {
		t.Fatalf("expected a category for %q", q)
	}
}

func TestClassifyTieBreakByDeclarationOrder(t *testing.T) {
	tables := config.Tables{
		Categories: []config.Category{
			{Name: "first", Keywords: []string{"alpha"}, Weight: 1.0},
			{Name: "second", Keywords: []string{"beta"}, Weight: 1.0},
		},
	}
	c := NewClassifier(&tables)

	cat, _ := c.Classify("alpha beta")
	if cat != "first" {
		t.Fatalf("tie should resolve to first declared category, got %q", cat)
	}
}

func TestClassifyWordBoundaries(t *testing.T) {
	tables := config.Tables{
		Categories: []config.Category{
			{Name: "cards", Keywords: []string{"card"}, Weight: 1.0},
		},
	}
	c := NewClassifier(&tables)

	if cat, _ := c.Classify("discard this"); cat != "" {
		t.Fatalf("substring must not match, got %q", cat)
	}
	if cat, _ := c.Classify("credit card fees"); cat != "cards" {
		t.Fatalf("word match expected, got %q", cat)
	}
}

func TestCategoriesFoundDeclarationOrder(t *testing.T) {
	tables := config.Tables{
		Categories: []config.Category{
			{Name: "a", Keywords: []string{"apple"}, Weight: 1.0},
			{Name: "b", Keywords: []string{"banana"}, Weight: 1.0},
			{Name: "c", Keywords: []string{"cherry"}, Weight: 1.0},
		},
	}
	c := NewClassifier(&tables)

	found := c.CategoriesFound("cherry pie with banana and apple slices")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(found, want) {
		t.Fatalf("want %v got %v", want, found)
	}
}

func TestIsExclusive(t *testing.T) {
	tables := config.DefaultTables()
	c := NewClassifier(&tables)

	for _, name := range []string{"management", "board", "sponsor", "location", "islamic", "savings"} {
		if !c.IsExclusive(name) {
			t.Fatalf("%s should be exclusive", name)
		}
	}
	if c.IsExclusive("digital") {
		t.Fatalf("digital should not be exclusive")
	}
}
