package query

import (
	"strings"

	"github.com/mdbplc/advisor/common/textutil"
	"github.com/mdbplc/advisor/config"
)

// Classifier scores a query against the ordered category table.
type Classifier struct {
	categories []config.Category
}

// NewClassifier builds a classifier over the configured categories.
// Declaration order doubles as the tie-break order.
func NewClassifier(tables *config.Tables) *Classifier {
	return &Classifier{categories: tables.Categories}
}

// Classify returns the best-scoring category and its score, or ("", 0)
// when no category keyword matches. A category's score is the number of
// its keywords present on word boundaries times its weight. Ties resolve
// to the first category reaching the maximum in declaration order.
func (c *Classifier) Classify(q string) (string, float64) {
	qLower := strings.ToLower(q)
	bestName, bestScore := "", 0.0
	for _, cat := range c.categories {
		hits := 0
		for _, kw := range cat.Keywords {
			if textutil.ContainsWord(qLower, kw) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		score := float64(hits) * cat.Weight
		if score > bestScore {
			bestName, bestScore = cat.Name, score
		}
	}
	return bestName, bestScore
}

// CategoriesFound returns the names of every category with at least one
// keyword literally present in the document, in declaration order. The
// same value feeds both category-alignment scoring and exclusive
// filtering so the two never disagree.
func (c *Classifier) CategoriesFound(doc string) []string {
	docLower := strings.ToLower(doc)
	var found []string
	for _, cat := range c.categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(docLower, strings.ToLower(kw)) {
				found = append(found, cat.Name)
				break
			}
		}
	}
	return found
}

// IsExclusive reports whether the named category is exclusive.
func (c *Classifier) IsExclusive(name string) bool {
	for _, cat := range c.categories {
		if cat.Name == name {
			return cat.Exclusive
		}
	}
	return false
}

// Weight returns the named category's weight, or 0.
func (c *Classifier) Weight(name string) float64 {
	for _, cat := range c.categories {
		if cat.Name == name {
			return cat.Weight
		}
	}
	return 0
}
