package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/mdbplc/advisor/cache"
	"github.com/mdbplc/advisor/common/logger"
	"github.com/mdbplc/advisor/common/textutil"
	"github.com/mdbplc/advisor/config"
	"github.com/mdbplc/advisor/metrics"
	"github.com/mdbplc/advisor/query"
	"github.com/mdbplc/advisor/rank"
	"github.com/mdbplc/advisor/retriever"
	"github.com/mdbplc/advisor/schema"
)

// Orchestrator turns a normalized query into a joined context blob: it
// searches the vector backend, scores and filters the candidates, shapes
// their content per category and caches the result.
type Orchestrator struct {
	Retriever  retriever.Retriever
	Classifier *query.Classifier
	Scorer     *rank.Scorer
	Cache      cache.Cache
	Segmenter  textutil.Segmenter

	topN        int
	maxAttempts int
	backoffMin  time.Duration
	backoffMax  time.Duration

	aliasTerms   map[string]string // lowered alias or canonical -> canonical
	genericTerms []string
}

func NewOrchestrator(r retriever.Retriever, cls *query.Classifier, sc *rank.Scorer, c cache.Cache, tables *config.Tables, rc config.RetrievalConfig) *Orchestrator {
	o := &Orchestrator{
		Retriever:   r,
		Classifier:  cls,
		Scorer:      sc,
		Cache:       c,
		Segmenter:   textutil.Default,
		topN:        rc.TopK,
		maxAttempts: rc.MaxAttempts,
		backoffMin:  time.Duration(rc.BackoffMinMs) * time.Millisecond,
		backoffMax:  time.Duration(rc.BackoffMaxMs) * time.Millisecond,
		aliasTerms:  map[string]string{},
	}
	if o.topN <= 0 {
		o.topN = 5
	}
	if o.maxAttempts <= 0 {
		o.maxAttempts = 2
	}
	if o.backoffMin <= 0 {
		o.backoffMin = time.Second
	}
	if o.backoffMax <= o.backoffMin {
		o.backoffMax = 10 * time.Second
	}
	for alias, canonical := range tables.ProductAliases {
		o.aliasTerms[strings.ToLower(alias)] = canonical
		o.aliasTerms[strings.ToLower(canonical)] = canonical
	}
	o.genericTerms = tables.GenericTerms
	return o
}

// Retrieve returns the joined context for query, using the configured topN.
func (o *Orchestrator) Retrieve(ctx context.Context, q string) (string, error) {
	return o.RetrieveTopN(ctx, q, o.topN)
}

// RetrieveTopN runs the full pipeline. An error means the vector backend
// was unreachable after retries; an empty string with nil error means no
// candidate survived scoring and filtering.
func (o *Orchestrator) RetrieveTopN(ctx context.Context, q string, topN int) (string, error) {
	if topN <= 0 {
		topN = o.topN
	}
	key := cache.Key("ctx", q)
	if cached, ok := o.Cache.Get(key); ok {
		metrics.CountCache("context", true)
		logger.Debugf("retrieval: cache hit for %q", q)
		return cached, nil
	}
	metrics.CountCache("context", false)

	candidates, err := o.search(ctx, q, topN)
	if err != nil {
		return "", fmt.Errorf("vector search for %q: %w", q, err)
	}
	if len(candidates) == 0 {
		return "", nil
	}

	category, _ := o.Classifier.Classify(q)
	metrics.CountCategory(category)

	scored := make([]schema.ScoredResult, 0, len(candidates))
	for _, c := range candidates {
		found := o.Classifier.CategoriesFound(c.Document.Content)
		scored = append(scored, schema.ScoredResult{
			Document:        c.Document,
			CategoriesFound: found,
			Score:           o.Scorer.Score(c.Document, q, category, found),
		})
	}

	if o.Classifier.IsExclusive(category) {
		scored = o.exclusiveFilter(scored, category)
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > topN {
		scored = scored[:topN]
	}
	if o.Classifier.IsExclusive(category) {
		kept := scored[:0]
		for _, s := range scored {
			if containsCategory(s.CategoriesFound, category) {
				kept = append(kept, s)
			}
		}
		scored = kept
	}

	shaped := o.shapeContent(scored, q, category)
	shaped = o.aliasPostFilter(shaped, q)
	if len(shaped) == 0 {
		return "", nil
	}

	contents := make([]string, len(shaped))
	for i, s := range shaped {
		contents[i] = s.content
	}
	blob := strings.Join(contents, "\n\n")
	o.Cache.Set(key, blob, 0)
	return blob, nil
}

func (o *Orchestrator) search(ctx context.Context, q string, topN int) ([]schema.SearchResult, error) {
	start := time.Now()
	var results []schema.SearchResult
	attempt := 0
	err := retry.Do(func() error {
		attempt++
		if attempt > 1 {
			metrics.CountRetry()
		}
		var err error
		results, err = o.Retriever.Search(ctx, q, topN)
		return err
	},
		retry.Context(ctx),
		retry.Attempts(uint(o.maxAttempts)),
		retry.Delay(o.backoffMin),
		retry.MaxDelay(o.backoffMax),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warnf("retrieval: search attempt %d failed: %v", n+1, err)
		}),
	)
	if err != nil {
		return nil, err
	}
	metrics.ObserveRetriever(o.Retriever.Type(), start, len(results))
	return results, nil
}

// exclusiveFilter drops candidates that do not literally contain the
// exclusive category, unless they carry one of the generic product terms.
func (o *Orchestrator) exclusiveFilter(scored []schema.ScoredResult, category string) []schema.ScoredResult {
	kept := make([]schema.ScoredResult, 0, len(scored))
	for _, s := range scored {
		if containsCategory(s.CategoriesFound, category) {
			kept = append(kept, s)
			continue
		}
		lower := strings.ToLower(s.Document.Content)
		for _, term := range o.genericTerms {
			if strings.Contains(lower, term) {
				kept = append(kept, s)
				break
			}
		}
	}
	return kept
}

type shapedDoc struct {
	content string
	title   string
}

// shapeContent reduces each surviving document per the query category:
// location keeps whole documents mentioning the literal query, other
// exclusive categories keep only the sentences carrying a query term.
func (o *Orchestrator) shapeContent(scored []schema.ScoredResult, q, category string) []shapedDoc {
	queryLower := strings.ToLower(strings.TrimSpace(q))
	out := make([]shapedDoc, 0, len(scored))
	for _, s := range scored {
		content := s.Document.Content
		title := s.Document.Metadata.Title
		switch {
		case category == "location":
			if strings.Contains(strings.ToLower(content), queryLower) {
				out = append(out, shapedDoc{content, title})
			}
		case o.Classifier.IsExclusive(category):
			out = append(out, shapedDoc{o.reduceToQuerySentences(content, queryLower), title})
		default:
			out = append(out, shapedDoc{content, title})
		}
	}
	return out
}

func (o *Orchestrator) reduceToQuerySentences(content, queryLower string) string {
	terms := o.Segmenter.Tokenize(queryLower)
	var kept []string
	for _, sentence := range o.Segmenter.SplitSentences(content) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, t := range terms {
			if strings.Contains(lower, t) {
				kept = append(kept, sentence)
				break
			}
		}
	}
	if len(kept) == 0 {
		return content
	}
	return strings.Join(kept, ". ") + "."
}

// aliasPostFilter applies when the whole query is a known product alias or
// canonical name: only documents naming the canonical term stay. When that
// would drop everything the pre-filter set is returned unchanged.
func (o *Orchestrator) aliasPostFilter(docs []shapedDoc, q string) []shapedDoc {
	canonical, ok := o.aliasTerms[strings.ToLower(strings.TrimSpace(q))]
	if !ok {
		return docs
	}
	needle := strings.ToLower(canonical)
	filtered := make([]shapedDoc, 0, len(docs))
	for _, d := range docs {
		if strings.Contains(strings.ToLower(d.content), needle) || strings.Contains(strings.ToLower(d.title), needle) {
			filtered = append(filtered, d)
		}
	}
	if len(filtered) == 0 {
		return docs
	}
	return filtered
}

func containsCategory(found []string, category string) bool {
	for _, f := range found {
		if f == category {
			return true
		}
	}
	return false
}
