// Package rank turns a raw vector-similarity candidate into a single
// relevance score. The composition is additive boosts followed by
// multiplicative demotions; step order is load-bearing because the
// demotions must apply to the fully accumulated additive score.
package rank

import (
	"regexp"
	"strings"

	"github.com/mdbplc/advisor/common/textutil"
	"github.com/mdbplc/advisor/config"
	"github.com/mdbplc/advisor/schema"
)

// Scorer computes the multi-factor relevance score for one document.
// It is immutable after construction and safe for concurrent use.
type Scorer struct {
	categories     map[string]config.Category
	aliases        []config.AliasPair
	canonicalNames []string
	personnel      map[string][]string
	bonusKeywords  map[string]float64
	productQueries []string
}

// NewScorer builds a scorer over the configured domain tables.
func NewScorer(tables *config.Tables) *Scorer {
	cats := make(map[string]config.Category, len(tables.Categories))
	for _, c := range tables.Categories {
		cats[c.Name] = c
	}
	return &Scorer{
		categories:     cats,
		aliases:        tables.OrderedAliases(),
		canonicalNames: tables.CanonicalNames(),
		personnel:      tables.Personnel,
		bonusKeywords:  tables.BonusKeywords,
		productQueries: tables.ProductQueries,
	}
}

var (
	whatIsRe = regexp.MustCompile(`^what is\s+.*\??$`)

	managementRoleTokens = []string{"cto", "md", "ceo", "chairman", "dmd", "cro", "senior executive"}

	compoundMarkers = []string{"vision", "mission", "chairman", "logo", "md", "values", "green banking", "profile"}

	servicePhrasePatterns = []*regexp.Regexp{
		regexp.MustCompile(`what is midland online`),
		regexp.MustCompile(`services available`),
		regexp.MustCompile(`key services`),
		regexp.MustCompile(`list of services`),
		regexp.MustCompile(`special features of mdb agent banking`),
		regexp.MustCompile(`prohibited activities`),
		regexp.MustCompile(`features of agent banking`),
		regexp.MustCompile(`services provided by agent banking`),
	}

	serviceQueryTriggers = []string{
		"services", "what services", "list services", "service provided",
		"what are the services", "features of agent banking",
	}
)

// Score computes the relevance score for doc against query. queryCategory
// is the classifier result for the query; categoriesFound is the shared
// per-document category presence computed by the orchestrator.
func (s *Scorer) Score(doc schema.Document, query, queryCategory string, categoriesFound []string) float64 {
	queryLower := strings.ToLower(query)
	docLower := strings.ToLower(doc.Content)
	titleLower := strings.ToLower(doc.Metadata.Title)
	sectionLower := strings.ToLower(doc.Metadata.Section)

	queryTerms := termSet(queryLower)

	// 1. Base semantic score from distance; max 10 for a perfect match,
	// falling off as distance grows.
	score := maxf(0, (1-doc.Distance/1.5)*10.0)

	// 2. Lexical overlap.
	docTerms := termSet(docLower)
	overlap, exact := 0, 0
	for term := range queryTerms {
		if _, ok := docTerms[term]; ok {
			overlap++
		}
		if strings.Contains(docLower, term) {
			exact++
		}
	}
	score += float64(overlap)*0.75 + float64(exact)*1.0

	// 3. Proximity of query terms inside the document.
	score += s.proximityScore(queryTerms, docLower)

	// 4. Exact-phrase boosts.
	if strings.Contains(docLower, queryLower) {
		score += 100.0
	}
	if titleLower != "" && strings.Contains(titleLower, queryLower) {
		score += 150.0
	}

	// 5. Category alignment.
	if queryCategory != "" {
		if containsStr(categoriesFound, queryCategory) {
			score += 15.0
			if s.categories[queryCategory].Exclusive {
				score += 5.0
			}
		} else if len(categoriesFound) > 0 {
			sum := 0.0
			for _, cat := range categoriesFound {
				sum += s.categories[cat].Weight
			}
			score += sum * 2.0
		}
	}

	// 6. Personnel boost for management-flavored queries; applied once.
	if queryCategory == "management" || containsAnySubstring(queryLower, managementRoleTokens) {
		score += s.personnelBoost(queryLower, docLower)
	}

	// 7. Product-alias boost; at most one path per call.
	score += s.aliasBoost(queryLower, queryCategory, docLower)

	// 8. Variant mismatch: a "plus" variant document for a base-product query.
	if strings.Contains(docLower, "plus") && !strings.Contains(queryLower, "plus") {
		score *= 0.9
	}

	// 9. Title cross-check for a mentioned alias; applied once.
	if titleLower != "" {
		for _, pair := range s.aliases {
			aliasLower := strings.ToLower(pair.Alias)
			canonLower := strings.ToLower(pair.Canonical)
			if (strings.Contains(queryLower, aliasLower) || strings.Contains(queryLower, canonLower)) &&
				(strings.Contains(titleLower, aliasLower) || strings.Contains(titleLower, canonLower)) {
				score += 50.0
				break
			}
		}
	}

	// 10. Generic-heading demotion: compound "about us" chunks in general
	// sections crowd out specific answers.
	hits := 0
	for _, kw := range compoundMarkers {
		if strings.Contains(docLower, kw) {
			hits++
		}
	}
	if hits >= 4 && sectionLower == "general" {
		score *= 0.6
	}

	// 11. Vice-chairman edge cases. Chairman-only chunks must not absorb
	// further boosts for a vice-chairman query.
	if queryCategory == "management" && strings.Contains(queryLower, "vice chairman") {
		if !strings.Contains(docLower, "vice chairman") && !strings.Contains(docLower, "vice-chairman") {
			return maxf(0, score)
		}
		if strings.Contains(docLower, "message from chairman") {
			score *= 0.7
		}
	}

	// 12. Clean board chunks outrank everything of comparable score.
	if sectionLower == "board of directors" {
		score += 200.0
	}

	// 13. Sponsor handling.
	score = s.sponsorAdjust(score, queryCategory, sectionLower, docLower)

	// 14. Generality penalty: broad "what is X" digital queries should not
	// land on product-dense pages.
	if queryCategory == "digital" && whatIsRe.MatchString(queryLower) {
		mentions := 0
		for _, name := range s.canonicalNames {
			if textutil.ContainsWord(docLower, name) {
				mentions++
			}
		}
		if mentions >= 3 {
			score *= 0.5
		} else if mentions >= 1 {
			score *= 0.8
		}
	}

	// 15. Service-query boosts.
	score += s.serviceBoost(queryLower, docLower, titleLower)

	// 16. Bonus keywords.
	for kw, bonus := range s.bonusKeywords {
		if strings.Contains(docLower, kw) {
			score += bonus * 2.0
		}
	}

	return maxf(0, score)
}

// proximityScore rewards query terms clustered close together. Terms
// match by containment inside tokens so inflected forms still count.
func (s *Scorer) proximityScore(queryTerms map[string]struct{}, docLower string) float64 {
	if len(queryTerms) <= 1 {
		return 0
	}
	terms := make([]string, 0, len(queryTerms))
	for t := range queryTerms {
		terms = append(terms, t)
	}
	positions := textutil.WordPositions(strings.Fields(docLower), terms)
	if len(positions) <= 1 {
		return 0
	}
	minDist := -1
	for t1, p1 := range positions {
		for t2, p2 := range positions {
			if t1 == t2 {
				continue
			}
			for _, a := range p1 {
				for _, b := range p2 {
					d := a - b
					if d < 0 {
						d = -d
					}
					if minDist < 0 || d < minDist {
						minDist = d
					}
				}
			}
		}
	}
	if minDist < 0 {
		// Terms present but never pairable.
		return 5.0 * 0.25
	}
	return 5.0 / (1.0 + float64(minDist))
}

func (s *Scorer) personnelBoost(queryLower, docLower string) float64 {
	for person, roles := range s.personnel {
		queryMentionsPerson := strings.Contains(queryLower, person)
		queryMentionsRole := containsAnySubstring(queryLower, roles)
		if !queryMentionsPerson && !queryMentionsRole {
			continue
		}
		if strings.Contains(docLower, person) && containsAnySubstring(docLower, roles) {
			return 70.0
		}
	}
	return 0
}

// aliasBoost applies exactly one of the alias-boost paths: a full +200
// when the query is exactly a known alias or canonical name present in the
// document, or a mention-level boost otherwise.
func (s *Scorer) aliasBoost(queryLower, queryCategory, docLower string) float64 {
	normalized := strings.TrimSpace(queryLower)
	for _, pair := range s.aliases {
		aliasLower := strings.ToLower(pair.Alias)
		canonLower := strings.ToLower(pair.Canonical)
		if normalized != aliasLower && normalized != canonLower {
			continue
		}
		if textutil.ContainsWord(docLower, aliasLower) || textutil.ContainsWord(docLower, canonLower) {
			return 200.0
		}
	}

	for _, pair := range s.aliases {
		aliasLower := strings.ToLower(pair.Alias)
		canonLower := strings.ToLower(pair.Canonical)
		if !strings.Contains(queryLower, aliasLower) && !strings.Contains(queryLower, canonLower) {
			continue
		}
		if textutil.ContainsWord(docLower, aliasLower) || textutil.ContainsWord(docLower, canonLower) {
			boost := 100.0
			if s.isProductCategory(queryCategory) || s.isGeneralProductQuery(queryLower) {
				boost += 60.0
			} else {
				boost += 40.0
			}
			return boost
		}
	}
	return 0
}

func (s *Scorer) sponsorAdjust(score float64, queryCategory, sectionLower, docLower string) float64 {
	if queryCategory != "sponsor" {
		return score
	}
	if strings.Contains(sectionLower, "sponsor") || strings.Contains(sectionLower, "founder") {
		return score + 250.0
	}
	if strings.Contains(docLower, "sponsor") {
		return score + 180.0
	}
	for _, kw := range []string{"chairman", "md", "ceo", "executive message"} {
		if strings.Contains(docLower, kw) {
			return score * 0.90
		}
	}
	return score
}

func (s *Scorer) serviceBoost(queryLower, docLower, titleLower string) float64 {
	if !containsAnySubstring(queryLower, serviceQueryTriggers) {
		return 0
	}
	boost := 0.0
	for _, pat := range servicePhrasePatterns {
		if pat.MatchString(docLower) {
			boost += 7.0
		}
	}
	if strings.Contains(queryLower, "prohibited") && strings.Contains(docLower, "prohibited activities") {
		boost += 10.0
	}
	if strings.Contains(queryLower, "services") || strings.Contains(queryLower, "features") {
		if strings.Contains(titleLower, "services available") ||
			strings.Contains(titleLower, "special features") ||
			strings.Contains(titleLower, "prohibited activities") {
			boost += 1.0
		}
	}
	return boost
}

func (s *Scorer) isProductCategory(category string) bool {
	switch category {
	case "savings", "loans", "cards", "islamic":
		return true
	}
	return false
}

func (s *Scorer) isGeneralProductQuery(queryLower string) bool {
	return containsAnySubstring(queryLower, s.productQueries)
}

func termSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		out[t] = struct{}{}
	}
	return out
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsAnySubstring(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
