package textutil

import (
	"regexp"
	"strings"
	"sync"
)

// regexpCache memoizes compiled word-boundary patterns. Keyword tables are
// fixed after startup so the cache stays bounded in practice.
type regexpCache struct {
	mu sync.RWMutex
	m  map[string]*regexp.Regexp
}

func newRegexpCache() *regexpCache {
	return &regexpCache{m: make(map[string]*regexp.Regexp)}
}

func (c *regexpCache) get(pattern string) *regexp.Regexp {
	c.mu.RLock()
	re, ok := c.m[pattern]
	c.mu.RUnlock()
	if ok {
		return re
	}
	re = regexp.MustCompile(pattern)
	c.mu.Lock()
	c.m[pattern] = re
	c.mu.Unlock()
	return re
}

// Ratio returns a 0-100 similarity score between two strings based on
// Levenshtein distance over lowercased input.
func Ratio(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 100
	}
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}
	d := levenshtein(a, b)
	return int(100 * (1 - float64(d)/float64(max(la, lb))))
}

// PartialRatio returns the best Ratio between the shorter string and any
// equally-sized window of the longer one.
func PartialRatio(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		return 0
	}
	if strings.Contains(longer, shorter) {
		return 100
	}
	best := 0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		if r := Ratio(shorter, longer[i:i+len(shorter)]); r > best {
			best = r
		}
	}
	return best
}

// CloseMatch returns the candidate most similar to s, provided its
// similarity meets cutoff (0-100). Empty string means no match.
func CloseMatch(s string, candidates []string, cutoff int) string {
	best, bestScore := "", cutoff-1
	for _, c := range candidates {
		if r := Ratio(s, c); r > bestScore {
			best, bestScore = c, r
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, min(cur[j-1]+1, prev[j-1]+cost))
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
