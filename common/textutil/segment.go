package textutil

import (
	"regexp"
	"strings"
)

// Segmenter isolates the string heuristics used by the classifier, scorer
// and conversation manager so they stay unit-testable on their own.
type Segmenter interface {
	Tokenize(s string) []string
	SplitSentences(s string) []string
	SplitSentencesPunct(s string) []string
	ContainsWord(text, word string) bool
}

// Default is the shared segmenter implementation.
var Default Segmenter = basicSegmenter{}

type basicSegmenter struct{}

var spaceRe = regexp.MustCompile(`\s+`)

// Tokenize lowercases and splits on whitespace.
func (basicSegmenter) Tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// SplitSentences splits content on periods. This mirrors the knowledge-base
// chunk format, where sentences are period-terminated prose.
func (basicSegmenter) SplitSentences(s string) []string {
	return strings.Split(s, ".")
}

// SplitSentencesPunct splits after terminal punctuation followed by space.
// The punctuation stays with its sentence. A period closing a single-letter
// initial or an honorific (Mr., Md., Dr.) does not end a sentence, so names
// like "A. Rahman" survive intact.
func (basicSegmenter) SplitSentencesPunct(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '.' && c != '?' && c != '!' {
			continue
		}
		if i+1 >= len(s) || !isSpaceByte(s[i+1]) {
			continue
		}
		if c == '.' && endsWithAbbreviation(s[start:i]) {
			continue
		}
		out = append(out, strings.TrimSpace(s[start:i+1]))
		j := i + 1
		for j < len(s) && isSpaceByte(s[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(s) {
		out = append(out, strings.TrimSpace(s[start:]))
	}
	return out
}

var abbrevTokens = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "md": {}, "prof": {},
}

// endsWithAbbreviation reports whether the text before a period ends in a
// single-letter initial or a known honorific.
func endsWithAbbreviation(prefix string) bool {
	i := strings.LastIndexAny(prefix, " \t\n")
	tok := prefix[i+1:]
	if len(tok) == 1 && isLetterByte(tok[0]) {
		return true
	}
	_, ok := abbrevTokens[strings.ToLower(tok)]
	return ok
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isLetterByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// ContainsWord reports whether word occurs in text on word boundaries,
// case-insensitively.
func (basicSegmenter) ContainsWord(text, word string) bool {
	return ContainsWord(text, word)
}

var wordReCache = newRegexpCache()

// ContainsWord reports whether word occurs in text on word boundaries,
// case-insensitively.
func ContainsWord(text, word string) bool {
	if word == "" {
		return false
	}
	re := wordRexp(word)
	return re.MatchString(text)
}

// FindAllWord returns all word-boundary occurrences of word in text.
func FindAllWord(text, word string) [][]int {
	if word == "" {
		return nil
	}
	return wordRexp(word).FindAllStringIndex(text, -1)
}

func wordRexp(word string) *regexp.Regexp {
	return wordReCache.get(`(?i)\b` + regexp.QuoteMeta(strings.ToLower(word)) + `\b`)
}

// WordPositions records, per term, the token indexes where the term occurs
// inside a token. Containment rather than equality matches inflected forms
// ("savings" inside "savings," or "saver" inside "supersaver").
func WordPositions(tokens []string, terms []string) map[string][]int {
	positions := make(map[string][]int)
	for i, tok := range tokens {
		for _, term := range terms {
			if strings.Contains(tok, term) {
				positions[term] = append(positions[term], i)
			}
		}
	}
	return positions
}

// NormalizeSpace collapses runs of whitespace and trims.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// NormalizeMessage lowercases, strips punctuation and expands the short
// chat abbreviations users type ("u", "pls", ...).
func NormalizeMessage(s string) string {
	s = strings.ToLower(s)
	s = nonWordRe.ReplaceAllString(s, "")
	s = NormalizeSpace(s)

	replacements := map[string]string{
		"u":   "you",
		"r":   "are",
		"ur":  "your",
		"pls": "please",
		"thx": "thanks",
	}
	words := strings.Fields(s)
	for i, w := range words {
		if rep, ok := replacements[w]; ok {
			words[i] = rep
		}
	}
	return strings.Join(words, " ")
}

// DedupLines drops duplicate non-empty lines while keeping order.
func DedupLines(s string) string {
	seen := make(map[string]struct{})
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
