package textutil

import (
	"regexp"
	"strings"
)

var defaultBoardKeywords = []string{
	"board of directors", "director", "chairman", "vice chairman",
	"independent director", "board member", "sponsor director",
}

var defaultSponsorKeywords = []string{
	"sponsor of midland bank", "sponsor", "sponsors",
	"sponsor director", "founder", "founding member",
	"sponsor shareholders",
}

// ExtractManagementSentences keeps the sentences mentioning any of the
// given role keywords on a word boundary.
func ExtractManagementSentences(context string, roleKeywords []string) string {
	var relevant []string
	for _, sentence := range Default.SplitSentencesPunct(context) {
		for _, role := range roleKeywords {
			if ContainsWord(sentence, role) {
				relevant = append(relevant, strings.TrimSpace(sentence))
				break
			}
		}
	}
	return strings.Join(relevant, "\n")
}

var honorificRe = regexp.MustCompile(`(\w)(Mr\.|Mrs\.|Ms\.|Dr\.|Md\.|Master)`)

// NormalizeBlockSpacing inserts a line break before honorific-prefixed
// names that run directly into the preceding word. Director rosters often
// arrive as one unbroken block of concatenated name lines.
func NormalizeBlockSpacing(s string) string {
	return honorificRe.ReplaceAllString(s, "$1\n$2")
}

// ExtractBoardSentences keeps the deduplicated lines mentioning board
// roles. Lines are split on terminal punctuation or newlines.
func ExtractBoardSentences(context string, boardKeywords []string) string {
	if boardKeywords == nil {
		boardKeywords = defaultBoardKeywords
	}
	context = NormalizeBlockSpacing(context)
	context = DedupLines(context)

	var relevant []string
	seen := map[string]struct{}{}
	for _, line := range splitSentencesOrLines(context) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, role := range boardKeywords {
			if ContainsWord(line, role) {
				if _, dup := seen[line]; !dup {
					seen[line] = struct{}{}
					relevant = append(relevant, line)
				}
				break
			}
		}
	}
	return strings.Join(relevant, "\n")
}

// ExtractSponsorSentences keeps the blocks mentioning sponsors or
// founders. When no individual block matches but the context does, the
// whole context is returned.
func ExtractSponsorSentences(context string, sponsorKeywords []string) string {
	if sponsorKeywords == nil {
		sponsorKeywords = defaultSponsorKeywords
	}
	contextLower := strings.ToLower(context)

	var relevant []string
	seen := map[string]struct{}{}
	for _, block := range strings.Split(strings.TrimSpace(context), "\n") {
		blockLower := strings.ToLower(block)
		for _, k := range sponsorKeywords {
			if strings.Contains(blockLower, k) {
				clean := strings.TrimSpace(block)
				if clean == "" {
					break
				}
				if _, dup := seen[clean]; !dup {
					seen[clean] = struct{}{}
					relevant = append(relevant, clean)
				}
				break
			}
		}
	}
	if len(relevant) == 0 {
		for _, k := range sponsorKeywords {
			if strings.Contains(contextLower, k) {
				return strings.TrimSpace(context)
			}
		}
		return ""
	}
	return strings.Join(relevant, "\n")
}

// ExtractTargetPhrases keeps the sentences containing any target phrase.
func ExtractTargetPhrases(context string, targetPhrases []string) string {
	var relevant []string
	for _, sentence := range Default.SplitSentencesPunct(context) {
		lower := strings.ToLower(sentence)
		for _, phrase := range targetPhrases {
			if strings.Contains(lower, strings.ToLower(phrase)) {
				relevant = append(relevant, strings.TrimSpace(sentence))
				break
			}
		}
	}
	return strings.Join(relevant, "\n")
}

func splitSentencesOrLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, Default.SplitSentencesPunct(line)...)
	}
	return out
}
