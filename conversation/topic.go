package conversation

import (
	"regexp"
	"strings"
)

// Short phrasings that signal a follow-up to the active topic rather than
// a new subject.
var followUpKeywords = []string{
	"its features", "eligibility", "requirements", "needed",
	"documents", "interest rate", "where to get", "benefits",
	"how to apply", "how does it work", "what are the benefits",
	"can i apply", "tell me more", "explain its features", "next steps",
	"what's the process", "application process", "open it", "what about it",
	"what's next", "i want to know more", "i want to apply",
	"guide me", "more info", "details please",
}

var (
	currencyReplyRe = regexp.MustCompile(`^(bdt|taka)?\s?[\d,.]+( years?)?$`)
	numericReplyRe  = regexp.MustCompile(`^[\d,.]+\s?(years?)?$`)
	topicPatternRe  = regexp.MustCompile(`(what is|tell me about|explain|define)\s+(.*?)($|\s(and|with)\s)`)
	clauseSplitRe   = regexp.MustCompile(`\s+and\s+|\s*,\s*`)
)

var productNouns = []string{"account", "saver", "loan", "card", "deposit"}

// ExtractTopic pulls a topic from a user message. An empty result means
// the message is a follow-up or a bare parameter and the previous topic
// should be retained.
func ExtractTopic(message string) string {
	lower := strings.ToLower(strings.TrimSpace(message))

	// Numeric or currency-like replies are slot values, not topics.
	if currencyReplyRe.MatchString(lower) || numericReplyRe.MatchString(lower) {
		return ""
	}
	words := strings.Fields(lower)
	if len(words) <= 2 && strings.ContainsAny(lower, "0123456789") {
		return ""
	}
	if len(words) < 6 {
		for _, k := range followUpKeywords {
			if strings.Contains(lower, k) {
				return ""
			}
		}
	}

	if m := topicPatternRe.FindStringSubmatch(lower); m != nil {
		return strings.TrimSpace(m[2])
	}

	for _, part := range clauseSplitRe.Split(lower, -1) {
		for _, noun := range productNouns {
			if strings.Contains(part, noun) {
				return strings.TrimSpace(part)
			}
		}
	}

	return lower
}
