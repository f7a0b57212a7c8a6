package llm

import (
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/mdbplc/advisor/common/logger"
	"github.com/mdbplc/advisor/schema"
)

const (
	// historyWindow bounds how many stored messages ride along with each
	// generation call.
	historyWindow = 20
	// truncateFloor is the earliest character position a sentence-boundary
	// cut is accepted at.
	truncateFloor = 1000
)

// BuildMessageList assembles the ordered message list for one generation
// call: system prompt, bounded history, the user turn, then one trailing
// system note carrying the truncated retrieved context.
func BuildMessageList(systemPrompt string, history []schema.ChatMessage, userMessage, contextBlob string, maxContextChars int) []schema.ChatMessage {
	messages := make([]schema.ChatMessage, 0, len(history)+3)
	messages = append(messages, schema.ChatMessage{Role: schema.RoleSystem, Content: systemPrompt})
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	messages = append(messages, history...)
	messages = append(messages, schema.ChatMessage{Role: schema.RoleUser, Content: userMessage, Timestamp: time.Now()})
	if contextBlob != "" {
		note := "Relevant bank information:\n" + TruncateContext(contextBlob, maxContextChars)
		messages = append(messages, schema.ChatMessage{Role: schema.RoleSystem, Content: note})
	}
	return messages
}

// TruncateContext caps the context blob at maxChars. Oversized blobs are
// cut at the last sentence boundary at or after the floor position, or
// hard-cut with an ellipsis marker when no boundary qualifies.
func TruncateContext(s string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = 4000
	}
	if len(s) <= maxChars {
		return s
	}
	logger.Debugf("llm: truncating context of %d chars (~%d tokens) to %d", len(s), CountTokens(s), maxChars)
	head := s[:maxChars]
	if idx := strings.LastIndex(head, "."); idx >= truncateFloor {
		return head[:idx+1]
	}
	return head + " ..."
}

// CountTokens estimates the token footprint of text under the cl100k_base
// encoding. Returns 0 when the encoding tables are unavailable.
func CountTokens(text string) int {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return 0
	}
	return len(enc.Encode(text, nil, nil))
}
