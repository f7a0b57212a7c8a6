package conversation

import (
	"strings"

	"github.com/mdbplc/advisor/common/textutil"
	"github.com/mdbplc/advisor/config"
	"github.com/mdbplc/advisor/query"
	"github.com/mdbplc/advisor/schema"
)

// State names the conversation slot-filling states. The machine is
// re-entrant per topic: location_received behaves like idle for new topics.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingLocation State = "awaiting_location"
	StateLocationReceived State = "location_received"
)

// LocationPrompt is emitted when a location-seeking query arrives without
// a known location.
const LocationPrompt = "Share your area or city, and I’ll list the closest branches."

// historyCap bounds stored history to 10 turns (20 messages).
const historyCap = 20

// Manager holds the per-message conversation heuristics: greeting lookup,
// banking-relevance gating, topic continuity and slot transitions.
type Manager struct {
	tables     *config.Tables
	classifier *query.Classifier
}

func NewManager(tables *config.Tables, classifier *query.Classifier) *Manager {
	return &Manager{tables: tables, classifier: classifier}
}

// GreetingReply answers canned greetings without retrieval. The lookup is
// fuzzy so "helo" and "hi!" still match.
func (m *Manager) GreetingReply(message string) (string, bool) {
	normalized := textutil.NormalizeMessage(message)
	keys := make([]string, 0, len(m.tables.Greetings))
	for k := range m.tables.Greetings {
		keys = append(keys, k)
	}
	if match := textutil.CloseMatch(normalized, keys, 60); match != "" {
		return m.tables.Greetings[match], true
	}
	return "", false
}

// IsBankingRelated reports whether the message touches any banking keyword.
func (m *Manager) IsBankingRelated(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range m.tables.BankKeywords {
		if textutil.PartialRatio(lower, keyword) > 60 {
			return true
		}
	}
	return false
}

// WantsLocation classifies the raw message and reports whether it should
// trigger the location slot prompt.
func (m *Manager) WantsLocation(message string) bool {
	category, _ := m.classifier.Classify(message)
	return category == "location"
}

// ResolveTopic merges the extracted topic with the session's previous one.
// switched is true when the active topic changed, which resets history.
func (m *Manager) ResolveTopic(message, previous string) (topic string, switched bool) {
	extracted := ExtractTopic(message)
	if extracted == "" {
		return previous, false
	}
	if previous != "" && !strings.EqualFold(extracted, previous) {
		return extracted, true
	}
	return extracted, false
}

// TrimHistory keeps the newest historyCap messages.
func TrimHistory(history []schema.ChatMessage) []schema.ChatMessage {
	if len(history) > historyCap {
		return history[len(history)-historyCap:]
	}
	return history
}

// TruncateOnSwitch keeps only the last two messages when the topic changes,
// so stale context does not bleed into the new subject.
func TruncateOnSwitch(history []schema.ChatMessage) []schema.ChatMessage {
	if len(history) > 2 {
		return history[len(history)-2:]
	}
	return history
}

// LastAssistantMessage returns the newest assistant turn, or "".
func LastAssistantMessage(history []schema.ChatMessage) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == schema.RoleAssistant {
			return history[i].Content
		}
	}
	return ""
}

// FilterLocationLines keeps only context lines mentioning the slot value or
// the bank itself.
func FilterLocationLines(contextBlob, location string) string {
	loc := strings.ToLower(strings.TrimSpace(location))
	var kept []string
	for _, line := range strings.Split(contextBlob, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, loc) || strings.Contains(lower, "midland bank") {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
