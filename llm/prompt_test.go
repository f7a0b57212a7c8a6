package llm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mdbplc/advisor/schema"
)

func TestTruncateContextPassthrough(t *testing.T) {
	s := "short context."
	if got := TruncateContext(s, 4000); got != s {
		t.Fatalf("under-limit context must pass through unchanged")
	}
}

func TestTruncateContextSentenceBoundary(t *testing.T) {
	// 1200 chars of sentences, then a long unterminated tail that pushes
	// past the limit.
	var b strings.Builder
	for b.Len() < 1200 {
		b.WriteString("The savings scheme pays monthly interest. ")
	}
	blob := b.String() + strings.Repeat("x", 4000)

	got := TruncateContext(blob, 2000)
	if !strings.HasSuffix(got, ".") {
		t.Fatalf("cut must land on a sentence boundary, got tail %q", got[len(got)-20:])
	}
	if len(got) > 2000 {
		t.Fatalf("truncated context exceeds limit: %d", len(got))
	}
}

func TestTruncateContextHardCut(t *testing.T) {
	// No period anywhere, so only the hard cut applies.
	blob := strings.Repeat("x", 5000)
	got := TruncateContext(blob, 2000)
	if !strings.HasSuffix(got, " ...") {
		t.Fatalf("hard cut must append an ellipsis marker")
	}
	if len(got) != 2004 {
		t.Fatalf("hard cut length = %d, want 2004", len(got))
	}
}

func TestTruncateContextEarlyPeriodIgnored(t *testing.T) {
	// A single period before the floor position does not qualify as a
	// boundary cut.
	blob := "Intro." + strings.Repeat("x", 5000)
	got := TruncateContext(blob, 2000)
	if !strings.HasSuffix(got, " ...") {
		t.Fatalf("period below floor must not be used as the cut point")
	}
}

func TestBuildMessageListShape(t *testing.T) {
	history := []schema.ChatMessage{
		{Role: schema.RoleUser, Content: "what is kotipoti"},
		{Role: schema.RoleAssistant, Content: "A monthly savings scheme."},
	}
	messages := BuildMessageList("You are a bank assistant.", history, "what is the tenure", "Kotipoti runs for 10 years.", 4000)

	if len(messages) != 5 {
		t.Fatalf("got %d messages, want 5", len(messages))
	}
	if messages[0].Role != schema.RoleSystem {
		t.Fatalf("first message must be the system prompt")
	}
	if messages[3].Role != schema.RoleUser || messages[3].Content != "what is the tenure" {
		t.Fatalf("user turn misplaced: %+v", messages[3])
	}
	last := messages[len(messages)-1]
	if last.Role != schema.RoleSystem || !strings.HasPrefix(last.Content, "Relevant bank information:\n") {
		t.Fatalf("context note misplaced: %+v", last)
	}
}

func TestBuildMessageListHistoryWindow(t *testing.T) {
	var history []schema.ChatMessage
	for i := 0; i < 30; i++ {
		history = append(history, schema.ChatMessage{Role: schema.RoleUser, Content: fmt.Sprintf("turn %d", i)})
	}
	messages := BuildMessageList("sys", history, "latest", "", 4000)

	// system + 20 history + user turn, no context note.
	if len(messages) != 22 {
		t.Fatalf("got %d messages, want 22", len(messages))
	}
	if messages[1].Content != "turn 10" {
		t.Fatalf("oldest retained history message is %q, want turn 10", messages[1].Content)
	}
}

func TestBuildMessageListNoContextNote(t *testing.T) {
	messages := BuildMessageList("sys", nil, "hello", "", 4000)
	if len(messages) != 2 {
		t.Fatalf("empty context must not add a system note, got %d messages", len(messages))
	}
}
