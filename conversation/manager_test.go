package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mdbplc/advisor/config"
	"github.com/mdbplc/advisor/query"
	"github.com/mdbplc/advisor/schema"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	tables := config.DefaultTables()
	return NewManager(&tables, query.NewClassifier(&tables))
}

func TestGreetingReplyFuzzy(t *testing.T) {
	m := newTestManager(t)

	for _, msg := range []string{"hello", "Hello!", "helo"} {
		if _, ok := m.GreetingReply(msg); !ok {
			t.Fatalf("expected a greeting reply for %q", msg)
		}
	}
	if _, ok := m.GreetingReply("what is the interest rate of kotipoti"); ok {
		t.Fatalf("a product question must not match a greeting")
	}
}

func TestIsBankingRelated(t *testing.T) {
	m := newTestManager(t)

	if !m.IsBankingRelated("how do I open a savings account") {
		t.Fatalf("savings query should be banking related")
	}
	if m.IsBankingRelated("xkcd qwholly zzyzx") {
		t.Fatalf("nonsense should not be banking related")
	}
}

func TestWantsLocation(t *testing.T) {
	m := newTestManager(t)

	if !m.WantsLocation("where is the nearest branch") {
		t.Fatalf("branch query should trigger the location slot")
	}
	if m.WantsLocation("tell me about kotipoti savings") {
		t.Fatalf("product query must not trigger the location slot")
	}
}

func TestTrimHistoryBound(t *testing.T) {
	var history []schema.ChatMessage
	for i := 0; i < 30; i++ {
		history = append(history, schema.ChatMessage{Role: schema.RoleUser, Content: fmt.Sprintf("msg %d", i)})
	}
	trimmed := TrimHistory(history)
	if len(trimmed) != 20 {
		t.Fatalf("history cap is 20 messages, got %d", len(trimmed))
	}
	if trimmed[len(trimmed)-1].Content != "msg 29" {
		t.Fatalf("newest message must survive trimming")
	}
}

func TestTruncateOnSwitch(t *testing.T) {
	history := []schema.ChatMessage{
		{Content: "a"}, {Content: "b"}, {Content: "c"}, {Content: "d"},
	}
	got := TruncateOnSwitch(history)
	if len(got) != 2 || got[0].Content != "c" || got[1].Content != "d" {
		t.Fatalf("topic switch must keep only the last two messages, got %+v", got)
	}
}

func TestFilterLocationLines(t *testing.T) {
	blob := "Midland Bank Gulshan Branch, open 10-4.\nUnrelated marketing copy.\nSylhet outlet address here."
	got := FilterLocationLines(blob, "Sylhet")
	if !strings.Contains(got, "Sylhet outlet") {
		t.Fatalf("location line missing: %q", got)
	}
	if strings.Contains(got, "marketing copy") {
		t.Fatalf("non-matching line kept: %q", got)
	}
	if !strings.Contains(got, "Midland Bank Gulshan") {
		t.Fatalf("bank-named lines are always kept: %q", got)
	}
}

type scriptedProvider struct {
	reply string
	err   error
	calls int
}

func (p *scriptedProvider) GetProviderType() string { return "scripted" }

func (p *scriptedProvider) Chat(ctx context.Context, messages []schema.ChatMessage) (string, error) {
	p.calls++
	return p.reply, p.err
}

func TestReframeRejection(t *testing.T) {
	p := &scriptedProvider{}
	got, ok := Reframe(context.Background(), p, "no", "MDB Savings", "Want to hear more?")
	if !ok || got != ClosingRemark {
		t.Fatalf("rejection must short-circuit, got (%q, %v)", got, ok)
	}
	if p.calls != 0 {
		t.Fatalf("rejection must not call the generator")
	}
}

func TestReframePronounSubstitution(t *testing.T) {
	p := &scriptedProvider{}
	got, ok := Reframe(context.Background(), p, "how do I open it", "MDB Savings", "")
	if !ok || got != "how do i open MDB Savings" {
		t.Fatalf("got (%q, %v)", got, ok)
	}
	if p.calls != 0 {
		t.Fatalf("pronoun substitution must not call the generator")
	}
}

func TestReframeConfirmationUsesGenerator(t *testing.T) {
	p := &scriptedProvider{reply: "Please explain the features of MDB Savings."}
	got, ok := Reframe(context.Background(), p, "yes", "MDB Savings", "Would you like to know more?")
	if !ok || got != "Please explain the features of MDB Savings." {
		t.Fatalf("got (%q, %v)", got, ok)
	}
	if p.calls != 1 {
		t.Fatalf("confirmation should call the generator once, got %d", p.calls)
	}
}

func TestReframeConfirmationFallback(t *testing.T) {
	p := &scriptedProvider{err: errors.New("llm down")}
	got, ok := Reframe(context.Background(), p, "yes", "MDB Savings", "")
	if !ok || got != "Please continue explaining about MDB Savings." {
		t.Fatalf("got (%q, %v)", got, ok)
	}
}

func TestReframeNoTopicNoRewrite(t *testing.T) {
	p := &scriptedProvider{}
	if _, ok := Reframe(context.Background(), p, "yes", "", ""); ok {
		t.Fatalf("no topic means no reframing")
	}
}

func TestReframeOrdinaryMessagePassesThrough(t *testing.T) {
	p := &scriptedProvider{}
	if _, ok := Reframe(context.Background(), p, "what are the branch hours", "MDB Savings", ""); ok {
		t.Fatalf("ordinary message must not be reframed")
	}
}
