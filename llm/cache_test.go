package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mdbplc/advisor/cache"
	"github.com/mdbplc/advisor/schema"
)

type countingProvider struct {
	reply string
	err   error
	calls int
}

func (p *countingProvider) GetProviderType() string { return "counting" }

func (p *countingProvider) Chat(ctx context.Context, messages []schema.ChatMessage) (string, error) {
	p.calls++
	return p.reply, p.err
}

func TestCachedProviderMemoizes(t *testing.T) {
	inner := &countingProvider{reply: "Kotipoti is a savings scheme."}
	p := WithCache(inner, cache.NewLRU(8), time.Minute)

	messages := []schema.ChatMessage{
		{Role: schema.RoleSystem, Content: "sys"},
		{Role: schema.RoleUser, Content: "what is kotipoti"},
	}
	for i := 0; i < 3; i++ {
		out, err := p.Chat(context.Background(), messages)
		if err != nil || out != inner.reply {
			t.Fatalf("got (%q, %v)", out, err)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("inner provider called %d times, want 1", inner.calls)
	}
}

func TestCachedProviderDistinguishesPrompts(t *testing.T) {
	inner := &countingProvider{reply: "ok"}
	p := WithCache(inner, cache.NewLRU(8), time.Minute)

	a := []schema.ChatMessage{{Role: schema.RoleUser, Content: "interest rate"}}
	b := []schema.ChatMessage{{Role: schema.RoleUser, Content: "tenure"}}
	p.Chat(context.Background(), a)
	p.Chat(context.Background(), b)

	if inner.calls != 2 {
		t.Fatalf("distinct prompts must not share cache entries, got %d calls", inner.calls)
	}
}

func TestCachedProviderSkipsCachingOnError(t *testing.T) {
	inner := &countingProvider{err: errors.New("backend down")}
	p := WithCache(inner, cache.NewLRU(8), time.Minute)

	messages := []schema.ChatMessage{{Role: schema.RoleUser, Content: "q"}}
	if _, err := p.Chat(context.Background(), messages); err == nil {
		t.Fatalf("expected error")
	}
	inner.err = nil
	inner.reply = "recovered"
	out, err := p.Chat(context.Background(), messages)
	if err != nil || out != "recovered" {
		t.Fatalf("got (%q, %v)", out, err)
	}
	if inner.calls != 2 {
		t.Fatalf("error responses must not be cached, got %d calls", inner.calls)
	}
}
