package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadOverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  addr: \":9090\"\nvectordb:\n  provider: chroma\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("addr override lost: %q", cfg.Server.Addr)
	}
	if cfg.VectorDB.Provider != "chroma" {
		t.Fatalf("provider override lost: %q", cfg.VectorDB.Provider)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Fatalf("unset fields must fall back to defaults, top_k = %d", cfg.Retrieval.TopK)
	}
	if len(cfg.Tables.Categories) == 0 {
		t.Fatalf("domain tables must be filled when omitted")
	}
}

func TestValidateRejectsUnknownProviders(t *testing.T) {
	cfg := Default()
	cfg.VectorDB.Provider = "pinecone"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("unknown vectordb provider must be rejected")
	}

	cfg = Default()
	cfg.Session.Provider = "redis"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("redis without redis_addr must be rejected")
	}
}

func TestValidateRejectsBadTables(t *testing.T) {
	cfg := Default()
	cfg.Tables.Categories = append(cfg.Tables.Categories, Category{Name: "savings", Keywords: []string{"x"}, Weight: 1})
	if err := cfg.Validate(); err == nil {
		t.Fatalf("duplicate category must be rejected")
	}

	cfg = Default()
	cfg.Tables.Categories[0].Weight = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("non-positive weight must be rejected")
	}
}

func TestOrderedAliasesLongestFirst(t *testing.T) {
	tables := Tables{ProductAliases: map[string]string{
		"saver":        "MDB Saver",
		"school saver": "MDB School Saver",
		"kotipoti":     "MDB Kotipoti",
	}}
	pairs := tables.OrderedAliases()
	if pairs[0].Alias != "mdb school saver" {
		t.Fatalf("longest alias must sort first, got %q", pairs[0].Alias)
	}
	for i := 1; i < len(pairs); i++ {
		if len(pairs[i].Alias) > len(pairs[i-1].Alias) {
			t.Fatalf("aliases out of length order: %v", pairs)
		}
	}
}

func TestOrderedAliasesSelfEntries(t *testing.T) {
	tables := DefaultTables()
	byAlias := map[string]string{}
	for _, p := range tables.OrderedAliases() {
		byAlias[p.Alias] = p.Canonical
	}
	for _, canonical := range tables.CanonicalNames() {
		if got := byAlias[strings.ToLower(canonical)]; got != canonical {
			t.Fatalf("canonical %q must alias itself, got %q", canonical, got)
		}
	}
}

func TestOrderedAliasesDeterministic(t *testing.T) {
	tables := DefaultTables()
	a := tables.OrderedAliases()
	b := tables.OrderedAliases()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("ordering must be stable across calls, diverged at %d", i)
		}
	}
}
