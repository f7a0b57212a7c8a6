package config

import (
	"fmt"
	"strings"
)

// Validate checks provider names and the table invariants the engine
// depends on. It is called once from Load; components may assume a valid
// config afterwards.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "", "openai":
	default:
		return fmt.Errorf("llm: unsupported provider %q", c.LLM.Provider)
	}
	switch c.Embedding.Provider {
	case "", "openai":
	default:
		return fmt.Errorf("embedding: unsupported provider %q", c.Embedding.Provider)
	}
	switch c.VectorDB.Provider {
	case "", "milvus", "chroma":
	default:
		return fmt.Errorf("vectordb: unsupported provider %q", c.VectorDB.Provider)
	}
	switch c.Session.Provider {
	case "", "memory", "redis":
	default:
		return fmt.Errorf("session: unsupported provider %q", c.Session.Provider)
	}
	if c.Session.Provider == "redis" && c.Session.RedisAddr == "" {
		return fmt.Errorf("session: redis provider requires redis_addr")
	}
	switch c.Cache.Provider {
	case "", "lru", "ttl":
	default:
		return fmt.Errorf("cache: unsupported provider %q", c.Cache.Provider)
	}
	if c.Retrieval.BackoffMaxMs < c.Retrieval.BackoffMinMs {
		return fmt.Errorf("retrieval: backoff_max_ms %d below backoff_min_ms %d",
			c.Retrieval.BackoffMaxMs, c.Retrieval.BackoffMinMs)
	}
	return c.Tables.validate()
}

func (t *Tables) validate() error {
	seen := make(map[string]struct{}, len(t.Categories))
	for _, cat := range t.Categories {
		if cat.Name == "" {
			return fmt.Errorf("tables: category with empty name")
		}
		if _, dup := seen[cat.Name]; dup {
			return fmt.Errorf("tables: duplicate category %q", cat.Name)
		}
		seen[cat.Name] = struct{}{}
		if cat.Weight <= 0 {
			return fmt.Errorf("tables: category %q has non-positive weight %v", cat.Name, cat.Weight)
		}
		if len(cat.Keywords) == 0 {
			return fmt.Errorf("tables: category %q has no keywords", cat.Name)
		}
	}

	// Canonical names must not themselves be aliases of other entries,
	// otherwise normalization would not be idempotent.
	for alias, canonical := range t.ProductAliases {
		if alias == "" || canonical == "" {
			return fmt.Errorf("tables: empty alias table entry")
		}
		lc := strings.ToLower(canonical)
		if other, ok := t.ProductAliases[lc]; ok && other != canonical {
			return fmt.Errorf("tables: canonical %q is itself an alias of %q", canonical, other)
		}
	}

	for person, roles := range t.Personnel {
		if len(roles) == 0 {
			return fmt.Errorf("tables: personnel %q has no roles", person)
		}
	}
	return nil
}
