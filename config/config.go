package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for the advisor engine.
// It is loaded once at startup and treated as immutable afterwards.
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server"`
	LLM       LLMConfig       `json:"llm" yaml:"llm"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	VectorDB  VectorDBConfig  `json:"vectordb" yaml:"vectordb"`
	Session   SessionConfig   `json:"session" yaml:"session"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Tables    Tables          `json:"tables" yaml:"tables"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// LLMConfig defines the text-generation service client.
type LLMConfig struct {
	Provider    string  `json:"provider" yaml:"provider"` // Available options: openai
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// EmbeddingConfig defines the embedding model used for vector search.
type EmbeddingConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // Available options: openai
	APIKey     string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL    string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
	Dimensions int    `json:"dimensions,omitempty" yaml:"dimension,omitempty"`
}

// VectorDBConfig defines the vector-similarity backend.
type VectorDBConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // Available options: milvus, chroma
	Host       string `json:"host,omitempty" yaml:"host,omitempty"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`
	Database   string `json:"database,omitempty" yaml:"database,omitempty"`
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`
	Username   string `json:"username,omitempty" yaml:"username,omitempty"`
	Password   string `json:"password,omitempty" yaml:"password,omitempty"`
	TimeoutMs  int    `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
}

// SessionConfig defines the per-session state store.
type SessionConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // Available options: memory, redis
	RedisAddr  string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisDB    int    `json:"redis_db,omitempty" yaml:"redis_db,omitempty"`
	Password   string `json:"password,omitempty" yaml:"password,omitempty"`
	TTLSeconds int    `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
}

// CacheConfig defines the process-wide context/response cache.
type CacheConfig struct {
	Provider           string `json:"provider" yaml:"provider"` // Available options: lru, ttl
	Capacity           int    `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	ResponseTTLSeconds int    `json:"response_ttl_seconds,omitempty" yaml:"response_ttl_seconds,omitempty"`
}

// RetrievalConfig tunes the retrieval orchestrator.
type RetrievalConfig struct {
	TopK            int `json:"top_k,omitempty" yaml:"top_k,omitempty"`
	MaxAttempts     int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
	BackoffMinMs    int `json:"backoff_min_ms,omitempty" yaml:"backoff_min_ms,omitempty"`
	BackoffMaxMs    int `json:"backoff_max_ms,omitempty" yaml:"backoff_max_ms,omitempty"`
	ContextMaxChars int `json:"context_max_chars,omitempty" yaml:"context_max_chars,omitempty"`
}

// Category is one weighted keyword category. Categories form an ordered
// list; declaration order is the classifier tie-break contract.
type Category struct {
	Name         string   `json:"name" yaml:"name"`
	Keywords     []string `json:"keywords" yaml:"keywords"`
	Weight       float64  `json:"weight" yaml:"weight"`
	Exclusive    bool     `json:"exclusive" yaml:"exclusive"`
	ExcludeTerms []string `json:"exclude_terms,omitempty" yaml:"exclude_terms,omitempty"`
}

// Tables bundles the static domain tables. Zero-valued fields fall back to
// the built-in defaults during Load.
type Tables struct {
	Categories      []Category          `json:"categories" yaml:"categories"`
	ProductAliases  map[string]string   `json:"product_aliases" yaml:"product_aliases"`
	RoleAliases     map[string]string   `json:"role_aliases" yaml:"role_aliases"`
	BonusKeywords   map[string]float64  `json:"bonus_keywords" yaml:"bonus_keywords"`
	Personnel       map[string][]string `json:"personnel" yaml:"personnel"`
	Greetings       map[string]string   `json:"greetings" yaml:"greetings"`
	BankKeywords    []string            `json:"bank_keywords" yaml:"bank_keywords"`
	ProductQueries  []string            `json:"product_queries" yaml:"product_queries"`
	CategoryMap     map[string][]string `json:"category_map" yaml:"category_map"`
	ManagementRoles []string            `json:"management_roles" yaml:"management_roles"`
	GenericTerms    []string            `json:"generic_terms" yaml:"generic_terms"`
	SystemPrompt    string              `json:"system_prompt" yaml:"system_prompt"`
}

// AliasPair is one alias table entry in application order.
type AliasPair struct {
	Alias     string
	Canonical string
}

// OrderedAliases returns the product alias table sorted by descending alias
// length so multi-word aliases match before their substrings. Equal lengths
// sort lexically for determinism.
//
// Every canonical name is included as an alias of itself. The self-entry is
// the longest match over its own mention, so shorter aliases embedded in a
// canonical ("super saver" inside "MDB Super Saver") never fire a second
// time and normalization stays idempotent on already-canonical input.
func (t *Tables) OrderedAliases() []AliasPair {
	pairs := make([]AliasPair, 0, len(t.ProductAliases))
	seen := make(map[string]struct{}, len(t.ProductAliases))
	for a, c := range t.ProductAliases {
		pairs = append(pairs, AliasPair{Alias: a, Canonical: c})
		seen[a] = struct{}{}
	}
	for _, c := range t.ProductAliases {
		lc := strings.ToLower(c)
		if _, ok := seen[lc]; !ok {
			seen[lc] = struct{}{}
			pairs = append(pairs, AliasPair{Alias: lc, Canonical: c})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if len(pairs[i].Alias) != len(pairs[j].Alias) {
			return len(pairs[i].Alias) > len(pairs[j].Alias)
		}
		return pairs[i].Alias < pairs[j].Alias
	})
	return pairs
}

// Category returns the named category, or nil.
func (t *Tables) Category(name string) *Category {
	for i := range t.Categories {
		if t.Categories[i].Name == name {
			return &t.Categories[i]
		}
	}
	return nil
}

// CanonicalNames returns the distinct canonical product names.
func (t *Tables) CanonicalNames() []string {
	seen := make(map[string]struct{}, len(t.ProductAliases))
	var out []string
	for _, c := range t.ProductAliases {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Load reads the YAML config at path, fills defaults and validates.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a config with built-in defaults and domain tables.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080", LogLevel: "info"},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-5",
			Temperature: 0.5,
			MaxTokens:   2048,
		},
		Embedding: EmbeddingConfig{
			Provider: "openai",
			Model:    "text-embedding-3-small",
		},
		VectorDB: VectorDBConfig{
			Provider:   "milvus",
			Host:       "localhost",
			Port:       19530,
			Collection: "bank_knowledge",
			TimeoutMs:  5000,
		},
		Session: SessionConfig{Provider: "memory", TTLSeconds: 24 * 60 * 60},
		Cache:   CacheConfig{Provider: "lru", Capacity: 512, ResponseTTLSeconds: 3600},
		Retrieval: RetrievalConfig{
			TopK:            5,
			MaxAttempts:     2,
			BackoffMinMs:    1000,
			BackoffMaxMs:    10000,
			ContextMaxChars: 4000,
		},
		Tables: DefaultTables(),
	}
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = d.Server.LogLevel
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = d.Retrieval.TopK
	}
	if c.Retrieval.MaxAttempts <= 0 {
		c.Retrieval.MaxAttempts = d.Retrieval.MaxAttempts
	}
	if c.Retrieval.BackoffMinMs <= 0 {
		c.Retrieval.BackoffMinMs = d.Retrieval.BackoffMinMs
	}
	if c.Retrieval.BackoffMaxMs <= 0 {
		c.Retrieval.BackoffMaxMs = d.Retrieval.BackoffMaxMs
	}
	if c.Retrieval.ContextMaxChars <= 0 {
		c.Retrieval.ContextMaxChars = d.Retrieval.ContextMaxChars
	}
	if c.Cache.Capacity <= 0 {
		c.Cache.Capacity = d.Cache.Capacity
	}
	if c.Cache.ResponseTTLSeconds <= 0 {
		c.Cache.ResponseTTLSeconds = d.Cache.ResponseTTLSeconds
	}
	if c.Cache.Provider == "" {
		c.Cache.Provider = d.Cache.Provider
	}
	if c.Session.Provider == "" {
		c.Session.Provider = d.Session.Provider
	}
	if c.Session.TTLSeconds <= 0 {
		c.Session.TTLSeconds = d.Session.TTLSeconds
	}
	dt := DefaultTables()
	if len(c.Tables.Categories) == 0 {
		c.Tables.Categories = dt.Categories
	}
	if len(c.Tables.ProductAliases) == 0 {
		c.Tables.ProductAliases = dt.ProductAliases
	}
	if len(c.Tables.RoleAliases) == 0 {
		c.Tables.RoleAliases = dt.RoleAliases
	}
	if len(c.Tables.BonusKeywords) == 0 {
		c.Tables.BonusKeywords = dt.BonusKeywords
	}
	if len(c.Tables.Personnel) == 0 {
		c.Tables.Personnel = dt.Personnel
	}
	if len(c.Tables.Greetings) == 0 {
		c.Tables.Greetings = dt.Greetings
	}
	if len(c.Tables.BankKeywords) == 0 {
		c.Tables.BankKeywords = dt.BankKeywords
	}
	if len(c.Tables.ProductQueries) == 0 {
		c.Tables.ProductQueries = dt.ProductQueries
	}
	if len(c.Tables.CategoryMap) == 0 {
		c.Tables.CategoryMap = dt.CategoryMap
	}
	if len(c.Tables.ManagementRoles) == 0 {
		c.Tables.ManagementRoles = dt.ManagementRoles
	}
	if len(c.Tables.GenericTerms) == 0 {
		c.Tables.GenericTerms = dt.GenericTerms
	}
	if c.Tables.SystemPrompt == "" {
		c.Tables.SystemPrompt = dt.SystemPrompt
	}
}
