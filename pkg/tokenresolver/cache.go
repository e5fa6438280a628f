package tokenresolver

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultGrammarCacheSize bounds the number of compiled grammars kept by
// NewGrammarCache when no size is given.
const DefaultGrammarCacheSize = 256

// DebugLogger is the logging surface the cache reports builds to.
type DebugLogger interface {
	Debug(msg string, keyvals ...any)
}

// GrammarCache holds compiled grammars keyed by config value, so two equal
// configs share one Grammar. It is safe for concurrent use.
type GrammarCache struct {
	mu      sync.Mutex
	entries *lru.Cache[ConfigKey, *Grammar]
	log     DebugLogger
}

// NewGrammarCache creates a cache holding at most size grammars. A size of
// zero or less selects DefaultGrammarCacheSize. log may be nil.
func NewGrammarCache(size int, log DebugLogger) *GrammarCache {
	if size <= 0 {
		size = DefaultGrammarCacheSize
	}
	entries, err := lru.New[ConfigKey, *Grammar](size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &GrammarCache{entries: entries, log: log}
}

// Get returns the grammar for cfg, compiling it on first use.
func (c *GrammarCache) Get(cfg *Config) (*Grammar, error) {
	if !cfg.valid() {
		return nil, &ConfigError{Field: "config", Reason: "must be built with NewConfig"}
	}
	key := cfg.Key()

	c.mu.Lock()
	defer c.mu.Unlock()

	if g, ok := c.entries.Get(key); ok {
		return g, nil
	}
	g, err := NewGrammar(cfg)
	if err != nil {
		return nil, err
	}
	c.entries.Add(key, g)
	if c.log != nil {
		c.log.Debug("compiled token grammar",
			"open", cfg.Open(), "close", cfg.Close(),
			"separators", cfg.separators, "hash", cfg.Hash())
	}
	return g, nil
}

// Len returns the number of cached grammars.
func (c *GrammarCache) Len() int {
	return c.entries.Len()
}

// Clear drops every cached grammar.
func (c *GrammarCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}
