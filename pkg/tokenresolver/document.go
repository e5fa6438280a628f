// Package tokenresolver finds structured placeholders such as {NAMESPACE|KEY}
// in text and substitutes them from a replacement mapping.
package tokenresolver

import (
	"strings"
)

// Document is the full parse of one input string. Concatenating the
// canonical text of its nodes reproduces the input exactly.
type Document struct {
	nodes  []Node
	config *Config
}

// NewDocument wraps an existing node sequence.
func NewDocument(nodes []Node, cfg *Config) *Document {
	return &Document{nodes: nodes, config: cfg}
}

// Nodes returns the document's nodes in order.
func (d *Document) Nodes() []Node { return d.nodes }

// Config returns the config the document was parsed with.
func (d *Document) Config() *Config { return d.config }

// Tokens returns only the token nodes, in order.
func (d *Document) Tokens() []TokenNode {
	var tokens []TokenNode
	for _, n := range d.nodes {
		if tok, ok := n.(TokenNode); ok {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// TokenKeys returns each distinct token key once, in order of first
// occurrence.
func (d *Document) TokenKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, tok := range d.Tokens() {
		key := tok.Key()
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// IsTextOnly reports whether the document has no tokens.
func (d *Document) IsTextOnly() bool {
	for _, n := range d.nodes {
		if n.Type() == TokenNodeType {
			return false
		}
	}
	return true
}

// String reassembles the original text.
func (d *Document) String() string {
	var b strings.Builder
	for _, n := range d.nodes {
		b.WriteString(n.String())
	}
	return b.String()
}

// Parser builds documents, compiling grammars through its cache.
type Parser struct {
	cache *GrammarCache
}

// NewParser creates a parser backed by cache. A nil cache gets a private one.
func NewParser(cache *GrammarCache) *Parser {
	if cache == nil {
		cache = NewGrammarCache(0, nil)
	}
	return &Parser{cache: cache}
}

// Cache returns the parser's grammar cache.
func (p *Parser) Cache() *GrammarCache { return p.cache }

// Parse parses text with cfg. It only fails when cfg is not a valid config.
func (p *Parser) Parse(text string, cfg *Config) (*Document, error) {
	if !cfg.valid() {
		return nil, &ConfigError{Field: "config", Reason: "must be built with NewConfig"}
	}
	if text == "" || !strings.Contains(text, cfg.open) {
		return NewDocument([]Node{TextNode{Content: text}}, cfg), nil
	}

	g, err := p.cache.Get(cfg)
	if err != nil {
		return nil, err
	}
	return NewDocument(Reduce(g.Match(text), cfg), cfg), nil
}

var defaultParser = NewParser(nil)

// Parse parses text with cfg using the package-level grammar cache.
func Parse(text string, cfg *Config) (*Document, error) {
	return defaultParser.Parse(text, cfg)
}

// ClearGrammarCache empties the package-level grammar cache.
func ClearGrammarCache() {
	defaultParser.cache.Clear()
}

// DefaultGrammarCache returns the package-level grammar cache.
func DefaultGrammarCache() *GrammarCache {
	return defaultParser.cache
}
