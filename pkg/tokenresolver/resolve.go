package tokenresolver

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// OnMissing selects what happens to a token with no replacement.
type OnMissing string

const (
	OnMissingRaise  OnMissing = "raise"  // fail the whole resolution
	OnMissingKeep   OnMissing = "keep"   // emit the token text unchanged
	OnMissingRemove OnMissing = "remove" // emit nothing
)

// ParseOnMissing converts a policy name into an OnMissing value.
func ParseOnMissing(s string) (OnMissing, error) {
	switch p := OnMissing(strings.ToLower(strings.TrimSpace(s))); p {
	case OnMissingRaise, OnMissingKeep, OnMissingRemove:
		return p, nil
	default:
		return "", &InvalidPolicyError{Policy: s}
	}
}

// Source is anything that can be resolved: a *Document or a bare NodeList.
type Source interface {
	Nodes() []Node
}

// NodeList is a node sequence with no config attached. Resolving a NodeList
// skips replacement key validation.
type NodeList []Node

// Nodes returns the list itself.
func (l NodeList) Nodes() []Node { return l }

// Resolver substitutes token nodes with replacement values in a single
// pass. Replacement values are written as-is and never scanned for tokens.
type Resolver struct {
	onMissing OnMissing
	cache     *GrammarCache
}

// NewResolver creates a resolver applying onMissing to unmatched tokens.
func NewResolver(onMissing OnMissing) (*Resolver, error) {
	switch onMissing {
	case OnMissingRaise, OnMissingKeep, OnMissingRemove:
	default:
		return nil, &InvalidPolicyError{Policy: string(onMissing)}
	}
	return &Resolver{onMissing: onMissing, cache: DefaultGrammarCache()}, nil
}

// WithCache returns a copy of r that compiles key validation grammars
// through cache.
func (r *Resolver) WithCache(cache *GrammarCache) *Resolver {
	cp := *r
	cp.cache = cache
	return &cp
}

// OnMissing returns the resolver's missing-key policy.
func (r *Resolver) OnMissing() OnMissing { return r.onMissing }

// Resolve renders src with replacements. When src carries a config, as a
// *Document does, every replacement key is first checked against the token
// grammar. Either the full output is returned or an error, never both.
func (r *Resolver) Resolve(src Source, replacements map[string]string) (string, error) {
	if src == nil {
		return "", fmt.Errorf("%w: nil source", ErrInvalidArgument)
	}
	if doc, ok := src.(*Document); ok {
		if doc == nil {
			return "", fmt.Errorf("%w: nil document", ErrInvalidArgument)
		}
		if doc.config != nil {
			if err := r.ValidateKeys(replacements, doc.config); err != nil {
				return "", err
			}
		}
	}

	var out strings.Builder
	for _, node := range src.Nodes() {
		switch n := node.(type) {
		case TextNode:
			out.WriteString(n.Content)
		case TokenNode:
			if n.config == nil || len(n.segments) == 0 {
				return "", fmt.Errorf("%w: token without config or segments", ErrInvalidArgument)
			}
			key := n.Key()
			if value, ok := replacements[key]; ok {
				out.WriteString(value)
				continue
			}
			switch r.onMissing {
			case OnMissingRaise:
				return "", &UnresolvedTokenError{Key: key}
			case OnMissingKeep:
				out.WriteString(n.String())
			case OnMissingRemove:
			}
		default:
			return "", fmt.Errorf("%w: unsupported node %T", ErrInvalidArgument, node)
		}
	}
	return out.String(), nil
}

// ValidateKeys rejects any replacement key the grammar for cfg could never
// produce. Keys are checked in sorted order so the reported key is stable.
func (r *Resolver) ValidateKeys(replacements map[string]string, cfg *Config) error {
	if len(replacements) == 0 {
		return nil
	}
	cache := r.cache
	if cache == nil {
		cache = DefaultGrammarCache()
	}
	g, err := cache.Get(cfg)
	if err != nil {
		return err
	}
	for _, key := range slices.Sorted(maps.Keys(replacements)) {
		if !g.ValidKey(key) {
			return &InvalidReplacementKeyError{Key: key}
		}
	}
	return nil
}

// Resolve parses text with cfg and resolves it against replacements.
func Resolve(text string, replacements map[string]string, cfg *Config, onMissing OnMissing) (string, error) {
	r, err := NewResolver(onMissing)
	if err != nil {
		return "", err
	}
	doc, err := Parse(text, cfg)
	if err != nil {
		return "", err
	}
	return r.Resolve(doc, replacements)
}
