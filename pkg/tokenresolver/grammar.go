package tokenresolver

import (
	"regexp"
	"slices"
	"unicode/utf8"
)

// Grammar is the matcher compiled from a Config. It holds everything the
// matching engine needs so that no per-call work depends on the Config
// beyond lookups. A Grammar is read-only and safe for concurrent use.
type Grammar struct {
	config      *Config
	open        string
	close       string
	terminators []string // close, every distinct separator, then open
	minRepeats  int      // separator/segment pairs after the first segment
	maxRepeats  int      // -1 means unbounded
	segmentRe   *regexp.Regexp
	asciiClass  [utf8.RuneSelf]bool
}

// NewGrammar compiles the matcher for cfg.
func NewGrammar(cfg *Config) (*Grammar, error) {
	if !cfg.valid() {
		return nil, &ConfigError{Field: "config", Reason: "must be built with NewConfig"}
	}

	g := &Grammar{
		config:     cfg,
		open:       cfg.open,
		close:      cfg.close,
		minRepeats: cfg.minSegments - 1,
		maxRepeats: -1,
		segmentRe:  cfg.segmentRe,
	}
	if cfg.maxSegments > 0 {
		g.maxRepeats = cfg.maxSegments - 1
	}

	// A segment never runs across an open delimiter, so a failed token
	// attempt scans no further than the next place a token could start.
	g.terminators = append(g.terminators, cfg.close)
	for _, term := range append(slices.Clone(cfg.separators), cfg.open) {
		if !slices.Contains(g.terminators, term) {
			g.terminators = append(g.terminators, term)
		}
	}

	var buf [1]byte
	for b := range utf8.RuneSelf {
		buf[0] = byte(b)
		g.asciiClass[b] = g.segmentRe.Match(buf[:])
	}

	return g, nil
}

// Config returns the config the grammar was compiled from.
func (g *Grammar) Config() *Config { return g.config }

// isSegmentRune reports whether r belongs to the segment character class.
func (g *Grammar) isSegmentRune(r rune) bool {
	if r >= 0 && r < utf8.RuneSelf {
		return g.asciiClass[r]
	}
	return g.segmentRe.MatchString(string(r))
}

// ValidKey reports whether key is a string the grammar could produce as a
// token key: one or more segments joined by their resolved separators. The
// segment-count bounds are not applied.
func (g *Grammar) ValidKey(key string) bool {
	m := &matcher{grammar: g, input: key}
	if _, ok := m.matchSegment(); !ok {
		return false
	}
	for boundary := 0; m.hasMoreInput(); boundary++ {
		if !m.tryConsumeText(g.config.Separator(boundary)) {
			return false
		}
		if _, ok := m.matchSegment(); !ok {
			return false
		}
	}
	return true
}
