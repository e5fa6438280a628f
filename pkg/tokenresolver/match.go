package tokenresolver

import (
	"strings"
	"unicode/utf8"
)

// MatchKind distinguishes the two spans the matching engine produces.
type MatchKind int

const (
	TextMatch  MatchKind = iota // a single character of plain text
	TokenMatch                  // a complete token
)

func (k MatchKind) String() string {
	switch k {
	case TextMatch:
		return "text"
	case TokenMatch:
		return "token"
	default:
		return "unknown"
	}
}

// Match is one span of the raw match stream. Start and End are byte offsets
// into the input.
type Match struct {
	Kind     MatchKind
	Start    int
	End      int
	Text     string
	Segments []string // set for TokenMatch only
}

// Match partitions text into token and single-character text spans. The
// spans are in input order and cover every byte exactly once. Match never
// fails: anything that is not a complete token is text.
func (g *Grammar) Match(text string) []Match {
	m := &matcher{grammar: g, input: text}
	var matches []Match

	for m.hasMoreInput() {
		start := m.position
		if segments, ok := m.matchToken(); ok {
			matches = append(matches, Match{
				Kind:     TokenMatch,
				Start:    start,
				End:      m.position,
				Text:     text[start:m.position],
				Segments: segments,
			})
			continue
		}

		// Fall back to a single character of text.
		m.position = start
		_, size := utf8.DecodeRuneInString(text[start:])
		m.advance(size)
		matches = append(matches, Match{
			Kind:  TextMatch,
			Start: start,
			End:   m.position,
			Text:  text[start:m.position],
		})
	}

	return matches
}

// matcher walks one input string against a Grammar.
type matcher struct {
	grammar  *Grammar
	input    string
	position int
}

func (m *matcher) hasMoreInput() bool {
	return m.position < len(m.input)
}

func (m *matcher) advance(n int) {
	m.position += n
}

func (m *matcher) tryConsumeText(text string) bool {
	if strings.HasPrefix(m.input[m.position:], text) {
		m.advance(len(text))
		return true
	}
	return false
}

// atTerminator reports whether the close delimiter, a separator or the open
// delimiter starts at the current position.
func (m *matcher) atTerminator() bool {
	rest := m.input[m.position:]
	for _, term := range m.grammar.terminators {
		if strings.HasPrefix(rest, term) {
			return true
		}
	}
	return false
}

// matchSegment consumes the longest non-empty run of segment characters
// that stops before the first terminator.
func (m *matcher) matchSegment() (string, bool) {
	start := m.position
	for m.hasMoreInput() && !m.atTerminator() {
		r, size := utf8.DecodeRuneInString(m.input[m.position:])
		if !m.grammar.isSegmentRune(r) {
			break
		}
		m.advance(size)
	}
	if m.position == start {
		return "", false
	}
	return m.input[start:m.position], true
}

// matchToken tries to match a whole token at the current position. On
// failure the position is left wherever matching stopped; the caller resets
// it.
func (m *matcher) matchToken() ([]string, bool) {
	g := m.grammar
	if !m.tryConsumeText(g.open) {
		return nil, false
	}

	first, ok := m.matchSegment()
	if !ok {
		return nil, false
	}
	segments := []string{first}

	// Each boundary only accepts its own resolved separator.
	for g.maxRepeats < 0 || len(segments)-1 < g.maxRepeats {
		mark := m.position
		if !m.tryConsumeText(g.config.Separator(len(segments) - 1)) {
			break
		}
		seg, ok := m.matchSegment()
		if !ok {
			m.position = mark
			break
		}
		segments = append(segments, seg)
	}

	if len(segments)-1 < g.minRepeats {
		return nil, false
	}
	if !m.tryConsumeText(g.close) {
		return nil, false
	}
	return segments, true
}
