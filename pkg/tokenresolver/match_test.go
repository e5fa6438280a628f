package tokenresolver

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGrammar(t *testing.T, cfg *Config) *Grammar {
	t.Helper()
	g, err := NewGrammar(cfg)
	require.NoError(t, err)
	return g
}

func tokenSegments(matches []Match) [][]string {
	var out [][]string
	for _, m := range matches {
		if m.Kind == TokenMatch {
			out = append(out, m.Segments)
		}
	}
	return out
}

// assertPartition checks that matches cover input contiguously and exactly.
func assertPartition(t *testing.T, input string, matches []Match) {
	t.Helper()
	var b strings.Builder
	pos := 0
	for _, m := range matches {
		require.Equal(t, pos, m.Start, "gap or overlap before %q", m.Text)
		require.Equal(t, input[m.Start:m.End], m.Text)
		pos = m.End
		b.WriteString(m.Text)
	}
	assert.Equal(t, len(input), pos)
	assert.Equal(t, input, b.String())
}

func TestGrammar_Match(t *testing.T) {
	def := DefaultConfig()
	pipeColon := mustConfig(t, func(s *Settings) { s.Separators = []string{"|", ":"} })
	minThree := mustConfig(t, func(s *Settings) { s.MinSegments = 3 })
	maxTwo := mustConfig(t, func(s *Settings) { s.MaxSegments = 2 })
	single := mustConfig(t, func(s *Settings) { s.MinSegments = 1 })
	doubled := mustConfig(t, func(s *Settings) { s.Open = "{{"; s.Close = "}}"; s.Separators = []string{"::"} })

	tests := []struct {
		name   string
		cfg    *Config
		input  string
		tokens [][]string
	}{
		{"simple token", def, "{KJ|NAME}", [][]string{{"KJ", "NAME"}}},
		{"token inside text", def, "Hello {KJ|NAME}!", [][]string{{"KJ", "NAME"}}},
		{"adjacent tokens", def, "{A|B}{C|D}", [][]string{{"A", "B"}, {"C", "D"}}},
		{"three segments", def, "{KJ|SECTION|NAME}", [][]string{{"KJ", "SECTION", "NAME"}}},
		{"plain text", def, "Hi!", nil},
		{"empty input", def, "", nil},
		{"missing close", def, "{KJ|NAME", nil},
		{"empty segment", def, "{KJ||NAME}", nil},
		{"trailing separator", def, "{KJ|}", nil},
		{"leading separator", def, "{|KJ}", nil},
		{"code block lookalike", def, "items.each { |x| x.to_s }", nil},
		{"shell expansion lookalike", def, "echo ${HOME} {a,b}", nil},
		{"space in segment", def, "{KJ|MY NAME}", nil},
		{"too few segments for default", def, "{NAME}", nil},
		{"nested open falls back then matches", def, "{{KJ|NAME}}", [][]string{{"KJ", "NAME"}}},
		{"open inside text", def, "a { b {X|Y} c", [][]string{{"X", "Y"}}},
		{"min three rejects two", minThree, "{KJ|NAME}", nil},
		{"min three accepts three", minThree, "{KJ|SECTION|NAME}", [][]string{{"KJ", "SECTION", "NAME"}}},
		{"max two rejects three", maxTwo, "{A|B|C}", nil},
		{"max two accepts two", maxTwo, "{A|B}", [][]string{{"A", "B"}}},
		{"single segment allowed", single, "{NAME}", [][]string{{"NAME"}}},
		{"separator repetition", pipeColon, "{KJ|A:B:C}", [][]string{{"KJ", "A", "B", "C"}}},
		{"separator out of order", pipeColon, "{KJ:A}", nil},
		{"first separator repeated", pipeColon, "{KJ|A|B}", nil},
		{"multi-character delimiters", doubled, "x {{A::B::C}} y", [][]string{{"A", "B", "C"}}},
		{"multi-character close missing", doubled, "{{A::B}", nil},
		{"single colon is not a separator", doubled, "{{A:B}}", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := mustGrammar(t, tt.cfg).Match(tt.input)

			assertPartition(t, tt.input, matches)
			assert.Equal(t, tt.tokens, tokenSegments(matches))
		})
	}
}

func TestGrammar_MatchTextIsSingleCharacters(t *testing.T) {
	matches := mustGrammar(t, DefaultConfig()).Match("Hé!")

	require.Len(t, matches, 3)
	for _, m := range matches {
		assert.Equal(t, TextMatch, m.Kind)
	}
	assert.Equal(t, "é", matches[1].Text)
	assert.Equal(t, 1, matches[1].Start)
	assert.Equal(t, 3, matches[1].End)
}

func TestGrammar_MatchSizedByMatches(t *testing.T) {
	input := strings.Repeat("{A|B}", 1000)
	matches := mustGrammar(t, DefaultConfig()).Match(input)

	require.Len(t, matches, 1000)
	assert.Less(t, cap(matches), len(input)/2)
}

func TestGrammar_MatchInvalidUTF8(t *testing.T) {
	input := "a\xff{K|V}\xfe"
	matches := mustGrammar(t, DefaultConfig()).Match(input)

	assertPartition(t, input, matches)
	assert.Equal(t, [][]string{{"K", "V"}}, tokenSegments(matches))
}

func TestGrammar_SegmentPattern(t *testing.T) {
	t.Run("Should widen segments with a custom class", func(t *testing.T) {
		cfg := mustConfig(t, func(s *Settings) { s.SegmentPattern = `[A-Za-z0-9_ .-]` })
		matches := mustGrammar(t, cfg).Match("{my ns|file-name.txt}")
		assert.Equal(t, [][]string{{"my ns", "file-name.txt"}}, tokenSegments(matches))
	})

	t.Run("Should accept non-ASCII classes", func(t *testing.T) {
		cfg := mustConfig(t, func(s *Settings) { s.SegmentPattern = `[\p{L}]` })
		matches := mustGrammar(t, cfg).Match("{été|Ünïcode}")
		assert.Equal(t, [][]string{{"été", "Ünïcode"}}, tokenSegments(matches))
	})

	t.Run("Should stop segments at separators even when the class allows them", func(t *testing.T) {
		cfg := mustConfig(t, func(s *Settings) { s.SegmentPattern = `.` })
		matches := mustGrammar(t, cfg).Match("{a b|c}d}")
		assert.Equal(t, [][]string{{"a b", "c"}}, tokenSegments(matches))
	})

	t.Run("Should stop segments at the open delimiter even when the class allows it", func(t *testing.T) {
		cfg := mustConfig(t, func(s *Settings) { s.SegmentPattern = `.` })
		input := "{a{b|c}"
		matches := mustGrammar(t, cfg).Match(input)
		assertPartition(t, input, matches)
		assert.Equal(t, [][]string{{"b", "c"}}, tokenSegments(matches))
	})
}

func TestGrammar_MatchLongUnclosedInput(t *testing.T) {
	g := mustGrammar(t, mustConfig(t, func(s *Settings) { s.SegmentPattern = `.` }))

	for name, input := range map[string]string{
		"repeated open":             strings.Repeat("{", 200_000),
		"repeated open and segment": strings.Repeat("{a", 100_000),
		"repeated segment pair":     strings.Repeat("{a|b", 100_000),
	} {
		t.Run(name, func(t *testing.T) {
			done := make(chan []Match, 1)
			go func() { done <- g.Match(input) }()

			select {
			case matches := <-done:
				assertPartition(t, input, matches)
				assert.Empty(t, tokenSegments(matches))
			case <-time.After(10 * time.Second):
				t.Fatal("matching did not finish")
			}
		})
	}
}

func TestGrammar_ValidKey(t *testing.T) {
	def := mustGrammar(t, DefaultConfig())
	pipeColon := mustGrammar(t, mustConfig(t, func(s *Settings) { s.Separators = []string{"|", ":"} }))
	wide := mustGrammar(t, mustConfig(t, func(s *Settings) { s.SegmentPattern = `.` }))

	tests := []struct {
		name    string
		grammar *Grammar
		key     string
		valid   bool
	}{
		{"two segments", def, "KJ|NAME", true},
		{"one segment", def, "KJ", true},
		{"many segments", def, "A|B|C|D", true},
		{"empty", def, "", false},
		{"trailing separator", def, "KJ|", false},
		{"leading separator", def, "|KJ", false},
		{"space", def, "KJ|MY NAME", false},
		{"delimiters", def, "{KJ|NAME}", false},
		{"open delimiter in a wide segment", wide, "a{b|c", false},
		{"resolved separators", pipeColon, "KJ|A:B", true},
		{"separator out of order", pipeColon, "KJ:A", false},
		{"first separator repeated", pipeColon, "KJ|A|B", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.grammar.ValidKey(tt.key))
		})
	}
}

func TestNewGrammar_RejectsUnbuiltConfig(t *testing.T) {
	_, err := NewGrammar(&Config{})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)

	_, err = NewGrammar(nil)
	require.ErrorAs(t, err, &cfgErr)
}
