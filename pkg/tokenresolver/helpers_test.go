package tokenresolver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mustConfig builds a config from the defaults with fn applied.
func mustConfig(t *testing.T, fn func(s *Settings)) *Config {
	t.Helper()
	s := DefaultSettings()
	if fn != nil {
		fn(&s)
	}
	cfg, err := NewConfig(s)
	require.NoError(t, err)
	return cfg
}

// mustParse parses text with a private parser.
func mustParse(t *testing.T, text string, cfg *Config) *Document {
	t.Helper()
	doc, err := NewParser(nil).Parse(text, cfg)
	require.NoError(t, err)
	return doc
}

func textNode(s string) Node { return TextNode{Content: s} }

func tokenNode(cfg *Config, segments ...string) Node { return NewTokenNode(segments, cfg) }
