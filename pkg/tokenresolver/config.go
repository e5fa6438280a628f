package tokenresolver

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Default token shape: {NAMESPACE|KEY}.
const (
	DefaultOpen           = "{"
	DefaultClose          = "}"
	DefaultSeparator      = "|"
	DefaultMinSegments    = 2
	DefaultSegmentPattern = `[A-Za-z0-9_]`
)

// Config describes the shape of a token. It is immutable once built by
// NewConfig and may be shared freely between goroutines.
type Config struct {
	open           string
	close          string
	separators     []string
	minSegments    int
	maxSegments    int // 0 means unbounded
	segmentPattern string
	segmentRe      *regexp.Regexp
}

// ConfigKey is the comparable identity of a Config. Two configs with equal
// fields have equal keys.
type ConfigKey struct {
	open           string
	close          string
	separators     string
	minSegments    int
	maxSegments    int
	segmentPattern string
}

// NewConfig validates s and builds a Config from it.
func NewConfig(s Settings) (*Config, error) {
	if s.Open == "" {
		return nil, &ConfigError{Field: "open", Reason: "must not be empty"}
	}
	if s.Close == "" {
		return nil, &ConfigError{Field: "close", Reason: "must not be empty"}
	}
	if len(s.Separators) == 0 {
		return nil, &ConfigError{Field: "separators", Reason: "must contain at least one separator"}
	}
	for i, sep := range s.Separators {
		if sep == "" {
			return nil, &ConfigError{Field: "separators[" + strconv.Itoa(i) + "]", Reason: "must not be empty"}
		}
	}
	if s.MinSegments < 1 {
		return nil, &ConfigError{Field: "min_segments", Reason: "must be at least 1"}
	}
	if s.MaxSegments < 0 {
		return nil, &ConfigError{Field: "max_segments", Reason: "must not be negative"}
	}
	if s.MaxSegments != 0 && s.MaxSegments < s.MinSegments {
		return nil, &ConfigError{
			Field:  "max_segments",
			Reason: "must not be less than min_segments (" + strconv.Itoa(s.MinSegments) + ")",
		}
	}
	pattern := s.SegmentPattern
	if pattern == "" {
		pattern = DefaultSegmentPattern
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, &ConfigError{Field: "segment_pattern", Reason: "is not a valid pattern: " + err.Error()}
	}

	return &Config{
		open:           s.Open,
		close:          s.Close,
		separators:     slices.Clone(s.Separators),
		minSegments:    s.MinSegments,
		maxSegments:    s.MaxSegments,
		segmentPattern: pattern,
		segmentRe:      re,
	}, nil
}

// DefaultConfig returns the config for {NAMESPACE|KEY} style tokens.
func DefaultConfig() *Config {
	cfg, err := NewConfig(DefaultSettings())
	if err != nil {
		panic("invalid default token config: " + err.Error())
	}
	return cfg
}

func (c *Config) Open() string           { return c.open }
func (c *Config) Close() string          { return c.close }
func (c *Config) MinSegments() int       { return c.minSegments }
func (c *Config) SegmentPattern() string { return c.segmentPattern }

// MaxSegments returns the upper segment bound, or 0 when unbounded.
func (c *Config) MaxSegments() int { return c.maxSegments }

// Separators returns a copy of the configured separator list.
func (c *Config) Separators() []string { return slices.Clone(c.separators) }

// Separator returns the separator used at boundary i, the gap between
// segment i and segment i+1. Boundaries past the end of the list reuse the
// last separator.
func (c *Config) Separator(i int) string {
	if i < len(c.separators) {
		return c.separators[i]
	}
	return c.separators[len(c.separators)-1]
}

// JoinSegments builds a key from segments using separator resolution.
func (c *Config) JoinSegments(segments []string) string {
	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteString(c.Separator(i - 1))
		}
		b.WriteString(seg)
	}
	return b.String()
}

// Settings returns the settings c was built from.
func (c *Config) Settings() Settings {
	return Settings{
		Open:           c.open,
		Close:          c.close,
		Separators:     c.Separators(),
		MinSegments:    c.minSegments,
		MaxSegments:    c.maxSegments,
		SegmentPattern: c.segmentPattern,
	}
}

// Key returns the value identity of c.
func (c *Config) Key() ConfigKey {
	var seps strings.Builder
	for _, sep := range c.separators {
		seps.WriteString(strconv.Itoa(len(sep)))
		seps.WriteByte(':')
		seps.WriteString(sep)
	}
	return ConfigKey{
		open:           c.open,
		close:          c.close,
		separators:     seps.String(),
		minSegments:    c.minSegments,
		maxSegments:    c.maxSegments,
		segmentPattern: c.segmentPattern,
	}
}

// Equal reports whether c and other describe the same token shape.
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Key() == other.Key()
}

// Hash returns a stable hash of the config's fields.
func (c *Config) Hash() uint64 {
	k := c.Key()
	d := xxhash.New()
	for _, s := range []string{k.open, k.close, k.separators, k.segmentPattern} {
		_, _ = d.WriteString(strconv.Itoa(len(s)))
		_, _ = d.WriteString(":")
		_, _ = d.WriteString(s)
	}
	_, _ = d.WriteString(strconv.Itoa(k.minSegments))
	_, _ = d.WriteString(",")
	_, _ = d.WriteString(strconv.Itoa(k.maxSegments))
	return d.Sum64()
}

func (c *Config) valid() bool {
	return c != nil && c.open != "" && c.close != "" && len(c.separators) > 0 && c.segmentRe != nil
}
