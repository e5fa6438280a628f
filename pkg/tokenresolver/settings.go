package tokenresolver

import (
	"fmt"
	"os"
	"slices"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Settings is the serialisable form of a Config, as found in a YAML
// settings file.
type Settings struct {
	Open           string   `yaml:"open" mapstructure:"open"`
	Close          string   `yaml:"close" mapstructure:"close"`
	Separators     []string `yaml:"separators" mapstructure:"separators"`
	MinSegments    int      `yaml:"min_segments" mapstructure:"min_segments"`
	MaxSegments    int      `yaml:"max_segments,omitempty" mapstructure:"max_segments"` // 0 means unbounded
	SegmentPattern string   `yaml:"segment_pattern" mapstructure:"segment_pattern"`
}

// DefaultSettings returns the settings behind DefaultConfig.
func DefaultSettings() Settings {
	return Settings{
		Open:           DefaultOpen,
		Close:          DefaultClose,
		Separators:     []string{DefaultSeparator},
		MinSegments:    DefaultMinSegments,
		SegmentPattern: DefaultSegmentPattern,
	}
}

// PartialSettings is a possibly incomplete set of token settings, as read
// from a settings file or the command line. A nil field is absent and takes
// its default; a non-nil field is used as given, even when it is a zero value.
type PartialSettings struct {
	Open           *string   `yaml:"open"`
	Close          *string   `yaml:"close"`
	Separators     *[]string `yaml:"separators"`
	MinSegments    *int      `yaml:"min_segments"`
	MaxSegments    *int      `yaml:"max_segments"`
	SegmentPattern *string   `yaml:"segment_pattern"`
}

// Partial returns s with every field marked as set.
func (s Settings) Partial() *PartialSettings {
	separators := slices.Clone(s.Separators)
	return &PartialSettings{
		Open:           &s.Open,
		Close:          &s.Close,
		Separators:     &separators,
		MinSegments:    &s.MinSegments,
		MaxSegments:    &s.MaxSegments,
		SegmentPattern: &s.SegmentPattern,
	}
}

// LoadSettingsFile loads and parses a YAML settings file. Keys missing from
// the file are left nil.
func LoadSettingsFile(filename string) (*PartialSettings, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file '%s': %w", filename, err)
	}

	var settings PartialSettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in settings file '%s': %w", filename, err)
	}

	return &settings, nil
}

// ApplySettingsToDefaults fills every absent field of s from
// DefaultSettings and builds the resulting Config. Explicit values are
// validated as given, so an explicit min_segments of 0 or an empty
// separator list is rejected rather than defaulted.
func ApplySettingsToDefaults(s *PartialSettings) (*Config, error) {
	merged := PartialSettings{}
	if s != nil {
		merged = *s
	}
	if err := mergo.Merge(&merged, DefaultSettings().Partial(), mergo.WithoutDereference); err != nil {
		return nil, fmt.Errorf("failed to merge token settings: %w", err)
	}
	return NewConfig(Settings{
		Open:           *merged.Open,
		Close:          *merged.Close,
		Separators:     *merged.Separators,
		MinSegments:    *merged.MinSegments,
		MaxSegments:    *merged.MaxSegments,
		SegmentPattern: *merged.SegmentPattern,
	})
}

// YAML renders the settings as a YAML document.
func (s Settings) YAML() ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings to YAML: %w", err)
	}
	return out, nil
}
