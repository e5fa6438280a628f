package tokenresolver

import (
	"encoding/json"
	"slices"
)

// NodeType identifies the kind of a Node.
type NodeType string

const (
	TextNodeType  NodeType = "text"  // Plain text run
	TokenNodeType NodeType = "token" // Parsed placeholder
)

// Node is either a TextNode or a TokenNode.
type Node interface {
	// Type reports which kind of node this is.
	Type() NodeType
	// String returns the node's canonical text form.
	String() string
}

// TextNode is a run of plain text.
type TextNode struct {
	Content string
}

func (n TextNode) Type() NodeType { return TextNodeType }
func (n TextNode) String() string { return n.Content }

// MarshalJSON implements custom JSON marshaling for TextNode.
func (n TextNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type NodeType `json:"type"`
		Text string   `json:"text"`
	}{TextNodeType, n.Content})
}

// TokenNode is a recognised placeholder. It keeps the Config that produced it
// so the key and canonical text can be rebuilt from the segments.
type TokenNode struct {
	segments []string
	config   *Config
}

// NewTokenNode builds a token from its segments. segments must not be empty.
func NewTokenNode(segments []string, cfg *Config) TokenNode {
	return TokenNode{segments: slices.Clone(segments), config: cfg}
}

func (n TokenNode) Type() NodeType { return TokenNodeType }

// Segments returns a copy of the token's segments.
func (n TokenNode) Segments() []string { return slices.Clone(n.segments) }

// Config returns the config that produced the token.
func (n TokenNode) Config() *Config { return n.config }

// Key joins the segments with their resolved separators.
func (n TokenNode) Key() string { return n.config.JoinSegments(n.segments) }

// Prefix returns the first segment.
func (n TokenNode) Prefix() string {
	if len(n.segments) == 0 {
		return ""
	}
	return n.segments[0]
}

func (n TokenNode) String() string {
	return n.config.Open() + n.Key() + n.config.Close()
}

// Equal reports whether both tokens have the same segments and config.
func (n TokenNode) Equal(other TokenNode) bool {
	return slices.Equal(n.segments, other.segments) && n.config.Equal(other.config)
}

// MarshalJSON implements custom JSON marshaling for TokenNode.
func (n TokenNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     NodeType `json:"type"`
		Text     string   `json:"text"`
		Key      string   `json:"key"`
		Prefix   string   `json:"prefix"`
		Segments []string `json:"segments"`
	}{TokenNodeType, n.String(), n.Key(), n.Prefix(), n.segments})
}

// NodesEqual compares two node sequences by value.
func NodesEqual(a, b []Node) bool {
	return slices.EqualFunc(a, b, func(x, y Node) bool {
		switch xn := x.(type) {
		case TextNode:
			yn, ok := y.(TextNode)
			return ok && xn == yn
		case TokenNode:
			yn, ok := y.(TokenNode)
			return ok && xn.Equal(yn)
		default:
			return false
		}
	})
}
