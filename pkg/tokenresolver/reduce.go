package tokenresolver

import "strings"

// Reduce turns a raw match stream into nodes. Each token match becomes a
// TokenNode and every run of consecutive text matches becomes exactly one
// TextNode. An empty stream reduces to no nodes.
func Reduce(matches []Match, cfg *Config) []Node {
	nodes := make([]Node, 0)
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, TextNode{Content: text.String()})
			text.Reset()
		}
	}

	for _, match := range matches {
		switch match.Kind {
		case TokenMatch:
			flush()
			nodes = append(nodes, TokenNode{segments: match.Segments, config: cfg})
		default:
			text.WriteString(match.Text)
		}
	}
	flush()

	return nodes
}
