package syntax

// GreenElement is the "tagged sum" of spec.md §9: a green tree node is
// either a GreenNode (kind + children) or a GreenToken (kind + text).
// Green elements carry only relative length, not absolute position, so
// a GreenTree is reusable independent of where it sits in a larger file
// (spec.md §3 "GreenTree (whole-file, immutable)").
type GreenElement interface {
	Kind() SyntaxKind
	Len() uint32
	isGreenElement()
}

// GreenToken is a leaf: a kind plus its exact source text.
type GreenToken struct {
	kind SyntaxKind
	text string
}

func NewGreenToken(kind SyntaxKind, text string) *GreenToken {
	return &GreenToken{kind: kind, text: text}
}

func (t *GreenToken) Kind() SyntaxKind { return t.kind }
func (t *GreenToken) Len() uint32      { return uint32(len(t.text)) }
func (t *GreenToken) Text() string     { return t.text }
func (t *GreenToken) isGreenElement()  {}

// GreenNode is an interior node: a kind plus an ordered list of children
// (which may themselves be nodes or tokens). Its length is the sum of
// its children's lengths.
type GreenNode struct {
	kind     SyntaxKind
	children []GreenElement
	length   uint32
}

// NewGreenNode builds a node, computing its total length from children.
func NewGreenNode(kind SyntaxKind, children []GreenElement) *GreenNode {
	var length uint32
	for _, c := range children {
		length += c.Len()
	}
	return &GreenNode{kind: kind, children: children, length: length}
}

func (n *GreenNode) Kind() SyntaxKind          { return n.kind }
func (n *GreenNode) Len() uint32               { return n.length }
func (n *GreenNode) Children() []GreenElement  { return n.children }
func (n *GreenNode) isGreenElement()           {}

// Text reconstructs the full source text spanned by a green element, by
// concatenating every token's text in order. Used to verify the
// roundtrip invariant (spec.md §8) and as a fallback when no original
// source buffer is available.
func Text(e GreenElement) string {
	switch v := e.(type) {
	case *GreenToken:
		return v.text
	case *GreenNode:
		var sb []byte
		for _, c := range v.children {
			sb = append(sb, Text(c)...)
		}
		return string(sb)
	default:
		return ""
	}
}
