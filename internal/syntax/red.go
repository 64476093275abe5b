package syntax

import "github.com/nova-lang/nova/internal/corepkg"

// Red is the red tree view over a GreenTree: it adds parent pointers and
// absolute byte offsets, computed lazily while walking down from the
// root (spec.md §3 Glossary "Red tree"). Typed AST wrappers are thin
// views over *Red.
type Red struct {
	green  GreenElement
	parent *Red
	offset uint32
}

// NewRoot wraps a green tree root as the root of a red tree at offset 0.
func NewRoot(green GreenElement) *Red {
	return &Red{green: green, offset: 0}
}

// Kind returns the SyntaxKind of the underlying green element.
func (r *Red) Kind() SyntaxKind { return r.green.Kind() }

// Range returns the absolute byte range this red node/token spans.
func (r *Red) Range() corepkg.TextRange {
	return corepkg.TextRange{Start: r.offset, End: r.offset + r.green.Len()}
}

// IsToken reports whether this red element wraps a leaf token.
func (r *Red) IsToken() bool {
	_, ok := r.green.(*GreenToken)
	return ok
}

// Parent returns the enclosing red node, or nil at the root.
func (r *Red) Parent() *Red { return r.parent }

// TokenText returns a token's exact text (IsToken() must be true).
func (r *Red) TokenText() string {
	if tok, ok := r.green.(*GreenToken); ok {
		return tok.text
	}
	return ""
}

// Text reconstructs the source text spanned by this red element.
func (r *Red) Text() string { return Text(r.green) }

// Children returns the direct children of a red node (nil for tokens),
// materialized with their absolute offsets.
func (r *Red) Children() []*Red {
	node, ok := r.green.(*GreenNode)
	if !ok {
		return nil
	}
	out := make([]*Red, 0, len(node.children))
	offset := r.offset
	for _, c := range node.children {
		out = append(out, &Red{green: c, parent: r, offset: offset})
		offset += c.Len()
	}
	return out
}

// ChildrenOfKind returns direct children whose Kind() equals kind.
func (r *Red) ChildrenOfKind(kind SyntaxKind) []*Red {
	var out []*Red
	for _, c := range r.Children() {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// FirstChildOfKind returns the first direct child of the given kind.
func (r *Red) FirstChildOfKind(kind SyntaxKind) (*Red, bool) {
	for _, c := range r.Children() {
		if c.Kind() == kind {
			return c, true
		}
	}
	return nil, false
}

// DescendantsOfKind returns every node (at any depth, not just direct
// children) under r whose Kind() equals kind, in source order. Used to
// search a parsed method body for the expression/statement shapes a
// whole-file declaration walk (Children/ChildrenOfKind) can't reach.
func (r *Red) DescendantsOfKind(kind SyntaxKind) []*Red {
	var out []*Red
	var walk func(*Red)
	walk = func(n *Red) {
		if n.Kind() == kind {
			out = append(out, n)
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(r)
	return out
}

// Tokens returns every leaf token under r (including r itself if it is
// already a token), in source order, skipping nothing.
func (r *Red) Tokens() []*Red {
	if r.IsToken() {
		return []*Red{r}
	}
	var out []*Red
	for _, c := range r.Children() {
		out = append(out, c.Tokens()...)
	}
	return out
}

// SignificantTokens returns every leaf token under r that is not trivia
// (whitespace/comments), in source order.
func (r *Red) SignificantTokens() []*Red {
	var out []*Red
	for _, t := range r.Tokens() {
		if !t.Kind().IsTrivia() {
			out = append(out, t)
		}
	}
	return out
}
