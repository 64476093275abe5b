package syntax

import "strings"

// CommentKind classifies how a comment token relates to the declaration
// it sits next to.
type CommentKind int

const (
	// CommentLeading sits directly above a declaration with no blank
	// line in between: it documents the declaration that follows.
	CommentLeading CommentKind = iota
	// CommentFree sits on its own, separated from any declaration by a
	// blank line: it is not attached to anything.
	CommentFree
)

// AttachedComment is one comment token plus its classification and
// whether it is a doc comment (/** ... */).
type AttachedComment struct {
	Token *Red
	Kind  CommentKind
	IsDoc bool
}

// LeadingComments returns the run of comments immediately preceding node
// (nearest-last reversed into source order), scanning root's flat token
// stream rather than the green tree's shape: where exactly a trivia
// token lands among sibling nodes depends on incidental parser call
// order, not on which declaration it documents, so attachment is
// computed positionally instead.
func LeadingComments(root, node *Red) []AttachedComment {
	all := root.Tokens()
	target := firstSignificantToken(node)
	if target == nil {
		return nil
	}
	idx := -1
	for i, t := range all {
		if t.Kind() == target.Kind() && t.Range() == target.Range() {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return nil
	}

	var rev []AttachedComment
	newlines := 0
scan:
	for i := idx - 1; i >= 0; i-- {
		t := all[i]
		switch t.Kind() {
		case TokWhitespace:
			newlines += strings.Count(t.TokenText(), "\n")
		case TokLineComment, TokBlockComment, TokDocComment:
			if newlines >= 2 {
				break scan
			}
			rev = append(rev, AttachedComment{
				Token: t,
				Kind:  CommentLeading,
				IsDoc: t.Kind() == TokDocComment,
			})
			newlines = 0
		default:
			break scan
		}
	}
	for l, r := 0, len(rev)-1; l < r; l, r = l+1, r-1 {
		rev[l], rev[r] = rev[r], rev[l]
	}
	return rev
}

func firstSignificantToken(node *Red) *Red {
	toks := node.SignificantTokens()
	if len(toks) == 0 {
		return nil
	}
	return toks[0]
}

// DocComment returns the nearest doc comment (/** ... */) immediately
// preceding node, if any, using the same attachment rule as
// LeadingComments. This is the text an IDE would surface as hover
// documentation.
func DocComment(root, node *Red) (string, bool) {
	for _, c := range LeadingComments(root, node) {
		if c.IsDoc {
			return c.Token.TokenText(), true
		}
	}
	return "", false
}
