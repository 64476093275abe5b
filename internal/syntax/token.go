package syntax

import "github.com/nova-lang/nova/internal/corepkg"

// Token is one lexical unit: a kind tag plus its byte range into the
// source. Tokens never own text; callers slice the source bytes.
type Token struct {
	Kind  SyntaxKind
	Range corepkg.TextRange
}

// Text returns the token's source text, given the full source buffer.
func (t Token) Text(source []byte) string {
	return string(source[t.Range.Start:t.Range.End])
}
