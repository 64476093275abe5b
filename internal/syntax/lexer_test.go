package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []SyntaxKind {
	out := make([]SyntaxKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestLexRoundTripConcatenatesToSource(t *testing.T) {
	src := []byte("class C { void m() { int x = \"no\"; } }")
	tokens, issues := Lex(src)
	assert.Empty(t, issues)

	var rebuilt []byte
	for _, tok := range tokens {
		if tok.Kind == TokEOF {
			continue
		}
		rebuilt = append(rebuilt, src[tok.Range.Start:tok.Range.End]...)
	}
	assert.Equal(t, string(src), string(rebuilt))
}

func TestLexKeywordsAndIdents(t *testing.T) {
	tokens, issues := Lex([]byte("public class Foo"))
	require.Empty(t, issues)
	var nonTrivia []SyntaxKind
	for _, tok := range tokens {
		if tok.Kind.IsTrivia() || tok.Kind == TokEOF {
			continue
		}
		nonTrivia = append(nonTrivia, tok.Kind)
	}
	assert.Equal(t, []SyntaxKind{TokPublic, TokClass, TokIdent}, nonTrivia)
}

func TestLexNumericLiterals(t *testing.T) {
	cases := map[string]SyntaxKind{
		"42":     TokIntLiteral,
		"42L":    TokLongLiteral,
		"3.14":   TokDoubleLiteral,
		"3.14f":  TokFloatLiteral,
		"3.14d":  TokDoubleLiteral,
		"0x1F":   TokIntLiteral,
		"1e10":   TokDoubleLiteral,
		"0b101":  TokIntLiteral,
	}
	for src, want := range cases {
		tokens, issues := Lex([]byte(src))
		require.Empty(t, issues, "src=%q", src)
		require.Equal(t, want, tokens[0].Kind, "src=%q", src)
		require.Equal(t, src, tokens[0].Text([]byte(src)))
	}
}

func TestLexStringAndCharLiterals(t *testing.T) {
	tokens, issues := Lex([]byte(`"hello \"world\""`))
	require.Empty(t, issues)
	assert.Equal(t, TokStringLiteral, tokens[0].Kind)

	tokens, issues = Lex([]byte(`'a'`))
	require.Empty(t, issues)
	assert.Equal(t, TokCharLiteral, tokens[0].Kind)

	tokens, issues = Lex([]byte(`'\n'`))
	require.Empty(t, issues)
	assert.Equal(t, TokCharLiteral, tokens[0].Kind)
}

func TestLexTextBlock(t *testing.T) {
	src := "\"\"\"\n  hello\n  \"\"\""
	tokens, issues := Lex([]byte(src))
	require.Empty(t, issues)
	assert.Equal(t, TokTextBlockLiteral, tokens[0].Kind)
}

func TestLexUnterminatedStringRecovers(t *testing.T) {
	tokens, issues := Lex([]byte(`"unterminated`))
	require.Len(t, issues, 1)
	assert.Equal(t, TokStringLiteral, tokens[0].Kind)
	assert.Equal(t, TokEOF, tokens[len(tokens)-1].Kind)
}

func TestLexUnterminatedBlockCommentRecovers(t *testing.T) {
	tokens, issues := Lex([]byte("/* never closed"))
	require.Len(t, issues, 1)
	assert.Equal(t, TokBlockComment, tokens[0].Kind)
}

func TestLexDocCommentDistinctFromBlockComment(t *testing.T) {
	tokens, _ := Lex([]byte("/** doc */ /* block */"))
	assert.Equal(t, TokDocComment, tokens[0].Kind)
	// tokens[1] is whitespace
	var blockIdx = -1
	for i, tok := range tokens {
		if tok.Kind == TokBlockComment {
			blockIdx = i
			break
		}
	}
	require.NotEqual(t, -1, blockIdx)
}

func TestLexMultiCharOperators(t *testing.T) {
	tokens, issues := Lex([]byte(">>>= <<= ... -> :: >>> <<"))
	require.Empty(t, issues)
	var nonTrivia []SyntaxKind
	for _, tok := range tokens {
		if tok.Kind.IsTrivia() || tok.Kind == TokEOF {
			continue
		}
		nonTrivia = append(nonTrivia, tok.Kind)
	}
	assert.Equal(t, []SyntaxKind{
		TokUshrAssign, TokShlAssign, TokEllipsis, TokArrow, TokColonColon, TokUshr, TokShl,
	}, nonTrivia)
}

func TestLexDeterministic(t *testing.T) {
	src := []byte(`package p; import java.util.*; class A<T> { T f(int x) { return x > 1 ? (T) null : null; } }`)
	tokens1, issues1 := Lex(src)
	tokens2, issues2 := Lex(src)
	assert.Equal(t, kinds(tokens1), kinds(tokens2))
	assert.Equal(t, issues1, issues2)
}
