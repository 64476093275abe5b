package syntax

import "github.com/nova-lang/nova/internal/corepkg"

// ParseError is a recoverable problem found while parsing. Parsing never
// fails (spec.md §4.2): it always produces a best-effort green tree plus
// zero or more ParseErrors.
type ParseError struct {
	Message string
	Range   corepkg.TextRange
}
