package typecheck

import "github.com/nova-lang/nova/internal/corepkg"

// Severity classifies a Diagnostic's urgency.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic codes (spec.md §4.6).
const (
	CodeTypeMismatch       = "type-mismatch"
	CodeUnresolvedType     = "unresolved-type"
	CodeUnresolvedMethod   = "unresolved-method"
	CodeAmbiguousMethod    = "ambiguous-method"
	CodeStaticContext      = "static-context"
	CodeConditionNotBool   = "condition-not-boolean"
	CodeReturnMismatch     = "return-mismatch"
	CodeInvalidThrow       = "invalid-throw"
	CodeInvalidCatchType   = "invalid-catch-type"
	CodeUnusedImport       = "unused-import"
	CodeNonRelativePath    = "non-relative-path"
	CodeNewFileNotAllowed  = "new-file-not-allowed"
)

// Diagnostic is one finding: its code, human message, severity, and the
// exact file/span it applies to.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	File     corepkg.FileId
	Range    corepkg.TextRange
}
