package typecheck

import "github.com/nova-lang/nova/internal/corepkg"

// MethodCandidate is one declared method signature under consideration
// for an overload resolution, already resolved to Type values (callers
// turn an hir.MethodDef's param/return type-ref text into Type via the
// Resolver before building candidates).
type MethodCandidate struct {
	Owner      corepkg.TypeName
	Name       corepkg.Name
	ParamTypes []Type
	ReturnType Type
	IsStatic   bool
	IsVarargs bool // last ParamTypes entry is the varargs element's array type
}

// MethodMatch is a resolved overload: the winning candidate and the
// per-argument conversion applied to reach it.
type MethodMatch struct {
	Candidate      MethodCandidate
	ArgConversions []*Conversion
}

// ResolveMethodCall runs four applicability phases in order (strict
// invocation, loose invocation without unchecked conversions, loose
// invocation allowing them, then variable arity),
// stopping at the first phase with at least one applicable candidate.
// Within a phase, the candidate(s) with the lowest total argument
// conversion cost win; a genuine tie is reported as CodeAmbiguousMethod
// rather than picking one arbitrarily. No applicable candidate in any
// phase is CodeUnresolvedMethod.
func ResolveMethodCall(store *TypeStore, candidates []MethodCandidate, argTypes []Type) (*MethodMatch, string) {
	phases := []func(MethodCandidate) ([]*Conversion, bool){
		func(c MethodCandidate) ([]*Conversion, bool) { return strictArity(store, c, argTypes) },
		func(c MethodCandidate) ([]*Conversion, bool) { return looseArity(store, c, argTypes, false) },
		func(c MethodCandidate) ([]*Conversion, bool) { return looseArity(store, c, argTypes, true) },
		func(c MethodCandidate) ([]*Conversion, bool) { return variableArity(store, c, argTypes) },
	}

	for _, phase := range phases {
		var matches []MethodMatch
		for _, c := range candidates {
			if convs, ok := phase(c); ok {
				matches = append(matches, MethodMatch{Candidate: c, ArgConversions: convs})
			}
		}
		if len(matches) == 0 {
			continue
		}
		best, tie := pickCheapest(matches)
		if tie {
			return nil, CodeAmbiguousMethod
		}
		return best, ""
	}
	return nil, CodeUnresolvedMethod
}

func pickCheapest(matches []MethodMatch) (*MethodMatch, bool) {
	best := matches[0]
	bestCost := totalCost(best.ArgConversions)
	tie := false
	for _, m := range matches[1:] {
		cost := totalCost(m.ArgConversions)
		switch {
		case cost < bestCost:
			best, bestCost, tie = m, cost, false
		case cost == bestCost:
			tie = true
		}
	}
	return &best, tie
}

func totalCost(convs []*Conversion) int {
	total := 0
	for _, c := range convs {
		total += int(ConversionCostOf(c))
	}
	return total
}

// strictArity is JLS 15.12.2's phase 1: applicable only via identity or
// widening primitive/reference conversions, exact arity, no boxing.
func strictArity(store *TypeStore, c MethodCandidate, argTypes []Type) ([]*Conversion, bool) {
	if len(c.ParamTypes) != len(argTypes) {
		return nil, false
	}
	convs := make([]*Conversion, len(argTypes))
	for i, param := range c.ParamTypes {
		conv := MethodInvocationConversion(store, argTypes[i], param)
		if conv == nil || conv.hasStep(StepBoxing) || conv.hasStep(StepUnboxing) {
			return nil, false
		}
		convs[i] = conv
	}
	return convs, true
}

// looseArity is phases 2 and 3: exact arity, boxing/unboxing allowed;
// allowUnchecked gates whether an unchecked-warning conversion (e.g. a
// raw type) may still apply.
func looseArity(store *TypeStore, c MethodCandidate, argTypes []Type, allowUnchecked bool) ([]*Conversion, bool) {
	if len(c.ParamTypes) != len(argTypes) {
		return nil, false
	}
	convs := make([]*Conversion, len(argTypes))
	for i, param := range c.ParamTypes {
		conv := MethodInvocationConversion(store, argTypes[i], param)
		if conv == nil {
			return nil, false
		}
		if !allowUnchecked && len(conv.Warnings) > 0 {
			return nil, false
		}
		convs[i] = conv
	}
	return convs, true
}

// variableArity is phase 4: the candidate's trailing parameter is
// treated as an array, and every trailing argument beyond the fixed
// prefix converts to its element type.
func variableArity(store *TypeStore, c MethodCandidate, argTypes []Type) ([]*Conversion, bool) {
	if !c.IsVarargs || len(c.ParamTypes) == 0 {
		return nil, false
	}
	fixedCount := len(c.ParamTypes) - 1
	if len(argTypes) < fixedCount {
		return nil, false
	}
	arrayParam := c.ParamTypes[fixedCount]
	if arrayParam.Tag != TagArray {
		return nil, false
	}
	convs := make([]*Conversion, 0, len(argTypes))
	for i := 0; i < fixedCount; i++ {
		conv := MethodInvocationConversion(store, argTypes[i], c.ParamTypes[i])
		if conv == nil {
			return nil, false
		}
		convs = append(convs, conv)
	}
	for i := fixedCount; i < len(argTypes); i++ {
		conv := MethodInvocationConversion(store, argTypes[i], *arrayParam.Elem)
		if conv == nil {
			return nil, false
		}
		convs = append(convs, conv)
	}
	return convs, true
}
