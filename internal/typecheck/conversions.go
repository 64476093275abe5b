package typecheck

// ConversionStep is one elementary step of a JLS conversion chain.
type ConversionStep int

const (
	StepIdentity ConversionStep = iota
	StepWideningPrimitive
	StepNarrowingPrimitive
	StepBoxing
	StepUnboxing
	StepWideningReference
	StepNarrowingReference
)

// UncheckedReason distinguishes the two ways a conversion can be
// unchecked: mixing raw and parameterized usages of the same generic
// class, or casting between incompatibly parameterized usages.
type UncheckedReason int

const (
	RawConversion UncheckedReason = iota
	UncheckedCast
)

// TypeWarning is a non-fatal finding attached to a successful
// conversion. Unchecked is the only kind spec.md §4.6 names.
type TypeWarning struct {
	Reason UncheckedReason
}

// ConversionCost orders conversions for overload-resolution tie
// breaking: Identity < Widening < Boxing < Unchecked < Narrowing
// (spec.md §4.6).
type ConversionCost int

const (
	CostIdentity ConversionCost = iota
	CostWidening
	CostBoxing
	CostUnchecked
	CostNarrowing
)

// Conversion is the result of successfully converting one type to
// another: the steps taken and any warnings those steps produced.
type Conversion struct {
	Steps    []ConversionStep
	Warnings []TypeWarning
}

func (c *Conversion) hasStep(s ConversionStep) bool {
	for _, step := range c.Steps {
		if step == s {
			return true
		}
	}
	return false
}

// ConversionCostOf classifies a successful conversion into its overload-
// resolution cost bucket. A conversion is bucketed by its worst step:
// any narrowing dominates, then any unchecked warning, then boxing/
// unboxing, then widening, else identity.
func ConversionCostOf(c *Conversion) ConversionCost {
	switch {
	case c.hasStep(StepNarrowingPrimitive) || c.hasStep(StepNarrowingReference):
		return CostNarrowing
	case len(c.Warnings) > 0:
		return CostUnchecked
	case c.hasStep(StepBoxing) || c.hasStep(StepUnboxing):
		return CostBoxing
	case c.hasStep(StepWideningPrimitive) || c.hasStep(StepWideningReference):
		return CostWidening
	default:
		return CostIdentity
	}
}

// ConstKind distinguishes the constant literal kinds that participate
// in the assignment-of-constant narrowing exception (JLS 5.2).
type ConstKind int

const (
	ConstInt ConstKind = iota
)

// ConstValue is a compile-time constant value, used only to decide
// whether a narrowing primitive assignment is allowed without a cast.
type ConstValue struct {
	Kind ConstKind
	Int  int64
}

func IntConst(v int64) ConstValue { return ConstValue{Kind: ConstInt, Int: v} }

// primitiveWideningChain lists, in JLS widening order, every primitive
// from reachable via repeated widening, from itself first.
func primitiveWideningChain(from PrimitiveKind) []PrimitiveKind {
	switch from {
	case Byte:
		return []PrimitiveKind{Byte, Short, Int, Long, Float, Double}
	case Short, Char:
		return []PrimitiveKind{from, Int, Long, Float, Double}
	case Int:
		return []PrimitiveKind{Int, Long, Float, Double}
	case Long:
		return []PrimitiveKind{Long, Float, Double}
	case Float:
		return []PrimitiveKind{Float, Double}
	case Double:
		return []PrimitiveKind{Double}
	default:
		return []PrimitiveKind{from}
	}
}

func isWideningPrimitive(from, to PrimitiveKind) bool {
	if from == to {
		return false
	}
	for _, p := range primitiveWideningChain(from) {
		if p == to {
			return true
		}
	}
	return false
}

// UnaryNumericPromotion implements JLS 5.6.1: byte/short/char promote
// to int, int/long/float/double are unaffected, boolean has none.
func UnaryNumericPromotion(p PrimitiveKind) (PrimitiveKind, bool) {
	switch p {
	case Byte, Short, Char:
		return Int, true
	case Int, Long, Float, Double:
		return p, true
	default:
		return 0, false
	}
}

var numericPromotionRank = map[PrimitiveKind]int{Int: 0, Long: 1, Float: 2, Double: 3}

// BinaryNumericPromotion implements JLS 5.6.2: each operand is unary-
// promoted, then the wider of the two (by the Int<Long<Float<Double
// order) wins.
func BinaryNumericPromotion(a, b PrimitiveKind) (PrimitiveKind, bool) {
	pa, ok := UnaryNumericPromotion(a)
	if !ok {
		return 0, false
	}
	pb, ok := UnaryNumericPromotion(b)
	if !ok {
		return 0, false
	}
	if numericPromotionRank[pa] >= numericPromotionRank[pb] {
		return pa, true
	}
	return pb, true
}

func typeArgsEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// referenceConversion implements widening reference conversion between
// two class types, including the same-class raw/parameterized case, which
// produces an Unchecked(RawConversion) warning (spec.md §4.6's
// JLS-conversions list). Two different parameterizations of the same
// class do not convert.
func referenceConversion(store *TypeStore, from, to Type) *Conversion {
	if from.Class == to.Class {
		if typeArgsEqual(from.TypeArgs, to.TypeArgs) {
			return &Conversion{Steps: []ConversionStep{StepIdentity}}
		}
		fromRaw := len(from.TypeArgs) == 0
		toRaw := len(to.TypeArgs) == 0
		if fromRaw != toRaw {
			return &Conversion{
				Steps:    []ConversionStep{StepWideningReference},
				Warnings: []TypeWarning{{Reason: RawConversion}},
			}
		}
		return nil
	}
	if store.IsSubtype(from.Class, to.Class) {
		return &Conversion{Steps: []ConversionStep{StepWideningReference}}
	}
	return nil
}

// MethodInvocationConversion implements JLS 5.3: identity, widening
// primitive, boxing (optionally preceded by widening, or followed by
// widening reference), unboxing (optionally followed by widening
// primitive), and widening reference — exactly one box/unbox step per
// chain, never both.
func MethodInvocationConversion(store *TypeStore, from, to Type) *Conversion {
	if Equal(from, to) {
		return &Conversion{Steps: []ConversionStep{StepIdentity}}
	}
	switch {
	case from.Tag == TagPrimitive && to.Tag == TagPrimitive:
		if isWideningPrimitive(from.Primitive, to.Primitive) {
			return &Conversion{Steps: []ConversionStep{StepWideningPrimitive}}
		}
		return nil

	case from.Tag == TagPrimitive && to.Tag == TagClass:
		for _, p := range primitiveWideningChain(from.Primitive) {
			boxed := store.boxedFor(p)
			if boxed == "" || boxed != to.Class || len(to.TypeArgs) != 0 {
				continue
			}
			if p == from.Primitive {
				return &Conversion{Steps: []ConversionStep{StepBoxing}}
			}
			return &Conversion{Steps: []ConversionStep{StepWideningPrimitive, StepBoxing}}
		}
		boxed := store.boxedFor(from.Primitive)
		if boxed != "" && store.IsSubtype(boxed, to.Class) {
			return &Conversion{Steps: []ConversionStep{StepBoxing, StepWideningReference}}
		}
		return nil

	case from.Tag == TagClass && to.Tag == TagPrimitive:
		if len(from.TypeArgs) != 0 {
			return nil
		}
		prim, ok := store.unboxedFor(from.Class)
		if !ok {
			return nil
		}
		if prim == to.Primitive {
			return &Conversion{Steps: []ConversionStep{StepUnboxing}}
		}
		if isWideningPrimitive(prim, to.Primitive) {
			return &Conversion{Steps: []ConversionStep{StepUnboxing, StepWideningPrimitive}}
		}
		return nil

	case from.Tag == TagClass && to.Tag == TagClass:
		return referenceConversion(store, from, to)

	default:
		return nil
	}
}

// AssignmentConversion implements JLS 5.2 for the non-constant case: it
// is method invocation conversion minus primitive narrowing, which
// requires AssignmentConversionWithConst's constant-fits exception.
func AssignmentConversion(store *TypeStore, from, to Type) *Conversion {
	if from.Tag == TagPrimitive && to.Tag == TagPrimitive && !isWideningPrimitive(from.Primitive, to.Primitive) && from.Primitive != to.Primitive {
		return nil
	}
	return MethodInvocationConversion(store, from, to)
}

func fitsInPrimitiveRange(p PrimitiveKind, v int64) bool {
	switch p {
	case Byte:
		return v >= -128 && v <= 127
	case Short:
		return v >= -32768 && v <= 32767
	case Char:
		return v >= 0 && v <= 65535
	default:
		return false
	}
}

// AssignmentConversionWithConst adds JLS 5.2's constant-narrowing
// exception: a constant expression of type byte/short/char/int may be
// assigned to a narrower primitive type if its value fits.
func AssignmentConversionWithConst(store *TypeStore, from, to Type, constVal *ConstValue) *Conversion {
	if conv := AssignmentConversion(store, from, to); conv != nil {
		return conv
	}
	if from.Tag == TagPrimitive && to.Tag == TagPrimitive && constVal != nil && constVal.Kind == ConstInt {
		if fitsInPrimitiveRange(to.Primitive, constVal.Int) {
			return &Conversion{Steps: []ConversionStep{StepNarrowingPrimitive}}
		}
	}
	return nil
}

// castReferenceConversion implements JLS 5.5's class-to-class cast
// rules: same-class raw/parameterized mismatches and differently-
// parameterized usages are both allowed with an Unchecked warning;
// otherwise any related classes (in either direction) convert cleanly,
// and unrelated reference types are permitted too (the compiler only
// rejects casts between provably disjoint final classes, which this
// simplified store does not model).
func castReferenceConversion(store *TypeStore, from, to Type) *Conversion {
	if from.Class == to.Class {
		if typeArgsEqual(from.TypeArgs, to.TypeArgs) {
			return &Conversion{Steps: []ConversionStep{StepIdentity}}
		}
		fromRaw := len(from.TypeArgs) == 0
		toRaw := len(to.TypeArgs) == 0
		if fromRaw != toRaw {
			return &Conversion{
				Steps:    []ConversionStep{StepWideningReference},
				Warnings: []TypeWarning{{Reason: RawConversion}},
			}
		}
		return &Conversion{
			Steps:    []ConversionStep{StepWideningReference},
			Warnings: []TypeWarning{{Reason: UncheckedCast}},
		}
	}
	if store.IsSubtype(from.Class, to.Class) {
		return &Conversion{Steps: []ConversionStep{StepWideningReference}}
	}
	if store.IsSubtype(to.Class, from.Class) {
		return &Conversion{Steps: []ConversionStep{StepNarrowingReference}}
	}
	return &Conversion{Steps: []ConversionStep{StepNarrowingReference}}
}

// CastConversion implements JLS 5.5: everything method invocation
// conversion allows, plus primitive narrowing, reference downcasts, and
// intersection cast targets (every part must individually convert; the
// cast's warnings are the union of its parts' warnings).
func CastConversion(store *TypeStore, from, to Type) *Conversion {
	if Equal(from, to) {
		return &Conversion{Steps: []ConversionStep{StepIdentity}}
	}
	if to.Tag == TagIntersection {
		var warnings []TypeWarning
		for _, part := range to.Parts {
			c := CastConversion(store, from, part)
			if c == nil {
				return nil
			}
			warnings = append(warnings, c.Warnings...)
		}
		return &Conversion{Steps: []ConversionStep{StepWideningReference}, Warnings: warnings}
	}
	switch {
	case from.Tag == TagPrimitive && to.Tag == TagPrimitive:
		if isWideningPrimitive(from.Primitive, to.Primitive) {
			return &Conversion{Steps: []ConversionStep{StepWideningPrimitive}}
		}
		return &Conversion{Steps: []ConversionStep{StepNarrowingPrimitive}}

	case from.Tag == TagPrimitive && to.Tag == TagClass:
		boxed := store.boxedFor(from.Primitive)
		if boxed == "" {
			return nil
		}
		if boxed == to.Class && len(to.TypeArgs) == 0 {
			return &Conversion{Steps: []ConversionStep{StepBoxing}}
		}
		if store.IsSubtype(boxed, to.Class) {
			return &Conversion{Steps: []ConversionStep{StepBoxing, StepWideningReference}}
		}
		return &Conversion{Steps: []ConversionStep{StepBoxing, StepNarrowingReference}}

	case from.Tag == TagClass && to.Tag == TagPrimitive:
		if len(from.TypeArgs) != 0 {
			return nil
		}
		prim, ok := store.unboxedFor(from.Class)
		if !ok {
			return nil
		}
		if prim == to.Primitive {
			return &Conversion{Steps: []ConversionStep{StepUnboxing}}
		}
		if isWideningPrimitive(prim, to.Primitive) {
			return &Conversion{Steps: []ConversionStep{StepUnboxing, StepWideningPrimitive}}
		}
		return &Conversion{Steps: []ConversionStep{StepUnboxing, StepNarrowingPrimitive}}

	case from.Tag == TagClass && to.Tag == TagClass:
		return castReferenceConversion(store, from, to)

	default:
		return nil
	}
}
