// Package typecheck resolves names against the workspace and classpath
// and checks both declared-signature types (imports, supertypes, field
// and parameter/return/throws types) and, for every method or
// constructor with a parsed body, its statements and expressions
// against the JLS conversion and overload resolution rules (spec.md
// §4.6).
package typecheck

import "github.com/nova-lang/nova/internal/corepkg"

// PrimitiveKind enumerates the eight Java primitive types.
type PrimitiveKind int

const (
	Boolean PrimitiveKind = iota
	Byte
	Short
	Char
	Int
	Long
	Float
	Double
)

func (k PrimitiveKind) String() string {
	switch k {
	case Boolean:
		return "boolean"
	case Byte:
		return "byte"
	case Short:
		return "short"
	case Char:
		return "char"
	case Int:
		return "int"
	case Long:
		return "long"
	case Float:
		return "float"
	case Double:
		return "double"
	default:
		return "?"
	}
}

// TypeTag discriminates Type's variants.
type TypeTag int

const (
	TagPrimitive TypeTag = iota
	TagClass
	TagArray
	TagTypeVariable
	TagIntersection
	TagNull
	TagVoid
	TagUnknown
)

// Type is Nova's own small value-type representation of a Java type: a
// primitive, a (possibly generic, possibly raw) class type, an array,
// a type variable, an intersection (used by casts to multiple bounds),
// null, void, or Unknown (the result of a failed resolution, which
// short-circuits further checking of anything built from it).
type Type struct {
	Tag       TypeTag
	Primitive PrimitiveKind
	Class     corepkg.TypeName
	TypeArgs  []Type
	Elem      *Type
	Parts     []Type
	Var       string
}

func PrimitiveType(k PrimitiveKind) Type { return Type{Tag: TagPrimitive, Primitive: k} }

func ClassType(name corepkg.TypeName, args ...Type) Type {
	return Type{Tag: TagClass, Class: name, TypeArgs: args}
}

func ArrayType(elem Type) Type { return Type{Tag: TagArray, Elem: &elem} }

func TypeVariable(name string) Type { return Type{Tag: TagTypeVariable, Var: name} }

func IntersectionType(parts ...Type) Type { return Type{Tag: TagIntersection, Parts: parts} }

func NullType() Type { return Type{Tag: TagNull} }

func VoidType() Type { return Type{Tag: TagVoid} }

func UnknownType() Type { return Type{Tag: TagUnknown} }

func (t Type) IsUnknown() bool { return t.Tag == TagUnknown }

// String renders t roughly the way it would appear in a Java
// diagnostic message.
func (t Type) String() string {
	switch t.Tag {
	case TagPrimitive:
		return t.Primitive.String()
	case TagClass:
		if len(t.TypeArgs) == 0 {
			return string(t.Class)
		}
		s := string(t.Class) + "<"
		for i, a := range t.TypeArgs {
			if i > 0 {
				s += ", "
			}
			s += a.String()
		}
		return s + ">"
	case TagArray:
		return t.Elem.String() + "[]"
	case TagTypeVariable:
		return t.Var
	case TagIntersection:
		s := ""
		for i, p := range t.Parts {
			if i > 0 {
				s += " & "
			}
			s += p.String()
		}
		return s
	case TagNull:
		return "null"
	case TagVoid:
		return "void"
	default:
		return "<unknown>"
	}
}

// Equal reports whether a and b denote the exact same type (same tag,
// same class and type arguments in the same order). It does not
// consult any subtype or conversion relation.
func Equal(a, b Type) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TagPrimitive:
		return a.Primitive == b.Primitive
	case TagClass:
		if a.Class != b.Class || len(a.TypeArgs) != len(b.TypeArgs) {
			return false
		}
		for i := range a.TypeArgs {
			if !Equal(a.TypeArgs[i], b.TypeArgs[i]) {
				return false
			}
		}
		return true
	case TagArray:
		return Equal(*a.Elem, *b.Elem)
	case TagTypeVariable:
		return a.Var == b.Var
	case TagIntersection:
		if len(a.Parts) != len(b.Parts) {
			return false
		}
		for i := range a.Parts {
			if !Equal(a.Parts[i], b.Parts[i]) {
				return false
			}
		}
		return true
	default:
		return true // Null, Void, Unknown each have one value
	}
}
