package typecheck

import "github.com/nova-lang/nova/internal/corepkg"

// ClassDef is a class or interface's hierarchy shape, as seen by the
// type checker: enough to decide subtyping and raw-type usage, nothing
// about its members (method/field resolution reads those from
// hir.TypeDef / classfile.TypeDefStub directly).
type ClassDef struct {
	BinaryName     corepkg.TypeName
	IsInterface    bool
	Super          corepkg.TypeName // "" for java.lang.Object or an interface
	Interfaces     []corepkg.TypeName
	TypeParamCount int // 0 for a non-generic class
}

// WellKnownTypes names the handful of java.lang/java.util/java.io
// classes the checker's conversion rules need by identity (boxing
// pairs, Object as the reference-conversion root, Throwable as the
// catch-clause root).
type WellKnownTypes struct {
	Object          corepkg.TypeName
	String          corepkg.TypeName
	Number          corepkg.TypeName
	Boolean         corepkg.TypeName
	Byte            corepkg.TypeName
	Short            corepkg.TypeName
	Character       corepkg.TypeName
	Integer         corepkg.TypeName
	Long            corepkg.TypeName
	Float           corepkg.TypeName
	Double          corepkg.TypeName
	Void            corepkg.TypeName
	Serializable    corepkg.TypeName
	Cloneable       corepkg.TypeName
	Throwable       corepkg.TypeName
	Exception       corepkg.TypeName
	RuntimeException corepkg.TypeName
	Error           corepkg.TypeName
}

// TypeStore holds the class hierarchy the checker reasons over: a
// minimal bootstrapped JDK plus whatever workspace/classpath classes
// are registered on top of it. Lookups never fall back to the network
// or a real JDK install — an unregistered name is simply absent, which
// the resolver turns into an unresolved-type diagnostic.
type TypeStore struct {
	classes   map[corepkg.TypeName]ClassDef
	wellKnown WellKnownTypes
}

// NewTypeStore bootstraps a minimal JDK: java.lang's Object/String/
// wrapper-type/Throwable hierarchy and a generic java.util.List/
// Collection pair, enough to exercise boxing, widening reference, and
// raw-type conversions without a real JDK on disk.
func NewTypeStore() *TypeStore {
	s := &TypeStore{classes: make(map[corepkg.TypeName]ClassDef)}
	wk := WellKnownTypes{
		Object:           "java.lang.Object",
		String:           "java.lang.String",
		Number:           "java.lang.Number",
		Boolean:          "java.lang.Boolean",
		Byte:             "java.lang.Byte",
		Short:            "java.lang.Short",
		Character:        "java.lang.Character",
		Integer:          "java.lang.Integer",
		Long:             "java.lang.Long",
		Float:            "java.lang.Float",
		Double:           "java.lang.Double",
		Void:             "java.lang.Void",
		Serializable:     "java.io.Serializable",
		Cloneable:        "java.lang.Cloneable",
		Throwable:        "java.lang.Throwable",
		Exception:        "java.lang.Exception",
		RuntimeException: "java.lang.RuntimeException",
		Error:            "java.lang.Error",
	}
	s.wellKnown = wk

	s.RegisterClass(ClassDef{BinaryName: wk.Object})
	s.RegisterClass(ClassDef{BinaryName: wk.String, Super: wk.Object, Interfaces: []corepkg.TypeName{wk.Serializable}})
	s.RegisterClass(ClassDef{BinaryName: wk.Number, Super: wk.Object, Interfaces: []corepkg.TypeName{wk.Serializable}})
	for _, numeric := range []corepkg.TypeName{wk.Byte, wk.Short, wk.Integer, wk.Long, wk.Float, wk.Double} {
		s.RegisterClass(ClassDef{BinaryName: numeric, Super: wk.Number, Interfaces: []corepkg.TypeName{wk.Serializable}})
	}
	s.RegisterClass(ClassDef{BinaryName: wk.Boolean, Super: wk.Object, Interfaces: []corepkg.TypeName{wk.Serializable}})
	s.RegisterClass(ClassDef{BinaryName: wk.Character, Super: wk.Object, Interfaces: []corepkg.TypeName{wk.Serializable}})
	s.RegisterClass(ClassDef{BinaryName: wk.Void, Super: wk.Object})

	s.RegisterClass(ClassDef{BinaryName: wk.Throwable, Super: wk.Object, Interfaces: []corepkg.TypeName{wk.Serializable}})
	s.RegisterClass(ClassDef{BinaryName: wk.Exception, Super: wk.Throwable})
	s.RegisterClass(ClassDef{BinaryName: wk.RuntimeException, Super: wk.Exception})
	s.RegisterClass(ClassDef{BinaryName: wk.Error, Super: wk.Throwable})
	s.RegisterClass(ClassDef{BinaryName: "java.lang.NullPointerException", Super: wk.RuntimeException})
	s.RegisterClass(ClassDef{BinaryName: "java.lang.IllegalArgumentException", Super: wk.RuntimeException})
	s.RegisterClass(ClassDef{BinaryName: "java.io.IOException", Super: wk.Exception})
	s.RegisterClass(ClassDef{BinaryName: "java.lang.InterruptedException", Super: wk.Exception})

	s.RegisterClass(ClassDef{BinaryName: "java.lang.Iterable", IsInterface: true, TypeParamCount: 1})
	s.RegisterClass(ClassDef{BinaryName: "java.util.Collection", IsInterface: true, TypeParamCount: 1,
		Interfaces: []corepkg.TypeName{"java.lang.Iterable"}})
	s.RegisterClass(ClassDef{BinaryName: "java.util.List", IsInterface: true, TypeParamCount: 1,
		Interfaces: []corepkg.TypeName{"java.util.Collection"}})
	s.RegisterClass(ClassDef{BinaryName: "java.util.Map", IsInterface: true, TypeParamCount: 2})

	return s
}

func (s *TypeStore) WellKnown() WellKnownTypes { return s.wellKnown }

// RegisterClass adds or replaces def in the store. Only NewTypeStore
// calls it, for the bootstrapped JDK types; workspace and classpath
// types are not registered here.
func (s *TypeStore) RegisterClass(def ClassDef) {
	s.classes[def.BinaryName] = def
}

func (s *TypeStore) ClassDef(name corepkg.TypeName) (ClassDef, bool) {
	d, ok := s.classes[name]
	return d, ok
}

// IsRaw reports whether t is a usage of a generic class with zero
// supplied type arguments.
func (s *TypeStore) IsRaw(t Type) bool {
	if t.Tag != TagClass {
		return false
	}
	def, ok := s.classes[t.Class]
	return ok && def.TypeParamCount > 0 && len(t.TypeArgs) == 0
}

// IsSubtype reports whether sub is sub (or equal to) super in the class/
// interface hierarchy, searching the class chain first and then
// interfaces breadth-first (spec.md §4.6's method-resolution search
// order, reused here for subtyping).
func (s *TypeStore) IsSubtype(sub, super corepkg.TypeName) bool {
	if sub == super {
		return true
	}
	visited := make(map[corepkg.TypeName]bool)
	queue := []corepkg.TypeName{sub}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		def, ok := s.classes[cur]
		if !ok {
			continue
		}
		if def.Super != "" {
			if def.Super == super {
				return true
			}
			queue = append(queue, def.Super)
		}
		for _, iface := range def.Interfaces {
			if iface == super {
				return true
			}
			queue = append(queue, iface)
		}
	}
	return false
}

// boxedFor returns the wrapper class for a primitive kind.
func (s *TypeStore) boxedFor(p PrimitiveKind) corepkg.TypeName {
	switch p {
	case Boolean:
		return s.wellKnown.Boolean
	case Byte:
		return s.wellKnown.Byte
	case Short:
		return s.wellKnown.Short
	case Char:
		return s.wellKnown.Character
	case Int:
		return s.wellKnown.Integer
	case Long:
		return s.wellKnown.Long
	case Float:
		return s.wellKnown.Float
	case Double:
		return s.wellKnown.Double
	default:
		return ""
	}
}

// unboxedFor returns the primitive kind a wrapper class unboxes to.
func (s *TypeStore) unboxedFor(name corepkg.TypeName) (PrimitiveKind, bool) {
	switch name {
	case s.wellKnown.Boolean:
		return Boolean, true
	case s.wellKnown.Byte:
		return Byte, true
	case s.wellKnown.Short:
		return Short, true
	case s.wellKnown.Character:
		return Char, true
	case s.wellKnown.Integer:
		return Int, true
	case s.wellKnown.Long:
		return Long, true
	case s.wellKnown.Float:
		return Float, true
	case s.wellKnown.Double:
		return Double, true
	default:
		return 0, false
	}
}
