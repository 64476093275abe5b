package classfile

import "github.com/nova-lang/nova/internal/corepkg"

// MemberStub is one field or method surfaced on a TypeDefStub: just
// enough shape for the typechecker to resolve member references against
// a compiled dependency without decoding its bytecode.
type MemberStub struct {
	Name        string
	Descriptor  string
	AccessFlags uint16
}

// TypeDefStub is the read-only view of a compiled class the typechecker
// and HIR resolver need when a reference crosses from source into a
// binary dependency: its binary name, access flags, supertype chain, and
// member signatures.
type TypeDefStub struct {
	BinaryName  corepkg.TypeName
	AccessFlags uint16
	Super       corepkg.TypeName // empty for java/lang/Object
	Interfaces  []corepkg.TypeName
	Fields      []MemberStub
	Methods     []MemberStub
}

// NewTypeDefStub projects a decoded ClassFile down to the subset of data
// the rest of Nova needs, discarding annotations, signatures, and inner
// class metadata not required for name/member resolution.
func NewTypeDefStub(cf *ClassFile) TypeDefStub {
	stub := TypeDefStub{
		BinaryName:  corepkg.TypeName(cf.ThisClass),
		AccessFlags: cf.AccessFlags,
		Super:       corepkg.TypeName(cf.SuperClass),
	}
	for _, iface := range cf.Interfaces {
		stub.Interfaces = append(stub.Interfaces, corepkg.TypeName(iface))
	}
	for _, f := range cf.Fields {
		stub.Fields = append(stub.Fields, MemberStub{Name: f.Name, Descriptor: f.Descriptor, AccessFlags: f.AccessFlags})
	}
	for _, m := range cf.Methods {
		stub.Methods = append(stub.Methods, MemberStub{Name: m.Name, Descriptor: m.Descriptor, AccessFlags: m.AccessFlags})
	}
	return stub
}
