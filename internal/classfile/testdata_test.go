package classfile

import "encoding/binary"

// cpWriter builds a minimal constant pool byte-for-byte, for constructing
// synthetic class files in tests without shipping binary fixtures.
type cpWriter struct {
	buf  []byte
	next uint16 // next free constant pool index, starting at 1
}

func newCPWriter() *cpWriter { return &cpWriter{next: 1} }

func (w *cpWriter) u1(b byte)     { w.buf = append(w.buf, b) }
func (w *cpWriter) u2(v uint16)   { w.buf = binary.BigEndian.AppendUint16(w.buf, v) }
func (w *cpWriter) u4(v uint32)   { w.buf = binary.BigEndian.AppendUint32(w.buf, v) }
func (w *cpWriter) raw(b []byte)  { w.buf = append(w.buf, b...) }

func (w *cpWriter) utf8(s string) uint16 {
	idx := w.next
	w.next++
	w.u1(tagUTF8)
	w.u2(uint16(len(s)))
	w.raw([]byte(s))
	return idx
}

func (w *cpWriter) class(internalName string) uint16 {
	nameIdx := w.utf8(internalName)
	idx := w.next
	w.next++
	w.u1(tagClass)
	w.u2(nameIdx)
	return idx
}

func (w *cpWriter) module(dottedName string) uint16 {
	nameIdx := w.utf8(dottedName)
	idx := w.next
	w.next++
	w.u1(tagModule)
	w.u2(nameIdx)
	return idx
}

func (w *cpWriter) pkg(internalName string) uint16 {
	nameIdx := w.utf8(internalName)
	idx := w.next
	w.next++
	w.u1(tagPackage)
	w.u2(nameIdx)
	return idx
}

// finish returns the constant_pool_count-prefixed bytes ready to append
// after the minor/major version fields.
func (w *cpWriter) finish() []byte {
	out := make([]byte, 0, len(w.buf)+2)
	out = binary.BigEndian.AppendUint16(out, w.next)
	out = append(out, w.buf...)
	return out
}

// buildClassBytes assembles a minimal but fully valid .class file: magic,
// versions, a constant pool covering this/super/interfaces, zero
// fields/methods, and zero class-level attributes.
func buildClassBytes(thisName, superName string, interfaces []string) []byte {
	cp := newCPWriter()
	thisIdx := cp.class(thisName)
	var superIdx uint16
	if superName != "" {
		superIdx = cp.class(superName)
	}
	ifaceIdxs := make([]uint16, len(interfaces))
	for i, iface := range interfaces {
		ifaceIdxs[i] = cp.class(iface)
	}

	var out []byte
	out = binary.BigEndian.AppendUint32(out, magic)
	out = binary.BigEndian.AppendUint16(out, 0) // minor
	out = binary.BigEndian.AppendUint16(out, 61) // major (Java 17)
	out = append(out, cp.finish()...)
	out = binary.BigEndian.AppendUint16(out, 0x0021) // access_flags: public+super
	out = binary.BigEndian.AppendUint16(out, thisIdx)
	out = binary.BigEndian.AppendUint16(out, superIdx)
	out = binary.BigEndian.AppendUint16(out, uint16(len(ifaceIdxs))) // interfaces_count
	for _, idx := range ifaceIdxs {
		out = binary.BigEndian.AppendUint16(out, idx)
	}
	out = binary.BigEndian.AppendUint16(out, 0) // fields_count
	out = binary.BigEndian.AppendUint16(out, 0) // methods_count
	out = binary.BigEndian.AppendUint16(out, 0) // attributes_count
	return out
}

// buildModuleInfoBytes assembles a minimal module-info.class with a
// Module attribute naming moduleName and the given `requires` targets
// (each required plainly, with no transitive/static flags).
func buildModuleInfoBytes(moduleName string, open bool, requires []string) []byte {
	cp := newCPWriter()
	thisIdx := cp.class("module-info")
	moduleAttrNameIdx := cp.utf8("Module")
	selfModuleIdx := cp.module(moduleName)
	reqModuleIdxs := make([]uint16, len(requires))
	for i, r := range requires {
		reqModuleIdxs[i] = cp.module(r)
	}

	// Module attribute body.
	var attr []byte
	attr = binary.BigEndian.AppendUint16(attr, selfModuleIdx)
	var flags uint16
	if open {
		flags |= accModuleOpen
	}
	attr = binary.BigEndian.AppendUint16(attr, flags)
	attr = binary.BigEndian.AppendUint16(attr, 0) // version index

	attr = binary.BigEndian.AppendUint16(attr, uint16(len(reqModuleIdxs))) // requires_count
	for _, idx := range reqModuleIdxs {
		attr = binary.BigEndian.AppendUint16(attr, idx)
		attr = binary.BigEndian.AppendUint16(attr, 0) // requires_flags
		attr = binary.BigEndian.AppendUint16(attr, 0) // requires_version_index
	}
	attr = binary.BigEndian.AppendUint16(attr, 0) // exports_count
	attr = binary.BigEndian.AppendUint16(attr, 0) // opens_count
	attr = binary.BigEndian.AppendUint16(attr, 0) // uses_count
	attr = binary.BigEndian.AppendUint16(attr, 0) // provides_count

	var out []byte
	out = binary.BigEndian.AppendUint32(out, magic)
	out = binary.BigEndian.AppendUint16(out, 0)
	out = binary.BigEndian.AppendUint16(out, 61)
	out = append(out, cp.finish()...)
	out = binary.BigEndian.AppendUint16(out, 0x8000) // access_flags: ACC_MODULE
	out = binary.BigEndian.AppendUint16(out, thisIdx)
	out = binary.BigEndian.AppendUint16(out, 0) // super_class
	out = binary.BigEndian.AppendUint16(out, 0) // interfaces_count
	out = binary.BigEndian.AppendUint16(out, 0) // fields_count
	out = binary.BigEndian.AppendUint16(out, 0) // methods_count
	out = binary.BigEndian.AppendUint16(out, 1) // attributes_count
	out = binary.BigEndian.AppendUint16(out, moduleAttrNameIdx)
	out = binary.BigEndian.AppendUint32(out, uint32(len(attr)))
	out = append(out, attr...)
	return out
}
