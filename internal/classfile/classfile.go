// Package classfile decodes .class files into type stubs, reading just
// enough of the JVM class file format to recover names, access flags,
// members and JPMS module data without ever interpreting bytecode.
package classfile

const magic = 0xCAFEBABE

// MemberInfo is a field or method entry: access flags, name, raw
// descriptor, and the subset of attributes Nova cares about.
type MemberInfo struct {
	AccessFlags                 uint16
	Name                        string
	Descriptor                  string
	Signature                   string
	RuntimeVisibleAnnotations   []Annotation
	RuntimeInvisibleAnnotations []Annotation
}

// InnerClassInfo is one entry of a class-level InnerClasses attribute.
type InnerClassInfo struct {
	InnerClass  string
	OuterClass  string // empty if absent
	InnerName   string // empty if anonymous
	AccessFlags uint16
}

// ClassFile is the decoded shape of a single .class file, sufficient to
// build a TypeDefStub: binary name, supertype, interfaces, members, and
// whatever annotation/signature/inner-class metadata the rest of Nova's
// HIR and typechecker need without ever decoding bytecode.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  uint16
	ThisClass    string
	SuperClass   string // empty for java/lang/Object
	Interfaces   []string
	Fields       []MemberInfo
	Methods      []MemberInfo

	Signature                   string
	RuntimeVisibleAnnotations   []Annotation
	RuntimeInvisibleAnnotations []Annotation
	InnerClasses                []InnerClassInfo
}

// attributeTarget distinguishes class-level attributes (which accept
// InnerClasses) from member-level ones.
type attributeTarget int

const (
	targetClass attributeTarget = iota
	targetMember
)

// Parse decodes a single .class file's bytes. It never fails on an
// attribute it doesn't recognize; unknown attributes are skipped by
// their declared length.
func Parse(data []byte) (*ClassFile, error) {
	r := newReader(data)

	magicNum, err := r.u4()
	if err != nil {
		return nil, err
	}
	if magicNum != magic {
		return nil, &InvalidMagicError{Magic: magicNum}
	}

	minor, err := r.u2()
	if err != nil {
		return nil, err
	}
	major, err := r.u2()
	if err != nil {
		return nil, err
	}

	cp, err := parseConstantPool(r)
	if err != nil {
		return nil, err
	}

	accessFlags, err := r.u2()
	if err != nil {
		return nil, err
	}
	thisClassIdx, err := r.u2()
	if err != nil {
		return nil, err
	}
	thisClass, err := cp.getClassName(thisClassIdx)
	if err != nil {
		return nil, err
	}
	superClassIdx, err := r.u2()
	if err != nil {
		return nil, err
	}
	superClass, err := cp.getClassName(superClassIdx)
	if err != nil {
		return nil, err
	}

	ifaceCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	interfaces := make([]string, 0, ifaceCount)
	for i := 0; i < int(ifaceCount); i++ {
		idx, err := r.u2()
		if err != nil {
			return nil, err
		}
		name, err := cp.getClassName(idx)
		if err != nil {
			return nil, err
		}
		interfaces = append(interfaces, name)
	}

	fields, err := parseMembers(r, cp)
	if err != nil {
		return nil, err
	}
	methods, err := parseMembers(r, cp)
	if err != nil {
		return nil, err
	}

	cf := &ClassFile{
		MinorVersion: minor,
		MajorVersion: major,
		AccessFlags:  accessFlags,
		ThisClass:    thisClass,
		SuperClass:   superClass,
		Interfaces:   interfaces,
		Fields:       fields,
		Methods:      methods,
	}

	if err := parseAttributes(r, cp, targetClass, cf, nil); err != nil {
		return nil, err
	}

	if err := r.ensureEmpty(); err != nil {
		return nil, err
	}
	return cf, nil
}

func parseMembers(r *reader, cp *constantPool) ([]MemberInfo, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	members := make([]MemberInfo, 0, count)
	for i := 0; i < int(count); i++ {
		m, err := parseMember(r, cp)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func parseMember(r *reader, cp *constantPool) (MemberInfo, error) {
	accessFlags, err := r.u2()
	if err != nil {
		return MemberInfo{}, err
	}
	nameIdx, err := r.u2()
	if err != nil {
		return MemberInfo{}, err
	}
	name, err := cp.getUTF8(nameIdx)
	if err != nil {
		return MemberInfo{}, err
	}
	descIdx, err := r.u2()
	if err != nil {
		return MemberInfo{}, err
	}
	desc, err := cp.getUTF8(descIdx)
	if err != nil {
		return MemberInfo{}, err
	}

	m := MemberInfo{AccessFlags: accessFlags, Name: name, Descriptor: desc}
	if err := parseAttributes(r, cp, targetMember, nil, &m); err != nil {
		return MemberInfo{}, err
	}
	return m, nil
}

// parseAttributes reads an attribute table, dispatching recognized
// attribute names into cf (class target) or m (member target) and
// skipping everything else by its declared byte length.
func parseAttributes(r *reader, cp *constantPool, target attributeTarget, cf *ClassFile, m *MemberInfo) error {
	count, err := r.u2()
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		nameIdx, err := r.u2()
		if err != nil {
			return err
		}
		name, err := cp.getUTF8(nameIdx)
		if err != nil {
			return err
		}
		length, err := r.u4()
		if err != nil {
			return err
		}
		body, err := r.bytes(int(length))
		if err != nil {
			return err
		}
		br := newReader(body)

		switch name {
		case "Signature":
			idx, err := br.u2()
			if err != nil {
				return err
			}
			sig, err := cp.getUTF8(idx)
			if err != nil {
				return err
			}
			if target == targetClass {
				cf.Signature = sig
			} else {
				m.Signature = sig
			}
		case "RuntimeVisibleAnnotations":
			anns, err := parseAnnotations(br, cp)
			if err != nil {
				return err
			}
			if target == targetClass {
				cf.RuntimeVisibleAnnotations = anns
			} else {
				m.RuntimeVisibleAnnotations = anns
			}
		case "RuntimeInvisibleAnnotations":
			anns, err := parseAnnotations(br, cp)
			if err != nil {
				return err
			}
			if target == targetClass {
				cf.RuntimeInvisibleAnnotations = anns
			} else {
				m.RuntimeInvisibleAnnotations = anns
			}
		case "InnerClasses":
			if target != targetClass {
				continue
			}
			inner, err := parseInnerClasses(br, cp)
			if err != nil {
				return err
			}
			cf.InnerClasses = inner
		default:
			// Unrecognized attribute (bytecode, line numbers, bootstrap
			// methods, etc.): already consumed via the length-prefixed
			// read above, nothing further to do.
		}
	}
	return nil
}

func parseInnerClasses(r *reader, cp *constantPool) ([]InnerClassInfo, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	out := make([]InnerClassInfo, 0, count)
	for i := 0; i < int(count); i++ {
		innerIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		inner, err := cp.getClassName(innerIdx)
		if err != nil {
			return nil, err
		}
		outerIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		outer, err := cp.getClassName(outerIdx)
		if err != nil {
			return nil, err
		}
		nameIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		var innerName string
		if nameIdx != 0 {
			innerName, err = cp.getUTF8(nameIdx)
			if err != nil {
				return nil, err
			}
		}
		flags, err := r.u2()
		if err != nil {
			return nil, err
		}
		out = append(out, InnerClassInfo{
			InnerClass:  inner,
			OuterClass:  outer,
			InnerName:   innerName,
			AccessFlags: flags,
		})
	}
	return out, nil
}
