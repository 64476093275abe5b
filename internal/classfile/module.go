package classfile

// RequiresDirective is one `requires` entry of a module-info.class.
type RequiresDirective struct {
	Module      string
	Flags       uint16
	Version     string
	Transitive  bool
	StaticPhase bool
}

// ExportsDirective is one `exports` or `opens` entry.
type ExportsDirective struct {
	Package string
	Flags   uint16
	To      []string // empty means exported/opened to all modules
}

// ProvidesDirective is one `provides ... with ...` entry.
type ProvidesDirective struct {
	Service string
	With    []string
}

// ModuleInfo is the decoded Module attribute of a module-info.class,
// describing one JPMS module declaration.
type ModuleInfo struct {
	Name    string
	Flags   uint16
	Version string
	Open    bool

	Requires []RequiresDirective
	Exports  []ExportsDirective
	Opens    []ExportsDirective
	Uses     []string
	Provides []ProvidesDirective
}

const (
	accModuleOpen        = 0x0020
	accModuleTransitive  = 0x0020
	accModuleStaticPhase = 0x0040
)

// ParseModuleInfo decodes a module-info.class file's Module attribute.
// Unlike Parse, it does not attempt to interpret this_class/super_class
// (module-info.class carries a synthetic this_class of "module-info"
// with no superclass) — it reads the constant pool and class header just
// far enough to reach and dispatch the Module attribute.
func ParseModuleInfo(data []byte) (*ModuleInfo, error) {
	r := newReader(data)

	magicNum, err := r.u4()
	if err != nil {
		return nil, err
	}
	if magicNum != magic {
		return nil, &InvalidMagicError{Magic: magicNum}
	}
	if _, err := r.u2(); err != nil { // minor
		return nil, err
	}
	if _, err := r.u2(); err != nil { // major
		return nil, err
	}

	cp, err := parseConstantPool(r)
	if err != nil {
		return nil, err
	}

	if _, err := r.u2(); err != nil { // access_flags
		return nil, err
	}
	if _, err := r.u2(); err != nil { // this_class
		return nil, err
	}
	if _, err := r.u2(); err != nil { // super_class
		return nil, err
	}
	if ifaceCount, err := r.u2(); err != nil {
		return nil, err
	} else if ifaceCount != 0 {
		return nil, &MalformedError{Reason: "module-info.class must declare no interfaces"}
	}
	if _, err := parseMembers(r, cp); err != nil { // fields (always empty)
		return nil, err
	}
	if _, err := parseMembers(r, cp); err != nil { // methods (always empty)
		return nil, err
	}

	attrCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(attrCount); i++ {
		nameIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		name, err := cp.getUTF8(nameIdx)
		if err != nil {
			return nil, err
		}
		length, err := r.u4()
		if err != nil {
			return nil, err
		}
		body, err := r.bytes(int(length))
		if err != nil {
			return nil, err
		}
		if name == "Module" {
			return parseModuleAttribute(newReader(body), cp)
		}
		// ModuleMainClass, ModulePackages, and anything else: skip.
	}
	return nil, &MalformedError{Reason: "module-info.class missing Module attribute"}
}

func parseModuleAttribute(r *reader, cp *constantPool) (*ModuleInfo, error) {
	nameIdx, err := r.u2()
	if err != nil {
		return nil, err
	}
	name, err := cp.getModuleName(nameIdx)
	if err != nil {
		return nil, err
	}
	flags, err := r.u2()
	if err != nil {
		return nil, err
	}
	versionIdx, err := r.u2()
	if err != nil {
		return nil, err
	}
	var version string
	if versionIdx != 0 {
		version, err = cp.getUTF8(versionIdx)
		if err != nil {
			return nil, err
		}
	}

	mi := &ModuleInfo{Name: name, Flags: flags, Version: version, Open: flags&accModuleOpen != 0}

	requiresCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(requiresCount); i++ {
		modIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		modName, err := cp.getModuleName(modIdx)
		if err != nil {
			return nil, err
		}
		reqFlags, err := r.u2()
		if err != nil {
			return nil, err
		}
		verIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		var ver string
		if verIdx != 0 {
			ver, err = cp.getUTF8(verIdx)
			if err != nil {
				return nil, err
			}
		}
		mi.Requires = append(mi.Requires, RequiresDirective{
			Module:      modName,
			Flags:       reqFlags,
			Version:     ver,
			Transitive:  reqFlags&accModuleTransitive != 0,
			StaticPhase: reqFlags&accModuleStaticPhase != 0,
		})
	}

	mi.Exports, err = parsePackageDirectives(r, cp)
	if err != nil {
		return nil, err
	}
	mi.Opens, err = parsePackageDirectives(r, cp)
	if err != nil {
		return nil, err
	}

	usesCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(usesCount); i++ {
		idx, err := r.u2()
		if err != nil {
			return nil, err
		}
		svc, err := cp.getClassName(idx)
		if err != nil {
			return nil, err
		}
		mi.Uses = append(mi.Uses, svc)
	}

	providesCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(providesCount); i++ {
		svcIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		svc, err := cp.getClassName(svcIdx)
		if err != nil {
			return nil, err
		}
		withCount, err := r.u2()
		if err != nil {
			return nil, err
		}
		var with []string
		for j := 0; j < int(withCount); j++ {
			implIdx, err := r.u2()
			if err != nil {
				return nil, err
			}
			impl, err := cp.getClassName(implIdx)
			if err != nil {
				return nil, err
			}
			with = append(with, impl)
		}
		mi.Provides = append(mi.Provides, ProvidesDirective{Service: svc, With: with})
	}

	return mi, nil
}

func parsePackageDirectives(r *reader, cp *constantPool) ([]ExportsDirective, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	out := make([]ExportsDirective, 0, count)
	for i := 0; i < int(count); i++ {
		pkgIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		pkg, err := cp.getPackageName(pkgIdx)
		if err != nil {
			return nil, err
		}
		flags, err := r.u2()
		if err != nil {
			return nil, err
		}
		toCount, err := r.u2()
		if err != nil {
			return nil, err
		}
		var to []string
		for j := 0; j < int(toCount); j++ {
			idx, err := r.u2()
			if err != nil {
				return nil, err
			}
			modName, err := cp.getModuleName(idx)
			if err != nil {
				return nil, err
			}
			to = append(to, modName)
		}
		out = append(out, ExportsDirective{Package: pkg, Flags: flags, To: to})
	}
	return out, nil
}
