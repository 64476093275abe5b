package classfile

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nova-lang/nova/internal/corepkg"
)

// ClasspathEntryKind distinguishes the three shapes of classpath/module
// path entry the JVM accepts.
type ClasspathEntryKind int

const (
	EntryJar ClasspathEntryKind = iota
	EntryJmod
	EntryClassDir
)

// ClasspathEntry is one jar, jmod, or exploded class directory feeding a
// build, as either a module path or classpath member.
type ClasspathEntry struct {
	Kind ClasspathEntryKind
	Path string
}

// ModuleNameKind classifies how an entry's module name, if any, was
// derived.
type ModuleNameKind int

const (
	// ModuleExplicit entries declare module-info.class themselves.
	ModuleExplicit ModuleNameKind = iota
	// ModuleAutomatic entries have no module-info.class but sit on the
	// module path, so the JVM derives a name from the entry's filename.
	ModuleAutomatic
	// ModuleNone entries contribute to the unnamed module: classpath
	// entries always fall here, regardless of content.
	ModuleNone
)

type moduleRecord struct {
	name corepkg.ModuleName
	kind ModuleNameKind
}

// ModuleAwareClasspathIndex maps every binary class name visible across a
// build's classpath/module-path entries to the JPMS module that owns it.
type ModuleAwareClasspathIndex struct {
	classToModule map[corepkg.TypeName]moduleRecord
}

// ModuleOf returns the module owning binaryName, if the index has seen
// it.
func (idx *ModuleAwareClasspathIndex) ModuleOf(binaryName corepkg.TypeName) (corepkg.ModuleName, bool) {
	rec, ok := idx.classToModule[binaryName]
	if !ok || rec.kind == ModuleNone {
		return "", false
	}
	return rec.name, true
}

// ModuleKindOf reports how binaryName's module, if any, was named. A
// class the index never observed reports ModuleNone, matching the
// unnamed-module default.
func (idx *ModuleAwareClasspathIndex) ModuleKindOf(binaryName corepkg.TypeName) ModuleNameKind {
	rec, ok := idx.classToModule[binaryName]
	if !ok {
		return ModuleNone
	}
	return rec.kind
}

// BuildClasspathIndex indexes entries as a plain classpath: every class
// they contain belongs to the unnamed module, module-info.class (if any)
// is ignored.
func BuildClasspathIndex(entries []ClasspathEntry) (*ModuleAwareClasspathIndex, error) {
	idx := &ModuleAwareClasspathIndex{classToModule: make(map[corepkg.TypeName]moduleRecord)}
	for _, e := range entries {
		if err := idx.indexEntry(e, false); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// BuildModulePathIndex indexes entries as a module path: each entry
// resolves to an explicit (module-info.class present), automatic
// (derived from filename), or still-unnamed module.
func BuildModulePathIndex(entries []ClasspathEntry) (*ModuleAwareClasspathIndex, error) {
	idx := &ModuleAwareClasspathIndex{classToModule: make(map[corepkg.TypeName]moduleRecord)}
	for _, e := range entries {
		if err := idx.indexEntry(e, true); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// BuildMixedIndex indexes primary entries with module-path semantics and
// secondary entries with classpath semantics, merging both into one
// lookup table (a `--module-path` + `--class-path` combined build).
func BuildMixedIndex(primary, secondary []ClasspathEntry) (*ModuleAwareClasspathIndex, error) {
	idx := &ModuleAwareClasspathIndex{classToModule: make(map[corepkg.TypeName]moduleRecord)}
	for _, e := range primary {
		if err := idx.indexEntry(e, true); err != nil {
			return nil, err
		}
	}
	for _, e := range secondary {
		if err := idx.indexEntry(e, false); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func (idx *ModuleAwareClasspathIndex) indexEntry(e ClasspathEntry, onModulePath bool) error {
	classNames, moduleInfoData, err := scanEntry(e)
	if err != nil {
		return err
	}

	rec := moduleRecord{kind: ModuleNone}
	if onModulePath {
		switch {
		case moduleInfoData != nil:
			mi, err := ParseModuleInfo(moduleInfoData)
			if err != nil {
				return err
			}
			rec = moduleRecord{name: corepkg.ModuleName(mi.Name), kind: ModuleExplicit}
		default:
			rec = moduleRecord{name: deriveAutomaticModuleName(e.Path), kind: ModuleAutomatic}
		}
	}

	for _, name := range classNames {
		idx.classToModule[name] = rec
	}
	return nil
}

// scanEntry enumerates every .class file's binary name within e and
// returns the module-info.class bytes found for it, if any (preferring a
// top-level module-info.class over a multi-release one, and the
// highest-numbered release directory among multi-release candidates).
func scanEntry(e ClasspathEntry) ([]corepkg.TypeName, []byte, error) {
	switch e.Kind {
	case EntryJar, EntryJmod:
		return scanZipEntry(e.Path, e.Kind == EntryJmod)
	case EntryClassDir:
		return scanClassDirEntry(e.Path)
	default:
		return nil, nil, &MalformedError{Reason: "unknown classpath entry kind"}
	}
}

var multiReleaseModuleInfo = regexp.MustCompile(`^META-INF/versions/(\d+)/module-info\.class$`)

func scanZipEntry(path string, jmod bool) ([]corepkg.TypeName, []byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, err
	}
	defer zr.Close()

	// jmod archives store classes under a "classes/" prefix alongside
	// "bin/", "lib/", "conf/", etc.; only "classes/" holds .class files.
	prefix := ""
	if jmod {
		prefix = "classes/"
	}

	var classNames []corepkg.TypeName
	var topLevelModuleInfo []byte
	bestMultiReleaseVersion := -1
	var bestMultiReleaseModuleInfo []byte

	for _, f := range zr.File {
		name := f.Name
		if jmod {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			name = strings.TrimPrefix(name, prefix)
		}

		if name == "module-info.class" {
			data, err := readZipFile(f)
			if err != nil {
				return nil, nil, err
			}
			topLevelModuleInfo = data
			continue
		}
		if m := multiReleaseModuleInfo.FindStringSubmatch(name); m != nil {
			version := parseVersionNumber(m[1])
			if version > bestMultiReleaseVersion {
				data, err := readZipFile(f)
				if err != nil {
					return nil, nil, err
				}
				bestMultiReleaseVersion = version
				bestMultiReleaseModuleInfo = data
			}
			continue
		}
		if strings.HasSuffix(name, ".class") {
			classNames = append(classNames, corepkg.TypeName(strings.TrimSuffix(name, ".class")))
		}
	}

	moduleInfo := topLevelModuleInfo
	if moduleInfo == nil {
		moduleInfo = bestMultiReleaseModuleInfo
	}
	return classNames, moduleInfo, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func scanClassDirEntry(root string) ([]corepkg.TypeName, []byte, error) {
	var classNames []corepkg.TypeName
	var topLevelModuleInfo []byte
	bestMultiReleaseVersion := -1
	var bestMultiReleaseModuleInfo []byte

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if rel == "module-info.class" {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			topLevelModuleInfo = data
			return nil
		}
		if m := multiReleaseModuleInfo.FindStringSubmatch(rel); m != nil {
			version := parseVersionNumber(m[1])
			if version > bestMultiReleaseVersion {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				bestMultiReleaseVersion = version
				bestMultiReleaseModuleInfo = data
			}
			return nil
		}
		if strings.HasSuffix(rel, ".class") {
			classNames = append(classNames, corepkg.TypeName(strings.TrimSuffix(rel, ".class")))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	moduleInfo := topLevelModuleInfo
	if moduleInfo == nil {
		moduleInfo = bestMultiReleaseModuleInfo
	}
	return classNames, moduleInfo, nil
}

func parseVersionNumber(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

var automaticNameSeparators = regexp.MustCompile(`[^A-Za-z0-9]+`)
var trailingVersionSuffix = regexp.MustCompile(`-(\d+(\.\d+)*([.\-+].*)?)$`)

// deriveAutomaticModuleName implements the JPMS automatic-module-name
// algorithm: drop the file extension and any trailing version string,
// replace separator runs with dots, and trim stray leading/trailing
// dots.
func deriveAutomaticModuleName(path string) corepkg.ModuleName {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = trailingVersionSuffix.ReplaceAllString(base, "")
	base = automaticNameSeparators.ReplaceAllString(base, ".")
	base = strings.Trim(base, ".")
	return corepkg.ModuleName(base)
}
