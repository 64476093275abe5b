package corepkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeNameSimpleAndPackage(t *testing.T) {
	tn := TypeName("com.example.Outer$Inner")
	assert.Equal(t, Name("Inner"), tn.Simple())
	assert.Equal(t, PackageName("com.example"), tn.Package())

	enclosing, ok := tn.Enclosing()
	assert.True(t, ok)
	assert.Equal(t, TypeName("com.example.Outer"), enclosing)
}

func TestTypeNameTopLevel(t *testing.T) {
	tn := TypeName("java.lang.String")
	assert.Equal(t, Name("String"), tn.Simple())
	assert.True(t, tn.IsJavaLang())
	assert.True(t, tn.InJavaNamespace())

	_, ok := tn.Enclosing()
	assert.False(t, ok)
}

func TestInJavaNamespace(t *testing.T) {
	assert.True(t, TypeName("java.util.List").InJavaNamespace())
	assert.False(t, TypeName("javax.swing.JFrame").InJavaNamespace())
	assert.False(t, TypeName("com.example.java.Foo").InJavaNamespace())
}

func TestPackagePrefixesExhaustive(t *testing.T) {
	got := PackageName("a.b.c").Prefixes()
	assert.Equal(t, []PackageName{"a", "a.b", "a.b.c"}, got)

	assert.Nil(t, PackageName("").Prefixes())
}
