package classfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsBadMagic(t *testing.T) {
	_, err := Parse([]byte{0x00, 0x00, 0x00, 0x00})
	require.Error(t, err)
	var magicErr *InvalidMagicError
	assert.ErrorAs(t, err, &magicErr)
}

func TestParseRejectsTruncatedData(t *testing.T) {
	data := buildClassBytes("com/example/Widget", "java/lang/Object", nil)
	_, err := Parse(data[:len(data)-3])
	require.Error(t, err)
}

func TestParseBasicClass(t *testing.T) {
	data := buildClassBytes("com/example/Widget", "java/lang/Object", []string{"java/io/Serializable"})
	cf, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "com/example/Widget", cf.ThisClass)
	assert.Equal(t, "java/lang/Object", cf.SuperClass)
	assert.Equal(t, []string{"java/io/Serializable"}, cf.Interfaces)
	assert.Empty(t, cf.Fields)
	assert.Empty(t, cf.Methods)
}

func TestParseRejectsTrailingData(t *testing.T) {
	data := buildClassBytes("com/example/Widget", "java/lang/Object", nil)
	data = append(data, 0xFF)
	_, err := Parse(data)
	require.Error(t, err)
}

func TestNewTypeDefStubProjectsClassFile(t *testing.T) {
	data := buildClassBytes("com/example/Widget", "java/lang/Object", []string{"java/io/Serializable"})
	cf, err := Parse(data)
	require.NoError(t, err)
	stub := NewTypeDefStub(cf)
	assert.Equal(t, "com/example/Widget", string(stub.BinaryName))
	assert.Equal(t, "java/lang/Object", string(stub.Super))
	require.Len(t, stub.Interfaces, 1)
	assert.Equal(t, "java/io/Serializable", string(stub.Interfaces[0]))
}

func TestParseModuleInfoBasic(t *testing.T) {
	data := buildModuleInfoBytes("com.example.app", false, []string{"com.example.lib"})
	mi, err := ParseModuleInfo(data)
	require.NoError(t, err)
	assert.Equal(t, "com.example.app", mi.Name)
	assert.False(t, mi.Open)
	require.Len(t, mi.Requires, 1)
	assert.Equal(t, "com.example.lib", mi.Requires[0].Module)
}

func TestParseModuleInfoOpen(t *testing.T) {
	data := buildModuleInfoBytes("com.example.app", true, nil)
	mi, err := ParseModuleInfo(data)
	require.NoError(t, err)
	assert.True(t, mi.Open)
}

func TestParseModuleInfoRejectsBadMagic(t *testing.T) {
	_, err := ParseModuleInfo([]byte{1, 2, 3, 4})
	require.Error(t, err)
}
