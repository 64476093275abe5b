package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeFingerprintIsOrderIndependent(t *testing.T) {
	a := []FileContent{{RelPath: "b.txt", Bytes: []byte("b")}, {RelPath: "a.txt", Bytes: []byte("a")}}
	b := []FileContent{{RelPath: "a.txt", Bytes: []byte("a")}, {RelPath: "b.txt", Bytes: []byte("b")}}

	assert.Equal(t, ComputeFingerprint(a), ComputeFingerprint(b))
}

func TestComputeFingerprintChangesWithContent(t *testing.T) {
	orig := []FileContent{{RelPath: "a.txt", Bytes: []byte("hello")}}
	changed := []FileContent{{RelPath: "a.txt", Bytes: []byte("goodbye")}}

	assert.NotEqual(t, ComputeFingerprint(orig), ComputeFingerprint(changed))
}

func TestComputeFingerprintChangesWithFileSet(t *testing.T) {
	one := []FileContent{{RelPath: "a.txt", Bytes: []byte("x")}}
	two := []FileContent{{RelPath: "a.txt", Bytes: []byte("x")}, {RelPath: "b.txt", Bytes: []byte("y")}}

	assert.NotEqual(t, ComputeFingerprint(one), ComputeFingerprint(two))
}

func TestComputeFingerprintDistinguishesPathVsContentBoundary(t *testing.T) {
	// Without a NUL separator, "ab" + "" and "a" + "b" would hash
	// identically; the separator must keep these distinct.
	a := []FileContent{{RelPath: "ab", Bytes: []byte("")}}
	b := []FileContent{{RelPath: "a", Bytes: []byte("b")}}

	assert.NotEqual(t, ComputeFingerprint(a), ComputeFingerprint(b))
}
