package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	l, err := OpenLedger(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLedgerRecordAndReadRevision(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.RecordShard("proj-hash", 3, 5))

	rev, ok, err := l.ShardRevision("proj-hash", 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(5), rev)
}

func TestLedgerColdShardNotFound(t *testing.T) {
	l := openTestLedger(t)

	_, ok, err := l.ShardRevision("proj-hash", 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLedgerRecordShardOverwritesRevision(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.RecordShard("proj-hash", 1, 1))
	require.NoError(t, l.RecordShard("proj-hash", 1, 2))

	rev, ok, err := l.ShardRevision("proj-hash", 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(2), rev)
}

func TestLedgerIsWarmMatchesExpectedRevision(t *testing.T) {
	l := openTestLedger(t)
	require.NoError(t, l.RecordShard("proj-hash", 2, 7))

	warm, err := l.IsWarm("proj-hash", 2, 7)
	require.NoError(t, err)
	assert.True(t, warm)

	stale, err := l.IsWarm("proj-hash", 2, 8)
	require.NoError(t, err)
	assert.False(t, stale)
}

func TestLedgerIsWarmFalseForColdShard(t *testing.T) {
	l := openTestLedger(t)

	warm, err := l.IsWarm("proj-hash", 42, 1)
	require.NoError(t, err)
	assert.False(t, warm)
}
