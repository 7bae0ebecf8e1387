package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetPutDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, found, err := s.Get(ctx, "currentOdo")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Put(ctx, "currentOdo", []byte("12000")))
	v, found, err := s.Get(ctx, "currentOdo")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "12000", string(v))

	v[0] = 'X'
	again, _, _ := s.Get(ctx, "currentOdo")
	assert.Equal(t, "12000", string(again), "Get must return a copy")

	require.NoError(t, s.Delete(ctx, "currentOdo"))
	_, found, _ = s.Get(ctx, "currentOdo")
	assert.False(t, found)
	require.NoError(t, s.Delete(ctx, "missing"))
}

func TestStore_SnapshotSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "odolog.json")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "vehicleName", []byte("Supra X")))
	require.NoError(t, s.Put(ctx, "maintenanceRecords", []byte(`[{"id":1}]`)))
	require.NoError(t, s.Delete(ctx, "maintenanceRecords"))

	reopened, err := Open(path)
	require.NoError(t, err)
	v, found, err := reopened.Get(ctx, "vehicleName")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Supra X", string(v))
	assert.Equal(t, 1, reopened.Keys())
}

func TestStore_OpenCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odolog.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := Open(path)
	assert.Error(t, err)
}

func TestStore_CanceledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, s.Put(ctx, "k", []byte("v")))
	_, _, err := s.Get(ctx, "k")
	assert.Error(t, err)
}

func TestStore_SharedSnapshotSeesOtherWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odolog.json")
	ctx := context.Background()

	reader, err := Open(path)
	require.NoError(t, err)
	writer, err := Open(path)
	require.NoError(t, err)

	_, found, err := reader.Get(ctx, "currentOdo")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, writer.Put(ctx, "currentOdo", []byte("12600")))
	v, found, err := reader.Get(ctx, "currentOdo")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "12600", string(v))

	require.NoError(t, writer.Put(ctx, "currentOdo", []byte("12700")))
	v, _, err = reader.Get(ctx, "currentOdo")
	require.NoError(t, err)
	assert.Equal(t, "12700", string(v))

	require.NoError(t, writer.Delete(ctx, "currentOdo"))
	_, found, err = reader.Get(ctx, "currentOdo")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_WriteKeepsOtherWritersKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odolog.json")
	ctx := context.Background()

	a, err := Open(path)
	require.NoError(t, err)
	b, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, a.Put(ctx, "vehicleName", []byte("Beat")))
	require.NoError(t, b.Put(ctx, "currentOdo", []byte("900")))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Keys())
	assert.Equal(t, 2, a.Keys())
}

func TestStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "odolog.json"))
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), "k", []byte("v")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "odolog.json", entries[0].Name())
}
