package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"odolog/internal/config"
	"odolog/internal/core"
	applog "odolog/internal/log"
)

func TestBackendType_IsValid(t *testing.T) {
	for _, bt := range GetBackendTypes() {
		assert.True(t, bt.IsValid(), bt.String())
	}
	assert.False(t, BackendType("sheets").IsValid())
	assert.Equal(t, []string{"memory", "sqlite", "mongo"}, GetBackendTypeStrings())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory without snapshot", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"mongo without uri", Config{Type: MongoBackend, MongoDB: "odolog"}, true},
		{"mongo without database", Config{Type: MongoBackend, MongoURI: "mongodb://localhost"}, true},
		{"unknown", Config{Type: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "sheets"})
	assert.Error(t, err)

	cfg, err := FromAppConfig(&config.Config{DataBackend: "mongo", MongoURI: "mongodb://db", MongoDB: "odolog"})
	require.NoError(t, err)
	assert.Equal(t, Config{Type: MongoBackend, MongoURI: "mongodb://db", MongoDB: "odolog"}, cfg)
}

func TestFactory_MemoryBackendPersistsSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "odolog.json")
	f := NewFactory(applog.Discard())

	res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend, SnapshotPath: path})
	require.NoError(t, err)
	require.NoError(t, res.Backend.SaveProfile(ctx, core.VehicleProfile{Name: "Beat", CurrentOdoKm: 1200}))
	require.NoError(t, res.Cleanup())

	res, err = f.CreateBackend(ctx, Config{Type: MemoryBackend, SnapshotPath: path})
	require.NoError(t, err)
	p, found, err := res.Backend.GetProfile(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.EqualValues(t, 1200, p.CurrentOdoKm)
}

func TestFactory_SQLiteBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(applog.Discard())

	res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "odolog.db")})
	require.NoError(t, err)
	defer res.Cleanup()

	recs, err := res.Backend.ListRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestFactory_RejectsInvalidConfig(t *testing.T) {
	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend})
	assert.Error(t, err)
}
