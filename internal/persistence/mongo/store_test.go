package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"odolog/internal/core"
)

func TestStore_NilCollections(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	_, _, err := s.GetProfile(ctx)
	assert.Error(t, err)
	assert.Error(t, s.SaveProfile(ctx, core.VehicleProfile{}))
	assert.Error(t, s.InsertRecord(ctx, core.MaintenanceRecord{}))
	assert.Error(t, s.DeleteRecord(ctx, 1))
	_, err = s.ListRecords(ctx)
	assert.Error(t, err)
	assert.Error(t, s.EnsureIndexes(ctx))
	assert.Error(t, s.Ping(ctx))
	assert.NoError(t, s.Close())
}

func TestDocRoundTrip(t *testing.T) {
	r := core.MaintenanceRecord{
		ID:               1736000000000,
		TypeID:           "kampas_rem",
		TypeName:         "Kampas Rem",
		IntervalKm:       15000,
		OdoAtMaintenance: 4200,
		Date:             core.NewDate(2025, 6, 30),
		PartCost:         90000,
		ServiceCost:      15000,
		TotalCost:        105000,
	}
	doc := toDoc(r)
	// the driver returns dates in local time; the calendar day must survive
	doc.Date = doc.Date.In(time.FixedZone("WIB", 7*3600))
	assert.Equal(t, r, fromDoc(doc))
}

// Integration test (requires running MongoDB)
func TestStore_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := Connect(ctx, uri, "odolog_test")
	require.NoError(t, err)
	defer s.Close()
	defer s.Maintenance.Database().Drop(context.Background())

	require.NoError(t, s.SaveProfile(ctx, core.VehicleProfile{Name: "Beat", CurrentOdoKm: 500}))
	p, found, err := s.GetProfile(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.EqualValues(t, 500, p.CurrentOdoKm)

	r := core.MaintenanceRecord{ID: 1, TypeID: "oli_mesin", TypeName: "Oli Mesin", IntervalKm: 2500, Date: core.NewDate(2025, 1, 2)}
	require.NoError(t, s.InsertRecord(ctx, r))
	recs, err := s.ListRecordsByType(ctx, "oli_mesin")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NoError(t, s.DeleteRecord(ctx, 1))
	assert.True(t, core.IsNotFound(s.DeleteRecord(ctx, 1)))
}
