package adapters

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"odolog/internal/core"
	"odolog/internal/persistence/memory"
)

func TestKVAdapter_Profile(t *testing.T) {
	kv := memory.New()
	a := NewKVAdapter(kv)
	ctx := context.Background()

	_, found, err := a.GetProfile(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, a.SaveProfile(ctx, core.VehicleProfile{Name: "Beat", CurrentOdoKm: 15000}))

	raw, _, _ := kv.Get(ctx, KeyCurrentOdo)
	assert.Equal(t, "15000", string(raw))

	p, found, err := a.GetProfile(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, core.VehicleProfile{Name: "Beat", CurrentOdoKm: 15000}, p)
}

func TestKVAdapter_UnparseableOdometerIsZero(t *testing.T) {
	kv := memory.New()
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, KeyCurrentOdo, []byte("dua ribu")))

	p, found, err := NewKVAdapter(kv).GetProfile(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.EqualValues(t, 0, p.CurrentOdoKm)
}

func TestKVAdapter_Records(t *testing.T) {
	kv := memory.New()
	a := NewKVAdapter(kv)
	ctx := context.Background()

	recs, err := a.ListRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)

	r1 := core.MaintenanceRecord{ID: 1, TypeID: "oli_mesin", TypeName: "Oli Mesin", IntervalKm: 2500, Date: core.NewDate(2025, 1, 2), TotalCost: 10}
	r2 := core.MaintenanceRecord{ID: 2, TypeID: "filter_oli", TypeName: "Filter Oli", IntervalKm: 5000, Date: core.NewDate(2025, 1, 3)}
	require.NoError(t, a.InsertRecord(ctx, r1))
	require.NoError(t, a.InsertRecord(ctx, r2))

	recs, err = a.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, r1, recs[0])
	assert.Equal(t, r2, recs[1])

	raw, _, _ := kv.Get(ctx, KeyMaintenanceRecords)
	var wire []map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Equal(t, "2025-01-02", wire[0]["date"])
	assert.Equal(t, "oli_mesin", wire[0]["typeId"])

	require.NoError(t, a.DeleteRecord(ctx, 1))
	err = a.DeleteRecord(ctx, 1)
	assert.True(t, core.IsNotFound(err))

	recs, _ = a.ListRecords(ctx)
	require.Len(t, recs, 1)
	assert.EqualValues(t, 2, recs[0].ID)
}

func TestKVAdapter_CorruptRecords(t *testing.T) {
	kv := memory.New()
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, KeyMaintenanceRecords, []byte("not json")))
	_, err := NewKVAdapter(kv).ListRecords(ctx)
	assert.Error(t, err)
}
