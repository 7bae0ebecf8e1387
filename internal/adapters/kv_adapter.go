package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"odolog/internal/core"
	"odolog/internal/ports"
)

// Keys of the key-value layout.
const (
	KeyVehicleName        = "vehicleName"
	KeyCurrentOdo         = "currentOdo"
	KeyMaintenanceRecords = "maintenanceRecords"
)

// KVAdapter maps the profile and record stores onto a plain key-value store:
// the name and odometer as strings and the records as one JSON array.
type KVAdapter struct {
	mu sync.Mutex
	kv ports.KeyValue
}

func NewKVAdapter(kv ports.KeyValue) *KVAdapter {
	return &KVAdapter{kv: kv}
}

// GetProfile implements ports.ProfileStore. A profile exists once either key
// has been written.
func (a *KVAdapter) GetProfile(ctx context.Context) (core.VehicleProfile, bool, error) {
	name, nameFound, err := a.kv.Get(ctx, KeyVehicleName)
	if err != nil {
		return core.VehicleProfile{}, false, fmt.Errorf("get %s: %w", KeyVehicleName, err)
	}
	odo, odoFound, err := a.kv.Get(ctx, KeyCurrentOdo)
	if err != nil {
		return core.VehicleProfile{}, false, fmt.Errorf("get %s: %w", KeyCurrentOdo, err)
	}
	if !nameFound && !odoFound {
		return core.VehicleProfile{}, false, nil
	}
	return core.VehicleProfile{
		Name:         string(name),
		CurrentOdoKm: core.ParseOdometer(string(odo)),
	}, true, nil
}

// SaveProfile implements ports.ProfileStore
func (a *KVAdapter) SaveProfile(ctx context.Context, p core.VehicleProfile) error {
	if err := a.kv.Put(ctx, KeyVehicleName, []byte(p.Name)); err != nil {
		return fmt.Errorf("put %s: %w", KeyVehicleName, err)
	}
	if err := a.kv.Put(ctx, KeyCurrentOdo, []byte(strconv.FormatInt(p.CurrentOdoKm, 10))); err != nil {
		return fmt.Errorf("put %s: %w", KeyCurrentOdo, err)
	}
	return nil
}

// ListRecords implements ports.RecordStore
func (a *KVAdapter) ListRecords(ctx context.Context) ([]core.MaintenanceRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.load(ctx)
}

// InsertRecord implements ports.RecordStore
func (a *KVAdapter) InsertRecord(ctx context.Context, r core.MaintenanceRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	records, err := a.load(ctx)
	if err != nil {
		return err
	}
	return a.save(ctx, append(records, r))
}

// DeleteRecord implements ports.RecordStore
func (a *KVAdapter) DeleteRecord(ctx context.Context, id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	records, err := a.load(ctx)
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return &core.NotFoundError{Kind: "record", ID: id}
	}
	return a.save(ctx, kept)
}

// Close closes the underlying store when it holds resources.
func (a *KVAdapter) Close() error {
	if c, ok := a.kv.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (a *KVAdapter) load(ctx context.Context) ([]core.MaintenanceRecord, error) {
	raw, found, err := a.kv.Get(ctx, KeyMaintenanceRecords)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", KeyMaintenanceRecords, err)
	}
	records := []core.MaintenanceRecord{}
	if !found || len(raw) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyMaintenanceRecords, err)
	}
	return records, nil
}

func (a *KVAdapter) save(ctx context.Context, records []core.MaintenanceRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyMaintenanceRecords, err)
	}
	if err := a.kv.Put(ctx, KeyMaintenanceRecords, raw); err != nil {
		return fmt.Errorf("put %s: %w", KeyMaintenanceRecords, err)
	}
	return nil
}
