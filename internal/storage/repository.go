package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"odolog/internal/core"
	"odolog/internal/ports"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the structured store: one vehicle row with the fixed
// id 1 and one maintenance row per record.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var (
	_ ports.ProfileStore = (*SQLiteRepository)(nil)
	_ ports.RecordStore  = (*SQLiteRepository)(nil)
	_ ports.RecordFinder = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// GetProfile implements ports.ProfileStore
func (r *SQLiteRepository) GetProfile(ctx context.Context) (core.VehicleProfile, bool, error) {
	v, err := r.queries.GetVehicle(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return core.VehicleProfile{}, false, nil
	}
	if err != nil {
		return core.VehicleProfile{}, false, fmt.Errorf("get vehicle: %w", err)
	}
	return core.VehicleProfile{Name: v.Name, CurrentOdoKm: v.CurrentOdoKm}, true, nil
}

// SaveProfile implements ports.ProfileStore
func (r *SQLiteRepository) SaveProfile(ctx context.Context, p core.VehicleProfile) error {
	if err := r.queries.UpsertVehicle(ctx, UpsertVehicleParams{Name: p.Name, CurrentOdoKm: p.CurrentOdoKm}); err != nil {
		return fmt.Errorf("upsert vehicle: %w", err)
	}
	slog.DebugContext(ctx, "Vehicle profile saved to SQLite", "odometer_km", p.CurrentOdoKm)
	return nil
}

// InsertRecord implements ports.RecordStore
func (r *SQLiteRepository) InsertRecord(ctx context.Context, rec core.MaintenanceRecord) error {
	if err := r.queries.InsertMaintenance(ctx, toRow(rec)); err != nil {
		return fmt.Errorf("insert maintenance: %w", err)
	}
	slog.InfoContext(ctx, "Maintenance record saved to SQLite",
		"record_id", rec.ID,
		"type_id", rec.TypeID,
		"total_cost", rec.TotalCost)
	return nil
}

// DeleteRecord implements ports.RecordStore
func (r *SQLiteRepository) DeleteRecord(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteMaintenance(ctx, id)
	if err != nil {
		return fmt.Errorf("delete maintenance: %w", err)
	}
	if n == 0 {
		return &core.NotFoundError{Kind: "record", ID: id}
	}
	return nil
}

// ListRecords implements ports.RecordStore
func (r *SQLiteRepository) ListRecords(ctx context.Context) ([]core.MaintenanceRecord, error) {
	rows, err := r.queries.ListMaintenance(ctx)
	if err != nil {
		return nil, fmt.Errorf("list maintenance: %w", err)
	}
	return fromRows(rows)
}

// ListRecordsByType implements ports.RecordFinder
func (r *SQLiteRepository) ListRecordsByType(ctx context.Context, typeID string) ([]core.MaintenanceRecord, error) {
	rows, err := r.queries.ListMaintenanceByType(ctx, typeID)
	if err != nil {
		return nil, fmt.Errorf("list maintenance by type %s: %w", typeID, err)
	}
	return fromRows(rows)
}

// ListRecordsBetween implements ports.RecordFinder; both bounds are inclusive.
func (r *SQLiteRepository) ListRecordsBetween(ctx context.Context, from, to core.Date) ([]core.MaintenanceRecord, error) {
	rows, err := r.queries.ListMaintenanceBetween(ctx, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list maintenance between %s and %s: %w", from, to, err)
	}
	return fromRows(rows)
}

func toRow(rec core.MaintenanceRecord) Maintenance {
	return Maintenance{
		ID:               rec.ID,
		TypeID:           rec.TypeID,
		TypeName:         rec.TypeName,
		IntervalKm:       rec.IntervalKm,
		OdoAtMaintenance: rec.OdoAtMaintenance,
		ServiceDate:      rec.Date.String(),
		PartCost:         rec.PartCost,
		ServiceCost:      rec.ServiceCost,
		TotalCost:        rec.TotalCost,
	}
}

func fromRows(rows []Maintenance) ([]core.MaintenanceRecord, error) {
	out := make([]core.MaintenanceRecord, 0, len(rows))
	for _, row := range rows {
		d, err := core.ParseDate(row.ServiceDate)
		if err != nil {
			return nil, fmt.Errorf("maintenance %d: %w", row.ID, err)
		}
		out = append(out, core.MaintenanceRecord{
			ID:               row.ID,
			TypeID:           row.TypeID,
			TypeName:         row.TypeName,
			IntervalKm:       row.IntervalKm,
			OdoAtMaintenance: row.OdoAtMaintenance,
			Date:             d,
			PartCost:         row.PartCost,
			ServiceCost:      row.ServiceCost,
			TotalCost:        row.TotalCost,
		})
	}
	return out, nil
}
