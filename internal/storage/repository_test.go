package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"odolog/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "odolog.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func record(id int64, typeID string, date core.Date) core.MaintenanceRecord {
	return core.MaintenanceRecord{
		ID:               id,
		TypeID:           typeID,
		TypeName:         typeID,
		IntervalKm:       2500,
		OdoAtMaintenance: 10000,
		Date:             date,
		PartCost:         50000,
		ServiceCost:      25000,
		TotalCost:        75000,
	}
}

func TestSQLiteRepository_Profile(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, found, err := repo.GetProfile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("fresh database should have no profile")
	}

	if err := repo.SaveProfile(ctx, core.VehicleProfile{Name: "Vario", CurrentOdoKm: 100}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveProfile(ctx, core.VehicleProfile{Name: "Vario", CurrentOdoKm: 250}); err != nil {
		t.Fatal(err)
	}

	p, found, err := repo.GetProfile(ctx)
	if err != nil || !found {
		t.Fatalf("GetProfile() = %v, %v", found, err)
	}
	if p.Name != "Vario" || p.CurrentOdoKm != 250 {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestSQLiteRepository_Records(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	recs := []core.MaintenanceRecord{
		record(1, "oli_mesin", core.NewDate(2025, 1, 2)),
		record(2, "kampas_rem", core.NewDate(2025, 2, 10)),
		record(3, "oli_mesin", core.NewDate(2025, 3, 15)),
	}
	for _, r := range recs {
		if err := repo.InsertRecord(ctx, r); err != nil {
			t.Fatalf("InsertRecord(%d) error = %v", r.ID, err)
		}
	}

	all, err := repo.ListRecords(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d", len(all))
	}
	for i := range recs {
		if all[i] != recs[i] {
			t.Errorf("record %d: got %+v, want %+v", i, all[i], recs[i])
		}
	}

	oil, err := repo.ListRecordsByType(ctx, "oli_mesin")
	if err != nil {
		t.Fatal(err)
	}
	if len(oil) != 2 || oil[0].ID != 1 || oil[1].ID != 3 {
		t.Errorf("by type: %+v", oil)
	}

	feb, err := repo.ListRecordsBetween(ctx, core.NewDate(2025, 2, 1), core.NewDate(2025, 3, 15))
	if err != nil {
		t.Fatal(err)
	}
	if len(feb) != 2 || feb[0].ID != 2 || feb[1].ID != 3 {
		t.Errorf("between: %+v", feb)
	}

	if err := repo.DeleteRecord(ctx, 2); err != nil {
		t.Fatal(err)
	}
	var nf *core.NotFoundError
	if err := repo.DeleteRecord(ctx, 2); !errors.As(err, &nf) {
		t.Fatalf("second delete: expected NotFoundError, got %v", err)
	}
	all, _ = repo.ListRecords(ctx)
	if len(all) != 2 {
		t.Fatalf("len after delete = %d", len(all))
	}
}

func TestSQLiteRepository_RejectsInvalidRows(t *testing.T) {
	repo := newTestRepo(t)
	bad := record(1, "oli_mesin", core.NewDate(2025, 1, 2))
	bad.IntervalKm = 0
	if err := repo.InsertRecord(context.Background(), bad); err == nil {
		t.Fatal("expected check constraint failure")
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odolog.db")
	if err := RunMigrations(path); err != nil {
		t.Fatal(err)
	}
	if err := RunMigrations(path); err != nil {
		t.Fatalf("second run: %v", err)
	}
}
