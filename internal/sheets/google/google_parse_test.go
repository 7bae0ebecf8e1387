package google

import (
	"context"
	"testing"

	"odolog/internal/core"
)

func TestRecordToRow(t *testing.T) {
	r := core.MaintenanceRecord{
		ID:               1736000000000,
		TypeID:           "oli_mesin",
		TypeName:         "Oli Mesin",
		IntervalKm:       2500,
		OdoAtMaintenance: 10000,
		Date:             core.NewDate(2025, 1, 2),
		PartCost:         50000,
		ServiceCost:      20000,
		TotalCost:        70000,
	}
	row := recordToRow(r)
	if len(row) != len(header) {
		t.Fatalf("row has %d cells, header has %d", len(row), len(header))
	}
	if row[0] != "'1736000000000" {
		t.Errorf("id cell = %v", row[0])
	}
	if row[1] != "2025-01-02" {
		t.Errorf("date cell = %v", row[1])
	}
	if row[6] != int64(12500) {
		t.Errorf("next due cell = %v", row[6])
	}
	if row[9] != int64(70000) {
		t.Errorf("total cell = %v", row[9])
	}
}

func TestFindRowByID(t *testing.T) {
	values := [][]any{
		{"ID"},
		{"'1736000000000"},
		{},
		{float64(1736000000002)},
		{" 1736000000003 "},
	}
	tests := []struct {
		id   int64
		want int
	}{
		{1736000000000, 1},
		{1736000000002, 3},
		{1736000000003, 4},
		{42, -1},
	}
	for _, tt := range tests {
		if got := findRowByID(values, tt.id); got != tt.want {
			t.Errorf("findRowByID(%d) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestToStrings(t *testing.T) {
	got := toStrings([]any{"a", float64(12.5), nil, int64(7), true})
	want := []string{"a", "12.5", "", "7", "true"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("toStrings[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestClient_Uninitialized(t *testing.T) {
	c := &Client{sheetName: defaultSheetName}
	ctx := context.Background()
	if _, err := c.AppendRecord(ctx, core.MaintenanceRecord{}); err == nil {
		t.Error("AppendRecord should fail without a service")
	}
	if err := c.DeleteRecord(ctx, 1); err == nil {
		t.Error("DeleteRecord should fail without a service")
	}
	if err := c.EnsureHeader(ctx); err == nil {
		t.Error("EnsureHeader should fail without a service")
	}
}
