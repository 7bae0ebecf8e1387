package google

import (
	"fmt"
	"strconv"
	"strings"

	"odolog/internal/core"
)

var header = []string{
	"ID", "Tanggal", "Kode", "Jenis", "Interval (km)", "Odometer (km)",
	"Ganti di (km)", "Biaya Part", "Biaya Jasa", "Total",
}

func headerRow() []any {
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	return row
}

// recordToRow lays a record out in header order. The id is written as text
// so the sheet does not reformat it.
func recordToRow(r core.MaintenanceRecord) []any {
	return []any{
		"'" + strconv.FormatInt(r.ID, 10),
		r.Date.String(),
		r.TypeID,
		r.TypeName,
		r.IntervalKm,
		r.OdoAtMaintenance,
		r.NextDueKm(),
		r.PartCost,
		r.ServiceCost,
		r.TotalCost,
	}
}

// findRowByID returns the zero-based row index whose first cell holds id,
// or -1.
func findRowByID(values [][]any, id int64) int {
	want := strconv.FormatInt(id, 10)
	for i, row := range values {
		cells := toStrings(row)
		if len(cells) == 0 {
			continue
		}
		if strings.TrimPrefix(strings.TrimSpace(cells[0]), "'") == want {
			return i
		}
	}
	return -1
}

func toStrings(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch t := v.(type) {
		case string:
			out[i] = t
		case float64:
			out[i] = strconv.FormatFloat(t, 'f', -1, 64)
		case nil:
			out[i] = ""
		default:
			out[i] = fmt.Sprint(t)
		}
	}
	return out
}
