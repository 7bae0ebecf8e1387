package services

import (
	"math"

	"odolog/internal/core"
)

// Summarize computes the statistics view of a ledger. The average is rounded
// half away from zero and is 0 for an empty ledger.
func Summarize(profile core.VehicleProfile, records []core.MaintenanceRecord) core.Summary {
	s := core.Summary{
		RecordCount:  len(records),
		CurrentOdoKm: profile.CurrentOdoKm,
		History:      make([]core.MaintenanceRecord, len(records)),
	}
	for i, r := range records {
		s.TotalSpent += r.TotalCost
		s.History[len(records)-1-i] = r
	}
	if len(records) > 0 {
		s.AverageCost = int64(math.Round(float64(s.TotalSpent) / float64(len(records))))
	}
	return s
}

// RecordFilter selects records by type and by an inclusive date range.
// Zero fields match every record.
type RecordFilter struct {
	TypeID string
	From   core.Date
	To     core.Date
}

func (f RecordFilter) Match(r core.MaintenanceRecord) bool {
	if f.TypeID != "" && r.TypeID != f.TypeID {
		return false
	}
	if !f.From.IsZero() && r.Date.Before(f.From.Time) {
		return false
	}
	if !f.To.IsZero() && r.Date.After(f.To.Time) {
		return false
	}
	return true
}

// FilterRecords returns the records matching f, keeping their order.
func FilterRecords(records []core.MaintenanceRecord, f RecordFilter) []core.MaintenanceRecord {
	out := make([]core.MaintenanceRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
