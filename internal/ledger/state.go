// Package ledger holds the maintenance ledger state and the pure transitions
// applied to it.
package ledger

import (
	"time"

	"odolog/internal/core"
)

// State is the complete in-memory state of one vehicle's ledger. Transition
// functions never modify the State they receive.
type State struct {
	Profile    core.VehicleProfile
	HasProfile bool
	Records    []core.MaintenanceRecord
	LastID     int64
	Revision   uint64
}

// NewState builds a State from persisted data.
func NewState(profile *core.VehicleProfile, records []core.MaintenanceRecord) State {
	s := State{Records: make([]core.MaintenanceRecord, len(records))}
	copy(s.Records, records)
	if profile != nil {
		s.Profile = *profile
		s.HasProfile = true
	}
	for _, r := range records {
		if r.ID > s.LastID {
			s.LastID = r.ID
		}
	}
	return s
}

// AddRecord validates in against the catalog and returns the state with the
// new record appended.
func AddRecord(s State, catalog *core.Catalog, in core.RecordInput, now time.Time) (State, core.MaintenanceRecord, error) {
	if err := in.Validate(); err != nil {
		return s, core.MaintenanceRecord{}, err
	}
	typ, err := catalog.Resolve(in.TypeID)
	if err != nil {
		return s, core.MaintenanceRecord{}, err
	}

	odo := s.Profile.CurrentOdoKm
	if in.OdoAtMaintenance != nil {
		odo = *in.OdoAtMaintenance
	}

	rec := core.MaintenanceRecord{
		ID:               nextID(now, s.LastID),
		TypeID:           typ.ID,
		TypeName:         typ.Name,
		IntervalKm:       in.IntervalKm,
		OdoAtMaintenance: odo,
		Date:             in.Date,
		PartCost:         in.PartCost,
		ServiceCost:      in.ServiceCost,
		TotalCost:        in.PartCost + in.ServiceCost,
	}

	next := s.clone()
	next.Records = append(next.Records, rec)
	next.LastID = rec.ID
	next.Revision++
	return next, rec, nil
}

// DeleteRecord returns the state without the record id.
func DeleteRecord(s State, id int64) (State, core.MaintenanceRecord, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return s, core.MaintenanceRecord{}, &core.NotFoundError{Kind: "record", ID: id}
	}
	removed := s.Records[idx]
	next := s.clone()
	next.Records = append(next.Records[:idx], next.Records[idx+1:]...)
	next.Revision++
	return next, removed, nil
}

// SetVehicleProfile merges upd into the profile, creating it on first use.
func SetVehicleProfile(s State, upd core.ProfileUpdate) (State, error) {
	if err := upd.Validate(); err != nil {
		return s, err
	}
	next := s.clone()
	next.Profile = upd.Apply(s.Profile)
	next.HasProfile = true
	next.Revision++
	return next, nil
}

// History returns the records newest first.
func (s State) History() []core.MaintenanceRecord {
	out := make([]core.MaintenanceRecord, len(s.Records))
	for i, r := range s.Records {
		out[len(s.Records)-1-i] = r
	}
	return out
}

func (s State) clone() State {
	c := s
	c.Records = make([]core.MaintenanceRecord, len(s.Records), len(s.Records)+1)
	copy(c.Records, s.Records)
	return c
}

func (s State) indexOf(id int64) int {
	for i, r := range s.Records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// nextID derives ids from the wall clock in milliseconds and keeps them
// strictly increasing.
func nextID(now time.Time, last int64) int64 {
	id := now.UnixMilli()
	if id <= last {
		id = last + 1
	}
	return id
}
