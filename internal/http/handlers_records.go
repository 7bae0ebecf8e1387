package http

import (
	"net/http"
	"time"

	"odolog/internal/core"
)

type recordView struct {
	core.MaintenanceRecord
	NextDueKm      int64  `json:"nextDueKm"`
	TotalCostLabel string `json:"totalCostLabel"`
}

func newRecordView(r core.MaintenanceRecord) recordView {
	return recordView{
		MaintenanceRecord: r,
		NextDueKm:         r.NextDueKm(),
		TotalCostLabel:    core.FormatRupiah(r.TotalCost),
	}
}

func newRecordViews(records []core.MaintenanceRecord) []recordView {
	out := make([]recordView, len(records))
	for i, r := range records {
		out[i] = newRecordView(r)
	}
	return out
}

// handleListRecords returns the records in insertion order, optionally
// filtered by ?type=, ?from= and ?to=.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	f, err := parseRecordFilter(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	OK(newRecordViews(s.service.FindRecords(f))).Write(w)
}

// handleHistory returns the records newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	OK(newRecordViews(s.service.History())).Write(w)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if !s.decode(w, r, &req) {
		return
	}
	in, err := req.ToInput(s.service.Catalog(), time.Now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.service.AddRecord(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	Created(newRecordView(rec)).Write(w)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := parseRecordID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.service.DeleteRecord(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	NoContent().Write(w)
}
