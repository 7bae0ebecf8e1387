package http

import (
	"net/http"

	"odolog/internal/core"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	OK(s.dueStatuses(r.Context())).Write(w)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	OK(s.service.Notifications(r.Context())).Write(w)
}

type summaryView struct {
	RecordCount      int          `json:"recordCount"`
	CurrentOdoKm     int64        `json:"currentOdoKm"`
	CurrentOdoLabel  string       `json:"currentOdoLabel"`
	TotalSpent       int64        `json:"totalSpent"`
	TotalSpentLabel  string       `json:"totalSpentLabel"`
	AverageCost      int64        `json:"averageCost"`
	AverageCostLabel string       `json:"averageCostLabel"`
	History          []recordView `json:"history"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sum := s.service.Summary()
	OK(summaryView{
		RecordCount:      sum.RecordCount,
		CurrentOdoKm:     sum.CurrentOdoKm,
		CurrentOdoLabel:  core.FormatKm(sum.CurrentOdoKm),
		TotalSpent:       sum.TotalSpent,
		TotalSpentLabel:  core.FormatRupiah(sum.TotalSpent),
		AverageCost:      sum.AverageCost,
		AverageCostLabel: core.FormatRupiah(sum.AverageCost),
		History:          newRecordViews(sum.History),
	}).Write(w)
}
