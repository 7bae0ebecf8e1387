package http

import (
	"net/http"

	"odolog/internal/core"
	"odolog/internal/services"
)

type trackingView struct {
	services.TrackingState
	CurrentOdoKm int64 `json:"currentOdoKm"`
}

func newTrackingView(st services.TrackingState) trackingView {
	return trackingView{TrackingState: st, CurrentOdoKm: st.CurrentOdoKm()}
}

func (s *Server) handleTracking(w http.ResponseWriter, r *http.Request) {
	OK(newTrackingView(s.service.Tracking())).Write(w)
}

func (s *Server) handleStartTracking(w http.ResponseWriter, r *http.Request) {
	st, err := s.service.StartTracking(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	OK(newTrackingView(st)).Write(w)
}

func (s *Server) handleTrackingDistance(w http.ResponseWriter, r *http.Request) {
	var req DistanceRequest
	if !s.decode(w, r, &req) {
		return
	}
	st, err := s.service.AddTrackingDistance(r.Context(), req.Km)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	OK(newTrackingView(st)).Write(w)
}

// handleStopTracking ends the trip and returns it with the resulting profile.
func (s *Server) handleStopTracking(w http.ResponseWriter, r *http.Request) {
	st, p, err := s.service.StopTracking(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	OK(struct {
		Tracking trackingView   `json:"tracking"`
		Vehicle  vehicleView    `json:"vehicle"`
		Trip     map[string]any `json:"trip"`
	}{
		Tracking: newTrackingView(st),
		Vehicle:  newVehicleView(p),
		Trip: map[string]any{
			"distanceKm":    st.AccumulatedKm,
			"distanceLabel": core.FormatKm(st.AccumulatedKm),
		},
	}).Write(w)
}
