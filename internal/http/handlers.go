package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"odolog/internal/core"
	applog "odolog/internal/log"
)

// fail writes the response for err. Server-side failures are logged with the
// request-scoped logger; client errors are already logged by the request
// logger at warn level.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	resp := FromError(err)
	if resp.statusCode >= http.StatusInternalServerError {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err)
	}
	resp.Write(w)
}

// decode reads the JSON body into dst and writes a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		msg := "Format permintaan tidak valid."
		if errors.Is(err, errEmptyBody) {
			msg = "Isi permintaan kosong."
		}
		BadRequestError(msg).Write(w)
		return false
	}
	return true
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	OK(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	}).Write(w)
}

// handleReady checks the persistence backend
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if err := s.service.Ping(ctx); err != nil {
		checks["store"] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	checks["ledger"] = map[string]any{
		"revision": s.service.Revision(),
		"records":  len(s.service.Records()),
	}
	checks["cache"] = map[string]any{
		"status_entries": s.statusCache.Size(),
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
		"hits":           s.limiter.GetMetrics().TotalHits,
	}
	checks["requests"] = s.tracer.GetMetrics().TotalRequests

	NewJSONResponse().Status(httpStatus).Data(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	OK(s.service.Catalog().Types()).Write(w)
}

type vehicleView struct {
	core.VehicleProfile
	CurrentOdoLabel string `json:"currentOdoLabel"`
}

func newVehicleView(p core.VehicleProfile) vehicleView {
	return vehicleView{VehicleProfile: p, CurrentOdoLabel: core.FormatKm(p.CurrentOdoKm)}
}

func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	OK(newVehicleView(s.service.Profile())).Write(w)
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var req VehicleRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := s.service.SetVehicleProfile(r.Context(), req.ToUpdate())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	OK(newVehicleView(p)).Write(w)
}
