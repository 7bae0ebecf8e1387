// Package http provides the JSON API server and its handlers.
//
// This file decodes request bodies and path parameters into domain inputs.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"odolog/internal/core"
	"odolog/internal/services"
)

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads one JSON object from the request body into dst, rejecting
// unknown fields and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("decode request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// RecordRequest is the body of POST /api/records. Costs may be JSON numbers
// or rupiah strings such as "Rp 50.000". A missing interval takes the type's
// default, a missing odometer the current one and a missing date today.
type RecordRequest struct {
	TypeID           string          `json:"typeId"`
	IntervalKm       *int64          `json:"intervalKm"`
	OdoAtMaintenance *int64          `json:"odoAtMaintenance"`
	Date             string          `json:"date"`
	PartCost         json.RawMessage `json:"partCost"`
	ServiceCost      json.RawMessage `json:"serviceCost"`
}

// ToInput converts the request into a RecordInput, resolving defaults
// against catalog.
func (req RecordRequest) ToInput(catalog *core.Catalog, today time.Time) (core.RecordInput, error) {
	in := core.RecordInput{
		TypeID:           strings.TrimSpace(sanitizeInput(req.TypeID)),
		OdoAtMaintenance: req.OdoAtMaintenance,
	}

	if req.IntervalKm != nil {
		in.IntervalKm = *req.IntervalKm
	} else if in.TypeID != "" {
		typ, err := catalog.Resolve(in.TypeID)
		if err != nil {
			return core.RecordInput{}, err
		}
		in.IntervalKm = typ.DefaultIntervalKm
	}

	if strings.TrimSpace(req.Date) == "" {
		in.Date = core.NewDate(today.Year(), int(today.Month()), today.Day())
	} else {
		d, err := core.ParseDate(req.Date)
		if err != nil {
			return core.RecordInput{}, &core.ValidationError{Field: "date", Message: "must be formatted YYYY-MM-DD"}
		}
		in.Date = d
	}

	var err error
	if in.PartCost, err = parseCost("partCost", req.PartCost); err != nil {
		return core.RecordInput{}, err
	}
	if in.ServiceCost, err = parseCost("serviceCost", req.ServiceCost); err != nil {
		return core.RecordInput{}, err
	}
	return in, nil
}

// parseCost accepts a JSON integer, a rupiah string or nothing (zero).
func parseCost(field string, raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	invalid := &core.ValidationError{Field: field, Message: "must be a non-negative whole rupiah amount"}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, invalid
		}
		v, err := core.ParseAmount(s)
		if err != nil {
			return 0, invalid
		}
		return v, nil
	}

	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || v < 0 {
		return 0, invalid
	}
	return v, nil
}

// VehicleRequest is the body of PUT /api/vehicle. Absent fields are left
// unchanged.
type VehicleRequest struct {
	Name         *string `json:"name"`
	CurrentOdoKm *int64  `json:"currentOdoKm"`
}

func (req VehicleRequest) ToUpdate() core.ProfileUpdate {
	upd := core.ProfileUpdate{CurrentOdoKm: req.CurrentOdoKm}
	if req.Name != nil {
		name := sanitizeInput(*req.Name)
		upd.Name = &name
	}
	return upd
}

// DistanceRequest is the body of POST /api/tracking/distance.
type DistanceRequest struct {
	Km int64 `json:"km"`
}

// parseRecordFilter reads the optional type, from and to query parameters
// of GET /api/records.
func parseRecordFilter(r *http.Request) (services.RecordFilter, error) {
	q := r.URL.Query()
	f := services.RecordFilter{TypeID: strings.TrimSpace(sanitizeInput(q.Get("type")))}
	for _, p := range []struct {
		name string
		dst  *core.Date
	}{{"from", &f.From}, {"to", &f.To}} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		d, err := core.ParseDate(raw)
		if err != nil {
			return services.RecordFilter{}, &core.ValidationError{Field: p.name, Message: "must be formatted YYYY-MM-DD"}
		}
		*p.dst = d
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From.Time) {
		return services.RecordFilter{}, &core.ValidationError{Field: "to", Message: "must not be before from"}
	}
	return f, nil
}

// parseRecordID reads the {id} path value.
func parseRecordID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &core.ValidationError{Field: "id", Message: fmt.Sprintf("%q is not a record id", raw)}
	}
	return id, nil
}
