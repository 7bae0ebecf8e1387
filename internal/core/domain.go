package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage layout for calendar dates.
const DateLayout = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	MaintenanceType struct {
		ID                string `json:"id" toml:"id"`
		Name              string `json:"name" toml:"name"`
		DefaultIntervalKm int64  `json:"defaultIntervalKm" toml:"default_interval_km"`
	}

	// MaintenanceRecord is immutable once created; TypeName is the catalog
	// name at the time of creation.
	MaintenanceRecord struct {
		ID               int64  `json:"id"`
		TypeID           string `json:"typeId"`
		TypeName         string `json:"typeName"`
		IntervalKm       int64  `json:"intervalKm"`
		OdoAtMaintenance int64  `json:"odoAtMaintenance"`
		Date             Date   `json:"date"`
		PartCost         int64  `json:"partCost"`
		ServiceCost      int64  `json:"serviceCost"`
		TotalCost        int64  `json:"totalCost"`
	}

	VehicleProfile struct {
		Name         string `json:"name"`
		CurrentOdoKm int64  `json:"currentOdoKm"`
	}

	// ProfileUpdate merges into the vehicle profile; nil fields are left alone.
	ProfileUpdate struct {
		Name         *string
		CurrentOdoKm *int64
	}

	// RecordInput is the user-entered part of a maintenance record.
	// A nil OdoAtMaintenance falls back to the current odometer.
	RecordInput struct {
		TypeID           string
		IntervalKm       int64
		OdoAtMaintenance *int64
		Date             Date
		PartCost         int64
		ServiceCost      int64
	}
)

var ErrZeroDate = errors.New("date cannot be zero")

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MaxKm bounds every interval and odometer reading accepted from input.
const MaxKm int64 = 10_000_000

var maxKmMessage = fmt.Sprintf("must not exceed %d", MaxKm)

// Validate checks presence and range of the input fields. Type membership
// is checked against the catalog by the ledger.
func (in RecordInput) Validate() error {
	if strings.TrimSpace(in.TypeID) == "" {
		return &ValidationError{Field: "typeId", Message: "is required"}
	}
	if in.IntervalKm == 0 {
		return &ValidationError{Field: "intervalKm", Message: "is required"}
	}
	if in.IntervalKm < 0 {
		return &ValidationError{Field: "intervalKm", Message: "must be greater than zero"}
	}
	if in.IntervalKm > MaxKm {
		return &ValidationError{Field: "intervalKm", Message: maxKmMessage}
	}
	if err := in.Date.Validate(); err != nil {
		return &ValidationError{Field: "date", Message: "is required"}
	}
	if in.OdoAtMaintenance != nil && *in.OdoAtMaintenance < 0 {
		return &ValidationError{Field: "odoAtMaintenance", Message: "must not be negative"}
	}
	if in.OdoAtMaintenance != nil && *in.OdoAtMaintenance > MaxKm {
		return &ValidationError{Field: "odoAtMaintenance", Message: maxKmMessage}
	}
	if in.PartCost < 0 {
		return &ValidationError{Field: "partCost", Message: "must not be negative"}
	}
	if in.ServiceCost < 0 {
		return &ValidationError{Field: "serviceCost", Message: "must not be negative"}
	}
	return nil
}

func (u ProfileUpdate) Validate() error {
	if u.CurrentOdoKm != nil && *u.CurrentOdoKm < 0 {
		return &ValidationError{Field: "currentOdoKm", Message: "must not be negative"}
	}
	if u.CurrentOdoKm != nil && *u.CurrentOdoKm > MaxKm {
		return &ValidationError{Field: "currentOdoKm", Message: maxKmMessage}
	}
	if u.Name != nil && len(*u.Name) > 100 {
		return &ValidationError{Field: "name", Message: "too long (max 100 characters)"}
	}
	return nil
}

// Apply returns p with the non-nil fields of u merged in.
func (u ProfileUpdate) Apply(p VehicleProfile) VehicleProfile {
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.CurrentOdoKm != nil {
		p.CurrentOdoKm = *u.CurrentOdoKm
	}
	return p
}

// NextDueKm is the odometer reading at which the item is due again.
func (r MaintenanceRecord) NextDueKm() int64 {
	return r.OdoAtMaintenance + r.IntervalKm
}
