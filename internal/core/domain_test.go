package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func int64p(v int64) *int64 { return &v }

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2025, 3, 7))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2025-03-07"` {
		t.Fatalf("got %s", b)
	}
	var d Date
	if err := json.Unmarshal([]byte(`"2024-12-31"`), &d); err != nil {
		t.Fatal(err)
	}
	if d.Year() != 2024 || d.Month() != time.December || d.Day() != 31 {
		t.Fatalf("unexpected date %v", d)
	}
	if err := json.Unmarshal([]byte(`"31/12/2024"`), &d); err == nil {
		t.Fatal("expected error for wrong layout")
	}
}

func TestRecordInputValidate(t *testing.T) {
	good := RecordInput{TypeID: "oli_mesin", IntervalKm: 2500, Date: NewDate(2025, 1, 1)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name  string
		in    RecordInput
		field string
	}{
		{"missing type", RecordInput{IntervalKm: 2500, Date: NewDate(2025, 1, 1)}, "typeId"},
		{"missing interval", RecordInput{TypeID: "oli_mesin", Date: NewDate(2025, 1, 1)}, "intervalKm"},
		{"negative interval", RecordInput{TypeID: "oli_mesin", IntervalKm: -1, Date: NewDate(2025, 1, 1)}, "intervalKm"},
		{"missing date", RecordInput{TypeID: "oli_mesin", IntervalKm: 2500}, "date"},
		{"negative odometer", RecordInput{TypeID: "oli_mesin", IntervalKm: 2500, Date: NewDate(2025, 1, 1), OdoAtMaintenance: int64p(-5)}, "odoAtMaintenance"},
		{"negative part cost", RecordInput{TypeID: "oli_mesin", IntervalKm: 2500, Date: NewDate(2025, 1, 1), PartCost: -1}, "partCost"},
		{"negative service cost", RecordInput{TypeID: "oli_mesin", IntervalKm: 2500, Date: NewDate(2025, 1, 1), ServiceCost: -1}, "serviceCost"},
		{"interval too large", RecordInput{TypeID: "oli_mesin", IntervalKm: MaxKm + 1, Date: NewDate(2025, 1, 1)}, "intervalKm"},
		{"odometer too large", RecordInput{TypeID: "oli_mesin", IntervalKm: 2500, Date: NewDate(2025, 1, 1), OdoAtMaintenance: int64p(1e17)}, "odoAtMaintenance"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("field = %q, want %q", ve.Field, tc.field)
			}
		})
	}
}

func TestProfileUpdateApply(t *testing.T) {
	name := "  Vario 125 "
	p := ProfileUpdate{Name: &name}.Apply(VehicleProfile{Name: "old", CurrentOdoKm: 900})
	if p.Name != "Vario 125" || p.CurrentOdoKm != 900 {
		t.Fatalf("unexpected merge %+v", p)
	}
	p = ProfileUpdate{CurrentOdoKm: int64p(1200)}.Apply(p)
	if p.Name != "Vario 125" || p.CurrentOdoKm != 1200 {
		t.Fatalf("unexpected merge %+v", p)
	}
	if err := (ProfileUpdate{CurrentOdoKm: int64p(-1)}).Validate(); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := (ProfileUpdate{CurrentOdoKm: int64p(MaxKm + 1)}).Validate(); !IsValidation(err) {
		t.Fatalf("expected validation error above MaxKm, got %v", err)
	}
	if err := (ProfileUpdate{CurrentOdoKm: int64p(MaxKm)}).Validate(); err != nil {
		t.Fatalf("MaxKm itself must be accepted, got %v", err)
	}
}

func TestErrorsAs(t *testing.T) {
	wrapped := &PersistenceError{Op: "insert", Err: errors.New("disk full")}
	if !errors.Is(wrapped, wrapped.Err) {
		t.Fatal("PersistenceError must unwrap")
	}
	if !IsNotFound(&NotFoundError{Kind: "record", ID: 1}) {
		t.Fatal("IsNotFound failed")
	}
	ve := &ValidationError{Field: "km", Message: "must be greater than zero", Err: ErrInvalidDistance}
	if !errors.Is(ve, ErrInvalidDistance) {
		t.Fatal("ValidationError must unwrap to its sentinel")
	}
	if IsValidation(ErrInvalidDistance) {
		t.Fatal("the bare sentinel must not carry a field")
	}
}
