// Package services provides business logic and orchestration services.
//
// This file implements the due-status evaluation of maintenance records.
// Classification of the remaining distance goes through SeverityClassifier;
// DefaultClassifier uses the fixed 500 km warning band.

package services

import (
	"errors"
	"math"

	"odolog/internal/core"
)

// WarningThresholdKm is the remaining distance at or below which a record is
// due soon.
const WarningThresholdKm int64 = 500

// SeverityClassifier maps a remaining distance to a severity.
type SeverityClassifier interface {
	Classify(remainingKm int64) core.Severity
}

// ThresholdClassifier classifies with a single warning band above zero.
type ThresholdClassifier struct {
	WarningKm int64
}

// Classify applies the rules in order: overdue at or below zero, due soon
// within the warning band, ok otherwise.
func (c ThresholdClassifier) Classify(remainingKm int64) core.Severity {
	switch {
	case remainingKm <= 0:
		return core.SeverityOverdue
	case remainingKm <= c.WarningKm:
		return core.SeverityDueSoon
	default:
		return core.SeverityOk
	}
}

// DefaultClassifier is the classifier used by Evaluate.
var DefaultClassifier SeverityClassifier = ThresholdClassifier{WarningKm: WarningThresholdKm}

// Evaluate derives the due status of rec at the given odometer reading.
func Evaluate(currentOdoKm int64, rec core.MaintenanceRecord) (core.DueStatus, error) {
	return EvaluateWith(DefaultClassifier, currentOdoKm, rec)
}

// EvaluateWith is Evaluate with an explicit classifier.
func EvaluateWith(c SeverityClassifier, currentOdoKm int64, rec core.MaintenanceRecord) (core.DueStatus, error) {
	if rec.IntervalKm <= 0 {
		return core.DueStatus{}, &core.DomainError{RecordID: rec.ID, Reason: "interval must be greater than zero"}
	}

	nextDue := rec.NextDueKm()
	remaining := nextDue - currentOdoKm
	elapsed := float64(currentOdoKm) - float64(rec.OdoAtMaintenance)
	progress := elapsed * 100 / float64(rec.IntervalKm)
	progress = math.Max(0, math.Min(100, progress))

	return core.DueStatus{
		RecordID:         rec.ID,
		TypeID:           rec.TypeID,
		TypeName:         rec.TypeName,
		NextDueKm:        nextDue,
		RemainingKm:      remaining,
		ProgressPercent:  progress,
		RemainingPercent: 100 - progress,
		Severity:         c.Classify(remaining),
	}, nil
}

// EvaluateAll evaluates every record in order. Records that fail evaluation
// are skipped and reported in the joined error.
func EvaluateAll(currentOdoKm int64, records []core.MaintenanceRecord) ([]core.DueStatus, error) {
	out := make([]core.DueStatus, 0, len(records))
	var errs []error
	for _, r := range records {
		st, err := Evaluate(currentOdoKm, r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, st)
	}
	return out, errors.Join(errs...)
}
