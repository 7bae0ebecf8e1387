package services

import (
	"fmt"

	"odolog/internal/core"
)

// Notifications maps the records through the evaluator in insertion order
// and returns one notification per record that is not ok.
func Notifications(currentOdoKm int64, records []core.MaintenanceRecord) ([]core.Notification, error) {
	statuses, err := EvaluateAll(currentOdoKm, records)
	out := make([]core.Notification, 0)
	for _, st := range statuses {
		if st.Severity == core.SeverityOk {
			continue
		}
		out = append(out, core.Notification{
			Severity:    st.Severity,
			Message:     NotificationMessage(st),
			RecordID:    st.RecordID,
			TypeName:    st.TypeName,
			RemainingKm: st.RemainingKm,
		})
	}
	return out, err
}

// NotificationMessage renders the user-facing text for a status.
func NotificationMessage(st core.DueStatus) string {
	switch st.Severity {
	case core.SeverityOverdue:
		return fmt.Sprintf("%s sudah melewati batas! Segera ganti!", st.TypeName)
	case core.SeverityDueSoon:
		return fmt.Sprintf("%s perlu diganti dalam %d km lagi", st.TypeName, st.RemainingKm)
	default:
		return ""
	}
}
