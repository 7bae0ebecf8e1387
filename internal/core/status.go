package core

import "time"

type Severity string

const (
	SeverityOk      Severity = "ok"
	SeverityDueSoon Severity = "due_soon"
	SeverityOverdue Severity = "overdue"
)

type (
	// DueStatus is the derived due state of one record against a current
	// odometer reading. It is never stored.
	DueStatus struct {
		RecordID         int64    `json:"recordId"`
		TypeID           string   `json:"typeId"`
		TypeName         string   `json:"typeName"`
		NextDueKm        int64    `json:"nextDueKm"`
		RemainingKm      int64    `json:"remainingKm"`
		ProgressPercent  float64  `json:"progressPercent"`
		RemainingPercent float64  `json:"remainingPercent"`
		Severity         Severity `json:"severity"`
	}

	Notification struct {
		Severity    Severity `json:"severity"`
		Message     string   `json:"message"`
		RecordID    int64    `json:"recordId"`
		TypeName    string   `json:"typeName"`
		RemainingKm int64    `json:"remainingKm"`
	}

	Summary struct {
		RecordCount  int                 `json:"recordCount"`
		CurrentOdoKm int64               `json:"currentOdoKm"`
		TotalSpent   int64               `json:"totalSpent"`
		AverageCost  int64               `json:"averageCost"`
		History      []MaintenanceRecord `json:"history"`
	}
)

type EventKind string

const (
	EventRecordAdded    EventKind = "record.added"
	EventRecordDeleted  EventKind = "record.deleted"
	EventProfileUpdated EventKind = "profile.updated"
)

// LedgerEvent describes one committed state transition of the ledger.
type LedgerEvent struct {
	Kind     EventKind
	Revision uint64
	Record   MaintenanceRecord
	Profile  VehicleProfile
	At       time.Time
}

func (s Severity) Valid() bool {
	switch s {
	case SeverityOk, SeverityDueSoon, SeverityOverdue:
		return true
	}
	return false
}
