package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"odolog/internal/core"
)

// LedgerEventMessage carries one committed ledger transition. Record is set
// for record events and Profile for profile updates.
type LedgerEventMessage struct {
	MessageID string                  `json:"messageId"`
	Kind      core.EventKind          `json:"kind"`
	Revision  uint64                  `json:"revision"`
	RecordID  int64                   `json:"recordId,omitempty"`
	Record    *core.MaintenanceRecord `json:"record,omitempty"`
	Profile   *core.VehicleProfile    `json:"profile,omitempty"`
	Timestamp time.Time               `json:"timestamp"`
}

// DueAlertMessage announces that a record became due soon or overdue.
type DueAlertMessage struct {
	MessageID   string        `json:"messageId"`
	RecordID    int64         `json:"recordId"`
	TypeName    string        `json:"typeName"`
	Severity    core.Severity `json:"severity"`
	RemainingKm int64         `json:"remainingKm"`
	Message     string        `json:"message"`
	Timestamp   time.Time     `json:"timestamp"`
}

func NewLedgerEventMessage(ev core.LedgerEvent) *LedgerEventMessage {
	msg := &LedgerEventMessage{
		MessageID: uuid.NewString(),
		Kind:      ev.Kind,
		Revision:  ev.Revision,
		Timestamp: ev.At,
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	switch ev.Kind {
	case core.EventRecordAdded, core.EventRecordDeleted:
		rec := ev.Record
		msg.RecordID = rec.ID
		msg.Record = &rec
	case core.EventProfileUpdated:
		p := ev.Profile
		msg.Profile = &p
	}
	return msg
}

func NewDueAlertMessage(n core.Notification) *DueAlertMessage {
	return &DueAlertMessage{
		MessageID:   uuid.NewString(),
		RecordID:    n.RecordID,
		TypeName:    n.TypeName,
		Severity:    n.Severity,
		RemainingKm: n.RemainingKm,
		Message:     n.Message,
		Timestamp:   time.Now(),
	}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON decodes and checks a ledger event.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Kind {
	case core.EventRecordAdded:
		if msg.Record == nil {
			return nil, errors.New("record event without record")
		}
	case core.EventRecordDeleted:
		if msg.RecordID == 0 {
			return nil, errors.New("delete event without record id")
		}
	case core.EventProfileUpdated:
		if msg.Profile == nil {
			return nil, errors.New("profile event without profile")
		}
	default:
		return nil, errors.New("unknown event kind: " + string(msg.Kind))
	}
	return &msg, nil
}

func (m *DueAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DueAlertMessageFromJSON(data []byte) (*DueAlertMessage, error) {
	var msg DueAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Severity.Valid() {
		return nil, errors.New("invalid severity: " + string(msg.Severity))
	}
	return &msg, nil
}
