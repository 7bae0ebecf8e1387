package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"odolog/internal/core"
)

func TestNotifications_OnlyNonOk(t *testing.T) {
	oil := oilRecord()
	brake := core.MaintenanceRecord{ID: 2, TypeID: "minyak_rem", TypeName: "Minyak Rem", IntervalKm: 10000, OdoAtMaintenance: 2000}
	lamp := core.MaintenanceRecord{ID: 3, TypeID: "lampu_sein", TypeName: "Lampu Sein", IntervalKm: 20000, OdoAtMaintenance: 10000}

	got, err := Notifications(12100, []core.MaintenanceRecord{oil, brake, lamp})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, core.Notification{
		Severity:    core.SeverityDueSoon,
		Message:     "Oli Mesin perlu diganti dalam 400 km lagi",
		RecordID:    1,
		TypeName:    "Oli Mesin",
		RemainingKm: 400,
	}, got[0])
	assert.Equal(t, core.SeverityOverdue, got[1].Severity)
	assert.Equal(t, "Minyak Rem sudah melewati batas! Segera ganti!", got[1].Message)
	assert.EqualValues(t, -100, got[1].RemainingKm)
}

func TestNotifications_EmptyLedger(t *testing.T) {
	got, err := Notifications(5000, nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNotifications_Idempotent(t *testing.T) {
	records := []core.MaintenanceRecord{oilRecord()}
	a, _ := Notifications(12600, records)
	b, _ := Notifications(12600, records)
	assert.Equal(t, a, b)
}

func TestNotificationMessage_Ok(t *testing.T) {
	assert.Empty(t, NotificationMessage(core.DueStatus{Severity: core.SeverityOk, TypeName: "Busi"}))
}
