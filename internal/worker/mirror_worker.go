package worker

import (
	"context"
	"fmt"
	"log/slog"

	"odolog/internal/amqp"
	"odolog/internal/core"
	"odolog/internal/ports"
)

// MirrorWorker replays ledger events onto the spreadsheet mirror.
type MirrorWorker struct {
	mirror ports.RecordMirror
}

func NewMirrorWorker(mirror ports.RecordMirror) *MirrorWorker {
	return &MirrorWorker{mirror: mirror}
}

// HandleLedgerEvent processes a single ledger event from AMQP. A returned
// error makes the consumer requeue the message.
func (w *MirrorWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	switch msg.Kind {
	case core.EventRecordAdded:
		return w.appendRecord(ctx, msg)
	case core.EventRecordDeleted:
		return w.deleteRecord(ctx, msg)
	default:
		slog.DebugContext(ctx, "Ignoring ledger event",
			"message_id", msg.MessageID,
			"event_kind", msg.Kind)
		return nil
	}
}

func (w *MirrorWorker) appendRecord(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	if msg.Record == nil {
		return fmt.Errorf("message %s: record event without record", msg.MessageID)
	}
	ref, err := w.mirror.AppendRecord(ctx, *msg.Record)
	if err != nil {
		return fmt.Errorf("append record %d: %w", msg.Record.ID, err)
	}
	slog.InfoContext(ctx, "Mirrored maintenance record",
		"message_id", msg.MessageID,
		"record_id", msg.Record.ID,
		"sheets_ref", ref)
	return nil
}

func (w *MirrorWorker) deleteRecord(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	err := w.mirror.DeleteRecord(ctx, msg.RecordID)
	if core.IsNotFound(err) {
		// already gone; redelivery would never succeed
		slog.WarnContext(ctx, "Mirror row not found for deleted record",
			"message_id", msg.MessageID,
			"record_id", msg.RecordID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete record %d: %w", msg.RecordID, err)
	}
	slog.InfoContext(ctx, "Removed mirrored record",
		"message_id", msg.MessageID,
		"record_id", msg.RecordID)
	return nil
}
