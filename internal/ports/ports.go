// Package ports declares the outbound contracts of the ledger: persistence,
// event publishing and the spreadsheet mirror.
package ports

import (
	"context"

	"odolog/internal/core"
)

type (
	// KeyValue is the minimal persistence contract. Get reports absence with
	// found == false rather than an error.
	KeyValue interface {
		Get(ctx context.Context, key string) (value []byte, found bool, err error)
		Put(ctx context.Context, key string, value []byte) error
		Delete(ctx context.Context, key string) error
	}

	// ProfileStore persists the vehicle profile singleton.
	ProfileStore interface {
		GetProfile(ctx context.Context) (profile core.VehicleProfile, found bool, err error)
		SaveProfile(ctx context.Context, p core.VehicleProfile) error
	}

	// RecordStore persists maintenance records. ListRecords returns them in
	// insertion order. DeleteRecord returns *core.NotFoundError for unknown ids.
	RecordStore interface {
		InsertRecord(ctx context.Context, r core.MaintenanceRecord) error
		DeleteRecord(ctx context.Context, id int64) error
		ListRecords(ctx context.Context) ([]core.MaintenanceRecord, error)
	}

	// RecordFinder offers the secondary lookups of the structured stores.
	RecordFinder interface {
		ListRecordsByType(ctx context.Context, typeID string) ([]core.MaintenanceRecord, error)
		ListRecordsBetween(ctx context.Context, from, to core.Date) ([]core.MaintenanceRecord, error)
	}

	EventPublisher interface {
		PublishLedgerEvent(ctx context.Context, ev core.LedgerEvent) error
	}

	AlertPublisher interface {
		PublishDueAlert(ctx context.Context, n core.Notification) error
	}

	// RecordMirror is an append-only external copy of the maintenance history.
	RecordMirror interface {
		AppendRecord(ctx context.Context, r core.MaintenanceRecord) (rowRef string, err error)
		DeleteRecord(ctx context.Context, id int64) error
	}
)
