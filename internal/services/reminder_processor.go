package services

import (
	"context"
	"errors"
	"strconv"

	"odolog/internal/cache"
	"odolog/internal/core"
	applog "odolog/internal/log"
	"odolog/internal/ports"
)

// ReminderProcessor publishes a due alert whenever a record becomes due soon
// or overdue. The last seen severity per record is kept in a cache; a record
// is alerted again only after its severity changes.
type ReminderProcessor struct {
	service   *LedgerService
	publisher ports.AlertPublisher
	seen      cache.Cache[core.Severity]
	logger    *applog.Logger
}

func NewReminderProcessor(service *LedgerService, publisher ports.AlertPublisher, seen cache.Cache[core.Severity], logger *applog.Logger) *ReminderProcessor {
	if seen == nil {
		seen = cache.NewLRU[core.Severity](1024, 0)
	}
	if logger == nil {
		logger = applog.Discard()
	}
	return &ReminderProcessor{
		service:   service,
		publisher: publisher,
		seen:      seen,
		logger:    logger.WithComponent(applog.ComponentReminder),
	}
}

// ProcessDue reloads the ledger, evaluates it and publishes alerts for
// records whose severity changed. It returns the number of alerts published.
func (p *ReminderProcessor) ProcessDue(ctx context.Context) (int, error) {
	if p.service == nil || p.publisher == nil {
		return 0, errors.New("processor not properly initialized")
	}
	if err := p.service.Load(ctx); err != nil {
		return 0, err
	}

	statuses := p.service.Status(ctx)
	published := 0
	for _, st := range statuses {
		key := strconv.FormatInt(st.RecordID, 10)
		last, known := p.seen.Get(key)
		if known && last == st.Severity {
			continue
		}
		if st.Severity == core.SeverityOk {
			p.seen.Set(key, st.Severity)
			continue
		}

		n := core.Notification{
			Severity:    st.Severity,
			Message:     NotificationMessage(st),
			RecordID:    st.RecordID,
			TypeName:    st.TypeName,
			RemainingKm: st.RemainingKm,
		}
		if err := p.publisher.PublishDueAlert(ctx, n); err != nil {
			p.logger.ErrorContext(ctx, "Failed to publish due alert",
				applog.FieldRecordID, st.RecordID,
				applog.FieldError, err)
			continue
		}
		p.seen.Set(key, st.Severity)
		published++
		p.logger.InfoContext(ctx, "Due alert published",
			applog.FieldRecordID, st.RecordID,
			applog.FieldSeverity, st.Severity,
			applog.FieldRemainingKm, st.RemainingKm)
	}

	p.logger.InfoContext(ctx, "Reminder pass complete",
		applog.FieldCount, published,
		"checked", len(statuses))
	return published, nil
}
