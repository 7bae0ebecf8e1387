package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"odolog/internal/core"
	"odolog/internal/ledger"
	applog "odolog/internal/log"
	"odolog/internal/ports"
)

// Store is the persistence a LedgerService writes through to.
type Store interface {
	ports.ProfileStore
	ports.RecordStore
}

// LedgerService orchestrates the in-memory ledger, its persistence and event
// publishing. The ledger is authoritative; storage and publishing failures
// are logged and never roll back a committed transition.
//
// Committed transitions are queued and written out by a single goroutine in
// commit order, so readers never wait on the store or the broker. Flush waits
// for everything queued so far; Close drains the queue before closing.
type LedgerService struct {
	ledger    *ledger.Ledger
	store     Store
	publisher ports.EventPublisher
	tracker   *Tracker
	logger    *applog.Logger

	queueMu   sync.Mutex
	queue     []queuedEvent
	wake      chan struct{}
	stop      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// queuedEvent is a committed transition, or a flush marker when done is set.
type queuedEvent struct {
	ctx  context.Context
	ev   core.LedgerEvent
	done chan struct{}
}

type ServiceOption func(*LedgerService)

func WithPublisher(p ports.EventPublisher) ServiceOption {
	return func(s *LedgerService) { s.publisher = p }
}

func WithLogger(l *applog.Logger) ServiceOption {
	return func(s *LedgerService) { s.logger = l }
}

// NewLedgerService wires l to store. store may be nil for a purely
// in-memory session.
func NewLedgerService(l *ledger.Ledger, store Store, opts ...ServiceOption) *LedgerService {
	s := &LedgerService{
		ledger:  l,
		store:   store,
		tracker: NewTracker(),
		logger:  applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentLedger),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	l.Subscribe(s)
	go s.run()
	return s
}

// Load reads the profile and records from the store concurrently and
// restores the ledger from them.
func (s *LedgerService) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.Flush(ctx); err != nil {
		return err
	}

	var (
		profile core.VehicleProfile
		found   bool
		records []core.MaintenanceRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, found, err = s.store.GetProfile(gctx)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = s.store.ListRecords(gctx)
		if err != nil {
			return fmt.Errorf("load records: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return &core.PersistenceError{Op: "load", Err: err}
	}

	var p *core.VehicleProfile
	if found {
		p = &profile
	}
	s.ledger.Restore(ledger.NewState(p, records))
	s.logger.InfoContext(ctx, "Ledger loaded",
		applog.FieldCount, len(records),
		applog.FieldOdometer, profile.CurrentOdoKm)
	return nil
}

// LedgerChanged queues one committed transition for persistence and
// publishing. It runs under the ledger lock and never blocks on I/O. The
// transition is already committed, so a caller going away must not abort it.
func (s *LedgerService) LedgerChanged(ctx context.Context, ev core.LedgerEvent) {
	s.enqueue(queuedEvent{ctx: context.WithoutCancel(ctx), ev: ev})
}

func (s *LedgerService) enqueue(q queuedEvent) {
	s.queueMu.Lock()
	s.queue = append(s.queue, q)
	s.queueMu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *LedgerService) run() {
	for {
		select {
		case <-s.wake:
			s.drain()
		case <-s.stop:
			s.drain()
			close(s.stopped)
			return
		}
	}
}

func (s *LedgerService) drain() {
	for {
		s.queueMu.Lock()
		batch := s.queue
		s.queue = nil
		s.queueMu.Unlock()
		if len(batch) == 0 {
			return
		}
		for _, q := range batch {
			if q.done != nil {
				close(q.done)
				continue
			}
			s.apply(q.ctx, q.ev)
		}
	}
}

func (s *LedgerService) apply(ctx context.Context, ev core.LedgerEvent) {
	if err := s.persist(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist ledger change",
			applog.FieldEventKind, ev.Kind,
			applog.FieldRevision, ev.Revision,
			applog.FieldError, err)
	}
	if err := s.publish(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger event",
			applog.FieldEventKind, ev.Kind,
			applog.FieldRevision, ev.Revision,
			applog.FieldError, err)
	}
}

// Flush waits until every transition committed before the call has been
// persisted and published.
func (s *LedgerService) Flush(ctx context.Context) error {
	done := make(chan struct{})
	s.enqueue(queuedEvent{done: done})
	select {
	case <-done:
		return nil
	case <-s.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *LedgerService) persist(ctx context.Context, ev core.LedgerEvent) error {
	if s.store == nil {
		return nil
	}
	var err error
	switch ev.Kind {
	case core.EventRecordAdded:
		err = s.store.InsertRecord(ctx, ev.Record)
	case core.EventRecordDeleted:
		err = s.store.DeleteRecord(ctx, ev.Record.ID)
	case core.EventProfileUpdated:
		err = s.store.SaveProfile(ctx, ev.Profile)
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	if err != nil {
		return &core.PersistenceError{Op: string(ev.Kind), Err: err}
	}
	return nil
}

func (s *LedgerService) publish(ctx context.Context, ev core.LedgerEvent) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.PublishLedgerEvent(ctx, ev)
}

func (s *LedgerService) AddRecord(ctx context.Context, in core.RecordInput) (core.MaintenanceRecord, error) {
	rec, err := s.ledger.AddRecord(ctx, in)
	if err != nil {
		return core.MaintenanceRecord{}, err
	}
	s.logger.InfoContext(ctx, "Maintenance record added",
		applog.FieldRecordID, rec.ID,
		applog.FieldTypeID, rec.TypeID,
		applog.FieldOdometer, rec.OdoAtMaintenance)
	return rec, nil
}

func (s *LedgerService) DeleteRecord(ctx context.Context, id int64) error {
	if err := s.ledger.DeleteRecord(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Maintenance record deleted", applog.FieldRecordID, id)
	return nil
}

func (s *LedgerService) SetVehicleProfile(ctx context.Context, upd core.ProfileUpdate) (core.VehicleProfile, error) {
	return s.ledger.SetVehicleProfile(ctx, upd)
}

func (s *LedgerService) Profile() core.VehicleProfile {
	p, _ := s.ledger.Profile()
	return p
}

func (s *LedgerService) Records() []core.MaintenanceRecord { return s.ledger.AllRecords() }

func (s *LedgerService) History() []core.MaintenanceRecord { return s.ledger.History() }

// FindRecords returns the records matching f in insertion order.
func (s *LedgerService) FindRecords(f RecordFilter) []core.MaintenanceRecord {
	return FilterRecords(s.ledger.AllRecords(), f)
}

func (s *LedgerService) Revision() uint64 { return s.ledger.Revision() }

func (s *LedgerService) Catalog() *core.Catalog { return s.ledger.Catalog() }

// Status evaluates every record against the current odometer.
func (s *LedgerService) Status(ctx context.Context) []core.DueStatus {
	statuses, _ := s.StatusAt(ctx)
	return statuses
}

// StatusAt is Status together with the ledger revision it was computed from.
func (s *LedgerService) StatusAt(ctx context.Context) ([]core.DueStatus, uint64) {
	snap := s.ledger.Snapshot()
	statuses, err := EvaluateAll(snap.Profile.CurrentOdoKm, snap.Records)
	if err != nil {
		s.logger.WarnContext(ctx, "Skipped records during evaluation", applog.FieldError, err)
	}
	return statuses, snap.Revision
}

func (s *LedgerService) Notifications(ctx context.Context) []core.Notification {
	snap := s.ledger.Snapshot()
	out, err := Notifications(snap.Profile.CurrentOdoKm, snap.Records)
	if err != nil {
		s.logger.WarnContext(ctx, "Skipped records during evaluation", applog.FieldError, err)
	}
	return out
}

func (s *LedgerService) Summary() core.Summary {
	snap := s.ledger.Snapshot()
	return Summarize(snap.Profile, snap.Records)
}

func (s *LedgerService) Tracking() TrackingState { return s.tracker.State() }

// StartTracking begins a trip from the current odometer.
func (s *LedgerService) StartTracking(ctx context.Context) (TrackingState, error) {
	st, err := s.tracker.Start(s.Profile().CurrentOdoKm)
	if err != nil {
		return st, err
	}
	s.logger.InfoContext(ctx, "Tracking started", applog.FieldOdometer, st.StartOdoKm)
	return st, nil
}

func (s *LedgerService) AddTrackingDistance(ctx context.Context, km int64) (TrackingState, error) {
	return s.tracker.AddDistance(km)
}

// StopTracking ends the trip and commits start + accumulated as the current
// odometer when any distance was recorded.
func (s *LedgerService) StopTracking(ctx context.Context) (TrackingState, core.VehicleProfile, error) {
	st, err := s.tracker.Stop()
	if err != nil {
		return st, s.Profile(), err
	}
	if st.AccumulatedKm <= 0 {
		return st, s.Profile(), nil
	}
	odo := st.CurrentOdoKm()
	p, err := s.ledger.SetVehicleProfile(ctx, core.ProfileUpdate{CurrentOdoKm: &odo})
	if err != nil {
		return st, s.Profile(), err
	}
	s.logger.InfoContext(ctx, "Tracking stopped",
		applog.FieldOdometer, odo,
		applog.FieldDistance, st.AccumulatedKm)
	return st, p, nil
}

// Ping checks the store when it supports it.
func (s *LedgerService) Ping(ctx context.Context) error {
	if p, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close drains pending transitions, then closes the store and publisher
// when they hold resources.
func (s *LedgerService) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.stopped
	})
	var errs []error
	if c, ok := s.store.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if c, ok := s.publisher.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	return errors.Join(errs...)
}
