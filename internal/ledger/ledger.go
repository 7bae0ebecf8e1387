package ledger

import (
	"context"
	"sync"
	"time"

	"odolog/internal/core"
)

// Observer is notified after every committed transition, in commit order.
type Observer interface {
	LedgerChanged(ctx context.Context, ev core.LedgerEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev core.LedgerEvent)

func (f ObserverFunc) LedgerChanged(ctx context.Context, ev core.LedgerEvent) { f(ctx, ev) }

// Ledger serialises mutations of a State and fans committed transitions out
// to observers.
type Ledger struct {
	mu        sync.Mutex
	state     State
	catalog   *core.Catalog
	observers []Observer
	now       func() time.Time
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithObserver(o Observer) Option {
	return func(l *Ledger) { l.observers = append(l.observers, o) }
}

func New(catalog *core.Catalog, opts ...Option) *Ledger {
	if catalog == nil {
		catalog = core.DefaultCatalog()
	}
	l := &Ledger{catalog: catalog, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Subscribe registers an observer for subsequent transitions.
func (l *Ledger) Subscribe(o Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, o)
}

// Restore replaces the whole state without notifying observers.
func (l *Ledger) Restore(s State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.Revision = l.state.Revision + 1
	l.state = s
}

func (l *Ledger) Catalog() *core.Catalog { return l.catalog }

func (l *Ledger) AddRecord(ctx context.Context, in core.RecordInput) (core.MaintenanceRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	next, rec, err := AddRecord(l.state, l.catalog, in, now)
	if err != nil {
		return core.MaintenanceRecord{}, err
	}
	l.state = next
	ev := core.LedgerEvent{Kind: core.EventRecordAdded, Revision: next.Revision, Record: rec, Profile: next.Profile, At: now}
	l.notify(ctx, ev)
	return rec, nil
}

func (l *Ledger) DeleteRecord(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next, removed, err := DeleteRecord(l.state, id)
	if err != nil {
		return err
	}
	l.state = next
	ev := core.LedgerEvent{Kind: core.EventRecordDeleted, Revision: next.Revision, Record: removed, Profile: next.Profile, At: l.now()}
	l.notify(ctx, ev)
	return nil
}

func (l *Ledger) SetVehicleProfile(ctx context.Context, upd core.ProfileUpdate) (core.VehicleProfile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	next, err := SetVehicleProfile(l.state, upd)
	if err != nil {
		return core.VehicleProfile{}, err
	}
	l.state = next
	ev := core.LedgerEvent{Kind: core.EventProfileUpdated, Revision: next.Revision, Profile: next.Profile, At: l.now()}
	l.notify(ctx, ev)
	return next.Profile, nil
}

// notify runs with mu held so observers see transitions in commit order.
// Observers must return quickly and must not call back into the Ledger.
func (l *Ledger) notify(ctx context.Context, ev core.LedgerEvent) {
	for _, o := range l.observers {
		o.LedgerChanged(ctx, ev)
	}
}

// Snapshot returns a copy of the current state.
func (l *Ledger) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.clone()
}

func (l *Ledger) Profile() (core.VehicleProfile, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Profile, l.state.HasProfile
}

// AllRecords returns the records in insertion order.
func (l *Ledger) AllRecords() []core.MaintenanceRecord {
	return l.Snapshot().Records
}

// History returns the records newest first. The stored order is unchanged.
func (l *Ledger) History() []core.MaintenanceRecord {
	return l.Snapshot().History()
}

func (l *Ledger) Revision() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Revision
}
