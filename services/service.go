// Package services holds the inventory reservation and borrow-lifecycle
// engine plus the role/department visibility rules layered on top.
// Everything here operates on whole-collection snapshots from the store and
// writes full collections back; see the Store docs for the consistency
// policy.
package services

import (
	"time"

	"equiptrack/notify"
	"equiptrack/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Clock abstracts time retrieval so late/on-time decisions are
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator abstracts record id generation so tests are deterministic.
// IDs carry a short prefix naming the record type, e.g. "item_…".
type IDGenerator interface {
	New(prefix string) string
}

type UUIDGenerator struct{}

func (UUIDGenerator) New(prefix string) string { return prefix + "_" + uuid.NewString() }

type Service struct {
	store    store.Store
	notifier notify.Notifier
	logger   *zap.Logger
	clock    Clock
	ids      IDGenerator
}

// New wires a Service. clock and ids may be nil to get the real
// implementations; a nil notifier falls back to the log sink.
func New(st store.Store, n notify.Notifier, logger *zap.Logger, clock Clock, ids IDGenerator) *Service {
	if clock == nil {
		clock = RealClock{}
	}
	if ids == nil {
		ids = UUIDGenerator{}
	}
	if n == nil {
		n = notify.NewLogNotifier(logger)
	}
	return &Service{store: st, notifier: n, logger: logger, clock: clock, ids: ids}
}
