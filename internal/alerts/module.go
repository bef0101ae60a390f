// Package alerts re-runs matching when catalog items or calls change and
// logs a match alert for every compatible provider.
package alerts

import (
	"context"

	"procurement_backend/internal/events"
	"procurement_backend/internal/scheduler"
	"procurement_backend/platform/logger"

	"github.com/google/uuid"
)

// Module routes catalog and call events to the alert jobs, through the
// task queue when one is configured.
type Module struct {
	service  *Service
	enqueuer scheduler.MatchingEnqueuer
	log      *logger.Logger
}

// NewModule creates the alerts module. enqueuer may be nil, in which case
// the jobs run inline on the event bus goroutine.
func NewModule(calls CallLister, matcher Matcher, enqueuer scheduler.MatchingEnqueuer, log *logger.Logger) *Module {
	return &Module{
		service:  NewService(calls, matcher, log),
		enqueuer: enqueuer,
		log:      log,
	}
}

// Service returns the alert service, which the scheduler worker runs.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.ItemChanged{}.EventName(), m)
	bus.Subscribe(events.CallCreated{}.EventName(), m)
	bus.Subscribe(events.CallUpdated{}.EventName(), m)
}

// Handle implements events.Handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ItemChanged:
		return m.handleItemChanged(ctx, e)
	case events.CallCreated:
		return m.handleCallChanged(ctx, e.CallID)
	case events.CallUpdated:
		return m.handleCallChanged(ctx, e.CallID)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleItemChanged(ctx context.Context, e events.ItemChanged) error {
	if m.enqueuer != nil {
		return m.enqueuer.EnqueueItemChanged(ctx, scheduler.ItemChangedPayload{
			ItemID:   e.ItemID.String(),
			Category: e.Category,
		})
	}
	_, err := m.service.RefreshForItem(ctx, e.Category)
	return err
}

func (m *Module) handleCallChanged(ctx context.Context, callID uuid.UUID) error {
	if m.enqueuer != nil {
		return m.enqueuer.EnqueueCallAlert(ctx, scheduler.CallAlertPayload{CallID: callID.String()})
	}
	_, err := m.service.AlertCall(ctx, callID)
	return err
}

var _ events.Handler = (*Module)(nil)
var _ scheduler.MatchingJobs = (*Service)(nil)
