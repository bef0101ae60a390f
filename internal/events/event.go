package events

import (
	platformevents "procurement_backend/platform/events"

	"github.com/google/uuid"
)

// Type aliases so modules only import internal/events.
type (
	Event       = platformevents.Event
	BaseEvent   = platformevents.BaseEvent
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
	Bus         = platformevents.Bus
)

// NewBaseEvent creates a new base event with the current timestamp.
var NewBaseEvent = platformevents.NewBaseEvent

// =============================================================================
// Catalog Events
// =============================================================================

// ItemChanged is published after an item is created or updated.
type ItemChanged struct {
	BaseEvent
	ItemID     uuid.UUID `json:"itemId"`
	ProviderID uuid.UUID `json:"prestadorId"`
	Category   string    `json:"categoria"`
	Name       string    `json:"nome"`
	Active     bool      `json:"ativo"`
	WasCreated bool      `json:"created"`
}

func (e ItemChanged) EventName() string { return "catalog.item.changed" }

// =============================================================================
// Call Events
// =============================================================================

// CallCreated is published after a call is created.
type CallCreated struct {
	BaseEvent
	CallID   uuid.UUID `json:"chamadaId"`
	Category string    `json:"categoria"`
}

func (e CallCreated) EventName() string { return "calls.call.created" }

// CallUpdated is published when a call's category or price ceiling changes.
type CallUpdated struct {
	BaseEvent
	CallID   uuid.UUID `json:"chamadaId"`
	Category string    `json:"categoria"`
}

func (e CallUpdated) EventName() string { return "calls.call.updated" }

// CallDeleted is published after a call and its offers are removed.
type CallDeleted struct {
	BaseEvent
	CallID uuid.UUID `json:"chamadaId"`
}

func (e CallDeleted) EventName() string { return "calls.call.deleted" }

// =============================================================================
// Offer Events
// =============================================================================

// OfferSubmitted is published after an offer passes the gate and is stored.
type OfferSubmitted struct {
	BaseEvent
	OfferID    uuid.UUID `json:"ofertaId"`
	CallID     uuid.UUID `json:"chamadaId"`
	ProviderID uuid.UUID `json:"prestadorId"`
	Value      string    `json:"valor"`
}

func (e OfferSubmitted) EventName() string { return "offers.offer.submitted" }
