// Package eventstream defines the domain events emitted after the document
// changes and the Publisher interface backends implement.
package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/disrello/pkg/model"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeCardCreated is emitted after a card is added to a list.
	EventTypeCardCreated = "disrello.card.created"

	// EventTypeCardUpdated is emitted after a card's done or progress state changes.
	EventTypeCardUpdated = "disrello.card.updated"

	// EventTypeCardDeleted is emitted after a card is removed.
	EventTypeCardDeleted = "disrello.card.deleted"

	// EventTypeSummarySaved is emitted after a channel summary is stored.
	EventTypeSummarySaved = "disrello.summary.saved"
)

// Event is a transport-neutral domain event. Exactly one of Card and
// Summary is set.
type Event struct {
	SchemaVersion int             `json:"schema_version"`
	EventType     string          `json:"event_type"`
	EventID       string          `json:"event_id"`
	EmittedAt     time.Time       `json:"emitted_at"`
	GuildID       string          `json:"guild_id"`
	ChannelID     string          `json:"channel_id,omitempty"`
	ActorID       string          `json:"actor_id,omitempty"`
	Card          *CardPayload    `json:"card,omitempty"`
	Summary       *SummaryPayload `json:"summary,omitempty"`
}

// CardPayload locates a card and carries its state at emit time.
type CardPayload struct {
	BoardID   string     `json:"board_id"`
	BoardName string     `json:"board_name"`
	ListID    string     `json:"list_id"`
	ListName  string     `json:"list_name"`
	Card      model.Card `json:"card"`
}

// SummaryPayload carries a stored summary.
type SummaryPayload struct {
	Summary model.Summary `json:"summary"`
}

// Source identifies where a change happened.
type Source struct {
	GuildID   string
	ChannelID string
	ActorID   string
}

func newEvent(eventType string, src Source, now time.Time) *Event {
	return &Event{
		SchemaVersion: SchemaVersionV1,
		EventType:     eventType,
		EventID:       "evt_" + uuid.NewString(),
		EmittedAt:     now.UTC(),
		GuildID:       src.GuildID,
		ChannelID:     src.ChannelID,
		ActorID:       src.ActorID,
	}
}

// NewCardEvent snapshots ref into an event of the given card type.
func NewCardEvent(eventType string, src Source, ref model.CardRef, now time.Time) *Event {
	ev := newEvent(eventType, src, now)
	p := &CardPayload{}
	if ref.Board != nil {
		p.BoardID, p.BoardName = ref.Board.ID, ref.Board.Name
	}
	if ref.List != nil {
		p.ListID, p.ListName = ref.List.ID, ref.List.Name
	}
	if ref.Card != nil {
		p.Card = *ref.Card
	}
	ev.Card = p
	return ev
}

// NewSummaryEvent snapshots a stored summary.
func NewSummaryEvent(src Source, sum *model.Summary, now time.Time) *Event {
	ev := newEvent(EventTypeSummarySaved, src, now)
	if sum != nil {
		s := *sum
		s.Keywords = append([]string(nil), sum.Keywords...)
		ev.Summary = &SummaryPayload{Summary: s}
	}
	return ev
}
