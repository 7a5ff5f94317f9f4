package models

import "time"

// Lending event types.
const (
	EventUserCreated  = "USER_CREATED"
	EventUserDeleted  = "USER_DELETED"
	EventItemCreated  = "ITEM_CREATED"
	EventItemDeleted  = "ITEM_DELETED"
	EventItemsCleared = "ITEMS_CLEARED"
	EventLoan         = "LOAN"
	EventReturn       = "RETURN"
)

// LendingEvent is a single activity log entry.
type LendingEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // USER_CREATED | ITEM_CREATED | LOAN | RETURN | ...
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
