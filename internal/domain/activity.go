package domain

import (
	"context"
	"time"
)

type ActivityType string

const (
	ActivityStageChange      ActivityType = "Stage Change"
	ActivityOutreachSent     ActivityType = "Outreach Sent"
	ActivityFollowupSent     ActivityType = "Follow-Up Sent"
	ActivityResponseReceived ActivityType = "Response Received"
	ActivityNoteAdded        ActivityType = "Note Added"
	ActivityAIAction         ActivityType = "AI Action"
)

// ActivityLogEntry is an immutable audit record. The log is append-only:
// no update or delete exists anywhere in the domain.
type ActivityLogEntry struct {
	ID            int64          `json:"id"`
	Type          ActivityType   `json:"activity_type"`
	Description   string         `json:"description"`
	OpportunityID *int64         `json:"opportunity_id,omitempty"`
	ContactID     *int64         `json:"contact_id,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

type ActivityRepository interface {
	Append(ctx context.Context, entry *ActivityLogEntry) error
	ListRecent(ctx context.Context, limit int) ([]ActivityLogEntry, error)
	ListByOpportunity(ctx context.Context, opportunityID int64) ([]ActivityLogEntry, error)
}

type ActivityUsecase interface {
	Recent(ctx context.Context, limit int) ([]ActivityLogEntry, error)
}
