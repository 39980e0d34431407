package domain

import "context"

// WorkflowUsecase is the stage transition engine plus the follow-up and
// staleness scheduler. It is the only writer of stage-derived fields
// (next_action, next_action_date, date_applied, date_closed).
type WorkflowUsecase interface {
	AdvanceStage(ctx context.Context, opportunityID int64, newStage Stage, note, closeReason string) error
	FollowupQueue(ctx context.Context) ([]FollowupItem, error)
	StaleOpportunities(ctx context.Context, daysStale int) ([]Opportunity, error)
	MarkOutreachSent(ctx context.Context, contactID int64) error
	MarkFollowup(ctx context.Context, contactID int64) error
	MarkResponse(ctx context.Context, contactID int64, status ResponseStatus) error
	TodayQueue(ctx context.Context) ([]TodayQueueRow, error)
	PipelineSummary(ctx context.Context) ([]StageCount, error)
}
