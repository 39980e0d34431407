package usecase

import (
	"context"
	"fmt"
	"time"

	"go-jobsearch-backend/internal/domain"
	"go-jobsearch-backend/pkg/apperror"
	"go-jobsearch-backend/pkg/logger"
)

// Transition holds the canonical next action for a stage and how many days
// out it falls due.
type Transition struct {
	NextAction string
	DaysOut    int
}

// StageTransitions maps each non-terminal stage to its next action. Stages
// not in the table get FallbackTransition; any string is accepted.
var StageTransitions = map[domain.Stage]Transition{
	domain.StageProspect:        {"Find contact and send outreach", 0},
	domain.StageWarmLead:        {"Follow up if no response in 3 days", 3},
	domain.StageApplied:         {"Follow up with contact; check for recruiter screen", 5},
	domain.StageRecruiterScreen: {"Send thank-you; await HM invite", 1},
	domain.StageHMInterview:     {"Send thank-you; prepare for loop", 1},
	domain.StageLoop:            {"Send thank-yous to all interviewers; await decision", 2},
	domain.StageOfferPending:    {"Review offer; research comp benchmarks", 3},
}

// FallbackTransition is the generic entry for unknown stages.
var FallbackTransition = Transition{"Review and set next step", 7}

// CalculateNextAction returns the transition entry for a stage, falling back
// to the generic 7-day prompt for stages not in the table.
func CalculateNextAction(stage domain.Stage) Transition {
	if t, ok := StageTransitions[stage]; ok {
		return t
	}
	return FallbackTransition
}

const (
	day3FollowupReason = "Day 3 follow-up due"
	day7FollowupReason = "Day 7 follow-up due"
)

type workflowUsecase struct {
	oppRepo      domain.OpportunityRepository
	contactRepo  domain.ContactRepository
	activityRepo domain.ActivityRepository
}

// NewWorkflowUsecase creates the stage transition engine and scheduler.
func NewWorkflowUsecase(
	oppRepo domain.OpportunityRepository,
	contactRepo domain.ContactRepository,
	activityRepo domain.ActivityRepository,
) domain.WorkflowUsecase {
	return &workflowUsecase{
		oppRepo:      oppRepo,
		contactRepo:  contactRepo,
		activityRepo: activityRepo,
	}
}

// today truncates the current time to day precision.
func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// AdvanceStage moves an opportunity to a new stage and recomputes every
// stage-derived field. No transition is rejected as illegal.
func (uc *workflowUsecase) AdvanceStage(ctx context.Context, opportunityID int64, newStage domain.Stage, note, closeReason string) error {
	opp, err := uc.oppRepo.GetByID(ctx, opportunityID)
	if err != nil {
		return apperror.NotFound(fmt.Sprintf("Opportunity %d not found", opportunityID))
	}

	oldStage := opp.Stage
	transition := CalculateNextAction(newStage)
	now := today()
	nextActionDate := now.AddDate(0, 0, transition.DaysOut)

	patch := domain.OpportunityPatch{
		Stage:          &newStage,
		NextAction:     &transition.NextAction,
		NextActionDate: &nextActionDate,
	}
	if newStage == domain.StageClosed {
		patch.DateClosed = &now
		if closeReason != "" {
			patch.CloseReason = &closeReason
		}
	}
	// date_applied is stamped exactly once: re-advancing to Applied must not
	// reset it.
	if newStage == domain.StageApplied && oldStage != domain.StageApplied {
		patch.DateApplied = &now
	}

	if err := uc.oppRepo.Update(ctx, opportunityID, patch); err != nil {
		logger.Log.Error("Failed to advance stage", "opportunity_id", opportunityID, "error", err)
		return apperror.Internal(err)
	}

	description := fmt.Sprintf("Stage changed: %s → %s", oldStage, newStage)
	if note != "" {
		description += fmt.Sprintf(" | Note: %s", note)
	}
	entry := &domain.ActivityLogEntry{
		Type:          domain.ActivityStageChange,
		Description:   description,
		OpportunityID: &opportunityID,
		Metadata: map[string]any{
			"old_stage":        string(oldStage),
			"new_stage":        string(newStage),
			"next_action_date": nextActionDate.Format("2006-01-02"),
		},
	}
	if err := uc.activityRepo.Append(ctx, entry); err != nil {
		return apperror.Internal(err)
	}

	logger.Log.Info("Stage advanced",
		"opportunity_id", opportunityID,
		"old_stage", oldStage,
		"new_stage", newStage,
		"next_action_in_days", transition.DaysOut,
	)
	return nil
}

// FollowupQueue returns pending contacts whose first outreach was exactly 3
// or exactly 7 days ago. This is a point-in-time check, not a range: a
// contact at day 4 or day 8 is skipped. Known edge case, kept on purpose.
func (uc *workflowUsecase) FollowupQueue(ctx context.Context) ([]domain.FollowupItem, error) {
	now := today()
	day3 := now.AddDate(0, 0, -3)
	day7 := now.AddDate(0, 0, -7)

	items, err := uc.contactRepo.FollowupCandidates(ctx, day3, day7)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	for i := range items {
		if sameDay(items[i].OutreachDay0, day7) {
			items[i].Reason = day7FollowupReason
		} else {
			items[i].Reason = day3FollowupReason
		}
	}
	return items, nil
}

// StaleOpportunities returns open opportunities with no update in daysStale
// days, oldest-updated first.
func (uc *workflowUsecase) StaleOpportunities(ctx context.Context, daysStale int) ([]domain.Opportunity, error) {
	if daysStale <= 0 {
		daysStale = 7
	}
	cutoff := today().AddDate(0, 0, -daysStale)
	opps, err := uc.oppRepo.ListStale(ctx, cutoff)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return opps, nil
}

// MarkOutreachSent records the day-0 outreach on a contact. The first
// outreach on a Prospect-stage opportunity advances it to Warm Lead; the
// call is otherwise idempotent for the date slot.
func (uc *workflowUsecase) MarkOutreachSent(ctx context.Context, contactID int64) error {
	contact, err := uc.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		return apperror.NotFound(fmt.Sprintf("Contact %d not found", contactID))
	}

	if contact.OutreachDay0 == nil {
		now := today()
		if err := uc.contactRepo.Update(ctx, contactID, domain.ContactPatch{OutreachDay0: &now}); err != nil {
			return apperror.Internal(err)
		}
		// Outreach is the signal that a Prospect becomes a Warm Lead.
		opp, err := uc.oppRepo.GetByID(ctx, contact.OpportunityID)
		if err == nil && opp.Stage == domain.StageProspect {
			if err := uc.AdvanceStage(ctx, contact.OpportunityID, domain.StageWarmLead, "Outreach sent", ""); err != nil {
				return err
			}
		}
	}

	entry := &domain.ActivityLogEntry{
		Type:          domain.ActivityOutreachSent,
		Description:   fmt.Sprintf("Outreach marked as sent to %s", contact.FullName),
		OpportunityID: &contact.OpportunityID,
		ContactID:     &contactID,
	}
	if err := uc.activityRepo.Append(ctx, entry); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// MarkFollowup fills the day-3 or day-7 cadence slot depending on how long
// ago the first outreach went out. A slot is set at most once.
func (uc *workflowUsecase) MarkFollowup(ctx context.Context, contactID int64) error {
	contact, err := uc.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		return apperror.NotFound(fmt.Sprintf("Contact %d not found", contactID))
	}
	if contact.OutreachDay0 == nil {
		return apperror.BadRequest("Contact has no initial outreach recorded")
	}

	now := today()
	daysSince := int(now.Sub(dayOf(*contact.OutreachDay0)).Hours() / 24)

	var patch domain.ContactPatch
	var desc string
	if daysSince >= 6 {
		if contact.OutreachDay7 != nil {
			return apperror.BadRequest("Day 7 follow-up already recorded")
		}
		patch.OutreachDay7 = &now
		desc = fmt.Sprintf("Day 7 follow-up sent to %s", contact.FullName)
	} else {
		if contact.OutreachDay3 != nil {
			return apperror.BadRequest("Day 3 follow-up already recorded")
		}
		patch.OutreachDay3 = &now
		desc = fmt.Sprintf("Day 3 follow-up sent to %s", contact.FullName)
	}

	if err := uc.contactRepo.Update(ctx, contactID, patch); err != nil {
		return apperror.Internal(err)
	}

	entry := &domain.ActivityLogEntry{
		Type:          domain.ActivityFollowupSent,
		Description:   desc,
		OpportunityID: &contact.OpportunityID,
		ContactID:     &contactID,
	}
	if err := uc.activityRepo.Append(ctx, entry); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// MarkResponse updates a contact's response status.
func (uc *workflowUsecase) MarkResponse(ctx context.Context, contactID int64, status domain.ResponseStatus) error {
	contact, err := uc.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		return apperror.NotFound(fmt.Sprintf("Contact %d not found", contactID))
	}

	if err := uc.contactRepo.Update(ctx, contactID, domain.ContactPatch{ResponseStatus: &status}); err != nil {
		return apperror.Internal(err)
	}

	entry := &domain.ActivityLogEntry{
		Type:          domain.ActivityResponseReceived,
		Description:   fmt.Sprintf("Response status for %s: %s", contact.FullName, status),
		OpportunityID: &contact.OpportunityID,
		ContactID:     &contactID,
	}
	if err := uc.activityRepo.Append(ctx, entry); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *workflowUsecase) TodayQueue(ctx context.Context) ([]domain.TodayQueueRow, error) {
	rows, err := uc.oppRepo.TodayQueue(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return rows, nil
}

func (uc *workflowUsecase) PipelineSummary(ctx context.Context) ([]domain.StageCount, error) {
	rows, err := uc.oppRepo.PipelineSummary(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return rows, nil
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
