package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"go-jobsearch-backend/internal/domain"
	"go-jobsearch-backend/internal/usecase"
	"go-jobsearch-backend/pkg/apperror"
)

func TestCalculateNextAction(t *testing.T) {
	cases := []struct {
		stage      domain.Stage
		nextAction string
		daysOut    int
	}{
		{domain.StageProspect, "Find contact and send outreach", 0},
		{domain.StageWarmLead, "Follow up if no response in 3 days", 3},
		{domain.StageApplied, "Follow up with contact; check for recruiter screen", 5},
		{domain.StageRecruiterScreen, "Send thank-you; await HM invite", 1},
		{domain.StageHMInterview, "Send thank-you; prepare for loop", 1},
		{domain.StageLoop, "Send thank-yous to all interviewers; await decision", 2},
		{domain.StageOfferPending, "Review offer; research comp benchmarks", 3},
	}
	for _, tc := range cases {
		t.Run(string(tc.stage), func(t *testing.T) {
			tr := usecase.CalculateNextAction(tc.stage)
			assert.Equal(t, tc.nextAction, tr.NextAction)
			assert.Equal(t, tc.daysOut, tr.DaysOut)
		})
	}

	t.Run("Should fall back to generic 7-day entry for unknown stages", func(t *testing.T) {
		tr := usecase.CalculateNextAction(domain.Stage("Take-Home Exercise"))
		assert.Equal(t, usecase.FallbackTransition, tr)
	})

	t.Run("Closed gets the fallback entry too", func(t *testing.T) {
		tr := usecase.CalculateNextAction(domain.StageClosed)
		assert.Equal(t, usecase.FallbackTransition, tr)
	})
}

func TestAdvanceStage(t *testing.T) {
	ctx := context.Background()

	newWorkflow := func() (*MockOpportunityRepo, *MockContactRepo, *MockActivityRepo, domain.WorkflowUsecase) {
		oppRepo := new(MockOpportunityRepo)
		contactRepo := new(MockContactRepo)
		activityRepo := new(MockActivityRepo)
		uc := usecase.NewWorkflowUsecase(oppRepo, contactRepo, activityRepo)
		return oppRepo, contactRepo, activityRepo, uc
	}

	t.Run("Should derive next action and due date from the stage table", func(t *testing.T) {
		oppRepo, _, activityRepo, uc := newWorkflow()
		oppRepo.On("GetByID", ctx, int64(1)).Return(&domain.Opportunity{ID: 1, Stage: domain.StageWarmLead}, nil)

		var captured domain.OpportunityPatch
		oppRepo.On("Update", ctx, int64(1), mock.AnythingOfType("domain.OpportunityPatch")).
			Return(nil).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).(domain.OpportunityPatch)
			})
		activityRepo.On("Append", ctx, mock.AnythingOfType("*domain.ActivityLogEntry")).Return(nil)

		err := uc.AdvanceStage(ctx, 1, domain.StageApplied, "", "")
		assert.NoError(t, err)

		assert.Equal(t, domain.StageApplied, *captured.Stage)
		assert.Equal(t, "Follow up with contact; check for recruiter screen", *captured.NextAction)
		assert.Equal(t, todayLocal().AddDate(0, 0, 5), *captured.NextActionDate)
		if assert.NotNil(t, captured.DateApplied) {
			assert.Equal(t, todayLocal(), *captured.DateApplied)
		}
		assert.Nil(t, captured.DateClosed)
	})

	t.Run("Should not restamp date_applied when already in Applied", func(t *testing.T) {
		oppRepo, _, activityRepo, uc := newWorkflow()
		applied := todayLocal().AddDate(0, 0, -10)
		oppRepo.On("GetByID", ctx, int64(2)).Return(&domain.Opportunity{
			ID: 2, Stage: domain.StageApplied, DateApplied: timePtr(applied),
		}, nil)

		var captured domain.OpportunityPatch
		oppRepo.On("Update", ctx, int64(2), mock.AnythingOfType("domain.OpportunityPatch")).
			Return(nil).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).(domain.OpportunityPatch)
			})
		activityRepo.On("Append", ctx, mock.AnythingOfType("*domain.ActivityLogEntry")).Return(nil)

		err := uc.AdvanceStage(ctx, 2, domain.StageApplied, "resubmitted", "")
		assert.NoError(t, err)
		assert.Nil(t, captured.DateApplied)
	})

	t.Run("Should stamp date_closed and close reason on Closed", func(t *testing.T) {
		oppRepo, _, activityRepo, uc := newWorkflow()
		oppRepo.On("GetByID", ctx, int64(3)).Return(&domain.Opportunity{ID: 3, Stage: domain.StageLoop}, nil)

		var captured domain.OpportunityPatch
		oppRepo.On("Update", ctx, int64(3), mock.AnythingOfType("domain.OpportunityPatch")).
			Return(nil).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).(domain.OpportunityPatch)
			})
		activityRepo.On("Append", ctx, mock.AnythingOfType("*domain.ActivityLogEntry")).Return(nil)

		err := uc.AdvanceStage(ctx, 3, domain.StageClosed, "", "rejected after loop")
		assert.NoError(t, err)
		if assert.NotNil(t, captured.DateClosed) {
			assert.Equal(t, todayLocal(), *captured.DateClosed)
		}
		assert.Equal(t, "rejected after loop", *captured.CloseReason)
		// Closed is not in the table, so the fallback action applies.
		assert.Equal(t, usecase.FallbackTransition.NextAction, *captured.NextAction)
	})

	t.Run("Should leave close_reason untouched when none is given", func(t *testing.T) {
		oppRepo, _, activityRepo, uc := newWorkflow()
		oppRepo.On("GetByID", ctx, int64(4)).Return(&domain.Opportunity{ID: 4, Stage: domain.StageProspect}, nil)

		var captured domain.OpportunityPatch
		oppRepo.On("Update", ctx, int64(4), mock.AnythingOfType("domain.OpportunityPatch")).
			Return(nil).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).(domain.OpportunityPatch)
			})
		activityRepo.On("Append", ctx, mock.AnythingOfType("*domain.ActivityLogEntry")).Return(nil)

		err := uc.AdvanceStage(ctx, 4, domain.StageClosed, "", "")
		assert.NoError(t, err)
		assert.Nil(t, captured.CloseReason)
	})

	t.Run("Should record a stage change activity entry", func(t *testing.T) {
		oppRepo, _, activityRepo, uc := newWorkflow()
		oppRepo.On("GetByID", ctx, int64(5)).Return(&domain.Opportunity{ID: 5, Stage: domain.StageProspect}, nil)
		oppRepo.On("Update", ctx, int64(5), mock.AnythingOfType("domain.OpportunityPatch")).Return(nil)

		var entry *domain.ActivityLogEntry
		activityRepo.On("Append", ctx, mock.AnythingOfType("*domain.ActivityLogEntry")).
			Return(nil).
			Run(func(args mock.Arguments) {
				entry = args.Get(1).(*domain.ActivityLogEntry)
			})

		err := uc.AdvanceStage(ctx, 5, domain.StageWarmLead, "met at meetup", "")
		assert.NoError(t, err)
		if assert.NotNil(t, entry) {
			assert.Equal(t, domain.ActivityStageChange, entry.Type)
			assert.Contains(t, entry.Description, "Prospect")
			assert.Contains(t, entry.Description, "Warm Lead")
			assert.Contains(t, entry.Description, "met at meetup")
			assert.Equal(t, "Prospect", entry.Metadata["old_stage"])
			assert.Equal(t, "Warm Lead", entry.Metadata["new_stage"])
		}
	})

	t.Run("Should return not found for a missing opportunity", func(t *testing.T) {
		oppRepo, _, _, uc := newWorkflow()
		oppRepo.On("GetByID", ctx, int64(99)).Return(nil, errors.New("no rows"))

		err := uc.AdvanceStage(ctx, 99, domain.StageApplied, "", "")
		var appErr *apperror.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, 404, appErr.Code)
		}
		oppRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFollowupQueue(t *testing.T) {
	ctx := context.Background()

	t.Run("Should query exact day-3 and day-7 dates and tag reasons", func(t *testing.T) {
		oppRepo := new(MockOpportunityRepo)
		contactRepo := new(MockContactRepo)
		activityRepo := new(MockActivityRepo)
		uc := usecase.NewWorkflowUsecase(oppRepo, contactRepo, activityRepo)

		day3 := todayLocal().AddDate(0, 0, -3)
		day7 := todayLocal().AddDate(0, 0, -7)

		contactRepo.On("FollowupCandidates", ctx, day3, day7).Return([]domain.FollowupItem{
			{ContactID: 1, FullName: "Dana", OutreachDay0: day3},
			{ContactID: 2, FullName: "Lee", OutreachDay0: day7},
		}, nil)

		items, err := uc.FollowupQueue(ctx)
		assert.NoError(t, err)
		if assert.Len(t, items, 2) {
			assert.Equal(t, "Day 3 follow-up due", items[0].Reason)
			assert.Equal(t, "Day 7 follow-up due", items[1].Reason)
		}
	})
}

func TestStaleOpportunities(t *testing.T) {
	ctx := context.Background()

	t.Run("Should default to 7 days when given a non-positive window", func(t *testing.T) {
		oppRepo := new(MockOpportunityRepo)
		uc := usecase.NewWorkflowUsecase(oppRepo, new(MockContactRepo), new(MockActivityRepo))

		cutoff := todayLocal().AddDate(0, 0, -7)
		oppRepo.On("ListStale", ctx, cutoff).Return([]domain.Opportunity{}, nil)

		_, err := uc.StaleOpportunities(ctx, 0)
		assert.NoError(t, err)
		oppRepo.AssertCalled(t, "ListStale", ctx, cutoff)
	})

	t.Run("Should use the caller's window when positive", func(t *testing.T) {
		oppRepo := new(MockOpportunityRepo)
		uc := usecase.NewWorkflowUsecase(oppRepo, new(MockContactRepo), new(MockActivityRepo))

		cutoff := todayLocal().AddDate(0, 0, -14)
		oppRepo.On("ListStale", ctx, cutoff).Return([]domain.Opportunity{{ID: 8}}, nil)

		opps, err := uc.StaleOpportunities(ctx, 14)
		assert.NoError(t, err)
		assert.Len(t, opps, 1)
	})
}

func TestMarkOutreachSent(t *testing.T) {
	ctx := context.Background()

	t.Run("First outreach on a Prospect advances it to Warm Lead", func(t *testing.T) {
		oppRepo := new(MockOpportunityRepo)
		contactRepo := new(MockContactRepo)
		activityRepo := new(MockActivityRepo)
		uc := usecase.NewWorkflowUsecase(oppRepo, contactRepo, activityRepo)

		contactRepo.On("GetByID", ctx, int64(1)).Return(&domain.Contact{
			ID: 1, OpportunityID: 10, FullName: "Dana",
		}, nil)

		var contactPatch domain.ContactPatch
		contactRepo.On("Update", ctx, int64(1), mock.AnythingOfType("domain.ContactPatch")).
			Return(nil).
			Run(func(args mock.Arguments) {
				contactPatch = args.Get(2).(domain.ContactPatch)
			})

		oppRepo.On("GetByID", ctx, int64(10)).Return(&domain.Opportunity{ID: 10, Stage: domain.StageProspect}, nil)

		var oppPatch domain.OpportunityPatch
		oppRepo.On("Update", ctx, int64(10), mock.AnythingOfType("domain.OpportunityPatch")).
			Return(nil).
			Run(func(args mock.Arguments) {
				oppPatch = args.Get(2).(domain.OpportunityPatch)
			})
		activityRepo.On("Append", ctx, mock.AnythingOfType("*domain.ActivityLogEntry")).Return(nil)

		err := uc.MarkOutreachSent(ctx, 1)
		assert.NoError(t, err)

		if assert.NotNil(t, contactPatch.OutreachDay0) {
			assert.Equal(t, todayLocal(), *contactPatch.OutreachDay0)
		}
		if assert.NotNil(t, oppPatch.Stage) {
			assert.Equal(t, domain.StageWarmLead, *oppPatch.Stage)
		}
		// One stage-change entry plus one outreach entry.
		activityRepo.AssertNumberOfCalls(t, "Append", 2)
	})

	t.Run("Repeat call leaves day0 alone and does not re-advance", func(t *testing.T) {
		oppRepo := new(MockOpportunityRepo)
		contactRepo := new(MockContactRepo)
		activityRepo := new(MockActivityRepo)
		uc := usecase.NewWorkflowUsecase(oppRepo, contactRepo, activityRepo)

		day0 := todayLocal().AddDate(0, 0, -2)
		contactRepo.On("GetByID", ctx, int64(2)).Return(&domain.Contact{
			ID: 2, OpportunityID: 11, FullName: "Lee", OutreachDay0: timePtr(day0),
		}, nil)
		activityRepo.On("Append", ctx, mock.AnythingOfType("*domain.ActivityLogEntry")).Return(nil)

		err := uc.MarkOutreachSent(ctx, 2)
		assert.NoError(t, err)

		contactRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		oppRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		// The send itself is still logged.
		activityRepo.AssertNumberOfCalls(t, "Append", 1)
	})

	t.Run("Outreach past the Prospect stage does not advance", func(t *testing.T) {
		oppRepo := new(MockOpportunityRepo)
		contactRepo := new(MockContactRepo)
		activityRepo := new(MockActivityRepo)
		uc := usecase.NewWorkflowUsecase(oppRepo, contactRepo, activityRepo)

		contactRepo.On("GetByID", ctx, int64(3)).Return(&domain.Contact{
			ID: 3, OpportunityID: 12, FullName: "Sam",
		}, nil)
		contactRepo.On("Update", ctx, int64(3), mock.AnythingOfType("domain.ContactPatch")).Return(nil)
		oppRepo.On("GetByID", ctx, int64(12)).Return(&domain.Opportunity{ID: 12, Stage: domain.StageApplied}, nil)
		activityRepo.On("Append", ctx, mock.AnythingOfType("*domain.ActivityLogEntry")).Return(nil)

		err := uc.MarkOutreachSent(ctx, 3)
		assert.NoError(t, err)
		oppRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMarkFollowup(t *testing.T) {
	ctx := context.Background()

	newWorkflow := func() (*MockContactRepo, *MockActivityRepo, domain.WorkflowUsecase) {
		contactRepo := new(MockContactRepo)
		activityRepo := new(MockActivityRepo)
		uc := usecase.NewWorkflowUsecase(new(MockOpportunityRepo), contactRepo, activityRepo)
		return contactRepo, activityRepo, uc
	}

	t.Run("Should reject a contact with no initial outreach", func(t *testing.T) {
		contactRepo, _, uc := newWorkflow()
		contactRepo.On("GetByID", ctx, int64(1)).Return(&domain.Contact{ID: 1, OpportunityID: 10}, nil)

		err := uc.MarkFollowup(ctx, 1)
		var appErr *apperror.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, 400, appErr.Code)
		}
		contactRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should fill the day-3 slot inside the first window", func(t *testing.T) {
		contactRepo, activityRepo, uc := newWorkflow()
		day0 := todayLocal().AddDate(0, 0, -3)
		contactRepo.On("GetByID", ctx, int64(2)).Return(&domain.Contact{
			ID: 2, OpportunityID: 10, FullName: "Dana", OutreachDay0: timePtr(day0),
		}, nil)

		var patch domain.ContactPatch
		contactRepo.On("Update", ctx, int64(2), mock.AnythingOfType("domain.ContactPatch")).
			Return(nil).
			Run(func(args mock.Arguments) {
				patch = args.Get(2).(domain.ContactPatch)
			})
		activityRepo.On("Append", ctx, mock.AnythingOfType("*domain.ActivityLogEntry")).Return(nil)

		err := uc.MarkFollowup(ctx, 2)
		assert.NoError(t, err)
		assert.NotNil(t, patch.OutreachDay3)
		assert.Nil(t, patch.OutreachDay7)
	})

	t.Run("Should fill the day-7 slot from six days out", func(t *testing.T) {
		contactRepo, activityRepo, uc := newWorkflow()
		day0 := todayLocal().AddDate(0, 0, -6)
		contactRepo.On("GetByID", ctx, int64(3)).Return(&domain.Contact{
			ID: 3, OpportunityID: 10, FullName: "Lee", OutreachDay0: timePtr(day0),
		}, nil)

		var patch domain.ContactPatch
		contactRepo.On("Update", ctx, int64(3), mock.AnythingOfType("domain.ContactPatch")).
			Return(nil).
			Run(func(args mock.Arguments) {
				patch = args.Get(2).(domain.ContactPatch)
			})
		activityRepo.On("Append", ctx, mock.AnythingOfType("*domain.ActivityLogEntry")).Return(nil)

		err := uc.MarkFollowup(ctx, 3)
		assert.NoError(t, err)
		assert.Nil(t, patch.OutreachDay3)
		assert.NotNil(t, patch.OutreachDay7)
	})

	t.Run("Should refuse to overwrite an already-set slot", func(t *testing.T) {
		contactRepo, _, uc := newWorkflow()
		day0 := todayLocal().AddDate(0, 0, -8)
		day7 := todayLocal().AddDate(0, 0, -1)
		contactRepo.On("GetByID", ctx, int64(4)).Return(&domain.Contact{
			ID: 4, OpportunityID: 10, OutreachDay0: timePtr(day0), OutreachDay7: timePtr(day7),
		}, nil)

		err := uc.MarkFollowup(ctx, 4)
		var appErr *apperror.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, 400, appErr.Code)
		}
		contactRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMarkResponse(t *testing.T) {
	ctx := context.Background()

	t.Run("Should update the status and log the response", func(t *testing.T) {
		contactRepo := new(MockContactRepo)
		activityRepo := new(MockActivityRepo)
		uc := usecase.NewWorkflowUsecase(new(MockOpportunityRepo), contactRepo, activityRepo)

		contactRepo.On("GetByID", ctx, int64(1)).Return(&domain.Contact{
			ID: 1, OpportunityID: 10, FullName: "Dana",
		}, nil)

		var patch domain.ContactPatch
		contactRepo.On("Update", ctx, int64(1), mock.AnythingOfType("domain.ContactPatch")).
			Return(nil).
			Run(func(args mock.Arguments) {
				patch = args.Get(2).(domain.ContactPatch)
			})

		var entry *domain.ActivityLogEntry
		activityRepo.On("Append", ctx, mock.AnythingOfType("*domain.ActivityLogEntry")).
			Return(nil).
			Run(func(args mock.Arguments) {
				entry = args.Get(1).(*domain.ActivityLogEntry)
			})

		err := uc.MarkResponse(ctx, 1, domain.ResponseMeetingScheduled)
		assert.NoError(t, err)
		assert.Equal(t, domain.ResponseMeetingScheduled, *patch.ResponseStatus)
		if assert.NotNil(t, entry) {
			assert.Equal(t, domain.ActivityResponseReceived, entry.Type)
		}
	})
}
