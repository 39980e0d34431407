package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"go-jobsearch-backend/internal/domain"
	"go-jobsearch-backend/internal/usecase"
	"go-jobsearch-backend/pkg/apperror"
)

func TestOpportunityCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Should require company and role title", func(t *testing.T) {
		oppRepo := new(MockOpportunityRepo)
		uc := usecase.NewOpportunityUsecase(oppRepo, new(MockActivityRepo))

		err := uc.Create(ctx, &domain.Opportunity{Company: "Acme"})
		var appErr *apperror.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, 400, appErr.Code)
		}
		oppRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("New leads default to Prospect with a same-day next action", func(t *testing.T) {
		oppRepo := new(MockOpportunityRepo)
		activityRepo := new(MockActivityRepo)
		uc := usecase.NewOpportunityUsecase(oppRepo, activityRepo)

		oppRepo.On("Create", ctx, mock.AnythingOfType("*domain.Opportunity")).Return(nil)
		activityRepo.On("Append", ctx, mock.AnythingOfType("*domain.ActivityLogEntry")).Return(nil)

		opp := &domain.Opportunity{Company: "Acme", RoleTitle: "Analytics Manager"}
		err := uc.Create(ctx, opp)
		assert.NoError(t, err)

		assert.Equal(t, domain.StageProspect, opp.Stage)
		assert.Equal(t, "Find contact and send outreach", *opp.NextAction)
		assert.Equal(t, todayLocal(), *opp.NextActionDate)
	})

	t.Run("A caller-supplied stage seeds its own next action", func(t *testing.T) {
		oppRepo := new(MockOpportunityRepo)
		activityRepo := new(MockActivityRepo)
		uc := usecase.NewOpportunityUsecase(oppRepo, activityRepo)

		oppRepo.On("Create", ctx, mock.AnythingOfType("*domain.Opportunity")).Return(nil)
		activityRepo.On("Append", ctx, mock.AnythingOfType("*domain.ActivityLogEntry")).Return(nil)

		opp := &domain.Opportunity{Company: "Acme", RoleTitle: "Data Manager", Stage: domain.StageApplied}
		err := uc.Create(ctx, opp)
		assert.NoError(t, err)
		assert.Equal(t, todayLocal().AddDate(0, 0, 5), *opp.NextActionDate)
	})
}

func TestOpportunitySearch(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject a blank query", func(t *testing.T) {
		oppRepo := new(MockOpportunityRepo)
		uc := usecase.NewOpportunityUsecase(oppRepo, new(MockActivityRepo))

		_, err := uc.Search(ctx, "   ")
		assert.Error(t, err)
		oppRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("Should trim the query before searching", func(t *testing.T) {
		oppRepo := new(MockOpportunityRepo)
		uc := usecase.NewOpportunityUsecase(oppRepo, new(MockActivityRepo))

		oppRepo.On("Search", ctx, "acme").Return([]domain.Opportunity{{ID: 1}}, nil)

		opps, err := uc.Search(ctx, "  acme  ")
		assert.NoError(t, err)
		assert.Len(t, opps, 1)
	})
}

func TestAddNote(t *testing.T) {
	ctx := context.Background()

	t.Run("Should append a dated line to existing notes", func(t *testing.T) {
		oppRepo := new(MockOpportunityRepo)
		activityRepo := new(MockActivityRepo)
		uc := usecase.NewOpportunityUsecase(oppRepo, activityRepo)

		oppRepo.On("GetByID", ctx, int64(1)).Return(&domain.Opportunity{
			ID: 1, Notes: strPtr("[2026-08-01] first touch"),
		}, nil)

		var patch domain.OpportunityPatch
		oppRepo.On("Update", ctx, int64(1), mock.AnythingOfType("domain.OpportunityPatch")).
			Return(nil).
			Run(func(args mock.Arguments) {
				patch = args.Get(2).(domain.OpportunityPatch)
			})
		activityRepo.On("Append", ctx, mock.AnythingOfType("*domain.ActivityLogEntry")).Return(nil)

		err := uc.AddNote(ctx, 1, "spoke with recruiter")
		assert.NoError(t, err)

		if assert.NotNil(t, patch.Notes) {
			assert.Contains(t, *patch.Notes, "[2026-08-01] first touch")
			assert.Contains(t, *patch.Notes, time.Now().Format("2006-01-02"))
			assert.Contains(t, *patch.Notes, "spoke with recruiter")
		}
	})

	t.Run("Should reject empty note text", func(t *testing.T) {
		oppRepo := new(MockOpportunityRepo)
		uc := usecase.NewOpportunityUsecase(oppRepo, new(MockActivityRepo))

		err := uc.AddNote(ctx, 1, "  ")
		assert.Error(t, err)
		oppRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}
