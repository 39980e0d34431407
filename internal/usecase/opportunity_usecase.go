package usecase

import (
	"context"
	"fmt"
	"strings"

	"go-jobsearch-backend/internal/domain"
	"go-jobsearch-backend/pkg/apperror"
)

type opportunityUsecase struct {
	oppRepo      domain.OpportunityRepository
	activityRepo domain.ActivityRepository
}

// NewOpportunityUsecase creates the intake/read-side usecase. Intake accepts
// upstream fields as-is beyond the required company and role title.
func NewOpportunityUsecase(
	oppRepo domain.OpportunityRepository,
	activityRepo domain.ActivityRepository,
) domain.OpportunityUsecase {
	return &opportunityUsecase{
		oppRepo:      oppRepo,
		activityRepo: activityRepo,
	}
}

// Create inserts a new opportunity. New leads start in Prospect with the
// stage table's initial next action unless the caller supplied a stage.
func (uc *opportunityUsecase) Create(ctx context.Context, opp *domain.Opportunity) error {
	if strings.TrimSpace(opp.Company) == "" || strings.TrimSpace(opp.RoleTitle) == "" {
		return apperror.BadRequest("company and role_title are required")
	}
	if opp.Stage == "" {
		opp.Stage = domain.StageProspect
	}
	if opp.NextAction == nil {
		transition := CalculateNextAction(opp.Stage)
		nextActionDate := today().AddDate(0, 0, transition.DaysOut)
		opp.NextAction = &transition.NextAction
		opp.NextActionDate = &nextActionDate
	}

	if err := uc.oppRepo.Create(ctx, opp); err != nil {
		return apperror.Internal(err)
	}

	entry := &domain.ActivityLogEntry{
		Type:          domain.ActivityNoteAdded,
		Description:   fmt.Sprintf("Opportunity added: %s — %s", opp.Company, opp.RoleTitle),
		OpportunityID: &opp.ID,
	}
	if err := uc.activityRepo.Append(ctx, entry); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *opportunityUsecase) GetByID(ctx context.Context, id int64) (*domain.Opportunity, error) {
	opp, err := uc.oppRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound(fmt.Sprintf("Opportunity %d not found", id))
	}
	return opp, nil
}

func (uc *opportunityUsecase) List(ctx context.Context, filter domain.OpportunityFilter) ([]domain.Opportunity, error) {
	opps, err := uc.oppRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return opps, nil
}

// Search matches company, role title and notes, case-insensitively.
func (uc *opportunityUsecase) Search(ctx context.Context, query string) ([]domain.Opportunity, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.BadRequest("search query is required")
	}
	opps, err := uc.oppRepo.Search(ctx, query)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return opps, nil
}

// AddNote appends a dated line to the opportunity's free-form notes and
// records a Note Added activity.
func (uc *opportunityUsecase) AddNote(ctx context.Context, id int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return apperror.BadRequest("note text is required")
	}

	opp, err := uc.oppRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.NotFound(fmt.Sprintf("Opportunity %d not found", id))
	}

	existing := ""
	if opp.Notes != nil {
		existing = *opp.Notes
	}
	updated := strings.TrimSpace(fmt.Sprintf("%s\n[%s] %s", existing, today().Format("2006-01-02"), text))

	if err := uc.oppRepo.Update(ctx, id, domain.OpportunityPatch{Notes: &updated}); err != nil {
		return apperror.Internal(err)
	}

	entry := &domain.ActivityLogEntry{
		Type:          domain.ActivityNoteAdded,
		Description:   text,
		OpportunityID: &id,
	}
	if err := uc.activityRepo.Append(ctx, entry); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *opportunityUsecase) Activity(ctx context.Context, id int64) ([]domain.ActivityLogEntry, error) {
	entries, err := uc.activityRepo.ListByOpportunity(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return entries, nil
}
