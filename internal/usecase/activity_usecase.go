package usecase

import (
	"context"

	"go-jobsearch-backend/internal/domain"
	"go-jobsearch-backend/pkg/apperror"
)

const maxActivityLimit = 500

type activityUsecase struct {
	activityRepo domain.ActivityRepository
}

func NewActivityUsecase(activityRepo domain.ActivityRepository) domain.ActivityUsecase {
	return &activityUsecase{activityRepo: activityRepo}
}

func (uc *activityUsecase) Recent(ctx context.Context, limit int) ([]domain.ActivityLogEntry, error) {
	if limit > maxActivityLimit {
		return nil, apperror.BadRequest("Limit cannot exceed 500")
	}
	entries, err := uc.activityRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return entries, nil
}
