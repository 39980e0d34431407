package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-jobsearch-backend/internal/domain"
)

// activityRepo is append-and-read only. The activity log has no update or
// delete path anywhere in the codebase.
type activityRepo struct {
	db *pgxpool.Pool
}

// NewActivityRepository creates a new activity log repository
func NewActivityRepository(db *pgxpool.Pool) domain.ActivityRepository {
	return &activityRepo{db: db}
}

// Append inserts an immutable activity log entry
func (r *activityRepo) Append(ctx context.Context, entry *domain.ActivityLogEntry) error {
	var metadata []byte
	if entry.Metadata != nil {
		b, err := json.Marshal(entry.Metadata)
		if err != nil {
			return err
		}
		metadata = b
	}

	query := `
		INSERT INTO activity_log (activity_type, description, opportunity_id, contact_id, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		entry.Type,
		entry.Description,
		entry.OpportunityID,
		entry.ContactID,
		metadata,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func scanActivity(rows pgx.Rows) ([]domain.ActivityLogEntry, error) {
	defer rows.Close()
	var entries []domain.ActivityLogEntry
	for rows.Next() {
		var entry domain.ActivityLogEntry
		var metadata []byte
		if err := rows.Scan(
			&entry.ID, &entry.Type, &entry.Description,
			&entry.OpportunityID, &entry.ContactID, &metadata, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, err
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ListRecent retrieves the latest entries, newest first
func (r *activityRepo) ListRecent(ctx context.Context, limit int) ([]domain.ActivityLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, activity_type, description, opportunity_id, contact_id, metadata, created_at
		FROM activity_log
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return scanActivity(rows)
}

// ListByOpportunity retrieves all entries for one opportunity, newest first
func (r *activityRepo) ListByOpportunity(ctx context.Context, opportunityID int64) ([]domain.ActivityLogEntry, error) {
	query := `
		SELECT id, activity_type, description, opportunity_id, contact_id, metadata, created_at
		FROM activity_log
		WHERE opportunity_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, opportunityID)
	if err != nil {
		return nil, err
	}
	return scanActivity(rows)
}
