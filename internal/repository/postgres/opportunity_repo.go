package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"go-jobsearch-backend/internal/domain"
)

type opportunityRepo struct {
	db *pgxpool.Pool
}

// NewOpportunityRepository creates a new opportunity repository
func NewOpportunityRepository(db *pgxpool.Pool) domain.OpportunityRepository {
	return &opportunityRepo{db: db}
}

const opportunityColumns = `
	id, company, role_title, job_family, tier, stage, source,
	date_added, date_applied, date_closed, close_reason, fit_score,
	salary_range, jd_url, jd_raw, jd_keywords, resume_version,
	next_action, next_action_date, notes, ai_fit_summary,
	tailored_resume, cover_letter, created_at, updated_at`

func scanOpportunity(row pgx.Row) (*domain.Opportunity, error) {
	var opp domain.Opportunity
	err := row.Scan(
		&opp.ID, &opp.Company, &opp.RoleTitle, &opp.JobFamily, &opp.Tier,
		&opp.Stage, &opp.Source,
		&opp.DateAdded, &opp.DateApplied, &opp.DateClosed, &opp.CloseReason,
		&opp.FitScore, &opp.SalaryRange, &opp.JDURL, &opp.JDRaw,
		pq.Array(&opp.JDKeywords), &opp.ResumeVersion,
		&opp.NextAction, &opp.NextActionDate, &opp.Notes, &opp.AIFitSummary,
		&opp.TailoredResume, &opp.CoverLetter, &opp.CreatedAt, &opp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &opp, nil
}

func collectOpportunities(rows pgx.Rows) ([]domain.Opportunity, error) {
	defer rows.Close()
	var opps []domain.Opportunity
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		opps = append(opps, *opp)
	}
	return opps, rows.Err()
}

// Create inserts a new opportunity
func (r *opportunityRepo) Create(ctx context.Context, opp *domain.Opportunity) error {
	query := `
		INSERT INTO opportunities
			(company, role_title, job_family, tier, stage, source, salary_range,
			 jd_url, jd_raw, jd_keywords, resume_version, next_action, next_action_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, date_added, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		opp.Company,
		opp.RoleTitle,
		opp.JobFamily,
		opp.Tier,
		opp.Stage,
		opp.Source,
		opp.SalaryRange,
		opp.JDURL,
		opp.JDRaw,
		pq.Array(opp.JDKeywords),
		opp.ResumeVersion,
		opp.NextAction,
		opp.NextActionDate,
		opp.Notes,
	).Scan(&opp.ID, &opp.DateAdded, &opp.CreatedAt, &opp.UpdatedAt)
}

// GetByID retrieves an opportunity by ID
func (r *opportunityRepo) GetByID(ctx context.Context, id int64) (*domain.Opportunity, error) {
	query := `SELECT` + opportunityColumns + ` FROM opportunities WHERE id = $1`
	opp, err := scanOpportunity(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return opp, err
}

// List retrieves opportunities matching the filter, tier first then newest
func (r *opportunityRepo) List(ctx context.Context, filter domain.OpportunityFilter) ([]domain.Opportunity, error) {
	var conditions []string
	var args []any

	if filter.Stage != nil {
		args = append(args, *filter.Stage)
		conditions = append(conditions, fmt.Sprintf("stage = $%d", len(args)))
	}
	if filter.Tier != nil {
		args = append(args, *filter.Tier)
		conditions = append(conditions, fmt.Sprintf("tier = $%d", len(args)))
	}
	if filter.JobFamily != nil {
		args = append(args, *filter.JobFamily)
		conditions = append(conditions, fmt.Sprintf("job_family = $%d", len(args)))
	}
	if filter.ExcludeClosed {
		conditions = append(conditions, "stage != 'Closed'")
	}

	query := `SELECT` + opportunityColumns + ` FROM opportunities`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY tier ASC NULLS LAST, date_added DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectOpportunities(rows)
}

// Search matches company, role_title and notes case-insensitively
func (r *opportunityRepo) Search(ctx context.Context, query string) ([]domain.Opportunity, error) {
	like := "%" + query + "%"
	sql := `SELECT` + opportunityColumns + `
		FROM opportunities
		WHERE company ILIKE $1 OR role_title ILIKE $1 OR notes ILIKE $1
		ORDER BY date_added DESC`

	rows, err := r.db.Query(ctx, sql, like)
	if err != nil {
		return nil, err
	}
	return collectOpportunities(rows)
}

// Update applies a partial update. Only fields named in the patch struct can
// reach a column; updated_at always advances.
func (r *opportunityRepo) Update(ctx context.Context, id int64, patch domain.OpportunityPatch) error {
	var sets []string
	var args []any
	set := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Stage != nil {
		set("stage", *patch.Stage)
	}
	if patch.NextAction != nil {
		set("next_action", *patch.NextAction)
	}
	if patch.NextActionDate != nil {
		set("next_action_date", *patch.NextActionDate)
	}
	if patch.DateApplied != nil {
		set("date_applied", *patch.DateApplied)
	}
	if patch.DateClosed != nil {
		set("date_closed", *patch.DateClosed)
	}
	if patch.CloseReason != nil {
		set("close_reason", *patch.CloseReason)
	}
	if patch.FitScore != nil {
		set("fit_score", *patch.FitScore)
	}
	if patch.AIFitSummary != nil {
		set("ai_fit_summary", *patch.AIFitSummary)
	}
	if patch.TailoredResume != nil {
		set("tailored_resume", *patch.TailoredResume)
	}
	if patch.CoverLetter != nil {
		set("cover_letter", *patch.CoverLetter)
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}
	if patch.ResumeVersion != nil {
		set("resume_version", *patch.ResumeVersion)
	}

	if len(sets) == 0 {
		return nil
	}
	set("updated_at", time.Now())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE opportunities SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListUnscored retrieves opportunities with no fit score and JD text present
func (r *opportunityRepo) ListUnscored(ctx context.Context) ([]domain.Opportunity, error) {
	query := `SELECT` + opportunityColumns + `
		FROM opportunities
		WHERE fit_score IS NULL AND jd_raw IS NOT NULL AND jd_raw != ''
		ORDER BY date_added DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectOpportunities(rows)
}

// ListStale retrieves open opportunities untouched since the cutoff,
// oldest-updated first
func (r *opportunityRepo) ListStale(ctx context.Context, cutoff time.Time) ([]domain.Opportunity, error) {
	query := `SELECT` + opportunityColumns + `
		FROM opportunities
		WHERE stage != 'Closed' AND updated_at < $1
		ORDER BY updated_at ASC`

	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	return collectOpportunities(rows)
}

// TodayQueue reads the precomputed today_queue view
func (r *opportunityRepo) TodayQueue(ctx context.Context) ([]domain.TodayQueueRow, error) {
	query := `
		SELECT opportunity_id, company, role_title, stage, tier, next_action, next_action_date
		FROM today_queue
		ORDER BY next_action_date ASC, tier ASC NULLS LAST`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var queue []domain.TodayQueueRow
	for rows.Next() {
		var row domain.TodayQueueRow
		if err := rows.Scan(
			&row.OpportunityID, &row.Company, &row.RoleTitle, &row.Stage,
			&row.Tier, &row.NextAction, &row.NextActionDate,
		); err != nil {
			return nil, err
		}
		queue = append(queue, row)
	}
	return queue, rows.Err()
}

// PipelineSummary reads the precomputed pipeline_summary view
func (r *opportunityRepo) PipelineSummary(ctx context.Context) ([]domain.StageCount, error) {
	query := `SELECT stage, count FROM pipeline_summary ORDER BY count DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summary []domain.StageCount
	for rows.Next() {
		var row domain.StageCount
		if err := rows.Scan(&row.Stage, &row.Count); err != nil {
			return nil, err
		}
		summary = append(summary, row)
	}
	return summary, rows.Err()
}
