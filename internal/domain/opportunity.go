package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

// Stage is an opportunity's lifecycle phase. The named constants cover the
// canonical pipeline, but any string is a legal stage: unknown values fall
// through to the generic next-action entry instead of being rejected, and
// validation of allowed names belongs to the calling layer.
type Stage string

const (
	StageProspect        Stage = "Prospect"
	StageWarmLead        Stage = "Warm Lead"
	StageApplied         Stage = "Applied"
	StageRecruiterScreen Stage = "Recruiter Screen"
	StageHMInterview     Stage = "HM Interview"
	StageLoop            Stage = "Loop"
	StageOfferPending    Stage = "Offer Pending"
	StageClosed          Stage = "Closed"
)

// Opportunity is a tracked job lead. Date fields carry day precision;
// next_action and next_action_date are derived from the stage and must only
// be written by the workflow engine.
type Opportunity struct {
	ID             int64      `json:"id"`
	Company        string     `json:"company"`
	RoleTitle      string     `json:"role_title"`
	JobFamily      *string    `json:"job_family,omitempty"`
	Tier           *int       `json:"tier,omitempty"` // priority 1-3
	Stage          Stage      `json:"stage"`
	Source         *string    `json:"source,omitempty"`
	DateAdded      *time.Time `json:"date_added,omitempty"`
	DateApplied    *time.Time `json:"date_applied,omitempty"`
	DateClosed     *time.Time `json:"date_closed,omitempty"`
	CloseReason    *string    `json:"close_reason,omitempty"`
	FitScore       *int       `json:"fit_score,omitempty"` // 1-10, nil until scored
	SalaryRange    *string    `json:"salary_range,omitempty"`
	JDURL          *string    `json:"jd_url,omitempty"`
	JDRaw          *string    `json:"jd_raw,omitempty"`
	JDKeywords     []string   `json:"jd_keywords,omitempty"`
	ResumeVersion  *string    `json:"resume_version,omitempty"`
	NextAction     *string    `json:"next_action,omitempty"`
	NextActionDate *time.Time `json:"next_action_date,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	AIFitSummary   *string    `json:"ai_fit_summary,omitempty"` // JSON blob from fit scoring
	TailoredResume *string    `json:"tailored_resume,omitempty"`
	CoverLetter    *string    `json:"cover_letter,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// OpportunityPatch is an explicit partial update. Only fields the repository
// knows about can ever reach a column; nil fields are left untouched.
type OpportunityPatch struct {
	Stage          *Stage
	NextAction     *string
	NextActionDate *time.Time
	DateApplied    *time.Time
	DateClosed     *time.Time
	CloseReason    *string
	FitScore       *int
	AIFitSummary   *string
	TailoredResume *string
	CoverLetter    *string
	Notes          *string
	ResumeVersion  *string
}

// OpportunityFilter narrows list queries.
type OpportunityFilter struct {
	Stage         *Stage
	Tier          *int
	JobFamily     *string
	ExcludeClosed bool
}

// TodayQueueRow is one row of the precomputed today_queue view: open
// opportunities whose next action is due today or overdue.
type TodayQueueRow struct {
	OpportunityID  int64     `json:"opportunity_id"`
	Company        string    `json:"company"`
	RoleTitle      string    `json:"role_title"`
	Stage          Stage     `json:"stage"`
	Tier           *int      `json:"tier,omitempty"`
	NextAction     *string   `json:"next_action,omitempty"`
	NextActionDate time.Time `json:"next_action_date"`
}

// StageCount is one row of the precomputed pipeline_summary view.
type StageCount struct {
	Stage Stage `json:"stage"`
	Count int64 `json:"count"`
}

type OpportunityRepository interface {
	Create(ctx context.Context, opp *Opportunity) error
	GetByID(ctx context.Context, id int64) (*Opportunity, error)
	List(ctx context.Context, filter OpportunityFilter) ([]Opportunity, error)
	Search(ctx context.Context, query string) ([]Opportunity, error)
	Update(ctx context.Context, id int64, patch OpportunityPatch) error
	ListUnscored(ctx context.Context) ([]Opportunity, error)
	ListStale(ctx context.Context, cutoff time.Time) ([]Opportunity, error)
	TodayQueue(ctx context.Context) ([]TodayQueueRow, error)
	PipelineSummary(ctx context.Context) ([]StageCount, error)
}

type OpportunityUsecase interface {
	Create(ctx context.Context, opp *Opportunity) error
	GetByID(ctx context.Context, id int64) (*Opportunity, error)
	List(ctx context.Context, filter OpportunityFilter) ([]Opportunity, error)
	Search(ctx context.Context, query string) ([]Opportunity, error)
	AddNote(ctx context.Context, id int64, text string) error
	Activity(ctx context.Context, id int64) ([]ActivityLogEntry, error)
}
