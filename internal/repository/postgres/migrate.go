package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates all tables and views idempotently.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS opportunities (
	id BIGSERIAL PRIMARY KEY,
	company TEXT NOT NULL,
	role_title TEXT NOT NULL,
	job_family TEXT,
	tier INT,
	stage TEXT NOT NULL DEFAULT 'Prospect',
	source TEXT,
	date_added DATE DEFAULT CURRENT_DATE,
	date_applied DATE,
	date_closed DATE,
	close_reason TEXT,
	fit_score INT,
	salary_range TEXT,
	jd_url TEXT,
	jd_raw TEXT,
	jd_keywords TEXT[],
	resume_version TEXT,
	next_action TEXT,
	next_action_date DATE,
	notes TEXT,
	ai_fit_summary TEXT,
	tailored_resume TEXT,
	cover_letter TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS contacts (
	id BIGSERIAL PRIMARY KEY,
	opportunity_id BIGINT NOT NULL REFERENCES opportunities(id) ON DELETE CASCADE,
	full_name TEXT NOT NULL,
	title TEXT,
	company TEXT,
	linkedin_url TEXT,
	email TEXT,
	contact_type TEXT NOT NULL DEFAULT 'Recruiter',
	outreach_day0 DATE,
	outreach_day3 DATE,
	outreach_day7 DATE,
	response_status TEXT NOT NULL DEFAULT 'Pending',
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS activity_log (
	id BIGSERIAL PRIMARY KEY,
	activity_type TEXT NOT NULL,
	description TEXT NOT NULL,
	opportunity_id BIGINT REFERENCES opportunities(id) ON DELETE SET NULL,
	contact_id BIGINT REFERENCES contacts(id) ON DELETE SET NULL,
	metadata JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_contacts_opportunity ON contacts(opportunity_id);
CREATE INDEX IF NOT EXISTS idx_activity_opportunity ON activity_log(opportunity_id);
CREATE INDEX IF NOT EXISTS idx_opportunities_stage ON opportunities(stage);

CREATE OR REPLACE VIEW today_queue AS
SELECT id AS opportunity_id, company, role_title, stage, tier, next_action, next_action_date
FROM opportunities
WHERE stage != 'Closed'
  AND next_action_date IS NOT NULL
  AND next_action_date <= CURRENT_DATE;

CREATE OR REPLACE VIEW pipeline_summary AS
SELECT stage, COUNT(*) AS count
FROM opportunities
WHERE stage != 'Closed'
GROUP BY stage;
`)
	return err
}
