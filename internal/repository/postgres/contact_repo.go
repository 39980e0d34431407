package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-jobsearch-backend/internal/domain"
)

type contactRepo struct {
	db *pgxpool.Pool
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *pgxpool.Pool) domain.ContactRepository {
	return &contactRepo{db: db}
}

const contactColumns = `
	id, opportunity_id, full_name, title, company, linkedin_url, email,
	contact_type, outreach_day0, outreach_day3, outreach_day7,
	response_status, notes, created_at`

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(
		&c.ID, &c.OpportunityID, &c.FullName, &c.Title, &c.Company,
		&c.LinkedInURL, &c.Email, &c.ContactType,
		&c.OutreachDay0, &c.OutreachDay3, &c.OutreachDay7,
		&c.ResponseStatus, &c.Notes, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectContacts(rows pgx.Rows) ([]domain.Contact, error) {
	defer rows.Close()
	var contacts []domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

// Create inserts a new contact
func (r *contactRepo) Create(ctx context.Context, contact *domain.Contact) error {
	query := `
		INSERT INTO contacts
			(opportunity_id, full_name, title, company, linkedin_url, email, contact_type, response_status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		contact.OpportunityID,
		contact.FullName,
		contact.Title,
		contact.Company,
		contact.LinkedInURL,
		contact.Email,
		contact.ContactType,
		contact.ResponseStatus,
		contact.Notes,
	).Scan(&contact.ID, &contact.CreatedAt)
}

// GetByID retrieves a contact by ID
func (r *contactRepo) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	query := `SELECT` + contactColumns + ` FROM contacts WHERE id = $1`
	contact, err := scanContact(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return contact, err
}

// List retrieves all contacts, most recent first
func (r *contactRepo) List(ctx context.Context) ([]domain.Contact, error) {
	query := `SELECT` + contactColumns + ` FROM contacts ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectContacts(rows)
}

// ListByOpportunity retrieves all contacts attached to an opportunity
func (r *contactRepo) ListByOpportunity(ctx context.Context, opportunityID int64) ([]domain.Contact, error) {
	query := `SELECT` + contactColumns + ` FROM contacts WHERE opportunity_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, opportunityID)
	if err != nil {
		return nil, err
	}
	return collectContacts(rows)
}

// Update applies a partial update to a contact
func (r *contactRepo) Update(ctx context.Context, id int64, patch domain.ContactPatch) error {
	var sets []string
	var args []any
	set := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.OutreachDay0 != nil {
		set("outreach_day0", *patch.OutreachDay0)
	}
	if patch.OutreachDay3 != nil {
		set("outreach_day3", *patch.OutreachDay3)
	}
	if patch.OutreachDay7 != nil {
		set("outreach_day7", *patch.OutreachDay7)
	}
	if patch.ResponseStatus != nil {
		set("response_status", *patch.ResponseStatus)
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE contacts SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FollowupCandidates returns pending contacts whose first outreach date
// equals exactly one of the two given dates, joined to an open opportunity.
// Exact-date match: contacts one day past a cadence point are not returned.
func (r *contactRepo) FollowupCandidates(ctx context.Context, day3, day7 time.Time) ([]domain.FollowupItem, error) {
	query := `
		SELECT c.id, c.full_name, c.title, c.company, c.contact_type,
		       c.outreach_day0, c.response_status,
		       o.id, o.company, o.role_title, o.stage
		FROM contacts c
		JOIN opportunities o ON o.id = c.opportunity_id
		WHERE c.response_status = 'Pending'
		  AND (c.outreach_day0 = $1 OR c.outreach_day0 = $2)
		  AND o.stage != 'Closed'
		ORDER BY c.outreach_day0 ASC`

	rows, err := r.db.Query(ctx, query, day3, day7)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.FollowupItem
	for rows.Next() {
		var item domain.FollowupItem
		if err := rows.Scan(
			&item.ContactID, &item.FullName, &item.Title, &item.Company,
			&item.ContactType, &item.OutreachDay0, &item.ResponseStatus,
			&item.OpportunityID, &item.OppCompany, &item.RoleTitle, &item.Stage,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
