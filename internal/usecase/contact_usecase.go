package usecase

import (
	"context"
	"fmt"
	"strings"

	"go-jobsearch-backend/internal/domain"
	"go-jobsearch-backend/pkg/apperror"
	"go-jobsearch-backend/pkg/email"
)

type contactUsecase struct {
	contactRepo  domain.ContactRepository
	oppRepo      domain.OpportunityRepository
	activityRepo domain.ActivityRepository
	emailService *email.EmailService
	workflowUC   domain.WorkflowUsecase
}

// NewContactUsecase creates the contact usecase. The workflow usecase is
// injected so a sent outreach email also records the day-0 cadence point.
func NewContactUsecase(
	contactRepo domain.ContactRepository,
	oppRepo domain.OpportunityRepository,
	activityRepo domain.ActivityRepository,
	emailService *email.EmailService,
	workflowUC domain.WorkflowUsecase,
) domain.ContactUsecase {
	return &contactUsecase{
		contactRepo:  contactRepo,
		oppRepo:      oppRepo,
		activityRepo: activityRepo,
		emailService: emailService,
		workflowUC:   workflowUC,
	}
}

// Add attaches a new contact to an existing opportunity. Company defaults to
// the opportunity's and contact type to Recruiter.
func (uc *contactUsecase) Add(ctx context.Context, opportunityID int64, contact *domain.Contact) error {
	if strings.TrimSpace(contact.FullName) == "" {
		return apperror.BadRequest("full_name is required")
	}

	opp, err := uc.oppRepo.GetByID(ctx, opportunityID)
	if err != nil {
		return apperror.NotFound(fmt.Sprintf("Opportunity %d not found", opportunityID))
	}

	contact.OpportunityID = opportunityID
	if contact.Company == nil {
		contact.Company = &opp.Company
	}
	if contact.ContactType == "" {
		contact.ContactType = domain.ContactTypeRecruiter
	}
	if contact.ResponseStatus == "" {
		contact.ResponseStatus = domain.ResponsePending
	}

	if err := uc.contactRepo.Create(ctx, contact); err != nil {
		return apperror.Internal(err)
	}

	entry := &domain.ActivityLogEntry{
		Type:          domain.ActivityNoteAdded,
		Description:   fmt.Sprintf("Contact added: %s (%s)", contact.FullName, contact.ContactType),
		OpportunityID: &opportunityID,
		ContactID:     &contact.ID,
	}
	if err := uc.activityRepo.Append(ctx, entry); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *contactUsecase) List(ctx context.Context) ([]domain.Contact, error) {
	contacts, err := uc.contactRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return contacts, nil
}

func (uc *contactUsecase) ListByOpportunity(ctx context.Context, opportunityID int64) ([]domain.Contact, error) {
	contacts, err := uc.contactRepo.ListByOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return contacts, nil
}

// SendOutreach emails a contact and records the outreach. Mail transport
// failures surface to the caller; nothing is marked sent on failure.
func (uc *contactUsecase) SendOutreach(ctx context.Context, contactID int64, subject, body string) error {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(body) == "" {
		return apperror.BadRequest("subject and body are required")
	}
	if !uc.emailService.IsConfigured() {
		return apperror.BadRequest("Email sending is not configured")
	}

	contact, err := uc.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		return apperror.NotFound(fmt.Sprintf("Contact %d not found", contactID))
	}
	if contact.Email == nil || *contact.Email == "" {
		return apperror.BadRequest("Contact has no email address")
	}

	if err := uc.emailService.Send(*contact.Email, subject, body); err != nil {
		return apperror.Upstream("Failed to send outreach email", err)
	}

	// Marks day0 and advances Prospect → Warm Lead on the first send.
	if err := uc.workflowUC.MarkOutreachSent(ctx, contactID); err != nil {
		return err
	}

	entry := &domain.ActivityLogEntry{
		Type:          domain.ActivityOutreachSent,
		Description:   fmt.Sprintf("Outreach email sent to %s <%s>", contact.FullName, *contact.Email),
		OpportunityID: &contact.OpportunityID,
		ContactID:     &contactID,
		Metadata:      map[string]any{"channel": "email", "subject": subject},
	}
	if err := uc.activityRepo.Append(ctx, entry); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
