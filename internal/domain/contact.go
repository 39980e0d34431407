package domain

import (
	"context"
	"time"
)

type ContactType string

const (
	ContactTypeRecruiter ContactType = "Recruiter"
	ContactTypeHM        ContactType = "HM"
	ContactTypePeer      ContactType = "Peer"
	ContactTypeOther     ContactType = "Other"
)

type ResponseStatus string

const (
	ResponsePending          ResponseStatus = "Pending"
	ResponseResponded        ResponseStatus = "Responded"
	ResponseNone             ResponseStatus = "No Response"
	ResponseMeetingScheduled ResponseStatus = "Meeting Scheduled"
)

// Contact is a person attached to exactly one opportunity, tracked through
// the day0/day3/day7 outreach cadence. Each outreach date is set at most
// once and never overwritten.
type Contact struct {
	ID             int64          `json:"id"`
	OpportunityID  int64          `json:"opportunity_id"`
	FullName       string         `json:"full_name"`
	Title          *string        `json:"title,omitempty"`
	Company        *string        `json:"company,omitempty"`
	LinkedInURL    *string        `json:"linkedin_url,omitempty"`
	Email          *string        `json:"email,omitempty"`
	ContactType    ContactType    `json:"contact_type"`
	OutreachDay0   *time.Time     `json:"outreach_day0,omitempty"`
	OutreachDay3   *time.Time     `json:"outreach_day3,omitempty"`
	OutreachDay7   *time.Time     `json:"outreach_day7,omitempty"`
	ResponseStatus ResponseStatus `json:"response_status"`
	Notes          *string        `json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ContactPatch is an explicit partial update for contacts.
type ContactPatch struct {
	OutreachDay0   *time.Time
	OutreachDay3   *time.Time
	OutreachDay7   *time.Time
	ResponseStatus *ResponseStatus
	Notes          *string
}

// FollowupItem is a follow-up queue row: a pending contact joined to its
// open opportunity, tagged with which cadence point was hit.
type FollowupItem struct {
	ContactID      int64          `json:"contact_id"`
	FullName       string         `json:"full_name"`
	Title          *string        `json:"title,omitempty"`
	Company        *string        `json:"company,omitempty"`
	ContactType    ContactType    `json:"contact_type"`
	OutreachDay0   time.Time      `json:"outreach_day0"`
	ResponseStatus ResponseStatus `json:"response_status"`
	OpportunityID  int64          `json:"opportunity_id"`
	OppCompany     string         `json:"opp_company"`
	RoleTitle      string         `json:"role_title"`
	Stage          Stage          `json:"stage"`
	Reason         string         `json:"followup_reason"`
}

type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) error
	GetByID(ctx context.Context, id int64) (*Contact, error)
	List(ctx context.Context) ([]Contact, error)
	ListByOpportunity(ctx context.Context, opportunityID int64) ([]Contact, error)
	Update(ctx context.Context, id int64, patch ContactPatch) error
	// FollowupCandidates returns pending contacts whose outreach_day0 equals
	// either of the two given dates, joined to a non-closed opportunity.
	FollowupCandidates(ctx context.Context, day3, day7 time.Time) ([]FollowupItem, error)
}

type ContactUsecase interface {
	Add(ctx context.Context, opportunityID int64, contact *Contact) error
	List(ctx context.Context) ([]Contact, error)
	ListByOpportunity(ctx context.Context, opportunityID int64) ([]Contact, error)
	SendOutreach(ctx context.Context, contactID int64, subject, body string) error
}
