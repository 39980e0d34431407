package domain

import "context"

// FitAssessment is the parsed fit-scoring result. The 1-10 range of
// FitScore is enforced by instruction only; the engine does not verify it.
type FitAssessment struct {
	FitScore               int      `json:"fit_score"`
	ScoreRationale         string   `json:"score_rationale"`
	TopStrengths           []string `json:"top_strengths"`
	GapsOrRisks            []string `json:"gaps_or_risks"`
	ATSKeywords            []string `json:"ats_keywords"`
	SuggestedBulletRewrite string   `json:"suggested_bullet_rewrite"`
}

// JDStructure is a raw job posting parsed into structured fields.
type JDStructure struct {
	Company         *string  `json:"company"`
	RoleTitle       string   `json:"role_title"`
	JobFamilyGuess  string   `json:"job_family_guess"`
	RequiredSkills  []string `json:"required_skills"`
	PreferredSkills []string `json:"preferred_skills"`
	Keywords        []string `json:"keywords"`
	SalaryRange     *string  `json:"salary_range"`
	RemoteOK        *bool    `json:"remote_ok"`
	Seniority       string   `json:"seniority"`
}

// OutreachDraftRequest carries the contact context interpolated into the
// outreach prompt. Hook is required.
type OutreachDraftRequest struct {
	ContactName  string
	ContactTitle string
	Company      string
	ContactType  ContactType
	Hook         string
	Background   string
}

type OutreachDraft struct {
	LinkedInNote  string `json:"linkedin_note"`
	InmailOrEmail string `json:"inmail_or_email"`
	SubjectLine   string `json:"subject_line"`
}

type BulletRewrite struct {
	Original    string `json:"original"`
	Rewritten   string `json:"rewritten"`
	ChangesMade string `json:"changes_made"`
}

type BulletTailoring struct {
	RewrittenBullets []BulletRewrite `json:"rewritten_bullets"`
	OverallNotes     string          `json:"overall_notes"`
}

type InterviewPrep struct {
	BehavioralQuestions []string `json:"behavioral_questions"`
	TechnicalQuestions  []string `json:"technical_questions"`
	QuestionsToAskThem  []string `json:"questions_to_ask_them"`
	CompanyBriefing     string   `json:"company_briefing"`
	WatchOutFor         string   `json:"watch_out_for"`
}

type ThankYouRequest struct {
	InterviewerName  string
	InterviewerTitle string
	Company          string
	KeyMoment        string
	FitPoint         string
}

type CoverLetterResult struct {
	CoverLetter string `json:"cover_letter"`
}

type TailoredResumeResult struct {
	TailoredResume string   `json:"tailored_resume"`
	KeyChanges     []string `json:"key_changes"`
}

// BatchScoreResult summarizes a score-unscored sweep.
type BatchScoreResult struct {
	Scored  int `json:"scored"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// AIUsecase wraps every external-model task with the same contract: build
// the prompt from caller-supplied text only, call once, parse defensively,
// persist resulting fields, and record provenance in the activity log.
type AIUsecase interface {
	ScoreFit(ctx context.Context, opportunityID int64, resumeText string) (*FitAssessment, error)
	ScoreUnscored(ctx context.Context, resumeText string) (*BatchScoreResult, error)
	ExtractJDStructure(ctx context.Context, rawText string) (*JDStructure, error)
	DraftOutreach(ctx context.Context, req OutreachDraftRequest) (*OutreachDraft, error)
	TailorBullets(ctx context.Context, bullets, jdKeywords []string, jdContext string) (*BulletTailoring, error)
	InterviewPrep(ctx context.Context, opportunityID int64) (*InterviewPrep, error)
	DraftThankYou(ctx context.Context, req ThankYouRequest) (string, error)
	GenerateCoverLetter(ctx context.Context, opportunityID int64, resumeText string) (*CoverLetterResult, error)
	GenerateTailoredResume(ctx context.Context, opportunityID int64, resumeText string) (*TailoredResumeResult, error)
	DailyDigest(ctx context.Context) (string, error)
}
