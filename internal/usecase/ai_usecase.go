package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"go-jobsearch-backend/internal/domain"
	"go-jobsearch-backend/pkg/anthropic"
	"go-jobsearch-backend/pkg/apperror"
	"go-jobsearch-backend/pkg/logger"
)

// LLMClient is the single external-model call surface: one synchronous,
// non-streaming invocation per task, no automatic retries.
type LLMClient interface {
	Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (anthropic.Completion, error)
	Model() string
}

// Output-size ceilings per task, matching the work each one returns.
const (
	maxTokensScoreFit       = 1200
	maxTokensJDStructure    = 800
	maxTokensOutreach       = 600
	maxTokensTailorBullets  = 1500
	maxTokensInterviewPrep  = 1200
	maxTokensThankYou       = 400
	maxTokensCoverLetter    = 700
	maxTokensTailoredResume = 3000
	maxTokensDailyDigest    = 600
)

type aiUsecase struct {
	client          LLMClient
	oppRepo         domain.OpportunityRepository
	contactRepo     domain.ContactRepository
	activityRepo    domain.ActivityRepository
	ownerBackground string
}

// NewAIUsecase creates the orchestration layer around the external model
// service. Only caller-supplied text (resume, JD, contact context) is ever
// interpolated into prompts; no other stored fields leave the process.
func NewAIUsecase(
	client LLMClient,
	oppRepo domain.OpportunityRepository,
	contactRepo domain.ContactRepository,
	activityRepo domain.ActivityRepository,
	ownerBackground string,
) domain.AIUsecase {
	return &aiUsecase{
		client:          client,
		oppRepo:         oppRepo,
		contactRepo:     contactRepo,
		activityRepo:    activityRepo,
		ownerBackground: ownerBackground,
	}
}

// stripMarkdownCodeFences removes a markdown code fence wrapper from model
// output. Models sometimes wrap JSON in ```json fences; this is an isolated
// decoding step so it can be removed if the upstream quirk disappears.
func stripMarkdownCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "```") {
		firstNewline := strings.Index(trimmed, "\n")
		if firstNewline != -1 {
			lastFence := strings.LastIndex(trimmed, "```")
			if lastFence > firstNewline {
				return strings.TrimSpace(trimmed[firstNewline+1 : lastFence])
			}
			return strings.TrimSpace(trimmed[firstNewline+1:])
		}
	}
	return trimmed
}

// decodeJSON strips fences and unmarshals model output into v.
func decodeJSON(text string, v any) error {
	cleaned := stripMarkdownCodeFences(text)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return apperror.ParseError("Model response was not valid JSON for the expected shape", err)
	}
	return nil
}

// logAIAction appends an AI Action entry. Log appends here are best-effort
// telemetry: a logging fault must never block the primary mutation, so
// failures are warned and swallowed.
func (uc *aiUsecase) logAIAction(ctx context.Context, task string, opportunityID *int64, completion anthropic.Completion) {
	entry := &domain.ActivityLogEntry{
		Type:          domain.ActivityAIAction,
		Description:   fmt.Sprintf("AI task completed: %s", task),
		OpportunityID: opportunityID,
		Metadata: map[string]any{
			"task":           task,
			"model":          uc.client.Model(),
			"correlation_id": uuid.NewString(),
			"input_tokens":   completion.InputTokens,
			"output_tokens":  completion.OutputTokens,
		},
	}
	if err := uc.activityRepo.Append(ctx, entry); err != nil {
		logger.Log.Warn("Could not log AI action", "task", task, "error", err)
	}
}

// ScoreFit evaluates the cached resume against an opportunity's JD, persists
// fit_score and ai_fit_summary, and logs the call. The 1-10 score range is
// enforced by instruction only.
func (uc *aiUsecase) ScoreFit(ctx context.Context, opportunityID int64, resumeText string) (*domain.FitAssessment, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, apperror.BadRequest("resume text is required")
	}
	opp, err := uc.oppRepo.GetByID(ctx, opportunityID)
	if err != nil {
		return nil, apperror.NotFound(fmt.Sprintf("Opportunity %d not found", opportunityID))
	}
	if opp.JDRaw == nil || strings.TrimSpace(*opp.JDRaw) == "" {
		return nil, apperror.BadRequest("No JD text found for this opportunity")
	}

	systemPrompt := "You are a senior hiring manager evaluating candidates for data and analytics roles in fintech. " +
		"Respond ONLY with valid JSON. No explanation outside the JSON object."
	userMessage := fmt.Sprintf(`Evaluate this candidate's resume against the job description below.

RESUME:
%s

JOB DESCRIPTION:
%s

Return this exact JSON structure:
{
  "fit_score": <integer 1-10>,
  "score_rationale": "<2 sentences>",
  "top_strengths": ["<strength 1>", "<strength 2>", "<strength 3>"],
  "gaps_or_risks": ["<gap 1>", "<gap 2>", "<gap 3>"],
  "ats_keywords": ["<keyword 1>", "<keyword 2>", "<keyword 3>", "<keyword 4>", "<keyword 5>"],
  "suggested_bullet_rewrite": "<one improved bullet mirroring JD language>"
}`, resumeText, *opp.JDRaw)

	completion, err := uc.client.Complete(ctx, systemPrompt, userMessage, maxTokensScoreFit)
	if err != nil {
		logger.Log.Error("score_fit failed", "opportunity_id", opportunityID, "error", err)
		return nil, apperror.Upstream("Model call failed", err)
	}

	var result domain.FitAssessment
	if err := decodeJSON(completion.Text, &result); err != nil {
		return nil, err
	}
	if result.FitScore == 0 {
		return nil, apperror.ParseError("Model response is missing fit_score", nil)
	}

	summaryJSON, err := json.Marshal(result)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	summary := string(summaryJSON)
	patch := domain.OpportunityPatch{
		FitScore:     &result.FitScore,
		AIFitSummary: &summary,
	}
	if err := uc.oppRepo.Update(ctx, opportunityID, patch); err != nil {
		return nil, apperror.Internal(err)
	}

	uc.logAIAction(ctx, "score_fit", &opportunityID, completion)
	return &result, nil
}

// ScoreUnscored sweeps opportunities with no fit score and a non-empty JD.
// Individual failures are counted, not fatal.
func (uc *aiUsecase) ScoreUnscored(ctx context.Context, resumeText string) (*domain.BatchScoreResult, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, apperror.BadRequest("resume text is required")
	}
	opps, err := uc.oppRepo.ListUnscored(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	result := &domain.BatchScoreResult{}
	for _, opp := range opps {
		if opp.JDRaw == nil || strings.TrimSpace(*opp.JDRaw) == "" {
			result.Skipped++
			continue
		}
		if _, err := uc.ScoreFit(ctx, opp.ID, resumeText); err != nil {
			logger.Log.Error("Batch fit scoring failed", "opportunity_id", opp.ID, "error", err)
			result.Errors++
			continue
		}
		result.Scored++
	}
	return result, nil
}

// ExtractJDStructure parses a raw job posting into structured fields.
func (uc *aiUsecase) ExtractJDStructure(ctx context.Context, rawText string) (*domain.JDStructure, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, apperror.BadRequest("job posting text is required")
	}

	systemPrompt := "You are a structured data extractor. Respond ONLY with valid JSON."
	userMessage := fmt.Sprintf(`Extract structured fields from this job posting text.

TEXT:
%s

Return this exact JSON:
{
  "company": "<company name or null>",
  "role_title": "<exact title>",
  "job_family_guess": "<one of: Analytics Manager, Data Manager, BI Manager, Decision Science, Director Stretch>",
  "required_skills": ["<skill>"],
  "preferred_skills": ["<skill>"],
  "keywords": ["<5-7 most important ATS keywords>"],
  "salary_range": "<string or null>",
  "remote_ok": <true or false or null>,
  "seniority": "<IC / Manager / Director / VP>"
}`, rawText)

	completion, err := uc.client.Complete(ctx, systemPrompt, userMessage, maxTokensJDStructure)
	if err != nil {
		logger.Log.Error("extract_jd_structure failed", "error", err)
		return nil, apperror.Upstream("Model call failed", err)
	}

	var result domain.JDStructure
	if err := decodeJSON(completion.Text, &result); err != nil {
		return nil, err
	}
	if result.RoleTitle == "" {
		return nil, apperror.ParseError("Model response is missing role_title", nil)
	}

	uc.logAIAction(ctx, "extract_jd_structure", nil, completion)
	return &result, nil
}

// DraftOutreach drafts personalized outreach messages for a contact. The
// hook is required and rejected before any external call is made.
func (uc *aiUsecase) DraftOutreach(ctx context.Context, req domain.OutreachDraftRequest) (*domain.OutreachDraft, error) {
	if strings.TrimSpace(req.Hook) == "" {
		return nil, apperror.BadRequest("hook text is required for outreach drafting")
	}
	background := req.Background
	if background == "" {
		background = uc.ownerBackground
	}

	systemPrompt := "You are a professional career coach. Draft personalized outreach messages. " +
		"Respond ONLY with valid JSON. Be specific, warm, and human — never generic or salesy."
	userMessage := fmt.Sprintf(`Draft outreach from me to %s, %s at %s.

Contact type: %s
Hook / reason for reaching out: %s
My background: %s

Rules:
- LinkedIn connection note variant: under 300 characters, no line breaks
- InMail / email variant: under 150 words
- End with ONE low-friction ask (20-min call or single question)
- Do NOT use: "excited", "thrilled", "leveraging", "synergy", "reach out"
- Sound like a real person, not a template

Return this JSON:
{
  "linkedin_note": "<under 300 chars>",
  "inmail_or_email": "<under 150 words>",
  "subject_line": "<email subject if sending via email>"
}`, req.ContactName, req.ContactTitle, req.Company, req.ContactType, req.Hook, background)

	completion, err := uc.client.Complete(ctx, systemPrompt, userMessage, maxTokensOutreach)
	if err != nil {
		logger.Log.Error("draft_outreach failed", "error", err)
		return nil, apperror.Upstream("Model call failed", err)
	}

	var result domain.OutreachDraft
	if err := decodeJSON(completion.Text, &result); err != nil {
		return nil, err
	}
	if result.LinkedInNote == "" && result.InmailOrEmail == "" {
		return nil, apperror.ParseError("Model response contained no outreach variants", nil)
	}

	uc.logAIAction(ctx, "draft_outreach", nil, completion)
	return &result, nil
}

// TailorBullets rewrites resume bullets to mirror JD language. Metric
// preservation is instructed, not verified.
func (uc *aiUsecase) TailorBullets(ctx context.Context, bullets, jdKeywords []string, jdContext string) (*domain.BulletTailoring, error) {
	if len(bullets) == 0 {
		return nil, apperror.BadRequest("at least one bullet is required")
	}

	var numbered strings.Builder
	for i, b := range bullets {
		fmt.Fprintf(&numbered, "%d. %s\n", i+1, b)
	}

	systemPrompt := "You are an expert resume writer for data and analytics professionals in fintech. " +
		"Respond ONLY with valid JSON."
	userMessage := fmt.Sprintf(`Rewrite these resume bullets to better align with the job description language below.
CRITICAL RULES:
- Keep all numbers and metrics EXACTLY as they appear — never invent or change figures
- Maintain past tense, action-verb-first format
- Mirror JD terminology naturally in context — do not keyword-stuff
- Flag every change you make so the human can review it

My bullets:
%s
JD keywords to mirror: %s
JD context: %s

Return this JSON:
{
  "rewritten_bullets": [
    {
      "original": "<original bullet>",
      "rewritten": "<new bullet>",
      "changes_made": "<brief description of what changed and why>"
    }
  ],
  "overall_notes": "<1-2 sentences on fit and remaining gaps>"
}`, numbered.String(), strings.Join(jdKeywords, ", "), jdContext)

	completion, err := uc.client.Complete(ctx, systemPrompt, userMessage, maxTokensTailorBullets)
	if err != nil {
		logger.Log.Error("tailor_bullets failed", "error", err)
		return nil, apperror.Upstream("Model call failed", err)
	}

	var result domain.BulletTailoring
	if err := decodeJSON(completion.Text, &result); err != nil {
		return nil, err
	}
	if len(result.RewrittenBullets) == 0 {
		return nil, apperror.ParseError("Model response contained no rewritten bullets", nil)
	}

	uc.logAIAction(ctx, "tailor_bullets", nil, completion)
	return &result, nil
}

// InterviewPrep generates interview prep materials for an opportunity.
func (uc *aiUsecase) InterviewPrep(ctx context.Context, opportunityID int64) (*domain.InterviewPrep, error) {
	opp, err := uc.oppRepo.GetByID(ctx, opportunityID)
	if err != nil {
		return nil, apperror.NotFound(fmt.Sprintf("Opportunity %d not found", opportunityID))
	}
	if opp.JDRaw == nil || strings.TrimSpace(*opp.JDRaw) == "" {
		return nil, apperror.BadRequest("No JD text found for this opportunity")
	}

	systemPrompt := "You are an expert interview coach for data and analytics leadership roles in fintech. " +
		"Respond ONLY with valid JSON."
	userMessage := fmt.Sprintf(`Prepare interview materials for: %s at %s

JD:
%s

Return this JSON:
{
  "behavioral_questions": ["<q1>", "<q2>", "<q3>", "<q4>", "<q5>"],
  "technical_questions": ["<q1>", "<q2>", "<q3>"],
  "questions_to_ask_them": ["<q1>", "<q2>", "<q3>"],
  "company_briefing": "<3-4 sentences: what they do, their data/analytics angle, recent news if inferable from JD>",
  "watch_out_for": "<1-2 sentences on likely pain points or hard questions for this specific role>"
}`, opp.RoleTitle, opp.Company, *opp.JDRaw)

	completion, err := uc.client.Complete(ctx, systemPrompt, userMessage, maxTokensInterviewPrep)
	if err != nil {
		logger.Log.Error("interview_prep failed", "opportunity_id", opportunityID, "error", err)
		return nil, apperror.Upstream("Model call failed", err)
	}

	var result domain.InterviewPrep
	if err := decodeJSON(completion.Text, &result); err != nil {
		return nil, err
	}
	if len(result.BehavioralQuestions) == 0 {
		return nil, apperror.ParseError("Model response contained no behavioral questions", nil)
	}

	uc.logAIAction(ctx, "interview_prep", &opportunityID, completion)
	return &result, nil
}

// DraftThankYou writes a post-interview thank-you email. Free text; the
// first line carries the subject.
func (uc *aiUsecase) DraftThankYou(ctx context.Context, req domain.ThankYouRequest) (string, error) {
	if strings.TrimSpace(req.InterviewerName) == "" {
		return "", apperror.BadRequest("interviewer name is required")
	}

	systemPrompt := "Write a brief, genuine post-interview thank-you email. Under 120 words. " +
		"No hollow phrases. No 'I was thrilled/excited/honored.' Sound like a real person."
	userMessage := fmt.Sprintf(`Write a thank-you email to %s, %s at %s.
Key moment from our conversation: %s
One fit point I want to reinforce: %s
Include a subject line on the first line formatted as: Subject: <subject>`,
		req.InterviewerName, req.InterviewerTitle, req.Company, req.KeyMoment, req.FitPoint)

	completion, err := uc.client.Complete(ctx, systemPrompt, userMessage, maxTokensThankYou)
	if err != nil {
		logger.Log.Error("draft_thank_you failed", "error", err)
		return "", apperror.Upstream("Model call failed", err)
	}

	uc.logAIAction(ctx, "draft_thank_you", nil, completion)
	return strings.TrimSpace(completion.Text), nil
}

// GenerateCoverLetter writes a cover letter for an opportunity and persists
// it on the record.
func (uc *aiUsecase) GenerateCoverLetter(ctx context.Context, opportunityID int64, resumeText string) (*domain.CoverLetterResult, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, apperror.BadRequest("resume text is required")
	}
	opp, err := uc.oppRepo.GetByID(ctx, opportunityID)
	if err != nil {
		return nil, apperror.NotFound(fmt.Sprintf("Opportunity %d not found", opportunityID))
	}
	if opp.JDRaw == nil || strings.TrimSpace(*opp.JDRaw) == "" {
		return nil, apperror.BadRequest("No JD text found for this opportunity")
	}

	systemPrompt := "You are a professional cover letter writer for data and analytics leadership roles in fintech. " +
		"Write a concise, genuine cover letter — under 350 words. " +
		"No hollow phrases. Never use 'thrilled', 'excited', 'passionate', 'leverage', 'synergy'. " +
		"Sound like a real person making a direct, confident case. " +
		"Respond ONLY with valid JSON. No explanation outside the JSON object."
	userMessage := fmt.Sprintf(`Write a cover letter for:
Role: %s at %s

Candidate background:
%s

RESUME (for context):
%s

JOB DESCRIPTION:
%s

Rules:
- Opening: state the role and one concrete reason you're a fit — no flattery
- Middle 1-2 paragraphs: specific evidence from your background that matches the JD
- Closing: clear, low-key call to action
- Paragraphs separated by blank lines

Return this JSON:
{
  "cover_letter": "<full cover letter as plain text, paragraphs separated by \n\n>"
}`, opp.RoleTitle, opp.Company, uc.ownerBackground, resumeText, *opp.JDRaw)

	completion, err := uc.client.Complete(ctx, systemPrompt, userMessage, maxTokensCoverLetter)
	if err != nil {
		logger.Log.Error("generate_cover_letter failed", "opportunity_id", opportunityID, "error", err)
		return nil, apperror.Upstream("Model call failed", err)
	}

	var result domain.CoverLetterResult
	if err := decodeJSON(completion.Text, &result); err != nil {
		return nil, err
	}
	if result.CoverLetter == "" {
		return nil, apperror.ParseError("Model response is missing cover_letter", nil)
	}

	if err := uc.oppRepo.Update(ctx, opportunityID, domain.OpportunityPatch{CoverLetter: &result.CoverLetter}); err != nil {
		return nil, apperror.Internal(err)
	}

	uc.logAIAction(ctx, "generate_cover_letter", &opportunityID, completion)
	return &result, nil
}

// GenerateTailoredResume rewrites the full resume for a specific JD and
// persists the result.
func (uc *aiUsecase) GenerateTailoredResume(ctx context.Context, opportunityID int64, resumeText string) (*domain.TailoredResumeResult, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, apperror.BadRequest("resume text is required")
	}
	opp, err := uc.oppRepo.GetByID(ctx, opportunityID)
	if err != nil {
		return nil, apperror.NotFound(fmt.Sprintf("Opportunity %d not found", opportunityID))
	}
	if opp.JDRaw == nil || strings.TrimSpace(*opp.JDRaw) == "" {
		return nil, apperror.BadRequest("No JD text found for this opportunity")
	}

	systemPrompt := "You are an expert resume writer specializing in data and analytics leadership roles in fintech. " +
		"Given the candidate's existing resume and a job description, rewrite the full resume tailored " +
		"to that role. Preserve all true experience — never fabricate metrics or responsibilities. " +
		"Optimize for ATS keywords from the JD without keyword-stuffing. " +
		"Respond ONLY with valid JSON. No explanation outside the JSON object."
	userMessage := fmt.Sprintf(`Candidate background:
%s

EXISTING RESUME:
%s

JOB DESCRIPTION:
%s

Rewrite the full resume optimized for this role. Keep all sections (Summary, Experience, Skills, Education).
Preserve every metric and number exactly. Mirror JD terminology naturally.

Return this JSON:
{
  "tailored_resume": "<full rewritten resume as plain text>",
  "key_changes": ["<change 1>", "<change 2>", "<change 3>", "<change 4>", "<change 5>"]
}`, uc.ownerBackground, resumeText, *opp.JDRaw)

	completion, err := uc.client.Complete(ctx, systemPrompt, userMessage, maxTokensTailoredResume)
	if err != nil {
		logger.Log.Error("generate_tailored_resume failed", "opportunity_id", opportunityID, "error", err)
		return nil, apperror.Upstream("Model call failed", err)
	}

	var result domain.TailoredResumeResult
	if err := decodeJSON(completion.Text, &result); err != nil {
		return nil, err
	}
	if result.TailoredResume == "" {
		return nil, apperror.ParseError("Model response is missing tailored_resume", nil)
	}

	if err := uc.oppRepo.Update(ctx, opportunityID, domain.OpportunityPatch{TailoredResume: &result.TailoredResume}); err != nil {
		return nil, apperror.Internal(err)
	}

	uc.logAIAction(ctx, "generate_tailored_resume", &opportunityID, completion)
	return &result, nil
}

// DailyDigest generates a plain-text briefing from the today queue, the
// follow-up queue and the pipeline summary.
func (uc *aiUsecase) DailyDigest(ctx context.Context) (string, error) {
	todayQueue, err := uc.oppRepo.TodayQueue(ctx)
	if err != nil {
		return "", apperror.Internal(err)
	}
	now := today()
	followups, err := uc.contactRepo.FollowupCandidates(ctx, now.AddDate(0, 0, -3), now.AddDate(0, 0, -7))
	if err != nil {
		return "", apperror.Internal(err)
	}
	summary, err := uc.oppRepo.PipelineSummary(ctx)
	if err != nil {
		return "", apperror.Internal(err)
	}

	queueJSON, _ := json.MarshalIndent(todayQueue, "", "  ")
	followupJSON, _ := json.MarshalIndent(followups, "", "  ")
	summaryJSON, _ := json.MarshalIndent(summary, "", "  ")

	systemPrompt := "You are a job search operations assistant. Generate a concise daily briefing. " +
		"Plain text, no markdown. Under 300 words."
	userMessage := fmt.Sprintf(`Generate a daily job search digest.

Today's queue:
%s

Opportunities needing follow-up:
%s

Active pipeline summary:
%s

Format:
1. TODAY'S PRIORITIES (top 3 actions)
2. FOLLOW-UP ALERTS (who to nudge)
3. PIPELINE HEALTH (1 sentence on overall momentum)
4. ONE SUGGESTION (what to focus energy on today)`, queueJSON, followupJSON, summaryJSON)

	completion, err := uc.client.Complete(ctx, systemPrompt, userMessage, maxTokensDailyDigest)
	if err != nil {
		logger.Log.Error("daily_digest failed", "error", err)
		return "", apperror.Upstream("Model call failed", err)
	}

	uc.logAIAction(ctx, "daily_digest", nil, completion)
	return strings.TrimSpace(completion.Text), nil
}
