package v1

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"go-jobsearch-backend/internal/delivery/http/response"
	"go-jobsearch-backend/internal/domain"
	"go-jobsearch-backend/pkg/apperror"
)

type AIHandler struct {
	aiUC            domain.AIUsecase
	resumeCachePath string
	ownerBackground string
}

func NewAIHandler(rg *gin.RouterGroup, aiUC domain.AIUsecase, resumeCachePath, ownerBackground string) {
	handler := &AIHandler{
		aiUC:            aiUC,
		resumeCachePath: resumeCachePath,
		ownerBackground: ownerBackground,
	}

	rg.POST("/opportunities/:id/score-fit", handler.ScoreFit)
	rg.POST("/opportunities/:id/interview-prep", handler.InterviewPrep)
	rg.POST("/opportunities/:id/cover-letter", handler.GenerateCoverLetter)
	rg.POST("/opportunities/:id/tailored-resume", handler.GenerateTailoredResume)

	ai := rg.Group("/ai")
	{
		ai.POST("/score-unscored", handler.ScoreUnscored)
		ai.POST("/extract-jd", handler.ExtractJD)
		ai.POST("/draft-outreach", handler.DraftOutreach)
		ai.POST("/tailor-bullets", handler.TailorBullets)
		ai.POST("/thank-you", handler.DraftThankYou)
		ai.GET("/daily-digest", handler.DailyDigest)
	}
}

type ResumeRequest struct {
	ResumeText string `json:"resume_text"`
}

type ExtractJDRequest struct {
	Text string `json:"text" binding:"required"`
}

type DraftOutreachRequest struct {
	ContactName  string `json:"contact_name" binding:"required"`
	ContactTitle string `json:"contact_title"`
	Company      string `json:"company"`
	ContactType  string `json:"contact_type" binding:"omitempty,oneof=Recruiter HM Peer Other"`
	Hook         string `json:"hook" binding:"required"`
}

type TailorBulletsRequest struct {
	Bullets    []string `json:"bullets" binding:"required,min=1"`
	JDKeywords []string `json:"jd_keywords"`
	JDContext  string   `json:"jd_context"`
}

type ThankYouRequest struct {
	InterviewerName  string `json:"interviewer_name" binding:"required"`
	InterviewerTitle string `json:"interviewer_title"`
	Company          string `json:"company"`
	KeyMoment        string `json:"key_moment"`
	FitPoint         string `json:"fit_point"`
}

// resumeText prefers the request body, falling back to the cached resume
// file so the common case needs no payload at all.
func (h *AIHandler) resumeText(override string) (string, error) {
	if strings.TrimSpace(override) != "" {
		return override, nil
	}
	data, err := os.ReadFile(h.resumeCachePath)
	if err != nil || len(strings.TrimSpace(string(data))) == 0 {
		return "", apperror.BadRequest("No resume text provided and no cached resume found. Supply resume_text or populate the resume cache file.")
	}
	return string(data), nil
}

func (h *AIHandler) ScoreFit(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req ResumeRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	resume, err := h.resumeText(req.ResumeText)
	if err != nil {
		c.Error(err)
		return
	}

	assessment, err := h.aiUC.ScoreFit(c.Request.Context(), id, resume)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Fit assessment generated successfully", assessment)
}

func (h *AIHandler) ScoreUnscored(c *gin.Context) {
	var req ResumeRequest
	_ = c.ShouldBindJSON(&req)

	resume, err := h.resumeText(req.ResumeText)
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.aiUC.ScoreUnscored(c.Request.Context(), resume)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Batch scoring completed", result)
}

func (h *AIHandler) ExtractJD(c *gin.Context) {
	var req ExtractJDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	structure, err := h.aiUC.ExtractJDStructure(c.Request.Context(), req.Text)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job description parsed successfully", structure)
}

func (h *AIHandler) DraftOutreach(c *gin.Context) {
	var req DraftOutreachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	draft, err := h.aiUC.DraftOutreach(c.Request.Context(), domain.OutreachDraftRequest{
		ContactName:  req.ContactName,
		ContactTitle: req.ContactTitle,
		Company:      req.Company,
		ContactType:  domain.ContactType(req.ContactType),
		Hook:         req.Hook,
		Background:   h.ownerBackground,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Outreach draft generated successfully", draft)
}

func (h *AIHandler) TailorBullets(c *gin.Context) {
	var req TailorBulletsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	result, err := h.aiUC.TailorBullets(c.Request.Context(), req.Bullets, req.JDKeywords, req.JDContext)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Bullets tailored successfully", result)
}

func (h *AIHandler) InterviewPrep(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	prep, err := h.aiUC.InterviewPrep(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview prep generated successfully", prep)
}

func (h *AIHandler) DraftThankYou(c *gin.Context) {
	var req ThankYouRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	note, err := h.aiUC.DraftThankYou(c.Request.Context(), domain.ThankYouRequest{
		InterviewerName:  req.InterviewerName,
		InterviewerTitle: req.InterviewerTitle,
		Company:          req.Company,
		KeyMoment:        req.KeyMoment,
		FitPoint:         req.FitPoint,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Thank-you note generated successfully", gin.H{"note": note})
}

func (h *AIHandler) GenerateCoverLetter(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req ResumeRequest
	_ = c.ShouldBindJSON(&req)

	resume, err := h.resumeText(req.ResumeText)
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.aiUC.GenerateCoverLetter(c.Request.Context(), id, resume)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Cover letter generated successfully", result)
}

func (h *AIHandler) GenerateTailoredResume(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req ResumeRequest
	_ = c.ShouldBindJSON(&req)

	resume, err := h.resumeText(req.ResumeText)
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.aiUC.GenerateTailoredResume(c.Request.Context(), id, resume)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Tailored resume generated successfully", result)
}

func (h *AIHandler) DailyDigest(c *gin.Context) {
	digest, err := h.aiUC.DailyDigest(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Daily digest generated successfully", gin.H{"digest": digest})
}
