package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-jobsearch-backend/internal/delivery/http/response"
	"go-jobsearch-backend/internal/domain"
	"go-jobsearch-backend/pkg/apperror"
)

type OpportunityHandler struct {
	oppUC     domain.OpportunityUsecase
	contactUC domain.ContactUsecase
}

func NewOpportunityHandler(rg *gin.RouterGroup, oppUC domain.OpportunityUsecase, contactUC domain.ContactUsecase) {
	handler := &OpportunityHandler{oppUC: oppUC, contactUC: contactUC}

	opportunities := rg.Group("/opportunities")
	{
		opportunities.POST("", handler.Create)
		opportunities.GET("", handler.List)
		opportunities.GET("/search", handler.Search)
		opportunities.GET("/:id", handler.GetByID)
		opportunities.POST("/:id/notes", handler.AddNote)
		opportunities.GET("/:id/activity", handler.Activity)
		opportunities.GET("/:id/contacts", handler.ListContacts)
		opportunities.POST("/:id/contacts", handler.AddContact)
	}
}

type CreateOpportunityRequest struct {
	Company     string `json:"company" binding:"required"`
	RoleTitle   string `json:"role_title" binding:"required"`
	JobFamily   string `json:"job_family"`
	Tier        *int   `json:"tier" binding:"omitempty,gte=1,lte=3"`
	Stage       string `json:"stage"`
	Source      string `json:"source"`
	SalaryRange string `json:"salary_range"`
	JDURL       string `json:"jd_url"`
	JDRaw       string `json:"jd_raw"`
	Notes       string `json:"notes"`
}

type AddNoteRequest struct {
	Text string `json:"text" binding:"required"`
}

type AddContactRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	LinkedInURL string `json:"linkedin_url"`
	Email       string `json:"email" binding:"omitempty,email"`
	ContactType string `json:"contact_type" binding:"omitempty,oneof=Recruiter HM Peer Other"`
	Notes       string `json:"notes"`
}

// Helper to convert empty string to nil pointer
func toPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperror.BadRequest("Invalid ID format")
	}
	return id, nil
}

func (h *OpportunityHandler) Create(c *gin.Context) {
	var req CreateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	opp := &domain.Opportunity{
		Company:     req.Company,
		RoleTitle:   req.RoleTitle,
		JobFamily:   toPtr(req.JobFamily),
		Tier:        req.Tier,
		Stage:       domain.Stage(req.Stage),
		Source:      toPtr(req.Source),
		SalaryRange: toPtr(req.SalaryRange),
		JDURL:       toPtr(req.JDURL),
		JDRaw:       toPtr(req.JDRaw),
		Notes:       toPtr(req.Notes),
	}

	if err := h.oppUC.Create(c.Request.Context(), opp); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Opportunity created successfully", opp)
}

func (h *OpportunityHandler) List(c *gin.Context) {
	var filter domain.OpportunityFilter
	if s := c.Query("stage"); s != "" {
		stage := domain.Stage(s)
		filter.Stage = &stage
	}
	if t := c.Query("tier"); t != "" {
		tier, err := strconv.Atoi(t)
		if err != nil {
			c.Error(apperror.BadRequest("Invalid tier filter"))
			return
		}
		filter.Tier = &tier
	}
	filter.JobFamily = toPtr(c.Query("job_family"))
	filter.ExcludeClosed = c.Query("exclude_closed") == "true"

	opps, err := h.oppUC.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Opportunities retrieved successfully", opps)
}

func (h *OpportunityHandler) Search(c *gin.Context) {
	query := c.Query("q")
	opps, err := h.oppUC.Search(c.Request.Context(), query)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Search results retrieved successfully", opps)
}

func (h *OpportunityHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	opp, err := h.oppUC.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Opportunity retrieved successfully", opp)
}

func (h *OpportunityHandler) AddNote(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.oppUC.AddNote(c.Request.Context(), id, req.Text); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Note added successfully", nil)
}

func (h *OpportunityHandler) Activity(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	entries, err := h.oppUC.Activity(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Activity retrieved successfully", entries)
}

func (h *OpportunityHandler) ListContacts(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	contacts, err := h.contactUC.ListByOpportunity(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Contacts retrieved successfully", contacts)
}

func (h *OpportunityHandler) AddContact(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req AddContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	contact := &domain.Contact{
		FullName:    req.FullName,
		Title:       toPtr(req.Title),
		Company:     toPtr(req.Company),
		LinkedInURL: toPtr(req.LinkedInURL),
		Email:       toPtr(req.Email),
		ContactType: domain.ContactType(req.ContactType),
		Notes:       toPtr(req.Notes),
	}

	if err := h.contactUC.Add(c.Request.Context(), id, contact); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Contact added successfully", contact)
}
