package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-jobsearch-backend/internal/delivery/http/response"
	"go-jobsearch-backend/internal/domain"
	"go-jobsearch-backend/pkg/apperror"
)

type WorkflowHandler struct {
	workflowUC domain.WorkflowUsecase
	staleDays  int
}

func NewWorkflowHandler(rg *gin.RouterGroup, workflowUC domain.WorkflowUsecase, staleDays int) {
	handler := &WorkflowHandler{workflowUC: workflowUC, staleDays: staleDays}

	rg.POST("/opportunities/:id/advance", handler.AdvanceStage)

	queues := rg.Group("/queues")
	{
		queues.GET("/today", handler.TodayQueue)
		queues.GET("/followups", handler.FollowupQueue)
		queues.GET("/stale", handler.StaleOpportunities)
		queues.GET("/pipeline", handler.PipelineSummary)
	}

	contacts := rg.Group("/contacts")
	{
		contacts.POST("/:id/mark-outreach", handler.MarkOutreachSent)
		contacts.POST("/:id/mark-followup", handler.MarkFollowup)
		contacts.POST("/:id/mark-response", handler.MarkResponse)
	}
}

type AdvanceStageRequest struct {
	NewStage    string `json:"new_stage" binding:"required"`
	Note        string `json:"note"`
	CloseReason string `json:"close_reason"`
}

type MarkResponseRequest struct {
	Status string `json:"status" binding:"required,oneof=Pending Responded 'No Response' 'Meeting Scheduled'"`
}

func (h *WorkflowHandler) AdvanceStage(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req AdvanceStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.workflowUC.AdvanceStage(c.Request.Context(), id, domain.Stage(req.NewStage), req.Note, req.CloseReason); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Stage advanced successfully", nil)
}

func (h *WorkflowHandler) TodayQueue(c *gin.Context) {
	rows, err := h.workflowUC.TodayQueue(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Today queue retrieved successfully", rows)
}

func (h *WorkflowHandler) FollowupQueue(c *gin.Context) {
	items, err := h.workflowUC.FollowupQueue(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Follow-up queue retrieved successfully", items)
}

func (h *WorkflowHandler) StaleOpportunities(c *gin.Context) {
	days := h.staleDays
	if d := c.Query("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed <= 0 {
			c.Error(apperror.BadRequest("Invalid days parameter"))
			return
		}
		days = parsed
	}

	opps, err := h.workflowUC.StaleOpportunities(c.Request.Context(), days)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Stale opportunities retrieved successfully", opps)
}

func (h *WorkflowHandler) PipelineSummary(c *gin.Context) {
	counts, err := h.workflowUC.PipelineSummary(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Pipeline summary retrieved successfully", counts)
}

func (h *WorkflowHandler) MarkOutreachSent(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.workflowUC.MarkOutreachSent(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Outreach marked successfully", nil)
}

func (h *WorkflowHandler) MarkFollowup(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.workflowUC.MarkFollowup(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Follow-up marked successfully", nil)
}

func (h *WorkflowHandler) MarkResponse(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req MarkResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.workflowUC.MarkResponse(c.Request.Context(), id, domain.ResponseStatus(req.Status)); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Response recorded successfully", nil)
}
