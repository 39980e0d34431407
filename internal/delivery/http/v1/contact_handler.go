package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobsearch-backend/internal/delivery/http/response"
	"go-jobsearch-backend/internal/domain"
	"go-jobsearch-backend/pkg/apperror"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

func NewContactHandler(rg *gin.RouterGroup, contactUC domain.ContactUsecase) {
	handler := &ContactHandler{contactUC: contactUC}

	contacts := rg.Group("/contacts")
	{
		contacts.GET("", handler.List)
		contacts.POST("/:id/send-outreach", handler.SendOutreach)
	}
}

type SendOutreachRequest struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.contactUC.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Contacts retrieved successfully", contacts)
}

func (h *ContactHandler) SendOutreach(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req SendOutreachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.contactUC.SendOutreach(c.Request.Context(), id, req.Subject, req.Body); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Outreach email sent successfully", nil)
}
