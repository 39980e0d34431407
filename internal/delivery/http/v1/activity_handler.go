package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-jobsearch-backend/internal/delivery/http/response"
	"go-jobsearch-backend/internal/domain"
	"go-jobsearch-backend/pkg/apperror"
)

type ActivityHandler struct {
	activityUC domain.ActivityUsecase
}

func NewActivityHandler(rg *gin.RouterGroup, activityUC domain.ActivityUsecase) {
	handler := &ActivityHandler{activityUC: activityUC}

	rg.GET("/activity", handler.Recent)
}

func (h *ActivityHandler) Recent(c *gin.Context) {
	limit := 0
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			c.Error(apperror.BadRequest("Invalid limit parameter"))
			return
		}
		limit = parsed
	}

	entries, err := h.activityUC.Recent(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Activity retrieved successfully", entries)
}
