package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobsearch-backend/config"
	"go-jobsearch-backend/internal/delivery/http/middleware"
	"go-jobsearch-backend/internal/delivery/http/response"
	"go-jobsearch-backend/internal/domain"
)

type RouterDeps struct {
	OpportunityUC domain.OpportunityUsecase
	ContactUC     domain.ContactUsecase
	WorkflowUC    domain.WorkflowUsecase
	AIUC          domain.AIUsecase
	ActivityUC    domain.ActivityUsecase
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware()) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	NewOpportunityHandler(v1, deps.OpportunityUC, deps.ContactUC)
	NewWorkflowHandler(v1, deps.WorkflowUC, deps.Config.StaleDays)
	NewContactHandler(v1, deps.ContactUC)
	NewAIHandler(v1, deps.AIUC, deps.Config.ResumeCachePath, deps.Config.OwnerBackground)
	NewActivityHandler(v1, deps.ActivityUC)

	return r
}
