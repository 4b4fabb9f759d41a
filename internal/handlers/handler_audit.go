package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/services"
	"github.com/safarsoft/travel_agency_backoffice/internal/dto"
	"github.com/safarsoft/travel_agency_backoffice/internal/middleware"
)

// auditHandler handles HTTP requests for the audit log.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newAuditHandler(as portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{auditService: as}
}

// registerAuditRoutes registers the audit log route.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditService)

	rg.GET("/audit-log", h.queryLog)
}

// queryLog godoc
// @Summary Query the audit log
// @Description Returns a page of audit entries, newest first. Admin only.
// @Tags audit
// @Produce json
// @Param entityType query string false "Entity type filter"
// @Param entityID query string false "Entity ID filter"
// @Param action query string false "Action filter"
// @Param actorID query string false "Actor filter"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListAuditEntriesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Admin role required"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /audit-log [get]
func (h *auditHandler) queryLog(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListAuditEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.auditService.QueryLog(c.Request.Context(), params, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to query audit log")
		return
	}

	c.JSON(http.StatusOK, resp)
}
