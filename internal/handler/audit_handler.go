package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/api/audit-logs")
	{
		audit.GET("", middleware.RequireRole(model.RoleAdmin), h.List)
	}
}

// @Summary      List Audit Logs
// @Description  Paged audit trail of snapshot rebuilds, item changes, ingestion runs and user management, newest first
// @Tags         Audit
// @Produce      json
// @Param        page  query int false "Page number (default 1)"
// @Param        limit query int false "Page size (default 50, max 200)"
// @Success      200 {object} response.Response
// @Failure      500 {object} response.Response "Internal server error"
// @Security     BearerAuth
// @Router       /api/audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMeta(http.StatusOK, logs, gin.H{
		"page":  params.Page,
		"limit": params.Limit,
		"total": total,
	}))
}
