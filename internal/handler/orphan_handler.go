package handler

import (
	"net/http"
	"strconv"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrphanHandler struct {
	orphanService service.OrphanService
}

func NewOrphanHandler(orphanService service.OrphanService) *OrphanHandler {
	return &OrphanHandler{orphanService: orphanService}
}

func (h *OrphanHandler) RegisterRoutes(router *gin.RouterGroup) {
	orphans := router.Group("/api/orphans")
	{
		orphans.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleAuditor), h.Find)
	}
}

// @Summary      Find Integrity Orphans
// @Description  Union of the five referential-integrity checks over the lookback window (orders, payments, order lines, invoice lines, invoices)
// @Tags         Orphans
// @Produce      json
// @Param        as_of         query string false "Window end, exclusive (RFC3339 or YYYY-MM-DD, default: now)"
// @Param        lookback_days query int    false "Lookback window in days (default 90)"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "Invalid parameter"
// @Failure      500 {object} response.Response "Internal server error"
// @Security     BearerAuth
// @Router       /api/orphans [get]
func (h *OrphanHandler) Find(c *gin.Context) {
	asOf := time.Now().UTC()
	if v := c.Query("as_of"); v != "" {
		parsed, err := parseWindowParam(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid as_of"))
			return
		}
		asOf = parsed
	}

	lookbackDays := 90
	if v := c.Query("lookback_days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid lookback_days"))
			return
		}
		lookbackDays = parsed
	}

	records, err := h.orphanService.FindOrphans(c.Request.Context(), asOf, lookbackDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMeta(http.StatusOK, records, gin.H{
		"as_of":         asOf.Format(time.RFC3339),
		"lookback_days": lookbackDays,
	}))
}
