package handler

import (
	"net/http"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ReconciliationHandler struct {
	reconciliationService service.ReconciliationService
}

func NewReconciliationHandler(reconciliationService service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationService: reconciliationService}
}

func (h *ReconciliationHandler) RegisterRoutes(router *gin.RouterGroup) {
	recon := router.Group("/api/reconciliation")
	{
		recon.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleAuditor), h.Reconcile)
	}
}

// parseWindowParam accepts RFC3339 or plain dates so dashboards can pass
// either; plain dates are midnight UTC.
func parseWindowParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// @Summary      Reconcile Payments Against Invoices
// @Description  Per-order diff of approved payments vs issued invoices over [start_date, end_date); defaults to the trailing 30 days
// @Tags         Reconciliation
// @Produce      json
// @Param        start_date query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param        end_date   query string false "Window end, exclusive (RFC3339 or YYYY-MM-DD)"
// @Param        threshold  query string false "Materiality threshold in currency units (default 0.01)"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "Invalid parameter"
// @Failure      500 {object} response.Response "Internal server error"
// @Security     BearerAuth
// @Router       /api/reconciliation [get]
func (h *ReconciliationHandler) Reconcile(c *gin.Context) {
	end := time.Now().UTC()
	if v := c.Query("end_date"); v != "" {
		parsed, err := parseWindowParam(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid end_date"))
			return
		}
		end = parsed
	}

	start := end.AddDate(0, 0, -30)
	if v := c.Query("start_date"); v != "" {
		parsed, err := parseWindowParam(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid start_date"))
			return
		}
		start = parsed
	}

	threshold := service.DefaultMaterialityThreshold
	if v := c.Query("threshold"); v != "" {
		parsed, err := decimal.NewFromString(v)
		if err != nil || parsed.IsNegative() {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid threshold"))
			return
		}
		threshold = parsed
	}

	records, err := h.reconciliationService.Reconcile(c.Request.Context(), start, end, threshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMeta(http.StatusOK, records, gin.H{
		"start_date": start.Format(time.RFC3339),
		"end_date":   end.Format(time.RFC3339),
		"threshold":  threshold.String(),
	}))
}
