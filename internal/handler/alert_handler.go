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

type AlertHandler struct {
	flowService  service.FlowService
	alertService service.AlertService
}

func NewAlertHandler(flowService service.FlowService, alertService service.AlertService) *AlertHandler {
	return &AlertHandler{flowService: flowService, alertService: alertService}
}

func (h *AlertHandler) RegisterRoutes(router *gin.RouterGroup) {
	alerts := router.Group("/api/alerts")
	alerts.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAuditor))
	{
		alerts.GET("/flow", h.Flow)
		alerts.GET("/summary", h.Summary)
	}
}

// @Summary      Alert Flow and Backlog
// @Description  Dense daily series of created vs resolved alerts with the running backlog over the trailing window
// @Tags         Alerts
// @Produce      json
// @Param        as_of       query string false "Series end (RFC3339 or YYYY-MM-DD, default: now)"
// @Param        window_days query int    false "Window length in days (default 90)"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "Invalid parameter"
// @Failure      500 {object} response.Response "Internal server error"
// @Security     BearerAuth
// @Router       /api/alerts/flow [get]
func (h *AlertHandler) Flow(c *gin.Context) {
	asOf := time.Now().UTC()
	if v := c.Query("as_of"); v != "" {
		parsed, err := parseWindowParam(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid as_of"))
			return
		}
		asOf = parsed
	}

	windowDays := 90
	if v := c.Query("window_days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid window_days"))
			return
		}
		windowDays = parsed
	}

	points, err := h.flowService.AlertFlow(c.Request.Context(), asOf, windowDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMeta(http.StatusOK, points, gin.H{
		"as_of":       asOf.Format(time.RFC3339),
		"window_days": windowDays,
	}))
}

// @Summary      Alert Summary Statistics
// @Description  Distribution counts and monetary exposure statistics over alerts created in [start_date, end_date); defaults to the trailing 120 days
// @Tags         Alerts
// @Produce      json
// @Param        start_date query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param        end_date   query string false "Window end, exclusive (RFC3339 or YYYY-MM-DD)"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "Invalid parameter"
// @Failure      500 {object} response.Response "Internal server error"
// @Security     BearerAuth
// @Router       /api/alerts/summary [get]
func (h *AlertHandler) Summary(c *gin.Context) {
	end := time.Now().UTC()
	if v := c.Query("end_date"); v != "" {
		parsed, err := parseWindowParam(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid end_date"))
			return
		}
		end = parsed
	}

	start := end.AddDate(0, 0, -120)
	if v := c.Query("start_date"); v != "" {
		parsed, err := parseWindowParam(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid start_date"))
			return
		}
		start = parsed
	}

	summary, err := h.alertService.Summary(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMeta(http.StatusOK, summary, gin.H{
		"start_date": start.Format(time.RFC3339),
		"end_date":   end.Format(time.RFC3339),
	}))
}
