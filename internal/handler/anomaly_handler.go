package handler

import (
	"net/http"
	"strconv"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AnomalyHandler struct {
	anomalyService service.AnomalyService
}

func NewAnomalyHandler(anomalyService service.AnomalyService) *AnomalyHandler {
	return &AnomalyHandler{anomalyService: anomalyService}
}

func (h *AnomalyHandler) RegisterRoutes(router *gin.RouterGroup) {
	anomalies := router.Group("/api/anomalies")
	{
		anomalies.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleAuditor), h.Detect)
	}
}

// @Summary      Detect Tax Rate Anomalies
// @Description  Weighted tax rate (sum of tax over sum of base) per category or jurisdiction, current window vs trailing baseline window, ranked by absolute deviation
// @Tags         Anomalies
// @Produce      json
// @Param        group_by       query string false "category (default) or jurisdiction"
// @Param        current_start  query string false "Current window start (default: 30 days before current_end)"
// @Param        current_end    query string false "Current window end, exclusive (default: now)"
// @Param        baseline_start query string false "Baseline window start (default: 365 days before baseline_end)"
// @Param        baseline_end   query string false "Baseline window end, exclusive (default: current_start)"
// @Param        limit          query int    false "Top-K truncation; 0 or absent returns all groups"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "Invalid parameter"
// @Failure      500 {object} response.Response "Internal server error"
// @Security     BearerAuth
// @Router       /api/anomalies [get]
func (h *AnomalyHandler) Detect(c *gin.Context) {
	groupBy := c.DefaultQuery("group_by", repository.GroupByCategory)

	curEnd := time.Now().UTC()
	if v := c.Query("current_end"); v != "" {
		parsed, err := parseWindowParam(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid current_end"))
			return
		}
		curEnd = parsed
	}

	curStart := curEnd.AddDate(0, 0, -30)
	if v := c.Query("current_start"); v != "" {
		parsed, err := parseWindowParam(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid current_start"))
			return
		}
		curStart = parsed
	}

	baseEnd := curStart
	if v := c.Query("baseline_end"); v != "" {
		parsed, err := parseWindowParam(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid baseline_end"))
			return
		}
		baseEnd = parsed
	}

	baseStart := baseEnd.AddDate(0, 0, -365)
	if v := c.Query("baseline_start"); v != "" {
		parsed, err := parseWindowParam(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid baseline_start"))
			return
		}
		baseStart = parsed
	}

	topK := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid limit"))
			return
		}
		topK = parsed
	}

	comparisons, err := h.anomalyService.DetectRateAnomalies(c.Request.Context(), groupBy, curStart, curEnd, baseStart, baseEnd, topK)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMeta(http.StatusOK, comparisons, gin.H{
		"group_by":       groupBy,
		"current_start":  curStart.Format(time.RFC3339),
		"current_end":    curEnd.Format(time.RFC3339),
		"baseline_start": baseStart.Format(time.RFC3339),
		"baseline_end":   baseEnd.Format(time.RFC3339),
		"limit":          topK,
	}))
}
