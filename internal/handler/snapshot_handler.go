package handler

import (
	"errors"
	"net/http"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SnapshotHandler struct {
	snapshotService service.SnapshotService
}

func NewSnapshotHandler(snapshotService service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshotService}
}

func (h *SnapshotHandler) RegisterRoutes(router *gin.RouterGroup) {
	snapshots := router.Group("/api/snapshots")
	{
		snapshots.POST("/rebuild", middleware.RequireRole(model.RoleAdmin), h.Rebuild)
		snapshots.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleAuditor), h.List)
	}
}

type rebuildRequest struct {
	SnapshotDate string `json:"snapshot_date" binding:"required"` // YYYY-MM-DD
	RunID        string `json:"run_id"`                           // optional, generated when absent
}

// @Summary      Rebuild Daily Snapshot
// @Description  Reconstruct every item's state at the end-of-day cutoff and replace the snapshot set for that date
// @Tags         Snapshots
// @Accept       json
// @Produce      json
// @Param        body body rebuildRequest true "Rebuild parameters"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "Invalid date format"
// @Failure      409 {object} response.Response "Item history integrity violation"
// @Failure      500 {object} response.Response "Internal server error"
// @Security     BearerAuth
// @Router       /api/snapshots/rebuild [post]
func (h *SnapshotHandler) Rebuild(c *gin.Context) {
	var req rebuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	date, err := time.Parse("2006-01-02", req.SnapshotDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid snapshot_date, expected YYYY-MM-DD"))
		return
	}
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}

	result, err := h.snapshotService.Rebuild(c.Request.Context(), date, req.RunID)
	if err != nil {
		if errors.Is(err, service.ErrHistoryIntegrity) {
			c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// @Summary      List Snapshots
// @Description  Return the reconstructed snapshot rows of one date
// @Tags         Snapshots
// @Produce      json
// @Param        date query string true "Snapshot date (YYYY-MM-DD)"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "Invalid date format"
// @Failure      500 {object} response.Response "Internal server error"
// @Security     BearerAuth
// @Router       /api/snapshots [get]
func (h *SnapshotHandler) List(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD"))
		return
	}

	rows, err := h.snapshotService.GetSnapshots(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMeta(http.StatusOK, rows, gin.H{
		"snapshot_date": date.Format("2006-01-02"),
	}))
}
