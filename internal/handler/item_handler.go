package handler

import (
	"net/http"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	historyService service.ItemHistoryService
}

func NewItemHandler(historyService service.ItemHistoryService) *ItemHandler {
	return &ItemHandler{historyService: historyService}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/items")
	{
		items.POST("/changes", middleware.RequireRole(model.RoleAdmin), h.RecordChange)
		items.GET("/:code/history", middleware.RequireRole(model.RoleAdmin, model.RoleAuditor), h.GetHistory)
	}
}

// @Summary      Record Item Change
// @Description  Append a new state interval to an item's history, closing the currently open interval; creates the item on first sight
// @Tags         Items
// @Accept       json
// @Produce      json
// @Param        body body service.RecordItemChangeRequest true "New item state"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "Invalid request body"
// @Failure      500 {object} response.Response "Internal server error"
// @Security     BearerAuth
// @Router       /api/items/changes [post]
func (h *ItemHandler) RecordChange(c *gin.Context) {
	var req service.RecordItemChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	changedAt := time.Now().UTC()
	if req.ChangedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ChangedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid changed_at, expected RFC3339"))
			return
		}
		changedAt = parsed
	}

	userID := c.GetString("userID")

	version, err := h.historyService.RecordChange(c.Request.Context(), req, changedAt, userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, version))
}

// @Summary      Get Item History
// @Description  Return every state interval of one item in chronological order
// @Tags         Items
// @Produce      json
// @Param        code path string true "Item code"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "Item not found"
// @Failure      500 {object} response.Response "Internal server error"
// @Security     BearerAuth
// @Router       /api/items/{code}/history [get]
func (h *ItemHandler) GetHistory(c *gin.Context) {
	code := c.Param("code")

	versions, err := h.historyService.GetHistory(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, versions))
}
