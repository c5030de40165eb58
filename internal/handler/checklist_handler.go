package handler

import (
	"net/http"

	"obrafacil/internal/middleware"
	"obrafacil/internal/model"
	"obrafacil/internal/service"
	"obrafacil/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChecklistHandler struct {
	checklistService service.ChecklistService
}

// NewChecklistHandler sets up the routing dependencies for checklist endpoints
func NewChecklistHandler(checklistService service.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{checklistService: checklistService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ChecklistHandler) RegisterRoutes(router *gin.RouterGroup) {
	checklist := router.Group("/checklist")
	checklist.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleCollaborator))
	{
		checklist.GET("", h.ListItems)
		checklist.GET("/progress", h.Progress)
		checklist.PATCH("/:id/toggle", h.ToggleItem)
	}
}

// ListItems handles GET /checklist
// @Summary      List checklist
// @Description  Retrieves the fixed quality checklist in its seed order
// @Tags         checklist
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.ChecklistItem}
// @Failure      500  {object}  response.Response
// @Router       /checklist [get]
func (h *ChecklistHandler) ListItems(c *gin.Context) {
	items, err := h.checklistService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch checklist"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// ToggleItem handles PATCH /checklist/:id/toggle
// @Summary      Toggle checklist item
// @Description  Flips the completed flag of one item. A missing id is absorbed as a no-op.
// @Tags         checklist
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Checklist Item ID"
// @Success      200  {object}  response.Response{data=model.ChecklistItem}
// @Router       /checklist/{id}/toggle [patch]
func (h *ChecklistHandler) ToggleItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Checklist item not found"))
		return
	}

	item, err := h.checklistService.Toggle(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// Progress handles GET /checklist/progress
// @Summary      Checklist progress
// @Description  Returns completed/total counts and the completion percentage
// @Tags         checklist
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.ChecklistProgress}
// @Failure      500  {object}  response.Response
// @Router       /checklist/progress [get]
func (h *ChecklistHandler) Progress(c *gin.Context) {
	progress, err := h.checklistService.Progress(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute progress"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, progress))
}
