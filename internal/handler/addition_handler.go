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

type AdditionHandler struct {
	additionService service.AdditionService
}

// NewAdditionHandler sets up the routing dependencies for addition endpoints
func NewAdditionHandler(additionService service.AdditionService) *AdditionHandler {
	return &AdditionHandler{additionService: additionService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AdditionHandler) RegisterRoutes(router *gin.RouterGroup) {
	additions := router.Group("/additions")
	additions.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleCollaborator))
	{
		additions.GET("", h.ListAdditions)
		additions.POST("", h.CreateAddition)
		additions.PUT("/:id", h.UpdateAddition)
		additions.DELETE("/:id", h.DeleteAddition)
		additions.PATCH("/:id/cycle-status", h.CycleStatus)
	}
}

// CreateAddition handles POST /additions
// @Summary      Create addition
// @Description  Records a contract addition with cost and schedule impact, starting as pending
// @Tags         additions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.AdditionRequest  true  "Addition Payload"
// @Success      201      {object}  response.Response{data=service.AdditionResponse}
// @Failure      400      {object}  response.Response
// @Router       /additions [post]
func (h *AdditionHandler) CreateAddition(c *gin.Context) {
	var req service.AdditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	addition, err := h.additionService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, addition))
}

// ListAdditions handles GET /additions
// @Summary      List additions
// @Tags         additions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.AdditionResponse}
// @Failure      500  {object}  response.Response
// @Router       /additions [get]
func (h *AdditionHandler) ListAdditions(c *gin.Context) {
	additions, err := h.additionService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch additions"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, additions))
}

// UpdateAddition handles PUT /additions/:id
// @Summary      Update addition
// @Description  Replaces the addition fields. A missing id is absorbed as a no-op.
// @Tags         additions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "Addition ID"
// @Param        payload  body      service.AdditionRequest  true  "Addition Payload"
// @Success      200      {object}  response.Response{data=service.AdditionResponse}
// @Failure      400      {object}  response.Response
// @Router       /additions/{id} [put]
func (h *AdditionHandler) UpdateAddition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Addition not found"))
		return
	}

	var req service.AdditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	addition, err := h.additionService.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, addition))
}

// DeleteAddition handles DELETE /additions/:id
// @Summary      Delete addition
// @Tags         additions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Addition ID"
// @Success      200  {object}  response.Response
// @Router       /additions/{id} [delete]
func (h *AdditionHandler) DeleteAddition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Addition not found"))
		return
	}

	if err := h.additionService.Delete(c.Request.Context(), id); err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Aditivo excluído", nil))
}

// CycleStatus handles PATCH /additions/:id/cycle-status
// @Summary      Cycle addition status
// @Description  Advances the status one step: pending to approved, approved to rejected, rejected back to pending
// @Tags         additions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Addition ID"
// @Success      200  {object}  response.Response{data=service.AdditionResponse}
// @Router       /additions/{id}/cycle-status [patch]
func (h *AdditionHandler) CycleStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Addition not found"))
		return
	}

	addition, err := h.additionService.CycleStatus(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, addition))
}
