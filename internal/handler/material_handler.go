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

type MaterialHandler struct {
	materialService service.MaterialService
}

// NewMaterialHandler sets up the routing dependencies for material endpoints
func NewMaterialHandler(materialService service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *MaterialHandler) RegisterRoutes(router *gin.RouterGroup) {
	materials := router.Group("/materials")
	materials.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleCollaborator))
	{
		materials.GET("", h.ListMaterials)
		materials.GET("/:id", h.GetMaterialByID)
		materials.POST("", h.CreateMaterial)
		materials.PUT("/:id", h.UpdateMaterial)
		materials.DELETE("/:id", h.DeleteMaterial)
	}
}

// CreateMaterial handles POST /materials
// @Summary      Create material
// @Description  Registers a catalog material with a unique code and a positive unit price
// @Tags         materials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.MaterialRequest  true  "Material Payload"
// @Success      201      {object}  response.Response{data=service.MaterialResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /materials [post]
func (h *MaterialHandler) CreateMaterial(c *gin.Context) {
	var req service.MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	material, err := h.materialService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, material))
}

// ListMaterials handles GET /materials
// @Summary      List materials
// @Description  Retrieves the material catalog ordered by creation date
// @Tags         materials
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.MaterialResponse}
// @Failure      500  {object}  response.Response
// @Router       /materials [get]
func (h *MaterialHandler) ListMaterials(c *gin.Context) {
	materials, err := h.materialService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch materials"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, materials))
}

// GetMaterialByID handles GET /materials/:id
// @Summary      Get material by ID
// @Tags         materials
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Material ID"
// @Success      200  {object}  response.Response{data=service.MaterialResponse}
// @Failure      404  {object}  response.Response
// @Router       /materials/{id} [get]
func (h *MaterialHandler) GetMaterialByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Material not found"))
		return
	}

	material, err := h.materialService.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, material))
}

// UpdateMaterial handles PUT /materials/:id
// @Summary      Update material
// @Description  Replaces the material fields. A missing id is absorbed as a no-op.
// @Tags         materials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "Material ID"
// @Param        payload  body      service.MaterialRequest  true  "Material Payload"
// @Success      200      {object}  response.Response{data=service.MaterialResponse}
// @Failure      400      {object}  response.Response
// @Router       /materials/{id} [put]
func (h *MaterialHandler) UpdateMaterial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Material not found"))
		return
	}

	var req service.MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	material, err := h.materialService.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, material))
}

// DeleteMaterial handles DELETE /materials/:id
// @Summary      Delete material
// @Description  Removes a material from the catalog. Budget items keep their snapshotted description and price.
// @Tags         materials
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Material ID"
// @Success      200  {object}  response.Response
// @Router       /materials/{id} [delete]
func (h *MaterialHandler) DeleteMaterial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Material not found"))
		return
	}

	if err := h.materialService.Delete(c.Request.Context(), id); err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Material excluído", nil))
}
