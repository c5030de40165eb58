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

type IntegrationHandler struct {
	integrationService service.IntegrationService
}

// NewIntegrationHandler sets up the routing dependencies for integration endpoints
func NewIntegrationHandler(integrationService service.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{integrationService: integrationService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *IntegrationHandler) RegisterRoutes(router *gin.RouterGroup) {
	integrations := router.Group("/integrations")
	integrations.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleCollaborator))
	{
		integrations.GET("", h.ListIntegrations)
		integrations.POST("/:id/connect", h.Connect)
		integrations.POST("/:id/disconnect", h.Disconnect)
		integrations.POST("/:id/sync", h.Sync)
	}
}

// ListIntegrations handles GET /integrations
// @Summary      List integrations
// @Description  Retrieves the cloud storage provider slots and their connection state
// @Tags         integrations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.Integration}
// @Failure      500  {object}  response.Response
// @Router       /integrations [get]
func (h *IntegrationHandler) ListIntegrations(c *gin.Context) {
	integrations, err := h.integrationService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch integrations"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, integrations))
}

// Connect handles POST /integrations/:id/connect
// @Summary      Connect integration
// @Description  Binds an account email to a provider slot and stamps the first sync
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                             true  "Integration ID"
// @Param        payload  body      service.ConnectIntegrationRequest  true  "Account Email"
// @Success      200      {object}  response.Response{data=model.Integration}
// @Failure      400      {object}  response.Response
// @Router       /integrations/{id}/connect [post]
func (h *IntegrationHandler) Connect(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Integration not found"))
		return
	}

	var req service.ConnectIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	integration, err := h.integrationService.Connect(c.Request.Context(), id, req.Email)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, integration))
}

// Disconnect handles POST /integrations/:id/disconnect
// @Summary      Disconnect integration
// @Description  Clears the connection state of a provider slot
// @Tags         integrations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Integration ID"
// @Success      200  {object}  response.Response{data=model.Integration}
// @Router       /integrations/{id}/disconnect [post]
func (h *IntegrationHandler) Disconnect(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Integration not found"))
		return
	}

	integration, err := h.integrationService.Disconnect(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, integration))
}

// Sync handles POST /integrations/:id/sync
// @Summary      Sync integration
// @Description  Stamps a fresh sync time on a connected slot
// @Tags         integrations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Integration ID"
// @Success      200  {object}  response.Response{data=model.Integration}
// @Router       /integrations/{id}/sync [post]
func (h *IntegrationHandler) Sync(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Integration not found"))
		return
	}

	integration, err := h.integrationService.Sync(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, integration))
}
