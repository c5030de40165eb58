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

type MeasurementHandler struct {
	measurementService service.MeasurementService
}

// NewMeasurementHandler sets up the routing dependencies for measurement endpoints
func NewMeasurementHandler(measurementService service.MeasurementService) *MeasurementHandler {
	return &MeasurementHandler{measurementService: measurementService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *MeasurementHandler) RegisterRoutes(router *gin.RouterGroup) {
	measurements := router.Group("/measurements")
	measurements.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleCollaborator))
	{
		measurements.GET("", h.ListMeasurements)
		measurements.POST("", h.CreateMeasurement)
		measurements.DELETE("/:id", h.DeleteMeasurement)
	}
}

// CreateMeasurement handles POST /measurements
// @Summary      Create measurement
// @Description  Records a progress measurement for a construction stage with optional photos
// @Tags         measurements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateMeasurementRequest  true  "Measurement Payload"
// @Success      201      {object}  response.Response{data=service.MeasurementResponse}
// @Failure      400      {object}  response.Response
// @Router       /measurements [post]
func (h *MeasurementHandler) CreateMeasurement(c *gin.Context) {
	var req service.CreateMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	measurement, err := h.measurementService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, measurement))
}

// ListMeasurements handles GET /measurements
// @Summary      List measurements
// @Description  Retrieves measurements newest first, photos included
// @Tags         measurements
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.MeasurementResponse}
// @Failure      500  {object}  response.Response
// @Router       /measurements [get]
func (h *MeasurementHandler) ListMeasurements(c *gin.Context) {
	measurements, err := h.measurementService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch measurements"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, measurements))
}

// DeleteMeasurement handles DELETE /measurements/:id
// @Summary      Delete measurement
// @Description  Removes a measurement and its photos
// @Tags         measurements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Measurement ID"
// @Success      200  {object}  response.Response
// @Router       /measurements/{id} [delete]
func (h *MeasurementHandler) DeleteMeasurement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Measurement not found"))
		return
	}

	if err := h.measurementService.Delete(c.Request.Context(), id); err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Medição excluída", nil))
}
