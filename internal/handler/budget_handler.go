package handler

import (
	"net/http"
	"time"

	"obrafacil/internal/middleware"
	"obrafacil/internal/model"
	"obrafacil/internal/repository"
	"obrafacil/internal/service"
	"obrafacil/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BudgetHandler struct {
	budgetService service.BudgetService
}

// NewBudgetHandler sets up the routing dependencies for budget endpoints
func NewBudgetHandler(budgetService service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *BudgetHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleCollaborator)

	budgets := router.Group("/budgets")
	budgets.Use(anyRole)
	{
		budgets.GET("", h.ListBudgets)
		budgets.GET("/comparison", h.Comparison)
		budgets.GET("/:id", h.GetBudgetByID)
		budgets.POST("", h.CreateBudget)
		budgets.PUT("/:id", h.UpdateBudget)
		budgets.DELETE("/:id", h.DeleteBudget)

		// Status changes are gated to approvers; the service enforces the same
		// rule for callers that reach it some other way.
		budgets.PATCH("/:id/status", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.ChangeStatus)

		// Deletion request protocol
		budgets.POST("/:id/request-deletion", h.RequestDeletion)
		budgets.POST("/:id/cancel-deletion-request", h.CancelDeletionRequest)
		budgets.POST("/:id/resolve-deletion-request", middleware.RequireRole(model.RoleAdmin), h.ResolveDeletionRequest)
	}
}

// parseBudgetFilter reads the optional from/to date window (YYYY-MM-DD)
func parseBudgetFilter(c *gin.Context) repository.BudgetFilter {
	filter := repository.BudgetFilter{}
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.From = t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.To = t
		}
	}
	return filter
}

// CreateBudget handles POST /budgets
// @Summary      Create budget
// @Description  Creates a budget in analysis state. Item prices are snapshotted and the total is computed server-side.
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateBudgetRequest  true  "Create Budget Payload"
// @Success      201      {object}  response.Response{data=service.BudgetResponse}
// @Failure      400      {object}  response.Response
// @Router       /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req service.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	budget, err := h.budgetService.Create(c.Request.Context(), middleware.ActorFromContext(c), req)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, budget))
}

// ListBudgets handles GET /budgets with an optional date window
// @Summary      List budgets
// @Description  Retrieves budgets ordered by creation date, optionally filtered by the budget date window
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "Window start (YYYY-MM-DD)"
// @Param        to    query     string  false  "Window end (YYYY-MM-DD)"
// @Success      200   {object}  response.Response{data=[]service.BudgetResponse}
// @Failure      500   {object}  response.Response
// @Router       /budgets [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	budgets, err := h.budgetService.List(c.Request.Context(), parseBudgetFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch budgets"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, budgets))
}

// GetBudgetByID handles GET /budgets/:id
// @Summary      Get budget by ID
// @Description  Fetch a single budget with its items
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Budget ID"
// @Success      200  {object}  response.Response{data=service.BudgetResponse}
// @Failure      404  {object}  response.Response
// @Router       /budgets/{id} [get]
func (h *BudgetHandler) GetBudgetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Budget not found"))
		return
	}

	budget, err := h.budgetService.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, budget))
}

// UpdateBudget handles PUT /budgets/:id
// @Summary      Update budget
// @Description  Replaces the budget contents and recomputes the total. A missing id is absorbed as a no-op.
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Budget ID"
// @Param        payload  body      service.UpdateBudgetRequest  true  "Update Budget Payload"
// @Success      200      {object}  response.Response{data=service.BudgetResponse}
// @Failure      400      {object}  response.Response
// @Router       /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Budget not found"))
		return
	}

	var req service.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	budget, err := h.budgetService.Update(c.Request.Context(), middleware.ActorFromContext(c), id, req)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, budget))
}

// DeleteBudget handles DELETE /budgets/:id
// @Summary      Delete budget
// @Description  Deletes a budget. Non-admins cannot delete approved budgets directly and must request deletion.
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Budget ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Budget not found"))
		return
	}

	if err := h.budgetService.Delete(c.Request.Context(), middleware.ActorFromContext(c), id); err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Orçamento excluído", nil))
}

// ChangeStatus handles PATCH /budgets/:id/status
// @Summary      Change budget status
// @Description  Moves the budget between analysis, approved and rejected. Approval stamps who approved and when; leaving approved clears the stamp.
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Budget ID"
// @Param        payload  body      service.ChangeStatusRequest  true  "Status Payload"
// @Success      200      {object}  response.Response{data=service.BudgetResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /budgets/{id}/status [patch]
func (h *BudgetHandler) ChangeStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Budget not found"))
		return
	}

	var req service.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	budget, err := h.budgetService.ChangeStatus(c.Request.Context(), middleware.ActorFromContext(c), id, req)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, budget))
}

// RequestDeletion handles POST /budgets/:id/request-deletion
// @Summary      Request budget deletion
// @Description  Opens a deletion request on an approved budget. Requires a non-empty reason; only one request may be pending.
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Budget ID"
// @Param        payload  body      service.RequestDeletionRequest   true  "Deletion Reason"
// @Success      200      {object}  response.Response{data=service.BudgetResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /budgets/{id}/request-deletion [post]
func (h *BudgetHandler) RequestDeletion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Budget not found"))
		return
	}

	var req service.RequestDeletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	budget, err := h.budgetService.RequestDeletion(c.Request.Context(), middleware.ActorFromContext(c), id, req.Reason)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, budget))
}

// CancelDeletionRequest handles POST /budgets/:id/cancel-deletion-request
// @Summary      Cancel deletion request
// @Description  Withdraws a pending deletion request. Allowed for the requester or an admin.
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Budget ID"
// @Success      200  {object}  response.Response{data=service.BudgetResponse}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /budgets/{id}/cancel-deletion-request [post]
func (h *BudgetHandler) CancelDeletionRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Budget not found"))
		return
	}

	budget, err := h.budgetService.CancelDeletionRequest(c.Request.Context(), middleware.ActorFromContext(c), id)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, budget))
}

// ResolveDeletionRequest handles POST /budgets/:id/resolve-deletion-request
// @Summary      Resolve deletion request
// @Description  Admin decision on a pending deletion request. Approving deletes the budget; denying clears the request and keeps it.
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Budget ID"
// @Param        payload  body      service.ResolveDeletionRequest  true  "Decision (approve or deny)"
// @Success      200      {object}  response.Response{data=service.BudgetResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /budgets/{id}/resolve-deletion-request [post]
func (h *BudgetHandler) ResolveDeletionRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Budget not found"))
		return
	}

	var req service.ResolveDeletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	budget, err := h.budgetService.ResolveDeletionRequest(c.Request.Context(), middleware.ActorFromContext(c), id, req.Action)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	if budget == nil {
		// Approved: the budget no longer exists.
		c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Orçamento excluído", nil))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, budget))
}

// Comparison handles GET /budgets/comparison
// @Summary      Compare budgets
// @Description  Returns the cheapest and most expensive budgets in the window, ignoring rejected ones unless everything is rejected
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "Window start (YYYY-MM-DD)"
// @Param        to    query     string  false  "Window end (YYYY-MM-DD)"
// @Success      200   {object}  response.Response{data=service.ComparisonResponse}
// @Failure      500   {object}  response.Response
// @Router       /budgets/comparison [get]
func (h *BudgetHandler) Comparison(c *gin.Context) {
	comparison, err := h.budgetService.Comparison(c.Request.Context(), parseBudgetFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute comparison"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, comparison))
}
