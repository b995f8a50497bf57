package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wedplan-dev/wedplan-server/internal/models"
	"github.com/wedplan-dev/wedplan-server/internal/service"
)

// Handler holds the service and exposes the HTTP endpoints
type Handler struct {
	service service.Service
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service) *Handler {
	return &Handler{
		service: svc,
	}
}

// SetupRoutes registers all API routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.GET("/currencies", h.ListCurrencies)

	// Authenticated routes
	authed := api.Group("", AuthMiddleware())
	authed.GET("/auth/me", h.Me)

	budgets := authed.Group("/budgets")
	budgets.POST("", h.CreateBudget)
	budgets.GET("", h.GetBudgets)
	budgets.GET("/:id", h.GetBudget)
	budgets.DELETE("/:id", h.DeleteBudget)
	budgets.POST("/:id/categories", h.AddCategory)
	budgets.POST("/:id/expenses", h.AddExpense)
	budgets.PATCH("/:id/expenses/:expenseId", h.UpdateExpense)
	budgets.DELETE("/:id/expenses/:expenseId", h.DeleteExpense)
	budgets.POST("/:id/checklist/categories", h.AddChecklistCategory)
	budgets.DELETE("/:id/checklist/categories/:categoryId", h.DeleteChecklistCategory)
	budgets.POST("/:id/checklist/items", h.AddChecklistItem)
	budgets.PATCH("/:id/checklist/items/:itemId", h.ToggleChecklistItem)
	budgets.DELETE("/:id/checklist/items/:itemId", h.DeleteChecklistItem)
	budgets.POST("/:id/timeline", h.AddTimelineEvent)
	budgets.PATCH("/:id/timeline/:eventId", h.UpdateTimelineEvent)
	budgets.DELETE("/:id/timeline/:eventId", h.DeleteTimelineEvent)

	// Admin console routes
	admin := authed.Group("/admin", AdminMiddleware())
	admin.GET("/users", h.AdminListUsers)
	admin.POST("/users", h.AdminCreateUser)
	admin.GET("/users/:id", h.AdminGetUser)
	admin.PATCH("/users/:id", h.AdminUpdateUser)
	admin.DELETE("/users/:id", h.AdminDeleteUser)
	admin.GET("/currencies", h.ListCurrencies)
	admin.POST("/currencies", h.CreateCurrency)
	admin.DELETE("/currencies/:id", h.DeleteCurrency)
	admin.GET("/defaults/budget-categories", h.ListDefaultCategories)
	admin.POST("/defaults/budget-categories", h.CreateDefaultCategory)
	admin.POST("/defaults/budget-categories/:id/expenses", h.CreateDefaultExpense)
	admin.GET("/defaults/checklist-categories", h.ListDefaultChecklistCategories)
	admin.POST("/defaults/checklist-categories", h.CreateDefaultChecklistCategory)
	admin.POST("/defaults/checklist-categories/:id/items", h.CreateDefaultChecklistItem)
	admin.GET("/defaults/timeline", h.ListDefaultTimelineEvents)
	admin.POST("/defaults/timeline", h.CreateDefaultTimelineEvent)
	admin.POST("/defaults/sync", h.SyncDefaults)
}

// userID pulls the authenticated user id set by AuthMiddleware
func userID(c *gin.Context) string {
	return c.MustGet("userId").(string)
}

// handleError maps service errors to HTTP responses
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:  "error",
			Code:    "NOT_FOUND",
			Message: "Not found",
		})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Status:  "error",
			Code:    "EMAIL_TAKEN",
			Message: "Email already registered",
		})
	case errors.Is(err, service.ErrCurrencyInUse):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Status:  "error",
			Code:    "CURRENCY_IN_USE",
			Message: "Currency is in use by users",
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Status:  "error",
			Code:    "INVALID_CREDENTIALS",
			Message: "Invalid email or password",
		})
	case errors.Is(err, service.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "VALIDATION_FAILED",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:  "error",
			Code:    "INTERNAL_ERROR",
			Message: "Something went wrong",
		})
	}
}

// bindJSON binds the request body and writes the validation failure response
// itself; callers just return on false.
func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "VALIDATION_FAILED",
			Message: err.Error(),
		})
		return false
	}
	return true
}
