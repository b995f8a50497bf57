package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wedplan-dev/wedplan-server/internal/models"
)

// Admin console handlers. All of these sit behind AdminMiddleware.

func (h *Handler) AdminListUsers(c *gin.Context) {
	users, err := h.service.AdminListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) AdminCreateUser(c *gin.Context) {
	var req models.AdminCreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.service.AdminCreateUser(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *Handler) AdminGetUser(c *gin.Context) {
	user, err := h.service.AdminGetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) AdminUpdateUser(c *gin.Context) {
	var req models.AdminUpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.service.AdminUpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) AdminDeleteUser(c *gin.Context) {
	if err := h.service.AdminDeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Status: "success", Message: "User deleted"})
}

func (h *Handler) CreateCurrency(c *gin.Context) {
	var req models.CreateCurrencyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	currency, err := h.service.CreateCurrency(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"currency": currency})
}

func (h *Handler) DeleteCurrency(c *gin.Context) {
	if err := h.service.DeleteCurrency(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Status: "success", Message: "Currency deleted"})
}

// Default template handlers

func (h *Handler) ListDefaultCategories(c *gin.Context) {
	categories, err := h.service.ListDefaultCategories(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) CreateDefaultCategory(c *gin.Context) {
	var req models.CreateDefaultCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.service.CreateDefaultCategory(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

func (h *Handler) CreateDefaultExpense(c *gin.Context) {
	var req models.CreateDefaultExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	expense, err := h.service.CreateDefaultExpense(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

func (h *Handler) ListDefaultChecklistCategories(c *gin.Context) {
	categories, err := h.service.ListDefaultChecklistCategories(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) CreateDefaultChecklistCategory(c *gin.Context) {
	var req models.CreateDefaultChecklistCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.service.CreateDefaultChecklistCategory(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

func (h *Handler) CreateDefaultChecklistItem(c *gin.Context) {
	var req models.CreateDefaultChecklistItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.service.CreateDefaultChecklistItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *Handler) ListDefaultTimelineEvents(c *gin.Context) {
	events, err := h.service.ListDefaultTimelineEvents(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *Handler) CreateDefaultTimelineEvent(c *gin.Context) {
	var req models.CreateDefaultTimelineEventRequest
	if !h.bindJSON(c, &req) {
		return
	}

	event, err := h.service.CreateDefaultTimelineEvent(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// SyncDefaults re-runs the batch reconciliation on demand, completing any
// partially applied earlier run.
func (h *Handler) SyncDefaults(c *gin.Context) {
	synced, err := h.service.SyncAllBudgets(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SyncResponse{Status: "success", BudgetsSynced: synced})
}
