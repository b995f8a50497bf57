package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wedplan-dev/wedplan-server/internal/models"
)

// Authentication handlers

func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), userID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) ListCurrencies(c *gin.Context) {
	currencies, err := h.service.ListCurrencies(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"currencies": currencies})
}

// Budget handlers

func (h *Handler) CreateBudget(c *gin.Context) {
	var req models.CreateBudgetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	budget, err := h.service.CreateBudget(c.Request.Context(), userID(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, budget)
}

func (h *Handler) GetBudgets(c *gin.Context) {
	budgets, err := h.service.GetBudgets(c.Request.Context(), userID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, budgets)
}

func (h *Handler) GetBudget(c *gin.Context) {
	budget, err := h.service.GetBudget(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, budget)
}

func (h *Handler) DeleteBudget(c *gin.Context) {
	if err := h.service.DeleteBudget(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Status: "success", Message: "Budget deleted"})
}

func (h *Handler) AddCategory(c *gin.Context) {
	var req models.CategoryPayload
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.service.AddCategory(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// Expense handlers

func (h *Handler) AddExpense(c *gin.Context) {
	var req models.AddExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	expense, err := h.service.AddExpense(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

func (h *Handler) UpdateExpense(c *gin.Context) {
	var req models.UpdateExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	expense, err := h.service.UpdateExpense(c.Request.Context(), userID(c), c.Param("id"), c.Param("expenseId"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

func (h *Handler) DeleteExpense(c *gin.Context) {
	if err := h.service.DeleteExpense(c.Request.Context(), userID(c), c.Param("id"), c.Param("expenseId")); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Status: "success", Message: "Expense deleted"})
}

// Checklist handlers

func (h *Handler) AddChecklistCategory(c *gin.Context) {
	var req models.AddChecklistCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.service.AddChecklistCategory(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *Handler) DeleteChecklistCategory(c *gin.Context) {
	if err := h.service.DeleteChecklistCategory(c.Request.Context(), userID(c), c.Param("id"), c.Param("categoryId")); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Status: "success", Message: "Checklist category deleted"})
}

func (h *Handler) AddChecklistItem(c *gin.Context) {
	var req models.AddChecklistItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.service.AddChecklistItem(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *Handler) ToggleChecklistItem(c *gin.Context) {
	item, err := h.service.ToggleChecklistItem(c.Request.Context(), userID(c), c.Param("id"), c.Param("itemId"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteChecklistItem(c *gin.Context) {
	if err := h.service.DeleteChecklistItem(c.Request.Context(), userID(c), c.Param("id"), c.Param("itemId")); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Status: "success", Message: "Checklist item deleted"})
}

// Timeline handlers

func (h *Handler) AddTimelineEvent(c *gin.Context) {
	var req models.AddTimelineEventRequest
	if !h.bindJSON(c, &req) {
		return
	}

	event, err := h.service.AddTimelineEvent(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *Handler) UpdateTimelineEvent(c *gin.Context) {
	var req models.UpdateTimelineEventRequest
	if !h.bindJSON(c, &req) {
		return
	}

	event, err := h.service.UpdateTimelineEvent(c.Request.Context(), userID(c), c.Param("id"), c.Param("eventId"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *Handler) DeleteTimelineEvent(c *gin.Context) {
	if err := h.service.DeleteTimelineEvent(c.Request.Context(), userID(c), c.Param("id"), c.Param("eventId")); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Status: "success", Message: "Timeline event deleted"})
}
