package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wedplan-dev/wedplan-server/internal/api/testutils"
	"github.com/wedplan-dev/wedplan-server/internal/models"
)

// addCategory creates a category on the budget and returns it
func addCategory(t *testing.T, testCtx *testutils.TestContext, budgetID, name string, allocated float64) models.Category {
	req := models.CategoryPayload{Name: name, Allocated: allocated}

	path := fmt.Sprintf("/api/budgets/%s/categories", budgetID)
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, path, req, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusCreated, w.Code)

	var category models.Category
	err := json.Unmarshal(w.Body.Bytes(), &category)
	assert.NoError(t, err)
	assert.NotEmpty(t, category.ID)

	return category
}

func TestExpenseLifecycleKeepsSpentConsistent(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	budget := testutils.CreateTestBudget(t, testCtx, "Spent Tracking")
	category := addCategory(t, testCtx, budget.ID, "Venue", 30000)

	// Add an expense of 10000
	addReq := models.AddExpenseRequest{
		CategoryID: category.ID,
		Name:       "Deposit",
		Amount:     10000,
	}

	path := fmt.Sprintf("/api/budgets/%s/expenses", budget.ID)
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, path, addReq, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusCreated, w.Code)

	var expense models.Expense
	err := json.Unmarshal(w.Body.Bytes(), &expense)
	assert.NoError(t, err)
	assert.Equal(t, float64(10000), expense.Amount)
	assert.Equal(t, float64(10000), testutils.GetCategorySpent(t, testCtx, category.ID))

	// Raise the amount to 12000
	newAmount := float64(12000)
	updateReq := models.UpdateExpenseRequest{Amount: &newAmount}

	expensePath := fmt.Sprintf("/api/budgets/%s/expenses/%s", budget.ID, expense.ID)
	w = testutils.PerformRequest(testCtx.Router, http.MethodPatch, expensePath, updateReq, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(12000), testutils.GetCategorySpent(t, testCtx, category.ID))

	// Renaming alone must not move the total
	newName := "Final Payment"
	renameReq := models.UpdateExpenseRequest{Name: &newName}

	w = testutils.PerformRequest(testCtx.Router, http.MethodPatch, expensePath, renameReq, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(12000), testutils.GetCategorySpent(t, testCtx, category.ID))

	// Delete releases the amount
	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete, expensePath, nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), testutils.GetCategorySpent(t, testCtx, category.ID))

	// Second delete is not-found and must not decrement twice
	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete, expensePath, nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, float64(0), testutils.GetCategorySpent(t, testCtx, category.ID))

	// The deleted expense is out of the budget view
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, fmt.Sprintf("/api/budgets/%s", budget.ID), nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	var detail models.BudgetDetail
	err = json.Unmarshal(w.Body.Bytes(), &detail)
	assert.NoError(t, err)
	assert.Empty(t, detail.Expenses)
}

func TestAddExpenseToForeignCategory(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	budgetA := testutils.CreateTestBudget(t, testCtx, "Budget A")
	budgetB := testutils.CreateTestBudget(t, testCtx, "Budget B")
	categoryB := addCategory(t, testCtx, budgetB.ID, "Flowers", 2000)

	// Charging budget A against budget B's category must fail
	addReq := models.AddExpenseRequest{
		CategoryID: categoryB.ID,
		Name:       "Bouquet",
		Amount:     300,
	}

	path := fmt.Sprintf("/api/budgets/%s/expenses", budgetA.ID)
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, path, addReq, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, float64(0), testutils.GetCategorySpent(t, testCtx, categoryB.ID))
}

func TestUpdateRacingDeleteDoesNotChargeCategory(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	budget := testutils.CreateTestBudget(t, testCtx, "Race")
	category := addCategory(t, testCtx, budget.ID, "Venue", 30000)

	addReq := models.AddExpenseRequest{
		CategoryID: category.ID,
		Name:       "Deposit",
		Amount:     1200,
	}

	path := fmt.Sprintf("/api/budgets/%s/expenses", budget.ID)
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, path, addReq, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusCreated, w.Code)

	var created models.Expense
	err := json.Unmarshal(w.Body.Bytes(), &created)
	assert.NoError(t, err)

	ctx := context.Background()

	// An updater reads the expense, then a delete commits before its write
	stale, err := testCtx.Repository.GetExpense(ctx, budget.ID, created.ID)
	assert.NoError(t, err)
	assert.NotNil(t, stale)

	deleted, err := testCtx.Repository.SoftDeleteExpense(ctx, budget.ID, created.ID)
	assert.NoError(t, err)
	assert.NotNil(t, deleted)
	assert.Equal(t, float64(0), testutils.GetCategorySpent(t, testCtx, category.ID))

	// The stale write must be refused outright, delta included
	stale.Amount = 1500
	updated, err := testCtx.Repository.UpdateExpense(ctx, stale, 300)
	assert.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, float64(0), testutils.GetCategorySpent(t, testCtx, category.ID))
}

func TestUpdateDeletedExpense(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	budget := testutils.CreateTestBudget(t, testCtx, "Stale Update")
	category := addCategory(t, testCtx, budget.ID, "Music", 5000)

	addReq := models.AddExpenseRequest{
		CategoryID: category.ID,
		Name:       "Band deposit",
		Amount:     800,
	}

	path := fmt.Sprintf("/api/budgets/%s/expenses", budget.ID)
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, path, addReq, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusCreated, w.Code)

	var expense models.Expense
	err := json.Unmarshal(w.Body.Bytes(), &expense)
	assert.NoError(t, err)

	expensePath := fmt.Sprintf("/api/budgets/%s/expenses/%s", budget.ID, expense.ID)
	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete, expensePath, nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	// Updating a soft-deleted expense is not-found and leaves spent alone
	newAmount := float64(1500)
	updateReq := models.UpdateExpenseRequest{Amount: &newAmount}

	w = testutils.PerformRequest(testCtx.Router, http.MethodPatch, expensePath, updateReq, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, float64(0), testutils.GetCategorySpent(t, testCtx, category.ID))
}
