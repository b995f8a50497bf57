package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wedplan-dev/wedplan-server/internal/api/testutils"
	"github.com/wedplan-dev/wedplan-server/internal/models"
)

func createDefaultCategory(t *testing.T, testCtx *testutils.TestContext, name string, allocated float64, expenses []string) {
	req := models.CreateDefaultCategoryRequest{
		Name:      name,
		Allocated: allocated,
		Expenses:  expenses,
	}

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/admin/defaults/budget-categories", req, testutils.AuthHeaders(testCtx.AdminUserJWT))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func getBudgetDetail(t *testing.T, testCtx *testutils.TestContext, budgetID string) models.BudgetDetail {
	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, fmt.Sprintf("/api/budgets/%s", budgetID), nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	var detail models.BudgetDetail
	err := json.Unmarshal(w.Body.Bytes(), &detail)
	assert.NoError(t, err)

	return detail
}

func findCategory(detail models.BudgetDetail, name string) *models.Category {
	for i := range detail.Categories {
		if detail.Categories[i].Name == name {
			return &detail.Categories[i]
		}
	}
	return nil
}

func findExpense(detail models.BudgetDetail, name string) *models.Expense {
	for i := range detail.Expenses {
		if detail.Expenses[i].Name == name {
			return &detail.Expenses[i]
		}
	}
	return nil
}

func TestTemplateWriteSeedsExistingBudgets(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	budget := testutils.CreateTestBudget(t, testCtx, "Pre-existing")

	// Creating a template reconciles budgets that already exist
	createDefaultCategory(t, testCtx, "Florist", 2000, []string{"Bouquet"})

	detail := getBudgetDetail(t, testCtx, budget.ID)

	florist := findCategory(detail, "Florist")
	assert.NotNil(t, florist)
	assert.Equal(t, float64(2000), florist.Allocated)
	assert.Equal(t, float64(0), florist.Spent)

	bouquet := findExpense(detail, "Bouquet")
	assert.NotNil(t, bouquet)
	assert.Equal(t, florist.ID, bouquet.CategoryID)
	assert.Equal(t, float64(0), bouquet.Amount)
	assert.Nil(t, bouquet.Projected)
	// Seeded expenses land on the wedding day
	assert.Equal(t, detail.EventDate.Format("2006-01-02"), bouquet.Date.Format("2006-01-02"))
}

func TestNewBudgetIsSeededFromLibrary(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	createDefaultCategory(t, testCtx, "Venue", 15000, []string{"Deposit", "Final payment"})

	checklistReq := models.CreateDefaultChecklistCategoryRequest{
		Name:  "Legal",
		Items: []string{"Get marriage license"},
	}
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/admin/defaults/checklist-categories", checklistReq, testutils.AuthHeaders(testCtx.AdminUserJWT))
	assert.Equal(t, http.StatusCreated, w.Code)

	timelineReq := models.CreateDefaultTimelineEventRequest{Name: "Ceremony"}
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/admin/defaults/timeline", timelineReq, testutils.AuthHeaders(testCtx.AdminUserJWT))
	assert.Equal(t, http.StatusCreated, w.Code)

	budget := testutils.CreateTestBudget(t, testCtx, "Fresh")
	detail := getBudgetDetail(t, testCtx, budget.ID)

	venue := findCategory(detail, "Venue")
	assert.NotNil(t, venue)
	assert.Len(t, detail.Expenses, 2)

	assert.Len(t, detail.Checklist, 1)
	assert.Equal(t, "Legal", detail.Checklist[0].Name)
	assert.Len(t, detail.Checklist[0].Items, 1)
	assert.False(t, detail.Checklist[0].Items[0].Completed)

	assert.Len(t, detail.Timeline, 1)
	assert.Equal(t, "Ceremony", detail.Timeline[0].Name)
	assert.Equal(t, "00:00", detail.Timeline[0].EventTime)
	assert.Equal(t, detail.EventDate.Format("2006-01-02"), detail.Timeline[0].Date.Format("2006-01-02"))
}

func TestSyncIsIdempotent(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	createDefaultCategory(t, testCtx, "Florist", 2000, []string{"Bouquet", "Centerpieces"})
	budget := testutils.CreateTestBudget(t, testCtx, "Stable")

	before := getBudgetDetail(t, testCtx, budget.ID)

	// Run the batch sync twice more
	for i := 0; i < 2; i++ {
		w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/admin/defaults/sync", nil, testutils.AuthHeaders(testCtx.AdminUserJWT))
		assert.Equal(t, http.StatusOK, w.Code)

		var resp models.SyncResponse
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, 1, resp.BudgetsSynced)
	}

	after := getBudgetDetail(t, testCtx, budget.ID)
	assert.Len(t, after.Categories, len(before.Categories))
	assert.Len(t, after.Expenses, len(before.Expenses))
	assert.Len(t, after.Timeline, len(before.Timeline))
}

func TestSyncDoesNotOverwriteUserEdits(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	createDefaultCategory(t, testCtx, "Florist", 2000, []string{"Bouquet"})
	budget := testutils.CreateTestBudget(t, testCtx, "Edited")

	detail := getBudgetDetail(t, testCtx, budget.ID)
	florist := findCategory(detail, "Florist")
	assert.NotNil(t, florist)

	// The user adjusts their copy of the seeded category
	_, err := testCtx.DB.Exec("UPDATE categories SET allocated = 3500 WHERE id = $1", florist.ID)
	assert.NoError(t, err)

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/admin/defaults/sync", nil, testutils.AuthHeaders(testCtx.AdminUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	detail = getBudgetDetail(t, testCtx, budget.ID)
	florist = findCategory(detail, "Florist")
	assert.NotNil(t, florist)
	assert.Equal(t, float64(3500), florist.Allocated)
	assert.Len(t, detail.Categories, 1)
}

func TestSyncAfterRenameCreatesTemplateCopy(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	createDefaultCategory(t, testCtx, "Florist", 2000, nil)
	budget := testutils.CreateTestBudget(t, testCtx, "Renamed")

	detail := getBudgetDetail(t, testCtx, budget.ID)
	florist := findCategory(detail, "Florist")
	assert.NotNil(t, florist)

	// The user renames their copy; name matching is exact, so the next
	// sync materializes the template again alongside it
	_, err := testCtx.DB.Exec("UPDATE categories SET name = 'Flowers & Decor' WHERE id = $1", florist.ID)
	assert.NoError(t, err)

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/admin/defaults/sync", nil, testutils.AuthHeaders(testCtx.AdminUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	detail = getBudgetDetail(t, testCtx, budget.ID)
	assert.Len(t, detail.Categories, 2)
	assert.NotNil(t, findCategory(detail, "Flowers & Decor"))
	assert.NotNil(t, findCategory(detail, "Florist"))
}

func TestSyncDoesNotResurrectDeletedSeeds(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	createDefaultCategory(t, testCtx, "Florist", 2000, []string{"Bouquet"})
	budget := testutils.CreateTestBudget(t, testCtx, "Pruned")

	detail := getBudgetDetail(t, testCtx, budget.ID)
	bouquet := findExpense(detail, "Bouquet")
	assert.NotNil(t, bouquet)

	// The user removes the seeded expense
	path := fmt.Sprintf("/api/budgets/%s/expenses/%s", budget.ID, bouquet.ID)
	w := testutils.PerformRequest(testCtx.Router, http.MethodDelete, path, nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	// Sync must leave the deletion alone
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/admin/defaults/sync", nil, testutils.AuthHeaders(testCtx.AdminUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	detail = getBudgetDetail(t, testCtx, budget.ID)
	assert.Nil(t, findExpense(detail, "Bouquet"))
}

func TestAddingExpenseTemplateToExistingCategory(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	createDefaultCategory(t, testCtx, "Florist", 2000, []string{"Bouquet"})
	budget := testutils.CreateTestBudget(t, testCtx, "Grows")

	// Admin extends the template after the budget was seeded
	detailResp := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/admin/defaults/budget-categories", nil, testutils.AuthHeaders(testCtx.AdminUserJWT))
	assert.Equal(t, http.StatusOK, detailResp.Code)

	var listing struct {
		Categories []models.DefaultBudgetCategoryDetail `json:"categories"`
	}
	err := json.Unmarshal(detailResp.Body.Bytes(), &listing)
	assert.NoError(t, err)
	assert.Len(t, listing.Categories, 1)

	expensePath := fmt.Sprintf("/api/admin/defaults/budget-categories/%s/expenses", listing.Categories[0].ID)
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, expensePath, models.CreateDefaultExpenseRequest{Name: "Centerpieces"}, testutils.AuthHeaders(testCtx.AdminUserJWT))
	assert.Equal(t, http.StatusCreated, w.Code)

	// The write itself triggered reconciliation
	detail := getBudgetDetail(t, testCtx, budget.ID)
	assert.NotNil(t, findExpense(detail, "Bouquet"))
	assert.NotNil(t, findExpense(detail, "Centerpieces"))
	assert.Len(t, detail.Categories, 1)
}
