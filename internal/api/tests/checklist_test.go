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

func addChecklistCategory(t *testing.T, testCtx *testutils.TestContext, budgetID, name string) models.ChecklistCategory {
	req := models.AddChecklistCategoryRequest{Name: name}

	path := fmt.Sprintf("/api/budgets/%s/checklist/categories", budgetID)
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, path, req, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusCreated, w.Code)

	var category models.ChecklistCategory
	err := json.Unmarshal(w.Body.Bytes(), &category)
	assert.NoError(t, err)
	assert.NotEmpty(t, category.ID)

	return category
}

func addChecklistItem(t *testing.T, testCtx *testutils.TestContext, budgetID, categoryID, name string) models.ChecklistItem {
	req := models.AddChecklistItemRequest{CategoryID: categoryID, Name: name}

	path := fmt.Sprintf("/api/budgets/%s/checklist/items", budgetID)
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, path, req, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusCreated, w.Code)

	var item models.ChecklistItem
	err := json.Unmarshal(w.Body.Bytes(), &item)
	assert.NoError(t, err)
	assert.NotEmpty(t, item.ID)

	return item
}

func TestChecklistToggle(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	budget := testutils.CreateTestBudget(t, testCtx, "Checklist")
	category := addChecklistCategory(t, testCtx, budget.ID, "Paperwork")
	item := addChecklistItem(t, testCtx, budget.ID, category.ID, "Book registrar")

	assert.False(t, item.Completed)

	itemPath := fmt.Sprintf("/api/budgets/%s/checklist/items/%s", budget.ID, item.ID)

	w := testutils.PerformRequest(testCtx.Router, http.MethodPatch, itemPath, nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	var toggled models.ChecklistItem
	err := json.Unmarshal(w.Body.Bytes(), &toggled)
	assert.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.True(t, toggled.LastUpdated.After(item.LastUpdated) || toggled.LastUpdated.Equal(item.LastUpdated))

	// Toggling again flips it back
	w = testutils.PerformRequest(testCtx.Router, http.MethodPatch, itemPath, nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &toggled)
	assert.NoError(t, err)
	assert.False(t, toggled.Completed)
}

func TestToggleItemFromAnotherBudget(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	budgetA := testutils.CreateTestBudget(t, testCtx, "Budget A")
	budgetB := testutils.CreateTestBudget(t, testCtx, "Budget B")

	categoryB := addChecklistCategory(t, testCtx, budgetB.ID, "Vendors")
	itemB := addChecklistItem(t, testCtx, budgetB.ID, categoryB.ID, "Confirm caterer")

	// Toggling budget B's item through budget A's URL must not mutate it
	path := fmt.Sprintf("/api/budgets/%s/checklist/items/%s", budgetA.ID, itemB.ID)
	w := testutils.PerformRequest(testCtx.Router, http.MethodPatch, path, nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, fmt.Sprintf("/api/budgets/%s", budgetB.ID), nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	var detail models.BudgetDetail
	err := json.Unmarshal(w.Body.Bytes(), &detail)
	assert.NoError(t, err)
	assert.Len(t, detail.Checklist, 1)
	assert.Len(t, detail.Checklist[0].Items, 1)
	assert.False(t, detail.Checklist[0].Items[0].Completed)
	assert.Equal(t, itemB.LastUpdated.Unix(), detail.Checklist[0].Items[0].LastUpdated.Unix())
}

func TestChecklistItemDelete(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	budget := testutils.CreateTestBudget(t, testCtx, "Item Delete")
	category := addChecklistCategory(t, testCtx, budget.ID, "Attire")
	item := addChecklistItem(t, testCtx, budget.ID, category.ID, "Fit suit")

	itemPath := fmt.Sprintf("/api/budgets/%s/checklist/items/%s", budget.ID, item.ID)

	w := testutils.PerformRequest(testCtx.Router, http.MethodDelete, itemPath, nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	// Repeat delete is not-found
	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete, itemPath, nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// A deleted item cannot be toggled
	w = testutils.PerformRequest(testCtx.Router, http.MethodPatch, itemPath, nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChecklistCategoryCascadeDelete(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	budget := testutils.CreateTestBudget(t, testCtx, "Cascade")
	category := addChecklistCategory(t, testCtx, budget.ID, "Guests")
	keep := addChecklistCategory(t, testCtx, budget.ID, "Honeymoon")

	addChecklistItem(t, testCtx, budget.ID, category.ID, "Draft guest list")
	addChecklistItem(t, testCtx, budget.ID, category.ID, "Send invitations")
	survivor := addChecklistItem(t, testCtx, budget.ID, keep.ID, "Book flights")

	categoryPath := fmt.Sprintf("/api/budgets/%s/checklist/categories/%s", budget.ID, category.ID)

	w := testutils.PerformRequest(testCtx.Router, http.MethodDelete, categoryPath, nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	// Repeat delete is a no-op not-found
	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete, categoryPath, nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The budget view keeps the other category and its item
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, fmt.Sprintf("/api/budgets/%s", budget.ID), nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	var detail models.BudgetDetail
	err := json.Unmarshal(w.Body.Bytes(), &detail)
	assert.NoError(t, err)
	assert.Len(t, detail.Checklist, 1)
	assert.Equal(t, keep.ID, detail.Checklist[0].ID)
	assert.Len(t, detail.Checklist[0].Items, 1)
	assert.Equal(t, survivor.ID, detail.Checklist[0].Items[0].ID)
}
