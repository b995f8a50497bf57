package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wedplan-dev/wedplan-server/internal/api/testutils"
	"github.com/wedplan-dev/wedplan-server/internal/models"
)

func TestConcurrentAddExpenses(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	budget := testutils.CreateTestBudget(t, testCtx, "Concurrent Adds")
	category := addCategory(t, testCtx, budget.ID, "Catering", 50000)

	const workers = 20
	const amount = 250.0

	path := fmt.Sprintf("/api/budgets/%s/expenses", budget.ID)

	var wg sync.WaitGroup
	codes := make([]int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			req := models.AddExpenseRequest{
				CategoryID: category.ID,
				Name:       fmt.Sprintf("Tasting %d", i),
				Amount:     amount,
			}

			w := testutils.PerformRequest(testCtx.Router, http.MethodPost, path, req, testutils.AuthHeaders(testCtx.TestUserJWT))
			codes[i] = w.Code
		}(i)
	}

	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusCreated, code, "request %d failed", i)
	}

	// The denormalized total must equal the sum of all live amounts
	assert.Equal(t, float64(workers)*amount, testutils.GetCategorySpent(t, testCtx, category.ID))
}

func TestConcurrentDeleteSameExpense(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	budget := testutils.CreateTestBudget(t, testCtx, "Concurrent Deletes")
	category := addCategory(t, testCtx, budget.ID, "Photography", 8000)

	addReq := models.AddExpenseRequest{
		CategoryID: category.ID,
		Name:       "Engagement shoot",
		Amount:     1200,
	}

	path := fmt.Sprintf("/api/budgets/%s/expenses", budget.ID)
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, path, addReq, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusCreated, w.Code)

	var expense models.Expense
	err := json.Unmarshal(w.Body.Bytes(), &expense)
	assert.NoError(t, err)

	expensePath := fmt.Sprintf("/api/budgets/%s/expenses/%s", budget.ID, expense.ID)

	const workers = 10

	var wg sync.WaitGroup
	codes := make([]int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			w := testutils.PerformRequest(testCtx.Router, http.MethodDelete, expensePath, nil, testutils.AuthHeaders(testCtx.TestUserJWT))
			codes[i] = w.Code
		}(i)
	}

	wg.Wait()

	// Exactly one delete wins; the rest see not-found
	succeeded := 0
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			succeeded++
		case http.StatusNotFound:
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 1, succeeded)

	// The amount was released exactly once
	assert.Equal(t, float64(0), testutils.GetCategorySpent(t, testCtx, category.ID))
}
