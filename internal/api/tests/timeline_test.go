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

func TestTimelineEventLifecycle(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	budget := testutils.CreateTestBudget(t, testCtx, "Timeline")

	addReq := models.AddTimelineEventRequest{
		Name: "First dance",
		Date: "2027-06-12",
		Time: "20:30",
	}

	path := fmt.Sprintf("/api/budgets/%s/timeline", budget.ID)
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, path, addReq, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusCreated, w.Code)

	var event models.TimelineEvent
	err := json.Unmarshal(w.Body.Bytes(), &event)
	assert.NoError(t, err)
	assert.Equal(t, "20:30", event.EventTime)

	// Update just the time
	newTime := "21:00"
	updateReq := models.UpdateTimelineEventRequest{Time: &newTime}

	eventPath := fmt.Sprintf("/api/budgets/%s/timeline/%s", budget.ID, event.ID)
	w = testutils.PerformRequest(testCtx.Router, http.MethodPatch, eventPath, updateReq, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.TimelineEvent
	err = json.Unmarshal(w.Body.Bytes(), &updated)
	assert.NoError(t, err)
	assert.Equal(t, "21:00", updated.EventTime)
	assert.Equal(t, "First dance", updated.Name)

	// Delete, then confirm repeat delete and update are not-found
	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete, eventPath, nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete, eventPath, nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodPatch, eventPath, updateReq, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
