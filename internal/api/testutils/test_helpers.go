package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/wedplan-dev/wedplan-server/internal/api"
	"github.com/wedplan-dev/wedplan-server/internal/config"
	"github.com/wedplan-dev/wedplan-server/internal/models"
	"github.com/wedplan-dev/wedplan-server/internal/repository"
	"github.com/wedplan-dev/wedplan-server/internal/service"
	"github.com/wedplan-dev/wedplan-server/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestContext holds all dependencies for tests
type TestContext struct {
	Router       *gin.Engine
	Repository   repository.Repository
	Service      service.Service
	JWTSecret    []byte
	DB           *sqlx.DB
	TestUserID   string
	TestUserJWT  string
	AdminUserID  string
	AdminUserJWT string
}

// SetupTestContext creates a new test context with initialized dependencies
func SetupTestContext(t *testing.T) *TestContext {
	// Load configuration from environment
	cfg := config.LoadConfig()

	// Point at the test database
	cfg.Database.DBName = cfg.Database.TestDBName

	// Use a test JWT secret
	cfg.Auth.JWTSecret = "test-secret-key"

	// Set up database
	db, err := config.SetupDatabase(cfg)
	assert.NoError(t, err, "Failed to set up test database")

	// Create repository
	repo := repository.NewPostgresRepository(db)

	// Create service
	svc := service.NewDefaultService(repo, cfg.Auth.JWTSecret, cfg.Sync.Workers, utils.NewLogger())

	// Create API handler
	handler := api.NewHandler(svc)

	// Set up Gin router
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	// Set up routes
	handler.SetupRoutes(router)

	// Start from an empty database, then create a regular user and an admin
	cleanupTestDatabase(t, repo)
	testUserID, userToken := createTestUser(t, repo, cfg.Auth.JWTSecret, "testuser@example.com", models.RoleUser)
	adminUserID, adminToken := createTestUser(t, repo, cfg.Auth.JWTSecret, "admin@example.com", models.RoleAdmin)

	return &TestContext{
		Router:       router,
		Repository:   repo,
		Service:      svc,
		JWTSecret:    []byte(cfg.Auth.JWTSecret),
		DB:           db,
		TestUserID:   testUserID,
		TestUserJWT:  userToken,
		AdminUserID:  adminUserID,
		AdminUserJWT: adminToken,
	}
}

// CleanupTestContext cleans up test resources
func CleanupTestContext(t *TestContext) {
	if t.DB != nil {
		cleanupTestDatabase(nil, t.Repository)
		t.DB.Close()
	}
}

// cleanupTestDatabase removes any existing test data; children first, to
// satisfy foreign keys
func cleanupTestDatabase(t *testing.T, repo repository.Repository) {
	pgRepo, ok := repo.(*repository.PostgresRepository)
	if !ok {
		return
	}
	db := pgRepo.GetDB()

	tables := []string{
		"checklist_items",
		"checklist_categories",
		"timeline_events",
		"expenses",
		"categories",
		"budgets",
		"default_budget_expenses",
		"default_budget_categories",
		"default_checklist_items",
		"default_checklist_categories",
		"default_timeline_events",
		"users",
		"currencies",
	}

	for _, table := range tables {
		_, err := db.Exec("DELETE FROM " + table)
		if t != nil && err != nil {
			t.Logf("Warning: Failed to clean %s: %v", table, err)
		}
	}
}

// createTestUser inserts a user with the given role and returns its id and a
// signed JWT
func createTestUser(t *testing.T, repo repository.Repository, jwtSecret, email string, role models.UserRole) (string, string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("testpassword"), bcrypt.DefaultCost)

	partner := "Test Partner"
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     "testuser" + uuid.New().String()[:8],
		Email:        email,
		FullName:     "Test User",
		PartnerName:  &partner,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	err := repo.CreateUser(context.Background(), user)
	assert.NoError(t, err, "Failed to create test user")

	// Generate JWT token with the provided secret key
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(jwtSecret))
	assert.NoError(t, err, "Failed to generate JWT token")

	return user.ID, tokenString
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}

// CreateTestBudget creates a budget through the API and returns its detail
func CreateTestBudget(t *testing.T, testCtx *TestContext, name string) models.BudgetDetail {
	req := models.CreateBudgetRequest{
		Name:        name,
		CoupleNames: "Alex & Sam",
		EventDate:   "2027-06-12",
		Total:       50000,
	}

	w := PerformRequest(testCtx.Router, http.MethodPost, "/api/budgets", req, AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusCreated, w.Code, "Failed to create test budget")

	var budget models.BudgetDetail
	err := json.Unmarshal(w.Body.Bytes(), &budget)
	assert.NoError(t, err)
	assert.NotEmpty(t, budget.ID)

	return budget
}

// GetCategorySpent reads a category's spent column directly
func GetCategorySpent(t *testing.T, testCtx *TestContext, categoryID string) float64 {
	pgRepo := testCtx.Repository.(*repository.PostgresRepository)

	var spent float64
	err := pgRepo.GetDB().Get(&spent, "SELECT spent FROM categories WHERE id = $1", categoryID)
	assert.NoError(t, err)

	return spent
}

// CountRows counts rows in a table matching the budget id
func CountRows(t *testing.T, testCtx *TestContext, table, budgetID string) int {
	pgRepo := testCtx.Repository.(*repository.PostgresRepository)

	var count int
	err := pgRepo.GetDB().Get(&count, "SELECT COUNT(*) FROM "+table+" WHERE budget_id = $1", budgetID)
	assert.NoError(t, err)

	return count
}
