package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/wedplan-dev/wedplan-server/internal/models"
	"github.com/wedplan-dev/wedplan-server/internal/repository"
	"github.com/wedplan-dev/wedplan-server/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors the HTTP layer maps to status codes
var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrCurrencyInUse      = errors.New("currency is in use by users")
	ErrInvalidDate        = errors.New("invalid date")
)

// Service defines all the business logic operations
type Service interface {
	// Authentication
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GetUser(ctx context.Context, userID string) (*models.UserProfile, error)
	ListCurrencies(ctx context.Context) ([]models.Currency, error)

	// Budget mutation
	CreateBudget(ctx context.Context, userID string, req models.CreateBudgetRequest) (*models.BudgetDetail, error)
	GetBudgets(ctx context.Context, userID string) ([]models.BudgetDetail, error)
	GetBudget(ctx context.Context, userID, budgetID string) (*models.BudgetDetail, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
	AddCategory(ctx context.Context, userID, budgetID string, req models.CategoryPayload) (*models.Category, error)
	AddExpense(ctx context.Context, userID, budgetID string, req models.AddExpenseRequest) (*models.Expense, error)
	UpdateExpense(ctx context.Context, userID, budgetID, expenseID string, req models.UpdateExpenseRequest) (*models.Expense, error)
	DeleteExpense(ctx context.Context, userID, budgetID, expenseID string) error
	AddChecklistCategory(ctx context.Context, userID, budgetID string, req models.AddChecklistCategoryRequest) (*models.ChecklistCategory, error)
	DeleteChecklistCategory(ctx context.Context, userID, budgetID, categoryID string) error
	AddChecklistItem(ctx context.Context, userID, budgetID string, req models.AddChecklistItemRequest) (*models.ChecklistItem, error)
	ToggleChecklistItem(ctx context.Context, userID, budgetID, itemID string) (*models.ChecklistItem, error)
	DeleteChecklistItem(ctx context.Context, userID, budgetID, itemID string) error
	AddTimelineEvent(ctx context.Context, userID, budgetID string, req models.AddTimelineEventRequest) (*models.TimelineEvent, error)
	UpdateTimelineEvent(ctx context.Context, userID, budgetID, eventID string, req models.UpdateTimelineEventRequest) (*models.TimelineEvent, error)
	DeleteTimelineEvent(ctx context.Context, userID, budgetID, eventID string) error

	// Defaults synchronization
	SyncBudgetDefaults(ctx context.Context, budgetID string) error
	SyncAllBudgets(ctx context.Context) (int, error)

	// Admin console
	AdminCreateUser(ctx context.Context, req models.AdminCreateUserRequest) (*models.User, error)
	AdminListUsers(ctx context.Context) ([]models.User, error)
	AdminGetUser(ctx context.Context, userID string) (*models.User, error)
	AdminUpdateUser(ctx context.Context, userID string, req models.AdminUpdateUserRequest) (*models.User, error)
	AdminDeleteUser(ctx context.Context, userID string) error
	CreateCurrency(ctx context.Context, req models.CreateCurrencyRequest) (*models.Currency, error)
	DeleteCurrency(ctx context.Context, currencyID string) error
	CreateDefaultCategory(ctx context.Context, req models.CreateDefaultCategoryRequest) (*models.DefaultBudgetCategoryDetail, error)
	ListDefaultCategories(ctx context.Context) ([]models.DefaultBudgetCategoryDetail, error)
	CreateDefaultExpense(ctx context.Context, categoryID string, req models.CreateDefaultExpenseRequest) (*models.DefaultBudgetExpense, error)
	CreateDefaultChecklistCategory(ctx context.Context, req models.CreateDefaultChecklistCategoryRequest) (*models.DefaultChecklistCategoryDetail, error)
	ListDefaultChecklistCategories(ctx context.Context) ([]models.DefaultChecklistCategoryDetail, error)
	CreateDefaultChecklistItem(ctx context.Context, categoryID string, req models.CreateDefaultChecklistItemRequest) (*models.DefaultChecklistItem, error)
	CreateDefaultTimelineEvent(ctx context.Context, req models.CreateDefaultTimelineEventRequest) (*models.DefaultTimelineEvent, error)
	ListDefaultTimelineEvents(ctx context.Context) ([]models.DefaultTimelineEvent, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	jwtSecret     []byte
	tokenDuration time.Duration
	syncWorkers   int
	logger        *utils.Logger
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, jwtSecret string, syncWorkers int, logger *utils.Logger) Service {
	if syncWorkers < 1 {
		syncWorkers = 1
	}

	return &DefaultService{
		repo:          repo,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour, // 24 hours token validity
		syncWorkers:   syncWorkers,
		logger:        logger,
	}
}

// Authentication methods
func (s *DefaultService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	// Check if user already exists
	existingUser, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}

	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	username, err := s.generateUniqueUsername(ctx, req.FullName)
	if err != nil {
		return nil, fmt.Errorf("error generating username: %w", err)
	}

	// Create the user
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        req.Email,
		FullName:     req.FullName,
		PartnerName:  &req.PartnerName,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleUser,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	// Get the user
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Generate JWT token
	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

func (s *DefaultService) GetUser(ctx context.Context, userID string) (*models.UserProfile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, ErrNotFound
	}

	profile := &models.UserProfile{User: *user}

	if user.CurrencyID != nil {
		currency, err := s.repo.GetCurrency(ctx, *user.CurrencyID)
		if err != nil {
			return nil, fmt.Errorf("error getting currency: %w", err)
		}
		profile.Currency = currency
	}

	return profile, nil
}

func (s *DefaultService) ListCurrencies(ctx context.Context) ([]models.Currency, error) {
	currencies, err := s.repo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing currencies: %w", err)
	}

	return currencies, nil
}

// Helper methods
func (s *DefaultService) generateJWT(user *models.User) (string, error) {
	expirationTime := time.Now().Add(s.tokenDuration)

	claims := jwt.MapClaims{
		"sub":  user.ID, // subject
		"role": string(user.Role),
		"exp":  expirationTime.Unix(),
		"iat":  time.Now().Unix(), // issued at
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// generateUniqueUsername derives a username from the full name and bumps a
// numeric suffix until it is free.
func (s *DefaultService) generateUniqueUsername(ctx context.Context, fullName string) (string, error) {
	base := utils.BuildBaseUsername(fullName)
	candidate := base

	for counter := 1; ; counter++ {
		existing, err := s.repo.GetUserByUsername(ctx, candidate)
		if err != nil {
			return "", err
		}

		if existing == nil {
			return candidate, nil
		}

		candidate = fmt.Sprintf("%s%d", base, counter)
	}
}

// parseDate accepts the two date shapes clients send: a bare day or a full
// RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}

	return t, nil
}
