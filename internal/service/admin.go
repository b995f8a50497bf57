package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wedplan-dev/wedplan-server/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Admin console operations: account provisioning, currency management and
// the default template library. Every template write kicks off a sync-all
// run; sync failures are logged rather than failing the admin's request,
// because the next template write or a manual sync completes the remainder.

func (s *DefaultService) AdminCreateUser(ctx context.Context, req models.AdminCreateUserRequest) (*models.User, error) {
	existing, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}

	if existing != nil {
		return nil, ErrEmailTaken
	}

	if req.CurrencyID != nil {
		currency, err := s.repo.GetCurrency(ctx, *req.CurrencyID)
		if err != nil {
			return nil, fmt.Errorf("error getting currency: %w", err)
		}
		if currency == nil {
			return nil, ErrNotFound
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	username, err := s.generateUniqueUsername(ctx, req.FullName)
	if err != nil {
		return nil, fmt.Errorf("error generating username: %w", err)
	}

	role := models.RoleUser
	if req.Role != nil {
		role = models.UserRole(*req.Role)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        req.Email,
		FullName:     req.FullName,
		PartnerName:  req.PartnerName,
		PasswordHash: string(hashedPassword),
		Role:         role,
		CurrencyID:   req.CurrencyID,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

func (s *DefaultService) AdminListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	return users, nil
}

func (s *DefaultService) AdminGetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, ErrNotFound
	}

	return user, nil
}

func (s *DefaultService) AdminUpdateUser(ctx context.Context, userID string, req models.AdminUpdateUserRequest) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, ErrNotFound
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.PartnerName != nil {
		user.PartnerName = req.PartnerName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = models.UserRole(*req.Role)
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.CurrencyID != nil {
		currency, err := s.repo.GetCurrency(ctx, *req.CurrencyID)
		if err != nil {
			return nil, fmt.Errorf("error getting currency: %w", err)
		}
		if currency == nil {
			return nil, ErrNotFound
		}
		user.CurrencyID = req.CurrencyID
	}
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return user, nil
}

func (s *DefaultService) AdminDeleteUser(ctx context.Context, userID string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return ErrNotFound
	}

	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}

	return nil
}

func (s *DefaultService) CreateCurrency(ctx context.Context, req models.CreateCurrencyRequest) (*models.Currency, error) {
	currency := &models.Currency{
		Code:   strings.ToUpper(req.Code),
		Name:   req.Name,
		Symbol: req.Symbol,
	}

	if err := s.repo.CreateCurrency(ctx, currency); err != nil {
		return nil, fmt.Errorf("error creating currency: %w", err)
	}

	return currency, nil
}

// DeleteCurrency refuses to remove a currency while any user still
// references it.
func (s *DefaultService) DeleteCurrency(ctx context.Context, currencyID string) error {
	currency, err := s.repo.GetCurrency(ctx, currencyID)
	if err != nil {
		return fmt.Errorf("error getting currency: %w", err)
	}

	if currency == nil {
		return ErrNotFound
	}

	count, err := s.repo.CountUsersByCurrency(ctx, currencyID)
	if err != nil {
		return fmt.Errorf("error counting currency users: %w", err)
	}

	if count > 0 {
		return ErrCurrencyInUse
	}

	if err := s.repo.DeleteCurrency(ctx, currencyID); err != nil {
		return fmt.Errorf("error deleting currency: %w", err)
	}

	return nil
}

// syncAfterTemplateWrite runs the batch sync behind a template mutation.
func (s *DefaultService) syncAfterTemplateWrite(ctx context.Context) {
	if _, err := s.SyncAllBudgets(ctx); err != nil {
		s.logger.Warn("defaults sync after template write failed: %v", err)
	}
}

func (s *DefaultService) CreateDefaultCategory(ctx context.Context, req models.CreateDefaultCategoryRequest) (*models.DefaultBudgetCategoryDetail, error) {
	category := &models.DefaultBudgetCategory{
		Name:      req.Name,
		Allocated: req.Allocated,
		Color:     req.Color,
	}

	expenses, err := s.repo.CreateDefaultCategory(ctx, category, req.Expenses)
	if err != nil {
		return nil, fmt.Errorf("error creating default category: %w", err)
	}

	s.syncAfterTemplateWrite(ctx)

	return &models.DefaultBudgetCategoryDetail{
		DefaultBudgetCategory: *category,
		Expenses:              expenses,
	}, nil
}

func (s *DefaultService) ListDefaultCategories(ctx context.Context) ([]models.DefaultBudgetCategoryDetail, error) {
	categories, err := s.repo.ListDefaultCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing default categories: %w", err)
	}

	expenses, err := s.repo.ListDefaultExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing default expenses: %w", err)
	}

	expensesByCategory := make(map[string][]models.DefaultBudgetExpense)
	for _, expense := range expenses {
		expensesByCategory[expense.DefaultCategoryID] = append(expensesByCategory[expense.DefaultCategoryID], expense)
	}

	details := make([]models.DefaultBudgetCategoryDetail, 0, len(categories))
	for _, category := range categories {
		detail := models.DefaultBudgetCategoryDetail{
			DefaultBudgetCategory: category,
			Expenses:              expensesByCategory[category.ID],
		}
		if detail.Expenses == nil {
			detail.Expenses = []models.DefaultBudgetExpense{}
		}
		details = append(details, detail)
	}

	return details, nil
}

func (s *DefaultService) CreateDefaultExpense(ctx context.Context, categoryID string, req models.CreateDefaultExpenseRequest) (*models.DefaultBudgetExpense, error) {
	category, err := s.repo.GetDefaultCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("error getting default category: %w", err)
	}

	if category == nil {
		return nil, ErrNotFound
	}

	expense := &models.DefaultBudgetExpense{
		DefaultCategoryID: categoryID,
		Name:              req.Name,
	}

	if err := s.repo.CreateDefaultExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("error creating default expense: %w", err)
	}

	s.syncAfterTemplateWrite(ctx)

	return expense, nil
}

func (s *DefaultService) CreateDefaultChecklistCategory(ctx context.Context, req models.CreateDefaultChecklistCategoryRequest) (*models.DefaultChecklistCategoryDetail, error) {
	category := &models.DefaultChecklistCategory{
		Name: req.Name,
	}

	items, err := s.repo.CreateDefaultChecklistCategory(ctx, category, req.Items)
	if err != nil {
		return nil, fmt.Errorf("error creating default checklist category: %w", err)
	}

	s.syncAfterTemplateWrite(ctx)

	return &models.DefaultChecklistCategoryDetail{
		DefaultChecklistCategory: *category,
		Items:                    items,
	}, nil
}

func (s *DefaultService) ListDefaultChecklistCategories(ctx context.Context) ([]models.DefaultChecklistCategoryDetail, error) {
	categories, err := s.repo.ListDefaultChecklistCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing default checklist categories: %w", err)
	}

	items, err := s.repo.ListDefaultChecklistItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing default checklist items: %w", err)
	}

	itemsByCategory := make(map[string][]models.DefaultChecklistItem)
	for _, item := range items {
		itemsByCategory[item.DefaultCategoryID] = append(itemsByCategory[item.DefaultCategoryID], item)
	}

	details := make([]models.DefaultChecklistCategoryDetail, 0, len(categories))
	for _, category := range categories {
		detail := models.DefaultChecklistCategoryDetail{
			DefaultChecklistCategory: category,
			Items:                    itemsByCategory[category.ID],
		}
		if detail.Items == nil {
			detail.Items = []models.DefaultChecklistItem{}
		}
		details = append(details, detail)
	}

	return details, nil
}

func (s *DefaultService) CreateDefaultChecklistItem(ctx context.Context, categoryID string, req models.CreateDefaultChecklistItemRequest) (*models.DefaultChecklistItem, error) {
	category, err := s.repo.GetDefaultChecklistCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("error getting default checklist category: %w", err)
	}

	if category == nil {
		return nil, ErrNotFound
	}

	item := &models.DefaultChecklistItem{
		DefaultCategoryID: categoryID,
		Name:              req.Name,
	}

	if err := s.repo.CreateDefaultChecklistItem(ctx, item); err != nil {
		return nil, fmt.Errorf("error creating default checklist item: %w", err)
	}

	s.syncAfterTemplateWrite(ctx)

	return item, nil
}

func (s *DefaultService) CreateDefaultTimelineEvent(ctx context.Context, req models.CreateDefaultTimelineEventRequest) (*models.DefaultTimelineEvent, error) {
	event := &models.DefaultTimelineEvent{
		Name: req.Name,
	}

	if err := s.repo.CreateDefaultTimelineEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("error creating default timeline event: %w", err)
	}

	s.syncAfterTemplateWrite(ctx)

	return event, nil
}

func (s *DefaultService) ListDefaultTimelineEvents(ctx context.Context) ([]models.DefaultTimelineEvent, error) {
	events, err := s.repo.ListDefaultTimelineEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing default timeline events: %w", err)
	}

	return events, nil
}
