package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/wedplan-dev/wedplan-server/internal/models"
)

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
	CountUsersByCurrency(ctx context.Context, currencyID string) (int, error)

	// Currency operations
	CreateCurrency(ctx context.Context, currency *models.Currency) error
	GetCurrency(ctx context.Context, id string) (*models.Currency, error)
	ListCurrencies(ctx context.Context) ([]models.Currency, error)
	DeleteCurrency(ctx context.Context, id string) error

	// Budget operations
	CreateBudget(ctx context.Context, budget *models.Budget, categories []models.Category, timeline []models.TimelineEvent) error
	GetBudget(ctx context.Context, budgetID string) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID string) ([]models.Budget, error)
	ListBudgetIDs(ctx context.Context) ([]string, error)
	SoftDeleteBudget(ctx context.Context, budgetID string) (bool, error)

	// Category operations
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, budgetID, categoryID string) (*models.Category, error)
	GetCategoryByName(ctx context.Context, budgetID, name string) (*models.Category, error)
	ListCategories(ctx context.Context, budgetID string) ([]models.Category, error)

	// Expense operations
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, budgetID, expenseID string) (*models.Expense, error)
	GetExpenseByName(ctx context.Context, budgetID, categoryID, name string) (*models.Expense, error)
	ListExpenses(ctx context.Context, budgetID string) ([]models.Expense, error)
	UpdateExpense(ctx context.Context, expense *models.Expense, amountDelta float64) (bool, error)
	SoftDeleteExpense(ctx context.Context, budgetID, expenseID string) (*models.Expense, error)

	// Checklist operations
	CreateChecklistCategory(ctx context.Context, category *models.ChecklistCategory) error
	GetChecklistCategory(ctx context.Context, budgetID, categoryID string) (*models.ChecklistCategory, error)
	GetChecklistCategoryByName(ctx context.Context, budgetID, name string) (*models.ChecklistCategory, error)
	ListChecklistCategories(ctx context.Context, budgetID string) ([]models.ChecklistCategory, error)
	SoftDeleteChecklistCategory(ctx context.Context, budgetID, categoryID string) (bool, error)
	CreateChecklistItem(ctx context.Context, item *models.ChecklistItem) error
	GetChecklistItemByName(ctx context.Context, budgetID, categoryID, name string) (*models.ChecklistItem, error)
	ListChecklistItems(ctx context.Context, budgetID string) ([]models.ChecklistItem, error)
	ToggleChecklistItem(ctx context.Context, budgetID, itemID string) (*models.ChecklistItem, error)
	SoftDeleteChecklistItem(ctx context.Context, budgetID, itemID string) (bool, error)

	// Timeline operations
	CreateTimelineEvent(ctx context.Context, event *models.TimelineEvent) error
	GetTimelineEvent(ctx context.Context, budgetID, eventID string) (*models.TimelineEvent, error)
	GetTimelineEventByName(ctx context.Context, budgetID, name string) (*models.TimelineEvent, error)
	ListTimelineEvents(ctx context.Context, budgetID string) ([]models.TimelineEvent, error)
	UpdateTimelineEvent(ctx context.Context, event *models.TimelineEvent) error
	SoftDeleteTimelineEvent(ctx context.Context, budgetID, eventID string) (bool, error)

	// Default template operations
	CreateDefaultCategory(ctx context.Context, category *models.DefaultBudgetCategory, expenseNames []string) ([]models.DefaultBudgetExpense, error)
	GetDefaultCategory(ctx context.Context, id string) (*models.DefaultBudgetCategory, error)
	ListDefaultCategories(ctx context.Context) ([]models.DefaultBudgetCategory, error)
	CreateDefaultExpense(ctx context.Context, expense *models.DefaultBudgetExpense) error
	ListDefaultExpenses(ctx context.Context) ([]models.DefaultBudgetExpense, error)
	CreateDefaultChecklistCategory(ctx context.Context, category *models.DefaultChecklistCategory, itemNames []string) ([]models.DefaultChecklistItem, error)
	GetDefaultChecklistCategory(ctx context.Context, id string) (*models.DefaultChecklistCategory, error)
	ListDefaultChecklistCategories(ctx context.Context) ([]models.DefaultChecklistCategory, error)
	CreateDefaultChecklistItem(ctx context.Context, item *models.DefaultChecklistItem) error
	ListDefaultChecklistItems(ctx context.Context) ([]models.DefaultChecklistItem, error)
	CreateDefaultTimelineEvent(ctx context.Context, event *models.DefaultTimelineEvent) error
	ListDefaultTimelineEvents(ctx context.Context) ([]models.DefaultTimelineEvent, error)
}

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// User repository methods
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, full_name, partner_name, role, currency_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	// Generate a new UUID if not provided
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	if user.Role == "" {
		user.Role = models.RoleUser
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.FullName,
		user.PartnerName, user.Role, user.CurrencyID, user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT * FROM users WHERE username = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT * FROM users ORDER BY created_at DESC`

	var users []models.User
	err := r.db.SelectContext(ctx, &users, query)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, full_name = $4,
			partner_name = $5, role = $6, currency_id = $7, updated_at = $8
		WHERE id = $9
	`

	user.UpdatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.FullName,
		user.PartnerName, user.Role, user.CurrencyID, user.UpdatedAt, user.ID)

	return err
}

// DeleteUser removes a user permanently; budgets and their children go with
// it through the ON DELETE CASCADE constraints.
func (r *PostgresRepository) DeleteUser(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) CountUsersByCurrency(ctx context.Context, currencyID string) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE currency_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, currencyID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Currency repository methods
func (r *PostgresRepository) CreateCurrency(ctx context.Context, currency *models.Currency) error {
	query := `INSERT INTO currencies (id, code, name, symbol) VALUES ($1, $2, $3, $4)`

	if currency.ID == "" {
		currency.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx, query,
		currency.ID, currency.Code, currency.Name, currency.Symbol)

	return err
}

func (r *PostgresRepository) GetCurrency(ctx context.Context, id string) (*models.Currency, error) {
	query := `SELECT * FROM currencies WHERE id = $1`

	var currency models.Currency
	err := r.db.GetContext(ctx, &currency, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Currency not found
		}
		return nil, err
	}

	return &currency, nil
}

func (r *PostgresRepository) ListCurrencies(ctx context.Context) ([]models.Currency, error) {
	query := `SELECT * FROM currencies ORDER BY code ASC`

	var currencies []models.Currency
	err := r.db.SelectContext(ctx, &currencies, query)
	if err != nil {
		return nil, err
	}

	return currencies, nil
}

func (r *PostgresRepository) DeleteCurrency(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM currencies WHERE id = $1`, id)
	return err
}
