package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wedplan-dev/wedplan-server/internal/models"
)

// Budget repository methods
func (r *PostgresRepository) CreateBudget(
	ctx context.Context,
	budget *models.Budget,
	categories []models.Category,
	timeline []models.TimelineEvent,
) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	budget.CreatedAt = now
	budget.UpdatedAt = now

	query := `
		INSERT INTO budgets (id, user_id, name, couple_names, event_date, total, notes, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9)
	`

	_, err = tx.ExecContext(ctx, query,
		budget.ID, budget.UserID, budget.Name, budget.CoupleNames,
		budget.EventDate, budget.Total, budget.Notes, budget.CreatedAt, budget.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range categories {
		categories[i].ID = uuid.New().String()
		categories[i].BudgetID = budget.ID

		_, err = tx.ExecContext(ctx,
			`INSERT INTO categories (id, budget_id, name, allocated, spent, color) VALUES ($1, $2, $3, $4, 0, $5)`,
			categories[i].ID, budget.ID, categories[i].Name, categories[i].Allocated, categories[i].Color)
		if err != nil {
			return err
		}
	}

	for i := range timeline {
		timeline[i].ID = uuid.New().String()
		timeline[i].BudgetID = budget.ID

		_, err = tx.ExecContext(ctx,
			`INSERT INTO timeline_events (id, budget_id, name, date, event_time, note, deleted) VALUES ($1, $2, $3, $4, $5, $6, FALSE)`,
			timeline[i].ID, budget.ID, timeline[i].Name, timeline[i].Date, timeline[i].EventTime, timeline[i].Note)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetBudget(ctx context.Context, budgetID string) (*models.Budget, error) {
	query := `SELECT * FROM budgets WHERE id = $1 AND deleted = FALSE`

	var budget models.Budget
	err := r.db.GetContext(ctx, &budget, query, budgetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Budget not found
		}
		return nil, err
	}

	return &budget, nil
}

func (r *PostgresRepository) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	query := `SELECT * FROM budgets WHERE user_id = $1 AND deleted = FALSE ORDER BY created_at DESC`

	var budgets []models.Budget
	err := r.db.SelectContext(ctx, &budgets, query, userID)
	if err != nil {
		return nil, err
	}

	return budgets, nil
}

func (r *PostgresRepository) ListBudgetIDs(ctx context.Context) ([]string, error) {
	query := `SELECT id FROM budgets WHERE deleted = FALSE`

	var ids []string
	err := r.db.SelectContext(ctx, &ids, query)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *PostgresRepository) SoftDeleteBudget(ctx context.Context, budgetID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET deleted = TRUE, updated_at = $1 WHERE id = $2 AND deleted = FALSE`,
		time.Now().UTC(), budgetID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// Category repository methods
func (r *PostgresRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `INSERT INTO categories (id, budget_id, name, allocated, spent, color) VALUES ($1, $2, $3, $4, $5, $6)`

	if category.ID == "" {
		category.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx, query,
		category.ID, category.BudgetID, category.Name, category.Allocated,
		category.Spent, category.Color)

	return err
}

func (r *PostgresRepository) GetCategory(ctx context.Context, budgetID, categoryID string) (*models.Category, error) {
	query := `SELECT * FROM categories WHERE id = $1 AND budget_id = $2`

	var category models.Category
	err := r.db.GetContext(ctx, &category, query, categoryID, budgetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Category not found
		}
		return nil, err
	}

	return &category, nil
}

func (r *PostgresRepository) GetCategoryByName(ctx context.Context, budgetID, name string) (*models.Category, error) {
	query := `SELECT * FROM categories WHERE budget_id = $1 AND name = $2 LIMIT 1`

	var category models.Category
	err := r.db.GetContext(ctx, &category, query, budgetID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Category not found
		}
		return nil, err
	}

	return &category, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context, budgetID string) ([]models.Category, error) {
	query := `SELECT * FROM categories WHERE budget_id = $1 ORDER BY name ASC`

	var categories []models.Category
	err := r.db.SelectContext(ctx, &categories, query, budgetID)
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// Expense repository methods
//
// Every write that changes an expense amount adjusts the owning category's
// spent column in the same transaction, using an in-database increment so
// concurrent writers against the same category cannot lose updates.
func (r *PostgresRepository) CreateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}

	query := `
		INSERT INTO expenses (id, budget_id, category_id, name, amount, projected, date, note, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE)
	`

	_, err = tx.ExecContext(ctx, query,
		expense.ID, expense.BudgetID, expense.CategoryID, expense.Name,
		expense.Amount, expense.Projected, expense.Date, expense.Note)
	if err != nil {
		return err
	}

	if expense.Amount != 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE categories SET spent = spent + $1 WHERE id = $2`,
			expense.Amount, expense.CategoryID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetExpense(ctx context.Context, budgetID, expenseID string) (*models.Expense, error) {
	query := `SELECT * FROM expenses WHERE id = $1 AND budget_id = $2 AND deleted = FALSE`

	var expense models.Expense
	err := r.db.GetContext(ctx, &expense, query, expenseID, budgetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Expense not found
		}
		return nil, err
	}

	return &expense, nil
}

// GetExpenseByName matches by name among all rows of the budget+category,
// deleted ones included, so the defaults sync never resurrects a seeded
// expense the user removed.
func (r *PostgresRepository) GetExpenseByName(ctx context.Context, budgetID, categoryID, name string) (*models.Expense, error) {
	query := `SELECT * FROM expenses WHERE budget_id = $1 AND category_id = $2 AND name = $3 LIMIT 1`

	var expense models.Expense
	err := r.db.GetContext(ctx, &expense, query, budgetID, categoryID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Expense not found
		}
		return nil, err
	}

	return &expense, nil
}

func (r *PostgresRepository) ListExpenses(ctx context.Context, budgetID string) ([]models.Expense, error) {
	query := `SELECT * FROM expenses WHERE budget_id = $1 AND deleted = FALSE ORDER BY date ASC`

	var expenses []models.Expense
	err := r.db.SelectContext(ctx, &expenses, query, budgetID)
	if err != nil {
		return nil, err
	}

	return expenses, nil
}

// UpdateExpense writes the new expense fields and applies the amount delta to
// the category total in one transaction. Returns false without touching spent
// when the expense is gone or already deleted, so an update racing a delete
// cannot charge the category for a dead row.
func (r *PostgresRepository) UpdateExpense(ctx context.Context, expense *models.Expense, amountDelta float64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	query := `
		UPDATE expenses
		SET name = $1, amount = $2, projected = $3, date = $4, note = $5
		WHERE id = $6 AND deleted = FALSE
	`

	result, err := tx.ExecContext(ctx, query,
		expense.Name, expense.Amount, expense.Projected, expense.Date,
		expense.Note, expense.ID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if rows == 0 {
		tx.Rollback()
		return false, nil // Expense not found or already deleted
	}

	if amountDelta != 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE categories SET spent = spent + $1 WHERE id = $2`,
			amountDelta, expense.CategoryID)
		if err != nil {
			return false, err
		}
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}

	return true, nil
}

// SoftDeleteExpense marks the expense deleted and gives its amount back to
// the category total. Returns nil when the expense is absent, already
// deleted, or owned by a different budget, so a repeated delete is a no-op
// that decrements spent exactly once.
func (r *PostgresRepository) SoftDeleteExpense(ctx context.Context, budgetID, expenseID string) (*models.Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	// The deleted = FALSE guard makes the flip atomic: only one of two
	// racing deletes sees a row come back.
	var expense models.Expense
	err = tx.QueryRowContext(ctx,
		`UPDATE expenses SET deleted = TRUE
		WHERE id = $1 AND budget_id = $2 AND deleted = FALSE
		RETURNING id, budget_id, category_id, name, amount, projected, date, note, deleted`,
		expenseID, budgetID).Scan(
		&expense.ID, &expense.BudgetID, &expense.CategoryID, &expense.Name,
		&expense.Amount, &expense.Projected, &expense.Date, &expense.Note, &expense.Deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = nil
			tx.Rollback()
			return nil, nil // Expense not found or already deleted
		}
		return nil, err
	}

	if expense.Amount != 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE categories SET spent = spent - $1 WHERE id = $2`,
			expense.Amount, expense.CategoryID)
		if err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &expense, nil
}
