package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wedplan-dev/wedplan-server/internal/models"
)

// Default template repository methods. Templates are global rows owned by
// the admin console; the sync engine only ever reads them.

func (r *PostgresRepository) CreateDefaultCategory(
	ctx context.Context,
	category *models.DefaultBudgetCategory,
	expenseNames []string,
) ([]models.DefaultBudgetExpense, error) {
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

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	category.CreatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO default_budget_categories (id, name, allocated, color, created_at) VALUES ($1, $2, $3, $4, $5)`,
		category.ID, category.Name, category.Allocated, category.Color, category.CreatedAt)
	if err != nil {
		return nil, err
	}

	expenses := make([]models.DefaultBudgetExpense, 0, len(expenseNames))
	for _, name := range expenseNames {
		expense := models.DefaultBudgetExpense{
			ID:                uuid.New().String(),
			DefaultCategoryID: category.ID,
			Name:              name,
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO default_budget_expenses (id, default_category_id, name) VALUES ($1, $2, $3)`,
			expense.ID, expense.DefaultCategoryID, expense.Name)
		if err != nil {
			return nil, err
		}

		expenses = append(expenses, expense)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return expenses, nil
}

func (r *PostgresRepository) GetDefaultCategory(ctx context.Context, id string) (*models.DefaultBudgetCategory, error) {
	query := `SELECT * FROM default_budget_categories WHERE id = $1`

	var category models.DefaultBudgetCategory
	err := r.db.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Default category not found
		}
		return nil, err
	}

	return &category, nil
}

func (r *PostgresRepository) ListDefaultCategories(ctx context.Context) ([]models.DefaultBudgetCategory, error) {
	query := `SELECT * FROM default_budget_categories ORDER BY created_at DESC`

	var categories []models.DefaultBudgetCategory
	err := r.db.SelectContext(ctx, &categories, query)
	if err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *PostgresRepository) CreateDefaultExpense(ctx context.Context, expense *models.DefaultBudgetExpense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO default_budget_expenses (id, default_category_id, name) VALUES ($1, $2, $3)`,
		expense.ID, expense.DefaultCategoryID, expense.Name)

	return err
}

func (r *PostgresRepository) ListDefaultExpenses(ctx context.Context) ([]models.DefaultBudgetExpense, error) {
	query := `SELECT * FROM default_budget_expenses`

	var expenses []models.DefaultBudgetExpense
	err := r.db.SelectContext(ctx, &expenses, query)
	if err != nil {
		return nil, err
	}

	return expenses, nil
}

func (r *PostgresRepository) CreateDefaultChecklistCategory(
	ctx context.Context,
	category *models.DefaultChecklistCategory,
	itemNames []string,
) ([]models.DefaultChecklistItem, error) {
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

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	category.CreatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO default_checklist_categories (id, name, created_at) VALUES ($1, $2, $3)`,
		category.ID, category.Name, category.CreatedAt)
	if err != nil {
		return nil, err
	}

	items := make([]models.DefaultChecklistItem, 0, len(itemNames))
	for _, name := range itemNames {
		item := models.DefaultChecklistItem{
			ID:                uuid.New().String(),
			DefaultCategoryID: category.ID,
			Name:              name,
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO default_checklist_items (id, default_category_id, name) VALUES ($1, $2, $3)`,
			item.ID, item.DefaultCategoryID, item.Name)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *PostgresRepository) GetDefaultChecklistCategory(ctx context.Context, id string) (*models.DefaultChecklistCategory, error) {
	query := `SELECT * FROM default_checklist_categories WHERE id = $1`

	var category models.DefaultChecklistCategory
	err := r.db.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Default checklist category not found
		}
		return nil, err
	}

	return &category, nil
}

func (r *PostgresRepository) ListDefaultChecklistCategories(ctx context.Context) ([]models.DefaultChecklistCategory, error) {
	query := `SELECT * FROM default_checklist_categories ORDER BY created_at DESC`

	var categories []models.DefaultChecklistCategory
	err := r.db.SelectContext(ctx, &categories, query)
	if err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *PostgresRepository) CreateDefaultChecklistItem(ctx context.Context, item *models.DefaultChecklistItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO default_checklist_items (id, default_category_id, name) VALUES ($1, $2, $3)`,
		item.ID, item.DefaultCategoryID, item.Name)

	return err
}

func (r *PostgresRepository) ListDefaultChecklistItems(ctx context.Context) ([]models.DefaultChecklistItem, error) {
	query := `SELECT * FROM default_checklist_items`

	var items []models.DefaultChecklistItem
	err := r.db.SelectContext(ctx, &items, query)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *PostgresRepository) CreateDefaultTimelineEvent(ctx context.Context, event *models.DefaultTimelineEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO default_timeline_events (id, name, created_at) VALUES ($1, $2, $3)`,
		event.ID, event.Name, event.CreatedAt)

	return err
}

func (r *PostgresRepository) ListDefaultTimelineEvents(ctx context.Context) ([]models.DefaultTimelineEvent, error) {
	query := `SELECT * FROM default_timeline_events ORDER BY created_at DESC`

	var events []models.DefaultTimelineEvent
	err := r.db.SelectContext(ctx, &events, query)
	if err != nil {
		return nil, err
	}

	return events, nil
}
