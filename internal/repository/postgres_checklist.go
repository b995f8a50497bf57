package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wedplan-dev/wedplan-server/internal/models"
)

// Checklist repository methods
func (r *PostgresRepository) CreateChecklistCategory(ctx context.Context, category *models.ChecklistCategory) error {
	query := `INSERT INTO checklist_categories (id, budget_id, name, deleted) VALUES ($1, $2, $3, FALSE)`

	if category.ID == "" {
		category.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx, query, category.ID, category.BudgetID, category.Name)
	return err
}

func (r *PostgresRepository) GetChecklistCategory(ctx context.Context, budgetID, categoryID string) (*models.ChecklistCategory, error) {
	query := `SELECT * FROM checklist_categories WHERE id = $1 AND budget_id = $2 AND deleted = FALSE`

	var category models.ChecklistCategory
	err := r.db.GetContext(ctx, &category, query, categoryID, budgetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Checklist category not found
		}
		return nil, err
	}

	return &category, nil
}

// GetChecklistCategoryByName includes soft-deleted rows on purpose; the
// defaults sync must not re-seed a category the user removed.
func (r *PostgresRepository) GetChecklistCategoryByName(ctx context.Context, budgetID, name string) (*models.ChecklistCategory, error) {
	query := `SELECT * FROM checklist_categories WHERE budget_id = $1 AND name = $2 LIMIT 1`

	var category models.ChecklistCategory
	err := r.db.GetContext(ctx, &category, query, budgetID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Checklist category not found
		}
		return nil, err
	}

	return &category, nil
}

func (r *PostgresRepository) ListChecklistCategories(ctx context.Context, budgetID string) ([]models.ChecklistCategory, error) {
	query := `SELECT * FROM checklist_categories WHERE budget_id = $1 AND deleted = FALSE ORDER BY name ASC`

	var categories []models.ChecklistCategory
	err := r.db.SelectContext(ctx, &categories, query, budgetID)
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// SoftDeleteChecklistCategory marks the category's live items deleted and
// then the category itself, in one transaction. A concurrent reader sees
// either the whole cascade or none of it.
func (r *PostgresRepository) SoftDeleteChecklistCategory(ctx context.Context, budgetID, categoryID string) (bool, error) {
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

	_, err = tx.ExecContext(ctx,
		`UPDATE checklist_items SET deleted = TRUE
		WHERE category_id = $1 AND budget_id = $2 AND deleted = FALSE`,
		categoryID, budgetID)
	if err != nil {
		return false, err
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE checklist_categories SET deleted = TRUE
		WHERE id = $1 AND budget_id = $2 AND deleted = FALSE`,
		categoryID, budgetID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if rows == 0 {
		tx.Rollback()
		return false, nil // Category not found or already deleted
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}

	return true, nil
}

func (r *PostgresRepository) CreateChecklistItem(ctx context.Context, item *models.ChecklistItem) error {
	query := `
		INSERT INTO checklist_items (id, budget_id, category_id, name, completed, last_updated, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
	`

	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	if item.LastUpdated.IsZero() {
		item.LastUpdated = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.BudgetID, item.CategoryID, item.Name, item.Completed, item.LastUpdated)

	return err
}

func (r *PostgresRepository) GetChecklistItemByName(ctx context.Context, budgetID, categoryID, name string) (*models.ChecklistItem, error) {
	query := `SELECT * FROM checklist_items WHERE budget_id = $1 AND category_id = $2 AND name = $3 LIMIT 1`

	var item models.ChecklistItem
	err := r.db.GetContext(ctx, &item, query, budgetID, categoryID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Checklist item not found
		}
		return nil, err
	}

	return &item, nil
}

func (r *PostgresRepository) ListChecklistItems(ctx context.Context, budgetID string) ([]models.ChecklistItem, error) {
	query := `SELECT * FROM checklist_items WHERE budget_id = $1 AND deleted = FALSE ORDER BY name ASC`

	var items []models.ChecklistItem
	err := r.db.SelectContext(ctx, &items, query, budgetID)
	if err != nil {
		return nil, err
	}

	return items, nil
}

// ToggleChecklistItem flips completed and stamps last_updated in a single
// statement. The budget_id filter keeps the write inside the caller's budget;
// returns nil when the item is absent, deleted, or owned by another budget.
func (r *PostgresRepository) ToggleChecklistItem(ctx context.Context, budgetID, itemID string) (*models.ChecklistItem, error) {
	var item models.ChecklistItem
	err := r.db.QueryRowxContext(ctx,
		`UPDATE checklist_items SET completed = NOT completed, last_updated = $1
		WHERE id = $2 AND budget_id = $3 AND deleted = FALSE
		RETURNING id, budget_id, category_id, name, completed, last_updated, deleted`,
		time.Now().UTC(), itemID, budgetID).StructScan(&item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Item not found or deleted
		}
		return nil, err
	}

	return &item, nil
}

func (r *PostgresRepository) SoftDeleteChecklistItem(ctx context.Context, budgetID, itemID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE checklist_items SET deleted = TRUE
		WHERE id = $1 AND budget_id = $2 AND deleted = FALSE`,
		itemID, budgetID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// Timeline repository methods
func (r *PostgresRepository) CreateTimelineEvent(ctx context.Context, event *models.TimelineEvent) error {
	query := `
		INSERT INTO timeline_events (id, budget_id, name, date, event_time, note, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
	`

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.BudgetID, event.Name, event.Date, event.EventTime, event.Note)

	return err
}

func (r *PostgresRepository) GetTimelineEvent(ctx context.Context, budgetID, eventID string) (*models.TimelineEvent, error) {
	query := `SELECT * FROM timeline_events WHERE id = $1 AND budget_id = $2 AND deleted = FALSE`

	var event models.TimelineEvent
	err := r.db.GetContext(ctx, &event, query, eventID, budgetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Timeline event not found
		}
		return nil, err
	}

	return &event, nil
}

func (r *PostgresRepository) GetTimelineEventByName(ctx context.Context, budgetID, name string) (*models.TimelineEvent, error) {
	query := `SELECT * FROM timeline_events WHERE budget_id = $1 AND name = $2 LIMIT 1`

	var event models.TimelineEvent
	err := r.db.GetContext(ctx, &event, query, budgetID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Timeline event not found
		}
		return nil, err
	}

	return &event, nil
}

func (r *PostgresRepository) ListTimelineEvents(ctx context.Context, budgetID string) ([]models.TimelineEvent, error) {
	query := `SELECT * FROM timeline_events WHERE budget_id = $1 AND deleted = FALSE ORDER BY date ASC, event_time ASC`

	var events []models.TimelineEvent
	err := r.db.SelectContext(ctx, &events, query, budgetID)
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *PostgresRepository) UpdateTimelineEvent(ctx context.Context, event *models.TimelineEvent) error {
	query := `
		UPDATE timeline_events
		SET name = $1, date = $2, event_time = $3, note = $4
		WHERE id = $5 AND deleted = FALSE
	`

	_, err := r.db.ExecContext(ctx, query,
		event.Name, event.Date, event.EventTime, event.Note, event.ID)

	return err
}

func (r *PostgresRepository) SoftDeleteTimelineEvent(ctx context.Context, budgetID, eventID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE timeline_events SET deleted = TRUE
		WHERE id = $1 AND budget_id = $2 AND deleted = FALSE`,
		eventID, budgetID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}
