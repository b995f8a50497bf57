package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wedplan-dev/wedplan-server/internal/models"
)

// requireBudget resolves a live budget and checks it belongs to the caller.
// Foreign budgets surface as ErrNotFound, not as a permission error, so the
// API never confirms another user's budget exists.
func (s *DefaultService) requireBudget(ctx context.Context, userID, budgetID string) (*models.Budget, error) {
	budget, err := s.repo.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("error getting budget: %w", err)
	}

	if budget == nil || budget.UserID != userID {
		return nil, ErrNotFound
	}

	return budget, nil
}

func (s *DefaultService) CreateBudget(ctx context.Context, userID string, req models.CreateBudgetRequest) (*models.BudgetDetail, error) {
	eventDate, err := parseDate(req.EventDate)
	if err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:      userID,
		Name:        req.Name,
		CoupleNames: req.CoupleNames,
		EventDate:   eventDate,
		Total:       req.Total,
		Notes:       req.Notes,
	}

	categories := make([]models.Category, 0, len(req.Categories))
	for _, payload := range req.Categories {
		categories = append(categories, models.Category{
			Name:      payload.Name,
			Allocated: payload.Allocated,
			Color:     payload.Color,
		})
	}

	timeline := make([]models.TimelineEvent, 0, len(req.Timeline))
	for _, payload := range req.Timeline {
		date, err := parseDate(payload.Date)
		if err != nil {
			return nil, err
		}

		timeline = append(timeline, models.TimelineEvent{
			Name:      payload.Name,
			Date:      date,
			EventTime: payload.Time,
			Note:      payload.Note,
		})
	}

	if err := s.repo.CreateBudget(ctx, budget, categories, timeline); err != nil {
		return nil, fmt.Errorf("error creating budget: %w", err)
	}

	// Seed the new budget from the default template library. Sync is
	// idempotent, so a failure here just leaves the seeding to the next
	// admin-triggered run.
	if err := s.SyncBudgetDefaults(ctx, budget.ID); err != nil {
		s.logger.Warn("defaults sync after budget create failed for budget %s: %v", budget.ID, err)
	}

	return s.buildBudgetDetail(ctx, budget)
}

func (s *DefaultService) GetBudgets(ctx context.Context, userID string) ([]models.BudgetDetail, error) {
	budgets, err := s.repo.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing budgets: %w", err)
	}

	details := make([]models.BudgetDetail, 0, len(budgets))
	for i := range budgets {
		detail, err := s.buildBudgetDetail(ctx, &budgets[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}

	return details, nil
}

func (s *DefaultService) GetBudget(ctx context.Context, userID, budgetID string) (*models.BudgetDetail, error) {
	budget, err := s.requireBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	return s.buildBudgetDetail(ctx, budget)
}

func (s *DefaultService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	if _, err := s.requireBudget(ctx, userID, budgetID); err != nil {
		return err
	}

	deleted, err := s.repo.SoftDeleteBudget(ctx, budgetID)
	if err != nil {
		return fmt.Errorf("error deleting budget: %w", err)
	}

	if !deleted {
		return ErrNotFound
	}

	return nil
}

func (s *DefaultService) AddCategory(ctx context.Context, userID, budgetID string, req models.CategoryPayload) (*models.Category, error) {
	if _, err := s.requireBudget(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	category := &models.Category{
		BudgetID:  budgetID,
		Name:      req.Name,
		Allocated: req.Allocated,
		Color:     req.Color,
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("error creating category: %w", err)
	}

	return category, nil
}

// AddExpense creates the expense and charges its amount to the category's
// spent total in one transaction. The category must belong to the same
// budget; this is checked here even though handlers validate budget
// ownership first.
func (s *DefaultService) AddExpense(ctx context.Context, userID, budgetID string, req models.AddExpenseRequest) (*models.Expense, error) {
	if _, err := s.requireBudget(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	category, err := s.repo.GetCategory(ctx, budgetID, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("error getting category: %w", err)
	}

	if category == nil {
		return nil, ErrNotFound
	}

	date := time.Now().UTC()
	if req.Date != "" {
		date, err = parseDate(req.Date)
		if err != nil {
			return nil, err
		}
	}

	expense := &models.Expense{
		BudgetID:   budgetID,
		CategoryID: category.ID,
		Name:       req.Name,
		Amount:     req.Amount,
		Projected:  req.Projected,
		Date:       date,
		Note:       req.Note,
	}

	if err := s.repo.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("error creating expense: %w", err)
	}

	return expense, nil
}

func (s *DefaultService) UpdateExpense(ctx context.Context, userID, budgetID, expenseID string, req models.UpdateExpenseRequest) (*models.Expense, error) {
	if _, err := s.requireBudget(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	expense, err := s.repo.GetExpense(ctx, budgetID, expenseID)
	if err != nil {
		return nil, fmt.Errorf("error getting expense: %w", err)
	}

	if expense == nil {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		expense.Name = *req.Name
	}
	if req.Projected != nil {
		expense.Projected = req.Projected
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		expense.Date = date
	}

	var amountDelta float64
	if req.Amount != nil {
		amountDelta = *req.Amount - expense.Amount
		expense.Amount = *req.Amount
	}

	updated, err := s.repo.UpdateExpense(ctx, expense, amountDelta)
	if err != nil {
		return nil, fmt.Errorf("error updating expense: %w", err)
	}

	if !updated {
		// Deleted between the read above and the write
		return nil, ErrNotFound
	}

	return expense, nil
}

func (s *DefaultService) DeleteExpense(ctx context.Context, userID, budgetID, expenseID string) error {
	if _, err := s.requireBudget(ctx, userID, budgetID); err != nil {
		return err
	}

	expense, err := s.repo.SoftDeleteExpense(ctx, budgetID, expenseID)
	if err != nil {
		return fmt.Errorf("error deleting expense: %w", err)
	}

	if expense == nil {
		return ErrNotFound
	}

	return nil
}

func (s *DefaultService) AddChecklistCategory(ctx context.Context, userID, budgetID string, req models.AddChecklistCategoryRequest) (*models.ChecklistCategory, error) {
	if _, err := s.requireBudget(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	category := &models.ChecklistCategory{
		BudgetID: budgetID,
		Name:     req.Name,
	}

	if err := s.repo.CreateChecklistCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("error creating checklist category: %w", err)
	}

	return category, nil
}

func (s *DefaultService) DeleteChecklistCategory(ctx context.Context, userID, budgetID, categoryID string) error {
	if _, err := s.requireBudget(ctx, userID, budgetID); err != nil {
		return err
	}

	deleted, err := s.repo.SoftDeleteChecklistCategory(ctx, budgetID, categoryID)
	if err != nil {
		return fmt.Errorf("error deleting checklist category: %w", err)
	}

	if !deleted {
		return ErrNotFound
	}

	return nil
}

func (s *DefaultService) AddChecklistItem(ctx context.Context, userID, budgetID string, req models.AddChecklistItemRequest) (*models.ChecklistItem, error) {
	if _, err := s.requireBudget(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	category, err := s.repo.GetChecklistCategory(ctx, budgetID, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("error getting checklist category: %w", err)
	}

	if category == nil {
		return nil, ErrNotFound
	}

	item := &models.ChecklistItem{
		BudgetID:   budgetID,
		CategoryID: category.ID,
		Name:       req.Name,
	}

	if err := s.repo.CreateChecklistItem(ctx, item); err != nil {
		return nil, fmt.Errorf("error creating checklist item: %w", err)
	}

	return item, nil
}

func (s *DefaultService) ToggleChecklistItem(ctx context.Context, userID, budgetID, itemID string) (*models.ChecklistItem, error) {
	if _, err := s.requireBudget(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	item, err := s.repo.ToggleChecklistItem(ctx, budgetID, itemID)
	if err != nil {
		return nil, fmt.Errorf("error toggling checklist item: %w", err)
	}

	if item == nil {
		return nil, ErrNotFound
	}

	return item, nil
}

func (s *DefaultService) DeleteChecklistItem(ctx context.Context, userID, budgetID, itemID string) error {
	if _, err := s.requireBudget(ctx, userID, budgetID); err != nil {
		return err
	}

	deleted, err := s.repo.SoftDeleteChecklistItem(ctx, budgetID, itemID)
	if err != nil {
		return fmt.Errorf("error deleting checklist item: %w", err)
	}

	if !deleted {
		return ErrNotFound
	}

	return nil
}

func (s *DefaultService) AddTimelineEvent(ctx context.Context, userID, budgetID string, req models.AddTimelineEventRequest) (*models.TimelineEvent, error) {
	if _, err := s.requireBudget(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	event := &models.TimelineEvent{
		BudgetID:  budgetID,
		Name:      req.Name,
		Date:      date,
		EventTime: req.Time,
		Note:      req.Note,
	}

	if err := s.repo.CreateTimelineEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("error creating timeline event: %w", err)
	}

	return event, nil
}

func (s *DefaultService) UpdateTimelineEvent(ctx context.Context, userID, budgetID, eventID string, req models.UpdateTimelineEventRequest) (*models.TimelineEvent, error) {
	if _, err := s.requireBudget(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	event, err := s.repo.GetTimelineEvent(ctx, budgetID, eventID)
	if err != nil {
		return nil, fmt.Errorf("error getting timeline event: %w", err)
	}

	if event == nil {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Time != nil {
		event.EventTime = *req.Time
	}
	if req.Note != nil {
		event.Note = req.Note
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		event.Date = date
	}

	if err := s.repo.UpdateTimelineEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("error updating timeline event: %w", err)
	}

	return event, nil
}

func (s *DefaultService) DeleteTimelineEvent(ctx context.Context, userID, budgetID, eventID string) error {
	if _, err := s.requireBudget(ctx, userID, budgetID); err != nil {
		return err
	}

	deleted, err := s.repo.SoftDeleteTimelineEvent(ctx, budgetID, eventID)
	if err != nil {
		return fmt.Errorf("error deleting timeline event: %w", err)
	}

	if !deleted {
		return ErrNotFound
	}

	return nil
}

// buildBudgetDetail assembles the dashboard view of a budget: categories,
// live expenses, live checklist grouped by category, live timeline.
func (s *DefaultService) buildBudgetDetail(ctx context.Context, budget *models.Budget) (*models.BudgetDetail, error) {
	categories, err := s.repo.ListCategories(ctx, budget.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}

	expenses, err := s.repo.ListExpenses(ctx, budget.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing expenses: %w", err)
	}

	checklistCategories, err := s.repo.ListChecklistCategories(ctx, budget.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing checklist categories: %w", err)
	}

	items, err := s.repo.ListChecklistItems(ctx, budget.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing checklist items: %w", err)
	}

	itemsByCategory := make(map[string][]models.ChecklistItem, len(checklistCategories))
	for _, item := range items {
		itemsByCategory[item.CategoryID] = append(itemsByCategory[item.CategoryID], item)
	}

	checklist := make([]models.ChecklistCategoryDetail, 0, len(checklistCategories))
	for _, category := range checklistCategories {
		detail := models.ChecklistCategoryDetail{
			ChecklistCategory: category,
			Items:             itemsByCategory[category.ID],
		}
		if detail.Items == nil {
			detail.Items = []models.ChecklistItem{}
		}
		checklist = append(checklist, detail)
	}

	timeline, err := s.repo.ListTimelineEvents(ctx, budget.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing timeline events: %w", err)
	}

	if categories == nil {
		categories = []models.Category{}
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	if timeline == nil {
		timeline = []models.TimelineEvent{}
	}

	return &models.BudgetDetail{
		Budget:     *budget,
		Categories: categories,
		Expenses:   expenses,
		Checklist:  checklist,
		Timeline:   timeline,
	}, nil
}
