package service

import (
	"context"
	"fmt"

	"github.com/wedplan-dev/wedplan-server/internal/models"
	"golang.org/x/sync/errgroup"
)

// Defaults synchronization engine.
//
// Reconciles the admin-curated template library into a budget: after a run,
// the budget's categories, seeded expenses, checklist and timeline are a
// superset of the library, keyed by exact name. Existing rows are never
// renamed, overwritten or deleted; each missing entry is created in its own
// transaction, so a failure partway through leaves a partial result that the
// next run completes. Matching includes soft-deleted rows, which keeps a
// seeded entry the user removed from coming back.

// defaultLibrary is a point-in-time snapshot of the five template tables,
// with children grouped by their parent template id.
type defaultLibrary struct {
	categories         []models.DefaultBudgetCategory
	expensesByCategory map[string][]models.DefaultBudgetExpense
	checklist          []models.DefaultChecklistCategory
	itemsByCategory    map[string][]models.DefaultChecklistItem
	timeline           []models.DefaultTimelineEvent
}

func (s *DefaultService) loadDefaultLibrary(ctx context.Context) (*defaultLibrary, error) {
	categories, err := s.repo.ListDefaultCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading default categories: %w", err)
	}

	expenses, err := s.repo.ListDefaultExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading default expenses: %w", err)
	}

	checklist, err := s.repo.ListDefaultChecklistCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading default checklist categories: %w", err)
	}

	items, err := s.repo.ListDefaultChecklistItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading default checklist items: %w", err)
	}

	timeline, err := s.repo.ListDefaultTimelineEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading default timeline events: %w", err)
	}

	lib := &defaultLibrary{
		categories:         categories,
		expensesByCategory: make(map[string][]models.DefaultBudgetExpense),
		checklist:          checklist,
		itemsByCategory:    make(map[string][]models.DefaultChecklistItem),
		timeline:           timeline,
	}

	for _, expense := range expenses {
		lib.expensesByCategory[expense.DefaultCategoryID] = append(lib.expensesByCategory[expense.DefaultCategoryID], expense)
	}

	for _, item := range items {
		lib.itemsByCategory[item.DefaultCategoryID] = append(lib.itemsByCategory[item.DefaultCategoryID], item)
	}

	return lib, nil
}

// SyncBudgetDefaults makes the given budget a superset of the current
// template library. Running it twice with an unchanged library is a no-op.
func (s *DefaultService) SyncBudgetDefaults(ctx context.Context, budgetID string) error {
	budget, err := s.repo.GetBudget(ctx, budgetID)
	if err != nil {
		return fmt.Errorf("error getting budget: %w", err)
	}

	if budget == nil {
		return nil // Nothing to sync
	}

	lib, err := s.loadDefaultLibrary(ctx)
	if err != nil {
		return err
	}

	return s.applyDefaults(ctx, budget, lib)
}

func (s *DefaultService) applyDefaults(ctx context.Context, budget *models.Budget, lib *defaultLibrary) error {
	for _, defCategory := range lib.categories {
		category, err := s.repo.GetCategoryByName(ctx, budget.ID, defCategory.Name)
		if err != nil {
			return fmt.Errorf("error looking up category %q: %w", defCategory.Name, err)
		}

		if category == nil {
			category = &models.Category{
				BudgetID:  budget.ID,
				Name:      defCategory.Name,
				Allocated: defCategory.Allocated,
				Color:     defCategory.Color,
			}
			if err := s.repo.CreateCategory(ctx, category); err != nil {
				return fmt.Errorf("error creating category %q: %w", defCategory.Name, err)
			}
		}

		for _, defExpense := range lib.expensesByCategory[defCategory.ID] {
			existing, err := s.repo.GetExpenseByName(ctx, budget.ID, category.ID, defExpense.Name)
			if err != nil {
				return fmt.Errorf("error looking up expense %q: %w", defExpense.Name, err)
			}

			if existing != nil {
				continue
			}

			// Zero-amount placeholder: the line item shows up without
			// touching the category's spent total until the user fills
			// in a real amount.
			expense := &models.Expense{
				BudgetID:   budget.ID,
				CategoryID: category.ID,
				Name:       defExpense.Name,
				Amount:     0,
				Projected:  nil,
				Date:       budget.EventDate,
			}
			if err := s.repo.CreateExpense(ctx, expense); err != nil {
				return fmt.Errorf("error creating expense %q: %w", defExpense.Name, err)
			}
		}
	}

	for _, defChecklistCategory := range lib.checklist {
		checklistCategory, err := s.repo.GetChecklistCategoryByName(ctx, budget.ID, defChecklistCategory.Name)
		if err != nil {
			return fmt.Errorf("error looking up checklist category %q: %w", defChecklistCategory.Name, err)
		}

		if checklistCategory == nil {
			checklistCategory = &models.ChecklistCategory{
				BudgetID: budget.ID,
				Name:     defChecklistCategory.Name,
			}
			if err := s.repo.CreateChecklistCategory(ctx, checklistCategory); err != nil {
				return fmt.Errorf("error creating checklist category %q: %w", defChecklistCategory.Name, err)
			}
		}

		for _, defItem := range lib.itemsByCategory[defChecklistCategory.ID] {
			existing, err := s.repo.GetChecklistItemByName(ctx, budget.ID, checklistCategory.ID, defItem.Name)
			if err != nil {
				return fmt.Errorf("error looking up checklist item %q: %w", defItem.Name, err)
			}

			if existing != nil {
				continue
			}

			item := &models.ChecklistItem{
				BudgetID:   budget.ID,
				CategoryID: checklistCategory.ID,
				Name:       defItem.Name,
				Completed:  false,
			}
			if err := s.repo.CreateChecklistItem(ctx, item); err != nil {
				return fmt.Errorf("error creating checklist item %q: %w", defItem.Name, err)
			}
		}
	}

	for _, defEvent := range lib.timeline {
		existing, err := s.repo.GetTimelineEventByName(ctx, budget.ID, defEvent.Name)
		if err != nil {
			return fmt.Errorf("error looking up timeline event %q: %w", defEvent.Name, err)
		}

		if existing != nil {
			continue
		}

		event := &models.TimelineEvent{
			BudgetID:  budget.ID,
			Name:      defEvent.Name,
			Date:      budget.EventDate,
			EventTime: "00:00",
			Note:      nil,
		}
		if err := s.repo.CreateTimelineEvent(ctx, event); err != nil {
			return fmt.Errorf("error creating timeline event %q: %w", defEvent.Name, err)
		}
	}

	return nil
}

// SyncAllBudgets reconciles every live budget against the template library.
// Budgets are independent, so they run through a bounded worker pool; the
// library snapshot is loaded once and shared. Returns how many budgets were
// synced. A failed budget cancels the remainder; since every step is
// create-if-absent, the next trigger picks up where this one stopped.
func (s *DefaultService) SyncAllBudgets(ctx context.Context) (int, error) {
	budgetIDs, err := s.repo.ListBudgetIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("error listing budgets: %w", err)
	}

	if len(budgetIDs) == 0 {
		return 0, nil
	}

	lib, err := s.loadDefaultLibrary(ctx)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.syncWorkers)

	for _, budgetID := range budgetIDs {
		budgetID := budgetID
		g.Go(func() error {
			budget, err := s.repo.GetBudget(gctx, budgetID)
			if err != nil {
				return fmt.Errorf("error getting budget %s: %w", budgetID, err)
			}

			if budget == nil {
				return nil // Deleted between listing and sync
			}

			return s.applyDefaults(gctx, budget, lib)
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	return len(budgetIDs), nil
}
