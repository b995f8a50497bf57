package models

import (
	"time"
)

// UserRole distinguishes regular couples from console operators
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// User represents an account in the system
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"` // Password hash, not returned in JSON
	FullName     string    `db:"full_name" json:"fullName"`
	PartnerName  *string   `db:"partner_name" json:"partnerName,omitempty"`
	Role         UserRole  `db:"role" json:"role"`
	CurrencyID   *string   `db:"currency_id" json:"currencyId,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Currency is a display label referenced by users; no conversion math anywhere
type Currency struct {
	ID     string  `db:"id" json:"id"`
	Code   string  `db:"code" json:"code"`
	Name   string  `db:"name" json:"name"`
	Symbol *string `db:"symbol" json:"symbol"`
}

// Budget is a user-owned wedding financial plan
type Budget struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Name        string    `db:"name" json:"name"`
	CoupleNames string    `db:"couple_names" json:"coupleNames"`
	EventDate   time.Time `db:"event_date" json:"eventDate"`
	Total       float64   `db:"total" json:"total"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	Deleted     bool      `db:"deleted" json:"deleted"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Category is a budget sub-allocation. Spent is a denormalized running sum
// over the category's live expenses and is only ever adjusted atomically in
// the same transaction as the expense write that changes it.
type Category struct {
	ID        string  `db:"id" json:"id"`
	BudgetID  string  `db:"budget_id" json:"budgetId"`
	Name      string  `db:"name" json:"name"`
	Allocated float64 `db:"allocated" json:"allocated"`
	Spent     float64 `db:"spent" json:"spent"`
	Color     *string `db:"color" json:"color,omitempty"`
}

// Expense is a line item charged against a category of the same budget
type Expense struct {
	ID         string    `db:"id" json:"id"`
	BudgetID   string    `db:"budget_id" json:"budgetId"`
	CategoryID string    `db:"category_id" json:"categoryId"`
	Name       string    `db:"name" json:"name"`
	Amount     float64   `db:"amount" json:"amount"`
	Projected  *float64  `db:"projected" json:"projected,omitempty"`
	Date       time.Time `db:"date" json:"date"`
	Note       *string   `db:"note" json:"note,omitempty"`
	Deleted    bool      `db:"deleted" json:"deleted"`
}

// ChecklistCategory groups checklist items within a budget
type ChecklistCategory struct {
	ID       string `db:"id" json:"id"`
	BudgetID string `db:"budget_id" json:"budgetId"`
	Name     string `db:"name" json:"name"`
	Deleted  bool   `db:"deleted" json:"deleted"`
}

// ChecklistItem carries a redundant budget id alongside its category id so
// ownership checks don't need a join; the two must always agree.
type ChecklistItem struct {
	ID          string    `db:"id" json:"id"`
	BudgetID    string    `db:"budget_id" json:"budgetId"`
	CategoryID  string    `db:"category_id" json:"categoryId"`
	Name        string    `db:"name" json:"name"`
	Completed   bool      `db:"completed" json:"completed"`
	LastUpdated time.Time `db:"last_updated" json:"lastUpdated"`
	Deleted     bool      `db:"deleted" json:"deleted"`
}

// TimelineEvent is an entry on the event-day schedule
type TimelineEvent struct {
	ID        string    `db:"id" json:"id"`
	BudgetID  string    `db:"budget_id" json:"budgetId"`
	Name      string    `db:"name" json:"name"`
	Date      time.Time `db:"date" json:"date"`
	EventTime string    `db:"event_time" json:"time"`
	Note      *string   `db:"note" json:"note,omitempty"`
	Deleted   bool      `db:"deleted" json:"deleted"`
}

// Default templates are admin-curated seeds, independent of any budget.
// Once materialized into a budget they are user-owned copies; renaming or
// deleting a template never touches already-synced rows.

type DefaultBudgetCategory struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Allocated float64   `db:"allocated" json:"allocated"`
	Color     *string   `db:"color" json:"color,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type DefaultBudgetExpense struct {
	ID                string `db:"id" json:"id"`
	DefaultCategoryID string `db:"default_category_id" json:"defaultCategoryId"`
	Name              string `db:"name" json:"name"`
}

type DefaultChecklistCategory struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type DefaultChecklistItem struct {
	ID                string `db:"id" json:"id"`
	DefaultCategoryID string `db:"default_category_id" json:"defaultCategoryId"`
	Name              string `db:"name" json:"name"`
}

type DefaultTimelineEvent struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// UserProfile is a user with their currency record resolved
type UserProfile struct {
	User
	Currency *Currency `json:"currency,omitempty"`
}

// ChecklistCategoryDetail is a checklist category with its live items
type ChecklistCategoryDetail struct {
	ChecklistCategory
	Items []ChecklistItem `json:"items"`
}

// BudgetDetail is a budget with all its live children, the shape the
// dashboard consumes
type BudgetDetail struct {
	Budget
	Categories []Category                `json:"categories"`
	Expenses   []Expense                 `json:"expenses"`
	Checklist  []ChecklistCategoryDetail `json:"checklist"`
	Timeline   []TimelineEvent           `json:"timeline"`
}

// DefaultBudgetCategoryDetail is a default category with its expense templates
type DefaultBudgetCategoryDetail struct {
	DefaultBudgetCategory
	Expenses []DefaultBudgetExpense `json:"expenses"`
}

// DefaultChecklistCategoryDetail is a default checklist category with its items
type DefaultChecklistCategoryDetail struct {
	DefaultChecklistCategory
	Items []DefaultChecklistItem `json:"items"`
}
