package models

// Request models
type RegisterRequest struct {
	FullName    string `json:"fullName" binding:"required,min=2"`
	PartnerName string `json:"partnerName" binding:"required,min=2"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CategoryPayload struct {
	Name      string  `json:"name" binding:"required"`
	Allocated float64 `json:"allocated" binding:"required,gt=0"`
	Color     *string `json:"color"`
}

type TimelinePayload struct {
	Name string  `json:"name" binding:"required"`
	Date string  `json:"date" binding:"required"`
	Time string  `json:"time" binding:"required"`
	Note *string `json:"note"`
}

type CreateBudgetRequest struct {
	Name        string            `json:"name" binding:"required"`
	CoupleNames string            `json:"coupleNames" binding:"required"`
	EventDate   string            `json:"eventDate" binding:"required"`
	Total       float64           `json:"total" binding:"gte=0"`
	Notes       *string           `json:"notes"`
	Categories  []CategoryPayload `json:"categories" binding:"omitempty,dive"`
	Timeline    []TimelinePayload `json:"timeline" binding:"omitempty,dive"`
}

type AddExpenseRequest struct {
	CategoryID string   `json:"categoryId" binding:"required"`
	Name       string   `json:"name" binding:"required"`
	Amount     float64  `json:"amount" binding:"gte=0"`
	Projected  *float64 `json:"projected" binding:"omitempty,gte=0"`
	Date       string   `json:"date"`
	Note       *string  `json:"note"`
}

type UpdateExpenseRequest struct {
	Name      *string  `json:"name" binding:"omitempty,min=1"`
	Amount    *float64 `json:"amount" binding:"omitempty,gte=0"`
	Projected *float64 `json:"projected" binding:"omitempty,gte=0"`
	Date      *string  `json:"date"`
}

type AddChecklistCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type AddChecklistItemRequest struct {
	CategoryID string `json:"categoryId" binding:"required"`
	Name       string `json:"name" binding:"required"`
}

type AddTimelineEventRequest struct {
	Name string  `json:"name" binding:"required"`
	Date string  `json:"date" binding:"required"`
	Time string  `json:"time" binding:"required"`
	Note *string `json:"note"`
}

type UpdateTimelineEventRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1"`
	Date *string `json:"date"`
	Time *string `json:"time"`
	Note *string `json:"note"`
}

// Admin request models
type AdminCreateUserRequest struct {
	FullName    string  `json:"fullName" binding:"required,min=2"`
	PartnerName *string `json:"partnerName" binding:"omitempty,min=2"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=6"`
	Role        *string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
	CurrencyID  *string `json:"currencyId"`
}

type AdminUpdateUserRequest struct {
	FullName    *string `json:"fullName" binding:"omitempty,min=2"`
	PartnerName *string `json:"partnerName" binding:"omitempty,min=2"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Password    *string `json:"password" binding:"omitempty,min=6"`
	Role        *string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
	Username    *string `json:"username" binding:"omitempty,min=2"`
	CurrencyID  *string `json:"currencyId"`
}

type CreateCurrencyRequest struct {
	Code   string  `json:"code" binding:"required,min=3,max=10"`
	Name   string  `json:"name" binding:"required,min=2"`
	Symbol *string `json:"symbol" binding:"omitempty,max=5"`
}

type CreateDefaultCategoryRequest struct {
	Name      string   `json:"name" binding:"required,min=2"`
	Allocated float64  `json:"allocated" binding:"required,gt=0"`
	Color     *string  `json:"color"`
	Expenses  []string `json:"expenses" binding:"omitempty,dive,min=1"`
}

type CreateDefaultExpenseRequest struct {
	Name string `json:"name" binding:"required,min=1"`
}

type CreateDefaultChecklistCategoryRequest struct {
	Name  string   `json:"name" binding:"required,min=2"`
	Items []string `json:"items" binding:"omitempty,dive,min=1"`
}

type CreateDefaultChecklistItemRequest struct {
	Name string `json:"name" binding:"required,min=1"`
}

type CreateDefaultTimelineEventRequest struct {
	Name string `json:"name" binding:"required,min=2"`
}

// Response models
type AuthResponse struct {
	Status    string   `json:"status"`
	UserID    string   `json:"userId,omitempty"`
	Username  string   `json:"username,omitempty"`
	Email     string   `json:"email,omitempty"`
	FullName  string   `json:"fullName,omitempty"`
	Role      UserRole `json:"role,omitempty"`
	Token     string   `json:"token,omitempty"`
	ExpiresIn int      `json:"expiresIn,omitempty"`
}

type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SyncResponse struct {
	Status        string `json:"status"`
	BudgetsSynced int    `json:"budgetsSynced"`
}
