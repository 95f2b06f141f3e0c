package finance

import (
	"fmt"
	"time"

	"github.com/Thucosta0/financepro-sub000/internal/validation"
	"github.com/Thucosta0/financepro-sub000/pkg/budget"
	"github.com/Thucosta0/financepro-sub000/pkg/card"
	"github.com/Thucosta0/financepro-sub000/pkg/category"
	"github.com/Thucosta0/financepro-sub000/pkg/recurring"
	"github.com/Thucosta0/financepro-sub000/pkg/transaction"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type CategoryDTO struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CardDTO struct {
	Id         string           `json:"id"`
	Name       string           `json:"name"`
	Type       string           `json:"type"`
	Bank       string           `json:"bank"`
	Limit      *decimal.Decimal `json:"limit,omitempty"`
	Color      string           `json:"color"`
	LastDigits string           `json:"lastDigits,omitempty"`
	IsActive   bool             `json:"isActive"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

type TransactionDTO struct {
	Id                     string          `json:"id"`
	Description            string          `json:"description"`
	Amount                 decimal.Decimal `json:"amount"`
	Type                   string          `json:"type"`
	CategoryId             string          `json:"categoryId"`
	CardId                 string          `json:"cardId"`
	TransactionDate        string          `json:"transactionDate"`
	IsRecurring            bool            `json:"isRecurring"`
	RecurringTransactionId *string         `json:"recurringTransactionId,omitempty"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

type RecurringTransactionDTO struct {
	Id                string          `json:"id"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	Type              string          `json:"type"`
	CategoryId        string          `json:"categoryId"`
	CardId            string          `json:"cardId"`
	Frequency         string          `json:"frequency"`
	StartDate         string          `json:"startDate"`
	EndDate           *string         `json:"endDate,omitempty"`
	NextExecutionDate string          `json:"nextExecutionDate,omitempty"`
	IsActive          bool            `json:"isActive"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type BudgetDTO struct {
	Id          string          `json:"id"`
	CategoryId  string          `json:"categoryId"`
	LimitAmount decimal.Decimal `json:"limitAmount"`
	Period      string          `json:"period"`
	Year        int             `json:"year"`
	Month       *int            `json:"month,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ExecutionDTO struct {
	Executed    bool            `json:"executed"`
	Transaction *TransactionDTO `json:"transaction,omitempty"`
}

func categoryToDTO(c category.Category) CategoryDTO {
	return CategoryDTO{
		Id:        c.Id,
		Name:      c.Name,
		Type:      string(c.Type),
		Icon:      c.Icon,
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func dtoToCategory(dto CategoryDTO) category.Category {
	return category.Category{
		Id:    dto.Id,
		Name:  dto.Name,
		Type:  category.Type(dto.Type),
		Icon:  dto.Icon,
		Color: dto.Color,
	}
}

func cardToDTO(c card.Card) CardDTO {
	return CardDTO{
		Id:         c.Id,
		Name:       c.Name,
		Type:       string(c.Type),
		Bank:       c.Bank,
		Limit:      c.Limit,
		Color:      c.Color,
		LastDigits: c.LastDigits,
		IsActive:   c.IsActive,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func dtoToCard(dto CardDTO) card.Card {
	return card.Card{
		Id:         dto.Id,
		Name:       dto.Name,
		Type:       card.Type(dto.Type),
		Bank:       dto.Bank,
		Limit:      dto.Limit,
		Color:      dto.Color,
		LastDigits: dto.LastDigits,
		IsActive:   dto.IsActive,
	}
}

func transactionToDTO(t transaction.Transaction) TransactionDTO {
	return TransactionDTO{
		Id:                     t.Id,
		Description:            t.Description,
		Amount:                 t.Amount,
		Type:                   string(t.Type),
		CategoryId:             t.CategoryId,
		CardId:                 t.CardId,
		TransactionDate:        t.TransactionDate.Format(dateLayout),
		IsRecurring:            t.IsRecurring,
		RecurringTransactionId: t.RecurringTransactionId,
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
	}
}

func dtoToTransaction(dto TransactionDTO) (transaction.Transaction, error) {
	date, err := parseDate("transactionDate", dto.TransactionDate)
	if err != nil {
		return transaction.Transaction{}, err
	}
	return transaction.Transaction{
		Id:                     dto.Id,
		Description:            dto.Description,
		Amount:                 dto.Amount,
		Type:                   transaction.Type(dto.Type),
		CategoryId:             dto.CategoryId,
		CardId:                 dto.CardId,
		TransactionDate:        date,
		IsRecurring:            dto.IsRecurring,
		RecurringTransactionId: dto.RecurringTransactionId,
	}, nil
}

func recurringToDTO(r recurring.RecurringTransaction) RecurringTransactionDTO {
	var endDate *string
	if r.EndDate != nil {
		formatted := r.EndDate.Format(dateLayout)
		endDate = &formatted
	}
	return RecurringTransactionDTO{
		Id:                r.Id,
		Description:       r.Description,
		Amount:            r.Amount,
		Type:              string(r.Type),
		CategoryId:        r.CategoryId,
		CardId:            r.CardId,
		Frequency:         string(r.Frequency),
		StartDate:         r.StartDate.Format(dateLayout),
		EndDate:           endDate,
		NextExecutionDate: r.NextExecutionDate.Format(dateLayout),
		IsActive:          r.IsActive,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func dtoToRecurring(dto RecurringTransactionDTO) (recurring.RecurringTransaction, error) {
	startDate, err := parseDate("startDate", dto.StartDate)
	if err != nil {
		return recurring.RecurringTransaction{}, err
	}
	var endDate *time.Time
	if dto.EndDate != nil && *dto.EndDate != "" {
		parsed, err := parseDate("endDate", *dto.EndDate)
		if err != nil {
			return recurring.RecurringTransaction{}, err
		}
		endDate = &parsed
	}
	var nextExecution time.Time
	if dto.NextExecutionDate != "" {
		if nextExecution, err = parseDate("nextExecutionDate", dto.NextExecutionDate); err != nil {
			return recurring.RecurringTransaction{}, err
		}
	}
	return recurring.RecurringTransaction{
		Id:                dto.Id,
		Description:       dto.Description,
		Amount:            dto.Amount,
		Type:              recurring.Type(dto.Type),
		CategoryId:        dto.CategoryId,
		CardId:            dto.CardId,
		Frequency:         recurring.Frequency(dto.Frequency),
		StartDate:         startDate,
		EndDate:           endDate,
		NextExecutionDate: nextExecution,
		IsActive:          dto.IsActive,
	}, nil
}

func budgetToDTO(b budget.Budget) BudgetDTO {
	return BudgetDTO{
		Id:          b.Id,
		CategoryId:  b.CategoryId,
		LimitAmount: b.LimitAmount,
		Period:      string(b.Period),
		Year:        b.Year,
		Month:       b.Month,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func dtoToBudget(dto BudgetDTO) budget.Budget {
	return budget.Budget{
		Id:          dto.Id,
		CategoryId:  dto.CategoryId,
		LimitAmount: dto.LimitAmount,
		Period:      budget.Period(dto.Period),
		Year:        dto.Year,
		Month:       dto.Month,
	}
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, validation.New(field, "is required")
	}
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, validation.New(field, fmt.Sprintf("must be a date in %s format", dateLayout))
	}
	return date, nil
}

func toDTOs[T any, D any](values []T, convert func(T) D) []D {
	dtos := make([]D, 0, len(values))
	for _, v := range values {
		dtos = append(dtos, convert(v))
	}
	return dtos
}
