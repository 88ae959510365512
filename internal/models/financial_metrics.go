package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionDetail is a transaction with its concept and provider names resolved
type TransactionDetail struct {
	ID           uuid.UUID       `json:"id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	Status       string          `json:"status"`
	Description  string          `json:"description,omitempty"`
	ConceptName  string          `json:"concept"`
	ProviderName string          `json:"provider,omitempty"`
}

// FinancialMetrics holds the aggregate totals of a set of transactions.
// Balance is always TotalIncome minus TotalExpense.
type FinancialMetrics struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpense     decimal.Decimal `json:"total_expense"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transaction_count"`
	IncomeCount      int             `json:"income_count"`
	ExpenseCount     int             `json:"expense_count"`
	AverageExpense   decimal.Decimal `json:"average_expense"`
	AverageIncome    decimal.Decimal `json:"average_income"`
}

// GroupTotal contains aggregated transaction data for one concept or provider
type GroupTotal struct {
	Name       string          `json:"name"`
	Type       string          `json:"type,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

// PeriodBucket aggregates transactions falling into one day, ISO week or month
type PeriodBucket struct {
	Key     string          `json:"key"`
	Start   time.Time       `json:"start"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
	Count   int             `json:"count"`
}

// FinancialSnapshot is the full derived view over every transaction read for a request
type FinancialSnapshot struct {
	Metrics      FinancialMetrics    `json:"metrics"`
	ByConcept    []GroupTotal        `json:"by_concept"`
	ByProvider   []GroupTotal        `json:"by_provider"`
	Daily        []PeriodBucket      `json:"daily"`
	Weekly       []PeriodBucket      `json:"weekly"`
	Monthly      []PeriodBucket      `json:"monthly"`
	Transactions []TransactionDetail `json:"-"`
}

// FilteredFinancialView is the snapshot narrowed to the timeframe a question asks about
type FilteredFinancialView struct {
	Metrics      FinancialMetrics    `json:"metrics"`
	ByConcept    []GroupTotal        `json:"by_concept"`
	ByProvider   []GroupTotal        `json:"by_provider"`
	Daily        []PeriodBucket      `json:"daily"`
	Weekly       []PeriodBucket      `json:"weekly"`
	Monthly      []PeriodBucket      `json:"monthly"`
	Transactions []TransactionDetail `json:"-"`
	PeriodLabel  string              `json:"period"`
}

// FinancialReport is the response of the summary report endpoint
type FinancialReport struct {
	StartDate   *time.Time       `json:"start_date,omitempty"`
	EndDate     *time.Time       `json:"end_date,omitempty"`
	Bucket      string           `json:"bucket"`
	Metrics     FinancialMetrics `json:"metrics"`
	ByConcept   []GroupTotal     `json:"by_concept"`
	ByProvider  []GroupTotal     `json:"by_provider"`
	Periods     []PeriodBucket   `json:"periods"`
	GeneratedAt time.Time        `json:"generated_at"`
}
