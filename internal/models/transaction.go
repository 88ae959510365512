package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"

	TransactionStatusPending = "pending"
	TransactionStatusPartial = "partial"
	TransactionStatusPaid    = "paid"

	maxDescriptionLength = 500
)

var (
	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")
	ErrInvalidAmount            = errors.New("transaction amount must not be negative")
	ErrInvalidStatusTransition  = errors.New("invalid status transition")
	ErrMissingConcept           = errors.New("concept ID is required")
	ErrMissingDate              = errors.New("transaction date is required")
)

// Transaction is a single income or expense record. Amount is always stored
// non-negative; Type carries the sign.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Type        string          `gorm:"type:varchar(20);not null;index" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	ConceptID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"concept_id"`
	ProviderID  *uuid.UUID      `gorm:"type:uuid;index" json:"provider_id,omitempty"`
	Status      string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`

	Concept  *Concept  `gorm:"foreignKey:ConceptID" json:"concept,omitempty"`
	Provider *Provider `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	if t.Status == "" {
		t.Status = TransactionStatusPending
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

// BeforeUpdate hook for Transaction
func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return nil
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if !IsValidTransactionType(t.Type) {
		return ErrInvalidTransactionType
	}

	if !IsValidTransactionStatus(t.Status) {
		return ErrInvalidTransactionStatus
	}

	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}

	if t.ConceptID == uuid.Nil {
		return ErrMissingConcept
	}

	if t.Date.IsZero() {
		return ErrMissingDate
	}

	if len(t.Description) > maxDescriptionLength {
		return errors.New("description too long")
	}

	return nil
}

// IsIncome reports whether the transaction adds to the balance
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// IsExpense reports whether the transaction subtracts from the balance
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// IsPaid returns true once the transaction reached its terminal status
func (t *Transaction) IsPaid() bool {
	return t.Status == TransactionStatusPaid
}

// CanTransitionTo checks if a transaction can transition to a new status
func (t *Transaction) CanTransitionTo(newStatus string) bool {
	validTransitions := map[string][]string{
		TransactionStatusPending: {TransactionStatusPartial, TransactionStatusPaid},
		TransactionStatusPartial: {TransactionStatusPaid},
		TransactionStatusPaid:    {}, // Terminal state
	}

	allowedStatuses, exists := validTransitions[t.Status]
	if !exists {
		return false
	}

	for _, status := range allowedStatuses {
		if status == newStatus {
			return true
		}
	}
	return false
}

// TransitionTo moves the transaction to newStatus when the transition is allowed
func (t *Transaction) TransitionTo(newStatus string) error {
	if !IsValidTransactionStatus(newStatus) {
		return ErrInvalidTransactionStatus
	}
	if !t.CanTransitionTo(newStatus) {
		return ErrInvalidStatusTransition
	}
	t.Status = newStatus
	return nil
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// IsValidTransactionType checks if the transaction type is valid
func IsValidTransactionType(transactionType string) bool {
	switch transactionType {
	case TransactionTypeIncome, TransactionTypeExpense:
		return true
	default:
		return false
	}
}

// IsValidTransactionStatus checks if the transaction status is valid
func IsValidTransactionStatus(status string) bool {
	switch status {
	case TransactionStatusPending, TransactionStatusPartial, TransactionStatusPaid:
		return true
	default:
		return false
	}
}
