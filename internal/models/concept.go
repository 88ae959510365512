package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxConceptNameLength = 100

var (
	ErrConceptNameRequired = errors.New("concept name is required")
	ErrConceptNameTooLong  = errors.New("concept name must be at most 100 characters")
	ErrInvalidConceptType  = errors.New("concept type must be income or expense")
)

// Concept is the category a transaction is filed under ("Renta", "Nómina").
// A concept belongs to exactly one side of the ledger.
type Concept struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;index" json:"name"`
	Type      string    `gorm:"type:varchar(20);not null;index" json:"type"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (c *Concept) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	return c.Validate()
}

func (c *Concept) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = time.Now()
	return nil
}

// Validate checks name and ledger side
func (c *Concept) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ErrConceptNameRequired
	}
	if len([]rune(name)) > maxConceptNameLength {
		return ErrConceptNameTooLong
	}
	if !IsValidTransactionType(c.Type) {
		return ErrInvalidConceptType
	}
	return nil
}

func (c *Concept) TableName() string {
	return "concepts"
}
