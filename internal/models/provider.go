package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxProviderNameLength = 150

var (
	ErrProviderNameRequired = errors.New("provider name is required")
	ErrProviderNameTooLong  = errors.New("provider name must be at most 150 characters")
)

// Provider is the counterparty of a transaction
type Provider struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"type:varchar(150);not null;index" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (p *Provider) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}

	return p.Validate()
}

func (p *Provider) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Provider) Validate() error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return ErrProviderNameRequired
	}
	if len([]rune(name)) > maxProviderNameLength {
		return ErrProviderNameTooLong
	}
	return nil
}

func (p *Provider) TableName() string {
	return "providers"
}
