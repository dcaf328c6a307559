package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product belongs to exactly one user. The name is unique per owner, enforced
// by the composite index; the application-level pre-check in the catalog
// service is only a fast path on top of it.
type Product struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index:idx_owner_name,unique,priority:1" json:"userId"`
	Name      string    `gorm:"size:200;not null;index:idx_owner_name,unique,priority:2" json:"name"`
	Desc      string    `gorm:"column:description;not null" json:"desc"`
	Price     float64   `gorm:"not null" json:"price"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
