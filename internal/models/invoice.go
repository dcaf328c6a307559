package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the invoice lifecycle state. Any of the four values is accepted
// on update; transitions are not restricted.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// Invoice is the aggregate root; items are owned value objects and never
// shared between invoices. Number is unique across all users.
type Invoice struct {
	ID        string        `gorm:"primaryKey;size:36" json:"id"`
	UserID    string        `gorm:"size:36;not null;index" json:"userId"`
	Recipient string        `gorm:"size:200;not null" json:"recipient"`
	Number    string        `gorm:"uniqueIndex;not null" json:"number"`
	Items     []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal  float64       `gorm:"not null" json:"subtotal"`
	Tax       float64       `gorm:"not null;default:0" json:"tax"`
	Discount  float64       `gorm:"not null;default:0" json:"discount"`
	Total     float64       `gorm:"not null" json:"total"`
	Status    Status        `gorm:"size:20;not null;default:'draft';index" json:"status"`
	IssueDate time.Time     `json:"issueDate"`
	DueDate   *time.Time    `json:"dueDate"`
	Notes     string        `gorm:"size:1000" json:"notes"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (i *Invoice) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// InvoiceItem is a snapshot of a product taken at invoicing time. ProductID
// is a plain reference without a foreign key constraint: deleting the product
// later must leave the invoice untouched.
type InvoiceItem struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	InvoiceID   string  `gorm:"size:36;not null;index" json:"-"`
	ProductID   string  `gorm:"size:36;not null" json:"productId"`
	ProductName string  `gorm:"size:200;not null" json:"productName"`
	ProductDesc string  `json:"productDesc"`
	Price       float64 `gorm:"not null" json:"price"`
	Qty         int     `gorm:"not null" json:"qty"`
	Total       float64 `gorm:"not null" json:"total"`
}
