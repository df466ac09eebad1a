package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/backoffice/pkg/enums"
)

// Purchase represents an inbound supplier purchase and its derived total.
type Purchase struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierName  string              `gorm:"column:supplier_name;not null"`
	InvoiceNumber *string             `gorm:"column:invoice_number"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null;default:'cash'"`
	TotalCents    int64               `gorm:"column:total_cents;not null;default:0"`
	Notes         *string             `gorm:"column:notes"`
	PurchasedAt   time.Time           `gorm:"column:purchased_at;not null"`
	Items         []PurchaseLineItem  `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
