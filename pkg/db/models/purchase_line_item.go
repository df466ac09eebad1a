package models

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseLineItem captures one product position within a supplier purchase.
// TotalCents always equals UnitPriceCents*Qty minus DiscountCents.
type PurchaseLineItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PurchaseID     uuid.UUID  `gorm:"column:purchase_id;type:uuid;not null;index"`
	ProductID      *uuid.UUID `gorm:"column:product_id;type:uuid"`
	ProductName    string     `gorm:"column:product_name;not null"`
	UnitPriceCents int64      `gorm:"column:unit_price_cents;not null"`
	Qty            int64      `gorm:"column:qty;not null"`
	DiscountCents  int64      `gorm:"column:discount_cents;not null;default:0"`
	TotalCents     int64      `gorm:"column:total_cents;not null"`
	CreatedBy      *string    `gorm:"column:created_by"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
