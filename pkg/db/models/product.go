package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a catalog listing with its on-hand stock counter.
type Product struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU            string         `gorm:"column:sku;not null;uniqueIndex"`
	Name           string         `gorm:"column:name;not null"`
	Description    *string        `gorm:"column:description"`
	Tags           pq.StringArray `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	SalePriceCents int64          `gorm:"column:sale_price_cents;not null"`
	CostPriceCents *int64         `gorm:"column:cost_price_cents"`
	StockQty       int64          `gorm:"column:stock_qty;not null;default:0"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
