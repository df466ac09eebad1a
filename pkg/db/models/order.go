package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/backoffice/pkg/enums"
)

// Order represents a client order and its derived monetary total.
type Order struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID         uuid.UUID           `gorm:"column:client_id;type:uuid;not null;index"`
	Status           enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentMethod    enums.PaymentMethod `gorm:"column:payment_method;type:text;not null;default:'cash'"`
	DeliveryType     enums.DeliveryType  `gorm:"column:delivery_type;type:text;not null;default:'pickup'"`
	TotalCents       int64               `gorm:"column:total_cents;not null;default:0"`
	DiscountCents    int64               `gorm:"column:discount_cents;not null;default:0"`
	DeliveryFeeCents int64               `gorm:"column:delivery_fee_cents;not null;default:0"`
	Notes            *string             `gorm:"column:notes"`
	CreatedBy        *string             `gorm:"column:created_by"`
	ConfirmedAt      *time.Time          `gorm:"column:confirmed_at"`
	DeliveredAt      *time.Time          `gorm:"column:delivered_at"`
	CancelledAt      *time.Time          `gorm:"column:cancelled_at"`
	Items            []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
