package orders

import (
	"github.com/google/uuid"

	"github.com/retailcore/backoffice/pkg/enums"
)

// CreateOrderInput carries the fields accepted when opening an order.
// Status is always forced to pending regardless of caller intent.
type CreateOrderInput struct {
	ClientID         uuid.UUID
	PaymentMethod    enums.PaymentMethod
	DeliveryType     enums.DeliveryType
	DiscountCents    int64
	DeliveryFeeCents int64
	Notes            *string
	Actor            *string
}

// UpdateOrderInput carries the mutable order header fields. Nil means
// "leave unchanged".
type UpdateOrderInput struct {
	PaymentMethod    *enums.PaymentMethod
	DeliveryType     *enums.DeliveryType
	DiscountCents    *int64
	DeliveryFeeCents *int64
	TotalCents       *int64
	Notes            *string
	Actor            *string
}

// AddLineItemInput carries the fields required to attach a product to an order.
type AddLineItemInput struct {
	OrderID        uuid.UUID
	ProductID      uuid.UUID
	Qty            int64
	UnitPriceCents int64
	Actor          *string
}

// UpdateLineItemInput mutates quantity and/or unit price on an existing item.
type UpdateLineItemInput struct {
	Qty            *int64
	UnitPriceCents *int64
	Actor          *string
}
