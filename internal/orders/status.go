package orders

import (
	pkgerrors "github.com/retailcore/backoffice/pkg/errors"
	"github.com/retailcore/backoffice/pkg/enums"
)

// orderTransitions is the closed transition table. Self-transitions are
// not listed and therefore rejected; terminal statuses have no edges.
var orderTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:   {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed: {enums.OrderStatusDelivered, enums.OrderStatusCancelled},
	enums.OrderStatusDelivered: {},
	enums.OrderStatusCancelled: {},
}

// CanTransition reports whether the status machine allows from → to.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, candidate := range orderTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a coded error when from → to is not allowed.
func ValidateTransition(from, to enums.OrderStatus) error {
	if !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown target status").
			WithDetails(map[string]any{"to": to.String()})
	}
	if !CanTransition(from, to) {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "status transition not allowed").
			WithDetails(map[string]any{"from": from.String(), "to": to.String()})
	}
	return nil
}

// CanBeModified reports whether line items and order fields may change.
func CanBeModified(status enums.OrderStatus) bool {
	return status == enums.OrderStatusPending
}

// CanBeDeleted reports whether the order may be removed entirely.
func CanBeDeleted(status enums.OrderStatus) bool {
	return status != enums.OrderStatusDelivered
}
