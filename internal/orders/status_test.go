package orders

import (
	"testing"

	"github.com/retailcore/backoffice/pkg/enums"
	pkgerrors "github.com/retailcore/backoffice/pkg/errors"
)

func TestCanTransitionMatrix(t *testing.T) {
	all := []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusConfirmed,
		enums.OrderStatusDelivered,
		enums.OrderStatusCancelled,
	}
	allowed := map[[2]enums.OrderStatus]bool{
		{enums.OrderStatusPending, enums.OrderStatusConfirmed}:   true,
		{enums.OrderStatusPending, enums.OrderStatusCancelled}:   true,
		{enums.OrderStatusConfirmed, enums.OrderStatusDelivered}: true,
		{enums.OrderStatusConfirmed, enums.OrderStatusCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]enums.OrderStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestValidateTransitionErrors(t *testing.T) {
	err := ValidateTransition(enums.OrderStatusDelivered, enums.OrderStatusCancelled)
	if err == nil {
		t.Fatal("terminal status must reject transitions")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeBusinessRule {
		t.Fatalf("unexpected error: %v", err)
	}
	if typed.Details() == nil {
		t.Fatal("transition error should carry from/to details")
	}

	if err := ValidateTransition(enums.OrderStatusPending, enums.OrderStatusPending); err == nil {
		t.Fatal("self-transition must be rejected")
	}

	err = ValidateTransition(enums.OrderStatusPending, enums.OrderStatus("shipped"))
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unknown target should be a validation error, got %v", err)
	}
}

func TestModificationAndDeletionGates(t *testing.T) {
	if !CanBeModified(enums.OrderStatusPending) {
		t.Fatal("pending orders are modifiable")
	}
	for _, status := range []enums.OrderStatus{enums.OrderStatusConfirmed, enums.OrderStatusDelivered, enums.OrderStatusCancelled} {
		if CanBeModified(status) {
			t.Fatalf("%s orders must not be modifiable", status)
		}
	}

	for _, status := range []enums.OrderStatus{enums.OrderStatusPending, enums.OrderStatusConfirmed, enums.OrderStatusCancelled} {
		if !CanBeDeleted(status) {
			t.Fatalf("%s orders are deletable", status)
		}
	}
	if CanBeDeleted(enums.OrderStatusDelivered) {
		t.Fatal("delivered orders must not be deletable")
	}
}
