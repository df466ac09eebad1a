package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/retailcore/backoffice/api/responses"
	"github.com/retailcore/backoffice/api/validators"
	internalorders "github.com/retailcore/backoffice/internal/orders"
	pkgerrors "github.com/retailcore/backoffice/pkg/errors"
	"github.com/retailcore/backoffice/pkg/logger"
)

type addLineItemRequest struct {
	ProductID      string `json:"product_id" validate:"required,uuid4"`
	Qty            int64  `json:"qty" validate:"required,min=1"`
	UnitPriceCents int64  `json:"unit_price_cents" validate:"required,min=1"`
}

func AddOrderLineItem(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseIDParam(r, "orderId", "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addLineItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		input := internalorders.AddLineItemInput{
			OrderID:        orderID,
			ProductID:      productID,
			Qty:            payload.Qty,
			UnitPriceCents: payload.UnitPriceCents,
			Actor:          actorFromContext(r),
		}

		item, err := svc.AddLineItem(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

type updateLineItemRequest struct {
	Qty            *int64 `json:"qty,omitempty" validate:"omitempty,min=1"`
	UnitPriceCents *int64 `json:"unit_price_cents,omitempty" validate:"omitempty,min=1"`
}

func UpdateOrderLineItem(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		itemID, err := parseIDParam(r, "itemId", "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateLineItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.UpdateLineItemInput{
			Qty:            payload.Qty,
			UnitPriceCents: payload.UnitPriceCents,
			Actor:          actorFromContext(r),
		}

		item, err := svc.UpdateLineItem(r.Context(), itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func RemoveOrderLineItem(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		itemID, err := parseIDParam(r, "itemId", "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		removed, err := svc.RemoveLineItem(r.Context(), itemID, actorFromContext(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, removed)
	}
}
