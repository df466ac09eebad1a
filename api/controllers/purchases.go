package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backoffice/api/responses"
	"github.com/retailcore/backoffice/api/validators"
	internalpurchases "github.com/retailcore/backoffice/internal/purchases"
	"github.com/retailcore/backoffice/pkg/enums"
	pkgerrors "github.com/retailcore/backoffice/pkg/errors"
	"github.com/retailcore/backoffice/pkg/logger"
)

type createPurchaseRequest struct {
	SupplierName  string     `json:"supplier_name" validate:"required"`
	InvoiceNumber *string    `json:"invoice_number,omitempty"`
	PaymentMethod string     `json:"payment_method" validate:"required"`
	PurchasedAt   *time.Time `json:"purchased_at,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

func CreatePurchase(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchases service unavailable"))
			return
		}

		var payload createPurchaseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		paymentMethod, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		input := internalpurchases.CreatePurchaseInput{
			SupplierName:  payload.SupplierName,
			InvoiceNumber: payload.InvoiceNumber,
			PaymentMethod: paymentMethod,
			PurchasedAt:   payload.PurchasedAt,
			Notes:         payload.Notes,
			Actor:         actorFromContext(r),
		}

		purchase, err := svc.CreatePurchase(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, purchase)
	}
}

func PurchaseDetail(repo internalpurchases.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchases repository unavailable"))
			return
		}

		purchaseID, err := parseIDParam(r, "purchaseId", "purchase id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		purchase, err := repo.FindPurchase(r.Context(), purchaseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch purchase"))
			return
		}

		items, err := repo.FindItemsByPurchase(r.Context(), purchaseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch purchase items"))
			return
		}
		purchase.Items = items

		responses.WriteSuccess(w, purchase)
	}
}

type createPurchaseItemRequest struct {
	ProductID      *string `json:"product_id,omitempty" validate:"omitempty,uuid4"`
	ProductName    string  `json:"product_name" validate:"required"`
	Qty            int64   `json:"qty" validate:"required,min=1"`
	UnitPriceCents int64   `json:"unit_price_cents" validate:"required,min=1"`
	DiscountCents  int64   `json:"discount_cents" validate:"min=0"`
	TotalCents     int64   `json:"total_cents" validate:"required,min=1"`
}

func AddPurchaseItem(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchases service unavailable"))
			return
		}

		purchaseID, err := parseIDParam(r, "purchaseId", "purchase id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createPurchaseItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalpurchases.CreatePurchaseItemInput{
			PurchaseID:     purchaseID,
			ProductName:    payload.ProductName,
			Qty:            payload.Qty,
			UnitPriceCents: payload.UnitPriceCents,
			DiscountCents:  payload.DiscountCents,
			TotalCents:     payload.TotalCents,
			Actor:          actorFromContext(r),
		}
		if payload.ProductID != nil {
			productID, err := uuid.Parse(*payload.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			input.ProductID = &productID
		}

		item, err := svc.CreateItem(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

type updatePurchaseItemRequest struct {
	Qty            *int64 `json:"qty,omitempty" validate:"omitempty,min=1"`
	UnitPriceCents *int64 `json:"unit_price_cents,omitempty" validate:"omitempty,min=1"`
	DiscountCents  *int64 `json:"discount_cents,omitempty" validate:"omitempty,min=0"`
	TotalCents     *int64 `json:"total_cents,omitempty" validate:"omitempty,min=1"`
}

func UpdatePurchaseItem(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchases service unavailable"))
			return
		}

		itemID, err := parseIDParam(r, "itemId", "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updatePurchaseItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalpurchases.UpdatePurchaseItemInput{
			Qty:            payload.Qty,
			UnitPriceCents: payload.UnitPriceCents,
			DiscountCents:  payload.DiscountCents,
			TotalCents:     payload.TotalCents,
			Actor:          actorFromContext(r),
		}

		item, err := svc.UpdateItem(r.Context(), itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func DeletePurchaseItem(svc internalpurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchases service unavailable"))
			return
		}

		itemID, err := parseIDParam(r, "itemId", "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}
