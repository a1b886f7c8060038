package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/orderlyy/orderlyy-backend/api/responses"
	"github.com/orderlyy/orderlyy-backend/api/validators"
	ordersvc "github.com/orderlyy/orderlyy-backend/internal/orders"
	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	"github.com/orderlyy/orderlyy-backend/pkg/enums"
	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
	"github.com/orderlyy/orderlyy-backend/pkg/logger"
)

type lifecycleStatusWriter interface {
	SetOrderStatus(ctx context.Context, orderID, storeID uuid.UUID, status string) (*models.Order, error)
}

// ListOrders returns the store's orders with live product totals.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := authedStore(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListByStore(r.Context(), store.ID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderStatus writes an operator-chosen status. Known statuses pass
// the delivery state machine elsewhere; this endpoint accepts free text so
// the dashboard can record states the bot has no button for.
func UpdateOrderStatus(engine lifecycleStatusWriter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := authedStore(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status := validators.SanitizeString(payload.Status, 64)
		if status == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "status is required"))
			return
		}

		order, err := engine.SetOrderStatus(r.Context(), id, store.ID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"id":     order.ID,
			"status": order.Status,
		})
	}
}

func parsePaymentStatusFilter(raw string) (*enums.PaymentStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	status, err := enums.ParsePaymentStatus(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
	}
	return &status, nil
}
