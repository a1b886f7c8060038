package controllers

import (
	"net/http"
	"regexp"
	"time"

	"github.com/orderlyy/orderlyy-backend/api/middleware"
	"github.com/orderlyy/orderlyy-backend/api/responses"
	"github.com/orderlyy/orderlyy-backend/api/validators"
	"github.com/orderlyy/orderlyy-backend/internal/stores"
	"github.com/orderlyy/orderlyy-backend/internal/subscriptions"
	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
	"github.com/orderlyy/orderlyy-backend/pkg/logger"
)

type subscriptionInfoReader interface {
	InfoFor(store *models.Store) subscriptions.Info
}

type storeResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Currency          string     `json:"currency"`
	ChannelUsername   *string    `json:"channel_username,omitempty"`
	ChannelLinked     bool       `json:"channel_linked"`
	DeliveryNote      *string    `json:"delivery_note,omitempty"`
	BankName          *string    `json:"bank_name,omitempty"`
	BankAccountName   *string    `json:"bank_account_name,omitempty"`
	BankAccountNumber *string    `json:"bank_account_number,omitempty"`
	Subscription      string     `json:"subscription_status"`
	SubscriptionEnds  *time.Time `json:"subscription_expires_at,omitempty"`
	SubscriptionOK    bool       `json:"subscription_active"`
}

func storeToResponse(store *models.Store, info subscriptions.Info) storeResponse {
	return storeResponse{
		ID:                store.ID.String(),
		Name:              store.Name,
		Currency:          store.Currency,
		ChannelUsername:   store.ChannelUsername,
		ChannelLinked:     store.ChannelID != nil,
		DeliveryNote:      store.DeliveryNote,
		BankName:          store.BankName,
		BankAccountName:   store.BankAccountName,
		BankAccountNumber: store.BankAccountNumber,
		Subscription:      info.Status,
		SubscriptionEnds:  info.ExpiresAt,
		SubscriptionOK:    info.Active,
	}
}

// GetStore returns the authenticated store's profile with its
// subscription state.
func GetStore(gate subscriptionInfoReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := middleware.StoreFromContext(r.Context())
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}
		responses.WriteSuccess(w, storeToResponse(store, gate.InfoFor(store)))
	}
}

type updateBankRequest struct {
	BankName          *string `json:"bank_name,omitempty"`
	BankAccountName   *string `json:"bank_account_name,omitempty"`
	BankAccountNumber *string `json:"bank_account_number,omitempty"`
	DeliveryNote      *string `json:"delivery_note,omitempty"`
}

var accountNumberPattern = regexp.MustCompile(`^\d{10}$`)

// UpdateStoreBank updates payout details shown to buyers at checkout.
func UpdateStoreBank(svc stores.Service, gate subscriptionInfoReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := middleware.StoreFromContext(r.Context())
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var payload updateBankRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.BankAccountNumber != nil && *payload.BankAccountNumber != "" &&
			!accountNumberPattern.MatchString(*payload.BankAccountNumber) {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "account number must be 10 digits"))
			return
		}

		updated, err := svc.UpdateSettings(r.Context(), store.ID, stores.UpdateSettingsInput{
			BankName:          payload.BankName,
			BankAccountName:   payload.BankAccountName,
			BankAccountNumber: payload.BankAccountNumber,
			DeliveryNote:      payload.DeliveryNote,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, storeToResponse(updated, gate.InfoFor(updated)))
	}
}
