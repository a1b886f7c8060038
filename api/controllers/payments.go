package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/orderlyy/orderlyy-backend/api/responses"
	paymentsvc "github.com/orderlyy/orderlyy-backend/internal/payments"
	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
	"github.com/orderlyy/orderlyy-backend/pkg/logger"
)

type paymentResolver interface {
	ApprovePayment(ctx context.Context, paymentID, storeID uuid.UUID) (*models.Payment, error)
	RejectPayment(ctx context.Context, paymentID, storeID uuid.UUID) (*models.Payment, error)
}

type fileURLResolver interface {
	FileURL(ctx context.Context, fileID string) (string, error)
}

// ListPayments returns the store's payments, optionally filtered by
// status through the status query parameter.
func ListPayments(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := authedStore(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter, err := parsePaymentStatusFilter(r.URL.Query().Get("status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListByStore(r.Context(), store.ID, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetPayment returns a single payment owned by the store.
func GetPayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
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
		payment, err := svc.GetForStore(r.Context(), store.ID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, paymentsvc.FromModel(payment))
	}
}

// ApprovePayment confirms an awaiting payment through the lifecycle
// engine, which also advances the order and notifies the buyer.
func ApprovePayment(engine paymentResolver, logg *logger.Logger) http.HandlerFunc {
	return resolvePayment(engine.ApprovePayment, logg)
}

// RejectPayment rejects an awaiting payment through the lifecycle engine.
func RejectPayment(engine paymentResolver, logg *logger.Logger) http.HandlerFunc {
	return resolvePayment(engine.RejectPayment, logg)
}

func resolvePayment(resolve func(context.Context, uuid.UUID, uuid.UUID) (*models.Payment, error), logg *logger.Logger) http.HandlerFunc {
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
		payment, err := resolve(r.Context(), id, store.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, paymentsvc.FromModel(payment))
	}
}

// GetPaymentProof streams the proof file from Telegram so the dashboard
// never sees the bot token embedded in the file URL.
func GetPaymentProof(svc paymentsvc.Service, files fileURLResolver, client *http.Client, logg *logger.Logger) http.HandlerFunc {
	if client == nil {
		client = http.DefaultClient
	}
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
		payment, err := svc.GetForStore(r.Context(), store.ID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		url, err := files.FileURL(r.Context(), payment.ProofFileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, url, nil)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build proof request"))
			return
		}
		resp, err := client.Do(req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch proof file"))
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "proof file unavailable"))
			return
		}

		if ct := resp.Header.Get("Content-Type"); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, resp.Body); err != nil {
			logg.Error(r.Context(), "stream proof file", err)
		}
	}
}
