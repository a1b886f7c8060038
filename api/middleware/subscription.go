package middleware

import (
	"net/http"

	"github.com/orderlyy/orderlyy-backend/api/responses"
	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
	"github.com/orderlyy/orderlyy-backend/pkg/logger"
)

type subscriptionChecker interface {
	IsActive(store *models.Store) bool
}

// RequireActiveSubscription blocks mutating dashboard calls for stores
// whose subscription has lapsed. The 402 payload carries the support
// contact so the dashboard can render a renewal prompt.
func RequireActiveSubscription(gate subscriptionChecker, supportLink string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := StoreFromContext(r.Context())
			if store == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if !gate.IsActive(store) {
				err := pkgerrors.New(pkgerrors.CodeSubscription, "subscription expired").
					WithDetails(map[string]string{"support_link": supportLink})
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
