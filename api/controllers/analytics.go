package controllers

import (
	"net/http"

	"github.com/orderlyy/orderlyy-backend/api/responses"
	analyticsvc "github.com/orderlyy/orderlyy-backend/internal/analytics"
	"github.com/orderlyy/orderlyy-backend/pkg/logger"
)

// GetAnalytics returns totals, change percentages and the daily series
// for the requested period.
func GetAnalytics(svc *analyticsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := authedStore(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		summary, err := svc.Summarize(r.Context(), store.ID, r.URL.Query().Get("period"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
