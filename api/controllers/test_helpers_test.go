package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/orderlyy/orderlyy-backend/api/middleware"
	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
)

func newAuthedStore() *models.Store {
	return &models.Store{
		ID:         uuid.New(),
		OwnerID:    42,
		OwnerToken: "secret-token",
		Name:       "Sunrise Goods",
		Currency:   "NGN",
	}
}

// withStore seeds the request the way StoreAuth would.
func withStore(r *http.Request, store *models.Store) *http.Request {
	ctx := middleware.WithStore(r.Context(), store)
	return r.WithContext(middleware.WithStoreID(ctx, store.ID.String()))
}

// withPathID seeds a chi route context carrying the id URL param.
func withPathID(r *http.Request, id uuid.UUID) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id.String())
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
