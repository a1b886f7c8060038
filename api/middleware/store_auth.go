package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/orderlyy/orderlyy-backend/api/responses"
	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
	"github.com/orderlyy/orderlyy-backend/pkg/logger"
)

type storeResolver interface {
	GetByToken(ctx context.Context, token string) (*models.Store, error)
}

const ctxStore contextKey = "store"

// StoreFromContext returns the authenticated store, nil outside StoreAuth.
func StoreFromContext(ctx context.Context) *models.Store {
	if ctx == nil {
		return nil
	}
	if store, ok := ctx.Value(ctxStore).(*models.Store); ok {
		return store
	}
	return nil
}

// WithStore injects the authenticated store into the context.
func WithStore(ctx context.Context, store *models.Store) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStore, store)
}

// StoreAuth resolves the dashboard credential and seeds the request
// context with the owning store. The token arrives as a bearer header or,
// for browser-openable URLs, as a token query parameter.
func StoreAuth(resolver storeResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				token = strings.TrimSpace(r.URL.Query().Get("token"))
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			store, err := resolver.GetByToken(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithStore(r.Context(), store)
			ctx = WithStoreID(ctx, store.ID.String())
			if logg != nil {
				ctx = logg.WithStoreID(ctx, store.ID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
