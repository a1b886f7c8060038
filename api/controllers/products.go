package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderlyy/orderlyy-backend/api/middleware"
	"github.com/orderlyy/orderlyy-backend/api/responses"
	"github.com/orderlyy/orderlyy-backend/api/validators"
	productsvc "github.com/orderlyy/orderlyy-backend/internal/products"
	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
	"github.com/orderlyy/orderlyy-backend/pkg/logger"
)

// authedStore pulls the store seeded by StoreAuth, erroring when absent.
func authedStore(r *http.Request) (*models.Store, error) {
	store := middleware.StoreFromContext(r.Context())
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return store, nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id")
	}
	return id, nil
}

// ListProducts returns all of the store's products, including out-of-stock
// rows.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := authedStore(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListByStore(r.Context(), store.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productsvc.FromModels(rows))
	}
}

type createProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	Price       string  `json:"price" validate:"required"`
	InStock     *bool   `json:"in_stock,omitempty"`
	PhotoFileID *string `json:"photo_file_id,omitempty"`
}

// CreateProduct adds a product from the dashboard.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := authedStore(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		price, err := decimal.NewFromString(payload.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
			return
		}
		inStock := true
		if payload.InStock != nil {
			inStock = *payload.InStock
		}

		product, err := svc.Create(r.Context(), productsvc.CreateProductInput{
			StoreID:     store.ID,
			Name:        payload.Name,
			Description: payload.Description,
			Price:       price,
			InStock:     inStock,
			PhotoFileID: payload.PhotoFileID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, productsvc.FromModel(product))
	}
}

type updateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *string `json:"price,omitempty"`
	InStock     *bool   `json:"in_stock,omitempty"`
}

// UpdateProduct edits a product; nil fields stay untouched.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := productsvc.UpdateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			InStock:     payload.InStock,
		}
		if payload.Price != nil {
			price, err := decimal.NewFromString(*payload.Price)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
				return
			}
			input.Price = &price
		}

		product, err := svc.Update(r.Context(), store.ID, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productsvc.FromModel(product))
	}
}
