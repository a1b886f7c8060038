package stores

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
)

// Repository handles store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new store row.
func (r *Repository) Create(ctx context.Context, dto CreateStoreDTO) (*models.Store, error) {
	store := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

// FindByID loads a store by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByOwner returns the store owned by the provided Telegram user, or
// gorm.ErrRecordNotFound when the user has none.
func (r *Repository) FindByOwner(ctx context.Context, ownerID int64) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByToken loads a store by its dashboard owner token.
func (r *Repository) FindByToken(ctx context.Context, token string) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("owner_token = ?", token).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByChannel loads the store linked to the provided channel.
func (r *Repository) FindByChannel(ctx context.Context, channelID int64) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("channel_id = ?", channelID).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// Update saves the provided store.
func (r *Repository) Update(ctx context.Context, store *models.Store) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	return r.db.WithContext(ctx).Save(store).Error
}
