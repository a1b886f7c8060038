// Package subscriptions decides whether a store may use mutating
// features. The gate fails open: incomplete billing data never locks a
// merchant out.
package subscriptions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orderlyy/orderlyy-backend/pkg/config"
	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	"github.com/orderlyy/orderlyy-backend/pkg/enums"
	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
)

// Info is the subscription summary shown in the bot and dashboard.
type Info struct {
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Active    bool       `json:"active"`
}

type storeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	Update(ctx context.Context, store *models.Store) error
}

// Gate evaluates and backfills subscription state.
type Gate struct {
	repo storeRepository
	cfg  config.SubscriptionConfig
	now  func() time.Time
}

// NewGate builds a subscription gate over the store repository.
func NewGate(repo storeRepository, cfg config.SubscriptionConfig) (*Gate, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &Gate{repo: repo, cfg: cfg, now: time.Now}, nil
}

// IsActive reports whether the store may use gated features.
//
// Missing stores and missing billing fields count as active. Only an
// explicit expiry in the past, or a blocking status with no expiry at
// all, denies service.
func (g *Gate) IsActive(store *models.Store) bool {
	if store == nil {
		return true
	}
	if store.SubscriptionExpiresAt != nil {
		return store.SubscriptionExpiresAt.After(g.now())
	}
	if store.SubscriptionStatus != nil && store.SubscriptionStatus.Blocks() {
		return false
	}
	return true
}

// Require returns a typed error carrying the support link when the store
// is blocked.
func (g *Gate) Require(store *models.Store, dashboard config.DashboardConfig) error {
	if g.IsActive(store) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeSubscription, "subscription expired").
		WithDetails(map[string]string{"support_link": dashboard.SupportLink()})
}

// EnsureDefaults backfills trial status and expiry on stores created
// before billing fields existed. Idempotent.
func (g *Gate) EnsureDefaults(ctx context.Context, storeID uuid.UUID) error {
	store, err := g.repo.FindByID(ctx, storeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store for subscription defaults")
	}
	changed := false
	if store.SubscriptionStatus == nil {
		trial := enums.SubscriptionStatusTrial
		store.SubscriptionStatus = &trial
		changed = true
	}
	if store.SubscriptionExpiresAt == nil {
		expiry := store.CreatedAt.Add(time.Duration(g.cfg.TrialDays) * 24 * time.Hour)
		store.SubscriptionExpiresAt = &expiry
		changed = true
	}
	if !changed {
		return nil
	}
	if err := g.repo.Update(ctx, store); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store subscription defaults")
	}
	return nil
}

// InfoFor summarizes the store's subscription for display.
func (g *Gate) InfoFor(store *models.Store) Info {
	info := Info{Status: enums.SubscriptionStatusUnknown.String(), Active: g.IsActive(store)}
	if store == nil {
		return info
	}
	if store.SubscriptionStatus != nil {
		info.Status = store.SubscriptionStatus.String()
	}
	info.ExpiresAt = store.SubscriptionExpiresAt
	return info
}
