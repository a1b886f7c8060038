package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	"github.com/orderlyy/orderlyy-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  in_stock INTEGER NOT NULL DEFAULT 1,
  photo_file_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  buyer_id INTEGER NOT NULL,
  buyer_username TEXT,
  qty INTEGER NOT NULL,
  status TEXT NOT NULL,
  delivery_text TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec("DELETE FROM orders").Error)
	require.NoError(t, db.Exec("DELETE FROM products").Error)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, storeID uuid.UUID, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:      uuid.New(),
		StoreID: storeID,
		Name:    "Raw honey 500g",
		Price:   decimal.RequireFromString(price),
		InStock: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryListByStoreJoinsProduct(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	storeID := uuid.New()
	product := seedProduct(t, db, storeID, "1500.00")

	order, err := repo.Create(context.Background(), CreateOrderDTO{
		StoreID:   storeID,
		ProductID: product.ID,
		BuyerID:   900,
		Qty:       3,
		Status:    enums.OrderStatusPending.String(),
	})
	require.NoError(t, err)

	rows, err := repo.ListByStore(context.Background(), storeID, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, order.ID, rows[0].ID)
	assert.Equal(t, "Raw honey 500g", rows[0].ProductName)
	assert.True(t, rows[0].ProductPrice.Equal(decimal.RequireFromString("1500.00")))

	dtos := FromJoinedRows(rows)
	assert.True(t, dtos[0].Total.Equal(decimal.RequireFromString("4500.00")))
}

func TestRepositoryTotalTracksLivePrice(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	storeID := uuid.New()
	product := seedProduct(t, db, storeID, "1000")

	_, err := repo.Create(context.Background(), CreateOrderDTO{
		StoreID:   storeID,
		ProductID: product.ID,
		BuyerID:   901,
		Qty:       2,
		Status:    enums.OrderStatusPending.String(),
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price", decimal.RequireFromString("1250")).Error)

	rows, err := repo.ListByStore(context.Background(), storeID, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, FromJoinedRows(rows)[0].Total.Equal(decimal.RequireFromString("2500")))
}

func TestRepositoryUpdateStatusIfNotGuardsTerminal(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	storeID := uuid.New()
	product := seedProduct(t, db, storeID, "100")

	order, err := repo.Create(context.Background(), CreateOrderDTO{
		StoreID:   storeID,
		ProductID: product.ID,
		BuyerID:   902,
		Qty:       1,
		Status:    enums.OrderStatusPaid.String(),
	})
	require.NoError(t, err)

	delivered := enums.OrderStatusDelivered.String()
	affected, err := repo.UpdateStatusIfNot(context.Background(), order.ID, delivered, delivered)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = repo.UpdateStatusIfNot(context.Background(), order.ID, enums.OrderStatusPacked.String(), delivered)
	require.NoError(t, err)
	assert.Zero(t, affected)

	reloaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, delivered, reloaded.Status)
}

func TestRepositoryUpdateDelivery(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	storeID := uuid.New()
	product := seedProduct(t, db, storeID, "100")

	order, err := repo.Create(context.Background(), CreateOrderDTO{
		StoreID:   storeID,
		ProductID: product.ID,
		BuyerID:   903,
		Qty:       1,
		Status:    enums.OrderStatusPaid.String(),
	})
	require.NoError(t, err)

	err = repo.UpdateDelivery(context.Background(), order.ID, "12 Marina Rd, Lagos", enums.OrderStatusDeliveryDetailsReceived.String())
	require.NoError(t, err)

	reloaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.DeliveryText)
	assert.Equal(t, "12 Marina Rd, Lagos", *reloaded.DeliveryText)
	assert.Equal(t, enums.OrderStatusDeliveryDetailsReceived.String(), reloaded.Status)
}

func TestRepositoryListByStoreKeepsOutOfStockProducts(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	storeID := uuid.New()
	product := seedProduct(t, db, storeID, "1500.00")

	order, err := repo.Create(context.Background(), CreateOrderDTO{
		StoreID:   storeID,
		ProductID: product.ID,
		BuyerID:   902,
		Qty:       1,
		Status:    enums.OrderStatusPending.String(),
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("in_stock", false).Error)

	rows, err := repo.ListByStore(context.Background(), storeID, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, order.ID, rows[0].ID)
	assert.Equal(t, "Raw honey 500g", rows[0].ProductName)
}
