// Package lifecycle is the sole writer of order and payment status.
// Every transition re-validates against the database; concurrent actors
// are serialized by conditional updates, not locks.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderlyy/orderlyy-backend/internal/orders"
	"github.com/orderlyy/orderlyy-backend/internal/payments"
	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	"github.com/orderlyy/orderlyy-backend/pkg/enums"
	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
	"github.com/orderlyy/orderlyy-backend/pkg/logger"
)

// Buyer identifies the Telegram user placing an order.
type Buyer struct {
	ID       int64
	Username *string
}

// Proof is the buyer-submitted payment evidence.
type Proof struct {
	FileID string
	Kind   enums.ProofKind
}

// Notifier delivers best-effort messages after a committed transition.
// Failures are logged and swallowed; they never roll back the change.
type Notifier interface {
	PaymentSubmitted(ctx context.Context, payment *models.Payment, order *models.Order) error
	PaymentApproved(ctx context.Context, order *models.Order) error
	PaymentRejected(ctx context.Context, order *models.Order) error
	DeliveryDetailsReceived(ctx context.Context, order *models.Order) error
	DeliveryStageChanged(ctx context.Context, order *models.Order, stage enums.DeliveryStage) error
}

type orderRepo interface {
	Create(ctx context.Context, dto orders.CreateOrderDTO) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateStatusIfNot(ctx context.Context, id uuid.UUID, status, blocked string) (int64, error)
	UpdateDelivery(ctx context.Context, id uuid.UUID, text, status string) error
}

type paymentRepo interface {
	Create(ctx context.Context, dto payments.CreatePaymentDTO) (*models.Payment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	HasAwaitingForOrder(ctx context.Context, orderID uuid.UUID) (bool, error)
	ResolveIfAwaiting(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) (int64, error)
}

type productRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service drives order and payment transitions.
type Service struct {
	orders   orderRepo
	payments paymentRepo
	products productRepo
	notifier Notifier
	logg     *logger.Logger
}

// NewService builds the lifecycle engine.
func NewService(ordersRepo orderRepo, paymentsRepo paymentRepo, productsRepo productRepo, notifier Notifier, logg *logger.Logger) (*Service, error) {
	if ordersRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if paymentsRepo == nil {
		return nil, fmt.Errorf("payment repository required")
	}
	if productsRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		orders:   ordersRepo,
		payments: paymentsRepo,
		products: productsRepo,
		notifier: notifier,
		logg:     logg,
	}, nil
}

// CreateOrder places a pending order after re-checking stock.
func (s *Service) CreateOrder(ctx context.Context, productID uuid.UUID, buyer Buyer, qty int) (*models.Order, *models.Product, error) {
	if qty <= 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.InStock {
		return nil, nil, pkgerrors.New(pkgerrors.CodeOutOfStock, "product out of stock").
			WithDetails(map[string]string{"product_id": product.ID.String()})
	}
	order, err := s.orders.Create(ctx, orders.CreateOrderDTO{
		StoreID:       product.StoreID,
		ProductID:     product.ID,
		BuyerID:       buyer.ID,
		BuyerUsername: buyer.Username,
		Qty:           qty,
		Status:        enums.OrderStatusPending.String(),
	})
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return order, product, nil
}

// SubmitPayment records payment proof for the buyer's own order. The
// amount is recomputed from the live product price at submission time.
func (s *Service) SubmitPayment(ctx context.Context, orderID uuid.UUID, buyer Buyer, proof Proof) (*models.Payment, error) {
	if proof.FileID == "" || !proof.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment proof required")
	}
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyer.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another buyer")
	}
	awaiting, err := s.payments.HasAwaitingForOrder(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check awaiting payment")
	}
	if awaiting {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already awaiting confirmation")
	}
	product, err := s.products.FindByID(ctx, order.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	payment, err := s.payments.Create(ctx, payments.CreatePaymentDTO{
		OrderID:       order.ID,
		StoreID:       order.StoreID,
		BuyerID:       buyer.ID,
		BuyerUsername: buyer.Username,
		Amount:        Total(product, order.Qty),
		ProofFileID:   proof.FileID,
		ProofKind:     proof.Kind,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
	}
	if err := s.orders.UpdateStatus(ctx, order.ID, enums.OrderStatusAwaitingConfirmation.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = enums.OrderStatusAwaitingConfirmation.String()

	s.notify(ctx, "payment submitted", func() error {
		return s.notifier.PaymentSubmitted(ctx, payment, order)
	})
	return payment, nil
}

// ApprovePayment confirms an awaiting payment. The conditional update is
// the concurrency guard: whoever flips the row first wins, everyone else
// gets a state conflict and no side effects run twice.
func (s *Service) ApprovePayment(ctx context.Context, paymentID, storeID uuid.UUID) (*models.Payment, error) {
	payment, err := s.loadPaymentForStore(ctx, paymentID, storeID)
	if err != nil {
		return nil, err
	}
	affected, err := s.payments.ResolveIfAwaiting(ctx, payment.ID, enums.PaymentStatusConfirmed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm payment")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already resolved")
	}
	payment.Status = enums.PaymentStatusConfirmed

	if err := s.orders.UpdateStatus(ctx, payment.OrderID, enums.OrderStatusPaid.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order, err := s.loadOrder(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "payment approved", func() error {
		return s.notifier.PaymentApproved(ctx, order)
	})
	return payment, nil
}

// RejectPayment declines an awaiting payment and returns the order to
// pending so the buyer can retry.
func (s *Service) RejectPayment(ctx context.Context, paymentID, storeID uuid.UUID) (*models.Payment, error) {
	payment, err := s.loadPaymentForStore(ctx, paymentID, storeID)
	if err != nil {
		return nil, err
	}
	affected, err := s.payments.ResolveIfAwaiting(ctx, payment.ID, enums.PaymentStatusRejected)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject payment")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already resolved")
	}
	payment.Status = enums.PaymentStatusRejected

	if err := s.orders.UpdateStatus(ctx, payment.OrderID, enums.OrderStatusPending.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order, err := s.loadOrder(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "payment rejected", func() error {
		return s.notifier.PaymentRejected(ctx, order)
	})
	return payment, nil
}

// SetDeliveryStatus advances a store-owned order through the fulfillment
// stages. Delivered is terminal.
func (s *Service) SetDeliveryStatus(ctx context.Context, orderID, storeID uuid.UUID, stage enums.DeliveryStage) (*models.Order, error) {
	if !stage.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery stage")
	}
	order, err := s.loadOrderForStore(ctx, orderID, storeID)
	if err != nil {
		return nil, err
	}
	delivered := enums.OrderStatusDelivered.String()
	affected, err := s.orders.UpdateStatusIfNot(ctx, order.ID, stage.OrderStatus().String(), delivered)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery status")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already delivered")
	}
	order.Status = stage.OrderStatus().String()

	s.notify(ctx, "delivery stage changed", func() error {
		return s.notifier.DeliveryStageChanged(ctx, order, stage)
	})
	return order, nil
}

// SetDeliveryDetails stores the buyer's delivery text on their own order.
func (s *Service) SetDeliveryDetails(ctx context.Context, orderID uuid.UUID, buyerID int64, text string) (*models.Order, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery details required")
	}
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another buyer")
	}
	status := enums.OrderStatusDeliveryDetailsReceived.String()
	if err := s.orders.UpdateDelivery(ctx, order.ID, text, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store delivery details")
	}
	order.DeliveryText = &text
	order.Status = status

	s.notify(ctx, "delivery details received", func() error {
		return s.notifier.DeliveryDetailsReceived(ctx, order)
	})
	return order, nil
}

// SetOrderStatus applies any status string to a store-owned order. This
// is the dashboard's operator escape hatch: no transition rules, no
// terminal guard.
func (s *Service) SetOrderStatus(ctx context.Context, orderID, storeID uuid.UUID, status string) (*models.Order, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status is required")
	}
	order, err := s.loadOrderForStore(ctx, orderID, storeID)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = status
	return order, nil
}

func (s *Service) loadOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *Service) loadOrderForStore(ctx context.Context, id, storeID uuid.UUID) (*models.Order, error) {
	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	// A foreign store's order reads as absent so probing reveals nothing.
	if order.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *Service) loadPaymentForStore(ctx context.Context, id, storeID uuid.UUID) (*models.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	if payment.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}
	return payment, nil
}

func (s *Service) notify(ctx context.Context, event string, send func() error) {
	if err := send(); err != nil {
		s.logg.Error(ctx, "notification failed: "+event, err)
	}
}
