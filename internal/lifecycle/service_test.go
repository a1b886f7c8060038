package lifecycle

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/orderlyy/orderlyy-backend/internal/orders"
	"github.com/orderlyy/orderlyy-backend/internal/payments"
	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	"github.com/orderlyy/orderlyy-backend/pkg/enums"
	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
	"github.com/orderlyy/orderlyy-backend/pkg/logger"
)

type stubOrderRepo struct {
	order       *models.Order
	created     *models.Order
	statusLog   []string
	guardRows   int64
	deliveryTxt string
	err         error
}

func (s *stubOrderRepo) Create(_ context.Context, dto orders.CreateOrderDTO) (*models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = dto.ToModel()
	return s.created, nil
}

func (s *stubOrderRepo) FindByID(context.Context, uuid.UUID) (*models.Order, error) {
	if s.order == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *s.order
	return &cpy, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, _ uuid.UUID, status string) error {
	s.statusLog = append(s.statusLog, status)
	if s.order != nil {
		s.order.Status = status
	}
	return nil
}

func (s *stubOrderRepo) UpdateStatusIfNot(_ context.Context, _ uuid.UUID, status, _ string) (int64, error) {
	if s.guardRows > 0 {
		s.statusLog = append(s.statusLog, status)
		if s.order != nil {
			s.order.Status = status
		}
	}
	return s.guardRows, nil
}

func (s *stubOrderRepo) UpdateDelivery(_ context.Context, _ uuid.UUID, text, status string) error {
	s.deliveryTxt = text
	s.statusLog = append(s.statusLog, status)
	return nil
}

type stubPaymentRepo struct {
	payment    *models.Payment
	created    *models.Payment
	awaiting   bool
	guardRows  int64
	resolvedTo []enums.PaymentStatus
}

func (s *stubPaymentRepo) Create(_ context.Context, dto payments.CreatePaymentDTO) (*models.Payment, error) {
	s.created = dto.ToModel()
	return s.created, nil
}

func (s *stubPaymentRepo) FindByID(context.Context, uuid.UUID) (*models.Payment, error) {
	if s.payment == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *s.payment
	return &cpy, nil
}

func (s *stubPaymentRepo) HasAwaitingForOrder(context.Context, uuid.UUID) (bool, error) {
	return s.awaiting, nil
}

func (s *stubPaymentRepo) ResolveIfAwaiting(_ context.Context, _ uuid.UUID, status enums.PaymentStatus) (int64, error) {
	if s.guardRows > 0 {
		s.resolvedTo = append(s.resolvedTo, status)
	}
	return s.guardRows, nil
}

type stubProductRepo struct {
	product *models.Product
}

func (s *stubProductRepo) FindByID(context.Context, uuid.UUID) (*models.Product, error) {
	if s.product == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *s.product
	return &cpy, nil
}

type recordingNotifier struct {
	submitted int
	approved  int
	rejected  int
	details   int
	stages    []enums.DeliveryStage
	err       error
}

func (r *recordingNotifier) PaymentSubmitted(context.Context, *models.Payment, *models.Order) error {
	r.submitted++
	return r.err
}

func (r *recordingNotifier) PaymentApproved(context.Context, *models.Order) error {
	r.approved++
	return r.err
}

func (r *recordingNotifier) PaymentRejected(context.Context, *models.Order) error {
	r.rejected++
	return r.err
}

func (r *recordingNotifier) DeliveryDetailsReceived(context.Context, *models.Order) error {
	r.details++
	return r.err
}

func (r *recordingNotifier) DeliveryStageChanged(_ context.Context, _ *models.Order, stage enums.DeliveryStage) error {
	r.stages = append(r.stages, stage)
	return r.err
}

type fixture struct {
	svc      *Service
	orders   *stubOrderRepo
	payments *stubPaymentRepo
	products *stubProductRepo
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		orders:   &stubOrderRepo{guardRows: 1},
		payments: &stubPaymentRepo{guardRows: 1},
		products: &stubProductRepo{},
		notifier: &recordingNotifier{},
	}
	logg := logger.New(logger.Options{ServiceName: "lifecycle-test", Level: zerolog.ErrorLevel, Output: io.Discard})
	svc, err := NewService(f.orders, f.payments, f.products, f.notifier, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func inStockProduct(storeID uuid.UUID) *models.Product {
	return &models.Product{
		ID:      uuid.New(),
		StoreID: storeID,
		Name:    "Raw honey 500g",
		Price:   decimal.RequireFromString("1500.00"),
		InStock: true,
	}
}

func pendingOrder(storeID, productID uuid.UUID, buyerID int64) *models.Order {
	return &models.Order{
		ID:        uuid.New(),
		StoreID:   storeID,
		ProductID: productID,
		BuyerID:   buyerID,
		Qty:       3,
		Status:    enums.OrderStatusPending.String(),
	}
}

func awaitingPayment(order *models.Order) *models.Payment {
	return &models.Payment{
		ID:      uuid.New(),
		OrderID: order.ID,
		StoreID: order.StoreID,
		BuyerID: order.BuyerID,
		Amount:  decimal.RequireFromString("4500.00"),
		Status:  enums.PaymentStatusAwaiting,
	}
}

func errCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != want {
		t.Fatalf("expected %s, got %v", want, err)
	}
}

func TestCreateOrderHappyPath(t *testing.T) {
	f := newFixture(t)
	storeID := uuid.New()
	f.products.product = inStockProduct(storeID)

	order, product, err := f.svc.CreateOrder(context.Background(), f.products.product.ID, Buyer{ID: 42}, 3)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Status != enums.OrderStatusPending.String() {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	if order.StoreID != storeID {
		t.Fatalf("expected order bound to product's store")
	}
	if !Total(product, order.Qty).Equal(decimal.RequireFromString("4500.00")) {
		t.Fatalf("unexpected total %s", Total(product, order.Qty))
	}
}

func TestCreateOrderOutOfStock(t *testing.T) {
	f := newFixture(t)
	f.products.product = inStockProduct(uuid.New())
	f.products.product.InStock = false

	_, _, err := f.svc.CreateOrder(context.Background(), f.products.product.ID, Buyer{ID: 42}, 1)
	errCode(t, err, pkgerrors.CodeOutOfStock)
	if f.orders.created != nil {
		t.Fatal("expected no order written")
	}
}

func TestCreateOrderValidatesQty(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.CreateOrder(context.Background(), uuid.New(), Buyer{ID: 42}, 0)
	errCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateOrderMissingProduct(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.CreateOrder(context.Background(), uuid.New(), Buyer{ID: 42}, 1)
	errCode(t, err, pkgerrors.CodeNotFound)
}

func TestSubmitPaymentRecomputesAmountFromLivePrice(t *testing.T) {
	f := newFixture(t)
	storeID := uuid.New()
	product := inStockProduct(storeID)
	f.products.product = product
	f.orders.order = pendingOrder(storeID, product.ID, 42)

	// Price changed after the order was placed.
	product.Price = decimal.RequireFromString("2000.00")

	payment, err := f.svc.SubmitPayment(context.Background(), f.orders.order.ID, Buyer{ID: 42}, Proof{FileID: "file-1", Kind: enums.ProofKindPhoto})
	if err != nil {
		t.Fatalf("submit payment: %v", err)
	}
	if !payment.Amount.Equal(decimal.RequireFromString("6000.00")) {
		t.Fatalf("expected amount from live price, got %s", payment.Amount)
	}
	if got := f.orders.statusLog; len(got) != 1 || got[0] != enums.OrderStatusAwaitingConfirmation.String() {
		t.Fatalf("expected order awaiting_confirmation, got %v", got)
	}
	if f.notifier.submitted != 1 {
		t.Fatalf("expected one seller notification, got %d", f.notifier.submitted)
	}
}

func TestSubmitPaymentForeignBuyerForbidden(t *testing.T) {
	f := newFixture(t)
	storeID := uuid.New()
	product := inStockProduct(storeID)
	f.products.product = product
	f.orders.order = pendingOrder(storeID, product.ID, 42)

	_, err := f.svc.SubmitPayment(context.Background(), f.orders.order.ID, Buyer{ID: 99}, Proof{FileID: "file-1", Kind: enums.ProofKindPhoto})
	errCode(t, err, pkgerrors.CodeForbidden)
	if f.payments.created != nil {
		t.Fatal("expected no payment written")
	}
}

func TestSubmitPaymentDuplicateAwaitingConflict(t *testing.T) {
	f := newFixture(t)
	storeID := uuid.New()
	product := inStockProduct(storeID)
	f.products.product = product
	f.orders.order = pendingOrder(storeID, product.ID, 42)
	f.payments.awaiting = true

	_, err := f.svc.SubmitPayment(context.Background(), f.orders.order.ID, Buyer{ID: 42}, Proof{FileID: "file-1", Kind: enums.ProofKindPhoto})
	errCode(t, err, pkgerrors.CodeStateConflict)
}

func TestApprovePaymentMarksOrderPaid(t *testing.T) {
	f := newFixture(t)
	storeID := uuid.New()
	product := inStockProduct(storeID)
	order := pendingOrder(storeID, product.ID, 42)
	order.Status = enums.OrderStatusAwaitingConfirmation.String()
	f.orders.order = order
	f.payments.payment = awaitingPayment(order)

	payment, err := f.svc.ApprovePayment(context.Background(), f.payments.payment.ID, storeID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if payment.Status != enums.PaymentStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", payment.Status)
	}
	if got := f.orders.statusLog; len(got) != 1 || got[0] != enums.OrderStatusPaid.String() {
		t.Fatalf("expected order paid, got %v", got)
	}
	if f.notifier.approved != 1 {
		t.Fatalf("expected one buyer notification, got %d", f.notifier.approved)
	}
}

func TestApprovePaymentAlreadyResolvedNoDuplicateNotification(t *testing.T) {
	f := newFixture(t)
	storeID := uuid.New()
	order := pendingOrder(storeID, uuid.New(), 42)
	f.orders.order = order
	f.payments.payment = awaitingPayment(order)
	f.payments.guardRows = 0

	_, err := f.svc.ApprovePayment(context.Background(), f.payments.payment.ID, storeID)
	errCode(t, err, pkgerrors.CodeStateConflict)
	if f.notifier.approved != 0 {
		t.Fatalf("expected no notification on lost race, got %d", f.notifier.approved)
	}
	if len(f.orders.statusLog) != 0 {
		t.Fatalf("expected no order write on lost race, got %v", f.orders.statusLog)
	}
}

func TestApprovePaymentForeignStoreReadsNotFound(t *testing.T) {
	f := newFixture(t)
	order := pendingOrder(uuid.New(), uuid.New(), 42)
	f.orders.order = order
	f.payments.payment = awaitingPayment(order)

	_, err := f.svc.ApprovePayment(context.Background(), f.payments.payment.ID, uuid.New())
	errCode(t, err, pkgerrors.CodeNotFound)
}

func TestSetOrderStatusForeignStoreReadsNotFound(t *testing.T) {
	f := newFixture(t)
	order := pendingOrder(uuid.New(), uuid.New(), 42)
	f.orders.order = order

	_, err := f.svc.SetOrderStatus(context.Background(), order.ID, uuid.New(), "shipped")
	errCode(t, err, pkgerrors.CodeNotFound)
}

func TestRejectPaymentReturnsOrderToPending(t *testing.T) {
	f := newFixture(t)
	storeID := uuid.New()
	order := pendingOrder(storeID, uuid.New(), 42)
	order.Status = enums.OrderStatusAwaitingConfirmation.String()
	f.orders.order = order
	f.payments.payment = awaitingPayment(order)

	payment, err := f.svc.RejectPayment(context.Background(), f.payments.payment.ID, storeID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if payment.Status != enums.PaymentStatusRejected {
		t.Fatalf("expected rejected, got %s", payment.Status)
	}
	if got := f.orders.statusLog; len(got) != 1 || got[0] != enums.OrderStatusPending.String() {
		t.Fatalf("expected order back to pending, got %v", got)
	}
	if f.notifier.rejected != 1 {
		t.Fatalf("expected one buyer notification, got %d", f.notifier.rejected)
	}
}

func TestSetDeliveryStatusDeliveredIsTerminal(t *testing.T) {
	f := newFixture(t)
	storeID := uuid.New()
	order := pendingOrder(storeID, uuid.New(), 42)
	order.Status = enums.OrderStatusDelivered.String()
	f.orders.order = order
	f.orders.guardRows = 0

	_, err := f.svc.SetDeliveryStatus(context.Background(), order.ID, storeID, enums.DeliveryStagePacked)
	errCode(t, err, pkgerrors.CodeStateConflict)
	if len(f.notifier.stages) != 0 {
		t.Fatalf("expected no notification past terminal state, got %v", f.notifier.stages)
	}
}

func TestSetDeliveryStatusAdvancesAndNotifies(t *testing.T) {
	f := newFixture(t)
	storeID := uuid.New()
	order := pendingOrder(storeID, uuid.New(), 42)
	order.Status = enums.OrderStatusPaid.String()
	f.orders.order = order

	updated, err := f.svc.SetDeliveryStatus(context.Background(), order.ID, storeID, enums.DeliveryStageOutForDelivery)
	if err != nil {
		t.Fatalf("set delivery status: %v", err)
	}
	if updated.Status != enums.OrderStatusOutForDelivery.String() {
		t.Fatalf("expected out_for_delivery, got %s", updated.Status)
	}
	if len(f.notifier.stages) != 1 || f.notifier.stages[0] != enums.DeliveryStageOutForDelivery {
		t.Fatalf("expected stage notification, got %v", f.notifier.stages)
	}
}

func TestSetDeliveryDetails(t *testing.T) {
	f := newFixture(t)
	storeID := uuid.New()
	order := pendingOrder(storeID, uuid.New(), 42)
	order.Status = enums.OrderStatusPaid.String()
	f.orders.order = order

	updated, err := f.svc.SetDeliveryDetails(context.Background(), order.ID, 42, " 12 Marina Rd, Lagos ")
	if err != nil {
		t.Fatalf("set delivery details: %v", err)
	}
	if updated.Status != enums.OrderStatusDeliveryDetailsReceived.String() {
		t.Fatalf("expected delivery_details_received, got %s", updated.Status)
	}
	if f.orders.deliveryTxt != "12 Marina Rd, Lagos" {
		t.Fatalf("expected trimmed delivery text, got %q", f.orders.deliveryTxt)
	}
	if f.notifier.details != 1 {
		t.Fatalf("expected seller notification, got %d", f.notifier.details)
	}

	_, err = f.svc.SetDeliveryDetails(context.Background(), order.ID, 99, "somewhere")
	errCode(t, err, pkgerrors.CodeForbidden)
}

func TestSetOrderStatusAcceptsArbitraryStatus(t *testing.T) {
	f := newFixture(t)
	storeID := uuid.New()
	order := pendingOrder(storeID, uuid.New(), 42)
	order.Status = enums.OrderStatusDelivered.String()
	f.orders.order = order

	updated, err := f.svc.SetOrderStatus(context.Background(), order.ID, storeID, "refund_in_review")
	if err != nil {
		t.Fatalf("set order status: %v", err)
	}
	if updated.Status != "refund_in_review" {
		t.Fatalf("expected free-form status applied, got %s", updated.Status)
	}
}

func TestNotifierFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("telegram down")
	storeID := uuid.New()
	order := pendingOrder(storeID, uuid.New(), 42)
	f.orders.order = order
	f.payments.payment = awaitingPayment(order)

	payment, err := f.svc.ApprovePayment(context.Background(), f.payments.payment.ID, storeID)
	if err != nil {
		t.Fatalf("expected commit to survive notifier failure, got %v", err)
	}
	if payment.Status != enums.PaymentStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", payment.Status)
	}
}
