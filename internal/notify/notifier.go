// Package notify delivers Telegram messages after lifecycle transitions.
// It owns no state: the gateway sends, the session store arms the buyer's
// next step when one is expected.
package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/orderlyy/orderlyy-backend/internal/conversation"
	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	"github.com/orderlyy/orderlyy-backend/pkg/enums"
	"github.com/orderlyy/orderlyy-backend/pkg/telegram"
)

type gateway interface {
	SendMessage(ctx context.Context, chatID int64, text string, rows ...[]telegram.Button) error
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string, rows ...[]telegram.Button) error
	SendDocument(ctx context.Context, chatID int64, fileID, caption string, rows ...[]telegram.Button) error
}

type sessionWriter interface {
	PutStep(ctx context.Context, userID int64, step string, data any) error
}

type storeReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// Notifier implements the lifecycle notification surface over Telegram.
type Notifier struct {
	gw       gateway
	sessions sessionWriter
	stores   storeReader
}

// New builds a Notifier.
func New(gw gateway, sessions sessionWriter, stores storeReader) (*Notifier, error) {
	if gw == nil {
		return nil, fmt.Errorf("gateway required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &Notifier{gw: gw, sessions: sessions, stores: stores}, nil
}

// PaymentSubmitted forwards the proof to the seller with approve/reject
// buttons.
func (n *Notifier) PaymentSubmitted(ctx context.Context, payment *models.Payment, order *models.Order) error {
	store, err := n.stores.FindByID(ctx, order.StoreID)
	if err != nil {
		return err
	}
	caption := fmt.Sprintf(
		"💳 <b>Payment proof received</b>\nOrder <code>%s</code>\nAmount: %s %s\nFrom: %s",
		shortID(order.ID), store.Currency, payment.Amount.StringFixed(2), buyerLabel(order),
	)
	buttons := []telegram.Button{
		{Text: "✅ Approve", Callback: "pay:approve:" + payment.ID.String()},
		{Text: "❌ Reject", Callback: "pay:reject:" + payment.ID.String()},
	}
	if payment.ProofKind == enums.ProofKindDocument {
		return n.gw.SendDocument(ctx, store.OwnerID, payment.ProofFileID, caption, buttons)
	}
	return n.gw.SendPhoto(ctx, store.OwnerID, payment.ProofFileID, caption, buttons)
}

// PaymentApproved tells the buyer and arms the delivery-details step.
func (n *Notifier) PaymentApproved(ctx context.Context, order *models.Order) error {
	if err := n.sessions.PutStep(ctx, order.BuyerID, conversation.StepOrderAddress, conversation.AddressData{OrderID: order.ID}); err != nil {
		return err
	}
	text := fmt.Sprintf(
		"✅ <b>Payment confirmed!</b>\nOrder <code>%s</code> is now paid.\n\nPlease reply with your delivery address and phone number.",
		shortID(order.ID),
	)
	return n.gw.SendMessage(ctx, order.BuyerID, text)
}

// PaymentRejected tells the buyer the proof was declined.
func (n *Notifier) PaymentRejected(ctx context.Context, order *models.Order) error {
	text := fmt.Sprintf(
		"❌ <b>Payment not confirmed</b>\nThe seller could not verify your payment for order <code>%s</code>. The order is back to pending. You can submit a new proof.",
		shortID(order.ID),
	)
	return n.gw.SendMessage(ctx, order.BuyerID, text, []telegram.Button{
		{Text: "💳 I've paid", Callback: "pay:paid:" + order.ID.String()},
		{Text: "✖️ Cancel", Callback: "pay:cancel:" + order.ID.String()},
	})
}

// DeliveryDetailsReceived forwards the address to the seller with the
// fulfillment buttons.
func (n *Notifier) DeliveryDetailsReceived(ctx context.Context, order *models.Order) error {
	store, err := n.stores.FindByID(ctx, order.StoreID)
	if err != nil {
		return err
	}
	address := ""
	if order.DeliveryText != nil {
		address = *order.DeliveryText
	}
	text := fmt.Sprintf(
		"📦 <b>Delivery details for order</b> <code>%s</code>\nFrom: %s\n\n%s",
		shortID(order.ID), buyerLabel(order), address,
	)
	return n.gw.SendMessage(ctx, store.OwnerID, text, []telegram.Button{
		{Text: "📦 Packed", Callback: "ship:packed:" + order.ID.String()},
		{Text: "🚚 Out for delivery", Callback: "ship:out:" + order.ID.String()},
		{Text: "✅ Delivered", Callback: "ship:delivered:" + order.ID.String()},
	})
}

// DeliveryStageChanged tells the buyer about fulfillment progress.
func (n *Notifier) DeliveryStageChanged(ctx context.Context, order *models.Order, stage enums.DeliveryStage) error {
	text := fmt.Sprintf(
		"🚚 <b>Order update</b>\nOrder <code>%s</code>: %s",
		shortID(order.ID), stage.Label(),
	)
	return n.gw.SendMessage(ctx, order.BuyerID, text)
}

func buyerLabel(order *models.Order) string {
	if order.BuyerUsername != nil && *order.BuyerUsername != "" {
		return "@" + *order.BuyerUsername
	}
	return fmt.Sprintf("user %d", order.BuyerID)
}

// shortID shows the first uuid block; enough to eyeball an order in chat.
func shortID(id uuid.UUID) string {
	s := id.String()
	return s[:8]
}
