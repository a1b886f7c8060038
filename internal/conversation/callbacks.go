package conversation

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	"github.com/orderlyy/orderlyy-backend/pkg/enums"
	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
)

// handleCallback acknowledges the query before any business logic so the
// client never spins, even when the handler fails afterwards.
func (e *Engine) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if err := e.gw.AnswerCallback(ctx, cb.ID, ""); err != nil {
		e.logg.Error(ctx, "answer callback", err)
	}
	if cb.From == nil {
		return nil
	}
	userID := cb.From.ID
	ctx = e.logg.WithUserID(ctx, fmt.Sprintf("%d", userID))

	ns, action, id := splitCallback(cb.Data)
	switch ns {
	case "menu":
		return e.handleMenu(ctx, userID, action)
	case "pay":
		return e.handlePayCallback(ctx, cb, action, id)
	case "ship":
		return e.handleShipCallback(ctx, userID, action, id)
	case "addr":
		return e.handleAddrCallback(ctx, userID, action, id)
	}
	return nil
}

// splitCallback breaks "<ns>:<action>:<id>" into parts; id may be empty.
func splitCallback(data string) (ns, action, id string) {
	parts := strings.SplitN(data, ":", 3)
	switch len(parts) {
	case 3:
		return parts[0], parts[1], parts[2]
	case 2:
		return parts[0], parts[1], ""
	case 1:
		return parts[0], "", ""
	}
	return "", "", ""
}

func (e *Engine) handleMenu(ctx context.Context, userID int64, action string) error {
	switch action {
	case "create":
		if _, err := e.stores.GetByOwner(ctx, userID); err == nil {
			return e.gw.SendMessage(ctx, userID, textAlreadyHaveStore)
		}
		if err := e.sessions.PutStep(ctx, userID, StepCreateName, nil); err != nil {
			return err
		}
		return e.gw.SendMessage(ctx, userID, textAskStoreName)

	case "link":
		if _, err := e.requireActiveStore(ctx, userID); err != nil {
			return e.replyError(ctx, userID, err)
		}
		if err := e.sessions.PutStep(ctx, userID, StepLinkChannel, nil); err != nil {
			return err
		}
		return e.gw.SendMessage(ctx, userID, textAskChannel)

	case "add":
		store, err := e.requireActiveStore(ctx, userID)
		if err != nil {
			return e.replyError(ctx, userID, err)
		}
		if store.ChannelID == nil {
			return e.gw.SendMessage(ctx, userID, textNeedChannel)
		}
		if err := e.sessions.PutStep(ctx, userID, StepProductPhoto, nil); err != nil {
			return err
		}
		return e.gw.SendMessage(ctx, userID, textAskProductPhoto)

	case "dashboard":
		store, err := e.requireActiveStore(ctx, userID)
		if err != nil {
			return e.replyError(ctx, userID, err)
		}
		return e.gw.SendMessage(ctx, userID, "📊 Your dashboard: "+e.dashboard.Link(store.OwnerToken))

	case "sub":
		store, err := e.stores.GetByOwner(ctx, userID)
		if err != nil {
			return e.replyError(ctx, userID, err)
		}
		info := e.gate.InfoFor(store)
		text := fmt.Sprintf("⭐ <b>Subscription</b>\nStatus: %s", info.Status)
		if info.ExpiresAt != nil {
			text += "\nExpires: " + info.ExpiresAt.Format("2 Jan 2006")
		}
		if !info.Active {
			text += "\n\n" + e.subscriptionBlockedText()
		}
		return e.gw.SendMessage(ctx, userID, text)
	}
	return nil
}

// requireActiveStore loads the caller's store and runs the gate. Missing
// stores read as NOT_FOUND; blocked stores as SUBSCRIPTION_REQUIRED.
func (e *Engine) requireActiveStore(ctx context.Context, userID int64) (*models.Store, error) {
	store, err := e.stores.GetByOwner(ctx, userID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, textNeedStore)
		}
		return nil, err
	}
	if !e.gate.IsActive(store) {
		return nil, pkgerrors.New(pkgerrors.CodeSubscription, "subscription expired")
	}
	return store, nil
}

func (e *Engine) handlePayCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action, rawID string) error {
	userID := cb.From.ID
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil
	}

	switch action {
	case "paid":
		if err := e.sessions.PutStep(ctx, userID, StepPayProof, ProofData{OrderID: id}); err != nil {
			return err
		}
		return e.gw.SendMessage(ctx, userID, textAskProof)

	case "cancel":
		if err := e.sessions.Clear(ctx, userID); err != nil {
			return err
		}
		return e.gw.SendMessage(ctx, userID, textCanceled)

	case "approve":
		store, err := e.stores.GetByOwner(ctx, userID)
		if err != nil {
			return e.replyError(ctx, userID, err)
		}
		if _, err := e.lifecycle.ApprovePayment(ctx, id, store.ID); err != nil {
			return e.replyError(ctx, userID, err)
		}
		return e.gw.SendMessage(ctx, userID, textPaymentApproved)

	case "reject":
		store, err := e.stores.GetByOwner(ctx, userID)
		if err != nil {
			return e.replyError(ctx, userID, err)
		}
		if _, err := e.lifecycle.RejectPayment(ctx, id, store.ID); err != nil {
			return e.replyError(ctx, userID, err)
		}
		return e.gw.SendMessage(ctx, userID, textPaymentRejected)
	}
	return nil
}

func (e *Engine) handleShipCallback(ctx context.Context, userID int64, action, rawID string) error {
	orderID, err := uuid.Parse(rawID)
	if err != nil {
		return nil
	}
	var stage enums.DeliveryStage
	switch action {
	case "packed":
		stage = enums.DeliveryStagePacked
	case "out":
		stage = enums.DeliveryStageOutForDelivery
	case "delivered":
		stage = enums.DeliveryStageDelivered
	default:
		return nil
	}
	store, err := e.stores.GetByOwner(ctx, userID)
	if err != nil {
		return e.replyError(ctx, userID, err)
	}
	if _, err := e.lifecycle.SetDeliveryStatus(ctx, orderID, store.ID, stage); err != nil {
		return e.replyError(ctx, userID, err)
	}
	return e.gw.SendMessage(ctx, userID, fmt.Sprintf(textStageUpdated, stage.Label()))
}

func (e *Engine) handleAddrCallback(ctx context.Context, userID int64, action, rawID string) error {
	if action != "update" {
		return nil
	}
	orderID, err := uuid.Parse(rawID)
	if err != nil {
		return nil
	}
	if err := e.sessions.PutStep(ctx, userID, StepOrderAddress, AddressData{OrderID: orderID}); err != nil {
		return err
	}
	return e.gw.SendMessage(ctx, userID, textAskAddress)
}
