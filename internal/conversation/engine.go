// Package conversation drives the per-user Telegram dialog. All dialog
// state lives in the session store; the engine itself is stateless and
// safe for concurrent updates.
package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/orderlyy/orderlyy-backend/internal/lifecycle"
	"github.com/orderlyy/orderlyy-backend/internal/products"
	"github.com/orderlyy/orderlyy-backend/internal/sessions"
	"github.com/orderlyy/orderlyy-backend/internal/stores"
	"github.com/orderlyy/orderlyy-backend/internal/subscriptions"
	"github.com/orderlyy/orderlyy-backend/pkg/config"
	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	"github.com/orderlyy/orderlyy-backend/pkg/enums"
	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
	"github.com/orderlyy/orderlyy-backend/pkg/logger"
	"github.com/orderlyy/orderlyy-backend/pkg/metrics"
	"github.com/orderlyy/orderlyy-backend/pkg/telegram"
)

// Gateway is the Telegram surface the engine talks to.
type Gateway interface {
	SendMessage(ctx context.Context, chatID int64, text string, rows ...[]telegram.Button) error
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string, rows ...[]telegram.Button) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
	ResolveChat(ctx context.Context, ref string) (*tgbotapi.Chat, error)
	IsChatAdmin(ctx context.Context, chatID, userID int64) (bool, error)
	BotID() int64
	BotUsername() string
}

type sessionStore interface {
	Get(ctx context.Context, userID int64) (*sessions.Session, error)
	PutStep(ctx context.Context, userID int64, step string, data any) error
	Clear(ctx context.Context, userID int64) error
}

type storeService interface {
	Create(ctx context.Context, ownerID int64, name, currency string) (*models.Store, error)
	GetByOwner(ctx context.Context, ownerID int64) (*models.Store, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	LinkChannel(ctx context.Context, ownerID, channelID int64, channelUsername string) (*models.Store, error)
	UpdateSettings(ctx context.Context, storeID uuid.UUID, input stores.UpdateSettingsInput) (*models.Store, error)
}

type productService interface {
	Create(ctx context.Context, input products.CreateProductInput) (*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type lifecycleEngine interface {
	CreateOrder(ctx context.Context, productID uuid.UUID, buyer lifecycle.Buyer, qty int) (*models.Order, *models.Product, error)
	SubmitPayment(ctx context.Context, orderID uuid.UUID, buyer lifecycle.Buyer, proof lifecycle.Proof) (*models.Payment, error)
	ApprovePayment(ctx context.Context, paymentID, storeID uuid.UUID) (*models.Payment, error)
	RejectPayment(ctx context.Context, paymentID, storeID uuid.UUID) (*models.Payment, error)
	SetDeliveryStatus(ctx context.Context, orderID, storeID uuid.UUID, stage enums.DeliveryStage) (*models.Order, error)
	SetDeliveryDetails(ctx context.Context, orderID uuid.UUID, buyerID int64, text string) (*models.Order, error)
}

type subscriptionGate interface {
	IsActive(store *models.Store) bool
	EnsureDefaults(ctx context.Context, storeID uuid.UUID) error
	InfoFor(store *models.Store) subscriptions.Info
}

// Engine dispatches Telegram updates into flows.
type Engine struct {
	gw        Gateway
	sessions  sessionStore
	stores    storeService
	products  productService
	lifecycle lifecycleEngine
	gate      subscriptionGate
	dashboard config.DashboardConfig
	logg      *logger.Logger
	metrics   *metrics.UpdateMetrics
}

// NewEngine wires the conversation engine.
func NewEngine(
	gw Gateway,
	sessionsStore sessionStore,
	storesSvc storeService,
	productsSvc productService,
	lifecycleSvc lifecycleEngine,
	gate subscriptionGate,
	dashboard config.DashboardConfig,
	logg *logger.Logger,
	updateMetrics *metrics.UpdateMetrics,
) (*Engine, error) {
	if gw == nil {
		return nil, fmt.Errorf("gateway required")
	}
	if sessionsStore == nil {
		return nil, fmt.Errorf("session store required")
	}
	if storesSvc == nil {
		return nil, fmt.Errorf("store service required")
	}
	if productsSvc == nil {
		return nil, fmt.Errorf("product service required")
	}
	if lifecycleSvc == nil {
		return nil, fmt.Errorf("lifecycle engine required")
	}
	if gate == nil {
		return nil, fmt.Errorf("subscription gate required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Engine{
		gw:        gw,
		sessions:  sessionsStore,
		stores:    storesSvc,
		products:  productsSvc,
		lifecycle: lifecycleSvc,
		gate:      gate,
		dashboard: dashboard,
		logg:      logg,
		metrics:   updateMetrics,
	}, nil
}

// HandleUpdate routes a single Telegram update. Errors are returned for
// logging; the user always gets a friendly message instead.
func (e *Engine) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	start := time.Now()
	kind := "other"
	var err error
	switch {
	case update.CallbackQuery != nil:
		kind = "callback"
		err = e.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		kind = "message"
		err = e.handleMessage(ctx, update.Message)
	}
	e.metrics.ObserveDuration(kind, time.Since(start))
	if err != nil {
		e.metrics.IncFailed(kind)
		return err
	}
	e.metrics.IncHandled(kind)
	return nil
}

func (e *Engine) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil || msg.Chat == nil || !msg.Chat.IsPrivate() {
		return nil
	}
	userID := msg.From.ID
	ctx = e.logg.WithUserID(ctx, fmt.Sprintf("%d", userID))

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			return e.handleStart(ctx, msg)
		case "cancel":
			if err := e.sessions.Clear(ctx, userID); err != nil {
				return err
			}
			return e.sendMenu(ctx, userID, textCanceled)
		}
	}

	session, err := e.sessions.Get(ctx, userID)
	if err != nil {
		return err
	}
	if session == nil {
		return e.sendMenu(ctx, userID, textIdle)
	}

	switch session.Step {
	case StepCreateName:
		return e.stepCreateName(ctx, msg)
	case StepCreateCurrency:
		return e.stepCreateCurrency(ctx, msg, session)
	case StepCreateDelivery:
		return e.stepCreateDelivery(ctx, msg, session)
	case StepLinkChannel:
		return e.stepLinkChannel(ctx, msg)
	case StepProductPhoto:
		return e.stepProductPhoto(ctx, msg)
	case StepProductName:
		return e.stepProductName(ctx, msg, session)
	case StepProductPrice:
		return e.stepProductPrice(ctx, msg, session)
	case StepProductDesc:
		return e.stepProductDesc(ctx, msg, session)
	case StepProductStock:
		return e.stepProductStock(ctx, msg, session)
	case StepOrderQty:
		return e.stepOrderQty(ctx, msg, session)
	case StepPayProof:
		return e.stepPayProof(ctx, msg, session)
	case StepOrderAddress:
		return e.stepOrderAddress(ctx, msg, session)
	}

	// Unknown step: stored by an older build. Reset rather than loop.
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return err
	}
	return e.sendMenu(ctx, userID, textIdle)
}

func (e *Engine) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	userID := msg.From.ID
	payload := strings.TrimSpace(msg.CommandArguments())
	if productID, ok := parseOrderPayload(payload); ok {
		return e.startCheckout(ctx, msg, productID)
	}
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return err
	}
	return e.sendMenu(ctx, userID, textWelcome)
}

func parseOrderPayload(payload string) (uuid.UUID, bool) {
	const prefix = "order_"
	if !strings.HasPrefix(payload, prefix) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimPrefix(payload, prefix))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (e *Engine) sendMenu(ctx context.Context, chatID int64, text string) error {
	return e.gw.SendMessage(ctx, chatID, text, menuRows()...)
}

// reply sends a message and keeps the original error for the caller.
func (e *Engine) replyError(ctx context.Context, chatID int64, err error) error {
	typed := pkgerrors.As(err)
	if typed == nil {
		if sendErr := e.gw.SendMessage(ctx, chatID, textSomethingWrong); sendErr != nil {
			e.logg.Error(ctx, "send error reply", sendErr)
		}
		return err
	}
	text := textSomethingWrong
	switch typed.Code() {
	case pkgerrors.CodeValidation:
		text = typed.Message()
	case pkgerrors.CodeNotFound:
		text = textNotFound
	case pkgerrors.CodeForbidden:
		text = textForbidden
	case pkgerrors.CodeStateConflict:
		text = textAlreadyHandled
	case pkgerrors.CodeOutOfStock:
		text = textOutOfStock
	case pkgerrors.CodeConflict:
		text = typed.Message()
	case pkgerrors.CodeSubscription:
		text = e.subscriptionBlockedText()
	}
	if sendErr := e.gw.SendMessage(ctx, chatID, text); sendErr != nil {
		e.logg.Error(ctx, "send error reply", sendErr)
	}
	return nil
}

func (e *Engine) subscriptionBlockedText() string {
	return fmt.Sprintf(textSubscriptionBlocked, e.dashboard.SupportLink())
}

func buyerFrom(user *tgbotapi.User) lifecycle.Buyer {
	buyer := lifecycle.Buyer{ID: user.ID}
	if user.UserName != "" {
		username := user.UserName
		buyer.Username = &username
	}
	return buyer
}
