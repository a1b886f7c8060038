package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderlyy/orderlyy-backend/internal/lifecycle"
	"github.com/orderlyy/orderlyy-backend/internal/products"
	"github.com/orderlyy/orderlyy-backend/internal/sessions"
	"github.com/orderlyy/orderlyy-backend/internal/stores"
	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	"github.com/orderlyy/orderlyy-backend/pkg/enums"
	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
	"github.com/orderlyy/orderlyy-backend/pkg/telegram"
)

func isSkip(msg *tgbotapi.Message) bool {
	return msg.IsCommand() && msg.Command() == "skip"
}

func decodeData[T any](session *sessions.Session) (T, bool) {
	var data T
	if len(session.Data) == 0 {
		return data, false
	}
	if err := json.Unmarshal(session.Data, &data); err != nil {
		return data, false
	}
	return data, true
}

// --- store create ---

func (e *Engine) stepCreateName(ctx context.Context, msg *tgbotapi.Message) error {
	userID := msg.From.ID
	name := strings.TrimSpace(msg.Text)
	if name == "" {
		return e.gw.SendMessage(ctx, userID, textAskStoreName)
	}
	if err := e.sessions.PutStep(ctx, userID, StepCreateCurrency, CreateData{Name: name}); err != nil {
		return err
	}
	return e.gw.SendMessage(ctx, userID, textAskCurrency)
}

func (e *Engine) stepCreateCurrency(ctx context.Context, msg *tgbotapi.Message, session *sessions.Session) error {
	userID := msg.From.ID
	data, ok := decodeData[CreateData](session)
	if !ok {
		return e.resetToMenu(ctx, userID)
	}
	currency := strings.ToUpper(strings.TrimSpace(msg.Text))
	if n := utf8.RuneCountInString(currency); n < 1 || n > 3 {
		return e.gw.SendMessage(ctx, userID, textAskCurrency)
	}
	data.Currency = currency
	if err := e.sessions.PutStep(ctx, userID, StepCreateDelivery, data); err != nil {
		return err
	}
	return e.gw.SendMessage(ctx, userID, textAskDeliveryNote)
}

func (e *Engine) stepCreateDelivery(ctx context.Context, msg *tgbotapi.Message, session *sessions.Session) error {
	userID := msg.From.ID
	data, ok := decodeData[CreateData](session)
	if !ok {
		return e.resetToMenu(ctx, userID)
	}

	store, err := e.stores.Create(ctx, userID, data.Name, data.Currency)
	if err != nil {
		_ = e.sessions.Clear(ctx, userID)
		return e.replyError(ctx, userID, err)
	}
	if err := e.gate.EnsureDefaults(ctx, store.ID); err != nil {
		e.logg.Error(ctx, "backfill subscription defaults", err)
	}
	if !isSkip(msg) {
		note := strings.TrimSpace(msg.Text)
		if note != "" {
			if _, err := e.stores.UpdateSettings(ctx, store.ID, stores.UpdateSettingsInput{DeliveryNote: &note}); err != nil {
				e.logg.Error(ctx, "store delivery note", err)
			}
		}
	}
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return err
	}
	link := e.dashboard.Link(store.OwnerToken)
	return e.gw.SendMessage(ctx, userID, fmt.Sprintf(textStoreCreated, store.Name, link))
}

// --- channel link ---

func (e *Engine) stepLinkChannel(ctx context.Context, msg *tgbotapi.Message) error {
	userID := msg.From.ID

	var chatID int64
	var username string
	switch {
	case msg.ForwardFromChat != nil && msg.ForwardFromChat.IsChannel():
		chatID = msg.ForwardFromChat.ID
		username = msg.ForwardFromChat.UserName
	case strings.HasPrefix(strings.TrimSpace(msg.Text), "@"):
		chat, err := e.gw.ResolveChat(ctx, strings.TrimSpace(msg.Text))
		if err != nil || !chat.IsChannel() {
			return e.gw.SendMessage(ctx, userID, textAskChannel)
		}
		chatID = chat.ID
		username = chat.UserName
	default:
		return e.gw.SendMessage(ctx, userID, textAskChannel)
	}

	// The sender must administer the channel before the bot will post
	// there on their behalf.
	senderAdmin, err := e.gw.IsChatAdmin(ctx, chatID, userID)
	if err != nil || !senderAdmin {
		return e.gw.SendMessage(ctx, userID, textNotAdmin)
	}
	botAdmin, err := e.gw.IsChatAdmin(ctx, chatID, e.gw.BotID())
	if err != nil || !botAdmin {
		return e.gw.SendMessage(ctx, userID, textBotNotAdmin)
	}

	if _, err := e.stores.LinkChannel(ctx, userID, chatID, username); err != nil {
		_ = e.sessions.Clear(ctx, userID)
		return e.replyError(ctx, userID, err)
	}
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return err
	}
	return e.gw.SendMessage(ctx, userID, textChannelLinked)
}

// --- product add ---

func (e *Engine) stepProductPhoto(ctx context.Context, msg *tgbotapi.Message) error {
	userID := msg.From.ID
	data := ProductData{}
	switch {
	case len(msg.Photo) > 0:
		fileID := msg.Photo[len(msg.Photo)-1].FileID
		data.PhotoFileID = &fileID
	case isSkip(msg):
	default:
		return e.gw.SendMessage(ctx, userID, textAskProductPhoto)
	}
	if err := e.sessions.PutStep(ctx, userID, StepProductName, data); err != nil {
		return err
	}
	return e.gw.SendMessage(ctx, userID, textAskProductName)
}

func (e *Engine) stepProductName(ctx context.Context, msg *tgbotapi.Message, session *sessions.Session) error {
	userID := msg.From.ID
	data, ok := decodeData[ProductData](session)
	if !ok {
		return e.resetToMenu(ctx, userID)
	}
	name := strings.TrimSpace(msg.Text)
	if name == "" {
		return e.gw.SendMessage(ctx, userID, textAskProductName)
	}
	data.Name = name
	if err := e.sessions.PutStep(ctx, userID, StepProductPrice, data); err != nil {
		return err
	}
	return e.gw.SendMessage(ctx, userID, textAskProductPrice)
}

func (e *Engine) stepProductPrice(ctx context.Context, msg *tgbotapi.Message, session *sessions.Session) error {
	userID := msg.From.ID
	data, ok := decodeData[ProductData](session)
	if !ok {
		return e.resetToMenu(ctx, userID)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(msg.Text))
	if err != nil || price.IsNegative() {
		// Re-prompt the same step; nothing is written.
		return e.gw.SendMessage(ctx, userID, textBadPrice)
	}
	data.Price = price
	if err := e.sessions.PutStep(ctx, userID, StepProductDesc, data); err != nil {
		return err
	}
	return e.gw.SendMessage(ctx, userID, textAskProductDesc)
}

func (e *Engine) stepProductDesc(ctx context.Context, msg *tgbotapi.Message, session *sessions.Session) error {
	userID := msg.From.ID
	data, ok := decodeData[ProductData](session)
	if !ok {
		return e.resetToMenu(ctx, userID)
	}
	if !isSkip(msg) {
		desc := strings.TrimSpace(msg.Text)
		if desc == "" {
			return e.gw.SendMessage(ctx, userID, textAskProductDesc)
		}
		data.Description = &desc
	}
	if err := e.sessions.PutStep(ctx, userID, StepProductStock, data); err != nil {
		return err
	}
	return e.gw.SendMessage(ctx, userID, textAskProductStock)
}

func (e *Engine) stepProductStock(ctx context.Context, msg *tgbotapi.Message, session *sessions.Session) error {
	userID := msg.From.ID
	data, ok := decodeData[ProductData](session)
	if !ok {
		return e.resetToMenu(ctx, userID)
	}
	var inStock bool
	switch strings.ToLower(strings.TrimSpace(msg.Text)) {
	case "yes", "y":
		inStock = true
	case "no", "n":
		inStock = false
	default:
		return e.gw.SendMessage(ctx, userID, textBadStock)
	}

	store, err := e.stores.GetByOwner(ctx, userID)
	if err != nil {
		_ = e.sessions.Clear(ctx, userID)
		return e.replyError(ctx, userID, err)
	}
	product, err := e.products.Create(ctx, products.CreateProductInput{
		StoreID:     store.ID,
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		InStock:     inStock,
		PhotoFileID: data.PhotoFileID,
	})
	if err != nil {
		_ = e.sessions.Clear(ctx, userID)
		return e.replyError(ctx, userID, err)
	}
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return err
	}

	// Publishing is best-effort: the product exists either way.
	if store.ChannelID != nil {
		if err := e.publishProduct(ctx, store, product); err != nil {
			e.logg.Error(ctx, "publish product to channel", err)
			return e.gw.SendMessage(ctx, userID, fmt.Sprintf(textPublishFailed, product.Name))
		}
		return e.gw.SendMessage(ctx, userID, fmt.Sprintf(textProductPosted, product.Name))
	}
	return e.gw.SendMessage(ctx, userID, fmt.Sprintf(textProductAdded, product.Name))
}

func (e *Engine) publishProduct(ctx context.Context, store *models.Store, product *models.Product) error {
	caption := fmt.Sprintf("🛍 <b>%s</b>\n💰 %s %s", product.Name, store.Currency, product.Price.StringFixed(2))
	if product.Description != nil {
		caption += "\n\n" + *product.Description
	}
	deepLink := fmt.Sprintf("https://t.me/%s?start=order_%s", e.gw.BotUsername(), product.ID)
	button := []telegram.Button{{Text: "🛒 Order", URL: deepLink}}
	if product.PhotoFileID != nil {
		return e.gw.SendPhoto(ctx, *store.ChannelID, *product.PhotoFileID, caption, button)
	}
	return e.gw.SendMessage(ctx, *store.ChannelID, caption, button)
}

// --- checkout ---

func (e *Engine) startCheckout(ctx context.Context, msg *tgbotapi.Message, productID uuid.UUID) error {
	userID := msg.From.ID
	product, err := e.products.GetByID(ctx, productID)
	if err != nil {
		_ = e.sessions.Clear(ctx, userID)
		return e.replyError(ctx, userID, err)
	}
	store, err := e.stores.GetByID(ctx, product.StoreID)
	if err != nil {
		_ = e.sessions.Clear(ctx, userID)
		return e.replyError(ctx, userID, err)
	}
	if !e.gate.IsActive(store) {
		return e.gw.SendMessage(ctx, userID, textStoreClosed)
	}
	if !product.InStock {
		return e.gw.SendMessage(ctx, userID, textOutOfStock)
	}
	if err := e.sessions.PutStep(ctx, userID, StepOrderQty, OrderData{ProductID: product.ID}); err != nil {
		return err
	}
	return e.gw.SendMessage(ctx, userID, fmt.Sprintf(textAskQty, product.Name, store.Currency, product.Price.StringFixed(2)))
}

func (e *Engine) stepOrderQty(ctx context.Context, msg *tgbotapi.Message, session *sessions.Session) error {
	userID := msg.From.ID
	data, ok := decodeData[OrderData](session)
	if !ok {
		return e.resetToMenu(ctx, userID)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(msg.Text))
	if err != nil || qty <= 0 {
		return e.gw.SendMessage(ctx, userID, textBadQty)
	}

	order, product, err := e.lifecycle.CreateOrder(ctx, data.ProductID, buyerFrom(msg.From), qty)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			_ = e.sessions.Clear(ctx, userID)
		}
		return e.replyError(ctx, userID, err)
	}
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return err
	}

	store, err := e.stores.GetByID(ctx, order.StoreID)
	if err != nil {
		return e.replyError(ctx, userID, err)
	}
	total := lifecycle.Total(product, order.Qty)

	// Seller heads-up is best-effort.
	seller := fmt.Sprintf(textNewOrderSeller, product.Name, order.Qty, store.Currency, total.StringFixed(2), buyerLabel(order))
	if err := e.gw.SendMessage(ctx, store.OwnerID, seller); err != nil {
		e.logg.Error(ctx, "notify seller of new order", err)
	}

	instructions := fmt.Sprintf(textPayInstructions,
		product.Name, order.Qty, store.Currency, total.StringFixed(2), bankDetails(store))
	return e.gw.SendMessage(ctx, userID, instructions, []telegram.Button{
		{Text: "💳 I've paid", Callback: "pay:paid:" + order.ID.String()},
		{Text: "✖️ Cancel", Callback: "pay:cancel:" + order.ID.String()},
	})
}

func bankDetails(store *models.Store) string {
	if store.BankName == nil && store.BankAccountNumber == nil {
		return textNoBankDetails
	}
	var b strings.Builder
	b.WriteString("🏦 <b>Pay by bank transfer</b>")
	if store.BankName != nil {
		b.WriteString("\nBank: " + *store.BankName)
	}
	if store.BankAccountName != nil {
		b.WriteString("\nAccount name: " + *store.BankAccountName)
	}
	if store.BankAccountNumber != nil {
		b.WriteString("\nAccount number: <code>" + *store.BankAccountNumber + "</code>")
	}
	if store.DeliveryNote != nil {
		b.WriteString("\n\n🚚 " + *store.DeliveryNote)
	}
	return b.String()
}

func buyerLabel(order *models.Order) string {
	if order.BuyerUsername != nil && *order.BuyerUsername != "" {
		return "@" + *order.BuyerUsername
	}
	return fmt.Sprintf("user %d", order.BuyerID)
}

// --- payment proof ---

func (e *Engine) stepPayProof(ctx context.Context, msg *tgbotapi.Message, session *sessions.Session) error {
	userID := msg.From.ID
	data, ok := decodeData[ProofData](session)
	if !ok {
		return e.resetToMenu(ctx, userID)
	}

	var proof lifecycle.Proof
	switch {
	case len(msg.Photo) > 0:
		proof = lifecycle.Proof{FileID: msg.Photo[len(msg.Photo)-1].FileID, Kind: enums.ProofKindPhoto}
	case msg.Document != nil:
		proof = lifecycle.Proof{FileID: msg.Document.FileID, Kind: enums.ProofKindDocument}
	default:
		return e.gw.SendMessage(ctx, userID, textProofNeeded)
	}

	if _, err := e.lifecycle.SubmitPayment(ctx, data.OrderID, buyerFrom(msg.From), proof); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			switch typed.Code() {
			case pkgerrors.CodeNotFound, pkgerrors.CodeForbidden, pkgerrors.CodeStateConflict:
				_ = e.sessions.Clear(ctx, userID)
			}
		}
		return e.replyError(ctx, userID, err)
	}
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return err
	}
	return e.gw.SendMessage(ctx, userID, textProofReceived)
}

// --- delivery details ---

func (e *Engine) stepOrderAddress(ctx context.Context, msg *tgbotapi.Message, session *sessions.Session) error {
	userID := msg.From.ID
	data, ok := decodeData[AddressData](session)
	if !ok {
		return e.resetToMenu(ctx, userID)
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return e.gw.SendMessage(ctx, userID, textAskAddress)
	}
	if _, err := e.lifecycle.SetDeliveryDetails(ctx, data.OrderID, userID, text); err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() != pkgerrors.CodeValidation {
			_ = e.sessions.Clear(ctx, userID)
		}
		return e.replyError(ctx, userID, err)
	}
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return err
	}
	return e.gw.SendMessage(ctx, userID, textAddressReceived)
}

func (e *Engine) resetToMenu(ctx context.Context, userID int64) error {
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return err
	}
	return e.sendMenu(ctx, userID, textIdle)
}
