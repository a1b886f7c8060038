// Package telegram wraps the Bot API client behind the small surface the
// rest of the service needs.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/orderlyy/orderlyy-backend/pkg/config"
	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
)

// Button is a single inline keyboard button. Exactly one of Callback or
// URL is set.
type Button struct {
	Text     string
	Callback string
	URL      string
}

// Client talks to the Telegram Bot API.
type Client struct {
	api      *tgbotapi.BotAPI
	username string
}

// New authenticates the bot token against the Bot API.
func New(cfg config.TelegramConfig) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "authenticate telegram bot")
	}
	username := cfg.BotUsername
	if username == "" {
		username = api.Self.UserName
	}
	return &Client{api: api, username: username}, nil
}

// BotID is the bot's own Telegram user id.
func (c *Client) BotID() int64 {
	return c.api.Self.ID
}

// BotUsername is the bot's public @username without the leading at sign.
func (c *Client) BotUsername() string {
	return c.username
}

// SendMessage sends an HTML-formatted message, optionally with an inline
// keyboard. Button rows map one to one onto keyboard rows.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, rows ...[]Button) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if kb, ok := inlineKeyboard(rows); ok {
		msg.ReplyMarkup = kb
	}
	if _, err := c.api.Request(msg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send telegram message")
	}
	return nil
}

// SendPhoto sends a photo by file id with an HTML caption.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, fileID, caption string, rows ...[]Button) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML
	if kb, ok := inlineKeyboard(rows); ok {
		photo.ReplyMarkup = kb
	}
	if _, err := c.api.Request(photo); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send telegram photo")
	}
	return nil
}

// SendDocument forwards a document by file id with an HTML caption.
func (c *Client) SendDocument(ctx context.Context, chatID int64, fileID, caption string, rows ...[]Button) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileID(fileID))
	doc.Caption = caption
	doc.ParseMode = tgbotapi.ModeHTML
	if kb, ok := inlineKeyboard(rows); ok {
		doc.ReplyMarkup = kb
	}
	if _, err := c.api.Request(doc); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send telegram document")
	}
	return nil
}

// AnswerCallback acknowledges a callback query so the client stops its
// loading spinner. Text, when set, is shown as a toast.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	cb := tgbotapi.NewCallback(callbackID, text)
	if _, err := c.api.Request(cb); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "answer callback query")
	}
	return nil
}

// ResolveChat looks up a chat by @username or numeric id string.
func (c *Client) ResolveChat(ctx context.Context, ref string) (*tgbotapi.Chat, error) {
	chatCfg := tgbotapi.ChatInfoConfig{}
	chatCfg.SuperGroupUsername = ref
	chat, err := c.api.GetChat(chatCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("resolve chat %s", ref))
	}
	return &chat, nil
}

// ChatMember fetches the membership record of a user in a chat.
func (c *Client) ChatMember(ctx context.Context, chatID, userID int64) (*tgbotapi.ChatMember, error) {
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get chat member")
	}
	return &member, nil
}

// IsChatAdmin reports whether the user administers the chat.
func (c *Client) IsChatAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	member, err := c.ChatMember(ctx, chatID, userID)
	if err != nil {
		return false, err
	}
	return member.IsCreator() || member.IsAdministrator(), nil
}

// FileURL resolves a file id into a direct download URL.
func (c *Client) FileURL(ctx context.Context, fileID string) (string, error) {
	url, err := c.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve file url")
	}
	return url, nil
}

// Updates starts a long-poll update stream.
func (c *Client) Updates(offset int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(offset)
	u.Timeout = 30
	return c.api.GetUpdatesChan(u)
}

// StopUpdates shuts down the long-poll stream started by Updates.
func (c *Client) StopUpdates() {
	c.api.StopReceivingUpdates()
}

func inlineKeyboard(rows [][]Button) (tgbotapi.InlineKeyboardMarkup, bool) {
	var kbRows [][]tgbotapi.InlineKeyboardButton
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		var kbRow []tgbotapi.InlineKeyboardButton
		for _, b := range row {
			if b.URL != "" {
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
				continue
			}
			kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Callback))
		}
		kbRows = append(kbRows, kbRow)
	}
	if len(kbRows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...), true
}
