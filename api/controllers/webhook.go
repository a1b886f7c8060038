package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/orderlyy/orderlyy-backend/pkg/logger"
)

type webhookEngine interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) error
}

// TelegramWebhook receives bot updates. It always acknowledges with 200:
// Telegram retries non-2xx responses, and a poisoned update would
// otherwise wedge the queue. Engine errors are logged and dropped.
func TelegramWebhook(engine webhookEngine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			logg.Error(r.Context(), "decode telegram update", err)
			w.WriteHeader(http.StatusOK)
			return
		}
		if err := engine.HandleUpdate(r.Context(), update); err != nil {
			logg.Error(r.Context(), "handle telegram update", err)
		}
		w.WriteHeader(http.StatusOK)
	}
}
