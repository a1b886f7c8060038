package controllers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
	"github.com/orderlyy/orderlyy-backend/pkg/logger"
)

type stubWebhookEngine struct {
	seen []tgbotapi.Update
	err  error
}

func (s *stubWebhookEngine) HandleUpdate(_ context.Context, update tgbotapi.Update) error {
	s.seen = append(s.seen, update)
	return s.err
}

func discardLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "webhook-test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func TestTelegramWebhookDispatchesUpdate(t *testing.T) {
	engine := &stubWebhookEngine{}
	handler := TelegramWebhook(engine, discardLogger())

	body := bytes.NewBufferString(`{"update_id":7,"message":{"message_id":1,"chat":{"id":42,"type":"private"},"from":{"id":42},"text":"hi"}}`)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/telegram/webhook", body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(engine.seen) != 1 || engine.seen[0].UpdateID != 7 {
		t.Fatalf("expected dispatched update, got %+v", engine.seen)
	}
}

func TestTelegramWebhookAlwaysAcksMalformedBody(t *testing.T) {
	engine := &stubWebhookEngine{}
	handler := TelegramWebhook(engine, discardLogger())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/telegram/webhook", bytes.NewBufferString("not json")))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for malformed body, got %d", w.Code)
	}
	if len(engine.seen) != 0 {
		t.Fatal("expected no dispatch for malformed body")
	}
}

func TestTelegramWebhookAcksDespiteEngineError(t *testing.T) {
	engine := &stubWebhookEngine{err: pkgerrors.New(pkgerrors.CodeDependency, "telegram send failed")}
	handler := TelegramWebhook(engine, discardLogger())

	body := bytes.NewBufferString(`{"update_id":8}`)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/telegram/webhook", body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 despite engine error, got %d", w.Code)
	}
}
