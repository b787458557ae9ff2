package bot

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"shop-tracker/internal/models"
	"shop-tracker/internal/monitor"
	"shop-tracker/internal/scraper"
	"shop-tracker/internal/store"
	"shop-tracker/internal/tracker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	chatID     = int64(42)
	productURL = "https://shop.tiktok.com/view/product/77"
)

const productHTML = `<html><body>
<h1 data-e2e="product-title">Copo &lt;Stanley&gt;</h1>
<span data-e2e="product-price">$35.00</span>
<span data-e2e="sold-count">980 sold</span>
</body></html>`

// fakeSender grava tudo o que seria enviado ao Telegram
type fakeSender struct {
	sent     []tgbotapi.Chattable
	failHTML bool
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	if msg, ok := c.(tgbotapi.MessageConfig); ok && f.failHTML && msg.ParseMode == tgbotapi.ModeHTML {
		return tgbotapi.Message{}, errors.New("Bad Request: can't parse entities")
	}
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

// lastText retorna o texto da última mensagem ou edição enviada
func (f *fakeSender) lastText() string {
	for i := len(f.sent) - 1; i >= 0; i-- {
		switch c := f.sent[i].(type) {
		case tgbotapi.MessageConfig:
			return c.Text
		case tgbotapi.EditMessageTextConfig:
			return c.Text
		}
	}
	return ""
}

type fakeFetcher struct{}

func (fakeFetcher) Fetch(_ context.Context, url string) (*scraper.DocumentPage, error) {
	if url != productURL {
		return nil, errors.New("status code: 404")
	}
	return scraper.ParseHTML(productHTML, url)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestHandler(t *testing.T, authorized int64) (*Handler, *fakeSender, *store.Store) {
	t.Helper()
	registry, err := scraper.DefaultRegistry("")
	if err != nil {
		t.Fatalf("Failed to load registry: %v", err)
	}
	st := store.New(store.NewMemoryBackend(), store.WithLogger(quietLogger()))
	svc := tracker.New(st, registry, fakeFetcher{}, quietLogger())
	sender := &fakeSender{}
	return NewHandler(sender, svc, st, authorized, quietLogger()), sender, st
}

func send(h *Handler, from int64, text string) {
	h.HandleMessage(context.Background(), &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: from},
	})
}

func TestTrackListAndRemove(t *testing.T) {
	h, sender, st := newTestHandler(t, 0)
	ctx := context.Background()

	send(h, chatID, "/track "+productURL)
	if text := sender.lastText(); !strings.Contains(text, "adicionado") || !strings.Contains(text, "Copo &lt;Stanley&gt;") {
		t.Fatalf("Unexpected reply %q", text)
	}

	send(h, chatID, "/list")
	text := sender.lastText()
	if !strings.Contains(text, "1.") || !strings.Contains(text, "$35.00") || !strings.Contains(text, "Vendas: 980") {
		t.Errorf("Unexpected list %q", text)
	}

	send(h, chatID, "/remove 1")
	if text := sender.lastText(); !strings.Contains(text, "removido") {
		t.Errorf("Unexpected reply %q", text)
	}
	doc, _ := st.Read(ctx)
	if len(doc.TrackedProducts) != 0 {
		t.Error("Product should be removed")
	}
}

func TestInvalidPositions(t *testing.T) {
	h, sender, _ := newTestHandler(t, 0)

	for _, cmd := range []string{"/remove", "/remove 1", "/check abc", "/alert 1", "/unalert 3", "/unfollow 0"} {
		send(h, chatID, cmd)
		if text := sender.lastText(); !strings.HasPrefix(text, "❌") {
			t.Errorf("%s: expected error reply, got %q", cmd, text)
		}
	}
}

func TestAlertCommands(t *testing.T) {
	h, sender, st := newTestHandler(t, 0)
	ctx := context.Background()
	st.AddTrackedProduct(ctx, models.NewProduct{Name: "Garrafa", Price: 30, URL: productURL})

	send(h, chatID, "/alert 1 25,50")
	if text := sender.lastText(); !strings.Contains(text, "cair para") || !strings.Contains(text, "$25.50") {
		t.Fatalf("Unexpected reply %q", text)
	}

	send(h, chatID, "/alerts")
	if text := sender.lastText(); !strings.Contains(text, "Garrafa") || !strings.Contains(text, "pendente") {
		t.Errorf("Unexpected alerts %q", text)
	}

	send(h, chatID, "/unalert 1")
	doc, _ := st.Read(ctx)
	if len(doc.PriceAlerts) != 0 {
		t.Error("Alert should be removed")
	}
}

func TestCheckEditsWaitingMessage(t *testing.T) {
	h, sender, st := newTestHandler(t, 0)
	ctx := context.Background()
	st.AddTrackedProduct(ctx, models.NewProduct{Name: "Copo", Price: 40, URL: productURL})

	send(h, chatID, "/check 1")

	last := sender.sent[len(sender.sent)-1]
	edit, ok := last.(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("Expected edit of waiting message, got %T", last)
	}
	if !strings.Contains(edit.Text, "Preço atual: $35.00") || !strings.Contains(edit.Text, "Preço anterior: $40.00") {
		t.Errorf("Unexpected check reply %q", edit.Text)
	}

	doc, _ := st.Read(ctx)
	if len(doc.TrackedProducts[0].PriceHistory) != 2 {
		t.Errorf("Expected history appended, got %+v", doc.TrackedProducts[0].PriceHistory)
	}
}

func TestToggleSettings(t *testing.T) {
	h, sender, st := newTestHandler(t, 0)
	ctx := context.Background()

	send(h, chatID, "/notifications off")
	send(h, chatID, "/autotrack on")
	doc, _ := st.Read(ctx)
	if doc.Settings.Notifications || !doc.Settings.AutoTrack {
		t.Errorf("Unexpected settings %+v", doc.Settings)
	}

	send(h, chatID, "/autotrack talvez")
	if text := sender.lastText(); !strings.HasPrefix(text, "❌") {
		t.Errorf("Expected error reply, got %q", text)
	}
}

func TestUnauthorizedChat(t *testing.T) {
	h, sender, st := newTestHandler(t, chatID)

	send(h, 7, "/track "+productURL)
	if text := sender.lastText(); !strings.Contains(text, "não está autorizado") {
		t.Errorf("Expected unauthorized reply, got %q", text)
	}
	doc, _ := st.Read(context.Background())
	if len(doc.TrackedProducts) != 0 {
		t.Error("Unauthorized chat must not change data")
	}

	// ajuda é pública
	send(h, 7, "/help")
	if text := sender.lastText(); !strings.Contains(text, "Comandos disponíveis") {
		t.Errorf("Expected help, got %q", text)
	}
}

func TestExportSendsDocument(t *testing.T) {
	h, sender, _ := newTestHandler(t, 0)

	send(h, chatID, "/export")
	if len(sender.sent) != 1 {
		t.Fatalf("Expected one upload, got %d", len(sender.sent))
	}
	doc, ok := sender.sent[0].(tgbotapi.DocumentConfig)
	if !ok {
		t.Fatalf("Expected document, got %T", sender.sent[0])
	}
	if doc.ChatID != chatID {
		t.Errorf("Expected chat %d, got %d", chatID, doc.ChatID)
	}
}

func TestTelegramNotifierFallsBackToPlainText(t *testing.T) {
	sender := &fakeSender{failHTML: true}
	notifier := NewTelegramNotifier(sender, chatID, quietLogger())

	err := notifier.Notify(context.Background(), monitor.Notification{
		Title: "Alerta de preço!",
		Body:  "Copo <Stanley> agora custa $19.99",
		URL:   productURL,
	})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("Expected HTML attempt and plain retry, got %d", len(sender.sent))
	}
	msg := sender.sent[1].(tgbotapi.MessageConfig)
	if msg.ParseMode != "" || msg.ChatID != chatID || !strings.Contains(msg.Text, "&lt;Stanley&gt;") {
		t.Errorf("Unexpected retry %+v", msg)
	}
}

func TestTelegramNotifierWithoutChat(t *testing.T) {
	notifier := NewTelegramNotifier(&fakeSender{}, 0, quietLogger())
	if err := notifier.Notify(context.Background(), monitor.Notification{Title: "x"}); err == nil {
		t.Error("Expected error without chat id")
	}
}
