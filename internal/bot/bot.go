package bot

import (
	"context"
	"fmt"
	"strings"

	"shop-tracker/internal/monitor"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Sender envia mensagens ao Telegram. *tgbotapi.BotAPI implementa esta interface.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Init inicializa o bot do Telegram
func Init(token string, logger *logrus.Logger) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN não configurado. Verifique o arquivo .env")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		if err.Error() == "Unauthorized" {
			return nil, fmt.Errorf("token do Telegram inválido ou expirado. Para obter um token, fale com @BotFather no Telegram")
		}
		return nil, fmt.Errorf("erro ao conectar com Telegram: %w", err)
	}

	bot.Debug = false
	logger.WithField("username", bot.Self.UserName).Info("Bot autorizado")
	return bot, nil
}

// escapeHTML escapa caracteres especiais do HTML
func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}

// sendHTML envia a mensagem em HTML e, se o Telegram recusar, tenta sem formatação
func sendHTML(sender Sender, logger *logrus.Logger, chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	sent, err := sender.Send(msg)
	if err == nil {
		return sent, nil
	}

	logger.WithError(err).WithField("chat_id", chatID).Warn("Erro ao enviar mensagem com HTML, tentando sem formatação")
	msg.ParseMode = ""
	return sender.Send(msg)
}

// TelegramNotifier entrega alertas de preço no chat autorizado
type TelegramNotifier struct {
	sender Sender
	chatID int64
	logger *logrus.Logger
}

// NewTelegramNotifier cria o notificador para o chat informado
func NewTelegramNotifier(sender Sender, chatID int64, logger *logrus.Logger) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, chatID: chatID, logger: logger}
}

// Notify implementa monitor.Notifier
func (t *TelegramNotifier) Notify(_ context.Context, n monitor.Notification) error {
	if t.chatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID não configurado")
	}

	text := fmt.Sprintf("🔔 <b>%s</b>\n\n%s", escapeHTML(n.Title), escapeHTML(n.Body))
	if n.URL != "" {
		text += "\n\n🔗 " + escapeHTML(n.URL)
	}

	_, err := sendHTML(t.sender, t.logger, t.chatID, text)
	return err
}
