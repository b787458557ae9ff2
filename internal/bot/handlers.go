package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shop-tracker/internal/export"
	"shop-tracker/internal/models"
	"shop-tracker/internal/monitor"
	"shop-tracker/internal/scraper"
	"shop-tracker/internal/store"
	"shop-tracker/internal/tracker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Handler responde aos comandos recebidos pelo bot
type Handler struct {
	sender           Sender
	tracker          *tracker.Service
	store            *store.Store
	logger           *logrus.Logger
	authorizedChatID int64
}

// NewHandler cria o handler. Com authorizedChatID 0 qualquer chat pode usar o bot.
func NewHandler(sender Sender, svc *tracker.Service, st *store.Store, authorizedChatID int64, logger *logrus.Logger) *Handler {
	return &Handler{
		sender:           sender,
		tracker:          svc,
		store:            st,
		logger:           logger,
		authorizedChatID: authorizedChatID,
	}
}

// Run consome as atualizações do bot até o contexto ser cancelado
func (h *Handler) Run(ctx context.Context, bot *tgbotapi.BotAPI) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			h.HandleMessage(ctx, update.Message)
		}
	}
}

// HandleMessage despacha um comando
func (h *Handler) HandleMessage(ctx context.Context, message *tgbotapi.Message) {
	parts := strings.Fields(message.Text)
	if len(parts) == 0 {
		return
	}

	command := strings.ToLower(parts[0])
	// Remover @botname se presente
	if idx := strings.Index(command, "@"); idx > 0 {
		command = command[:idx]
	}
	args := parts[1:]
	chatID := message.Chat.ID

	// Comandos públicos (não precisam de autorização)
	isPublicCommand := command == "/start" || command == "/help"
	if !isPublicCommand && h.authorizedChatID != 0 && chatID != h.authorizedChatID {
		h.reply(chatID, "Você não está autorizado a usar este bot.")
		return
	}

	h.logger.WithFields(logrus.Fields{"chat_id": chatID, "command": command}).Debug("Comando recebido")

	switch command {
	case "/start", "/help":
		h.handleHelp(chatID)
	case "/track":
		h.handleTrack(ctx, chatID, args)
	case "/list":
		h.handleList(ctx, chatID)
	case "/remove":
		h.handleRemove(ctx, chatID, args)
	case "/check":
		h.handleCheck(ctx, chatID, args)
	case "/alert":
		h.handleAlert(ctx, chatID, args)
	case "/alerts":
		h.handleAlerts(ctx, chatID)
	case "/unalert":
		h.handleUnalert(ctx, chatID, args)
	case "/sellers":
		h.handleSellers(ctx, chatID)
	case "/unfollow":
		h.handleUnfollow(ctx, chatID, args)
	case "/usage":
		h.handleUsage(ctx, chatID)
	case "/notifications":
		h.handleToggle(ctx, chatID, args, "notificações", func(on bool) models.SettingsUpdate {
			return models.SettingsUpdate{Notifications: &on}
		})
	case "/autotrack":
		h.handleToggle(ctx, chatID, args, "monitoramento automático", func(on bool) models.SettingsUpdate {
			return models.SettingsUpdate{AutoTrack: &on}
		})
	case "/export":
		h.handleExport(ctx, chatID)
	default:
		h.reply(chatID, "Comando não reconhecido. Use /help para ver os comandos disponíveis.")
	}
}

func (h *Handler) reply(chatID int64, text string) {
	if _, err := h.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Erro ao enviar mensagem")
	}
}

func (h *Handler) replyHTML(chatID int64, text string) {
	if _, err := sendHTML(h.sender, h.logger, chatID, text); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Erro ao enviar mensagem sem formatação")
	}
}

func (h *Handler) handleHelp(chatID int64) {
	helpText := `🤖 <b>Shop Tracker</b>

<b>Comandos disponíveis:</b>

<b>/track &lt;URL&gt;</b> - Monitorar um produto ou seguir uma loja
<b>/list</b> - Listar produtos monitorados
<b>/remove &lt;n&gt;</b> - Remover o produto n da lista
<b>/check &lt;n&gt;</b> - Atualizar agora o preço do produto n
<b>/alert &lt;n&gt; &lt;preço&gt;</b> - Criar alerta de preço para o produto n
<b>/alerts</b> - Listar alertas
<b>/unalert &lt;n&gt;</b> - Remover o alerta n
<b>/sellers</b> - Listar lojas concorrentes
<b>/unfollow &lt;n&gt;</b> - Deixar de seguir a loja n
<b>/usage</b> - Ver a cota mensal de análises
<b>/notifications on|off</b> - Ativar ou desativar notificações
<b>/autotrack on|off</b> - Ativar ou desativar a atualização automática
<b>/export</b> - Receber uma planilha com todos os dados
<b>/help</b> - Mostrar esta mensagem de ajuda
`
	h.replyHTML(chatID, helpText)
}

// position interpreta a posição (1-based) mostrada nas listagens
func position(args []string, size int) (int, error) {
	if len(args) < 1 {
		return 0, errors.New("informe o número mostrado na lista")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > size {
		return 0, fmt.Errorf("número inválido: %s", args[0])
	}
	return n - 1, nil
}

func (h *Handler) readDocument(ctx context.Context, chatID int64) (models.Document, bool) {
	doc, err := h.store.Read(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Erro ao ler documento")
		h.reply(chatID, fmt.Sprintf("❌ Erro ao ler os dados: %v", err))
		return models.Document{}, false
	}
	return doc, true
}

func (h *Handler) handleTrack(ctx context.Context, chatID int64, args []string) {
	if len(args) < 1 {
		h.reply(chatID, "❌ Formato incorreto.\n\nUso: /track <URL>\n\nExemplo: /track https://shop.tiktok.com/view/product/123")
		return
	}

	url := args[0]
	result, err := h.tracker.TrackURL(ctx, url, "")
	if err != nil {
		switch {
		case errors.Is(err, scraper.ErrUnsupportedPage):
			h.reply(chatID, "❌ URL não suportada. Envie o link de um produto ou de uma loja.")
		case errors.Is(err, scraper.ErrExtractionUnavailable):
			h.reply(chatID, "❌ Não foi possível ler os dados desta página.")
		default:
			h.logger.WithError(err).WithField("url", url).Error("Erro ao monitorar URL")
			h.reply(chatID, fmt.Sprintf("❌ Erro ao monitorar: %v", err))
		}
		return
	}

	settings := h.settings(ctx)
	var response string
	switch {
	case result.Product != nil:
		p := result.Product
		title := "✅ Produto adicionado com sucesso!"
		if !result.Created {
			title = "🔄 Produto já monitorado, dados atualizados."
		}
		response = fmt.Sprintf("%s\n\n📦 <b>%s</b>\n💰 Preço: %s\n🛒 Vendas: %d",
			title, escapeHTML(p.Name), monitor.FormatPrice(p.Price, settings.Currency), p.Sales)
	case result.Competitor != nil:
		c := result.Competitor
		title := "✅ Loja adicionada aos concorrentes!"
		if !result.Created {
			title = "ℹ️ Esta loja já está sendo seguida."
		}
		response = fmt.Sprintf("%s\n\n🏪 <b>%s</b>\n👥 Seguidores: %d\n📦 Produtos: %d",
			title, escapeHTML(c.Name), c.Followers, c.Products)
	}
	h.replyHTML(chatID, response)
}

func (h *Handler) settings(ctx context.Context) models.Settings {
	doc, err := h.store.Read(ctx)
	if err != nil {
		return models.Settings{Currency: "USD"}
	}
	return doc.Settings
}

func (h *Handler) handleList(ctx context.Context, chatID int64) {
	doc, ok := h.readDocument(ctx, chatID)
	if !ok {
		return
	}
	if len(doc.TrackedProducts) == 0 {
		h.reply(chatID, "📋 Nenhum produto sendo monitorado no momento.")
		return
	}

	currency := doc.Settings.Currency
	var response strings.Builder
	response.WriteString("📋 <b>Produtos em Monitoramento:</b>\n\n")

	for i, p := range doc.TrackedProducts {
		response.WriteString(fmt.Sprintf("<b>%d.</b> 📦 %s\n", i+1, escapeHTML(p.Name)))
		response.WriteString(fmt.Sprintf("💰 <b>Preço atual: %s</b>", monitor.FormatPrice(p.Price, currency)))
		if change, ok := store.PriceChange(p); ok {
			response.WriteString(fmt.Sprintf(" (%+.1f%%)", change))
		}
		response.WriteString("\n")

		if p.OriginalPrice != nil && *p.OriginalPrice > p.Price {
			discount := (*p.OriginalPrice - p.Price) / *p.OriginalPrice * 100
			response.WriteString(fmt.Sprintf("🎉 <b>%.1f%% OFF</b> (de %s)\n", discount, monitor.FormatPrice(*p.OriginalPrice, currency)))
		}
		response.WriteString(fmt.Sprintf("🛒 Vendas: %d | ⭐ %.1f (%d avaliações)\n", p.Sales, p.Rating, p.Reviews))
		response.WriteString(fmt.Sprintf("🕐 Última atualização: %s\n", p.LastUpdated.Format("02/01/2006 15:04")))
		if p.URL != "" {
			response.WriteString(fmt.Sprintf("🔗 %s\n", escapeHTML(p.URL)))
		}
		response.WriteString("\n")
	}

	h.replyHTML(chatID, response.String())
}

func (h *Handler) handleRemove(ctx context.Context, chatID int64, args []string) {
	doc, ok := h.readDocument(ctx, chatID)
	if !ok {
		return
	}
	i, err := position(args, len(doc.TrackedProducts))
	if err != nil {
		h.reply(chatID, fmt.Sprintf("❌ %v\n\nUso: /remove <n>\n\nExemplo: /remove 1", err))
		return
	}

	product := doc.TrackedProducts[i]
	if err := h.store.RemoveTrackedProduct(ctx, product.ID); err != nil {
		h.reply(chatID, fmt.Sprintf("❌ Erro ao remover produto: %v", err))
		return
	}
	h.reply(chatID, fmt.Sprintf("✅ Produto removido: %s", product.Name))
}

func (h *Handler) handleCheck(ctx context.Context, chatID int64, args []string) {
	doc, ok := h.readDocument(ctx, chatID)
	if !ok {
		return
	}
	i, err := position(args, len(doc.TrackedProducts))
	if err != nil {
		h.reply(chatID, fmt.Sprintf("❌ %v\n\nUso: /check <n>\n\nExemplo: /check 1", err))
		return
	}
	before := doc.TrackedProducts[i]

	// Enviar mensagem de "verificando"
	var sentMessageID int
	if sent, err := h.sender.Send(tgbotapi.NewMessage(chatID, "⏳ Verificando preço...")); err == nil {
		sentMessageID = sent.MessageID
	}

	var response string
	updated, err := h.tracker.RefreshProduct(ctx, before.ID)
	if err != nil {
		h.logger.WithError(err).WithField("id", before.ID).Warn("Erro ao verificar produto")
		response = fmt.Sprintf("❌ Erro ao verificar preço: %s", escapeHTML(err.Error()))
	} else {
		currency := doc.Settings.Currency
		response = fmt.Sprintf(
			"📊 <b>Produto: %s</b>\n\n"+
				"Preço atual: %s\n"+
				"Preço anterior: %s\n"+
				"Vendas: %d\n"+
				"Link: %s",
			escapeHTML(updated.Name),
			monitor.FormatPrice(updated.Price, currency),
			monitor.FormatPrice(before.Price, currency),
			updated.Sales,
			escapeHTML(updated.URL),
		)
		if before.Price > 0 && updated.Price < before.Price {
			discount := (before.Price - updated.Price) / before.Price * 100
			response += fmt.Sprintf("\n\n🎉 Desconto de %.1f%%!", discount)
		}
	}

	// Tentar editar a mensagem de "verificando" se foi enviada
	if sentMessageID != 0 {
		edit := tgbotapi.NewEditMessageText(chatID, sentMessageID, response)
		edit.ParseMode = tgbotapi.ModeHTML
		if _, err := h.sender.Send(edit); err == nil {
			return
		}
		h.logger.WithField("chat_id", chatID).Warn("Erro ao editar mensagem, enviando nova")
	}
	h.replyHTML(chatID, response)
}

func (h *Handler) handleAlert(ctx context.Context, chatID int64, args []string) {
	usage := "\n\nUso: /alert <n> <preço>\n\nExemplo: /alert 1 19.90"
	if len(args) < 2 {
		h.reply(chatID, "❌ Formato incorreto."+usage)
		return
	}

	doc, ok := h.readDocument(ctx, chatID)
	if !ok {
		return
	}
	i, err := position(args, len(doc.TrackedProducts))
	if err != nil {
		h.reply(chatID, fmt.Sprintf("❌ %v%s", err, usage))
		return
	}

	target, err := strconv.ParseFloat(strings.ReplaceAll(args[1], ",", "."), 64)
	if err != nil || target <= 0 {
		h.reply(chatID, "❌ Preço inválido. Use um valor numérico positivo.")
		return
	}

	alert, err := h.tracker.SetAlert(ctx, doc.TrackedProducts[i].ID, target)
	if err != nil {
		h.reply(chatID, fmt.Sprintf("❌ Erro ao criar alerta: %v", err))
		return
	}

	direction := "cair para"
	if alert.Type == models.AlertAbove {
		direction = "subir para"
	}
	h.replyHTML(chatID, fmt.Sprintf("🔔 Alerta criado! Você será avisado quando <b>%s</b> %s %s.",
		escapeHTML(alert.ProductName), direction, monitor.FormatPrice(alert.TargetPrice, doc.Settings.Currency)))
}

func (h *Handler) handleAlerts(ctx context.Context, chatID int64) {
	doc, ok := h.readDocument(ctx, chatID)
	if !ok {
		return
	}
	if len(doc.PriceAlerts) == 0 {
		h.reply(chatID, "🔕 Nenhum alerta de preço cadastrado.")
		return
	}

	var response strings.Builder
	response.WriteString("🔔 <b>Alertas de preço:</b>\n\n")
	for i, a := range doc.PriceAlerts {
		status := "⏳ pendente"
		if a.Triggered {
			status = "✅ disparado"
		}
		symbol := "⬇️"
		if a.Type == models.AlertAbove {
			symbol = "⬆️"
		}
		response.WriteString(fmt.Sprintf("<b>%d.</b> %s %s %s - %s\n",
			i+1, escapeHTML(a.ProductName), symbol, monitor.FormatPrice(a.TargetPrice, doc.Settings.Currency), status))
	}
	h.replyHTML(chatID, response.String())
}

func (h *Handler) handleUnalert(ctx context.Context, chatID int64, args []string) {
	doc, ok := h.readDocument(ctx, chatID)
	if !ok {
		return
	}
	i, err := position(args, len(doc.PriceAlerts))
	if err != nil {
		h.reply(chatID, fmt.Sprintf("❌ %v\n\nUso: /unalert <n>", err))
		return
	}
	if err := h.store.RemovePriceAlert(ctx, doc.PriceAlerts[i].ID); err != nil {
		h.reply(chatID, fmt.Sprintf("❌ Erro ao remover alerta: %v", err))
		return
	}
	h.reply(chatID, "✅ Alerta removido.")
}

func (h *Handler) handleSellers(ctx context.Context, chatID int64) {
	doc, ok := h.readDocument(ctx, chatID)
	if !ok {
		return
	}
	if len(doc.Competitors) == 0 {
		h.reply(chatID, "🏪 Nenhuma loja concorrente sendo seguida.")
		return
	}

	var response strings.Builder
	response.WriteString("🏪 <b>Lojas concorrentes:</b>\n\n")
	for i, c := range doc.Competitors {
		response.WriteString(fmt.Sprintf("<b>%d.</b> %s\n👥 %d seguidores | 📦 %d produtos | ⭐ %.1f\n",
			i+1, escapeHTML(c.Name), c.Followers, c.Products, c.Rating))
		if c.ShopURL != "" {
			response.WriteString(fmt.Sprintf("🔗 %s\n", escapeHTML(c.ShopURL)))
		}
		response.WriteString("\n")
	}
	h.replyHTML(chatID, response.String())
}

func (h *Handler) handleUnfollow(ctx context.Context, chatID int64, args []string) {
	doc, ok := h.readDocument(ctx, chatID)
	if !ok {
		return
	}
	i, err := position(args, len(doc.Competitors))
	if err != nil {
		h.reply(chatID, fmt.Sprintf("❌ %v\n\nUso: /unfollow <n>", err))
		return
	}
	competitor := doc.Competitors[i]
	if err := h.store.RemoveCompetitor(ctx, competitor.ID); err != nil {
		h.reply(chatID, fmt.Sprintf("❌ Erro ao remover loja: %v", err))
		return
	}
	h.reply(chatID, fmt.Sprintf("✅ Você deixou de seguir %s", competitor.Name))
}

func (h *Handler) handleUsage(ctx context.Context, chatID int64) {
	usage, err := h.store.Usage(ctx)
	if err != nil {
		h.reply(chatID, fmt.Sprintf("❌ Erro ao ler a cota: %v", err))
		return
	}

	plan := fmt.Sprintf("%d de %d análises usadas", usage.AnalysesUsed, usage.MonthlyLimit)
	if usage.IsPro {
		plan = fmt.Sprintf("Plano Pro: %d análises usadas, sem limite", usage.AnalysesUsed)
	}
	h.reply(chatID, fmt.Sprintf("📈 %s\n🗓️ Renovação em %s", plan, usage.ResetDate.Format("02/01/2006")))
}

func (h *Handler) handleToggle(ctx context.Context, chatID int64, args []string, label string, update func(bool) models.SettingsUpdate) {
	if len(args) < 1 || (args[0] != "on" && args[0] != "off") {
		h.reply(chatID, fmt.Sprintf("❌ Use on ou off para %s.", label))
		return
	}

	on := args[0] == "on"
	if _, err := h.store.UpdateSettings(ctx, update(on)); err != nil {
		h.reply(chatID, fmt.Sprintf("❌ Erro ao salvar preferência: %v", err))
		return
	}

	state := "desativado"
	if on {
		state = "ativado"
	}
	h.reply(chatID, fmt.Sprintf("✅ %s: %s", label, state))
}

func (h *Handler) handleExport(ctx context.Context, chatID int64) {
	doc, ok := h.readDocument(ctx, chatID)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, doc); err != nil {
		h.logger.WithError(err).Error("Erro ao gerar planilha")
		h.reply(chatID, fmt.Sprintf("❌ Erro ao gerar planilha: %v", err))
		return
	}

	file := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "shop-tracker.xlsx", Bytes: buf.Bytes()})
	file.Caption = "📎 Dados exportados"
	if _, err := h.sender.Send(file); err != nil {
		h.logger.WithError(err).Error("Erro ao enviar planilha")
		h.reply(chatID, "❌ Erro ao enviar a planilha.")
	}
}
