package monitor

import (
	"context"
	"fmt"
	"time"

	"shop-tracker/internal/models"
	"shop-tracker/internal/store"

	"github.com/sirupsen/logrus"
)

// Refresher atualiza um produto monitorado a partir da sua página
type Refresher interface {
	RefreshProduct(ctx context.Context, id string) (models.TrackedProduct, error)
}

// Monitor executa periodicamente a verificação de alertas e a atualização automática de produtos.
// Um único loop executa as duas tarefas, então varreduras nunca se sobrepõem.
type Monitor struct {
	store           *store.Store
	notifier        Notifier
	refresher       Refresher
	logger          *logrus.Logger
	alertInterval   time.Duration
	refreshInterval time.Duration
	icon            string
}

// Config agrupa os intervalos do monitor
type Config struct {
	AlertInterval   time.Duration
	RefreshInterval time.Duration
	Icon            string
}

// New cria uma nova instância do monitor. refresher pode ser nil.
func New(st *store.Store, notifier Notifier, refresher Refresher, cfg Config, logger *logrus.Logger) *Monitor {
	if cfg.AlertInterval <= 0 {
		cfg.AlertInterval = time.Hour
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 30 * time.Minute
	}
	return &Monitor{
		store:           st,
		notifier:        notifier,
		refresher:       refresher,
		logger:          logger,
		alertInterval:   cfg.AlertInterval,
		refreshInterval: cfg.RefreshInterval,
		icon:            cfg.Icon,
	}
}

// Start roda até o contexto ser cancelado
func (m *Monitor) Start(ctx context.Context) {
	m.logger.WithFields(logrus.Fields{
		"alert_interval":   m.alertInterval,
		"refresh_interval": m.refreshInterval,
	}).Info("Monitor iniciado")

	// Verificar imediatamente na primeira execução
	m.refresh(ctx)
	m.checkAlerts(ctx)

	alertTicker := time.NewTicker(m.alertInterval)
	defer alertTicker.Stop()
	refreshTicker := time.NewTicker(m.refreshInterval)
	defer refreshTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Monitor encerrado")
			return
		case <-alertTicker.C:
			m.checkAlerts(ctx)
		case <-refreshTicker.C:
			m.refresh(ctx)
			// preços novos podem disparar alertas
			m.checkAlerts(ctx)
		}
	}
}

func (m *Monitor) checkAlerts(ctx context.Context) {
	fired, err := m.CheckAlerts(ctx)
	if err != nil {
		m.logger.WithError(err).Error("Erro ao verificar alertas")
		return
	}
	if fired > 0 {
		m.logger.WithField("fired", fired).Info("Alertas de preço disparados")
	}
}

func (m *Monitor) refresh(ctx context.Context) {
	updated, err := m.RefreshProducts(ctx)
	if err != nil {
		m.logger.WithError(err).Error("Erro ao atualizar produtos")
		return
	}
	if updated > 0 {
		m.logger.WithField("updated", updated).Info("Produtos atualizados")
	}
}

// CheckAlerts compara cada alerta pendente com o preço atual do produto.
// Alertas que disparam são marcados em uma única gravação, mesmo com notificações
// desativadas (nesse caso nada é enviado). Retorna quantos dispararam.
func (m *Monitor) CheckAlerts(ctx context.Context) (int, error) {
	doc, err := m.store.Read(ctx)
	if err != nil {
		return 0, err
	}

	var fired []string
	for _, alert := range doc.PriceAlerts {
		if alert.Triggered {
			continue
		}

		product, ok := doc.Product(alert.ProductID)
		if !ok {
			// produto removido: o alerta fica pendente para sempre
			continue
		}
		if !alert.Matches(product.Price) {
			continue
		}

		fired = append(fired, alert.ID)
		if !doc.Settings.Notifications {
			m.logger.WithField("alert_id", alert.ID).Debug("Alerta disparado com notificações desativadas")
			continue
		}

		n := m.notification(*product, alert, doc.Settings.Currency)
		if err := m.notifier.Notify(ctx, n); err != nil {
			m.logger.WithError(err).WithField("alert_id", alert.ID).Error("Erro ao enviar notificação")
		}
	}

	if len(fired) == 0 {
		return 0, nil
	}
	return m.store.MarkAlertsTriggered(ctx, fired)
}

func (m *Monitor) notification(product models.TrackedProduct, alert models.PriceAlert, currency string) Notification {
	return Notification{
		Title: "Shop Tracker - Alerta de preço!",
		Body: fmt.Sprintf("%s agora custa %s (alvo: %s)",
			product.Name,
			FormatPrice(product.Price, currency),
			FormatPrice(alert.TargetPrice, currency),
		),
		Icon: m.icon,
		URL:  product.URL,
	}
}

// RefreshProducts busca novamente a página de cada produto quando o
// monitoramento automático está ativo. Falhas individuais são registradas e ignoradas.
func (m *Monitor) RefreshProducts(ctx context.Context) (int, error) {
	if m.refresher == nil {
		return 0, nil
	}

	doc, err := m.store.Read(ctx)
	if err != nil {
		return 0, err
	}
	if !doc.Settings.AutoTrack {
		return 0, nil
	}

	updated := 0
	for _, product := range doc.TrackedProducts {
		if ctx.Err() != nil {
			return updated, ctx.Err()
		}
		if _, err := m.refresher.RefreshProduct(ctx, product.ID); err != nil {
			m.logger.WithError(err).WithFields(logrus.Fields{
				"id":  product.ID,
				"url": product.URL,
			}).Warn("Erro ao atualizar produto")
			continue
		}
		updated++
	}
	return updated, nil
}
