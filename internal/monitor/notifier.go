package monitor

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Notification é o pedido de notificação enviado quando um alerta dispara
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	URL   string `json:"url,omitempty"`
}

// Notifier entrega notificações. A entrega não é acompanhada.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier apenas registra as notificações no log
type LogNotifier struct {
	Logger *logrus.Logger
}

// Notify implementa Notifier
func (l LogNotifier) Notify(_ context.Context, n Notification) error {
	l.Logger.WithFields(logrus.Fields{
		"title": n.Title,
		"url":   n.URL,
	}).Info(n.Body)
	return nil
}

var currencySymbols = map[string]string{
	"USD": "$",
	"BRL": "R$ ",
	"EUR": "€",
	"GBP": "£",
}

// FormatPrice formata um preço com o símbolo da moeda configurada
func FormatPrice(price float64, currency string) string {
	if symbol, ok := currencySymbols[currency]; ok {
		return fmt.Sprintf("%s%.2f", symbol, price)
	}
	return fmt.Sprintf("%.2f %s", price, currency)
}
