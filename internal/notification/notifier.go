// Package notification provides alert delivery to external channels
// (webhooks, chat bridges) for simulation events: executed trades and
// rejected intents.
package notification

import (
	"context"
	"fmt"
	"log"

	"trading-simv1/internal/model"
)

// AlertLevel represents the severity of an alert.
type AlertLevel string

const (
	AlertInfo    AlertLevel = "INFO"
	AlertWarning AlertLevel = "WARNING"
)

// Alert represents a notification to be sent. Trade alerts carry the
// structured trade fields alongside the human-readable message so webhook
// consumers do not have to parse text.
type Alert struct {
	Level   AlertLevel `json:"level"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
	Date    string     `json:"date,omitempty"`
	Symbol  string     `json:"symbol,omitempty"`
	Action  string     `json:"action,omitempty"`
	Qty     int64      `json:"qty,omitempty"`
	Price   float64    `json:"price,omitempty"`
	Fee     float64    `json:"fee,omitempty"`
	Reason  string     `json:"reason,omitempty"`
}

// TradeAlert builds the alert for an executed trade.
func TradeAlert(rec model.TradeRecord) Alert {
	return Alert{
		Level: AlertInfo,
		Title: fmt.Sprintf("%s %s", rec.Action, rec.Symbol),
		Message: fmt.Sprintf("[%s] %s %d %s at %.2f (fee %.2f)",
			rec.Date.Format(model.DateLayout), rec.Action, rec.Qty, rec.Symbol, rec.Price, rec.Fee),
		Date:   rec.Date.Format(model.DateLayout),
		Symbol: rec.Symbol,
		Action: string(rec.Action),
		Qty:    rec.Qty,
		Price:  rec.Price,
		Fee:    rec.Fee,
	}
}

// RejectedAlert builds the alert for a trade intent the ledger rejected.
func RejectedAlert(intent model.TradeIntent, reason string) Alert {
	return Alert{
		Level: AlertWarning,
		Title: fmt.Sprintf("%s %s rejected", intent.Action, intent.Symbol),
		Message: fmt.Sprintf("%s %d %s at %.2f rejected: %s",
			intent.Action, intent.Qty, intent.Symbol, intent.Price, reason),
		Symbol: intent.Symbol,
		Action: string(intent.Action),
		Qty:    intent.Qty,
		Price:  intent.Price,
		Reason: reason,
	}
}

// Notifier is the interface for all notification backends.
type Notifier interface {
	// Send delivers an alert. Returns error if delivery fails.
	Send(ctx context.Context, alert Alert) error
}

// LogNotifier is a simple notifier that logs alerts (useful for development).
type LogNotifier struct{}

// NewLogNotifier creates a log-based notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(ctx context.Context, alert Alert) error {
	log.Printf("[notify] [%s] %s: %s", alert.Level, alert.Title, alert.Message)
	return nil
}
