package sim

import (
	"context"
	"log/slog"

	"trading-simv1/internal/model"
	"trading-simv1/internal/notification"
	"trading-simv1/internal/store/redis"
	"trading-simv1/internal/store/sqlite"
)

// Recorder receives the simulation's externally observable output: executed
// trades, rejected intents, and the daily valuation. Recorder failures are
// logged by the fan-out and never stop a run.
type Recorder interface {
	RecordTrade(ctx context.Context, rec model.TradeRecord) error
	RecordRejection(ctx context.Context, intent model.TradeIntent, reason string) error
	RecordValuation(ctx context.Context, rec model.ValuationRecord) error
}

// LogRecorder writes every event to the structured log.
type LogRecorder struct{}

func (LogRecorder) RecordTrade(_ context.Context, rec model.TradeRecord) error {
	slog.Info("[sim] trade",
		"date", rec.Date.Format(model.DateLayout), "action", rec.Action,
		"symbol", rec.Symbol, "qty", rec.Qty, "price", rec.Price, "fee", rec.Fee)
	return nil
}

func (LogRecorder) RecordRejection(_ context.Context, intent model.TradeIntent, reason string) error {
	slog.Warn("[sim] intent rejected",
		"action", intent.Action, "symbol", intent.Symbol, "qty", intent.Qty, "reason", reason)
	return nil
}

func (LogRecorder) RecordValuation(_ context.Context, rec model.ValuationRecord) error {
	slog.Info("[sim] valuation",
		"date", rec.Date.Format(model.DateLayout), "total_value", rec.TotalValue)
	return nil
}

// JournalRecorder persists trades and valuations to the SQLite journal.
// Rejections are log-only events and are not journaled.
type JournalRecorder struct {
	Store *sqlite.Store
}

func (r JournalRecorder) RecordTrade(_ context.Context, rec model.TradeRecord) error {
	return r.Store.SaveTrade(rec)
}

func (r JournalRecorder) RecordRejection(context.Context, model.TradeIntent, string) error {
	return nil
}

func (r JournalRecorder) RecordValuation(_ context.Context, rec model.ValuationRecord) error {
	return r.Store.SaveValuation(rec)
}

// RedisRecorder publishes trades and valuations for external display.
type RedisRecorder struct {
	Pub *redis.Publisher
}

func (r RedisRecorder) RecordTrade(ctx context.Context, rec model.TradeRecord) error {
	return r.Pub.PublishTrade(ctx, rec)
}

func (r RedisRecorder) RecordRejection(context.Context, model.TradeIntent, string) error {
	return nil
}

func (r RedisRecorder) RecordValuation(ctx context.Context, rec model.ValuationRecord) error {
	return r.Pub.PublishValuation(ctx, rec)
}

// NotifierRecorder delivers trade and rejection alerts through a
// notification backend. Daily valuations are not alert-worthy.
type NotifierRecorder struct {
	Notifier notification.Notifier
}

func (r NotifierRecorder) RecordTrade(ctx context.Context, rec model.TradeRecord) error {
	return r.Notifier.Send(ctx, notification.TradeAlert(rec))
}

func (r NotifierRecorder) RecordRejection(ctx context.Context, intent model.TradeIntent, reason string) error {
	return r.Notifier.Send(ctx, notification.RejectedAlert(intent, reason))
}

func (r NotifierRecorder) RecordValuation(context.Context, model.ValuationRecord) error {
	return nil
}

// MultiRecorder fans out to several recorders. A failing sink is logged and
// skipped; the others still receive the event.
type MultiRecorder []Recorder

func (m MultiRecorder) RecordTrade(ctx context.Context, rec model.TradeRecord) error {
	for _, r := range m {
		if err := r.RecordTrade(ctx, rec); err != nil {
			slog.Warn("[sim] recorder failed", "event", "trade", "err", err)
		}
	}
	return nil
}

func (m MultiRecorder) RecordRejection(ctx context.Context, intent model.TradeIntent, reason string) error {
	for _, r := range m {
		if err := r.RecordRejection(ctx, intent, reason); err != nil {
			slog.Warn("[sim] recorder failed", "event", "rejection", "err", err)
		}
	}
	return nil
}

func (m MultiRecorder) RecordValuation(ctx context.Context, rec model.ValuationRecord) error {
	for _, r := range m {
		if err := r.RecordValuation(ctx, rec); err != nil {
			slog.Warn("[sim] recorder failed", "event", "valuation", "err", err)
		}
	}
	return nil
}
