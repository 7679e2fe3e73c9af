// Package sim orchestrates the day-stepped simulation loop: incremental data
// refresh, indicator-driven decisions, trade execution against the ledger,
// and the daily valuation snapshot.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trading-simv1/internal/marketdata"
	"trading-simv1/internal/metrics"
	"trading-simv1/internal/model"
	"trading-simv1/internal/portfolio"
	"trading-simv1/internal/strategy"
)

// PriceStore is the store surface the simulator needs: the refresher's write
// half plus the range query. Satisfied by *sqlite.Store and by test doubles.
type PriceStore interface {
	marketdata.PriceWriter
	QueryRange(symbol string, from, to time.Time) (model.TimeSeries, error)
}

// Config holds the recognized simulation options.
type Config struct {
	StartingCash float64
	Assets       []string
	StartDate    time.Time
	EndDate      time.Time
	TradeFee     float64
	BuyQty       int64
}

// Validate fails fast on configuration errors before the loop starts.
func (c *Config) Validate() error {
	if len(c.Assets) == 0 {
		return errors.New("config: no assets to track")
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return errors.New("config: start and end dates are required")
	}
	if c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("config: end date %s before start date %s",
			c.EndDate.Format(model.DateLayout), c.StartDate.Format(model.DateLayout))
	}
	if c.StartingCash < 0 {
		return fmt.Errorf("config: negative starting cash %.2f", c.StartingCash)
	}
	if c.BuyQty <= 0 {
		return fmt.Errorf("config: buy quantity must be positive, got %d", c.BuyQty)
	}
	if c.TradeFee < 0 {
		return fmt.Errorf("config: negative trade fee %.2f", c.TradeFee)
	}
	return nil
}

// Simulator runs one portfolio through the configured date range,
// strictly sequentially: one day is fully processed before the next begins.
type Simulator struct {
	cfg       Config
	store     PriceStore
	refresher *marketdata.Refresher
	policy    strategy.Policy
	ledger    *portfolio.Ledger
	recorder  Recorder
	metrics   *metrics.Metrics
}

// New builds a simulator. recorder may be nil (log-only);
// m may be nil (no metrics).
func New(cfg Config, store PriceStore, src marketdata.Source, policy strategy.Policy,
	recorder Recorder, m *metrics.Metrics) (*Simulator, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.StartDate = model.Day(cfg.StartDate)
	cfg.EndDate = model.Day(cfg.EndDate)
	if recorder == nil {
		recorder = LogRecorder{}
	}
	return &Simulator{
		cfg:       cfg,
		store:     store,
		refresher: marketdata.NewRefresher(src, store),
		policy:    policy,
		ledger:    portfolio.NewLedger(cfg.StartingCash),
		recorder:  recorder,
		metrics:   m,
	}, nil
}

// Ledger exposes the portfolio state for end-of-run reporting.
func (s *Simulator) Ledger() *portfolio.Ledger { return s.ledger }

// Run executes the simulation over every calendar day from start to end
// inclusive and returns the valuation trajectory. Mutations are final once
// applied; there is no rollback. The only errors returned are store
// failures and context cancellation; data and business conditions are
// recovered per asset or per intent.
func (s *Simulator) Run(ctx context.Context) ([]model.ValuationRecord, error) {
	days := int(s.cfg.EndDate.Sub(s.cfg.StartDate).Hours()/24) + 1
	trajectory := make([]model.ValuationRecord, 0, days)

	slog.Info("[sim] starting run",
		"assets", s.cfg.Assets, "policy", s.policy.Name(),
		"from", s.cfg.StartDate.Format(model.DateLayout),
		"to", s.cfg.EndDate.Format(model.DateLayout),
		"starting_cash", s.cfg.StartingCash)

	for day := s.cfg.StartDate; !day.After(s.cfg.EndDate); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return trajectory, err
		}
		rec, err := s.step(ctx, day)
		if err != nil {
			return trajectory, err
		}
		trajectory = append(trajectory, rec)
	}

	slog.Info("[sim] run complete",
		"days", len(trajectory),
		"final_value", trajectory[len(trajectory)-1].TotalValue,
		"trades", len(s.ledger.History()))
	return trajectory, nil
}

// step processes one trading day: refresh, query, decide, execute, evaluate.
func (s *Simulator) step(ctx context.Context, day time.Time) (model.ValuationRecord, error) {
	started := time.Now()

	// 1+2. Incremental refresh and full-history query per asset. A fetch
	// failure is isolated to that asset and day: the asset still
	// participates with whatever history the store already holds.
	series := make(map[string]model.TimeSeries, len(s.cfg.Assets))
	for _, symbol := range s.cfg.Assets {
		n, err := s.refresher.Refresh(ctx, symbol, s.cfg.StartDate, day)
		if err != nil {
			slog.Warn("[sim] refresh failed, continuing without new data",
				"symbol", symbol, "day", day.Format(model.DateLayout), "err", err)
			if s.metrics != nil {
				s.metrics.FetchErrors.WithLabelValues(symbol).Inc()
			}
		} else if s.metrics != nil && n > 0 {
			s.metrics.RowsUpserted.Add(float64(n))
		}

		ts, err := s.store.QueryRange(symbol, s.cfg.StartDate, day)
		if err != nil {
			return model.ValuationRecord{}, fmt.Errorf("query %s: %w", symbol, err)
		}
		series[symbol] = ts
	}

	// 3. Decide.
	intents := s.policy.Decide(series, s.ledger)
	if s.metrics != nil {
		s.metrics.IntentsTotal.Add(float64(len(intents)))
	}

	// 4. Execute in order, each intent independently: an earlier failed
	// BUY does not block a later SELL on the same day.
	for _, intent := range intents {
		s.execute(ctx, intent, day)
	}

	// 5. Evaluate at each asset's latest stored close.
	prices := make(map[string]float64, len(series))
	for symbol, ts := range series {
		prices[symbol] = ts.LatestClose()
	}
	rec := model.ValuationRecord{Date: day, TotalValue: s.ledger.Evaluate(prices)}
	_ = s.recorder.RecordValuation(ctx, rec)

	if s.metrics != nil {
		s.metrics.DaysProcessed.Inc()
		s.metrics.DayDuration.Observe(time.Since(started).Seconds())
		s.metrics.PortfolioValue.Set(rec.TotalValue)
		s.metrics.CashBalance.Set(s.ledger.Cash())
	}
	return rec, nil
}

func (s *Simulator) execute(ctx context.Context, intent model.TradeIntent, day time.Time) {
	var err error
	switch intent.Action {
	case model.ActionBuy:
		err = s.ledger.Buy(intent.Symbol, intent.Price, intent.Qty, day, s.cfg.TradeFee)
	case model.ActionSell:
		err = s.ledger.Sell(intent.Symbol, intent.Price, intent.Qty, day, s.cfg.TradeFee)
	default:
		slog.Warn("[sim] unknown intent action", "action", intent.Action)
		return
	}

	if err != nil {
		// Expected business condition: no mutation happened, keep going.
		reason := "insufficient funds"
		if errors.Is(err, portfolio.ErrInsufficientHoldings) {
			reason = "insufficient holdings"
		}
		if s.metrics != nil {
			s.metrics.TradesRejected.WithLabelValues(reason).Inc()
		}
		_ = s.recorder.RecordRejection(ctx, intent, reason)
		return
	}

	if s.metrics != nil {
		s.metrics.TradesExecuted.WithLabelValues(string(intent.Action)).Inc()
	}
	_ = s.recorder.RecordTrade(ctx, model.TradeRecord{
		Date:   day,
		Symbol: intent.Symbol,
		Action: intent.Action,
		Price:  intent.Price,
		Qty:    intent.Qty,
		Fee:    s.cfg.TradeFee,
	})
}
