// Package metrics exposes Prometheus metrics for the simulation engine.
package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for a simulation run.
type Metrics struct {
	DaysProcessed  prometheus.Counter
	RowsUpserted   prometheus.Counter
	FetchErrors    *prometheus.CounterVec // labels: symbol
	TradesExecuted *prometheus.CounterVec // labels: action
	TradesRejected *prometheus.CounterVec // labels: reason
	IntentsTotal   prometheus.Counter

	DayDuration    prometheus.Histogram
	PortfolioValue prometheus.Gauge
	CashBalance    prometheus.Gauge
}

// New registers and returns all simulation metrics.
func New() *Metrics {
	m := &Metrics{
		DaysProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sim_days_processed_total",
			Help: "Trading days fully processed",
		}),
		RowsUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sim_price_rows_upserted_total",
			Help: "Price rows newly stored by incremental refresh",
		}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sim_fetch_errors_total",
			Help: "Market data fetch failures (isolated per asset/day)",
		}, []string{"symbol"}),
		TradesExecuted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sim_trades_executed_total",
			Help: "Executed trades by action",
		}, []string{"action"}),
		TradesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sim_trades_rejected_total",
			Help: "Rejected trade intents by reason",
		}, []string{"reason"}),
		IntentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sim_trade_intents_total",
			Help: "Trade intents produced by the decision policy",
		}),
		DayDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sim_day_duration_seconds",
			Help:    "Wall-clock time to process one simulated day",
			Buckets: prometheus.DefBuckets,
		}),
		PortfolioValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sim_portfolio_value",
			Help: "Latest total portfolio valuation",
		}),
		CashBalance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sim_cash_balance",
			Help: "Latest cash balance",
		}),
	}

	prometheus.MustRegister(
		m.DaysProcessed,
		m.RowsUpserted,
		m.FetchErrors,
		m.TradesExecuted,
		m.TradesRejected,
		m.IntentsTotal,
		m.DayDuration,
		m.PortfolioValue,
		m.CashBalance,
	)

	return m
}

// Serve starts the /metrics HTTP listener in a background goroutine.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("[metrics] serving", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("[metrics] server stopped", "err", err)
		}
	}()
}
