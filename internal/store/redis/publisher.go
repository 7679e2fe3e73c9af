// Package redis publishes simulation output to Redis for external display
// layers: the latest portfolio valuation under a plain key and the full
// valuation/trade history on streams. Publishing is best-effort: a failure
// is logged by the caller and never stops the simulation.
package redis

import (
	"context"
	"fmt"
	"time"

	"trading-simv1/internal/model"

	goredis "github.com/go-redis/redis/v8"
)

const (
	keyLatestValuation = "sim:valuation:latest"
	streamValuations   = "sim:valuations"
	streamTrades       = "sim:trades"

	// Streams are trimmed so an abandoned display never grows unbounded.
	streamMaxLen = 10000

	latestTTL = 24 * time.Hour
)

// Config configures the publisher connection.
type Config struct {
	Addr     string // e.g. "localhost:6379"
	Password string
	DB       int
}

// Publisher writes valuation and trade events to Redis.
type Publisher struct {
	client *goredis.Client
}

// New connects to Redis and pings the server.
func New(cfg Config) (*Publisher, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Publisher{client: client}, nil
}

// Client returns the underlying Redis client for health checks.
func (p *Publisher) Client() *goredis.Client { return p.client }

// PublishValuation stores the latest total value and appends the day's
// record to the valuation stream.
func (p *Publisher) PublishValuation(ctx context.Context, rec model.ValuationRecord) error {
	day := rec.Date.Format(model.DateLayout)

	pipe := p.client.Pipeline()
	pipe.Set(ctx, keyLatestValuation,
		fmt.Sprintf("%s|%.2f", day, rec.TotalValue), latestTTL)
	pipe.XAdd(ctx, &goredis.XAddArgs{
		Stream: streamValuations,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"date":        day,
			"total_value": rec.TotalValue,
		},
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis publish valuation: %w", err)
	}
	return nil
}

// PublishTrade appends an executed trade to the trade stream.
func (p *Publisher) PublishTrade(ctx context.Context, rec model.TradeRecord) error {
	err := p.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: streamTrades,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"date":   rec.Date.Format(model.DateLayout),
			"symbol": rec.Symbol,
			"action": string(rec.Action),
			"price":  rec.Price,
			"qty":    rec.Qty,
			"fee":    rec.Fee,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("redis publish trade: %w", err)
	}
	return nil
}

// Close closes the connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
