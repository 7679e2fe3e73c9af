// cmd/simulate replays daily OHLCV price data through a trading policy
// against a simulated portfolio and reports the value trajectory.
//
// Usage:
//
//	go run ./cmd/simulate --assets=ACME,GLOBEX --from=2024-01-01 --to=2024-06-30
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"trading-simv1/config"
	"trading-simv1/internal/logger"
	"trading-simv1/internal/marketdata"
	"trading-simv1/internal/metrics"
	"trading-simv1/internal/model"
	"trading-simv1/internal/notification"
	"trading-simv1/internal/sim"
	redisstore "trading-simv1/internal/store/redis"
	sqlitestore "trading-simv1/internal/store/sqlite"
	"trading-simv1/internal/strategy"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Flags override the environment.
	assets := flag.String("assets", cfg.Assets, "Comma-separated symbols to simulate")
	from := flag.String("from", cfg.StartDate, "Start date (YYYY-MM-DD)")
	to := flag.String("to", cfg.EndDate, "End date (YYYY-MM-DD), inclusive")
	cash := flag.Float64("cash", cfg.StartingCash, "Starting cash balance")
	fee := flag.Float64("fee", cfg.TradeFee, "Flat fee per executed trade")
	qty := flag.Int64("qty", cfg.BuyQty, "Quantity per BUY intent")
	dataDir := flag.String("data", cfg.DataDir, "Directory of <SYMBOL>.csv price files")
	dbPath := flag.String("db", cfg.SQLitePath, "Path to SQLite database")
	policyName := flag.String("policy", "rsi", "Trading policy: rsi or sma")
	flag.Parse()

	logger.Init("simulate", logger.ParseLevel(cfg.LogLevel))

	cfg.Assets = *assets
	symbols := cfg.ParseAssets()
	if len(symbols) == 0 {
		log.Fatal("[simulate] no assets specified (--assets or ASSETS)")
	}
	startDate, err := model.ParseDay(*from)
	if err != nil {
		log.Fatalf("[simulate] invalid start date %q: %v", *from, err)
	}
	endDate, err := model.ParseDay(*to)
	if err != nil {
		log.Fatalf("[simulate] invalid end date %q: %v", *to, err)
	}

	// Open SQLite
	store, err := sqlitestore.Open(*dbPath)
	if err != nil {
		log.Fatalf("[simulate] sqlite open failed: %v", err)
	}
	defer store.Close()

	src := marketdata.NewCSVSource(*dataDir)

	// Recorders: always log and journal; redis and webhook when configured.
	recorders := sim.MultiRecorder{
		sim.LogRecorder{},
		sim.JournalRecorder{Store: store},
	}
	if cfg.RedisAddr != "" {
		pub, err := redisstore.New(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			log.Fatalf("[simulate] redis connect failed: %v", err)
		}
		defer pub.Close()
		recorders = append(recorders, sim.RedisRecorder{Pub: pub})
	}
	if cfg.WebhookURL != "" {
		recorders = append(recorders, sim.NotifierRecorder{
			Notifier: notification.NewWebhookNotifier(cfg.WebhookURL),
		})
	}

	var m *metrics.Metrics
	if cfg.MetricsAddr != "" {
		m = metrics.New()
		metrics.Serve(cfg.MetricsAddr)
	}

	policy := buildPolicy(*policyName, *qty, cfg)

	simulator, err := sim.New(sim.Config{
		StartingCash: *cash,
		Assets:       symbols,
		StartDate:    startDate,
		EndDate:      endDate,
		TradeFee:     *fee,
		BuyQty:       *qty,
	}, store, src, policy, recorders, m)
	if err != nil {
		log.Fatalf("[simulate] config invalid: %v", err)
	}

	// Setup context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	trajectory, err := simulator.Run(ctx)
	if err != nil {
		log.Fatalf("[simulate] run failed: %v", err)
	}

	printSummary(simulator, trajectory, *cash)
}

func buildPolicy(name string, qty int64, cfg *config.Config) strategy.Policy {
	switch name {
	case "sma":
		return strategy.NewSMACrossover(20, 50, qty)
	case "rsi":
		p := strategy.NewRSIReversion(qty)
		p.Window = cfg.RSIWindow
		p.MinHistory = cfg.RSIWindow + 1
		p.BuyThreshold = cfg.RSIBuyLevel
		p.SellThreshold = cfg.RSISellLevel
		return p
	default:
		log.Fatalf("[simulate] unknown policy %q (want rsi or sma)", name)
		return nil
	}
}

func printSummary(s *sim.Simulator, trajectory []model.ValuationRecord, startingCash float64) {
	if len(trajectory) == 0 {
		return
	}
	finalValue := trajectory[len(trajectory)-1].TotalValue
	returnPct := 0.0
	if startingCash > 0 {
		returnPct = (finalValue - startingCash) / startingCash * 100
	}

	buys, sells := 0, 0
	for _, tr := range s.Ledger().History() {
		if tr.Action == model.ActionBuy {
			buys++
		} else {
			sells++
		}
	}

	fmt.Println()
	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║         SIMULATION COMPLETE          ║")
	fmt.Println("╠══════════════════════════════════════╣")
	fmt.Printf("║  Days simulated:    %-16d ║\n", len(trajectory))
	fmt.Printf("║  Trades (buy/sell): %-16s ║\n", fmt.Sprintf("%d/%d", buys, sells))
	fmt.Printf("║  Final value:       %-16.2f ║\n", finalValue)
	fmt.Printf("║  Return:            %-15.2f%% ║\n", returnPct)
	fmt.Printf("║  Realized P&L:      %-16.2f ║\n", s.Ledger().RealizedPnL())
	fmt.Println("╚══════════════════════════════════════╝")
}
