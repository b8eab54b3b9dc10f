// Package main runs the settlement-and-broadcast service:
// - Mining accrual (scheduled): rewards credited to operations and wallets
// - Auto-trading (scheduled): quote refresh, strategy evaluation, execution
// - Broadcast (continuous): WebSocket fan-out of update events
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"global-pick-trade/internal/broadcast"
	"global-pick-trade/internal/engine"
	"global-pick-trade/internal/observability"
	"global-pick-trade/internal/pricing"
	"global-pick-trade/internal/scheduler"
	"global-pick-trade/internal/storage"
	chstore "global-pick-trade/internal/storage/clickhouse"
	"global-pick-trade/internal/storage/memory"
	"global-pick-trade/internal/storage/migrations"
	pgstore "global-pick-trade/internal/storage/postgres"
)

// Server holds all components of the service.
type Server struct {
	miningInterval  time.Duration
	tradingInterval time.Duration

	stores *allStores
	hub    *broadcast.Hub
	logger *log.Logger

	mu      sync.Mutex
	started time.Time
}

// allStores holds all storage implementations.
type allStores struct {
	miningStore storage.MiningOperationStore
	walletStore storage.WalletStore
	tradeStore  storage.TradeStore
	quoteStore  storage.QuoteHistoryStore // nil when quote history is disabled
}

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	// Parse flags (env vars as defaults)
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (empty disables quote history)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	miningInterval := flag.Duration("mining-interval", 5*time.Minute, "Mining accrual tick interval")
	tradingInterval := flag.Duration("trading-interval", 1*time.Minute, "Pricing and auto-trade tick interval")
	addr := flag.String("addr", ":8080", "HTTP listen address (websocket, health, status, metrics)")
	seed := flag.Int64("seed", 0, "Random seed for the price/strategy simulation (0 = time-based)")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	hub := broadcast.NewHub(log.New(os.Stdout, "[broadcast] ", log.LstdFlags|log.Lshortfile))

	miningEngine := engine.NewMiningAccrualEngine(
		stores.miningStore, stores.walletStore, hub,
		log.New(os.Stdout, "[mining] ", log.LstdFlags|log.Lshortfile),
	)
	tradeEngine := engine.NewAutoTradeEngine(engine.AutoTradeOptions{
		TradeStore:        stores.tradeStore,
		QuoteHistoryStore: stores.quoteStore,
		Oracle:            pricing.NewSimulatedOracle(rng),
		Hub:               hub,
		Rand:              rng,
		Logger:            log.New(os.Stdout, "[trading] ", log.LstdFlags|log.Lshortfile),
	})

	sched := scheduler.New(
		log.New(os.Stdout, "[scheduler] ", log.LstdFlags|log.Lshortfile),
		scheduler.Job{
			Name:     "mining",
			Interval: *miningInterval,
			Overlap:  scheduler.SkipIfBusy,
			Run:      miningEngine.RunTick,
		},
		scheduler.Job{
			Name:     "trading",
			Interval: *tradingInterval,
			Overlap:  scheduler.SkipIfBusy,
			Run:      tradeEngine.RunTick,
		},
	)

	server := &Server{
		miningInterval:  *miningInterval,
		tradingInterval: *tradingInterval,
		stores:          stores,
		hub:             hub,
		logger:          logger,
		started:         time.Now(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	go server.startHTTPServer(*addr)

	logger.Printf("Starting ticks (mining: %v, trading: %v)", *miningInterval, *tradingInterval)
	sched.Start(ctx)

	<-ctx.Done()
	sched.Stop()
	close(done)

	logger.Println("Shutdown complete")
}

// createStores creates all required stores and runs migrations.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			miningStore: memory.NewMiningOperationStore(),
			walletStore: memory.NewWalletStore(),
			tradeStore:  memory.NewTradeStore(),
			quoteStore:  memory.NewQuoteHistoryStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	stores := &allStores{
		miningStore: pgstore.NewMiningOperationStore(pool),
		walletStore: pgstore.NewWalletStore(pool),
		tradeStore:  pgstore.NewTradeStore(pool),
	}

	// Quote history is analytics-only and optional.
	var chConn *chstore.Conn
	if clickhouseDSN != "" {
		chConn, err = migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
		}
		stores.quoteStore = chstore.NewQuoteHistoryStore(chConn)
	}

	cleanup := func() {
		if chConn != nil {
			chConn.Close()
		}
		pool.Close()
	}

	return stores, cleanup, nil
}

// startHTTPServer starts the HTTP server for websocket/health/metrics/status.
func (s *Server) startHTTPServer(addr string) {
	mux := http.NewServeMux()

	mux.Handle("/ws", broadcast.NewWSHandler(s.hub, log.New(os.Stdout, "[ws] ", log.LstdFlags|log.Lshortfile)))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", observability.Handler())

	mux.HandleFunc("/status", s.handleStatus)

	s.logger.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("HTTP server error: %v", err)
	}
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status          string `json:"status"`
	Uptime          string `json:"uptime"`
	MiningInterval  string `json:"mining_interval"`
	TradingInterval string `json:"trading_interval"`
	QuoteHistory    bool   `json:"quote_history"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := StatusResponse{
		Status:          "running",
		Uptime:          time.Since(s.started).String(),
		MiningInterval:  s.miningInterval.String(),
		TradingInterval: s.tradingInterval.String(),
		QuoteHistory:    s.stores.quoteStore != nil,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
