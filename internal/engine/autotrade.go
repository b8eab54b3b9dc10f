package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"global-pick-trade/internal/broadcast"
	"global-pick-trade/internal/domain"
	"global-pick-trade/internal/observability"
	"global-pick-trade/internal/pricing"
	"global-pick-trade/internal/storage"
	"global-pick-trade/internal/strategy"
)

// jobTrading labels pricing/auto-trade tick metrics.
const jobTrading = "trading"

// tradeFraction is the share of the stated position size executed per
// trade, regardless of direction.
const tradeFraction = 0.1

// AutoTradeEngine publishes fresh quotes every pricing tick and evaluates
// each eligible auto-trading position against its configured strategy.
type AutoTradeEngine struct {
	trades storage.TradeStore
	quotes storage.QuoteHistoryStore // optional; nil disables history
	oracle pricing.Oracle
	hub    broadcast.Broadcaster
	rand   strategy.Rand
	now    func() time.Time
	logger *log.Logger
}

// AutoTradeOptions configures an AutoTradeEngine.
type AutoTradeOptions struct {
	TradeStore        storage.TradeStore
	QuoteHistoryStore storage.QuoteHistoryStore // optional
	Oracle            pricing.Oracle
	Hub               broadcast.Broadcaster
	Rand              strategy.Rand
	Now               func() time.Time // optional; defaults to time.Now
	Logger            *log.Logger
}

// NewAutoTradeEngine creates an auto-trade engine. The random source is
// serialized internally; overlapping ticks may share it.
func NewAutoTradeEngine(opts AutoTradeOptions) *AutoTradeEngine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &AutoTradeEngine{
		trades: opts.TradeStore,
		quotes: opts.QuoteHistoryStore,
		oracle: opts.Oracle,
		hub:    opts.Hub,
		rand:   &lockedRand{src: opts.Rand},
		now:    now,
		logger: opts.Logger,
	}
}

// lockedRand guards a shared random source. *math/rand.Rand is not safe
// for concurrent draws, and ticks overlap under the allow-overlap policy.
type lockedRand struct {
	mu  sync.Mutex
	src strategy.Rand
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

// RunTick publishes a price-update for the supported coin set, then
// evaluates every eligible position. The price-update goes out regardless
// of trade activity. Only a failure to fetch the batch is returned;
// per-position failures are logged and skipped.
func (e *AutoTradeEngine) RunTick(ctx context.Context) error {
	prices := make(domain.PriceUpdate, len(domain.SupportedCoins))
	for _, coin := range domain.SupportedCoins {
		prices[coin] = e.oracle.Quote(coin)
	}

	e.hub.Publish(domain.TopicGlobal, domain.EventPriceUpdate, prices)
	observability.RecordEventPublished(domain.EventPriceUpdate)

	e.recordQuotes(ctx, prices)

	trades, err := e.trades.GetActiveAutoTrades(ctx)
	if err != nil {
		return fmt.Errorf("fetch eligible auto trades: %w", err)
	}

	for _, trade := range trades {
		if err := e.evaluate(ctx, trade); err != nil {
			e.logger.Printf("auto-trade evaluation for %s skipped: %v", trade.ID, err)
			observability.RecordEntitySkipped(jobTrading, skipReason(err))
			continue
		}
		observability.RecordEntityProcessed(jobTrading)
	}
	return nil
}

// evaluate quotes the position's coin, asks the configured strategy for a
// decision and executes when told to. A no-trade tick leaves
// CurrentPrice, Profit and LastTradeTime untouched.
func (e *AutoTradeEngine) evaluate(ctx context.Context, trade *domain.Trade) error {
	quote := e.oracle.Quote(trade.Coin)

	decision := strategy.FromName(trade.AutoTrade.Strategy, e.rand).Decide(strategy.Input{
		EntryPrice:   trade.EntryPrice,
		CurrentQuote: quote,
	})
	if !decision.Trade {
		return nil
	}

	return e.execute(ctx, trade, quote, decision.Action)
}

// execute books one trade: 10% of the stated position size, profit
// realized on sells only. The trade-executed event goes out only after
// the position persisted.
func (e *AutoTradeEngine) execute(ctx context.Context, trade *domain.Trade, price float64, action string) error {
	tradeAmount := trade.Amount * tradeFraction

	profit := 0.0
	if action == domain.ActionSell {
		profit = (price - trade.EntryPrice) * tradeAmount
	}

	executedAt := e.now()
	trade.CurrentPrice = price
	trade.Profit = profit
	trade.LastTradeTime = executedAt

	if err := e.trades.Update(ctx, trade); err != nil {
		return fmt.Errorf("persist trade execution: %w", err)
	}

	e.hub.Publish(domain.UserTopic(trade.UserID), domain.EventTradeExecuted, domain.TradeExecuted{
		TradeID:   trade.ID,
		Action:    action,
		Price:     price,
		Profit:    profit,
		Timestamp: executedAt,
	})
	observability.RecordEventPublished(domain.EventTradeExecuted)
	return nil
}

// recordQuotes appends the tick's quotes to the history store.
// Best-effort: failures are logged, never fail the tick.
func (e *AutoTradeEngine) recordQuotes(ctx context.Context, prices domain.PriceUpdate) {
	if e.quotes == nil {
		return
	}

	ts := e.now().UnixMilli()
	points := make([]*storage.QuotePoint, 0, len(prices))
	for coin, price := range prices {
		points = append(points, &storage.QuotePoint{Coin: coin, TimestampMs: ts, Price: price})
	}

	if err := e.quotes.InsertBulk(ctx, points); err != nil {
		e.logger.Printf("quote history append failed: %v", err)
		observability.RecordStoreError("quote_history", "insert_bulk")
	}
}
