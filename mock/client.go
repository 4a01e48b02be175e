package mock

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"iqoption-mock/events"
	"iqoption-mock/logger"
	"iqoption-mock/trading"
)

const (
	DemoAccount = "DEMO"

	defaultMaxRetries = 3
)

var (
	DefaultSymbols = []string{"EURUSD", "USDJPY", "GBPUSD"}

	defaultPayout = decimal.RequireFromString("0.80")
	demoBalance   = decimal.NewFromInt(1000)
)

type Config struct {
	// AccountType selects the starting balance: DEMO accounts start at 1000,
	// anything else at zero. Empty means DEMO.
	AccountType string
	// Symbols lists the instruments the client knows. Empty means
	// DefaultSymbols.
	Symbols []string
	// Payouts overrides the 0.80 payout estimate per symbol.
	Payouts map[string]decimal.Decimal

	// FailChance is the probability in [0,1] that a call hits a simulated
	// outage. MaxRetries bounds the attempts per call.
	FailChance float64
	MaxRetries int

	// Seed drives every generated value. Zero seeds from the clock.
	Seed     int64
	Resolver Resolver

	Publisher events.Publisher
	Logger    *slog.Logger
	Now       func() time.Time
}

type client struct {
	config    Config
	symbols   map[string]struct{}
	rand      *lockedRand
	registry  *registry
	publisher events.Publisher
	log       *slog.Logger
	now       func() time.Time
}

func NewClient(config Config) trading.Client {
	if config.AccountType == "" {
		config.AccountType = DemoAccount
	}
	if len(config.Symbols) == 0 {
		config.Symbols = DefaultSymbols
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = defaultMaxRetries
	}
	if config.Resolver == nil {
		config.Resolver = NewRandomResolver(config.Seed)
	}
	if config.Publisher == nil {
		config.Publisher = events.NewNopPublisher()
	}
	if config.Logger == nil {
		config.Logger = logger.NewDiscardLogger()
	}
	if config.Now == nil {
		config.Now = func() time.Time { return time.Now().UTC() }
	}

	symbols := make(map[string]struct{}, len(config.Symbols))
	for _, s := range config.Symbols {
		symbols[s] = struct{}{}
	}

	balance := decimal.Zero
	if strings.EqualFold(config.AccountType, DemoAccount) {
		balance = demoBalance
	}

	c := &client{
		config:    config,
		symbols:   symbols,
		rand:      newLockedRand(config.Seed),
		publisher: config.Publisher,
		log:       config.Logger.With("component", "iqoption"),
		now:       config.Now,
	}
	c.registry = newRegistry(balance, config.Resolver, c.payout, config.Now)

	return c
}

func (c *client) Balance(ctx context.Context) (decimal.Decimal, error) {
	return withRetry(ctx, c, "balance", func() (decimal.Decimal, error) {
		return c.registry.funds(), nil
	})
}

func (c *client) GetQuote(ctx context.Context, symbol string) (trading.Quote, error) {
	return withRetry(ctx, c, "get quote", func() (trading.Quote, error) {
		if err := c.checkSymbol(symbol); err != nil {
			return trading.Quote{}, err
		}
		return c.quote(symbol), nil
	})
}

func (c *client) GetHistory(ctx context.Context, req trading.GetHistoryRequest) ([]trading.Candle, error) {
	return withRetry(ctx, c, "get history", func() ([]trading.Candle, error) {
		if err := c.checkSymbol(req.Symbol); err != nil {
			return nil, err
		}
		return c.history(req.Start, req.End)
	})
}

func (c *client) GetPayoutEstimate(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return withRetry(ctx, c, "get payout estimate", func() (decimal.Decimal, error) {
		if err := c.checkSymbol(symbol); err != nil {
			return decimal.Decimal{}, err
		}
		return c.payout(symbol), nil
	})
}

func (c *client) StreamMarketDepth(ctx context.Context, symbol string, callback func(trading.DepthSnapshot)) (trading.DepthSnapshot, error) {
	return withRetry(ctx, c, "stream market depth", func() (trading.DepthSnapshot, error) {
		if err := c.checkSymbol(symbol); err != nil {
			return trading.DepthSnapshot{}, err
		}
		if callback == nil {
			return trading.DepthSnapshot{}, fmt.Errorf("nil depth callback: %w", trading.ErrInvalidArgument)
		}
		depth := c.depth(symbol)
		callback(depth)
		return depth, nil
	})
}

func (c *client) PlaceOrder(ctx context.Context, req trading.PlaceOrderRequest) (trading.PlaceOrderResponse, error) {
	order, err := withRetry(ctx, c, "place order", func() (trading.Order, error) {
		if err := c.checkSymbol(req.Symbol); err != nil {
			return trading.Order{}, err
		}
		return c.registry.place(req.Symbol, req.Direction, req.Amount)
	})
	if err != nil {
		return trading.PlaceOrderResponse{}, err
	}

	c.log.Info("order placed", "id", order.ID, "symbol", order.Symbol, "direction", order.Direction, "amount", order.Amount)
	c.publish(ctx, events.OrderPlaced, order)

	return trading.PlaceOrderResponse{OrderID: order.ID}, nil
}

func (c *client) GetOrderDetail(ctx context.Context, req trading.GetOrderDetailRequest) (trading.GetOrderDetailResponse, error) {
	var closed bool
	order, err := withRetry(ctx, c, "check order status", func() (trading.Order, error) {
		o, changed, err := c.registry.check(req.OrderID)
		closed = changed
		return o, err
	})
	if err != nil {
		return trading.GetOrderDetailResponse{}, err
	}

	if closed {
		c.log.Info("order closed", "id", order.ID, "result", order.Result, "profit", order.Profit)
		c.publish(ctx, events.OrderClosed, order)
	}

	return trading.GetOrderDetailResponse{
		OrderID: order.ID,
		Status:  order.Status,
		Result:  order.Result,
		Profit:  order.Profit,
	}, nil
}

func (c *client) CancelOrder(ctx context.Context, req trading.CancelOrderRequest) (trading.CancelOrderResponse, error) {
	var cancelled bool
	order, err := withRetry(ctx, c, "cancel order", func() (trading.Order, error) {
		o, changed, err := c.registry.cancel(req.OrderID)
		cancelled = changed
		return o, err
	})
	if err != nil {
		return trading.CancelOrderResponse{}, err
	}

	if cancelled {
		c.log.Info("order cancelled", "id", order.ID)
		c.publish(ctx, events.OrderCancelled, order)
	}

	return trading.CancelOrderResponse{Cancelled: cancelled}, nil
}

func (c *client) Orders(ctx context.Context) ([]trading.Order, error) {
	return withRetry(ctx, c, "list orders", func() ([]trading.Order, error) {
		return c.registry.snapshot(), nil
	})
}

func (c *client) checkSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("empty symbol: %w", trading.ErrInvalidArgument)
	}
	if _, ok := c.symbols[symbol]; !ok {
		return fmt.Errorf("%s: %w", symbol, trading.ErrSymbolNotFound)
	}
	return nil
}

func (c *client) payout(symbol string) decimal.Decimal {
	if p, ok := c.config.Payouts[symbol]; ok {
		return p
	}
	return defaultPayout
}

// publish is best effort: a failed publish is logged and never fails the
// order operation that triggered it.
func (c *client) publish(ctx context.Context, kind events.Kind, order trading.Order) {
	err := c.publisher.Publish(ctx, events.OrderEvent{Kind: kind, Order: order, Time: c.now()})
	if err != nil {
		c.log.Warn("publish order event", "kind", kind, "id", order.ID, "err", err)
	}
}
