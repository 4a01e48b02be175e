package mock

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"iqoption-mock/trading"
)

// registry holds every order placed through one client together with the
// account balance the orders are settled against. All transitions happen
// under mu, so one order can only be resolved or cancelled once.
type registry struct {
	mu       sync.Mutex
	orders   map[string]*trading.Order
	balance  decimal.Decimal
	resolver Resolver
	payout   func(symbol string) decimal.Decimal
	now      func() time.Time
}

func newRegistry(balance decimal.Decimal, resolver Resolver, payout func(string) decimal.Decimal, now func() time.Time) *registry {
	return &registry{
		orders:   make(map[string]*trading.Order),
		balance:  balance,
		resolver: resolver,
		payout:   payout,
		now:      now,
	}
}

func (r *registry) place(symbol string, direction trading.Direction, amount decimal.Decimal) (trading.Order, error) {
	if symbol == "" {
		return trading.Order{}, fmt.Errorf("empty symbol: %w", trading.ErrInvalidArgument)
	}
	if !direction.Valid() {
		return trading.Order{}, fmt.Errorf("direction must be 'buy' or 'sell', got %q: %w", direction, trading.ErrInvalidArgument)
	}
	if !amount.IsPositive() {
		return trading.Order{}, fmt.Errorf("amount must be positive, got %s: %w", amount, trading.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	for r.orders[id] != nil {
		id = uuid.NewString()
	}

	order := &trading.Order{
		ID:        id,
		Symbol:    symbol,
		Direction: direction,
		Amount:    amount,
		Status:    trading.StatusOpen,
		Result:    trading.ResultPending,
		Profit:    decimal.Zero,
		CreatedAt: r.now(),
	}
	r.orders[id] = order
	r.balance = r.balance.Sub(amount)

	return *order, nil
}

// check returns the order, first letting the resolver settle it if it is
// still open. The bool reports whether this call closed the order.
func (r *registry) check(id string) (trading.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return trading.Order{}, false, fmt.Errorf("unknown order %s: %w", id, trading.ErrNotFound)
	}
	if order.Terminal() {
		return *order, false, nil
	}

	now := r.now()
	switch r.resolver.Resolve(*order, now) {
	case trading.ResultWin:
		order.Profit = order.Amount.Mul(r.payout(order.Symbol))
		order.Result = trading.ResultWin
		r.balance = r.balance.Add(order.Amount).Add(order.Profit)
	case trading.ResultLoss:
		order.Profit = order.Amount.Neg()
		order.Result = trading.ResultLoss
	default:
		return *order, false, nil
	}
	order.Status = trading.StatusClosed
	order.ClosedAt = now

	return *order, true, nil
}

// cancel moves an open order to cancelled and refunds its stake. It reports
// false without changing anything when the order is already terminal.
func (r *registry) cancel(id string) (trading.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return trading.Order{}, false, fmt.Errorf("unknown order %s: %w", id, trading.ErrNotFound)
	}
	if order.Terminal() {
		return *order, false, nil
	}

	order.Status = trading.StatusCancelled
	order.Result = trading.ResultCancelled
	order.Profit = decimal.Zero
	order.ClosedAt = r.now()
	r.balance = r.balance.Add(order.Amount)

	return *order, true, nil
}

func (r *registry) snapshot() []trading.Order {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]trading.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out
}

func (r *registry) funds() decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balance
}
