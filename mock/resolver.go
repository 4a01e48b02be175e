package mock

import (
	"sync"
	"time"

	"iqoption-mock/trading"
)

// Resolver decides what happens to an open order when its status is checked.
// Returning trading.ResultWin or trading.ResultLoss closes the order; any
// other result leaves it open.
type Resolver interface {
	Resolve(order trading.Order, now time.Time) trading.Result
}

// RandomResolver picks uniformly among win, loss and still open. The outcome
// sequence is fixed for a given seed.
type RandomResolver struct {
	rand *lockedRand
}

func NewRandomResolver(seed int64) *RandomResolver {
	return &RandomResolver{rand: newLockedRand(seed)}
}

var randomOutcomes = [...]trading.Result{trading.ResultWin, trading.ResultLoss, trading.ResultPending}

func (r *RandomResolver) Resolve(trading.Order, time.Time) trading.Result {
	return randomOutcomes[r.rand.Intn(len(randomOutcomes))]
}

// ElapsedResolver keeps an order open until Expiry has passed since it was
// placed, then settles it as a win or a loss.
type ElapsedResolver struct {
	Expiry time.Duration
	rand   *lockedRand
}

func NewElapsedResolver(expiry time.Duration, seed int64) *ElapsedResolver {
	return &ElapsedResolver{Expiry: expiry, rand: newLockedRand(seed)}
}

func (r *ElapsedResolver) Resolve(order trading.Order, now time.Time) trading.Result {
	if now.Sub(order.CreatedAt) < r.Expiry {
		return trading.ResultPending
	}
	if r.rand.Intn(2) == 0 {
		return trading.ResultWin
	}
	return trading.ResultLoss
}

// SequenceResolver returns the given outcomes in order, then pending forever.
type SequenceResolver struct {
	mu       sync.Mutex
	outcomes []trading.Result
	next     int
}

func NewSequenceResolver(outcomes ...trading.Result) *SequenceResolver {
	return &SequenceResolver{outcomes: outcomes}
}

func (r *SequenceResolver) Resolve(trading.Order, time.Time) trading.Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.next >= len(r.outcomes) {
		return trading.ResultPending
	}
	result := r.outcomes[r.next]
	r.next++
	return result
}
