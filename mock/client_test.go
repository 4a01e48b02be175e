package mock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"iqoption-mock/events"
	"iqoption-mock/trading"
)

var clientInstance trading.Client

func TestMain(m *testing.M) {
	clientInstance = NewClient(Config{
		AccountType: DemoAccount,
		Seed:        42,
	})

	_ = m.Run()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) kinds() []events.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Kind, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

func placeOrder(t *testing.T, c trading.Client, direction trading.Direction, amount int64) string {
	t.Helper()
	resp, err := c.PlaceOrder(context.Background(), trading.PlaceOrderRequest{
		Symbol:    "EURUSD",
		Direction: direction,
		Amount:    decimal.NewFromInt(amount),
	})
	if err != nil {
		t.Fatal(err)
	}
	return resp.OrderID
}

func TestClient_PlaceOrder_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	seen := make(map[string]struct{})

	for i := 0; i < 200; i++ {
		direction := trading.Buy
		if i%2 == 1 {
			direction = trading.Sell
		}
		id := placeOrder(t, clientInstance, direction, 1)
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate order id %s", id)
		}
		seen[id] = struct{}{}

		if _, err := clientInstance.GetOrderDetail(ctx, trading.GetOrderDetailRequest{OrderID: id}); err != nil {
			t.Fatalf("check of fresh order %s: %v", id, err)
		}
	}
}

func TestClient_PlaceOrder_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		req  trading.PlaceOrderRequest
		want error
	}{
		{"zero amount", trading.PlaceOrderRequest{Symbol: "EURUSD", Direction: trading.Buy, Amount: decimal.Zero}, trading.ErrInvalidArgument},
		{"negative amount", trading.PlaceOrderRequest{Symbol: "EURUSD", Direction: trading.Sell, Amount: decimal.NewFromInt(-5)}, trading.ErrInvalidArgument},
		{"unknown direction", trading.PlaceOrderRequest{Symbol: "EURUSD", Direction: "hold", Amount: decimal.NewFromInt(5)}, trading.ErrInvalidArgument},
		{"empty symbol", trading.PlaceOrderRequest{Direction: trading.Buy, Amount: decimal.NewFromInt(5)}, trading.ErrInvalidArgument},
		{"unknown symbol", trading.PlaceOrderRequest{Symbol: "INVALID", Direction: trading.Buy, Amount: decimal.NewFromInt(5)}, trading.ErrSymbolNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := clientInstance.PlaceOrder(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestClient_UnknownOrder(t *testing.T) {
	ctx := context.Background()

	if _, err := clientInstance.GetOrderDetail(ctx, trading.GetOrderDetailRequest{OrderID: "999"}); !errors.Is(err, trading.ErrNotFound) {
		t.Errorf("check: expected ErrNotFound, got %v", err)
	}
	if _, err := clientInstance.CancelOrder(ctx, trading.CancelOrderRequest{OrderID: "999"}); !errors.Is(err, trading.ErrNotFound) {
		t.Errorf("cancel: expected ErrNotFound, got %v", err)
	}
}

func TestClient_CancelOrder(t *testing.T) {
	ctx := context.Background()
	publisher := &recordingPublisher{}
	c := NewClient(Config{Seed: 1, Resolver: NewSequenceResolver(), Publisher: publisher})

	id := placeOrder(t, c, trading.Buy, 10)

	resp, err := c.CancelOrder(ctx, trading.CancelOrderRequest{OrderID: id})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Cancelled {
		t.Fatal("expected first cancel to succeed")
	}

	detail, err := c.GetOrderDetail(ctx, trading.GetOrderDetailRequest{OrderID: id})
	if err != nil {
		t.Fatal(err)
	}
	if detail.Status != trading.StatusCancelled || detail.Result != trading.ResultCancelled {
		t.Errorf("expected cancelled/cancelled, got %s/%s", detail.Status, detail.Result)
	}

	resp, err = c.CancelOrder(ctx, trading.CancelOrderRequest{OrderID: id})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Cancelled {
		t.Error("expected second cancel to be a no-op")
	}

	balance, err := c.Balance(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected stake refunded to 1000, got %s", balance)
	}

	kinds := publisher.kinds()
	if len(kinds) != 2 || kinds[0] != events.OrderPlaced || kinds[1] != events.OrderCancelled {
		t.Errorf("unexpected events %v", kinds)
	}
}

func TestClient_GetOrderDetail_Resolution(t *testing.T) {
	ctx := context.Background()
	publisher := &recordingPublisher{}
	c := NewClient(Config{
		Seed:      1,
		Resolver:  NewSequenceResolver(trading.ResultPending, trading.ResultWin, trading.ResultLoss),
		Publisher: publisher,
	})

	winID := placeOrder(t, c, trading.Buy, 10)
	lossID := placeOrder(t, c, trading.Sell, 10)

	detail, err := c.GetOrderDetail(ctx, trading.GetOrderDetailRequest{OrderID: winID})
	if err != nil {
		t.Fatal(err)
	}
	if detail.Status != trading.StatusOpen || detail.Result != trading.ResultPending {
		t.Fatalf("expected open/pending, got %s/%s", detail.Status, detail.Result)
	}

	detail, err = c.GetOrderDetail(ctx, trading.GetOrderDetailRequest{OrderID: winID})
	if err != nil {
		t.Fatal(err)
	}
	if detail.Status != trading.StatusClosed || detail.Result != trading.ResultWin {
		t.Fatalf("expected closed/win, got %s/%s", detail.Status, detail.Result)
	}
	if !detail.Profit.Equal(decimal.NewFromInt(8)) {
		t.Errorf("expected profit 8, got %s", detail.Profit)
	}

	detail, err = c.GetOrderDetail(ctx, trading.GetOrderDetailRequest{OrderID: lossID})
	if err != nil {
		t.Fatal(err)
	}
	if detail.Status != trading.StatusClosed || detail.Result != trading.ResultLoss {
		t.Fatalf("expected closed/loss, got %s/%s", detail.Status, detail.Result)
	}
	if !detail.Profit.Equal(decimal.NewFromInt(-10)) {
		t.Errorf("expected profit -10, got %s", detail.Profit)
	}

	// closed orders are read back unchanged and cannot be cancelled
	again, err := c.GetOrderDetail(ctx, trading.GetOrderDetailRequest{OrderID: winID})
	if err != nil {
		t.Fatal(err)
	}
	if again.Result != trading.ResultWin {
		t.Errorf("closed order changed to %s", again.Result)
	}
	resp, err := c.CancelOrder(ctx, trading.CancelOrderRequest{OrderID: winID})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Cancelled {
		t.Error("cancel of closed order reported success")
	}

	// 1000 - 10 - 10 + (10 + 8)
	balance, err := c.Balance(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !balance.Equal(decimal.NewFromInt(998)) {
		t.Errorf("expected balance 998, got %s", balance)
	}

	want := []events.Kind{events.OrderPlaced, events.OrderPlaced, events.OrderClosed, events.OrderClosed}
	got := publisher.kinds()
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestClient_RandomResolutionDeterministic(t *testing.T) {
	run := func() []trading.Result {
		c := NewClient(Config{Seed: 7})
		var out []trading.Result
		for i := 0; i < 20; i++ {
			id := placeOrder(t, c, trading.Buy, 1)
			detail, err := c.GetOrderDetail(context.Background(), trading.GetOrderDetailRequest{OrderID: id})
			if err != nil {
				t.Fatal(err)
			}
			out = append(out, detail.Result)
		}
		return out
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("result %d differs between runs: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestClient_PublishFailureDoesNotFailOrder(t *testing.T) {
	c := NewClient(Config{Seed: 1, Publisher: &recordingPublisher{err: errors.New("broker down")}})

	id := placeOrder(t, c, trading.Buy, 10)
	if id == "" {
		t.Fatal("expected order id")
	}
}

func TestClient_ConcurrentCancel(t *testing.T) {
	ctx := context.Background()
	c := NewClient(Config{Seed: 1, Resolver: NewSequenceResolver()})
	id := placeOrder(t, c, trading.Buy, 10)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := c.CancelOrder(ctx, trading.CancelOrderRequest{OrderID: id})
			if err != nil {
				t.Error(err)
				return
			}
			if resp.Cancelled {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("expected exactly one successful cancel, got %d", successes)
	}
}

func TestClient_Orders(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClient(Config{
		Seed:     1,
		Resolver: NewSequenceResolver(),
		Now: func() time.Time {
			now = now.Add(time.Second)
			return now
		},
	})

	first := placeOrder(t, c, trading.Buy, 1)
	second := placeOrder(t, c, trading.Sell, 2)

	orders, err := c.Orders(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 2 || orders[0].ID != first || orders[1].ID != second {
		t.Errorf("unexpected order listing %+v", orders)
	}
}

func TestClient_Balance_AccountType(t *testing.T) {
	balance, err := NewClient(Config{AccountType: "REAL", Seed: 1}).Balance(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !balance.IsZero() {
		t.Errorf("expected zero balance for real account, got %s", balance)
	}

	balance, err = NewClient(Config{AccountType: "demo", Seed: 1}).Balance(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected 1000 for demo account, got %s", balance)
	}
}

func TestClient_Unavailable(t *testing.T) {
	c := NewClient(Config{Seed: 1, FailChance: 1, MaxRetries: 1})

	_, err := c.GetQuote(context.Background(), "EURUSD")
	if !errors.Is(err, trading.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	_, err = c.PlaceOrder(context.Background(), trading.PlaceOrderRequest{Symbol: "EURUSD", Direction: trading.Buy, Amount: decimal.NewFromInt(1)})
	if !errors.Is(err, trading.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := clientInstance.GetQuote(ctx, "EURUSD")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
