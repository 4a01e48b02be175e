package trading

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Client interface {
	Balance(context.Context) (decimal.Decimal, error)
	GetQuote(context.Context, string) (Quote, error)
	GetHistory(context.Context, GetHistoryRequest) ([]Candle, error)
	GetPayoutEstimate(context.Context, string) (decimal.Decimal, error)
	StreamMarketDepth(context.Context, string, func(DepthSnapshot)) (DepthSnapshot, error)

	PlaceOrder(context.Context, PlaceOrderRequest) (PlaceOrderResponse, error)
	GetOrderDetail(context.Context, GetOrderDetailRequest) (GetOrderDetailResponse, error)
	CancelOrder(context.Context, CancelOrderRequest) (CancelOrderResponse, error)
	Orders(context.Context) ([]Order, error)
}

type Direction string

const (
	Buy  Direction = "buy"
	Sell Direction = "sell"
)

func (d Direction) Valid() bool {
	return d == Buy || d == Sell
}

type Status string

const (
	StatusOpen      Status = "open"
	StatusClosed    Status = "closed"
	StatusCancelled Status = "cancelled"
)

type Result string

const (
	ResultPending   Result = "pending"
	ResultWin       Result = "win"
	ResultLoss      Result = "loss"
	ResultCancelled Result = "cancelled"
)

type Order struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Direction Direction       `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
	Status    Status          `json:"status"`
	Result    Result          `json:"result"`
	Profit    decimal.Decimal `json:"profit"`
	CreatedAt time.Time       `json:"created_at"`
	ClosedAt  time.Time       `json:"closed_at"`
}

// Terminal reports whether the order can no longer change.
func (o Order) Terminal() bool {
	return o.Status == StatusClosed || o.Status == StatusCancelled
}

type Quote struct {
	Symbol string          `json:"symbol"`
	Bid    decimal.Decimal `json:"bid"`
	Ask    decimal.Decimal `json:"ask"`
	Time   time.Time       `json:"time"`
}

type Candle struct {
	Time   time.Time       `json:"time"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

type Level struct {
	Price decimal.Decimal `json:"price"`
	Size  int64           `json:"size"`
}

// DepthSnapshot is one synthetic order book sample. Bids are sorted by price
// descending and asks ascending.
type DepthSnapshot struct {
	Symbol string    `json:"symbol"`
	Time   time.Time `json:"time"`
	Bids   []Level   `json:"bids"`
	Asks   []Level   `json:"asks"`
}

type GetHistoryRequest struct {
	Symbol string
	Start  time.Time
	End    time.Time
}

type PlaceOrderRequest struct {
	Symbol    string          `json:"symbol"`
	Direction Direction       `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
}

type PlaceOrderResponse struct {
	OrderID string `json:"id"`
}

type GetOrderDetailRequest struct {
	OrderID string
}

type GetOrderDetailResponse struct {
	OrderID string          `json:"id"`
	Status  Status          `json:"status"`
	Result  Result          `json:"result"`
	Profit  decimal.Decimal `json:"profit"`
}

type CancelOrderRequest struct {
	OrderID string
}

type CancelOrderResponse struct {
	Cancelled bool `json:"cancelled"`
}
