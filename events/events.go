package events

import (
	"context"
	"time"

	"iqoption-mock/trading"
)

type Kind string

const (
	OrderPlaced    Kind = "order.placed"
	OrderClosed    Kind = "order.closed"
	OrderCancelled Kind = "order.cancelled"
)

// OrderEvent is emitted on every order lifecycle transition.
type OrderEvent struct {
	Kind  Kind          `json:"kind"`
	Order trading.Order `json:"order"`
	Time  time.Time     `json:"time"`
}

type Publisher interface {
	Publish(context.Context, OrderEvent) error
	Close() error
}

type nopPublisher struct{}

func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, OrderEvent) error {
	return nil
}

func (nopPublisher) Close() error {
	return nil
}
