package webhook

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/gorilla/mux"

	"iqoption-mock/logger"
	"iqoption-mock/trading"
)

type Webhook struct {
	server   *http.Server
	listener net.Listener
	handler  *handler
}

func NewWebhook(listener net.Listener, client trading.Client, log *slog.Logger) *Webhook {
	if log == nil {
		log = logger.NewDiscardLogger()
	}
	return &Webhook{
		server:   &http.Server{},
		handler:  &handler{client: client, log: log},
		listener: listener,
	}
}

func (f *Webhook) Name() string {
	return "webhook"
}

func (f *Webhook) Serve(_ context.Context) error {
	f.server.Handler = newRouter(f.handler)

	err := f.server.Serve(f.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (f *Webhook) Shutdown(ctx context.Context) error {
	return f.server.Shutdown(ctx)
}

func newRouter(h *handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/balance", h.GetBalance).Methods(http.MethodGet)
	r.HandleFunc("/quotes/{symbol}", h.GetQuote).Methods(http.MethodGet)
	r.HandleFunc("/history/{symbol}", h.GetHistory).Methods(http.MethodGet)
	r.HandleFunc("/payouts/{symbol}", h.GetPayoutEstimate).Methods(http.MethodGet)
	r.HandleFunc("/depth/{symbol}", h.GetMarketDepth).Methods(http.MethodGet)

	r.HandleFunc("/orders", h.ListOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders", h.PlaceOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}", h.GetOrderDetail).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", h.CancelOrder).Methods(http.MethodDelete)

	return r
}
