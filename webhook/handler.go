package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"iqoption-mock/trading"
)

type handler struct {
	client trading.Client
	log    *slog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.client.Balance(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"balance": balance})
}

func (h handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.client.GetQuote(r.Context(), mux.Vars(r)["symbol"])
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, quote)
}

func (h handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	start, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		h.writeError(w, fmt.Errorf("start: %v: %w", err, trading.ErrInvalidArgument))
		return
	}
	end, err := time.Parse(time.RFC3339, query.Get("end"))
	if err != nil {
		h.writeError(w, fmt.Errorf("end: %v: %w", err, trading.ErrInvalidArgument))
		return
	}

	candles, err := h.client.GetHistory(r.Context(), trading.GetHistoryRequest{
		Symbol: mux.Vars(r)["symbol"],
		Start:  start,
		End:    end,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, candles)
}

func (h handler) GetPayoutEstimate(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	payout, err := h.client.GetPayoutEstimate(r.Context(), symbol)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"symbol": symbol, "payout": payout})
}

func (h handler) GetMarketDepth(w http.ResponseWriter, r *http.Request) {
	depth, err := h.client.StreamMarketDepth(r.Context(), mux.Vars(r)["symbol"], func(trading.DepthSnapshot) {})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, depth)
}

func (h handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.client.Orders(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, orders)
}

func (h handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req trading.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("decode order: %v: %w", err, trading.ErrInvalidArgument))
		return
	}

	resp, err := h.client.PlaceOrder(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, resp)
}

func (h handler) GetOrderDetail(w http.ResponseWriter, r *http.Request) {
	resp, err := h.client.GetOrderDetail(r.Context(), trading.GetOrderDetailRequest{OrderID: mux.Vars(r)["id"]})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	resp, err := h.client.CancelOrder(r.Context(), trading.CancelOrderRequest{OrderID: mux.Vars(r)["id"]})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h handler) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("write response", "err", err)
	}
}

func (h handler) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, trading.ErrInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, trading.ErrNotFound), errors.Is(err, trading.ErrSymbolNotFound):
		code = http.StatusNotFound
	case errors.Is(err, trading.ErrUnavailable):
		code = http.StatusServiceUnavailable
	}

	if code == http.StatusInternalServerError {
		h.log.Error("request failed", "err", err)
	}
	h.writeJSON(w, code, errorResponse{Error: err.Error()})
}
