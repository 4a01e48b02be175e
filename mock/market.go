package mock

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"iqoption-mock/trading"
)

const (
	candleInterval = time.Minute
	maxCandles     = 100_000
	depthLevels    = 5
)

var (
	halfSpread = decimal.RequireFromString("0.00001")
	depthTick  = decimal.RequireFromString("0.00001")
)

func round6(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(6)
}

func (c *client) mid() decimal.Decimal {
	return round6(1 + c.rand.Float64()/100)
}

func (c *client) quote(symbol string) trading.Quote {
	mid := c.mid()
	return trading.Quote{
		Symbol: symbol,
		Bid:    mid.Sub(halfSpread),
		Ask:    mid.Add(halfSpread),
		Time:   c.now(),
	}
}

// history walks the price from 1.0 with one candle per minute from start
// while the candle time does not pass end.
func (c *client) history(start, end time.Time) ([]trading.Candle, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("start %s must be before end %s: %w", start, end, trading.ErrInvalidArgument)
	}
	n := int64(end.Sub(start)/candleInterval) + 1
	if n > maxCandles {
		return nil, fmt.Errorf("range of %d candles exceeds %d: %w", n, maxCandles, trading.ErrInvalidArgument)
	}

	candles := make([]trading.Candle, 0, n)
	price := 1.0
	for t := start; !t.After(end); t = t.Add(candleInterval) {
		open := price
		high := open + c.rand.Float64()/1000
		low := open - c.rand.Float64()/1000
		closeP := low + c.rand.Float64()*(high-low)

		candles = append(candles, trading.Candle{
			Time:   t,
			Open:   round6(open),
			High:   round6(high),
			Low:    round6(low),
			Close:  round6(closeP),
			Volume: int64(100 + c.rand.Intn(401)),
		})
		price = closeP
	}

	return candles, nil
}

func (c *client) depth(symbol string) trading.DepthSnapshot {
	q := c.quote(symbol)

	bids := make([]trading.Level, depthLevels)
	asks := make([]trading.Level, depthLevels)
	for i := 0; i < depthLevels; i++ {
		offset := depthTick.Mul(decimal.NewFromInt(int64(i)))
		bids[i] = trading.Level{Price: q.Bid.Sub(offset), Size: int64(1 + c.rand.Intn(5))}
		asks[i] = trading.Level{Price: q.Ask.Add(offset), Size: int64(1 + c.rand.Intn(5))}
	}

	return trading.DepthSnapshot{
		Symbol: symbol,
		Time:   q.Time,
		Bids:   bids,
		Asks:   asks,
	}
}
