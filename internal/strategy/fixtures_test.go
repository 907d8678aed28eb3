package strategy

import (
	"triarb/internal/orderbook"
	"triarb/internal/prices"
)

func lv(price, qty float64) orderbook.Level { return orderbook.Level{Price: price, Qty: qty} }

// usdtCycle buys BTC with USDT, buys ETH with BTC and sells ETH for USDT.
// At 100 USDT it returns 104 USDT before fees.
func usdtCycle() (Trade, orderbook.Frozen) {
	t := Trade{
		A: "USDT", B: "BTC", C: "ETH",
		AB: Leg{Ticker: "BTCUSDT", Method: Buy, DustDecimals: 6},
		BC: Leg{Ticker: "ETHBTC", Method: Buy, DustDecimals: 4},
		CA: Leg{Ticker: "ETHUSDT", Method: Sell, DustDecimals: 4},
	}
	books := orderbook.Frozen{
		"BTCUSDT": {Bids: []orderbook.Level{lv(99, 10)}, Asks: []orderbook.Level{lv(100, 10)}},
		"ETHBTC":  {Bids: []orderbook.Level{lv(0.049, 1000)}, Asks: []orderbook.Level{lv(0.05, 1000)}},
		"ETHUSDT": {Bids: []orderbook.Level{lv(5.2, 1000)}, Asks: []orderbook.Level{lv(5.3, 1000)}},
	}
	return t, books
}

// sellCycle sells around X->Y->Z->X at power-of-two prices so every size
// doubles the investment exactly.
func sellCycle(a, b, c string, qty float64) (Trade, orderbook.Frozen) {
	t := Trade{
		A: a, B: b, C: c,
		AB: Leg{Ticker: a + b, Method: Sell, DustDecimals: 8},
		BC: Leg{Ticker: b + c, Method: Sell, DustDecimals: 8},
		CA: Leg{Ticker: c + a, Method: Sell, DustDecimals: 8},
	}
	books := orderbook.Frozen{
		a + b: {Bids: []orderbook.Level{lv(2, qty)}},
		b + c: {Bids: []orderbook.Level{lv(4, qty*2)}},
		c + a: {Bids: []orderbook.Level{lv(0.25, qty*8)}},
	}
	return t, books
}

func depthFor(t Trade, books orderbook.Frozen) Depth {
	return Depth{AB: books[t.AB.Ticker], BC: books[t.BC.Ticker], CA: books[t.CA.Ticker]}
}

func quote(buy, sell float64) *prices.Quote { return &prices.Quote{Buy: buy, Sell: sell} }
