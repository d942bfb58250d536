// Package binance reads 24h ticker statistics from the Binance spot REST API.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ViralGen/internal/domain/models"
	drepo "ViralGen/internal/domain/repository"
	xhttp "ViralGen/pkg/http"
	"ViralGen/pkg/logger"

	"github.com/shopspring/decimal"
)

const tickerPath = "/api/v3/ticker/24hr"

type Client struct {
	baseURL string
	http    *xhttp.Client
	log     *logger.Logger
}

var _ drepo.MarketData = (*Client)(nil)

func New(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		log:     log.Component("binance"),
	}
}

type ticker24h struct {
	Symbol             string          `json:"symbol"`
	LastPrice          decimal.Decimal `json:"lastPrice"`
	PriceChangePercent decimal.Decimal `json:"priceChangePercent"`
}

// Tickers24h returns one row per requested symbol, in the order of symbols.
// Symbols the exchange did not report are skipped.
func (c *Client) Tickers24h(ctx context.Context, symbols []string) ([]models.Ticker, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	list, err := json.Marshal(symbols)
	if err != nil {
		return nil, fmt.Errorf("encode symbols: %w", err)
	}

	var rows []ticker24h
	err = c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + tickerPath,
		QueryParams: map[string][]string{"symbols": {string(list)}},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("ticker 24hr: %w", err)
	}

	bySymbol := make(map[string]ticker24h, len(rows))
	for _, r := range rows {
		bySymbol[r.Symbol] = r
	}

	out := make([]models.Ticker, 0, len(symbols))
	for _, s := range symbols {
		r, ok := bySymbol[s]
		if !ok {
			c.log.Debug("symbol missing from ticker response", logger.String("symbol", s))
			continue
		}
		out = append(out, models.Ticker{
			Symbol:             r.Symbol,
			LastPrice:          r.LastPrice,
			PriceChangePercent: r.PriceChangePercent,
		})
	}
	return out, nil
}
