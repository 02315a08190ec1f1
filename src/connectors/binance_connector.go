package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"
)

const (
	binanceGlobalBaseURL = "https://api.binance.com"
	binanceUSBaseURL     = "https://api.binance.us"

	binanceGlobalFuturesURL = "https://fapi.binance.com"
)

const (
	endpointAccount        = "/api/v3/account"
	endpointAllOrders      = "/api/v3/allOrders"
	endpointMyTrades       = "/api/v3/myTrades"
	endpointExchangeInfo   = "/api/v3/exchangeInfo"
	endpointTickerPrice    = "/api/v3/ticker/price"
	endpointTicker24h      = "/api/v3/ticker/24hr"
	endpointMarginAccount  = "/sapi/v1/margin/account"
	endpointFuturesAccount = "/fapi/v2/account"
	endpointWithdrawConfig = "/sapi/v1/capital/config/getall"
)

// symbolRequired lists endpoints that must carry a symbol parameter.
// The check runs locally, before any network round trip.
var symbolRequired = map[string]bool{
	endpointAllOrders: true,
	endpointMyTrades:  true,
}

// ErrSymbolRequired is a local precondition failure; the request was
// never sent to the exchange.
var ErrSymbolRequired = fmt.Errorf("connectors: endpoint requires a symbol parameter")

type binanceErrorBody struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// BinanceClient issues public and signed REST calls against one exchange
// variant with one credential. It never retries and never swallows
// errors; partial-failure policy lives in the callers.
type BinanceClient struct {
	apiKey      string
	apiSecret   string
	baseURL     string
	futuresURL  string
	recvWindow  int64
	http        *resty.Client
	futuresHTTP *resty.Client
}

// NewBinanceClient builds a client for the given exchange variant
// ("binance" or "binance_us"). The US variant has no futures host; the
// futures capability probe fails there, which reads as "no capability".
func NewBinanceClient(apiKey, apiSecret, variant string) *BinanceClient {
	cfg := GetConfig()

	baseURL := binanceGlobalBaseURL
	futuresURL := binanceGlobalFuturesURL
	if variant == "binance_us" {
		baseURL = binanceUSBaseURL
		futuresURL = ""
	}

	timeout := time.Duration(cfg.HTTPTimeoutSec) * time.Second
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	var futuresHTTP *resty.Client
	if futuresURL != "" {
		futuresHTTP = resty.New().
			SetBaseURL(futuresURL).
			SetTimeout(timeout)
	}

	return &BinanceClient{
		apiKey:      apiKey,
		apiSecret:   apiSecret,
		baseURL:     baseURL,
		futuresURL:  futuresURL,
		recvWindow:  cfg.RecvWindowMs,
		http:        httpClient,
		futuresHTTP: futuresHTTP,
	}
}

// PublicRequest issues an unauthenticated GET and returns the raw JSON body.
func (c *BinanceClient) PublicRequest(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	if err := c.checkPreconditions(endpoint, params); err != nil {
		return nil, err
	}

	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryString(params.Encode())
	}

	logger.WithFields(logger.Fields{
		"method":   "GET",
		"endpoint": endpoint,
		"base_url": c.baseURL,
	}).Debug("Binance public request")

	resp, err := req.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("public request %s: %w", endpoint, err)
	}

	return c.handleResponse(endpoint, resp)
}

// SignedRequest appends timestamp, recvWindow and the HMAC signature to
// the query string, sets the API-key header, and issues the call.
func (c *BinanceClient) SignedRequest(ctx context.Context, method, endpoint string, params url.Values) (json.RawMessage, error) {
	return c.signedRequestAgainst(ctx, c.http, method, endpoint, params)
}

func (c *BinanceClient) signedRequestAgainst(ctx context.Context, client *resty.Client, method, endpoint string, params url.Values) (json.RawMessage, error) {
	if err := c.checkPreconditions(endpoint, params); err != nil {
		return nil, err
	}

	query := c.canonicalQuery(params)
	signature, err := Sign(query, c.apiSecret)
	if err != nil {
		return nil, fmt.Errorf("sign request %s: %w", endpoint, err)
	}
	query = query + "&signature=" + signature

	logger.WithFields(logger.Fields{
		"method":   method,
		"endpoint": endpoint,
	}).Debug("Binance signed request")

	resp, err := client.R().
		SetContext(ctx).
		SetHeader("X-MBX-APIKEY", c.apiKey).
		SetQueryString(query).
		Execute(method, endpoint)
	if err != nil {
		return nil, fmt.Errorf("signed request %s: %w", endpoint, err)
	}

	return c.handleResponse(endpoint, resp)
}

// canonicalQuery serializes params in a stable order and appends the
// millisecond timestamp and recvWindow the exchange verifies against.
func (c *BinanceClient) canonicalQuery(params url.Values) string {
	merged := url.Values{}
	for key, vals := range params {
		for _, v := range vals {
			merged.Add(key, v)
		}
	}
	merged.Set("timestamp", fmt.Sprintf("%d", time.Now().UnixMilli()))
	if c.recvWindow > 0 {
		merged.Set("recvWindow", fmt.Sprintf("%d", c.recvWindow))
	}
	return merged.Encode()
}

func (c *BinanceClient) checkPreconditions(endpoint string, params url.Values) error {
	if symbolRequired[endpoint] && params.Get("symbol") == "" {
		logger.WithField("endpoint", endpoint).Warn("Rejecting request without required symbol")
		return fmt.Errorf("%w: %s", ErrSymbolRequired, endpoint)
	}
	return nil
}

func (c *BinanceClient) handleResponse(endpoint string, resp *resty.Response) (json.RawMessage, error) {
	raw := resp.Body()

	logger.WithFields(logger.Fields{
		"endpoint": endpoint,
		"status":   resp.StatusCode(),
	}).Debug("Binance response")

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		var body binanceErrorBody
		if err := json.Unmarshal(raw, &body); err == nil && body.Code != 0 {
			exErr := NewExchangeError(body.Code, body.Msg)
			logger.WithFields(logger.Fields{
				"endpoint": endpoint,
				"status":   resp.StatusCode(),
				"code":     body.Code,
			}).Error("Binance API error")
			return nil, exErr
		}
		return nil, fmt.Errorf("http status %d on %s: %s", resp.StatusCode(), endpoint, string(raw))
	}

	return json.RawMessage(raw), nil
}

// -----------------------------
// TYPED PAYLOADS
// -----------------------------

type AccountBalanceEntry struct {
	Asset  string `json:"asset"`
	Free   string `json:"free"`
	Locked string `json:"locked"`
}

type AccountInfo struct {
	CanTrade    bool                  `json:"canTrade"`
	CanWithdraw bool                  `json:"canWithdraw"`
	CanDeposit  bool                  `json:"canDeposit"`
	Balances    []AccountBalanceEntry `json:"balances"`
}

type OrderHistoryItem struct {
	Symbol              string `json:"symbol"`
	OrderID             int64  `json:"orderId"`
	ClientOrderID       string `json:"clientOrderId"`
	Price               string `json:"price"`
	OrigQty             string `json:"origQty"`
	ExecutedQty         string `json:"executedQty"`
	CummulativeQuoteQty string `json:"cummulativeQuoteQty"`
	Status              string `json:"status"`
	TimeInForce         string `json:"timeInForce"`
	Type                string `json:"type"`
	Side                string `json:"side"`
	StopPrice           string `json:"stopPrice"`
	Time                int64  `json:"time"`
	UpdateTime          int64  `json:"updateTime"`
}

type TradeHistoryItem struct {
	Symbol          string `json:"symbol"`
	ID              int64  `json:"id"`
	OrderID         int64  `json:"orderId"`
	Price           string `json:"price"`
	Qty             string `json:"qty"`
	QuoteQty        string `json:"quoteQty"`
	Commission      string `json:"commission"`
	CommissionAsset string `json:"commissionAsset"`
	Time            int64  `json:"time"`
	IsBuyer         bool   `json:"isBuyer"`
	IsMaker         bool   `json:"isMaker"`
}

type ExchangeSymbol struct {
	Symbol     string `json:"symbol"`
	Status     string `json:"status"`
	BaseAsset  string `json:"baseAsset"`
	QuoteAsset string `json:"quoteAsset"`
}

type ExchangeInfo struct {
	Symbols []ExchangeSymbol `json:"symbols"`
}

type TickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

type Ticker24h struct {
	Symbol             string `json:"symbol"`
	PriceChange        string `json:"priceChange"`
	PriceChangePercent string `json:"priceChangePercent"`
	LastPrice          string `json:"lastPrice"`
	HighPrice          string `json:"highPrice"`
	LowPrice           string `json:"lowPrice"`
	Volume             string `json:"volume"`
	QuoteVolume        string `json:"quoteVolume"`
}

// -----------------------------
// ACCOUNT & HISTORY
// -----------------------------

// GetAccountInfo fetches the signed spot account snapshot.
func (c *BinanceClient) GetAccountInfo(ctx context.Context) (*AccountInfo, error) {
	raw, err := c.SignedRequest(ctx, "GET", endpointAccount, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("get account info: %w", err)
	}

	var info AccountInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("unmarshal account info: %w", err)
	}
	return &info, nil
}

// GetOrderHistory fetches orders for one symbol inside [start, end].
func (c *BinanceClient) GetOrderHistory(ctx context.Context, symbol string, start, end time.Time, limit int) ([]OrderHistoryItem, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("startTime", fmt.Sprintf("%d", start.UnixMilli()))
	params.Set("endTime", fmt.Sprintf("%d", end.UnixMilli()))
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}

	raw, err := c.SignedRequest(ctx, "GET", endpointAllOrders, params)
	if err != nil {
		return nil, fmt.Errorf("get order history %s: %w", symbol, err)
	}

	var orders []OrderHistoryItem
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("unmarshal order history %s: %w", symbol, err)
	}
	return orders, nil
}

// GetTradeHistory fetches executions for one symbol inside [start, end].
func (c *BinanceClient) GetTradeHistory(ctx context.Context, symbol string, start, end time.Time, limit int) ([]TradeHistoryItem, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("startTime", fmt.Sprintf("%d", start.UnixMilli()))
	params.Set("endTime", fmt.Sprintf("%d", end.UnixMilli()))
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}

	raw, err := c.SignedRequest(ctx, "GET", endpointMyTrades, params)
	if err != nil {
		return nil, fmt.Errorf("get trade history %s: %w", symbol, err)
	}

	var trades []TradeHistoryItem
	if err := json.Unmarshal(raw, &trades); err != nil {
		return nil, fmt.Errorf("unmarshal trade history %s: %w", symbol, err)
	}
	return trades, nil
}

// -----------------------------
// MARKET DATA (public)
// -----------------------------

// GetExchangeInfo fetches the tradable-symbol universe.
func (c *BinanceClient) GetExchangeInfo(ctx context.Context) (*ExchangeInfo, error) {
	raw, err := c.PublicRequest(ctx, endpointExchangeInfo, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("get exchange info: %w", err)
	}

	var info ExchangeInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("unmarshal exchange info: %w", err)
	}
	return &info, nil
}

// GetTickerPrices returns every listed symbol's last price.
func (c *BinanceClient) GetTickerPrices(ctx context.Context) ([]TickerPrice, error) {
	raw, err := c.PublicRequest(ctx, endpointTickerPrice, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("get ticker prices: %w", err)
	}

	var prices []TickerPrice
	if err := json.Unmarshal(raw, &prices); err != nil {
		return nil, fmt.Errorf("unmarshal ticker prices: %w", err)
	}
	return prices, nil
}

// GetTicker24h returns rolling 24h statistics for every listed symbol.
func (c *BinanceClient) GetTicker24h(ctx context.Context) ([]Ticker24h, error) {
	raw, err := c.PublicRequest(ctx, endpointTicker24h, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("get 24h statistics: %w", err)
	}

	var stats []Ticker24h
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("unmarshal 24h statistics: %w", err)
	}
	return stats, nil
}

// -----------------------------
// CAPABILITY PROBES
// -----------------------------

// ProbeResult reports which scopes the credential was observed to hold.
type ProbeResult struct {
	Spot     bool
	Margin   bool
	Futures  bool
	Withdraw bool
}

// ProbeCapabilities issues one authenticated call per capability against
// the same credential. A failed probe is a normal outcome that clears the
// flag; probe errors are logged at Debug and never propagate.
func (c *BinanceClient) ProbeCapabilities(ctx context.Context) ProbeResult {
	var result ProbeResult

	if _, err := c.SignedRequest(ctx, "GET", endpointAccount, url.Values{}); err == nil {
		result.Spot = true
	} else {
		logger.WithError(err).Debug("Spot capability probe failed")
	}

	if _, err := c.SignedRequest(ctx, "GET", endpointMarginAccount, url.Values{}); err == nil {
		result.Margin = true
	} else {
		logger.WithError(err).Debug("Margin capability probe failed")
	}

	if c.futuresHTTP != nil {
		if _, err := c.signedRequestAgainst(ctx, c.futuresHTTP, "GET", endpointFuturesAccount, url.Values{}); err == nil {
			result.Futures = true
		} else {
			logger.WithError(err).Debug("Futures capability probe failed")
		}
	}

	if _, err := c.SignedRequest(ctx, "GET", endpointWithdrawConfig, url.Values{}); err == nil {
		result.Withdraw = true
	} else {
		logger.WithError(err).Debug("Withdraw capability probe failed")
	}

	logger.WithFields(logger.Fields{
		"spot":     result.Spot,
		"margin":   result.Margin,
		"futures":  result.Futures,
		"withdraw": result.Withdraw,
	}).Info("Capability probe completed")

	return result
}
