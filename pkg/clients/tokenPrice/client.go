// Package tokenPrice provides a client for the historical token price service
// used to express balances and trade amounts in USD. Prices are cached per
// resource and timestamp since snapshot jobs ask for the same point in time
// once per account.
package tokenPrice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrPriceNotFound indicates the price service has no quote for the resource
// at the requested timestamp.
var ErrPriceNotFound = errors.New("no price for resource at timestamp")

// PriceSource is what downstream consumers (snapshot, tradingVolume) depend on.
type PriceSource interface {
	GetUsdPrice(ctx context.Context, resourceAddress string, at time.Time) (decimal.Decimal, error)
	GetUsdValue(ctx context.Context, resourceAddress string, amount decimal.Decimal, at time.Time) (decimal.Decimal, error)
}

type ClientConfig struct {
	// BaseUrl e.g. "https://token-price-service.radixdlt.com"
	BaseUrl string
}

type Client struct {
	httpClient *http.Client
	config     *ClientConfig
	logger     *zap.Logger

	mu    sync.RWMutex
	cache map[string]decimal.Decimal
}

func NewClient(cfg *ClientConfig, l *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		config: cfg,
		logger: l,
		cache:  make(map[string]decimal.Decimal),
	}
}

type historicalPriceRequest struct {
	Tokens    []string  `json:"tokens"`
	Timestamp time.Time `json:"timestamp"`
}

type historicalPriceResponse struct {
	Prices map[string]struct {
		UsdPrice json.Number `json:"usd_price"`
	} `json:"prices"`
}

// GetUsdPrice returns the USD price of one unit of the resource at the given
// timestamp.
func (c *Client) GetUsdPrice(ctx context.Context, resourceAddress string, at time.Time) (decimal.Decimal, error) {
	key := cacheKey(resourceAddress, at)

	c.mu.RLock()
	cached, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	body := &historicalPriceRequest{
		Tokens:    []string{resourceAddress},
		Timestamp: at.UTC(),
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to marshal price request")
	}

	url := fmt.Sprintf("%s/price/historicalPrice", strings.TrimSuffix(c.config.BaseUrl, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to create price request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "price request failed")
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to read price response")
	}
	if res.StatusCode != http.StatusOK {
		return decimal.Zero, errors.Errorf("price service returned status %d: %s", res.StatusCode, string(resBody))
	}

	out := &historicalPriceResponse{}
	if err := json.Unmarshal(resBody, out); err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to unmarshal price response")
	}

	quote, ok := out.Prices[resourceAddress]
	if !ok {
		return decimal.Zero, errors.Wrapf(ErrPriceNotFound, "resource '%s' at %s", resourceAddress, at.UTC().Format(time.RFC3339))
	}
	price, err := decimal.NewFromString(quote.UsdPrice.String())
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "price service returned non-numeric price '%s'", quote.UsdPrice.String())
	}

	c.mu.Lock()
	c.cache[key] = price
	c.mu.Unlock()
	return price, nil
}

// GetUsdValue converts an amount of the resource into USD at the given
// timestamp.
func (c *Client) GetUsdValue(ctx context.Context, resourceAddress string, amount decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	price, err := c.GetUsdPrice(ctx, resourceAddress, at)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(price), nil
}

func cacheKey(resourceAddress string, at time.Time) string {
	return fmt.Sprintf("%s:%d", resourceAddress, at.UTC().Unix())
}
