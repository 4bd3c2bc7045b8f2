package tokenPrice

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/rdx-works/incentives-sidecar/internal/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

const xusdc = "resource_rdx1t4upr78guuapv5ept7d7ptekk9mqhy605zgms33mcszen8l9fac8vf"

func newTestClient() *Client {
	return NewClient(&ClientConfig{BaseUrl: "https://prices.test"}, logger.NewNoopLogger())
}

func Test_GetUsdPrice(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, "https://prices.test/price/historicalPrice",
		httpmock.NewStringResponder(200, `{"prices": {"`+xusdc+`": {"usd_price": 0.9987}}}`))

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	price, err := client.GetUsdPrice(context.Background(), xusdc, at)
	assert.Nil(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("0.9987")))

	// second lookup for the same resource and timestamp is served from cache
	price, err = client.GetUsdPrice(context.Background(), xusdc, at)
	assert.Nil(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("0.9987")))
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func Test_GetUsdValue(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, "https://prices.test/price/historicalPrice",
		httpmock.NewStringResponder(200, `{"prices": {"`+xusdc+`": {"usd_price": 0.5}}}`))

	value, err := client.GetUsdValue(context.Background(), xusdc, decimal.NewFromInt(100), time.Now())
	assert.Nil(t, err)
	assert.True(t, value.Equal(decimal.NewFromInt(50)))
}

func Test_GetUsdPrice_MissingQuote(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, "https://prices.test/price/historicalPrice",
		httpmock.NewStringResponder(200, `{"prices": {}}`))

	_, err := client.GetUsdPrice(context.Background(), xusdc, time.Now())
	assert.ErrorIs(t, err, ErrPriceNotFound)
}
