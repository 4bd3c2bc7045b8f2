// Package gateway provides an HTTP client for the ledger query service. It
// exposes the four operations the sidecar needs: the committed transaction
// stream, current ledger version, non-fungible custody lookups and fungible
// balances at a given state version.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrRateLimited indicates the gateway responded with HTTP 429.
	ErrRateLimited = errors.New("gateway rate limited")

	// ErrBeyondLedgerEnd indicates the requested state version has not been
	// committed yet. Expected when the poller has caught up with the ledger.
	ErrBeyondLedgerEnd = errors.New("state version beyond end of known ledger")

	// ErrEntityNotFound indicates the gateway has no record of the requested
	// entity or non-fungible id.
	ErrEntityNotFound = errors.New("entity not found")
)

type ClientConfig struct {
	// BaseUrl e.g. "https://mainnet.radixdlt.com"
	BaseUrl string
	// PageLimit bounds the number of transactions per stream request
	PageLimit int
}

type Client struct {
	httpClient *http.Client
	config     *ClientConfig
	logger     *zap.Logger
}

func NewClient(cfg *ClientConfig, l *zap.Logger) *Client {
	if cfg.PageLimit == 0 {
		cfg.PageLimit = 100
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		config: cfg,
		logger: l,
	}
}

type atLedgerState struct {
	StateVersion uint64 `json:"state_version"`
}

type transactionStreamRequest struct {
	FromStateVersion uint64          `json:"from_ledger_state_version"`
	LimitPerPage     int             `json:"limit_per_page"`
	OptIns           map[string]bool `json:"opt_ins"`
	Order            string          `json:"order"`
	KindFilter       string          `json:"kind_filter"`
}

// GetTransactions fetches one page of committed transactions starting at
// fromVersion, with detailed events, balance changes and manifest text opted
// in. The returned ledger state version is the next version to poll from.
func (c *Client) GetTransactions(ctx context.Context, fromVersion uint64) (*TransactionStreamResponse, error) {
	body := &transactionStreamRequest{
		FromStateVersion: fromVersion,
		LimitPerPage:     c.config.PageLimit,
		Order:            "asc",
		KindFilter:       "user",
		OptIns: map[string]bool{
			"detailed_events":       true,
			"balance_changes":       true,
			"manifest_instructions": true,
		},
	}

	out := &TransactionStreamResponse{}
	if err := c.post(ctx, "/stream/transactions", body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCurrentLedgerVersion returns the most recently committed state version.
func (c *Client) GetCurrentLedgerVersion(ctx context.Context) (uint64, error) {
	out := &gatewayStatusResponse{}
	if err := c.post(ctx, "/status/gateway-status", struct{}{}, out); err != nil {
		return 0, err
	}
	return out.LedgerState.StateVersion, nil
}

type nonFungibleLocationRequest struct {
	ResourceAddress string         `json:"resource_address"`
	NonFungibleIds  []string       `json:"non_fungible_ids"`
	AtLedgerState   *atLedgerState `json:"at_ledger_state,omitempty"`
}

// GetNonFungibleLocation looks up current custody of a non-fungible token at
// the given state version (0 means latest).
func (c *Client) GetNonFungibleLocation(ctx context.Context, resourceAddress string, nonFungibleId string, atVersion uint64) (*NonFungibleLocationResponse, error) {
	body := &nonFungibleLocationRequest{
		ResourceAddress: resourceAddress,
		NonFungibleIds:  []string{nonFungibleId},
	}
	if atVersion > 0 {
		body.AtLedgerState = &atLedgerState{StateVersion: atVersion}
	}

	out := &NonFungibleLocationResponse{}
	if err := c.post(ctx, "/state/non-fungible/location", body, out); err != nil {
		return nil, err
	}
	if len(out.NonFungibleIds) == 0 {
		return nil, errors.Wrapf(ErrEntityNotFound, "non-fungible '%s' of '%s'", nonFungibleId, resourceAddress)
	}
	return out, nil
}

type entityFungiblesRequest struct {
	Address       string         `json:"address"`
	AtLedgerState *atLedgerState `json:"at_ledger_state,omitempty"`
}

// GetFungibleBalances returns the fungible resource balances held by an entity
// at the given state version (0 means latest).
func (c *Client) GetFungibleBalances(ctx context.Context, address string, atVersion uint64) (*EntityFungiblesResponse, error) {
	body := &entityFungiblesRequest{Address: address}
	if atVersion > 0 {
		body.AtLedgerState = &atLedgerState{StateVersion: atVersion}
	}

	out := &EntityFungiblesResponse{}
	if err := c.post(ctx, "/state/entity/page/fungibles", body, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "failed to marshal request body")
	}

	url := fmt.Sprintf("%s%s", strings.TrimSuffix(c.config.BaseUrl, "/"), path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "request to '%s' failed", path)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if res.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}

	if res.StatusCode != http.StatusOK {
		gwErr := &gatewayErrorResponse{}
		if err := json.Unmarshal(resBody, gwErr); err == nil {
			if gwErr.Details.Type == "StateVersionBeyondEndOfKnownLedgerError" {
				return ErrBeyondLedgerEnd
			}
			if gwErr.Details.Type == "EntityNotFoundError" {
				return ErrEntityNotFound
			}
		}
		c.logger.Sugar().Debugw("gateway returned non-200 response",
			zap.String("path", path),
			zap.Int("status", res.StatusCode),
		)
		return errors.Errorf("gateway request to '%s' failed with status %d: %s", path, res.StatusCode, string(resBody))
	}

	if err := json.Unmarshal(resBody, out); err != nil {
		return errors.Wrapf(err, "failed to unmarshal response from '%s'", path)
	}
	return nil
}
