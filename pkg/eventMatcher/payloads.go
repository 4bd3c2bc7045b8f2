package eventMatcher

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Payload shapes for the events the matchers decode. Field names follow the
// programmatic JSON rendering of the on-ledger event types.

// PrecisionPoolSwapPayload is emitted by CaviarNine precision pools and the
// hyperstake pool. The input side has the negative amount change.
type PrecisionPoolSwapPayload struct {
	AmountChangeX string `json:"amount_change_x"`
	AmountChangeY string `json:"amount_change_y"`
}

func decodePrecisionPoolSwap(raw json.RawMessage) (*PrecisionPoolSwapPayload, error) {
	out := &PrecisionPoolSwapPayload{}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	if _, err := decimal.NewFromString(out.AmountChangeX); err != nil {
		return nil, errors.Wrapf(err, "invalid amount_change_x '%s'", out.AmountChangeX)
	}
	if _, err := decimal.NewFromString(out.AmountChangeY); err != nil {
		return nil, errors.Wrapf(err, "invalid amount_change_y '%s'", out.AmountChangeY)
	}
	return out, nil
}

// DefiPlazaSwapPayload is emitted by PlazaPair components.
type DefiPlazaSwapPayload struct {
	BaseAmount  string `json:"base_amount"`
	QuoteAmount string `json:"quote_amount"`
}

func decodeDefiPlazaSwap(raw json.RawMessage) (*DefiPlazaSwapPayload, error) {
	out := &DefiPlazaSwapPayload{}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	if _, err := decimal.NewFromString(out.BaseAmount); err != nil {
		return nil, errors.Wrapf(err, "invalid base_amount '%s'", out.BaseAmount)
	}
	if _, err := decimal.NewFromString(out.QuoteAmount); err != nil {
		return nil, errors.Wrapf(err, "invalid quote_amount '%s'", out.QuoteAmount)
	}
	return out, nil
}

// CDPPayload covers the lending events that reference a collateralized debt
// position non-fungible, either directly (cdp_id) or via an NFT collateral id.
type CDPPayload struct {
	CdpID string `json:"cdp_id,omitempty"`
	NftID string `json:"nft_id,omitempty"`
}

// NonFungibleLocalID returns the id usable for a custody lookup.
func (p *CDPPayload) NonFungibleLocalID() (string, bool) {
	if p.CdpID != "" {
		return p.CdpID, true
	}
	if p.NftID != "" {
		return p.NftID, true
	}
	return "", false
}

func decodeCDP(raw json.RawMessage, requireCdpID bool) (*CDPPayload, error) {
	out := &CDPPayload{}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	if requireCdpID && out.CdpID == "" {
		return nil, errors.New("missing cdp_id")
	}
	return out, nil
}

// vault withdraw/deposit payloads: the fungible form carries an amount, the
// non-fungible form a list of local ids.
type withdrawDepositPayload struct {
	ResourceAddress string   `json:"resource_address"`
	Amount          string   `json:"amount"`
	Ids             []string `json:"ids"`
}

// FungibleMovePayload is the normalized payload for Withdraw/DepositFungible.
type FungibleMovePayload struct {
	ResourceAddress string `json:"resourceAddress"`
	Amount          string `json:"amount"`
	AccountAddress  string `json:"accountAddress"`
}

// NonFungibleMovePayload is the normalized payload for the non-fungible forms.
type NonFungibleMovePayload struct {
	ResourceAddress string   `json:"resourceAddress"`
	NftIds          []string `json:"nftIds"`
	AccountAddress  string   `json:"accountAddress"`
}
