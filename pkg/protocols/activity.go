package protocols

import (
	"fmt"
	"sort"
	"strings"
)

// TradingActivityID derives the activity id for a trade between two tokens on
// a dApp. Symbols are sorted alphabetically so the id is independent of the
// order the pool lists its tokens, e.g. ("c9", "xusdc", "xrd") and
// ("c9", "xrd", "xusdc") both yield "c9_trade_xrd-xusdc".
func TradingActivityID(dApp string, symbolA string, symbolB string) string {
	symbols := []string{strings.ToLower(symbolA), strings.ToLower(symbolB)}
	sort.Strings(symbols)
	return fmt.Sprintf("%s_trade_%s", dApp, strings.Join(symbols, "-"))
}

// TradingPoolActivities maps pool components that participate in the trading
// volume program to their activity ids.
var TradingPoolActivities = buildTradingPoolActivities()

func buildTradingPoolActivities() map[string]string {
	out := make(map[string]string)
	for i := range CaviarNineShapeLiquidityPools {
		pool := &CaviarNineShapeLiquidityPools[i]
		if pool.TokenX == XRD && pool.TokenY == XUSDC {
			out[pool.ComponentAddress] = TradingActivityID(
				"c9", TokenSymbol(pool.TokenX), TokenSymbol(pool.TokenY))
		}
	}
	xusdcPool := &DefiPlazaPools[0]
	out[xusdcPool.ComponentAddress] = TradingActivityID(
		"defiPlaza",
		TokenSymbol(xusdcPool.BaseResourceAddress),
		TokenSymbol(xusdcPool.QuoteResourceAddress))
	return out
}

// HoldActivityID scores plain XRD and LSULP holdings.
const HoldActivityID = "hold_xrd"

// BalanceActivities maps every tracked resource to the balance based activity
// its snapshots score under.
var BalanceActivities = buildBalanceActivities()

func buildBalanceActivities() map[string]string {
	out := map[string]string{
		XRD:                                HoldActivityID,
		LSULP:                              HoldActivityID,
		WeftFinance.W2XRD:                  "weftFinance_lend",
		WeftFinance.W2XUSDC:                "weftFinance_lend",
		RootFinance.ReceiptResourceAddress: "rootFinance_lend",
	}
	out[DefiPlazaPools[0].BaseLpResourceAddress] = "defiPlaza_lp_xrd-xusdc"
	for i := range CaviarNineShapeLiquidityPools {
		pool := &CaviarNineShapeLiquidityPools[i]
		if pool.TokenX == XRD && pool.TokenY == XUSDC {
			out[pool.LiquidityReceipt] = "c9_lp_xrd-xusdc"
		}
	}
	return out
}
