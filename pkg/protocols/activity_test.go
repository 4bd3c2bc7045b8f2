package protocols

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_TradingActivityID(t *testing.T) {
	assert.Equal(t, "c9_trade_xrd-xusdc", TradingActivityID("c9", "xrd", "xusdc"))
	assert.Equal(t, "c9_trade_xrd-xusdc", TradingActivityID("c9", "xusdc", "xrd"))
	assert.Equal(t, "defiPlaza_trade_xrd-xusdc", TradingActivityID("defiPlaza", "xusdc", "xrd"))
	assert.Equal(t, "oci_trade_xeth-xrd", TradingActivityID("oci", "XRD", "xETH"))
}

func Test_TradingPoolActivities(t *testing.T) {
	assert.Equal(t, "c9_trade_xrd-xusdc",
		TradingPoolActivities["component_rdx1cr6lxkr83gzhmyg4uxg49wkug5s4wwc3c7cgmhxuczxraa09a97wcu"])
	assert.Equal(t, "defiPlaza_trade_xrd-xusdc",
		TradingPoolActivities[DefiPlazaXUSDCPool.ComponentAddress])
	assert.Len(t, TradingPoolActivities, 2)
}

func Test_BalanceActivities(t *testing.T) {
	assert.Equal(t, HoldActivityID, BalanceActivities[XRD])
	assert.Equal(t, HoldActivityID, BalanceActivities[LSULP])
	assert.Equal(t, "weftFinance_lend", BalanceActivities[WeftFinance.W2XRD])
	assert.Equal(t, "rootFinance_lend", BalanceActivities[RootFinance.ReceiptResourceAddress])
	assert.Equal(t, "defiPlaza_lp_xrd-xusdc", BalanceActivities[DefiPlazaXUSDCPool.BaseLpResourceAddress])

	// every tracked resource must score under some activity
	for resourceAddress := range TrackedResources {
		assert.NotEmpty(t, BalanceActivities[resourceAddress], resourceAddress)
	}
}

func Test_ComponentAllowLists(t *testing.T) {
	assert.True(t, IsCaviarNinePrecisionPoolComponent("component_rdx1cr6lxkr83gzhmyg4uxg49wkug5s4wwc3c7cgmhxuczxraa09a97wcu"))
	assert.False(t, IsCaviarNinePrecisionPoolComponent(CaviarNineHLP.ComponentAddress))
	assert.True(t, IsCaviarNineHyperstakePoolComponent(CaviarNineHLP.ComponentAddress))
	assert.True(t, IsCaviarNineSimplePoolComponent(CaviarNineSimplePools[0].ComponentAddress))

	assert.True(t, IsOciswapPrecisionPoolComponent(OciswapPrecisionPools[2].ComponentAddress))
	assert.True(t, IsOciswapBasicPoolComponent(OciswapBasicPools[0].ComponentAddress))
	assert.True(t, IsOciswapFlexPoolComponent(OciswapFlexPools[0].ComponentAddress))

	assert.True(t, IsDefiPlazaPoolComponent(DefiPlazaXUSDCPool.ComponentAddress))
	// the xUSDT pair has no PlazaPair component registered
	assert.False(t, IsDefiPlazaPoolComponent(""))

	assert.True(t, IsWeftFinanceComponent(WeftFinance.WeftyV2Component, WeftFinance.PackageAddress))
	assert.False(t, IsWeftFinanceComponent(WeftFinance.WeftyV2Component, "package_rdx1other"))
	assert.True(t, IsRootFinanceComponent(RootFinance.LendingMarketComponent, RootFinance.PackageAddress))
}

func Test_TokenSymbol(t *testing.T) {
	assert.Equal(t, "xrd", TokenSymbol(XRD))
	assert.Equal(t, "xwbtc", TokenSymbol(WxBTC))
	assert.Equal(t, "", TokenSymbol("resource_rdx1unknown"))
}
