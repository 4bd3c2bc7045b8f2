package protocols

// ShapeLiquidityPool is a CaviarNine precision (shape liquidity) pool.
type ShapeLiquidityPool struct {
	Name             string
	ComponentAddress string
	TokenX           string
	TokenY           string
	LiquidityReceipt string
}

// SimplePool is a CaviarNine constant product pool.
type SimplePool struct {
	Name              string
	ComponentAddress  string
	PoolAddress       string
	LpResourceAddress string
	TokenX            string
	TokenY            string
}

var CaviarNineLSULP = struct {
	ComponentAddress string
	ResourceAddress  string
}{
	ComponentAddress: "component_rdx1cppy08xgra5tv5melsjtj79c0ngvrlmzl8hhs7vwtzknp9xxs63mfp",
	ResourceAddress:  LSULP,
}

// CaviarNineHLP is the hyperstake pool. User value comes from deposits and
// withdrawals of the HLP resource, but the component matters for SwapEvents.
var CaviarNineHLP = struct {
	ResourceAddress  string
	PoolAddress      string
	ComponentAddress string
	TokenX           string
	TokenY           string
}{
	ResourceAddress:  HLP,
	PoolAddress:      "pool_rdx1chmckjpr0ks5lk6h7mqvmrw56wt4w6tsuy6n2jhd8fhr8vc5en5e90",
	ComponentAddress: "component_rdx1cpz0zcyyl2fvtc5wdvfjjl3w0mjcydm4fefymudladklf6rn5gdwtf",
	TokenX:           HLP,
	TokenY:           XRD,
}

var CaviarNineShapeLiquidityPools = []ShapeLiquidityPool{
	{
		Name:             "LSULP/XRD",
		ComponentAddress: "component_rdx1crdhl7gel57erzgpdz3l3vr64scslq4z7vd0xgna6vh5fq5fnn9xas",
		TokenX:           LSULP,
		TokenY:           XRD,
		LiquidityReceipt: "resource_rdx1ntrysy2sncpj6t6shjlgsfr55dns9290e2zsy67fwwrp6mywsrrgsc",
	},
	{
		Name:             "xwBTC/XRD",
		ComponentAddress: "component_rdx1cp9w8443uyz2jtlaxnkcq84q5a5ndqpg05wgckzrnd3lgggpa080ed",
		TokenX:           WxBTC,
		TokenY:           XRD,
		LiquidityReceipt: "resource_rdx1nfdteayvxl6425jc5x5xa0p440h6r2mr48mgtj58szujr5cvgnfmn9",
	},
	{
		Name:             "XRD/xUSDC",
		ComponentAddress: "component_rdx1cr6lxkr83gzhmyg4uxg49wkug5s4wwc3c7cgmhxuczxraa09a97wcu",
		TokenX:           XRD,
		TokenY:           XUSDC,
		LiquidityReceipt: "resource_rdx1ntzhjg985wgpkhda9f9q05xqdj8xuggfw0j5u3zxudk2csv82d0089",
	},
	{
		Name:             "xETH/XRD",
		ComponentAddress: "component_rdx1cpsvw207842gafeyvf6tc0gdnq47u3mn74kvzszqlhc03lrns52v82",
		TokenX:           XETH,
		TokenY:           XRD,
		LiquidityReceipt: "resource_rdx1nthy5lna9l0tgtfxzxcrn6hmle0uymrutqwnlcj8tuujpz3s62wlc5",
	},
	{
		Name:             "XRD/xUSDT",
		ComponentAddress: "component_rdx1cqs338cyje65rk44zgmjvvy42qcszrhk9ewznedtkqd8l3crtgnmh5",
		TokenX:           XRD,
		TokenY:           XUSDT,
		LiquidityReceipt: "resource_rdx1nft63kjp38agw0z8nnwkyjhcgpzwjer84945h5z8yr663fgukjyp3l",
	},
	{
		Name:             "FLOOP/XRD",
		ComponentAddress: "component_rdx1czgaazn4wqf40kav57t8tu6kwv2a5sfmnlzlar9ee6kdqk0ll2chsz",
		TokenX:           FLOOP,
		TokenY:           XRD,
		LiquidityReceipt: "resource_rdx1ntpkcfe5ny37wk487ruuxj8wrgk6qg8rjq80m08un4yg98dmyj6msq",
	},
}

var CaviarNineSimplePools = []SimplePool{
	{
		Name:              "REDDICKS/LSULP",
		ComponentAddress:  "component_rdx1cz7s2xn8ddpmgm3uw0ma4jhaxhxdwce253v9j5agvffhftny6rgh8n",
		PoolAddress:       "pool_rdx1chmx480a0crrnaqyg2e6tr7wtqwk5239grzs6ecckcmhqjm3gdmm73",
		LpResourceAddress: "resource_rdx1tkjspzkzmhyzxwcrjha3y2aapmg5690vayjehqtfa729jnr88hcaue",
		TokenX:            REDDICKS,
		TokenY:            LSULP,
	},
	{
		Name:              "FLOOP/XRD",
		ComponentAddress:  "component_rdx1cpc6hjytxcvddl3e38u9amkn52ly3vzw6r0pxu54ge43l4ttw9ym7c",
		PoolAddress:       "pool_rdx1ch3vyhagpzqll4cu6quafdpkf7lvyuz7ke4z66tuqpxhvtxzd9lvmu",
		LpResourceAddress: "resource_rdx1th2pnc0lzgp20wwv2r22knjn32ntvecapws6v7z644c0d3rzz0fvng",
		TokenX:            FLOOP,
		TokenY:            XRD,
	},
}

var (
	shapeLiquidityPoolsByComponent = map[string]*ShapeLiquidityPool{}
	shapeLiquidityPoolsByReceipt   = map[string]*ShapeLiquidityPool{}
	simplePoolsByComponent         = map[string]*SimplePool{}
)

func init() {
	for i := range CaviarNineShapeLiquidityPools {
		pool := &CaviarNineShapeLiquidityPools[i]
		shapeLiquidityPoolsByComponent[pool.ComponentAddress] = pool
		shapeLiquidityPoolsByReceipt[pool.LiquidityReceipt] = pool
	}
	for i := range CaviarNineSimplePools {
		pool := &CaviarNineSimplePools[i]
		simplePoolsByComponent[pool.ComponentAddress] = pool
	}
}

func IsCaviarNinePrecisionPoolComponent(componentAddress string) bool {
	_, ok := shapeLiquidityPoolsByComponent[componentAddress]
	return ok
}

func IsCaviarNineHyperstakePoolComponent(componentAddress string) bool {
	return componentAddress == CaviarNineHLP.ComponentAddress
}

func IsCaviarNineSimplePoolComponent(componentAddress string) bool {
	_, ok := simplePoolsByComponent[componentAddress]
	return ok
}

func GetShapeLiquidityPoolByComponent(componentAddress string) (*ShapeLiquidityPool, bool) {
	pool, ok := shapeLiquidityPoolsByComponent[componentAddress]
	return pool, ok
}

func GetShapeLiquidityPoolByReceipt(resourceAddress string) (*ShapeLiquidityPool, bool) {
	pool, ok := shapeLiquidityPoolsByReceipt[resourceAddress]
	return pool, ok
}
