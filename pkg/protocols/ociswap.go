package protocols

// OciswapPool covers precision (v1/v2), flex and basic Ociswap pools.
type OciswapPool struct {
	Name              string
	ComponentAddress  string
	PoolAddress       string
	LpResourceAddress string
	TokenX            string
	TokenY            string
	DivisibilityX     int
	DivisibilityY     int
}

var OciswapPrecisionPools = []OciswapPool{
	{
		Name:              "xwBTC/XRD",
		ComponentAddress:  "component_rdx1cpgmgrskahkxe4lnpp9s2f5ga0z8jkl7ne8gjmw3fc2224lxq505mr",
		LpResourceAddress: "resource_rdx1n2zsvvdahtnlm53ms5f6zazjx6rnnmu2u6xjdr8ggzw45way0tefe6",
		TokenX:            WxBTC,
		TokenY:            XRD,
		DivisibilityX:     8,
		DivisibilityY:     18,
	},
	{
		Name:              "xETH/XRD",
		ComponentAddress:  "component_rdx1crahf8qdh8fgm8mvzmq5w832h97q5099svufnqn26ue44fyezn7gnm",
		LpResourceAddress: "resource_rdx1nge9z3amafwyqvjzg5fzwk9m8dkcu584p6lcme7dx4p72x9xcaa3la",
		TokenX:            XRD,
		TokenY:            XETH,
		DivisibilityX:     18,
		DivisibilityY:     18,
	},
	{
		Name:              "xUSDC/XRD",
		ComponentAddress:  "component_rdx1cz8daq5nwmtdju4hj5rxud0ta26wf90sdk5r4nj9fqjcde5eht8p0f",
		LpResourceAddress: "resource_rdx1nflrqd24a8xqelasygwlt6dhrgtu3akky695kk6j3cy4wu0wfn2ef8",
		TokenX:            XUSDC,
		TokenY:            XRD,
		DivisibilityX:     6,
		DivisibilityY:     18,
	},
	{
		Name:              "xUSDT/XRD",
		ComponentAddress:  "component_rdx1cz79xc57dpuhzd3wylnc88m3pyvfk7c5e03me2qv7x8wh9t6c3aw4g",
		LpResourceAddress: "resource_rdx1nffckx9ek5x5hn2cxj2hc0tk8yvwh6a2rh9jckgnwha7smry2rtr0a",
		TokenX:            XRD,
		TokenY:            XUSDT,
		DivisibilityX:     18,
		DivisibilityY:     6,
	},
	{
		Name:              "OCI/XRD",
		ComponentAddress:  "component_rdx1crm530ath85gcwm4gvwq8m70ay07df085kmupp6gte3ew94vg5pdcp",
		LpResourceAddress: "resource_rdx1n2qukjm07d26matv7cyc5ev2f942uy44zn9h3x7p8hnm9dah5flht4",
		TokenX:            OCI,
		TokenY:            XRD,
		DivisibilityX:     18,
		DivisibilityY:     18,
	},
}

var OciswapBasicPools = []OciswapPool{
	{
		Name:              "EARLY/XRD",
		ComponentAddress:  "component_rdx1cz8p5lc8vmj96hdguy02hkfq4z5xyxf9k759dj8ym8exj8x8zgmw9p",
		PoolAddress:       "pool_rdx1c5hm2rt67scp22pq6tpkfg6cd22g0wwz88065wsy9gdfnd86sv3t4t",
		LpResourceAddress: "resource_rdx1t5362v5zqsfkfe38uyl368edpsdm23u5g69qt55jn0ye8nf6umnnv9",
		TokenX:            EARLY,
		TokenY:            XRD,
	},
}

var OciswapFlexPools = []OciswapPool{
	{
		Name:              "ILIS/XRD",
		ComponentAddress:  "component_rdx1cr9tj8xd5cjs9mzkqdnamrzq0xgy4eylk75vhqqzka5uxsxatv4wxd",
		PoolAddress:       "pool_rdx1c5cyh7lhxly2mxzsmrs4c99vhxt9jzap3gaf7s8h0h68fqlpfht0un",
		LpResourceAddress: "resource_rdx1t4qxj7nnm0sra6f6j9jq73erd489hdad6jp92hggtfwgwy9p2mgn76",
		TokenX:            ILIS,
		TokenY:            XRD,
	},
}

var (
	ociswapPrecisionPoolsByComponent = map[string]*OciswapPool{}
	ociswapBasicPoolsByComponent     = map[string]*OciswapPool{}
	ociswapFlexPoolsByComponent      = map[string]*OciswapPool{}
)

func init() {
	for i := range OciswapPrecisionPools {
		pool := &OciswapPrecisionPools[i]
		ociswapPrecisionPoolsByComponent[pool.ComponentAddress] = pool
	}
	for i := range OciswapBasicPools {
		pool := &OciswapBasicPools[i]
		ociswapBasicPoolsByComponent[pool.ComponentAddress] = pool
	}
	for i := range OciswapFlexPools {
		pool := &OciswapFlexPools[i]
		ociswapFlexPoolsByComponent[pool.ComponentAddress] = pool
	}
}

func IsOciswapPrecisionPoolComponent(componentAddress string) bool {
	_, ok := ociswapPrecisionPoolsByComponent[componentAddress]
	return ok
}

func IsOciswapBasicPoolComponent(componentAddress string) bool {
	_, ok := ociswapBasicPoolsByComponent[componentAddress]
	return ok
}

func IsOciswapFlexPoolComponent(componentAddress string) bool {
	_, ok := ociswapFlexPoolsByComponent[componentAddress]
	return ok
}
