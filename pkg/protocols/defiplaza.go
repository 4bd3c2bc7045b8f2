package protocols

// DefiPlazaPool is one PlazaPair with its base and quote sides.
type DefiPlazaPool struct {
	Name                   string
	ComponentAddress       string
	BasePoolAddress        string
	BaseLpResourceAddress  string
	QuotePoolAddress       string
	QuoteLpResourceAddress string
	BaseResourceAddress    string
	QuoteResourceAddress   string
}

var DefiPlazaPools = []DefiPlazaPool{
	{
		Name:                   "xUSDC",
		ComponentAddress:       "component_rdx1czmha58h7vw0e4qpxz8ga68cq6h5fjm27w2z43r0n6k9x65nvrjp4g",
		BasePoolAddress:        "pool_rdx1c5z06xda4gjykyhupj4fjszdfhsye7h3mcsgwe5cvuz2vemwn7yjax",
		BaseLpResourceAddress:  "resource_rdx1tkdws0nvfwjnn2q62x4gqgelyt4t5z7cn58pwvrtf4zrxtdw2sem8x",
		QuotePoolAddress:       "pool_rdx1ch62axcl22gnmhe5ajtwraukrxstxxqlq5c6p9n2y5qv0pgyqnhfry",
		QuoteLpResourceAddress: "resource_rdx1t5gr3wsf7jq28fvnpyfg4rwfkewynv67nnqjna9h5f7mwjuwcwegcj",
		BaseResourceAddress:    XUSDC,
		QuoteResourceAddress:   XRD,
	},
	{
		Name:                   "xUSDT",
		BasePoolAddress:        "pool_rdx1c5pvssdmlgjh78anllzszh7alal666ayv8h6at3xmxmmpueqf7at4q",
		BaseLpResourceAddress:  "resource_rdx1thnmcry6e02x6ja73llm8z6pkrurvrsudgez4ammsp24r0v20rllxt",
		QuotePoolAddress:       "pool_rdx1c4scl7k67czs4e29skz0njvcmx4epmrjk4nkrkvsmt93rug7jcnagf",
		QuoteLpResourceAddress: "resource_rdx1t5swt0y0u6sdzycg02flamm3e6qljjgvpxeg5p5tw6jl7ssel0x369",
		BaseResourceAddress:    XUSDT,
		QuoteResourceAddress:   XRD,
	},
	{
		Name:                   "xETH",
		ComponentAddress:       "component_rdx1cr0nw5ppvryyqcv6thkslcltkw5cm3c2lvm2yr8jhh9rqe76stmars",
		BasePoolAddress:        "pool_rdx1ckt7dhmt5gr9vdsgz3p62fm88pm7f69kzzqw2268f3negvgns2xkpa",
		BaseLpResourceAddress:  "resource_rdx1t5k00sp4jejklp8cx6nw7ecvhz7z07mfexgmdyflgqpflfvzv8v7wd",
		QuotePoolAddress:       "pool_rdx1c5glrayedmn0utd44pqs8a3x52dw9aklq2g5f9ewxjxtm7xvjmussa",
		QuoteLpResourceAddress: "resource_rdx1thhth6tseavhurrgae898k9sht29f3yckzr6szct6zgheqdhxkus0t",
		BaseResourceAddress:    XETH,
		QuoteResourceAddress:   XRD,
	},
	{
		Name:                   "xwBTC",
		ComponentAddress:       "component_rdx1czzqr5m40x3sklwntcmx8uw3ld5nj7marq66nm6erp3prw7rv8zu29",
		BasePoolAddress:        "pool_rdx1c5xlqz5uc62fzlsyl2f3ql6lx8upc75tdpe4f8cmys83lpqrrul976",
		BaseLpResourceAddress:  "resource_rdx1t4x7f34hec2jxtay6cvxvcq3skmkg9pwtr98m4dm7qfrvnaddlavgv",
		QuotePoolAddress:       "pool_rdx1cht7hqhcnj2la96cygema5l32xwz26luunr9umlszy3s9gr78ppdzv",
		QuoteLpResourceAddress: "resource_rdx1th6ftl6twglqfz2s8ref2vr5nfccaeq2878p4996uq5duszkjhp2gl",
		BaseResourceAddress:    WxBTC,
		QuoteResourceAddress:   XRD,
	},
	{
		// PlazaPair component, not the Dex
		Name:                   "ASTRL",
		ComponentAddress:       "component_rdx1cqvxkaazmpnvg3f9ufc5n2msv6x7ztjdusdm06lhtf5n7wr8guggg5",
		BasePoolAddress:        "pool_rdx1c47jlmd9stptfy2a7e39wnjfechu72q9ggus29x0mqf98m8xt70rx2",
		BaseLpResourceAddress:  "resource_rdx1t5q26nr5t02pzf40tp9z999ex7d84szldnpqg8e459jyvztrxhqqls",
		QuotePoolAddress:       "pool_rdx1c4xm5wfm92vh39dzszzv3huvdmvz73juhkw8vls0z4fg2vfr0wkv93",
		QuoteLpResourceAddress: "resource_rdx1tkuuhphx2rtdytucgt0ucnd4k8zymxdeta4xa2req93yuaup3s244u",
		BaseResourceAddress:    ASTRL,
		QuoteResourceAddress:   DFP2,
	},
	{
		Name:                   "XRD",
		ComponentAddress:       "component_rdx1cppd8rq7gfwad75z56mz9tldqmw4aps48hqnx2stf4eeew8v6tyd72",
		BasePoolAddress:        "pool_rdx1chxn0nqj840r78t2ah5agchq4ue9p65q23nc9ckqfe0mmjstq8fyg0",
		BaseLpResourceAddress:  "resource_rdx1tknxlx2sy23qkg6twvnu3kqcd5l4daacq0n6mdam54upqgx50f4ju8",
		QuotePoolAddress:       "pool_rdx1c4547fnprjhlp2m27aycmf8rzrkrfzcck58jt2706r85gpcaeapz7k",
		QuoteLpResourceAddress: "resource_rdx1t4a5clnxmnctmezaty08cuugfzmj2lezqcjk2szezrfdfl4w4ederu",
		BaseResourceAddress:    XRD,
		QuoteResourceAddress:   DFP2,
	},
}

var defiPlazaPoolsByComponent = map[string]*DefiPlazaPool{}

func init() {
	for i := range DefiPlazaPools {
		pool := &DefiPlazaPools[i]
		if pool.ComponentAddress == "" {
			continue
		}
		defiPlazaPoolsByComponent[pool.ComponentAddress] = pool
	}
}

func IsDefiPlazaPoolComponent(componentAddress string) bool {
	_, ok := defiPlazaPoolsByComponent[componentAddress]
	return ok
}

func GetDefiPlazaPoolByComponent(componentAddress string) (*DefiPlazaPool, bool) {
	pool, ok := defiPlazaPoolsByComponent[componentAddress]
	return pool, ok
}

// DefiPlazaXUSDCPool is referenced by the common withdraw/deposit whitelist
// and by the trading volume activity map.
var DefiPlazaXUSDCPool = &DefiPlazaPools[0]
