package protocols

// WeftFinance v2 lending market. Events are only accepted when both the
// component and the package match.
var WeftFinance = struct {
	PackageAddress        string
	LendingPoolComponent  string
	LendingPoolKvsAddress string

	W2XRD   string
	W2XUSDC string
	W2XUSDT string
	W2XwBTC string
	W2WETH  string

	WeftyV2Resource  string
	WeftyV2Component string
}{
	PackageAddress:        "package_rdx1pkwtcymnlaffvdlrdygmut7gd74ecjkn5t6qu6k679y2a350c2yfda",
	LendingPoolComponent:  "component_rdx1czmr02yl4da709ceftnm9dnmag7rthu0tu78wmtsn5us9j02d9d0xn",
	LendingPoolKvsAddress: "internal_keyvaluestore_rdx1kzjr763caq96j0kv883vy8gnf3jvrrp7dfm9zr5n0akryvzsxvyujc",

	W2XRD:   "resource_rdx1th0gjs665xgm343j4jee7k8apu8l8pg9cf8x587qprszeeknu8wsxz",
	W2XUSDC: "resource_rdx1thw2u4uss739j8cqumehgf5wyw26chcfu98newsu42zhln7wd050ee",
	W2XUSDT: "resource_rdx1t5ljp8amkf76mrn5txmmemkrmjwt5r0ajjnljvyunh27gm0n295dfn",
	W2XwBTC: "resource_rdx1thyes252jplxhu8qvfx6k3wkmlhy2f09nfqqefuj2a73l79e0af99t",
	W2WETH:  "resource_rdx1t456hgpk6kwn4lqut5p2mqqmuuwngzhwxlgyyk9dwv4t5hmp37d7xf",

	WeftyV2Resource:  "resource_rdx1nt22yfvhuuhxww7jnnml5ec3yt5pkxh0qlghm6f0hz46z2wfk80s9r",
	WeftyV2Component: "component_rdx1cpy6putj5p7937clqgcgutza7k53zpha039n9u5hkk0ahh4stdmq4w",
}

func IsWeftFinanceComponent(componentAddress string, packageAddress string) bool {
	return componentAddress == WeftFinance.WeftyV2Component &&
		packageAddress == WeftFinance.PackageAddress
}
