package protocols

// RootFinance lending market. CDP positions are tracked by a non-fungible
// receipt whose custody determines the position owner.
var RootFinance = struct {
	PackageAddress         string
	LendingMarketComponent string
	ReceiptResourceAddress string
}{
	PackageAddress:         "package_rdx1phwak2lr7nczzl6rxzvtnjwszmvxqycp9h8pckcmy6uwdcucnjeu0p",
	LendingMarketComponent: "component_rdx1cr3psyfptwkktqusfg8ngtupr4wwfg32kz2xvh9tqh4c7pwkvlk2kn",
	ReceiptResourceAddress: "resource_rdx1ngekvyag42r0xkhy2ds08fcl7f2ncgc0g74yg6wpeeyc4vtj03sa9f",
}

func IsRootFinanceComponent(componentAddress string, packageAddress string) bool {
	return componentAddress == RootFinance.LendingMarketComponent &&
		packageAddress == RootFinance.PackageAddress
}
