package protocols

// TrackedResources is the whitelist of fungible resources whose account
// holdings the program values. Derived from the activity mapping so every
// tracked snapshot carries an activity.
var TrackedResources = buildTrackedResources()

func buildTrackedResources() map[string]bool {
	out := make(map[string]bool, len(BalanceActivities))
	for resourceAddress := range BalanceActivities {
		out[resourceAddress] = true
	}
	return out
}
