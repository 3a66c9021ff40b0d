package usecases

import (
	"dealhub.backend/internal/domain/entities"
)

// MaxCodeAttempts bounds deal and verification code regeneration after a
// unique conflict.
const MaxCodeAttempts = 5

// DefaultTierDealLimit applies to tiers missing from TierDealLimits
const DefaultTierDealLimit = 2

// TierDealLimits caps the active, unexpired deals a restaurant may run
var TierDealLimits = map[entities.SubscriptionTier]int{
	entities.TierBronze:  2,
	entities.TierSilver:  5,
	entities.TierGold:    10,
	entities.TierDiamond: 20,
}

// DealLimitForTier returns the active deal quota for a tier
func DealLimitForTier(tier entities.SubscriptionTier) int {
	if limit, ok := TierDealLimits[tier]; ok {
		return limit
	}
	return DefaultTierDealLimit
}
