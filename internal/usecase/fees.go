package usecase

import "github.com/vitos/crypto_hedge_calc/internal/domain"

// Fee tiers keyed by trailing two-week trading volume. Bands are half-open
// [lower, upper); exactly one matches any non-negative volume. Funding fee
// turns into a rebate (negative) from the second tier up.
var feeTiers = []struct {
	maxVolume float64
	rates     domain.FeeRates
}{
	{5_000_000, domain.FeeRates{TakerFee: 0.00035, MakerFee: 0.0001, FundingFee: 0.0}},
	{25_000_000, domain.FeeRates{TakerFee: 0.00030, MakerFee: 0.00008, FundingFee: -0.00001}},
	{100_000_000, domain.FeeRates{TakerFee: 0.00025, MakerFee: 0.00005, FundingFee: -0.00002}},
	{500_000_000, domain.FeeRates{TakerFee: 0.00022, MakerFee: 0.00004, FundingFee: -0.000025}},
	{2_000_000_000, domain.FeeRates{TakerFee: 0.00020, MakerFee: 0.00001, FundingFee: -0.00003}},
}

// Top tier, >= 2B.
var topTierRates = domain.FeeRates{TakerFee: 0.00019, MakerFee: 0.0, FundingFee: -0.00003}

// ResolveFees maps a two-week trading volume to its fee tier.
// Negative volume is treated as 0 (unknown volume).
func ResolveFees(twoWeekVolume float64) domain.FeeRates {
	if twoWeekVolume < 0 {
		twoWeekVolume = 0
	}
	for _, tier := range feeTiers {
		if twoWeekVolume < tier.maxVolume {
			return tier.rates
		}
	}
	return topTierRates
}
