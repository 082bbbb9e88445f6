// Package service internal/application/service/conversion_service.go
package service

import (
	"github.com/damon-houk/viable-rate-calculator/internal/domain/entity"
)

// Compute derives every display value from an input, a rate set and incentive
// settings. It never fails: a nil rate set or an amount that is not a finite
// number > 0 yields a zero result that still names the target currency.
func Compute(input entity.ConversionInput, rates *entity.RateSet, incentive entity.IncentiveConfig) entity.ConversionResult {
	result := entity.ConversionResult{
		TargetCurrency: input.Source.Counterpart(),
	}

	amount, ok := entity.ParsePositive(input.Amount)
	if rates == nil || !ok || !input.Source.IsPrimary() {
		return result
	}

	var gbpAmount, myrAmount float64
	if input.Source == entity.GBP {
		gbpAmount = amount
		myrAmount = gbpAmount * rates.BaseToSecondary
	} else {
		myrAmount = amount
		gbpAmount = myrAmount / rates.BaseToSecondary
	}

	bdtAmount := gbpAmount * rates.BaseToTertiary
	bdtWithIncentive := bdtAmount * (1 + incentive.Fraction())

	if result.TargetCurrency == entity.MYR {
		result.TargetAmount = myrAmount
	} else {
		result.TargetAmount = gbpAmount
	}

	result.TertiaryAmountWithIncentive = bdtWithIncentive
	if myrAmount != 0 {
		result.ImpliedCrossRate = bdtWithIncentive / myrAmount
	}
	result.MarketCrossRate = MarketCrossRate(rates)

	return result
}

// MarketCrossRate is the MYR->BDT baseline: the provider's direct rate when it
// has one, otherwise derived through GBP.
func MarketCrossRate(rates *entity.RateSet) float64 {
	if rates == nil {
		return 0
	}

	if rates.SecondaryToTertiary != nil && *rates.SecondaryToTertiary > 0 {
		return *rates.SecondaryToTertiary
	}

	if rates.BaseToSecondary == 0 {
		return 0
	}

	return rates.BaseToTertiary / rates.BaseToSecondary
}
