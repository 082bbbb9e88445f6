package entity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// incentiveInputPattern accepts up to four integer and two fractional digits,
// including partially typed values such as "" or "2."
var incentiveInputPattern = regexp.MustCompile(`^\d{0,4}(\.\d{0,2})?$`)

// ValidIncentiveInput reports whether s is an acceptable incentive entry
func ValidIncentiveInput(s string) bool {
	return incentiveInputPattern.MatchString(s)
}

// IncentiveConfig describes the optional bonus applied to the BDT amount.
// Percentage is kept as typed and parsed lazily.
type IncentiveConfig struct {
	Enabled    bool   `json:"enabled"`
	Percentage string `json:"percentage"`
}

// DefaultIncentive matches the calculator's initial settings
var DefaultIncentive = IncentiveConfig{Enabled: true, Percentage: "2.5"}

// Fraction returns the effective incentive as a fraction, or 0 when it does not apply
func (c IncentiveConfig) Fraction() float64 {
	if !c.Enabled {
		return 0
	}

	pct, ok := ParsePositive(c.Percentage)
	if !ok {
		return 0
	}

	return pct / 100
}

// Label is the heading shown above the BDT amount
func (c IncentiveConfig) Label() string {
	if c.Fraction() == 0 {
		return "Converted to BDT"
	}
	pct, _ := ParsePositive(c.Percentage)
	return fmt.Sprintf("Converted to BDT (inc. %s%%)", strconv.FormatFloat(pct, 'f', -1, 64))
}

// ConversionInput is the raw amount and the currency it is expressed in
type ConversionInput struct {
	Amount string   `json:"amount"`
	Source Currency `json:"source_currency"`
}

// ConversionResult holds every value derived from an input and a rate set
type ConversionResult struct {
	TargetCurrency              Currency `json:"target_currency"`
	TargetAmount                float64  `json:"target_amount"`
	TertiaryAmountWithIncentive float64  `json:"bdt_with_incentive"`
	ImpliedCrossRate            float64  `json:"calculated_myr_bdt_rate"`
	MarketCrossRate             float64  `json:"market_myr_bdt_rate"`
}

// ParsePositive parses s as a finite number greater than zero
func ParsePositive(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !IsPositiveFinite(v) {
		return 0, false
	}
	return v, true
}
