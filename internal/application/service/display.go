// Package service internal/application/service/display.go
package service

import (
	"fmt"

	"github.com/damon-houk/viable-rate-calculator/internal/domain/entity"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Display holds the human-readable strings for a conversion
type Display struct {
	TargetAmount     string `json:"target_amount"`
	BDTLabel         string `json:"bdt_label"`
	BDTAmount        string `json:"bdt_amount"`
	MarketCrossRate  string `json:"market_rate"`
	ImpliedCrossRate string `json:"calculated_rate"`
	Attribution      string `json:"attribution"`
}

var printer = message.NewPrinter(language.English)

// FormatAmount renders a value to two decimals with grouping, prefixed by its currency code
func FormatAmount(value float64, currency entity.Currency) string {
	return printer.Sprintf("%s %.2f", string(currency), value)
}

// FormatCrossRate renders a MYR->BDT rate as "1 MYR = 28.7719 BDT"
func FormatCrossRate(rate float64) string {
	return fmt.Sprintf("1 %s = %.4f %s", entity.MYR, rate, entity.BDT)
}

// Attribution names the provider the rates came from
func Attribution(provider entity.Provider) string {
	return fmt.Sprintf("Rates via %s", provider)
}

// Describe formats a conversion result for display
func Describe(result entity.ConversionResult, incentive entity.IncentiveConfig, provider entity.Provider) Display {
	return Display{
		TargetAmount:     FormatAmount(result.TargetAmount, result.TargetCurrency),
		BDTLabel:         incentive.Label(),
		BDTAmount:        FormatAmount(result.TertiaryAmountWithIncentive, entity.BDT),
		MarketCrossRate:  FormatCrossRate(result.MarketCrossRate),
		ImpliedCrossRate: FormatCrossRate(result.ImpliedCrossRate),
		Attribution:      Attribution(provider),
	}
}
