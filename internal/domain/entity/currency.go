package entity

// Currency is one of the three currencies the calculator knows about
type Currency string

const (
	// GBP is the base currency every fetched rate is anchored to
	GBP Currency = "GBP"
	// MYR is the secondary currency
	MYR Currency = "MYR"
	// BDT is the tertiary currency the incentive applies to
	BDT Currency = "BDT"
)

// ParseCurrency validates a currency code
func ParseCurrency(code string) (Currency, bool) {
	switch c := Currency(code); c {
	case GBP, MYR, BDT:
		return c, true
	default:
		return "", false
	}
}

// IsPrimary reports whether the currency can be used as conversion input
func (c Currency) IsPrimary() bool {
	return c == GBP || c == MYR
}

// Counterpart returns the other primary currency
func (c Currency) Counterpart() Currency {
	if c == GBP {
		return MYR
	}
	return GBP
}
