package entity

import (
	"errors"
	"math"
)

// RateSet holds conversion factors anchored to GBP
type RateSet struct {
	BaseToSecondary     float64  `json:"gbp_to_myr"`
	BaseToTertiary      float64  `json:"gbp_to_bdt"`
	SecondaryToTertiary *float64 `json:"myr_to_bdt,omitempty"`
}

// Validate ensures the mandatory rates are usable
func (r *RateSet) Validate() error {
	if !IsPositiveFinite(r.BaseToSecondary) {
		return errors.New("GBP->MYR rate must be a positive finite number")
	}

	if !IsPositiveFinite(r.BaseToTertiary) {
		return errors.New("GBP->BDT rate must be a positive finite number")
	}

	if r.SecondaryToTertiary != nil && !IsPositiveFinite(*r.SecondaryToTertiary) {
		return errors.New("MYR->BDT rate must be a positive finite number")
	}

	return nil
}

// IsPositiveFinite reports whether v is a finite number greater than zero
func IsPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
