package services

import (
	"github.com/shopspring/decimal"
)

// Platform-wide billing constants. All amounts are MXN with VAT included
// in the gross price.
var (
	PlatformCommissionRate = decimal.NewFromFloat(0.05)
	VATRate                = decimal.NewFromFloat(0.16)
)

// CommissionSplit is the platform's take on a gross payment amount.
type CommissionSplit struct {
	PlatformFee decimal.Decimal `json:"platformFee"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// TaxSplit breaks a VAT-inclusive gross into subtotal and tax.
type TaxSplit struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
}

// SplitCommission computes platformFee = gross * rate and
// netAmount = gross - platformFee. Amounts are rounded half-even to
// currency precision; the fee carries the rounding so the two parts always
// reconcile against the gross.
func SplitCommission(gross, rate decimal.Decimal) CommissionSplit {
	fee := gross.Mul(rate).RoundBank(2)
	return CommissionSplit{
		PlatformFee: fee,
		NetAmount:   gross.Sub(fee),
	}
}

// SplitTax derives the pre-tax subtotal from a VAT-inclusive gross:
// subtotal = gross / (1 + rate), tax = gross - subtotal.
func SplitTax(gross, rate decimal.Decimal) TaxSplit {
	subtotal := gross.Div(decimal.NewFromInt(1).Add(rate)).RoundBank(2)
	return TaxSplit{
		Subtotal: subtotal,
		Tax:      gross.Sub(subtotal),
	}
}
