package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/adityapratama/shopeasy-backend/pkg/config"
)

// Pricing is the money breakdown of a checkout, all in integer cents.
type Pricing struct {
	SubtotalCents int64
	ShippingCents int64
	TaxCents      int64
	TotalCents    int64
}

// price applies the flat shipping fee and the tax rate to a subtotal. Tax
// is rounded half up to whole cents.
func price(subtotalCents int64, cfg config.CheckoutConfig) Pricing {
	tax := decimal.NewFromInt(subtotalCents).
		Mul(decimal.NewFromFloat(cfg.TaxRate)).
		Round(0).
		IntPart()

	p := Pricing{
		SubtotalCents: subtotalCents,
		ShippingCents: int64(cfg.ShippingFeeCents),
		TaxCents:      tax,
	}
	p.TotalCents = p.SubtotalCents + p.ShippingCents + p.TaxCents
	return p
}
