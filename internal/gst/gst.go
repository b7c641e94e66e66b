// Package gst holds the tax arithmetic shared by the order and invoice
// paths. All intermediate math runs in decimal so both creation paths
// round identically: half-up to two places at line level.
package gst

import "github.com/shopspring/decimal"

// Round2 rounds a rupee amount half-up to two decimal places.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// LineAmount returns quantity * rate rounded to two places.
func LineAmount(quantity int, rate float64) float64 {
	amt := decimal.NewFromInt(int64(quantity)).Mul(decimal.NewFromFloat(rate))
	f, _ := amt.Round(2).Float64()
	return f
}

// LineTax returns amount * rate / 100 rounded to two places.
func LineTax(amount, gstRate float64) float64 {
	tax := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(gstRate)).
		Div(decimal.NewFromInt(100))
	f, _ := tax.Round(2).Float64()
	return f
}

// Split divides a total tax amount into GST components. Intra-state tax
// splits across CGST and SGST; SGST takes the remainder after CGST rounds,
// so cgst+sgst always re-adds to the rounded total even for odd paisa.
// Inter-state tax is carried entirely as IGST. intraState follows
// models.GSTTypeIntraState / GSTTypeInterState.
func Split(totalTax float64, intraState bool) (cgst, sgst, igst float64) {
	if totalTax < 0 {
		return 0, 0, 0
	}
	total := decimal.NewFromFloat(totalTax).Round(2)
	if !intraState {
		f, _ := total.Float64()
		return 0, 0, f
	}
	c := total.Div(decimal.NewFromInt(2)).Round(2)
	s := total.Sub(c)
	cf, _ := c.Float64()
	sf, _ := s.Float64()
	return cf, sf, 0
}
