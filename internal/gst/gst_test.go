package gst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.57, Round2(10.565))
	assert.Equal(t, 10.56, Round2(10.564))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, -3.13, Round2(-3.125))
}

func TestLineAmount(t *testing.T) {
	assert.Equal(t, 350.0, LineAmount(7, 50))
	assert.Equal(t, 29.97, LineAmount(3, 9.99))
	assert.Equal(t, 0.0, LineAmount(0, 123.45))
}

func TestLineTax(t *testing.T) {
	// 18% of 350 = 63
	assert.Equal(t, 63.0, LineTax(350, 18))
	// 5% of 29.97 = 1.4985 -> 1.50
	assert.Equal(t, 1.5, LineTax(29.97, 5))
	assert.Equal(t, 0.0, LineTax(100, 0))
}

func TestOrderTotals(t *testing.T) {
	// 7 x 50 @ 18% GST: 350 subtotal, 63 tax, 413 grand total.
	amount := LineAmount(7, 50)
	tax := LineTax(amount, 18)

	assert.Equal(t, 350.0, amount)
	assert.Equal(t, 63.0, tax)
	assert.Equal(t, 413.0, Round2(amount+tax))
}

func TestSplit_IntraState(t *testing.T) {
	cgst, sgst, igst := Split(63.0, true)

	assert.Equal(t, 31.5, cgst)
	assert.Equal(t, 31.5, sgst)
	assert.Equal(t, 0.0, igst)
	assert.Equal(t, 63.0, Round2(cgst+sgst))
}

func TestSplit_InterState(t *testing.T) {
	cgst, sgst, igst := Split(63.0, false)

	assert.Equal(t, 0.0, cgst)
	assert.Equal(t, 0.0, sgst)
	assert.Equal(t, 63.0, igst)
}

func TestSplit_OddPaisa(t *testing.T) {
	// CGST rounds half-up, SGST takes the remainder; the components must
	// re-add to the total so grand totals stay exact.
	cgst, sgst, _ := Split(0.03, true)
	assert.Equal(t, 0.02, cgst)
	assert.Equal(t, 0.01, sgst)
	assert.Equal(t, 0.03, Round2(cgst+sgst))
}

func TestSplit_Negative(t *testing.T) {
	cgst, sgst, igst := Split(-10, true)
	assert.Equal(t, 0.0, cgst)
	assert.Equal(t, 0.0, sgst)
	assert.Equal(t, 0.0, igst)
}
