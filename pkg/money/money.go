// Package money formats storefront prices.
//
// Display strings follow the shopper's locale. Message bodies sent to the
// merchant use Plain, which never groups digits.
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kreslo/kreslo-backend/internal/locale"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency is the only currency the storefront sells in.
var Currency = currency.MustParseISO("AZN")

// Code is the ISO code printed in order messages.
var Code = Currency.String()

const manatSign = "₼"

type layout func(amount, code string) string

var layouts = locale.NewTable[layout](
	func(amount, code string) string { return code + " " + amount },
	map[locale.Locale]layout{
		locale.AZ: func(amount, _ string) string { return amount + " " + manatSign },
		locale.RU: func(amount, _ string) string { return amount + " " + manatSign },
	},
)

// Format renders amount for on-screen display in the given locale.
// It panics on a negative amount.
//
// The digits come from the decimal itself; x/text only supplies the grouping
// of the whole part and the decimal separator, so no precision is lost.
// Whole parts beyond int64 are printed ungrouped.
func Format(amount decimal.Decimal, code string) string {
	mustBeNonNegative(amount)

	tag := locale.EN.Tag()
	if l, ok := locale.Parse(code); ok {
		tag = l.Tag()
	}
	p := message.NewPrinter(tag)

	whole, frac, _ := strings.Cut(amount.StringFixed(2), ".")
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = p.Sprint(number.Decimal(n))
	}
	digits := whole + decimalSeparator(p) + frac

	return layouts.Lookup(code)(digits, Code)
}

func decimalSeparator(p *message.Printer) string {
	half := p.Sprint(number.Decimal(0.5, number.Scale(1)))
	return strings.TrimSuffix(strings.TrimPrefix(half, "0"), "5")
}

// Plain renders amount with exactly two decimals and no grouping ("1234.50").
// It panics on a negative amount.
func Plain(amount decimal.Decimal) string {
	mustBeNonNegative(amount)
	return amount.StringFixed(2)
}

// FromFloat converts a float price coming from an untyped boundary. NaN,
// infinities and negative values are caller bugs and panic here rather than
// deeper in a total.
func FromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(fmt.Sprintf("money: non-finite amount %v", f))
	}
	d := decimal.NewFromFloat(f)
	mustBeNonNegative(d)
	return d
}

func mustBeNonNegative(amount decimal.Decimal) {
	if amount.IsNegative() {
		panic(fmt.Sprintf("money: negative amount %s", amount.String()))
	}
}
