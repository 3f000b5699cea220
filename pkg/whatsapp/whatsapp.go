// Package whatsapp builds wa.me deep links that open a pre-filled order chat
// with the merchant.
package whatsapp

import (
	"fmt"
	"strings"

	"github.com/kreslo/kreslo-backend/internal/locale"
	"github.com/kreslo/kreslo-backend/pkg/money"
	"github.com/shopspring/decimal"
)

const baseURL = "https://wa.me/"

// lineSeparator joins cart lines; the trailing plus reads as "and" to the merchant.
const lineSeparator = " +\n"

// Line is one cart position as it appears in the order message.
type Line struct {
	Name      string
	SKU       string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Total is UnitPrice × Quantity.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type cartTemplate struct {
	Greeting string
	Total    string
	Question string
}

var inquiryGreetings = locale.NewTable(
	"Hello, I am interested in buying:",
	map[locale.Locale]string{
		locale.AZ: "Salam, bu məhsulu almaq istəyirəm:",
		locale.RU: "Здравствуйте, я хочу купить:",
	},
)

var cartTemplates = locale.NewTable(
	cartTemplate{
		Greeting: "Hello! I'd like to order:",
		Total:    "Total",
		Question: "Are these in stock?",
	},
	map[locale.Locale]cartTemplate{
		locale.AZ: {
			Greeting: "Salam! Sifariş vermək istəyirəm:",
			Total:    "Ümumi",
			Question: "Stokda varmı?",
		},
		locale.RU: {
			Greeting: "Здравствуйте! Хочу заказать:",
			Total:    "Итого",
			Question: "Есть в наличии?",
		},
	},
)

// SanitizePhone keeps only ASCII digits. Applying it twice is a no-op.
func SanitizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for i := 0; i < len(phone); i++ {
		if c := phone[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ProductInquiryURL links to a chat asking about a single product. display is
// the caller-composed name and price.
func ProductInquiryURL(phone, display, sku, localeCode string) string {
	msg := inquiryGreetings.Lookup(localeCode) + " " + display + skuSuffix(sku)
	return baseURL + SanitizePhone(phone) + "?text=" + EncodeURIComponent(msg)
}

// CartOrderURL links to a chat carrying the whole order. An empty cart yields
// a bare chat link without any text.
func CartOrderURL(lines []Line, phone, localeCode string, total decimal.Decimal) string {
	link := baseURL + SanitizePhone(phone)
	if len(lines) == 0 {
		return link
	}
	return link + "?text=" + EncodeURIComponent(CartOrderMessage(lines, localeCode, total))
}

// CartOrderMessage is the unencoded order text.
func CartOrderMessage(lines []Line, localeCode string, total decimal.Decimal) string {
	t := cartTemplates.Lookup(localeCode)

	rendered := make([]string, 0, len(lines))
	for _, l := range lines {
		rendered = append(rendered, fmt.Sprintf("• %dx %s%s — %s %s",
			l.Quantity, l.Name, skuSuffix(l.SKU), money.Plain(l.Total()), money.Code))
	}

	var b strings.Builder
	b.WriteString(t.Greeting)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(rendered, lineSeparator))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s: %s %s", t.Total, money.Plain(total), money.Code)
	b.WriteString("\n\n")
	b.WriteString(t.Question)
	return b.String()
}

func skuSuffix(sku string) string {
	if sku == "" {
		return ""
	}
	return " (SKU: " + sku + ")"
}

// EncodeURIComponent percent-encodes s the way browsers do for a URI
// component, so links match those produced by the storefront frontend.
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
