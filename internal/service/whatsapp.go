package service

import (
	"fmt"
	"net/url"
	"strings"

	"frozenshop/internal/model"
	"frozenshop/internal/money"
	"frozenshop/internal/phone"
)

const whatsAppBase = "https://wa.me/"

// WhatsAppURL builds a wa.me deep link opening a chat with number and text
// pre-filled. It returns "" when number has no digits.
func WhatsAppURL(number, countryCode, text string) string {
	n := phone.Normalize(number, countryCode)
	if n == "" {
		return ""
	}
	if text == "" {
		return whatsAppBase + n
	}
	return whatsAppBase + n + "?text=" + url.QueryEscape(text)
}

// orderWhatsAppMessage is the message the customer sends to confirm an order.
func orderWhatsAppMessage(siteName string, o *model.Order) string {
	var b strings.Builder
	if siteName != "" {
		fmt.Fprintf(&b, "Halo %s, saya ingin konfirmasi pesanan.\n\n", siteName)
	} else {
		b.WriteString("Halo, saya ingin konfirmasi pesanan.\n\n")
	}
	fmt.Fprintf(&b, "No. Pesanan: %s\n", o.OrderNumber)
	fmt.Fprintf(&b, "Nama: %s\n", o.CustomerName)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "- %s x%d = %s\n", it.ProductName, it.Quantity, money.Rupiah(it.Subtotal))
	}
	fmt.Fprintf(&b, "Subtotal: %s\n", money.Rupiah(o.Subtotal))
	if o.ShippingCost.IsZero() {
		b.WriteString("Ongkir: Gratis\n")
	} else {
		fmt.Fprintf(&b, "Ongkir: %s\n", money.Rupiah(o.ShippingCost))
	}
	fmt.Fprintf(&b, "Total: %s\n", money.Rupiah(o.TotalAmount))
	fmt.Fprintf(&b, "Pembayaran: %s", o.PaymentMethod.Meta().Label)
	return b.String()
}
