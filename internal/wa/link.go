// Package wa composes the pre-filled WhatsApp message a client sends to the
// store after checkout, and the wa.me link that opens it.
package wa

import (
	"fmt"
	"net/url"
	"strings"
)

type Line struct {
	Name       string
	Qty        int
	PriceCents int64
}

// Summary renders the human-readable order recap that lands in the chat.
func Summary(storeName string, orderID int64, clientName, clientContact string, lines []Line) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Halo %s, saya mau pesan (order #%d):\n", storeName, orderID)

	var total int64
	for _, l := range lines {
		sub := int64(l.Qty) * l.PriceCents
		total += sub
		fmt.Fprintf(&b, "- %s x%d = %s\n", l.Name, l.Qty, FormatCents(sub))
	}
	fmt.Fprintf(&b, "Total: %s\n", FormatCents(total))
	fmt.Fprintf(&b, "Nama: %s\n", clientName)
	fmt.Fprintf(&b, "Kontak: %s", clientContact)
	return b.String()
}

// Link builds https://wa.me/<number>?text=<encoded message>.
func Link(number, text string) string {
	q := url.Values{}
	q.Set("text", text)
	return "https://wa.me/" + number + "?" + q.Encode()
}

// FormatCents renders cents as a plain decimal amount, e.g. 150000 -> "1500.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
