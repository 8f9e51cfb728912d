package wa

import (
	"net/url"
	"strings"
	"testing"
)

func TestSummary(t *testing.T) {
	got := Summary("Tokokita", 42, "Alice", "555-0000", []Line{
		{Name: "Kopi Gayo", Qty: 2, PriceCents: 2500},
		{Name: "Teh Melati", Qty: 1, PriceCents: 1200},
	})

	for _, want := range []string{
		"order #42",
		"Kopi Gayo x2 = 50.00",
		"Teh Melati x1 = 12.00",
		"Total: 62.00",
		"Nama: Alice",
		"Kontak: 555-0000",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestLinkEncoding(t *testing.T) {
	link := Link("6281234567890", "Halo & selamat pagi\nTotal: 50.00")

	if !strings.HasPrefix(link, "https://wa.me/6281234567890?text=") {
		t.Fatalf("unexpected link shape: %s", link)
	}

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if got := u.Query().Get("text"); got != "Halo & selamat pagi\nTotal: 50.00" {
		t.Fatalf("text does not round-trip: %q", got)
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1200, "12.00"},
		{2550, "25.50"},
		{-150, "-1.50"},
	}
	for _, c := range cases {
		if got := FormatCents(c.in); got != c.want {
			t.Errorf("FormatCents(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
