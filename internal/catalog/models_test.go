package catalog

import "testing"

func TestEffectivePriceCents(t *testing.T) {
	cases := []struct {
		name string
		p    Product
		want int64
	}{
		{"no promo", Product{PriceCents: 2500}, 2500},
		{"promo below regular", Product{PriceCents: 2500, SalePriceCents: 2000}, 2000},
		{"promo equal to regular", Product{PriceCents: 2500, SalePriceCents: 2500}, 2500},
		{"promo above regular ignored", Product{PriceCents: 2500, SalePriceCents: 3000}, 2500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.EffectivePriceCents(); got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDiscountPct(t *testing.T) {
	p := Product{PriceCents: 2000, SalePriceCents: 1500}
	if got := p.DiscountPct(); got != 25 {
		t.Fatalf("got %v, want 25", got)
	}
	if got := (Product{PriceCents: 2000}).DiscountPct(); got != 0 {
		t.Fatalf("no promo: got %v, want 0", got)
	}
	if got := (Product{}).DiscountPct(); got != 0 {
		t.Fatalf("zero price: got %v, want 0", got)
	}
}
