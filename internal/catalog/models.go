package catalog

import "time"

type Product struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	PriceCents     int64     `json:"price_cents"`
	SalePriceCents int64     `json:"sale_price_cents,omitempty"` // 0 = no promo
	Stock          int       `json:"stock"`
	ImageURL       string    `json:"image_url,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

// EffectivePriceCents is the price a client actually pays: the promo price
// when one is set below the regular price, the regular price otherwise.
func (p Product) EffectivePriceCents() int64 {
	if p.SalePriceCents > 0 && p.SalePriceCents < p.PriceCents {
		return p.SalePriceCents
	}
	return p.PriceCents
}

// DiscountPct is the promo discount in percent, 0 when no promo applies.
func (p Product) DiscountPct() float64 {
	if p.PriceCents <= 0 || p.EffectivePriceCents() == p.PriceCents {
		return 0
	}
	return float64(p.PriceCents-p.SalePriceCents) / float64(p.PriceCents) * 100
}
