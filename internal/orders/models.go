package orders

import "time"

type Order struct {
	ID            int64     `json:"id"`
	ClientName    string    `json:"client_name"`
	ClientContact string    `json:"client_contact"`
	Status        Status    `json:"status"` // lihat status.go
	CreatedAt     time.Time `json:"created_at"`
}

// Item is a snapshot row: name and price are copied from the product at
// checkout time so later catalog edits don't rewrite order history.
type Item struct {
	ID          int64  `json:"id,omitempty"`
	OrderID     int64  `json:"order_id,omitempty"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Qty         int    `json:"qty"`
	PriceCents  int64  `json:"price_cents"`
}

func (it Item) SubtotalCents() int64 { return int64(it.Qty) * it.PriceCents }

func Total(items []Item) int64 {
	var total int64
	for _, it := range items {
		total += it.SubtotalCents()
	}
	return total
}
