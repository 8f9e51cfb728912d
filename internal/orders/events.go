package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced     = "OrderPlaced"
	EventStockReconciled = "StockReconciled"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type PlacedItem struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Qty         int    `json:"qty"`
	PriceCents  int64  `json:"price_cents"`
}

// OrderPlacedPayload carries the checkout result plus the stock values the
// client pushed (its post-reservation mirror). The back-office re-checks the
// remote rows against StockAfter and re-pushes any that diverged — the
// checkout stock push is allowed to partially fail.
type OrderPlacedPayload struct {
	OrderID    int64         `json:"order_id"`
	ClientName string        `json:"client_name"`
	Items      []PlacedItem  `json:"items"`
	TotalCents int64         `json:"total_cents"`
	StockAfter map[int64]int `json:"stock_after"`
}

type StockReconciledPayload struct {
	OrderID  int64   `json:"order_id"`
	Repushed []int64 `json:"repushed,omitempty"` // product ids that had diverged
}
