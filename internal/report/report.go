// Package report derives the back-office sales figures from order rows:
// totals, per-status split, per-product ranking.
package report

import (
	"sort"

	"github.com/rachmadip/tokokita/internal/orders"
)

type StatusBreakdown struct {
	Count        int     `json:"count"`
	Share        float64 `json:"share"` // percentage of all orders
	RevenueCents int64   `json:"revenue_cents"`
}

type ProductSales struct {
	ProductID    int64  `json:"product_id"`
	Name         string `json:"name"`
	Qty          int    `json:"qty"`
	RevenueCents int64  `json:"revenue_cents"`
}

type Summary struct {
	Orders       int                               `json:"orders"`
	ItemsSold    int                               `json:"items_sold"`
	RevenueCents int64                             `json:"revenue_cents"` // paid orders
	PendingCents int64                             `json:"pending_cents"`
	ByStatus     map[orders.Status]StatusBreakdown `json:"by_status"`
	Products     []ProductSales                    `json:"products"` // cancelled excluded
}

// Build aggregates joined order/item lines. Revenue counts paid orders only;
// the product ranking excludes cancelled orders and sorts by revenue.
func Build(lines []orders.SalesLine) Summary {
	s := Summary{ByStatus: make(map[orders.Status]StatusBreakdown)}

	seen := make(map[int64]orders.Status)
	perProduct := make(map[int64]*ProductSales)

	for _, l := range lines {
		seen[l.OrderID] = l.Status
		sub := int64(l.Qty) * l.PriceCents

		b := s.ByStatus[l.Status]
		b.RevenueCents += sub
		s.ByStatus[l.Status] = b

		switch l.Status {
		case orders.StatusPaid:
			s.RevenueCents += sub
		case orders.StatusPending:
			s.PendingCents += sub
		}

		if l.Status != orders.StatusCancelled {
			s.ItemsSold += l.Qty
			p, ok := perProduct[l.ProductID]
			if !ok {
				p = &ProductSales{ProductID: l.ProductID, Name: l.ProductName}
				perProduct[l.ProductID] = p
			}
			p.Qty += l.Qty
			p.RevenueCents += sub
		}
	}

	s.Orders = len(seen)
	counts := make(map[orders.Status]int)
	for _, st := range seen {
		counts[st]++
	}
	for st, n := range counts {
		b := s.ByStatus[st]
		b.Count = n
		if s.Orders > 0 {
			b.Share = float64(n) / float64(s.Orders) * 100
		}
		s.ByStatus[st] = b
	}

	s.Products = make([]ProductSales, 0, len(perProduct))
	for _, p := range perProduct {
		s.Products = append(s.Products, *p)
	}
	sort.Slice(s.Products, func(i, j int) bool {
		if s.Products[i].RevenueCents != s.Products[j].RevenueCents {
			return s.Products[i].RevenueCents > s.Products[j].RevenueCents
		}
		return s.Products[i].ProductID < s.Products[j].ProductID
	})
	return s
}
