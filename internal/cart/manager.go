// Package cart owns the client-side cart and its product stock mirror.
// The two always move together: reserving one unit decrements the mirror,
// releasing restores it, so mirror_stock + reserved qty stays equal to the
// stock as first fetched. State is persisted to the client's durable store
// after every mutation and broadcast to the other open views.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/rachmadip/tokokita/internal/catalog"
	kafkax "github.com/rachmadip/tokokita/internal/kafka"
	"github.com/rachmadip/tokokita/internal/kv"
	"github.com/rachmadip/tokokita/internal/orders"
	"github.com/rachmadip/tokokita/internal/wa"
)

var (
	ErrNotReady      = errors.New("cart not loaded yet")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrMissingClient = errors.New("client name and contact are required")
)

// Item is a product with a reserved quantity. Qty is always >= 1; an item
// hitting zero is removed, not kept.
type Item struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	ImageURL   string `json:"image_url,omitempty"`
	Qty        int    `json:"qty"`
}

// CatalogSource is the remote product table, used for the first-run mirror
// fetch and the checkout stock push.
type CatalogSource interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int) error
}

// OrderStore is the remote order table.
type OrderStore interface {
	InsertOrder(ctx context.Context, clientName, clientContact string) (orders.Order, error)
	InsertItems(ctx context.Context, orderID int64, items []orders.Item) error
}

// Publisher is satisfied by kafka.Producer; nil disables event publishing.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Manager struct {
	Store   kv.Store
	Bus     kv.Broadcaster
	Catalog CatalogSource
	Orders  OrderStore
	Events  Publisher

	StoreName   string
	WANumber    string
	ServiceName string

	mu        sync.Mutex
	cart      []Item
	mirror    []catalog.Product
	ready     bool
	rawCart   string
	rawMirror string
}

// Load restores cart and mirror from the durable store. A missing mirror is
// fetched from the remote catalog once and persisted; a failed fetch loads an
// empty mirror without surfacing an error. Corrupt blobs are treated as
// empty. No mutation is valid before Load returns.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ready {
		return nil
	}

	raw, ok, err := m.Store.Get(ctx, kv.KeyCart)
	if err != nil {
		return err
	}
	if ok {
		m.cart = decodeCart(raw)
		m.rawCart = raw
	}

	raw, ok, err = m.Store.Get(ctx, kv.KeyProducts)
	if err != nil {
		return err
	}
	if ok {
		m.mirror = decodeMirror(raw)
		m.rawMirror = raw
	} else {
		ps, err := m.Catalog.ListProducts(ctx)
		if err != nil {
			log.Printf("initial product fetch: %v", err)
			ps = nil
		}
		m.mirror = ps
		m.persistLocked(ctx)
	}

	m.ready = true
	return nil
}

func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

// Items returns a copy of the cart.
func (m *Manager) Items() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Item, len(m.cart))
	copy(out, m.cart)
	return out
}

// Mirror returns a copy of the product stock mirror.
func (m *Manager) Mirror() []catalog.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]catalog.Product, len(m.mirror))
	copy(out, m.mirror)
	return out
}

// Increase reserves one unit: mirror stock -1, item qty +1. Unknown product
// or zero mirrored stock is a silent no-op — that is the backpressure
// against overselling from the visible stock number.
func (m *Manager) Increase(ctx context.Context, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return ErrNotReady
	}

	p := m.findMirror(productID)
	if p == nil || p.Stock <= 0 {
		return nil
	}
	p.Stock--

	if it := m.findItem(productID); it != nil {
		it.Qty++
	} else {
		m.cart = append(m.cart, Item{
			ProductID:  p.ID,
			Name:       p.Name,
			PriceCents: p.EffectivePriceCents(),
			ImageURL:   p.ImageURL,
			Qty:        1,
		})
	}
	m.persistLocked(ctx)
	return nil
}

// Decrease releases one unit; at qty 1 the item is removed and its full
// reservation restored.
func (m *Manager) Decrease(ctx context.Context, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return ErrNotReady
	}

	it := m.findItem(productID)
	if it == nil {
		return nil
	}
	if it.Qty <= 1 {
		m.restoreLocked(productID, it.Qty)
		m.deleteItem(productID)
	} else {
		it.Qty--
		m.restoreLocked(productID, 1)
	}
	m.persistLocked(ctx)
	return nil
}

// Remove releases the item's entire reservation and drops it from the cart.
func (m *Manager) Remove(ctx context.Context, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return ErrNotReady
	}

	it := m.findItem(productID)
	if it == nil {
		return nil
	}
	m.restoreLocked(productID, it.Qty)
	m.deleteItem(productID)
	m.persistLocked(ctx)
	return nil
}

// Clear empties the cart and restores every reservation. Idempotent.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return ErrNotReady
	}
	m.clearLocked(ctx)
	return nil
}

func (m *Manager) clearLocked(ctx context.Context) {
	for _, it := range m.cart {
		m.restoreLocked(it.ProductID, it.Qty)
	}
	m.cart = nil
	m.persistLocked(ctx)
}

type CheckoutResult struct {
	Order  orders.Order `json:"order"`
	Total  int64        `json:"total_cents"`
	WALink string       `json:"wa_link"`
}

// Checkout runs the order pipeline:
//
//  1. insert the pending order — abort on failure, cart untouched;
//  2. insert one item row per cart item — abort on failure (the pending
//     order stays behind without items, an accepted inconsistency);
//  3. push the post-reservation mirror stock per product — failures are
//     logged, the flow continues;
//  4. compose the WhatsApp summary link;
//  5. publish order.placed for the back-office reconciler;
//  6. clear the cart.
func (m *Manager) Checkout(ctx context.Context, clientName, clientContact string) (CheckoutResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return CheckoutResult{}, ErrNotReady
	}
	if len(m.cart) == 0 {
		return CheckoutResult{}, ErrEmptyCart
	}
	if strings.TrimSpace(clientName) == "" || strings.TrimSpace(clientContact) == "" {
		return CheckoutResult{}, ErrMissingClient
	}

	o, err := m.Orders.InsertOrder(ctx, clientName, clientContact)
	if err != nil {
		return CheckoutResult{}, err
	}

	rows := make([]orders.Item, 0, len(m.cart))
	for _, it := range m.cart {
		rows = append(rows, orders.Item{
			OrderID:     o.ID,
			ProductID:   it.ProductID,
			ProductName: it.Name,
			Qty:         it.Qty,
			PriceCents:  it.PriceCents,
		})
	}
	if err := m.Orders.InsertItems(ctx, o.ID, rows); err != nil {
		return CheckoutResult{}, err
	}

	stockAfter := make(map[int64]int, len(m.cart))
	for _, it := range m.cart {
		p := m.findMirror(it.ProductID)
		if p == nil {
			continue
		}
		stockAfter[it.ProductID] = p.Stock
		if err := m.Catalog.UpdateStock(ctx, it.ProductID, p.Stock); err != nil {
			// mirror sudah benar secara lokal; backoffice yang menyusul
			log.Printf("stock push product %d: %v", it.ProductID, err)
		}
	}

	lines := make([]wa.Line, 0, len(m.cart))
	for _, it := range m.cart {
		lines = append(lines, wa.Line{Name: it.Name, Qty: it.Qty, PriceCents: it.PriceCents})
	}
	link := wa.Link(m.WANumber, wa.Summary(m.StoreName, o.ID, clientName, clientContact, lines))

	m.publishPlaced(o, rows, stockAfter)
	m.clearLocked(ctx)

	return CheckoutResult{Order: o, Total: orders.Total(rows), WALink: link}, nil
}

func (m *Manager) publishPlaced(o orders.Order, rows []orders.Item, stockAfter map[int64]int) {
	if m.Events == nil {
		return
	}
	items := make([]orders.PlacedItem, 0, len(rows))
	for _, it := range rows {
		items = append(items, orders.PlacedItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Qty:         it.Qty,
			PriceCents:  it.PriceCents,
		})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      m.ServiceName,
		CorrelationID: strconv.FormatInt(o.ID, 10),
		Payload: kafkax.MustMarshal(orders.OrderPlacedPayload{
			OrderID:    o.ID,
			ClientName: o.ClientName,
			Items:      items,
			TotalCents: orders.Total(rows),
			StockAfter: stockAfter,
		}),
	}
	m.Events.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// Watch re-reads state whenever another view broadcasts a change. Runs until
// ctx is done.
func (m *Manager) Watch(ctx context.Context) error {
	ch, err := m.Bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	for range ch {
		if err := m.Refresh(ctx); err != nil {
			log.Printf("cart refresh: %v", err)
		}
	}
	return nil
}

// Refresh reloads cart and mirror from the durable store, replacing
// in-memory state only when the serialized blob differs — the guard that
// keeps broadcast feedback loops cheap.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return nil
	}

	raw, ok, err := m.Store.Get(ctx, kv.KeyCart)
	if err != nil {
		return err
	}
	if ok && raw != m.rawCart {
		m.cart = decodeCart(raw)
		m.rawCart = raw
	}

	raw, ok, err = m.Store.Get(ctx, kv.KeyProducts)
	if err != nil {
		return err
	}
	if ok && raw != m.rawMirror {
		m.mirror = decodeMirror(raw)
		m.rawMirror = raw
	}
	return nil
}

func (m *Manager) persistLocked(ctx context.Context) {
	m.rawCart = string(kafkax.MustMarshal(m.cart))
	m.rawMirror = string(kafkax.MustMarshal(m.mirror))
	if err := m.Store.Set(ctx, kv.KeyCart, m.rawCart); err != nil {
		log.Printf("persist cart: %v", err)
	}
	if err := m.Store.Set(ctx, kv.KeyProducts, m.rawMirror); err != nil {
		log.Printf("persist mirror: %v", err)
	}
	if err := m.Bus.Publish(ctx); err != nil {
		log.Printf("broadcast: %v", err)
	}
}

func (m *Manager) findMirror(productID int64) *catalog.Product {
	for i := range m.mirror {
		if m.mirror[i].ID == productID {
			return &m.mirror[i]
		}
	}
	return nil
}

func (m *Manager) findItem(productID int64) *Item {
	for i := range m.cart {
		if m.cart[i].ProductID == productID {
			return &m.cart[i]
		}
	}
	return nil
}

func (m *Manager) deleteItem(productID int64) {
	for i := range m.cart {
		if m.cart[i].ProductID == productID {
			m.cart = append(m.cart[:i], m.cart[i+1:]...)
			return
		}
	}
}

func (m *Manager) restoreLocked(productID int64, qty int) {
	if p := m.findMirror(productID); p != nil {
		p.Stock += qty
	}
}

func decodeCart(raw string) []Item {
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("corrupt cart blob, starting empty: %v", err)
		return nil
	}
	// qty di keranjang selalu >= 1; buang baris yang menyalahi itu
	kept := items[:0]
	for _, it := range items {
		if it.Qty <= 0 {
			log.Printf("dropping cart item %d with qty %d", it.ProductID, it.Qty)
			continue
		}
		kept = append(kept, it)
	}
	return kept
}

func decodeMirror(raw string) []catalog.Product {
	var ps []catalog.Product
	if err := json.Unmarshal([]byte(raw), &ps); err != nil {
		log.Printf("corrupt mirror blob, starting empty: %v", err)
		return nil
	}
	return ps
}
