package backoffice_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/rachmadip/tokokita/internal/backoffice"
	kafkax "github.com/rachmadip/tokokita/internal/kafka"
	"github.com/rachmadip/tokokita/internal/orders"
)

type stockMock struct {
	mu      sync.Mutex
	remote  map[int64]int
	pushes  []int64
	readErr error
}

func (m *stockMock) StockOf(ctx context.Context, id int64) (int, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remote[id], nil
}

func (m *stockMock) UpdateStock(ctx context.Context, id int64, stock int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remote[id] = stock
	m.pushes = append(m.pushes, id)
	return nil
}

func TestReconcileRepushesDivergedOnly(t *testing.T) {
	// product 1 diverged (checkout push failed), product 2 matches
	stock := &stockMock{remote: map[int64]int{1: 5, 2: 2}}
	svc := &backoffice.Service{Stock: stock}

	repushed, err := svc.Reconcile(context.Background(), orders.OrderPlacedPayload{
		OrderID:    42,
		StockAfter: map[int64]int{1: 3, 2: 2},
	})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(repushed) != 1 || repushed[0] != 1 {
		t.Fatalf("repushed: got %v, want [1]", repushed)
	}
	if stock.remote[1] != 3 {
		t.Fatalf("remote stock for 1: got %d, want 3", stock.remote[1])
	}
	if stock.remote[2] != 2 {
		t.Fatalf("remote stock for 2 changed: %d", stock.remote[2])
	}
}

func TestReconcileReadError(t *testing.T) {
	stock := &stockMock{remote: map[int64]int{1: 5}, readErr: errors.New("db down")}
	svc := &backoffice.Service{Stock: stock}

	if _, err := svc.Reconcile(context.Background(), orders.OrderPlacedPayload{
		StockAfter: map[int64]int{1: 3},
	}); err == nil {
		t.Fatal("expected error")
	}
	if len(stock.pushes) != 0 {
		t.Fatalf("pushed despite read error: %v", stock.pushes)
	}
}

func TestHandleOrderPlacedIgnoresOtherEvents(t *testing.T) {
	stock := &stockMock{remote: map[int64]int{1: 5}}
	svc := &backoffice.Service{Stock: stock}

	env := orders.Envelope{
		EventID:   "ev-1",
		EventType: orders.EventStockReconciled, // not ours
		Payload:   kafkax.MustMarshal(orders.StockReconciledPayload{OrderID: 1}),
	}
	if err := svc.HandleOrderPlaced(context.Background(), kafkago.Message{Value: kafkax.MustMarshal(env)}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(stock.pushes) != 0 {
		t.Fatalf("stock touched for foreign event: %v", stock.pushes)
	}
}

func TestHandleOrderPlacedReconciles(t *testing.T) {
	stock := &stockMock{remote: map[int64]int{1: 5}}
	svc := &backoffice.Service{Stock: stock}

	env := orders.Envelope{
		EventID:   "ev-2",
		EventType: orders.EventOrderPlaced,
		Payload: kafkax.MustMarshal(orders.OrderPlacedPayload{
			OrderID:    9,
			StockAfter: map[int64]int{1: 4},
		}),
	}
	if err := svc.HandleOrderPlaced(context.Background(), kafkago.Message{Value: kafkax.MustMarshal(env)}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if stock.remote[1] != 4 {
		t.Fatalf("remote stock: got %d, want 4", stock.remote[1])
	}
}

func TestHandleOrderPlacedBadEnvelope(t *testing.T) {
	svc := &backoffice.Service{Stock: &stockMock{remote: map[int64]int{}}}
	if err := svc.HandleOrderPlaced(context.Background(), kafkago.Message{Value: []byte("{broken")}); err == nil {
		t.Fatal("expected decode error")
	}
}
