// Package backoffice consumes order.placed events and brings the remote
// stock rows back in line with the values the storefront pushed. The
// checkout stock push is allowed to partially fail; this worker narrows
// that window after the fact.
package backoffice

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	kafkax "github.com/rachmadip/tokokita/internal/kafka"
	"github.com/rachmadip/tokokita/internal/kv"
	"github.com/rachmadip/tokokita/internal/orders"
)

// Stock is the slice of the remote catalog the reconciler needs.
type Stock interface {
	StockOf(ctx context.Context, id int64) (int, error)
	UpdateStock(ctx context.Context, id int64, stock int) error
}

type Service struct {
	Stock       Stock
	Redis       *redis.Client
	Producer    *kafkax.Producer // publishes order.stock.reconciled; nil disables
	ServiceName string
}

// HandleOrderPlaced is mounted as the consumer handler.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderPlaced {
		return nil // ignore
	}

	if s.Redis != nil {
		dkey := fmt.Sprintf(kv.KeyDedup, "backoffice", env.EventID)
		if exists, _ := kv.Exists(ctx, s.Redis, dkey); exists {
			return nil
		}
		_ = s.Redis.Set(ctx, dkey, "1", kv.TTLDedup).Err()
	}

	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}

	repushed, err := s.Reconcile(ctx, p)
	if err != nil {
		return err
	}
	if len(repushed) > 0 {
		log.Printf("order %d: repushed stock for products %v", p.OrderID, repushed)
	}

	if s.Redis != nil {
		statusKey := fmt.Sprintf(kv.KeyOrderStatus, p.OrderID)
		_ = s.Redis.Set(ctx, statusKey, `{"status":"pending"}`, kv.TTLStatusCache).Err()
	}

	s.publishReconciled(p.OrderID, repushed, env.TraceID)
	return nil
}

// Reconcile compares remote stock with the client's pushed values and
// rewrites rows that diverged. Reads run in parallel; last write wins, same
// as the rest of the stock model.
func (s *Service) Reconcile(ctx context.Context, p orders.OrderPlacedPayload) ([]int64, error) {
	var (
		mu       sync.Mutex
		repushed []int64
	)
	g, ctx := errgroup.WithContext(ctx)
	for id, want := range p.StockAfter {
		id, want := id, want
		g.Go(func() error {
			got, err := s.Stock.StockOf(ctx, id)
			if err != nil {
				return err
			}
			if got == want {
				return nil
			}
			if err := s.Stock.UpdateStock(ctx, id, want); err != nil {
				return err
			}
			mu.Lock()
			repushed = append(repushed, id)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(repushed, func(i, j int) bool { return repushed[i] < repushed[j] })
	return repushed, nil
}

func (s *Service) publishReconciled(orderID int64, repushed []int64, trace string) {
	if s.Producer == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventStockReconciled,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       trace,
		CorrelationID: string(orders.PartitionKey(orderID)),
		Payload:       kafkax.MustMarshal(orders.StockReconciledPayload{OrderID: orderID, Repushed: repushed}),
	}
	s.Producer.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventStockReconciled)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
