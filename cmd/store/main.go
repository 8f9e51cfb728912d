package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rachmadip/tokokita/internal/cart"
	"github.com/rachmadip/tokokita/internal/catalog"
	"github.com/rachmadip/tokokita/internal/config"
	"github.com/rachmadip/tokokita/internal/httpx"
	kafkax "github.com/rachmadip/tokokita/internal/kafka"
	"github.com/rachmadip/tokokita/internal/kv"
	"github.com/rachmadip/tokokita/internal/orders"
	"github.com/rachmadip/tokokita/internal/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// remote store
	if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// local store + broadcast
	rdb := kv.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024)
	prod.Start(ctx)

	catalogRepo := &catalog.Repo{DB: db}
	ordersRepo := &orders.Repo{DB: db}

	mgr := &cart.Manager{
		Store:       &kv.RedisStore{RDB: rdb},
		Bus:         &kv.RedisBroadcaster{RDB: rdb, Channel: kv.ChannelCartSync},
		Catalog:     catalogRepo,
		Orders:      ordersRepo,
		Events:      prod,
		StoreName:   cfg.StoreName,
		WANumber:    cfg.WANumber,
		ServiceName: cfg.ServiceName,
	}
	if err := mgr.Load(ctx); err != nil {
		log.Fatalf("cart load: %v", err)
	}
	go func() {
		if err := mgr.Watch(ctx); err != nil {
			log.Printf("cart watch: %v", err)
		}
	}()

	router := httpx.NewRouter()
	(&httpx.CartHandler{Mgr: mgr}).Register(router)
	(&httpx.AdminHandler{Catalog: catalogRepo, Orders: ordersRepo, Redis: rdb}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // tutup inbox -> flush & close writer
	prod.WaitClosed()
	cancel()
}
