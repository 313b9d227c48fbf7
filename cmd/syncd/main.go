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
	"go.uber.org/zap"

	"github.com/ariefcatur/go-coffee-sync.git/internal/catalog"
	"github.com/ariefcatur/go-coffee-sync.git/internal/config"
	"github.com/ariefcatur/go-coffee-sync.git/internal/httpx"
	"github.com/ariefcatur/go-coffee-sync.git/internal/notify"
	"github.com/ariefcatur/go-coffee-sync.git/internal/orders"
	"github.com/ariefcatur/go-coffee-sync.git/internal/postgres"
	"github.com/ariefcatur/go-coffee-sync.git/internal/readiness"
	"github.com/ariefcatur/go-coffee-sync.git/internal/redisx"
	"github.com/ariefcatur/go-coffee-sync.git/internal/terminal"
	"github.com/ariefcatur/go-coffee-sync.git/internal/tokens"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer (session-layer event bridge)
	prod := notify.NewProducer(cfg.KafkaBrokers, notify.TopicCoffeeEvents, 1024)
	prod.Start(ctx)
	notifier := &notify.Notifier{Producer: prod, Service: cfg.ServiceName}
	presence := &notify.RedisPresence{Redis: rdb}

	// Terminal API client + components
	client := terminal.NewClient(cfg.TerminalAPIHost, cfg.TerminalAPIKey, logger.Named("terminal"))
	store := &catalog.Repo{DB: db}
	links := &tokens.Links{Redis: rdb}

	reconciler := catalog.NewReconciler(client, store, rdb, cfg.VendorID, logger.Named("catalog"))
	reconciler.Interval = cfg.CatalogSyncInterval
	reconciler.IncomingTTL = cfg.IncomingTTL
	reconciler.Events = notifier

	poller := orders.NewPoller(rdb, notifier, presence, logger.Named("orders"))
	poller.Interval = cfg.OrderPollInterval

	queue := orders.NewQueue(client, links, rdb, logger.Named("orders"))

	ready := readiness.NewCache(client, links, rdb, logger.Named("readiness"))
	ready.TTL = cfg.ReadinessTTL

	registration := tokens.NewRegistration(links, client, logger.Named("tokens"))
	registration.Notices = notifier

	// Satu cooperative stream untuk kedua periodic task; interval guard ada
	// di masing-masing Tick, jadi reconciliation dan polling tidak pernah
	// jalan barengan.
	go func() {
		heartbeat := time.NewTicker(5 * time.Second)
		defer heartbeat.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				reconciler.Tick(ctx)
				poller.Tick(ctx)
			}
		}
	}()

	// HTTP API untuk game server
	router := httpx.NewRouter()
	h := &httpx.CoffeeHandler{
		Queue:        queue,
		Readiness:    ready,
		Registration: registration,
		Store:        store,
		VendorID:     cfg.VendorID,
	}
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	cancel()          // stop tick loop + producer loop (flush sisa pesan)
	prod.WaitClosed() // tunggu flush selesai
}
