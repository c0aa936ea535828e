package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"easyorder-core/config"
	httpapi "easyorder-core/internal/api/http"
	"easyorder-core/internal/audit"
	"easyorder-core/internal/cartstore"
	"easyorder-core/internal/channel"
	"easyorder-core/internal/escalation"
	"easyorder-core/internal/lifecycle"
	"easyorder-core/internal/receipt"
	"easyorder-core/internal/store"
)

func main() {
	settings := config.Load()

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	orders := store.NewPostgresOrderStore(db)
	if err := orders.EnsureSchema(); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}
	catalog := store.NewPostgresMenuCatalog(db)
	carts := cartstore.NewRedisCartStore(rdb, settings.CartTTL)

	hub := channel.NewHub()
	publisher := channel.Fanout{hub}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if url := config.RabbitURL(); url != "" {
		bridge, err := channel.NewBridge(url, settings.EventsExchange, settings.InstanceID)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ:", err)
		}
		defer bridge.Close()
		publisher = append(publisher, bridge)
		go func() {
			if err := bridge.Consume(ctx, hub); err != nil && ctx.Err() == nil {
				log.Printf("event bridge stopped: %v", err)
			}
		}()
	} else {
		log.Printf("Warning: RABBITMQ_URL not set, running without the event bridge")
	}

	var auditSink lifecycle.AuditSink
	if writer := config.NewKafkaWriter(settings.AuditTopic); writer != nil {
		defer writer.Close()
		auditSink = audit.NewKafkaPublisher(writer)
	} else {
		log.Printf("Warning: KAFKA_BROKER not set, skipping audit publishing")
	}

	manager := lifecycle.NewManager(orders, publisher, auditSink)

	tracker := escalation.NewTracker(settings.EscalationInterval)
	defer tracker.Close()

	handler := &httpapi.Handler{
		Orders:      orders,
		Catalog:     catalog,
		Carts:       carts,
		Lifecycle:   manager,
		Hub:         hub,
		Tracker:     tracker,
		QR:          receipt.DefaultQRGenerator{BaseURL: settings.PublicBaseURL},
		TaxRate:       settings.TaxRate,
		ServiceFee:    settings.ServiceFee,
		EventBuffer:   settings.EventBuffer,
		PollInterval:  settings.PollInterval,
		RedirectDelay: settings.RedirectDelay,
	}

	httpapi.StartServer(settings.ListenAddr, httpapi.NewRouter(handler))
}
