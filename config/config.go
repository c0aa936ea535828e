package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// Settings holds the engine's tunables. Rates and intervals come from the
// environment so nothing pricing- or timing-related is hardcoded in the core.
type Settings struct {
	ListenAddr         string
	PublicBaseURL      string
	TaxRate            float64
	ServiceFee         float64
	CartTTL            time.Duration
	PollInterval       time.Duration
	RedirectDelay      time.Duration
	EscalationInterval time.Duration
	EventBuffer        int
	AuditTopic         string
	EventsExchange     string
	InstanceID         string
}

func Load() Settings {
	hostname, _ := os.Hostname()
	return Settings{
		ListenAddr:         getEnv("LISTEN_ADDR", ":8084"),
		PublicBaseURL:      getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		TaxRate:            getFloat("TAX_RATE", 0),
		ServiceFee:         getFloat("SERVICE_FEE", 0),
		CartTTL:            getDuration("CART_TTL", 7*24*time.Hour),
		PollInterval:       getDuration("POLL_INTERVAL", 4*time.Second),
		RedirectDelay:      getDuration("REDIRECT_DELAY", 1500*time.Millisecond),
		EscalationInterval: getDuration("ESCALATION_INTERVAL", 30*time.Second),
		EventBuffer:        getInt("EVENT_BUFFER", 32),
		AuditTopic:         getEnv("KAFKA_AUDIT_TOPIC", "order-status-audit"),
		EventsExchange:     getEnv("EVENTS_EXCHANGE", "orders.events"),
		InstanceID:         getEnv("INSTANCE_ID", hostname),
	}
}

func MustInitPostgres() *sql.DB {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")

	connStr := "host=" + dbHost + " port=" + dbPort + " user=" + dbUser +
		" password=" + dbPassword + " dbname=" + dbName + " sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_HOST") + ":" + os.Getenv("REDIS_PORT"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

// NewKafkaWriter returns nil when no broker is configured; audit publishing
// is then skipped.
func NewKafkaWriter(topic string) *kafka.Writer {
	broker := os.Getenv("KAFKA_BROKER")
	if broker == "" {
		return nil
	}
	return &kafka.Writer{
		Addr:     kafka.TCP(broker),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}

// RabbitURL is empty when the cross-instance event bridge is not configured.
func RabbitURL() string {
	return os.Getenv("RABBITMQ_URL")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
