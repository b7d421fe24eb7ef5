/**
 * @description
 * This is the main entry point for the MigRent backend. It is responsible for
 * initializing all components of the service, including configuration, database
 * connection, external API clients, message brokers, repositories, the core
 * application services, and the HTTP server. It wires everything together and
 * starts the service.
 *
 * @dependencies
 * - log, net/http: Standard Go libraries for logging and HTTP server functionality.
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - github.com/joho/godotenv: Loads .env files for local development.
 * - internal/api, internal/app, internal/config, internal/store: Internal packages for the service.
 * - pkg/authclient, pkg/mailclient, pkg/stripeclient, pkg/rabbitmq: External collaborator clients.
 */

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/realmigrentau/migrent-ai/internal/api"
	"github.com/realmigrentau/migrent-ai/internal/app"
	"github.com/realmigrentau/migrent-ai/internal/config"
	"github.com/realmigrentau/migrent-ai/internal/domain"
	"github.com/realmigrentau/migrent-ai/internal/store"
	"github.com/realmigrentau/migrent-ai/pkg/authclient"
	"github.com/realmigrentau/migrent-ai/pkg/mailclient"
	mqclient "github.com/realmigrentau/migrent-ai/pkg/rabbitmq"
	"github.com/realmigrentau/migrent-ai/pkg/stripeclient"
)

func main() {
	// Load a local .env file when present; in deployment everything comes
	// from real environment variables.
	_ = godotenv.Load()

	// Load application configuration from environment variables.
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config validation failed\" err=%v", err)
	}

	log.Printf("level=info component=bootstrap msg=\"starting migrent backend\" port=%s", cfg.ServerPort)

	// Establish a connection pool to the PostgreSQL database.
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database url parse failed\" err=%v", err)
	}

	poolConfig.MaxConns = 50
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	// Supabase pools connections through PgBouncer; prepared statement
	// caching conflicts with transaction pooling.
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database connection failed\" err=%v", err)
	}
	defer dbpool.Close()
	log.Println("level=info component=bootstrap msg=\"database connected\"")

	// Initialize the RabbitMQ producer to publish events, with a logging
	// fallback so a missing broker never blocks the request path.
	var publisher mqclient.Publisher
	rabbitProducer, err := mqclient.NewEventProducer(cfg.RabbitMQURL)
	if err != nil {
		log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; using fallback\" err=%v", err)
		publisher = &mqclient.EventProducerFallback{}
	} else {
		defer rabbitProducer.Close()
		publisher = rabbitProducer
		log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
	}

	// Optional Redis connection for distributed rate limiting.
	var redisClient *redis.Client
	if strings.TrimSpace(cfg.RedisURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"redis url missing; rate limiting disabled\" env=REDIS_URL")
	} else {
		redisOptions, parseErr := redis.ParseURL(cfg.RedisURL)
		if parseErr != nil {
			log.Printf("level=warn component=bootstrap msg=\"redis url parse failed; rate limiting disabled\" err=%v", parseErr)
		} else {
			redisClient = redis.NewClient(redisOptions)
			pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelPing()
			if pingErr := redisClient.Ping(pingCtx).Err(); pingErr != nil {
				log.Printf("level=warn component=bootstrap msg=\"redis ping failed; rate limiting disabled\" err=%v", pingErr)
				redisClient.Close()
				redisClient = nil
			} else {
				defer redisClient.Close()
				log.Println("level=info component=bootstrap msg=\"redis connected\"")
			}
		}
	}

	// External collaborator clients.
	identityClient := authclient.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	identityAdmin, err := authclient.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"identity admin client init failed\" err=%v", err)
	}
	paymentClient := stripeclient.NewClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	mailClient := mailclient.NewClient(cfg.ResendAPIKey, cfg.SupportEmail)

	// Initialize the data access layer (repository).
	repository := store.NewStore(dbpool)

	// Initialize the core application services with their dependencies.
	dealService := app.NewDealService(repository, paymentClient, publisher, app.CheckoutURLs{
		Success: cfg.CheckoutSuccessURL(),
		Cancel:  cfg.CheckoutCancelURL(),
	})
	listingService := app.NewListingService(repository)
	profileService := app.NewProfileService(repository)
	messageService := app.NewMessageService(repository)
	referralService := app.NewReferralService(repository)
	reportService := app.NewReportService(repository, publisher)
	accountService := app.NewAccountService(repository, identityAdmin)

	// Start the event consumer that writes the payment ledger and forwards
	// report/support notifications to the support inbox.
	if consumer, consumerErr := mqclient.NewConsumer(cfg.RabbitMQURL); consumerErr != nil {
		log.Printf("level=warn component=bootstrap msg=\"rabbitmq consumer unavailable; notifications disabled\" err=%v", consumerErr)
	} else {
		defer consumer.Close()
		notifier := app.NewNotifier(repository, mailClient)
		routingKeys := []string{
			domain.RoutingKeyPaymentRecorded,
			domain.RoutingKeyReportSubmitted,
			domain.RoutingKeySupportRequest,
		}
		go func() {
			if err := consumer.Consume(domain.EventsExchange, cfg.NotificationQueue, routingKeys, notifier.HandleEvent); err != nil {
				log.Printf("level=error component=bootstrap msg=\"event consumer stopped\" err=%v", err)
			}
		}()
		log.Println("level=info component=bootstrap msg=\"event consumer started\"")
	}

	// Initialize the API handlers and router.
	handlers := api.NewHandlers(
		dealService,
		listingService,
		profileService,
		messageService,
		referralService,
		reportService,
		accountService,
		identityClient,
		repository,
		paymentClient,
	)
	limiter := api.NewRateLimiter(nil)
	if redisClient != nil {
		limiter = api.NewRateLimiter(redisClient)
	}
	router := api.Routes(handlers, limiter, cfg.SupabaseJWTSecret)

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	log.Println("level=info component=http msg=\"shutdown complete\"")
}
