package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	inventoryclient "github.com/Apurer/rack-rental/internal/clients/http/inventory"
	paymentclient "github.com/Apurer/rack-rental/internal/clients/http/payments"
	"github.com/Apurer/rack-rental/internal/clients/http/restclient"
	inventoryhandler "github.com/Apurer/rack-rental/internal/domains/inventory/adapters/http/handler"
	inventorymemory "github.com/Apurer/rack-rental/internal/domains/inventory/adapters/memory"
	inventorypostgres "github.com/Apurer/rack-rental/internal/domains/inventory/adapters/persistence/postgres"
	"github.com/Apurer/rack-rental/internal/domains/inventory/adapters/seed"
	inventoryapp "github.com/Apurer/rack-rental/internal/domains/inventory/application"
	inventoryports "github.com/Apurer/rack-rental/internal/domains/inventory/ports"
	inventoryledger "github.com/Apurer/rack-rental/internal/domains/orders/adapters/external/inventory"
	paymentledger "github.com/Apurer/rack-rental/internal/domains/orders/adapters/external/payment"
	ordermemory "github.com/Apurer/rack-rental/internal/domains/orders/adapters/memory"
	orderobs "github.com/Apurer/rack-rental/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/rack-rental/internal/domains/orders/adapters/persistence/postgres"
	orderredis "github.com/Apurer/rack-rental/internal/domains/orders/adapters/persistence/redis"
	orderapp "github.com/Apurer/rack-rental/internal/domains/orders/application"
	orderports "github.com/Apurer/rack-rental/internal/domains/orders/ports"
	paymenthandler "github.com/Apurer/rack-rental/internal/domains/payments/adapters/http/handler"
	paymentmemory "github.com/Apurer/rack-rental/internal/domains/payments/adapters/memory"
	paymentpostgres "github.com/Apurer/rack-rental/internal/domains/payments/adapters/persistence/postgres"
	paymentapp "github.com/Apurer/rack-rental/internal/domains/payments/application"
	paymentports "github.com/Apurer/rack-rental/internal/domains/payments/ports"
	platformobservability "github.com/Apurer/rack-rental/internal/platform/observability"
	platformpostgres "github.com/Apurer/rack-rental/internal/platform/postgres"
	platformredis "github.com/Apurer/rack-rental/internal/platform/redis"
	"github.com/Apurer/rack-rental/internal/platform/server"
)

type routeRegistrar interface {
	RegisterRoutes(r gin.IRouter)
}

// orderRuntime is the order orchestrator plus the ledger APIs embedded in this process, if any.
// sharedStore is false when orders live only in this process's memory.
type orderRuntime struct {
	service     orderports.Service
	embedded    []routeRegistrar
	sharedStore bool
}

// inlineReason explains why transitions cannot be handed to a Temporal worker, or returns "" when they can.
// A worker is a separate process, so it must see the same orders and the same ledgers as the API.
func (r *orderRuntime) inlineReason(cfg Config) string {
	switch {
	case cfg.TemporalDisabled:
		return "TEMPORAL_DISABLED is set"
	case !r.sharedStore:
		return "order store is in process memory"
	case len(r.embedded) > 0:
		return "INVENTORY_LEDGER_URL and PAYMENT_LEDGER_URL must both be set"
	default:
		return ""
	}
}

func startObservability(ctx context.Context, serviceName string) (*platformobservability.Instruments, func(), error) {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	return instruments, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}, nil
}

// openDatabase only dials when a DSN is configured; a nil DB means in-memory stores.
func openDatabase(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		return nil, func() {}
	}
	return platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
}

func buildOrderRuntime(ctx context.Context, cfg Config, instruments *platformobservability.Instruments, db *gorm.DB) (*orderRuntime, func(), error) {
	logger := instruments.Logger
	repo, shared, cleanupRepo := buildOrderRepository(ctx, cfg, logger, db)

	runtime := &orderRuntime{sharedStore: shared}
	httpClient := restclient.NewHTTPClient(cfg.CollaboratorTimeout)

	var inventory orderports.InventoryLedger
	if cfg.InventoryLedgerURL != "" {
		c, err := inventoryclient.NewInventoryClient(cfg.InventoryLedgerURL, httpClient)
		if err != nil {
			cleanupRepo()
			return nil, nil, fmt.Errorf("inventory ledger client: %w", err)
		}
		inventory = inventoryledger.NewHTTPLedger(c)
		logger.Info("inventory ledger configured", slog.String("url", cfg.InventoryLedgerURL))
	} else {
		service, err := buildInventoryService(ctx, cfg, logger, db)
		if err != nil {
			cleanupRepo()
			return nil, nil, err
		}
		inventory = inventoryledger.NewLocalLedger(service)
		runtime.embedded = append(runtime.embedded, inventoryhandler.NewPlaceAPI(service))
		logger.Warn("INVENTORY_LEDGER_URL not set, using embedded inventory ledger")
	}

	var payments orderports.PaymentLedger
	if cfg.PaymentLedgerURL != "" {
		c, err := paymentclient.NewPaymentClient(cfg.PaymentLedgerURL, httpClient)
		if err != nil {
			cleanupRepo()
			return nil, nil, fmt.Errorf("payment ledger client: %w", err)
		}
		payments = paymentledger.NewHTTPLedger(c)
		logger.Info("payment ledger configured", slog.String("url", cfg.PaymentLedgerURL))
	} else {
		service := buildPaymentService(logger, db)
		payments = paymentledger.NewLocalLedger(service)
		runtime.embedded = append(runtime.embedded, paymenthandler.NewPaymentAPI(service))
		logger.Warn("PAYMENT_LEDGER_URL not set, using embedded payment ledger")
	}

	core := orderapp.NewService(
		repo,
		inventory,
		payments,
		orderapp.WithLogger(logger),
		orderapp.WithCollaboratorTimeout(cfg.CollaboratorTimeout),
		orderapp.WithMaxAttempts(cfg.MaxAttempts),
	)
	runtime.service = orderobs.New(
		core,
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return runtime, cleanupRepo, nil
}

func buildOrderRepository(ctx context.Context, cfg Config, logger *slog.Logger, db *gorm.DB) (orderports.Repository, bool, func()) {
	switch cfg.OrderStore {
	case StorePostgres:
		if db == nil {
			logger.Warn("postgres order store unavailable, falling back to in-memory order repository")
			return ordermemory.NewRepository(), false, func() {}
		}
		logger.Info("order repository configured with postgres")
		return orderpostgres.NewRepository(db), true, func() {}
	case StoreRedis:
		rdb, err := platformredis.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("failed to connect to redis, falling back to in-memory order repository", slog.String("error", err.Error()))
			return ordermemory.NewRepository(), false, func() {}
		}
		logger.Info("order repository configured with redis", slog.String("addr", cfg.RedisAddr))
		return orderredis.NewRepository(rdb), true, func() { _ = rdb.Close() }
	default:
		logger.Info("order repository configured in memory")
		return ordermemory.NewRepository(), false, func() {}
	}
}

func buildInventoryService(ctx context.Context, cfg Config, logger *slog.Logger, db *gorm.DB) (inventoryports.Service, error) {
	var repo inventoryports.Repository = inventorymemory.NewRepository()
	if db != nil {
		repo = inventorypostgres.NewRepository(db)
	}
	places, err := seed.LoadFile(cfg.InventorySeedFile)
	if err != nil {
		return nil, fmt.Errorf("inventory seed: %w", err)
	}
	seeded, err := seed.Apply(ctx, repo, places)
	if err != nil {
		return nil, fmt.Errorf("inventory seed: %w", err)
	}
	if seeded > 0 {
		logger.Info("inventory seeded", slog.Int("places", seeded))
	}
	return inventoryapp.NewService(repo, inventoryapp.WithLogger(logger)), nil
}

func buildPaymentService(logger *slog.Logger, db *gorm.DB) paymentports.Service {
	var repo paymentports.Repository = paymentmemory.NewRepository()
	if db != nil {
		repo = paymentpostgres.NewRepository(db)
	}
	return paymentapp.NewService(repo, paymentapp.WithLogger(logger))
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func newRouter(serviceName string, apis ...routeRegistrar) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	for _, api := range apis {
		api.RegisterRoutes(router)
	}
	return router
}

func serve(ctx context.Context, cfg Config, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.Serve(ctx, srv, logger)
}
