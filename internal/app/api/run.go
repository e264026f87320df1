package api

import (
	"context"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	inventoryhandler "github.com/Apurer/rack-rental/internal/domains/inventory/adapters/http/handler"
	orderhandler "github.com/Apurer/rack-rental/internal/domains/orders/adapters/http/handler"
	orderworkflows "github.com/Apurer/rack-rental/internal/domains/orders/adapters/workflows"
	orderports "github.com/Apurer/rack-rental/internal/domains/orders/ports"
	paymenthandler "github.com/Apurer/rack-rental/internal/domains/payments/adapters/http/handler"
	orderactivities "github.com/Apurer/rack-rental/internal/platform/temporal/activities/orders"
	lifecycleworkflows "github.com/Apurer/rack-rental/internal/platform/temporal/workflows/orders"
)

// Run boots the order service HTTP API with observability, stores, ledgers and workflows wired.
func Run(ctx context.Context, cfg Config) error {
	const serviceName = "rack-order-service"
	instruments, shutdown, err := startObservability(ctx, serviceName)
	if err != nil {
		return err
	}
	defer shutdown()
	logger := instruments.Logger

	db, closeDB := openDatabase(ctx, cfg, logger)
	defer closeDB()
	runtime, cleanup, err := buildOrderRuntime(ctx, cfg, instruments, db)
	if err != nil {
		return err
	}
	defer cleanup()

	var lifecycle orderports.WorkflowOrchestrator = orderworkflows.NewInlineOrderWorkflows(runtime.service)
	if reason := runtime.inlineReason(cfg); reason != "" {
		logger.Info("running lifecycle transitions inline", slog.String("reason", reason))
	} else if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running lifecycle transitions inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		lifecycle = orderworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	apis := append([]routeRegistrar{orderhandler.NewOrderAPI(runtime.service, lifecycle)}, runtime.embedded...)
	return serve(ctx, cfg, newRouter(serviceName, apis...), logger)
}

// RunInventoryLedger boots the standalone inventory ledger service.
func RunInventoryLedger(ctx context.Context, cfg Config) error {
	const serviceName = "rack-inventory-ledger"
	instruments, shutdown, err := startObservability(ctx, serviceName)
	if err != nil {
		return err
	}
	defer shutdown()
	logger := instruments.Logger

	db, closeDB := openDatabase(ctx, cfg, logger)
	defer closeDB()
	service, err := buildInventoryService(ctx, cfg, logger, db)
	if err != nil {
		return err
	}
	return serve(ctx, cfg, newRouter(serviceName, inventoryhandler.NewPlaceAPI(service)), logger)
}

// RunPaymentLedger boots the standalone payment ledger service.
func RunPaymentLedger(ctx context.Context, cfg Config) error {
	const serviceName = "rack-payment-ledger"
	instruments, shutdown, err := startObservability(ctx, serviceName)
	if err != nil {
		return err
	}
	defer shutdown()
	logger := instruments.Logger

	db, closeDB := openDatabase(ctx, cfg, logger)
	defer closeDB()
	service := buildPaymentService(logger, db)
	return serve(ctx, cfg, newRouter(serviceName, paymenthandler.NewPaymentAPI(service)), logger)
}

// RunWorker hosts the order lifecycle workflow and activity on the Temporal task queue until ctx is done.
func RunWorker(ctx context.Context, cfg Config) error {
	const serviceName = "rack-order-worker"
	instruments, shutdown, err := startObservability(ctx, serviceName)
	if err != nil {
		return err
	}
	defer shutdown()
	logger := instruments.Logger

	db, closeDB := openDatabase(ctx, cfg, logger)
	defer closeDB()
	runtime, cleanup, err := buildOrderRuntime(ctx, cfg, instruments, db)
	if err != nil {
		return err
	}
	defer cleanup()
	if reason := runtime.inlineReason(cfg); reason != "" {
		return fmt.Errorf("worker does not share state with the order service: %s", reason)
	}

	temporalClient, err := connectTemporalClient(cfg, instruments)
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	activities := orderactivities.NewActivities(runtime.service)
	w := worker.New(temporalClient, lifecycleworkflows.OrderLifecycleTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(lifecycleworkflows.OrderTransitionWorkflow, workflow.RegisterOptions{Name: lifecycleworkflows.OrderTransitionWorkflowName})
	w.RegisterActivityWithOptions(activities.Transition, activity.RegisterOptions{Name: orderactivities.TransitionActivityName})

	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start Temporal worker: %w", err)
	}
	logger.Info("worker listening",
		slog.String("taskQueue", lifecycleworkflows.OrderLifecycleTaskQueue),
		slog.String("namespace", cfg.TemporalNamespace),
	)
	<-ctx.Done()
	w.Stop()
	logger.Info("Temporal worker stopped")
	return nil
}
