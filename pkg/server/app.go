package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	domrepo "SolPulse/internal/domain/repository"
	"SolPulse/internal/handler/api"
	"SolPulse/internal/usecase"
	pkgch "SolPulse/pkg/clickhouse"
	"SolPulse/pkg/config"
	xhttp "SolPulse/pkg/http"
	pkgkafka "SolPulse/pkg/kafka"
	applogger "SolPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    *api.DashboardHandler
	history    domrepo.HistoryStore
	collector  *usecase.PriceCollector
	consumer   *pkgkafka.Consumer
	alerts     *usecase.PredictionAlertsHandler
	chClient   *pkgch.Client
	sched      *cron.Cron
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler *api.DashboardHandler,
	history domrepo.HistoryStore,
	collector *usecase.PriceCollector,
	consumer *pkgkafka.Consumer,
	alerts *usecase.PredictionAlertsHandler,
	chClient *pkgch.Client,
	sched *cron.Cron,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		handler:   handler,
		history:   history,
		collector: collector,
		consumer:  consumer,
		alerts:    alerts,
		chClient:  chClient,
		sched:     sched,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.history.Init(ctx); err != nil {
		a.log.Error("history init failed", applogger.Error(err))
		return err
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithRequestMetrics(a.log, time.Second),
	)

	// Start the live price collector if streaming is enabled.
	if a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				a.log.Error("price collector error", applogger.Error(err))
			}
		}()
		a.log.Info("price collector started", applogger.Strings("symbols", a.cfg.Stream.Symbols))
	}

	// Start the alerts consumer if Kafka is configured.
	if a.consumer != nil && a.alerts != nil {
		a.consumer.RegisterHandler(a.alerts)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started", applogger.String("topic", a.alerts.Topic()))
	}

	if a.sched != nil {
		a.sched.Start()
		a.log.Info("scheduler started", applogger.String("cron", a.cfg.Scheduler.Cron))
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.sched != nil {
		stopCtx := a.sched.Stop()
		<-stopCtx.Done()
	}

	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			a.log.Warn("price collector stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if err := a.history.Close(); err != nil {
		a.log.Warn("history close error", applogger.Error(err))
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	// Flush any aggregated error logs before exit.
	a.log.RemoveCollector()

	a.log.Info("shutdown complete")
	return nil
}
