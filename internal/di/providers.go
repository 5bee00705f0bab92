package di

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"SolPulse/internal/analysis"
	"SolPulse/internal/domain/models"
	"SolPulse/internal/domain/repository"
	"SolPulse/internal/handler/api"
	mid "SolPulse/internal/middleware"
	internalrepo "SolPulse/internal/repository"
	"SolPulse/internal/scraper"
	"SolPulse/internal/service/binance"
	icache "SolPulse/internal/service/cache"
	"SolPulse/internal/service/notify"
	"SolPulse/internal/service/sentiment"
	"SolPulse/internal/usecase"
	pkgch "SolPulse/pkg/clickhouse"
	"SolPulse/pkg/config"
	pkgkafka "SolPulse/pkg/kafka"
	applogger "SolPulse/pkg/logger"
	"SolPulse/pkg/metrics"
	"SolPulse/pkg/server"
)

// ProvideLogger creates the application logger. When Kafka is enabled,
// repeated error logs are aggregated and shipped to the logs topic.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	log, err := applogger.New(&applogger.Config{
		Level:  "info",
		Format: format,
		Output: "stdout",
	})
	if err != nil {
		return nil, err
	}

	if producer != nil {
		topic := cfg.Kafka.LogsTopic
		if topic == "" {
			topic = "solpulse_error_logs"
		}
		log.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          topic,
			Publisher:      logPublisher{producer},
		})
	}
	return log, nil
}

// logPublisher adapts the Kafka producer to the log collector's
// publisher interface.
type logPublisher struct {
	producer *pkgkafka.Producer
}

func (p logPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient connects to ClickHouse when it is the
// configured storage backend; otherwise it returns nil.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Storage.Type != "clickhouse" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideHistoryStore selects the configured history backend.
func ProvideHistoryStore(cfg *config.Config, chClient *pkgch.Client) (repository.HistoryStore, error) {
	switch cfg.Storage.Type {
	case "clickhouse":
		if chClient == nil {
			return nil, fmt.Errorf("clickhouse storage selected but client is nil")
		}
		return internalrepo.NewClickHouseHistoryStore(chClient.DB(), cfg.ClickHouse.Database+".predictions"), nil
	default:
		path := cfg.Storage.FilePath
		if path == "" {
			path = "data/prediction_history.json"
		}
		return internalrepo.NewFileHistoryStore(path, cfg.Storage.HistoryLimit), nil
	}
}

// ProvideKafkaProducer creates a Kafka producer when Kafka is enabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePredictionPublisher creates the Kafka publisher, or nil when
// Kafka is disabled.
func ProvidePredictionPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPredictionPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer when Kafka is enabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideNotifier creates the Telegram notifier, or nil when no
// delivery channel is configured.
func ProvideNotifier(cfg *config.Config, log *applogger.Logger) (repository.Notifier, error) {
	if cfg.Telegram.Token == "" && !cfg.Telegram.DryRun {
		return nil, nil
	}
	return notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatIDs, cfg.Telegram.DryRun, log)
}

// ProvideAlertsHandler registers the Kafka handler delivering alerts.
func ProvideAlertsHandler(cfg *config.Config, notifier repository.Notifier, m repository.Metrics) *usecase.PredictionAlertsHandler {
	if !cfg.Kafka.Enabled || notifier == nil {
		return nil
	}
	return usecase.NewPredictionAlertsHandler(cfg.Kafka.Topic, notifier, m)
}

// ProvideScrapers builds the source scraper set.
func ProvideScrapers(cfg *config.Config, log *applogger.Logger) *scraper.Set {
	return scraper.NewSet(cfg, log)
}

// ProvideKeywordScorer builds the keyword sentiment scorer.
func ProvideKeywordScorer(cfg *config.Config) *analysis.KeywordScorer {
	return analysis.NewKeywordScorer(cfg.Keywords.Bullish, cfg.Keywords.Bearish)
}

// ProvideEngine builds the prediction engine.
func ProvideEngine(cfg *config.Config) *analysis.Engine {
	return analysis.NewEngine(cfg)
}

// ProvideSentimentClient builds the optional NLP sentiment client.
func ProvideSentimentClient(cfg *config.Config) *sentiment.Client {
	return sentiment.NewClient(cfg)
}

// ProvidePipeline builds the analysis pipeline.
func ProvidePipeline(
	scrapers *scraper.Set,
	engine *analysis.Engine,
	keywords *analysis.KeywordScorer,
	sc *sentiment.Client,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.Pipeline {
	return usecase.NewPipeline(scrapers, engine, keywords, sc, m, log)
}

// ProvideResultChecker builds the outcome checker.
func ProvideResultChecker(
	history repository.HistoryStore,
	scrapers *scraper.Set,
	cfg *config.Config,
	log *applogger.Logger,
) *usecase.ResultChecker {
	return usecase.NewResultChecker(history, scrapers.Price, cfg.Tracker.Symbol, cfg.Tracker.NeutralBandPct, log)
}

// ProvideRunManager builds the single-flight run manager. When Kafka is
// enabled the alerts consumer owns delivery, so the manager does not
// notify directly as well.
func ProvideRunManager(
	pipeline *usecase.Pipeline,
	checker *usecase.ResultChecker,
	history repository.HistoryStore,
	pub repository.Publisher,
	notifier repository.Notifier,
	m repository.Metrics,
	cfg *config.Config,
	log *applogger.Logger,
) *usecase.RunManager {
	direct := notifier
	if cfg.Kafka.Enabled && pub != nil {
		direct = nil
	}
	return usecase.NewRunManager(pipeline, checker, history, pub, direct, m, log)
}

// ProvideQuickCache selects the quick-data cache backend.
func ProvideQuickCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideQuickData builds the quick-data use case.
func ProvideQuickData(
	scrapers *scraper.Set,
	c icache.BytesCache,
	cfg *config.Config,
	log *applogger.Logger,
) *usecase.QuickDataUseCase {
	return usecase.NewQuickDataUseCase(scrapers, c, cfg.Cache.QuickTTL, log)
}

// ProvideMarketStream creates the Binance WebSocket stream, or nil when
// streaming is disabled.
func ProvideMarketStream(cfg *config.Config) repository.MarketStream {
	if !cfg.Stream.Enabled {
		return nil
	}
	symbols := cfg.Stream.Symbols
	if len(symbols) == 0 {
		symbols = []string{cfg.Tracker.Symbol}
	}
	return binance.New(
		cfg.Stream.WebSocketURL,
		symbols,
		cfg.Stream.ReconnectDelay,
		cfg.Stream.PingInterval,
	)
}

// ProvidePriceCollector wires the stream through the realtime pipeline.
func ProvidePriceCollector(
	stream repository.MarketStream,
	m repository.Metrics,
) *usecase.PriceCollector {
	if stream == nil {
		return nil
	}
	proc := usecase.NewTickProcessor(usecase.NewLivePrices(), m)
	pipe := mid.NewRealtimePipeline(proc, m,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewPriceCollector(stream, proc, m, pipe)
}

// ProvideScheduler builds the cron scheduler, or nil when disabled.
func ProvideScheduler(cfg *config.Config, runs *usecase.RunManager, log *applogger.Logger) (*cron.Cron, error) {
	if !cfg.Scheduler.Enabled {
		return nil, nil
	}
	spec := cfg.Scheduler.Cron
	if spec == "" {
		spec = "0 * * * *"
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if res := runs.Trigger(context.Background()); res.Result == models.TriggerAlreadyRunning {
			log.Warn("scheduled run skipped, previous run still active")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	return c, nil
}

// ProvideDashboardHandler builds the REST API handler.
func ProvideDashboardHandler(
	log *applogger.Logger,
	runs *usecase.RunManager,
	quick *usecase.QuickDataUseCase,
	history repository.HistoryStore,
	scrapers *scraper.Set,
) *api.DashboardHandler {
	return api.NewDashboardHandler(log, runs, quick, history, scrapers.Price)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	handler *api.DashboardHandler,
	history repository.HistoryStore,
	collector *usecase.PriceCollector,
	consumer *pkgkafka.Consumer,
	alerts *usecase.PredictionAlertsHandler,
	chClient *pkgch.Client,
	sched *cron.Cron,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	return server.New(cfg, log, handler, history, collector, consumer, alerts, chClient, sched)
}
