package dependency_container

import (
	"fmt"

	"github.com/NeuralTrust/ContentGuard/pkg/app/classifier"
	"github.com/NeuralTrust/ContentGuard/pkg/app/guard"
	"github.com/NeuralTrust/ContentGuard/pkg/config"
	domainTelemetry "github.com/NeuralTrust/ContentGuard/pkg/domain/telemetry"
	"github.com/NeuralTrust/ContentGuard/pkg/domain/verdict"
	handlers "github.com/NeuralTrust/ContentGuard/pkg/handlers/http"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/cache"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/plugins"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/plugins/content_safety"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/plugins/request_size_limiter"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/repository"
	infraTelemetry "github.com/NeuralTrust/ContentGuard/pkg/infra/telemetry"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/telemetry/kafka"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/telemetry/logs"
	"github.com/NeuralTrust/ContentGuard/pkg/moderation"
	"github.com/NeuralTrust/ContentGuard/pkg/server/middleware"
	"github.com/sirupsen/logrus"
)

type Container struct {
	Cache               cache.Client
	Engine              *moderation.Engine
	VerdictRepository   verdict.Repository
	PluginManager       plugins.Manager
	MetricsWorker       metrics.Worker
	Exporters           []domainTelemetry.Exporter
	Classifier          classifier.Classifier
	Guard               guard.Guard
	HandlerTransport    *handlers.HandlerTransport
	MiddlewareTransport *middleware.Transport
}

type ContainerDI struct {
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewContainer(di ContainerDI) (*Container, error) {
	cfg := di.Cfg

	patterns, err := cfg.Moderation.PatternSet()
	if err != nil {
		return nil, fmt.Errorf("failed to build pattern set: %w", err)
	}
	engine := moderation.NewEngine(
		moderation.WithPatternSet(patterns),
		moderation.WithPlaceholder(cfg.Moderation.Placeholder),
	)

	// verdict store
	var (
		cacheInstance cache.Client
		verdictRepo   verdict.Repository
	)
	if cfg.Redis.Enabled {
		cacheInstance, err = cache.NewClient(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS:      cfg.Redis.TLS,
		}, di.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cache: %v", err)
		}
		verdictRepo = repository.NewVerdictRepository(cacheInstance, cfg.Redis.VerdictTTL)
	} else {
		di.Logger.Info("verdict store disabled")
	}

	// telemetry
	exporterLocator := infraTelemetry.NewExporterLocator(
		infraTelemetry.WithExporter(kafka.ExporterName, kafka.NewKafkaExporter()),
		infraTelemetry.WithExporter(logs.ExporterName, logs.NewLogsExporter(di.Logger)),
	)
	exporterConfigs := ExporterConfigs(cfg)
	for _, ec := range exporterConfigs {
		if err := exporterLocator.ValidateExporter(ec); err != nil {
			closeCache(cacheInstance)
			return nil, fmt.Errorf("invalid telemetry exporter: %w", err)
		}
	}
	exporters, err := exporterLocator.Build(exporterConfigs)
	if err != nil {
		closeCache(cacheInstance)
		return nil, fmt.Errorf("failed to build telemetry exporters: %w", err)
	}

	metricsWorker := metrics.NewWorker(di.Logger, exporters...)

	// plugins
	pluginManager := plugins.NewManager(di.Logger, plugins.WithPlugins(
		request_size_limiter.NewRequestSizeLimiterPlugin(di.Logger),
		content_safety.NewContentSafetyPlugin(di.Logger, engine),
	))
	chain := cfg.Plugins.ChainOrDefault()
	if err := pluginManager.ValidateChain(chain); err != nil {
		closeCache(cacheInstance)
		for _, e := range exporters {
			e.Close()
		}
		return nil, fmt.Errorf("invalid plugin chain: %w", err)
	}

	// services
	contentClassifier := classifier.NewClassifier(
		di.Logger,
		engine,
		verdictRepo,
		metricsWorker,
		cfg.Moderation.MaxBatchSize,
	)
	verdictFinder := classifier.NewFinder(verdictRepo)
	payloadGuard := guard.NewGuard(di.Logger, pluginManager, metricsWorker, chain, cfg.Plugins.IgnoreErrors)

	handlerTransport := &handlers.HandlerTransport{
		ClassifyHandler:   handlers.NewClassifyHandler(di.Logger, contentClassifier),
		GateHandler:       handlers.NewGateHandler(di.Logger, contentClassifier),
		BatchHandler:      handlers.NewBatchHandler(di.Logger, contentClassifier, cfg.Moderation.MaxBatchSize),
		PayloadHandler:    handlers.NewPayloadHandler(di.Logger, payloadGuard),
		GetVerdictHandler: handlers.NewGetVerdictHandler(di.Logger, verdictFinder),
		GetVersionHandler: handlers.NewGetVersionHandler(di.Logger),
		HealthHandler:     handlers.NewHealthHandler(di.Logger, cacheInstance),
	}

	middlewareTransport := middleware.NewTransport(
		middleware.NewRequestIDMiddleware(),
		middleware.NewAccessLogMiddleware(di.Logger),
	)
	if cors := cfg.Server.CORS; len(cors.AllowOrigins) > 0 {
		middlewareTransport.RegisterMiddleware(middleware.NewCORSMiddleware(middleware.CORSConfig{
			AllowOrigins:     cors.AllowOrigins,
			AllowMethods:     cors.AllowMethods,
			AllowCredentials: cors.AllowCredentials,
			ExposeHeaders:    cors.ExposeHeaders,
			MaxAge:           cors.MaxAge,
		}))
	}

	return &Container{
		Cache:               cacheInstance,
		Engine:              engine,
		VerdictRepository:   verdictRepo,
		PluginManager:       pluginManager,
		MetricsWorker:       metricsWorker,
		Exporters:           exporters,
		Classifier:          contentClassifier,
		Guard:               payloadGuard,
		HandlerTransport:    handlerTransport,
		MiddlewareTransport: middlewareTransport,
	}, nil
}

// ExporterConfigs translates the telemetry section into exporter configs.
func ExporterConfigs(cfg *config.Config) []domainTelemetry.ExporterConfig {
	var out []domainTelemetry.ExporterConfig
	if cfg.Telemetry.Kafka.Enabled {
		out = append(out, domainTelemetry.ExporterConfig{
			Name: kafka.ExporterName,
			Settings: map[string]interface{}{
				"host":  cfg.Telemetry.Kafka.Host,
				"port":  cfg.Telemetry.Kafka.Port,
				"topic": cfg.Telemetry.Kafka.Topic,
			},
		})
	}
	if cfg.Telemetry.Logs.Enabled {
		out = append(out, domainTelemetry.ExporterConfig{
			Name:     logs.ExporterName,
			Settings: map[string]interface{}{"level": cfg.Telemetry.Logs.Level},
		})
	}
	return out
}

// Close drains the metrics worker, which closes the exporters, and then
// releases the redis connection.
func (c *Container) Close() {
	c.MetricsWorker.Shutdown()
	closeCache(c.Cache)
}

func closeCache(c cache.Client) {
	if c != nil {
		_ = c.Close()
	}
}
