package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/NeuralTrust/ContentGuard/pkg/config"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/prometheus"
	"github.com/NeuralTrust/ContentGuard/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const MetricsPath = "/metrics"

// Server interface defines the common behavior for all servers
type Server interface {
	Run() error
	Shutdown() error
}

type BaseServer struct {
	Config     *config.Config
	Logger     *logrus.Logger
	Router     *fiber.App
	metricsApp *fiber.App
}

func NewBaseServer(cfg *config.Config, logger *logrus.Logger) *BaseServer {
	r := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Network:               fiber.NetworkTCP,
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
	})

	r.Server().NoDefaultServerHeader = true
	r.Use(recover.New())

	return &BaseServer{
		Config: cfg,
		Logger: logger,
		Router: r,
	}
}

func (s *BaseServer) WithRouters(routers ...router.ServerRouter) *BaseServer {
	for _, r := range routers {
		if err := r.BuildRoutes(s.Router); err != nil {
			s.Logger.WithError(err).Error("failed to build routes")
		}
	}
	return s
}

func metricsHandler(c *fiber.Ctx) error {
	fasthttpadaptor.NewFastHTTPHandler(prometheus.Handler())(c.Context())
	return nil
}

// setupMetricsEndpoint serves prometheus on its own port, or on the main
// router when no separate port is configured.
func (s *BaseServer) setupMetricsEndpoint() {
	if !s.Config.Metrics.Enabled {
		s.Logger.Info("prometheus metrics are disabled by configuration")
		return
	}
	prometheus.Initialize()

	port := s.Config.Server.MetricsPort
	if port == 0 || port == s.Config.Server.Port {
		s.Router.Get(MetricsPath, metricsHandler)
		return
	}
	if s.metricsApp != nil {
		return
	}

	s.metricsApp = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	s.metricsApp.Use(recover.New())
	s.metricsApp.Get(MetricsPath, metricsHandler)

	go func() {
		addr := fmt.Sprintf(":%d", port)
		s.Logger.WithField("addr", addr).Info("starting metrics server")
		if err := s.metricsApp.Listen(addr); err != nil {
			if !strings.Contains(err.Error(), "address already in use") {
				s.Logger.WithError(err).Error("failed to start metrics server")
			}
		}
	}()
}

func (s *BaseServer) shutdown() error {
	timeout := s.Config.Server.ShutdownTimeout
	if s.metricsApp != nil {
		if err := s.metricsApp.ShutdownWithTimeout(timeout); err != nil {
			s.Logger.WithError(err).Warn("failed to stop metrics server")
		}
	}
	return s.Router.ShutdownWithTimeout(timeout)
}
