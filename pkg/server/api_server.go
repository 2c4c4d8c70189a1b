package server

import (
	"fmt"

	"github.com/NeuralTrust/ContentGuard/pkg/config"
	"github.com/NeuralTrust/ContentGuard/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	APIServerDI struct {
		Config  *config.Config
		Logger  *logrus.Logger
		Routers []router.ServerRouter
	}
	APIServer struct {
		*BaseServer
		routers []router.ServerRouter
	}
)

func NewAPIServer(di APIServerDI) *APIServer {
	s := &APIServer{
		BaseServer: NewBaseServer(di.Config, di.Logger),
		routers:    di.Routers,
	}
	s.setupMetricsEndpoint()
	s.WithRouters(s.routers...)
	return s
}

func (s *APIServer) Run() error {
	addr := fmt.Sprintf(":%d", s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("starting moderation api server")
	return s.Router.Listen(addr)
}

func (s *APIServer) Shutdown() error {
	s.Logger.Info("shutting down moderation api server")
	return s.shutdown()
}
