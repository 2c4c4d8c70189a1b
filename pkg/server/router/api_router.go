package router

import (
	"errors"

	handlers "github.com/NeuralTrust/ContentGuard/pkg/handlers/http"
	"github.com/NeuralTrust/ContentGuard/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
)

var ErrInvalidHandlerTransport = errors.New("invalid handler transport")

type apiRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    *handlers.HandlerTransport
}

func NewAPIRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport *handlers.HandlerTransport,
) ServerRouter {
	return &apiRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

func (r *apiRouter) BuildRoutes(router *fiber.App) error {
	h := r.handlerTransport
	if h == nil ||
		h.ClassifyHandler == nil ||
		h.GateHandler == nil ||
		h.BatchHandler == nil ||
		h.GetVerdictHandler == nil {
		return ErrInvalidHandlerTransport
	}

	if h.HealthHandler != nil {
		router.Get("/health", h.HealthHandler.Handle)
	}
	if h.GetVersionHandler != nil {
		router.Get("/version", h.GetVersionHandler.Handle)
	}

	v1 := router.Group("/api/v1")
	{
		if r.middlewareTransport != nil {
			if mws := r.middlewareTransport.GetMiddlewares(); len(mws) > 0 {
				v1.Use(mws...)
			}
		}

		moderation := v1.Group("/moderation")
		{
			moderation.Post("/classify", h.ClassifyHandler.Handle)
			moderation.Post("/gate", h.GateHandler.Handle)
			moderation.Post("/batch", h.BatchHandler.Handle)
			if h.PayloadHandler != nil {
				moderation.Post("/payload", h.PayloadHandler.Handle)
			}
		}

		verdicts := v1.Group("/verdicts")
		{
			verdicts.Get("/:context/:content_id", h.GetVerdictHandler.Handle)
		}
	}
	return nil
}
