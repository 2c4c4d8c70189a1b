package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Moderation
	ClassifyHandler Handler
	GateHandler     Handler
	BatchHandler    Handler
	PayloadHandler  Handler

	// Verdicts
	GetVerdictHandler Handler

	// System
	GetVersionHandler Handler
	HealthHandler     Handler
}
