package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowCredentials bool
	ExposeHeaders    []string
	MaxAge           int
}

type corsMiddleware struct {
	cfg      CORSConfig
	wildcard bool
}

// NewCORSMiddleware answers preflight requests and decorates responses for
// allowed origins. Requests without an Origin header pass through.
func NewCORSMiddleware(cfg CORSConfig) Middleware {
	m := &corsMiddleware{cfg: cfg}
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			m.wildcard = true
		}
	}
	if len(m.cfg.AllowMethods) == 0 {
		m.cfg.AllowMethods = []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions}
	}
	return m
}

func (m *corsMiddleware) allowed(origin string) bool {
	if m.wildcard {
		return true
	}
	for _, o := range m.cfg.AllowOrigins {
		if strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func (m *corsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin == "" || !m.allowed(origin) {
			return c.Next()
		}

		c.Vary(fiber.HeaderOrigin)
		switch {
		case m.cfg.AllowCredentials:
			c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
			c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
		case m.wildcard:
			c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		default:
			c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
		}
		if len(m.cfg.ExposeHeaders) > 0 {
			c.Set(fiber.HeaderAccessControlExposeHeaders, strings.Join(m.cfg.ExposeHeaders, ", "))
		}

		if c.Method() != fiber.MethodOptions || c.Get(fiber.HeaderAccessControlRequestMethod) == "" {
			return c.Next()
		}

		c.Set(fiber.HeaderAccessControlAllowMethods, strings.Join(m.cfg.AllowMethods, ", "))
		if reqHeaders := c.Get(fiber.HeaderAccessControlRequestHeaders); reqHeaders != "" {
			c.Set(fiber.HeaderAccessControlAllowHeaders, reqHeaders)
		} else {
			c.Set(fiber.HeaderAccessControlAllowHeaders, fiber.HeaderContentType)
		}
		if m.cfg.MaxAge > 0 {
			c.Set(fiber.HeaderAccessControlMaxAge, strconv.Itoa(m.cfg.MaxAge))
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
