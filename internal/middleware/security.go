package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	apiContentPolicy = "default-src 'none'; frame-ancestors 'none'"

	// Scalar is served from jsDelivr and renders with inline styles and web workers
	docsContentPolicy = "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline' 'unsafe-eval' https://cdn.jsdelivr.net; " +
		"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com https://cdn.jsdelivr.net; " +
		"font-src 'self' https://fonts.gstatic.com https://cdn.jsdelivr.net data:; " +
		"img-src 'self' data: https: blob:; " +
		"connect-src 'self'; " +
		"worker-src 'self' blob:"
)

// SecurityOptions controls the headers that depend on the deployment
type SecurityOptions struct {
	// HSTS is only sent behind TLS, i.e. in production
	HSTS bool
}

// SecurityHeaders sets browser hardening headers on every response. Financial
// data is never cacheable; handlers that serve static content may override
// Cache-Control afterwards.
func SecurityHeaders(opts SecurityOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
			h.Set("Cache-Control", "no-store, private")

			if opts.HSTS {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			if isDocsRequest(c) {
				h.Set("Content-Security-Policy", docsContentPolicy)
			} else {
				h.Set("Content-Security-Policy", apiContentPolicy)
			}

			return next(c)
		}
	}
}

func isDocsRequest(c echo.Context) bool {
	path := c.Path()
	if path == "" {
		path = c.Request().URL.Path
	}
	return path == "/docs" || strings.HasPrefix(path, "/docs/")
}
