package main

import (
	"net/http"

	"finance-admin/internal/handlers"
	"finance-admin/internal/middleware"
	"finance-admin/internal/services"
	"finance-admin/internal/validation"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routeHandlers bundles every handler the router mounts. Dev is nil outside
// development.
type routeHandlers struct {
	Concepts     *handlers.ConceptHandler
	Providers    *handlers.ProviderHandler
	Transactions *handlers.TransactionHandler
	Import       *handlers.ImportHandler
	Reports      *handlers.ReportHandler
	Audit        *handlers.AuditHandler
	Chatbot      *handlers.ChatbotHandler
	Health       *handlers.HealthCheckHandler
	Docs         *handlers.DocsHandler
	Dev          *handlers.DevHandler
}

type routeOptions struct {
	CORSAllowOrigins []string
	// TokenService is nil when bearer verification is disabled
	TokenService   services.TokenServiceInterface
	ChatbotLimiter *middleware.IPRateLimiter
	HSTS           bool
}

func newEcho(h routeHandlers, opts routeOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	e.Validator = validation.GetValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders(middleware.SecurityOptions{HSTS: opts.HSTS}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  opts.CORSAllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.TraceIDHeader},
		ExposeHeaders: []string{middleware.TraceIDHeader},
	}))

	e.GET("/health", h.Health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/docs", h.Docs.ServeScalarUI)
	e.GET("/docs/openapi.json", h.Docs.ServeOpenAPI)

	if h.Dev != nil {
		e.POST("/dev/seed", h.Dev.SeedDemoData)
	}

	api := e.Group("/api")
	if opts.TokenService != nil {
		api.Use(middleware.RequireAuth(opts.TokenService))
	}

	concepts := api.Group("/concepts")
	concepts.GET("", h.Concepts.ListConcepts)
	concepts.POST("", h.Concepts.CreateConcept)
	concepts.GET("/:id", h.Concepts.GetConcept)
	concepts.PUT("/:id", h.Concepts.UpdateConcept)
	concepts.DELETE("/:id", h.Concepts.DeleteConcept)

	providers := api.Group("/providers")
	providers.GET("", h.Providers.ListProviders)
	providers.POST("", h.Providers.CreateProvider)
	providers.GET("/:id", h.Providers.GetProvider)
	providers.PUT("/:id", h.Providers.UpdateProvider)
	providers.DELETE("/:id", h.Providers.DeleteProvider)

	transactions := api.Group("/transactions")
	transactions.GET("", h.Transactions.ListTransactions)
	transactions.POST("", h.Transactions.CreateTransaction)
	transactions.POST("/import", h.Import.ImportTransactions)
	transactions.GET("/:id", h.Transactions.GetTransaction)
	transactions.PUT("/:id", h.Transactions.UpdateTransaction)
	transactions.PATCH("/:id/status", h.Transactions.UpdateStatus)
	transactions.DELETE("/:id", h.Transactions.DeleteTransaction)

	api.GET("/reports/summary", h.Reports.GetSummary)

	api.GET("/audit-logs", h.Audit.ListAuditLogs)
	api.GET("/audit-logs/:resource/:id", h.Audit.GetResourceHistory)

	// Any so the handler answers non-POST methods with its own 405 body
	chatbot := []echo.MiddlewareFunc{}
	if opts.ChatbotLimiter != nil {
		chatbot = append(chatbot, opts.ChatbotLimiter.Middleware())
	}
	api.Any("/chatbot", h.Chatbot.Ask, chatbot...)

	return e
}
