package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/cartera-pro/internal/application/analytics"
	"github.com/tu-usuario/cartera-pro/internal/application/auth"
	"github.com/tu-usuario/cartera-pro/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CustomerUC  *billing.CustomerUseCase
	InvoiceUC   *billing.InvoiceUseCase
	InvoicePDF  *billing.PDFUseCase
	ReconcileUC *billing.ReconcileUseCase
	OverdueUC   *billing.OverdueUseCase
	StatsUC     *analytics.StatsUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
	CronSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Ingesta externa (público; el partner no porta JWT)
	external := api.Group("/external")
	externalHandler := NewExternalHandler(deps.ReconcileUC)
	external.Post("/invoices", externalHandler.ReconcileInvoice)

	// Cron (público; autenticado por secreto compartido)
	cron := api.Group("/cron")
	cronHandler := NewCronHandler(deps.OverdueUC, deps.CronSecret)
	cron.Get("/check-overdue-invoices", cronHandler.CheckOverdueInvoices)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDF)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Stats (protegido)
	stats := protected.Group("/stats")
	statsHandler := NewStatsHandler(deps.StatsUC)
	stats.Get("/", statsHandler.Get)
}
