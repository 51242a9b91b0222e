package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizaciones-api/internal/application/billing"
	"github.com/jhoicas/Cotizaciones-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BatchUC   *billing.BatchUseCase
	Export    SummaryExporter
	JWTSecret string // vacío = API sin autenticación
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Con JWT_SECRET: los viewer consultan, solo operator procesa y genera documentos.
	read, write := noop, noop
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
		read = RequireRole(jwt.RoleOperator, jwt.RoleViewer)
		write = RequireRole(jwt.RoleOperator)
	}

	h := NewBatchHandler(deps.BatchUC, deps.Export)

	batches := api.Group("/batches")
	batches.Post("/", write, h.Run)
	batches.Post("/summaries", read, h.Summaries)
	batches.Post("/documents/:index", read, h.Document)
	batches.Post("/documents/:index/pdf", write, h.DocumentPDF)
	batches.Post("/pdf", write, h.PDF)
	batches.Post("/export", write, h.Export)

	api.Get("/runs", read, h.Runs)
	api.Get("/runs/:id/documents", read, h.RunDocuments)
}

func noop(c *fiber.Ctx) error { return c.Next() }
