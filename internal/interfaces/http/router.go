package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/customer-registry/internal/application/registry"
	"github.com/jhoicas/customer-registry/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CustomerUC     *registry.CustomerUseCase
	BulkImportUC   *registry.BulkImportUseCase
	ProfileUC      *registry.ProfileUseCase
	ExportUC       *registry.ExportUseCase
	ReferenceUC    *registry.ReferenceUseCase
	JWTSecret      string // vacío = API sin autenticación
	MaxUploadBytes int64
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Con JWT_SECRET todo /api exige Bearer Token; borrar y cargar en masa exigen rol admin.
	var protected fiber.Router = api
	adminOnly := func(h fiber.Handler) []fiber.Handler { return []fiber.Handler{h} }
	if deps.JWTSecret != "" {
		protected = api.Group("/", AuthMiddleware(deps.JWTSecret))
		adminOnly = func(h fiber.Handler) []fiber.Handler {
			return []fiber.Handler{RequireRole(jwt.RoleAdmin), h}
		}
	}

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.BulkImportUC, deps.ProfileUC, deps.ExportUC, deps.MaxUploadBytes)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Post("/bulk-upload", adminOnly(customerHandler.BulkUpload)...)
	customers.Get("/export", customerHandler.ExportXML)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", adminOnly(customerHandler.Delete)...)
	customers.Get("/:id/pdf", customerHandler.ProfilePDF)

	// Reference data
	referenceHandler := NewReferenceHandler(deps.ReferenceUC)
	countries := protected.Group("/countries")
	countries.Get("/", referenceHandler.ListCountries)
	countries.Get("/:id", referenceHandler.GetCountry)
	countries.Get("/:id/cities", referenceHandler.ListCities)
	protected.Get("/cities/:id", referenceHandler.GetCity)
}
