package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/customer-registry/internal/application/registry"
	"github.com/jhoicas/customer-registry/internal/domain/repository"
	"github.com/jhoicas/customer-registry/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/customer-registry/internal/infrastructure/pdf"
	"github.com/jhoicas/customer-registry/internal/infrastructure/postgres"
	"github.com/jhoicas/customer-registry/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/customer-registry/internal/infrastructure/xmlexport"
	httpRouter "github.com/jhoicas/customer-registry/internal/interfaces/http"
	"github.com/jhoicas/customer-registry/pkg/config"
	"github.com/jhoicas/customer-registry/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	var (
		txRunner     registry.TxRunner
		customerRepo repository.CustomerRepository
		cityRepo     repository.CityRepository
		countryRepo  repository.CountryRepository
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		// Sin datos de referencia: útil para pruebas locales, se pierde al reiniciar.
		store := memory.NewStore()
		txRunner = store
		customerRepo = store.Customers()
		cityRepo = store.Cities()
		countryRepo = store.Countries()
	default:
		pool, err := postgres.NewPool(context.Background(), cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool)
		customerRepo = postgres.NewCustomerRepository(pool)
		cityRepo = postgres.NewCityRepository(pool)
		countryRepo = postgres.NewCountryRepository(pool)
	}

	customerUC := registry.NewCustomerUseCase(txRunner, customerRepo, log)
	bulkImportUC := registry.NewBulkImportUseCase(
		customerUC, spreadsheet.NewParser(), spreadsheet.Factory,
		cfg.Import.MaxErrorMessages, log,
	)
	profileUC := registry.NewProfileUseCase(customerRepo, infrapdf.NewMarotoProfileGenerator(cfg.App.Name))
	exportUC := registry.NewExportUseCase(customerRepo, xmlexport.NewExporter(2))
	referenceUC := registry.NewReferenceUseCase(cityRepo, countryRepo)

	maxUploadBytes := int64(cfg.Import.MaxUploadMB) << 20
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    int(maxUploadBytes) + 1<<20, // margen para el resto del multipart
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Customer Registry API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger no disponible")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CustomerUC:     customerUC,
		BulkImportUC:   bulkImportUC,
		ProfileUC:      profileUC,
		ExportUC:       exportUC,
		ReferenceUC:    referenceUC,
		JWTSecret:      cfg.JWT.Secret,
		MaxUploadBytes: maxUploadBytes,
	})
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: API sin autenticación")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
