// Package http expone el API REST de consulta vehicular sobre Fiber.
package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ecplacas/ecplacas-api/internal/application/consulta"
	"github.com/ecplacas/ecplacas-api/internal/domain/repository"
	"github.com/ecplacas/ecplacas-api/internal/domain/validacion"
	"github.com/ecplacas/ecplacas-api/internal/infrastructure/sri"
	"github.com/ecplacas/ecplacas-api/pkg/config"
	"github.com/ecplacas/ecplacas-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Pipeline  *consulta.Pipeline
	Tracker   *consulta.Tracker
	Validador *validacion.Validador
	Cache     *sri.Cache
	Repo      repository.ConsultaRepository // puede ser nil
	Admin     config.AdminConfig
	Log       *logger.Logger
}

// Router registra las rutas del API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Consultas (público)
	consultaHandler := NewConsultaHandler(deps.Pipeline, deps.Tracker, deps.Validador)
	consultas := api.Group("/consultas")
	consultas.Post("/", consultaHandler.Iniciar)
	consultas.Get("/:id/estado", consultaHandler.Estado)
	consultas.Get("/:id/resultado", consultaHandler.Resultado)

	// Administración (login público, resto protegido con Bearer Token)
	adminHandler := NewAdminHandler(deps.Admin, deps.Tracker, deps.Cache, deps.Repo, deps.Log)
	admin := api.Group("/admin")
	admin.Post("/login", adminHandler.Login)

	protegido := admin.Group("/", AuthMiddleware(deps.Admin.JWTSecret))
	protegido.Get("/estadisticas", adminHandler.Estadisticas)
	protegido.Post("/cache/vaciar", adminHandler.VaciarCache)
}
