package http

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecplacas/ecplacas-api/internal/application/consulta"
	"github.com/ecplacas/ecplacas-api/internal/application/dto"
	"github.com/ecplacas/ecplacas-api/internal/domain/repository"
	"github.com/ecplacas/ecplacas-api/internal/infrastructure/sri"
	"github.com/ecplacas/ecplacas-api/pkg/config"
	"github.com/ecplacas/ecplacas-api/pkg/jwt"
	"github.com/ecplacas/ecplacas-api/pkg/logger"
)

// AdminHandler maneja la autenticación y las operaciones administrativas.
type AdminHandler struct {
	cfg     config.AdminConfig
	tracker *consulta.Tracker
	cache   *sri.Cache
	repo    repository.ConsultaRepository // puede ser nil
	log     *logger.Logger
}

// NewAdminHandler construye el handler.
func NewAdminHandler(cfg config.AdminConfig, tracker *consulta.Tracker, cache *sri.Cache, repo repository.ConsultaRepository, log *logger.Logger) *AdminHandler {
	return &AdminHandler{cfg: cfg, tracker: tracker, cache: cache, repo: repo, log: log}
}

// Login valida la contraseña de administración y emite un Bearer Token.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if h.cfg.PasswordHash == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "ADMIN_DISABLED", Message: "administración no configurada"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.PasswordHash), []byte(in.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "contraseña incorrecta"})
	}

	token, err := jwt.Generate(h.cfg.JWTSecret, "admin", "admin", h.cfg.JWTExpMin)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.LoginResponse{Token: token, ExpiraEn: h.cfg.JWTExpMin})
}

// Estadisticas devuelve las métricas operativas: sesiones en memoria,
// tamaño del cache y, si hay persistencia, el histórico agregado.
func (h *AdminHandler) Estadisticas(c *fiber.Ctx) error {
	activas, totales := h.tracker.ActivasYTotales()
	out := dto.EstadisticasResponse{
		SesionesActivas:   activas,
		SesionesRetenidas: totales,
	}
	if h.cache != nil {
		out.EntradasCache = h.cache.Tamano()
	}
	if h.repo != nil {
		if e, err := h.repo.Estadisticas(c.Context()); err == nil {
			out.TotalConsultas = e.TotalConsultas
			out.ConsultasHoy = e.ConsultasHoy
			out.UsuariosRegistrados = e.UsuariosRegistrados
			out.PlacasDistintas = e.PlacasDistintas
		} else {
			h.log.Error().Err(err).Msg("estadisticas de base de datos no disponibles")
		}
	}
	return c.JSON(out)
}

// VaciarCache elimina todas las respuestas cacheadas del SRI.
func (h *AdminHandler) VaciarCache(c *fiber.Ctx) error {
	if h.cache != nil {
		h.cache.Vaciar()
	}
	return c.JSON(fiber.Map{"mensaje": "cache vaciado"})
}
