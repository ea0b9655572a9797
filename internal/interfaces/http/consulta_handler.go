package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ecplacas/ecplacas-api/internal/application/consulta"
	"github.com/ecplacas/ecplacas-api/internal/application/dto"
	"github.com/ecplacas/ecplacas-api/internal/domain"
	"github.com/ecplacas/ecplacas-api/internal/domain/entity"
	"github.com/ecplacas/ecplacas-api/internal/domain/validacion"
)

// ConsultaHandler maneja las peticiones del ciclo de vida de una consulta.
type ConsultaHandler struct {
	pipeline *consulta.Pipeline
	tracker  *consulta.Tracker
	valid    *validacion.Validador
}

// NewConsultaHandler construye el handler.
func NewConsultaHandler(pipeline *consulta.Pipeline, tracker *consulta.Tracker, valid *validacion.Validador) *ConsultaHandler {
	return &ConsultaHandler{pipeline: pipeline, tracker: tracker, valid: valid}
}

// Iniciar acepta la solicitud, la valida y lanza la consulta en segundo
// plano. Responde 202 con el ID de sesión para sondear el avance.
func (h *ConsultaHandler) Iniciar(c *fiber.Ctx) error {
	var in dto.IniciarConsultaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if strings.TrimSpace(in.Placa) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "placa es requerida"})
	}

	solicitud := consulta.Solicitud{Placa: in.Placa}
	if in.Cedula != "" || in.Nombre != "" {
		solicitud.Usuario = &entity.Usuario{
			Nombre:   strings.TrimSpace(in.Nombre),
			Cedula:   strings.TrimSpace(in.Cedula),
			Telefono: strings.TrimSpace(in.Telefono),
			Correo:   strings.TrimSpace(in.Correo),
		}
	}

	sesionID, err := h.pipeline.Iniciar(solicitud)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPlacaInvalida):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "PLACA_INVALIDA", Message: "formato de placa inválido"})
		case errors.Is(err, domain.ErrCedulaInvalida):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CEDULA_INVALIDA", Message: "cédula ecuatoriana inválida"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.IniciarConsultaResponse{
		SesionID: sesionID,
		Placa:    h.valid.NormalizarPlaca(in.Placa).Normalizada,
		Mensaje:  "Consulta iniciada, sondee el estado con el ID de sesión",
	})
}

// Estado devuelve el avance actual de la consulta.
func (h *ConsultaHandler) Estado(c *fiber.Ctx) error {
	estado, err := h.tracker.Estado(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sesión no encontrada"})
	}
	return c.JSON(estado)
}

// Resultado devuelve el perfil consolidado de una consulta completada.
func (h *ConsultaHandler) Resultado(c *fiber.Ctx) error {
	resultado, err := h.tracker.Resultado(c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSesionNoEncontrada):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sesión no encontrada"})
		case errors.Is(err, domain.ErrConsultaEnCurso):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EN_CURSO", Message: "la consulta aún no ha finalizado"})
		default:
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "CONSULTA_FALLIDA", Message: err.Error()})
		}
	}
	return c.JSON(resultado)
}
