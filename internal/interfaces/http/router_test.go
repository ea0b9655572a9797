package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecplacas/ecplacas-api/internal/application/consulta"
	"github.com/ecplacas/ecplacas-api/internal/application/dto"
	"github.com/ecplacas/ecplacas-api/internal/domain/entity"
	"github.com/ecplacas/ecplacas-api/internal/domain/validacion"
	"github.com/ecplacas/ecplacas-api/internal/infrastructure/sri"
	"github.com/ecplacas/ecplacas-api/pkg/config"
	"github.com/ecplacas/ecplacas-api/pkg/logger"
)

type sriPrueba struct{}

func (s *sriPrueba) ConsultarBase(ctx context.Context, placa string) (*entity.Vehiculo, error) {
	return &entity.Vehiculo{CodigoVehiculo: 42, Marca: "TOYOTA", AnioAuto: 2018}, nil
}

func (s *sriPrueba) ConsultarRubros(ctx context.Context, codigo int64) ([]entity.Rubro, error) {
	valor, _ := decimal.NewFromString("150.00")
	return []entity.Rubro{entity.NuevoRubro(901, "IMPUESTO AL RODAJE", valor, "2024", "GAD")}, nil
}

func (s *sriPrueba) ConsultarComponentes(ctx context.Context, codigo int64) ([]entity.Componente, error) {
	return nil, nil
}

func (s *sriPrueba) ConsultarPagos(ctx context.Context, placa string) ([]entity.Pago, error) {
	return nil, nil
}

func (s *sriPrueba) ConsultarDetallePago(ctx context.Context, codigo string) ([]entity.DetallePago, error) {
	return nil, nil
}

func (s *sriPrueba) ConsultarCuotasIACV(ctx context.Context, codigo int64) ([]entity.CuotaIACV, error) {
	return nil, nil
}

type propietarioPrueba struct{}

func (p *propietarioPrueba) ConsultarPropietario(ctx context.Context, placa string) (*entity.Propietario, error) {
	return &entity.Propietario{Nombre: "JUAN PEREZ", Disponible: true, Fuente: "principal"}, nil
}

func appPrueba(t *testing.T) (*fiber.App, *consulta.Tracker) {
	t.Helper()
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	tracker := consulta.NewTracker(30*time.Minute, log)
	validador := validacion.NewValidador()
	pipeline := consulta.NewPipeline(&sriPrueba{}, &propietarioPrueba{}, nil, tracker, validador, log, consulta.Config{Completa: true})

	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)

	app := fiber.New()
	Router(app, RouterDeps{
		Pipeline:  pipeline,
		Tracker:   tracker,
		Validador: validador,
		Cache:     sri.NewCache(time.Hour, 10),
		Admin: config.AdminConfig{
			PasswordHash: string(hash),
			JWTSecret:    "clave-de-prueba",
			JWTExpMin:    10,
		},
		Log: log,
	})
	return app, tracker
}

func postJSON(t *testing.T, app *fiber.App, ruta string, cuerpo interface{}) *http.Response {
	t.Helper()
	datos, err := json.Marshal(cuerpo)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, ruta, bytes.NewReader(datos))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodificar(t *testing.T, resp *http.Response, destino interface{}) {
	t.Helper()
	datos, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(datos, destino))
}

func TestHealth(t *testing.T) {
	app, _ := appPrueba(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIniciarConsultaPlacaInvalida(t *testing.T) {
	app, _ := appPrueba(t)
	resp := postJSON(t, app, "/api/consultas/", dto.IniciarConsultaRequest{Placa: "123"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out dto.ErrorResponse
	decodificar(t, resp, &out)
	assert.Equal(t, "PLACA_INVALIDA", out.Code)
}

func TestIniciarConsultaCedulaInvalida(t *testing.T) {
	app, _ := appPrueba(t)
	resp := postJSON(t, app, "/api/consultas/", dto.IniciarConsultaRequest{
		Placa:  "ABC123",
		Nombre: "Ana",
		Cedula: "1710034066",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out dto.ErrorResponse
	decodificar(t, resp, &out)
	assert.Equal(t, "CEDULA_INVALIDA", out.Code)
}

func TestFlujoDeConsultaCompleto(t *testing.T) {
	app, tracker := appPrueba(t)

	resp := postJSON(t, app, "/api/consultas/", dto.IniciarConsultaRequest{Placa: "ABC123"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var aceptada dto.IniciarConsultaResponse
	decodificar(t, resp, &aceptada)
	require.NotEmpty(t, aceptada.SesionID)
	assert.Equal(t, "ABC0123", aceptada.Placa)

	// Esperar a que el pipeline termine
	require.Eventually(t, func() bool {
		e, err := tracker.Estado(aceptada.SesionID)
		return err == nil && e.Estado.Terminal()
	}, 5*time.Second, 10*time.Millisecond)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/consultas/"+aceptada.SesionID+"/estado", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var estado consulta.EstadoSesion
	decodificar(t, resp, &estado)
	assert.Equal(t, entity.EstadoCompletado, estado.Estado)
	assert.Equal(t, 100, estado.Progreso)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/consultas/"+aceptada.SesionID+"/resultado", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var resultado entity.ResultadoConsulta
	decodificar(t, resp, &resultado)
	assert.Equal(t, "TOYOTA", resultado.Vehiculo.Marca)
	assert.Equal(t, 85, resultado.Puntaje.Valor)
	assert.Equal(t, "BAJO", resultado.Puntaje.NivelRiesgo)
}

func TestEstadoSesionInexistente(t *testing.T) {
	app, _ := appPrueba(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/consultas/no-existe/estado", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminLoginYEstadisticas(t *testing.T) {
	app, _ := appPrueba(t)

	// Contraseña incorrecta
	resp := postJSON(t, app, "/api/admin/login", dto.LoginRequest{Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Login correcto
	resp = postJSON(t, app, "/api/admin/login", dto.LoginRequest{Password: "secreto123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decodificar(t, resp, &login)
	require.NotEmpty(t, login.Token)

	// Estadísticas con token
	req := httptest.NewRequest(http.MethodGet, "/api/admin/estadisticas", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", login.Token))
	respStats, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, respStats.StatusCode)
}

func TestAdminRequiereToken(t *testing.T) {
	app, _ := appPrueba(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/estadisticas", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/estadisticas", nil)
	req.Header.Set("Authorization", "Bearer token-basura")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminVaciarCache(t *testing.T) {
	app, _ := appPrueba(t)

	resp := postJSON(t, app, "/api/admin/login", dto.LoginRequest{Password: "secreto123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decodificar(t, resp, &login)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/cache/vaciar", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	respCache, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, respCache.StatusCode)
}
