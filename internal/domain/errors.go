// Package domain define las entidades y errores del dominio de consulta vehicular.
package domain

import (
	"errors"
	"fmt"
)

// Errores de validación: fallan antes de cualquier llamada de red y se
// reportan síncronamente al llamador.
var (
	ErrPlacaInvalida  = errors.New("formato de placa inválido")
	ErrCedulaInvalida = errors.New("cédula ecuatoriana inválida")
)

// Errores de las consultas upstream.
var (
	// ErrTimeoutUpstream indica que el servicio externo no respondió dentro
	// del presupuesto de reintentos.
	ErrTimeoutUpstream = errors.New("timeout consultando servicio externo")

	// ErrRespuestaMalformada indica HTTP 2xx con un cuerpo no parseable.
	ErrRespuestaMalformada = errors.New("respuesta del servicio externo no es JSON válido")

	// ErrVehiculoNoEncontrado indica que la consulta base no encontró el
	// vehículo ni con la placa normalizada ni con la original.
	ErrVehiculoNoEncontrado = errors.New("no se encontró información del vehículo en el SRI")
)

// Errores del ciclo de vida de sesiones.
var (
	ErrSesionNoEncontrada = errors.New("sesión no encontrada")
	ErrConsultaEnCurso    = errors.New("la consulta aún no ha finalizado")
)

// ErrAgregacion señala una inconsistencia interna en la agregación; se
// registra y degrada, nunca debe llegar al usuario final como pánico.
var ErrAgregacion = errors.New("error interno de agregación")

// ErrorHTTPUpstream es un non-2xx tras agotar el presupuesto de reintentos.
type ErrorHTTPUpstream struct {
	Status int
	URL    string
}

func (e *ErrorHTTPUpstream) Error() string {
	return fmt.Sprintf("servicio externo respondió HTTP %d (%s)", e.Status, e.URL)
}
