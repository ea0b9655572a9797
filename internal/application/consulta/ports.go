// Package consulta orquesta el pipeline de consulta vehicular: valida la
// solicitud, ejecuta las etapas contra los servicios externos y consolida
// el resultado.
package consulta

import (
	"context"

	"github.com/ecplacas/ecplacas-api/internal/domain/entity"
)

// ClienteSRI puerto hacia los servicios REST de matriculación vehicular
// del SRI. Cada método corresponde a una etapa del pipeline.
type ClienteSRI interface {
	// ConsultarBase busca la información base por placa, CAMV o CPN.
	// Devuelve entity.ErrVehiculoNoEncontrado envuelto cuando el registro
	// no existe.
	ConsultarBase(ctx context.Context, placa string) (*entity.Vehiculo, error)

	// ConsultarRubros lista las obligaciones pendientes del vehículo.
	ConsultarRubros(ctx context.Context, codigoVehiculo int64) ([]entity.Rubro, error)

	// ConsultarComponentes desglosa un rubro en sus componentes.
	ConsultarComponentes(ctx context.Context, codigoConsultaRubro int64) ([]entity.Componente, error)

	// ConsultarPagos lista el historial de pagos por placa.
	ConsultarPagos(ctx context.Context, placa string) ([]entity.Pago, error)

	// ConsultarDetallePago obtiene las líneas de detalle de un pago.
	ConsultarDetallePago(ctx context.Context, codigoRecaudacion string) ([]entity.DetallePago, error)

	// ConsultarCuotasIACV obtiene el plan excepcional de pagos del
	// impuesto ambiental.
	ConsultarCuotasIACV(ctx context.Context, codigoVehiculo int64) ([]entity.CuotaIACV, error)
}

// ClientePropietario puerto hacia los servicios externos de consulta de
// propietario. La implementación intenta el servicio principal y cae al
// de respaldo.
type ClientePropietario interface {
	ConsultarPropietario(ctx context.Context, placa string) (*entity.Propietario, error)
}
