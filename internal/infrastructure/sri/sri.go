package sri

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ecplacas/ecplacas-api/internal/domain"
	"github.com/ecplacas/ecplacas-api/internal/domain/entity"
	"github.com/ecplacas/ecplacas-api/pkg/logger"
)

// Rutas REST del servicio de matriculación vehicular.
const (
	rutaBase        = "/BaseVehiculo/obtenerPorNumeroPlacaOPorNumeroCampvOPorNumeroCpn"
	rutaRubros      = "/ConsultaRubros/obtenerPorCodigoVehiculo"
	rutaComponentes = "/ConsultaComponente/obtenerListaComponentesPorCodigoConsultaRubro"
	rutaPagos       = "/consultaPagos/obtenerPorPlacaCampvCpn"
	rutaDetallePago = "/consultaPagos/obtenerDetallesPago"
	rutaIACV        = "/CuotasImpAmbiental/obtenerDetallePlanExcepcionalPagosPorCodigoVehiculo"
)

// Cliente implementación de consulta.ClienteSRI sobre los servicios REST
// del SRI, con cache de respuestas por placa y endpoint.
type Cliente struct {
	baseURL string
	httpc   *ClienteHTTP
	cache   *Cache
	log     *logger.Logger
}

// NewCliente arma el cliente del SRI. cache puede ser nil para
// deshabilitar el cacheo.
func NewCliente(baseURL string, httpc *ClienteHTTP, cache *Cache, log *logger.Logger) *Cliente {
	return &Cliente{baseURL: baseURL, httpc: httpc, cache: cache, log: log}
}

// obtener ejecuta un GET cacheado contra una ruta del SRI.
func (c *Cliente) obtener(ctx context.Context, ruta, parametro, valor string) ([]byte, error) {
	clave := Clave(valor, ruta)
	if c.cache != nil {
		if cuerpo, ok := c.cache.Obtener(clave); ok {
			return cuerpo, nil
		}
	}

	destino := fmt.Sprintf("%s%s?%s=%s", c.baseURL, ruta, parametro, url.QueryEscape(valor))
	cuerpo, err := c.httpc.Hacer(ctx, ruta, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, destino, nil)
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Guardar(clave, cuerpo)
	}
	return cuerpo, nil
}

// ConsultarBase obtiene la información base del vehículo por placa, CAMV
// o CPN. Respuesta vacía o sin código de vehículo se trata como no
// encontrado.
func (c *Cliente) ConsultarBase(ctx context.Context, placa string) (*entity.Vehiculo, error) {
	cuerpo, err := c.obtener(ctx, rutaBase, "numeroPlacaCampvCpn", placa)
	if err != nil {
		return nil, err
	}
	if len(cuerpo) == 0 || string(cuerpo) == "null" {
		return nil, fmt.Errorf("%w: %s", domain.ErrVehiculoNoEncontrado, placa)
	}

	var dto baseVehiculoDTO
	if err := json.Unmarshal(cuerpo, &dto); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRespuestaMalformada, err)
	}
	if dto.CodigoVehiculo <= 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrVehiculoNoEncontrado, placa)
	}

	return &entity.Vehiculo{
		CodigoVehiculo:          int64(dto.CodigoVehiculo),
		Placa:                   dto.NumeroPlaca,
		Camv:                    dto.NumeroCamvCpn,
		Marca:                   dto.DescripcionMarca,
		Modelo:                  dto.DescripcionModelo,
		AnioAuto:                int(dto.AnioAuto),
		Cilindraje:              dto.Cilindraje,
		PaisFabricacion:         dto.NombrePaisFabricacion,
		Clase:                   dto.DescripcionClase,
		Servicio:                dto.DescripcionServicio,
		FechaUltimaMatricula:    dto.FechaUltimaMatricula,
		FechaCaducidadMatricula: dto.FechaCaducidadMatricula,
		FechaCompra:             dto.FechaCompra,
		FechaRevision:           dto.FechaRevision,
		ProhibidoEnajenar:       dto.ProhibidoEnajenar,
		EstadoExoneracion:       dto.EstadoExoneracion,
		ObservacionExoneracion:  dto.ObservacionExoneracion,
	}, nil
}

// ConsultarRubros lista las obligaciones pendientes del vehículo.
func (c *Cliente) ConsultarRubros(ctx context.Context, codigoVehiculo int64) ([]entity.Rubro, error) {
	cuerpo, err := c.obtener(ctx, rutaRubros, "codigoVehiculo", strconv.FormatInt(codigoVehiculo, 10))
	if err != nil {
		return nil, err
	}

	var dtos []rubroDTO
	if err := decodificarLista(cuerpo, &dtos); err != nil {
		return nil, err
	}

	rubros := make([]entity.Rubro, 0, len(dtos))
	for _, d := range dtos {
		rubros = append(rubros, entity.NuevoRubro(
			int64(d.CodigoConsultaRubro),
			d.Descripcion,
			d.Valor.Decimal,
			d.PeriodoFiscal,
			d.Beneficiario,
		))
	}
	return rubros, nil
}

// ConsultarComponentes desglosa un rubro en sus componentes.
func (c *Cliente) ConsultarComponentes(ctx context.Context, codigoConsultaRubro int64) ([]entity.Componente, error) {
	cuerpo, err := c.obtener(ctx, rutaComponentes, "codigoConsultaRubro", strconv.FormatInt(codigoConsultaRubro, 10))
	if err != nil {
		return nil, err
	}

	var dtos []componenteDTO
	if err := decodificarLista(cuerpo, &dtos); err != nil {
		return nil, err
	}

	componentes := make([]entity.Componente, 0, len(dtos))
	for _, d := range dtos {
		componentes = append(componentes, entity.NuevoComponente(
			d.Codigo,
			d.Descripcion,
			d.Valor.Decimal,
			d.PeriodoFiscal,
		))
	}
	return componentes, nil
}

// ConsultarPagos lista el historial de pagos del vehículo. Las fechas se
// normalizan a dd/mm/yyyy.
func (c *Cliente) ConsultarPagos(ctx context.Context, placa string) ([]entity.Pago, error) {
	cuerpo, err := c.obtener(ctx, rutaPagos, "placaCampvCpn", placa)
	if err != nil {
		return nil, err
	}

	var dtos []pagoDTO
	if err := decodificarLista(cuerpo, &dtos); err != nil {
		return nil, err
	}

	pagos := make([]entity.Pago, 0, len(dtos))
	for _, d := range dtos {
		pagos = append(pagos, entity.Pago{
			CodigoRecaudacion: d.CodigoRecaudacion,
			FechaDePago:       entity.FormatearFechaPago(d.FechaDePago),
			Monto:             d.Monto.Decimal,
			FormaPago:         d.FormaPago,
			Banco:             d.Banco,
		})
	}
	return pagos, nil
}

// ConsultarDetallePago obtiene las líneas de detalle de un pago.
func (c *Cliente) ConsultarDetallePago(ctx context.Context, codigoRecaudacion string) ([]entity.DetallePago, error) {
	cuerpo, err := c.obtener(ctx, rutaDetallePago, "codigoRecaudacion", codigoRecaudacion)
	if err != nil {
		return nil, err
	}

	var dtos []detallePagoDTO
	if err := decodificarLista(cuerpo, &dtos); err != nil {
		return nil, err
	}

	detalles := make([]entity.DetallePago, 0, len(dtos))
	for _, d := range dtos {
		detalles = append(detalles, entity.DetallePago{
			Descripcion: d.Descripcion,
			Valor:       d.Valor.Decimal,
			Periodo:     d.PeriodoFiscal,
		})
	}
	return detalles, nil
}

// ConsultarCuotasIACV obtiene el plan excepcional de pagos del impuesto
// ambiental. Cuotas sin fecha de vencimiento reciben una estimada por el
// calendario trimestral del plan.
func (c *Cliente) ConsultarCuotasIACV(ctx context.Context, codigoVehiculo int64) ([]entity.CuotaIACV, error) {
	cuerpo, err := c.obtener(ctx, rutaIACV, "codigo", strconv.FormatInt(codigoVehiculo, 10))
	if err != nil {
		return nil, err
	}

	var dtos []cuotaIACVDTO
	if err := decodificarLista(cuerpo, &dtos); err != nil {
		return nil, err
	}

	cuotas := make([]entity.CuotaIACV, 0, len(dtos))
	for _, d := range dtos {
		cuota := entity.CuotaIACV{
			NumeroCuota: int(d.NumeroCuota),
			AnioDesde:   int(d.AnioDesde),
			TotalCuota:  d.TotalCuota.Decimal,
			EstadoPago:  d.EstadoPago,
		}
		if cuota.NumeroCuota > 0 && cuota.AnioDesde > 0 {
			cuota.FechaVencimiento = entity.EstimarFechaVencimiento(cuota.NumeroCuota, cuota.AnioDesde)
		}
		cuotas = append(cuotas, cuota)
	}
	return cuotas, nil
}

// decodificarLista parsea una lista JSON tolerando cuerpo vacío o null.
func decodificarLista(cuerpo []byte, destino interface{}) error {
	if len(cuerpo) == 0 || string(cuerpo) == "null" {
		return nil
	}
	if err := json.Unmarshal(cuerpo, destino); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRespuestaMalformada, err)
	}
	return nil
}
