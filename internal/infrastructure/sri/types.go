package sri

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Los servicios del SRI devuelven campos numéricos a veces como número y
// a veces como string. Los tipos de este archivo toleran ambas formas.

// enteroFlexible acepta 42, "42" y null.
type enteroFlexible int64

func (e *enteroFlexible) UnmarshalJSON(data []byte) error {
	if string(data) == "null" || string(data) == `""` {
		*e = 0
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		var s string
		if err2 := json.Unmarshal(data, &s); err2 != nil {
			return err
		}
		n = json.Number(s)
	}
	v, err := n.Int64()
	if err != nil {
		// Puede venir como "42.0"
		f, err2 := n.Float64()
		if err2 != nil {
			return err
		}
		v = int64(f)
	}
	*e = enteroFlexible(v)
	return nil
}

// montoFlexible acepta 12.5, "12.5" y null.
type montoFlexible struct {
	decimal.Decimal
}

func (m *montoFlexible) UnmarshalJSON(data []byte) error {
	if string(data) == "null" || string(data) == `""` {
		m.Decimal = decimal.Zero
		return nil
	}
	return m.Decimal.UnmarshalJSON(data)
}

// baseVehiculoDTO respuesta de BaseVehiculo/obtenerPorNumeroPlacaOPorNumeroCampvOPorNumeroCpn.
type baseVehiculoDTO struct {
	CodigoVehiculo          enteroFlexible `json:"codigoVehiculo"`
	NumeroPlaca             string         `json:"numeroPlaca"`
	NumeroCamvCpn           string         `json:"numeroCamvCpn"`
	DescripcionMarca        string         `json:"descripcionMarca"`
	DescripcionModelo       string         `json:"descripcionModelo"`
	AnioAuto                enteroFlexible `json:"anioAuto"`
	Cilindraje              string         `json:"cilindraje"`
	NombrePaisFabricacion   string         `json:"nombrePaisFabricacion"`
	DescripcionClase        string         `json:"descripcionClase"`
	DescripcionServicio     string         `json:"descripcionServicio"`
	FechaUltimaMatricula    string         `json:"fechaUltimaMatricula"`
	FechaCaducidadMatricula string         `json:"fechaCaducidadMatricula"`
	FechaCompra             string         `json:"fechaCompra"`
	FechaRevision           string         `json:"fechaRevision"`
	ProhibidoEnajenar       string         `json:"prohibidoEnajenar"`
	EstadoExoneracion       string         `json:"estadoExoneracion"`
	ObservacionExoneracion  string         `json:"observacionExoneracion"`
}

// rubroDTO elemento de ConsultaRubros/obtenerPorCodigoVehiculo.
type rubroDTO struct {
	CodigoConsultaRubro enteroFlexible `json:"codigoConsultaRubro"`
	Descripcion         string         `json:"descripcion"`
	Valor               montoFlexible  `json:"valor"`
	PeriodoFiscal       string         `json:"periodoFiscal"`
	Beneficiario        string         `json:"beneficiario"`
}

// componenteDTO elemento de ConsultaComponente/obtenerListaComponentesPorCodigoConsultaRubro.
type componenteDTO struct {
	Codigo        string        `json:"codigo"`
	Descripcion   string        `json:"descripcion"`
	Valor         montoFlexible `json:"valor"`
	PeriodoFiscal string        `json:"periodoFiscal"`
}

// pagoDTO elemento de consultaPagos/obtenerPorPlacaCampvCpn.
type pagoDTO struct {
	CodigoRecaudacion string        `json:"codigoRecaudacion"`
	FechaDePago       string        `json:"fechaDePago"` // yyyy-mm-dd
	Monto             montoFlexible `json:"monto"`
	FormaPago         string        `json:"formaPago"`
	Banco             string        `json:"banco"`
}

// detallePagoDTO elemento de consultaPagos/obtenerDetallesPago.
type detallePagoDTO struct {
	Descripcion   string        `json:"descripcion"`
	Valor         montoFlexible `json:"valor"`
	PeriodoFiscal string        `json:"periodoFiscal"`
}

// cuotaIACVDTO elemento de CuotasImpAmbiental/obtenerDetallePlanExcepcionalPagosPorCodigoVehiculo.
type cuotaIACVDTO struct {
	NumeroCuota enteroFlexible `json:"numeroCuota"`
	AnioDesde   enteroFlexible `json:"anioDesde"`
	TotalCuota  montoFlexible  `json:"totalCuota"`
	EstadoPago  string         `json:"estadoPago"`
}
