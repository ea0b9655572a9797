// Package entity contiene las entidades del dominio de consulta vehicular.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EstadoMatricula estados posibles de la matrícula según días restantes.
type EstadoMatricula string

const (
	MatriculaVigente   EstadoMatricula = "VIGENTE"
	MatriculaPorVencer EstadoMatricula = "POR_VENCER"
	MatriculaVencida   EstadoMatricula = "VENCIDA"
	MatriculaSinDatos  EstadoMatricula = "SIN_DATOS"
)

// Vehiculo información base del vehículo según el registro del SRI.
type Vehiculo struct {
	CodigoVehiculo          int64  `json:"codigoVehiculo"`
	Placa                   string `json:"placa"`
	PlacaOriginal           string `json:"placaOriginal"`
	Camv                    string `json:"camv,omitempty"`
	Marca                   string `json:"marca,omitempty"`
	Modelo                  string `json:"modelo,omitempty"`
	AnioAuto                int    `json:"anioAuto,omitempty"`
	Cilindraje              string `json:"cilindraje,omitempty"`
	PaisFabricacion         string `json:"paisFabricacion,omitempty"`
	Clase                   string `json:"clase,omitempty"`
	Servicio                string `json:"servicio,omitempty"`
	FechaUltimaMatricula    string `json:"fechaUltimaMatricula,omitempty"`
	FechaCaducidadMatricula string `json:"fechaCaducidadMatricula,omitempty"`
	FechaCompra             string `json:"fechaCompra,omitempty"`
	FechaRevision           string `json:"fechaRevision,omitempty"`
	ProhibidoEnajenar       string `json:"prohibidoEnajenar,omitempty"`
	EstadoExoneracion       string `json:"estadoExoneracion,omitempty"`
	ObservacionExoneracion  string `json:"observacionExoneracion,omitempty"`
}

// Edad calcula la edad del vehículo en años relativa a ref.
func (v *Vehiculo) Edad(ref time.Time) int {
	if v.AnioAuto <= 0 {
		return 0
	}
	edad := ref.Year() - v.AnioAuto
	if edad < 0 {
		return 0
	}
	return edad
}

// ProhibicionActiva indica si el vehículo tiene prohibición de enajenar.
func (v *Vehiculo) ProhibicionActiva() bool {
	switch v.ProhibidoEnajenar {
	case "SI", "SÍ", "YES":
		return true
	}
	return false
}

// AnalisisMatricula estado de la matrícula calculado a partir de la fecha
// de caducidad (formato dd-mm-yyyy).
type AnalisisMatricula struct {
	Estado        EstadoMatricula `json:"estado"`
	DiasRestantes int             `json:"diasRestantes"`
}

// AnalizarMatricula clasifica la vigencia de la matrícula respecto a ref.
// Más de 30 días restantes es VIGENTE, entre 1 y 30 POR_VENCER, 0 o menos
// VENCIDA. Fecha vacía o no parseable devuelve SIN_DATOS.
func AnalizarMatricula(fechaCaducidad string, ref time.Time) AnalisisMatricula {
	if fechaCaducidad == "" {
		return AnalisisMatricula{Estado: MatriculaSinDatos}
	}
	t, err := time.Parse("02-01-2006", fechaCaducidad)
	if err != nil {
		return AnalisisMatricula{Estado: MatriculaSinDatos}
	}
	dias := int(t.Sub(ref).Hours() / 24)
	switch {
	case dias > 30:
		return AnalisisMatricula{Estado: MatriculaVigente, DiasRestantes: dias}
	case dias > 0:
		return AnalisisMatricula{Estado: MatriculaPorVencer, DiasRestantes: dias}
	default:
		return AnalisisMatricula{Estado: MatriculaVencida, DiasRestantes: dias}
	}
}

// ValorEstimado estima el valor comercial del vehículo: base de 15000 USD
// depreciada 8% anual con piso de factor 0.1, castigo del 10% si existe
// deuda pendiente, y piso absoluto de 1000 USD.
func ValorEstimado(edad int, tieneDeuda bool) decimal.Decimal {
	base := decimal.NewFromInt(15000)
	factor := decimal.NewFromFloat(0.92).Pow(decimal.NewFromInt(int64(edad)))
	piso := decimal.NewFromFloat(0.1)
	if factor.LessThan(piso) {
		factor = piso
	}
	valor := base.Mul(factor)
	if tieneDeuda {
		valor = valor.Mul(decimal.NewFromFloat(0.9))
	}
	minimo := decimal.NewFromInt(1000)
	if valor.LessThan(minimo) {
		valor = minimo
	}
	return valor.Round(2)
}
