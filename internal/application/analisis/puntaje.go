package analisis

import (
	"github.com/shopspring/decimal"

	"github.com/ecplacas/ecplacas-api/internal/domain/entity"
)

// EntradaPuntaje datos consolidados que alimentan el cálculo del puntaje.
type EntradaPuntaje struct {
	Totales           entity.TotalesDeuda
	Pagos             entity.AnalisisPagos
	IACV              entity.AnalisisIACV
	ProhibidoEnajenar bool
}

// CalcularPuntaje evalúa el riesgo financiero del vehículo sobre una
// escala de 0 a 100. Se parte de 100 y se aplican penalizaciones por
// deuda, multas, intereses, cuotas ambientales vencidas y prohibición de
// enajenar, más bonificaciones por historial de pagos y prescripciones
// a favor.
func CalcularPuntaje(in EntradaPuntaje) entity.Puntaje {
	puntos := 100

	puntos -= penalizacionDeuda(in.Totales.TotalDeuda)
	puntos -= penalizacionMultas(in.Totales.TotalMultas)
	puntos -= penalizacionIntereses(in.Totales.TotalIntereses)
	puntos -= penalizacionIACV(in.IACV.CuotasVencidas)

	if in.ProhibidoEnajenar {
		puntos -= 30
	}

	puntos += bonificacionPagos(in.Pagos)
	puntos += bonificacionPrescripciones(in.Totales.TotalPrescripciones)

	if puntos < 0 {
		puntos = 0
	}
	if puntos > 100 {
		puntos = 100
	}

	p := clasificar(puntos)
	p.Valor = puntos
	return p
}

func penalizacionDeuda(deuda decimal.Decimal) int {
	switch {
	case deuda.GreaterThan(decimal.NewFromInt(2000)):
		return 50
	case deuda.GreaterThan(decimal.NewFromInt(1000)):
		return 40
	case deuda.GreaterThan(decimal.NewFromInt(500)):
		return 25
	case deuda.GreaterThan(decimal.NewFromInt(100)):
		return 15
	case deuda.GreaterThan(decimal.Zero):
		return 5
	}
	return 0
}

func penalizacionMultas(multas decimal.Decimal) int {
	switch {
	case multas.GreaterThan(decimal.NewFromInt(100)):
		return 20
	case multas.GreaterThan(decimal.Zero):
		return 10
	}
	return 0
}

func penalizacionIntereses(intereses decimal.Decimal) int {
	switch {
	case intereses.GreaterThan(decimal.NewFromInt(50)):
		return 15
	case intereses.GreaterThan(decimal.Zero):
		return 5
	}
	return 0
}

func penalizacionIACV(vencidas decimal.Decimal) int {
	switch {
	case vencidas.GreaterThan(decimal.NewFromInt(100)):
		return 25
	case vencidas.GreaterThan(decimal.NewFromInt(50)):
		return 20
	case vencidas.GreaterThan(decimal.Zero):
		return 10
	}
	return 0
}

func bonificacionPagos(pagos entity.AnalisisPagos) int {
	bono := 0
	switch {
	case pagos.TotalPagado.GreaterThan(decimal.NewFromInt(2000)):
		bono += 10
	case pagos.TotalPagado.GreaterThan(decimal.NewFromInt(1000)):
		bono += 5
	}
	if pagos.PagosUltimoAnio.GreaterThan(decimal.Zero) {
		bono += 5
	}
	return bono
}

// bonificacionPrescripciones premia las prescripciones a favor del
// contribuyente (montos negativos): un punto por cada 100 USD, tope 10.
func bonificacionPrescripciones(prescripciones decimal.Decimal) int {
	if !prescripciones.LessThan(decimal.Zero) {
		return 0
	}
	bono := int(prescripciones.Abs().Div(decimal.NewFromInt(100)).IntPart())
	if bono > 10 {
		bono = 10
	}
	return bono
}

func clasificar(puntos int) entity.Puntaje {
	switch {
	case puntos >= 95:
		return entity.Puntaje{
			Clasificacion: "EXCELENTE - SIN DEUDAS",
			NivelRiesgo:   "MUY BAJO",
			Recomendacion: "Vehículo sin obligaciones pendientes, apto para transferencia inmediata.",
		}
	case puntos >= 80:
		return entity.Puntaje{
			Clasificacion: "BUENO - DEUDAS MENORES",
			NivelRiesgo:   "BAJO",
			Recomendacion: "Deudas menores que conviene cancelar antes de la transferencia.",
		}
	case puntos >= 60:
		return entity.Puntaje{
			Clasificacion: "REGULAR - DEUDAS MODERADAS",
			NivelRiesgo:   "MODERADO",
			Recomendacion: "Verificar y negociar el pago de las deudas antes de cualquier trámite.",
		}
	case puntos >= 40:
		return entity.Puntaje{
			Clasificacion: "MALO - DEUDAS ALTAS",
			NivelRiesgo:   "ALTO",
			Recomendacion: "Deudas significativas, se recomienda regularizar antes de negociar el vehículo.",
		}
	default:
		return entity.Puntaje{
			Clasificacion: "CRÍTICO - MÚLTIPLES DEUDAS",
			NivelRiesgo:   "CRÍTICO",
			Recomendacion: "Situación crítica, consulte con el SRI y la ANT antes de cualquier transacción.",
		}
	}
}
