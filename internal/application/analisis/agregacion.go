// Package analisis consolida los datos crudos del SRI en totales,
// resúmenes y un puntaje de riesgo.
package analisis

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ecplacas/ecplacas-api/internal/domain/entity"
)

// TotalizarComponentes suma los componentes de todos los rubros por tipo.
// Las prescripciones no cuentan como deuda: se acumulan aparte (pueden ser
// negativas) y el total de deuda solo suma montos positivos.
func TotalizarComponentes(rubros []entity.Rubro) entity.TotalesDeuda {
	t := entity.TotalesDeuda{
		TotalDeuda:          decimal.Zero,
		TotalImpuestos:      decimal.Zero,
		TotalTasas:          decimal.Zero,
		TotalIntereses:      decimal.Zero,
		TotalMultas:         decimal.Zero,
		TotalPrescripciones: decimal.Zero,
		TotalOtros:          decimal.Zero,
		CantidadRubros:      len(rubros),
	}

	for _, r := range rubros {
		componentes := r.Componentes
		if len(componentes) == 0 {
			// Sin desglose disponible, el valor del rubro cuenta entero.
			componentes = []entity.Componente{
				entity.NuevoComponente("", r.Descripcion, r.Valor, r.Periodo),
			}
		}
		for _, c := range componentes {
			if c.Tipo == entity.ComponentePrescripcion {
				t.TotalPrescripciones = t.TotalPrescripciones.Add(c.Valor)
				continue
			}
			if c.Valor.GreaterThan(decimal.Zero) {
				t.TotalDeuda = t.TotalDeuda.Add(c.Valor)
			}
			switch c.Tipo {
			case entity.ComponenteImpuesto:
				t.TotalImpuestos = t.TotalImpuestos.Add(c.Valor)
			case entity.ComponenteTasa:
				t.TotalTasas = t.TotalTasas.Add(c.Valor)
			case entity.ComponenteInteres:
				t.TotalIntereses = t.TotalIntereses.Add(c.Valor)
			case entity.ComponenteMulta:
				t.TotalMultas = t.TotalMultas.Add(c.Valor)
			default:
				t.TotalOtros = t.TotalOtros.Add(c.Valor)
			}
		}
	}
	return t
}

// AgruparPorBeneficiario subtotaliza los rubros por entidad beneficiaria,
// ordenados de mayor a menor deuda. Rubros sin beneficiario se agrupan
// bajo "SIN ESPECIFICAR".
func AgruparPorBeneficiario(rubros []entity.Rubro) []entity.DeudaPorBeneficiario {
	porEntidad := make(map[string]*entity.DeudaPorBeneficiario)
	for _, r := range rubros {
		nombre := strings.TrimSpace(r.Beneficiario)
		if nombre == "" {
			nombre = "SIN ESPECIFICAR"
		}
		g, ok := porEntidad[nombre]
		if !ok {
			g = &entity.DeudaPorBeneficiario{Beneficiario: nombre, Total: decimal.Zero}
			porEntidad[nombre] = g
		}
		g.Total = g.Total.Add(r.Valor)
		g.CantidadRubros++
	}

	grupos := make([]entity.DeudaPorBeneficiario, 0, len(porEntidad))
	for _, g := range porEntidad {
		grupos = append(grupos, *g)
	}
	sort.Slice(grupos, func(i, j int) bool {
		if grupos[i].Total.Equal(grupos[j].Total) {
			return grupos[i].Beneficiario < grupos[j].Beneficiario
		}
		return grupos[i].Total.GreaterThan(grupos[j].Total)
	})
	return grupos
}

// TotalizarPagos resume el historial de pagos relativo a ref: total
// pagado, pagos del año en curso y promedio anual sobre los años con al
// menos un pago registrado.
func TotalizarPagos(pagos []entity.Pago, ref time.Time) entity.AnalisisPagos {
	resumen := entity.AnalisisPagos{
		TotalPagado:     decimal.Zero,
		PagosUltimoAnio: decimal.Zero,
		PromedioAnual:   decimal.Zero,
		CantidadPagos:   len(pagos),
	}

	anioActual := strconv.Itoa(ref.Year())
	anios := make(map[string]struct{})
	var ultimaFecha time.Time
	for _, p := range pagos {
		resumen.TotalPagado = resumen.TotalPagado.Add(p.Monto)
		if anio := p.AnioPago(); anio != "" {
			anios[anio] = struct{}{}
			if anio == anioActual {
				resumen.PagosUltimoAnio = resumen.PagosUltimoAnio.Add(p.Monto)
			}
		}
		if f, err := time.Parse("02/01/2006", p.FechaDePago); err == nil && f.After(ultimaFecha) {
			ultimaFecha = f
			resumen.UltimoPago = p.FechaDePago
		}
	}

	resumen.AniosConPagos = len(anios)
	if resumen.AniosConPagos > 0 {
		resumen.PromedioAnual = resumen.TotalPagado.
			Div(decimal.NewFromInt(int64(resumen.AniosConPagos))).Round(2)
	}
	return resumen
}

// AnalizarPlanIACV resume el plan de cuotas del impuesto ambiental: monto
// vencido acumulado e histograma de cuotas por estado de pago.
func AnalizarPlanIACV(cuotas []entity.CuotaIACV) entity.AnalisisIACV {
	resumen := entity.AnalisisIACV{
		TotalCuotas:    len(cuotas),
		CuotasVencidas: decimal.Zero,
	}
	if len(cuotas) == 0 {
		return resumen
	}

	resumen.CuotasPorEstado = make(map[string]int)
	for _, c := range cuotas {
		estado := c.EstadoPago
		if estado == "" {
			estado = entity.CuotaPendiente
		}
		resumen.CuotasPorEstado[estado]++
		if c.Vencida() {
			resumen.CuotasVencidas = resumen.CuotasVencidas.Add(c.TotalCuota)
		}
	}
	return resumen
}
