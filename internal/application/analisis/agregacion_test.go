package analisis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecplacas/ecplacas-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestTotalizarComponentesPorTipo(t *testing.T) {
	rubros := []entity.Rubro{
		{
			Descripcion: "IMPUESTO AL RODAJE",
			Valor:       dec("180.00"),
			Componentes: []entity.Componente{
				entity.NuevoComponente("1021", "IMPUESTO AL RODAJE", dec("150.00"), "2024"),
				entity.NuevoComponente("3001", "INTERÉS POR MORA", dec("20.00"), "2024"),
				entity.NuevoComponente("4001", "MULTA POR RETRASO", dec("10.00"), "2024"),
			},
		},
		{
			Descripcion: "TASA ANT",
			Valor:       dec("35.00"),
			Componentes: []entity.Componente{
				entity.NuevoComponente("2001", "TASA ANT", dec("35.00"), "2024"),
			},
		},
	}

	totales := TotalizarComponentes(rubros)

	assert.True(t, totales.TotalDeuda.Equal(dec("215.00")), "total: %s", totales.TotalDeuda)
	assert.True(t, totales.TotalImpuestos.Equal(dec("150.00")))
	assert.True(t, totales.TotalIntereses.Equal(dec("20.00")))
	assert.True(t, totales.TotalMultas.Equal(dec("10.00")))
	assert.True(t, totales.TotalTasas.Equal(dec("35.00")))
	assert.Equal(t, 2, totales.CantidadRubros)
}

func TestTotalizarComponentesPrescripcionNoSumaDeuda(t *testing.T) {
	rubros := []entity.Rubro{
		{
			Descripcion: "IMPUESTO FISCAL",
			Componentes: []entity.Componente{
				entity.NuevoComponente("1001", "IMPUESTO FISCAL", dec("100.00"), "2020"),
				entity.NuevoComponente("9001", "PRESCRIPCIÓN DE DEUDA", dec("-250.00"), "2018"),
			},
		},
	}

	totales := TotalizarComponentes(rubros)

	assert.True(t, totales.TotalDeuda.Equal(dec("100.00")))
	assert.True(t, totales.TotalPrescripciones.Equal(dec("-250.00")))
}

func TestTotalizarComponentesSinDesgloseUsaValorDelRubro(t *testing.T) {
	rubros := []entity.Rubro{
		entity.NuevoRubro(1, "IMPUESTO A LA PROPIEDAD", dec("75.50"), "2024", "SRI"),
	}

	totales := TotalizarComponentes(rubros)

	assert.True(t, totales.TotalDeuda.Equal(dec("75.50")))
	assert.True(t, totales.TotalImpuestos.Equal(dec("75.50")))
}

func TestTotalizarComponentesDeudaNuncaNegativa(t *testing.T) {
	rubros := []entity.Rubro{
		{
			Descripcion: "AJUSTE",
			Componentes: []entity.Componente{
				entity.NuevoComponente("", "AJUSTE A FAVOR", dec("-40.00"), ""),
			},
		},
	}

	totales := TotalizarComponentes(rubros)
	assert.False(t, totales.TotalDeuda.LessThan(decimal.Zero))
	assert.True(t, totales.TotalDeuda.Equal(decimal.Zero))
}

func TestAgruparPorBeneficiario(t *testing.T) {
	rubros := []entity.Rubro{
		entity.NuevoRubro(1, "IMPUESTO RODAJE", dec("100.00"), "2024", "GAD QUITO"),
		entity.NuevoRubro(2, "TASA", dec("300.00"), "2024", "ANT"),
		entity.NuevoRubro(3, "IMPUESTO FISCAL", dec("50.00"), "2023", "GAD QUITO"),
		entity.NuevoRubro(4, "OTRO CARGO", dec("10.00"), "", ""),
	}

	grupos := AgruparPorBeneficiario(rubros)
	require.Len(t, grupos, 3)

	// Ordenados de mayor a menor deuda
	assert.Equal(t, "ANT", grupos[0].Beneficiario)
	assert.True(t, grupos[0].Total.Equal(dec("300.00")))
	assert.Equal(t, "GAD QUITO", grupos[1].Beneficiario)
	assert.True(t, grupos[1].Total.Equal(dec("150.00")))
	assert.Equal(t, 2, grupos[1].CantidadRubros)
	assert.Equal(t, "SIN ESPECIFICAR", grupos[2].Beneficiario)
}

func TestTotalizarPagos(t *testing.T) {
	ref := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	pagos := []entity.Pago{
		{FechaDePago: "10/01/2024", Monto: dec("120.00")},
		{FechaDePago: "05/03/2023", Monto: dec("80.00")},
		{FechaDePago: "20/11/2023", Monto: dec("100.00")},
	}

	resumen := TotalizarPagos(pagos, ref)

	assert.True(t, resumen.TotalPagado.Equal(dec("300.00")))
	assert.True(t, resumen.PagosUltimoAnio.Equal(dec("120.00")))
	assert.Equal(t, 2, resumen.AniosConPagos)
	assert.True(t, resumen.PromedioAnual.Equal(dec("150.00")))
	assert.Equal(t, 3, resumen.CantidadPagos)
	assert.Equal(t, "10/01/2024", resumen.UltimoPago)
}

func TestTotalizarPagosVacio(t *testing.T) {
	resumen := TotalizarPagos(nil, time.Now())
	assert.True(t, resumen.TotalPagado.Equal(decimal.Zero))
	assert.True(t, resumen.PromedioAnual.Equal(decimal.Zero))
	assert.Equal(t, 0, resumen.AniosConPagos)
}

func TestAnalizarPlanIACV(t *testing.T) {
	cuotas := []entity.CuotaIACV{
		{NumeroCuota: 1, TotalCuota: dec("45.00"), EstadoPago: entity.CuotaVencida},
		{NumeroCuota: 2, TotalCuota: dec("45.00"), EstadoPago: entity.CuotaVencida},
		{NumeroCuota: 3, TotalCuota: dec("45.00"), EstadoPago: entity.CuotaPagada},
		{NumeroCuota: 4, TotalCuota: dec("45.00"), EstadoPago: ""},
	}

	resumen := AnalizarPlanIACV(cuotas)

	assert.Equal(t, 4, resumen.TotalCuotas)
	assert.True(t, resumen.CuotasVencidas.Equal(dec("90.00")))
	assert.Equal(t, 2, resumen.CuotasPorEstado[entity.CuotaVencida])
	assert.Equal(t, 1, resumen.CuotasPorEstado[entity.CuotaPagada])
	assert.Equal(t, 1, resumen.CuotasPorEstado[entity.CuotaPendiente])
}

func TestEstimarFechaVencimiento(t *testing.T) {
	assert.Equal(t, "31/03/2020", entity.EstimarFechaVencimiento(1, 2020))
	assert.Equal(t, "31/12/2020", entity.EstimarFechaVencimiento(4, 2020))
	assert.Equal(t, "31/03/2021", entity.EstimarFechaVencimiento(5, 2020))
}
