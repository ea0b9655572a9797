package analisis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ecplacas/ecplacas-api/internal/domain/entity"
)

func TestCalcularPuntajeSinDeudas(t *testing.T) {
	p := CalcularPuntaje(EntradaPuntaje{})

	assert.Equal(t, 100, p.Valor)
	assert.Equal(t, "EXCELENTE - SIN DEUDAS", p.Clasificacion)
	assert.Equal(t, "MUY BAJO", p.NivelRiesgo)
	assert.NotEmpty(t, p.Recomendacion)
}

func TestCalcularPuntajeDeudaModerada(t *testing.T) {
	// Deuda de 150 USD penaliza 15 puntos
	p := CalcularPuntaje(EntradaPuntaje{
		Totales: entity.TotalesDeuda{TotalDeuda: dec("150.00")},
	})

	assert.Equal(t, 85, p.Valor)
	assert.Equal(t, "BUENO - DEUDAS MENORES", p.Clasificacion)
	assert.Equal(t, "BAJO", p.NivelRiesgo)
}

func TestCalcularPuntajeEscalonesDeDeuda(t *testing.T) {
	tests := []struct {
		deuda    string
		esperado int
	}{
		{"0", 100},
		{"50", 95},
		{"150", 85},
		{"600", 75},
		{"1500", 60},
		{"2500", 50},
	}

	for _, tt := range tests {
		p := CalcularPuntaje(EntradaPuntaje{
			Totales: entity.TotalesDeuda{TotalDeuda: dec(tt.deuda)},
		})
		assert.Equal(t, tt.esperado, p.Valor, "deuda %s", tt.deuda)
	}
}

func TestCalcularPuntajeAcumulaPenalizaciones(t *testing.T) {
	p := CalcularPuntaje(EntradaPuntaje{
		Totales: entity.TotalesDeuda{
			TotalDeuda:     dec("2500.00"), // -50
			TotalMultas:    dec("150.00"),  // -20
			TotalIntereses: dec("80.00"),   // -15
		},
		IACV:              entity.AnalisisIACV{CuotasVencidas: dec("120.00")}, // -25
		ProhibidoEnajenar: true,                                               // -30
	})

	// 100-50-20-15-25-30 = -40, acotado a 0
	assert.Equal(t, 0, p.Valor)
	assert.Equal(t, "CRÍTICO - MÚLTIPLES DEUDAS", p.Clasificacion)
	assert.Equal(t, "CRÍTICO", p.NivelRiesgo)
}

func TestCalcularPuntajeBonificaciones(t *testing.T) {
	p := CalcularPuntaje(EntradaPuntaje{
		Totales: entity.TotalesDeuda{
			TotalDeuda:          dec("600.00"),   // -25
			TotalPrescripciones: dec("-350.00"),  // +3
		},
		Pagos: entity.AnalisisPagos{
			TotalPagado:     dec("2500.00"), // +10
			PagosUltimoAnio: dec("120.00"),  // +5
		},
	})

	// 100-25+10+5+3 = 93
	assert.Equal(t, 93, p.Valor)
	assert.Equal(t, "BUENO - DEUDAS MENORES", p.Clasificacion)
}

func TestCalcularPuntajeNoSuperaCien(t *testing.T) {
	p := CalcularPuntaje(EntradaPuntaje{
		Pagos: entity.AnalisisPagos{
			TotalPagado:     dec("5000.00"),
			PagosUltimoAnio: dec("300.00"),
		},
		Totales: entity.TotalesDeuda{TotalPrescripciones: dec("-2000.00")},
	})
	assert.Equal(t, 100, p.Valor)
}

func TestCalcularPuntajeMonotonoEnDeuda(t *testing.T) {
	// Más deuda nunca mejora el puntaje
	anterior := 101
	for _, d := range []string{"0", "50", "150", "600", "1500", "2500"} {
		p := CalcularPuntaje(EntradaPuntaje{
			Totales: entity.TotalesDeuda{TotalDeuda: dec(d)},
		})
		assert.LessOrEqual(t, p.Valor, anterior, "deuda %s", d)
		anterior = p.Valor
	}
}

func TestValorEstimado(t *testing.T) {
	// Vehículo nuevo sin deuda conserva el valor base
	assert.True(t, entity.ValorEstimado(0, false).Equal(dec("15000.00")))

	// La depreciación tiene piso de factor 0.1
	viejo := entity.ValorEstimado(60, false)
	assert.True(t, viejo.Equal(dec("1500.00")), "valor: %s", viejo)

	// Con deuda se castiga 10% y nunca baja de 1000
	conDeuda := entity.ValorEstimado(60, true)
	assert.True(t, conDeuda.Equal(dec("1350.00")), "valor: %s", conDeuda)
	assert.False(t, entity.ValorEstimado(100, true).LessThan(decimal.NewFromInt(1000)))
}
