package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Estados de pago de una cuota del impuesto ambiental.
const (
	CuotaPagada    = "PAGADO"
	CuotaVencida   = "VENCIDO"
	CuotaPendiente = "PENDIENTE"
)

// CuotaIACV una cuota del plan excepcional de pagos del impuesto ambiental
// a la contaminación vehicular.
type CuotaIACV struct {
	NumeroCuota      int             `json:"numeroCuota"`
	AnioDesde        int             `json:"anioDesde,omitempty"`
	TotalCuota       decimal.Decimal `json:"totalCuota"`
	EstadoPago       string          `json:"estadoPago"`
	FechaVencimiento string          `json:"fechaVencimiento,omitempty"`
}

// Vencida indica si la cuota está en estado vencido.
func (c CuotaIACV) Vencida() bool {
	return c.EstadoPago == CuotaVencida
}

// EstimarFechaVencimiento calcula la fecha estimada de vencimiento de la
// cuota n del plan trimestral que arranca en anioInicio. Cada cuota vence
// al cierre de un trimestre; si el mes excede diciembre el plan continúa
// en el año siguiente.
func EstimarFechaVencimiento(numeroCuota, anioInicio int) string {
	if numeroCuota < 1 {
		numeroCuota = 1
	}
	mes := (numeroCuota-1)*3 + 3
	anio := anioInicio
	for mes > 12 {
		mes -= 12
		anio++
	}
	return fmt.Sprintf("31/%02d/%d", mes, anio)
}
