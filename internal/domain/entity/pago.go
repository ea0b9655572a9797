package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Pago un pago registrado en la recaudación del SRI.
type Pago struct {
	CodigoRecaudacion string          `json:"codigoRecaudacion,omitempty"`
	FechaDePago       string          `json:"fechaDePago,omitempty"` // dd/mm/yyyy
	Monto             decimal.Decimal `json:"monto"`
	FormaPago         string          `json:"formaPago,omitempty"`
	Banco             string          `json:"banco,omitempty"`
	Detalles          []DetallePago   `json:"detalles,omitempty"`
}

// DetallePago línea de detalle de un pago (rubro pagado y su valor).
type DetallePago struct {
	Descripcion string          `json:"descripcion"`
	Valor       decimal.Decimal `json:"valor"`
	Periodo     string          `json:"periodo,omitempty"`
}

// AnioPago devuelve el año del pago a partir de la fecha dd/mm/yyyy, o
// cadena vacía si no hay fecha válida.
func (p Pago) AnioPago() string {
	if len(p.FechaDePago) == 10 {
		return p.FechaDePago[6:]
	}
	return ""
}

// FormatearFechaPago convierte yyyy-mm-dd (formato del SRI) a dd/mm/yyyy.
// Si la fecha no es parseable se devuelve tal cual.
func FormatearFechaPago(fecha string) string {
	if fecha == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", fecha)
	if err != nil {
		return fecha
	}
	return fmt.Sprintf("%02d/%02d/%d", t.Day(), int(t.Month()), t.Year())
}
