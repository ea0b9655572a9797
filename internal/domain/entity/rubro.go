package entity

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Categorías de rubro según la descripción del SRI.
const (
	CategoriaImpuesto = "IMPUESTO"
	CategoriaTasa     = "TASA"
	CategoriaMulta    = "MULTA"
	CategoriaOtro     = "OTRO"
)

// Prioridades de cobro según el monto del rubro.
const (
	PrioridadAlta  = "ALTA"
	PrioridadMedia = "MEDIA"
	PrioridadBaja  = "BAJA"
)

// Tipos de componente de deuda.
const (
	ComponenteImpuesto     = "IMPUESTO"
	ComponenteTasa         = "TASA"
	ComponenteInteres      = "INTERES"
	ComponenteMulta        = "MULTA"
	ComponentePrescripcion = "PRESCRIPCION"
	ComponenteOtro         = "OTRO"
)

var quitarAcentos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizarTexto mayúsculas sin tildes, para comparar descripciones
// del SRI que llegan con acentuación inconsistente.
func normalizarTexto(s string) string {
	plano, _, err := transform.String(quitarAcentos, s)
	if err != nil {
		plano = s
	}
	return strings.ToUpper(plano)
}

// Rubro una obligación pendiente asociada al vehículo.
type Rubro struct {
	CodigoConsultaRubro int64           `json:"codigoConsultaRubro"`
	Descripcion         string          `json:"descripcion"`
	Valor               decimal.Decimal `json:"valor"`
	Periodo             string          `json:"periodo,omitempty"`
	Beneficiario        string          `json:"beneficiario,omitempty"`
	Categoria           string          `json:"categoria"`
	Prioridad           string          `json:"prioridad"`
	Componentes         []Componente    `json:"componentes,omitempty"`
}

// NuevoRubro construye el rubro y deriva categoría y prioridad.
func NuevoRubro(codigo int64, descripcion string, valor decimal.Decimal, periodo, beneficiario string) Rubro {
	return Rubro{
		CodigoConsultaRubro: codigo,
		Descripcion:         descripcion,
		Valor:               valor,
		Periodo:             periodo,
		Beneficiario:        beneficiario,
		Categoria:           clasificarRubro(descripcion),
		Prioridad:           prioridadPorMonto(valor),
	}
}

func clasificarRubro(descripcion string) string {
	d := normalizarTexto(descripcion)
	switch {
	case strings.Contains(d, "IMPUESTO"):
		return CategoriaImpuesto
	case strings.Contains(d, "TASA"):
		return CategoriaTasa
	case strings.Contains(d, "MULTA"), strings.Contains(d, "INFRACCION"):
		return CategoriaMulta
	default:
		return CategoriaOtro
	}
}

func prioridadPorMonto(valor decimal.Decimal) string {
	switch {
	case valor.GreaterThan(decimal.NewFromInt(500)):
		return PrioridadAlta
	case valor.GreaterThan(decimal.NewFromInt(100)):
		return PrioridadMedia
	default:
		return PrioridadBaja
	}
}

// Componente el desglose de un rubro (capital, intereses, multas, etc.).
type Componente struct {
	Codigo      string          `json:"codigo,omitempty"`
	Descripcion string          `json:"descripcion"`
	Valor       decimal.Decimal `json:"valor"`
	Periodo     string          `json:"periodo,omitempty"`
	Tipo        string          `json:"tipo"`
}

// NuevoComponente construye el componente derivando su tipo a partir del
// código y la descripción.
func NuevoComponente(codigo, descripcion string, valor decimal.Decimal, periodo string) Componente {
	return Componente{
		Codigo:      codigo,
		Descripcion: descripcion,
		Valor:       valor,
		Periodo:     periodo,
		Tipo:        clasificarComponente(codigo, descripcion),
	}
}

func clasificarComponente(codigo, descripcion string) string {
	texto := normalizarTexto(codigo + " " + descripcion)
	switch {
	case strings.Contains(texto, "PRESCRIPCION"):
		return ComponentePrescripcion
	case strings.Contains(texto, "INTERES"):
		return ComponenteInteres
	case strings.Contains(texto, "MULTA"), strings.Contains(texto, "INFRACCION"):
		return ComponenteMulta
	case strings.Contains(texto, "IMPUESTO"):
		return ComponenteImpuesto
	case strings.Contains(texto, "TASA"):
		return ComponenteTasa
	default:
		return ComponenteOtro
	}
}
