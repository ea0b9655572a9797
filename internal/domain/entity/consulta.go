package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EstadoConsulta estado del pipeline de una consulta en curso.
type EstadoConsulta string

const (
	EstadoIniciando              EstadoConsulta = "iniciando"
	EstadoConsultandoPropietario EstadoConsulta = "consultando_propietario"
	EstadoConsultandoBase        EstadoConsulta = "consultando_base"
	EstadoConsultandoRubros      EstadoConsulta = "consultando_rubros"
	EstadoConsultandoComponentes EstadoConsulta = "consultando_componentes"
	EstadoConsultandoPagos       EstadoConsulta = "consultando_pagos"
	EstadoConsultandoIACV        EstadoConsulta = "consultando_iacv"
	EstadoAnalizando             EstadoConsulta = "analizando"
	EstadoCompletado             EstadoConsulta = "completado"
	EstadoError                  EstadoConsulta = "error"
)

// Terminal indica si el estado ya no va a cambiar.
func (e EstadoConsulta) Terminal() bool {
	return e == EstadoCompletado || e == EstadoError
}

// Progreso porcentual asociado a cada etapa del pipeline.
var progresoEtapa = map[EstadoConsulta]int{
	EstadoIniciando:              5,
	EstadoConsultandoPropietario: 15,
	EstadoConsultandoBase:        35,
	EstadoConsultandoRubros:      55,
	EstadoConsultandoComponentes: 75,
	EstadoConsultandoPagos:       85,
	EstadoConsultandoIACV:        95,
	EstadoAnalizando:             95,
	EstadoCompletado:             100,
	EstadoError:                  100,
}

// Mensajes de etapa mostrados al usuario durante la consulta.
var mensajeEtapa = map[EstadoConsulta]string{
	EstadoIniciando:              "Iniciando consulta...",
	EstadoConsultandoPropietario: "Consultando datos del propietario...",
	EstadoConsultandoBase:        "Consultando información base del vehículo...",
	EstadoConsultandoRubros:      "Consultando deudas pendientes...",
	EstadoConsultandoComponentes: "Analizando componentes de deuda...",
	EstadoConsultandoPagos:       "Consultando historial de pagos...",
	EstadoConsultandoIACV:        "Consultando impuesto ambiental...",
	EstadoAnalizando:             "Generando análisis financiero...",
	EstadoCompletado:             "Consulta completada",
	EstadoError:                  "La consulta terminó con error",
}

// Progreso devuelve el porcentaje de avance de una etapa.
func (e EstadoConsulta) Progreso() int {
	if p, ok := progresoEtapa[e]; ok {
		return p
	}
	return 0
}

// Mensaje devuelve el texto descriptivo de la etapa.
func (e EstadoConsulta) Mensaje() string {
	if m, ok := mensajeEtapa[e]; ok {
		return m
	}
	return string(e)
}

// TotalesDeuda totalización de componentes sobre todos los rubros.
type TotalesDeuda struct {
	TotalDeuda          decimal.Decimal `json:"totalDeuda"`
	TotalImpuestos      decimal.Decimal `json:"totalImpuestos"`
	TotalTasas          decimal.Decimal `json:"totalTasas"`
	TotalIntereses      decimal.Decimal `json:"totalIntereses"`
	TotalMultas         decimal.Decimal `json:"totalMultas"`
	TotalPrescripciones decimal.Decimal `json:"totalPrescripciones"`
	TotalOtros          decimal.Decimal `json:"totalOtros"`
	CantidadRubros      int             `json:"cantidadRubros"`
}

// TieneDeuda indica si existe deuda pendiente.
func (t TotalesDeuda) TieneDeuda() bool {
	return t.TotalDeuda.GreaterThan(decimal.Zero)
}

// DeudaPorBeneficiario subtotal de rubros agrupados por entidad beneficiaria.
type DeudaPorBeneficiario struct {
	Beneficiario   string          `json:"beneficiario"`
	Total          decimal.Decimal `json:"total"`
	CantidadRubros int             `json:"cantidadRubros"`
}

// AnalisisPagos resumen del historial de pagos.
type AnalisisPagos struct {
	TotalPagado     decimal.Decimal `json:"totalPagado"`
	CantidadPagos   int             `json:"cantidadPagos"`
	PagosUltimoAnio decimal.Decimal `json:"pagosUltimoAnio"`
	PromedioAnual   decimal.Decimal `json:"promedioAnual"`
	AniosConPagos   int             `json:"aniosConPagos"`
	UltimoPago      string          `json:"ultimoPago,omitempty"`
}

// AnalisisIACV resumen del plan de cuotas del impuesto ambiental.
type AnalisisIACV struct {
	TotalCuotas     int             `json:"totalCuotas"`
	CuotasVencidas  decimal.Decimal `json:"cuotasVencidas"`
	CuotasPorEstado map[string]int  `json:"cuotasPorEstado,omitempty"`
}

// Puntaje evaluación de riesgo financiero del vehículo.
type Puntaje struct {
	Valor         int    `json:"valor"` // 0 a 100
	Clasificacion string `json:"clasificacion"`
	NivelRiesgo   string `json:"nivelRiesgo"`
	Recomendacion string `json:"recomendacion"`
}

// ResultadoConsulta perfil consolidado del vehículo tras completar todas
// las etapas del pipeline.
type ResultadoConsulta struct {
	SesionID         string                 `json:"sesionId"`
	Placa            string                 `json:"placa"`
	PlacaOriginal    string                 `json:"placaOriginal"`
	Usuario          *Usuario               `json:"usuario,omitempty"`
	Vehiculo         *Vehiculo              `json:"vehiculo,omitempty"`
	Propietario      *Propietario           `json:"propietario,omitempty"`
	Rubros           []Rubro                `json:"rubros"`
	Pagos            []Pago                 `json:"pagos"`
	CuotasIACV       []CuotaIACV            `json:"cuotasIacv"`
	Totales          TotalesDeuda           `json:"totales"`
	PorBeneficiario  []DeudaPorBeneficiario `json:"porBeneficiario,omitempty"`
	ResumenPagos     AnalisisPagos          `json:"resumenPagos"`
	ResumenIACV      AnalisisIACV           `json:"resumenIacv"`
	Matricula        AnalisisMatricula      `json:"matricula"`
	ValorEstimado    decimal.Decimal        `json:"valorEstimado"`
	Puntaje          Puntaje                `json:"puntaje"`
	ConsultaCompleta bool                   `json:"consultaCompleta"`
	IniciadaEn       time.Time              `json:"iniciadaEn"`
	CompletadaEn     time.Time              `json:"completadaEn"`
	DuracionSegundos float64                `json:"duracionSegundos"`
}
