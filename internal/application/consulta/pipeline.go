package consulta

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ecplacas/ecplacas-api/internal/application/analisis"
	"github.com/ecplacas/ecplacas-api/internal/domain"
	"github.com/ecplacas/ecplacas-api/internal/domain/entity"
	"github.com/ecplacas/ecplacas-api/internal/domain/repository"
	"github.com/ecplacas/ecplacas-api/internal/domain/validacion"
	"github.com/ecplacas/ecplacas-api/pkg/logger"
)

// Config parámetros de ejecución del pipeline.
type Config struct {
	// Completa habilita las etapas de componentes, pagos e impuesto
	// ambiental. En falso solo se consultan base y rubros.
	Completa bool

	// MaxComponentJobs fan-out máximo simultáneo al desglosar rubros.
	MaxComponentJobs int

	// MaxPaymentDetails tope de pagos a los que se consulta el detalle.
	MaxPaymentDetails int

	// TimeoutTotal presupuesto de tiempo de la consulta completa.
	TimeoutTotal time.Duration
}

// Solicitud datos de entrada de una consulta.
type Solicitud struct {
	Placa   string
	Usuario *entity.Usuario // opcional; si viene, la cédula debe ser válida
}

// Pipeline ejecuta las etapas de la consulta vehicular de forma
// asíncrona y publica el avance en el Tracker.
type Pipeline struct {
	sri         ClienteSRI
	propietario ClientePropietario
	repo        repository.ConsultaRepository // puede ser nil
	tracker     *Tracker
	valid       *validacion.Validador
	log         *logger.Logger
	cfg         Config
}

// NewPipeline arma el pipeline. repo puede ser nil cuando la persistencia
// está deshabilitada.
func NewPipeline(sri ClienteSRI, propietario ClientePropietario, repo repository.ConsultaRepository, tracker *Tracker, valid *validacion.Validador, log *logger.Logger, cfg Config) *Pipeline {
	if cfg.MaxComponentJobs <= 0 {
		cfg.MaxComponentJobs = 5
	}
	if cfg.MaxPaymentDetails <= 0 {
		cfg.MaxPaymentDetails = 50
	}
	if cfg.TimeoutTotal <= 0 {
		cfg.TimeoutTotal = 5 * time.Minute
	}
	return &Pipeline{
		sri:         sri,
		propietario: propietario,
		repo:        repo,
		tracker:     tracker,
		valid:       valid,
		log:         log,
		cfg:         cfg,
	}
}

// Iniciar valida la solicitud y lanza la consulta en segundo plano.
// Los errores de validación se devuelven de inmediato; el avance de las
// etapas se consulta vía el Tracker con el ID de sesión devuelto.
func (p *Pipeline) Iniciar(solicitud Solicitud) (string, error) {
	if !p.valid.ValidarFormatoPlaca(solicitud.Placa) {
		return "", fmt.Errorf("%w: %q", domain.ErrPlacaInvalida, solicitud.Placa)
	}
	if solicitud.Usuario != nil && !p.valid.ValidarCedula(solicitud.Usuario.Cedula) {
		return "", domain.ErrCedulaInvalida
	}

	sesionID := uuid.NewString()
	p.tracker.Iniciar(sesionID, p.valid.NormalizarPlaca(solicitud.Placa).Normalizada)

	go p.ejecutar(sesionID, solicitud)

	return sesionID, nil
}

// ejecutar corre todas las etapas con contexto propio. Siempre deja la
// sesión en un estado terminal, incluso ante pánico.
func (p *Pipeline) ejecutar(sesionID string, solicitud Solicitud) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Str("sesion", sesionID).Interface("panico", r).Msg("pánico en pipeline de consulta")
			p.tracker.Fallar(sesionID, fmt.Errorf("error interno"))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.TimeoutTotal)
	defer cancel()

	inicio := time.Now()
	log := p.log.With().Str("sesion", sesionID).Str("placa", solicitud.Placa).Logger()

	normalizada := p.valid.NormalizarPlaca(solicitud.Placa).Normalizada

	// Propietario: informativo, la consulta continúa si falla.
	p.tracker.Avanzar(sesionID, entity.EstadoConsultandoPropietario)
	prop := p.consultarPropietario(ctx, normalizada)

	// Base: única etapa fatal. Se intenta con la placa normalizada y,
	// si no existe, con la placa original limpia.
	p.tracker.Avanzar(sesionID, entity.EstadoConsultandoBase)
	veh, err := p.consultarBase(ctx, normalizada, solicitud.Placa)
	if err != nil {
		log.Warn().Err(err).Msg("consulta base fallida")
		p.tracker.Fallar(sesionID, err)
		return
	}
	veh.Placa = normalizada
	veh.PlacaOriginal = strings.ToUpper(strings.TrimSpace(solicitud.Placa))

	// Rubros: sin rubros el vehículo simplemente no tiene deudas.
	p.tracker.Avanzar(sesionID, entity.EstadoConsultandoRubros)
	rubros, err := p.sri.ConsultarRubros(ctx, veh.CodigoVehiculo)
	if err != nil {
		log.Warn().Err(err).Msg("consulta de rubros fallida, se continúa sin deudas")
		rubros = nil
	}

	var pagos []entity.Pago
	var cuotas []entity.CuotaIACV
	if p.cfg.Completa {
		p.tracker.Avanzar(sesionID, entity.EstadoConsultandoComponentes)
		p.desglosarRubros(ctx, rubros)

		p.tracker.Avanzar(sesionID, entity.EstadoConsultandoPagos)
		pagos = p.consultarPagos(ctx, normalizada)

		p.tracker.Avanzar(sesionID, entity.EstadoConsultandoIACV)
		cuotas, err = p.sri.ConsultarCuotasIACV(ctx, veh.CodigoVehiculo)
		if err != nil {
			log.Warn().Err(err).Msg("consulta IACV fallida, se continúa sin cuotas")
			cuotas = nil
		}
	}

	p.tracker.Avanzar(sesionID, entity.EstadoAnalizando)
	resultado := p.consolidar(sesionID, solicitud, veh, prop, rubros, pagos, cuotas, inicio)

	if p.repo != nil {
		if err := p.repo.Guardar(ctx, resultado); err != nil {
			log.Error().Err(err).Msg("no se pudo persistir el resultado")
		}
	}

	p.tracker.Completar(sesionID, resultado)
	log.Info().
		Int("puntaje", resultado.Puntaje.Valor).
		Str("total_deuda", resultado.Totales.TotalDeuda.String()).
		Dur("duracion", time.Since(inicio)).
		Msg("consulta completada")
}

func (p *Pipeline) consultarPropietario(ctx context.Context, placa string) *entity.Propietario {
	prop, err := p.propietario.ConsultarPropietario(ctx, placa)
	if err != nil || prop == nil {
		if err != nil {
			p.log.Warn().Err(err).Str("placa", placa).Msg("consulta de propietario fallida")
		}
		return &entity.Propietario{Disponible: false}
	}
	return prop
}

var noAlfanumerico = regexp.MustCompile(`[^A-Z0-9]`)

func (p *Pipeline) consultarBase(ctx context.Context, normalizada, original string) (*entity.Vehiculo, error) {
	veh, err := p.sri.ConsultarBase(ctx, normalizada)
	if err == nil {
		return veh, nil
	}

	limpia := noAlfanumerico.ReplaceAllString(strings.ToUpper(original), "")
	if limpia != "" && limpia != normalizada {
		if veh, err2 := p.sri.ConsultarBase(ctx, limpia); err2 == nil {
			return veh, nil
		}
	}
	return nil, err
}

// desglosarRubros consulta los componentes de cada rubro con fan-out
// acotado. La falla de un rubro individual deja ese rubro sin desglose.
func (p *Pipeline) desglosarRubros(ctx context.Context, rubros []entity.Rubro) {
	if len(rubros) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.MaxComponentJobs)
	for i := range rubros {
		i := i
		g.Go(func() error {
			componentes, err := p.sri.ConsultarComponentes(gctx, rubros[i].CodigoConsultaRubro)
			if err != nil {
				p.log.Warn().Err(err).
					Int64("rubro", rubros[i].CodigoConsultaRubro).
					Msg("desglose de rubro fallido")
				return nil
			}
			rubros[i].Componentes = componentes
			return nil
		})
	}
	_ = g.Wait()
}

// consultarPagos trae el historial y el detalle de los primeros pagos
// dentro del presupuesto configurado. Las fallas de detalle se omiten.
func (p *Pipeline) consultarPagos(ctx context.Context, placa string) []entity.Pago {
	pagos, err := p.sri.ConsultarPagos(ctx, placa)
	if err != nil {
		p.log.Warn().Err(err).Str("placa", placa).Msg("consulta de pagos fallida, se continúa sin historial")
		return nil
	}

	presupuesto := p.cfg.MaxPaymentDetails
	for i := range pagos {
		if i >= presupuesto {
			break
		}
		if pagos[i].CodigoRecaudacion == "" {
			continue
		}
		detalles, err := p.sri.ConsultarDetallePago(ctx, pagos[i].CodigoRecaudacion)
		if err != nil {
			continue
		}
		pagos[i].Detalles = detalles
	}
	return pagos
}

func (p *Pipeline) consolidar(sesionID string, solicitud Solicitud, veh *entity.Vehiculo, prop *entity.Propietario, rubros []entity.Rubro, pagos []entity.Pago, cuotas []entity.CuotaIACV, inicio time.Time) *entity.ResultadoConsulta {
	ahora := time.Now()

	totales := analisis.TotalizarComponentes(rubros)
	grupos := analisis.AgruparPorBeneficiario(rubros)
	resumenPagos := analisis.TotalizarPagos(pagos, ahora)
	resumenIACV := analisis.AnalizarPlanIACV(cuotas)

	puntaje := analisis.CalcularPuntaje(analisis.EntradaPuntaje{
		Totales:           totales,
		Pagos:             resumenPagos,
		IACV:              resumenIACV,
		ProhibidoEnajenar: veh.ProhibicionActiva(),
	})

	if rubros == nil {
		rubros = []entity.Rubro{}
	}
	if pagos == nil {
		pagos = []entity.Pago{}
	}
	if cuotas == nil {
		cuotas = []entity.CuotaIACV{}
	}

	return &entity.ResultadoConsulta{
		SesionID:         sesionID,
		Placa:            veh.Placa,
		PlacaOriginal:    veh.PlacaOriginal,
		Usuario:          solicitud.Usuario,
		Vehiculo:         veh,
		Propietario:      prop,
		Rubros:           rubros,
		Pagos:            pagos,
		CuotasIACV:       cuotas,
		Totales:          totales,
		PorBeneficiario:  grupos,
		ResumenPagos:     resumenPagos,
		ResumenIACV:      resumenIACV,
		Matricula:        entity.AnalizarMatricula(veh.FechaCaducidadMatricula, ahora),
		ValorEstimado:    entity.ValorEstimado(veh.Edad(ahora), totales.TieneDeuda()),
		Puntaje:          puntaje,
		ConsultaCompleta: p.cfg.Completa,
		IniciadaEn:       inicio,
		CompletadaEn:     ahora,
		DuracionSegundos: ahora.Sub(inicio).Seconds(),
	}
}
