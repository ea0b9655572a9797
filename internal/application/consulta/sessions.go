package consulta

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ecplacas/ecplacas-api/internal/domain"
	"github.com/ecplacas/ecplacas-api/internal/domain/entity"
	"github.com/ecplacas/ecplacas-api/pkg/logger"
)

// EstadoSesion instantánea del avance de una consulta.
type EstadoSesion struct {
	SesionID   string                `json:"sesionId"`
	Placa      string                `json:"placa"`
	Estado     entity.EstadoConsulta `json:"estado"`
	Progreso   int                   `json:"progreso"`
	Mensaje    string                `json:"mensaje"`
	Error      string                `json:"error,omitempty"`
	IniciadaEn time.Time             `json:"iniciadaEn"`
}

type sesion struct {
	estado       EstadoSesion
	resultado    *entity.ResultadoConsulta
	finalizadaEn time.Time
}

// Tracker lleva el estado de las sesiones de consulta en memoria. Las
// sesiones terminadas se conservan durante la ventana de retención y
// luego un janitor las elimina.
type Tracker struct {
	mu        sync.RWMutex
	sesiones  map[string]*sesion
	retencion time.Duration
	log       *logger.Logger
}

// NewTracker crea el tracker con la ventana de retención indicada.
func NewTracker(retencion time.Duration, log *logger.Logger) *Tracker {
	return &Tracker{
		sesiones:  make(map[string]*sesion),
		retencion: retencion,
		log:       log,
	}
}

// Iniciar registra una nueva sesión en estado iniciando.
func (t *Tracker) Iniciar(sesionID, placa string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sesiones[sesionID] = &sesion{
		estado: EstadoSesion{
			SesionID:   sesionID,
			Placa:      placa,
			Estado:     entity.EstadoIniciando,
			Progreso:   entity.EstadoIniciando.Progreso(),
			Mensaje:    entity.EstadoIniciando.Mensaje(),
			IniciadaEn: time.Now(),
		},
	}
}

// Avanzar actualiza la etapa de una sesión. El progreso nunca retrocede
// y las sesiones terminadas no cambian de estado.
func (t *Tracker) Avanzar(sesionID string, estado entity.EstadoConsulta) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sesiones[sesionID]
	if !ok || s.estado.Estado.Terminal() {
		return
	}
	s.estado.Estado = estado
	s.estado.Mensaje = estado.Mensaje()
	if p := estado.Progreso(); p > s.estado.Progreso {
		s.estado.Progreso = p
	}
}

// Completar marca la sesión como completada y guarda el resultado.
func (t *Tracker) Completar(sesionID string, resultado *entity.ResultadoConsulta) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sesiones[sesionID]
	if !ok || s.estado.Estado.Terminal() {
		return
	}
	s.estado.Estado = entity.EstadoCompletado
	s.estado.Progreso = entity.EstadoCompletado.Progreso()
	s.estado.Mensaje = entity.EstadoCompletado.Mensaje()
	s.resultado = resultado
	s.finalizadaEn = time.Now()
}

// Fallar marca la sesión como terminada con error.
func (t *Tracker) Fallar(sesionID string, causa error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sesiones[sesionID]
	if !ok || s.estado.Estado.Terminal() {
		return
	}
	s.estado.Estado = entity.EstadoError
	s.estado.Progreso = entity.EstadoError.Progreso()
	s.estado.Mensaje = entity.EstadoError.Mensaje()
	if causa != nil {
		s.estado.Error = causa.Error()
	}
	s.finalizadaEn = time.Now()
}

// Estado devuelve la instantánea de avance de una sesión.
func (t *Tracker) Estado(sesionID string) (*EstadoSesion, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.sesiones[sesionID]
	if !ok {
		return nil, domain.ErrSesionNoEncontrada
	}
	copia := s.estado
	return &copia, nil
}

// Resultado devuelve el resultado consolidado de una sesión completada.
// Devuelve domain.ErrConsultaEnCurso si aún no termina y el error de la
// sesión si terminó en error.
func (t *Tracker) Resultado(sesionID string) (*entity.ResultadoConsulta, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.sesiones[sesionID]
	if !ok {
		return nil, domain.ErrSesionNoEncontrada
	}
	switch s.estado.Estado {
	case entity.EstadoCompletado:
		return s.resultado, nil
	case entity.EstadoError:
		if s.estado.Error != "" {
			return nil, fmt.Errorf("la consulta terminó con error: %s", s.estado.Error)
		}
		return nil, errors.New("la consulta terminó con error")
	default:
		return nil, domain.ErrConsultaEnCurso
	}
}

// ActivasYTotales devuelve la cantidad de sesiones en curso y el total
// retenido, para el API administrativo.
func (t *Tracker) ActivasYTotales() (activas, totales int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, s := range t.sesiones {
		if !s.estado.Estado.Terminal() {
			activas++
		}
	}
	return activas, len(t.sesiones)
}

// Janitor elimina periódicamente las sesiones terminadas cuya ventana de
// retención expiró. Corre hasta que ctx se cancele.
func (t *Tracker) Janitor(ctx context.Context, intervalo time.Duration) {
	ticker := time.NewTicker(intervalo)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.purgar(time.Now())
		}
	}
}

func (t *Tracker) purgar(ahora time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	eliminadas := 0
	for id, s := range t.sesiones {
		if s.estado.Estado.Terminal() && ahora.Sub(s.finalizadaEn) > t.retencion {
			delete(t.sesiones, id)
			eliminadas++
		}
	}
	if eliminadas > 0 && t.log != nil {
		t.log.Debug().Int("eliminadas", eliminadas).Msg("sesiones expiradas purgadas")
	}
}
