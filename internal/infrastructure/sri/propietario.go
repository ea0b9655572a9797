package sri

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ecplacas/ecplacas-api/internal/domain/entity"
	"github.com/ecplacas/ecplacas-api/pkg/logger"
)

// ClientePropietario consulta el propietario del vehículo en el servicio
// principal y cae al de respaldo si el principal falla o no trae datos.
type ClientePropietario struct {
	urlPrincipal string
	urlRespaldo  string
	httpc        *ClienteHTTP
	log          *logger.Logger
}

// NewClientePropietario crea el cliente de propietario.
func NewClientePropietario(urlPrincipal, urlRespaldo string, httpc *ClienteHTTP, log *logger.Logger) *ClientePropietario {
	return &ClientePropietario{
		urlPrincipal: urlPrincipal,
		urlRespaldo:  urlRespaldo,
		httpc:        httpc,
		log:          log,
	}
}

// respuestaPropietario forma común de ambos servicios de propietario.
type respuestaPropietario struct {
	Nombre         string `json:"nombre"`
	NombreCompleto string `json:"nombreCompleto"`
	Propietario    string `json:"propietario"`
	Identificacion string `json:"identificacion"`
	Cedula         string `json:"cedula"`
	Data           *struct {
		Nombre         string `json:"nombre"`
		NombreCompleto string `json:"nombreCompleto"`
		Identificacion string `json:"identificacion"`
	} `json:"data"`
}

func (r *respuestaPropietario) nombre() string {
	for _, n := range []string{r.Nombre, r.NombreCompleto, r.Propietario} {
		if strings.TrimSpace(n) != "" {
			return strings.TrimSpace(n)
		}
	}
	if r.Data != nil {
		for _, n := range []string{r.Data.Nombre, r.Data.NombreCompleto} {
			if strings.TrimSpace(n) != "" {
				return strings.TrimSpace(n)
			}
		}
	}
	return ""
}

func (r *respuestaPropietario) identificacion() string {
	for _, id := range []string{r.Identificacion, r.Cedula} {
		if strings.TrimSpace(id) != "" {
			return strings.TrimSpace(id)
		}
	}
	if r.Data != nil {
		return strings.TrimSpace(r.Data.Identificacion)
	}
	return ""
}

// ConsultarPropietario intenta el servicio principal (POST) y luego el de
// respaldo (GET). Si ninguno trae un nombre, devuelve no disponible sin
// error: el propietario es informativo.
func (p *ClientePropietario) ConsultarPropietario(ctx context.Context, placa string) (*entity.Propietario, error) {
	if prop, err := p.consultarPrincipal(ctx, placa); err == nil && prop != nil {
		return prop, nil
	} else if err != nil {
		p.log.Debug().Err(err).Str("placa", placa).Msg("servicio principal de propietario fallido, probando respaldo")
	}

	if prop, err := p.consultarRespaldo(ctx, placa); err == nil && prop != nil {
		return prop, nil
	} else if err != nil {
		p.log.Debug().Err(err).Str("placa", placa).Msg("servicio de respaldo de propietario fallido")
	}

	return &entity.Propietario{Disponible: false}, nil
}

func (p *ClientePropietario) consultarPrincipal(ctx context.Context, placa string) (*entity.Propietario, error) {
	carga, err := json.Marshal(map[string]string{"value": placa})
	if err != nil {
		return nil, err
	}

	cuerpo, err := p.httpc.Hacer(ctx, "propietario_principal", func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, p.urlPrincipal, bytes.NewReader(carga))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	return parsearPropietario(cuerpo, "principal")
}

func (p *ClientePropietario) consultarRespaldo(ctx context.Context, placa string) (*entity.Propietario, error) {
	destino := fmt.Sprintf("%s?placa=%s", p.urlRespaldo, url.QueryEscape(placa))
	cuerpo, err := p.httpc.Hacer(ctx, "propietario_respaldo", func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, destino, nil)
	})
	if err != nil {
		return nil, err
	}
	return parsearPropietario(cuerpo, "respaldo")
}

// parsearPropietario devuelve nil sin error cuando la respuesta no trae
// nombre, para que el llamador pruebe la siguiente fuente.
func parsearPropietario(cuerpo []byte, fuente string) (*entity.Propietario, error) {
	var r respuestaPropietario
	if err := json.Unmarshal(cuerpo, &r); err != nil {
		return nil, fmt.Errorf("respuesta de propietario no parseable: %w", err)
	}
	nombre := r.nombre()
	if nombre == "" {
		return nil, nil
	}
	return &entity.Propietario{
		Nombre:         nombre,
		Identificacion: r.identificacion(),
		Fuente:         fuente,
		Disponible:     true,
	}, nil
}
