// Package sri implementa los clientes HTTP hacia los servicios de
// matriculación vehicular del SRI y los servicios externos de consulta
// de propietario, con rate limiting, reintentos y cache de respuestas.
package sri

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/ecplacas/ecplacas-api/internal/domain"
	"github.com/ecplacas/ecplacas-api/pkg/logger"
)

// Pool de identidades de navegador rotadas por request. Los servicios
// del SRI rechazan clientes sin cabeceras de navegador.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}

// Códigos HTTP que ameritan reintento con backoff.
var codigosReintentables = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// ClienteHTTP cliente HTTP con espaciamiento mínimo entre requests por
// grupo de endpoint y reintentos con backoff exponencial.
type ClienteHTTP struct {
	http        *http.Client
	maxIntentos int
	espaciado   time.Duration
	backoffBase time.Duration
	log         *logger.Logger

	mu             sync.Mutex
	ultimaPorGrupo map[string]time.Time
}

// NewClienteHTTP crea el cliente con el timeout por llamada, la cantidad
// de reintentos y el espaciamiento mínimo entre requests del mismo grupo.
func NewClienteHTTP(timeout time.Duration, maxReintentos int, espaciado time.Duration, log *logger.Logger) *ClienteHTTP {
	if maxReintentos < 0 {
		maxReintentos = 0
	}
	return &ClienteHTTP{
		http:           &http.Client{Timeout: timeout},
		maxIntentos:    maxReintentos + 1,
		espaciado:      espaciado,
		backoffBase:    time.Second,
		log:            log,
		ultimaPorGrupo: make(map[string]time.Time),
	}
}

// esperarTurno aplica el espaciamiento mínimo del grupo. La espera ocurre
// fuera del lock para no serializar a los demás grupos.
func (c *ClienteHTTP) esperarTurno(ctx context.Context, grupo string) error {
	for {
		c.mu.Lock()
		ahora := time.Now()
		ultima, ok := c.ultimaPorGrupo[grupo]
		if !ok || ahora.Sub(ultima) >= c.espaciado {
			c.ultimaPorGrupo[grupo] = ahora
			c.mu.Unlock()
			return nil
		}
		espera := c.espaciado - ahora.Sub(ultima)
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(espera):
		}
	}
}

// Hacer ejecuta el request respetando el rate limit del grupo y
// reintentando sobre códigos transitorios. Devuelve el cuerpo de la
// respuesta 2xx.
func (c *ClienteHTTP) Hacer(ctx context.Context, grupo string, construir func() (*http.Request, error)) ([]byte, error) {
	var ultimoErr error

	for intento := 1; intento <= c.maxIntentos; intento++ {
		if err := c.esperarTurno(ctx, grupo); err != nil {
			return nil, err
		}

		req, err := construir()
		if err != nil {
			return nil, fmt.Errorf("construir request: %w", err)
		}
		decorar(req)

		resp, err := c.http.Do(req.WithContext(ctx))
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || esTimeout(err) {
				ultimoErr = fmt.Errorf("%w: %s", domain.ErrTimeoutUpstream, req.URL.Host)
			} else {
				ultimoErr = fmt.Errorf("request a %s: %w", req.URL.Host, err)
			}
			c.dormirBackoff(ctx, intento)
			continue
		}

		cuerpo, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			ultimoErr = fmt.Errorf("leer respuesta de %s: %w", req.URL.Host, err)
			c.dormirBackoff(ctx, intento)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return cuerpo, nil
		}

		ultimoErr = &domain.ErrorHTTPUpstream{Status: resp.StatusCode, URL: req.URL.String()}
		if !codigosReintentables[resp.StatusCode] {
			return nil, ultimoErr
		}
		c.log.Debug().
			Int("status", resp.StatusCode).
			Int("intento", intento).
			Str("grupo", grupo).
			Msg("reintentando request upstream")
		c.dormirBackoff(ctx, intento)
	}

	return nil, ultimoErr
}

// dormirBackoff espera 1s, 2s, 4s... entre intentos, respetando ctx.
func (c *ClienteHTTP) dormirBackoff(ctx context.Context, intento int) {
	if intento >= c.maxIntentos {
		return
	}
	espera := c.backoffBase * time.Duration(1<<(intento-1))
	select {
	case <-ctx.Done():
	case <-time.After(espera):
	}
}

// decorar agrega las cabeceras de navegador y direcciones de origen
// rotadas que esperan los servicios consultados.
func decorar(req *http.Request) {
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "es-EC,es;q=0.9,en;q=0.8")
	ip := ipAleatoria()
	req.Header.Set("X-Forwarded-For", ip)
	req.Header.Set("X-Real-IP", ip)
}

func ipAleatoria() string {
	return fmt.Sprintf("190.%d.%d.%d", rand.Intn(256), rand.Intn(256), 1+rand.Intn(254))
}

func esTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
