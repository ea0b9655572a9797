package sri

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecplacas/ecplacas-api/internal/domain"
	"github.com/ecplacas/ecplacas-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func nuevoClientePrueba(t *testing.T, handler http.Handler) (*Cliente, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	httpc := NewClienteHTTP(5*time.Second, 0, 0, logPrueba())
	return NewCliente(srv.URL, httpc, NewCache(time.Hour, 100), logPrueba()), srv
}

func TestConsultarBase(t *testing.T) {
	c, _ := nuevoClientePrueba(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, rutaBase, r.URL.Path)
		assert.Equal(t, "ABC0123", r.URL.Query().Get("numeroPlacaCampvCpn"))
		fmt.Fprint(w, `{
			"codigoVehiculo": 42,
			"numeroPlaca": "ABC0123",
			"descripcionMarca": "TOYOTA",
			"descripcionModelo": "COROLLA",
			"anioAuto": "2018",
			"prohibidoEnajenar": "NO",
			"fechaCaducidadMatricula": "15-10-2026"
		}`)
	}))

	veh, err := c.ConsultarBase(context.Background(), "ABC0123")
	require.NoError(t, err)

	assert.EqualValues(t, 42, veh.CodigoVehiculo)
	assert.Equal(t, "TOYOTA", veh.Marca)
	assert.Equal(t, "COROLLA", veh.Modelo)
	assert.Equal(t, 2018, veh.AnioAuto)
	assert.False(t, veh.ProhibicionActiva())
}

func TestConsultarBaseNoEncontrado(t *testing.T) {
	c, _ := nuevoClientePrueba(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `null`)
	}))

	_, err := c.ConsultarBase(context.Background(), "ZZZ9999")
	assert.ErrorIs(t, err, domain.ErrVehiculoNoEncontrado)
}

func TestConsultarBaseRespuestaMalformada(t *testing.T) {
	c, _ := nuevoClientePrueba(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>mantenimiento</html>`)
	}))

	_, err := c.ConsultarBase(context.Background(), "ABC0123")
	assert.ErrorIs(t, err, domain.ErrRespuestaMalformada)
}

func TestConsultarBaseUsaElCache(t *testing.T) {
	var llamadas atomic.Int32
	c, _ := nuevoClientePrueba(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llamadas.Add(1)
		fmt.Fprint(w, `{"codigoVehiculo": 42}`)
	}))

	_, err := c.ConsultarBase(context.Background(), "ABC0123")
	require.NoError(t, err)
	_, err = c.ConsultarBase(context.Background(), "ABC0123")
	require.NoError(t, err)

	assert.EqualValues(t, 1, llamadas.Load())
}

func TestConsultarRubrosClasifica(t *testing.T) {
	c, _ := nuevoClientePrueba(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, rutaRubros, r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("codigoVehiculo"))
		fmt.Fprint(w, `[
			{"codigoConsultaRubro": 901, "descripcion": "IMPUESTO AL RODAJE", "valor": "650.00", "periodoFiscal": "2024", "beneficiario": "GAD"},
			{"codigoConsultaRubro": 902, "descripcion": "TASA ANT", "valor": 35.5, "periodoFiscal": "2024", "beneficiario": "ANT"}
		]`)
	}))

	rubros, err := c.ConsultarRubros(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, rubros, 2)

	assert.Equal(t, entity.CategoriaImpuesto, rubros[0].Categoria)
	assert.Equal(t, entity.PrioridadAlta, rubros[0].Prioridad)
	assert.True(t, rubros[0].Valor.Equal(dec("650.00")))

	assert.Equal(t, entity.CategoriaTasa, rubros[1].Categoria)
	assert.Equal(t, entity.PrioridadBaja, rubros[1].Prioridad)
}

func TestConsultarRubrosListaVacia(t *testing.T) {
	c, _ := nuevoClientePrueba(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `null`)
	}))

	rubros, err := c.ConsultarRubros(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, rubros)
}

func TestConsultarPagosNormalizaFechas(t *testing.T) {
	c, _ := nuevoClientePrueba(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, rutaPagos, r.URL.Path)
		fmt.Fprint(w, `[
			{"codigoRecaudacion": "R100", "fechaDePago": "2024-03-05", "monto": 120.5, "formaPago": "EFECTIVO"}
		]`)
	}))

	pagos, err := c.ConsultarPagos(context.Background(), "ABC0123")
	require.NoError(t, err)
	require.Len(t, pagos, 1)

	assert.Equal(t, "05/03/2024", pagos[0].FechaDePago)
	assert.Equal(t, "2024", pagos[0].AnioPago())
	assert.True(t, pagos[0].Monto.Equal(dec("120.5")))
}

func TestConsultarCuotasIACVEstimaVencimiento(t *testing.T) {
	c, _ := nuevoClientePrueba(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, rutaIACV, r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("codigo"))
		fmt.Fprint(w, `[
			{"numeroCuota": 1, "anioDesde": 2020, "totalCuota": "45.00", "estadoPago": "VENCIDO"},
			{"numeroCuota": 5, "anioDesde": 2020, "totalCuota": "45.00", "estadoPago": "PENDIENTE"}
		]`)
	}))

	cuotas, err := c.ConsultarCuotasIACV(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, cuotas, 2)

	assert.True(t, cuotas[0].Vencida())
	assert.Equal(t, "31/03/2020", cuotas[0].FechaVencimiento)
	assert.Equal(t, "31/03/2021", cuotas[1].FechaVencimiento)
}
