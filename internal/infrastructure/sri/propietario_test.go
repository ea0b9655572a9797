package sri

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nuevoClientePropietarioPrueba(t *testing.T, principal, respaldo http.Handler) *ClientePropietario {
	t.Helper()
	srvPrincipal := httptest.NewServer(principal)
	t.Cleanup(srvPrincipal.Close)
	srvRespaldo := httptest.NewServer(respaldo)
	t.Cleanup(srvRespaldo.Close)

	httpc := NewClienteHTTP(5*time.Second, 0, 0, logPrueba())
	return NewClientePropietario(srvPrincipal.URL, srvRespaldo.URL, httpc, logPrueba())
}

func TestConsultarPropietarioPrincipal(t *testing.T) {
	principal := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var carga map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&carga))
		assert.Equal(t, "ABC0123", carga["value"])
		fmt.Fprint(w, `{"nombre": "JUAN PEREZ", "identificacion": "1710034065"}`)
	})
	respaldo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("el respaldo no debe consultarse si el principal responde")
	})

	c := nuevoClientePropietarioPrueba(t, principal, respaldo)
	prop, err := c.ConsultarPropietario(context.Background(), "ABC0123")

	require.NoError(t, err)
	assert.True(t, prop.Disponible)
	assert.Equal(t, "JUAN PEREZ", prop.Nombre)
	assert.Equal(t, "1710034065", prop.Identificacion)
	assert.Equal(t, "principal", prop.Fuente)
}

func TestConsultarPropietarioCaeAlRespaldo(t *testing.T) {
	principal := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	respaldo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "ABC0123", r.URL.Query().Get("placa"))
		fmt.Fprint(w, `{"data": {"nombreCompleto": "MARIA LOPEZ"}}`)
	})

	c := nuevoClientePropietarioPrueba(t, principal, respaldo)
	prop, err := c.ConsultarPropietario(context.Background(), "ABC0123")

	require.NoError(t, err)
	assert.True(t, prop.Disponible)
	assert.Equal(t, "MARIA LOPEZ", prop.Nombre)
	assert.Equal(t, "respaldo", prop.Fuente)
}

func TestConsultarPropietarioSinDatos(t *testing.T) {
	vacio := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	c := nuevoClientePropietarioPrueba(t, vacio, vacio)
	prop, err := c.ConsultarPropietario(context.Background(), "ABC0123")

	require.NoError(t, err)
	assert.False(t, prop.Disponible)
	assert.Empty(t, prop.Nombre)
}
