package validacion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidarCedula(t *testing.T) {
	tests := []struct {
		nombre   string
		cedula   string
		esperado bool
	}{
		{"cédula válida", "1710034065", true},
		{"dígito verificador incorrecto", "1710034066", false},
		{"muy corta", "171003406", false},
		{"muy larga", "17100340655", false},
		{"con letras", "17100A4065", false},
		{"provincia inválida cero", "0010034065", false},
		{"provincia inválida 25", "2510034065", false},
		{"tercer dígito mayor a 5", "1760034065", false},
		{"vacía", "", false},
	}

	v := NewValidador()
	for _, tt := range tests {
		t.Run(tt.nombre, func(t *testing.T) {
			assert.Equal(t, tt.esperado, v.ValidarCedula(tt.cedula))
		})
	}
}

func TestValidarCedulaMemoizada(t *testing.T) {
	// La segunda llamada se sirve desde el cache de la instancia.
	v := NewValidador()
	assert.True(t, v.ValidarCedula("1710034065"))
	assert.True(t, v.ValidarCedula("1710034065"))
	assert.Len(t, v.cedulas, 1)
}
