// Package validacion implementa las validaciones de placa vehicular y
// cédula ecuatoriana previas a toda consulta externa.
package validacion

import (
	"regexp"
	"strings"
	"sync"
)

var (
	patronPlacaCorta = regexp.MustCompile(`^([A-Z]{2,3})(\d{3})$`)
	patronPlaca      = regexp.MustCompile(`^[A-Z]{2,3}-?\d{3,4}$`)
	soloAlfanumerico = regexp.MustCompile(`[^A-Z0-9]`)
)

const maxEntradasMemo = 1000

// Validador valida y normaliza placas y cédulas. Memoiza los resultados
// porque el frontend reenvía los mismos valores en cada sondeo de estado;
// los caches pertenecen a la instancia y se protegen con su mutex.
type Validador struct {
	mu      sync.Mutex
	placas  map[string]string
	cedulas map[string]bool
}

// NewValidador construye el validador con sus caches vacíos.
func NewValidador() *Validador {
	return &Validador{
		placas:  make(map[string]string),
		cedulas: make(map[string]bool),
	}
}

// PlacaNormalizada resultado de normalizar una placa.
type PlacaNormalizada struct {
	Original    string
	Normalizada string
	Modificada  bool
}

// NormalizarPlaca limpia y normaliza una placa al formato que aceptan los
// servicios del SRI: mayúsculas, sin guiones ni espacios, y con un cero
// insertado cuando la parte numérica tiene solo tres dígitos (ABC123 se
// convierte en ABC0123). Devuelve la placa original, la normalizada y si
// hubo cambios.
func (v *Validador) NormalizarPlaca(placa string) PlacaNormalizada {
	clave := strings.ToUpper(strings.TrimSpace(placa))

	v.mu.Lock()
	normalizada, ok := v.placas[clave]
	v.mu.Unlock()

	if !ok {
		limpia := soloAlfanumerico.ReplaceAllString(clave, "")
		normalizada = limpia
		if m := patronPlacaCorta.FindStringSubmatch(limpia); m != nil {
			normalizada = m[1] + "0" + m[2]
		}

		v.mu.Lock()
		if len(v.placas) >= maxEntradasMemo {
			v.placas = make(map[string]string)
		}
		v.placas[clave] = normalizada
		v.mu.Unlock()
	}

	return PlacaNormalizada{
		Original:    placa,
		Normalizada: normalizada,
		Modificada:  normalizada != placa,
	}
}

// ValidarFormatoPlaca verifica que la placa (o CAMV/CPN) tenga un formato
// aceptable antes de normalizarla: 6 a 8 caracteres, 2 o 3 letras seguidas
// de 3 o 4 dígitos, con guion opcional.
func (v *Validador) ValidarFormatoPlaca(placa string) bool {
	limpia := strings.ToUpper(strings.TrimSpace(placa))
	limpia = strings.ReplaceAll(limpia, " ", "")
	if len(limpia) < 6 || len(limpia) > 8 {
		return false
	}
	return patronPlaca.MatchString(limpia)
}
