package sri

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"sync"
	"time"
)

// entrada respuesta cacheada con su metadata de expiración y uso.
type entrada struct {
	cuerpo    []byte
	expiraEn  time.Time
	ultimoUso time.Time
}

// Cache cache en memoria de respuestas upstream con TTL y tope de
// entradas. Al llenarse purga primero las expiradas y, si no alcanza,
// desaloja el 20% menos usado recientemente.
type Cache struct {
	mu       sync.Mutex
	entradas map[string]*entrada
	ttl      time.Duration
	max      int
	ahora    func() time.Time // inyectable en pruebas
}

// NewCache crea el cache con la vigencia y capacidad indicadas.
func NewCache(ttl time.Duration, max int) *Cache {
	if max <= 0 {
		max = 1000
	}
	return &Cache{
		entradas: make(map[string]*entrada),
		ttl:      ttl,
		max:      max,
		ahora:    time.Now,
	}
}

// Clave deriva la clave de cache para una placa y un endpoint.
func Clave(placa, endpoint string) string {
	suma := md5.Sum([]byte(placa + "_" + endpoint))
	return hex.EncodeToString(suma[:])
}

// Obtener devuelve la respuesta cacheada si existe y no expiró.
func (c *Cache) Obtener(clave string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entradas[clave]
	if !ok {
		return nil, false
	}
	ahora := c.ahora()
	if ahora.After(e.expiraEn) {
		delete(c.entradas, clave)
		return nil, false
	}
	e.ultimoUso = ahora
	return e.cuerpo, true
}

// Guardar almacena una respuesta. Si el cache está lleno purga expiradas
// y, de ser necesario, desaloja las menos usadas.
func (c *Cache) Guardar(clave string, cuerpo []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ahora := c.ahora()

	if _, existe := c.entradas[clave]; !existe && len(c.entradas) >= c.max {
		c.purgarExpiradas(ahora)
		if len(c.entradas) >= c.max {
			c.desalojarMenosUsadas()
		}
	}

	c.entradas[clave] = &entrada{
		cuerpo:    cuerpo,
		expiraEn:  ahora.Add(c.ttl),
		ultimoUso: ahora,
	}
}

// Tamano cantidad de entradas vigentes en el cache.
func (c *Cache) Tamano() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entradas)
}

// Vaciar elimina todas las entradas.
func (c *Cache) Vaciar() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entradas = make(map[string]*entrada)
}

func (c *Cache) purgarExpiradas(ahora time.Time) {
	for clave, e := range c.entradas {
		if ahora.After(e.expiraEn) {
			delete(c.entradas, clave)
		}
	}
}

// desalojarMenosUsadas elimina el 20% de las entradas con uso más
// antiguo.
func (c *Cache) desalojarMenosUsadas() {
	type par struct {
		clave string
		uso   time.Time
	}
	pares := make([]par, 0, len(c.entradas))
	for clave, e := range c.entradas {
		pares = append(pares, par{clave, e.ultimoUso})
	}
	sort.Slice(pares, func(i, j int) bool { return pares[i].uso.Before(pares[j].uso) })

	cuota := len(pares) / 5
	if cuota < 1 {
		cuota = 1
	}
	for _, p := range pares[:cuota] {
		delete(c.entradas, p.clave)
	}
}
