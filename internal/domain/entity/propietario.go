package entity

// Propietario datos del propietario registrado del vehículo, obtenidos de
// los servicios externos de consulta (principal o de respaldo).
type Propietario struct {
	Nombre         string `json:"nombre,omitempty"`
	Identificacion string `json:"identificacion,omitempty"`
	Fuente         string `json:"fuente,omitempty"` // principal, respaldo
	Disponible     bool   `json:"disponible"`
}
