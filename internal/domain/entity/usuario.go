package entity

import "time"

// Usuario persona que solicita la consulta. La cédula se valida con el
// algoritmo de dígito verificador antes de aceptar la solicitud.
type Usuario struct {
	Nombre   string    `json:"nombre"`
	Cedula   string    `json:"cedula"`
	Telefono string    `json:"telefono,omitempty"`
	Correo   string    `json:"correo,omitempty"`
	CreadoEn time.Time `json:"creadoEn,omitempty"`
}
