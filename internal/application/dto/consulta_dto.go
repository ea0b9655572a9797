// Package dto define los contratos de entrada y salida del API HTTP.
package dto

// ErrorResponse respuesta de error estándar del API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// IniciarConsultaRequest solicitud para iniciar una consulta vehicular.
// Los datos del usuario son opcionales; si se envía cédula debe ser una
// cédula ecuatoriana válida.
type IniciarConsultaRequest struct {
	Placa    string `json:"placa"`
	Nombre   string `json:"nombre,omitempty"`
	Cedula   string `json:"cedula,omitempty"`
	Telefono string `json:"telefono,omitempty"`
	Correo   string `json:"correo,omitempty"`
}

// IniciarConsultaResponse confirma la consulta aceptada.
type IniciarConsultaResponse struct {
	SesionID string `json:"sesionId"`
	Placa    string `json:"placa"`
	Mensaje  string `json:"mensaje"`
}

// LoginRequest credenciales del API administrativo.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse token emitido tras autenticación.
type LoginResponse struct {
	Token    string `json:"token"`
	ExpiraEn int    `json:"expiraEnMinutos"`
}

// EstadisticasResponse métricas para el panel administrativo.
type EstadisticasResponse struct {
	SesionesActivas     int   `json:"sesionesActivas"`
	SesionesRetenidas   int   `json:"sesionesRetenidas"`
	EntradasCache       int   `json:"entradasCache"`
	TotalConsultas      int64 `json:"totalConsultas,omitempty"`
	ConsultasHoy        int64 `json:"consultasHoy,omitempty"`
	UsuariosRegistrados int64 `json:"usuariosRegistrados,omitempty"`
	PlacasDistintas     int64 `json:"placasDistintas,omitempty"`
}
