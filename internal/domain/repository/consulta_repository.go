// Package repository define los puertos de persistencia del dominio.
package repository

import (
	"context"

	"github.com/ecplacas/ecplacas-api/internal/domain/entity"
)

// EstadisticasConsultas métricas agregadas del histórico persistido.
type EstadisticasConsultas struct {
	TotalConsultas      int64 `json:"totalConsultas"`
	ConsultasHoy        int64 `json:"consultasHoy"`
	UsuariosRegistrados int64 `json:"usuariosRegistrados"`
	PlacasDistintas     int64 `json:"placasDistintas"`
}

// ConsultaRepository persiste los resultados de consultas completadas.
// La implementación es opcional: cuando la base de datos está deshabilitada
// el pipeline opera sin persistencia.
type ConsultaRepository interface {
	// Guardar almacena el usuario solicitante y el resultado consolidado.
	Guardar(ctx context.Context, resultado *entity.ResultadoConsulta) error

	// Estadisticas devuelve métricas agregadas para el API administrativo.
	Estadisticas(ctx context.Context) (*EstadisticasConsultas, error)
}
