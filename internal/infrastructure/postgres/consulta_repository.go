package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecplacas/ecplacas-api/internal/domain/entity"
	"github.com/ecplacas/ecplacas-api/internal/domain/repository"
)

var _ repository.ConsultaRepository = (*ConsultaRepo)(nil)

// ConsultaRepo persiste el histórico de consultas en tres tablas:
// usuarios, consultas_vehiculares y datos_vehiculares_sri (el resultado
// completo como JSONB).
type ConsultaRepo struct {
	pool *pgxpool.Pool
}

// NewConsultaRepository construye el adaptador con el pool.
func NewConsultaRepository(pool *pgxpool.Pool) *ConsultaRepo {
	return &ConsultaRepo{pool: pool}
}

// Guardar almacena el resultado consolidado de forma atómica. El usuario
// se upserta por cédula; las consultas anónimas se guardan sin usuario.
func (r *ConsultaRepo) Guardar(ctx context.Context, resultado *entity.ResultadoConsulta) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var usuarioID *string
	if u := resultado.Usuario; u != nil && u.Cedula != "" {
		id := uuid.NewString()
		query := `
			INSERT INTO usuarios (id, nombre, cedula, telefono, correo, creado_en)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (cedula) DO UPDATE
			SET nombre = EXCLUDED.nombre, telefono = EXCLUDED.telefono, correo = EXCLUDED.correo
			RETURNING id`
		if err := tx.QueryRow(ctx, query, id, u.Nombre, u.Cedula, u.Telefono, u.Correo).Scan(&id); err != nil {
			return fmt.Errorf("upsert usuario: %w", err)
		}
		usuarioID = &id
	}

	query := `
		INSERT INTO consultas_vehiculares
			(id, placa, placa_original, usuario_id, total_deuda, puntaje, nivel_riesgo,
			 consulta_completa, duracion_segundos, creado_en)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())`
	_, err = tx.Exec(ctx, query,
		resultado.SesionID, resultado.Placa, resultado.PlacaOriginal, usuarioID,
		resultado.Totales.TotalDeuda, resultado.Puntaje.Valor, resultado.Puntaje.NivelRiesgo,
		resultado.ConsultaCompleta, resultado.DuracionSegundos,
	)
	if err != nil {
		if esViolacionUnica(err) {
			// La sesión ya fue persistida; no es un error.
			return nil
		}
		return fmt.Errorf("insert consulta: %w", err)
	}

	datos, err := json.Marshal(resultado)
	if err != nil {
		return fmt.Errorf("serializar resultado: %w", err)
	}
	query = `
		INSERT INTO datos_vehiculares_sri (consulta_id, datos, creado_en)
		VALUES ($1, $2, NOW())`
	if _, err := tx.Exec(ctx, query, resultado.SesionID, datos); err != nil {
		return fmt.Errorf("insert datos SRI: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Estadisticas calcula las métricas agregadas del histórico.
func (r *ConsultaRepo) Estadisticas(ctx context.Context) (*repository.EstadisticasConsultas, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM consultas_vehiculares),
			(SELECT COUNT(*) FROM consultas_vehiculares WHERE creado_en >= CURRENT_DATE),
			(SELECT COUNT(*) FROM usuarios),
			(SELECT COUNT(DISTINCT placa) FROM consultas_vehiculares)`
	var e repository.EstadisticasConsultas
	err := r.pool.QueryRow(ctx, query).Scan(
		&e.TotalConsultas, &e.ConsultasHoy, &e.UsuariosRegistrados, &e.PlacasDistintas,
	)
	if err != nil {
		return nil, fmt.Errorf("estadisticas: %w", err)
	}
	return &e, nil
}

// esViolacionUnica detecta la violación de constraint único (23505).
func esViolacionUnica(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
