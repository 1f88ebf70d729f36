package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/coopvalle/dotaciones-api/internal/domain"
	"github.com/coopvalle/dotaciones-api/internal/domain/entity"
	"github.com/coopvalle/dotaciones-api/internal/domain/repository"
)

var _ repository.AssociateRepository = (*AssociateRepo)(nil)

const associateColumns = `id, cedula, nombre, apellido, COALESCE(zona, ''), fecha_ingreso, created_at`

// AssociateRepo implementación de AssociateRepository sobre PostgreSQL (usable con pool o tx).
type AssociateRepo struct {
	q Querier
}

// NewAssociateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAssociateRepository(q Querier) *AssociateRepo {
	return &AssociateRepo{q: q}
}

// Create persiste un asociado. Devuelve ErrDuplicate si la cédula ya existe.
func (r *AssociateRepo) Create(associate *entity.Associate) error {
	query := `
		INSERT INTO associate (id, cedula, nombre, apellido, zona, fecha_ingreso, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		associate.ID, associate.Cedula, associate.Nombre, associate.Apellido,
		associate.Zona, associate.FechaIngreso, associate.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create associate: %w", err)
	}
	return nil
}

// GetByID obtiene un asociado por id (nil si no existe).
func (r *AssociateRepo) GetByID(id string) (*entity.Associate, error) {
	query := `SELECT ` + associateColumns + ` FROM associate WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByCedula obtiene un asociado por cédula (nil si no existe).
func (r *AssociateRepo) GetByCedula(cedula string) (*entity.Associate, error) {
	query := `SELECT ` + associateColumns + ` FROM associate WHERE cedula = $1`
	return r.scanOne(query, cedula)
}

// List busca asociados por término normalizado contra cédula, nombre y apellido.
// La columna search_text la mantiene un trigger con la misma normalización
// (lower + sin tildes) que aplica el caso de uso al término.
func (r *AssociateRepo) List(search string, limit, offset int) ([]*entity.Associate, error) {
	query := `SELECT ` + associateColumns + ` FROM associate`
	args := []any{}
	pos := 1
	if search != "" {
		query += fmt.Sprintf(" WHERE search_text LIKE '%%' || $%d || '%%'", pos)
		args = append(args, search)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY apellido, nombre LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list associates: %w", err)
	}
	defer rows.Close()
	var list []*entity.Associate
	for rows.Next() {
		var a entity.Associate
		if err := rows.Scan(&a.ID, &a.Cedula, &a.Nombre, &a.Apellido, &a.Zona,
			&a.FechaIngreso, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan associate: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// Delete borra el asociado vivo. Solo el retiro lo usa, dentro de su transacción.
func (r *AssociateRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM associate WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete associate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AssociateRepo) scanOne(query string, arg any) (*entity.Associate, error) {
	var a entity.Associate
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&a.ID, &a.Cedula, &a.Nombre, &a.Apellido, &a.Zona, &a.FechaIngreso, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get associate: %w", err)
	}
	return &a, nil
}
