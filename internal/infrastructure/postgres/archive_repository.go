package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/coopvalle/dotaciones-api/internal/domain/entity"
	"github.com/coopvalle/dotaciones-api/internal/domain/repository"
)

var _ repository.ArchiveRepository = (*ArchiveRepo)(nil)

// ArchiveRepo implementación del esquema de retirados sobre PostgreSQL (usable con pool o tx).
// El archivo es append-only: no hay updates ni deletes.
type ArchiveRepo struct {
	q Querier
}

// NewArchiveRepository construye el adaptador. Pasar pool o tx (Querier).
func NewArchiveRepository(q Querier) *ArchiveRepo {
	return &ArchiveRepo{q: q}
}

// CreateRetired inserta la fila del asociado retirado.
func (r *ArchiveRepo) CreateRetired(retired *entity.RetiredAssociate) error {
	query := `
		INSERT INTO retired_associate (id, cedula, nombre, apellido, zona, fecha_ingreso,
			retired_date, retired_reason, retired_by, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		retired.ID, retired.Cedula, retired.Nombre, retired.Apellido, retired.Zona,
		retired.FechaIngreso, retired.RetiredDate, retired.RetiredReason,
		retired.RetiredBy, retired.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create retired associate: %w", err)
	}
	return nil
}

// CreateHistory inserta una entrega archivada con referencia al id original.
func (r *ArchiveRepo) CreateHistory(history *entity.RetiredDeliveryHistory) error {
	query := `
		INSERT INTO retired_delivery_history (id, retired_id, original_delivery_id, element,
			quantity, delivery_date, observations, signature_ref, status, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		history.ID, history.RetiredID, history.OriginalID, history.Element,
		history.Quantity, history.DeliveryDate, history.Observations,
		history.SignatureRef, history.Status, history.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("create retired history: %w", err)
	}
	return nil
}

// GetRetiredByID obtiene un retirado por id (nil si no existe).
func (r *ArchiveRepo) GetRetiredByID(id string) (*entity.RetiredAssociate, error) {
	query := `
		SELECT id, cedula, nombre, apellido, COALESCE(zona, ''), fecha_ingreso,
			retired_date, retired_reason, retired_by, created_at
		FROM retired_associate WHERE id = $1`
	var ra entity.RetiredAssociate
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&ra.ID, &ra.Cedula, &ra.Nombre, &ra.Apellido, &ra.Zona, &ra.FechaIngreso,
		&ra.RetiredDate, &ra.RetiredReason, &ra.RetiredBy, &ra.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get retired associate: %w", err)
	}
	return &ra, nil
}

// ListRetired lista retirados, más recientes primero.
func (r *ArchiveRepo) ListRetired(limit, offset int) ([]*entity.RetiredAssociate, error) {
	query := `
		SELECT id, cedula, nombre, apellido, COALESCE(zona, ''), fecha_ingreso,
			retired_date, retired_reason, retired_by, created_at
		FROM retired_associate ORDER BY retired_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list retired: %w", err)
	}
	defer rows.Close()
	var list []*entity.RetiredAssociate
	for rows.Next() {
		var ra entity.RetiredAssociate
		if err := rows.Scan(&ra.ID, &ra.Cedula, &ra.Nombre, &ra.Apellido, &ra.Zona,
			&ra.FechaIngreso, &ra.RetiredDate, &ra.RetiredReason, &ra.RetiredBy, &ra.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan retired: %w", err)
		}
		list = append(list, &ra)
	}
	return list, rows.Err()
}

// ListHistoryByRetired devuelve el historial archivado de un retirado ordenado por fecha de entrega.
func (r *ArchiveRepo) ListHistoryByRetired(retiredID string) ([]*entity.RetiredDeliveryHistory, error) {
	query := `
		SELECT id, retired_id, original_delivery_id, element, quantity, delivery_date,
			COALESCE(observations, ''), COALESCE(signature_ref, ''), status, archived_at
		FROM retired_delivery_history WHERE retired_id = $1
		ORDER BY delivery_date DESC, id`
	rows, err := r.q.Query(context.Background(), query, retiredID)
	if err != nil {
		return nil, fmt.Errorf("list retired history: %w", err)
	}
	defer rows.Close()
	var list []*entity.RetiredDeliveryHistory
	for rows.Next() {
		var h entity.RetiredDeliveryHistory
		if err := rows.Scan(&h.ID, &h.RetiredID, &h.OriginalID, &h.Element, &h.Quantity,
			&h.DeliveryDate, &h.Observations, &h.SignatureRef, &h.Status, &h.ArchivedAt); err != nil {
			return nil, fmt.Errorf("scan retired history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
