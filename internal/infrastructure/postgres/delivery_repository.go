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

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

const deliveryColumns = `id, associate_id, supply_item_id, element, quantity, delivery_date,
		COALESCE(observations, ''), COALESCE(signature_ref, ''), status, movement_id, actor,
		COALESCE(reverted_by, ''), reverted_at, COALESCE(revert_reason, '')`

// DeliveryRepo implementación de DeliveryRepository sobre PostgreSQL (usable con pool o tx).
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

// Create persiste un registro de entrega.
func (r *DeliveryRepo) Create(delivery *entity.DeliveryRecord) error {
	query := `
		INSERT INTO delivery_record (id, associate_id, supply_item_id, element, quantity, delivery_date,
			observations, signature_ref, status, movement_id, actor)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		delivery.ID, delivery.AssociateID, delivery.SupplyItemID, delivery.Element,
		delivery.Quantity, delivery.DeliveryDate, delivery.Observations,
		delivery.SignatureRef, delivery.Status, delivery.MovementID, delivery.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create delivery: %w", err)
	}
	return nil
}

// GetByID obtiene una entrega por id (nil si no existe).
func (r *DeliveryRepo) GetByID(id string) (*entity.DeliveryRecord, error) {
	query := `SELECT ` + deliveryColumns + ` FROM delivery_record WHERE id = $1`
	return r.scanOne(query, id)
}

// GetForUpdate obtiene la entrega y bloquea su fila para el revert.
func (r *DeliveryRepo) GetForUpdate(id string) (*entity.DeliveryRecord, error) {
	query := `SELECT ` + deliveryColumns + ` FROM delivery_record WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

// MarkReverted cambia la entrega a reverted, solo si estaba active.
func (r *DeliveryRepo) MarkReverted(id, revertedBy, revertReason string) error {
	query := `
		UPDATE delivery_record
		SET status = $2, reverted_by = $3, reverted_at = now(), revert_reason = $4
		WHERE id = $1 AND status = $5`
	tag, err := r.q.Exec(context.Background(), query, id,
		entity.DeliveryStatusReverted, revertedBy, revertReason, entity.DeliveryStatusActive)
	if err != nil {
		return fmt.Errorf("mark delivery reverted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyReverted
	}
	return nil
}

// ListByAssociate lista todas las entregas del asociado (cualquier estado), más recientes primero.
func (r *DeliveryRepo) ListByAssociate(associateID string) ([]*entity.DeliveryRecord, error) {
	query := `SELECT ` + deliveryColumns + `
		FROM delivery_record WHERE associate_id = $1
		ORDER BY delivery_date DESC, id`
	rows, err := r.q.Query(context.Background(), query, associateID)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()
	var list []*entity.DeliveryRecord
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// DeleteByAssociate borra las entregas vivas del asociado y devuelve cuántas filas borró.
// Solo el retiro lo usa, dentro de su transacción.
func (r *DeliveryRepo) DeleteByAssociate(associateID string) (int, error) {
	query := `DELETE FROM delivery_record WHERE associate_id = $1`
	tag, err := r.q.Exec(context.Background(), query, associateID)
	if err != nil {
		return 0, fmt.Errorf("delete deliveries: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *DeliveryRepo) scanOne(query string, args ...any) (*entity.DeliveryRecord, error) {
	d, err := scanDelivery(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return d, nil
}

// scanDelivery escanea una fila de delivery_record desde pgx.Row o pgx.Rows.
func scanDelivery(row pgx.Row) (*entity.DeliveryRecord, error) {
	var d entity.DeliveryRecord
	err := row.Scan(
		&d.ID, &d.AssociateID, &d.SupplyItemID, &d.Element, &d.Quantity, &d.DeliveryDate,
		&d.Observations, &d.SignatureRef, &d.Status, &d.MovementID, &d.CreatedBy,
		&d.RevertedBy, &d.RevertedAt, &d.RevertReason,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
