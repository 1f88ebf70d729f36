package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/coopvalle/dotaciones-api/internal/domain"
	"github.com/coopvalle/dotaciones-api/internal/domain/entity"
	"github.com/coopvalle/dotaciones-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, supply_item_id, type, quantity, previous_quantity, new_quantity,
		reason, COALESCE(notes, ''), actor, created_at,
		reverted, COALESCE(reverted_by, ''), reverted_at, COALESCE(revert_reason, '')`

// MovementRepo implementación del log de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste una entrada del log.
func (r *MovementRepo) Create(movement *entity.MovementEntry) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movement_entry (id, supply_item_id, type, quantity, previous_quantity, new_quantity,
			reason, notes, actor, created_at, reverted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, false)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.SupplyItemID, movement.Type, movement.Quantity,
		movement.PrevQuantity, movement.NewQuantity, movement.Reason, movement.Notes,
		movement.Actor, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por id (nil si no existe).
func (r *MovementRepo) GetByID(id string) (*entity.MovementEntry, error) {
	query := `SELECT ` + movementColumns + ` FROM movement_entry WHERE id = $1`
	return r.scanOne(query, id)
}

// GetForUpdate obtiene el movimiento y bloquea su fila: dos reverts concurrentes de
// la misma entrada quedan serializados y el segundo ve reverted = true.
func (r *MovementRepo) GetForUpdate(id string) (*entity.MovementEntry, error) {
	query := `SELECT ` + movementColumns + ` FROM movement_entry WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

// MarkReverted marca la entrada como revertida, solo si aún no lo estaba.
func (r *MovementRepo) MarkReverted(id, revertedBy, revertReason string) error {
	query := `
		UPDATE movement_entry
		SET reverted = true, reverted_by = $2, reverted_at = now(), revert_reason = $3
		WHERE id = $1 AND reverted = false`
	tag, err := r.q.Exec(context.Background(), query, id, revertedBy, revertReason)
	if err != nil {
		return fmt.Errorf("mark reverted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyReverted
	}
	return nil
}

// ListByItem lista los movimientos de un elemento, más recientes primero.
func (r *MovementRepo) ListByItem(itemID string, limit, offset int) ([]*entity.MovementEntry, error) {
	query := `SELECT ` + movementColumns + `
		FROM movement_entry WHERE supply_item_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.scanMany(query, itemID, limit, offset)
}

// List lista el log completo, más recientes primero.
func (r *MovementRepo) List(limit, offset int) ([]*entity.MovementEntry, error) {
	query := `SELECT ` + movementColumns + `
		FROM movement_entry ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.scanMany(query, limit, offset)
}

func (r *MovementRepo) scanOne(query string, args ...any) (*entity.MovementEntry, error) {
	var m entity.MovementEntry
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&m.ID, &m.SupplyItemID, &m.Type, &m.Quantity, &m.PrevQuantity, &m.NewQuantity,
		&m.Reason, &m.Notes, &m.Actor, &m.CreatedAt,
		&m.Reverted, &m.RevertedBy, &m.RevertedAt, &m.RevertReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

func (r *MovementRepo) scanMany(query string, args ...any) ([]*entity.MovementEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementEntry
	for rows.Next() {
		var m entity.MovementEntry
		if err := rows.Scan(&m.ID, &m.SupplyItemID, &m.Type, &m.Quantity, &m.PrevQuantity, &m.NewQuantity,
			&m.Reason, &m.Notes, &m.Actor, &m.CreatedAt,
			&m.Reverted, &m.RevertedBy, &m.RevertedAt, &m.RevertReason); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
