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

var _ repository.SupplyItemRepository = (*SupplyItemRepo)(nil)

const supplyItemColumns = `id, code, name, category, COALESCE(size, ''), quantity, min_quantity, last_update, created_at`

// SupplyItemRepo implementación de SupplyItemRepository sobre PostgreSQL (usable con pool o tx).
type SupplyItemRepo struct {
	q Querier
}

// NewSupplyItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplyItemRepository(q Querier) *SupplyItemRepo {
	return &SupplyItemRepo{q: q}
}

// Create persiste un elemento de dotación. Devuelve ErrDuplicate si el código ya existe.
func (r *SupplyItemRepo) Create(item *entity.SupplyItem) error {
	query := `
		INSERT INTO supply_item (id, code, name, category, size, quantity, min_quantity, last_update, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Code, item.Name, item.Category, item.Size,
		item.Quantity, item.MinQuantity, item.LastUpdate, item.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create supply item: %w", err)
	}
	return nil
}

// GetByID obtiene un elemento por id (nil si no existe).
func (r *SupplyItemRepo) GetByID(id string) (*entity.SupplyItem, error) {
	query := `SELECT ` + supplyItemColumns + ` FROM supply_item WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByCode obtiene un elemento por código único (nil si no existe).
func (r *SupplyItemRepo) GetByCode(code string) (*entity.SupplyItem, error) {
	query := `SELECT ` + supplyItemColumns + ` FROM supply_item WHERE code = $1`
	return r.scanOne(query, code)
}

// GetForUpdate obtiene el elemento y bloquea la fila (SELECT FOR UPDATE); usar dentro de tx.
func (r *SupplyItemRepo) GetForUpdate(id string) (*entity.SupplyItem, error) {
	query := `SELECT ` + supplyItemColumns + ` FROM supply_item WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

// List devuelve todos los elementos ordenados por nombre (el orden de tallas se aplica en el caso de uso).
func (r *SupplyItemRepo) List() ([]*entity.SupplyItem, error) {
	query := `SELECT ` + supplyItemColumns + ` FROM supply_item ORDER BY name, code`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list supply items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SupplyItem
	for rows.Next() {
		var it entity.SupplyItem
		if err := rows.Scan(&it.ID, &it.Code, &it.Name, &it.Category, &it.Size,
			&it.Quantity, &it.MinQuantity, &it.LastUpdate, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supply item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// UpdateQuantity fija la cantidad y actualiza last_update. Solo el ledger debe llamarlo,
// con la fila ya bloqueada.
func (r *SupplyItemRepo) UpdateQuantity(id string, quantity int) error {
	query := `UPDATE supply_item SET quantity = $2, last_update = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, quantity)
	if err != nil {
		return fmt.Errorf("update quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SupplyItemRepo) scanOne(query string, arg any) (*entity.SupplyItem, error) {
	var it entity.SupplyItem
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&it.ID, &it.Code, &it.Name, &it.Category, &it.Size,
		&it.Quantity, &it.MinQuantity, &it.LastUpdate, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supply item: %w", err)
	}
	return &it, nil
}
