package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coopvalle/dotaciones-api/internal/application/delivery"
	"github.com/coopvalle/dotaciones-api/internal/application/retirement"
	"github.com/coopvalle/dotaciones-api/internal/application/stock"
	"github.com/coopvalle/dotaciones-api/internal/domain/repository"
)

// TxRunner debe satisfacer los puertos transaccionales de la capa de aplicación.
var _ stock.TxRunner = (*TxRunner)(nil)
var _ delivery.TxRunner = (*TxRunner)(nil)
var _ retirement.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.SupplyItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	itemRepo := NewSupplyItemRepository(tx)
	movRepo := NewMovementRepository(tx)

	if err := fn(itemRepo, movRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunDelivery inicia una transacción con los repos de una entrega multi-línea:
// todas las líneas (descuento + registro + movimiento) comparten el mismo Commit.
func (r *TxRunner) RunDelivery(ctx context.Context, fn func(
	itemRepo repository.SupplyItemRepository,
	movRepo repository.MovementRepository,
	deliveryRepo repository.DeliveryRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	itemRepo := NewSupplyItemRepository(tx)
	movRepo := NewMovementRepository(tx)
	deliveryRepo := NewDeliveryRepository(tx)

	if err := fn(itemRepo, movRepo, deliveryRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunRetirement inicia una transacción con los repos del retiro de un asociado:
// copiar al archivo y borrar lo vivo son un solo Commit.
func (r *TxRunner) RunRetirement(ctx context.Context, fn func(
	associateRepo repository.AssociateRepository,
	deliveryRepo repository.DeliveryRepository,
	archiveRepo repository.ArchiveRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	associateRepo := NewAssociateRepository(tx)
	deliveryRepo := NewDeliveryRepository(tx)
	archiveRepo := NewArchiveRepository(tx)

	if err := fn(associateRepo, deliveryRepo, archiveRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
