package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coopvalle/dotaciones-api/internal/domain"
	"github.com/coopvalle/dotaciones-api/internal/domain/entity"
	"github.com/coopvalle/dotaciones-api/internal/domain/repository"
)

// LedgerUseCase es la única autoridad sobre la cantidad de cada elemento de dotación.
// Toda mutación pasa por aquí: bloquea la fila (SELECT FOR UPDATE), re-valida bajo el
// bloqueo y registra exactamente un movimiento por cambio, con Commit/Rollback.
type LedgerUseCase struct {
	txRunner TxRunner
	itemRepo repository.SupplyItemRepository
	movRepo  repository.MovementRepository
}

// NewLedgerUseCase construye el caso de uso. itemRepo y movRepo van atados al pool
// (solo lecturas fuera de transacción).
func NewLedgerUseCase(txRunner TxRunner, itemRepo repository.SupplyItemRepository, movRepo repository.MovementRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, itemRepo: itemRepo, movRepo: movRepo}
}

// Availability resultado de la pre-validación de stock.
type Availability struct {
	Valid     bool
	Available int
	Item      *entity.SupplyItem
}

// IncreaseInput entrada para registrar una recepción de stock.
type IncreaseInput struct {
	ItemRef  string // id o código del elemento
	Quantity int
	Reason   string
	Actor    string
	Notes    string
}

// ResolveItem resuelve un elemento por id o, en su defecto, por código.
func (uc *LedgerUseCase) ResolveItem(itemRef string) (*entity.SupplyItem, error) {
	return resolveItem(uc.itemRepo, itemRef)
}

func resolveItem(itemRepo repository.SupplyItemRepository, itemRef string) (*entity.SupplyItem, error) {
	item, err := itemRepo.GetByID(itemRef)
	if err != nil {
		return nil, err
	}
	if item == nil {
		item, err = itemRepo.GetByCode(itemRef)
		if err != nil {
			return nil, err
		}
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ValidateAvailability verifica sin mutar estado si hay stock suficiente.
// Es la pre-validación de la entrega multi-línea; Decrease re-verifica bajo el
// bloqueo de fila de todas formas.
func (uc *LedgerUseCase) ValidateAvailability(ctx context.Context, itemRef string, requested int) (*Availability, error) {
	item, err := uc.ResolveItem(itemRef)
	if err != nil {
		return nil, err
	}
	if requested <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	return &Availability{
		Valid:     item.Quantity >= requested,
		Available: item.Quantity,
		Item:      item,
	}, nil
}

// Increase registra una recepción (entrada): suma la cantidad y crea el movimiento,
// todo en una transacción. Devuelve el movimiento creado.
func (uc *LedgerUseCase) Increase(ctx context.Context, in IncreaseInput) (*entity.MovementEntry, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	// Resolver fuera de la tx solo para traducir código -> id; la cantidad se relee bajo el lock.
	item, err := uc.ResolveItem(in.ItemRef)
	if err != nil {
		return nil, err
	}

	var entry *entity.MovementEntry
	err = uc.txRunner.Run(ctx, func(itemRepo repository.SupplyItemRepository, movRepo repository.MovementRepository) error {
		locked, err := itemRepo.GetForUpdate(item.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		entry, err = applyEntrada(itemRepo, movRepo, locked, in.Quantity, in.Reason, in.Notes, in.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Decrease registra una salida en su propia transacción. Las entregas multi-línea
// usan DecreaseInTx para compartir una sola transacción.
func (uc *LedgerUseCase) Decrease(ctx context.Context, itemRef string, quantity int, reason, actor string) (*entity.MovementEntry, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	item, err := uc.ResolveItem(itemRef)
	if err != nil {
		return nil, err
	}

	var entry *entity.MovementEntry
	err = uc.txRunner.Run(ctx, func(itemRepo repository.SupplyItemRepository, movRepo repository.MovementRepository) error {
		entry, err = uc.DecreaseInTx(itemRepo, movRepo, item.ID, quantity, reason, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// DecreaseInTx ejecuta una salida usando los repositorios del caller (misma transacción).
// Bloquea la fila del elemento y re-verifica cantidad >= solicitada bajo el bloqueo:
// dos entregas concurrentes no pueden pasar ambas con la misma lectura vieja.
func (uc *LedgerUseCase) DecreaseInTx(
	itemRepo repository.SupplyItemRepository,
	movRepo repository.MovementRepository,
	itemID string,
	quantity int,
	reason, actor string,
) (*entity.MovementEntry, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	locked, err := itemRepo.GetForUpdate(itemID)
	if err != nil {
		return nil, err
	}
	if locked == nil {
		return nil, domain.ErrNotFound
	}
	if locked.Quantity < quantity {
		return nil, &domain.InsufficientStockError{
			Element:   locked.DisplayName(),
			Available: locked.Quantity,
			Requested: quantity,
		}
	}
	newQty := locked.Quantity - quantity
	if err := itemRepo.UpdateQuantity(locked.ID, newQty); err != nil {
		return nil, err
	}
	entry := &entity.MovementEntry{
		ID:           uuid.New().String(),
		SupplyItemID: locked.ID,
		Type:         entity.MovementTypeSalida,
		Quantity:     quantity,
		PrevQuantity: locked.Quantity,
		NewQuantity:  newQty,
		Reason:       reason,
		Actor:        actor,
		CreatedAt:    time.Now(),
	}
	if err := movRepo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RevertReceipt revierte una entrada de stock: resta la cantidad sumada y marca el
// movimiento como revertido, a lo sumo una vez. Las salidas de entregas se revierten
// por la ruta de entregas, que además cambia el estado del registro de entrega.
func (uc *LedgerUseCase) RevertReceipt(ctx context.Context, movementID, reason, actor string) (newStock int, err error) {
	err = uc.txRunner.Run(ctx, func(itemRepo repository.SupplyItemRepository, movRepo repository.MovementRepository) error {
		mov, err := movRepo.GetForUpdate(movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		if mov.Type != entity.MovementTypeEntrada {
			return domain.ErrInvalidInput
		}
		newStock, err = uc.RevertMovementInTx(itemRepo, movRepo, mov, reason, actor)
		return err
	})
	if err != nil {
		return 0, err
	}
	return newStock, nil
}

// RevertMovementInTx deshace el delta firmado de un movimiento ya bloqueado (misma
// transacción del caller): una entrada revertida resta, una salida revertida suma.
// Regla compartida entre el revert de recepciones y el de entregas.
func (uc *LedgerUseCase) RevertMovementInTx(
	itemRepo repository.SupplyItemRepository,
	movRepo repository.MovementRepository,
	mov *entity.MovementEntry,
	reason, actor string,
) (int, error) {
	if mov.Reverted {
		return 0, domain.ErrAlreadyReverted
	}
	locked, err := itemRepo.GetForUpdate(mov.SupplyItemID)
	if err != nil {
		return 0, err
	}
	if locked == nil {
		return 0, domain.ErrNotFound
	}
	newQty := locked.Quantity - mov.SignedDelta()
	if newQty < 0 {
		// Revertir la entrada dejaría el stock negativo: parte de esa recepción ya salió.
		return 0, &domain.InsufficientStockError{
			Element:   locked.DisplayName(),
			Available: locked.Quantity,
			Requested: mov.Quantity,
		}
	}
	if err := itemRepo.UpdateQuantity(locked.ID, newQty); err != nil {
		return 0, err
	}
	if err := movRepo.MarkReverted(mov.ID, actor, reason); err != nil {
		return 0, err
	}
	return newQty, nil
}

// applyEntrada suma stock y crea el movimiento entrada con cantidades anterior/nueva.
func applyEntrada(
	itemRepo repository.SupplyItemRepository,
	movRepo repository.MovementRepository,
	locked *entity.SupplyItem,
	quantity int,
	reason, notes, actor string,
) (*entity.MovementEntry, error) {
	newQty := locked.Quantity + quantity
	if err := itemRepo.UpdateQuantity(locked.ID, newQty); err != nil {
		return nil, err
	}
	entry := &entity.MovementEntry{
		ID:           uuid.New().String(),
		SupplyItemID: locked.ID,
		Type:         entity.MovementTypeEntrada,
		Quantity:     quantity,
		PrevQuantity: locked.Quantity,
		NewQuantity:  newQty,
		Reason:       reason,
		Notes:        notes,
		Actor:        actor,
		CreatedAt:    time.Now(),
	}
	if err := movRepo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListMovements consulta el log de movimientos (itemRef vacío = todos).
func (uc *LedgerUseCase) ListMovements(ctx context.Context, itemRef string, limit, offset int) ([]*entity.MovementEntry, error) {
	if itemRef == "" {
		return uc.movRepo.List(limit, offset)
	}
	item, err := uc.ResolveItem(itemRef)
	if err != nil {
		return nil, err
	}
	return uc.movRepo.ListByItem(item.ID, limit, offset)
}
