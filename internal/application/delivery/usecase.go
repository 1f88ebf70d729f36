package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coopvalle/dotaciones-api/internal/application/stock"
	"github.com/coopvalle/dotaciones-api/internal/domain"
	"github.com/coopvalle/dotaciones-api/internal/domain/entity"
	"github.com/coopvalle/dotaciones-api/internal/domain/repository"
)

// DeliverUseCase entrega un conjunto de líneas (elemento, cantidad) a un asociado
// como una sola operación lógica: primero valida TODAS las líneas contra el ledger,
// y solo si todas pasan abre la transacción que las aplica una a una. La fase de
// commit corre completa dentro de una transacción de BD, así que una línea que
// falle a mitad de camino (lectura vieja, stock concurrente) revierte las anteriores.
type DeliverUseCase struct {
	txRunner      TxRunner
	ledger        *stock.LedgerUseCase
	itemRepo      repository.SupplyItemRepository
	associateRepo repository.AssociateRepository
	deliveryRepo  repository.DeliveryRepository
}

// NewDeliverUseCase construye el caso de uso. Los repos van atados al pool (lecturas).
func NewDeliverUseCase(
	txRunner TxRunner,
	ledger *stock.LedgerUseCase,
	itemRepo repository.SupplyItemRepository,
	associateRepo repository.AssociateRepository,
	deliveryRepo repository.DeliveryRepository,
) *DeliverUseCase {
	return &DeliverUseCase{
		txRunner:      txRunner,
		ledger:        ledger,
		itemRepo:      itemRepo,
		associateRepo: associateRepo,
		deliveryRepo:  deliveryRepo,
	}
}

// Line una línea de entrega: elemento (id o código) y cantidad.
type Line struct {
	Element  string
	Quantity int
}

// DeliverInput entrada para una entrega multi-línea a un asociado.
type DeliverInput struct {
	AssociateID  string
	Lines        []Line
	Observations string
	SignatureRef string // referencia opaca a la firma (el core no la interpreta)
	Actor        string
}

// DeliverResult ids creados por una entrega exitosa, en el orden de las líneas.
type DeliverResult struct {
	DeliveryIDs []string
	MovementIDs []string
}

// Deliver ejecuta el protocolo de dos fases: validar todo, luego aplicar todo.
// Si alguna línea no pasa la validación no ocurre ninguna mutación y se reporta
// cada línea fallida con disponible vs. solicitado.
func (uc *DeliverUseCase) Deliver(ctx context.Context, in DeliverInput) (*DeliverResult, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	associate, err := uc.associateRepo.GetByID(in.AssociateID)
	if err != nil {
		return nil, err
	}
	if associate == nil {
		return nil, domain.ErrNotFound
	}

	// Fase 1: validar todas las líneas antes de cualquier descuento.
	items := make([]*entity.SupplyItem, len(in.Lines))
	var failures []domain.LineFailure
	for i, line := range in.Lines {
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		av, err := uc.ledger.ValidateAvailability(ctx, line.Element, line.Quantity)
		if err != nil {
			return nil, err
		}
		items[i] = av.Item
		if !av.Valid {
			failures = append(failures, domain.LineFailure{
				Index:     i,
				Element:   av.Item.DisplayName(),
				Available: av.Available,
				Requested: line.Quantity,
				Reason:    "stock insuficiente",
			})
		}
	}
	if len(failures) > 0 {
		return nil, &domain.DeliveryValidationError{Failures: failures}
	}

	// Fase 2: aplicar cada línea dentro de UNA transacción. DecreaseInTx re-verifica
	// bajo el bloqueo de fila; si el stock cambió entre fases, todo hace rollback.
	now := time.Now()
	result := &DeliverResult{}
	err = uc.txRunner.RunDelivery(ctx, func(
		itemRepo repository.SupplyItemRepository,
		movRepo repository.MovementRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		for i, line := range in.Lines {
			item := items[i]
			mov, err := uc.ledger.DecreaseInTx(itemRepo, movRepo, item.ID,
				line.Quantity, "entrega a "+associate.Cedula, in.Actor)
			if err != nil {
				return err
			}
			record := &entity.DeliveryRecord{
				ID:           uuid.New().String(),
				AssociateID:  associate.ID,
				SupplyItemID: item.ID,
				Element:      item.DisplayName(),
				Quantity:     line.Quantity,
				DeliveryDate: now,
				Observations: in.Observations,
				SignatureRef: in.SignatureRef,
				Status:       entity.DeliveryStatusActive,
				MovementID:   mov.ID,
				CreatedBy:    in.Actor,
			}
			if err := deliveryRepo.Create(record); err != nil {
				return err
			}
			result.DeliveryIDs = append(result.DeliveryIDs, record.ID)
			result.MovementIDs = append(result.MovementIDs, mov.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Revert deshace una entrega: devuelve la cantidad al stock (revirtiendo el
// movimiento salida original) y marca el registro como reverted, a lo sumo una vez.
// Devuelve la nueva cantidad en stock del elemento.
func (uc *DeliverUseCase) Revert(ctx context.Context, deliveryID, reason, actor string) (newStock int, err error) {
	err = uc.txRunner.RunDelivery(ctx, func(
		itemRepo repository.SupplyItemRepository,
		movRepo repository.MovementRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		record, err := deliveryRepo.GetForUpdate(deliveryID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}
		if record.Status != entity.DeliveryStatusActive {
			return domain.ErrAlreadyReverted
		}
		mov, err := movRepo.GetForUpdate(record.MovementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		// Misma regla de restauración que el revert de recepciones (salida: suma de vuelta).
		newStock, err = uc.ledger.RevertMovementInTx(itemRepo, movRepo, mov, reason, actor)
		if err != nil {
			return err
		}
		return deliveryRepo.MarkReverted(record.ID, actor, reason)
	})
	if err != nil {
		return 0, err
	}
	return newStock, nil
}

// HistoryByAssociate lista las entregas vivas de un asociado (cualquier estado).
func (uc *DeliverUseCase) HistoryByAssociate(ctx context.Context, associateID string) ([]*entity.DeliveryRecord, error) {
	associate, err := uc.associateRepo.GetByID(associateID)
	if err != nil {
		return nil, err
	}
	if associate == nil {
		return nil, domain.ErrNotFound
	}
	return uc.deliveryRepo.ListByAssociate(associate.ID)
}
