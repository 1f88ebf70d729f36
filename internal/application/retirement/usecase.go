package retirement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coopvalle/dotaciones-api/internal/domain"
	"github.com/coopvalle/dotaciones-api/internal/domain/entity"
	"github.com/coopvalle/dotaciones-api/internal/domain/repository"
)

// MigratorUseCase retira un asociado: copia su registro y todo su historial de
// entregas al esquema de archivo y elimina las filas vivas, atómicamente. El
// archivo nunca gana ni pierde historial: filas archivadas == entregas vivas al
// momento del retiro.
type MigratorUseCase struct {
	txRunner      TxRunner
	associateRepo repository.AssociateRepository
	archiveRepo   repository.ArchiveRepository
}

// NewMigratorUseCase construye el caso de uso de retiro.
func NewMigratorUseCase(txRunner TxRunner, associateRepo repository.AssociateRepository, archiveRepo repository.ArchiveRepository) *MigratorUseCase {
	return &MigratorUseCase{txRunner: txRunner, associateRepo: associateRepo, archiveRepo: archiveRepo}
}

// Result resultado de un retiro exitoso.
type Result struct {
	RetiredID          string
	ArchivedDeliveries int
}

// Retire ejecuta el retiro. Si cualquier paso falla, la transacción hace rollback y
// el asociado queda vivo e intacto; el error se reporta como MigrationFailureError.
func (uc *MigratorUseCase) Retire(ctx context.Context, associateID, reason, actor string) (*Result, error) {
	// Paso 1: el asociado debe existir (fuera de la tx; se relee dentro).
	associate, err := uc.associateRepo.GetByID(associateID)
	if err != nil {
		return nil, err
	}
	if associate == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	result := &Result{RetiredID: uuid.New().String()}

	err = uc.txRunner.RunRetirement(ctx, func(
		associateRepo repository.AssociateRepository,
		deliveryRepo repository.DeliveryRepository,
		archiveRepo repository.ArchiveRepository,
	) error {
		// Paso 2: cargar todo el historial vivo (cualquier estado).
		deliveries, err := deliveryRepo.ListByAssociate(associate.ID)
		if err != nil {
			return &domain.MigrationFailureError{AssociateID: associate.ID, Step: "cargar entregas", Cause: err}
		}

		// Paso 3: fila de asociado retirado, conservando la fecha de creación original.
		retired := &entity.RetiredAssociate{
			ID:            result.RetiredID,
			Cedula:        associate.Cedula,
			Nombre:        associate.Nombre,
			Apellido:      associate.Apellido,
			Zona:          associate.Zona,
			FechaIngreso:  associate.FechaIngreso,
			RetiredDate:   now,
			RetiredReason: reason,
			RetiredBy:     actor,
			CreatedAt:     associate.CreatedAt,
		}
		if err := archiveRepo.CreateRetired(retired); err != nil {
			return &domain.MigrationFailureError{AssociateID: associate.ID, Step: "crear retirado", Cause: err}
		}

		// Paso 4: una fila de historial por entrega, con referencia al id original.
		for _, d := range deliveries {
			history := &entity.RetiredDeliveryHistory{
				ID:           uuid.New().String(),
				RetiredID:    retired.ID,
				OriginalID:   d.ID,
				Element:      d.Element,
				Quantity:     d.Quantity,
				DeliveryDate: d.DeliveryDate,
				Observations: d.Observations,
				SignatureRef: d.SignatureRef,
				Status:       d.Status,
				ArchivedAt:   now,
			}
			if err := archiveRepo.CreateHistory(history); err != nil {
				return &domain.MigrationFailureError{AssociateID: associate.ID, Step: "archivar entrega " + d.ID, Cause: err}
			}
		}

		// Paso 5: borrar las entregas vivas; el conteo debe coincidir con lo archivado.
		deleted, err := deliveryRepo.DeleteByAssociate(associate.ID)
		if err != nil {
			return &domain.MigrationFailureError{AssociateID: associate.ID, Step: "borrar entregas", Cause: err}
		}
		if deleted != len(deliveries) {
			return &domain.MigrationFailureError{
				AssociateID: associate.ID,
				Step:        "borrar entregas",
				Cause:       fmt.Errorf("se archivaron %d entregas pero se borraron %d", len(deliveries), deleted),
			}
		}

		// Paso 6: borrar el asociado vivo.
		if err := associateRepo.Delete(associate.ID); err != nil {
			return &domain.MigrationFailureError{AssociateID: associate.ID, Step: "borrar asociado", Cause: err}
		}

		result.ArchivedDeliveries = len(deliveries)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListRetired lista los asociados retirados.
func (uc *MigratorUseCase) ListRetired(ctx context.Context, limit, offset int) ([]*entity.RetiredAssociate, error) {
	return uc.archiveRepo.ListRetired(limit, offset)
}

// RetiredHistory devuelve el historial archivado de un retirado, ordenado por fecha.
func (uc *MigratorUseCase) RetiredHistory(ctx context.Context, retiredID string) ([]*entity.RetiredDeliveryHistory, error) {
	retired, err := uc.archiveRepo.GetRetiredByID(retiredID)
	if err != nil {
		return nil, err
	}
	if retired == nil {
		return nil, domain.ErrNotFound
	}
	return uc.archiveRepo.ListHistoryByRetired(retired.ID)
}
