package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coopvalle/dotaciones-api/internal/application/dto"
	"github.com/coopvalle/dotaciones-api/internal/domain"
	"github.com/coopvalle/dotaciones-api/internal/domain/entity"
	"github.com/coopvalle/dotaciones-api/internal/domain/repository"
	"github.com/coopvalle/dotaciones-api/internal/domain/sizeorder"
)

// SupplyUseCase alta y listado de elementos de dotación. Los elementos nacen con
// cantidad cero: el stock inicial entra como recepción por el ledger, para que
// toda cantidad tenga su movimiento pareado.
type SupplyUseCase struct {
	itemRepo repository.SupplyItemRepository
}

// NewSupplyUseCase construye el caso de uso.
func NewSupplyUseCase(itemRepo repository.SupplyItemRepository) *SupplyUseCase {
	return &SupplyUseCase{itemRepo: itemRepo}
}

// Create crea un elemento. Devuelve ErrDuplicate si el código ya existe.
func (uc *SupplyUseCase) Create(ctx context.Context, in dto.CreateSupplyRequest) (*entity.SupplyItem, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" || in.MinQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.itemRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	item := &entity.SupplyItem{
		ID:          uuid.New().String(),
		Code:        code,
		Name:        name,
		Category:    strings.TrimSpace(in.Category),
		Size:        strings.TrimSpace(in.Size),
		Quantity:    0,
		MinQuantity: in.MinQuantity,
		LastUpdate:  now,
		CreatedAt:   now,
	}
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// List devuelve el inventario en el orden de presentación: alfabético por nombre,
// con desempate por el orden total de tallas. lowOnly filtra los elementos en o
// por debajo de su umbral mínimo.
func (uc *SupplyUseCase) List(ctx context.Context, lowOnly bool) ([]*entity.SupplyItem, error) {
	items, err := uc.itemRepo.List()
	if err != nil {
		return nil, err
	}
	if lowOnly {
		filtered := items[:0]
		for _, it := range items {
			if it.LowStock() {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}
	sort.SliceStable(items, func(i, j int) bool {
		return sizeorder.CompareItems(items[i].Name, items[i].Size, items[j].Name, items[j].Size) < 0
	})
	return items, nil
}

// Get resuelve un elemento por id o código.
func (uc *SupplyUseCase) Get(ctx context.Context, ref string) (*entity.SupplyItem, error) {
	item, err := uc.itemRepo.GetByID(ref)
	if err != nil {
		return nil, err
	}
	if item == nil {
		item, err = uc.itemRepo.GetByCode(ref)
		if err != nil {
			return nil, err
		}
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}
