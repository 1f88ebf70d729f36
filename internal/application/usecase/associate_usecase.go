package usecase

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/coopvalle/dotaciones-api/internal/application/dto"
	"github.com/coopvalle/dotaciones-api/internal/domain"
	"github.com/coopvalle/dotaciones-api/internal/domain/entity"
	"github.com/coopvalle/dotaciones-api/internal/domain/repository"
)

// AssociateUseCase alta y consulta de asociados vivos. La baja solo existe como
// retiro (MigratorUseCase).
type AssociateUseCase struct {
	associateRepo repository.AssociateRepository
}

// NewAssociateUseCase construye el caso de uso.
func NewAssociateUseCase(associateRepo repository.AssociateRepository) *AssociateUseCase {
	return &AssociateUseCase{associateRepo: associateRepo}
}

// Create crea un asociado. Devuelve ErrDuplicate si la cédula ya está registrada.
func (uc *AssociateUseCase) Create(ctx context.Context, in dto.CreateAssociateRequest) (*entity.Associate, error) {
	cedula := strings.TrimSpace(in.Cedula)
	if cedula == "" || strings.TrimSpace(in.Nombre) == "" || strings.TrimSpace(in.Apellido) == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.associateRepo.GetByCedula(cedula)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	ingreso := time.Now()
	if in.FechaIngreso != "" {
		parsed, err := time.Parse("2006-01-02", in.FechaIngreso)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		ingreso = parsed
	}
	associate := &entity.Associate{
		ID:           uuid.New().String(),
		Cedula:       cedula,
		Nombre:       strings.TrimSpace(in.Nombre),
		Apellido:     strings.TrimSpace(in.Apellido),
		Zona:         strings.TrimSpace(in.Zona),
		FechaIngreso: ingreso,
		CreatedAt:    time.Now(),
	}
	if err := uc.associateRepo.Create(associate); err != nil {
		return nil, err
	}
	return associate, nil
}

// Get devuelve un asociado vivo por id.
func (uc *AssociateUseCase) Get(ctx context.Context, id string) (*entity.Associate, error) {
	associate, err := uc.associateRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if associate == nil {
		return nil, domain.ErrNotFound
	}
	return associate, nil
}

// List busca asociados. El término se normaliza (minúsculas, sin tildes) para que
// "muñoz" y "Munoz" encuentren lo mismo.
func (uc *AssociateUseCase) List(ctx context.Context, search string, limit, offset int) ([]*entity.Associate, error) {
	return uc.associateRepo.List(NormalizeSearch(search), limit, offset)
}

// NormalizeSearch pasa el término a minúsculas y elimina marcas diacríticas (NFD +
// remoción de Mn + NFC).
func NormalizeSearch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
