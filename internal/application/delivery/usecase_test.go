package delivery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdelivery "github.com/coopvalle/dotaciones-api/internal/application/delivery"
	"github.com/coopvalle/dotaciones-api/internal/application/stock"
	"github.com/coopvalle/dotaciones-api/internal/domain"
	"github.com/coopvalle/dotaciones-api/internal/domain/entity"
	"github.com/coopvalle/dotaciones-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El TxRunner restaura el estado completo cuando la función
// falla, emulando el rollback de la transacción real.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	items      map[string]*entity.SupplyItem
	movements  map[string]*entity.MovementEntry
	deliveries map[string]*entity.DeliveryRecord
	associates map[string]*entity.Associate

	// failDeliveryCreate hace fallar la N-ésima llamada a deliveryRepo.Create
	// (1-based) para ejercitar el rollback a mitad del commit.
	failDeliveryCreate int
	deliveryCreates    int
}

func newMemStore() *memStore {
	return &memStore{
		items:      map[string]*entity.SupplyItem{},
		movements:  map[string]*entity.MovementEntry{},
		deliveries: map[string]*entity.DeliveryRecord{},
		associates: map[string]*entity.Associate{},
	}
}

func (s *memStore) snapshot() *memStore {
	snap := newMemStore()
	for id, it := range s.items {
		cp := *it
		snap.items[id] = &cp
	}
	for id, m := range s.movements {
		cp := *m
		snap.movements[id] = &cp
	}
	for id, d := range s.deliveries {
		cp := *d
		snap.deliveries[id] = &cp
	}
	for id, a := range s.associates {
		cp := *a
		snap.associates[id] = &cp
	}
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.items = snap.items
	s.movements = snap.movements
	s.deliveries = snap.deliveries
	s.associates = snap.associates
}

type fakeItemRepo struct{ store *memStore }

func (r *fakeItemRepo) Create(item *entity.SupplyItem) error {
	cp := *item
	r.store.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) GetByID(id string) (*entity.SupplyItem, error) {
	it, ok := r.store.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *fakeItemRepo) GetByCode(code string) (*entity.SupplyItem, error) {
	for _, it := range r.store.items {
		if it.Code == code {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) List() ([]*entity.SupplyItem, error) {
	out := make([]*entity.SupplyItem, 0, len(r.store.items))
	for _, it := range r.store.items {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeItemRepo) GetForUpdate(id string) (*entity.SupplyItem, error) {
	return r.GetByID(id)
}

func (r *fakeItemRepo) UpdateQuantity(id string, quantity int) error {
	it, ok := r.store.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.Quantity = quantity
	it.LastUpdate = time.Now()
	return nil
}

type fakeMovRepo struct{ store *memStore }

func (r *fakeMovRepo) Create(m *entity.MovementEntry) error {
	cp := *m
	r.store.movements[m.ID] = &cp
	return nil
}

func (r *fakeMovRepo) GetByID(id string) (*entity.MovementEntry, error) {
	m, ok := r.store.movements[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMovRepo) GetForUpdate(id string) (*entity.MovementEntry, error) {
	return r.GetByID(id)
}

func (r *fakeMovRepo) MarkReverted(id, revertedBy, revertReason string) error {
	m, ok := r.store.movements[id]
	if !ok {
		return domain.ErrNotFound
	}
	if m.Reverted {
		return domain.ErrAlreadyReverted
	}
	now := time.Now()
	m.Reverted = true
	m.RevertedBy = revertedBy
	m.RevertReason = revertReason
	m.RevertedAt = &now
	return nil
}

func (r *fakeMovRepo) ListByItem(itemID string, limit, offset int) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	for _, m := range r.store.movements {
		if m.SupplyItemID == itemID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMovRepo) List(limit, offset int) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	for _, m := range r.store.movements {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

type fakeDeliveryRepo struct{ store *memStore }

func (r *fakeDeliveryRepo) Create(d *entity.DeliveryRecord) error {
	r.store.deliveryCreates++
	if r.store.failDeliveryCreate > 0 && r.store.deliveryCreates == r.store.failDeliveryCreate {
		return errors.New("fallo inyectado")
	}
	cp := *d
	r.store.deliveries[d.ID] = &cp
	return nil
}

func (r *fakeDeliveryRepo) GetByID(id string) (*entity.DeliveryRecord, error) {
	d, ok := r.store.deliveries[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDeliveryRepo) GetForUpdate(id string) (*entity.DeliveryRecord, error) {
	return r.GetByID(id)
}

func (r *fakeDeliveryRepo) MarkReverted(id, revertedBy, revertReason string) error {
	d, ok := r.store.deliveries[id]
	if !ok {
		return domain.ErrNotFound
	}
	if d.Status != entity.DeliveryStatusActive {
		return domain.ErrAlreadyReverted
	}
	now := time.Now()
	d.Status = entity.DeliveryStatusReverted
	d.RevertedBy = revertedBy
	d.RevertReason = revertReason
	d.RevertedAt = &now
	return nil
}

func (r *fakeDeliveryRepo) ListByAssociate(associateID string) ([]*entity.DeliveryRecord, error) {
	var out []*entity.DeliveryRecord
	for _, d := range r.store.deliveries {
		if d.AssociateID == associateID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeDeliveryRepo) DeleteByAssociate(associateID string) (int, error) {
	count := 0
	for id, d := range r.store.deliveries {
		if d.AssociateID == associateID {
			delete(r.store.deliveries, id)
			count++
		}
	}
	return count, nil
}

type fakeAssociateRepo struct{ store *memStore }

func (r *fakeAssociateRepo) Create(a *entity.Associate) error {
	cp := *a
	r.store.associates[a.ID] = &cp
	return nil
}

func (r *fakeAssociateRepo) GetByID(id string) (*entity.Associate, error) {
	a, ok := r.store.associates[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssociateRepo) GetByCedula(cedula string) (*entity.Associate, error) {
	for _, a := range r.store.associates {
		if a.Cedula == cedula {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAssociateRepo) List(search string, limit, offset int) ([]*entity.Associate, error) {
	out := make([]*entity.Associate, 0, len(r.store.associates))
	for _, a := range r.store.associates {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeAssociateRepo) Delete(id string) error {
	delete(r.store.associates, id)
	return nil
}

// fakeTxRunner sirve tanto al ledger como al caso de uso de entregas.
type fakeTxRunner struct{ store *memStore }

func (tx *fakeTxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.SupplyItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	snap := tx.store.snapshot()
	if err := fn(&fakeItemRepo{store: tx.store}, &fakeMovRepo{store: tx.store}); err != nil {
		tx.store.restore(snap)
		return err
	}
	return nil
}

func (tx *fakeTxRunner) RunDelivery(ctx context.Context, fn func(
	itemRepo repository.SupplyItemRepository,
	movRepo repository.MovementRepository,
	deliveryRepo repository.DeliveryRepository,
) error) error {
	snap := tx.store.snapshot()
	if err := fn(&fakeItemRepo{store: tx.store}, &fakeMovRepo{store: tx.store}, &fakeDeliveryRepo{store: tx.store}); err != nil {
		tx.store.restore(snap)
		return err
	}
	return nil
}

func newDeliverUC(store *memStore) *appdelivery.DeliverUseCase {
	txRunner := &fakeTxRunner{store: store}
	itemRepo := &fakeItemRepo{store: store}
	ledger := stock.NewLedgerUseCase(txRunner, itemRepo, &fakeMovRepo{store: store})
	return appdelivery.NewDeliverUseCase(txRunner, ledger, itemRepo,
		&fakeAssociateRepo{store: store}, &fakeDeliveryRepo{store: store})
}

func seedStore() *memStore {
	store := newMemStore()
	store.items["item-camisa"] = &entity.SupplyItem{ID: "item-camisa", Code: "CAM-M", Name: "Camisa", Size: "M", Quantity: 10}
	store.items["item-botas"] = &entity.SupplyItem{ID: "item-botas", Code: "BOT-38", Name: "Botas", Size: "38", Quantity: 4}
	store.associates["asoc-1"] = &entity.Associate{ID: "asoc-1", Cedula: "1020304050", Nombre: "María", Apellido: "Muñoz"}
	return store
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Deliver (validar todo, luego aplicar todo)
// ──────────────────────────────────────────────────────────────────────────────

func TestDeliver_MultiLineaDescuentaYRegistra(t *testing.T) {
	store := seedStore()
	uc := newDeliverUC(store)

	result, err := uc.Deliver(context.Background(), appdelivery.DeliverInput{
		AssociateID: "asoc-1",
		Lines: []appdelivery.Line{
			{Element: "CAM-M", Quantity: 2},
			{Element: "item-botas", Quantity: 1},
		},
		Observations: "dotación semestral",
		SignatureRef: "sig://2026/08/abc",
		Actor:        "user-1",
	})
	require.NoError(t, err)
	require.Len(t, result.DeliveryIDs, 2)
	require.Len(t, result.MovementIDs, 2)

	assert.Equal(t, 8, store.items["item-camisa"].Quantity)
	assert.Equal(t, 3, store.items["item-botas"].Quantity)

	first := store.deliveries[result.DeliveryIDs[0]]
	require.NotNil(t, first)
	assert.Equal(t, "asoc-1", first.AssociateID)
	assert.Equal(t, "Camisa (M)", first.Element)
	assert.Equal(t, 2, first.Quantity)
	assert.Equal(t, entity.DeliveryStatusActive, first.Status)
	assert.Equal(t, result.MovementIDs[0], first.MovementID, "cada entrega referencia su movimiento salida")
	assert.Equal(t, "sig://2026/08/abc", first.SignatureRef)

	mov := store.movements[result.MovementIDs[0]]
	require.NotNil(t, mov)
	assert.Equal(t, entity.MovementTypeSalida, mov.Type)
	assert.Equal(t, "entrega a 1020304050", mov.Reason)
}

func TestDeliver_ValidacionFallida_NoMutaNada(t *testing.T) {
	store := seedStore()
	uc := newDeliverUC(store)

	_, err := uc.Deliver(context.Background(), appdelivery.DeliverInput{
		AssociateID: "asoc-1",
		Lines: []appdelivery.Line{
			{Element: "CAM-M", Quantity: 2},   // alcanza
			{Element: "BOT-38", Quantity: 9},  // solo hay 4
		},
	})

	var valErr *domain.DeliveryValidationError
	require.ErrorAs(t, err, &valErr)
	require.Len(t, valErr.Failures, 1, "solo la línea sin stock debe reportarse")
	assert.Equal(t, 1, valErr.Failures[0].Index)
	assert.Equal(t, "Botas (38)", valErr.Failures[0].Element)
	assert.Equal(t, 4, valErr.Failures[0].Available)
	assert.Equal(t, 9, valErr.Failures[0].Requested)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ni siquiera la línea válida debe aplicarse.
	assert.Equal(t, 10, store.items["item-camisa"].Quantity)
	assert.Equal(t, 4, store.items["item-botas"].Quantity)
	assert.Empty(t, store.deliveries)
	assert.Empty(t, store.movements)
}

func TestDeliver_SinLineas(t *testing.T) {
	uc := newDeliverUC(seedStore())

	_, err := uc.Deliver(context.Background(), appdelivery.DeliverInput{AssociateID: "asoc-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeliver_AsociadoNoExiste(t *testing.T) {
	uc := newDeliverUC(seedStore())

	_, err := uc.Deliver(context.Background(), appdelivery.DeliverInput{
		AssociateID: "nope",
		Lines:       []appdelivery.Line{{Element: "CAM-M", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeliver_ElementoDesconocido(t *testing.T) {
	store := seedStore()
	uc := newDeliverUC(store)

	_, err := uc.Deliver(context.Background(), appdelivery.DeliverInput{
		AssociateID: "asoc-1",
		Lines:       []appdelivery.Line{{Element: "NO-EXISTE", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 10, store.items["item-camisa"].Quantity)
}

func TestDeliver_CantidadInvalida(t *testing.T) {
	uc := newDeliverUC(seedStore())

	_, err := uc.Deliver(context.Background(), appdelivery.DeliverInput{
		AssociateID: "asoc-1",
		Lines:       []appdelivery.Line{{Element: "CAM-M", Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestDeliver_FalloEnCommit_RollbackCompleto(t *testing.T) {
	store := seedStore()
	store.failDeliveryCreate = 2 // la segunda línea falla al persistir
	uc := newDeliverUC(store)

	_, err := uc.Deliver(context.Background(), appdelivery.DeliverInput{
		AssociateID: "asoc-1",
		Lines: []appdelivery.Line{
			{Element: "CAM-M", Quantity: 2},
			{Element: "BOT-38", Quantity: 1},
		},
	})
	require.Error(t, err)

	// La primera línea ya había descontado; el rollback debe deshacerla también.
	assert.Equal(t, 10, store.items["item-camisa"].Quantity)
	assert.Equal(t, 4, store.items["item-botas"].Quantity)
	assert.Empty(t, store.deliveries)
	assert.Empty(t, store.movements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Revert (a lo sumo una vez)
// ──────────────────────────────────────────────────────────────────────────────

func TestRevert_DevuelveStockYMarcaEntrega(t *testing.T) {
	store := seedStore()
	uc := newDeliverUC(store)

	result, err := uc.Deliver(context.Background(), appdelivery.DeliverInput{
		AssociateID: "asoc-1",
		Lines:       []appdelivery.Line{{Element: "CAM-M", Quantity: 3}},
		Actor:       "user-1",
	})
	require.NoError(t, err)
	require.Equal(t, 7, store.items["item-camisa"].Quantity)

	deliveryID := result.DeliveryIDs[0]
	newStock, err := uc.Revert(context.Background(), deliveryID, "talla equivocada", "user-2")
	require.NoError(t, err)

	assert.Equal(t, 10, newStock, "el stock debe volver al valor previo a la entrega")
	assert.Equal(t, 10, store.items["item-camisa"].Quantity)

	record := store.deliveries[deliveryID]
	assert.Equal(t, entity.DeliveryStatusReverted, record.Status)
	assert.Equal(t, "user-2", record.RevertedBy)
	assert.Equal(t, "talla equivocada", record.RevertReason)
	require.NotNil(t, record.RevertedAt)

	mov := store.movements[record.MovementID]
	assert.True(t, mov.Reverted, "el movimiento salida también queda marcado")
}

func TestRevert_SegundaVezFalla(t *testing.T) {
	store := seedStore()
	uc := newDeliverUC(store)

	result, err := uc.Deliver(context.Background(), appdelivery.DeliverInput{
		AssociateID: "asoc-1",
		Lines:       []appdelivery.Line{{Element: "CAM-M", Quantity: 3}},
	})
	require.NoError(t, err)

	_, err = uc.Revert(context.Background(), result.DeliveryIDs[0], "r1", "user-1")
	require.NoError(t, err)

	_, err = uc.Revert(context.Background(), result.DeliveryIDs[0], "r2", "user-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyReverted)
	assert.Equal(t, 10, store.items["item-camisa"].Quantity, "el segundo intento no debe tocar el stock")
}

func TestRevert_EntregaNoExiste(t *testing.T) {
	uc := newDeliverUC(seedStore())

	_, err := uc.Revert(context.Background(), "nope", "r", "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests HistoryByAssociate
// ──────────────────────────────────────────────────────────────────────────────

func TestHistoryByAssociate_IncluyeRevertidas(t *testing.T) {
	store := seedStore()
	uc := newDeliverUC(store)

	result, err := uc.Deliver(context.Background(), appdelivery.DeliverInput{
		AssociateID: "asoc-1",
		Lines: []appdelivery.Line{
			{Element: "CAM-M", Quantity: 1},
			{Element: "BOT-38", Quantity: 1},
		},
	})
	require.NoError(t, err)

	_, err = uc.Revert(context.Background(), result.DeliveryIDs[0], "r", "user-1")
	require.NoError(t, err)

	history, err := uc.HistoryByAssociate(context.Background(), "asoc-1")
	require.NoError(t, err)
	assert.Len(t, history, 2, "las entregas revertidas siguen siendo historial")

	_, err = uc.HistoryByAssociate(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
