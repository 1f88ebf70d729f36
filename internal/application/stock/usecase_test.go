package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coopvalle/dotaciones-api/internal/application/stock"
	"github.com/coopvalle/dotaciones-api/internal/domain"
	"github.com/coopvalle/dotaciones-api/internal/domain/entity"
	"github.com/coopvalle/dotaciones-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: mismo contrato que los repos de postgres (nil, nil si no
// existe la fila) y un TxRunner que restaura el estado si la función falla,
// emulando el rollback.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	items     map[string]*entity.SupplyItem
	movements map[string]*entity.MovementEntry
}

func newMemStore() *memStore {
	return &memStore{
		items:     map[string]*entity.SupplyItem{},
		movements: map[string]*entity.MovementEntry{},
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
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.items = snap.items
	s.movements = snap.movements
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

func newLedger(store *memStore) *stock.LedgerUseCase {
	return stock.NewLedgerUseCase(
		&fakeTxRunner{store: store},
		&fakeItemRepo{store: store},
		&fakeMovRepo{store: store},
	)
}

func seedItem(store *memStore, id, code, name, size string, quantity int) {
	store.items[id] = &entity.SupplyItem{
		ID:       id,
		Code:     code,
		Name:     name,
		Size:     size,
		Quantity: quantity,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Increase (recepción de stock)
// ──────────────────────────────────────────────────────────────────────────────

func TestIncrease_RegistraEntradaYSumaStock(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "CAM-M", "Camisa", "M", 5)
	ledger := newLedger(store)

	entry, err := ledger.Increase(context.Background(), stock.IncreaseInput{
		ItemRef:  "item-1",
		Quantity: 10,
		Reason:   "compra proveedor",
		Actor:    "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, 15, store.items["item-1"].Quantity, "el stock debe subir de 5 a 15")
	assert.Equal(t, entity.MovementTypeEntrada, entry.Type)
	assert.Equal(t, 5, entry.PrevQuantity)
	assert.Equal(t, 15, entry.NewQuantity)
	assert.Equal(t, "user-1", entry.Actor)
	assert.False(t, entry.Reverted)

	stored, err := (&fakeMovRepo{store: store}).GetByID(entry.ID)
	require.NoError(t, err)
	require.NotNil(t, stored, "el movimiento debe quedar persistido")
}

func TestIncrease_PorCodigo(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "CAM-M", "Camisa", "M", 0)
	ledger := newLedger(store)

	_, err := ledger.Increase(context.Background(), stock.IncreaseInput{
		ItemRef:  "CAM-M",
		Quantity: 3,
		Reason:   "stock inicial",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, store.items["item-1"].Quantity)
}

func TestIncrease_CantidadInvalida(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "CAM-M", "Camisa", "M", 5)
	ledger := newLedger(store)

	for _, qty := range []int{0, -4} {
		_, err := ledger.Increase(context.Background(), stock.IncreaseInput{ItemRef: "item-1", Quantity: qty})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
	assert.Equal(t, 5, store.items["item-1"].Quantity, "el stock no debe cambiar")
}

func TestIncrease_ElementoNoExiste(t *testing.T) {
	ledger := newLedger(newMemStore())

	_, err := ledger.Increase(context.Background(), stock.IncreaseInput{ItemRef: "nope", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Decrease (salida)
// ──────────────────────────────────────────────────────────────────────────────

func TestDecrease_DescuentaYRegistraSalida(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "CAM-M", "Camisa", "M", 8)
	ledger := newLedger(store)

	entry, err := ledger.Decrease(context.Background(), "item-1", 3, "entrega", "user-1")
	require.NoError(t, err)

	assert.Equal(t, 5, store.items["item-1"].Quantity)
	assert.Equal(t, entity.MovementTypeSalida, entry.Type)
	assert.Equal(t, 8, entry.PrevQuantity)
	assert.Equal(t, 5, entry.NewQuantity)
	assert.Equal(t, -3, entry.SignedDelta())
}

func TestDecrease_StockInsuficiente(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "CAM-M", "Camisa", "M", 2)
	ledger := newLedger(store)

	_, err := ledger.Decrease(context.Background(), "item-1", 5, "entrega", "user-1")

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Camisa (M)", stockErr.Element)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 2, store.items["item-1"].Quantity, "el stock no debe cambiar")
	assert.Empty(t, store.movements, "no debe registrarse ningún movimiento")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RevertReceipt (revert de una entrada, a lo sumo una vez)
// ──────────────────────────────────────────────────────────────────────────────

func TestRevertReceipt_RestauraStockYMarcaRevertido(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "CAM-M", "Camisa", "M", 5)
	ledger := newLedger(store)

	entry, err := ledger.Increase(context.Background(), stock.IncreaseInput{
		ItemRef:  "item-1",
		Quantity: 10,
		Reason:   "compra",
		Actor:    "user-1",
	})
	require.NoError(t, err)
	require.Equal(t, 15, store.items["item-1"].Quantity)

	newStock, err := ledger.RevertReceipt(context.Background(), entry.ID, "error de digitación", "user-2")
	require.NoError(t, err)

	assert.Equal(t, 5, newStock, "el stock debe volver al valor previo a la entrada")
	assert.Equal(t, 5, store.items["item-1"].Quantity)

	mov := store.movements[entry.ID]
	assert.True(t, mov.Reverted)
	assert.Equal(t, "user-2", mov.RevertedBy)
	assert.Equal(t, "error de digitación", mov.RevertReason)
	require.NotNil(t, mov.RevertedAt)
}

func TestRevertReceipt_SegundaVezFalla(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "CAM-M", "Camisa", "M", 0)
	ledger := newLedger(store)

	entry, err := ledger.Increase(context.Background(), stock.IncreaseInput{ItemRef: "item-1", Quantity: 4, Reason: "compra"})
	require.NoError(t, err)

	_, err = ledger.RevertReceipt(context.Background(), entry.ID, "r1", "user-1")
	require.NoError(t, err)

	_, err = ledger.RevertReceipt(context.Background(), entry.ID, "r2", "user-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyReverted)
	assert.Equal(t, 0, store.items["item-1"].Quantity, "el segundo intento no debe tocar el stock")
}

func TestRevertReceipt_SoloAplicaAEntradas(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "CAM-M", "Camisa", "M", 8)
	ledger := newLedger(store)

	salida, err := ledger.Decrease(context.Background(), "item-1", 3, "entrega", "user-1")
	require.NoError(t, err)

	_, err = ledger.RevertReceipt(context.Background(), salida.ID, "no aplica", "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "las salidas se revierten por la ruta de entregas")
}

func TestRevertReceipt_NoDejaStockNegativo(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "CAM-M", "Camisa", "M", 0)
	ledger := newLedger(store)

	// Entran 10, salen 8: revertir la entrada dejaría el stock en -8.
	entrada, err := ledger.Increase(context.Background(), stock.IncreaseInput{ItemRef: "item-1", Quantity: 10, Reason: "compra"})
	require.NoError(t, err)
	_, err = ledger.Decrease(context.Background(), "item-1", 8, "entrega", "user-1")
	require.NoError(t, err)

	_, err = ledger.RevertReceipt(context.Background(), entrada.ID, "intento", "user-1")

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, store.items["item-1"].Quantity, "el stock debe quedar intacto")
	assert.False(t, store.movements[entrada.ID].Reverted, "la entrada no debe quedar marcada")
}

func TestRevertReceipt_MovimientoNoExiste(t *testing.T) {
	ledger := newLedger(newMemStore())

	_, err := ledger.RevertReceipt(context.Background(), "nope", "r", "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ValidateAvailability
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateAvailability(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "CAM-M", "Camisa", "M", 4)
	ledger := newLedger(store)

	av, err := ledger.ValidateAvailability(context.Background(), "CAM-M", 4)
	require.NoError(t, err)
	assert.True(t, av.Valid, "solicitar exactamente lo disponible es válido")
	assert.Equal(t, 4, av.Available)

	av, err = ledger.ValidateAvailability(context.Background(), "CAM-M", 5)
	require.NoError(t, err)
	assert.False(t, av.Valid)

	_, err = ledger.ValidateAvailability(context.Background(), "CAM-M", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = ledger.ValidateAvailability(context.Background(), "no-existe", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
