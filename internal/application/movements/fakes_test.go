package movements_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/tu-usuario/activos-api/internal/domain"
	"github.com/tu-usuario/activos-api/internal/domain/entity"
	"github.com/tu-usuario/activos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional real: el TxRunner de prueba
// trabaja sobre una copia y solo la publica si el callback termina sin error,
// igual que Commit/Rollback en PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type memDB struct {
	equipment map[string]*entity.Equipment
	movements map[string]*entity.Movement
	movOrder  []string // orden de inserción, desempate del timeline
	stores    map[string]*entity.Store
	users     map[string]*entity.User

	// failCreateFor simula una violación de constraint al insertar el
	// movimiento del equipo indicado (falla referencial a mitad de lote).
	failCreateFor string
}

func newMemDB() *memDB {
	return &memDB{
		equipment: map[string]*entity.Equipment{},
		movements: map[string]*entity.Movement{},
		stores:    map[string]*entity.Store{},
		users:     map[string]*entity.User{},
	}
}

func (db *memDB) clone() *memDB {
	cp := newMemDB()
	cp.failCreateFor = db.failCreateFor
	for id, eq := range db.equipment {
		e := *eq
		cp.equipment[id] = &e
	}
	for id, m := range db.movements {
		mm := *m
		cp.movements[id] = &mm
	}
	cp.movOrder = append(cp.movOrder, db.movOrder...)
	for id, s := range db.stores {
		ss := *s
		cp.stores[id] = &ss
	}
	for id, u := range db.users {
		uu := *u
		cp.users[id] = &uu
	}
	return cp
}

func (db *memDB) addStore(id, name string) {
	db.stores[id] = &entity.Store{ID: id, Name: name}
}

func (db *memDB) addUser(id, name string) {
	db.users[id] = &entity.User{ID: id, Name: name}
}

func (db *memDB) addEquipment(id, tag string, loc entity.Location) {
	db.equipment[id] = &entity.Equipment{
		ID:           id,
		InventoryTag: tag,
		Serial:       "SN-" + tag,
		LocationKind: loc.Kind,
		StoreID:      loc.StoreID,
		Version:      1,
	}
}

type fakeTxRunner struct {
	db *memDB
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	equipRepo repository.EquipmentRepository,
) error) error {
	tx := r.db.clone()
	if err := fn(&fakeMovementRepo{db: tx}, &fakeEquipmentRepo{db: tx}); err != nil {
		return err // rollback: la copia se descarta
	}
	*r.db = *tx // commit
	return nil
}

// ───────────────────────────── equipment ─────────────────────────────

type fakeEquipmentRepo struct {
	db *memDB
}

func (r *fakeEquipmentRepo) GetByID(id string) (*entity.Equipment, error) {
	eq, ok := r.db.equipment[id]
	if !ok {
		return nil, nil
	}
	cp := *eq
	return &cp, nil
}

func (r *fakeEquipmentRepo) GetByIDForUpdate(id string) (*entity.Equipment, error) {
	return r.GetByID(id)
}

func (r *fakeEquipmentRepo) UpdateLocation(id string, loc entity.Location) error {
	eq, ok := r.db.equipment[id]
	if !ok {
		return domain.ErrNotFound
	}
	eq.LocationKind = loc.Kind
	if loc.Kind == entity.LocationStore {
		eq.StoreID = loc.StoreID
	} else {
		eq.StoreID = nil
	}
	eq.Version++
	eq.UpdatedAt = time.Now()
	return nil
}

func (r *fakeEquipmentRepo) ListByIDs(ids []string) ([]*entity.Equipment, error) {
	var out []*entity.Equipment
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if eq, ok := r.db.equipment[id]; ok {
			cp := *eq
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ───────────────────────────── movements ─────────────────────────────

type fakeMovementRepo struct {
	db *memDB
}

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	if r.db.failCreateFor != "" && m.EquipmentID == r.db.failCreateFor {
		return domain.ErrInvalidReference
	}
	cp := *m
	r.db.movements[m.ID] = &cp
	r.db.movOrder = append(r.db.movOrder, m.ID)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.Movement, error) {
	m, ok := r.db.movements[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMovementRepo) GetByIDForUpdate(id string) (*entity.Movement, error) {
	return r.GetByID(id)
}

func (r *fakeMovementRepo) GetDetailByID(id string) (*entity.MovementWithDetails, error) {
	m, ok := r.db.movements[id]
	if !ok {
		return nil, nil
	}
	d := r.withDetails(m)
	return &d, nil
}

func (r *fakeMovementRepo) UpdateState(id, state string, arrivedAt *time.Time, receiptCode *string) (bool, error) {
	m, ok := r.db.movements[id]
	if !ok {
		return false, nil
	}
	m.LifecycleState = state
	if arrivedAt != nil {
		m.ArrivedAt = arrivedAt
	}
	if receiptCode != nil {
		m.ReceiptCode = receiptCode
	}
	m.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeMovementRepo) UpdateEditable(id string, edit repository.MovementEdit) (bool, error) {
	m, ok := r.db.movements[id]
	if !ok {
		return false, nil
	}
	m.LifecycleState = edit.LifecycleState
	m.ReceiptCode = edit.ReceiptCode
	m.TicketRef = edit.TicketRef
	m.DepartedAt = edit.DepartedAt
	m.ArrivedAt = edit.ArrivedAt
	m.Reason = edit.Reason
	m.Notes = edit.Notes
	m.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeMovementRepo) ListByEquipment(equipmentID string) ([]*entity.MovementWithDetails, error) {
	insertPos := map[string]int{}
	for i, id := range r.db.movOrder {
		insertPos[id] = i
	}
	var list []*entity.Movement
	for _, m := range r.db.movements {
		if m.EquipmentID == equipmentID && m.IsActive {
			list = append(list, m)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].DepartedAt.Equal(list[j].DepartedAt) {
			return list[i].DepartedAt.After(list[j].DepartedAt)
		}
		return insertPos[list[i].ID] > insertPos[list[j].ID]
	})
	out := make([]*entity.MovementWithDetails, 0, len(list))
	for _, m := range list {
		d := r.withDetails(m)
		out = append(out, &d)
	}
	return out, nil
}

func (r *fakeMovementRepo) List(filter entity.MovementFilter) ([]*entity.MovementWithDetails, int, error) {
	var matched []*entity.MovementWithDetails
	for _, id := range r.db.movOrder {
		m := r.db.movements[id]
		if m == nil || !m.IsActive {
			continue
		}
		d := r.withDetails(m)
		if r.matches(&d, filter) {
			matched = append(matched, &d)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].DepartedAt.After(matched[j].DepartedAt)
	})
	total := len(matched)
	if filter.Offset >= total {
		return nil, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

func (r *fakeMovementRepo) matches(d *entity.MovementWithDetails, f entity.MovementFilter) bool {
	if f.Kind != "" && d.Kind != f.Kind {
		return false
	}
	if f.LifecycleState != "" && d.LifecycleState != f.LifecycleState {
		return false
	}
	if f.OriginKind != "" && d.OriginKind != f.OriginKind {
		return false
	}
	if f.DestKind != "" && d.DestKind != f.DestKind {
		return false
	}
	if f.DepartedFrom != nil && d.DepartedAt.Before(*f.DepartedFrom) {
		return false
	}
	if f.DepartedTo != nil && d.DepartedAt.After(*f.DepartedTo) {
		return false
	}
	if len(f.StoreIDs) > 0 {
		ok := false
		for _, id := range f.StoreIDs {
			if (d.OriginStoreID != nil && *d.OriginStoreID == id) ||
				(d.DestStoreID != nil && *d.DestStoreID == id) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.Search != "" {
		s := strings.ToLower(f.Search)
		haystack := strings.ToLower(strings.Join([]string{
			d.EquipmentTag, d.EquipmentSerial, derefStr(d.ReceiptCode),
			d.OriginStoreName, d.DestStoreName,
			derefStr(d.OriginPerson), derefStr(d.DestPerson),
		}, " "))
		if !strings.Contains(haystack, s) {
			return false
		}
	}
	return true
}

func (r *fakeMovementRepo) withDetails(m *entity.Movement) entity.MovementWithDetails {
	d := entity.MovementWithDetails{Movement: *m}
	if eq, ok := r.db.equipment[m.EquipmentID]; ok {
		d.EquipmentTag = eq.InventoryTag
		d.EquipmentSerial = eq.Serial
	}
	if m.OriginStoreID != nil {
		if s, ok := r.db.stores[*m.OriginStoreID]; ok {
			d.OriginStoreName = s.Name
		}
	}
	if m.DestStoreID != nil {
		if s, ok := r.db.stores[*m.DestStoreID]; ok {
			d.DestStoreName = s.Name
		}
	}
	if u, ok := r.db.users[m.ActorID]; ok {
		d.ActorName = u.Name
	}
	return d
}

// ───────────────────────────── stores ─────────────────────────────

type fakeStoreRepo struct {
	db *memDB
}

func (r *fakeStoreRepo) GetByID(id string) (*entity.Store, error) {
	s, ok := r.db.stores[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStoreRepo) List(limit, offset int) ([]*entity.Store, error) {
	var out []*entity.Store
	for _, s := range r.db.stores {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
