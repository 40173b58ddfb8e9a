package engine

import (
	"github.com/DivyanshGoel20/token-strike/internal/domain"
)

type arenaSlot[T any] struct {
	gen   uint16
	value *T
}

// Arena хранит сущности одного вида в слотах с поколениями.
// ID освобождённого слота становится устаревшим: Get по нему вернёт nil.
type Arena[T any] struct {
	kind  domain.EntityKind
	slots []arenaSlot[T]
	free  []uint32
	live  int
}

func NewArena[T any](kind domain.EntityKind) *Arena[T] {
	return &Arena[T]{kind: kind}
}

// Alloc кладёт значение в свободный слот и возвращает его ID
func (a *Arena[T]) Alloc(v *T) domain.EntityID {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		// Поколение 0 зарезервировано, чтобы первый ID никогда не был нулевым
		a.slots = append(a.slots, arenaSlot[T]{gen: 1})
	}
	a.slots[idx].value = v
	a.live++
	return domain.PackEntityID(a.kind, a.slots[idx].gen, idx)
}

// Get возвращает значение по ID или nil для устаревшего/чужого ID
func (a *Arena[T]) Get(id domain.EntityID) *T {
	if id.Kind() != a.kind {
		return nil
	}
	idx := id.Index()
	if int(idx) >= len(a.slots) {
		return nil
	}
	slot := a.slots[idx]
	if slot.value == nil || slot.gen != id.Generation() {
		return nil
	}
	return slot.value
}

// Free освобождает слот. Повторный Free по тому же ID ничего не делает.
func (a *Arena[T]) Free(id domain.EntityID) bool {
	if a.Get(id) == nil {
		return false
	}
	idx := id.Index()
	a.slots[idx].value = nil
	a.slots[idx].gen++
	if a.slots[idx].gen == 0 {
		a.slots[idx].gen = 1
	}
	a.free = append(a.free, idx)
	a.live--
	return true
}

// Len - количество занятых слотов
func (a *Arena[T]) Len() int {
	return a.live
}

// Values возвращает занятые слоты в порядке индексов
func (a *Arena[T]) Values() []*T {
	out := make([]*T, 0, a.live)
	for _, s := range a.slots {
		if s.value != nil {
			out = append(out, s.value)
		}
	}
	return out
}

// Clear освобождает все слоты. Выданные ранее ID становятся устаревшими.
func (a *Arena[T]) Clear() {
	for i := range a.slots {
		if a.slots[i].value == nil {
			continue
		}
		a.slots[i].value = nil
		a.slots[i].gen++
		if a.slots[i].gen == 0 {
			a.slots[i].gen = 1
		}
		a.free = append(a.free, uint32(i))
	}
	a.live = 0
}
