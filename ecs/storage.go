package ecs

import "iter"

// basicStorage is the type-erased half of a sparse-set component store.
// It tracks membership and ordering only; component payloads live in the
// generic storage[T] that embeds it.
type basicStorage interface {
	Contains(id uint32) bool
	ContainsEntity(e Entity) bool
	IndexOf(id uint32) int
	Pop(id uint32)
	Swap(a, b uint32)
	SwapToBack(id uint32)
	Reserve(n int)
	ShrinkToFit()
	Size() int
	Entities() []Entity
}

// sparseSet is the shared sparse/dense bookkeeping used by storage[T].
// sparse[id] holds packedIndex+1 for a present id, 0 for an absent one -
// the same encoding as original_source/src/ecs/storage.hpp's BasicStorage.
type sparseSet struct {
	sparse []uint32
	dense  []Entity
}

func (s *sparseSet) Contains(id uint32) bool {
	return id < uint32(len(s.sparse)) && s.sparse[id] != 0
}

func (s *sparseSet) ContainsEntity(e Entity) bool {
	id := IDOf(e)
	if !s.Contains(id) {
		return false
	}
	return s.dense[s.IndexOf(id)] == e
}

func (s *sparseSet) IndexOf(id uint32) int {
	return int(s.sparse[id]) - 1
}

func (s *sparseSet) Size() int {
	return len(s.dense)
}

func (s *sparseSet) Entities() []Entity {
	return s.dense
}

func (s *sparseSet) Reserve(n int) {
	if cap(s.dense) < n {
		grown := make([]Entity, len(s.dense), n)
		copy(grown, s.dense)
		s.dense = grown
	}
}

func (s *sparseSet) ShrinkToFit() {
	shrunk := make([]Entity, len(s.dense))
	copy(shrunk, s.dense)
	s.dense = shrunk
}

func (s *sparseSet) ensureSparse(id uint32) {
	if id >= uint32(len(s.sparse)) {
		grown := make([]uint32, id+1)
		copy(grown, s.sparse)
		s.sparse = grown
	}
}

// pushBack inserts id at the end of the dense array and returns its index.
func (s *sparseSet) pushBack(e Entity) int {
	id := IDOf(e)
	s.ensureSparse(id)
	idx := len(s.dense)
	s.dense = append(s.dense, e)
	s.sparse[id] = uint32(idx) + 1
	return idx
}

func (s *sparseSet) Swap(a, b uint32) {
	ia, ib := s.IndexOf(a), s.IndexOf(b)
	s.dense[ia], s.dense[ib] = s.dense[ib], s.dense[ia]
	s.sparse[a], s.sparse[b] = s.sparse[b], s.sparse[a]
}

// SwapToBack moves id's slot to the last position in the dense array
// without removing it, so a subsequent Pop of the new last id is O(1).
func (s *sparseSet) SwapToBack(id uint32) {
	last := IDOf(s.dense[len(s.dense)-1])
	if last == id {
		return
	}
	s.Swap(id, last)
}

// storage is the generic typed sparse set: dense component values run
// parallel to the embedded sparseSet's dense entity array.
type storage[T any] struct {
	sparseSet
	components []T
}

func newStorage[T any]() *storage[T] {
	return &storage[T]{}
}

// Upsert inserts e with value v, or overwrites the value if already present.
func (s *storage[T]) Upsert(e Entity, v T) {
	id := IDOf(e)
	if s.Contains(id) {
		s.components[s.IndexOf(id)] = v
		return
	}
	s.pushBack(e)
	s.components = append(s.components, v)
}

// Pop removes id, swapping the last element into its place (swap-and-pop).
func (s *storage[T]) Pop(id uint32) {
	idx := s.IndexOf(id)
	lastIdx := len(s.dense) - 1
	if idx != lastIdx {
		s.dense[idx] = s.dense[lastIdx]
		s.components[idx] = s.components[lastIdx]
		s.sparse[IDOf(s.dense[idx])] = uint32(idx) + 1
	}
	s.dense = s.dense[:lastIdx]
	s.components = s.components[:lastIdx]
	s.sparse[id] = 0
}

// Swap exchanges the dense positions of two present ids, keeping both the
// entity and component arrays, and the sparse back-references, consistent.
func (s *storage[T]) Swap(a, b uint32) {
	ia, ib := s.IndexOf(a), s.IndexOf(b)
	s.dense[ia], s.dense[ib] = s.dense[ib], s.dense[ia]
	s.components[ia], s.components[ib] = s.components[ib], s.components[ia]
	s.sparse[a], s.sparse[b] = s.sparse[b], s.sparse[a]
}

func (s *storage[T]) SwapToBack(id uint32) {
	last := IDOf(s.dense[len(s.dense)-1])
	if last == id {
		return
	}
	s.Swap(id, last)
}

func (s *storage[T]) Reserve(n int) {
	s.sparseSet.Reserve(n)
	if cap(s.components) < n {
		grown := make([]T, len(s.components), n)
		copy(grown, s.components)
		s.components = grown
	}
}

func (s *storage[T]) ShrinkToFit() {
	s.sparseSet.ShrinkToFit()
	shrunk := make([]T, len(s.components))
	copy(shrunk, s.components)
	s.components = shrunk
}

// ComponentOf returns a pointer to id's component, valid until the next
// mutating call on this storage. Callers must have verified Contains(id).
func (s *storage[T]) ComponentOf(id uint32) *T {
	return &s.components[s.IndexOf(id)]
}

// All iterates live (entity, *component) pairs in dense order.
func (s *storage[T]) All() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		for i := range s.dense {
			if !yield(s.dense[i], &s.components[i]) {
				return
			}
		}
	}
}
