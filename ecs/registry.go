package ecs

import "github.com/kamstrup/intmap"

// Registry owns every component storage and the entity id/version
// bookkeeping. It is not safe for concurrent use - systems mutate it only
// indirectly, through the Commands queue, which is flushed single-
// threaded between stages. Grounded on original_source/src/ecs/registry.hpp.
type Registry struct {
	storages   *intmap.Map[ComponentTypeID, basicStorage]
	components *intmap.Map[Entity, map[ComponentTypeID]struct{}]

	versions []uint32 // versions[id] = current version of slot id
	alive    []bool   // alive[id] = whether slot id is currently occupied
	freeList []uint32

	nextID uint32
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		storages:   intmap.New[ComponentTypeID, basicStorage](64),
		components: intmap.New[Entity, map[ComponentTypeID]struct{}](256),
	}
}

// CreateEntity allocates a new entity, reusing a recycled slot id (with
// its next version) when one is available.
func (r *Registry) CreateEntity() Entity {
	var id uint32
	if n := len(r.freeList); n > 0 {
		id = r.freeList[n-1]
		r.freeList = r.freeList[:n-1]
	} else {
		id = r.nextID
		r.nextID++
		r.versions = append(r.versions, 0)
		r.alive = append(r.alive, false)
	}
	r.alive[id] = true
	e := CombineEntity(id, r.versions[id])
	r.components.Put(e, make(map[ComponentTypeID]struct{}))
	return e
}

// ContainsEntity reports whether e refers to a currently live entity.
func (r *Registry) ContainsEntity(e Entity) bool {
	id := IDOf(e)
	if int(id) >= len(r.alive) || !r.alive[id] {
		return false
	}
	return r.versions[id] == VersionOf(e)
}

// DestroyEntity detaches every component attached to e and recycles its
// slot id under a bumped version. A stale or already-dead entity is a
// silent no-op.
func (r *Registry) DestroyEntity(e Entity) {
	if !r.ContainsEntity(e) {
		return
	}
	id := IDOf(e)
	types, _ := r.components.Get(e)
	for typeID := range types {
		if store, ok := r.storages.Get(typeID); ok {
			store.Pop(id)
		}
	}
	r.components.Del(e)
	r.alive[id] = false
	r.versions[id] = NextVersion(r.versions[id])
	r.freeList = append(r.freeList, id)
}

func getOrCreateStorage[T any](r *Registry) *storage[T] {
	typeID := TypeIDOf[T]()
	if existing, ok := r.storages.Get(typeID); ok {
		return existing.(*storage[T])
	}
	s := newStorage[T]()
	r.storages.Put(typeID, s)
	return s
}

func getStorage[T any](r *Registry) (*storage[T], bool) {
	typeID := TypeIDOf[T]()
	existing, ok := r.storages.Get(typeID)
	if !ok {
		return nil, false
	}
	return existing.(*storage[T]), true
}

// Attach attaches a single component of type T to e, creating its storage
// on first use. A stale or unknown entity is a silent no-op.
func Attach[T any](r *Registry, e Entity, value T) {
	types, ok := r.components.Get(e)
	if !ok {
		return
	}
	s := getOrCreateStorage[T](r)
	s.Upsert(e, value)
	types[TypeIDOf[T]()] = struct{}{}
}

// Detach removes e's component of type T, if any. Silent no-op otherwise,
// matching the original's undefined-but-harmless detach-when-absent
// contract.
func Detach[T any](r *Registry, e Entity) {
	s, ok := getStorage[T](r)
	if !ok {
		return
	}
	if !s.ContainsEntity(e) {
		return
	}
	s.Pop(IDOf(e))
	typeID := TypeIDOf[T]()
	if types, ok := r.components.Get(e); ok {
		delete(types, typeID)
	}
}

// HasComponent reports whether e currently carries a component of type T.
func HasComponent[T any](r *Registry, e Entity) bool {
	s, ok := getStorage[T](r)
	if !ok {
		return false
	}
	return s.ContainsEntity(e)
}

// HasAnyOf reports whether e carries a component for at least one of the
// given type ids. Go generics have no variadic type-parameter list, so
// callers supply ids obtained from TypeIDOf[T](), the Go analogue of the
// original's template pack has_any_of<T...>(e).
func HasAnyOf(r *Registry, e Entity, types ...ComponentTypeID) bool {
	for _, t := range types {
		if s, ok := r.storages.Get(t); ok && s.ContainsEntity(e) {
			return true
		}
	}
	return false
}

// HasAllOf reports whether e carries a component for every given type id.
func HasAllOf(r *Registry, e Entity, types ...ComponentTypeID) bool {
	for _, t := range types {
		s, ok := r.storages.Get(t)
		if !ok || !s.ContainsEntity(e) {
			return false
		}
	}
	return true
}

// GetComponent returns a pointer to e's component of type T, or nil if e
// does not carry one. Reading through a nil pointer is undefined
// behavior, matching the original's GetComponentPointer contract.
func GetComponent[T any](r *Registry, e Entity) *T {
	s, ok := getStorage[T](r)
	if !ok {
		return nil
	}
	if !s.ContainsEntity(e) {
		return nil
	}
	return s.ComponentOf(IDOf(e))
}

// StorageSize returns the number of entities carrying a component of type T.
func StorageSize[T any](r *Registry) int {
	s, ok := getStorage[T](r)
	if !ok {
		return 0
	}
	return s.Size()
}

// EntityCount returns the number of currently live entities.
func (r *Registry) EntityCount() int {
	return r.components.Len()
}

// liveEntities returns every currently live entity. Used by View.Iter as
// the fallback driving iterator when a view names no Required component.
func (r *Registry) liveEntities() []Entity {
	entities := make([]Entity, 0, len(r.alive))
	for id, isAlive := range r.alive {
		if isAlive {
			entities = append(entities, CombineEntity(uint32(id), r.versions[id]))
		}
	}
	return entities
}
