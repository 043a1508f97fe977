package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// Viewer is the entry point systems use to construct views. It holds no
// state beyond the Registry it reads from - original_source/src/ecs/
// viewer.hpp's Viewer is likewise a thin factory over the World's Registry.
type Viewer struct {
	registry *Registry
}

func newViewer(registry *Registry) *Viewer {
	return &Viewer{registry: registry}
}

// NewViewOf constructs a view of T against this viewer's registry.
func NewViewOf[T any](vw *Viewer) *View[T] {
	return NewView[T](vw.registry)
}

// fieldKind distinguishes how a View[T] field participates in matching.
type fieldKind int

const (
	fieldRequired fieldKind = iota
	fieldOptional
	fieldExclude
)

// View queries entities against a struct type T whose pointer fields name
// the components of interest. Untagged fields are Required; a field
// tagged `ecs:"optional"` is Optional; a field tagged `ecs:"exclude"`
// names a component type that disqualifies a candidate entity and is
// never itself populated. Anonymous (embedded) fields are always
// Required, matching the struct-tag convention of
// _examples/plus3-ooftn/ecs/view.go, generalized here with an Exclude kind
// that an archetype-based storage has no need for.
type View[T any] struct {
	registry    *Registry
	typeIDs     []ComponentTypeID
	kinds       []fieldKind
	fieldOffset []uintptr
}

// NewView builds a view over T. Panics (the Go analogue of the original's
// compile-time static_assert) if a component type appears in more than
// one of Required/Optional/Exclude, or if any field is not a pointer.
func NewView[T any](registry *Registry) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("ecs: View type parameter must be a struct")
	}

	n := structType.NumField()
	typeIDs := make([]ComponentTypeID, 0, n)
	kinds := make([]fieldKind, 0, n)
	fieldOffset := make([]uintptr, 0, n)
	seen := make(map[ComponentTypeID]fieldKind, n)

	for i := 0; i < n; i++ {
		field := structType.Field(i)
		if field.Type.Kind() != reflect.Ptr {
			panic("ecs: View struct fields must be pointer types")
		}
		componentType := field.Type.Elem()
		typeID := typeIDFromReflect(componentType)

		kind := fieldRequired
		if !field.Anonymous {
			switch tag := field.Tag.Get("ecs"); tag {
			case "":
			case "optional":
				kind = fieldOptional
			case "exclude":
				kind = fieldExclude
			default:
				panic("ecs: invalid ecs tag value: \"" + tag + "\"")
			}
		}

		if prior, ok := seen[typeID]; ok && prior != kind {
			panic("ecs: component type appears in more than one of Required/Optional/Exclude")
		}
		seen[typeID] = kind

		typeIDs = append(typeIDs, typeID)
		kinds = append(kinds, kind)
		fieldOffset = append(fieldOffset, field.Offset)
	}

	return &View[T]{
		registry:    registry,
		typeIDs:     typeIDs,
		kinds:       kinds,
		fieldOffset: fieldOffset,
	}
}

func typeIDFromReflect(t reflect.Type) ComponentTypeID {
	return fnv1a64(t.PkgPath() + "." + t.Name())
}

// drivingStorage returns the basicStorage to iterate candidates from: the
// smallest Required storage, exactly as original_source/src/ecs/viewer.hpp
// picks Required[0]. This module additionally picks the *smallest* of the
// required storages rather than always the first, which is a strict
// performance refinement of the same algorithm and does not change which
// entities are yielded.
func (v *View[T]) drivingStorage() (basicStorage, bool) {
	var best basicStorage
	for i, kind := range v.kinds {
		if kind != fieldRequired {
			continue
		}
		s, ok := v.registry.storages.Get(v.typeIDs[i])
		if !ok {
			return nil, false
		}
		if best == nil || s.Size() < best.Size() {
			best = s
		}
	}
	return best, best != nil
}

// checkEntity reports whether e satisfies every Required and no Exclude
// constraint. Optional constraints are never checked here.
func (v *View[T]) checkEntity(e Entity) bool {
	id := IDOf(e)
	for i, kind := range v.kinds {
		s, ok := v.registry.storages.Get(v.typeIDs[i])
		switch kind {
		case fieldRequired:
			if !ok || !s.Contains(id) {
				return false
			}
		case fieldExclude:
			if ok && s.Contains(id) {
				return false
			}
		}
	}
	return true
}

// fill populates ptr's fields for entity e. Caller must have already
// confirmed checkEntity(e).
func (v *View[T]) fill(e Entity, ptr *T) {
	id := IDOf(e)
	structPtr := unsafe.Pointer(ptr)
	for i, kind := range v.kinds {
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + v.fieldOffset[i])
		if kind == fieldExclude {
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}
		s, ok := v.registry.storages.Get(v.typeIDs[i])
		if !ok || !s.Contains(id) {
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}
		*(*unsafe.Pointer)(fieldPtr) = componentPointer(s, id)
	}
}

// componentPointer reaches into a type-erased basicStorage to fetch the
// raw address of id's component, without knowing T at this call site.
func componentPointer(s basicStorage, id uint32) unsafe.Pointer {
	return s.(interface{ rawComponentPointer(uint32) unsafe.Pointer }).rawComponentPointer(id)
}

// rawComponentPointer implements the unexported hook componentPointer uses
// to cross the type-erasure boundary without reflection on the hot path.
func (s *storage[T]) rawComponentPointer(id uint32) unsafe.Pointer {
	return unsafe.Pointer(s.ComponentOf(id))
}

// Get returns a populated T for e, or nil if e fails the view's
// Required/Exclude constraints.
func (v *View[T]) Get(e Entity) *T {
	if !v.checkEntity(e) {
		return nil
	}
	var result T
	v.fill(e, &result)
	return &result
}

// Iter lazily yields (Entity, T) for every entity matching this view. The
// driving iterator is the smallest Required storage's dense array (or,
// when Required is empty, every live entity), matching
// original_source/src/ecs/viewer.hpp's View::Next algorithm.
func (v *View[T]) Iter() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		driver, ok := v.drivingStorage()
		if ok {
			for _, e := range driver.Entities() {
				if !v.checkEntity(e) {
					continue
				}
				var result T
				v.fill(e, &result)
				if !yield(e, result) {
					return
				}
			}
			return
		}

		for _, e := range v.registry.liveEntities() {
			if !v.checkEntity(e) {
				continue
			}
			var result T
			v.fill(e, &result)
			if !yield(e, result) {
				return
			}
		}
	}
}

// Values iterates just the populated structs, discarding entity ids.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}
