package ecs

// Resources is a global, non-entity-bound store of singleton values - one
// slot per type, caching a pointer per type the way a generic Singleton[T]
// would (_examples/plus3-ooftn/ecs/singleton.go).
type Resources struct {
	values map[ComponentTypeID]any
}

func newResources() *Resources {
	return &Resources{values: make(map[ComponentTypeID]any)}
}

// AddResource installs or overwrites the singleton value of type T. The
// slot holds a *T internally so GetResource can hand back a stable,
// mutable pointer.
func AddResource[T any](r *Resources, value T) {
	r.values[TypeIDOf[T]()] = &value
}

// RemoveResource deletes the singleton value of type T, if present.
func RemoveResource[T any](r *Resources) {
	delete(r.values, TypeIDOf[T]())
}

// GetResource returns a pointer to the singleton value of type T, or nil
// if none has been added. The returned pointer aliases the Resources'
// internal storage and stays valid until the value is replaced or removed.
func GetResource[T any](r *Resources) *T {
	v, ok := r.values[TypeIDOf[T]()]
	if !ok {
		return nil
	}
	return v.(*T)
}

// HasResource reports whether a singleton value of type T has been added.
func HasResource[T any](r *Resources) bool {
	_, ok := r.values[TypeIDOf[T]()]
	return ok
}
