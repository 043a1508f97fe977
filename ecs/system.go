package ecs

// SystemFunc lets a stateful type participate as a System without
// converting itself to the bare function type, matching the interface-
// based system shape of _examples/plus3-ooftn/ecs/system.go's System
// interface, alongside the plain-func form this module otherwise prefers.
type SystemFunc interface {
	Execute(vw *Viewer, cmd *Commands, res *Resources) error
}

// AsSystem adapts a SystemFunc implementation to the System function type
// a Stage accepts.
func AsSystem(s SystemFunc) System {
	return s.Execute
}
