package ecs

import "errors"

var (
	// ErrDuplicateComponents is returned by Commands.Spawn when two of its
	// Attachers name the same component type.
	ErrDuplicateComponents = errors.New("ecs: duplicate component type in call")

	// ErrSelfLoopConstraint is returned by AddConstraint(id, id).
	ErrSelfLoopConstraint = errors.New("ecs: a system cannot constrain itself")

	// ErrUnknownSystem is returned by a graph operation naming a system id
	// that was never registered or has since been removed.
	ErrUnknownSystem = errors.New("ecs: unknown system id")

	// ErrCycle is returned by Stage.Execute when its constraint graph
	// contains a dependency cycle.
	ErrCycle = errors.New("ecs: cycle detected in system graph")

	// ErrEnqueueAfterShutdown is returned when a command is pushed onto a
	// World's command queue after World.Close.
	ErrEnqueueAfterShutdown = errors.New("ecs: enqueue after shutdown")

	// ErrSystemPanic is returned in place of a system's own error when it
	// panicked; the panic value itself is logged, not propagated.
	ErrSystemPanic = errors.New("ecs: system panicked")
)
