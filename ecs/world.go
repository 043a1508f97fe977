package ecs

import (
	"context"

	"go.uber.org/zap"
)

// World owns the Registry, the Commands queue, the Viewer, the Resources
// store, and the three phase schedulers (startup/update/shutdown).
// Grounded on original_source/src/ecs/world.hpp's World and Application,
// merged into a single type the way a Go library typically exposes one
// root handle instead of the original's separate World/Application split.
type World struct {
	log *zap.Logger

	registry  *Registry
	commands  *Commands
	viewer    *Viewer
	resources *Resources

	startup  *Scheduler
	update   *Scheduler
	shutdown *Scheduler

	// defaultStage is where Add{Startup,Update,Shutdown}System register
	// when the host does not need more than one stage per phase. Hosts
	// that do need multiple stages (e.g. distinct barriers within a
	// phase) reach for Startup()/Update()/Shutdown().AddStage directly.
	startupDefault  *Stage
	updateDefault   *Stage
	shutdownDefault *Stage
}

// WorldOption configures a World at construction time.
type WorldOption func(*World)

// WithLogger installs a structured logger used for system-panic and
// cycle-rejection diagnostics. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) WorldOption {
	return func(w *World) { w.log = log }
}

// NewWorld constructs an empty World ready to have systems registered
// against its three schedulers.
func NewWorld(opts ...WorldOption) *World {
	w := &World{log: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}

	w.registry = NewRegistry()
	w.commands = newCommands()
	w.viewer = newViewer(w.registry)
	w.resources = newResources()

	w.startup = NewScheduler(w.log)
	w.update = NewScheduler(w.log)
	w.shutdown = NewScheduler(w.log)

	w.startupDefault = w.startup.AddStage("default")
	w.updateDefault = w.update.AddStage("default")
	w.shutdownDefault = w.shutdown.AddStage("default")

	return w
}

// Viewer returns the World's query entry point.
func (w *World) Viewer() *Viewer { return w.viewer }

// Commands returns the World's deferred-mutation queue.
func (w *World) Commands() *Commands { return w.commands }

// Resources returns the World's singleton-value store.
func (w *World) Resources() *Resources { return w.resources }

// Registry returns the World's component storage. Exposed for tests and
// for hosts that need direct, single-threaded access outside a running
// stage (e.g. seeding initial state before Run).
func (w *World) Registry() *Registry { return w.registry }

// Startup, Update, and Shutdown return the corresponding phase scheduler
// so the host can add stages, systems, and constraints to it.
func (w *World) Startup() *Scheduler  { return w.startup }
func (w *World) Update() *Scheduler   { return w.update }
func (w *World) Shutdown() *Scheduler { return w.shutdown }

// AddStartupSystem, AddUpdateSystem, and AddShutdownSystem register s on
// the single default stage of the corresponding phase, for hosts that
// don't need more than one stage per phase. Each returns the system's id.
func (w *World) AddStartupSystem(s System) SystemID  { return w.startupDefault.AddSystem(s) }
func (w *World) AddUpdateSystem(s System) SystemID   { return w.updateDefault.AddSystem(s) }
func (w *World) AddShutdownSystem(s System) SystemID { return w.shutdownDefault.AddSystem(s) }

// RemoveStartupSystem, RemoveUpdateSystem, and RemoveShutdownSystem
// deregister a system previously added through the matching Add*System.
func (w *World) RemoveStartupSystem(id SystemID) error  { return w.startupDefault.RemoveSystem(id) }
func (w *World) RemoveUpdateSystem(id SystemID) error   { return w.updateDefault.RemoveSystem(id) }
func (w *World) RemoveShutdownSystem(id SystemID) error { return w.shutdownDefault.RemoveSystem(id) }

// ContainsStartupSystem, ContainsUpdateSystem, and ContainsShutdownSystem
// report whether id names a currently registered system on the matching
// phase's default stage.
func (w *World) ContainsStartupSystem(id SystemID) bool {
	return w.startupDefault.ContainsSystem(id)
}
func (w *World) ContainsUpdateSystem(id SystemID) bool {
	return w.updateDefault.ContainsSystem(id)
}
func (w *World) ContainsShutdownSystem(id SystemID) bool {
	return w.shutdownDefault.ContainsSystem(id)
}

// AddStartupConstraint, AddUpdateConstraint, and AddShutdownConstraint
// record that system from must complete before system to starts, on the
// matching phase's default stage.
func (w *World) AddStartupConstraint(from, to SystemID) error {
	return w.startupDefault.AddConstraint(from, to)
}
func (w *World) AddUpdateConstraint(from, to SystemID) error {
	return w.updateDefault.AddConstraint(from, to)
}
func (w *World) AddShutdownConstraint(from, to SystemID) error {
	return w.shutdownDefault.AddConstraint(from, to)
}

// RemoveStartupConstraint, RemoveUpdateConstraint, and
// RemoveShutdownConstraint drop a previously added constraint.
func (w *World) RemoveStartupConstraint(from, to SystemID) {
	w.startupDefault.RemoveConstraint(from, to)
}
func (w *World) RemoveUpdateConstraint(from, to SystemID) {
	w.updateDefault.RemoveConstraint(from, to)
}
func (w *World) RemoveShutdownConstraint(from, to SystemID) {
	w.shutdownDefault.RemoveConstraint(from, to)
}

// ContainsStartupConstraint, ContainsUpdateConstraint, and
// ContainsShutdownConstraint report whether the from->to edge exists.
func (w *World) ContainsStartupConstraint(from, to SystemID) bool {
	return w.startupDefault.ContainsConstraint(from, to)
}
func (w *World) ContainsUpdateConstraint(from, to SystemID) bool {
	return w.updateDefault.ContainsConstraint(from, to)
}
func (w *World) ContainsShutdownConstraint(from, to SystemID) bool {
	return w.shutdownDefault.ContainsConstraint(from, to)
}

// Run executes startup once, then executes update repeatedly, consulting
// shouldExit after each update tick and stopping once it reports true (so
// update always runs at least once unless ctx is already done), then
// executes shutdown once. Each Scheduler
// already drains w's command queue after every one of its stages (see
// Scheduler.Execute), so Run itself needs no additional flush between
// phases. Mirrors original_source/src/ecs/application.hpp's
// Application::Run loop.
func (w *World) Run(ctx context.Context, shouldExit func() bool) error {
	if err := w.startup.Execute(w); err != nil {
		return err
	}

	for ctx.Err() == nil {
		if err := w.update.Execute(w); err != nil {
			return err
		}
		if shouldExit() {
			break
		}
	}

	return w.shutdown.Execute(w)
}

// Close releases the World's command queue, rejecting any further push.
func (w *World) Close() {
	w.commands.queue.close()
}

// FlushCommands applies every buffered mutation to w's registry and
// resources, in FIFO order. World.Run calls this automatically between
// stages; hosts driving a World manually (tests, or a host that doesn't
// use Run's loop) can call it directly.
func FlushCommands(w *World) {
	w.commands.queue.execute(w)
}
