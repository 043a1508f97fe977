package ecs

import (
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// System is a unit of work a Stage can schedule. It receives the Viewer,
// Commands, and Resources of the World that owns it.
type System func(*Viewer, *Commands, *Resources) error

// StageStats exposes per-run dispatch introspection, the same shape as
// _examples/plus3-ooftn/ecs/scheduler.go's SchedulerStats, adapted to a
// single stage's dispatch.
type StageStats struct {
	SystemsRun int
}

// Stage is one parallel wave-dispatched DAG of systems. Multiple stages,
// run in order, make up a Scheduler. Grounded on
// original_source/src/ecs/scheduler.hpp's Scheduler/ThreadPool pair; the
// worker pool itself is github.com/panjf2000/ants/v2, adopted from
// _examples/15mga-kiwi, since the original hand-rolls a condvar-based
// thread pool that Go's ecosystem already provides a maintained library
// for.
type Stage struct {
	name       string
	log        *zap.Logger
	poolSize   int
	graphMu    sync.Mutex
	graph      *systemGraph
	lastStats  StageStats
}

// NewStage creates an empty stage with a worker pool sized to the host's
// CPU count.
func NewStage(name string, log *zap.Logger) *Stage {
	return &Stage{
		name:     name,
		log:      log,
		poolSize: runtime.NumCPU(),
		graph:    newSystemGraph(),
	}
}

// AddSystem registers s and returns its id.
func (st *Stage) AddSystem(s System) SystemID {
	st.graphMu.Lock()
	defer st.graphMu.Unlock()
	return st.graph.addSystem(s)
}

// RemoveSystem deregisters a previously added system.
func (st *Stage) RemoveSystem(id SystemID) error {
	st.graphMu.Lock()
	defer st.graphMu.Unlock()
	return st.graph.removeSystem(id)
}

// AddConstraint records that from must complete before to starts.
func (st *Stage) AddConstraint(from, to SystemID) error {
	st.graphMu.Lock()
	defer st.graphMu.Unlock()
	return st.graph.addConstraint(from, to)
}

// RemoveConstraint drops a previously added constraint.
func (st *Stage) RemoveConstraint(from, to SystemID) {
	st.graphMu.Lock()
	defer st.graphMu.Unlock()
	st.graph.removeConstraint(from, to)
}

// ContainsConstraint reports whether the from->to edge exists.
func (st *Stage) ContainsConstraint(from, to SystemID) bool {
	st.graphMu.Lock()
	defer st.graphMu.Unlock()
	return st.graph.containsConstraint(from, to)
}

// ContainsSystem reports whether id names a currently registered system.
func (st *Stage) ContainsSystem(id SystemID) bool {
	st.graphMu.Lock()
	defer st.graphMu.Unlock()
	return st.graph.containsSystem(id)
}

// Size returns the number of systems currently registered.
func (st *Stage) Size() int {
	st.graphMu.Lock()
	defer st.graphMu.Unlock()
	return st.graph.size()
}

// Stats returns the last Execute call's dispatch counters.
func (st *Stage) Stats() StageStats {
	return st.lastStats
}

// Execute runs every system in this stage to completion, dispatching each
// topological wave of zero-in-degree nodes onto a worker pool, exactly as
// original_source/src/ecs/scheduler.hpp's Scheduler::Execute: snapshot the
// graph under the graph mutex, then repeatedly run every currently
// zero-in-degree node as one wave, wait for the whole wave, and peel those
// nodes' outgoing edges before computing the next wave. Each wave is
// dispatched onto the ants pool and awaited with an errgroup.Group, which
// collects the first system error (or recovered panic) in the wave without
// the stage having to hand-roll its own completion-channel bookkeeping.
func (st *Stage) Execute(vw *Viewer, cmd *Commands, res *Resources) error {
	st.graphMu.Lock()
	if st.graph.checkCycle() {
		st.graphMu.Unlock()
		if st.log != nil {
			st.log.Warn("stage rejected: cycle in system graph", zap.String("stage", st.name))
		}
		return ErrCycle
	}
	snapshot := st.graph.clone()
	st.graphMu.Unlock()

	if snapshot.empty() {
		st.lastStats = StageStats{}
		return nil
	}

	pool, err := ants.NewPool(max(st.poolSize, 1))
	if err != nil {
		return err
	}
	defer pool.Release()

	ran := 0
	var firstErr error

	for wave := zeroInDegreeNodes(snapshot); len(wave) > 0; wave = zeroInDegreeNodes(snapshot) {
		g := new(errgroup.Group)
		for _, node := range wave {
			node := node
			g.Go(func() error {
				done := make(chan error, 1)
				if err := pool.Submit(func() {
					done <- runSystemSafely(node.system, vw, cmd, res, st.log)
				}); err != nil {
					return err
				}
				return <-done
			})
		}
		if waveErr := g.Wait(); waveErr != nil && firstErr == nil {
			firstErr = waveErr
		}
		ran += len(wave)

		for _, node := range wave {
			_ = snapshot.removeSystem(node.id)
		}
	}

	st.lastStats = StageStats{SystemsRun: ran}
	return firstErr
}

// zeroInDegreeNodes returns every node in g with no remaining incoming
// constraint, i.e. the next wave Execute can run in parallel.
func zeroInDegreeNodes(g *systemGraph) []*systemNode {
	wave := make([]*systemNode, 0)
	for _, n := range g.nodes {
		if n.inDegree() == 0 {
			wave = append(wave, n)
		}
	}
	return wave
}

// runSystemSafely recovers a panicking system so one bad system cannot
// wedge the stage's completion loop; the recovered value is logged and
// surfaced as the system's returned error.
func runSystemSafely(s System, vw *Viewer, cmd *Commands, res *Resources, log *zap.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if log != nil {
				log.Error("system panicked", zap.Any("recover", r))
			}
			err = ErrSystemPanic
		}
	}()
	return s(vw, cmd, res)
}
