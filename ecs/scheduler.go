package ecs

import "go.uber.org/zap"

// Scheduler is an ordered list of Stages. Each Stage runs to completion
// (every system in its internal DAG finished) before the next Stage
// starts. This "staged" layering is this module's canonical resolution of
// the flat-vs-staged scheduler question: original_source/src/ecs/
// application.hpp's Application instead holds one bare Scheduler (a
// single DAG+pool, no stage grouping) per phase; this module adopts the
// staged variant and treats original_source's Scheduler class as the
// per-stage building block (ported here as Stage).
type Scheduler struct {
	log    *zap.Logger
	stages []*Stage
}

// NewScheduler creates an empty, ordered scheduler.
func NewScheduler(log *zap.Logger) *Scheduler {
	return &Scheduler{log: log}
}

// AddStage appends a new, empty stage named name and returns it so the
// caller can register systems and constraints on it.
func (s *Scheduler) AddStage(name string) *Stage {
	stage := NewStage(name, s.log)
	s.stages = append(s.stages, stage)
	return stage
}

// Stages returns the ordered list of stages.
func (s *Scheduler) Stages() []*Stage {
	return s.stages
}

// Execute runs every stage in order, draining w's command queue after each
// stage completes before the next one starts - a command enqueued during
// stage k must be observed by stage k+1, never within stage k itself.
// Stops at the first stage that returns an error, still having flushed
// whatever that failing stage's own systems enqueued.
func (s *Scheduler) Execute(w *World) error {
	for _, stage := range s.stages {
		err := stage.Execute(w.viewer, w.commands, w.resources)
		FlushCommands(w)
		if err != nil {
			return err
		}
	}
	return nil
}
