package ecs_test

import (
	"context"
	"sync"
	"testing"

	"github.com/plus3/ecsrt/ecs"
	"github.com/stretchr/testify/assert"
)

func TestSchedulerRunsStagesInOrder(t *testing.T) {
	sched := ecs.NewScheduler(nil)
	var mu sync.Mutex
	var order []string

	physics := sched.AddStage("physics")
	physics.AddSystem(func(*ecs.Viewer, *ecs.Commands, *ecs.Resources) error {
		mu.Lock()
		order = append(order, "physics")
		mu.Unlock()
		return nil
	})

	render := sched.AddStage("render")
	render.AddSystem(func(*ecs.Viewer, *ecs.Commands, *ecs.Resources) error {
		mu.Lock()
		order = append(order, "render")
		mu.Unlock()
		return nil
	})

	world := ecs.NewWorld()
	assert.NoError(t, sched.Execute(world))
	assert.Equal(t, []string{"physics", "render"}, order)
	assert.Len(t, sched.Stages(), 2)
}

func TestSchedulerFlushesCommandsBetweenStages(t *testing.T) {
	sched := ecs.NewScheduler(nil)
	var seenInStageTwo bool

	stageOne := sched.AddStage("spawn")
	stageOne.AddSystem(func(vw *ecs.Viewer, cmd *ecs.Commands, res *ecs.Resources) error {
		return cmd.Spawn(ecs.With(Position{X: 1}))
	})

	stageTwo := sched.AddStage("observe")
	stageTwo.AddSystem(func(vw *ecs.Viewer, cmd *ecs.Commands, res *ecs.Resources) error {
		for range ecs.NewViewOf[struct {
			Position *Position
		}](vw).Iter() {
			seenInStageTwo = true
		}
		return nil
	})

	world := ecs.NewWorld()
	assert.NoError(t, sched.Execute(world))
	assert.True(t, seenInStageTwo, "a command enqueued in stage one must be visible to stage two")
}

func TestWorldRunExecutesPhasesAndFlushesCommands(t *testing.T) {
	world := ecs.NewWorld()

	startupStage := world.Startup().AddStage("init")
	startupStage.AddSystem(func(vw *ecs.Viewer, cmd *ecs.Commands, res *ecs.Resources) error {
		return cmd.Spawn(ecs.With(Position{X: 1}))
	})

	ticks := 0
	updateStage := world.Update().AddStage("tick")
	updateStage.AddSystem(func(vw *ecs.Viewer, cmd *ecs.Commands, res *ecs.Resources) error {
		ticks++
		return nil
	})

	shutdownRan := false
	shutdownStage := world.Shutdown().AddStage("final")
	shutdownStage.AddSystem(func(vw *ecs.Viewer, cmd *ecs.Commands, res *ecs.Resources) error {
		shutdownRan = true
		return nil
	})

	err := world.Run(context.Background(), func() bool { return ticks >= 3 })
	assert.NoError(t, err)
	assert.Equal(t, 3, ticks)
	assert.True(t, shutdownRan)
	assert.Equal(t, 1, world.Registry().EntityCount())
}
