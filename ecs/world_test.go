package ecs_test

import (
	"context"
	"testing"

	"github.com/plus3/ecsrt/ecs"
	"github.com/stretchr/testify/assert"
)

func TestWorldDefaultStageSystemConvenienceMethods(t *testing.T) {
	world := ecs.NewWorld()
	var order []string

	startupID := world.AddStartupSystem(func(vw *ecs.Viewer, cmd *ecs.Commands, res *ecs.Resources) error {
		order = append(order, "startup")
		return nil
	})
	updateID := world.AddUpdateSystem(func(vw *ecs.Viewer, cmd *ecs.Commands, res *ecs.Resources) error {
		order = append(order, "update")
		return nil
	})
	shutdownID := world.AddShutdownSystem(func(vw *ecs.Viewer, cmd *ecs.Commands, res *ecs.Resources) error {
		order = append(order, "shutdown")
		return nil
	})

	assert.True(t, world.ContainsStartupSystem(startupID))
	assert.True(t, world.ContainsUpdateSystem(updateID))
	assert.True(t, world.ContainsShutdownSystem(shutdownID))

	ticks := 0
	err := world.Run(context.Background(), func() bool {
		ticks++
		return ticks >= 1
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"startup", "update", "shutdown"}, order)

	assert.NoError(t, world.RemoveStartupSystem(startupID))
	assert.False(t, world.ContainsStartupSystem(startupID))
}

func TestWorldDefaultStageConstraintConvenienceMethods(t *testing.T) {
	world := ecs.NewWorld()
	var order []int

	record := func(n int) ecs.System {
		return func(vw *ecs.Viewer, cmd *ecs.Commands, res *ecs.Resources) error {
			order = append(order, n)
			return nil
		}
	}

	first := world.AddUpdateSystem(record(1))
	second := world.AddUpdateSystem(record(2))

	assert.False(t, world.ContainsUpdateConstraint(first, second))
	assert.NoError(t, world.AddUpdateConstraint(first, second))
	assert.True(t, world.ContainsUpdateConstraint(first, second))

	ticks := 0
	err := world.Run(context.Background(), func() bool {
		ticks++
		return ticks >= 1
	})
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2}, order)

	world.RemoveUpdateConstraint(first, second)
	assert.False(t, world.ContainsUpdateConstraint(first, second))
}
