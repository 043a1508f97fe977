package ecs_test

import (
	"testing"

	"github.com/plus3/ecsrt/ecs"
	"github.com/stretchr/testify/assert"
)

func TestCommandsSpawnDeferredUntilFlush(t *testing.T) {
	world := ecs.NewWorld()
	cmd := world.Commands()

	assert.NoError(t, cmd.Spawn(ecs.With(Position{X: 1}), ecs.With(Velocity{DX: 2})))
	assert.Equal(t, 0, world.Registry().EntityCount())

	assert.NoError(t, world.Commands().Defer(func(w *ecs.World) {})) // exercise the escape hatch alongside Spawn
	applyAllCommands(t, world)

	assert.Equal(t, 1, world.Registry().EntityCount())
}

func TestCommandsAttachDetachResource(t *testing.T) {
	world := ecs.NewWorld()
	e := world.Registry().CreateEntity()

	assert.NoError(t, ecs.AttachCommand(world.Commands(), e, Position{X: 5}))
	applyAllCommands(t, world)
	assert.True(t, ecs.HasComponent[Position](world.Registry(), e))

	assert.NoError(t, ecs.DetachCommand[Position](world.Commands(), e))
	applyAllCommands(t, world)
	assert.False(t, ecs.HasComponent[Position](world.Registry(), e))

	assert.NoError(t, ecs.AddResourceCommand(world.Commands(), GameConfig{TickRate: 30}))
	applyAllCommands(t, world)
	assert.True(t, ecs.HasResource[GameConfig](world.Resources()))

	assert.NoError(t, ecs.RemoveResourceCommand[GameConfig](world.Commands()))
	applyAllCommands(t, world)
	assert.False(t, ecs.HasResource[GameConfig](world.Resources()))
}

func TestCommandsDestroy(t *testing.T) {
	world := ecs.NewWorld()
	e := world.Registry().CreateEntity()

	assert.NoError(t, world.Commands().Destroy(e))
	applyAllCommands(t, world)

	assert.False(t, world.Registry().ContainsEntity(e))
}

func TestCommandsSpawnRejectsDuplicateComponents(t *testing.T) {
	world := ecs.NewWorld()
	err := world.Commands().Spawn(ecs.With(Position{X: 1}), ecs.With(Position{X: 2}))
	assert.ErrorIs(t, err, ecs.ErrDuplicateComponents)
}

func TestCommandsRejectedAfterClose(t *testing.T) {
	world := ecs.NewWorld()
	world.Close()

	err := world.Commands().Spawn(ecs.With(Position{X: 1}))
	assert.ErrorIs(t, err, ecs.ErrEnqueueAfterShutdown)
}

// applyAllCommands flushes World's command queue the way World.Run does
// between stages, without needing a running scheduler.
func applyAllCommands(t *testing.T, world *ecs.World) {
	t.Helper()
	ecs.FlushCommands(world)
}
