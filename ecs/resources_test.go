package ecs_test

import (
	"testing"

	"github.com/plus3/ecsrt/ecs"
	"github.com/stretchr/testify/assert"
)

type GameConfig struct {
	TickRate int
}

func TestResourcesAddGetRemove(t *testing.T) {
	world := ecs.NewWorld()
	res := world.Resources()

	assert.False(t, ecs.HasResource[GameConfig](res))
	assert.Nil(t, ecs.GetResource[GameConfig](res))

	ecs.AddResource(res, GameConfig{TickRate: 60})
	assert.True(t, ecs.HasResource[GameConfig](res))

	cfg := ecs.GetResource[GameConfig](res)
	if assert.NotNil(t, cfg) {
		assert.Equal(t, 60, cfg.TickRate)
	}

	cfg.TickRate = 30
	assert.Equal(t, 30, ecs.GetResource[GameConfig](res).TickRate)

	ecs.RemoveResource[GameConfig](res)
	assert.False(t, ecs.HasResource[GameConfig](res))
}
