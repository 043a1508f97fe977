package ecs_test

import (
	"testing"

	"github.com/plus3/ecsrt/ecs"
	"github.com/stretchr/testify/assert"
)

type Moving struct {
	Position *Position
	Velocity *Velocity
}

type MovingWithHealth struct {
	Position *Position
	Velocity *Velocity
	Health   *Health `ecs:"optional"`
}

type AliveOnly struct {
	Position *Position
	Dead     *struct{} `ecs:"exclude"`
}

func TestViewRequiredOnly(t *testing.T) {
	r := ecs.NewRegistry()

	moving := r.CreateEntity()
	ecs.Attach(r, moving, Position{X: 1})
	ecs.Attach(r, moving, Velocity{DX: 1})

	stationary := r.CreateEntity()
	ecs.Attach(r, stationary, Position{X: 2})

	view := ecs.NewView[Moving](r)

	got := view.Get(moving)
	if assert.NotNil(t, got) {
		assert.Equal(t, 1.0, got.Position.X)
		assert.Equal(t, 1.0, got.Velocity.DX)
	}

	assert.Nil(t, view.Get(stationary))

	count := 0
	for e := range view.Iter() {
		assert.Equal(t, moving, e)
		count++
	}
	assert.Equal(t, 1, count)
}

func TestViewOptionalComponent(t *testing.T) {
	r := ecs.NewRegistry()

	withHealth := r.CreateEntity()
	ecs.Attach(r, withHealth, Position{})
	ecs.Attach(r, withHealth, Velocity{})
	ecs.Attach(r, withHealth, Health{Current: 5})

	withoutHealth := r.CreateEntity()
	ecs.Attach(r, withoutHealth, Position{})
	ecs.Attach(r, withoutHealth, Velocity{})

	view := ecs.NewView[MovingWithHealth](r)

	got := view.Get(withHealth)
	if assert.NotNil(t, got) {
		assert.NotNil(t, got.Health)
		assert.Equal(t, 5, got.Health.Current)
	}

	got2 := view.Get(withoutHealth)
	if assert.NotNil(t, got2) {
		assert.Nil(t, got2.Health)
	}
}

func TestViewExcludeComponent(t *testing.T) {
	r := ecs.NewRegistry()

	alive := r.CreateEntity()
	ecs.Attach(r, alive, Position{X: 1})

	dead := r.CreateEntity()
	ecs.Attach(r, dead, Position{X: 2})
	ecs.Attach(r, dead, struct{}{})

	view := ecs.NewView[AliveOnly](r)

	assert.NotNil(t, view.Get(alive))
	assert.Nil(t, view.Get(dead))
}

func TestViewerFactory(t *testing.T) {
	world := ecs.NewWorld()
	e := world.Registry().CreateEntity()
	ecs.Attach(world.Registry(), e, Position{X: 3})
	ecs.Attach(world.Registry(), e, Velocity{DX: 4})

	view := ecs.NewViewOf[Moving](world.Viewer())
	got := view.Get(e)
	if assert.NotNil(t, got) {
		assert.Equal(t, 3.0, got.Position.X)
	}
}
