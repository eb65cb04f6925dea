package plume

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akmonengine/plume/actor"
)

func newTestWorld(t *testing.T, dim int) *World {
	t.Helper()
	world, err := NewWorld(dim, nil)
	require.NoError(t, err)
	return world
}

func TestNewWorld(t *testing.T) {
	t.Run("2D and 3D are valid", func(t *testing.T) {
		for _, dim := range []int{2, 3} {
			world, err := NewWorld(dim, nil)
			require.NoError(t, err)
			require.Equal(t, dim, world.Dim())
		}
	})

	t.Run("other dimensions fail fast", func(t *testing.T) {
		for _, dim := range []int{0, 1, 4} {
			_, err := NewWorld(dim, nil)
			require.ErrorIs(t, err, actor.ErrDimensionMismatch)
		}
	})
}

func TestAddRemoveBody(t *testing.T) {
	world := newTestWorld(t, 2)

	t.Run("dimension mismatch fails fast", func(t *testing.T) {
		shape := cube(t, 0, 0, 0, 0.5)
		body, err := actor.NewBody(1, shape, nil, actor.RoleItem)
		require.NoError(t, err)

		require.ErrorIs(t, world.AddBody(body), actor.ErrDimensionMismatch)
	})

	t.Run("duplicate id fails fast", func(t *testing.T) {
		require.NoError(t, world.AddBody(squareBody(t, 7, 0, 0, 0.5, nil, actor.RoleItem)))
		require.Error(t, world.AddBody(squareBody(t, 7, 2, 2, 0.5, nil, actor.RoleItem)))
	})

	t.Run("remove", func(t *testing.T) {
		world.RemoveBody(7)
		require.Empty(t, world.Bodies)
	})
}

func TestStep_ObstaclePolicy(t *testing.T) {
	world := newTestWorld(t, 2)

	wall := squareBody(t, 1, 0, 0, 0.5, nil, actor.RoleObstacle)
	bullet := squareBody(t, 2, -10, 0, 0.05, vec(20, 0), actor.RoleItem)
	require.NoError(t, world.AddBody(wall))
	require.NoError(t, world.AddBody(bullet))

	blocked := 0
	world.Events.Subscribe(BLOCKED, func(event Event) {
		e := event.(BlockedEvent)
		require.Equal(t, bullet.ID, e.Body.ID)
		require.Equal(t, wall.ID, e.Obstacle.ID)
		blocked++
	})

	result := world.Step()

	require.Len(t, result.Verdicts, 1)
	require.True(t, result.Verdicts[0].Intersects)

	// the item's motion is rejected for this step
	require.Equal(t, []float64{0, 0}, result.Motions[bullet.ID].Raw())
	// the obstacle's own motion is untouched
	require.Same(t, wall.Motion, result.Motions[wall.ID])
	// the body itself is never mutated; only the recommendation changes
	require.Equal(t, []float64{20, 0}, bullet.Motion.Raw())

	require.Equal(t, 1, blocked)
}

func TestStep_ItemItemPolicy(t *testing.T) {
	world := newTestWorld(t, 2)

	left := squareBody(t, 1, -1, 0, 0.25, vec(2, 0), actor.RoleItem)
	right := squareBody(t, 2, 1, 0, 0.25, vec(-2, 0), actor.RoleItem)
	require.NoError(t, world.AddBody(left))
	require.NoError(t, world.AddBody(right))

	interactions := 0
	world.Events.Subscribe(INTERACTION, func(event Event) {
		interactions++
	})

	result := world.Step()

	require.Len(t, result.Verdicts, 1)
	// motion proceeds for both items
	require.Same(t, left.Motion, result.Motions[left.ID])
	require.Same(t, right.Motion, result.Motions[right.ID])
	// exactly one event for the pair, not one per orientation
	require.Equal(t, 1, interactions)
}

func TestStep_NoCollision(t *testing.T) {
	world := newTestWorld(t, 2)

	a := squareBody(t, 1, 0, 0, 0.5, vec(0.1, 0), actor.RoleItem)
	b := squareBody(t, 2, 5, 5, 0.5, nil, actor.RoleObstacle)
	require.NoError(t, world.AddBody(a))
	require.NoError(t, world.AddBody(b))

	result := world.Step()

	require.Empty(t, result.Verdicts)
	require.Same(t, a.Motion, result.Motions[a.ID])
	require.Same(t, b.Motion, result.Motions[b.ID])
}

func TestStep_StatelessAcrossSteps(t *testing.T) {
	world := newTestWorld(t, 2)

	require.NoError(t, world.AddBody(squareBody(t, 1, 0, 0, 0.5, nil, actor.RoleObstacle)))
	require.NoError(t, world.AddBody(squareBody(t, 2, -2, 0, 0.25, vec(4, 0), actor.RoleItem)))

	first := world.Step()
	second := world.Step()

	// no verdict caching: the same snapshot yields the same verdicts
	require.Equal(t, len(first.Verdicts), len(second.Verdicts))
	require.Equal(t, first.Motions[2].Raw(), second.Motions[2].Raw())
}

func TestStep_WorkerCountConsistency(t *testing.T) {
	build := func(t *testing.T) *World {
		world := newTestWorld(t, 2)
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 20; i++ {
			cx := rng.Float64()*8 - 4
			cy := rng.Float64()*8 - 4
			motion := vec(rng.Float64()*2-1, rng.Float64()*2-1)
			role := actor.RoleItem
			if i%4 == 0 {
				role = actor.RoleObstacle
				motion = nil
			}
			require.NoError(t, world.AddBody(squareBody(t, actor.ID(i+1), cx, cy, 0.3, motion, role)))
		}
		return world
	}

	verdictKeys := func(result Result) map[pairKey]bool {
		keys := make(map[pairKey]bool)
		for _, v := range result.Verdicts {
			keys[makePairKey(v.BodyA.ID, v.BodyB.ID)] = true
		}
		return keys
	}

	serialWorld := build(t)
	serialWorld.Workers = 1
	serial := serialWorld.Step()

	parallelWorld := build(t)
	parallelWorld.Workers = 8
	parallel := parallelWorld.Step()

	require.Equal(t, verdictKeys(serial), verdictKeys(parallel))
	for id, motion := range serial.Motions {
		require.Equal(t, motion.Raw(), parallel.Motions[id].Raw())
	}
}

func TestStep_3DWorld(t *testing.T) {
	world := newTestWorld(t, 3)

	wall, err := actor.NewBody(1, cube(t, 0, 0, 0, 0.5), nil, actor.RoleObstacle)
	require.NoError(t, err)
	bullet, err := actor.NewBody(2, cube(t, -10, 0, 0, 0.05), vec(20, 0, 0), actor.RoleItem)
	require.NoError(t, err)

	require.NoError(t, world.AddBody(wall))
	require.NoError(t, world.AddBody(bullet))

	result := world.Step()

	require.Len(t, result.Verdicts, 1)
	require.Equal(t, []float64{0, 0, 0}, result.Motions[bullet.ID].Raw())
}
