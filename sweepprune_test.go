package plume

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/gjk"
)

// Test helper functions, shared by the package's test files.

func vec(coords ...float64) *mgl64.VecN {
	return mgl64.NewVecNFromData(coords)
}

func square(t *testing.T, cx, cy, half float64) *actor.Convex {
	t.Helper()
	shape, err := actor.NewConvex(
		vec(cx-half, cy-half),
		vec(cx+half, cy-half),
		vec(cx+half, cy+half),
		vec(cx-half, cy+half),
	)
	require.NoError(t, err)
	return shape
}

func cube(t *testing.T, cx, cy, cz, half float64) *actor.Convex {
	t.Helper()
	vertices := make([]*mgl64.VecN, 0, 8)
	for _, dx := range []float64{-half, half} {
		for _, dy := range []float64{-half, half} {
			for _, dz := range []float64{-half, half} {
				vertices = append(vertices, vec(cx+dx, cy+dy, cz+dz))
			}
		}
	}
	shape, err := actor.NewConvex(vertices...)
	require.NoError(t, err)
	return shape
}

func squareBody(t *testing.T, id actor.ID, cx, cy, half float64, motion *mgl64.VecN, role actor.Role) *actor.Body {
	t.Helper()
	body, err := actor.NewBody(id, square(t, cx, cy, half), motion, role)
	require.NoError(t, err)
	return body
}

func pairKeys(pairs []Pair) map[pairKey]bool {
	keys := make(map[pairKey]bool, len(pairs))
	for _, pair := range pairs {
		keys[makePairKey(pair.BodyA.ID, pair.BodyB.ID)] = true
	}
	return keys
}

func TestFindPairs(t *testing.T) {
	sweepPrune := NewSweepPrune(2)

	t.Run("fewer than two bodies", func(t *testing.T) {
		require.Empty(t, sweepPrune.FindPairs(nil))
		require.Empty(t, sweepPrune.FindPairs([]*actor.Body{
			squareBody(t, 1, 0, 0, 0.5, nil, actor.RoleItem),
		}))
	})

	t.Run("overlap on one axis only is not a candidate", func(t *testing.T) {
		bodies := []*actor.Body{
			squareBody(t, 1, 0, 0, 0.5, nil, actor.RoleItem),
			squareBody(t, 2, 0, 5, 0.5, nil, actor.RoleItem),
		}
		require.Empty(t, sweepPrune.FindPairs(bodies))
	})

	t.Run("overlap on every axis is a candidate", func(t *testing.T) {
		bodies := []*actor.Body{
			squareBody(t, 1, 0, 0, 0.5, nil, actor.RoleItem),
			squareBody(t, 2, 0.6, 0.6, 0.5, nil, actor.RoleItem),
		}
		pairs := sweepPrune.FindPairs(bodies)
		require.Len(t, pairs, 1)
	})

	t.Run("touching extents still pair", func(t *testing.T) {
		bodies := []*actor.Body{
			squareBody(t, 1, 0, 0, 0.5, nil, actor.RoleItem),
			squareBody(t, 2, 1, 0, 0.5, nil, actor.RoleItem),
		}
		require.Len(t, sweepPrune.FindPairs(bodies), 1)
	})

	t.Run("fast mover cannot escape its own sweep", func(t *testing.T) {
		bodies := []*actor.Body{
			squareBody(t, 1, 0, 0, 0.5, nil, actor.RoleObstacle),
			squareBody(t, 2, -10, 0, 0.05, vec(20, 0), actor.RoleItem),
		}
		pairs := sweepPrune.FindPairs(bodies)
		require.Len(t, pairs, 1, "motion-extended bounds must reach the obstacle")
	})

	t.Run("no duplicate pairs in a dense cluster", func(t *testing.T) {
		bodies := make([]*actor.Body, 0, 5)
		for i := 0; i < 5; i++ {
			bodies = append(bodies, squareBody(t, actor.ID(i+1), float64(i)*0.2, 0, 0.5, nil, actor.RoleItem))
		}

		pairs := sweepPrune.FindPairs(bodies)
		keys := pairKeys(pairs)
		require.Len(t, keys, len(pairs), "every reported pair must be unique")
	})
}

// Soundness: the broad phase may report false positives but must never prune
// a pair the exact narrow-phase test would flag.
func TestFindPairsSoundness(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sweepPrune := NewSweepPrune(2)

	bodies := make([]*actor.Body, 0, 30)
	for i := 0; i < 30; i++ {
		cx := rng.Float64()*10 - 5
		cy := rng.Float64()*10 - 5
		half := 0.1 + rng.Float64()*0.5
		motion := vec(rng.Float64()*4-2, rng.Float64()*4-2)
		bodies = append(bodies, squareBody(t, actor.ID(i+1), cx, cy, half, motion, actor.RoleItem))
	}

	candidates := pairKeys(sweepPrune.FindPairs(bodies))

	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			sweptA := bodies[i].Swept()
			sweptB := bodies[j].Swept()
			if gjk.Intersects(sweptA, sweptB) {
				key := makePairKey(bodies[i].ID, bodies[j].ID)
				require.True(t, candidates[key],
					"colliding pair (%d,%d) was pruned by the broad phase", bodies[i].ID, bodies[j].ID)
			}
		}
	}
}

func TestBroadPhaseStreamsAllPairs(t *testing.T) {
	sweepPrune := NewSweepPrune(2)
	bodies := []*actor.Body{
		squareBody(t, 1, 0, 0, 0.5, nil, actor.RoleItem),
		squareBody(t, 2, 0.3, 0.3, 0.5, nil, actor.RoleItem),
		squareBody(t, 3, 0.6, 0, 0.5, nil, actor.RoleItem),
	}

	count := 0
	for range BroadPhase(sweepPrune, bodies, 2) {
		count++
	}
	require.Equal(t, 3, count)
}
