// Package gjk implements a boolean, dimension-generic Gilbert-Johnson-Keerthi
// (GJK) test: whether the Minkowski difference of two convex shapes contains
// the origin, i.e. whether the shapes overlap.
//
// The routine is parameterized over the shapes' dimension, so the same code
// answers the static overlap question in 2D/3D and the continuous (swept,
// time-augmented) question in 3D/4D. Instead of the usual per-dimension
// Voronoi case analysis, the simplex is reduced through a closest-point
// subalgorithm that works at any dimension.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance
//     Between Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

const (
	// Epsilon is the squared-distance tolerance used both for origin
	// containment and for the no-progress exit. It absorbs floating-point
	// noise so that boundary contacts (hulls sharing a single point) still
	// report an intersection.
	Epsilon = 1e-9

	// MaxIterations caps the refinement loop. Exceeding it is a numerical
	// degeneracy, reported as "no intersection" and counted, never an error.
	// Twice the usual 3D budget, to leave headroom for 4D swept hulls.
	MaxIterations = 64
)

// Support is the query every shape must answer: its furthest point along a
// direction. The vertex-cloud shapes in the actor package implement it.
type Support interface {
	Dim() int
	Support(direction *mgl64.VecN) *mgl64.VecN
}

// Config carries the numerical policy for one detection run.
// The zero value is usable: zero fields fall back to the package defaults.
type Config struct {
	Epsilon       float64
	MaxIterations int
	Logger        *zap.Logger
}

func DefaultConfig() Config {
	return Config{
		Epsilon:       Epsilon,
		MaxIterations: MaxIterations,
		Logger:        zap.NewNop(),
	}
}

var degeneracies atomic.Uint64

// Degeneracies reports how many GJK runs exhausted their iteration cap since
// process start. A nonzero, slowly growing value is expected under heavy
// floating-point stress; a fast-growing one usually means broken input hulls.
func Degeneracies() uint64 {
	return degeneracies.Load()
}

// MinkowskiSupport computes a support point of the Minkowski difference A - B:
// support(A, direction) - support(B, -direction). This is the only geometry
// query GJK needs, which is what keeps it generic over convex shapes.
func MinkowskiSupport(a, b Support, direction *mgl64.VecN) *mgl64.VecN {
	supportA := a.Support(direction)
	supportB := b.Support(direction.Mul(nil, -1))
	return supportA.Sub(nil, supportB)
}

// Intersects reports whether two convex shapes of equal dimension overlap,
// using the default numerical policy.
func Intersects(a, b Support) bool {
	return IntersectsConfig(a, b, DefaultConfig())
}

// IntersectsConfig runs the boolean GJK loop:
//
//  1. reduce the simplex to the feature closest to the origin,
//  2. origin reached (within epsilon) -> intersection,
//  3. search towards the origin for a new support point,
//  4. no progress past the current closest point -> no intersection,
//  5. otherwise grow the simplex and repeat.
//
// Both shapes must share a dimension; the caller validates that at its API
// boundary. The verdict is a pure function of the inputs: repeated calls on
// the same shapes return the same answer.
func IntersectsConfig(a, b Support, cfg Config) bool {
	if cfg.Epsilon == 0 {
		cfg.Epsilon = Epsilon
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = MaxIterations
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	dim := a.Dim()
	direction := mgl64.NewVecN(dim)
	direction.Set(0, 1)

	simplex := simplexPool.Get().(*Simplex)
	defer simplexPool.Put(simplex)
	simplex.Reset()
	simplex.points = append(simplex.points, MinkowskiSupport(a, b, direction))

	for i := 0; i < cfg.MaxIterations; i++ {
		v := simplex.closestToOrigin()
		if v.Dot(v) <= cfg.Epsilon {
			return true // origin is inside the simplex, shapes overlap
		}

		direction = v.Mul(nil, -1)
		w := MinkowskiSupport(a, b, direction)

		// If the new support point does not advance past the current closest
		// point along the search direction, the origin is unreachable.
		if v.Dot(v)-v.Dot(w) <= cfg.Epsilon {
			return false
		}

		simplex.points = append(simplex.points, w)
	}

	// Failed to converge: a numerical degeneracy, not a failure.
	degeneracies.Add(1)
	cfg.Logger.Warn("gjk iteration cap exhausted, reporting no intersection",
		zap.Int("max_iterations", cfg.MaxIterations),
		zap.Int("dim", dim),
	)

	return false
}
