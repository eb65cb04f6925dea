package gjk

import (
	"math"
	"math/bits"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// epsPivot rejects near-singular subsystems during the Gram solve.
	epsPivot = 1e-12
	// epsBary tolerates barycentric coordinates slightly below zero.
	epsBary = 1e-12
	// epsFeature is the margin a larger feature must win by to replace a
	// smaller one, so ties reduce to the minimal feature.
	epsFeature = 1e-12
)

// Simplex holds the working set of points in the Minkowski difference space.
// The dimension is arbitrary; a simplex in dim dimensions carries at most
// dim+1 points after reduction, plus the one just added.
type Simplex struct {
	points []*mgl64.VecN
}

func (s *Simplex) Reset() {
	s.points = s.points[:0]
}

var simplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{points: make([]*mgl64.VecN, 0, 6)}
	},
}

// closestToOrigin returns the point of the simplex's convex hull closest to
// the origin, and reduces the simplex to the minimal feature (vertex, edge,
// face, ...) containing that point, discarding the other points.
//
// The search enumerates the sub-simplices by increasing size and keeps the
// best valid projection: a subset is valid when the origin's projection onto
// its affine hull has non-negative barycentric coordinates. Smaller features
// are visited first, so on ties the minimal one wins. This formulation has
// no cross products, which is what lets a single routine serve 2D, 3D and
// the lifted 4D case alike.
func (s *Simplex) closestToOrigin() *mgl64.VecN {
	n := len(s.points)

	var best *mgl64.VecN
	bestDist := math.Inf(1)
	bestMask := 0

	for size := 1; size <= n; size++ {
		for mask := 1; mask < 1<<n; mask++ {
			if bits.OnesCount(uint(mask)) != size {
				continue
			}
			v, ok := projectOrigin(s.points, mask)
			if !ok {
				continue
			}
			if dist := v.Dot(v); dist+epsFeature < bestDist {
				best = v
				bestDist = dist
				bestMask = mask
			}
		}
	}

	// keep only the winning feature's points
	kept := s.points[:0]
	for i := 0; i < n; i++ {
		if bestMask&(1<<i) != 0 {
			kept = append(kept, s.points[i])
		}
	}
	s.points = kept

	return best
}

// projectOrigin projects the origin onto the affine hull of the masked
// points, returning the projection when its barycentric coordinates are all
// non-negative. Degenerate subsets (affinely dependent points) report !ok; a
// lower-dimensional subset covers the same feature.
func projectOrigin(points []*mgl64.VecN, mask int) (*mgl64.VecN, bool) {
	sub := make([]*mgl64.VecN, 0, len(points))
	for i, p := range points {
		if mask&(1<<i) != 0 {
			sub = append(sub, p)
		}
	}

	m := len(sub)
	if m == 1 {
		return sub[0], true
	}

	// Barycentric coordinates of the projection: minimize |sum lambda_i p_i|^2
	// subject to sum lambda_i = 1. Substituting lambda_0 = 1 - sum mu yields
	// the Gram system G*mu = -(d_i . p_0) over the edge vectors d_i = p_i - p_0.
	base := sub[0]
	edges := make([]*mgl64.VecN, m-1)
	for i := 1; i < m; i++ {
		edges[i-1] = sub[i].Sub(nil, base)
	}

	aug := make([][]float64, m-1)
	for i := range aug {
		aug[i] = make([]float64, m)
		for j := 0; j < m-1; j++ {
			aug[i][j] = edges[i].Dot(edges[j])
		}
		aug[i][m-1] = -edges[i].Dot(base)
	}

	mu, ok := solve(aug)
	if !ok {
		return nil, false
	}

	lambda := make([]float64, m)
	lambda[0] = 1
	for i, u := range mu {
		lambda[i+1] = u
		lambda[0] -= u
	}
	for _, l := range lambda {
		if l < -epsBary {
			return nil, false
		}
	}

	v := mgl64.NewVecN(base.Size())
	for i, p := range sub {
		v = v.Add(v, p.Mul(nil, lambda[i]))
	}

	return v, true
}

// solve runs Gaussian elimination with partial pivoting on an augmented
// k x (k+1) system. The systems here are at most 4x4 (one below the highest
// lifted dimension), so a direct in-place solve is all that is needed.
func solve(aug [][]float64) ([]float64, bool) {
	k := len(aug)

	for col := 0; col < k; col++ {
		piv := col
		for r := col + 1; r < k; r++ {
			if math.Abs(aug[r][col]) > math.Abs(aug[piv][col]) {
				piv = r
			}
		}
		if math.Abs(aug[piv][col]) < epsPivot {
			return nil, false
		}
		aug[col], aug[piv] = aug[piv], aug[col]

		for r := col + 1; r < k; r++ {
			f := aug[r][col] / aug[col][col]
			for c := col; c <= k; c++ {
				aug[r][c] -= f * aug[col][c]
			}
		}
	}

	x := make([]float64, k)
	for r := k - 1; r >= 0; r-- {
		sum := aug[r][k]
		for c := r + 1; c < k; c++ {
			sum -= aug[r][c] * x[c]
		}
		x[r] = sum / aug[r][r]
	}

	return x, true
}
