package plume

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/gjk"
)

const DEFAULT_WORKERS = 1

// World owns the per-step detection pipeline for a fixed dimension.
// It holds no positional state of its own: bodies carry their world-space
// vertices and requested motion, the world only inspects them and reports.
// A step is a pure function of the current snapshot; no verdict survives to
// the next step.
type World struct {
	// Bodies registered for detection; shape data is borrowed read-only
	Bodies  []*actor.Body
	Workers int
	// GJK is the numerical policy applied to every narrow-phase query
	GJK gjk.Config

	SweepPrune *SweepPrune
	Events     Events

	dim int
	log *zap.Logger
}

// Result is the output of one detection step, consumed read-only by the
// external resolution collaborator.
type Result struct {
	// Verdicts holds one entry per colliding pair.
	Verdicts []Verdict
	// Motions maps every body to the displacement the caller should apply
	// for this step: the requested motion, or zero where an obstacle
	// blocked it. The world never moves a body itself.
	Motions map[actor.ID]*mgl64.VecN
}

// NewWorld creates a detection world for 2D or 3D shapes. A nil logger
// keeps the library silent.
func NewWorld(dim int, logger *zap.Logger) (*World, error) {
	if dim != 2 && dim != 3 {
		return nil, fmt.Errorf("world dimension must be 2 or 3, got %d: %w", dim, actor.ErrDimensionMismatch)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	gjkConfig := gjk.DefaultConfig()
	gjkConfig.Logger = logger

	return &World{
		Workers:    DEFAULT_WORKERS,
		GJK:        gjkConfig,
		SweepPrune: NewSweepPrune(dim),
		Events:     NewEvents(),
		dim:        dim,
		log:        logger,
	}, nil
}

// Dim returns the world's fixed dimension.
func (w *World) Dim() int {
	return w.dim
}

// AddBody registers a body for detection. Fails fast when the body's
// dimension differs from the world's, or its id is already taken.
func (w *World) AddBody(body *actor.Body) error {
	if body.Dim() != w.dim {
		return fmt.Errorf("body %d is %dD in a %dD world: %w", body.ID, body.Dim(), w.dim, actor.ErrDimensionMismatch)
	}
	for _, b := range w.Bodies {
		if b.ID == body.ID {
			return fmt.Errorf("body id %d already registered", body.ID)
		}
	}

	w.Bodies = append(w.Bodies, body)
	return nil
}

// RemoveBody removes a body from the world
func (w *World) RemoveBody(id actor.ID) {
	k := -1
	for i, b := range w.Bodies {
		if b.ID == id {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}
}

// Step runs one detection pass over the current snapshot of bodies and
// motions:
//
//	Phase 1: refresh motion-extended (swept) bounds
//	Phase 2: broad phase (sweep-and-prune) -> candidate pairs
//	Phase 3: narrow phase (boolean GJK on swept hulls) -> verdicts
//	Phase 4: movement policy per role, events flushed to subscribers
//
// The returned Result carries the verdicts and the adjusted motion for every
// body; applying the motions is the caller's responsibility.
func (w *World) Step() Result {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)

	task(w.Workers, w.Bodies, func(body *actor.Body) {
		body.ComputeAABB()
	})

	verdicts := NarrowPhase(BroadPhase(w.SweepPrune, w.Bodies, w.Workers), w.Workers, w.GJK)

	motions := make(map[actor.ID]*mgl64.VecN, len(w.Bodies))
	for _, body := range w.Bodies {
		motions[body.ID] = body.Motion
	}

	for _, verdict := range verdicts {
		if !verdict.Intersects {
			continue
		}
		a, b := verdict.BodyA, verdict.BodyB

		switch {
		case a.Role == actor.RoleObstacle && b.Role == actor.RoleObstacle:
			// overlapping static geometry, nothing to move

		case a.Role == actor.RoleObstacle:
			motions[b.ID] = mgl64.NewVecN(w.dim)
			w.Events.emitBlocked(b, a)

		case b.Role == actor.RoleObstacle:
			motions[a.ID] = mgl64.NewVecN(w.dim)
			w.Events.emitBlocked(a, b)

		default:
			w.Events.emitInteraction(a, b)
		}
	}

	w.Events.flush()

	w.log.Debug("detection step",
		zap.Int("bodies", len(w.Bodies)),
		zap.Int("collisions", len(verdicts)),
	)

	return Result{Verdicts: verdicts, Motions: motions}
}
