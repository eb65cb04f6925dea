// Package plume is a continuous collision detection engine for convex shapes
// under linear motion. Per step, a sweep-and-prune broad phase prunes the
// pair set, then boolean GJK on time-augmented (swept) hulls decides exactly
// whether each surviving pair meets at any instant of the step.
package plume

import (
	"sync"

	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/gjk"
)

// Verdict is the narrow-phase answer for one candidate pair: whether the two
// swept volumes intersect at some instant in [0,1] of the step.
type Verdict struct {
	BodyA      *actor.Body
	BodyB      *actor.Body
	Intersects bool
}

// Overlaps reports whether two convex shapes intersect at a fixed instant.
// This is the same GJK routine the continuous test runs, invoked at D
// instead of D+1.
func Overlaps(a, b *actor.Convex) bool {
	return gjk.Intersects(a, b)
}

// NarrowPhase turns candidate pairs into verdicts: each worker lifts both
// bodies of a pair into the time-augmented dimension and runs boolean GJK on
// the swept hulls. Only positive verdicts are collected; candidates the exact
// test rejects were broad-phase false positives.
//
// Shape data is read-only for the whole step, so the pairs are evaluated
// concurrently with no shared mutable state.
func NarrowPhase(pairs <-chan Pair, workersCount int, cfg gjk.Config) []Verdict {
	verdictChan := make(chan Verdict, workersCount*2)

	go func() {
		var wg sync.WaitGroup
		defer close(verdictChan)

		for i := 0; i < workersCount; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				for pair := range pairs {
					sweptA := pair.BodyA.Swept()
					sweptB := pair.BodyB.Swept()

					if gjk.IntersectsConfig(sweptA, sweptB, cfg) {
						verdictChan <- Verdict{
							BodyA:      pair.BodyA,
							BodyB:      pair.BodyB,
							Intersects: true,
						}
					}
				}
			}()
		}

		wg.Wait()
	}()

	verdicts := make([]Verdict, 0)
	for verdict := range verdictChan {
		verdicts = append(verdicts, verdict)
	}

	return verdicts
}
