package plume

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/akmonengine/plume/actor"
)

// Pair is a pair of bodies flagged by the broad phase as possibly colliding
// during the step. Transient: produced and consumed within one step.
type Pair struct {
	BodyA *actor.Body
	BodyB *actor.Body
}

// indexPair keys a candidate pair by body indices, lower index first, so
// (A,B) and (B,A) collapse to one entry.
type indexPair struct {
	a, b int
}

func makeIndexPair(a, b int) indexPair {
	if b < a {
		a, b = b, a
	}
	return indexPair{a: a, b: b}
}

// endpoint is one end of a body's swept interval on a sweep axis.
type endpoint struct {
	body  int // index into the step's body slice
	value float64
	start bool
}

// SweepPrune is the sweep-and-prune broad phase: per-axis sorted endpoint
// lists over the bodies' swept AABBs. A pair is a candidate only when its
// intervals overlap on every axis, so the narrow phase sees O(n + k) pairs
// instead of O(n²).
//
// Endpoints are rebuilt and re-sorted from scratch every step; with small
// per-step motion the sort runs on nearly-ordered data. Incremental
// maintenance is a possible optimization, not part of the contract.
type SweepPrune struct {
	dim       int
	endpoints [][]endpoint // per-axis buffers, reused across steps
}

// NewSweepPrune creates a broad phase for the given world dimension.
func NewSweepPrune(dim int) *SweepPrune {
	return &SweepPrune{
		dim:       dim,
		endpoints: make([][]endpoint, dim),
	}
}

// FindPairs reports every pair of bodies whose swept AABBs overlap on all
// axes. The per-axis sweeps run concurrently; the cross-axis intersection
// waits on all of them.
//
// The result never misses a truly colliding pair: the swept AABB covers the
// full motion of the step, and boundary contacts count as overlapping.
func (sp *SweepPrune) FindPairs(bodies []*actor.Body) []Pair {
	if len(bodies) < 2 {
		return nil
	}

	axisSets := make([]map[indexPair]struct{}, sp.dim)

	var group errgroup.Group
	for axis := 0; axis < sp.dim; axis++ {
		axis := axis
		group.Go(func() error {
			axisSets[axis] = sp.sweepAxis(axis, bodies)
			return nil
		})
	}
	// intersection across axes needs every sweep finished
	_ = group.Wait()

	smallest := 0
	for axis := range axisSets {
		if len(axisSets[axis]) < len(axisSets[smallest]) {
			smallest = axis
		}
	}

	pairs := make([]Pair, 0, len(axisSets[smallest]))
	for key := range axisSets[smallest] {
		onEveryAxis := true
		for axis, set := range axisSets {
			if axis == smallest {
				continue
			}
			if _, ok := set[key]; !ok {
				onEveryAxis = false
				break
			}
		}
		if onEveryAxis {
			pairs = append(pairs, Pair{BodyA: bodies[key.a], BodyB: bodies[key.b]})
		}
	}

	return pairs
}

// sweepAxis sorts the axis' endpoints and sweeps them left to right with an
// active set: a starting interval pairs with everything currently active.
// The active set is owned by this sweep alone for the duration of the call.
func (sp *SweepPrune) sweepAxis(axis int, bodies []*actor.Body) map[indexPair]struct{} {
	endpoints := sp.endpoints[axis][:0]
	for i, body := range bodies {
		box := body.AABB()
		endpoints = append(endpoints,
			endpoint{body: i, value: box.Min.Get(axis), start: true},
			endpoint{body: i, value: box.Max.Get(axis), start: false},
		)
	}

	// Start endpoints sort before end endpoints on equal coordinates, so
	// touching intervals still register as overlapping.
	sort.Slice(endpoints, func(i, j int) bool {
		if endpoints[i].value != endpoints[j].value {
			return endpoints[i].value < endpoints[j].value
		}
		return endpoints[i].start && !endpoints[j].start
	})
	sp.endpoints[axis] = endpoints

	set := make(map[indexPair]struct{})
	active := make([]int, 0, 16)
	for _, ep := range endpoints {
		if ep.start {
			for _, other := range active {
				set[makeIndexPair(ep.body, other)] = struct{}{}
			}
			active = append(active, ep.body)
		} else {
			for i, idx := range active {
				if idx == ep.body {
					active[i] = active[len(active)-1]
					active = active[:len(active)-1]
					break
				}
			}
		}
	}

	return set
}

// BroadPhase runs sweep-and-prune over the bodies' swept bounds and streams
// the candidate pairs to the narrow phase.
func BroadPhase(sweepPrune *SweepPrune, bodies []*actor.Body, workersCount int) <-chan Pair {
	pairsChan := make(chan Pair, workersCount*2)

	go func() {
		defer close(pairsChan)
		for _, pair := range sweepPrune.FindPairs(bodies) {
			pairsChan <- pair
		}
	}()

	return pairsChan
}
