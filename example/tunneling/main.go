// Demonstrates why detection has to be continuous: a fast bullet crosses a
// wall within a single step, so testing only the step's endpoints sees
// nothing, while the swept (time-augmented) test catches the crossing and
// blocks the motion.
package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/akmonengine/plume"
	"github.com/akmonengine/plume/actor"
)

func square(cx, cy, half float64) *actor.Convex {
	shape, err := actor.NewConvex(
		mgl64.NewVecNFromData([]float64{cx - half, cy - half}),
		mgl64.NewVecNFromData([]float64{cx + half, cy - half}),
		mgl64.NewVecNFromData([]float64{cx + half, cy + half}),
		mgl64.NewVecNFromData([]float64{cx - half, cy + half}),
	)
	if err != nil {
		panic(err)
	}
	return shape
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	world, err := plume.NewWorld(2, logger)
	if err != nil {
		panic(err)
	}
	world.Workers = 4

	// A wall half a unit wide, sitting at the origin.
	wall, err := actor.NewBody(1, square(0, 0, 0.5), nil, actor.RoleObstacle)
	if err != nil {
		panic(err)
	}

	// A small bullet at x=-10, asked to move to x=+10 in one step.
	motion := mgl64.NewVecNFromData([]float64{20, 0})
	bullet, err := actor.NewBody(2, square(-10, 0, 0.05), motion, actor.RoleItem)
	if err != nil {
		panic(err)
	}

	if err := world.AddBody(wall); err != nil {
		panic(err)
	}
	if err := world.AddBody(bullet); err != nil {
		panic(err)
	}

	world.Events.Subscribe(plume.BLOCKED, func(event plume.Event) {
		blocked := event.(plume.BlockedEvent)
		fmt.Printf("body %d blocked by obstacle %d\n", blocked.Body.ID, blocked.Obstacle.ID)
	})

	// The discrete checks both miss: the bullet never *stops* inside the wall.
	startHit := plume.Overlaps(bullet.Shape, wall.Shape)
	endHit := plume.Overlaps(square(10, 0, 0.05), wall.Shape)
	fmt.Printf("discrete check at step start: %v, at step end: %v\n", startHit, endHit)

	result := world.Step()
	fmt.Printf("continuous verdicts: %d\n", len(result.Verdicts))
	fmt.Printf("bullet motion after policy: %v (requested %v)\n",
		result.Motions[bullet.ID].Raw(), motion.Raw())
}
