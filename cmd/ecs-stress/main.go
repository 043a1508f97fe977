package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/plus3/ecsrt/ecs"
)

// Stress-test components. A handful of small numeric payloads is enough
// to exercise attach/detach/iterate across many sparse-set storages at
// once, which is what this tool is measuring.
type Position struct{ X, Y float64 }
type Velocity struct{ DX, DY float64 }
type Health struct{ Current, Max int }
type Faction struct{ ID int }
type Tag struct{ Name string }

const systemCount = 5

// Moving is the view the movement system queries through.
type Moving struct {
	Position *Position
	Velocity *Velocity
}

func spawnRandomEntity(r *ecs.Registry, numComponents int) {
	e := r.CreateEntity()
	kinds := rand.Perm(5)[:numComponents]
	for _, k := range kinds {
		switch k {
		case 0:
			ecs.Attach(r, e, Position{X: rand.Float64() * 100, Y: rand.Float64() * 100})
		case 1:
			ecs.Attach(r, e, Velocity{DX: rand.Float64() - 0.5, DY: rand.Float64() - 0.5})
		case 2:
			ecs.Attach(r, e, Health{Current: 100, Max: 100})
		case 3:
			ecs.Attach(r, e, Faction{ID: rand.Intn(4)})
		case 4:
			ecs.Attach(r, e, Tag{Name: "npc"})
		}
	}
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	log.Println("Starting ECS stress test...")

	world := ecs.NewWorld()

	log.Printf("Populating registry with %d entities...\n", *entityCount)
	for i := 0; i < *entityCount; i++ {
		numComponents := rand.Intn(5) + 1
		spawnRandomEntity(world.Registry(), numComponents)
	}
	log.Println("Population complete.")

	movement := world.Update().AddStage("movement")
	for i := 0; i < systemCount; i++ {
		movement.AddSystem(func(vw *ecs.Viewer, cmd *ecs.Commands, res *ecs.Resources) error {
			view := ecs.NewViewOf[Moving](vw)
			for _, m := range view.Values() {
				m.Position.X += m.Velocity.DX
				m.Position.Y += m.Velocity.DY
			}
			return nil
		})
	}

	report := &Report{
		Duration:   *duration,
		Entities:   *entityCount,
		Components: 5,
		Systems:    systemCount,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
		GCPauseMetrics: *gcPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			updateStart := time.Now()
			if err := world.Update().Execute(world); err != nil {
				log.Fatalf("update stage failed: %v", err)
			}
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	report.MovementStageSystemsRun = movement.Stats().SystemsRun
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.StorageSizes = []ComponentStorageSize{
		{Name: "Position", Size: ecs.StorageSize[Position](world.Registry())},
		{Name: "Velocity", Size: ecs.StorageSize[Velocity](world.Registry())},
		{Name: "Health", Size: ecs.StorageSize[Health](world.Registry())},
		{Name: "Faction", Size: ecs.StorageSize[Faction](world.Registry())},
		{Name: "Tag", Size: ecs.StorageSize[Tag](world.Registry())},
	}

	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}
