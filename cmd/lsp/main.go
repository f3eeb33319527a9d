package main

import (
	"flag"
	"log"

	lsp "github.com/laurentspitz/loloSpaceProgram-sub003"
)

// This command flies a scripted ascent from the surface of Terra and logs
// the simulation status once per simulated minute.

var (
	duration float64
	warp     float64
	throttle float64
	csvPath  string
)

func init() {
	flag.Float64Var(&duration, "duration", 600, "simulated seconds to run")
	flag.Float64Var(&warp, "warp", 1, "time warp factor")
	flag.Float64Var(&throttle, "throttle", 1, "launch throttle in [0,1]")
	flag.StringVar(&csvPath, "csv", "", "export the final trajectory prediction to this CSV file")
}

func main() {
	flag.Parse()
	if throttle < 0 || throttle > 1 {
		log.Fatalf("throttle %f out of [0,1]", throttle)
	}

	bodies := lsp.NewSolSystem()
	terra := bodies[1]

	booster := &lsp.Stage{Name: "booster", DryMass: 30000, FuelMass: 500000, Thrust: 5e6, ISP: 350}
	capsule := &lsp.Stage{Name: "capsule", DryMass: 8000, FuelMass: 2000, Thrust: 5e4, ISP: 320}

	hull := &lsp.Body{
		Name: "LoloOne", Type: lsp.RocketBody,
		Position: terra.Position.Add(lsp.Vector2{X: 0, Y: terra.Radius + 5}),
		Velocity: terra.Velocity,
		Radius:   2, Parent: 1,
	}
	bodies = append(bodies, hull)
	rocket := lsp.NewRocket("LoloOne", len(bodies)-1, 2, 5, booster, capsule)
	hull.Mass = rocket.Mass()

	sim := lsp.NewSystem(bodies, rocket, nil)
	defer sim.Dispose()
	sim.TimeWarp = warp

	go func() {
		for ev := range sim.Events() {
			log.Printf("event: %s %s t=%.1f", ev.Type, ev.Name, ev.Time)
		}
	}()

	rocket.Throttle = throttle
	const dt = 1.0 / 60
	ticks := int(duration / (dt * warp))
	perMinute := int(60 / (dt * warp))
	if perMinute < 1 {
		perMinute = 1
	}
	for i := 0; i < ticks; i++ {
		sim.Tick(dt)
		if i%perMinute == 0 {
			sim.LogStatus()
		}
	}
	sim.LogStatus()

	if csvPath != "" {
		if err := lsp.ExportPredictionFile(csvPath, sim.Predict(10, 1000)); err != nil {
			log.Fatalf("export: %v", err)
		}
		log.Printf("trajectory written to %s", csvPath)
	}
}
