package game

import (
	"time"

	"github.com/framefighter/inspection-idle/systems"
	"github.com/framefighter/inspection-idle/telemetry"
)

// UpdateHeadless advances the simulation without reading input or drawing.
// The selected robot follows the autopilot script.
func (g *Game) UpdateHeadless() {
	g.handleMenuEvents()
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.input.Set(g.autopilot.Next())
		g.step()
	}
}

// Update reads input and advances the simulation for one frame.
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	g.handleInput()
	g.handleMenuEvents()

	if !g.paused {
		for i := 0; i < g.stepsPerUpdate; i++ {
			held := g.keys
			if g.useAutopilot {
				held |= g.autopilot.Next()
			}
			g.input.Set(held)
			g.step()
		}
	}

	g.followSelected()
}

// step runs one simulation tick. The order matters: assembly resolves before
// commands so a freshly committed joint can be driven in the same tick, and
// transforms are synced after physics so inspection sees the new placement.
func (g *Game) step() {
	cfg := g.cfg
	g.perfCollector.StartTick()

	// Assembly
	g.perfCollector.StartPhase(telemetry.PhaseAssembly)
	g.timed(systems.SysAssemblyEvents, func() {
		g.assembly.Update()
	})
	g.timed(systems.SysJointSpawner, func() {
		report := g.jointSpawner.Update(g.tick)
		g.collector.RecordAssembly(report.Committed, report.Rejected)
	})
	for _, r := range g.jointSpawner.TakeRejected() {
		g.recordRejection(r)
	}

	// Commands
	g.perfCollector.StartPhase(telemetry.PhaseCommands)
	g.timed(systems.SysInput, func() {
		g.inputs.Update(&g.input)
	})
	g.timed(systems.SysExecutor, func() {
		xs := g.executor.Update()
		g.collector.RecordCommands(xs.Executed, xs.Dropped, xs.Failed, xs.PowerSpent)
	})

	// Motion and physics
	g.perfCollector.StartPhase(telemetry.PhaseMotion)
	g.timed(systems.SysMotion, func() {
		g.motion.Update()
	})
	g.perfCollector.StartPhase(telemetry.PhasePhysics)
	g.timed(systems.SysPhysics, func() {
		g.phys.Step(cfg.Derived.DT32)
		stats := g.phys.Stats()
		g.collector.RecordPhysics(stats.Contacts, stats.Suppressed)
	})
	g.timed(systems.SysTransformSync, func() {
		g.transforms.Update()
	})

	// Gameplay
	g.perfCollector.StartPhase(telemetry.PhaseInspection)
	g.timed(systems.SysInspection, func() {
		is := g.inspection.Update()
		g.inspecting = is.Inspecting
		g.collector.RecordInspections(is.Completed)
	})
	g.perfCollector.StartPhase(telemetry.PhaseEnergy)
	if cfg.Energy.Recharge {
		g.timed(systems.SysRecharge, func() {
			g.ledger.Recharge(cfg.Derived.DT32)
		})
	}

	g.perfCollector.StartPhase(telemetry.PhaseSweep)
	if iv := int32(cfg.Assembly.SweepInterval); iv > 0 && g.tick%iv == 0 {
		g.timed(systems.SysSweep, func() {
			g.collector.RecordSweep(g.sweeper.Sweep())
		})
	}

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.timed(systems.SysTelemetry, g.flushTelemetry)

	g.perfCollector.EndTick()
}

// timed runs fn and records its duration under a registry system id.
func (g *Game) timed(id string, fn func()) {
	start := time.Now()
	fn()
	g.perf.Record(id, time.Since(start))
}

// followSelected moves the camera toward the selected robot.
func (g *Game) followSelected() {
	if g.camera == nil || !g.follow {
		return
	}
	root, ok := g.selectedRoot()
	if !ok || !g.transformMap.Has(root) {
		return
	}
	t := g.transformMap.Get(root)
	scale := g.cfg.Derived.Scale32
	g.camera.Follow(t.Position.X()*scale, t.Position.Y()*scale)
}
