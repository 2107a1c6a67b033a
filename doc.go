// Package dam implements a discrete-event simulation kernel for dataflow
// and accelerator architectures.
//
// # Overview
//
// Users describe a network of compute nodes ("contexts") connected by
// typed FIFO channels. Each context advances a local logical clock as it
// produces and consumes data. The kernel drives every context concurrently
// on its own goroutine, keeps logical clocks mutually consistent through a
// blocking wait-until primitive on peer clocks, and reports the simulated
// elapsed cycles once every context has finished.
//
// # Core Concepts
//
//   - Time: a totally ordered (cycles, done) pair representing simulated
//     progress. Done marks a terminated producer and compares greater than
//     every finite time.
//   - TimeManager / TimeView: every context owns a TimeManager; peers read
//     its progress and block on it through a TimeView.
//   - Channel: a typed FIFO between one sender and one receiver, with
//     capacity, forward latency, and response latency. Channels come in
//     bounded/infinite and acyclic/cyclic flavors, chosen automatically by
//     strongly-connected-component analysis over the dataflow graph.
//   - Context: the unit of simulated work. Implementors provide
//     Init/Run/Cleanup and expose a TimeView for peers.
//   - Builder / Runner: Builder wires contexts and channels together and
//     freezes channel flavors; Runner spawns one goroutine per context and
//     collects a summary tree once every worker has returned.
//
// # Usage
//
//	b := dam.NewBuilder()
//	tx, rx := dam.Bounded[int](b, 8)
//	b.AddChild(newGenerator(tx, 0, 8))
//	b.AddChild(newConsumer(rx))
//	initialized, err := b.Initialize(dam.Options{RunFlavorInference: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	executed := initialized.Run(dam.RunModeSimple)
//	cycles, _ := executed.ElapsedCycles()
//
// # Non-goals
//
// Wall-clock realtime fidelity of simulated cycles, a central
// discrete-event priority queue (goroutines stand in for dedicated worker
// threads), and distribution across machines are explicitly out of scope.
// The library of prebuilt contexts (generators, checkers, merge, PCU,
// sparse-tensor operators), DOT/graph export, and CLI benchmarks are
// downstream collaborators, not part of this module.
package dam
