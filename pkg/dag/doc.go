// Package dag provides the dependency graph of teaching units that
// progressions are generated from.
//
// # Overview
//
// A progression orders concrete units (for example puzzle levels) so that
// every unit comes after everything it depends on. The graph has two node
// variants:
//
//   - [KindUnit]: a concrete, orderable item with a name, an opaque payload
//     and an ordered list of dependencies.
//   - [KindChoice]: an abstract concept that any one of its options
//     satisfies. Options may be units or other choices.
//
// Nodes live in an insertion-ordered arena and are referenced by [NodeID],
// which doubles as the creation sequence number. Identity is the NodeID:
// two units with the same name and payload are still different nodes, and
// a node reachable through several parents is the same node each time.
//
// # Basic Usage
//
// Construct nodes bottom-up. Dependencies must exist before they are
// referenced, so a graph built this way is acyclic by construction:
//
//	g := dag.New()
//	mirror := g.MustUnit("Have Mirror", "...")
//	crate := g.MustUnit("Crate Expectations", "...")
//	move := g.MustChoice(mirror, crate)
//	cube := g.MustUnit("Weighted Mirror Cube", "...", move)
//
// Use [Builder] when nodes are declared by key in arbitrary order, as in
// definition files, and call [Graph.Validate] on the result.
//
// # Errors
//
// Construction fails with [ErrUnknownNode] for references to unregistered
// nodes and [ErrEmptyChoice] for choices without options. Cycles are
// reported as [*CycleError], which matches [ErrCycle] with errors.Is.
//
// # Concurrency
//
// A Graph is not safe for concurrent construction. Once built it is never
// modified, and concurrent readers are fine. Usage counters are not stored
// on nodes; see package usage.
package dag
