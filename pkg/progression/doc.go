// Package progression linearizes a graph of units into a learning order.
//
// # Overview
//
// A progression is an ordered list of units that ends with a chosen root
// unit, contains each unit at most once, and places every unit after all of
// the dependencies the strategies let through. It is built in two passes:
//
//  1. [CalcUsages] walks the graph and counts, for every node, how many
//     strategy-surviving paths lead to it from the root.
//  2. [Progression] walks the graph again and merges the progressions of
//     a unit's dependencies in front of the unit. Strategies read the
//     counters of the first pass through [strategy.Env].
//
// [Generate] runs both passes with a fresh [usage.Table].
//
// # Flattening
//
// Choices never appear in a progression. [Flatten] replaces a choice by the
// concatenation of its fully flattened options and then applies the choice
// strategy once to the whole list. A first-only strategy on a choice whose
// first option is itself a choice therefore picks the first leaf of the
// nested choice's own selection.
//
// # Merging
//
// A unit's dependencies are processed in reverse. For each one the
// dependency's own progression is walked back to front and every element is
// moved to the front of the result, removing any earlier occurrence. The
// later placement always wins, so shared dependencies end up before every
// unit that needs them, and siblings keep the order the level strategy
// asked for wherever the dependency order allows it.
//
// # Failure Modes
//
// All three walks keep the chain of nodes currently being expanded. Meeting
// a node that is already on the chain returns a [*dag.CycleError] instead of
// recursing forever. A strategy that returns a node it was not given yields
// [ErrStrategyContract].
package progression
