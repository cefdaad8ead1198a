// Package strategy provides the pluggable heuristics that steer progression
// generation.
//
// # Overview
//
// A [Strategy] takes an ordered sequence of candidate nodes and returns a
// subset of it, possibly reordered. The engine uses strategies in four
// independent roles:
//
//   - level: reorders or filters a unit's flattened dependency list
//   - choice: reorders or filters a choice's flattened options
//   - usage level and usage choice: the same shapes, used only while
//     counting usages
//
// # Usage Pass Safety
//
// Strategies such as [Frontload] and [Backload] read the usage counters.
// The usage pass is what fills those counters in, so feeding it a strategy
// that reads them would order by half-computed data. The usage-pass roles
// therefore take a [PassStrategy], which [Frontload] and [Backload] do not
// implement:
//
//	params.UsageLevel = strategy.Frontload // does not compile
//
// Structural strategies built with [NewStructural] never see the counters
// and are always pass-safe. The leaf aggregate sorts ([FrontloadMaxLeaf] and
// friends) only reorder and do not depend on sibling order, so they are
// pass-safe as well.
//
// # Composition
//
// [Compose] chains strategies right to left: Compose(a, b) applies b and
// then a. [Parse] accepts the same chain as a "+"-separated expression of
// registered names, which is what the CLI flags use:
//
//	s, _ := strategy.Parse("reverse+smaller-first")
//
// # Ties
//
// The sorting builtins implement [Keyed]. [TieBreak] uses the key to order
// candidates the sort leaves equal by creation order, without touching
// strategies that pick by position such as [First] and [Reverse].
package strategy
