// Package definition reads and writes graph definition files.
//
// A definition declares units and choices by key. References may point
// forward, and the declaration order becomes the creation order that
// creation-order strategies sort by. TOML is the default encoding:
//
//	root = "finale"
//
//	[[unit]]
//	key = "basics"
//	name = "Basics"
//	payload = '''
//	#..#
//	#..#'''
//
//	[[unit]]
//	key = "finale"
//	deps = ["optics", "basics"]
//
//	[[choice]]
//	key = "optics"
//	opts = ["basics"]
//
// A [[node]] table with an explicit kind = "unit" or "choice" may be used
// instead when units and choices need to be interleaved. Its entries are
// declared before the [[unit]] and [[choice]] shorthand tables.
//
// JSON files use the same field names with "nodes", "units" and "choices"
// as the table names.
//
// Loading always validates the graph: unknown references, empty choices,
// duplicate keys and cycles are reported before any progression is built.
package definition
