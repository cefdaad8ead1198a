// Package pkg provides the libraries behind the progression CLI.
//
// # Overview
//
// A progression is an order over teaching units (puzzle levels, lessons,
// exercises) in which every unit comes after the concepts it builds on.
// Units and "any of" choices form a dependency graph; strategies decide
// tie-breaks and filtering while the graph is walked.
//
//  1. [dag] - Arena-backed unit/choice graph with cycle detection
//  2. [definition] - TOML and JSON definition files
//  3. [strategy] - Named level and choice strategies and their registry
//  4. [usage] - Usage counting shared by strategies
//  5. [progression] - The usage pass and the progression walk
//  6. [export] - Names, layouts and JSON outputs, clipboard access
//  7. [pipeline] - Load, generate and export with caching
//  8. [cache] - File, Redis and null cache backends
//
// # Architecture
//
//	Definition file (TOML/JSON)
//	         ↓
//	    [definition] package (parse, resolve keys)
//	         ↓
//	    [progression] package (usage pass, ordered walk)
//	         ↓
//	    [export] package (names, layouts, JSON)
//
// # Quick Start
//
//	f, _ := definition.Load("examples/lasers.toml")
//	res, _ := progression.Generate(f.Graph, f.Root, progression.Params{})
//	_ = export.WriteNames(os.Stdout, f.Graph, res.Order)
//
// Supporting packages: [compare] diffs strategy choices, [render/nodelink]
// draws the graph, [observability] exposes hooks, [errors] classifies
// failures for the CLI and [buildinfo] carries version data.
package pkg
