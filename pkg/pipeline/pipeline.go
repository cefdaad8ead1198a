// Package pipeline runs the load → generate → export pipeline behind the
// progression CLI.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Load: read a definition file and build its graph
//  2. Generate: run the usage pass and the progression walk from a root
//  3. Export: render the progression as names, layouts or JSON
//
// The generate and export stages are cached. Keys are derived from the
// content hash of the definition file, so editing the file invalidates
// everything derived from it.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Definition: "examples/lasers.toml",
//	    Level:      "smaller-first",
//	    Choice:     "all",
//	})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(result.Output)
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/progression/pkg/cache"
	"github.com/matzehuels/progression/pkg/dag"
	"github.com/matzehuels/progression/pkg/definition"
	perrors "github.com/matzehuels/progression/pkg/errors"
	"github.com/matzehuels/progression/pkg/export"
	"github.com/matzehuels/progression/pkg/progression"
	"github.com/matzehuels/progression/pkg/strategy"
)

// =============================================================================
// Default Values
// =============================================================================

// Default strategy expressions. They match progression.Params defaults.
const (
	DefaultLevel       = "all"
	DefaultChoice      = "first"
	DefaultUsageLevel  = "all"
	DefaultUsageChoice = "all"
)

// DefaultFormat is the default export format.
const DefaultFormat = export.FormatNames

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Definition is the path of the definition file. When Source is set it
	// only labels log lines and errors.
	Definition string `json:"definition"`
	// Source holds the definition bytes when they do not come from a file,
	// for example stdin. SourceFormat selects the decoder.
	Source       []byte            `json:"-"`
	SourceFormat definition.Format `json:"-"`

	// Root is the key of the unit to generate from. Empty means the root
	// declared in the file.
	Root string `json:"root,omitempty"`

	// Strategy expressions, such as "smaller-first" or "reverse+unique".
	Level       string `json:"level,omitempty"`
	Choice      string `json:"choice,omitempty"`
	UsageLevel  string `json:"usage_level,omitempty"`
	UsageChoice string `json:"usage_choice,omitempty"`

	// Export options
	Format  string `json:"format,omitempty"`
	Prelude string `json:"prelude,omitempty"`

	// Refresh ignores cached results. Fresh results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	params    progression.Params
	format    export.Format
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// File is the loaded definition.
	File *definition.File

	// GraphHash is the content hash of the definition bytes.
	GraphHash string

	// Root is the unit the progression was generated from.
	Root dag.NodeID

	// Progression holds the order and the usage counters.
	Progression *progression.Result

	// Output is the exported progression in the requested format.
	Output []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	Units        int
	LoadTime     time.Duration
	GenerateTime time.Duration
	ExportTime   time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	ProgressionHit bool
	ExportHit      bool
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options, applies defaults and resolves
// the strategy expressions. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that a definition source is set.
func (o *Options) ValidateForLoad() error {
	if o.Definition == "" && o.Source == nil {
		return errors.New("definition is required")
	}
	if o.Source != nil && o.SourceFormat == "" {
		o.SourceFormat = definition.FormatTOML
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForGenerate applies strategy defaults and parses the expressions.
// Usage-pass strategies must be structural.
func (o *Options) ValidateForGenerate() error {
	if o.Level == "" {
		o.Level = DefaultLevel
	}
	if o.Choice == "" {
		o.Choice = DefaultChoice
	}
	if o.UsageLevel == "" {
		o.UsageLevel = DefaultUsageLevel
	}
	if o.UsageChoice == "" {
		o.UsageChoice = DefaultUsageChoice
	}
	if o.Root != "" {
		if err := perrors.ValidateKey(o.Root); err != nil {
			return err
		}
	}

	var err error
	if o.params.Level, err = strategy.Parse(o.Level); err != nil {
		return fmt.Errorf("level strategy: %w", err)
	}
	if o.params.Choice, err = strategy.Parse(o.Choice); err != nil {
		return fmt.Errorf("choice strategy: %w", err)
	}
	if o.params.UsageLevel, err = strategy.ParsePass(o.UsageLevel); err != nil {
		return fmt.Errorf("usage level strategy: %w", err)
	}
	if o.params.UsageChoice, err = strategy.ParsePass(o.UsageChoice); err != nil {
		return fmt.Errorf("usage choice strategy: %w", err)
	}
	o.params.Logger = o.Logger
	return nil
}

// ValidateForExport validates the export format.
func (o *Options) ValidateForExport() error {
	f, err := export.ParseFormat(o.Format)
	if err != nil {
		return err
	}
	o.format = f
	o.Format = string(f)
	return nil
}

// Params returns the resolved strategies. It is only meaningful after
// validation.
func (o *Options) Params() progression.Params {
	return o.params
}

// ExportFormat returns the resolved export format.
func (o *Options) ExportFormat() export.Format {
	if o.format == "" {
		return DefaultFormat
	}
	return o.format
}

// ProgressionKeyOpts returns cache key options for the generate stage.
func (o *Options) ProgressionKeyOpts(rootKey string) cache.ProgressionKeyOpts {
	p := o.params.WithDefaults()
	return cache.ProgressionKeyOpts{
		Root:        rootKey,
		Level:       p.Level.Name(),
		Choice:      p.Choice.Name(),
		UsageLevel:  p.UsageLevel.Name(),
		UsageChoice: p.UsageChoice.Name(),
	}
}

// ArtifactKeyOpts returns cache key options for the export stage.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: string(o.ExportFormat())}
	if opts.Format == string(export.FormatLayouts) && o.Prelude != "" {
		opts.Prelude = cache.Hash([]byte(o.Prelude))
	}
	return opts
}

// source returns a label for the definition in logs and errors.
func (o *Options) source() string {
	if o.Definition != "" {
		return o.Definition
	}
	return "stdin"
}
