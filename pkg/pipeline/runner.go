package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/progression/pkg/cache"
	"github.com/matzehuels/progression/pkg/compare"
	"github.com/matzehuels/progression/pkg/dag"
	"github.com/matzehuels/progression/pkg/definition"
	"github.com/matzehuels/progression/pkg/export"
	"github.com/matzehuels/progression/pkg/observability"
	"github.com/matzehuels/progression/pkg/progression"
	"github.com/matzehuels/progression/pkg/usage"
)

// Runner executes pipeline stages with caching and observability hooks.
//
// A Runner keeps no per-run state, so one Runner can serve concurrent
// calls with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means DefaultKeyer and a nil
// cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load → generate → export.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	start := time.Now()
	f, hash, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.File = f
	result.GraphHash = hash
	result.Stats.LoadTime = time.Since(start)
	result.Stats.NodeCount = f.Graph.Len()

	r.Logger.Info("loaded definition",
		"source", opts.source(),
		"nodes", f.Graph.Len(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Generate
	start = time.Now()
	res, key, hit, err := r.generate(ctx, f, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Root = res.Root
	result.Progression = res
	result.Stats.GenerateTime = time.Since(start)
	result.Stats.Units = len(res.Order)
	result.CacheInfo.ProgressionHit = hit

	r.Logger.Info("generated progression",
		"root", f.Key(res.Root),
		"units", len(res.Order),
		"cached", hit,
		"duration", result.Stats.GenerateTime)

	// Stage 3: Export
	start = time.Now()
	out, hit, err := r.export(ctx, f.Graph, res, key, opts)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Output = out
	result.Stats.ExportTime = time.Since(start)
	result.CacheInfo.ExportHit = hit

	r.Logger.Info("exported progression",
		"format", opts.ExportFormat(),
		"bytes", len(out),
		"duration", result.Stats.ExportTime)

	return result, nil
}

// Load reads and builds the definition and returns it with the content hash
// of its bytes.
func (r *Runner) Load(ctx context.Context, opts Options) (*definition.File, string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, "", err
	}
	start := time.Now()
	f, hash, err := load(opts)
	nodes := 0
	if f != nil {
		nodes = f.Graph.Len()
	}
	observability.Generation().OnLoad(ctx, opts.source(), nodes, time.Since(start), err)
	return f, hash, err
}

func load(opts Options) (*definition.File, string, error) {
	data, format := opts.Source, opts.SourceFormat
	if data == nil {
		var err error
		if data, err = os.ReadFile(opts.Definition); err != nil {
			return nil, "", err
		}
		format = definition.FormatFromPath(opts.Definition)
	}
	f, err := definition.Parse(data, format)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", opts.source(), err)
	}
	return f, cache.Hash(data), nil
}

// Generate runs the generate stage on a loaded definition.
func (r *Runner) Generate(ctx context.Context, f *definition.File, graphHash string, opts Options) (*progression.Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, err
	}
	res, _, _, err := r.generate(ctx, f, graphHash, opts)
	return res, err
}

// cachedProgression is the cache encoding of a progression.Result.
type cachedProgression struct {
	Root   int   `json:"root"`
	Order  []int `json:"order"`
	Usages []int `json:"usages"`
}

func (r *Runner) generate(ctx context.Context, f *definition.File, graphHash string, opts Options) (*progression.Result, string, bool, error) {
	root, err := f.ResolveRoot(opts.Root)
	if err != nil {
		return nil, "", false, err
	}
	key := r.Keyer.ProgressionKey(graphHash, opts.ProgressionKeyOpts(f.Key(root)))
	hooks := observability.Generation()
	name := f.Graph.MustNode(root).Name

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if res, ok := decodeProgression(f.Graph, data); ok && res.Root == root {
				observability.Cache().OnCacheHit(ctx, "progression")
				return res, key, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "stage", "progression", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "progression")
	}

	start := time.Now()
	res, err := progression.Generate(f.Graph, root, opts.Params())
	if err != nil {
		hooks.OnProgression(ctx, name, 0, time.Since(start), err)
		return nil, "", false, err
	}
	hooks.OnUsagePass(ctx, name, res.Usages.Total(), res.UsageTime)
	hooks.OnProgression(ctx, name, len(res.Order), time.Since(start), nil)

	if data, err := encodeProgression(res); err == nil {
		r.store(ctx, "progression", key, data, cache.TTLProgression)
	}
	return res, key, false, nil
}

func encodeProgression(res *progression.Result) ([]byte, error) {
	c := cachedProgression{Root: int(res.Root), Order: make([]int, len(res.Order)), Usages: res.Usages.Snapshot()}
	for i, id := range res.Order {
		c.Order[i] = int(id)
	}
	return json.Marshal(c)
}

// decodeProgression rejects entries that do not fit g, which can only
// happen after a hash collision or a hand-edited cache.
func decodeProgression(g *dag.Graph, data []byte) (*progression.Result, bool) {
	var c cachedProgression
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, false
	}
	res := &progression.Result{Root: dag.NodeID(c.Root), Usages: usage.FromSnapshot(c.Usages)}
	for _, id := range c.Order {
		n, ok := g.Node(dag.NodeID(id))
		if !ok || !n.IsUnit() {
			return nil, false
		}
		res.Order = append(res.Order, n.ID)
	}
	return res, true
}

func (r *Runner) export(ctx context.Context, g *dag.Graph, res *progression.Result, progressionKey string, opts Options) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(progressionKey, opts.ArtifactKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, opts.ExportFormat(), g, res, opts.Prelude); err != nil {
		return nil, false, err
	}
	r.store(ctx, "artifact", key, buf.Bytes(), cache.TTLArtifact)
	return buf.Bytes(), false, nil
}

// Compare loads the definition and builds the ascending/descending
// diagnostic report for the configured strategies.
func (r *Runner) Compare(ctx context.Context, opts Options) (*compare.Report, *definition.File, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, nil, err
	}
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, nil, err
	}
	f, _, err := r.Load(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("load: %w", err)
	}
	root, err := f.ResolveRoot(opts.Root)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	report, err := compare.Run(f.Graph, root, opts.Params())
	diffs := 0
	if report != nil {
		diffs = report.Differences()
	}
	observability.Generation().OnCompare(ctx, f.Graph.MustNode(root).Name, diffs, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	r.Logger.Info("compared orderings", "rows", report.Len(), "differences", diffs)
	return report, f, nil
}

// store writes to the cache. Failures are logged, not returned.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "stage", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
