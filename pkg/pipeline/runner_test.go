package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/progression/pkg/cache"
	"github.com/matzehuels/progression/pkg/observability"
)

const lasers = "../../examples/lasers.toml"

func TestRunner_Execute_Lasers(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "first option in the usage pass",
			opts: Options{UsageChoice: "takefirst"},
			want: []string{
				"First Steps (54)",
				"Have Mirror, Will Travel (54)",
				"Clear as Mud (60)",
				"Teaching Wires (112)",
				"Crate Expectations (54)",
				"FT1 (120)",
				"B1 (96)",
				"Parity (144)",
				"Only Half a Mirror (63)",
				"Bad Splittermerge (270)",
				"Beamlock (108)",
				"Hodor (90)",
				"Experiment (180)",
				"All Objectives Complete (0)",
			},
		},
		{
			name: "every option, smaller first",
			opts: Options{Level: "smaller_first", Choice: "takeall"},
			want: []string{
				"First Steps (54)",
				"FW1 (54)",
				"Have Mirror, Will Travel (54)",
				"Crate Expectations (54)",
				"Clear as Mud (60)",
				"A Mess (90)",
				"Beamlock 2 (72)",
				"Only Half a Mirror (63)",
				"B3 (84)",
				"Hodor (90)",
				"B1 (96)",
				"B2 (96)",
				"Hodor 2 (104)",
				"MiniParity (108)",
				"Teaching Wires (112)",
				"Locks and Keys (153)",
				"Fourth Splittermerge (162)",
				"Next Splittermerge (238)",
				"Flashing Splittermerge (255)",
				"Bad Splittermerge (270)",
				"Beamlock (108)",
				"FT1 (120)",
				"Parity (144)",
				"ParityAlt (144)",
				"FT2 (171)",
				"FT3 (171)",
				"Experiment (180)",
				"Slightly Compacted (216)",
				"All Objectives Complete (0)",
			},
		},
	}

	r := NewRunner(nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Definition = lasers
			res, err := r.Execute(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			want := strings.Join(tt.want, "\n") + "\n"
			if got := string(res.Output); got != want {
				t.Errorf("Execute() output:\n%s\nwant:\n%s", got, want)
			}
			if res.Stats.NodeCount != 43 || res.Stats.Units != len(tt.want) {
				t.Errorf("Stats = %+v", res.Stats)
			}
			if res.File.Key(res.Root) != "all_objs" {
				t.Errorf("Root = %s, want all_objs", res.File.Key(res.Root))
			}
		})
	}
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) OnLoad(context.Context, string, int, time.Duration, error) { r.add("load") }
func (r *recorder) OnUsagePass(context.Context, string, int, time.Duration)   { r.add("usages") }
func (r *recorder) OnProgression(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	r.add("progression")
}
func (r *recorder) OnCompare(context.Context, string, int, time.Duration, error) { r.add("compare") }
func (r *recorder) OnCacheHit(_ context.Context, k string)                       { r.add("hit:" + k) }
func (r *recorder) OnCacheMiss(_ context.Context, k string)                      { r.add("miss:" + k) }
func (r *recorder) OnCacheSet(_ context.Context, k string, _ int)                { r.add("set:" + k) }

func (r *recorder) take() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := strings.Join(r.events, " ")
	r.events = nil
	return s
}

func record(t *testing.T) *recorder {
	t.Helper()
	rec := &recorder{}
	observability.SetGenerationHooks(rec)
	observability.SetCacheHooks(rec)
	t.Cleanup(observability.Reset)
	return rec
}

func TestRunner_Cache(t *testing.T) {
	ctx := context.Background()
	rec := record(t)
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	opts := Options{Definition: lasers, Format: "layouts", Prelude: "core\n"}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute() error: %v", err)
	}
	if first.CacheInfo.ProgressionHit || first.CacheInfo.ExportHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if got, want := rec.take(), "load miss:progression usages progression set:progression miss:artifact set:artifact"; got != want {
		t.Errorf("first run events = %q, want %q", got, want)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !second.CacheInfo.ProgressionHit || !second.CacheInfo.ExportHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Output, second.Output) {
		t.Error("cached output differs from generated output")
	}
	if got, want := rec.take(), "load hit:progression hit:artifact"; got != want {
		t.Errorf("second run events = %q, want %q", got, want)
	}
	for i, id := range second.Progression.Order {
		if first.Progression.Order[i] != id {
			t.Fatalf("cached order differs at %d", i)
		}
	}
	if second.Progression.Usages.Total() != first.Progression.Usages.Total() {
		t.Error("cached usages differ")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.ProgressionHit || third.CacheInfo.ExportHit {
		t.Errorf("refresh CacheInfo = %+v, want misses", third.CacheInfo)
	}
}

func TestRunner_CacheKeyedByStrategy(t *testing.T) {
	ctx := context.Background()
	c, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(c, nil, nil)

	if _, err := r.Execute(ctx, Options{Definition: lasers}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{Definition: lasers, Choice: "all"})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.ProgressionHit {
		t.Error("a different choice strategy must not reuse the cached progression")
	}
}

const source = `
[[unit]]
key = "a"
name = "Alpha"
payload = "#.#"

[[unit]]
key = "b"
name = "Beta"
payload = "#$#"
deps = ["a"]
`

func TestRunner_Source(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Source: []byte(source), Format: "json"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !bytes.Contains(res.Output, []byte(`"name": "Beta"`)) {
		t.Errorf("Execute() output = %s", res.Output)
	}
	if res.GraphHash != cache.Hash([]byte(source)) {
		t.Error("GraphHash should hash the source bytes")
	}
}

func TestRunner_Errors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Definition: "testdata/missing.toml"}); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error = %v, want fs.ErrNotExist", err)
	}
	if _, err := r.Execute(ctx, Options{Definition: lasers, Root: "nope"}); err == nil {
		t.Error("unknown root should fail")
	}
	if _, err := r.Execute(ctx, Options{Source: []byte("[[unit]]\nkey = 1\n")}); err == nil {
		t.Error("malformed definition should fail")
	}
}

func TestRunner_Compare(t *testing.T) {
	rec := record(t)
	r := NewRunner(nil, nil, nil)
	report, f, err := r.Compare(context.Background(), Options{Definition: lasers, Level: "smaller-first", Choice: "all"})
	if err != nil {
		t.Fatalf("Compare() error: %v", err)
	}
	if report.Len() != 29 {
		t.Errorf("Len() = %d, want 29", report.Len())
	}
	if f.Graph.Len() != 43 {
		t.Errorf("graph has %d nodes, want 43", f.Graph.Len())
	}
	if got := rec.take(); got != "load compare" {
		t.Errorf("events = %q", got)
	}
}
