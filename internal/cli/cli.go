package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/progression/pkg/buildinfo"
	"github.com/matzehuels/progression/pkg/cache"
	perrors "github.com/matzehuels/progression/pkg/errors"
	"github.com/matzehuels/progression/pkg/export"
	"github.com/matzehuels/progression/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "progression"

	// redisURLEnv names the environment variable read when --redis is unset.
	redisURLEnv = "PROGRESSION_REDIS_URL"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger    *log.Logger
	Clipboard export.Clipboard
}

// New creates a new CLI instance with a default logger and the system
// clipboard.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:    newLogger(w, level),
		Clipboard: export.SystemClipboard{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Progression orders teaching units into a learning sequence",
		Long: `Progression reads a graph of units (levels, lessons, exercises) and the
concepts they depend on, and orders the units so that every unit comes after
everything it builds on. Strategies decide tie-breaks, filtering and which
alternative satisfies an "any of" requirement.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			installHooks(c.Logger)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.usagesCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.stepCommand())
	root.AddCommand(c.strategiesCommand())
	root.AddCommand(c.stampCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the cache backend of a command.
type cacheFlags struct {
	noCache  bool
	redisURL string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.redisURL, "redis", "", "cache in Redis at this URL instead of on disk (env "+redisURLEnv+")")
}

// newRunner creates a pipeline runner for CLI use. Keys are scoped to the
// build version.
func (c *CLI) newRunner(ctx context.Context, f cacheFlags) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, f)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.CacheScope())
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func newCache(ctx context.Context, f cacheFlags) (cache.Cache, error) {
	if f.noCache {
		return cache.NewNullCache(), nil
	}
	url := f.redisURL
	if url == "" {
		url = os.Getenv(redisURLEnv)
	}
	if url != "" {
		if err := perrors.ValidateRedisURL(url); err != nil {
			return nil, err
		}
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{URL: url})
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/progression/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// strategyFlags registers the root and strategy flags shared by the commands
// that generate a progression.
func strategyFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&opts.Root, "root", "r", "", "key of the unit to generate from (default: the file's root)")
	cmd.Flags().StringVarP(&opts.Level, "level", "l", pipeline.DefaultLevel, "strategy for the dependencies of a unit")
	cmd.Flags().StringVarP(&opts.Choice, "choice", "c", pipeline.DefaultChoice, "strategy for the options of a choice")
	cmd.Flags().StringVar(&opts.UsageLevel, "usage-level", pipeline.DefaultUsageLevel, "structural strategy for dependencies in the usage pass")
	cmd.Flags().StringVar(&opts.UsageChoice, "usage-choice", pipeline.DefaultUsageChoice, "structural strategy for choices in the usage pass")

	_ = cmd.RegisterFlagCompletionFunc("level", completeStrategies)
	_ = cmd.RegisterFlagCompletionFunc("choice", completeStrategies)
	_ = cmd.RegisterFlagCompletionFunc("usage-level", completePassStrategies)
	_ = cmd.RegisterFlagCompletionFunc("usage-choice", completePassStrategies)
}

// readPrelude returns the contents of path, or "" when path is empty.
func readPrelude(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prelude: %w", err)
	}
	return string(data), nil
}
