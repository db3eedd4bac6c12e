package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbitribbon/pkg/cache"
	"github.com/matzehuels/orbitribbon/pkg/ephemeris"
	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/figure"
	"github.com/matzehuels/orbitribbon/pkg/observability"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeTrajectory = "trajectory"
	keyTypeArtifact   = "artifact"
)

// Runner executes the pipeline with caching.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs trajectory → load → build → render for one figure.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	name := opts.Figure.Name

	eph, err := opts.Ephemeris.Open()
	if err != nil {
		return nil, fmt.Errorf("ephemeris: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Trajectory
	var trajectoryHit bool
	result.Stats.TrajectoryTime, err = runStage(ctx, observability.StageTrajectory, name, func() error {
		var err error
		result.Trajectory, trajectoryHit, err = r.TrajectoryWithCacheInfo(ctx, eph, opts)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("trajectory: %w", err)
	}
	result.Stats.Samples = result.Trajectory.Len()
	result.CacheInfo.TrajectoryHit = trajectoryHit
	r.Logger.Info("sampled trajectory",
		"figure", name,
		"samples", result.Stats.Samples,
		"cached", trajectoryHit,
		"duration", result.Stats.TrajectoryTime)

	// Stage 2: Load
	var data Data
	result.Stats.LoadTime, err = runStage(ctx, observability.StageLoad, name, func() error {
		var err error
		data, err = r.Load(ctx, opts)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.Rows = data.Rows()
	r.Logger.Info("loaded instrument data",
		"figure", name,
		"kind", opts.Figure.Kind,
		"rows", result.Stats.Rows,
		"duration", result.Stats.LoadTime)

	// Stage 3: Build
	orbit := NewOrbit(result.Trajectory, eph, opts.Ephemeris.Unit())
	result.Stats.BuildTime, err = runStage(ctx, observability.StageBuild, name, func() error {
		var err error
		result.Figure, err = r.Build(ctx, orbit, data, opts)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Stats.Elements = len(result.Figure.Elements)
	r.Logger.Info("built figure",
		"figure", name,
		"elements", result.Stats.Elements,
		"duration", result.Stats.BuildTime)

	// Stage 4: Render
	var renderHit bool
	result.Stats.RenderTime, err = runStage(ctx, observability.StageRender, name, func() error {
		var err error
		result.Artifacts, result.FigureHash, renderHit, err = r.RenderWithCacheInfo(ctx, result.Figure, opts)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.CacheInfo.RenderHit = renderHit
	r.Logger.Info("rendered outputs",
		"figure", name,
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// TrajectoryWithCacheInfo samples the trajectory with caching and returns
// cache hit info.
func (r *Runner) TrajectoryWithCacheInfo(ctx context.Context, eph ephemeris.Ephemeris, opts Options) (*ephemeris.Trajectory, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	srcHash, err := sourceHash(opts.Ephemeris)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.TrajectoryKey(srcHash, opts.TrajectoryKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var tr ephemeris.Trajectory
			if err := json.Unmarshal(data, &tr); err == nil && tr.Len() >= 2 {
				observability.Cache().OnCacheHit(ctx, keyTypeTrajectory)
				return &tr, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeTrajectory)
	}

	f := opts.Figure
	tr, err := ephemeris.Sample(ctx, eph, f.Start, f.End, f.Samples, opts.Ephemeris.Unit())
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(tr); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLTrajectory); err != nil {
			opts.Logger.Warn("cache write failed", "key", keyTypeTrajectory, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeTrajectory, len(data))
		}
	}
	return tr, false, nil
}

// Trajectory is a convenience wrapper that discards the cache hit info.
func (r *Runner) Trajectory(ctx context.Context, eph ephemeris.Ephemeris, opts Options) (*ephemeris.Trajectory, error) {
	tr, _, err := r.TrajectoryWithCacheInfo(ctx, eph, opts)
	return tr, err
}

// RenderWithCacheInfo encodes the figure in every requested format. It
// returns the artifacts, the figure hash they are keyed by and whether all
// of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f *figure.Figure, opts Options) (map[string][]byte, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, "", false, err
	}
	if err := f.Validate(); err != nil {
		return nil, "", false, err
	}
	svg := figure.RenderSVG(f)
	figureHash := cache.Hash(svg)

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(figureHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
				break
			}
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, figureHash, true, nil
		}
	}

	rendered, err := Render(ctx, f, svg, opts)
	if err != nil {
		return nil, "", false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(figureHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "key", keyTypeArtifact, "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return rendered, figureHash, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func runStage(ctx context.Context, stage, figure string, fn func() error) (time.Duration, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, stage, figure)
	start := time.Now()
	err := fn()
	d := time.Since(start)
	hooks.OnStageComplete(ctx, stage, figure, d, err)
	return d, err
}

// sourceHash identifies an ephemeris source. Table sources include the
// file contents so edits invalidate cached trajectories.
func sourceHash(src ephemeris.Source) (string, error) {
	h, err := cache.HashJSON(src)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash ephemeris source")
	}
	if src.Kind != ephemeris.KindTable {
		return h, nil
	}
	data, err := os.ReadFile(src.File)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "ephemeris table %s", src.File)
	}
	return cache.Hash([]byte(h + cache.Hash(data))), nil
}
