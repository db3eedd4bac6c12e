package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orbitribbon/pkg/config"
	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/figure"
	"github.com/matzehuels/orbitribbon/pkg/pipeline"
)

// renderOpts holds flags for the render command.
type renderOpts struct {
	configPath string
	outputDir  string
	formats    string
	style      string
	dpi        float64
	noCache    bool
	nativePNG  bool
	refresh    bool
	cacheURL   string
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [figure...]",
		Short: "Render orbit figures",
		Long: `Render figures described in the config file.

Without arguments every configured figure is rendered. Each one is written as
<output-dir>/<figure>.<format>.`,
		Example: `  orbitribbon render
  orbitribbon render mag_orbit_plot -f svg,png
  orbitribbon render -c mission.toml --style plain -o out/`,
		ValidArgsFunction: completeFigures,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (default ./"+config.FileName+" or built-in)")
	f.StringVarP(&opts.outputDir, "output-dir", "o", "", "output directory (overrides config)")
	f.StringVarP(&opts.formats, "format", "f", "", "output formats: svg, png, pdf (comma-separated)")
	f.StringVar(&opts.style, "style", "", "palette: esa or plain")
	f.Float64Var(&opts.dpi, "dpi", 0, "raster resolution for PNG output")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.nativePNG, "native-png", false, "rasterize PNG without rsvg-convert")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	f.StringVar(&opts.cacheURL, "cache-url", "", "redis URL for a shared cache")

	return cmd
}

// runRender renders the named figures, or all of them.
func (c *CLI) runRender(ctx context.Context, names []string, opts renderOpts) error {
	cfg, path, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := applyRenderOverrides(cfg, opts); err != nil {
		return err
	}
	if path == "" {
		c.Logger.Debug("using built-in config")
	} else {
		c.Logger.Debug("loaded config", "path", path)
	}

	if len(names) == 0 {
		names = cfg.Names()
	}
	for _, name := range names {
		if _, err := cfg.Figure(name); err != nil {
			return err
		}
	}

	native, err := rasterBackend(cfg.Formats, opts.nativePNG)
	if err != nil {
		return err
	}

	outDir := opts.outputDir
	if outDir == "" {
		outDir = cfg.Path(cfg.OutputDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create output directory")
	}

	runner, err := c.newRunner(ctx, opts.cacheURL, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	for _, name := range names {
		res, err := c.renderFigure(ctx, runner, cfg, name, native, opts.refresh)
		if err != nil {
			return err
		}
		paths, err := writeArtifacts(outDir, name, cfg.Formats, res.Artifacts)
		if err != nil {
			return err
		}
		printSuccess("Rendered %s", StyleHighlight.Render(name))
		for _, p := range paths {
			printFile(p)
		}
		printStats(res)
	}
	prog.done(fmt.Sprintf("Rendered %d figure(s)", len(names)))
	return nil
}

// renderFigure runs the pipeline for one figure, with a spinner unless
// verbose logging is on.
func (c *CLI) renderFigure(ctx context.Context, runner *pipeline.Runner, cfg *config.Config, name string, native, refresh bool) (*pipeline.Result, error) {
	po, err := pipeline.OptionsFromConfig(cfg, name)
	if err != nil {
		return nil, err
	}
	po.NativePNG = native
	po.Refresh = refresh

	if c.verbose() {
		po.Logger = c.Logger
		return runner.Execute(ctx, po)
	}

	po.Logger = quietLogger(c.Logger, "pipeline")
	spinner := newSpinnerWithContext(ctx, "Rendering "+name+"...")
	spinner.Start()
	res, err := runner.Execute(ctx, po)
	if err != nil {
		spinner.StopWithError("Failed to render " + name)
		return nil, err
	}
	spinner.Stop()
	return res, nil
}

// applyRenderOverrides applies command-line flags on top of the config and
// re-validates it.
func applyRenderOverrides(cfg *config.Config, opts renderOpts) error {
	if opts.style != "" {
		cfg.Style = opts.style
	}
	if formats := parseFormats(opts.formats); formats != nil {
		cfg.Formats = formats
	}
	for i, f := range cfg.Formats {
		format, err := figure.ParseFormat(f)
		if err != nil {
			return err
		}
		cfg.Formats[i] = format
	}
	if opts.dpi != 0 {
		cfg.DPI = opts.dpi
	}
	return cfg.Validate()
}

// rasterBackend decides whether PNG output uses the built-in rasterizer.
// PDF output always needs rsvg-convert.
func rasterBackend(formats []string, native bool) (bool, error) {
	if figure.HaveRSVG() {
		return native, nil
	}
	if slices.Contains(formats, figure.FormatPDF) {
		return native, errors.New(errors.ErrCodeUnsupported, "pdf output needs rsvg-convert on PATH (install librsvg or drop pdf from formats)")
	}
	if slices.Contains(formats, figure.FormatPNG) && !native {
		printWarning("rsvg-convert not found, using the built-in PNG rasterizer")
	}
	return true, nil
}

// writeArtifacts writes one file per format and returns the paths in format
// order.
func writeArtifacts(dir, name string, formats []string, artifacts map[string][]byte) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		p := filepath.Join(dir, name+"."+format)
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return paths, errors.Wrap(errors.ErrCodeInternal, err, "write %s", p)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
