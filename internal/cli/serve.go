package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orbitribbon/internal/server"
	"github.com/matzehuels/orbitribbon/pkg/config"
	"github.com/matzehuels/orbitribbon/pkg/figure"
	"github.com/matzehuels/orbitribbon/pkg/observability"
)

// shutdownTimeout bounds how long in-flight requests may finish after an
// interrupt.
const shutdownTimeout = 5 * time.Second

// serveOpts holds flags for the serve command.
type serveOpts struct {
	configPath string
	addr       string
	noCache    bool
	nativePNG  bool
	noMetrics  bool
	cacheURL   string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview figures over HTTP",
		Long: `Serve the configured figures over HTTP. Figures are rendered on first request
and cached like the render command does.

  GET /figures                 list figures
  GET /figures/<name>.<format> render one figure (svg, png or pdf)
  GET /metrics                 Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (default ./"+config.FileName+" or built-in)")
	f.StringVar(&opts.addr, "addr", "localhost:8080", "listen address")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.nativePNG, "native-png", false, "rasterize PNG without rsvg-convert")
	f.BoolVar(&opts.noMetrics, "no-metrics", false, "do not expose /metrics")
	f.StringVar(&opts.cacheURL, "cache-url", "", "redis URL for a shared cache")

	return cmd
}

// runServe runs the preview server until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, _, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.cacheURL, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var srvOpts []server.Option
	if opts.nativePNG || !figure.HaveRSVG() {
		srvOpts = append(srvOpts, server.WithNativePNG())
	}
	if !opts.noMetrics {
		m, err := observability.NewMetrics(prometheus.NewRegistry())
		if err != nil {
			return err
		}
		m.Install()
		defer observability.Reset()
		srvOpts = append(srvOpts, server.WithMetrics(m.Handler()))
	}

	ln, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           server.New(cfg, runner, c.Logger.WithPrefix("http"), srvOpts...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	printSuccess("Serving %d figure(s)", len(cfg.Figures))
	printFile(StyleLink.Render("http://" + ln.Addr().String() + "/figures"))
	c.Logger.Debug("listening", "addr", ln.Addr().String(), "metrics", !opts.noMetrics)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			c.Logger.Warn("shutdown", "error", err)
		}
		return ctx.Err()
	}
}
