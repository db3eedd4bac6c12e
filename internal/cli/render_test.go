package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbitribbon/pkg/config"
	"github.com/matzehuels/orbitribbon/pkg/errors"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty uses config", "", nil},
		{"blank uses config", "  ", nil},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and empties", " png , ,svg", []string{"png", "svg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestApplyRenderOverrides(t *testing.T) {
	tests := []struct {
		name     string
		opts     renderOpts
		wantCode errors.Code
		check    func(*testing.T, *config.Config)
	}{
		{
			name: "no flags keeps config",
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Style != config.Default().Style {
					t.Errorf("style = %q", cfg.Style)
				}
			},
		},
		{
			name: "all flags",
			opts: renderOpts{style: "plain", formats: "png", dpi: 72},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Style != "plain" || !slices.Equal(cfg.Formats, []string{"png"}) || cfg.DPI != 72 {
					t.Errorf("got style=%q formats=%v dpi=%g", cfg.Style, cfg.Formats, cfg.DPI)
				}
			},
		},
		{
			name: "formats normalized",
			opts: renderOpts{formats: "SVG,.png"},
			check: func(t *testing.T, cfg *config.Config) {
				if !slices.Equal(cfg.Formats, []string{"svg", "png"}) {
					t.Errorf("formats = %v, want [svg png]", cfg.Formats)
				}
			},
		},
		{name: "bad style", opts: renderOpts{style: "neon"}, wantCode: errors.ErrCodeInvalidStyle},
		{name: "bad format", opts: renderOpts{formats: "gif"}, wantCode: errors.ErrCodeInvalidFormat},
		{name: "bad dpi", opts: renderOpts{dpi: -1}, wantCode: errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			err := applyRenderOverrides(cfg, tt.opts)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("applyRenderOverrides() error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{
		"svg": []byte("<svg/>"),
		"png": []byte("png"),
	}

	paths, err := writeArtifacts(dir, "mag_orbit_plot", []string{"png", "pdf", "svg"}, artifacts)
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "mag_orbit_plot.png"),
		filepath.Join(dir, "mag_orbit_plot.svg"),
	}
	if !slices.Equal(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(want[1])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("svg content = %q", data)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, from, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if from != "" {
		t.Errorf("from = %q, want built-in", from)
	}
	if len(cfg.Figures) != len(config.Default().Figures) {
		t.Errorf("figures = %d, want defaults", len(cfg.Figures))
	}

	if err := os.WriteFile(config.FileName, []byte("style = \"plain\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, from, err = loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if from != config.FileName || cfg.Style != "plain" {
		t.Errorf("from = %q style = %q, want %q plain", from, cfg.Style, config.FileName)
	}

	if _, _, err := loadConfig("missing.toml"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRunRenderUnknownFigure(t *testing.T) {
	t.Chdir(t.TempDir())

	c := New(&bytes.Buffer{}, log.InfoLevel)
	out := filepath.Join(t.TempDir(), "out")
	err := c.runRender(context.Background(), []string{"nope"}, renderOpts{noCache: true, formats: "svg", outputDir: out})
	if !errors.Is(err, errors.ErrCodeFigureNotFound) {
		t.Fatalf("error = %v, want FIGURE_NOT_FOUND", err)
	}
	if _, err := os.Stat(out); err == nil {
		t.Error("output directory created before figures were validated")
	}
}

func TestRootCommand(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()

	for _, name := range []string{"render", "config", "cache", "serve", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
