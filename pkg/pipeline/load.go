package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/orbitribbon/pkg/config"
	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/instrument"
	"github.com/matzehuels/orbitribbon/pkg/plots"
	"github.com/matzehuels/orbitribbon/pkg/timeseries"
)

// Data is the instrument data of one figure. Only the field matching the
// figure kind is set.
type Data struct {
	EPT plots.EPTData
	MAG *timeseries.Frame
}

// Rows returns the number of loaded samples.
func (d Data) Rows() int {
	n := 0
	for _, f := range []*timeseries.Frame{d.EPT.Ion, d.EPT.Electron, d.MAG} {
		if f != nil {
			n += f.Len()
		}
	}
	return n
}

// Load reads the instrument files of the figure, restricted to its time
// range.
func (r *Runner) Load(ctx context.Context, opts Options) (Data, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Data{}, err
	}
	if err := ctx.Err(); err != nil {
		return Data{}, err
	}
	f := opts.Figure

	switch f.Kind {
	case config.KindEPT:
		ion, err := instrument.LoadEPT(opts.ResolvePath(f.EPT.IonFile), f.Start, f.End)
		if err != nil {
			return Data{}, fmt.Errorf("ion rates: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return Data{}, err
		}
		electron, err := instrument.LoadEPT(opts.ResolvePath(f.EPT.ElectronFile), f.Start, f.End)
		if err != nil {
			return Data{}, fmt.Errorf("electron rates: %w", err)
		}
		opts.Logger.Debug("loaded EPT rates",
			"ion_rows", ion.Len(), "ion_channels", len(ion.Columns),
			"electron_rows", electron.Len(), "electron_channels", len(electron.Columns))
		return Data{EPT: plots.EPTData{Ion: ion, Electron: electron}}, nil

	case config.KindMAG:
		mag, err := instrument.LoadMAG(opts.ResolvePath(f.MAG.File), f.Start, f.End)
		if err != nil {
			return Data{}, fmt.Errorf("magnetic field: %w", err)
		}
		opts.Logger.Debug("loaded MAG field", "rows", mag.Len())
		return Data{MAG: mag}, nil
	}
	return Data{}, errors.New(errors.ErrCodeInvalidConfig, "unknown figure kind %q", f.Kind)
}
