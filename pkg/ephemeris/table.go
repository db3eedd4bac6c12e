package ephemeris

import (
	"io"
	"os"
	"sort"
	"time"

	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/geom"
	"github.com/matzehuels/orbitribbon/pkg/instrument"
)

// Table interpolates positions from tabulated samples.
type Table struct {
	times []time.Time
	pos   []geom.Vec3
}

// LoadTable reads a CSV file with columns time,x,y,z (kilometres).
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "ephemeris table %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(f)
}

// ReadTable parses a position table. Rows may come in any order.
func ReadTable(r io.Reader) (*Table, error) {
	frame, err := instrument.ReadFrame(r)
	if err != nil {
		return nil, err
	}
	if len(frame.Columns) != 3 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "ephemeris table needs columns x,y,z, got %v", frame.Names())
	}
	if frame.Len() < 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "ephemeris table needs at least 2 rows, got %d", frame.Len())
	}

	t := &Table{times: frame.Index, pos: make([]geom.Vec3, frame.Len())}
	for i := range t.pos {
		t.pos[i] = geom.Vec3{
			X: frame.Columns[0].Values[i],
			Y: frame.Columns[1].Values[i],
			Z: frame.Columns[2].Values[i],
		}
	}
	sort.Sort(byTime{t})
	return t, nil
}

// Span returns the first and last tabulated times.
func (t *Table) Span() (time.Time, time.Time) {
	return t.times[0], t.times[len(t.times)-1]
}

// Position implements Ephemeris. Times outside the table fail with
// errors.ErrCodeOutOfRange.
func (t *Table) Position(at time.Time) (geom.Vec3, error) {
	first, last := t.Span()
	if at.Before(first) || at.After(last) {
		return geom.Vec3{}, errors.New(errors.ErrCodeOutOfRange, "%s outside ephemeris table [%s, %s]",
			at.Format(time.RFC3339), first.Format(time.RFC3339), last.Format(time.RFC3339))
	}
	i := sort.Search(len(t.times), func(i int) bool { return !t.times[i].Before(at) })
	if t.times[i].Equal(at) {
		return t.pos[i], nil
	}
	t0, t1 := t.times[i-1], t.times[i]
	f := float64(at.Sub(t0)) / float64(t1.Sub(t0))
	return geom.Lerp(t.pos[i-1], t.pos[i], f), nil
}

type byTime struct{ t *Table }

func (b byTime) Len() int           { return len(b.t.times) }
func (b byTime) Less(i, j int) bool { return b.t.times[i].Before(b.t.times[j]) }
func (b byTime) Swap(i, j int) {
	b.t.times[i], b.t.times[j] = b.t.times[j], b.t.times[i]
	b.t.pos[i], b.t.pos[j] = b.t.pos[j], b.t.pos[i]
}
