package figure

import (
	stderrors "errors"
	"image/color"
	"io/fs"

	"gonum.org/v1/gonum/mat"

	"github.com/neuroimg/fmriplot/pkg/errors"
	"github.com/neuroimg/fmriplot/pkg/tabular"
)

// Option configures figure composition.
type Option func(*options)

type options struct {
	confounds       *tabular.Table
	confoundsFile   string
	usecols         []string
	physio          *tabular.Table
	physioFile      string
	physioConfounds *tabular.Table
	physioConfFile  string
	tr              *float64
	units           map[string]string
	cutoffs         map[string]float64
	spikeFiles      []string
	nskip           int
	sortCarpet      bool
	pairedCarpet    bool
}

// WithConfounds supplies an in-memory confound table. Takes precedence over
// [WithConfoundsFile].
func WithConfounds(t *tabular.Table) Option {
	return func(o *options) { o.confounds = t }
}

// WithConfoundsFile supplies a whitespace/tab-delimited confound file to
// load during normalization. usecols, when non-empty, is a column
// allow-list; kept columns stay in file order.
func WithConfoundsFile(path string, usecols ...string) Option {
	return func(o *options) {
		o.confoundsFile = path
		o.usecols = usecols
	}
}

// WithPhysio supplies an in-memory physiological signal table.
func WithPhysio(t *tabular.Table) Option {
	return func(o *options) { o.physio = t }
}

// WithPhysioFile names a raw physiological recording to load. Loading physio
// recordings from files is not implemented; [New] fails with an UNSUPPORTED
// error when this option is set.
func WithPhysioFile(path string) Option {
	return func(o *options) { o.physioFile = path }
}

// WithPhysioConfounds supplies an in-memory table of physio-derived
// regressors.
func WithPhysioConfounds(t *tabular.Table) Option {
	return func(o *options) { o.physioConfounds = t }
}

// WithPhysioConfoundsFile names a physio-derivative file to load. Like
// [WithPhysioFile] this extension point is not implemented and makes [New]
// fail with an UNSUPPORTED error.
func WithPhysioConfoundsFile(path string) Option {
	return func(o *options) { o.physioConfFile = path }
}

// WithTR sets the repetition time in seconds. Without it, trace and carpet
// x axes are labeled in frame indices instead of elapsed time.
func WithTR(tr float64) Option {
	return func(o *options) { o.tr = &tr }
}

// WithUnits supplies a units-by-signal-name lookup. Names absent from the
// map yield unitless signals; map names matching no column are ignored.
func WithUnits(units map[string]string) Option {
	return func(o *options) { o.units = units }
}

// WithCutoffs supplies a cutoff-by-signal-name lookup for threshold lines.
// Cutoffs apply to the confound category only. Names absent from the map
// yield no threshold line; map names matching no column are ignored.
func WithCutoffs(cutoffs map[string]float64) Option {
	return func(o *options) { o.cutoffs = cutoffs }
}

// WithSpikeFiles names plain numeric spike files, one panel per file, in
// list order.
func WithSpikeFiles(paths ...string) Option {
	return func(o *options) { o.spikeFiles = append(o.spikeFiles, paths...) }
}

// WithSkip sets the number of leading timepoints excluded from the carpet
// panel (non-steady-state frames).
func WithSkip(n int) Option {
	return func(o *options) { o.nskip = n }
}

// WithSortCarpet controls within-segment row sorting of the carpet panel.
// Sorting is on by default.
func WithSortCarpet(sort bool) Option {
	return func(o *options) { o.sortCarpet = sort }
}

// WithPairedColormap switches the carpet panel to the qualitative paired
// colormap.
func WithPairedColormap(paired bool) Option {
	return func(o *options) { o.pairedCarpet = paired }
}

// Plot is a fully normalized summary figure, ready to compose. All fields
// are fixed at construction; [Plot.Compose] only reads them.
type Plot struct {
	Timeseries *mat.Dense
	Segments   Segments

	TR           *float64
	NSkip        int
	SortCarpet   bool
	PairedCarpet bool

	Confounds       []ConfoundSignal
	Physio          []PhysioSignal
	PhysioConfounds []PhysioConfoundSignal
	Spikes          []SpikeRecord
}

// New normalizes the inputs into a Plot. Every optional category may be
// absent; a carpet-only figure is valid. Unreadable or malformed confound
// and spike sources are fatal, with no partial result.
func New(timeseries *mat.Dense, segments Segments, opts ...Option) (*Plot, error) {
	if timeseries == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "imaging matrix is required")
	}

	o := options{sortCarpet: true}
	for _, opt := range opts {
		opt(&o)
	}

	if o.physioFile != "" {
		return nil, errors.New(errors.ErrCodeUnsupported, "loading physio recordings from %s: physio file input is not implemented", o.physioFile)
	}
	if o.physioConfFile != "" {
		return nil, errors.New(errors.ErrCodeUnsupported, "loading physio derivatives from %s: physio-confound file input is not implemented", o.physioConfFile)
	}

	nrows, _ := timeseries.Dims()
	if err := segments.Validate(nrows); err != nil {
		return nil, err
	}

	p := &Plot{
		Timeseries:   timeseries,
		Segments:     segments,
		TR:           o.tr,
		NSkip:        o.nskip,
		SortCarpet:   o.sortCarpet,
		PairedCarpet: o.pairedCarpet,
	}

	confounds := o.confounds
	if confounds == nil && o.confoundsFile != "" {
		var err error
		confounds, err = tabular.LoadTable(o.confoundsFile, o.usecols)
		if err != nil {
			return nil, wrapLoadError(err, errors.ErrCodeMalformedTable, "load confounds")
		}
	}
	if confounds != nil {
		for _, name := range confounds.Names() {
			values, _ := confounds.Column(name)
			p.Confounds = append(p.Confounds, ConfoundSignal{
				Name:   name,
				Values: values,
				Units:  o.units[name],
				Cutoff: lookupCutoff(o.cutoffs, name),
			})
		}
	}

	if o.physio != nil {
		for _, name := range o.physio.Names() {
			values, _ := o.physio.Column(name)
			p.Physio = append(p.Physio, PhysioSignal{
				Name:   name,
				Values: values,
				Units:  o.units[name],
			})
		}
	}

	if o.physioConfounds != nil {
		for _, name := range o.physioConfounds.Names() {
			values, _ := o.physioConfounds.Column(name)
			// Cutoff stays nil: cutoffs never apply to this category.
			p.PhysioConfounds = append(p.PhysioConfounds, PhysioConfoundSignal{
				Name:   name,
				Values: values,
				Units:  o.units[name],
			})
		}
	}

	for _, path := range o.spikeFiles {
		values, err := tabular.LoadArray(path)
		if err != nil {
			return nil, wrapLoadError(err, errors.ErrCodeMalformedArray, "load spikes")
		}
		p.Spikes = append(p.Spikes, SpikeRecord{Values: values})
	}

	return p, nil
}

// Rows returns the total grid row count: one row per signal in every
// category plus the carpet row.
func (p *Plot) Rows() int {
	return 1 + len(p.Confounds) + len(p.Spikes) + len(p.Physio) + len(p.PhysioConfounds)
}

// Grid returns the vertical grid for this plot.
func (p *Plot) Grid() Grid {
	return NewGrid(p.Rows())
}

// Palette returns the trace color assignment: one color per confound,
// physio and physio-confound signal, in that category order. Spikes use the
// spike renderer's own styling and take no palette slot. Returns nil when
// no trace category has signals.
func (p *Plot) Palette() []color.Color {
	return Palette(len(p.Confounds) + len(p.Physio) + len(p.PhysioConfounds))
}

// Compose renders every row of the figure through r, in the fixed order
// spikes, confounds, physio, physio-confounds, carpet. The carpet panel is
// always the last and tallest row. The renderer is supplied explicitly by
// the caller; there is no implicit process-wide figure.
func (p *Plot) Compose(r Renderer) error {
	if r == nil {
		return errors.New(errors.ErrCodeInvalidInput, "renderer is required")
	}

	regions := p.Grid().Regions()
	palette := p.Palette()
	row := 0

	for _, spike := range p.Spikes {
		r.RenderSpikes(regions[row], SpikesParams{
			Values:  spike.Values,
			Title:   spike.Title,
			TR:      p.TR,
			ZScored: spike.ZScored,
		})
		row++
	}

	nconfounds := len(p.Confounds)
	nphysio := len(p.Physio)

	for i, c := range p.Confounds {
		r.RenderTrace(regions[row], TraceParams{
			Values: c.Values,
			TR:     p.TR,
			Color:  palette[i],
			Name:   c.Name,
			Units:  c.Units,
			Cutoff: c.Cutoff,
		})
		row++
	}

	// The full physio series is plotted regardless of its sampling rate, so
	// no TR is attached to these rows.
	for i, ph := range p.Physio {
		r.RenderTrace(regions[row], TraceParams{
			Values: ph.Values,
			TR:     nil,
			Color:  palette[nconfounds+i],
			Name:   ph.Name,
			Units:  ph.Units,
		})
		row++
	}

	for i, pc := range p.PhysioConfounds {
		r.RenderTrace(regions[row], TraceParams{
			Values: pc.Values,
			TR:     p.TR,
			Color:  palette[nconfounds+nphysio+i],
			Name:   pc.Name,
			Units:  pc.Units,
			Cutoff: nil,
		})
		row++
	}

	colormap := ColormapDefault
	if p.PairedCarpet {
		colormap = ColormapPaired
	}
	r.RenderCarpet(regions[len(regions)-1], CarpetParams{
		Matrix:   p.Timeseries,
		Segments: p.Segments,
		TR:       p.TR,
		SortRows: p.SortCarpet,
		DropTRs:  p.NSkip,
		Colormap: colormap,
	})

	return nil
}

func lookupCutoff(cutoffs map[string]float64, name string) *float64 {
	if v, ok := cutoffs[name]; ok {
		return &v
	}
	return nil
}

func wrapLoadError(err error, parseCode errors.Code, msg string) error {
	code := parseCode
	if stderrors.Is(err, fs.ErrNotExist) {
		code = errors.ErrCodeFileNotFound
	}
	return errors.Wrap(code, err, "%s", msg)
}
