// Package pipeline provides the load → normalize → compose pipeline shared
// by the fmriplot CLI and HTTP service.
//
// By centralizing this logic we ensure both entry points resolve inputs,
// build the figure and encode the artifact identically, and that a cached
// artifact produced through one surface is valid for the other.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read the imaging matrix and any optional signal sources
//  2. Normalize: build the figure.Plot (ordered signal records, grid,
//     palette)
//  3. Compose: render every panel onto a canvas and encode it as PNG
//
// # Usage
//
//	opts := pipeline.Options{
//	    TimeseriesFile: "bold_carpet.txt",
//	    ConfoundsFile:  "confounds.tsv",
//	    TR:             ptr(2.0),
//	}
//	result, err := pipeline.Execute(opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("summary.png", result.PNG, 0644)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/neuroimg/fmriplot/pkg/cache"
	"github.com/neuroimg/fmriplot/pkg/errors"
	"github.com/neuroimg/fmriplot/pkg/figure"
	"github.com/neuroimg/fmriplot/pkg/render"
)

// Default canvas size for composed figures.
const (
	// DefaultWidth is the default figure width in pixels.
	DefaultWidth = render.DefaultWidth

	// DefaultHeight is the default figure height in pixels.
	DefaultHeight = render.DefaultHeight
)

// SegmentSpec names a tissue segment and the imaging-matrix rows it covers.
// Rows can be listed explicitly or given as a half-open [Start, End) range;
// when both are present the explicit list wins.
type SegmentSpec struct {
	Label string `json:"label" toml:"label"`
	Rows  []int  `json:"rows,omitempty" toml:"rows"`
	Start int    `json:"start,omitempty" toml:"start"`
	End   int    `json:"end,omitempty" toml:"end"`
}

// Options contains all configuration for one figure composition.
// The struct serializes to JSON for API requests and to TOML for CLI
// figure-spec files.
type Options struct {
	// Load options
	TimeseriesFile string        `json:"timeseries_file" toml:"timeseries_file"`
	Segments       []SegmentSpec `json:"segments,omitempty" toml:"segments"`
	ConfoundsFile  string        `json:"confounds_file,omitempty" toml:"confounds_file"`
	UseCols        []string      `json:"usecols,omitempty" toml:"usecols"`
	SpikeFiles     []string      `json:"spike_files,omitempty" toml:"spike_files"`

	// Normalize options
	TR           *float64           `json:"tr,omitempty" toml:"tr"`
	Units        map[string]string  `json:"units,omitempty" toml:"units"`
	Cutoffs      map[string]float64 `json:"cutoffs,omitempty" toml:"cutoffs"`
	NSkip        int                `json:"nskip,omitempty" toml:"nskip"`
	SortCarpet   *bool              `json:"sort_carpet,omitempty" toml:"sort_carpet"`
	PairedCarpet bool               `json:"paired_carpet,omitempty" toml:"paired_carpet"`

	// Compose options
	Width  int `json:"width,omitempty" toml:"width"`
	Height int `json:"height,omitempty" toml:"height"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// PNG is the encoded figure artifact.
	PNG []byte

	// Rows is the total grid row count of the composed figure.
	Rows int

	// Stats contains timing information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SignalCount int
	LoadTime    time.Duration
	ComposeTime time.Duration
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.TimeseriesFile == "" {
		return errors.New(errors.ErrCodeInvalidInput, "timeseries_file is required")
	}
	for _, seg := range o.Segments {
		if seg.Label == "" {
			return errors.New(errors.ErrCodeInvalidSegment, "segment without a label")
		}
		if len(seg.Rows) == 0 && seg.End <= seg.Start {
			return errors.New(errors.ErrCodeInvalidSegment, "segment %q has neither rows nor a range", seg.Label)
		}
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// FigureSegments converts the segment specs to the figure model.
func (o *Options) FigureSegments() figure.Segments {
	segments := make(figure.Segments, 0, len(o.Segments))
	for _, spec := range o.Segments {
		rows := spec.Rows
		if len(rows) == 0 {
			for r := spec.Start; r < spec.End; r++ {
				rows = append(rows, r)
			}
		}
		segments = append(segments, figure.Segment{Label: spec.Label, Rows: rows})
	}
	return segments
}

// CacheKey returns the content-addressed cache key for this request.
// Runtime-only fields do not participate.
func (o *Options) CacheKey() string {
	return cache.FigureKey(
		o.TimeseriesFile, o.Segments, o.ConfoundsFile, o.UseCols, o.SpikeFiles,
		o.TR, o.Units, o.Cutoffs, o.NSkip, o.SortCarpet, o.PairedCarpet,
		o.Width, o.Height,
	)
}

// sortCarpet resolves the tri-state sort flag; sorting defaults to on.
func (o *Options) sortCarpet() bool {
	if o.SortCarpet == nil {
		return true
	}
	return *o.SortCarpet
}
