package pipeline

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/neuroimg/fmriplot/pkg/errors"
	"github.com/neuroimg/fmriplot/pkg/figure"
	"github.com/neuroimg/fmriplot/pkg/observability"
	"github.com/neuroimg/fmriplot/pkg/render"
	"github.com/neuroimg/fmriplot/pkg/tabular"
)

// Execute runs the full pipeline: load the imaging matrix, normalize every
// optional signal source into a figure, compose it onto a fresh canvas and
// encode the PNG artifact. All failures are terminal; there are no retries
// and no partial results.
func Execute(opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	loadStart := time.Now()
	observability.Compose().OnLoadStart(opts.TimeseriesFile)
	timeseries, err := tabular.LoadArray(opts.TimeseriesFile)
	if err != nil {
		observability.Compose().OnLoadComplete(opts.TimeseriesFile, 0, 0, time.Since(loadStart), err)
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "load timeseries")
		}
		return nil, errors.Wrap(errors.ErrCodeMalformedArray, err, "load timeseries")
	}
	nvoxels, nframes := timeseries.Dims()
	logger.Debug("loaded imaging matrix", "voxels", nvoxels, "frames", nframes)

	plot, err := buildPlot(timeseries, opts)
	if err != nil {
		return nil, err
	}
	loadTime := time.Since(loadStart)
	observability.Compose().OnLoadComplete(opts.TimeseriesFile, nvoxels, nframes, loadTime, nil)

	signals := len(plot.Confounds) + len(plot.Physio) + len(plot.PhysioConfounds) + len(plot.Spikes)
	logger.Debug("normalized signals", "count", signals, "rows", plot.Rows())

	composeStart := time.Now()
	observability.Compose().OnComposeStart(plot.Rows())
	canvas, err := render.NewCanvas(opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("create canvas: %w", err)
	}
	if err := plot.Compose(canvas); err != nil {
		observability.Compose().OnComposeComplete(plot.Rows(), time.Since(composeStart), err)
		return nil, fmt.Errorf("compose: %w", err)
	}

	var buf bytes.Buffer
	if err := canvas.EncodePNG(&buf); err != nil {
		return nil, err
	}
	composeTime := time.Since(composeStart)
	observability.Compose().OnComposeComplete(plot.Rows(), composeTime, nil)

	logger.Debug("composed figure",
		"rows", plot.Rows(),
		"load", loadTime.Round(time.Millisecond),
		"compose", composeTime.Round(time.Millisecond))

	return &Result{
		PNG:  buf.Bytes(),
		Rows: plot.Rows(),
		Stats: Stats{
			SignalCount: signals,
			LoadTime:    loadTime,
			ComposeTime: composeTime,
		},
	}, nil
}

// buildPlot translates pipeline options into figure options and normalizes.
func buildPlot(timeseries *mat.Dense, opts Options) (*figure.Plot, error) {
	var figOpts []figure.Option
	if opts.ConfoundsFile != "" {
		figOpts = append(figOpts, figure.WithConfoundsFile(opts.ConfoundsFile, opts.UseCols...))
	}
	if len(opts.SpikeFiles) > 0 {
		figOpts = append(figOpts, figure.WithSpikeFiles(opts.SpikeFiles...))
	}
	if opts.TR != nil {
		figOpts = append(figOpts, figure.WithTR(*opts.TR))
	}
	if len(opts.Units) > 0 {
		figOpts = append(figOpts, figure.WithUnits(opts.Units))
	}
	if len(opts.Cutoffs) > 0 {
		figOpts = append(figOpts, figure.WithCutoffs(opts.Cutoffs))
	}
	figOpts = append(figOpts,
		figure.WithSkip(opts.NSkip),
		figure.WithSortCarpet(opts.sortCarpet()),
		figure.WithPairedColormap(opts.PairedCarpet),
	)

	return figure.New(timeseries, opts.FigureSegments(), figOpts...)
}
