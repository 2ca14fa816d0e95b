// Package pkg provides the core libraries for fmriplot figure composition.
//
// # Overview
//
// Fmriplot composes the quality-control summary figure for an fMRI run: a
// carpet heatmap of the voxels-by-frames imaging matrix stacked under trace
// panels for confound regressors, physiological recordings, and spike
// regressors. The pkg directory is organized into four main areas:
//
//  1. [figure] - Domain logic (signal normalization, grid layout, panel order)
//  2. [render] - Raster drawing (canvas, colormaps, panel renderers)
//  3. [tabular] - Input parsing (confound tables, numeric arrays)
//  4. [pipeline] - Orchestration (load → normalize → compose)
//
// # Architecture
//
// The typical data flow through fmriplot:
//
//	Imaging matrix + signal files
//	         ↓
//	    [tabular] package (parse tables and arrays)
//	         ↓
//	    [figure] package (normalize signals, grid, palette)
//	         ↓
//	    [render] package (draw panels onto the canvas)
//	         ↓
//	    PNG output
//
// # Quick Start
//
// Compose a figure from files on disk:
//
//	result, err := pipeline.Execute(pipeline.Options{
//	    TimeseriesFile: "bold_carpet.txt",
//	    ConfoundsFile:  "confounds.tsv",
//	})
//
// Or build the figure model directly:
//
//	plot, err := figure.New(matrix, segments, figure.WithTR(2.0))
//	canvas, err := render.NewCanvas(0, 0)
//	err = plot.Compose(canvas)
//
// Supporting packages: [cache] stores composed artifacts, [errors] defines
// coded errors shared across surfaces, [observability] exposes hooks for
// instrumentation, and [buildinfo] carries version metadata.
package pkg
