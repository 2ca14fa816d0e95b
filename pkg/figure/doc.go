// Package figure composes the fMRI summary figure: a voxel-by-time carpet
// heatmap stacked under time-synchronized nuisance, physiological and spike
// trace panels.
//
// The package owns the three responsibilities that make the figure
// reproducible:
//
//  1. Normalization: heterogeneous inputs (in-memory tables, confound file
//     paths, spike files, lookup maps for units and cutoffs) become ordered,
//     uniform signal records. Input order is preserved end to end.
//  2. Layout: a vertical grid with one row per signal plus a final carpet
//     row five times as tall, and a deterministic categorical palette shared
//     by the trace categories.
//  3. Orchestration: one synchronous pass that hands every row to a
//     [Renderer] in a fixed order (spikes, confounds, physio,
//     physio-confounds, carpet last).
//
// Actual drawing is delegated through the [Renderer] interface; the gg-backed
// implementation lives in package render.
//
// # Usage
//
//	plot, err := figure.New(timeseries, segments,
//	    figure.WithConfoundsFile("confounds.tsv", "framewise_displacement", "std_dvars"),
//	    figure.WithTR(2.0),
//	    figure.WithUnits(map[string]string{"framewise_displacement": "mm"}),
//	    figure.WithCutoffs(map[string]float64{"framewise_displacement": 0.5}),
//	)
//	if err != nil {
//	    return err
//	}
//	canvas, err := render.NewCanvas(1200, 900)
//	if err != nil {
//	    return err
//	}
//	if err := plot.Compose(canvas); err != nil {
//	    return err
//	}
//	canvas.SavePNG("bold_summary.png")
package figure
