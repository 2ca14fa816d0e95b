package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/neuroimg/fmriplot/pkg/pipeline"
)

// artifactTTL bounds how long composed figures stay in the local cache.
const artifactTTL = 0 // never expire; the cache is content-addressed

// composeOpts holds the command-line flags for the compose command.
type composeOpts struct {
	output   string   // output PNG path (default: <input>.png)
	specFile string   // TOML figure-spec file
	segments []string // segment definitions, "label:start-end"
	usecols  []string // confound columns to load
	units    []string // unit overrides, "name=unit"
	cutoffs  []string // threshold overrides, "name=value"
	tr       float64  // repetition time in seconds
	nskip    int      // initial frames to mark as skipped
	noSort   bool     // disable within-segment carpet sorting
	paired   bool     // use the qualitative paired carpet colormap
	width    int      // canvas width in pixels
	height   int      // canvas height in pixels
	noCache  bool     // bypass the artifact cache
	pick     bool     // pick confound columns interactively
}

// composeCommand creates the compose command for producing summary figures.
func (c *CLI) composeCommand() *cobra.Command {
	var opts composeOpts
	var confounds string
	var spikes []string

	cmd := &cobra.Command{
		Use:   "compose [timeseries]",
		Short: "Compose a quality-control summary figure",
		Long: `Compose a quality-control summary figure from an imaging matrix.

The timeseries argument is a whitespace-delimited text file holding the
voxels-by-frames imaging matrix. Confound traces, spike regressors, tissue
segments, and display options can be given as flags or collected in a TOML
figure-spec file passed with --spec. Flags override spec-file values.

Results are cached locally so repeated compositions are instant.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := buildOptions(cmd, args, &opts, confounds, spikes)
			if err != nil {
				return err
			}
			return c.runCompose(cmd.Context(), popts, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PNG file (default: <input>.png)")
	cmd.Flags().StringVar(&opts.specFile, "spec", "", "TOML figure-spec file")
	cmd.Flags().StringVar(&confounds, "confounds", "", "confounds table file (whitespace or tab delimited)")
	cmd.Flags().StringSliceVar(&opts.usecols, "usecols", nil, "confound columns to load (default: all)")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "pick confound columns interactively")
	cmd.Flags().StringSliceVar(&spikes, "spikes", nil, "spike regressor array file (repeatable)")
	cmd.Flags().StringSliceVar(&opts.segments, "segment", nil, "tissue segment as label:start-end (repeatable)")
	cmd.Flags().Float64Var(&opts.tr, "tr", 0, "repetition time in seconds")
	cmd.Flags().StringSliceVar(&opts.units, "units", nil, "display units as name=unit (repeatable)")
	cmd.Flags().StringSliceVar(&opts.cutoffs, "cutoff", nil, "threshold line as name=value (repeatable)")
	cmd.Flags().IntVar(&opts.nskip, "nskip", 0, "number of initial frames to mark as skipped")
	cmd.Flags().BoolVar(&opts.noSort, "no-sort", false, "disable within-segment carpet row sorting")
	cmd.Flags().BoolVar(&opts.paired, "paired", false, "use the qualitative paired carpet colormap")
	cmd.Flags().IntVar(&opts.width, "width", 0, "canvas width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 0, "canvas height in pixels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// buildOptions merges the spec file, positional argument, and flags into
// pipeline options. Flags take precedence over spec-file values.
func buildOptions(cmd *cobra.Command, args []string, opts *composeOpts, confounds string, spikes []string) (*pipeline.Options, error) {
	popts := &pipeline.Options{}

	if opts.specFile != "" {
		if _, err := toml.DecodeFile(opts.specFile, popts); err != nil {
			return nil, fmt.Errorf("parse spec file %s: %w", opts.specFile, err)
		}
	}
	if len(args) > 0 {
		popts.TimeseriesFile = args[0]
	}

	if confounds != "" {
		popts.ConfoundsFile = confounds
	}
	if len(opts.usecols) > 0 {
		popts.UseCols = opts.usecols
	}
	if len(spikes) > 0 {
		popts.SpikeFiles = spikes
	}
	if len(opts.segments) > 0 {
		segs, err := parseSegments(opts.segments)
		if err != nil {
			return nil, err
		}
		popts.Segments = segs
	}
	if cmd.Flags().Changed("tr") {
		tr := opts.tr
		popts.TR = &tr
	}
	if len(opts.units) > 0 {
		units, err := parsePairs(opts.units)
		if err != nil {
			return nil, err
		}
		popts.Units = units
	}
	if len(opts.cutoffs) > 0 {
		cutoffs, err := parseFloatPairs(opts.cutoffs)
		if err != nil {
			return nil, err
		}
		popts.Cutoffs = cutoffs
	}
	if cmd.Flags().Changed("nskip") {
		popts.NSkip = opts.nskip
	}
	if opts.noSort {
		sort := false
		popts.SortCarpet = &sort
	}
	if opts.paired {
		popts.PairedCarpet = true
	}
	if opts.width > 0 {
		popts.Width = opts.width
	}
	if opts.height > 0 {
		popts.Height = opts.height
	}

	return popts, nil
}

// runCompose executes the pipeline and writes the PNG artifact.
func (c *CLI) runCompose(ctx context.Context, popts *pipeline.Options, opts *composeOpts) error {
	popts.Logger = c.Logger

	if opts.pick {
		cols, err := pickColumns(popts.ConfoundsFile)
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			printWarning("No columns selected; composing without confounds")
			popts.ConfoundsFile = ""
			popts.UseCols = nil
		} else {
			popts.UseCols = cols
		}
	}

	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	artifacts, err := newCache(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer artifacts.Close()

	outputPath := opts.output
	if outputPath == "" {
		base := strings.TrimSuffix(popts.TimeseriesFile, filepath.Ext(popts.TimeseriesFile))
		outputPath = base + ".png"
	}

	key := popts.CacheKey()
	if png, ok, err := artifacts.Get(ctx, key); err == nil && ok {
		if err := os.WriteFile(outputPath, png, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", outputPath, err)
		}
		printSuccess("Figure composed")
		printFile(outputPath)
		printStats(0, 0, true)
		return nil
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Composing figure...")
	spinner.Start()

	result, err := pipeline.Execute(*popts)
	if err != nil {
		spinner.StopWithError("Composition failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Composed %d panels", result.Rows))

	if err := os.WriteFile(outputPath, result.PNG, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	if err := artifacts.Set(ctx, key, result.PNG, artifactTTL); err != nil {
		c.Logger.Warn("cache store failed", "error", err)
	}

	printSuccess("Figure composed")
	printFile(outputPath)
	printStats(result.Rows, result.Stats.SignalCount, false)

	return nil
}

// =============================================================================
// Flag Parsing
// =============================================================================

// parseSegments parses "label:start-end" definitions into segment specs.
// The range is half-open: "cortex:0-120" covers rows 0 through 119.
func parseSegments(defs []string) ([]pipeline.SegmentSpec, error) {
	specs := make([]pipeline.SegmentSpec, 0, len(defs))
	for _, def := range defs {
		label, rng, ok := strings.Cut(def, ":")
		if !ok || label == "" {
			return nil, fmt.Errorf("invalid segment %q (want label:start-end)", def)
		}
		lo, hi, ok := strings.Cut(rng, "-")
		if !ok {
			return nil, fmt.Errorf("invalid segment range %q (want start-end)", rng)
		}
		start, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("invalid segment start %q: %w", lo, err)
		}
		end, err := strconv.Atoi(hi)
		if err != nil {
			return nil, fmt.Errorf("invalid segment end %q: %w", hi, err)
		}
		specs = append(specs, pipeline.SegmentSpec{Label: label, Start: start, End: end})
	}
	return specs, nil
}

// parsePairs parses "name=value" definitions into a string map.
func parsePairs(defs []string) (map[string]string, error) {
	pairs := make(map[string]string, len(defs))
	for _, def := range defs {
		name, value, ok := strings.Cut(def, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid pair %q (want name=value)", def)
		}
		pairs[name] = value
	}
	return pairs, nil
}

// parseFloatPairs parses "name=number" definitions into a float map.
func parseFloatPairs(defs []string) (map[string]float64, error) {
	raw, err := parsePairs(defs)
	if err != nil {
		return nil, err
	}
	pairs := make(map[string]float64, len(raw))
	for name, value := range raw {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid cutoff %q for %s: %w", value, name, err)
		}
		pairs[name] = f
	}
	return pairs, nil
}
