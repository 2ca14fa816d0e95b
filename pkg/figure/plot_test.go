package figure

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/neuroimg/fmriplot/pkg/errors"
	"github.com/neuroimg/fmriplot/pkg/tabular"
)

// recorder is a Renderer that records every delegation in call order.
type recorder struct {
	kinds   []string
	regions []Region
	spikes  []SpikesParams
	traces  []TraceParams
	carpets []CarpetParams
}

func (r *recorder) RenderSpikes(region Region, p SpikesParams) {
	r.kinds = append(r.kinds, "spikes")
	r.regions = append(r.regions, region)
	r.spikes = append(r.spikes, p)
}

func (r *recorder) RenderTrace(region Region, p TraceParams) {
	r.kinds = append(r.kinds, "trace")
	r.regions = append(r.regions, region)
	r.traces = append(r.traces, p)
}

func (r *recorder) RenderCarpet(region Region, p CarpetParams) {
	r.kinds = append(r.kinds, "carpet")
	r.regions = append(r.regions, region)
	r.carpets = append(r.carpets, p)
}

func testMatrix() *mat.Dense {
	return mat.NewDense(4, 6, []float64{
		1, 2, 3, 4, 5, 6,
		2, 3, 4, 5, 6, 7,
		0, 1, 0, 1, 0, 1,
		5, 4, 3, 2, 1, 0,
	})
}

func testSegments() Segments {
	return Segments{
		{Label: "cortex", Rows: []int{0, 1}},
		{Label: "white matter", Rows: []int{2, 3}},
	}
}

func mustTable(t *testing.T, names []string, cols [][]float64) *tabular.Table {
	t.Helper()
	tbl, err := tabular.NewTable(names, cols)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func writeSpikeFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("0.1 0.2 0.3\n0.4 0.5 0.6\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestComposeRowOrder(t *testing.T) {
	confounds := mustTable(t,
		[]string{"FD", "DVARS"},
		[][]float64{{0.1, 0.2, 0.3}, {10, 11, 12}},
	)
	physio := mustTable(t, []string{"cardiac"}, [][]float64{{1, 2, 3, 4, 5}})
	physioConf := mustTable(t, []string{"HR_reg"}, [][]float64{{60, 61, 62}})

	p, err := New(testMatrix(), testSegments(),
		WithConfounds(confounds),
		WithPhysio(physio),
		WithPhysioConfounds(physioConf),
		WithSpikeFiles(writeSpikeFile(t, "spikes.txt")),
		WithTR(2.0),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := p.Rows(); got != 6 {
		t.Fatalf("Rows() = %d, want 6", got)
	}

	rec := &recorder{}
	if err := p.Compose(rec); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	wantKinds := []string{"spikes", "trace", "trace", "trace", "trace", "carpet"}
	if len(rec.kinds) != len(wantKinds) {
		t.Fatalf("kinds = %v, want %v", rec.kinds, wantKinds)
	}
	for i := range wantKinds {
		if rec.kinds[i] != wantKinds[i] {
			t.Errorf("call %d = %q, want %q", i, rec.kinds[i], wantKinds[i])
		}
	}

	// Category blocks keep input order: confounds, then physio, then
	// physio-confounds.
	wantNames := []string{"FD", "DVARS", "cardiac", "HR_reg"}
	for i, name := range wantNames {
		if rec.traces[i].Name != name {
			t.Errorf("trace %d = %q, want %q", i, rec.traces[i].Name, name)
		}
	}

	// Rows are handed out top to bottom, carpet last and tallest.
	for i, region := range rec.regions {
		if region.Row != i {
			t.Errorf("call %d got region row %d", i, region.Row)
		}
	}
	carpetRegion := rec.regions[len(rec.regions)-1]
	for _, region := range rec.regions[:len(rec.regions)-1] {
		if carpetRegion.H <= region.H {
			t.Errorf("carpet region height %v not larger than row height %v", carpetRegion.H, region.H)
		}
	}
}

func TestComposeScenarioA(t *testing.T) {
	confounds := mustTable(t,
		[]string{"FD", "DVARS"},
		[][]float64{{0.1, 0.2}, {10, 11}},
	)

	p, err := New(testMatrix(), testSegments(),
		WithConfounds(confounds),
		WithTR(2.0),
		WithSkip(4),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := p.Rows(); got != 3 {
		t.Fatalf("Rows() = %d, want 3", got)
	}

	rec := &recorder{}
	if err := p.Compose(rec); err != nil {
		t.Fatal(err)
	}

	if len(rec.carpets) != 1 {
		t.Fatalf("carpet rendered %d times", len(rec.carpets))
	}
	carpet := rec.carpets[0]
	if carpet.DropTRs != 4 {
		t.Errorf("carpet DropTRs = %d, want 4", carpet.DropTRs)
	}
	if carpet.TR == nil || *carpet.TR != 2.0 {
		t.Errorf("carpet TR = %v, want 2.0", carpet.TR)
	}
	for i, tr := range rec.traces {
		if tr.TR == nil || *tr.TR != 2.0 {
			t.Errorf("confound trace %d TR = %v, want 2.0", i, tr.TR)
		}
	}
}

func TestComposeScenarioB(t *testing.T) {
	p, err := New(testMatrix(), testSegments(),
		WithSpikeFiles(writeSpikeFile(t, "spikes.txt")),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := p.Rows(); got != 2 {
		t.Fatalf("Rows() = %d, want 2", got)
	}
	if pal := p.Palette(); pal != nil {
		t.Errorf("Palette() = %v, want nil with no trace signals", pal)
	}

	rec := &recorder{}
	if err := p.Compose(rec); err != nil {
		t.Fatal(err)
	}
	if len(rec.traces) != 0 {
		t.Errorf("rendered %d traces, want 0", len(rec.traces))
	}
	if len(rec.spikes) != 1 || len(rec.carpets) != 1 {
		t.Errorf("spikes/carpets = %d/%d, want 1/1", len(rec.spikes), len(rec.carpets))
	}

	sp := rec.spikes[0]
	if sp.Title != "" {
		t.Errorf("spike title = %q, want empty", sp.Title)
	}
	if sp.ZScored {
		t.Error("spike record should not be z-scored")
	}
}

func TestComposeScenarioC(t *testing.T) {
	confounds := mustTable(t,
		[]string{"FD", "DVARS"},
		[][]float64{{0.1, 0.2}, {10, 11}},
	)

	p, err := New(testMatrix(), testSegments(),
		WithConfounds(confounds),
		WithUnits(map[string]string{"FD": "mm"}),
		WithCutoffs(map[string]float64{"FD": 0.5}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	fd, dvars := p.Confounds[0], p.Confounds[1]
	if fd.Units != "mm" {
		t.Errorf("FD units = %q, want mm", fd.Units)
	}
	if fd.Cutoff == nil || *fd.Cutoff != 0.5 {
		t.Errorf("FD cutoff = %v, want 0.5", fd.Cutoff)
	}
	if dvars.Units != "" {
		t.Errorf("DVARS units = %q, want empty", dvars.Units)
	}
	if dvars.Cutoff != nil {
		t.Errorf("DVARS cutoff = %v, want nil", dvars.Cutoff)
	}
}

func TestComposeScenarioD(t *testing.T) {
	physioConf := mustTable(t, []string{"HR_reg"}, [][]float64{{60, 61}})

	p, err := New(testMatrix(), testSegments(),
		WithPhysioConfounds(physioConf),
		WithCutoffs(map[string]float64{"HR_reg": 1.0}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if p.PhysioConfounds[0].Cutoff != nil {
		t.Errorf("physio-confound cutoff = %v, want nil", p.PhysioConfounds[0].Cutoff)
	}

	rec := &recorder{}
	if err := p.Compose(rec); err != nil {
		t.Fatal(err)
	}
	if rec.traces[0].Cutoff != nil {
		t.Errorf("rendered cutoff = %v, want nil", rec.traces[0].Cutoff)
	}
}

func TestPhysioNeverReceivesTR(t *testing.T) {
	physio := mustTable(t, []string{"respiratory"}, [][]float64{{1, 2, 3}})

	p, err := New(testMatrix(), testSegments(),
		WithPhysio(physio),
		WithTR(2.5),
	)
	if err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	if err := p.Compose(rec); err != nil {
		t.Fatal(err)
	}
	if rec.traces[0].TR != nil {
		t.Errorf("physio trace TR = %v, want nil", rec.traces[0].TR)
	}
}

func TestPaletteOffsets(t *testing.T) {
	confounds := mustTable(t, []string{"FD"}, [][]float64{{0.1}})
	physio := mustTable(t, []string{"cardiac"}, [][]float64{{1}})
	physioConf := mustTable(t, []string{"HR_reg"}, [][]float64{{60}})

	p, err := New(testMatrix(), testSegments(),
		WithConfounds(confounds),
		WithPhysio(physio),
		WithPhysioConfounds(physioConf),
	)
	if err != nil {
		t.Fatal(err)
	}

	palette := p.Palette()
	if len(palette) != 3 {
		t.Fatalf("palette size = %d, want 3", len(palette))
	}

	rec := &recorder{}
	if err := p.Compose(rec); err != nil {
		t.Fatal(err)
	}

	// Confound at palette[0], physio at palette[C+0], physio-confound at
	// palette[C+P+0].
	for i := range rec.traces {
		if rec.traces[i].Color != palette[i] {
			t.Errorf("trace %d color = %v, want palette[%d] = %v", i, rec.traces[i].Color, i, palette[i])
		}
	}

	// Identical category sizes must reproduce the same assignment.
	rec2 := &recorder{}
	if err := p.Compose(rec2); err != nil {
		t.Fatal(err)
	}
	for i := range rec.traces {
		if rec.traces[i].Color != rec2.traces[i].Color {
			t.Errorf("trace %d color differs across composes", i)
		}
	}
}

func TestCarpetOnly(t *testing.T) {
	p, err := New(testMatrix(), testSegments())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := p.Rows(); got != 1 {
		t.Fatalf("Rows() = %d, want 1", got)
	}

	rec := &recorder{}
	if err := p.Compose(rec); err != nil {
		t.Fatal(err)
	}
	if len(rec.kinds) != 1 || rec.kinds[0] != "carpet" {
		t.Errorf("kinds = %v, want [carpet]", rec.kinds)
	}
}

func TestCarpetFlags(t *testing.T) {
	p, err := New(testMatrix(), testSegments())
	if err != nil {
		t.Fatal(err)
	}
	if !p.SortCarpet {
		t.Error("SortCarpet should default to true")
	}

	p, err = New(testMatrix(), testSegments(),
		WithSortCarpet(false),
		WithPairedColormap(true),
	)
	if err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	if err := p.Compose(rec); err != nil {
		t.Fatal(err)
	}
	carpet := rec.carpets[0]
	if carpet.SortRows {
		t.Error("carpet SortRows = true, want false")
	}
	if carpet.Colormap != ColormapPaired {
		t.Errorf("carpet colormap = %q, want %q", carpet.Colormap, ColormapPaired)
	}
}

func TestConfoundsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "confounds.tsv")
	content := "FD\tDVARS\tGSR\n0.1\t10\t1.5\n0.2\t11\t1.6\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := New(testMatrix(), testSegments(),
		WithConfoundsFile(path, "FD", "GSR"),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if len(p.Confounds) != 2 {
		t.Fatalf("got %d confounds, want 2", len(p.Confounds))
	}
	if p.Confounds[0].Name != "FD" || p.Confounds[1].Name != "GSR" {
		t.Errorf("confound names = %q, %q; want FD, GSR", p.Confounds[0].Name, p.Confounds[1].Name)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name     string
		ts       *mat.Dense
		segments Segments
		opts     []Option
		wantCode errors.Code
	}{
		{
			"nil matrix",
			nil, nil, nil,
			errors.ErrCodeInvalidInput,
		},
		{
			"physio file unsupported",
			testMatrix(), testSegments(),
			[]Option{WithPhysioFile("cardiac.phys")},
			errors.ErrCodeUnsupported,
		},
		{
			"physio confound file unsupported",
			testMatrix(), testSegments(),
			[]Option{WithPhysioConfoundsFile("hr.tsv")},
			errors.ErrCodeUnsupported,
		},
		{
			"segment out of range",
			testMatrix(), Segments{{Label: "cortex", Rows: []int{99}}},
			nil,
			errors.ErrCodeInvalidSegment,
		},
		{
			"missing confounds file",
			testMatrix(), testSegments(),
			[]Option{WithConfoundsFile("/nonexistent/confounds.tsv")},
			errors.ErrCodeFileNotFound,
		},
		{
			"missing spikes file",
			testMatrix(), testSegments(),
			[]Option{WithSpikeFiles("/nonexistent/spikes.txt")},
			errors.ErrCodeFileNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.ts, tt.segments, tt.opts...)
			if err == nil {
				t.Fatal("New() expected error")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("New() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestNewMalformedSpikes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spikes.txt")
	if err := os.WriteFile(path, []byte("1 2\n3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := New(testMatrix(), testSegments(), WithSpikeFiles(path))
	if !errors.Is(err, errors.ErrCodeMalformedArray) {
		t.Errorf("New() error = %v, want MALFORMED_ARRAY", err)
	}
}

func TestComposeNilRenderer(t *testing.T) {
	p, err := New(testMatrix(), testSegments())
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Compose(nil); err == nil {
		t.Error("Compose(nil) expected error")
	}
}
