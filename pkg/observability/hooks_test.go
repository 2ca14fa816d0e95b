package observability

import (
	"testing"
	"time"
)

type recordingComposeHooks struct {
	loads    []string
	composes []int
}

func (r *recordingComposeHooks) OnLoadStart(path string) {
	r.loads = append(r.loads, path)
}

func (r *recordingComposeHooks) OnLoadComplete(string, int, int, time.Duration, error) {}

func (r *recordingComposeHooks) OnComposeStart(rows int) {
	r.composes = append(r.composes, rows)
}

func (r *recordingComposeHooks) OnComposeComplete(int, time.Duration, error) {}

type recordingCacheHooks struct {
	hits, misses, sets int
}

func (r *recordingCacheHooks) OnCacheHit(string)      { r.hits++ }
func (r *recordingCacheHooks) OnCacheMiss(string)     { r.misses++ }
func (r *recordingCacheHooks) OnCacheSet(string, int) { r.sets++ }

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()

	if _, ok := Compose().(NoopComposeHooks); !ok {
		t.Error("default compose hooks should be no-op")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("default cache hooks should be no-op")
	}
}

func TestSetComposeHooks(t *testing.T) {
	defer Reset()

	rec := &recordingComposeHooks{}
	SetComposeHooks(rec)

	Compose().OnLoadStart("carpet.txt")
	Compose().OnComposeStart(5)

	if len(rec.loads) != 1 || rec.loads[0] != "carpet.txt" {
		t.Errorf("loads = %v", rec.loads)
	}
	if len(rec.composes) != 1 || rec.composes[0] != 5 {
		t.Errorf("composes = %v", rec.composes)
	}
}

func TestSetCacheHooks(t *testing.T) {
	defer Reset()

	rec := &recordingCacheHooks{}
	SetCacheHooks(rec)

	Cache().OnCacheHit("figure")
	Cache().OnCacheMiss("figure")
	Cache().OnCacheSet("figure", 1024)

	if rec.hits != 1 || rec.misses != 1 || rec.sets != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", rec.hits, rec.misses, rec.sets)
	}
}

func TestSetNilHooksIgnored(t *testing.T) {
	defer Reset()

	SetComposeHooks(nil)
	SetCacheHooks(nil)

	if Compose() == nil || Cache() == nil {
		t.Error("nil hooks should be ignored")
	}
}
