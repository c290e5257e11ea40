package track

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"robot-race/internal/common"
	"robot-race/internal/monitoring"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// testParams keeps meshes small: 1000 samples per segment.
func testParams() Params {
	p := DefaultParams()
	p.SampleStep = 1e-3
	return p
}

func mustTrack(t *testing.T, name string, pts []common.Vec3) *Track {
	t.Helper()
	tr, err := New(name, pts, testParams())
	if err != nil {
		t.Fatalf("New(%q): %v", name, err)
	}
	return tr
}

func mustPreset(t *testing.T, name string) *Track {
	t.Helper()
	p, ok := PresetByName(name)
	if !ok {
		t.Fatalf("no preset %q", name)
	}
	return mustTrack(t, name, p.ControlPoints)
}
