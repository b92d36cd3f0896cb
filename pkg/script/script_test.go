package script

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
	"github.com/go-fluid/fluid/pkg/view"
)

const swing = `
name: swing
width: 200
height: 100
duration: 100ms
views:
  - name: box
    frame: {x: 10, y: 20, w: 40, h: 30}
    color: "#ff0000"
  - name: shadow
    frame: {w: 40, h: 30}
chains:
  - targets: [box]
    steps:
      - rotate: 45
      - translateX: 100
        easing: in-quad
      - op: set
        opacity: 0.5
  - targets: [shadow]
    steps:
      - op: reset
        duration: 300ms
        delay: 50ms
`

func TestParse_Defaults(t *testing.T) {
	s, err := Parse([]byte("views: []\n"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Width != DefaultWidth || s.Height != DefaultHeight {
		t.Errorf("size = %dx%d", s.Width, s.Height)
	}
	bg, err := s.BackgroundColor()
	if err != nil || bg.Hex() != "#ffffff" {
		t.Errorf("background = %v, %v", bg.Hex(), err)
	}

	if _, err := Parse(nil); err != nil {
		t.Errorf("empty script: %v", err)
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("views:\n  - name: a\n    colour: red\n"))
	if fluiderrors.KindOf(err) != fluiderrors.KindConfig {
		t.Errorf("err = %v, want config error", err)
	}
}

func TestBuild(t *testing.T) {
	s, err := Parse([]byte(swing))
	if err != nil {
		t.Fatal(err)
	}
	p, views, err := s.Build(nil)
	if err != nil {
		t.Fatal(err)
	}

	box := views["box"]
	if box == nil || box.Frame() != (view.Rect{X: 10, Y: 20, W: 40, H: 30}) {
		t.Fatalf("box = %v", box)
	}
	if got := box.Properties().Color.Hex(); got != "#ff0000" {
		t.Errorf("box colour = %s", got)
	}

	chains := p.Chains()
	if len(chains) != 2 {
		t.Fatalf("chains = %d", len(chains))
	}
	steps := chains[0].Steps()
	type summary struct {
		Rotation, TranslationX, Opacity float64
		Duration                        time.Duration
		Only                            bool
		Easing                          string
	}
	var got []summary
	for _, st := range steps {
		got = append(got, summary{st.Rotation, st.TranslationX, st.Opacity, st.Duration, st.OnlyTransform, st.Easing.String()})
	}
	want := []summary{
		{45, 0, 1, 100 * time.Millisecond, false, "linear"},
		{45, 100, 1, 100 * time.Millisecond, false, "in-quad"},
		{45, 100, 0.5, 100 * time.Millisecond, true, "linear"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}

	shadow := chains[1].Steps()[0]
	if shadow.Duration != 300*time.Millisecond || shadow.Delay != 50*time.Millisecond {
		t.Errorf("shadow step = %v", shadow)
	}

	ordered := s.Ordered(views)
	if len(ordered) != 2 || ordered[0] != box || ordered[1] != views["shadow"] {
		t.Errorf("ordered = %v", ordered)
	}
}

func TestBuild_ScrubsLikeThePackage(t *testing.T) {
	s, err := Parse([]byte(swing))
	if err != nil {
		t.Fatal(err)
	}
	p, views, err := s.Build(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Interpolate(0.5); err != nil {
		t.Fatal(err)
	}
	got := views["box"].Properties()
	// in-quad at one half of the only animated segment
	if got.Rotation != 45 || got.TranslationX != 25 {
		t.Errorf("box at 0.5 = %v", got)
	}
}

func TestBuild_CollectsErrors(t *testing.T) {
	src := `
background: "nope"
views:
  - name: a
  - name: a
  - frame: {w: 1, h: 1}
chains:
  - targets: [ghost]
    steps: [{rotate: 1}]
  - targets: [a]
    steps:
      - op: spin
      - easing: wobble
      - color: "#zz0000"
  - targets: []
`
	s, err := Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = s.Build(nil)
	if fluiderrors.KindOf(err) != fluiderrors.KindConfig {
		t.Fatalf("err = %v", err)
	}
	for _, want := range []string{
		"background",
		`duplicate name "a"`,
		"views[2]: name is required",
		`unknown target "ghost"`,
		`unknown op "spin"`,
		"steps[1]: easing",
		"steps[2]: color",
		"chains[3]: no targets",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "swing.yaml")
	if err := os.WriteFile(path, []byte(swing), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "swing" || len(s.Views) != 2 {
		t.Errorf("script = %+v", s)
	}

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v", err)
	}
}
