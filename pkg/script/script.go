// Package script reads declarative animation scripts: a set of views and
// the keyframe chains that animate them.
//
//	width: 200
//	height: 120
//	views:
//	  - name: box
//	    frame: {x: 20, y: 40, w: 60, h: 40}
//	    color: "#e63946"
//	chains:
//	  - targets: [box]
//	    steps:
//	      - rotate: 45
//	      - translateX: 100
//	        duration: 500ms
//	        easing: out-bounce
//	      - op: reset
//
// Omitted step fields inherit from the previous step, following the rules
// of [xanimation.Chain].
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
	"github.com/go-fluid/fluid/pkg/view"
	"github.com/go-fluid/fluid/pkg/xanimation"
)

// Step ops.
const (
	OpAdd   = "add"
	OpSet   = "set"
	OpReset = "reset"
)

// Script is a decoded animation script.
type Script struct {
	Name       string         `yaml:"name,omitempty"`
	Width      int            `yaml:"width,omitempty"`
	Height     int            `yaml:"height,omitempty"`
	Background string         `yaml:"background,omitempty"`
	Duration   *time.Duration `yaml:"duration,omitempty"`
	Views      []View         `yaml:"views"`
	Chains     []Chain        `yaml:"chains"`
}

// View declares an element.
type View struct {
	Name  string    `yaml:"name"`
	Frame view.Rect `yaml:"frame"`
	Color string    `yaml:"color,omitempty"`
}

// Chain animates the named views together.
type Chain struct {
	Targets []string `yaml:"targets"`
	Steps   []Step   `yaml:"steps"`
}

// Step is one keyframe. Nil fields are left as inherited.
type Step struct {
	Op         string         `yaml:"op,omitempty"`
	Scale      *float64       `yaml:"scale,omitempty"`
	Rotate     *float64       `yaml:"rotate,omitempty"`
	TranslateX *float64       `yaml:"translateX,omitempty"`
	TranslateY *float64       `yaml:"translateY,omitempty"`
	Opacity    *float64       `yaml:"opacity,omitempty"`
	Color      *string        `yaml:"color,omitempty"`
	Duration   *time.Duration `yaml:"duration,omitempty"`
	Delay      *time.Duration `yaml:"delay,omitempty"`
	Easing     *string        `yaml:"easing,omitempty"`
}

// Default canvas size used when a script does not set one.
const (
	DefaultWidth  = 320
	DefaultHeight = 240
)

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a script. Unknown keys are rejected.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fluiderrors.New("script.Parse", fluiderrors.KindConfig, err)
	}
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	return &s, nil
}

// BackgroundColor returns the canvas colour, white when unset.
func (s *Script) BackgroundColor() (colorful.Color, error) {
	if s.Background == "" {
		return colorful.Color{R: 1, G: 1, B: 1}, nil
	}
	return colorful.Hex(s.Background)
}

// Build creates the script's views and a package animating them with
// providers from factory (nil for the ticker provider). Every problem in the
// script is reported in one joined error.
func (s *Script) Build(factory xanimation.ProviderFactory) (*xanimation.Package, map[string]*view.View, error) {
	var errs []error
	views := make(map[string]*view.View, len(s.Views))
	for i, vs := range s.Views {
		if vs.Name == "" {
			errs = append(errs, fmt.Errorf("views[%d]: name is required", i))
			continue
		}
		if _, dup := views[vs.Name]; dup {
			errs = append(errs, fmt.Errorf("views[%d]: duplicate name %q", i, vs.Name))
			continue
		}
		v := view.New(vs.Name, vs.Frame)
		if vs.Color != "" {
			c, err := colorful.Hex(vs.Color)
			if err != nil {
				errs = append(errs, fmt.Errorf("views[%d].color: %w", i, err))
			} else {
				v.WithColor(c)
			}
		}
		views[vs.Name] = v
	}
	if _, err := s.BackgroundColor(); err != nil {
		errs = append(errs, fmt.Errorf("background: %w", err))
	}

	p := xanimation.NewPackage(factory)
	if s.Duration != nil {
		if *s.Duration < 0 {
			errs = append(errs, fmt.Errorf("duration must not be negative (got %v)", *s.Duration))
		} else {
			p.SetDefaultDuration(*s.Duration)
		}
	}

	for i, cs := range s.Chains {
		targets := make([]xanimation.Target, 0, len(cs.Targets))
		for _, name := range cs.Targets {
			v, ok := views[name]
			if !ok {
				errs = append(errs, fmt.Errorf("chains[%d]: unknown target %q", i, name))
				continue
			}
			targets = append(targets, v)
		}
		if len(targets) == 0 {
			if len(cs.Targets) == 0 {
				errs = append(errs, fmt.Errorf("chains[%d]: no targets", i))
			}
			continue
		}
		chain := p.Chain(targets...)
		for j, st := range cs.Steps {
			if err := st.apply(chain); err != nil {
				errs = append(errs, fmt.Errorf("chains[%d].steps[%d]: %w", i, j, err))
			}
		}
	}

	if len(errs) > 0 {
		return nil, nil, fluiderrors.New("script.Build", fluiderrors.KindConfig, errors.Join(errs...))
	}
	return p, views, nil
}

// Ordered returns views in declaration order, which is paint order.
func (s *Script) Ordered(views map[string]*view.View) []*view.View {
	out := make([]*view.View, 0, len(s.Views))
	for _, vs := range s.Views {
		if v, ok := views[vs.Name]; ok {
			out = append(out, v)
		}
	}
	return out
}

func (st Step) apply(chain *xanimation.Chain) error {
	// A step that fails to parse appends nothing.
	var color colorful.Color
	if st.Color != nil {
		c, err := colorful.Hex(*st.Color)
		if err != nil {
			return fmt.Errorf("color: %w", err)
		}
		color = c
	}
	var easing *xanimation.Easing
	if st.Easing != nil {
		e, err := xanimation.ParseEasing(*st.Easing)
		if err != nil {
			return fmt.Errorf("easing: %w", err)
		}
		easing = e
	}

	var t *xanimation.Transform
	switch st.Op {
	case "", OpAdd:
		t = chain.Add()
	case OpSet:
		t = chain.Set()
	case OpReset:
		t = chain.Reset()
	default:
		return fmt.Errorf("unknown op %q (want add, set or reset)", st.Op)
	}

	if st.Scale != nil {
		t.SetScale(*st.Scale)
	}
	if st.Rotate != nil {
		t.SetRotation(*st.Rotate)
	}
	if st.TranslateX != nil {
		t.SetTranslation(*st.TranslateX, t.TranslationY)
	}
	if st.TranslateY != nil {
		t.SetTranslation(t.TranslationX, *st.TranslateY)
	}
	if st.Opacity != nil {
		t.SetOpacity(*st.Opacity)
	}
	if st.Color != nil {
		t.SetColor(color)
	}
	if st.Duration != nil {
		t.SetDuration(*st.Duration)
	}
	if st.Delay != nil {
		t.SetDelay(*st.Delay)
	}
	if easing != nil {
		t.SetEasingCurve(easing)
	}
	return nil
}
