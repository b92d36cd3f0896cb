package navigation

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-fluid/fluid/pkg/config"
	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
	"github.com/go-fluid/fluid/pkg/messaging"
	"github.com/go-fluid/fluid/pkg/mvvm"
	ftesting "github.com/go-fluid/fluid/pkg/testing"
	"github.com/go-fluid/fluid/pkg/view"
	"github.com/go-fluid/fluid/pkg/xanimation"
)

const width, height = 400.0, 800.0

func testConfig() config.NavigationConfig {
	cfg := config.Default().Navigation
	cfg.Width, cfg.Height = width, height
	return cfg
}

type pageViewModel struct{ mvvm.BaseViewModel }

type detailViewModel struct {
	mvvm.BaseViewModel
	item int
}

func (vm *detailViewModel) Initialize(_ context.Context, item int) error {
	if item < 0 {
		return errors.New("no such item")
	}
	vm.item = item
	return nil
}

func newPage(title string) mvvm.View {
	vm := &pageViewModel{}
	vm.SetTitle(title)
	return &mvvm.BasicView{VM: vm, Element: view.New(title, view.Rect{})}
}

func translation(v mvvm.View) (float64, float64) {
	s := v.Target().Properties()
	return s.TranslationX, s.TranslationY
}

type events struct {
	log []string
}

func newPresenter(t *testing.T, opts ...PresenterOption) (*Presenter, *events) {
	t.Helper()
	views := mvvm.NewViewContainer()
	if err := mvvm.Register(views, func() *pageViewModel { return &pageViewModel{} }, mvvm.NewBasicView[*pageViewModel]("page")); err != nil {
		t.Fatal(err)
	}
	if err := mvvm.Register(views, func() *detailViewModel { return &detailViewModel{} }, mvvm.NewBasicView[*detailViewModel]("detail")); err != nil {
		t.Fatal(err)
	}

	hub := messaging.NewHub()
	ev := &events{}
	messaging.Subscribe(hub, ev, func(n Navigated) {
		ev.log = append(ev.log, "navigated:"+n.Mode.String())
	})
	messaging.Subscribe(hub, ev, func(d Dismissed) {
		if d.Success {
			ev.log = append(ev.log, "dismissed:"+d.Mode.String())
		} else {
			ev.log = append(ev.log, "cancelled:"+d.Mode.String())
		}
	})

	opts = append([]PresenterOption{WithHub(hub)}, opts...)
	p := NewPresenter(NewContainer(testConfig(), nil), views, opts...)
	if err := p.SetMainView(newPage("home")); err != nil {
		t.Fatal(err)
	}
	return p, ev
}

func TestContainer_Children(t *testing.T) {
	c := NewContainer(testConfig(), nil)
	if c.Top() != nil || c.BackButtonVisible() || c.Title() != "" {
		t.Error("empty container should have no top view")
	}

	home, detail := newPage("home"), newPage("detail")
	c.AddChild(home)
	if c.BackButtonVisible() {
		t.Error("back button visible with a single child")
	}
	c.AddChild(detail)
	if c.Count() != 2 || c.Top() != detail || !c.BackButtonVisible() || c.Title() != "detail" {
		t.Errorf("count=%d title=%q", c.Count(), c.Title())
	}
	if got := detail.Target().Frame(); got != (view.Rect{W: width, H: height}) {
		t.Errorf("child frame = %v, want container size", got)
	}

	if err := c.RemoveChild(home); err != nil {
		t.Fatal(err)
	}
	err := c.RemoveChild(home)
	if !errors.Is(err, fluiderrors.ErrNotChild) {
		t.Errorf("second remove: err = %v", err)
	}
	if err := c.AddChild(nil); !errors.Is(err, fluiderrors.ErrNilArgument) {
		t.Errorf("nil child: err = %v", err)
	}
}

func TestContainer_Transitions(t *testing.T) {
	parallax := -width * testConfig().Parallax
	tests := []struct {
		name     string
		mode     mvvm.PresentationMode
		out      bool
		fraction float64
		wantTop  [2]float64
		wantPrev float64
	}{
		{name: "push start", fraction: 0, wantTop: [2]float64{width, 0}, wantPrev: parallax},
		{name: "push end", fraction: 1, wantTop: [2]float64{0, 0}, wantPrev: parallax},
		{name: "push middle", fraction: 0.5, wantTop: [2]float64{width / 2, 0}, wantPrev: parallax},
		{name: "pop end", out: true, fraction: 1, wantTop: [2]float64{width, 0}, wantPrev: 0},
		{name: "modal end", mode: mvvm.PresentationModal, fraction: 1, wantTop: [2]float64{0, 0}},
		{name: "modal start", mode: mvvm.PresentationModal, fraction: 0, wantTop: [2]float64{0, height}},
		{name: "popup out", mode: mvvm.PresentationPopup, out: true, fraction: 1, wantTop: [2]float64{0, height}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContainer(testConfig(), nil)
			prev, top := newPage("prev"), newPage("top")
			c.AddChild(prev)
			if tt.mode == mvvm.PresentationDefault {
				c.AddChild(top)
			}

			transition := c.TransitionIn
			if tt.out {
				transition = c.TransitionOut
			}
			pkgs, err := transition(top, tt.mode)
			if err != nil {
				t.Fatal(err)
			}
			for _, pkg := range pkgs {
				if err := pkg.Interpolate(tt.fraction); err != nil {
					t.Fatal(err)
				}
			}

			x, y := translation(top)
			if diff := cmp.Diff(tt.wantTop, [2]float64{x, y}); diff != "" {
				t.Errorf("top translation mismatch (-want +got):\n%s", diff)
			}
			if px, _ := translation(prev); px != tt.wantPrev {
				t.Errorf("previous tx = %v, want %v", px, tt.wantPrev)
			}
		})
	}
}

func TestContainer_TransitionsKeepVisualState(t *testing.T) {
	faded := func(v mvvm.View) {
		s := v.Target().Properties()
		s.Opacity, s.Scale, s.Rotation = 0.5, 0.8, 12
		v.Target().Apply(s)
	}
	check := func(t *testing.T, v mvvm.View) {
		t.Helper()
		s := v.Target().Properties()
		if s.Opacity != 0.5 || s.Scale != 0.8 || s.Rotation != 12 {
			t.Errorf("%s: opacity=%v scale=%v rotation=%v, want 0.5 0.8 12",
				v.Target().Name, s.Opacity, s.Scale, s.Rotation)
		}
	}

	for _, out := range []bool{false, true} {
		for _, f := range []float64{0, 0.5, 1} {
			c := NewContainer(testConfig(), nil)
			prev, top := newPage("prev"), newPage("top")
			c.AddChild(prev)
			c.AddChild(top)
			faded(prev)
			faded(top)

			transition := c.TransitionIn
			if out {
				transition = c.TransitionOut
			}
			pkgs, err := transition(top, mvvm.PresentationDefault)
			if err != nil {
				t.Fatal(err)
			}
			for _, pkg := range pkgs {
				if err := pkg.Interpolate(f); err != nil {
					t.Fatal(err)
				}
			}
			check(t, top)
			check(t, prev)
		}
	}
}

func TestContainer_SnapKeepsVisualState(t *testing.T) {
	tester := ftesting.NewTester(t)
	c := NewContainer(testConfig(), nil)
	home, detail := newPage("home"), newPage("detail")
	c.AddChild(home)
	c.AddChild(detail)
	s := detail.Target().Properties()
	s.Scale = 0.9
	detail.Target().Apply(s)

	c.UpdateFromGesture(0, 0, PanStarted)
	c.UpdateFromGesture(50, 0, PanMoving)
	if err := c.UpdateFromGesture(50, 0, PanEnded); err != nil {
		t.Fatal(err)
	}
	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	if got := detail.Target().Properties().Scale; got != 0.9 {
		t.Errorf("scale after snap = %v, want 0.9", got)
	}
}

func TestContainer_TransitionRejectsUnknownMode(t *testing.T) {
	c := NewContainer(testConfig(), nil)
	if _, err := c.TransitionIn(newPage("x"), mvvm.PresentationMode(9)); fluiderrors.KindOf(err) != fluiderrors.KindConfig {
		t.Errorf("err = %v", err)
	}
}

func TestContainer_GestureFollowsFinger(t *testing.T) {
	c := NewContainer(testConfig(), nil)
	home, detail := newPage("home"), newPage("detail")
	c.AddChild(home)
	c.AddChild(detail)
	parallax := width * testConfig().Parallax

	steps := []struct {
		x        float64
		state    PanState
		wantTop  float64
		wantPrev float64
	}{
		{x: 20, state: PanStarted},
		{x: 120, state: PanMoving, wantTop: 100, wantPrev: -parallax + 25},
		{x: 0, state: PanMoving, wantTop: 0, wantPrev: -parallax},
		{x: 900, state: PanMoving, wantTop: 880, wantPrev: -parallax + 220},
		{x: 900, state: PanCancelled, wantTop: 0, wantPrev: -parallax},
	}
	for i, step := range steps {
		if err := c.UpdateFromGesture(step.x, 0, step.state); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if step.state == PanStarted {
			continue
		}
		if x, _ := translation(detail); x != step.wantTop {
			t.Errorf("step %d: top tx = %v, want %v", i, x, step.wantTop)
		}
		if x, _ := translation(home); x != step.wantPrev {
			t.Errorf("step %d: previous tx = %v, want %v", i, x, step.wantPrev)
		}
	}
}

func TestContainer_GestureIgnoredOnRoot(t *testing.T) {
	c := NewContainer(testConfig(), nil)
	home := newPage("home")
	c.AddChild(home)
	c.UpdateFromGesture(0, 0, PanStarted)
	c.UpdateFromGesture(100, 0, PanMoving)
	if x, _ := translation(home); x != 0 {
		t.Errorf("root view moved to %v", x)
	}
}

func TestContainer_SnapDuration(t *testing.T) {
	c := NewContainer(testConfig(), nil)
	tests := []struct {
		distance, velocity float64
		want               time.Duration
	}{
		{distance: 100, velocity: 0, want: 200 * time.Millisecond},
		{distance: 100, velocity: 1000, want: 200 * time.Millisecond},
		{distance: 300, velocity: 1000, want: 300 * time.Millisecond},
		{distance: 300, velocity: -500, want: 600 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := c.snapDuration(tt.distance, tt.velocity); got != tt.want {
			t.Errorf("snapDuration(%v, %v) = %v, want %v", tt.distance, tt.velocity, got, tt.want)
		}
	}
}

func TestContainer_SnapBack(t *testing.T) {
	tester := ftesting.NewTester(t)
	c := NewContainer(testConfig(), nil)
	home, detail := newPage("home"), newPage("detail")
	c.AddChild(home)
	c.AddChild(detail)
	swiped := 0
	c.OnSwipeBack = func(mvvm.View) { swiped++ }

	c.UpdateFromGesture(0, 0, PanStarted)
	c.UpdateFromGesture(100, 0, PanMoving)
	if err := c.UpdateFromGesture(100, 500, PanEnded); err != nil {
		t.Fatal(err)
	}
	if !c.Snapping() {
		t.Fatal("expected a running snap")
	}
	if err := c.UpdateFromGesture(0, 0, PanStarted); fluiderrors.KindOf(err) != fluiderrors.KindState {
		t.Errorf("gesture during snap: err = %v", err)
	}
	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}

	if swiped != 0 || c.Snapping() {
		t.Errorf("swiped=%d snapping=%v", swiped, c.Snapping())
	}
	if x, _ := translation(detail); x != 0 {
		t.Errorf("top tx = %v, want 0", x)
	}
	if x, _ := translation(home); x != -width*testConfig().Parallax {
		t.Errorf("previous tx = %v", x)
	}
}

func TestPresenter_SwipeBackDismisses(t *testing.T) {
	tester := ftesting.NewTester(t)
	p, ev := newPresenter(t, WithoutAnimation())
	if err := p.Show(reflect.TypeFor[*pageViewModel]()); err != nil {
		t.Fatal(err)
	}
	top := p.Container().Top()

	c := p.Container()
	c.UpdateFromGesture(0, 0, PanStarted)
	c.UpdateFromGesture(300, 0, PanMoving)
	c.UpdateFromGesture(300, 2000, PanEnded)
	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}

	if p.Depth() != 1 || c.Top() == top {
		t.Errorf("depth = %d after swipe back", p.Depth())
	}
	if x, _ := translation(top); x != width {
		t.Errorf("dismissed view tx = %v, want %v", x, width)
	}
	want := []string{"navigated:default", "navigated:default", "dismissed:default"}
	if diff := cmp.Diff(want, ev.log); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestPresenter_PushAndPop(t *testing.T) {
	p, ev := newPresenter(t, WithoutAnimation())

	if err := p.Show(reflect.TypeFor[*pageViewModel]()); err != nil {
		t.Fatal(err)
	}
	if p.Depth() != 2 || !p.Container().BackButtonVisible() {
		t.Fatalf("depth = %d", p.Depth())
	}
	top := p.Container().Top()
	dismissed := 0
	top.ViewModel().(*pageViewModel).OnDismissed(func() { dismissed++ })
	if x, _ := translation(top); x != 0 {
		t.Errorf("pushed view tx = %v, want 0", x)
	}

	if err := p.Dismiss(mvvm.PresentationDefault, true); err != nil {
		t.Fatal(err)
	}
	if p.Depth() != 1 || dismissed != 1 {
		t.Errorf("depth=%d dismissed=%d", p.Depth(), dismissed)
	}
	err := p.Dismiss(mvvm.PresentationDefault, true)
	if !errors.Is(err, fluiderrors.ErrEmptyStack) {
		t.Errorf("popping the root: err = %v", err)
	}

	want := []string{"navigated:default", "navigated:default", "dismissed:default"}
	if diff := cmp.Diff(want, ev.log); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestPresenter_ShowInitializes(t *testing.T) {
	p, _ := newPresenter(t, WithoutAnimation())

	if err := Show[*detailViewModel](context.Background(), p, 42); err != nil {
		t.Fatal(err)
	}
	vm := p.Container().Top().ViewModel().(*detailViewModel)
	if vm.item != 42 {
		t.Errorf("item = %d, want 42", vm.item)
	}

	err := Show[*detailViewModel](context.Background(), p, -1)
	if err == nil || p.Depth() != 2 {
		t.Errorf("failed initialize: err=%v depth=%d", err, p.Depth())
	}

	// A parameter of another type is ignored.
	if err := Show[*detailViewModel](context.Background(), p, "ignored"); err != nil {
		t.Fatal(err)
	}
	if p.Depth() != 3 {
		t.Errorf("depth = %d, want 3", p.Depth())
	}
}

func TestPresenter_ModalDismissedCallback(t *testing.T) {
	p, ev := newPresenter(t, WithoutAnimation())

	var results []bool
	if err := p.ShowModal(reflect.TypeFor[*detailViewModel](), func(ok bool) { results = append(results, ok) }); err != nil {
		t.Fatal(err)
	}
	modal := p.Views()[p.Depth()-1]
	if modal.ViewModel().PresentationMode() != mvvm.PresentationModal {
		t.Errorf("mode = %v", modal.ViewModel().PresentationMode())
	}
	if modal.Target().Frame() != (view.Rect{W: width, H: height}) {
		t.Errorf("modal frame = %v", modal.Target().Frame())
	}

	if err := p.Dismiss(mvvm.PresentationModal, false); err != nil {
		t.Fatal(err)
	}
	if _, y := translation(modal); y != height {
		t.Errorf("dismissed modal ty = %v, want %v", y, height)
	}
	if diff := cmp.Diff([]bool{false}, results); diff != "" {
		t.Errorf("callback mismatch (-want +got):\n%s", diff)
	}
	if err := p.Dismiss(mvvm.PresentationModal, true); !errors.Is(err, fluiderrors.ErrEmptyStack) {
		t.Errorf("empty modal stack: err = %v", err)
	}

	want := []string{"navigated:default", "navigated:modal", "cancelled:modal"}
	if diff := cmp.Diff(want, ev.log); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestPresenter_Popups(t *testing.T) {
	p, _ := newPresenter(t, WithoutAnimation())
	if err := p.Dismiss(mvvm.PresentationPopup, true); err != nil {
		t.Errorf("dismissing no popup: %v", err)
	}
	if err := p.ShowPopup(reflect.TypeFor[*pageViewModel]()); err != nil {
		t.Fatal(err)
	}
	if p.Depth() != 2 {
		t.Fatalf("depth = %d", p.Depth())
	}
	if err := p.Dismiss(mvvm.PresentationPopup, true); err != nil {
		t.Fatal(err)
	}
	if p.Depth() != 1 {
		t.Errorf("depth = %d after dismiss", p.Depth())
	}
}

func TestPresenter_SetMainViewClearsEverything(t *testing.T) {
	p, _ := newPresenter(t, WithoutAnimation())
	p.Show(reflect.TypeFor[*pageViewModel]())
	modalResult := true
	p.ShowModal(reflect.TypeFor[*pageViewModel](), func(ok bool) { modalResult = ok })
	p.ShowPopup(reflect.TypeFor[*pageViewModel]())

	root := newPage("root")
	if err := p.SetMainView(root); err != nil {
		t.Fatal(err)
	}
	if p.Depth() != 1 || p.Container().Top() != root {
		t.Errorf("depth = %d", p.Depth())
	}
	if modalResult {
		t.Error("replaced modal should be dismissed without success")
	}
	if err := p.SetMainView(nil); !errors.Is(err, fluiderrors.ErrNilArgument) {
		t.Errorf("nil main view: err = %v", err)
	}
}

func TestPresenter_AnimatedPush(t *testing.T) {
	tester := ftesting.NewTester(t)
	p, _ := newPresenter(t)
	home := p.Container().Top()

	shown := false
	if err := p.Show(reflect.TypeFor[*pageViewModel](), OnShown(func() { shown = true })); err != nil {
		t.Fatal(err)
	}
	top := p.Container().Top()
	if x, _ := translation(top); x != width {
		t.Errorf("pushed view starts at tx = %v, want %v", x, width)
	}

	tester.Advance(150 * time.Millisecond)
	if x, _ := translation(top); x <= 0 || x >= width || shown {
		t.Errorf("mid transition: tx = %v shown = %v", x, shown)
	}

	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	if !shown {
		t.Error("OnShown did not run")
	}
	if x, _ := translation(top); x != 0 {
		t.Errorf("pushed view tx = %v, want 0", x)
	}
	if x, _ := translation(home); x != -width*testConfig().Parallax {
		t.Errorf("previous view tx = %v", x)
	}
}

func TestPresenter_ModalShownDuringDismissal(t *testing.T) {
	tester := ftesting.NewTester(t)
	p, _ := newPresenter(t)
	typ := reflect.TypeFor[*detailViewModel]()

	var calls []string
	if err := p.ShowModal(typ, func(bool) { calls = append(calls, "first") }, Animated(false)); err != nil {
		t.Fatal(err)
	}
	first := p.Views()[p.Depth()-1]
	if err := p.Dismiss(mvvm.PresentationModal, true); err != nil {
		t.Fatal(err)
	}
	if err := p.ShowModal(typ, func(bool) { calls = append(calls, "second") }, Animated(false)); err != nil {
		t.Fatal(err)
	}
	second := p.Views()[p.Depth()-1]
	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"first"}, calls); diff != "" {
		t.Errorf("callbacks mismatch (-want +got):\n%s", diff)
	}
	views := p.Views()
	if len(views) != 2 || views[1] != second || views[1] == first {
		t.Errorf("views = %v, want home and the second modal", views)
	}
}

func TestPresenter_DismissWhileDismissing(t *testing.T) {
	tests := []struct {
		name string
		mode mvvm.PresentationMode
		show func(p *Presenter, dismissed func(bool)) error
	}{
		{
			name: "default",
			mode: mvvm.PresentationDefault,
			show: func(p *Presenter, _ func(bool)) error {
				return p.Show(reflect.TypeFor[*pageViewModel](), Animated(false))
			},
		},
		{
			name: "modal",
			mode: mvvm.PresentationModal,
			show: func(p *Presenter, dismissed func(bool)) error {
				return p.ShowModal(reflect.TypeFor[*pageViewModel](), dismissed, Animated(false))
			},
		},
		{
			name: "popup",
			mode: mvvm.PresentationPopup,
			show: func(p *Presenter, _ func(bool)) error {
				return p.ShowPopup(reflect.TypeFor[*pageViewModel](), Animated(false))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tester := ftesting.NewTester(t)
			p, ev := newPresenter(t)
			var results []bool
			if err := tt.show(p, func(ok bool) { results = append(results, ok) }); err != nil {
				t.Fatal(err)
			}
			if err := p.Dismiss(tt.mode, true); err != nil {
				t.Fatal(err)
			}
			err := p.Dismiss(tt.mode, false)
			if fluiderrors.KindOf(err) != fluiderrors.KindState || !errors.Is(err, fluiderrors.ErrInvalidState) {
				t.Errorf("second dismiss: err = %v, want invalid state", err)
			}
			if err := tester.PumpAndSettle(time.Second); err != nil {
				t.Fatal(err)
			}

			if p.Depth() != 1 {
				t.Errorf("depth = %d, want 1", p.Depth())
			}
			if tt.mode == mvvm.PresentationModal {
				if diff := cmp.Diff([]bool{true}, results); diff != "" {
					t.Errorf("callback mismatch (-want +got):\n%s", diff)
				}
			}
			want := []string{"navigated:default", "navigated:" + tt.mode.String(), "dismissed:" + tt.mode.String()}
			if diff := cmp.Diff(want, ev.log); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPresenter_SetMainViewDuringDismissal(t *testing.T) {
	tester := ftesting.NewTester(t)
	p, _ := newPresenter(t)
	var results []bool
	if err := p.ShowModal(reflect.TypeFor[*pageViewModel](), func(ok bool) { results = append(results, ok) }, Animated(false)); err != nil {
		t.Fatal(err)
	}
	if err := p.Dismiss(mvvm.PresentationModal, true); err != nil {
		t.Fatal(err)
	}
	root := newPage("root")
	if err := p.SetMainView(root); err != nil {
		t.Fatal(err)
	}
	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]bool{false}, results); diff != "" {
		t.Errorf("callback mismatch (-want +got):\n%s", diff)
	}
	if p.Depth() != 1 || p.Container().Top() != root {
		t.Errorf("depth = %d", p.Depth())
	}
}

type spinViewModel struct{ mvvm.BaseViewModel }

// spinView rotates in instead of sliding up and fades out on dismissal.
type spinView struct {
	*mvvm.BasicView
	defaultsIn, defaultsOut int
}

func (v *spinView) TransitionIn(_ mvvm.PresentationMode, defaults []*xanimation.Package) []*xanimation.Package {
	v.defaultsIn = len(defaults)
	p := xanimation.NewPackage(nil, v.Target()).SetDefaultDuration(300 * time.Millisecond)
	p.SetStep().SetRotation(-90)
	p.Add().SetRotation(0)
	return []*xanimation.Package{p}
}

func (v *spinView) TransitionOut(_ mvvm.PresentationMode, defaults []*xanimation.Package) []*xanimation.Package {
	v.defaultsOut = len(defaults)
	p := xanimation.NewPackage(nil, v.Target())
	p.Add().SetOpacity(0)
	return []*xanimation.Package{p}
}

func TestPresenter_ViewTransitions(t *testing.T) {
	tester := ftesting.NewTester(t)
	p, _ := newPresenter(t)
	var spin *spinView
	err := mvvm.Register(p.views, func() *spinViewModel { return &spinViewModel{} }, func(vm *spinViewModel) mvvm.View {
		spin = &spinView{BasicView: &mvvm.BasicView{VM: vm, Element: view.New("spin", view.Rect{})}}
		return spin
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := p.ShowModal(reflect.TypeFor[*spinViewModel](), nil); err != nil {
		t.Fatal(err)
	}
	if spin.defaultsIn != 1 {
		t.Errorf("view got %d default packages, want 1", spin.defaultsIn)
	}
	tester.Advance(150 * time.Millisecond)
	s := spin.Target().Properties()
	if s.Rotation <= -90 || s.Rotation >= 0 {
		t.Errorf("mid transition rotation = %v", s.Rotation)
	}
	if s.TranslationY != 0 {
		t.Errorf("container slide ran: ty = %v", s.TranslationY)
	}
	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	if r := spin.Target().Properties().Rotation; r != 0 {
		t.Errorf("rotation = %v, want 0", r)
	}

	if err := p.Dismiss(mvvm.PresentationModal, true, Animated(false)); err != nil {
		t.Fatal(err)
	}
	s = spin.Target().Properties()
	if spin.defaultsOut != 1 || s.Opacity != 0 || s.TranslationY != 0 {
		t.Errorf("dismissal: defaults=%d opacity=%v ty=%v, want 1 0 0", spin.defaultsOut, s.Opacity, s.TranslationY)
	}
	if p.Depth() != 1 {
		t.Errorf("depth = %d", p.Depth())
	}
}

type fakeDialogs struct {
	accept string
	cancel string
	answer bool
}

func (d *fakeDialogs) ShowMessage(_ context.Context, _, _, accept, cancel string) (bool, error) {
	d.accept, d.cancel = accept, cancel
	return d.answer, nil
}

func (d *fakeDialogs) ShowActionSheet(_ context.Context, _, cancel, _ string, buttons ...string) (string, error) {
	if len(buttons) == 0 {
		return cancel, nil
	}
	return buttons[0], nil
}

func TestPresenter_Dialogs(t *testing.T) {
	p, _ := newPresenter(t)
	if _, err := p.ShowMessage(context.Background(), "t", "m", "", ""); !errors.Is(err, fluiderrors.ErrNilArgument) {
		t.Errorf("no dialogs: err = %v", err)
	}

	d := &fakeDialogs{}
	p, _ = newPresenter(t, WithDialogs(d))
	ok, err := p.ShowMessage(context.Background(), "Saved", "Done", "", "")
	if err != nil || !ok || d.accept != "OK" {
		t.Errorf("single button: ok=%v err=%v accept=%q", ok, err, d.accept)
	}
	ok, _ = p.ShowMessage(context.Background(), "Delete?", "", "Delete", "Keep")
	if ok {
		t.Error("declined message reported accept")
	}
	choice, err := p.ShowActionSheet(context.Background(), "Share", "Cancel", "", "Mail", "Copy")
	if err != nil || choice != "Mail" {
		t.Errorf("choice = %q, err = %v", choice, err)
	}
}
