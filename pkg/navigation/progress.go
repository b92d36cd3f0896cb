package navigation

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/go-fluid/fluid/pkg/messaging"
	"github.com/go-fluid/fluid/pkg/view"
	"github.com/go-fluid/fluid/pkg/xanimation"
)

const (
	// ProgressFade is how long the progress overlay takes to appear or
	// disappear.
	ProgressFade = 150 * time.Millisecond
	// ProgressOpacity is the opacity of the overlay once shown.
	ProgressOpacity = 0.7
)

var progressColor = colorful.Color{R: 0.05, G: 0.05, B: 0.05}

// ProgressChanged is published on the hub when the progress overlay is
// attached, detached or retitled.
type ProgressChanged struct {
	Visible  bool
	Title    string
	Subtitle string
}

type progressText struct {
	title, subtitle string
}

type progress struct {
	overlay *view.View
	text    progressText
	// afterHide replaces text once the overlay has faded out.
	afterHide *progressText
	want      bool
	fading    bool
}

// Progress returns the overlay while it is attached, and the texts it shows.
func (p *Presenter) Progress() (overlay *view.View, title, subtitle string) {
	pr := &p.progress
	return pr.overlay, pr.text.title, pr.text.subtitle
}

// UpdateProgress shows or hides the busy overlay above every presented view.
// Showing attaches the overlay transparent and fades it in; hiding fades it
// out and detaches it once invisible. The texts of a hide call take effect
// after the overlay is gone. Calls made while a fade runs are settled when
// it finishes, so the last call wins.
func (p *Presenter) UpdateProgress(visible bool, title, subtitle string) error {
	pr := &p.progress
	pr.want = visible
	switch {
	case visible:
		pr.text = progressText{title, subtitle}
		pr.afterHide = nil
		if pr.overlay != nil {
			p.progressChanged()
		}
	case pr.overlay == nil:
		pr.text = progressText{title, subtitle}
	default:
		pr.afterHide = &progressText{title, subtitle}
	}
	if pr.fading {
		return nil
	}
	return p.reconcileProgress()
}

func (p *Presenter) reconcileProgress() error {
	pr := &p.progress
	switch {
	case pr.want && pr.overlay == nil:
		overlay := view.New("progress", view.Rect{W: p.container.Width(), H: p.container.Height()}).
			WithColor(progressColor)
		s := overlay.Properties()
		s.Opacity = 0
		if err := overlay.Apply(s); err != nil {
			return err
		}
		pr.overlay = overlay
		p.progressChanged()
		return p.fadeProgress(ProgressOpacity, nil)
	case !pr.want && pr.overlay != nil:
		return p.fadeProgress(0, func() {
			pr.overlay = nil
			if pr.afterHide != nil {
				pr.text, pr.afterHide = *pr.afterHide, nil
			}
			p.progressChanged()
		})
	}
	return nil
}

func (p *Presenter) fadeProgress(opacity float64, done func()) error {
	pr := &p.progress
	pkg := xanimation.NewPackage(p.container.factory, pr.overlay).SetDefaultDuration(ProgressFade)
	from(pkg.Add(), pr.overlay.Properties()).SetOpacity(opacity)

	pr.fading = true
	return p.run([]*xanimation.Package{pkg}, p.animate, func() {
		pr.fading = false
		if done != nil {
			done()
		}
		if err := p.reconcileProgress(); err != nil {
			p.logger.WithError(err).Warn("progress overlay failed")
		}
	})
}

func (p *Presenter) progressChanged() {
	pr := &p.progress
	if p.hub != nil {
		messaging.Publish(p.hub, ProgressChanged{
			Visible:  pr.overlay != nil,
			Title:    pr.text.title,
			Subtitle: pr.text.subtitle,
		})
	}
}
