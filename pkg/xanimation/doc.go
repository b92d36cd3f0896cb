// Package xanimation builds keyframe animations out of chained steps and
// plays them either over time or at an externally driven position.
//
// A [Package] holds one [Chain] per group of targets. Each [Transform] in a
// chain is a keyframe: the scale, rotation, translation, opacity and optional
// colour the targets reach, plus the step's duration, delay and easing. New
// steps inherit from the last step of their chain:
//
//	p := xanimation.NewPackage(nil, card)
//	p.Add().SetOpacity(0).SetTranslation(0, 40).SetDuration(300 * time.Millisecond)
//	p.Add().SetOpacity(1).SetTranslation(0, 0).SetEasingCurve(&xanimation.Easing{Name: "out-cubic"})
//	err := p.Animate(func() { log.Println("shown") })
//
// The same package can be scrubbed with [Package.Interpolate], which maps a
// fraction in [0, 1] onto each chain's timeline. The first step is the
// starting keyframe; the others ease in over their own duration after their
// delay.
//
// Rendering goes through a [Provider] per target. [TickerProvider], the
// default, runs on the frame loop of package animation, so the host must
// call animation.StepTickers every frame. Packages are not safe for
// concurrent use.
package xanimation
