// Package testing provides deterministic frame-loop helpers for fluid tests.
//
// # Quick Start
//
// Create a tester, start an animation, and settle the frame loop:
//
//	func TestSlideIn(t *testing.T) {
//	    tester := fluidtest.NewTester(t)
//	    pkg := xanimation.NewPackage(nil, card)
//	    pkg.Translate(0, 0).Duration(300 * time.Millisecond)
//	    pkg.Animate(nil)
//
//	    if err := tester.PumpAndSettle(time.Second); err != nil {
//	        t.Fatal(err)
//	    }
//	}
//
// # Clock Control
//
// The tester installs a [FakeClock] as the animation clock. Use Advance to move
// time forward frame by frame:
//
//	tester.Advance(150 * time.Millisecond)
//
// Completion callbacks that the engine hands to the UI dispatcher run at the
// start of the next pumped frame.
package testing
