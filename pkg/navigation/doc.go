// Package navigation presents view models on screen.
//
// A [Presenter] resolves the view for a view model type from an
// [mvvm.ViewContainer] and shows it in one of three modes: pushed on the
// navigation stack held by a [Container], modal, or as a popup. Every
// transition is an [xanimation.Package]: pushed views slide in from the
// right over a parallax shift of the view beneath, modals and popups slide
// up from the bottom.
//
//	presenter := navigation.NewPresenter(container, views, navigation.WithHub(hub))
//	presenter.SetMainView(home)
//	navigation.Show[*DetailViewModel](ctx, presenter, itemID)
//	...
//	presenter.Dismiss(mvvm.PresentationDefault, true)
//
// The container also implements the swipe-back gesture: feed it pan events
// with [Container.UpdateFromGesture] and it tracks the finger, then snaps
// back or completes the dismissal.
//
// Navigation events ([Navigated], [Dismissed]) are published on the
// messaging hub when one is configured.
package navigation
