// Package mvvm defines view models, the views that present them and the
// registry that maps one to the other.
package mvvm

import (
	"context"
	"fmt"
	"sync"
)

// PresentationMode is how a view model's view is shown.
type PresentationMode int

const (
	// PresentationDefault pushes the view on the navigation stack.
	PresentationDefault PresentationMode = iota
	// PresentationModal covers the navigation stack until dismissed.
	PresentationModal
	// PresentationPopup shows the view as a card above everything else.
	PresentationPopup
)

func (m PresentationMode) String() string {
	switch m {
	case PresentationDefault:
		return "default"
	case PresentationModal:
		return "modal"
	case PresentationPopup:
		return "popup"
	default:
		return fmt.Sprintf("PresentationMode(%d)", int(m))
	}
}

// ViewModel is the state and behaviour behind a view.
type ViewModel interface {
	Title() string
	PresentationMode() PresentationMode
	SetPresentationMode(PresentationMode)
	// Dismissed is called once the view has been removed from screen.
	Dismissed()
}

// Initializer is implemented by view models that take a navigation
// parameter of type P. The presenter calls Initialize before the view is
// shown; an error aborts the navigation.
type Initializer[P any] interface {
	Initialize(ctx context.Context, param P) error
}

// BaseViewModel implements [ViewModel] and property change notification.
// Embed it in concrete view models.
type BaseViewModel struct {
	mu          sync.Mutex
	title       string
	mode        PresentationMode
	listeners   map[int]func(property string)
	nextID      int
	onDismissed func()
}

func (vm *BaseViewModel) Title() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.title
}

// SetTitle changes the title and notifies "Title" listeners.
func (vm *BaseViewModel) SetTitle(title string) {
	vm.mu.Lock()
	changed := vm.title != title
	vm.title = title
	vm.mu.Unlock()
	if changed {
		vm.NotifyPropertyChanged("Title")
	}
}

func (vm *BaseViewModel) PresentationMode() PresentationMode {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.mode
}

func (vm *BaseViewModel) SetPresentationMode(mode PresentationMode) {
	vm.mu.Lock()
	vm.mode = mode
	vm.mu.Unlock()
}

// OnDismissed sets the hook run by Dismissed.
func (vm *BaseViewModel) OnDismissed(fn func()) {
	vm.mu.Lock()
	vm.onDismissed = fn
	vm.mu.Unlock()
}

func (vm *BaseViewModel) Dismissed() {
	vm.mu.Lock()
	fn := vm.onDismissed
	vm.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// AddListener registers fn to be called with the name of every changed
// property. Returns an unsubscribe function.
func (vm *BaseViewModel) AddListener(fn func(property string)) func() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.listeners == nil {
		vm.listeners = make(map[int]func(string))
	}
	id := vm.nextID
	vm.nextID++
	vm.listeners[id] = fn
	return func() {
		vm.mu.Lock()
		delete(vm.listeners, id)
		vm.mu.Unlock()
	}
}

// NotifyPropertyChanged calls every listener with property, in registration
// order.
func (vm *BaseViewModel) NotifyPropertyChanged(property string) {
	vm.mu.Lock()
	fns := make([]func(string), 0, len(vm.listeners))
	for id := range vm.nextID {
		if fn, ok := vm.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	vm.mu.Unlock()
	for _, fn := range fns {
		fn(property)
	}
}
