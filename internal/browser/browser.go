// Package browser abstracts the remote document the portal operations drive.
//
// Every method acts on the currently loaded page. Methods that look elements up
// wait until the element exists, so callers bound them with the context deadline.
package browser

import "context"

// Control is a form input found on the page.
type Control struct {
	Type  string
	Name  string
	Value string
}

// Browser is the single document handle of a session. It is not safe for
// concurrent use: the page state is implicit in the remote document.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	// WaitPresent blocks until an element matching sel is in the DOM.
	WaitPresent(ctx context.Context, sel string) error
	// WaitVisible blocks until an element matching sel is visible and can be clicked.
	WaitVisible(ctx context.Context, sel string) error
	// Exists checks for sel without waiting.
	Exists(ctx context.Context, sel string) (bool, error)
	Click(ctx context.Context, sel string) error
	Text(ctx context.Context, sel string) (string, error)
	// Attr returns the attribute value and whether the attribute is set.
	Attr(ctx context.Context, sel, name string) (string, bool, error)
	// HTML returns the outer HTML of the first element matching sel.
	HTML(ctx context.Context, sel string) (string, error)
	// Controls lists every element matching sel in document order, without waiting.
	Controls(ctx context.Context, sel string) ([]Control, error)
	// SendKeys types text into the element, appending to its value.
	SendKeys(ctx context.Context, sel, text string) error
	// SetText clears the element and types text into it.
	SetText(ctx context.Context, sel, text string) error
	PressEscape(ctx context.Context) error
	// DragBy presses the mouse on the element's center, moves it dx pixels right and releases.
	DragBy(ctx context.Context, sel string, dx float64) error
	Close() error
}
