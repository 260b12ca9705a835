package engine

import "image"

// Display is the drawing surface a Session presents on. Draw calls go to a
// back buffer; Flip shows it and starts a fresh one, and CaptureFrame copies
// whatever is currently shown.
type Display interface {
	DrawStimulus(s Stimulus, at Placement) error
	Flip() error
	CaptureFrame() (image.Image, error)
	Close() error
}
