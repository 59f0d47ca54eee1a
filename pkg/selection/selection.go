// Package selection implements rubber-band region selection over an image,
// independent of any GUI toolkit. Positions are image pixel coordinates.
package selection

import (
	"image"
)

// State of the pointer interaction
type State int

const (
	Idle State = iota
	DraggingNew
	DraggingMove
)

func (s State) String() string {
	switch s {
	case DraggingNew:
		return "dragging-new"
	case DraggingMove:
		return "dragging-move"
	default:
		return "idle"
	}
}

// Machine tracks a single selection rectangle driven by press, move and release events
type Machine struct {
	state  State
	rect   image.Rectangle
	active bool
	origin image.Point
	offset image.Point
}

// State returns the current interaction state
func (m *Machine) State() State {
	return m.state
}

// Rect returns the current selection and whether one exists
func (m *Machine) Rect() (image.Rectangle, bool) {
	return m.rect, m.active
}

// Press starts a new selection, or a move when p lies inside the existing one.
// A press outside an existing selection discards it and starts a new one at p.
func (m *Machine) Press(p image.Point) {
	if m.active && p.In(m.rect) {
		m.offset = p.Sub(m.rect.Min)
		m.state = DraggingMove
		return
	}
	m.origin = p
	m.rect = image.Rectangle{Min: p, Max: p}
	m.active = true
	m.state = DraggingNew
}

// Move updates the selection for the current drag
func (m *Machine) Move(p image.Point) {
	switch m.state {
	case DraggingNew:
		m.rect = image.Rectangle{Min: m.origin, Max: p}.Canon()
	case DraggingMove:
		m.rect = m.rect.Add(p.Sub(m.offset).Sub(m.rect.Min))
	}
}

// Release ends the current drag and keeps the selection
func (m *Machine) Release() {
	m.state = Idle
	m.offset = image.Point{}
}

// Set replaces the selection, e.g. with a suggested region
func (m *Machine) Set(r image.Rectangle) {
	m.Reset()
	m.rect = r.Canon()
	m.active = true
}

// Reset drops the selection and returns to Idle
func (m *Machine) Reset() {
	*m = Machine{}
}

// Canvas pairs an image with a selection machine. It is the toolkit-free
// model behind the image edit widget.
type Canvas struct {
	img image.Image
	sel Machine
}

// NewCanvas creates an empty canvas
func NewCanvas() *Canvas {
	return &Canvas{}
}

// SetImage displays img and drops any previous selection
func (c *Canvas) SetImage(img image.Image) {
	c.img = img
	c.sel.Reset()
}

// Image returns the displayed image, nil when empty
func (c *Canvas) Image() image.Image {
	return c.img
}

// Selection returns the selected region clipped to the image. The full image
// bounds are returned when nothing (or nothing visible) is selected.
func (c *Canvas) Selection() image.Rectangle {
	if c.img == nil {
		return image.Rectangle{}
	}
	bounds := c.img.Bounds()
	r, ok := c.sel.Rect()
	if !ok {
		return bounds
	}
	r = r.Intersect(bounds)
	if r.Empty() {
		return bounds
	}
	return r
}

// SetSelection replaces the selection
func (c *Canvas) SetSelection(r image.Rectangle) {
	if c.img == nil {
		return
	}
	c.sel.Set(r)
}

// Clear removes the image and all selection state
func (c *Canvas) Clear() {
	c.img = nil
	c.sel.Reset()
}

// Press forwards a pointer press; ignored when no image is shown
func (c *Canvas) Press(p image.Point) {
	if c.img == nil {
		return
	}
	c.sel.Press(p)
}

// Move forwards a pointer move
func (c *Canvas) Move(p image.Point) {
	if c.img == nil {
		return
	}
	c.sel.Move(p)
}

// Release forwards a pointer release
func (c *Canvas) Release() {
	c.sel.Release()
}

// Band returns the raw selection rectangle for drawing
func (c *Canvas) Band() (image.Rectangle, bool) {
	if c.img == nil {
		return image.Rectangle{}, false
	}
	return c.sel.Rect()
}

// State returns the interaction state
func (c *Canvas) State() State {
	return c.sel.State()
}
