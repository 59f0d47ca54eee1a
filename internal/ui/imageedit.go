package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/menta2k/image-acquisition/pkg/selection"
)

var (
	backgroundColor = color.NRGBA{R: 40, G: 40, B: 44, A: 255}
	bandFill        = color.NRGBA{R: 0, G: 120, B: 255, A: 40}
	bandStroke      = color.NRGBA{R: 0, G: 120, B: 255, A: 220}
)

// ImageEdit displays an image and lets the user draw a selection over it.
// Dragging inside the selection moves it; pressing outside starts a new one.
type ImageEdit struct {
	widget.BaseWidget

	model *selection.Canvas
}

// NewImageEdit creates an empty image edit widget
func NewImageEdit() *ImageEdit {
	e := &ImageEdit{model: selection.NewCanvas()}
	e.ExtendBaseWidget(e)
	return e
}

// SetImage shows img and drops the selection
func (e *ImageEdit) SetImage(img image.Image) {
	e.model.SetImage(img)
	e.Refresh()
}

// Image returns the displayed image
func (e *ImageEdit) Image() image.Image {
	return e.model.Image()
}

// Selection returns the selected region in image pixels, the full image when
// nothing is selected
func (e *ImageEdit) Selection() image.Rectangle {
	return e.model.Selection()
}

// SetSelection replaces the selection
func (e *ImageEdit) SetSelection(r image.Rectangle) {
	e.model.SetSelection(r)
	e.Refresh()
}

// Clear removes the image and the selection
func (e *ImageEdit) Clear() {
	e.model.Clear()
	e.Refresh()
}

func (e *ImageEdit) viewport() selection.Viewport {
	v := selection.Viewport{Width: e.Size().Width, Height: e.Size().Height}
	if img := e.model.Image(); img != nil {
		v.Image = img.Bounds()
	}
	return v
}

// MouseDown implements desktop.Mouseable
func (e *ImageEdit) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	e.model.Press(e.viewport().ToImage(ev.Position.X, ev.Position.Y))
	e.Refresh()
}

// MouseUp implements desktop.Mouseable
func (e *ImageEdit) MouseUp(ev *desktop.MouseEvent) {
	e.model.Release()
	e.Refresh()
}

// Dragged implements fyne.Draggable
func (e *ImageEdit) Dragged(ev *fyne.DragEvent) {
	e.model.Move(e.viewport().ToImage(ev.Position.X, ev.Position.Y))
	e.Refresh()
}

// DragEnd implements fyne.Draggable
func (e *ImageEdit) DragEnd() {
	e.model.Release()
	e.Refresh()
}

// Cursor implements desktop.Cursorable
func (e *ImageEdit) Cursor() desktop.Cursor {
	if e.model.Image() == nil {
		return desktop.DefaultCursor
	}
	return desktop.CrosshairCursor
}

func (e *ImageEdit) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(backgroundColor)

	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScaleSmooth

	band := canvas.NewRectangle(bandFill)
	band.StrokeColor = bandStroke
	band.StrokeWidth = 2

	r := &imageEditRenderer{edit: e, bg: bg, img: img, band: band}
	r.objects = []fyne.CanvasObject{bg, img, band}
	r.Refresh()
	return r
}

// MinSize keeps room for a useful preview
func (e *ImageEdit) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

type imageEditRenderer struct {
	edit    *ImageEdit
	bg      *canvas.Rectangle
	img     *canvas.Image
	band    *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *imageEditRenderer) Destroy()                     {}
func (r *imageEditRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *imageEditRenderer) MinSize() fyne.Size           { return r.edit.MinSize() }

func (r *imageEditRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	v := r.edit.viewport()
	v.Width, v.Height = size.Width, size.Height

	x, y, w, h := v.Placement()
	r.img.Move(fyne.NewPos(x, y))
	r.img.Resize(fyne.NewSize(w, h))

	band, ok := r.edit.model.Band()
	if !ok || band.Empty() {
		r.band.Hide()
		return
	}
	x, y, w, h = v.ToView(band.Intersect(v.Image))
	r.band.Move(fyne.NewPos(x, y))
	r.band.Resize(fyne.NewSize(w, h))
	r.band.Show()
}

func (r *imageEditRenderer) Refresh() {
	img := r.edit.model.Image()
	if r.img.Image != img {
		r.img.Image = img
		r.img.Refresh()
	}
	if img == nil {
		r.img.Hide()
	} else {
		r.img.Show()
	}
	r.Layout(r.edit.Size())
	canvas.Refresh(r.edit)
}
