package ui

import (
	"image"
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
)

func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 64, 255})
		}
	}
	return img
}

// newTestEdit shows a 200x100 image in a 400x400 widget: scale 2, drawn at y 100
func newTestEdit(t *testing.T) *ImageEdit {
	t.Helper()
	test.NewTempApp(t)

	e := NewImageEdit()
	e.Resize(fyne.NewSize(400, 400))
	e.SetImage(createTestImage(200, 100))
	return e
}

func press(e *ImageEdit, x, y float32, button desktop.MouseButton) {
	e.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     button,
	})
}

func drag(e *ImageEdit, x, y float32) {
	e.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}})
}

func TestImageEditDragSelectsInImagePixels(t *testing.T) {
	e := newTestEdit(t)

	press(e, 100, 140, desktop.MouseButtonPrimary)
	drag(e, 300, 240)
	e.DragEnd()

	if want := image.Rect(50, 20, 150, 70); e.Selection() != want {
		t.Errorf("Expected selection %v, got %v", want, e.Selection())
	}
}

func TestImageEditDragInsideMovesSelection(t *testing.T) {
	e := newTestEdit(t)
	e.SetSelection(image.Rect(50, 20, 150, 70))

	press(e, 200, 190, desktop.MouseButtonPrimary)
	drag(e, 240, 210)
	e.MouseUp(&desktop.MouseEvent{})

	if want := image.Rect(70, 30, 170, 80); e.Selection() != want {
		t.Errorf("Expected moved selection %v, got %v", want, e.Selection())
	}
}

func TestImageEditIgnoresSecondaryButton(t *testing.T) {
	e := newTestEdit(t)

	press(e, 100, 140, desktop.MouseButtonSecondary)
	drag(e, 300, 240)
	e.DragEnd()

	if e.Selection() != image.Rect(0, 0, 200, 100) {
		t.Errorf("Expected full image selection, got %v", e.Selection())
	}
}

func TestImageEditRendersBand(t *testing.T) {
	e := newTestEdit(t)
	r := test.TempWidgetRenderer(t, e)
	band := r.Objects()[2]

	r.Refresh()
	if band.Visible() {
		t.Error("Expected no band without a selection")
	}

	e.SetSelection(image.Rect(50, 20, 150, 70))
	r.Refresh()
	if !band.Visible() {
		t.Fatal("Expected band to be shown")
	}
	if band.Position() != fyne.NewPos(100, 140) || band.Size() != fyne.NewSize(200, 100) {
		t.Errorf("Unexpected band placement %v %v", band.Position(), band.Size())
	}

	e.Clear()
	r.Refresh()
	if band.Visible() {
		t.Error("Expected band to be hidden after clear")
	}
}

func TestImageEditCursor(t *testing.T) {
	test.NewTempApp(t)
	e := NewImageEdit()
	if e.Cursor() != desktop.DefaultCursor {
		t.Error("Expected default cursor without an image")
	}
	e.SetImage(createTestImage(10, 10))
	if e.Cursor() != desktop.CrosshairCursor {
		t.Error("Expected crosshair over an image")
	}
}
