package selection

import (
	"image"
	"image/color"
	"testing"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img
}

func TestDragCreatesNormalizedSelection(t *testing.T) {
	var m Machine
	m.Press(image.Pt(80, 60))
	if m.State() != DraggingNew {
		t.Fatalf("Expected state %s, got %s", DraggingNew, m.State())
	}
	m.Move(image.Pt(20, 10))
	m.Release()

	r, ok := m.Rect()
	if !ok {
		t.Fatal("Expected a selection after drag")
	}
	if want := image.Rect(20, 10, 80, 60); r != want {
		t.Errorf("Expected %v, got %v", want, r)
	}
	if m.State() != Idle {
		t.Errorf("Expected idle after release, got %s", m.State())
	}
}

func TestPressInsideMovesSelection(t *testing.T) {
	var m Machine
	m.Press(image.Pt(10, 10))
	m.Move(image.Pt(50, 40))
	m.Release()

	m.Press(image.Pt(20, 20))
	if m.State() != DraggingMove {
		t.Fatalf("Expected state %s, got %s", DraggingMove, m.State())
	}
	m.Move(image.Pt(30, 25))
	m.Release()

	r, _ := m.Rect()
	if want := image.Rect(20, 15, 60, 45); r != want {
		t.Errorf("Expected moved rect %v, got %v", want, r)
	}
	if r.Dx() != 40 || r.Dy() != 30 {
		t.Errorf("Move must preserve size, got %dx%d", r.Dx(), r.Dy())
	}
}

func TestPressOutsideStartsNewSelection(t *testing.T) {
	var m Machine
	m.Press(image.Pt(10, 10))
	m.Move(image.Pt(30, 30))
	m.Release()

	m.Press(image.Pt(100, 100))
	if m.State() != DraggingNew {
		t.Fatalf("Expected state %s, got %s", DraggingNew, m.State())
	}
	r, ok := m.Rect()
	if !ok || !r.Empty() {
		t.Errorf("Expected empty new selection at press point, got %v (active=%v)", r, ok)
	}
	m.Move(image.Pt(120, 110))
	r, _ = m.Rect()
	if want := image.Rect(100, 100, 120, 110); r != want {
		t.Errorf("Expected %v, got %v", want, r)
	}
}

func TestMoveWhileIdleIsIgnored(t *testing.T) {
	var m Machine
	m.Move(image.Pt(10, 10))
	if _, ok := m.Rect(); ok {
		t.Error("Move without press should not create a selection")
	}
}

func TestCanvasSelectionWithoutDragReturnsFullImage(t *testing.T) {
	c := NewCanvas()
	c.SetImage(createTestImage(200, 100))

	if got := c.Selection(); got != image.Rect(0, 0, 200, 100) {
		t.Errorf("Expected full image with no selection, got %v", got)
	}

	// click without drag leaves a zero-size band
	c.Press(image.Pt(50, 50))
	c.Release()
	if got := c.Selection(); got != image.Rect(0, 0, 200, 100) {
		t.Errorf("Expected full image after click, got %v", got)
	}
}

func TestCanvasSelectionClippedToImage(t *testing.T) {
	c := NewCanvas()
	c.SetImage(createTestImage(100, 100))
	c.Press(image.Pt(50, 50))
	c.Move(image.Pt(150, 170))
	c.Release()

	if got, want := c.Selection(), image.Rect(50, 50, 100, 100); got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas()
	c.SetImage(createTestImage(100, 100))
	c.Press(image.Pt(10, 10))
	c.Move(image.Pt(20, 20))

	c.Clear()
	if c.Image() != nil {
		t.Error("Expected no image after Clear")
	}
	if _, ok := c.Band(); ok {
		t.Error("Expected no selection after Clear")
	}
	if c.State() != Idle {
		t.Errorf("Expected idle after Clear, got %s", c.State())
	}
	if !c.Selection().Empty() {
		t.Error("Expected empty selection without image")
	}
}

func TestCanvasIgnoresEventsWithoutImage(t *testing.T) {
	c := NewCanvas()
	c.Press(image.Pt(10, 10))
	c.Move(image.Pt(20, 20))
	if _, ok := c.Band(); ok {
		t.Error("Events without an image should be ignored")
	}
}

func TestCanvasSetSelection(t *testing.T) {
	c := NewCanvas()
	c.SetImage(createTestImage(100, 100))
	c.SetSelection(image.Rect(40, 40, 10, 10))

	if got, want := c.Selection(), image.Rect(10, 10, 40, 40); got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
