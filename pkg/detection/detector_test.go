package detection

import (
	"context"
	"errors"
	"testing"

	"github.com/menta2k/image-acquisition/pkg/types"
)

type fakeClient struct {
	answer string
	err    error
	model  string
}

func (f *fakeClient) Query(ctx context.Context, model, prompt, imgB64 string) (string, error) {
	f.model = model
	return f.answer, f.err
}

func TestDetect(t *testing.T) {
	fc := &fakeClient{answer: "```json\n{\"subject\":{\"label\":\"Person\",\"confidence\":0.9,\"box\":{\"x\":0.1,\"y\":0.2,\"w\":0.5,\"h\":0.6},},\"description\":\"a person\"}\n```"}
	det, err := NewDetector(fc, "llava").Detect(context.Background(), "QUJD")
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if fc.model != "llava" {
		t.Errorf("Expected model llava, got %q", fc.model)
	}
	if !det.Found() {
		t.Fatal("Expected a subject")
	}
	if det.Subject.Label != "person" {
		t.Errorf("Expected lower-cased label, got %q", det.Subject.Label)
	}
	if want := (types.Box{X: 0.1, Y: 0.2, W: 0.5, H: 0.6}); det.Subject.Box != want {
		t.Errorf("Expected box %+v, got %+v", want, det.Subject.Box)
	}
}

func TestDetectNone(t *testing.T) {
	fc := &fakeClient{answer: `{"subject":{"label":"none","confidence":0,"box":{"x":0,"y":0,"w":0,"h":0}},"description":"no person"}`}
	det, err := NewDetector(fc, "m").Detect(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if det.Found() {
		t.Error("Expected no subject")
	}
}

func TestDetectLowConfidence(t *testing.T) {
	fc := &fakeClient{answer: `{"subject":{"label":"person","confidence":0.05,"box":{"x":0.1,"y":0.1,"w":0.2,"h":0.2}}}`}
	det, err := NewDetector(fc, "m").Detect(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if det.Found() {
		t.Error("Low confidence answers should be discarded")
	}
}

func TestDetectClientError(t *testing.T) {
	fc := &fakeClient{err: errors.New("connection refused")}
	if _, err := NewDetector(fc, "m").Detect(context.Background(), ""); err == nil {
		t.Error("Expected client error to propagate")
	}
}

func TestParseDetection(t *testing.T) {
	det, err := ParseDetection(`Sure! /* note */ {"subject": {"label": "face", "confidence": 0.8, "box": {"x": 0.8, "y": -0.1, "w": 0.5, "h": 0.3}}}`)
	if err != nil {
		t.Fatalf("ParseDetection failed: %v", err)
	}
	b := det.Subject.Box
	if b.X != 0.8 || b.Y != 0 || b.H != 0.3 {
		t.Errorf("Unexpected box %+v", b)
	}
	if b.W < 0.19 || b.W > 0.21 {
		t.Errorf("Expected width clamped to 0.2, got %f", b.W)
	}

	if _, err := ParseDetection("I cannot see an image"); err == nil {
		t.Error("Expected error for answer without JSON")
	}
}

func TestSanitizeKeepsURLs(t *testing.T) {
	raw := "{\n  // comment\n  \"description\": \"see http://example.com\"\n}"
	det, err := ParseDetection(raw)
	if err != nil {
		t.Fatal(err)
	}
	if det.Description != "see http://example.com" {
		t.Errorf("Unexpected description %q", det.Description)
	}
}
