package detection

import (
	"context"
	"fmt"
	"image"

	"github.com/menta2k/image-acquisition/pkg/processing"
)

// EncodeOptions control the copy of the image sent to the model
type EncodeOptions struct {
	Format  string
	MaxSize int
	Quality int
}

// ModelSuggester turns a Detector answer into a pixel selection
type ModelSuggester struct {
	detector  *Detector
	processor *processing.Processor
	encode    EncodeOptions
}

// NewModelSuggester creates a suggester around a detector
func NewModelSuggester(d *Detector, proc *processing.Processor, encode EncodeOptions) *ModelSuggester {
	if encode.Format == "" {
		encode.Format = "jpg"
	}
	if encode.Quality == 0 {
		encode.Quality = 85
	}
	return &ModelSuggester{detector: d, processor: proc, encode: encode}
}

// Suggest returns the subject region in img pixels, or an empty rectangle
// when the model found none
func (s *ModelSuggester) Suggest(ctx context.Context, img image.Image) (image.Rectangle, error) {
	b64, err := s.processor.PrepareImageForModel(img, s.encode.Format, s.encode.MaxSize, s.encode.Quality)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("failed to encode image for model: %w", err)
	}
	det, err := s.detector.Detect(ctx, b64)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("region suggestion failed: %w", err)
	}
	if !det.Found() {
		return image.Rectangle{}, nil
	}
	return processing.BoxToRect(det.Subject.Box, img.Bounds()), nil
}
