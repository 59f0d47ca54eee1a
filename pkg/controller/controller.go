// Package controller holds the form logic of the acquisition window: each
// exported method is the handler for one UI event. It has no dependency on
// a GUI toolkit; the window forwards events and renders the results.
package controller

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/menta2k/image-acquisition/pkg/processing"
	"github.com/menta2k/image-acquisition/pkg/registry"
	"github.com/menta2k/image-acquisition/pkg/types"
)

var (
	ErrNoImage         = errors.New("no image loaded")
	ErrNoSubject       = errors.New("subject name is empty")
	ErrSuggestDisabled = errors.New("region suggestion is not configured")
	ErrNoSuggestion    = errors.New("no subject region found")
)

// Canvas is the image display with a selectable region
type Canvas interface {
	SetImage(img image.Image)
	Image() image.Image
	// Selection returns the selected region, the full image when none
	Selection() image.Rectangle
	SetSelection(r image.Rectangle)
	Clear()
}

// Suggester proposes a selection for an image. An empty rectangle means
// nothing was found.
type Suggester interface {
	Suggest(ctx context.Context, img image.Image) (image.Rectangle, error)
}

// OutputConfig controls how crops are encoded
type OutputConfig struct {
	Format   string
	Quality  int
	Lossless bool
}

// SaveRequest carries the metadata fields of the form
type SaveRequest struct {
	Name      string
	Gender    types.Gender
	Ethnicity types.Ethnicity
}

// SaveResult describes one persisted crop
type SaveResult struct {
	Subject types.Subject
	Record  types.IndexRecord
	File    string
}

// Controller wires the form, the canvas, the processor and the registry
type Controller struct {
	registry  *registry.Registry
	processor *processing.Processor
	canvas    Canvas
	suggester Suggester

	output OutputConfig

	sourceURL string
	current   *types.Subject
}

// Option configures a Controller
type Option func(*Controller)

// WithOutput sets the crop encoding
func WithOutput(cfg OutputConfig) Option {
	return func(c *Controller) { c.output = cfg }
}

// WithSuggester enables region suggestion
func WithSuggester(s Suggester) Option {
	return func(c *Controller) { c.suggester = s }
}

// New creates a controller. The registry must already be loaded.
func New(reg *registry.Registry, proc *processing.Processor, canvas Canvas, opts ...Option) *Controller {
	c := &Controller{
		registry:  reg,
		processor: proc,
		canvas:    canvas,
		output:    OutputConfig{Format: "png", Quality: 90},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the subject store
func (c *Controller) Registry() *registry.Registry {
	return c.registry
}

// SourceURL returns the URL of the displayed image
func (c *Controller) SourceURL() string {
	return c.sourceURL
}

// Current returns the subject selected by the last name lookup
func (c *Controller) Current() (types.Subject, bool) {
	if c.current == nil {
		return types.Subject{}, false
	}
	return *c.current, true
}

// SuggestEnabled reports whether a region suggester is configured
func (c *Controller) SuggestEnabled() bool {
	return c.suggester != nil
}

// Load handles the load button. The image is fetched synchronously and
// shown downscaled; any failure leaves the canvas untouched and reports false.
func (c *Controller) Load(ctx context.Context, source string) bool {
	source = strings.TrimSpace(source)
	img, err := c.processor.FetchImage(ctx, source)
	if err != nil {
		log.WithField("source", source).WithError(err).Debug("image load aborted")
		return false
	}

	original := img.Bounds()
	img = c.processor.Downscale(img)
	c.canvas.SetImage(img)
	c.sourceURL = source

	log.WithFields(log.Fields{
		"source":   source,
		"original": fmt.Sprintf("%dx%d", original.Dx(), original.Dy()),
		"shown":    fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()),
	}).Info("image loaded")
	return true
}

// SubjectCommitted handles the subject name field losing focus. Known names
// return their stored record; unknown names get a default record. The
// returned flag is false for an empty name.
func (c *Controller) SubjectCommitted(name string) (types.Subject, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		c.current = nil
		return types.Subject{}, false
	}
	_, known := c.registry.Lookup(name)
	s := c.registry.Ensure(name)
	c.current = &s

	log.WithFields(log.Fields{"subject": name, "known": known, "dir": s.Dir}).Debug("subject selected")
	return s, true
}

// Save handles the save button: the selected crop is written to the
// subject's directory, its sidecar is rewritten, the index gets one more
// line and the canvas is cleared for the next entry.
func (c *Controller) Save(req SaveRequest) (SaveResult, error) {
	img := c.canvas.Image()
	if img == nil {
		return SaveResult{}, ErrNoImage
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return SaveResult{}, ErrNoSubject
	}

	crop, err := processing.Crop(img, c.canvas.Selection())
	if err != nil {
		return SaveResult{}, fmt.Errorf("failed to crop selection: %w", err)
	}

	s := c.registry.Reserve(req.Name)
	if req.Gender != "" {
		s.Gender = req.Gender
	}
	if req.Ethnicity != "" {
		s.Ethnicity = req.Ethnicity
	}

	rel := s.ImagePath(s.MaxSeq, processing.Extension(c.output.Format))
	rec := types.IndexRecord{Path: rel, Name: s.Name, URL: c.sourceURL}
	if err := registry.ValidateRecord(rec); err != nil {
		return SaveResult{}, err
	}

	file := c.registry.ImagePath(rel)
	if err := c.processor.SaveImage(crop, file, c.output.Format, c.output.Quality, c.output.Lossless); err != nil {
		return SaveResult{}, fmt.Errorf("failed to save crop: %w", err)
	}
	if err := c.registry.Commit(s, rec); err != nil {
		if rmErr := os.Remove(file); rmErr != nil {
			log.WithError(rmErr).WithField("file", file).Warn("failed to remove orphaned crop")
		}
		return SaveResult{}, err
	}

	log.WithFields(log.Fields{
		"file":    file,
		"subject": s.Name,
		"size":    fmt.Sprintf("%dx%d", crop.Bounds().Dx(), crop.Bounds().Dy()),
	}).Info("crop saved")

	c.Reset()
	return SaveResult{Subject: s, Record: rec, File: file}, nil
}

// Suggest asks the configured suggester for the subject region and selects it
func (c *Controller) Suggest(ctx context.Context) (image.Rectangle, error) {
	if c.suggester == nil {
		return image.Rectangle{}, ErrSuggestDisabled
	}
	img := c.canvas.Image()
	if img == nil {
		return image.Rectangle{}, ErrNoImage
	}

	r, err := c.suggester.Suggest(ctx, img)
	if err != nil {
		return image.Rectangle{}, err
	}
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return image.Rectangle{}, ErrNoSuggestion
	}
	c.canvas.SetSelection(r)

	log.WithField("rect", r.String()).Info("region suggested")
	return r, nil
}

// Reset clears the canvas and forgets the source and current subject
func (c *Controller) Reset() {
	c.canvas.Clear()
	c.sourceURL = ""
	c.current = nil
}
