package processing

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/image-acquisition/pkg/types"
)

// DefaultMaxDimension is the longest side kept for displayed images
const DefaultMaxDimension = 1000

// Processor handles image processing operations
type Processor struct {
	httpClient   *http.Client
	userAgent    string
	maxDimension int
}

// Option configures a Processor
type Option func(*Processor)

// WithHTTPClient sets the client used for downloads
func WithHTTPClient(c *http.Client) Option {
	return func(p *Processor) { p.httpClient = c }
}

// WithFetchTimeout sets a download timeout; zero means none
func WithFetchTimeout(d time.Duration) Option {
	return func(p *Processor) { p.httpClient = &http.Client{Timeout: d} }
}

// WithUserAgent sets the User-Agent header for downloads
func WithUserAgent(ua string) Option {
	return func(p *Processor) { p.userAgent = ua }
}

// WithMaxDimension sets the downscale threshold; zero disables downscaling
func WithMaxDimension(n int) Option {
	return func(p *Processor) { p.maxDimension = n }
}

// NewProcessor creates a new image processor
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		httpClient:   &http.Client{},
		userAgent:    "Image-Acquisition/1.0",
		maxDimension: DefaultMaxDimension,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MaxDimension returns the downscale threshold
func (p *Processor) MaxDimension() int {
	return p.maxDimension
}

// FetchImage loads an image from an http(s) URL, a file:// URL or a local path
func (p *Processor) FetchImage(ctx context.Context, source string) (image.Image, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("empty image source")
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return p.LoadImageFromURL(ctx, source)
	}
	if strings.HasPrefix(source, "file://") {
		u, err := url.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		return p.LoadImage(u.Path)
	}
	return p.LoadImage(source)
}

// LoadImageFromURL downloads and decodes an image
func (p *Processor) LoadImageFromURL(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return p.DecodeImage(data)
}

// LoadImage loads an image from a file path with WebP support
func (p *Processor) LoadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	return p.DecodeImage(data)
}

// DecodeImage decodes raw bytes, falling back to the cgo WebP decoder
func (p *Processor) DecodeImage(data []byte) (image.Image, error) {
	if img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown or unsupported format")
}

// Downscale fits img inside the configured maximum dimension, preserving
// aspect ratio. Images already within the limit are returned untouched.
func (p *Processor) Downscale(img image.Image) image.Image {
	return Downscale(img, p.maxDimension)
}

// Downscale fits img inside a maxDim x maxDim box
func Downscale(img image.Image, maxDim int) image.Image {
	if maxDim <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
}

// Crop returns the part of img inside rect
func Crop(img image.Image, rect image.Rectangle) (image.Image, error) {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("empty crop rectangle")
	}
	return imaging.Crop(img, rect), nil
}

// BoxToRect converts a normalized box into pixel coordinates within bounds
func BoxToRect(box types.Box, bounds image.Rectangle) image.Rectangle {
	fw, fh := float64(bounds.Dx()), float64(bounds.Dy())
	x0 := int(clamp(box.X, 0, 1)*fw + 0.5)
	y0 := int(clamp(box.Y, 0, 1)*fh + 0.5)
	x1 := int(clamp(box.X+box.W, 0, 1)*fw + 0.5)
	y1 := int(clamp(box.Y+box.H, 0, 1)*fh + 0.5)
	return image.Rect(x0, y0, x1, y1).Add(bounds.Min)
}

// PrepareImageForModel converts an image to base64 for sending to vision models
func (p *Processor) PrepareImageForModel(img image.Image, format string, maxDim int, quality int) (string, error) {
	img = Downscale(img, maxDim)

	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return "", err
		}
	default: // jpg
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return "", err
		}
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Extension returns the file extension used for an output format
func Extension(format string) string {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return "jpg"
	case "webp":
		return "webp"
	default:
		return "png"
	}
}

// SaveImage saves an image to a file with the specified format and quality,
// creating the parent directory when needed
func (p *Processor) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	switch Extension(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		return webp.Encode(f, img, opts)
	case "jpg":
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	default:
		return imaging.Save(img, path, imaging.PNGCompressionLevel(png.DefaultCompression))
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
