// Package vision locates the dominant subject of an image without a model,
// from a saliency map built out of local edges and global contrast.
package vision

import (
	"context"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// SaliencyLocator proposes the window that stands out most from the rest
// of the image
type SaliencyLocator struct {
	config DetectionConfig
}

// DetectionConfig holds configuration for subject detection
type DetectionConfig struct {
	// WorkSize is the long side images are reduced to before analysis
	WorkSize       int
	EdgeWeight     float64
	ContrastWeight float64
	// WindowScales are candidate window heights as fractions of the short side
	WindowScales []float64
	// Aspect is the candidate window width over height
	Aspect float64
}

// New creates a locator tuned for portrait (3:4) regions
func New() *SaliencyLocator {
	return &SaliencyLocator{
		config: DetectionConfig{
			WorkSize:       256,
			EdgeWeight:     0.7,
			ContrastWeight: 0.3,
			WindowScales:   []float64{0.3, 0.45, 0.6, 0.8},
			Aspect:         0.75,
		},
	}
}

// NewWithConfig creates a new SaliencyLocator with custom configuration
func NewWithConfig(config DetectionConfig) *SaliencyLocator {
	return &SaliencyLocator{config: config}
}

// Suggest returns the most salient region of img in its own pixel
// coordinates, or an empty rectangle for a featureless image
func (l *SaliencyLocator) Suggest(ctx context.Context, img image.Image) (image.Rectangle, error) {
	if err := ctx.Err(); err != nil {
		return image.Rectangle{}, err
	}
	r, score := l.Locate(img)
	if score <= 0 {
		return image.Rectangle{}, nil
	}
	return r, nil
}

// Locate scores candidate windows by the difference between the mean
// saliency inside and outside them and returns the best one with its score
func (l *SaliencyLocator) Locate(img image.Image) (image.Rectangle, float64) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return image.Rectangle{}, 0
	}

	small := imaging.Clone(img)
	if n := l.config.WorkSize; n > 0 && (bounds.Dx() > n || bounds.Dy() > n) {
		small = imaging.Fit(img, n, n, imaging.Box)
	}
	w, h := small.Bounds().Dx(), small.Bounds().Dy()

	sal := l.SaliencyMap(small)
	sum := integral(sal, w, h)
	total := sum[h][w]
	area := float64(w * h)

	var best image.Rectangle
	bestScore := 0.0
	short := min(w, h)

	for _, scale := range l.config.WindowScales {
		wh := int(float64(short) * scale)
		ww := int(float64(wh) * l.config.Aspect)
		if ww > w {
			ww = w
		}
		if wh < 2 || ww < 2 {
			continue
		}
		step := max(1, wh/8)

		for y := 0; y+wh <= h; y += step {
			for x := 0; x+ww <= w; x += step {
				in := sum[y+wh][x+ww] - sum[y][x+ww] - sum[y+wh][x] + sum[y][x]
				inArea := float64(ww * wh)
				outArea := area - inArea
				if outArea <= 0 {
					continue
				}
				score := in/inArea - (total-in)/outArea
				if score > bestScore {
					bestScore = score
					best = image.Rect(x, y, x+ww, y+wh)
				}
			}
		}
	}

	if bestScore <= 0 {
		return image.Rectangle{}, 0
	}

	sx := float64(bounds.Dx()) / float64(w)
	sy := float64(bounds.Dy()) / float64(h)
	r := image.Rect(
		int(math.Round(float64(best.Min.X)*sx)),
		int(math.Round(float64(best.Min.Y)*sy)),
		int(math.Round(float64(best.Max.X)*sx)),
		int(math.Round(float64(best.Max.Y)*sy)),
	).Add(bounds.Min)
	return r.Intersect(bounds), bestScore
}

// SaliencyMap returns a per-pixel saliency in [0,1] indexed [y][x]
func (l *SaliencyLocator) SaliencyMap(img image.Image) [][]float64 {
	gray := imaging.Grayscale(img)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()

	lum := make([][]float64, h)
	var mean float64
	for y := 0; y < h; y++ {
		lum[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			lum[y][x] = float64(gray.Pix[y*gray.Stride+x*4]) / 255
			mean += lum[y][x]
		}
	}
	mean /= float64(w * h)

	sal := make([][]float64, h)
	for y := 0; y < h; y++ {
		sal[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			var edge float64
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if (dx == 0 && dy == 0) || nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					edge += math.Abs(lum[y][x] - lum[ny][nx])
					n++
				}
			}
			if n > 0 {
				edge /= float64(n)
			}
			contrast := math.Abs(lum[y][x] - mean)
			sal[y][x] = l.config.EdgeWeight*edge + l.config.ContrastWeight*contrast
		}
	}
	return sal
}

// integral builds a summed-area table with one row and column of padding
func integral(m [][]float64, w, h int) [][]float64 {
	sum := make([][]float64, h+1)
	for y := range sum {
		sum[y] = make([]float64, w+1)
	}
	for y := 1; y <= h; y++ {
		var row float64
		for x := 1; x <= w; x++ {
			row += m[y-1][x-1]
			sum[y][x] = sum[y-1][x] + row
		}
	}
	return sum
}
