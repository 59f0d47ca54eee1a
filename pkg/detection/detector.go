package detection

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/menta2k/image-acquisition/pkg/client"
	"github.com/menta2k/image-acquisition/pkg/types"
)

// DefaultPrompt asks for the box around the main person's head and shoulders
const DefaultPrompt = `You locate the main person in a photo for a portrait dataset.

Return JSON only:
{
  "subject": {
    "label": "string",
    "confidence": 0.0,
    "box": {"x": 0.0, "y": 0.0, "w": 0.0, "h": 0.0}
  },
  "description": "short neutral sentence (<= 15 words)"
}

RULES
- Coordinates are normalized to [0,1] (NOT pixels), x/y is the top-left corner.
- The box should tightly include the head and shoulders of the most prominent person.
- Do not guess identities.
- If no person is visible return {"subject":{"label":"none","confidence":0.0,"box":{"x":0,"y":0,"w":0,"h":0}},"description":"no person"}
- JSON only. No markdown, no code fences, no comments, no trailing commas.`

// MinConfidence below which a suggestion is discarded
const MinConfidence = 0.2

var (
	reBlock    = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reLine     = regexp.MustCompile(`(?m)^\s*//.*$`)
	reTrailing = regexp.MustCompile(`,(\s*[}\]])`)
)

// Detector suggests a selection region using a vision model
type Detector struct {
	client client.VisionClient
	model  string
	prompt string
}

// NewDetector creates a new detector with a vision client
func NewDetector(c client.VisionClient, model string) *Detector {
	return &Detector{client: c, model: model, prompt: DefaultPrompt}
}

// WithPrompt overrides the locator prompt
func (d *Detector) WithPrompt(prompt string) *Detector {
	d.prompt = prompt
	return d
}

// Detect asks the model for the subject region of a base64 encoded image
func (d *Detector) Detect(ctx context.Context, imageB64 string) (*types.Detection, error) {
	raw, err := d.client.Query(ctx, d.model, d.prompt, imageB64)
	if err != nil {
		return nil, err
	}
	det, err := ParseDetection(raw)
	if err != nil {
		return nil, err
	}
	if det.Subject.Label != "none" && det.Subject.Confidence > 0 && det.Subject.Confidence < MinConfidence {
		det.Subject.Label = "none"
	}
	return det, nil
}

// ParseDetection decodes a model answer, tolerating fences, comments and
// trailing commas. Boxes are clamped to the unit square.
func ParseDetection(raw string) (*types.Detection, error) {
	raw = sanitizeModelJSON(raw)
	if !strings.HasPrefix(raw, "{") {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var det types.Detection
	if err := json.Unmarshal([]byte(raw), &det); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}
	det.Subject.Label = strings.ToLower(strings.TrimSpace(det.Subject.Label))
	det.Subject.Box = normalizeBox(det.Subject.Box)
	return &det, nil
}

// sanitizeModelJSON removes code fences, comments, and trailing commas from JSON response
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}

	raw = reBlock.ReplaceAllString(raw, "")
	raw = reLine.ReplaceAllString(raw, "")
	raw = reTrailing.ReplaceAllString(raw, "$1")

	// Keep only the outermost {...}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}

// normalizeBox keeps the box inside [0,1] on both axes
func normalizeBox(b types.Box) types.Box {
	b.X = clamp(b.X, 0, 1)
	b.Y = clamp(b.Y, 0, 1)
	b.W = clamp(b.W, 0, 1-b.X)
	b.H = clamp(b.H, 0, 1-b.Y)
	return b
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
