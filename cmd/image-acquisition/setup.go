package main

import (
	"fmt"
	"strings"

	"github.com/menta2k/image-acquisition/internal/config"
	"github.com/menta2k/image-acquisition/pkg/client"
	"github.com/menta2k/image-acquisition/pkg/controller"
	"github.com/menta2k/image-acquisition/pkg/detection"
	"github.com/menta2k/image-acquisition/pkg/llamacpp"
	"github.com/menta2k/image-acquisition/pkg/ollama"
	"github.com/menta2k/image-acquisition/pkg/processing"
	"github.com/menta2k/image-acquisition/pkg/registry"
	"github.com/menta2k/image-acquisition/pkg/vision"
)

// openRegistry loads the subject store; a malformed store aborts startup
func openRegistry(cfg *config.Config) (*registry.Registry, error) {
	reg := registry.New(cfg.DataDir, cfg.Bucket)
	if err := reg.Load(); err != nil {
		return nil, fmt.Errorf("failed to load subject registry: %w", err)
	}
	return reg, nil
}

func newProcessor(cfg *config.Config) (*processing.Processor, error) {
	timeout, err := cfg.FetchTimeout()
	if err != nil {
		return nil, err
	}
	return processing.NewProcessor(
		processing.WithMaxDimension(cfg.Image.MaxDimension),
		processing.WithUserAgent(cfg.Image.UserAgent),
		processing.WithFetchTimeout(timeout),
	), nil
}

// newSuggester creates the region suggester for the configured backend,
// nil when suggestion is disabled
func newSuggester(cfg *config.Config, proc *processing.Processor) (controller.Suggester, error) {
	var vc client.VisionClient
	switch strings.ToLower(cfg.Suggest.Backend) {
	case config.BackendSaliency:
		return vision.New(), nil
	case config.BackendOllama:
		c, err := ollama.NewClient(cfg.Suggest.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		vc = c
	case config.BackendLlamaCpp:
		c, err := llamacpp.NewClient(cfg.Suggest.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create llama.cpp client: %w", err)
		}
		vc = c
	default:
		return nil, nil
	}

	return detection.NewModelSuggester(
		detection.NewDetector(vc, cfg.Suggest.Model),
		proc,
		detection.EncodeOptions{
			Format:  cfg.Suggest.SendFormat,
			MaxSize: cfg.Suggest.SendSize,
			Quality: cfg.Suggest.SendQuality,
		},
	), nil
}

// newController wires the registry, processor and optional suggester around canvas
func newController(cfg *config.Config, canvas controller.Canvas) (*controller.Controller, error) {
	reg, err := openRegistry(cfg)
	if err != nil {
		return nil, err
	}
	proc, err := newProcessor(cfg)
	if err != nil {
		return nil, err
	}

	opts := []controller.Option{
		controller.WithOutput(controller.OutputConfig{
			Format:   cfg.Image.Format,
			Quality:  cfg.Image.Quality,
			Lossless: cfg.Image.Lossless,
		}),
	}

	suggester, err := newSuggester(cfg, proc)
	if err != nil {
		return nil, err
	}
	if suggester != nil {
		opts = append(opts, controller.WithSuggester(suggester))
	}

	return controller.New(reg, proc, canvas, opts...), nil
}
