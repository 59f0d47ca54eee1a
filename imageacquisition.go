// Package imageacquisition builds small annotated image datasets.
//
// An image is fetched from a URL, the user selects a region of interest and
// the crop is saved under a per-subject directory together with an
// annotation sidecar and a line in the dataset index.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"image"
//		"log"
//
//		imageacquisition "github.com/menta2k/image-acquisition"
//		"github.com/menta2k/image-acquisition/pkg/controller"
//		"github.com/menta2k/image-acquisition/pkg/selection"
//	)
//
//	func main() {
//		canvas := selection.NewCanvas()
//		ctrl, err := imageacquisition.Open("data", "faces", canvas)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		if !ctrl.Load(context.Background(), "https://example.com/portrait.jpg") {
//			log.Fatal("image could not be loaded")
//		}
//		canvas.SetSelection(image.Rect(100, 50, 400, 450))
//
//		res, err := ctrl.Save(controller.SaveRequest{Name: "Ada Lovelace"})
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println("saved", res.File)
//	}
//
// The package consists of these components:
//
//  1. Selection (pkg/selection): rubber-band selection over an image
//  2. Controller (pkg/controller): load, subject lookup, save and suggest handlers
//  3. Registry (pkg/registry): subjects, index file and annotation sidecars
//  4. Processing (pkg/processing): fetch, downscale, crop and encode images
//  5. Suggestion (pkg/vision, pkg/detection): proposes the subject region
//
// The data directory layout is:
//
//	data/<bucket>-info.csv        001/01.png;"Ada Lovelace";https://...
//	data/001/annotations.json     {"gender":"f","ethnicity":"1"}
//	data/001/01.png
package imageacquisition

import (
	"github.com/menta2k/image-acquisition/pkg/controller"
	"github.com/menta2k/image-acquisition/pkg/processing"
	"github.com/menta2k/image-acquisition/pkg/registry"
)

// Version of the image acquisition library
const Version = "0.1.0"

// Open loads the registry under dataDir and returns a controller driving
// canvas with a default processor
func Open(dataDir, bucket string, canvas controller.Canvas, opts ...controller.Option) (*controller.Controller, error) {
	reg := registry.New(dataDir, bucket)
	if err := reg.Load(); err != nil {
		return nil, err
	}
	return controller.New(reg, processing.NewProcessor(), canvas, opts...), nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
