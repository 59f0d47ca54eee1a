package main

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/menta2k/image-acquisition/pkg/controller"
	"github.com/menta2k/image-acquisition/pkg/selection"
	"github.com/menta2k/image-acquisition/pkg/types"
)

func newAddCmd(opts *globalOptions) *cobra.Command {
	var (
		url       string
		name      string
		gender    string
		ethnicity string
		rect      string
		suggest   bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save one crop without opening the window",
		Long: `Loads an image, selects a region and saves it for a subject, exactly as
the window does. Without --rect the whole image is saved, unless --suggest
asks the configured vision model for the region.`,
		Example: `  # Save the whole image for a new subject
  image-acquisition add --url https://example.com/a.jpg --name "Ada Lovelace"

  # Save a region, with annotations
  image-acquisition add --url ./photo.png --name Bob --gender male --ethnicity asian --rect 10,20,200,240`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// annotations of a known subject are kept unless given explicitly
			req := controller.SaveRequest{Name: name}
			if cmd.Flags().Changed("gender") {
				g, ok := types.GenderFromLabel(gender)
				if !ok {
					return fmt.Errorf("unknown gender %q (use one of %s)", gender, strings.Join(types.GenderLabels(), ", "))
				}
				req.Gender = g
			}
			if cmd.Flags().Changed("ethnicity") {
				e, ok := types.EthnicityFromLabel(ethnicity)
				if !ok {
					return fmt.Errorf("unknown ethnicity %q (use one of %s)", ethnicity, strings.Join(types.EthnicityLabels(), ", "))
				}
				req.Ethnicity = e
			}

			canvas := selection.NewCanvas()
			ctrl, err := newController(opts.cfg, canvas)
			if err != nil {
				return err
			}

			if !ctrl.Load(cmd.Context(), url) {
				return fmt.Errorf("failed to load image from %s", url)
			}

			switch {
			case rect != "":
				r, err := parseRect(rect)
				if err != nil {
					return err
				}
				canvas.SetSelection(r)
			case suggest:
				if _, err := ctrl.Suggest(cmd.Context()); err != nil {
					return err
				}
			}

			res, err := ctrl.Save(req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s for %s\n", res.File, res.Subject.Name)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&url, "url", "", "image URL or local path (required)")
	flags.StringVar(&name, "name", "", "subject name (required)")
	flags.StringVar(&gender, "gender", types.DefaultGender().Label(), "subject gender: "+strings.Join(types.GenderLabels(), ", "))
	flags.StringVar(&ethnicity, "ethnicity", types.DefaultEthnicity().Label(), "subject ethnicity: "+strings.Join(types.EthnicityLabels(), ", "))
	flags.StringVar(&rect, "rect", "", "region to save as x,y,w,h in pixels of the displayed image")
	flags.BoolVar(&suggest, "suggest", false, "ask the configured vision model for the region")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// parseRect parses "x,y,w,h" into a rectangle
func parseRect(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, errors.New("rect must be x,y,w,h")
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("rect must be x,y,w,h: %w", err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, errors.New("rect width and height must be positive")
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}
