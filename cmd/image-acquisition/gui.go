package main

import (
	"github.com/spf13/cobra"

	"github.com/menta2k/image-acquisition/internal/config"
	"github.com/menta2k/image-acquisition/internal/ui"
)

func newGUICmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the acquisition window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(opts.cfg)
		},
	}
}

func runGUI(cfg *config.Config) error {
	edit := ui.NewImageEdit()
	ctrl, err := newController(cfg, edit)
	if err != nil {
		return err
	}
	return ui.Run(ctrl, edit, cfg.Window)
}
