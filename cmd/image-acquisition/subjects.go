package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSubjectsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List known subjects",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry(opts.cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DIR\tNAME\tGENDER\tETHNICITY\tIMAGES")
			for _, s := range reg.Subjects() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", s.Dir, s.Name, s.Gender.Label(), s.Ethnicity.Label(), s.MaxSeq)
			}
			return w.Flush()
		},
	}
}
