package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/menta2k/image-acquisition/pkg/export"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var (
		out    string
		verify bool
	)

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Write the dataset index with annotations as Parquet",
		Example: `  image-acquisition export --out dataset.parquet
  image-acquisition export --verify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry(opts.cfg)
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join(opts.cfg.DataDir, opts.cfg.Bucket+".parquet")
			}

			n, err := export.WriteParquet(reg, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", n, out)

			if verify {
				rows, err := export.ReadParquet(out)
				if err != nil {
					return err
				}
				if len(rows) != n {
					return fmt.Errorf("verify %s: expected %d rows, read %d", out, n, len(rows))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "verified %d rows\n", len(rows))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file, default <data-dir>/<bucket>.parquet")
	cmd.Flags().BoolVar(&verify, "verify", false, "read the written file back and check the row count")
	return cmd
}
