package main

import (
	"fmt"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/menta2k/image-acquisition/internal/config"
	"github.com/menta2k/image-acquisition/internal/utils"
)

// globalOptions are the persistent flags shared by all commands
type globalOptions struct {
	configPath string
	dataDir    string
	bucket     string
	logLevel   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "image-acquisition",
		Short: "Collect annotated image crops into a small dataset",
		Long: `Image acquisition downloads an image from a URL, lets you select a region
of interest and stores the crop with subject annotations under a data directory.

Without a subcommand the desktop window is opened.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return opts.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(opts.cfg)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (.yaml, .yml or .json), default "+config.GetConfigPath())
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory holding images, sidecars and the index")
	flags.StringVar(&opts.bucket, "bucket", "", "dataset name used for the index file <bucket>-info.csv")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newGUICmd(opts),
		newAddCmd(opts),
		newSubjectsCmd(opts),
		newExportCmd(opts),
		newConfigCmd(opts),
	)

	return cmd
}

// load resolves the configuration: defaults, then the config file, then
// IMAGE_ACQ_* variables, then explicit flags.
func (o *globalOptions) load(cmd *cobra.Command) error {
	path := o.configPath
	if path == "" && utils.FileExists(config.GetConfigPath()) {
		path = config.GetConfigPath()
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = o.dataDir
	}
	if flags.Changed("bucket") {
		cfg.Bucket = o.bucket
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)
	log.WithFields(log.Fields{"config": path, "data_dir": cfg.DataDir, "bucket": cfg.Bucket}).Debug("configuration loaded")

	o.cfg = cfg
	return nil
}
