// Package cmd implements the qrscan command tree.
package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ericlevine/qrscan/internal/config"
)

// BuildInfo identifies the binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// app is the state shared by the commands of one invocation.
type app struct {
	fs      afero.Fs
	loader  *config.Loader
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

// NewRootCommand builds the qrscan command tree. Images and configuration
// files are read from fs.
func NewRootCommand(fs afero.Fs, build BuildInfo) *cobra.Command {
	a := &app{fs: fs, loader: config.NewLoader(fs)}

	root := &cobra.Command{
		Use:   "qrscan",
		Short: "Find and decode QR codes in images",
		Long: `qrscan locates QR symbols in images by their finder patterns, samples
them through an affine or perspective transform, corrects errors with
Reed-Solomon codes and prints the decoded payloads.

Examples:
  qrscan scan photo.jpg
  qrscan scan --format json *.png
  QRSCAN_DECODE_WORKERS=2 qrscan scan --also-inverted badge.webp`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is search in ., $HOME/.config/qrscan, /etc/qrscan)")
	flags.BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")

	v := a.loader.Viper()
	_ = v.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log_format", flags.Lookup("log-format"))

	root.AddCommand(newScanCommand(a), newVersionCommand(build))
	return root
}

func (a *app) init(stderr io.Writer) error {
	cfg, err := a.loader.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(stderr, opts)
	} else {
		handler = slog.NewTextHandler(stderr, opts)
	}
	a.logger = slog.New(handler)
	if used := a.loader.ConfigFileUsed(); used != "" {
		a.logger.Debug("configuration loaded", "file", used)
	}
	return nil
}

func newVersionCommand(build BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "qrscan %s (commit: %s, built: %s)\n",
				build.Version, build.Commit, build.Date)
			return err
		},
	}
}
