package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"gopkg.in/yaml.v3"

	"github.com/ericlevine/qrscan"
	"github.com/ericlevine/qrscan/internal/config"
	"github.com/ericlevine/qrscan/qrcode"
)

// ErrNothingFound is returned by scan when at least one file yielded no
// symbol. Per-file details have already been reported.
var ErrNothingFound = errors.New("no QR code found")

// fileResult is the printed outcome for one input file.
type fileResult struct {
	File    string    `json:"file" yaml:"file"`
	Symbols []*symbol `json:"symbols" yaml:"symbols"`
	Error   string    `json:"error,omitempty" yaml:"error,omitempty"`
}

type symbol struct {
	Text            string               `json:"text" yaml:"text"`
	Version         int                  `json:"version" yaml:"version"`
	ECLevel         string               `json:"ec_level" yaml:"ec_level"`
	Mask            int                  `json:"mask" yaml:"mask"`
	ErrorsCorrected int                  `json:"errors_corrected" yaml:"errors_corrected"`
	FixedMismatches int                  `json:"fixed_mismatches" yaml:"fixed_mismatches"`
	Points          []qrscan.ResultPoint `json:"points" yaml:"points"`
}

func newScanCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <image> [image...]",
		Short: "Decode the QR codes in image files",
		Long: `Decode every QR code found in the given images. PNG, JPEG, GIF, BMP,
TIFF and WebP files are accepted; EXIF orientation is applied and large
images are scaled down to decode.max_dimension first.

The exit status is 1 when any file could not be read or holds no QR code.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.scan(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}

	d := config.DefaultConfig()
	flags := cmd.Flags()
	flags.StringP("format", "f", d.Output.Format, "output format (text, json, yaml)")
	flags.Bool("raw", d.Output.Raw, "print payload text without escaping control characters")
	flags.Int("workers", d.Decode.Workers, "candidates decoded in parallel (0 = number of CPUs)")
	flags.Duration("timeout", d.Decode.Timeout, "time limit per image (0 = none)")
	flags.Int("max-finders", d.Decode.MaxFinders, "finder patterns kept per image (0 = all)")
	flags.StringSlice("binarizer", d.Decode.Binarizers, "binarizers to try in order (histogram, hybrid)")
	flags.Bool("also-inverted", d.Decode.AlsoInverted, "also look for light-on-dark symbols")
	flags.Int("max-dimension", d.Decode.MaxDimension, "downscale images larger than this (0 = never)")

	v := a.loader.Viper()
	for key, name := range map[string]string{
		"output.format":        "format",
		"output.raw":           "raw",
		"decode.workers":       "workers",
		"decode.timeout":       "timeout",
		"decode.max_finders":   "max-finders",
		"decode.binarizers":    "binarizer",
		"decode.also_inverted": "also-inverted",
		"decode.max_dimension": "max-dimension",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
	return cmd
}

func (a *app) scan(ctx context.Context, out io.Writer, paths []string) error {
	reader := qrcode.NewReader(append(a.cfg.Decode.ReaderOptions(), qrcode.WithLogger(a.logger))...)

	results := make([]*fileResult, 0, len(paths))
	failed := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := &fileResult{File: path, Symbols: []*symbol{}}
		decoded, err := a.scanFile(ctx, reader, path)
		switch {
		case err != nil:
			a.logger.Error("scan failed", "file", path, "err", err)
			res.Error = err.Error()
			failed++
		case len(decoded) == 0:
			a.logger.Warn("no QR code found", "file", path)
			failed++
		}
		for _, r := range decoded {
			res.Symbols = append(res.Symbols, a.newSymbol(r))
		}
		results = append(results, res)
	}

	if err := a.write(out, results, len(paths) > 1); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w in %d of %d files", ErrNothingFound, failed, len(paths))
	}
	return nil
}

func (a *app) scanFile(ctx context.Context, reader *qrcode.Reader, path string) ([]*qrscan.Result, error) {
	img, err := a.loadImage(path)
	if err != nil {
		return nil, err
	}
	return reader.DecodeImage(ctx, img)
}

func (a *app) loadImage(path string) (image.Image, error) {
	f, err := a.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if limit := a.cfg.Decode.MaxDimension; limit > 0 && (b.Dx() > limit || b.Dy() > limit) {
		a.logger.Debug("downscaling image", "file", path, "width", b.Dx(), "height", b.Dy(), "max", limit)
		img = imaging.Fit(img, limit, limit, imaging.Lanczos)
	}
	return img, nil
}

func (a *app) newSymbol(r *qrscan.Result) *symbol {
	text := r.Text()
	if !a.cfg.Output.Raw {
		text = qrscan.ForDisplay(text)
	}
	return &symbol{
		Text:            text,
		Version:         r.Version,
		ECLevel:         r.ECLevel,
		Mask:            r.Mask,
		ErrorsCorrected: r.ErrorsCorrected,
		FixedMismatches: r.FixedMismatches,
		Points:          r.Points,
	}
}

func (a *app) write(out io.Writer, results []*fileResult, prefix bool) error {
	switch a.cfg.Output.Format {
	case config.FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case config.FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	}
	for _, res := range results {
		for _, s := range res.Symbols {
			if prefix {
				if _, err := fmt.Fprintf(out, "%s: ", res.File); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(out, s.Text); err != nil {
				return err
			}
		}
	}
	return nil
}
