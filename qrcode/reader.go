// Package qrcode finds and decodes QR symbols in binarized images.
//
// Every triple of finder patterns that forms a plausible corner is a
// candidate symbol. Candidates are decoded in parallel and each one either
// yields a result or is dropped; a failed candidate never fails the call.
package qrcode

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericlevine/qrscan"
	"github.com/ericlevine/qrscan/bitutil"
	"github.com/ericlevine/qrscan/qrcode/decoder"
	"github.com/ericlevine/qrscan/qrcode/detector"
	"github.com/ericlevine/qrscan/transform"
)

var errCandidatePanic = errors.New("qrcode: candidate panicked")

// Options tune a Reader.
type Options struct {
	// Workers bounds the number of candidates decoded at once. Zero means
	// runtime.NumCPU().
	Workers int
	// Timeout bounds the time spent on one bitmap. Symbols found before it
	// expires are still returned. Zero means no limit.
	Timeout time.Duration
	// MaxFinders keeps only the best confirmed finders when more are found,
	// bounding the number of triples tried. Zero means no limit.
	MaxFinders int
	// AlsoInverted retries on the inverted bitmap when nothing is found,
	// for light-on-dark symbols.
	AlsoInverted bool
	// Binarizers names the binarizers DecodeImage tries, in order.
	Binarizers []string
	Logger     *slog.Logger
}

// Option sets a Reader option.
type Option func(*Options)

// WithWorkers sets Options.Workers.
func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

// WithTimeout sets Options.Timeout.
func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }

// WithMaxFinders sets Options.MaxFinders.
func WithMaxFinders(n int) Option { return func(o *Options) { o.MaxFinders = n } }

// WithAlsoInverted sets Options.AlsoInverted.
func WithAlsoInverted(on bool) Option { return func(o *Options) { o.AlsoInverted = on } }

// WithBinarizers sets Options.Binarizers.
func WithBinarizers(names ...string) Option { return func(o *Options) { o.Binarizers = names } }

// WithLogger sets Options.Logger.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

// Reader decodes QR symbols. It is safe for concurrent use.
type Reader struct {
	opts Options
}

var _ qrscan.Reader = (*Reader)(nil)

// NewReader creates a Reader.
func NewReader(opts ...Option) *Reader {
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if len(o.Binarizers) == 0 {
		o.Binarizers = []string{BinarizerHistogram, BinarizerHybrid}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return &Reader{opts: o}
}

// Options returns the effective options.
func (r *Reader) Options() Options {
	return r.opts
}

// Decode returns every symbol decoded from image, in finder triple order.
// The error reports binarization failures and cancellation of ctx only.
func (r *Reader) Decode(ctx context.Context, image *qrscan.BinaryBitmap) ([]*qrscan.Result, error) {
	start := time.Now()
	defer func() { decodeDuration.Observe(time.Since(start).Seconds()) }()

	if err := ctx.Err(); err != nil {
		decodeCalls.WithLabelValues("error").Inc()
		return nil, err
	}
	if image.Width() < 1 || image.Height() < 1 {
		decodeCalls.WithLabelValues("empty").Inc()
		return nil, nil
	}
	grid, err := image.BlackMatrix()
	if err != nil {
		decodeCalls.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("binarize: %w", err)
	}

	scanCtx := ctx
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		scanCtx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}
	results := r.decodeGrid(scanCtx, grid)
	if len(results) == 0 && r.opts.AlsoInverted && scanCtx.Err() == nil {
		results = r.decodeGrid(scanCtx, grid.Inverted())
	}
	if err := ctx.Err(); err != nil {
		decodeCalls.WithLabelValues("error").Inc()
		return results, err
	}
	if scanCtx.Err() != nil {
		r.opts.Logger.Warn("decode timed out", "timeout", r.opts.Timeout, "symbols", len(results))
	}

	status := "found"
	if len(results) == 0 {
		status = "empty"
	}
	decodeCalls.WithLabelValues(status).Inc()
	r.opts.Logger.Debug("decode finished",
		"symbols", len(results),
		"width", grid.Width(),
		"height", grid.Height(),
		"elapsed", time.Since(start))
	return results, nil
}

type hit struct {
	index  int
	result *qrscan.Result
}

func (r *Reader) decodeGrid(ctx context.Context, grid *bitutil.BitMatrix) []*qrscan.Result {
	finders, err := detector.FindFinders(grid)
	if err != nil {
		r.opts.Logger.Debug("no symbol candidates", "stage", "finder", "err", err)
		return nil
	}
	if n := r.opts.MaxFinders; n > 0 && len(finders) > n {
		slices.SortStableFunc(finders, func(a, b detector.Finder) int {
			return cmp.Compare(a.Distance, b.Distance)
		})
		finders = finders[:n]
	}
	corners := detector.Corners(finders)
	r.opts.Logger.Debug("finders located", "finders", len(finders), "corners", len(corners))

	var (
		mu   sync.Mutex
		hits []hit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, c := range corners {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res, version, err := decodeCorner(grid, c)
			if err != nil {
				st := stage(err)
				candidatesTotal.WithLabelValues(st).Inc()
				r.opts.Logger.Debug("candidate rejected", "stage", st, "err", err, "version", version, "corner", i)
				return nil
			}
			candidatesTotal.WithLabelValues("decoded").Inc()
			mu.Lock()
			hits = append(hits, hit{index: i, result: res})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	slices.SortFunc(hits, func(a, b hit) int { return cmp.Compare(a.index, b.index) })
	results := make([]*qrscan.Result, len(hits))
	for i, h := range hits {
		results[i] = h.result
	}
	return results
}

// decodeCorner decodes the symbol framed by one corner. It returns the
// version it settled on alongside any error.
func decodeCorner(grid *bitutil.BitMatrix, c *detector.Corner) (res *qrscan.Result, number int, err error) {
	defer func() {
		if p := recover(); p != nil {
			res, err = nil, fmt.Errorf("%w: %v", errCandidatePanic, p)
		}
	}()

	number, err = c.InitialVersion()
	if err != nil {
		return nil, 0, err
	}
	tl, tr, bl := c.TopLeft.Center(), c.TopRight.Center(), c.BottomLeft.Center()
	affine, err := transform.NewAffine(17+4*number, tl, tr, bl)
	if err != nil {
		return nil, number, err
	}
	if number >= 7 {
		read, err := decoder.ReadVersionInfo(transform.NewSampler(grid, affine), 17+4*number)
		if err != nil {
			return nil, number, err
		}
		if read != number {
			number = read
			if affine, err = transform.NewAffine(17+4*number, tl, tr, bl); err != nil {
				return nil, number, err
			}
		}
	}
	version, err := decoder.VersionForNumber(number)
	if err != nil {
		return nil, number, err
	}

	dr, err := decoder.Decode(transform.NewSampler(grid, affine), version)
	if err == nil {
		return newResult(dr, c.Points()), number, nil
	}
	if number == 1 {
		return nil, number, err
	}

	// Perspective distortion: refine with the bottom-right alignment mark.
	dim := version.Dimension()
	x, y := affine.Map(float64(dim-7), float64(dim-7))
	aligns, aerr := detector.FindAlignments(grid, c.AlignmentArea(qrscan.ResultPoint{X: x, Y: y}))
	if aerr != nil {
		return nil, number, err
	}
	for _, a := range aligns {
		proj, perr := transform.NewProjective(dim, tl, tr, bl, a.Center())
		if perr != nil {
			continue
		}
		dr, derr := decoder.Decode(transform.NewSampler(grid, proj), version)
		if derr == nil {
			return newResult(dr, append(c.Points(), a.Center())), number, nil
		}
		err = derr
	}
	return nil, number, err
}

func newResult(dr *decoder.DecoderResult, points []qrscan.ResultPoint) *qrscan.Result {
	return &qrscan.Result{
		Payload:         dr.Payload,
		Segments:        dr.Segments,
		Version:         dr.Version.Number,
		ECLevel:         dr.Format.ECLevel.String(),
		Mask:            dr.Format.Mask,
		ErrorsCorrected: dr.ErrorsCorrected,
		FixedMismatches: dr.FixedMismatches,
		Points:          points,
		Timestamp:       time.Now(),
	}
}

// stage names the decoding stage that produced err.
func stage(err error) string {
	switch {
	case errors.Is(err, qrscan.ErrInvalidCorner):
		return "corner"
	case errors.Is(err, qrscan.ErrSingularTransform):
		return "transform"
	case errors.Is(err, qrscan.ErrUnreadableVersionInfo):
		return "version"
	case errors.Is(err, qrscan.ErrUnreadableFormatInfo):
		return "format"
	case errors.Is(err, qrscan.ErrFixedModuleMismatch):
		return "fixed"
	case errors.Is(err, qrscan.ErrUncorrectableBlock):
		return "correction"
	case errors.Is(err, qrscan.ErrPrematureEndOfData),
		errors.Is(err, qrscan.ErrSegmentLengthMismatch),
		errors.Is(err, qrscan.ErrUnsupportedMode):
		return "segments"
	case errors.Is(err, errCandidatePanic):
		return "panic"
	}
	return "other"
}
