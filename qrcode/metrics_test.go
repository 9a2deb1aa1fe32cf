package qrcode

import (
	"context"
	"image"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/qrscan"
	"github.com/ericlevine/qrscan/binarizer"
	"github.com/ericlevine/qrscan/internal/symboltest"
	"github.com/ericlevine/qrscan/qrcode/decoder"
)

func testReader() *Reader {
	return NewReader(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func bitmap(img image.Image) *qrscan.BinaryBitmap {
	return qrscan.NewBinaryBitmap(binarizer.NewHybrid(qrscan.NewImageLuminanceSource(img)))
}

func TestDecodeCountsCallsAndCandidates(t *testing.T) {
	sym, err := symboltest.EncodeText("METRICS", decoder.ECLevelM, 2, 1)
	require.NoError(t, err)

	found := testutil.ToFloat64(decodeCalls.WithLabelValues("found"))
	decoded := testutil.ToFloat64(candidatesTotal.WithLabelValues("decoded"))
	results, err := testReader().Decode(context.Background(), bitmap(sym.Image(4, 4)))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, found+1, testutil.ToFloat64(decodeCalls.WithLabelValues("found")))
	assert.Equal(t, decoded+1, testutil.ToFloat64(candidatesTotal.WithLabelValues("decoded")))

	empty := testutil.ToFloat64(decodeCalls.WithLabelValues("empty"))
	results, err = testReader().Decode(context.Background(), bitmap(image.NewGray(image.Rect(0, 0, 64, 64))))
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, empty+1, testutil.ToFloat64(decodeCalls.WithLabelValues("empty")))
}

func TestDecodeCountsRejectedCandidates(t *testing.T) {
	sym, err := symboltest.EncodeText("REJECTED", decoder.ECLevelM, 7, 1)
	require.NoError(t, err)
	sym.FlipVersionInfo(false)
	sym.FlipVersionInfo(true)

	before := testutil.ToFloat64(candidatesTotal.WithLabelValues("version"))
	results, err := testReader().Decode(context.Background(), bitmap(sym.Image(4, 4)))
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, before+1, testutil.ToFloat64(candidatesTotal.WithLabelValues("version")))
}

func TestStage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{qrscan.ErrInvalidCorner, "corner"},
		{qrscan.ErrSingularTransform, "transform"},
		{qrscan.ErrUnreadableVersionInfo, "version"},
		{qrscan.ErrUnreadableFormatInfo, "format"},
		{qrscan.ErrFixedModuleMismatch, "fixed"},
		{qrscan.ErrUncorrectableBlock, "correction"},
		{qrscan.ErrSegmentLengthMismatch, "segments"},
		{errCandidatePanic, "panic"},
		{context.Canceled, "other"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, stage(tt.err))
		})
	}
}
