package qrcode_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/liyue201/goqr"
	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	zxdecoder "github.com/makiuchi-d/gozxing/qrcode/decoder"
	skip2 "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/qrscan/qrcode"
)

// goqr reorders the digits of numeric segments, so it only checks contents
// that skip2 encodes without one.
var oracleContents = []struct {
	content string
	goqr    bool
}{
	{"12345", false},
	{"AC-42", true},
	{"https://example.com/items?id=9f2c", true},
	{"The quick brown fox jumps over the lazy dog 0123456789", false},
}

func goqrPayloads(t *testing.T, img image.Image) []string {
	t.Helper()
	codes, err := goqr.Recognize(img)
	require.NoError(t, err)
	var out []string
	for _, c := range codes {
		b := make([]byte, 0, len(c.Payload))
		for _, v := range c.Payload {
			b = append(b, byte(v))
		}
		out = append(out, string(b))
	}
	return out
}

func gozxingText(t *testing.T, img image.Image) string {
	t.Helper()
	bmp, err := gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(gozxing.NewLuminanceSourceFromImage(img)))
	require.NoError(t, err)
	res, err := zxqrcode.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	return res.GetText()
}

// Every symbol is read identically by this decoder and by independent ones.
func TestDecodeAgreesWithOtherDecoders(t *testing.T) {
	for _, tt := range oracleContents {
		t.Run(tt.content, func(t *testing.T) {
			img := skip2Image(t, tt.content, 0, skip2.Medium, fixtureScale)
			ours := qrcode.DecodeStrings(img)
			require.Equal(t, []string{tt.content}, ours)
			assert.Equal(t, tt.content, gozxingText(t, img))
			if tt.goqr {
				assert.Equal(t, ours, goqrPayloads(t, img))
			}
		})
	}
}

func gozxingImage(t *testing.T, content string, level zxdecoder.ErrorCorrectionLevel) *image.Gray {
	t.Helper()
	hints := map[gozxing.EncodeHintType]interface{}{
		gozxing.EncodeHintType_ERROR_CORRECTION: level,
		gozxing.EncodeHintType_MARGIN:           4,
	}
	bm, err := zxqrcode.NewQRCodeWriter().Encode(content, gozxing.BarcodeFormat_QR_CODE, 300, 300, hints)
	require.NoError(t, err)
	img := image.NewGray(image.Rect(0, 0, bm.GetWidth(), bm.GetHeight()))
	for y := 0; y < bm.GetHeight(); y++ {
		for x := 0; x < bm.GetWidth(); x++ {
			if bm.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 0xFF})
			}
		}
	}
	return img
}

// Symbols from a second, unrelated encoder decode as well.
func TestDecodeSymbolsFromAnotherEncoder(t *testing.T) {
	levels := map[string]zxdecoder.ErrorCorrectionLevel{
		"L": zxdecoder.ErrorCorrectionLevel_L,
		"M": zxdecoder.ErrorCorrectionLevel_M,
		"Q": zxdecoder.ErrorCorrectionLevel_Q,
		"H": zxdecoder.ErrorCorrectionLevel_H,
	}
	r := quietReader()
	for name, level := range levels {
		for _, oc := range oracleContents {
			content := oc.content
			t.Run(name+"/"+content, func(t *testing.T) {
				res := decodeOne(t, r, gozxingImage(t, content, level))
				assert.Equal(t, content, string(res.Payload))
				assert.Equal(t, name, res.ECLevel)
			})
		}
	}
}
