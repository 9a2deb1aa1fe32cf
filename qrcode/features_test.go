package qrcode_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/disintegration/imaging"

	"github.com/ericlevine/qrscan/internal/symboltest"
	"github.com/ericlevine/qrscan/qrcode/decoder"
)

// scenario holds the state of one feature scenario.
type scenario struct {
	sym      *symboltest.Symbol
	img      image.Image
	payloads [][]byte
	versions []int
}

var levelNames = map[string]decoder.ErrorCorrectionLevel{
	"L": decoder.ECLevelL,
	"M": decoder.ECLevelM,
	"Q": decoder.ECLevelQ,
	"H": decoder.ECLevelH,
}

func (s *scenario) aSymbol(version int, level string, mask int, content string) error {
	sym, err := symboltest.EncodeText(content, levelNames[level], version, mask)
	if err != nil {
		return err
	}
	s.sym = sym
	return nil
}

func (s *scenario) image() image.Image {
	if s.img == nil && s.sym != nil {
		s.img = s.sym.Image(fixtureScale, 4)
	}
	return s.img
}

func (s *scenario) rotatedBy(degrees int) error {
	switch degrees {
	case 90:
		s.img = imaging.Rotate90(s.image())
	case 180:
		s.img = imaging.Rotate180(s.image())
	case 270:
		s.img = imaging.Rotate270(s.image())
	default:
		return fmt.Errorf("unsupported rotation %d", degrees)
	}
	return nil
}

func (s *scenario) versionCopyDamaged(which string) error {
	if s.img != nil {
		return errors.New("damage the symbol before transforming the image")
	}
	s.sym.FlipVersionInfo(which == "second")
	return nil
}

func (s *scenario) halfTheECCorrupted(block int) error {
	if s.img != nil {
		return errors.New("damage the symbol before transforming the image")
	}
	ecb := s.sym.Version.ECBlocksForLevel(s.sym.ECLevel)
	if block >= ecb.NumBlocks() {
		return fmt.Errorf("symbol has only %d blocks", ecb.NumBlocks())
	}
	for j := 0; j < ecb.ECCodewordsPerBlock/2; j++ {
		s.sym.CorruptCodeword(s.sym.BlockCodeword(block, j))
	}
	return nil
}

func (s *scenario) blankImage(width, height int) error {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	s.img = img
	return nil
}

func (s *scenario) decoded(ctx context.Context) error {
	results, err := quietReader().DecodeImage(ctx, s.image())
	if err != nil {
		return err
	}
	for _, res := range results {
		s.payloads = append(s.payloads, res.Payload)
		s.versions = append(s.versions, res.Version)
	}
	return nil
}

func (s *scenario) payloadBytes(hex string) error {
	var want []byte
	for _, f := range strings.Fields(hex) {
		b, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return err
		}
		want = append(want, byte(b))
	}
	if len(s.payloads) != 1 || string(s.payloads[0]) != string(want) {
		return fmt.Errorf("payloads % x, want % x", s.payloads, want)
	}
	return nil
}

func (s *scenario) payloadIs(text string) error {
	if len(s.payloads) != 1 || string(s.payloads[0]) != text {
		return fmt.Errorf("payloads %q, want %q", s.payloads, text)
	}
	return nil
}

func (s *scenario) versionIs(version int) error {
	if len(s.versions) != 1 || s.versions[0] != version {
		return fmt.Errorf("versions %v, want %d", s.versions, version)
	}
	return nil
}

func (s *scenario) nothingFound() error {
	if len(s.payloads) != 0 {
		return fmt.Errorf("found %q", s.payloads)
	}
	return nil
}

func initializeScenario(sc *godog.ScenarioContext) {
	s := &scenario{}
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*s = scenario{}
		return ctx, nil
	})

	sc.Step(`^a version (\d+) symbol at level ([LMQH]) with mask (\d) holding "([^"]*)"$`, s.aSymbol)
	sc.Step(`^the image is rotated by (\d+) degrees$`, s.rotatedBy)
	sc.Step(`^the (first|second) copy of the version information is damaged$`, s.versionCopyDamaged)
	sc.Step(`^half the error correction codewords of block (\d+) are corrupted$`, s.halfTheECCorrupted)
	sc.Step(`^a blank image of (\d+) by (\d+) pixels$`, s.blankImage)
	sc.Step(`^the image is decoded$`, s.decoded)
	sc.Step(`^the payload bytes are "([^"]*)"$`, s.payloadBytes)
	sc.Step(`^the payload is "([^"]*)"$`, s.payloadIs)
	sc.Step(`^the symbol version is (\d+)$`, s.versionIs)
	sc.Step(`^no symbol is found$`, s.nothingFound)
}

func TestFeatures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "features", "*.feature"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no .feature files found in testdata/features")
	}

	format := os.Getenv("GODOG_FORMAT")
	if format == "" {
		format = "progress"
	}
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   format,
			Paths:    paths,
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
