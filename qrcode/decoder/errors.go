package decoder

import "errors"

var (
	errInvalidECLevel = errors.New("qrcode/decoder: invalid error correction level")
	errInvalidVersion = errors.New("qrcode/decoder: invalid version number")
)
