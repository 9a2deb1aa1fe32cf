package qrscan

import "errors"

// Errors reported by the individual decoding stages. None of them reaches the
// caller of a full decode: each one only discards the candidate symbol that
// produced it.
var (
	// ErrNoFindersFound is returned when fewer than three finder patterns
	// survive the row and column scans.
	ErrNoFindersFound = errors.New("no finder patterns found")

	// ErrInvalidCorner is returned when three finders do not form a right
	// angled corner or imply a version outside 1..40.
	ErrInvalidCorner = errors.New("invalid finder corner")

	// ErrSingularTransform is returned when the module to pixel mapping
	// cannot be solved for the given reference points.
	ErrSingularTransform = errors.New("singular transform")

	// ErrUnreadableFormatInfo is returned when neither copy of the format
	// code is within three bits of a valid code.
	ErrUnreadableFormatInfo = errors.New("unreadable format information")

	// ErrUnreadableVersionInfo is returned when neither copy of the version
	// code is within three bits of a valid code.
	ErrUnreadableVersionInfo = errors.New("unreadable version information")

	// ErrFixedModuleMismatch is returned when too many function pattern
	// modules disagree with their expected color.
	ErrFixedModuleMismatch = errors.New("fixed module mismatch exceeded")

	// ErrUncorrectableBlock is returned when a Reed-Solomon block holds more
	// errors than it can repair.
	ErrUncorrectableBlock = errors.New("uncorrectable block")

	// ErrPrematureEndOfData is returned when a segment needs more bits than
	// the data codewords hold.
	ErrPrematureEndOfData = errors.New("premature end of data")

	// ErrSegmentLengthMismatch is returned when a segment decodes to a
	// different number of characters than its header declares.
	ErrSegmentLengthMismatch = errors.New("segment length mismatch")

	// ErrUnsupportedMode is returned for mode indicators this decoder does
	// not understand.
	ErrUnsupportedMode = errors.New("unsupported segment mode")
)
