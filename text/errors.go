package text

import "errors"

var (
	// ErrUnknownFamily is returned when no face is registered for a family.
	ErrUnknownFamily = errors.New("text: unknown font family")

	// ErrEmptyFontData is returned when Register is given no data.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrInvalidSize is returned for non-positive or non-finite font sizes.
	ErrInvalidSize = errors.New("text: invalid font size")
)
