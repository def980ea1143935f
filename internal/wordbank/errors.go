package wordbank

import "errors"

// Sentinel errors for the wordbank package.
// Use errors.Is to check: errors.Is(err, wordbank.ErrMissingColumn)
var (
	ErrMissingColumn     = errors.New("wordbank: required column missing")
	ErrMalformed         = errors.New("wordbank: malformed record")
	ErrUnsupportedFormat = errors.New("wordbank: unsupported word bank format")
)
