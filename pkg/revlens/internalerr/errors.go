package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrFetch               = errors.New("review fetch failed")
	ErrInsufficientData    = errors.New("insufficient data")
	ErrUpstreamAnalysis    = errors.New("upstream analysis failed")
	ErrNarrativeGeneration = errors.New("narrative generation failed")
	ErrCacheIO             = errors.New("cache io failure")
)
