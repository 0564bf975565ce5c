package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("no data found")
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrInvalidInterval  = errors.New("invalid interval")
	ErrInvalidRange     = errors.New("invalid range")
)

// UpstreamError wraps a transport or decoding failure from a data source.
type UpstreamError struct {
	Source string
	Symbol string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Source, e.Symbol, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
