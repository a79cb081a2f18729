package calrun

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedIdentifier = errors.New("malformed identifier")
	ErrLoad                = errors.New("load error")
	ErrUnknownFormat       = errors.New("unknown format")

	// ErrNoMeasurementStage is wrapped by a LoadError when a Stone export
	// never reaches MeasurementStage.
	ErrNoMeasurementStage = errors.New("no sample reached the measurement stage")
)

// IdentifierError reports a source name that does not encode a concentration.
type IdentifierError struct {
	Identifier string
	Segments   int
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("%s: %s: need at least 2 underscore-delimited segments, got %d", ErrMalformedIdentifier, e.Identifier, e.Segments)
}

func (e *IdentifierError) Unwrap() error { return ErrMalformedIdentifier }

// LoadError reports a source that could not be read or normalized. Line is
// 1-based and zero when the problem is not tied to one line.
type LoadError struct {
	Source string
	Line   int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s (line %d): %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// FormatError reports an unrecognized format tag.
type FormatError struct {
	Tag string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("Format %q is not found. Valid format names include: %s", e.Tag, FormatNames())
}

func (e *FormatError) Unwrap() error { return ErrUnknownFormat }
