package snapshot

import (
	"errors"
	"fmt"
)

// Sentinel kinds for snapshot errors.
var (
	ErrDataLoad        = errors.New("data load failed")
	ErrUnknownFormat   = errors.New("unknown snapshot format")
	ErrMissingColumn   = errors.New("missing required column")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrMalformedRow    = errors.New("malformed row")
	ErrEmptySnapshot   = errors.New("empty snapshot")
)

// DataLoadError reports a missing or malformed snapshot. It is fatal to the
// session: nothing can be recommended without a dataset.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load snapshot %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Is matches ErrDataLoad.
func (e *DataLoadError) Is(target error) bool { return target == ErrDataLoad }
