package ranking

import (
	"errors"
	"fmt"
)

// Sentinel kinds for ranking errors.
var (
	ErrInvalidReference = errors.New("invalid reference athlete")
	ErrUnknownStat      = errors.New("unknown priority statistic")
)

// Reasons an athlete cannot be used as a reference.
const (
	ReasonNoMarketValue      = "market value unknown"
	ReasonIncompleteFeatures = "incomplete feature values"
)

// InvalidReferenceError reports a reference athlete that lacks the data
// needed to build its vector or bucket boundaries.
type InvalidReferenceError struct {
	Name   string
	Reason string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid reference %q: %s", e.Name, e.Reason)
}

// Is matches ErrInvalidReference.
func (e *InvalidReferenceError) Is(target error) bool { return target == ErrInvalidReference }

// UnknownStatError reports a priority statistic outside the feature set.
type UnknownStatError struct {
	Stat string
}

func (e *UnknownStatError) Error() string {
	return fmt.Sprintf("unknown priority statistic %q", e.Stat)
}

// Is matches ErrUnknownStat.
func (e *UnknownStatError) Is(target error) bool { return target == ErrUnknownStat }
