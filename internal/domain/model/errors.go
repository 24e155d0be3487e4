package model

import "errors"

// Sentinel kinds for dataset construction errors.
var (
	ErrEmptyFeatureSet   = errors.New("empty feature set")
	ErrDuplicateFeature  = errors.New("duplicate feature")
	ErrRadarFeatureCount = errors.New("radar feature set must have 7 statistics")
	ErrRadarNotNumeric   = errors.New("radar feature is not a numeric column")
	ErrMissingName       = errors.New("athlete without name")
)
