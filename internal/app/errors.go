package service

import "errors"

// Errors surfaced in an Outcome.
var (
	ErrNoDataset      = errors.New("dataset is required")
	ErrUnknownAthlete = errors.New("unknown athlete")
	ErrUnknownStat    = errors.New("unknown priority statistic")
	ErrComputation    = errors.New("recommendation failed")
)
