package domain

import "errors"

var (
	// ErrValidation marks input rejected before anything is written: a yes/no
	// answer that is neither, a malformed token, an invalid profile.
	ErrValidation = errors.New("validation error")

	// ErrInconsistent marks an event value outside the known variants. Hitting
	// it means a modeling bug, not bad input.
	ErrInconsistent = errors.New("internal consistency error")

	// ErrIndex marks a window whose width does not match the feature schema.
	ErrIndex = errors.New("indexing error")

	// ErrTraining marks a preference model that could not be fit.
	ErrTraining = errors.New("training error")

	// ErrLogExists is returned when initializing over an existing feedback log.
	ErrLogExists = errors.New("feedback log already exists")
)
