package calibration

import "errors"

// Errors returned by the package.
var (
	ErrInvalidOrder       = errors.New("calibration: polynomial order must be 1, 2 or 3")
	ErrInsufficientPoints = errors.New("calibration: insufficient calibration points")
	ErrIllConditionedFit  = errors.New("calibration: ill-conditioned fit")
	ErrInvalidPoint       = errors.New("calibration: invalid calibration point")
	ErrInvalidDomain      = errors.New("calibration: invalid pixel domain")
	ErrProfileLoad        = errors.New("calibration: cannot load profile")
	ErrNoInverse          = errors.New("calibration: no unique inverse")
)
