package envelope

import "errors"

var (
	// ErrNoLevels indicates that a curve was constructed without any level.
	ErrNoLevels = errors.New("envelope: at least one level is required")
	// ErrCountMismatch indicates inconsistent numbers of levels, durations
	// and shapes.
	ErrCountMismatch = errors.New("envelope: inconsistent number of levels, durations and shapes")
	// ErrNegativeDuration indicates a segment that would end before it starts.
	ErrNegativeDuration = errors.New("envelope: negative duration")

	// ErrDomain indicates a shape that cannot be computed for the given levels.
	ErrDomain = errors.New("envelope: domain error")

	// ErrOutOfRange indicates a time outside the range an operation requires.
	ErrOutOfRange = errors.New("envelope: time out of range")
	// ErrNegativeTime indicates a negative time where only non-negative times
	// are defined.
	ErrNegativeTime = errors.New("envelope: negative time")

	// ErrRangeMismatch indicates that two segments or curves being combined
	// do not cover identical time ranges.
	ErrRangeMismatch = errors.New("envelope: time ranges differ")
	// ErrEmpty indicates a pop from a curve with nothing left to remove.
	ErrEmpty = errors.New("envelope: pop from empty curve")
	// ErrDivideByZero indicates a division by a segment or value that is
	// zero somewhere in its range.
	ErrDivideByZero = errors.New("envelope: division by zero")
	// ErrCompactForm indicates a value that is not one of the compact forms.
	ErrCompactForm = errors.New("envelope: invalid compact form")

	// ErrNonPositiveLevel indicates that an integration bound cannot be found
	// because the curve is not positive where the search has to advance.
	ErrNonPositiveLevel = errors.New("envelope: non-positive level in integration bound search")
	// ErrNoConvergence indicates that an integration bound search exhausted
	// its iteration budget.
	ErrNoConvergence = errors.New("envelope: integration bound search did not converge")
)
