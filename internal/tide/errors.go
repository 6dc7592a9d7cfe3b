package tide

import "errors"

// ErrInsufficientData is the only error the engine raises: the series is too short,
// or the query falls outside it with no fallback allowed.
var ErrInsufficientData = errors.New("insufficient tide data")
