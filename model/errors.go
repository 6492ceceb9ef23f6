package model

import "errors"

// ErrNotFound reports that no provider in the context can supply the
// requested class. Hydrators treat it as "skip this fact", not as a
// failure of the pass.
var ErrNotFound = errors.New("model: class not found")
