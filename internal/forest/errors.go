package forest

import "errors"

var (
	ErrNotFitted       = errors.New("forest: model is not fitted")
	ErrFeatureMismatch = errors.New("forest: feature count does not match the fitted model")
	ErrEmpty           = errors.New("forest: empty training set")
	ErrNonFinite       = errors.New("forest: non-finite value in input")
	ErrTooFewSamples   = errors.New("forest: need at least two samples to split")
)
