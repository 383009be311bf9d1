package assets

import (
	"errors"
	"fmt"

	"github.com/jask/packreveal/internal/catalog"
)

// ErrAssetLoad marks a single asset that could not be fetched or decoded.
// It never aborts a preload.
var ErrAssetLoad = errors.New("asset load failed")

// LoadError carries the card and face whose asset failed.
type LoadError struct {
	CardID string
	Face   catalog.Face
	Ref    string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: card %s %s (%s): %v", ErrAssetLoad, e.CardID, e.Face, e.Ref, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrAssetLoad, e.Err}
}
