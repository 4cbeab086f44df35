package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrAssetLoad matches every AssetLoadError
	ErrAssetLoad = errors.New("asset load failed")
	// ErrAlreadyCompleted is returned when a Future is completed twice
	ErrAlreadyCompleted = errors.New("future already completed")
)

// AssetLoadError reports that the model could not be loaded, either because
// the loader failed or because it did not finish in time
type AssetLoadError struct {
	Ref string
	Err error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Ref, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}

func (e *AssetLoadError) Is(target error) bool {
	return target == ErrAssetLoad
}
