package types

import "errors"

// Error kinds returned by the engine. Callers match them with errors.Is;
// call sites wrap them with the offending value.
var (
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
	ErrMalformedDataset = errors.New("malformed dataset")
	ErrInvalidYear      = errors.New("invalid year")
	ErrInvalidSource    = errors.New("invalid source")
	ErrInvalidSelection = errors.New("invalid selection")
)
