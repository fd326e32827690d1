package cleaner

import "errors"

// Sentinel errors for clean failures. Match with errors.Is.
var (
	// ErrMissingColumn indicates the packed category column is absent.
	ErrMissingColumn = errors.New("missing packed category column")

	// ErrMalformedToken indicates a category token is not "label-value"
	// with an integer value, or the label set is unusable.
	ErrMalformedToken = errors.New("malformed category token")

	// ErrRaggedCategories indicates a row does not decode against the label
	// set fixed from the first row.
	ErrRaggedCategories = errors.New("category row does not match label set")

	// ErrMissingLabel indicates the sentinel label was not among the labels.
	ErrMissingLabel = errors.New("sentinel label not found")
)
