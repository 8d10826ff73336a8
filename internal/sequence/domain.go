package sequence

import "errors"

// Series models one named, monotonically increasing document number
// series. CurrentNumber is the last value handed out.
type Series struct {
	ID            string `json:"id"`
	SeriesType    string `json:"series_type"`
	Prefix        string `json:"prefix"`
	CurrentNumber int64  `json:"current_number"`
	Padding       int    `json:"padding"`
}

const defaultPadding = 4

// ErrStoreUnavailable indicates the backing store could not serve the
// increment; callers must not proceed with document creation.
var ErrStoreUnavailable = errors.New("sequence: store unavailable")

// ErrEmptyKey indicates a missing series or counter key.
var ErrEmptyKey = errors.New("sequence: key required")
