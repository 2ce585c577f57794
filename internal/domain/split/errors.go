package split

import "errors"

var (
	// ErrFeaturesDisabled indicates the reader was built without the item
	// feature capability, as opposed to a lookup with no matches.
	ErrFeaturesDisabled = errors.New("item features not enabled")
)
