package reveal

import (
	"errors"

	"github.com/jask/packreveal/internal/catalog"
)

// FailureText is shown in PhaseError. The cause is logged, not displayed.
const FailureText = "Could not load the card catalog."

// ErrorPhaseReason maps a catalog failure to the text shown to the user.
func ErrorPhaseReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, catalog.ErrEmptyCatalog):
		return "The card catalog has no usable cards."
	default:
		return FailureText
	}
}
