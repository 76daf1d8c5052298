package layout

import (
	"time"

	"github.com/ByLCY/ogppu/binding"
)

// DefaultStampText renders as YY.MM.DD, e.g. 25.03.07.
const DefaultStampText = "${yy}.${mm}.${dd}"

// StampPlaceholders are the names a stamp pattern may reference.
var StampPlaceholders = []string{"yy", "yyyy", "mm", "dd"}

// StampVars returns the calendar fields of t: two-digit year, four-digit
// year, zero-padded month and day. t is used in its own location.
func StampVars(t time.Time) binding.Vars {
	return binding.Vars{
		"yy":   t.Format("06"),
		"yyyy": t.Format("2006"),
		"mm":   t.Format("01"),
		"dd":   t.Format("02"),
	}
}

// FormatStamp expands pattern with the calendar fields of t.
func FormatStamp(pattern string, t time.Time) string {
	if pattern == "" {
		pattern = DefaultStampText
	}
	return binding.Interpolate(pattern, StampVars(t))
}
