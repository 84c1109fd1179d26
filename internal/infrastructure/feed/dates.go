package feed

import (
	"fmt"
	"strings"
	"time"
)

// Sheet cells come in whichever format the editor typed.
var timestampLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// ParseTimestamp reads a sheet date in the league's local time.
func ParseTimestamp(raw string, location *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if location == nil {
		location = time.UTC
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}
