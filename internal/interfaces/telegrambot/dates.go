package telegrambot

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var dateParser = newDateParser()

func newDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// parseDate accepts YYYY-mm-dd, dd/mm/yy or natural language relative to now
// ("tomorrow", "next friday"). The result is the start of that day in loc.
func parseDate(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", "02/01/06"} {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}

	result, err := dateParser.Parse(strings.ToLower(raw), now.In(loc))
	if err != nil || result == nil {
		return time.Time{}, fmt.Errorf("wrong date format %s", raw)
	}
	t := result.Time.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}
