package dataprocessing

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// releaseDateLayouts are tried in order; the first match wins.
var releaseDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-1-2",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01",
	"2006",
}

// ParseReleaseDate parses a release date cell. The second result is false
// when no accepted layout matches.
func ParseReleaseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Serial day numbers below this are read as plain years ("2020") instead.
const minSerialDate = 10000

// workbookDate converts a raw spreadsheet cell to a date. Workbooks store
// dates as serial day numbers; anything else goes through ParseReleaseDate.
// The returned text is the ISO form for serial dates and raw otherwise.
func workbookDate(raw string) (time.Time, string, bool) {
	raw = strings.TrimSpace(raw)
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial >= minSerialDate && serial < 2958466 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, t.Format("2006-01-02"), true
		}
	}
	t, ok := ParseReleaseDate(raw)
	return t, raw, ok
}
