package importer

import (
	"math"
	"strconv"
	"strings"
	"time"

	types "github.com/oapi-codegen/runtime/types"
	"github.com/xuri/excelize/v2"
)

var isoLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateTime,
	"2006/01/02",
}

// ParseDate turns a cell into a calendar date. Native times keep their UTC
// day, numbers are spreadsheet serials, strings are dd/mm/yyyy or ISO.
// ok is false for anything else; it never fails loudly.
func ParseDate(c any) (d types.Date, ok bool) {
	switch v := c.(type) {
	case nil:
		return d, false
	case time.Time:
		if v.IsZero() {
			return d, false
		}
		return dateOf(v.UTC()), true
	case float64:
		return fromSerial(v)
	case int:
		return fromSerial(float64(v))
	case string:
		return parseDateString(v)
	}
	return d, false
}

// DatePtr is ParseDate for optional fields.
func DatePtr(c any) *types.Date {
	d, ok := ParseDate(c)
	if !ok {
		return nil
	}
	return &d
}

func fromSerial(serial float64) (types.Date, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 {
		return types.Date{}, false
	}
	// whole days only, the time part would shift the day in local zones
	t, err := excelize.ExcelDateToTime(math.Floor(serial+1e-9), false)
	if err != nil {
		return types.Date{}, false
	}
	return dateOf(t.UTC()), true
}

func parseDateString(s string) (types.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.Date{}, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(f)
	}
	if parts := strings.Split(s, "/"); len(parts) == 3 {
		if d, ok := parseDayMonthYear(parts); ok {
			return d, true
		}
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOf(t.UTC()), true
		}
	}
	return types.Date{}, false
}

func parseDayMonthYear(parts []string) (types.Date, bool) {
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return types.Date{}, false
		}
		n[i] = v
	}
	day, month, year := n[0], n[1], n[2]
	if year >= 0 && year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || year < 1000 || year > 9999 {
		return types.Date{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// 31/02 rolls over in time.Date; reject it instead
	if t.Day() != day || int(t.Month()) != month {
		return types.Date{}, false
	}
	return types.Date{Time: t}, true
}

func dateOf(t time.Time) types.Date {
	return types.Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// FormatDate renders the ISO yyyy-mm-dd form.
func FormatDate(d *types.Date) string {
	if d == nil {
		return ""
	}
	return d.Format(time.DateOnly)
}
